package sink

// Memory captures written samples. It is the sink used for rendering and
// for tests, where faults and short writes can be injected.
type Memory struct {
	// MaxWrite caps the frames accepted per Write; 0 accepts everything.
	MaxWrite int

	samples   []int16
	discard   bool
	frames    int
	faults    []error
	writes    int
	recovered int
	drained   int
	closed    bool
}

// NewMemory returns a sink that keeps every sample.
func NewMemory() *Memory { return &Memory{} }

// NewDiscard returns a sink that only counts frames.
func NewDiscard() *Memory { return &Memory{discard: true} }

// InjectFault queues err to be returned by a later Write, in call order.
func (m *Memory) InjectFault(err error) {
	m.faults = append(m.faults, err)
}

func (m *Memory) Write(samples []int16) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	m.writes++
	if len(m.faults) > 0 {
		err := m.faults[0]
		m.faults = m.faults[1:]
		return 0, err
	}
	n := len(samples)
	if m.MaxWrite > 0 && n > m.MaxWrite {
		n = m.MaxWrite
	}
	if !m.discard {
		m.samples = append(m.samples, samples[:n]...)
	}
	m.frames += n
	return n, nil
}

func (m *Memory) Recover() error {
	m.recovered++
	return nil
}

func (m *Memory) Drain() error {
	if m.closed {
		return ErrClosed
	}
	m.drained++
	return nil
}

func (m *Memory) Close() error {
	m.closed = true
	return nil
}

// Samples returns everything written so far.
func (m *Memory) Samples() []int16 { return m.samples }

// Frames returns the number of frames accepted, kept or not.
func (m *Memory) Frames() int { return m.frames }

// Writes returns the number of Write calls.
func (m *Memory) Writes() int { return m.writes }

// Recovered returns the number of Recover calls.
func (m *Memory) Recovered() int { return m.recovered }

// Drained returns the number of Drain calls.
func (m *Memory) Drained() int { return m.drained }

// Closed reports whether Close was called.
func (m *Memory) Closed() bool { return m.closed }
