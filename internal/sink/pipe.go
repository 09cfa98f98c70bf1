package sink

import "sync"

// pipe hands samples from the blocking Write side to a pull-mode backend
// callback. The callback never blocks: when the pipe is empty after playback
// started it plays silence and records an underrun, which the next Write
// reports.
type pipe struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf   []int16
	start int
	n     int

	started  bool
	draining bool
	closed   bool
	underrun bool
}

func newPipe(capacity int) *pipe {
	p := &pipe{buf: make([]int16, capacity)}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// write copies as much of samples as fits, blocking while the pipe is full.
func (p *pipe) write(samples []int16) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		if p.closed {
			return 0, ErrClosed
		}
		if p.underrun {
			return 0, ErrUnderrun
		}
		if p.n < len(p.buf) {
			break
		}
		p.cond.Wait()
	}

	written := 0
	for written < len(samples) && p.n < len(p.buf) {
		end := (p.start + p.n) % len(p.buf)
		limit := len(p.buf) - p.n
		if end+limit > len(p.buf) {
			limit = len(p.buf) - end
		}
		c := copy(p.buf[end:end+limit], samples[written:])
		p.n += c
		written += c
	}
	p.started = true
	p.cond.Broadcast()
	return written, nil
}

// read fills out for the backend. eof is set once a drain has emptied the
// pipe.
func (p *pipe) read(out []int16) (n int, eof bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.n == 0 {
		if p.draining || p.closed {
			return 0, true
		}
		if p.started {
			p.underrun = true
			p.cond.Broadcast()
		}
		clear(out)
		return len(out), false
	}

	for n < len(out) && p.n > 0 {
		limit := p.n
		if p.start+limit > len(p.buf) {
			limit = len(p.buf) - p.start
		}
		c := copy(out[n:], p.buf[p.start:p.start+limit])
		p.start = (p.start + c) % len(p.buf)
		p.n -= c
		n += c
	}
	p.cond.Broadcast()
	return n, false
}

// recover clears the underrun and drops whatever was still queued.
func (p *pipe) recover() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.underrun = false
	p.started = false
	p.start, p.n = 0, 0
	p.cond.Broadcast()
}

// beginDrain makes read report eof once the queue empties. It waits for that
// to happen.
func (p *pipe) beginDrain() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.draining = true
	p.cond.Broadcast()
	for p.n > 0 && !p.closed {
		p.cond.Wait()
	}
	return nil
}

func (p *pipe) endDrain() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draining = false
	p.started = false
	p.underrun = false
}

func (p *pipe) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.cond.Broadcast()
}

func (p *pipe) buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}
