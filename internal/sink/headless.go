//go:build headless

package sink

func openOto(Options) (Sink, Format, error) {
	return nil, Format{}, ErrUnsupported
}

func openPortAudio(Options) (Sink, Format, error) {
	return nil, Format{}, ErrUnsupported
}
