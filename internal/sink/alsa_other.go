//go:build !linux || !cgo || headless

package sink

func openALSA(Options) (Sink, Format, error) {
	return nil, Format{}, ErrUnsupported
}
