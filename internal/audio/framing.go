package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// FrameDuration is the Opus frame length used for rendering, in ms.
	FrameDuration = 20
	// MaxFrameSize is the largest 20 ms mono frame, at 48 kHz.
	MaxFrameSize = 48000 * FrameDuration / 1000
	// MaxPacketSize bounds one encoded packet.
	MaxPacketSize = 4000
)

// ErrUnsupported is returned when Opus support is not compiled in.
var ErrUnsupported = errors.New("audio: opus not available in this build")

// ValidOpusRate reports whether Opus can encode at rate.
func ValidOpusRate(rate int) bool {
	switch rate {
	case 8000, 12000, 16000, 24000, 48000:
		return true
	}
	return false
}

// FrameSize returns the samples in one frame at rate.
func FrameSize(rate int) int {
	return rate * FrameDuration / 1000
}

// WritePacket writes p preceded by its length as a big-endian uint16.
func WritePacket(w io.Writer, p []byte) error {
	if len(p) > 0xffff {
		return fmt.Errorf("packet of %d bytes too large", len(p))
	}
	var hdr [2]byte
	binary.BigEndian.PutUint16(hdr[:], uint16(len(p)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(p)
	return err
}

// ReadPacket reads one length-prefixed packet into buf. It returns io.EOF
// only at a clean packet boundary.
func ReadPacket(r io.Reader, buf []byte) ([]byte, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint16(hdr[:]))
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}
