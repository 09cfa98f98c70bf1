//go:build !headless

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/hraban/opus"
)

// Decoder converts Opus packets back to mono PCM.
type Decoder struct {
	dec *opus.Decoder
	pcm []int16
}

func NewDecoder(rate int) (*Decoder, error) {
	if !ValidOpusRate(rate) {
		return nil, fmt.Errorf("opus cannot decode at %d Hz", rate)
	}
	dec, err := opus.NewDecoder(rate, 1)
	if err != nil {
		return nil, err
	}
	return &Decoder{dec: dec, pcm: make([]int16, MaxFrameSize)}, nil
}

// Decode decodes one packet. The returned slice is reused by the next call.
func (d *Decoder) Decode(packet []byte) ([]int16, error) {
	n, err := d.dec.Decode(packet, d.pcm)
	if err != nil {
		return nil, err
	}
	return d.pcm[:n], nil
}

// DecodeStream decodes length-prefixed packets from r until EOF.
func (d *Decoder) DecodeStream(r io.Reader) ([]int16, error) {
	var (
		out []int16
		buf = make([]byte, MaxPacketSize)
	)
	for {
		pkt, err := ReadPacket(r, buf)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		pcm, err := d.Decode(pkt)
		if err != nil {
			return out, err
		}
		out = append(out, pcm...)
	}
}
