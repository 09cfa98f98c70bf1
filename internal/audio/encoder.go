//go:build !headless

package audio

import (
	"fmt"
	"io"

	"github.com/hraban/opus"
)

// Encoder converts mono PCM to 20 ms Opus frames.
type Encoder struct {
	enc       *opus.Encoder
	frameSize int
}

// NewEncoder creates an encoder for mono audio at rate, which must be one of
// the Opus rates.
func NewEncoder(rate int) (*Encoder, error) {
	if !ValidOpusRate(rate) {
		return nil, fmt.Errorf("opus cannot encode at %d Hz", rate)
	}
	enc, err := opus.NewEncoder(rate, 1, opus.AppAudio)
	if err != nil {
		return nil, err
	}
	return &Encoder{enc: enc, frameSize: FrameSize(rate)}, nil
}

// FrameSize returns the samples consumed per packet.
func (e *Encoder) FrameSize() int { return e.frameSize }

// Encode encodes exactly one frame of pcm into dst and returns the packet.
func (e *Encoder) Encode(pcm []int16, dst []byte) ([]byte, error) {
	if len(pcm) != e.frameSize {
		return nil, fmt.Errorf("frame of %d samples, want %d", len(pcm), e.frameSize)
	}
	n, err := e.enc.Encode(pcm, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// EncodeStream encodes samples as length-prefixed packets onto w. The last
// frame is padded with silence. It returns the number of packets written.
func (e *Encoder) EncodeStream(w io.Writer, samples []int16) (int, error) {
	bufs := AcquireEncodeBuffers()
	defer ReleaseEncodeBuffers(bufs)

	packets := 0
	for off := 0; off < len(samples); off += e.frameSize {
		frame := bufs.PCM[:e.frameSize]
		n := copy(frame, samples[off:])
		clear(frame[n:])
		pkt, err := e.Encode(frame, bufs.Packet)
		if err != nil {
			return packets, fmt.Errorf("encode frame %d: %w", packets, err)
		}
		if err := WritePacket(w, pkt); err != nil {
			return packets, err
		}
		packets++
	}
	return packets, nil
}
