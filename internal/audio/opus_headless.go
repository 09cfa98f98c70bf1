//go:build headless

package audio

import "io"

type Encoder struct{}

func NewEncoder(int) (*Encoder, error) { return nil, ErrUnsupported }

func (e *Encoder) FrameSize() int { return 0 }

func (e *Encoder) Encode([]int16, []byte) ([]byte, error) { return nil, ErrUnsupported }

func (e *Encoder) EncodeStream(io.Writer, []int16) (int, error) { return 0, ErrUnsupported }

type Decoder struct{}

func NewDecoder(int) (*Decoder, error) { return nil, ErrUnsupported }

func (d *Decoder) Decode([]byte) ([]int16, error) { return nil, ErrUnsupported }

func (d *Decoder) DecodeStream(io.Reader) ([]int16, error) { return nil, ErrUnsupported }
