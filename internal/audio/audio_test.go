package audio

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestInt16BytesRoundTrip(t *testing.T) {
	in := []int16{0, 1, -1, 32767, -32768, 0x1234}
	b := Int16ToBytes(in)
	if len(b) != 2*len(in) {
		t.Fatalf("got %d bytes", len(b))
	}
	if b[10] != 0x34 || b[11] != 0x12 {
		t.Errorf("not little endian: % x", b[10:])
	}
	out := BytesToInt16(b)
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d = %d, want %d", i, out[i], in[i])
		}
	}
}

func TestPacketFraming(t *testing.T) {
	var buf bytes.Buffer
	packets := [][]byte{{1, 2, 3}, {}, bytes.Repeat([]byte{7}, 300)}
	for _, p := range packets {
		if err := WritePacket(&buf, p); err != nil {
			t.Fatal(err)
		}
	}
	scratch := make([]byte, 16)
	for i, want := range packets {
		got, err := ReadPacket(&buf, scratch)
		if err != nil {
			t.Fatalf("packet %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("packet %d: got %d bytes, want %d", i, len(got), len(want))
		}
	}
	if _, err := ReadPacket(&buf, scratch); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF at the end, got %v", err)
	}
}

func TestReadPacketTruncated(t *testing.T) {
	r := bytes.NewReader([]byte{0, 5, 1, 2})
	if _, err := ReadPacket(r, nil); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestFrameSize(t *testing.T) {
	tests := []struct {
		rate, want int
		valid      bool
	}{
		{48000, 960, true},
		{16000, 320, true},
		{8000, 160, true},
		{44100, 882, false},
	}
	for _, tt := range tests {
		if got := FrameSize(tt.rate); got != tt.want {
			t.Errorf("FrameSize(%d) = %d, want %d", tt.rate, got, tt.want)
		}
		if got := ValidOpusRate(tt.rate); got != tt.valid {
			t.Errorf("ValidOpusRate(%d) = %v", tt.rate, got)
		}
	}
}
