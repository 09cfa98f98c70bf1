package audio

import "sync"

// EncodeBuffers holds the scratch space for encoding one Opus frame.
// Used via sync.Pool so rendering many requests does not allocate per frame.
type EncodeBuffers struct {
	PCM    []int16 // cap: MaxFrameSize
	Packet []byte  // cap: MaxPacketSize
}

var encodePool = sync.Pool{
	New: func() interface{} {
		return &EncodeBuffers{
			PCM:    make([]int16, MaxFrameSize),
			Packet: make([]byte, MaxPacketSize),
		}
	},
}

// AcquireEncodeBuffers gets a set of buffers from the pool.
func AcquireEncodeBuffers() *EncodeBuffers {
	return encodePool.Get().(*EncodeBuffers)
}

// ReleaseEncodeBuffers returns buffers to the pool.
func ReleaseEncodeBuffers(b *EncodeBuffers) {
	encodePool.Put(b)
}
