// ABOUTME: Tests for channel area addressing
// ABOUTME: Verifies base+step sample placement for packed and strided layouts
package sio

import (
	"testing"
)

func TestAreaPackedLayout(t *testing.T) {
	buf := make([]byte, 16)
	area := ChannelArea{Buf: buf, Step: 4}

	area.PutFloat32(0, 0.25)
	area.PutFloat32(3, -1.0)

	if got := area.Float32(0); got != 0.25 {
		t.Errorf("frame 0: expected 0.25, got %f", got)
	}
	if got := area.Float32(3); got != -1.0 {
		t.Errorf("frame 3: expected -1.0, got %f", got)
	}
}

func TestAreaStridedLayout(t *testing.T) {
	// Two interleaved float32 channels: step is twice the sample width.
	slab := make([]byte, 32)
	left := ChannelArea{Buf: slab, Step: 8}
	right := ChannelArea{Buf: slab[4:], Step: 8}

	for frame := 0; frame < 4; frame++ {
		left.PutFloat32(frame, float32(frame))
		right.PutFloat32(frame, float32(-frame))
	}

	for frame := 0; frame < 4; frame++ {
		if got := left.Float32(frame); got != float32(frame) {
			t.Errorf("left frame %d: got %f", frame, got)
		}
		if got := right.Float32(frame); got != float32(-frame) {
			t.Errorf("right frame %d: got %f", frame, got)
		}
	}
}

func TestAreaInt16(t *testing.T) {
	buf := make([]byte, 12)
	area := ChannelArea{Buf: buf, Step: 6}

	area.PutInt16(0, 32767)
	area.PutInt16(1, -32768)

	if got := area.Int16(0); got != 32767 {
		t.Errorf("frame 0: expected 32767, got %d", got)
	}
	if got := area.Int16(1); got != -32768 {
		t.Errorf("frame 1: expected -32768, got %d", got)
	}
}
