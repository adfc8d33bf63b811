// ABOUTME: Raw stream handle surface
// ABOUTME: The interface a backend exposes for one native output stream
package sio

import (
	"encoding/binary"
	"math"
)

// ChannelArea describes one channel's writable memory for the duration of a
// write transaction. Sample i of the channel starts Step*i bytes into Buf.
// Step may exceed the sample width: backends are free to hand out interleaved
// or otherwise non-contiguous channel memory.
type ChannelArea struct {
	Buf  []byte
	Step int
}

// PutFloat32 stores a float32 LE sample for the given frame.
func (a ChannelArea) PutFloat32(frame int, sample float32) {
	binary.LittleEndian.PutUint32(a.Buf[frame*a.Step:], math.Float32bits(sample))
}

// Float32 loads the float32 LE sample stored for the given frame.
func (a ChannelArea) Float32(frame int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(a.Buf[frame*a.Step:]))
}

// PutInt16 stores a signed 16-bit LE sample for the given frame.
func (a ChannelArea) PutInt16(frame int, sample int16) {
	binary.LittleEndian.PutUint16(a.Buf[frame*a.Step:], uint16(sample))
}

// Int16 loads the signed 16-bit LE sample stored for the given frame.
func (a ChannelArea) Int16(frame int) int16 {
	return int16(binary.LittleEndian.Uint16(a.Buf[frame*a.Step:]))
}

// Trampoline signatures installed on a raw stream. Backends invoke these from
// their own audio goroutines; the only context they carry besides the raw
// handle is the stream's opaque userdata value.
type (
	// WriteFn is invoked when the stream can accept between minFrames and
	// maxFrames frames of audio.
	WriteFn func(raw RawStream, minFrames, maxFrames int)

	// UnderflowFn is invoked when the stream's buffer ran dry before the
	// backend could consume it.
	UnderflowFn func(raw RawStream)

	// ErrorFn is invoked when the backend hits an unrecoverable streaming
	// error.
	ErrorFn func(raw RawStream, err Error)
)

// RawDevice is the backend's handle for the device a stream plays through.
// Reference counting is owned by the backend: every holder that received the
// device through Ref must eventually call Unref.
type RawDevice interface {
	ID() string
	Name() string
	Ref()
	Unref()
}

// RawStream is the surface of one native output stream as a backend exposes
// it. All calls returning Error yield ErrorNone on success. The userdata
// value is opaque to the backend: it stores whatever was last set and passes
// it back unmodified through Userdata during callback delivery.
type RawStream interface {
	Open() Error
	Start() Error

	// BeginWrite opens a write transaction for up to frameCount frames and
	// returns one area per channel plus the actual frame count granted,
	// which may be less than requested.
	BeginWrite(frameCount int) ([]ChannelArea, int, Error)
	// EndWrite commits the frames granted by the matching BeginWrite.
	EndWrite() Error

	ClearBuffer() Error
	Pause(pause bool) Error
	Latency() (float64, Error)
	Destroy()

	Layout() ChannelLayout
	Format() Format
	SampleRate() int
	Device() RawDevice

	SetWriteCallback(WriteFn)
	SetUnderflowCallback(UnderflowFn)
	SetErrorCallback(ErrorFn)
	SetUserdata(uintptr)
	Userdata() uintptr
}
