// ABOUTME: Stream backend package
// ABOUTME: Concrete sio.RawStream implementations over audio output libraries
// Package backend provides stream handles for pkg/sio.
//
// Three backends are available: Oto (pure Go, the default), Malgo
// (miniaudio), and PortAudio (build with -tags portaudio). All of them share
// the same transaction model: BeginWrite hands out per-channel areas into an
// interleaved staging buffer, EndWrite commits the staged frames into a ring
// buffer, and the backend's device drains the ring on its own schedule.
//
// Example:
//
//	raw := backend.NewOto(backend.Options{SampleRate: 48000})
//	stream := sio.New(raw)
//	err := stream.Open()
package backend
