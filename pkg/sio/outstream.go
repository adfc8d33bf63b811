// ABOUTME: Output stream wrapper
// ABOUTME: Bridges backend callback delivery to application closures and checks buffered writes
package sio

import "sync"

// Application-facing callback types. The stream passed to each callback is a
// non-owning view rebuilt around the raw handle; it is valid for the duration
// of the callback and supports the full write surface.
type (
	// WriteCallback is invoked when the stream can accept between minFrames
	// and maxFrames frames of audio.
	WriteCallback func(stream *OutStream, minFrames, maxFrames int)

	// UnderflowCallback is invoked when the stream's buffer ran dry.
	UnderflowCallback func(stream *OutStream)

	// ErrorCallback is invoked on unrecoverable streaming errors.
	ErrorCallback func(stream *OutStream, err Error)
)

// callbacks maps the three callback roles to at most one closure each. The
// latest registration for a role replaces any previous one. Registration is
// not synchronized against callback delivery: all registration must happen
// before Start.
type callbacks struct {
	write     WriteCallback
	underflow UnderflowCallback
	error     ErrorCallback
}

// Callback holders are handed to backends as the stream's opaque userdata.
// A plain Go pointer cannot cross that boundary, so holders live in a
// package-level registry keyed by uintptr and the key travels as userdata.
// The registry entry stays put for as long as the backend may deliver
// callbacks, which is the stability invariant the trampolines rely on.
var (
	holdersMu  sync.Mutex
	holders    = map[uintptr]*callbacks{}
	nextHolder uintptr
)

func registerHolder(c *callbacks) uintptr {
	holdersMu.Lock()
	defer holdersMu.Unlock()
	nextHolder++
	holders[nextHolder] = c
	return nextHolder
}

func lookupHolder(key uintptr) *callbacks {
	holdersMu.Lock()
	defer holdersMu.Unlock()
	return holders[key]
}

func unregisterHolder(key uintptr) {
	holdersMu.Lock()
	defer holdersMu.Unlock()
	delete(holders, key)
}

// writeTrampoline recovers the callback holder through the stream's userdata
// key and forwards to the registered write closure, if any.
func writeTrampoline(raw RawStream, minFrames, maxFrames int) {
	cbs := lookupHolder(raw.Userdata())
	if cbs == nil || cbs.write == nil {
		return
	}
	cbs.write(view(raw, cbs), minFrames, maxFrames)
}

func underflowTrampoline(raw RawStream) {
	cbs := lookupHolder(raw.Userdata())
	if cbs == nil || cbs.underflow == nil {
		return
	}
	cbs.underflow(view(raw, cbs))
}

func errorTrampoline(raw RawStream, err Error) {
	cbs := lookupHolder(raw.Userdata())
	if cbs == nil || cbs.error == nil {
		return
	}
	cbs.error(view(raw, cbs), err)
}

// OutStream wraps one raw output stream handle plus an owned callback
// holder. The wrapper enforces no state machine of its own: calls made out
// of order are forwarded to the backend, which reports its own errors.
//
// Exactly one OutStream owns the raw handle: the one returned by New. The
// streams handed to callbacks are non-owning views; Destroy on a view leaves
// the handle and the callback registration alone.
type OutStream struct {
	raw    RawStream
	cbs    *callbacks
	handle uintptr
	owned  bool
}

// New wraps a raw stream handle. The returned wrapper owns the handle and is
// responsible for releasing it with Destroy.
func New(raw RawStream) *OutStream {
	return &OutStream{
		raw:   raw,
		cbs:   &callbacks{},
		owned: true,
	}
}

// view rebuilds a non-owning wrapper around a raw handle during callback
// delivery.
func view(raw RawStream, cbs *callbacks) *OutStream {
	return &OutStream{raw: raw, cbs: cbs}
}

// Open opens the stream for playback.
func (s *OutStream) Open() error {
	return orNil(s.raw.Open())
}

// Start starts the stream. All callback registration must be complete before
// Start: the backend may begin delivering callbacks immediately.
func (s *OutStream) Start() error {
	return orNil(s.raw.Start())
}

// pointUserdata installs the holder's registry key as the stream userdata.
// Every registration rewrites the field with the same key.
func (s *OutStream) pointUserdata() {
	if s.handle == 0 {
		s.handle = registerHolder(s.cbs)
	}
	s.raw.SetUserdata(s.handle)
}

// RegisterWriteCallback stores fn as the stream's write callback, replacing
// any previous one.
func (s *OutStream) RegisterWriteCallback(fn WriteCallback) {
	s.cbs.write = fn
	s.raw.SetWriteCallback(writeTrampoline)
	s.pointUserdata()
}

// RegisterUnderflowCallback stores fn as the stream's underflow callback,
// replacing any previous one.
func (s *OutStream) RegisterUnderflowCallback(fn UnderflowCallback) {
	s.cbs.underflow = fn
	s.raw.SetUnderflowCallback(underflowTrampoline)
	s.pointUserdata()
}

// RegisterErrorCallback stores fn as the stream's error callback, replacing
// any previous one.
func (s *OutStream) RegisterErrorCallback(fn ErrorCallback) {
	s.cbs.error = fn
	s.raw.SetErrorCallback(errorTrampoline)
	s.pointUserdata()
}

// WriteStream pushes one planar float32 buffer per channel into the stream.
// Every channel buffer must hold at least minFrameCount samples and there
// must be at least as many buffers as the stream has channels; the write is
// rejected with ErrorInvalid otherwise. All buffers are assumed to share the
// first buffer's length, which is the frame count requested from the backend.
// The backend may grant fewer frames than requested; exactly the granted
// count is copied per channel and returned.
func (s *OutStream) WriteStream(minFrameCount int, buffers [][]float32) (int, error) {
	channelCount := s.Layout().ChannelCount()
	if len(buffers) < channelCount {
		return 0, ErrorInvalid
	}
	for _, buf := range buffers {
		if len(buf) < minFrameCount {
			return 0, ErrorInvalid
		}
	}

	frameCount := len(buffers[0])
	areas, actual, err := s.BeginWrite(frameCount)
	if err != nil {
		return 0, err
	}
	for frame := 0; frame < actual; frame++ {
		for ch := 0; ch < channelCount; ch++ {
			areas[ch].PutFloat32(frame, buffers[ch][frame])
		}
	}
	if err := s.EndWrite(); err != nil {
		return 0, err
	}
	return actual, nil
}

// BeginWrite opens a write transaction for up to frameCount frames. It
// returns one writable area per channel and the actual frame count granted.
// Advanced callers writing formats other than float32 use this directly
// instead of WriteStream.
func (s *OutStream) BeginWrite(frameCount int) ([]ChannelArea, int, error) {
	areas, actual, err := s.raw.BeginWrite(frameCount)
	return areas, actual, orNil(err)
}

// EndWrite commits the transaction opened by BeginWrite.
func (s *OutStream) EndWrite() error {
	return orNil(s.raw.EndWrite())
}

// ClearBuffer drops any audio queued in the stream's buffer.
func (s *OutStream) ClearBuffer() error {
	return orNil(s.raw.ClearBuffer())
}

// Pause pauses or resumes the stream.
func (s *OutStream) Pause(pause bool) error {
	return orNil(s.raw.Pause(pause))
}

// Latency returns the number of seconds between a frame being written and
// that frame reaching the speaker.
func (s *OutStream) Latency() (float64, error) {
	latency, err := s.raw.Latency()
	return latency, orNil(err)
}

// CurrentFormat returns the stream's sample format, treating the invalid
// format sentinel as an error rather than a value.
func (s *OutStream) CurrentFormat() (Format, error) {
	format := s.raw.Format()
	if format == FormatInvalid {
		return FormatInvalid, ErrorInvalid
	}
	return format, nil
}

// Layout returns the stream's channel layout.
func (s *OutStream) Layout() ChannelLayout {
	return s.raw.Layout()
}

// SampleRate returns the stream's sample rate in frames per second.
func (s *OutStream) SampleRate() int {
	return s.raw.SampleRate()
}

// Device returns the device the stream plays through. The stream and the
// caller share ownership: one reference is taken before the view is
// returned, and the caller releases it with Device.Release.
func (s *OutStream) Device() *Device {
	raw := s.raw.Device()
	raw.Ref()
	return &Device{raw: raw}
}

// Raw returns the underlying stream handle.
func (s *OutStream) Raw() RawStream {
	return s.raw
}

// Destroy releases the stream. Only the owning wrapper tears down the raw
// handle and the callback registration; on a callback-time view Destroy is
// a no-op.
func (s *OutStream) Destroy() {
	if !s.owned {
		return
	}
	if s.handle != 0 {
		unregisterHolder(s.handle)
		s.handle = 0
	}
	s.raw.Destroy()
}
