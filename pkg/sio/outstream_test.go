// ABOUTME: Contract tests for the output stream wrapper
// ABOUTME: Exercises write validation, callback bridging, and forwarding against a fake backend
package sio

import (
	"testing"
)

// fakeDevice counts references like a backend-owned device would.
type fakeDevice struct {
	id, name string
	refs     int
}

func (d *fakeDevice) ID() string   { return d.id }
func (d *fakeDevice) Name() string { return d.name }
func (d *fakeDevice) Ref()         { d.refs++ }
func (d *fakeDevice) Unref()       { d.refs-- }

// fakeRawStream records every native call and serves a configurable write
// transaction backed by an interleaved slab.
type fakeRawStream struct {
	layout ChannelLayout
	format Format
	rate   int
	device *fakeDevice

	openErr  Error
	startErr Error
	beginErr Error
	endErr   Error

	// slab backs the areas handed out by BeginWrite: interleaved samples,
	// step = channels * 4 bytes.
	slab        []byte
	grantFrames int // granted frame count; -1 means grant what was asked

	beginCalls     int
	endCalls       int
	requested      []int
	opened         bool
	started        bool
	destroyed      bool
	cleared        int
	pauses         []bool
	latencySeconds float64
	latencyErr     Error

	writeFn     WriteFn
	underflowFn UnderflowFn
	errorFn     ErrorFn
	userdata    uintptr
}

func newFakeRawStream(channels, frames int) *fakeRawStream {
	return &fakeRawStream{
		layout:      LayoutForChannels(channels),
		format:      FormatFloat32LE,
		rate:        48000,
		device:      &fakeDevice{id: "fake-0", name: "fake output"},
		slab:        make([]byte, channels*frames*4),
		grantFrames: -1,
	}
}

func (f *fakeRawStream) Open() Error  { f.opened = true; return f.openErr }
func (f *fakeRawStream) Start() Error { f.started = true; return f.startErr }

func (f *fakeRawStream) BeginWrite(frameCount int) ([]ChannelArea, int, Error) {
	f.beginCalls++
	f.requested = append(f.requested, frameCount)
	if f.beginErr != ErrorNone {
		return nil, 0, f.beginErr
	}
	granted := frameCount
	if f.grantFrames >= 0 && f.grantFrames < granted {
		granted = f.grantFrames
	}
	channels := f.layout.ChannelCount()
	step := channels * 4
	areas := make([]ChannelArea, channels)
	for ch := range areas {
		areas[ch] = ChannelArea{Buf: f.slab[ch*4:], Step: step}
	}
	return areas, granted, ErrorNone
}

func (f *fakeRawStream) EndWrite() Error {
	f.endCalls++
	return f.endErr
}

func (f *fakeRawStream) ClearBuffer() Error { f.cleared++; return ErrorNone }

func (f *fakeRawStream) Pause(pause bool) Error {
	f.pauses = append(f.pauses, pause)
	return ErrorNone
}

func (f *fakeRawStream) Latency() (float64, Error) { return f.latencySeconds, f.latencyErr }
func (f *fakeRawStream) Destroy()                  { f.destroyed = true }

func (f *fakeRawStream) Layout() ChannelLayout { return f.layout }
func (f *fakeRawStream) Format() Format        { return f.format }
func (f *fakeRawStream) SampleRate() int       { return f.rate }
func (f *fakeRawStream) Device() RawDevice     { return f.device }

func (f *fakeRawStream) SetWriteCallback(fn WriteFn)         { f.writeFn = fn }
func (f *fakeRawStream) SetUnderflowCallback(fn UnderflowFn) { f.underflowFn = fn }
func (f *fakeRawStream) SetErrorCallback(fn ErrorFn)         { f.errorFn = fn }
func (f *fakeRawStream) SetUserdata(v uintptr)               { f.userdata = v }
func (f *fakeRawStream) Userdata() uintptr                   { return f.userdata }

// sample reads back the float32 the fake's slab holds for a channel/frame.
func (f *fakeRawStream) sample(channel, frame int) float32 {
	step := f.layout.ChannelCount() * 4
	area := ChannelArea{Buf: f.slab[channel*4:], Step: step}
	return area.Float32(frame)
}

func TestWriteStreamRejectsMissingChannels(t *testing.T) {
	raw := newFakeRawStream(2, 64)
	stream := New(raw)

	n, err := stream.WriteStream(16, [][]float32{make([]float32, 16)})

	if err != ErrorInvalid {
		t.Fatalf("expected ErrorInvalid, got %v", err)
	}
	if n != 0 {
		t.Errorf("expected zero frames written, got %d", n)
	}
	if raw.beginCalls != 0 {
		t.Errorf("expected no write transaction, got %d BeginWrite calls", raw.beginCalls)
	}
}

func TestWriteStreamRejectsShortChannelBuffer(t *testing.T) {
	raw := newFakeRawStream(2, 64)
	stream := New(raw)

	buffers := [][]float32{
		make([]float32, 32),
		make([]float32, 8), // shorter than minFrameCount
	}
	_, err := stream.WriteStream(16, buffers)

	if err != ErrorInvalid {
		t.Fatalf("expected ErrorInvalid, got %v", err)
	}
	if raw.beginCalls != 0 {
		t.Errorf("expected no write transaction, got %d BeginWrite calls", raw.beginCalls)
	}
}

func TestWriteStreamHonorsGrantedFrameCount(t *testing.T) {
	raw := newFakeRawStream(2, 64)
	raw.grantFrames = 3
	stream := New(raw)

	left := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	right := []float32{-0.1, -0.2, -0.3, -0.4, -0.5, -0.6}

	n, err := stream.WriteStream(2, [][]float32{left, right})
	if err != nil {
		t.Fatalf("WriteStream failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 frames written, got %d", n)
	}
	if raw.requested[0] != len(left) {
		t.Errorf("expected %d frames requested, got %d", len(left), raw.requested[0])
	}

	for frame := 0; frame < 3; frame++ {
		if got := raw.sample(0, frame); got != left[frame] {
			t.Errorf("left frame %d: got %f, want %f", frame, got, left[frame])
		}
		if got := raw.sample(1, frame); got != right[frame] {
			t.Errorf("right frame %d: got %f, want %f", frame, got, right[frame])
		}
	}
	// Frames beyond the granted count must remain untouched.
	if got := raw.sample(0, 3); got != 0 {
		t.Errorf("frame 3 written past granted count: %f", got)
	}
	if raw.endCalls != 1 {
		t.Errorf("expected exactly one EndWrite, got %d", raw.endCalls)
	}
}

func TestWriteStreamUsesStepAddressing(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	stream := New(raw)

	left := []float32{1, 2, 3, 4}
	right := []float32{5, 6, 7, 8}
	if _, err := stream.WriteStream(4, [][]float32{left, right}); err != nil {
		t.Fatalf("WriteStream failed: %v", err)
	}

	// The fake's areas interleave channels with an 8-byte step; each sample
	// must land at base + step*frame, not at a packed offset.
	step := 8
	for frame := 0; frame < 4; frame++ {
		leftArea := ChannelArea{Buf: raw.slab, Step: step}
		rightArea := ChannelArea{Buf: raw.slab[4:], Step: step}
		if got := leftArea.Float32(frame); got != left[frame] {
			t.Errorf("left frame %d at step offset: got %f, want %f", frame, got, left[frame])
		}
		if got := rightArea.Float32(frame); got != right[frame] {
			t.Errorf("right frame %d at step offset: got %f, want %f", frame, got, right[frame])
		}
	}
}

func TestWriteStreamPropagatesBeginWriteError(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	raw.beginErr = ErrorStreaming
	stream := New(raw)

	_, err := stream.WriteStream(1, [][]float32{{0}, {0}})
	if err != ErrorStreaming {
		t.Fatalf("expected ErrorStreaming, got %v", err)
	}
}

func TestWriteStreamPropagatesEndWriteError(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	raw.endErr = ErrorUnderflow
	stream := New(raw)

	_, err := stream.WriteStream(1, [][]float32{{0}, {0}})
	if err != ErrorUnderflow {
		t.Fatalf("expected ErrorUnderflow, got %v", err)
	}
}

func TestRegisterWriteCallbackReplaces(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	stream := New(raw)
	defer stream.Destroy()

	var firstCalls, secondCalls int
	stream.RegisterWriteCallback(func(s *OutStream, min, max int) { firstCalls++ })
	stream.RegisterWriteCallback(func(s *OutStream, min, max int) { secondCalls++ })

	raw.writeFn(raw, 0, 128)

	if firstCalls != 0 {
		t.Errorf("replaced callback still invoked %d times", firstCalls)
	}
	if secondCalls != 1 {
		t.Errorf("expected one invocation of latest callback, got %d", secondCalls)
	}
}

func TestCallbacksReceiveUsableStreamView(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	stream := New(raw)
	defer stream.Destroy()

	var gotMin, gotMax, wrote int
	stream.RegisterWriteCallback(func(s *OutStream, min, max int) {
		gotMin, gotMax = min, max
		n, err := s.WriteStream(1, [][]float32{{0.5}, {0.5}})
		if err != nil {
			t.Errorf("WriteStream from callback view failed: %v", err)
		}
		wrote = n
	})

	raw.writeFn(raw, 1, 4)

	if gotMin != 1 || gotMax != 4 {
		t.Errorf("expected frame window (1, 4), got (%d, %d)", gotMin, gotMax)
	}
	if wrote != 1 {
		t.Errorf("expected 1 frame written from view, got %d", wrote)
	}
}

func TestAllRegistrationsShareOneUserdata(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	stream := New(raw)
	defer stream.Destroy()

	stream.RegisterWriteCallback(func(*OutStream, int, int) {})
	first := raw.userdata
	stream.RegisterUnderflowCallback(func(*OutStream) {})
	stream.RegisterErrorCallback(func(*OutStream, Error) {})

	if first == 0 {
		t.Fatal("userdata never installed")
	}
	if raw.userdata != first {
		t.Errorf("later registrations changed userdata: %d -> %d", first, raw.userdata)
	}
}

func TestUnderflowAndErrorCallbacks(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	stream := New(raw)
	defer stream.Destroy()

	var underflows int
	var gotErr Error
	stream.RegisterUnderflowCallback(func(s *OutStream) { underflows++ })
	stream.RegisterErrorCallback(func(s *OutStream, err Error) { gotErr = err })

	raw.underflowFn(raw)
	raw.underflowFn(raw)
	raw.errorFn(raw, ErrorBackendDisconnected)

	if underflows != 2 {
		t.Errorf("expected 2 underflow invocations, got %d", underflows)
	}
	if gotErr != ErrorBackendDisconnected {
		t.Errorf("expected ErrorBackendDisconnected, got %v", gotErr)
	}
}

func TestTrampolinesTolerateUnregisteredRoles(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	stream := New(raw)
	defer stream.Destroy()

	// Only the write role is registered; the backend may still fire the
	// other trampolines if the application installed them on the raw handle.
	stream.RegisterWriteCallback(func(*OutStream, int, int) {})
	underflowTrampoline(raw)
	errorTrampoline(raw, ErrorStreaming)
}

func TestCurrentFormat(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	stream := New(raw)

	format, err := stream.CurrentFormat()
	if err != nil {
		t.Fatalf("CurrentFormat failed: %v", err)
	}
	if format != FormatFloat32LE {
		t.Errorf("expected FormatFloat32LE, got %v", format)
	}

	raw.format = FormatInvalid
	if _, err := stream.CurrentFormat(); err != ErrorInvalid {
		t.Errorf("expected ErrorInvalid for invalid format sentinel, got %v", err)
	}
}

func TestDeviceTakesExactlyOneReference(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	stream := New(raw)

	dev := stream.Device()
	if raw.device.refs != 1 {
		t.Fatalf("expected 1 reference after Device(), got %d", raw.device.refs)
	}
	second := stream.Device()
	if raw.device.refs != 2 {
		t.Fatalf("expected 2 references after second Device(), got %d", raw.device.refs)
	}

	if dev.ID() != "fake-0" || dev.Name() != "fake output" {
		t.Errorf("device identity mismatch: %s / %s", dev.ID(), dev.Name())
	}

	dev.Release()
	second.Release()
	if raw.device.refs != 0 {
		t.Errorf("expected references balanced after Release, got %d", raw.device.refs)
	}
}

func TestOpenStartForwardErrors(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	stream := New(raw)

	if err := stream.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !raw.opened {
		t.Error("Open not forwarded to backend")
	}
	if err := stream.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	raw.openErr = ErrorOpeningDevice
	raw.startErr = ErrorBackendUnavailable
	if err := stream.Open(); err != ErrorOpeningDevice {
		t.Errorf("expected ErrorOpeningDevice, got %v", err)
	}
	if err := stream.Start(); err != ErrorBackendUnavailable {
		t.Errorf("expected ErrorBackendUnavailable, got %v", err)
	}
}

func TestControlForwarding(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	raw.latencySeconds = 0.125
	stream := New(raw)

	if err := stream.Pause(true); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if err := stream.Pause(false); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if len(raw.pauses) != 2 || !raw.pauses[0] || raw.pauses[1] {
		t.Errorf("pause sequence not forwarded: %v", raw.pauses)
	}

	if err := stream.ClearBuffer(); err != nil {
		t.Fatalf("ClearBuffer failed: %v", err)
	}
	if raw.cleared != 1 {
		t.Errorf("expected one ClearBuffer, got %d", raw.cleared)
	}

	latency, err := stream.Latency()
	if err != nil {
		t.Fatalf("Latency failed: %v", err)
	}
	if latency != 0.125 {
		t.Errorf("expected latency 0.125, got %f", latency)
	}

	if stream.SampleRate() != 48000 {
		t.Errorf("expected sample rate 48000, got %d", stream.SampleRate())
	}
	if stream.Layout().ChannelCount() != 2 {
		t.Errorf("expected 2 channels, got %d", stream.Layout().ChannelCount())
	}
}

func TestDestroyOwnershipSemantics(t *testing.T) {
	raw := newFakeRawStream(2, 16)
	stream := New(raw)
	stream.RegisterWriteCallback(func(*OutStream, int, int) {})
	key := raw.userdata

	// A callback-time view must not tear anything down.
	view(raw, stream.cbs).Destroy()
	if raw.destroyed {
		t.Fatal("view Destroy released the raw handle")
	}
	if lookupHolder(key) == nil {
		t.Fatal("view Destroy removed the callback holder")
	}

	stream.Destroy()
	if !raw.destroyed {
		t.Error("owner Destroy did not release the raw handle")
	}
	if lookupHolder(key) != nil {
		t.Error("owner Destroy left the callback holder registered")
	}
}
