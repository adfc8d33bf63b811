// ABOUTME: Shared backend state and write transaction handling
// ABOUTME: Options, device identity, and the stream base every backend embeds
package backend

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sio-project/sio-go/pkg/sio"
)

// Options configures a stream backend.
type Options struct {
	// SampleRate in frames per second (default: 48000)
	SampleRate int

	// Layout is the output channel layout (default: stereo)
	Layout sio.ChannelLayout

	// Format is the sample format; backends accept FormatFloat32LE and
	// FormatS16LE (default: FormatFloat32LE)
	Format sio.Format

	// BufferDuration is the ring buffer capacity (default: 500ms)
	BufferDuration time.Duration

	// DeviceName overrides the reported device name
	DeviceName string
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	if o.SampleRate == 0 {
		o.SampleRate = 48000
	}
	if o.Layout.ChannelCount() == 0 {
		o.Layout = sio.LayoutStereo()
	}
	if o.Format == sio.FormatInvalid {
		o.Format = sio.FormatFloat32LE
	}
	if o.BufferDuration == 0 {
		o.BufferDuration = 500 * time.Millisecond
	}
	return o
}

// device is a backend-owned, reference-counted device handle.
type device struct {
	id   string
	name string
	refs atomic.Int32
}

func newDevice(name string) *device {
	return &device{id: uuid.NewString(), name: name}
}

func (d *device) ID() string   { return d.id }
func (d *device) Name() string { return d.name }
func (d *device) Ref()         { d.refs.Add(1) }
func (d *device) Unref()       { d.refs.Add(-1) }

// Refs returns the current reference count.
func (d *device) Refs() int { return int(d.refs.Load()) }

// streamBase carries the state shared by every backend: the ring buffer, the
// current write transaction, callback hooks, and the opaque userdata value.
// Areas handed out by BeginWrite point into an interleaved staging buffer, so
// each channel's step is the full frame stride rather than one sample width.
type streamBase struct {
	opts Options
	dev  *device
	ring *ring

	txMu     sync.Mutex
	txBuf    []byte
	txFrames int
	txOpen   bool

	writeFn     sio.WriteFn
	underflowFn sio.UnderflowFn
	errorFn     sio.ErrorFn
	userdata    atomic.Uintptr

	paused    atomic.Bool
	running   atomic.Bool
	destroyed atomic.Bool
}

func newStreamBase(opts Options, deviceName string) streamBase {
	opts = opts.withDefaults()
	if opts.DeviceName != "" {
		deviceName = opts.DeviceName
	}
	capacity := int(opts.BufferDuration.Seconds() * float64(opts.SampleRate))
	frameBytes := opts.Layout.ChannelCount() * opts.Format.BytesPerSample()
	return streamBase{
		opts: opts,
		dev:  newDevice(deviceName),
		ring: newRing(capacity * frameBytes),
	}
}

// frameBytes returns the byte stride of one interleaved frame.
func (b *streamBase) frameBytes() int {
	return b.opts.Layout.ChannelCount() * b.opts.Format.BytesPerSample()
}

// BeginWrite opens a write transaction for up to frameCount frames, granting
// at most the ring buffer's free space.
func (b *streamBase) BeginWrite(frameCount int) ([]sio.ChannelArea, int, sio.Error) {
	if b.destroyed.Load() {
		return nil, 0, sio.ErrorStreaming
	}
	if frameCount <= 0 {
		return nil, 0, sio.ErrorInvalid
	}

	b.txMu.Lock()
	defer b.txMu.Unlock()
	if b.txOpen {
		return nil, 0, sio.ErrorInvalid
	}

	frameBytes := b.frameBytes()
	channels := b.opts.Layout.ChannelCount()
	granted := frameCount
	if free := b.ring.Free() / frameBytes; free < granted {
		granted = free
	}
	if granted == 0 {
		b.txFrames = 0
		b.txOpen = true
		return make([]sio.ChannelArea, channels), 0, sio.ErrorNone
	}

	need := granted * frameBytes
	if cap(b.txBuf) < need {
		b.txBuf = make([]byte, need)
	}
	b.txBuf = b.txBuf[:need]
	for i := range b.txBuf {
		b.txBuf[i] = 0
	}

	sampleBytes := b.opts.Format.BytesPerSample()
	areas := make([]sio.ChannelArea, channels)
	for ch := range areas {
		areas[ch] = sio.ChannelArea{Buf: b.txBuf[ch*sampleBytes:], Step: frameBytes}
	}

	b.txFrames = granted
	b.txOpen = true
	return areas, granted, sio.ErrorNone
}

// EndWrite commits the open transaction into the ring buffer.
func (b *streamBase) EndWrite() sio.Error {
	if b.destroyed.Load() {
		return sio.ErrorStreaming
	}

	b.txMu.Lock()
	defer b.txMu.Unlock()
	if !b.txOpen {
		return sio.ErrorInvalid
	}
	b.txOpen = false
	b.ring.Write(b.txBuf[:b.txFrames*b.frameBytes()])
	return sio.ErrorNone
}

// ClearBuffer drops all committed audio.
func (b *streamBase) ClearBuffer() sio.Error {
	if b.destroyed.Load() {
		return sio.ErrorStreaming
	}
	b.ring.Reset()
	return sio.ErrorNone
}

func (b *streamBase) Layout() sio.ChannelLayout { return b.opts.Layout }
func (b *streamBase) Format() sio.Format        { return b.opts.Format }
func (b *streamBase) SampleRate() int           { return b.opts.SampleRate }
func (b *streamBase) Device() sio.RawDevice     { return b.dev }

func (b *streamBase) SetWriteCallback(fn sio.WriteFn)         { b.writeFn = fn }
func (b *streamBase) SetUnderflowCallback(fn sio.UnderflowFn) { b.underflowFn = fn }
func (b *streamBase) SetErrorCallback(fn sio.ErrorFn)         { b.errorFn = fn }
func (b *streamBase) SetUserdata(v uintptr)                   { b.userdata.Store(v) }
func (b *streamBase) Userdata() uintptr                       { return b.userdata.Load() }

// bufferedLatency returns the playback delay represented by extraBytes plus
// whatever sits in the ring buffer.
func (b *streamBase) bufferedLatency(extraBytes int) float64 {
	byteRate := float64(b.opts.SampleRate * b.frameBytes())
	return float64(b.ring.Buffered()+extraBytes) / byteRate
}

// pump invokes the write callback whenever the ring buffer has room for at
// least pumpChunk worth of frames, until stop is closed. raw is the backend
// itself; it is threaded through so callbacks receive the real handle.
func (b *streamBase) pump(raw sio.RawStream, stop <-chan struct{}) {
	chunkFrames := b.opts.SampleRate * int(pumpChunk) / int(time.Second)
	ticker := time.NewTicker(pumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if b.paused.Load() || b.destroyed.Load() {
				continue
			}
			free := b.ring.Free() / b.frameBytes()
			if free < chunkFrames {
				continue
			}
			if fn := b.writeFn; fn != nil {
				fn(raw, 0, free)
			}
		}
	}
}

const (
	// pumpChunk is the smallest window worth waking the write callback for.
	pumpChunk = 10 * time.Millisecond

	pumpInterval = 5 * time.Millisecond
)
