// ABOUTME: Oto-based stream backend
// ABOUTME: Pure-Go audio output via the oto library's pull-model player
package backend

import (
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
	"github.com/sio-project/sio-go/pkg/sio"
)

// Oto is a stream backend built on oto/v3. The oto player pulls interleaved
// bytes through Read; committed write transactions queue in the ring buffer
// until the player consumes them.
type Oto struct {
	streamBase

	otoCtx *oto.Context
	player *oto.Player
	stop   chan struct{}
	dry    atomic.Bool
}

var _ sio.RawStream = (*Oto)(nil)

// NewOto creates an oto-backed stream with the given options.
func NewOto(opts Options) *Oto {
	return &Oto{streamBase: newStreamBase(opts, "oto default output")}
}

// Open initializes the oto context for the stream's format.
func (o *Oto) Open() sio.Error {
	if o.destroyed.Load() {
		return sio.ErrorStreaming
	}
	if o.otoCtx != nil {
		return sio.ErrorInvalid
	}

	var format oto.Format
	switch o.opts.Format {
	case sio.FormatFloat32LE:
		format = oto.FormatFloat32LE
	case sio.FormatS16LE:
		format = oto.FormatSignedInt16LE
	default:
		return sio.ErrorIncompatibleBackend
	}

	op := &oto.NewContextOptions{
		SampleRate:   o.opts.SampleRate,
		ChannelCount: o.opts.Layout.ChannelCount(),
		Format:       format,
	}
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return sio.ErrorOpeningDevice
	}
	<-readyChan

	o.otoCtx = ctx
	return sio.ErrorNone
}

// Start creates the player and begins invoking the write callback.
func (o *Oto) Start() sio.Error {
	if o.destroyed.Load() {
		return sio.ErrorStreaming
	}
	if o.otoCtx == nil || o.player != nil {
		return sio.ErrorInvalid
	}

	o.player = o.otoCtx.NewPlayer(o)
	o.player.Play()
	o.stop = make(chan struct{})
	o.running.Store(true)
	go o.pump(o, o.stop)
	return sio.ErrorNone
}

// Read feeds the oto player from the ring buffer. Called from oto's audio
// goroutine; an empty ring while running counts as one underflow episode and
// plays silence.
func (o *Oto) Read(p []byte) (int, error) {
	read := o.ring.Read(p)
	if read < len(p) && o.running.Load() && !o.paused.Load() {
		if o.dry.CompareAndSwap(false, true) {
			if fn := o.underflowFn; fn != nil {
				fn(o)
			}
		}
	} else if read == len(p) {
		o.dry.Store(false)
	}
	return len(p), nil
}

// Pause suspends or resumes playback.
func (o *Oto) Pause(pause bool) sio.Error {
	if o.destroyed.Load() {
		return sio.ErrorStreaming
	}
	if o.player == nil {
		return sio.ErrorInvalid
	}
	if pause {
		o.player.Pause()
	} else {
		o.player.Play()
	}
	o.paused.Store(pause)
	return sio.ErrorNone
}

// Latency reports the delay represented by all queued audio.
func (o *Oto) Latency() (float64, sio.Error) {
	if o.destroyed.Load() {
		return 0, sio.ErrorStreaming
	}
	extra := 0
	if o.player != nil {
		extra = o.player.BufferedSize()
	}
	return o.bufferedLatency(extra), sio.ErrorNone
}

// Destroy stops the pump and releases the player and context.
func (o *Oto) Destroy() {
	if !o.destroyed.CompareAndSwap(false, true) {
		return
	}
	o.running.Store(false)
	if o.stop != nil {
		close(o.stop)
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
		o.otoCtx = nil
	}
}
