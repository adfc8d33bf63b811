// ABOUTME: Playback engine orchestration
// ABOUTME: Bridges a file decoder to an output stream through the write callback
package app

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sio-project/sio-go/internal/decode"
	"github.com/sio-project/sio-go/pkg/sio"
)

// maxChunkFrames caps how much is decoded per write callback.
const maxChunkFrames = 4096

// Config holds playback configuration.
type Config struct {
	Volume int // 0-100
	Muted  bool
}

// Status is a playback snapshot for display.
type Status struct {
	State         string // "playing", "paused", "finished"
	SampleRate    int
	Channels      int
	Format        string
	Volume        int
	Muted         bool
	FramesWritten int64
	Position      time.Duration
	Latency       time.Duration
	Underflows    int
	Err           error
}

// Player drives one output stream from a decoder. It registers the stream
// callbacks, pulls frames on demand, applies volume, and tracks playback
// statistics.
type Player struct {
	stream *sio.OutStream
	dec    decode.Decoder

	mu            sync.Mutex
	volume        int
	muted         bool
	paused        bool
	finished      bool
	framesWritten int64
	underflows    int
	streamErr     error

	buffers [][]float32
	done    chan struct{}
}

// New creates a player pushing dec into stream.
func New(stream *sio.OutStream, dec decode.Decoder, config Config) *Player {
	volume := config.Volume
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}

	channels := stream.Layout().ChannelCount()
	buffers := make([][]float32, channels)
	for ch := range buffers {
		buffers[ch] = make([]float32, maxChunkFrames)
	}

	return &Player{
		stream:  stream,
		dec:     dec,
		volume:  volume,
		muted:   config.Muted,
		buffers: buffers,
		done:    make(chan struct{}),
	}
}

// Start registers the stream callbacks and opens and starts the stream.
// All registration happens before Start per the stream contract.
func (p *Player) Start() error {
	if p.dec.Channels() > p.stream.Layout().ChannelCount() {
		return fmt.Errorf("source has %d channels but stream has %d",
			p.dec.Channels(), p.stream.Layout().ChannelCount())
	}

	p.stream.RegisterWriteCallback(p.onWrite)
	p.stream.RegisterUnderflowCallback(p.onUnderflow)
	p.stream.RegisterErrorCallback(p.onError)

	if err := p.stream.Open(); err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}
	return nil
}

// onWrite decodes up to maxFrames frames and pushes them into the stream.
// Invoked from the backend's audio goroutine.
func (p *Player) onWrite(stream *sio.OutStream, minFrames, maxFrames int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}

	want := maxFrames
	if want > maxChunkFrames {
		want = maxChunkFrames
	}

	channels := stream.Layout().ChannelCount()
	chunk := make([][]float32, channels)
	for ch := range chunk {
		chunk[ch] = p.buffers[ch][:want]
	}

	n, err := p.dec.ReadFrames(chunk[:p.dec.Channels()])
	if err == io.EOF || n == 0 {
		p.finish()
		return
	}
	if err != nil {
		p.streamErr = err
		p.finish()
		return
	}

	// Upmix mono sources by duplicating the channel, then scale.
	for ch := p.dec.Channels(); ch < channels; ch++ {
		copy(chunk[ch][:n], chunk[0][:n])
	}
	multiplier := volumeMultiplier(p.volume, p.muted)
	for ch := 0; ch < channels; ch++ {
		applyVolume(chunk[ch][:n], multiplier)
		chunk[ch] = chunk[ch][:n]
	}

	written, err := stream.WriteStream(min(minFrames, n), chunk)
	if err != nil {
		p.streamErr = err
		p.finish()
		return
	}
	p.framesWritten += int64(written)
}

func (p *Player) onUnderflow(stream *sio.OutStream) {
	p.mu.Lock()
	p.underflows++
	p.mu.Unlock()
}

func (p *Player) onError(stream *sio.OutStream, err sio.Error) {
	p.mu.Lock()
	p.streamErr = err
	p.mu.Unlock()
}

// finish marks playback complete. Caller holds p.mu.
func (p *Player) finish() {
	if !p.finished {
		p.finished = true
		close(p.done)
	}
}

// Done is closed when the source is exhausted or a stream error ends
// playback. The stream's buffer may still be draining at that point.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Drained returns the time the stream still needs to play what it has
// buffered.
func (p *Player) Drained() time.Duration {
	latency, err := p.stream.Latency()
	if err != nil {
		return 0
	}
	return time.Duration(latency * float64(time.Second))
}

// SetPaused pauses or resumes the stream.
func (p *Player) SetPaused(paused bool) error {
	if err := p.stream.Pause(paused); err != nil {
		return err
	}
	p.mu.Lock()
	p.paused = paused
	p.mu.Unlock()
	return nil
}

// TogglePause flips the pause state and returns the new state.
func (p *Player) TogglePause() (bool, error) {
	p.mu.Lock()
	next := !p.paused
	p.mu.Unlock()
	return next, p.SetPaused(next)
}

// SetVolume sets the playback volume (0-100).
func (p *Player) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	p.mu.Lock()
	p.volume = volume
	p.mu.Unlock()
}

// AdjustVolume shifts the volume by delta and returns the new value.
func (p *Player) AdjustVolume(delta int) int {
	p.mu.Lock()
	volume := p.volume + delta
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	p.volume = volume
	p.mu.Unlock()
	return volume
}

// SetMuted sets the mute state.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

// Status returns a snapshot of the playback state.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := "playing"
	switch {
	case p.finished:
		state = "finished"
	case p.paused:
		state = "paused"
	}

	var format string
	if f, err := p.stream.CurrentFormat(); err == nil {
		format = f.String()
	}

	var latency time.Duration
	if seconds, err := p.stream.Latency(); err == nil {
		latency = time.Duration(seconds * float64(time.Second))
	}

	rate := p.stream.SampleRate()
	var position time.Duration
	if rate > 0 {
		position = time.Duration(p.framesWritten) * time.Second / time.Duration(rate)
	}

	return Status{
		State:         state,
		SampleRate:    rate,
		Channels:      p.stream.Layout().ChannelCount(),
		Format:        format,
		Volume:        p.volume,
		Muted:         p.muted,
		FramesWritten: p.framesWritten,
		Position:      position,
		Latency:       latency,
		Underflows:    p.underflows,
		Err:           p.streamErr,
	}
}

// Close tears down the stream and the decoder.
func (p *Player) Close() error {
	p.stream.Destroy()
	return p.dec.Close()
}

// volumeMultiplier calculates the linear gain for a volume setting.
func volumeMultiplier(volume int, muted bool) float32 {
	if muted {
		return 0.0
	}
	return float32(volume) / 100.0
}

// applyVolume scales samples in place with clipping protection.
func applyVolume(samples []float32, multiplier float32) {
	for i, sample := range samples {
		scaled := sample * multiplier
		if scaled > 1.0 {
			scaled = 1.0
		} else if scaled < -1.0 {
			scaled = -1.0
		}
		samples[i] = scaled
	}
}
