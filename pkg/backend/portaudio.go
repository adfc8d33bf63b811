//go:build portaudio

// ABOUTME: PortAudio stream backend
// ABOUTME: Cross-platform audio output via the PortAudio callback API
package backend

import (
	"encoding/binary"
	"math"

	"github.com/gordonklaus/portaudio"
	"github.com/sio-project/sio-go/pkg/sio"
)

// PortAudio is a stream backend built on the PortAudio library. Only the
// float32 sample format is supported; the device callback drains the ring
// buffer while the pump keeps the write callback fed.
type PortAudio struct {
	streamBase

	stream  *portaudio.Stream
	stop    chan struct{}
	scratch []byte
	dry     bool // touched only from the device callback
}

var _ sio.RawStream = (*PortAudio)(nil)

// NewPortAudio creates a PortAudio-backed stream with the given options.
func NewPortAudio(opts Options) *PortAudio {
	return &PortAudio{streamBase: newStreamBase(opts, "portaudio default output")}
}

// Open initializes PortAudio and opens the default output stream.
func (p *PortAudio) Open() sio.Error {
	if p.destroyed.Load() {
		return sio.ErrorStreaming
	}
	if p.stream != nil {
		return sio.ErrorInvalid
	}
	if p.opts.Format != sio.FormatFloat32LE {
		return sio.ErrorIncompatibleBackend
	}

	if err := portaudio.Initialize(); err != nil {
		return sio.ErrorInitAudioBackend
	}

	framesPerBuffer := p.opts.SampleRate / 100
	stream, err := portaudio.OpenDefaultStream(
		0, p.opts.Layout.ChannelCount(), float64(p.opts.SampleRate),
		framesPerBuffer, p.data)
	if err != nil {
		portaudio.Terminate()
		return sio.ErrorOpeningDevice
	}
	p.stream = stream
	return sio.ErrorNone
}

// Start starts the PortAudio stream and the write callback pump.
func (p *PortAudio) Start() sio.Error {
	if p.destroyed.Load() {
		return sio.ErrorStreaming
	}
	if p.stream == nil || p.stop != nil {
		return sio.ErrorInvalid
	}
	if err := p.stream.Start(); err != nil {
		return sio.ErrorStreaming
	}
	p.stop = make(chan struct{})
	p.running.Store(true)
	go p.pump(p, p.stop)
	return sio.ErrorNone
}

// data fills a PortAudio output buffer from the ring.
func (p *PortAudio) data(out []float32) {
	need := len(out) * 4
	if cap(p.scratch) < need {
		p.scratch = make([]byte, need)
	}
	buf := p.scratch[:need]
	read := p.ring.Read(buf)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	if read < need && p.running.Load() && !p.paused.Load() {
		if !p.dry {
			p.dry = true
			if fn := p.underflowFn; fn != nil {
				fn(p)
			}
		}
	} else if read == need {
		p.dry = false
	}
}

// Pause stops or restarts the PortAudio stream.
func (p *PortAudio) Pause(pause bool) sio.Error {
	if p.destroyed.Load() {
		return sio.ErrorStreaming
	}
	if p.stream == nil {
		return sio.ErrorInvalid
	}
	if pause == p.paused.Load() {
		return sio.ErrorNone
	}
	var err error
	if pause {
		err = p.stream.Stop()
	} else {
		err = p.stream.Start()
	}
	if err != nil {
		return sio.ErrorStreaming
	}
	p.paused.Store(pause)
	return sio.ErrorNone
}

// Latency reports the delay represented by the queued audio.
func (p *PortAudio) Latency() (float64, sio.Error) {
	if p.destroyed.Load() {
		return 0, sio.ErrorStreaming
	}
	return p.bufferedLatency(0), sio.ErrorNone
}

// Destroy stops the pump and closes the stream.
func (p *PortAudio) Destroy() {
	if !p.destroyed.CompareAndSwap(false, true) {
		return
	}
	p.running.Store(false)
	if p.stop != nil {
		close(p.stop)
	}
	if p.stream != nil {
		p.stream.Close()
		p.stream = nil
		portaudio.Terminate()
	}
}
