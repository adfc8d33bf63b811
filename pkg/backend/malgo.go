// ABOUTME: Malgo-based stream backend
// ABOUTME: Audio output via miniaudio's callback-driven playback devices
package backend

import (
	"github.com/gen2brain/malgo"
	"github.com/sio-project/sio-go/pkg/sio"
)

// Malgo is a stream backend built on malgo/miniaudio. The miniaudio device
// drains the ring buffer from its data callback while the pump keeps the
// write callback fed.
type Malgo struct {
	streamBase

	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	stop     chan struct{}
	dry      bool // touched only from the data callback
}

var _ sio.RawStream = (*Malgo)(nil)

// NewMalgo creates a miniaudio-backed stream with the given options.
func NewMalgo(opts Options) *Malgo {
	return &Malgo{streamBase: newStreamBase(opts, "miniaudio default playback")}
}

// Open initializes the miniaudio context and playback device.
func (m *Malgo) Open() sio.Error {
	if m.destroyed.Load() {
		return sio.ErrorStreaming
	}
	if m.device != nil {
		return sio.ErrorInvalid
	}

	var format malgo.FormatType
	switch m.opts.Format {
	case sio.FormatFloat32LE:
		format = malgo.FormatF32
	case sio.FormatS16LE:
		format = malgo.FormatS16
	default:
		return sio.ErrorIncompatibleBackend
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return sio.ErrorInitAudioBackend
	}
	m.malgoCtx = ctx

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = format
	deviceConfig.Playback.Channels = uint32(m.opts.Layout.ChannelCount())
	deviceConfig.SampleRate = uint32(m.opts.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			m.data(pOutputSample)
		},
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		m.malgoCtx.Uninit()
		m.malgoCtx.Free()
		m.malgoCtx = nil
		return sio.ErrorOpeningDevice
	}
	m.device = device
	return sio.ErrorNone
}

// Start starts the playback device and the write callback pump.
func (m *Malgo) Start() sio.Error {
	if m.destroyed.Load() {
		return sio.ErrorStreaming
	}
	if m.device == nil || m.stop != nil {
		return sio.ErrorInvalid
	}
	if err := m.device.Start(); err != nil {
		if fn := m.errorFn; fn != nil {
			fn(m, sio.ErrorStreaming)
		}
		return sio.ErrorStreaming
	}
	m.stop = make(chan struct{})
	m.running.Store(true)
	go m.pump(m, m.stop)
	return sio.ErrorNone
}

// data fills a miniaudio output buffer from the ring. Runs on the device's
// audio thread; an empty ring while running counts as one underflow episode.
func (m *Malgo) data(out []byte) {
	read := m.ring.Read(out)
	if read < len(out) && m.running.Load() && !m.paused.Load() {
		if !m.dry {
			m.dry = true
			if fn := m.underflowFn; fn != nil {
				fn(m)
			}
		}
	} else if read == len(out) {
		m.dry = false
	}
}

// Pause stops or restarts the playback device.
func (m *Malgo) Pause(pause bool) sio.Error {
	if m.destroyed.Load() {
		return sio.ErrorStreaming
	}
	if m.device == nil {
		return sio.ErrorInvalid
	}
	if pause == m.paused.Load() {
		return sio.ErrorNone
	}
	var err error
	if pause {
		err = m.device.Stop()
	} else {
		err = m.device.Start()
	}
	if err != nil {
		return sio.ErrorStreaming
	}
	m.paused.Store(pause)
	return sio.ErrorNone
}

// Latency reports the delay represented by the queued audio.
func (m *Malgo) Latency() (float64, sio.Error) {
	if m.destroyed.Load() {
		return 0, sio.ErrorStreaming
	}
	return m.bufferedLatency(0), sio.ErrorNone
}

// Destroy stops the pump and tears down the device and context.
func (m *Malgo) Destroy() {
	if !m.destroyed.CompareAndSwap(false, true) {
		return
	}
	m.running.Store(false)
	if m.stop != nil {
		close(m.stop)
	}
	if m.device != nil {
		m.device.Uninit()
		m.device = nil
	}
	if m.malgoCtx != nil {
		m.malgoCtx.Uninit()
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
}
