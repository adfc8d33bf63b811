//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package backend

import (
	"github.com/sio-project/sio-go/pkg/sio"
)

// PortAudio stream backend (stub).
type PortAudio struct {
	streamBase
}

var _ sio.RawStream = (*PortAudio)(nil)

// NewPortAudio creates a PortAudio-backed stream with the given options.
func NewPortAudio(opts Options) *PortAudio {
	return &PortAudio{streamBase: newStreamBase(opts, "portaudio default output")}
}

// Open reports that PortAudio support is not compiled in.
func (p *PortAudio) Open() sio.Error {
	return sio.ErrorBackendUnavailable
}

// Start reports that PortAudio support is not compiled in.
func (p *PortAudio) Start() sio.Error {
	return sio.ErrorBackendUnavailable
}

// Pause reports that PortAudio support is not compiled in.
func (p *PortAudio) Pause(pause bool) sio.Error {
	return sio.ErrorBackendUnavailable
}

// Latency reports that PortAudio support is not compiled in.
func (p *PortAudio) Latency() (float64, sio.Error) {
	return 0, sio.ErrorBackendUnavailable
}

// Destroy is a no-op for the stub.
func (p *PortAudio) Destroy() {
	p.destroyed.Store(true)
}
