// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC streams to planar float32 via mewkiz/flac
package decode

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// FLAC decodes FLAC audio frame by frame.
type FLAC struct {
	stream *flac.Stream
	scale  float32

	// Carry-over for frames larger than the caller's buffers.
	pending [][]int32
	offset  int
}

// NewFLAC creates a decoder reading FLAC data from r.
func NewFLAC(r io.Reader) (*FLAC, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create flac decoder: %w", err)
	}
	return &FLAC{
		stream: stream,
		scale:  float32(int32(1) << (stream.Info.BitsPerSample - 1)),
	}, nil
}

// SampleRate returns the source sample rate.
func (d *FLAC) SampleRate() int { return int(d.stream.Info.SampleRate) }

// Channels returns the source channel count.
func (d *FLAC) Channels() int { return int(d.stream.Info.NChannels) }

// ReadFrames fills one buffer per channel with decoded frames.
func (d *FLAC) ReadFrames(buffers [][]float32) (int, error) {
	channels := d.Channels()
	if len(buffers) < channels {
		return 0, fmt.Errorf("need %d channel buffers, got %d", channels, len(buffers))
	}

	produced := 0
	want := len(buffers[0])
	for produced < want {
		if d.pending == nil {
			frame, err := d.stream.ParseNext()
			if err != nil {
				if produced > 0 {
					return produced, nil
				}
				if err == io.EOF {
					return 0, io.EOF
				}
				return 0, fmt.Errorf("flac decode error: %w", err)
			}
			d.pending = make([][]int32, len(frame.Subframes))
			for ch, sub := range frame.Subframes {
				d.pending[ch] = sub.Samples
			}
			d.offset = 0
		}

		avail := len(d.pending[0]) - d.offset
		take := want - produced
		if take > avail {
			take = avail
		}
		for ch := 0; ch < channels; ch++ {
			src := d.pending[ch][d.offset : d.offset+take]
			dst := buffers[ch][produced : produced+take]
			for i, sample := range src {
				dst[i] = float32(sample) / d.scale
			}
		}
		produced += take
		d.offset += take
		if d.offset >= len(d.pending[0]) {
			d.pending = nil
		}
	}
	return produced, nil
}

// Close releases the underlying stream.
func (d *FLAC) Close() error { return d.stream.Close() }
