// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 streams to planar float32 via go-mp3
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// MP3 decodes MP3 audio. go-mp3 always produces 16-bit stereo output.
type MP3 struct {
	dec     *mp3.Decoder
	scratch []byte
}

// NewMP3 creates a decoder reading MP3 data from r.
func NewMP3(r io.Reader) (*MP3, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}
	return &MP3{dec: dec}, nil
}

// SampleRate returns the source sample rate.
func (d *MP3) SampleRate() int { return d.dec.SampleRate() }

// Channels returns 2; go-mp3 upmixes mono sources.
func (d *MP3) Channels() int { return 2 }

// ReadFrames fills one buffer per channel with decoded frames.
func (d *MP3) ReadFrames(buffers [][]float32) (int, error) {
	if len(buffers) < 2 {
		return 0, fmt.Errorf("need 2 channel buffers, got %d", len(buffers))
	}

	// 4 bytes per frame: interleaved s16le stereo.
	need := len(buffers[0]) * 4
	if cap(d.scratch) < need {
		d.scratch = make([]byte, need)
	}
	buf := d.scratch[:need]
	n, err := io.ReadFull(d.dec, buf)
	frames := n / 4
	for i := 0; i < frames; i++ {
		left := int16(binary.LittleEndian.Uint16(buf[i*4:]))
		right := int16(binary.LittleEndian.Uint16(buf[i*4+2:]))
		buffers[0][i] = sampleFromInt16(left)
		buffers[1][i] = sampleFromInt16(right)
	}

	if frames == 0 {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, io.EOF
		}
		if err != nil {
			return 0, fmt.Errorf("mp3 decode error: %w", err)
		}
	}
	return frames, nil
}

// Close is a no-op; the caller owns the reader.
func (d *MP3) Close() error { return nil }
