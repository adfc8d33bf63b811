// ABOUTME: WAV audio decoder
// ABOUTME: Minimal RIFF parser for 16-bit PCM wave files
package decode

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WAV decodes 16-bit PCM RIFF wave data.
type WAV struct {
	r          io.Reader
	sampleRate int
	channels   int
	remaining  uint32 // bytes left in the data chunk
	scratch    []byte
}

// NewWAV parses the RIFF header from r and positions the decoder at the
// start of the data chunk. Only uncompressed 16-bit PCM is supported.
func NewWAV(r io.Reader) (*WAV, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF wave file")
	}

	w := &WAV{r: r}
	haveFmt := false
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return nil, fmt.Errorf("failed to read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("fmt chunk too small: %d bytes", size)
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			audioFormat := binary.LittleEndian.Uint16(body[0:2])
			if audioFormat != 1 {
				return nil, fmt.Errorf("unsupported wave format %d (PCM only)", audioFormat)
			}
			w.channels = int(binary.LittleEndian.Uint16(body[2:4]))
			w.sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bits := binary.LittleEndian.Uint16(body[14:16])
			if bits != 16 {
				return nil, fmt.Errorf("unsupported bit depth %d (16-bit only)", bits)
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("data chunk before fmt chunk")
			}
			w.remaining = size
			return w, nil
		default:
			// Skip unknown chunks (LIST, fact, ...), padded to even size.
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, fmt.Errorf("failed to skip %s chunk: %w", id, err)
			}
		}
	}
}

// SampleRate returns the source sample rate.
func (w *WAV) SampleRate() int { return w.sampleRate }

// Channels returns the source channel count.
func (w *WAV) Channels() int { return w.channels }

// ReadFrames fills one buffer per channel with decoded frames.
func (w *WAV) ReadFrames(buffers [][]float32) (int, error) {
	if len(buffers) < w.channels {
		return 0, fmt.Errorf("need %d channel buffers, got %d", w.channels, len(buffers))
	}
	if w.remaining == 0 {
		return 0, io.EOF
	}

	frameBytes := w.channels * 2
	want := len(buffers[0])
	if max := int(w.remaining) / frameBytes; want > max {
		want = max
	}
	if want == 0 {
		return 0, io.EOF
	}

	need := want * frameBytes
	if cap(w.scratch) < need {
		w.scratch = make([]byte, need)
	}
	buf := w.scratch[:need]
	n, err := io.ReadFull(w.r, buf)
	frames := n / frameBytes
	for i := 0; i < frames; i++ {
		for ch := 0; ch < w.channels; ch++ {
			sample := int16(binary.LittleEndian.Uint16(buf[i*frameBytes+ch*2:]))
			buffers[ch][i] = sampleFromInt16(sample)
		}
	}
	w.remaining -= uint32(frames * frameBytes)

	if err != nil && frames == 0 {
		return 0, io.EOF
	}
	return frames, nil
}

// Close is a no-op; the caller owns the reader.
func (w *WAV) Close() error { return nil }
