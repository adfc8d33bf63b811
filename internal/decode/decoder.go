// ABOUTME: Decoder interface and file-type dispatch
// ABOUTME: Common interface for all audio file decoders
package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Decoder produces planar float32 PCM frames from an audio source.
type Decoder interface {
	// SampleRate returns the source sample rate in frames per second.
	SampleRate() int

	// Channels returns the source channel count.
	Channels() int

	// ReadFrames fills one buffer per channel and returns the number of
	// frames produced. It returns io.EOF once the source is exhausted.
	ReadFrames(buffers [][]float32) (int, error)

	// Close releases decoder resources.
	Close() error
}

// Open creates a decoder for the file at path, picked by extension.
func Open(path string) (Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	var dec Decoder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		dec, err = NewWAV(f)
	case ".mp3":
		dec, err = NewMP3(f)
	case ".flac":
		dec, err = NewFLAC(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileDecoder{Decoder: dec, f: f}, nil
}

// fileDecoder closes the backing file along with the decoder.
type fileDecoder struct {
	Decoder
	f *os.File
}

func (d *fileDecoder) Close() error {
	err := d.Decoder.Close()
	if closeErr := d.f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// sampleFromInt16 converts a signed 16-bit sample to float32 in [-1, 1).
func sampleFromInt16(sample int16) float32 {
	return float32(sample) / 32768
}
