// Package audio provides audio file decoding into analysis-ready signals.
//
// Decoded audio is always reduced to a single channel: multi-channel
// material is averaged sample by sample, and samples are normalised to
// the [-1, 1] range regardless of the source bit depth. The native
// sample rate is preserved so that spectral analysis sees the file as
// it was recorded.
package audio

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Signal is a decoded audio stream: mono samples in [-1, 1] and the
// native sample rate of the source file.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the length of the signal in seconds.
func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Decoder decodes one audio container format into a mono Signal.
type Decoder interface {
	// Decode reads the file at path and returns its samples mixed
	// down to mono.
	Decode(path string) (Signal, error)
	// Extensions lists the lower-case file extensions the decoder
	// handles, including the leading dot.
	Extensions() []string
}

var decoders = map[string]Decoder{}

func register(d Decoder) {
	for _, ext := range d.Extensions() {
		decoders[strings.ToLower(ext)] = d
	}
}

func init() {
	register(&wavDecoder{})
	register(&flacDecoder{})
}

// SupportedExtensions returns the registered file extensions in sorted
// order, for use in help text and error messages.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load decodes the audio file at path using the decoder registered for
// its extension.
func Load(path string) (Signal, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return Signal{}, fmt.Errorf("cannot determine audio format of %s: no file extension", filepath.Base(path))
	}

	dec, ok := decoders[ext]
	if !ok {
		return Signal{}, fmt.Errorf("unsupported audio format %s (supported: %s)", ext, strings.Join(SupportedExtensions(), ", "))
	}

	sig, err := dec.Decode(path)
	if err != nil {
		return Signal{}, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return sig, nil
}

// mixdown averages interleaved multi-channel samples into a mono
// signal. Mono input is returned unchanged.
func mixdown(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += interleaved[i*channels+ch]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
