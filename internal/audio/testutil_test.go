package audio

import (
	"encoding/binary"
	"math"
	"os"
	"testing"
)

// testAudioOptions configures the synthetic audio to generate
type testAudioOptions struct {
	DurationSecs float64   // Total duration in seconds
	SampleRate   int       // Sample rate (default: 44100)
	Channels     int       // Channel count (default: 1)
	ChannelGains []float64 // Per-channel amplitude multipliers (default: all 1.0)
	ToneFreq     float64   // Sine wave frequency in Hz (0 = no tone)
	ToneLevel    float64   // Tone level in dBFS (e.g., -23.0)
	NoiseLevel   float64   // White noise level in dBFS (0 = no noise, -60 = quiet noise)
}

// generateTestWAV creates a synthetic WAV audio file for testing.
// The generated audio can include a sine wave tone and white noise,
// optionally spread over several channels with per-channel gains.
// Returns the path to the temporary file (caller must clean up with os.Remove).
func generateTestWAV(t *testing.T, opts testAudioOptions) string {
	t.Helper()

	// Set defaults
	if opts.SampleRate == 0 {
		opts.SampleRate = 44100
	}
	if opts.DurationSecs == 0 {
		opts.DurationSecs = 1.0
	}
	if opts.Channels == 0 {
		opts.Channels = 1
	}

	totalFrames := int(opts.DurationSecs * float64(opts.SampleRate))

	// Convert dBFS to linear amplitude (0 dBFS = 1.0 = max int16)
	toneAmp := 0.0
	if opts.ToneFreq > 0 && opts.ToneLevel < 0 {
		toneAmp = math.Pow(10.0, opts.ToneLevel/20.0)
	}

	noiseAmp := 0.0
	if opts.NoiseLevel < 0 {
		noiseAmp = math.Pow(10.0, opts.NoiseLevel/20.0)
	}

	// Simple LCG random number generator for deterministic noise
	// (avoids importing math/rand and seeding complexity)
	rngState := uint32(12345)
	nextRandom := func() float64 {
		// LCG parameters from Numerical Recipes
		rngState = rngState*1664525 + 1013904223
		// Convert to -1.0 to 1.0 range
		return (float64(rngState)/float64(0xFFFFFFFF))*2.0 - 1.0
	}

	channelGain := func(ch int) float64 {
		if ch < len(opts.ChannelGains) {
			return opts.ChannelGains[ch]
		}
		return 1.0
	}

	maxInt16 := float64(math.MaxInt16)
	samples := make([]int16, totalFrames*opts.Channels)

	for i := 0; i < totalFrames; i++ {
		var sample float64

		if toneAmp > 0 {
			tm := float64(i) / float64(opts.SampleRate)
			sample += toneAmp * math.Sin(2.0*math.Pi*opts.ToneFreq*tm)
		}

		if noiseAmp > 0 {
			sample += noiseAmp * nextRandom()
		}

		for ch := 0; ch < opts.Channels; ch++ {
			s := sample * channelGain(ch)

			// Clamp to [-1, 1] and convert to int16
			if s > 1.0 {
				s = 1.0
			} else if s < -1.0 {
				s = -1.0
			}
			samples[i*opts.Channels+ch] = int16(s * maxInt16)
		}
	}

	tmpFile, err := os.CreateTemp(t.TempDir(), "presetanalyzer-test-*.wav")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()

	if err := writeWAV(tmpFile, samples, opts.SampleRate, opts.Channels); err != nil {
		tmpFile.Close()
		t.Fatalf("failed to write WAV file: %v", err)
	}

	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}

	return tmpPath
}

// writeWAV writes an interleaved 16-bit WAV file
func writeWAV(f *os.File, samples []int16, sampleRate, numChannels int) error {
	const bitsPerSample = 16

	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := len(samples) * 2 // 2 bytes per sample (16-bit)
	fileSize := 36 + dataSize    // Total file size minus 8 bytes for RIFF header

	// RIFF header
	if _, err := f.Write([]byte("RIFF")); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(fileSize)); err != nil {
		return err
	}
	if _, err := f.Write([]byte("WAVE")); err != nil {
		return err
	}

	// fmt subchunk
	if _, err := f.Write([]byte("fmt ")); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(16)); err != nil { // Subchunk size
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint16(1)); err != nil { // Audio format (PCM)
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint16(numChannels)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(sampleRate)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(byteRate)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint16(blockAlign)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint16(bitsPerSample)); err != nil {
		return err
	}

	// data subchunk
	if _, err := f.Write([]byte("data")); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(dataSize)); err != nil {
		return err
	}

	// Write samples
	for _, sample := range samples {
		if err := binary.Write(f, binary.LittleEndian, sample); err != nil {
			return err
		}
	}

	return nil
}
