package audio

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavDecoder decodes PCM WAV files using go-audio.
type wavDecoder struct{}

func (d *wavDecoder) Extensions() []string {
	return []string{".wav"}
}

func (d *wavDecoder) Decode(path string) (Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return Signal{}, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Signal{}, fmt.Errorf("not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Signal{}, fmt.Errorf("failed to read WAV samples: %w", err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return Signal{}, fmt.Errorf("WAV file has no valid format header")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	return pcmSignal(buf, bitDepth), nil
}

// pcmSignal converts a decoded PCM buffer to a mono signal, normalising
// integer samples to [-1, 1] by the source bit depth.
func pcmSignal(buf *gaudio.IntBuffer, bitDepth int) Signal {
	scale := float64(int64(1) << uint(bitDepth-1))

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / scale
	}

	return Signal{
		Samples:    mixdown(samples, buf.Format.NumChannels),
		SampleRate: buf.Format.SampleRate,
	}
}
