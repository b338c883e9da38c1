package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
)

// flacDecoder decodes FLAC files using mewkiz/flac.
type flacDecoder struct{}

func (d *flacDecoder) Extensions() []string {
	return []string{".flac"}
}

func (d *flacDecoder) Decode(path string) (Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return Signal{}, fmt.Errorf("failed to open FLAC file: %w", err)
	}
	defer f.Close()

	stream, err := flac.New(f)
	if err != nil {
		return Signal{}, fmt.Errorf("failed to parse FLAC stream: %w", err)
	}

	info := stream.Info
	if info == nil || info.SampleRate == 0 {
		return Signal{}, fmt.Errorf("FLAC stream has no valid stream info")
	}

	channels := int(info.NChannels)
	if channels < 1 {
		channels = 1
	}
	scale := float64(int64(1) << uint(info.BitsPerSample-1))

	var mono []float64
	if info.NSamples > 0 {
		mono = make([]float64, 0, info.NSamples)
	}

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Signal{}, fmt.Errorf("failed to decode FLAC frame: %w", err)
		}

		// Subframes hold one channel each; average them into mono.
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			sum := 0.0
			for ch := 0; ch < channels; ch++ {
				sum += float64(frame.Subframes[ch].Samples[i])
			}
			mono = append(mono, sum/float64(channels)/scale)
		}
	}

	return Signal{
		Samples:    mono,
		SampleRate: int(info.SampleRate),
	}, nil
}
