package analysis

import (
	"math"
	"math/cmplx"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// Spectral analysis tuning
const (
	defaultFFTSize = 32768 // samples - ~1.3 Hz resolution at 44.1 kHz
	numSegments    = 8     // segments the signal is divided into
	segmentSilence = 0.01  // mean |sample| below which a segment is skipped
	stftOverlap    = 4     // frame hop is fftSize / stftOverlap
	minMagnitude   = 1e-5  // amplitude floor before dB conversion
	noiseFloorDB   = -80.0 // dB - floor after referencing to the segment peak
)

// Spectrum pairs dB magnitudes with their bin frequencies.
type Spectrum struct {
	Frequencies []float64 // Hz, uniform bins from 0 to Nyquist
	Magnitudes  []float64 // dB relative to the segment peaks
}

// fftSizeFor picks the FFT size for a signal length: the default for
// anything long enough, otherwise the largest power of two that fits.
func fftSizeFor(signalLen int) int {
	if signalLen >= defaultFFTSize {
		return defaultFFTSize
	}
	size := 1
	for size*2 <= signalLen {
		size *= 2
	}
	return size
}

// binFrequencies returns the centre frequency of each FFT bin up to
// Nyquist.
func binFrequencies(sampleRate, fftSize int) []float64 {
	freqs := make([]float64, fftSize/2+1)
	for k := range freqs {
		freqs[k] = float64(k) * float64(sampleRate) / float64(fftSize)
	}
	return freqs
}

// analyzeSegments computes the median spectrum across overlapping
// stretches of the signal. The signal is split into numSegments pieces
// analysed at 50% overlap, giving 2*numSegments-1 windows; windows
// quieter than segmentSilence are skipped so silent stretches do not
// drag the result down. The windows are analysed concurrently and the
// per-bin median across those that remain is returned, along with how
// many contributed and how many were analysed in total.
func analyzeSegments(samples []float64, sampleRate, fftSize int, progress func(done, total int)) (spec Spectrum, used, total int) {
	bins := fftSize/2 + 1
	freqs := binFrequencies(sampleRate, fftSize)

	segmentLength := len(samples) / numSegments
	if segmentLength == 0 {
		return Spectrum{Frequencies: freqs, Magnitudes: make([]float64, bins)}, 0, 0
	}

	hop := segmentLength / 2
	type span struct{ start, end int }
	var windows []span
	for i := 0; i < 2*numSegments-1; i++ {
		start := i * hop
		end := start + segmentLength
		if end > len(samples) {
			break
		}
		windows = append(windows, span{start, end})
	}

	spectra := make([][]float64, len(windows))
	workers := runtime.GOMAXPROCS(0)
	if workers > len(windows) {
		workers = len(windows)
	}
	if workers < 1 {
		workers = 1
	}

	var done atomic.Int64
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				spectra[idx] = segmentSpectrum(samples[windows[idx].start:windows[idx].end], fftSize)
				if progress != nil {
					progress(int(done.Add(1)), len(windows))
				}
			}
		}()
	}
	for idx := range windows {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	kept := make([][]float64, 0, len(spectra))
	for _, s := range spectra {
		if s != nil {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return Spectrum{Frequencies: freqs, Magnitudes: make([]float64, bins)}, 0, len(windows)
	}

	med := make([]float64, bins)
	column := make([]float64, len(kept))
	for k := 0; k < bins; k++ {
		for j, s := range kept {
			column[j] = s[k]
		}
		med[k] = median(column)
	}
	return Spectrum{Frequencies: freqs, Magnitudes: med}, len(kept), len(windows)
}

// segmentSpectrum returns the time-averaged dB spectrum of one
// segment, or nil when the segment is below the silence threshold.
// The segment is tapered with a Hann window and short-time
// transformed at a quarter-frame hop; magnitudes are converted to dB
// relative to the loudest bin in the segment and floored at the noise
// floor.
func segmentSpectrum(segment []float64, fftSize int) []float64 {
	if floats.Norm(segment, 1)/float64(len(segment)) < segmentSilence {
		return nil
	}

	tapered := make([]float64, len(segment))
	copy(tapered, segment)
	window.Hann(tapered)

	bins := fftSize/2 + 1
	hop := fftSize / stftOverlap
	if hop < 1 {
		hop = 1
	}

	var mags [][]float64
	peak := 0.0
	frame := make([]float64, fftSize)
	for start := 0; start < len(tapered); start += hop {
		for i := range frame {
			frame[i] = 0
		}
		end := start + fftSize
		if end > len(tapered) {
			end = len(tapered)
		}
		copy(frame, tapered[start:end])
		window.Hann(frame)

		spec := fft.FFTReal(frame)
		m := make([]float64, bins)
		for k := 0; k < bins; k++ {
			m[k] = cmplx.Abs(spec[k])
			if m[k] > peak {
				peak = m[k]
			}
		}
		mags = append(mags, m)
	}

	if peak < minMagnitude {
		peak = minMagnitude
	}
	refDB := 20 * math.Log10(peak)

	avg := make([]float64, bins)
	for _, m := range mags {
		for k, v := range m {
			if v < minMagnitude {
				v = minMagnitude
			}
			db := 20*math.Log10(v) - refDB
			if db < noiseFloorDB {
				db = noiseFloorDB
			}
			avg[k] += db
		}
	}
	for k := range avg {
		avg[k] /= float64(len(mags))
	}
	return avg
}

// median returns the middle value of xs, averaging the two central
// values for even counts. The input is left unmodified.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// nearestBin returns the index of the frequency bin closest to target,
// preferring the lower bin on exact ties.
func nearestBin(freqs []float64, target float64) int {
	i := sort.SearchFloat64s(freqs, target)
	if i == 0 {
		return 0
	}
	if i >= len(freqs) {
		return len(freqs) - 1
	}
	if target-freqs[i-1] <= freqs[i]-target {
		return i - 1
	}
	return i
}
