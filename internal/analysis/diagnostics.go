package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Diagnostic thresholds
const (
	rangeThresholdDB = -60.0 // dB - bins above this count as content
	minAudibleHz     = 20.0
	maxAudibleHz     = 20000.0

	humNeighbourhoodRatio = 0.15 // fraction of the hum frequency excluded around it
)

// frequencyRange returns the lowest and highest frequencies with
// spectral content above the threshold, clamped to the audible range.
// A spectrum with no content at all reports the full audible range.
func frequencyRange(spec Spectrum) (minHz, maxHz float64) {
	minHz, maxHz = minAudibleHz, maxAudibleHz
	found := false
	for i, level := range spec.Magnitudes {
		if level <= rangeThresholdDB {
			continue
		}
		if !found {
			minHz = math.Max(minAudibleHz, spec.Frequencies[i])
			found = true
		}
		maxHz = math.Min(maxAudibleHz, spec.Frequencies[i])
	}
	if !found {
		return minAudibleHz, maxAudibleHz
	}
	return minHz, maxHz
}

// BandDeviation reports how far one band's mean level sits from the
// average across all bands.
type BandDeviation struct {
	Band      Band
	Deviation float64 // dB relative to the cross-band average
}

// spectralBalance measures each band's mean level against the average
// across all bands, a quick read on whether the recording leans dark
// or bright. Bands with no bins are excluded from the average and
// report zero deviation.
func spectralBalance(spec Spectrum) []BandDeviation {
	type bandLevel struct {
		mean float64
		ok   bool
	}

	levels := make([]bandLevel, len(eqBands))
	total := 0.0
	counted := 0
	for i, band := range eqBands {
		lo := nearestBin(spec.Frequencies, band.Low)
		hi := nearestBin(spec.Frequencies, band.High)
		if hi <= lo {
			continue
		}
		mean := stat.Mean(spec.Magnitudes[lo:hi], nil)
		levels[i] = bandLevel{mean: mean, ok: true}
		total += mean
		counted++
	}

	average := 0.0
	if counted > 0 {
		average = total / float64(counted)
	}

	deviations := make([]BandDeviation, len(eqBands))
	for i, band := range eqBands {
		deviations[i] = BandDeviation{Band: band}
		if levels[i].ok {
			deviations[i].Deviation = levels[i].mean - average
		}
	}
	return deviations
}

// HumElevation measures how far the spectrum level at humHz rises
// above the median of its surrounding octave, in dB. The bins within
// humNeighbourhoodRatio of the hum frequency are excluded from the
// comparison so the hum cannot mask itself. Returns 0 when the
// neighbourhood is empty.
func HumElevation(spec Spectrum, humHz float64) float64 {
	if humHz <= 0 || len(spec.Frequencies) == 0 {
		return 0
	}

	level := spec.Magnitudes[nearestBin(spec.Frequencies, humHz)]

	var neighbourhood []float64
	for i, hz := range spec.Frequencies {
		if hz < humHz/2 || hz > humHz*2 {
			continue
		}
		if math.Abs(hz-humHz) <= humHz*humNeighbourhoodRatio {
			continue
		}
		neighbourhood = append(neighbourhood, spec.Magnitudes[i])
	}
	if len(neighbourhood) == 0 {
		return 0
	}
	return level - median(neighbourhood)
}
