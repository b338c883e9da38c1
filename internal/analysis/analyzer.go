// Package analysis derives parametric EQ preset parameters from a
// decoded audio signal.
//
// The analyser builds a median spectrum across overlapping segments of
// the recording, smooths and perceptually weights it, and then derives
// a centre frequency, gain and Q for each of seven fixed bands. Gains
// are offsets from an estimated reference level, so the resulting
// preset corrects the tonal balance of the recording rather than its
// absolute level.
package analysis

import (
	"github.com/calum-mcyoko/Analysis-Plugin/internal/audio"
)

// Stage identifies one step of the analysis pipeline for progress
// reporting.
type Stage int

const (
	StageTransients Stage = iota
	StageSpectrum
	StageSmoothing
	StageWeighting
	StageReference
	StageDiagnostics
	StageBands
	StageNormalise
	StageBalance

	// NumStages is the total number of reported pipeline stages.
	NumStages = int(StageBalance) + 1
)

var stageNames = [NumStages]string{
	StageTransients:  "Analysing transients",
	StageSpectrum:    "Computing segment spectra",
	StageSmoothing:   "Smoothing spectrum",
	StageWeighting:   "Applying perceptual weighting",
	StageReference:   "Estimating reference level",
	StageDiagnostics: "Checking frequency range and balance",
	StageBands:       "Extracting band corrections",
	StageNormalise:   "Normalising parameters",
	StageBalance:     "Balancing Q values",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= NumStages {
		return "Unknown stage"
	}
	return stageNames[s]
}

// ProgressFunc receives progress updates as the pipeline runs.
// fraction is the completion of the current stage in [0, 1].
// Implementations must be safe to call from multiple goroutines, as
// the spectrum stage reports from its workers.
type ProgressFunc func(stage Stage, fraction float64)

// Result holds everything the analysis derives from a signal.
type Result struct {
	SampleRate    int
	Duration      float64 // seconds
	FFTSize       int
	SegmentsUsed  int // segment windows loud enough to contribute
	SegmentsTotal int // segment windows analysed overall

	Transients     TransientProfile
	ReferenceLevel float64 // dB baseline the band gains offset from

	MinFrequency float64 // Hz - lowest detected content
	MaxFrequency float64 // Hz - highest detected content
	Balance      []BandDeviation

	// Spectrum is the smoothed, weighted spectrum the bands were read
	// from, kept for diagnostics such as the mains hum check.
	Spectrum Spectrum

	Bands      []BandResult     // raw per-band corrections
	Parameters []BandParameters // normalised preset parameters after Q balancing
}

// Analyze runs the full pipeline over a decoded signal. progress may
// be nil. The analysis is deterministic: the same signal always
// produces the same result.
func Analyze(sig audio.Signal, progress ProgressFunc) *Result {
	report := func(stage Stage, fraction float64) {
		if progress != nil {
			progress(stage, fraction)
		}
	}

	res := &Result{
		SampleRate: sig.SampleRate,
		Duration:   sig.Duration(),
		FFTSize:    fftSizeFor(len(sig.Samples)),
	}

	report(StageTransients, 0)
	res.Transients = analyzeTransients(sig.Samples, sig.SampleRate)
	report(StageTransients, 1)

	report(StageSpectrum, 0)
	spec, used, total := analyzeSegments(sig.Samples, sig.SampleRate, res.FFTSize, func(done, total int) {
		report(StageSpectrum, float64(done)/float64(total))
	})
	res.SegmentsUsed = used
	res.SegmentsTotal = total

	report(StageSmoothing, 0)
	spec.Magnitudes = smoothSpectrum(spec.Magnitudes, res.FFTSize)
	report(StageSmoothing, 1)

	report(StageWeighting, 0)
	spec = applyPerceptualWeighting(spec)
	report(StageWeighting, 1)

	report(StageReference, 0)
	res.ReferenceLevel = referenceLevel(spec)
	report(StageReference, 1)

	report(StageDiagnostics, 0)
	res.MinFrequency, res.MaxFrequency = frequencyRange(spec)
	res.Balance = spectralBalance(spec)
	res.Spectrum = spec
	report(StageDiagnostics, 1)

	report(StageBands, 0)
	res.Bands = extractBands(spec, res.ReferenceLevel, res.Transients.QFactor)
	report(StageBands, 1)

	report(StageNormalise, 0)
	params := normaliseBands(res.Bands)
	report(StageNormalise, 1)

	report(StageBalance, 0)
	res.Parameters = balanceQs(params)
	report(StageBalance, 1)

	return res
}
