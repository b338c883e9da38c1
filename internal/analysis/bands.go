package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NumBands is the number of fixed analyser bands in every preset.
const NumBands = 7

// Band is one of the seven fixed frequency bands.
type Band struct {
	Low   float64 // Hz
	High  float64 // Hz
	Label string
}

// eqBands covers the audible range in seven fixed bands.
var eqBands = [NumBands]Band{
	{20, 150, "Sub Bass"},
	{150, 400, "Bass"},
	{400, 800, "Low Mids"},
	{800, 2500, "Mids"},
	{2500, 5000, "High Mids"},
	{5000, 10000, "Presence"},
	{10000, 20000, "Air"},
}

// BandShape describes which spectral feature a band's correction
// targets.
type BandShape int

const (
	ShapePeak BandShape = iota
	ShapeDip
	ShapeFlat // no spectral content in the band
)

func (s BandShape) String() string {
	switch s {
	case ShapePeak:
		return "peak"
	case ShapeDip:
		return "dip"
	default:
		return "flat"
	}
}

// BandResult is the derived correction for one band: a centre
// frequency, a gain offset from the reference level, and a Q width.
type BandResult struct {
	Band      Band
	Shape     BandShape
	Frequency float64 // Hz
	Gain      float64 // dB
	Q         float64
}

// bandStrategy selects how a band picks its centre frequency and gain.
type bandStrategy int

const (
	// trackEnergy bands centre on the loudest bin and set the gain
	// from the band's mean level. Suits the low end, where overall
	// energy matters more than individual features.
	trackEnergy bandStrategy = iota
	// trackFeature bands target whichever of the strongest peak or
	// deepest dip stands out more from the band's mean level.
	trackFeature
)

// bandTuning holds the per-band shaping applied during extraction.
type bandTuning struct {
	Strategy   bandStrategy
	GainScale  float64 // final multiplier on the band gain
	BoostScale float64 // extra multiplier on positive gains (energy bands)
	QScale     float64 // multiplier on the measured Q (peak corrections)
	QCap       float64 // ceiling on peak-correction Q
	DipQCap    float64 // ceiling on dip-correction Q (feature bands)
	PeakWeight float64 // significance weighting towards peaks (feature bands)
	DipWeight  float64 // significance weighting towards dips (feature bands)
}

// bandTunings indexes the tuning by band. The low bands stay broad and
// cautious; the upper bands are allowed progressively sharper
// corrections but with their gains damped.
var bandTunings = [NumBands]bandTuning{
	{Strategy: trackEnergy, GainScale: 0.9, BoostScale: 1.0, QScale: 0.7, QCap: 0.8},  // Sub Bass
	{Strategy: trackEnergy, GainScale: 1.0, BoostScale: 1.0, QScale: 0.8, QCap: 1.2},  // Bass
	{Strategy: trackEnergy, GainScale: 1.0, BoostScale: 1.1, QScale: 0.9, QCap: 1.5},  // Low Mids
	{Strategy: trackFeature, GainScale: 0.9, QScale: 0.9, QCap: 1.8, DipQCap: 1.5, PeakWeight: 1.0, DipWeight: 1.15},  // Mids
	{Strategy: trackFeature, GainScale: 0.85, QScale: 0.95, QCap: 2.0, DipQCap: 1.7, PeakWeight: 1.1, DipWeight: 1.0}, // High Mids
	{Strategy: trackFeature, GainScale: 0.8, QScale: 1.0, QCap: 2.5, DipQCap: 2.0, PeakWeight: 1.2, DipWeight: 1.0},   // Presence
	{Strategy: trackFeature, GainScale: 0.8, QScale: 0.8, QCap: 1.5, DipQCap: 1.2, PeakWeight: 1.2, DipWeight: 1.0},   // Air
}

// Band extraction tuning
const (
	bassCutScale   = 0.7 // applied to negative gains in the energy bands
	bassBoostScale = 1.2 // applied to positive gains in the energy bands
	dipQScale      = 0.8 // widens dip corrections before their cap

	maxCutDB   = -12.0 // dB - correction floor per band
	maxBoostDB = 6.0   // dB - correction ceiling per band

	minBandQ = 0.5 // final Q clamp
	maxBandQ = 2.0

	strongGainDB     = 10.0 // dB - |gain| above this widens the correction
	strongGainQScale = 0.6
	mediumGainDB     = 6.0 // dB
	mediumGainQScale = 0.8

	measuredQFloor = 0.5 // clamp on the raw bandwidth measurement
	measuredQCeil  = 4.0
)

// extractBands derives all seven band corrections from the weighted
// spectrum, then applies the cross-band adjustments: strong
// corrections are widened, the transient factor scales every Q, and
// gains and Qs are clamped to their working ranges. Bands with no
// spectral content keep their neutral values.
func extractBands(spec Spectrum, reference, transientQ float64) []BandResult {
	results := make([]BandResult, NumBands)
	for i := range eqBands {
		res := extractBand(i, spec, reference)
		if res.Shape == ShapeFlat {
			results[i] = res
			continue
		}

		switch absGain := math.Abs(res.Gain); {
		case absGain > strongGainDB:
			res.Q *= strongGainQScale
		case absGain > mediumGainDB:
			res.Q *= mediumGainQScale
		}
		res.Q *= transientQ

		res.Gain = clamp(res.Gain, maxCutDB, maxBoostDB)
		res.Q = clamp(res.Q, minBandQ, maxBandQ)
		results[i] = res
	}
	return results
}

// extractBand derives the correction for band i from the weighted
// spectrum and the reference level.
func extractBand(i int, spec Spectrum, reference float64) BandResult {
	band := eqBands[i]
	tuning := bandTunings[i]

	lo := nearestBin(spec.Frequencies, band.Low)
	hi := nearestBin(spec.Frequencies, band.High)
	if hi <= lo {
		return emptyBand(band)
	}
	freqs := spec.Frequencies[lo:hi]
	levels := spec.Magnitudes[lo:hi]

	if tuning.Strategy == trackEnergy {
		return extractEnergyBand(band, tuning, freqs, levels, reference)
	}
	return extractFeatureBand(band, tuning, freqs, levels, reference)
}

// emptyBand is the neutral result for a band with no spectral content:
// geometric-mean centre, no gain, unity Q.
func emptyBand(band Band) BandResult {
	return BandResult{
		Band:      band,
		Shape:     ShapeFlat,
		Frequency: math.Sqrt(band.Low * band.High),
		Gain:      0,
		Q:         1.0,
	}
}

func extractEnergyBand(band Band, tuning bandTuning, freqs, levels []float64, reference float64) BandResult {
	peakIdx := floats.MaxIdx(levels)

	gain := stat.Mean(levels, nil) - reference
	if gain < 0 {
		gain *= bassCutScale
	} else {
		gain *= bassBoostScale
	}
	gain *= tuning.GainScale
	if gain > 0 {
		gain *= tuning.BoostScale
	}

	q := measureQ(freqs, levels, peakIdx) * tuning.QScale
	if q > tuning.QCap {
		q = tuning.QCap
	}

	return BandResult{
		Band:      band,
		Shape:     ShapePeak,
		Frequency: freqs[peakIdx],
		Gain:      gain,
		Q:         q,
	}
}

func extractFeatureBand(band Band, tuning bandTuning, freqs, levels []float64, reference float64) BandResult {
	peakIdx := floats.MaxIdx(levels)
	dipIdx := floats.MinIdx(levels)
	mean := stat.Mean(levels, nil)

	peakSignificance := (levels[peakIdx] - mean) * tuning.PeakWeight
	dipSignificance := (mean - levels[dipIdx]) * tuning.DipWeight

	res := BandResult{Band: band}
	if peakSignificance > dipSignificance {
		res.Shape = ShapePeak
		res.Frequency = freqs[peakIdx]
		res.Gain = levels[peakIdx] - reference
		q := measureQ(freqs, levels, peakIdx) * tuning.QScale
		if q > tuning.QCap {
			q = tuning.QCap
		}
		res.Q = q
	} else {
		res.Shape = ShapeDip
		res.Frequency = freqs[dipIdx]
		res.Gain = levels[dipIdx] - reference
		q := measureQ(freqs, levels, dipIdx) * dipQScale
		if q > tuning.DipQCap {
			q = tuning.DipQCap
		}
		res.Q = q
	}
	res.Gain *= tuning.GainScale
	return res
}

// measureQ estimates a Q from the -3 dB bandwidth around the extremum
// at extIdx, where freqs and levels cover just the band. The walk out
// from the extremum stops at the band edges, the measured Q is scaled
// down at low frequencies where broad corrections sound better, and a
// frequency-tiered default stands in when the extremum sits on a band
// edge or no bandwidth can be established.
func measureQ(freqs, levels []float64, extIdx int) float64 {
	centre := freqs[extIdx]
	if extIdx == 0 || extIdx == len(levels)-1 {
		return defaultQFor(centre)
	}

	halfPower := levels[extIdx] - 3.0

	left := extIdx
	for left > 0 && levels[left] > halfPower {
		left--
	}
	right := extIdx
	for right < len(levels)-1 && levels[right] > halfPower {
		right++
	}

	bandwidth := freqs[right] - freqs[left]
	if bandwidth <= 0 {
		return defaultQFor(centre)
	}

	q := centre / bandwidth * qScaleFor(centre)
	return clamp(q, measuredQFloor, measuredQCeil)
}

// defaultQFor returns a musically safe Q for a centre frequency when
// the bandwidth cannot be measured.
func defaultQFor(centreHz float64) float64 {
	switch {
	case centreHz < 100:
		return 0.7
	case centreHz < 250:
		return 1.0
	case centreHz < 2000:
		return 1.2
	default:
		return 1.5
	}
}

// qScaleFor returns the frequency-dependent scaling applied to a
// measured Q, keeping low-frequency corrections broad.
func qScaleFor(centreHz float64) float64 {
	switch {
	case centreHz < 100:
		return 0.5
	case centreHz < 250:
		return 0.6
	case centreHz < 800:
		return 0.7
	case centreHz < 2500:
		return 0.8
	case centreHz < 5000:
		return 0.9
	default:
		return 1.0
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
