package analysis

import "math"

// Perceptual weighting tuning
const (
	aWeightOffsetDB = 2.0 // dB - lifts the curve to roughly 0 dB at 1 kHz

	midBoostDB     = 1.5 // dB - extra weight across the vocal mids
	midBoostLowHz  = 250.0
	midBoostHighHz = 800.0

	hissCutDB     = -1.0 // dB - softens the sibilance region
	hissCutLowHz  = 6000.0
	hissCutHighHz = 10000.0
)

// perceptualWeight returns the weighting in dB applied to the spectrum
// at frequency hz: an A-weighting curve with a small mid emphasis and
// sibilance cut. Non-positive frequencies are left unweighted.
func perceptualWeight(hz float64) float64 {
	if hz <= 0 {
		return 0
	}

	f2 := hz * hz
	num := 12200.0 * 12200.0 * f2 * f2
	den := (f2 + 20.6*20.6) *
		(f2 + 12200.0*12200.0) *
		math.Sqrt((f2+107.7*107.7)*(f2+737.9*737.9))
	w := aWeightOffsetDB + 20*math.Log10(num/den)

	if hz > midBoostLowHz && hz < midBoostHighHz {
		w += midBoostDB
	}
	if hz > hissCutLowHz && hz < hissCutHighHz {
		w += hissCutDB
	}
	return w
}

// applyPerceptualWeighting returns the spectrum with the perceptual
// weighting added to each bin, so band extraction favours what a
// listener would actually notice.
func applyPerceptualWeighting(spec Spectrum) Spectrum {
	weighted := make([]float64, len(spec.Magnitudes))
	for i, hz := range spec.Frequencies {
		weighted[i] = spec.Magnitudes[i] + perceptualWeight(hz)
	}
	return Spectrum{Frequencies: spec.Frequencies, Magnitudes: weighted}
}
