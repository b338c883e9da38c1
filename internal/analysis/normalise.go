package analysis

import "math"

// Plugin parameter ranges: the preset stores each parameter as a 0-1
// value over these ranges.
const (
	paramMinHz     = 20.0
	paramMaxHz     = 20000.0
	paramMinGainDB = -24.0
	paramMaxGainDB = 24.0
	paramMinQ      = 0.1
	paramMaxQ      = 10.0

	maxEnsembleQ = 2.0 // highest Q allowed anywhere in the preset after balancing
)

// BandParameters is one band of the preset in normalised 0-1 form.
type BandParameters struct {
	Frequency float64
	Gain      float64
	Q         float64
}

// normaliseFrequency maps a frequency in Hz onto [0, 1] with a log
// scale over the plugin's 20 Hz - 20 kHz range. Non-positive input
// maps to 0.
func normaliseFrequency(hz float64) float64 {
	if hz <= 0 {
		return 0
	}
	span := math.Log10(paramMaxHz) - math.Log10(paramMinHz)
	return clamp((math.Log10(hz)-math.Log10(paramMinHz))/span, 0, 1)
}

// denormaliseFrequency is the inverse of normaliseFrequency.
func denormaliseFrequency(n float64) float64 {
	span := math.Log10(paramMaxHz) - math.Log10(paramMinHz)
	return math.Pow(10, math.Log10(paramMinHz)+n*span)
}

// normaliseGain maps a dB gain linearly onto [0, 1] over the plugin's
// -24 dB - +24 dB range.
func normaliseGain(db float64) float64 {
	return clamp((db-paramMinGainDB)/(paramMaxGainDB-paramMinGainDB), 0, 1)
}

// denormaliseGain is the inverse of normaliseGain.
func denormaliseGain(n float64) float64 {
	return paramMinGainDB + n*(paramMaxGainDB-paramMinGainDB)
}

// normaliseQ maps a Q onto [0, 1] with a log scale over the plugin's
// 0.1 - 10 range. Non-positive input maps to 0.
func normaliseQ(q float64) float64 {
	if q <= 0 {
		return 0
	}
	span := math.Log10(paramMaxQ) - math.Log10(paramMinQ)
	return clamp((math.Log10(q)-math.Log10(paramMinQ))/span, 0, 1)
}

// denormaliseQ is the inverse of normaliseQ.
func denormaliseQ(n float64) float64 {
	span := math.Log10(paramMaxQ) - math.Log10(paramMinQ)
	return math.Pow(10, math.Log10(paramMinQ)+n*span)
}

// normaliseBands converts raw band corrections into normalised plugin
// parameters.
func normaliseBands(results []BandResult) []BandParameters {
	params := make([]BandParameters, len(results))
	for i, r := range results {
		params[i] = BandParameters{
			Frequency: normaliseFrequency(r.Frequency),
			Gain:      normaliseGain(r.Gain),
			Q:         normaliseQ(r.Q),
		}
	}
	return params
}

// balanceQs rescales every Q in the preset when the sharpest one
// exceeds maxEnsembleQ, preserving the ratios between bands so no
// single correction rings out over the rest.
func balanceQs(params []BandParameters) []BandParameters {
	qs := make([]float64, len(params))
	maxQ := 0.0
	for i, p := range params {
		qs[i] = denormaliseQ(p.Q)
		if qs[i] > maxQ {
			maxQ = qs[i]
		}
	}
	if maxQ <= maxEnsembleQ {
		return params
	}

	scale := maxEnsembleQ / maxQ
	balanced := make([]BandParameters, len(params))
	copy(balanced, params)
	for i := range balanced {
		balanced[i].Q = normaliseQ(qs[i] * scale)
	}
	return balanced
}
