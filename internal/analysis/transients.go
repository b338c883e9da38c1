package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Transient detection tuning
const (
	envelopeWindowSecs = 0.01 // s - smoothing window over the amplitude envelope
	peakHeightStdDevs  = 2.0  // rises must exceed this many standard deviations

	percussiveDensity = 10.0 // transients/s - above this the material is percussive
	moderateDensity   = 5.0  // transients/s

	percussiveQFactor = 1.3 // narrows every band for dense transients
	moderateQFactor   = 1.1
	sustainedQFactor  = 0.9 // widens every band for sustained material
)

// TransientProfile describes how percussive the signal is and the
// global Q multiplier derived from it.
type TransientProfile struct {
	Density float64 // detected transients per second
	QFactor float64 // multiplier applied to every band's Q
}

// analyzeTransients estimates the transient density of the signal. The
// amplitude envelope is smoothed, differentiated, and scanned for
// sharp rises well above the typical fluctuation; the rate of those
// rises picks a global Q multiplier so busy material gets narrower
// corrections. Empty input degrades to zero density.
func analyzeTransients(samples []float64, sampleRate int) TransientProfile {
	if len(samples) == 0 || sampleRate <= 0 {
		return TransientProfile{Density: 0, QFactor: sustainedQFactor}
	}

	envelope := make([]float64, len(samples))
	for i, s := range samples {
		envelope[i] = math.Abs(s)
	}

	window := int(float64(sampleRate) * envelopeWindowSecs)
	if window%2 == 0 {
		window++
	}
	smoothed := savitzkyGolay(envelope, window, smoothingDegree)

	if len(smoothed) < 2 {
		return TransientProfile{Density: 0, QFactor: sustainedQFactor}
	}
	derivative := make([]float64, len(smoothed)-1)
	for i := range derivative {
		derivative[i] = smoothed[i+1] - smoothed[i]
	}

	mean := stat.Mean(derivative, nil)
	stdDev := math.Sqrt(stat.MomentAbout(2, derivative, mean, nil))
	height := peakHeightStdDevs * stdDev

	count := 0
	for i := 1; i < len(derivative)-1; i++ {
		if derivative[i] > derivative[i-1] && derivative[i] > derivative[i+1] && derivative[i] > height {
			count++
		}
	}

	density := float64(count) / (float64(len(samples)) / float64(sampleRate))

	qFactor := sustainedQFactor
	switch {
	case density > percussiveDensity:
		qFactor = percussiveQFactor
	case density > moderateDensity:
		qFactor = moderateQFactor
	}

	return TransientProfile{Density: density, QFactor: qFactor}
}
