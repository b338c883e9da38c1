package analysis

import (
	"math"
	"testing"
)

func TestPerceptualWeightAnchors(t *testing.T) {
	// The offset is chosen so the curve crosses 0 dB close to 1 kHz.
	if w := perceptualWeight(1000); math.Abs(w) > 0.2 {
		t.Errorf("weight at 1 kHz = %.3f dB, want ~0", w)
	}

	// Low frequencies are strongly de-emphasised.
	if w := perceptualWeight(100); w > -16 || w < -21 {
		t.Errorf("weight at 100 Hz = %.3f dB, want around -19", w)
	}
	if w50, w100 := perceptualWeight(50), perceptualWeight(100); w50 >= w100 {
		t.Errorf("weight at 50 Hz (%.2f) should be below 100 Hz (%.2f)", w50, w100)
	}
}

func TestPerceptualWeightNonPositiveFrequency(t *testing.T) {
	if w := perceptualWeight(0); w != 0 {
		t.Errorf("weight at 0 Hz = %v, want 0", w)
	}
	if w := perceptualWeight(-100); w != 0 {
		t.Errorf("weight at -100 Hz = %v, want 0", w)
	}
}

func TestPerceptualWeightMidBoostRegion(t *testing.T) {
	// The boost applies strictly inside (250, 800): the A-curve is
	// nearly flat over a fraction of a hertz, so the step across the
	// boundary exposes the boost itself.
	step := perceptualWeight(250.01) - perceptualWeight(249.99)
	if step < midBoostDB-0.1 || step > midBoostDB+0.1 {
		t.Errorf("boost step across 250 Hz = %.3f dB, want ~%.1f", step, midBoostDB)
	}

	step = perceptualWeight(800.01) - perceptualWeight(799.99)
	if step > -midBoostDB+0.1 || step < -midBoostDB-0.1 {
		t.Errorf("boost step across 800 Hz = %.3f dB, want ~%.1f", step, -midBoostDB)
	}
}

func TestPerceptualWeightHissCutRegion(t *testing.T) {
	step := perceptualWeight(6000.01) - perceptualWeight(5999.99)
	if step > hissCutDB+0.1 || step < hissCutDB-0.1 {
		t.Errorf("cut step across 6 kHz = %.3f dB, want ~%.1f", step, hissCutDB)
	}

	step = perceptualWeight(10000.01) - perceptualWeight(9999.99)
	if step < -hissCutDB-0.1 || step > -hissCutDB+0.1 {
		t.Errorf("cut step across 10 kHz = %.3f dB, want ~%.1f", step, -hissCutDB)
	}
}

func TestApplyPerceptualWeighting(t *testing.T) {
	spec := Spectrum{
		Frequencies: []float64{0, 1000, 15000},
		Magnitudes:  []float64{-30, -30, -30},
	}

	weighted := applyPerceptualWeighting(spec)

	if len(weighted.Magnitudes) != 3 {
		t.Fatalf("weighted length = %d, want 3", len(weighted.Magnitudes))
	}
	// DC passes through unweighted.
	if weighted.Magnitudes[0] != -30 {
		t.Errorf("DC bin = %v, want -30 unchanged", weighted.Magnitudes[0])
	}
	// 1 kHz sits at the curve's zero crossing.
	if math.Abs(weighted.Magnitudes[1]-(-30)) > 0.2 {
		t.Errorf("1 kHz bin = %v, want ~-30", weighted.Magnitudes[1])
	}
	// High treble is de-emphasised.
	if weighted.Magnitudes[2] >= weighted.Magnitudes[1] {
		t.Errorf("15 kHz bin (%v) should fall below 1 kHz (%v)", weighted.Magnitudes[2], weighted.Magnitudes[1])
	}

	// The input spectrum must not be modified.
	if spec.Magnitudes[1] != -30 {
		t.Errorf("input modified: %v", spec.Magnitudes[1])
	}
}
