package analysis

import (
	"math"
	"testing"
)

func TestSavitzkyGolayPreservesPolynomial(t *testing.T) {
	// A degree-3 fit reproduces any cubic exactly, edges included.
	cubic := func(x float64) float64 {
		return 0.5*x*x*x - 2.0*x*x + 3.0*x + 1.0
	}

	data := make([]float64, 50)
	for i := range data {
		data[i] = cubic(float64(i) * 0.1)
	}

	smoothed := savitzkyGolay(data, 11, 3)
	if len(smoothed) != len(data) {
		t.Fatalf("output length = %d, want %d", len(smoothed), len(data))
	}
	for i := range data {
		if math.Abs(smoothed[i]-data[i]) > 1e-6 {
			t.Errorf("smoothed[%d] = %v, want %v", i, smoothed[i], data[i])
		}
	}
}

func TestSavitzkyGolayReducesNoise(t *testing.T) {
	// Deterministic pseudo-noise on top of a slow sine: smoothing should
	// bring the data closer to the clean curve.
	n := 200
	clean := make([]float64, n)
	noisy := make([]float64, n)
	rngState := uint32(12345)
	for i := 0; i < n; i++ {
		rngState = rngState*1664525 + 1013904223
		noise := (float64(rngState)/float64(0xFFFFFFFF))*2.0 - 1.0
		clean[i] = math.Sin(float64(i) * 0.05)
		noisy[i] = clean[i] + 0.2*noise
	}

	smoothed := savitzkyGolay(noisy, 21, 3)

	errBefore, errAfter := 0.0, 0.0
	for i := range clean {
		errBefore += math.Abs(noisy[i] - clean[i])
		errAfter += math.Abs(smoothed[i] - clean[i])
	}
	if errAfter >= errBefore {
		t.Errorf("smoothing did not reduce noise: error %.3f -> %.3f", errBefore, errAfter)
	}
}

func TestSavitzkyGolayConstantInput(t *testing.T) {
	data := make([]float64, 40)
	for i := range data {
		data[i] = -20.0
	}

	smoothed := savitzkyGolay(data, 11, 3)
	for i, v := range smoothed {
		if math.Abs(v-(-20.0)) > 1e-9 {
			t.Errorf("smoothed[%d] = %v, want -20", i, v)
		}
	}
}

func TestSavitzkyGolaySkipsDegenerateWindows(t *testing.T) {
	data := []float64{1, 5, 2, 8, 3, 9, 4, 7, 6}

	tests := []struct {
		name   string
		window int
		degree int
	}{
		{"window no larger than degree", 3, 3},
		{"window as long as the data", 9, 3},
		{"window longer than the data", 21, 3},
		{"even window", 4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := savitzkyGolay(data, tt.window, tt.degree)
			if len(out) != len(data) {
				t.Fatalf("output length = %d, want %d", len(out), len(data))
			}
			for i := range data {
				if out[i] != data[i] {
					t.Errorf("out[%d] = %v, want input %v unchanged", i, out[i], data[i])
				}
			}
		})
	}
}

func TestSavitzkyGolayEmptyInput(t *testing.T) {
	out := savitzkyGolay(nil, 11, 3)
	if len(out) != 0 {
		t.Errorf("output length = %d, want 0", len(out))
	}
}

func TestSmoothSpectrumKeepsLength(t *testing.T) {
	for _, fftSize := range []int{0, 512, 4096, 32768} {
		bins := 0
		if fftSize > 0 {
			bins = fftSize/2 + 1
		}
		data := make([]float64, bins)
		for i := range data {
			data[i] = math.Sin(float64(i) * 0.01)
		}
		out := smoothSpectrum(data, fftSize)
		if len(out) != bins {
			t.Errorf("smoothSpectrum length for fftSize=%d: got %d, want %d", fftSize, len(out), bins)
		}
	}
}

func TestSmoothSpectrumWindowSizedFromFFT(t *testing.T) {
	// A 16384-point transform keeps the full 101-bin window even though
	// its spectrum is only 8193 bins long; sizing from the bin count
	// would halve the window and under-smooth short recordings.
	fftSize := 16384
	data := make([]float64, fftSize/2+1)
	for i := range data {
		data[i] = -40 + 10*math.Sin(float64(i)*0.013) + 4*math.Cos(float64(i)*0.037)
	}

	got := smoothSpectrum(data, fftSize)

	want := savitzkyGolay(data, smoothingMaxWindow, smoothingDegree)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("smoothSpectrum[%d] = %v, want the full-window result %v", i, got[i], want[i])
		}
	}

	narrowWindow := len(data) / smoothingDivisor
	if narrowWindow%2 == 0 {
		narrowWindow++
	}
	narrow := savitzkyGolay(data, narrowWindow, smoothingDegree)
	same := true
	for i := range narrow {
		if got[i] != narrow[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("smoothing window sized from the bin count, not the transform")
	}
}
