package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Spectrum smoothing tuning
const (
	smoothingMaxWindow = 101 // bins - upper limit on the smoothing window
	smoothingDivisor   = 160 // FFT samples per window bin when sizing the window
	smoothingDegree    = 3   // degree of the local polynomial fit
)

// smoothSpectrum applies Savitzky-Golay smoothing with a window sized
// from the FFT size, flattening narrow FFT noise while keeping the
// broad tonal shape intact. Smaller transforms get proportionally
// narrower windows.
func smoothSpectrum(magnitudes []float64, fftSize int) []float64 {
	window := fftSize / smoothingDivisor
	if window > smoothingMaxWindow {
		window = smoothingMaxWindow
	}
	if window%2 == 0 {
		window++
	}
	return savitzkyGolay(magnitudes, window, smoothingDegree)
}

// savitzkyGolay smooths data by fitting a least squares polynomial of
// the given degree over each sliding window and evaluating it at the
// window centre. The first and last half windows are filled from the
// polynomials fitted to the first and last full windows, so the output
// keeps the input length without padding artefacts.
//
// The window must be odd. When the window is too small to fit the
// polynomial, or the data is no longer than the window, the input is
// returned as-is.
func savitzkyGolay(data []float64, window, degree int) []float64 {
	out := make([]float64, len(data))
	copy(out, data)

	if window <= degree || window >= len(data) || window%2 == 0 {
		return out
	}

	h := smoothingMatrix(window, degree)
	if h == nil {
		return out
	}

	half := window / 2
	n := len(data)

	// Interior points: the fit evaluated at the centre of each window.
	centre := h.RawRowView(half)
	for i := half; i < n-half; i++ {
		out[i] = floats.Dot(centre, data[i-half:i+half+1])
	}

	// Edges: the fits to the first and last full windows.
	first := data[:window]
	for i := 0; i < half; i++ {
		out[i] = floats.Dot(h.RawRowView(i), first)
	}
	last := data[n-window:]
	for i := n - half; i < n; i++ {
		out[i] = floats.Dot(h.RawRowView(i-n+window), last)
	}

	return out
}

// smoothingMatrix returns the projection matrix H = A (AᵀA)⁻¹ Aᵀ of
// the least squares polynomial fit, where A is the Vandermonde matrix
// of window positions centred on zero. Row i of H evaluates the fitted
// polynomial at position i of the window.
func smoothingMatrix(window, degree int) *mat.Dense {
	a := mat.NewDense(window, degree+1, nil)
	half := window / 2
	for i := 0; i < window; i++ {
		x := float64(i - half)
		v := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, v)
			v *= x
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	var sol mat.Dense
	if err := sol.Solve(&ata, a.T()); err != nil {
		return nil
	}

	var h mat.Dense
	h.Mul(a, &sol)
	return &h
}
