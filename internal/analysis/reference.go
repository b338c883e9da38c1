package analysis

// referenceBands are the mid-frequency ranges the reference level is
// estimated from, weighted towards the 800-1200 Hz core where most
// tonal content sits.
var referenceBands = []struct {
	lowHz  float64
	highHz float64
	weight float64
}{
	{400, 600, 0.25},
	{800, 1200, 0.5},
	{2000, 3000, 0.25},
}

// referenceLevel estimates the baseline level of the spectrum as a
// weighted average of the median level in each reference band. Band
// gains are later expressed as offsets from this baseline, so the
// preset corrects balance rather than absolute level. Bands with no
// bins contribute nothing and the weights are renormalised over those
// that remain; a spectrum with no reference content at all yields a
// baseline of zero.
func referenceLevel(spec Spectrum) float64 {
	level := 0.0
	total := 0.0
	for _, band := range referenceBands {
		lo := nearestBin(spec.Frequencies, band.lowHz)
		hi := nearestBin(spec.Frequencies, band.highHz)
		if hi <= lo {
			continue
		}
		level += band.weight * median(spec.Magnitudes[lo:hi])
		total += band.weight
	}
	if total == 0 {
		return 0
	}
	return level / total
}
