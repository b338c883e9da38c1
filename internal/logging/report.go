// Package logging handles generation of analysis reports for inspected recordings

package logging

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/calum-mcyoko/Analysis-Plugin/internal/analysis"
	"github.com/calum-mcyoko/Analysis-Plugin/internal/mains"
)

// ============================================================================
// Measurement Interpretation Functions
// ============================================================================
// These functions interpret analysis measurements and return human-readable
// descriptions of what the numbers mean for the recording.

// interpretRange describes the span of the detected content in octaves.
// The full audible range is roughly ten octaves; healthy full-bandwidth
// recordings come close to that.
func interpretRange(minHz, maxHz float64) string {
	if minHz <= 0 || maxHz <= minHz {
		return "no usable span"
	}
	octaves := math.Log2(maxHz / minHz)
	switch {
	case octaves >= 9:
		return "essentially full range"
	case octaves >= 7:
		return "wide"
	case octaves >= 5:
		return "moderate"
	default:
		return "narrow, much of the spectrum is empty"
	}
}

// interpretBalance describes how far one band's level sits from the
// average across all bands.
func interpretBalance(deviationDB float64) string {
	switch {
	case deviationDB < -6:
		return "well below average"
	case deviationDB < -2:
		return "slightly recessed"
	case deviationDB <= 2:
		return "balanced"
	case deviationDB <= 6:
		return "slightly elevated"
	default:
		return "dominant"
	}
}

// interpretDensity classifies the transient rate. The boundaries match
// the points where the analyser switches Q multiplier tiers.
func interpretDensity(density float64) string {
	switch {
	case density > 10:
		return "percussive, corrections narrowed"
	case density > 5:
		return "moderately percussive"
	default:
		return "sustained material"
	}
}

// interpretShape describes which spectral feature a band's correction
// is anchored to.
func interpretShape(shape analysis.BandShape) string {
	switch shape {
	case analysis.ShapePeak:
		return "centred on the band's peak"
	case analysis.ShapeDip:
		return "centred on the band's dip"
	default:
		return "no content, left neutral"
	}
}

// ============================================================================
// Report Output
// ============================================================================

// WriteReport prints the analysis report for a recording: file
// information, the measured spectrum characteristics, the derived band
// corrections, and recording tips where the measurements warrant them.
// humHz is the local mains frequency used for the hum check.
func WriteReport(w io.Writer, inputPath string, res *analysis.Result, humHz int) {
	// Header
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "ANALYSIS: %s\n", filepath.Base(inputPath))
	fmt.Fprintln(w, strings.Repeat("=", 70))

	// File info
	fmt.Fprintf(w, "Duration:    %s\n", formatDurationHMS(res.Duration))
	fmt.Fprintf(w, "Sample Rate: %d Hz\n", res.SampleRate)
	fmt.Fprintf(w, "FFT Size:    %d samples\n", res.FFTSize)
	fmt.Fprintf(w, "Windows:     %d of %d above the silence threshold\n", res.SegmentsUsed, res.SegmentsTotal)
	fmt.Fprintln(w)

	// Spectrum section
	writeReportSection(w, "SPECTRUM")
	fmt.Fprintf(w, "  Reference Level: %.1f dB (baseline the band gains offset from)\n", res.ReferenceLevel)
	if res.SegmentsUsed == 0 {
		fmt.Fprintln(w, "  Content Range:   none - no window rose above the silence threshold")
	} else {
		fmt.Fprintf(w, "  Content Range:   %s to %s (%s)\n",
			formatHz(res.MinFrequency), formatHz(res.MaxFrequency),
			interpretRange(res.MinFrequency, res.MaxFrequency))
	}
	fmt.Fprintln(w)

	writeBalanceTable(w, res)

	// Transients section
	writeReportSection(w, "TRANSIENTS")
	fmt.Fprintf(w, "  Density:         %.1f transients/s (%s)\n", res.Transients.Density, interpretDensity(res.Transients.Density))
	fmt.Fprintf(w, "  Q Factor:        %.2f applied to every band\n", res.Transients.QFactor)
	fmt.Fprintln(w)

	// Mains hum section
	writeReportSection(w, "MAINS HUM")
	worstElevation, worstHz := 0.0, 0.0
	for _, f := range mains.Harmonics(humHz, humProbeHarmonics) {
		elevation := analysis.HumElevation(res.Spectrum, f)
		fmt.Fprintf(w, "  %-16s %s dB above the surrounding octave\n",
			fmt.Sprintf("%.0f Hz:", f), formatMetricSigned(elevation, 1))
		if elevation > worstElevation {
			worstElevation, worstHz = elevation, f
		}
	}
	if worstElevation >= humElevationThresholdDB {
		fmt.Fprintf(w, "  %-16s hum detected at %.0f Hz\n", "Verdict:", worstHz)
	} else {
		fmt.Fprintf(w, "  %-16s no significant hum\n", "Verdict:")
	}
	fmt.Fprintln(w)

	writeBandTable(w, res)
	writeParameterTable(w, res)

	// Recording tips
	tips := GenerateRecordingTips(res, humHz)
	if len(tips) > 0 {
		writeReportSection(w, "RECORDING TIPS")
		for i, tip := range tips {
			fmt.Fprintf(w, "  %d. %s\n", i+1, wrapText(tip.Message, 60, "     "))
		}
	}
}

// writeReportSection writes a section header for report output.
func writeReportSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
}

// writeBalanceTable outputs each band's deviation from the average
// spectral level.
func writeBalanceTable(w io.Writer, res *analysis.Result) {
	writeReportSection(w, "SPECTRAL BALANCE")

	table := &MetricTable{Headers: []string{"Deviation"}}
	for _, d := range res.Balance {
		table.AddRow(d.Band.Label, []string{formatMetricSigned(d.Deviation, 1)}, "dB", interpretBalance(d.Deviation))
	}
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w)
}

// writeBandTable outputs the derived correction for each band.
func writeBandTable(w io.Writer, res *analysis.Result) {
	writeReportSection(w, "EQ BANDS")

	table := NewBandTable()
	for _, b := range res.Bands {
		table.AddRow(b.Band.Label, []string{
			formatHz(b.Frequency),
			formatMetricSigned(b.Gain, 1) + " dB",
			formatMetric(b.Q, 2),
		}, "", interpretShape(b.Shape))
	}
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w)
}

// writeParameterTable outputs the normalised parameters exactly as
// they will be written to the preset file.
func writeParameterTable(w io.Writer, res *analysis.Result) {
	writeReportSection(w, "PRESET PARAMETERS")

	table := NewBandTable()
	for i, p := range res.Parameters {
		table.AddRow(res.Bands[i].Band.Label, []string{
			formatMetric(p.Frequency, 3),
			formatMetric(p.Gain, 3),
			formatMetric(p.Q, 3),
		}, "", "")
	}
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w)
}

// formatDurationHMS formats duration as "Xh Ym Zs" or "Ym Zs" or "Z.Xs".
func formatDurationHMS(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}

	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs)
}
