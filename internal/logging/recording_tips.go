package logging

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/calum-mcyoko/Analysis-Plugin/internal/analysis"
	"github.com/calum-mcyoko/Analysis-Plugin/internal/mains"
)

// RecordingTip represents a single piece of actionable recording advice
// derived from the spectral analysis.
type RecordingTip struct {
	Priority int    // Higher = more important (1-10)
	Message  string // Human-readable advice (1-2 sentences)
	RuleID   string // Identifier for testing/logging (e.g., "mains_hum")
}

// MaxRecordingTips is the maximum number of tips to return.
const MaxRecordingTips = 5

// Tip rule thresholds
const (
	// minUsefulWindows is how many analysis windows must carry signal
	// before the preset is considered representative.
	minUsefulWindows = 3

	// humProbeHarmonics is how many multiples of the mains frequency
	// the hum check probes. Transformer and dimmer hum often peaks at
	// a harmonic rather than the fundamental.
	humProbeHarmonics = 4

	// humElevationThresholdDB is how far a hum frequency must rise
	// above its surrounding octave before it is reported.
	humElevationThresholdDB = 12.0

	// largeCorrectionDB is the gain magnitude above which a band's
	// correction suggests a problem EQ should not be fixing.
	largeCorrectionDB = 10.0

	// limitedBandwidthHz flags recordings whose detected content stops
	// short of this frequency.
	limitedBandwidthHz = 12000.0

	// balanceDeviationDB is how far a band group must sit above the
	// cross-band average before the balance tips fire.
	balanceDeviationDB = 6.0
)

// GenerateRecordingTips inspects the analysis result and returns
// prioritised recording improvement suggestions. humHz is the local
// mains frequency used for the hum check.
func GenerateRecordingTips(res *analysis.Result, humHz int) []RecordingTip {
	if res == nil {
		return nil
	}

	var tips []RecordingTip
	firedRules := make(map[string]bool)

	rules := []func(*analysis.Result, int) *RecordingTip{
		tipSilentRecording,
		tipMostlySilent,
		tipMainsHum,
		tipLargeCorrection,
		tipLimitedBandwidth,
		tipBassHeavy,
		tipHarshTopEnd,
		tipPercussiveContent,
	}

	for _, rule := range rules {
		if tip := rule(res, humHz); tip != nil {
			tips = append(tips, *tip)
			firedRules[tip.RuleID] = true
		}
	}

	// Apply mutual exclusion
	tips = applyExclusions(tips, firedRules)

	// Sort by priority (descending), keeping rule order for ties
	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].Priority > tips[j].Priority
	})

	// Cap at maximum
	if len(tips) > MaxRecordingTips {
		tips = tips[:MaxRecordingTips]
	}

	return tips
}

// applyExclusions removes tips that are redundant when a more severe
// tip has already fired. A silent recording makes every other
// observation meaningless, so "silent_recording" suppresses the rest.
func applyExclusions(tips []RecordingTip, fired map[string]bool) []RecordingTip {
	var result []RecordingTip
	for _, tip := range tips {
		switch tip.RuleID {
		case "mostly_silent", "mains_hum", "large_correction", "limited_bandwidth",
			"bass_heavy", "harsh_top_end", "percussive_content":
			if fired["silent_recording"] {
				continue
			}
		}
		result = append(result, tip)
	}
	return result
}

// wrapText wraps text at word boundaries to fit within maxWidth columns.
// Continuation lines are prefixed with indent.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}

// worstHumElevation returns the largest elevation across the mains
// fundamental and its first few harmonics.
func worstHumElevation(res *analysis.Result, humHz int) float64 {
	worst := 0.0
	for _, f := range mains.Harmonics(humHz, humProbeHarmonics) {
		if e := analysis.HumElevation(res.Spectrum, f); e > worst {
			worst = e
		}
	}
	return worst
}

// tipSilentRecording fires when no analysis window rose above the
// silence threshold, meaning the preset was derived from nothing.
func tipSilentRecording(res *analysis.Result, _ int) *RecordingTip {
	if res.SegmentsUsed > 0 {
		return nil
	}
	return &RecordingTip{
		Priority: 10,
		RuleID:   "silent_recording",
		Message:  "No audible signal was found - the whole recording sits below the silence threshold. Check that the right input device was selected and that its gain is turned up.",
	}
}

// tipMostlySilent fires when fewer than minUsefulWindows analysis
// windows carried signal, so the preset rests on very little material.
func tipMostlySilent(res *analysis.Result, _ int) *RecordingTip {
	if res.SegmentsUsed == 0 || res.SegmentsUsed >= minUsefulWindows {
		return nil
	}
	return &RecordingTip{
		Priority: 9,
		RuleID:   "mostly_silent",
		Message:  fmt.Sprintf("Only %d of %d analysis windows contained audible signal, so the preset is based on very little material. Trim long silences or record a fuller take for a more reliable result.", res.SegmentsUsed, res.SegmentsTotal),
	}
}

// tipMainsHum fires when the spectrum shows a narrow elevation at the
// local mains frequency or one of its harmonics.
func tipMainsHum(res *analysis.Result, humHz int) *RecordingTip {
	if worstHumElevation(res, humHz) < humElevationThresholdDB {
		return nil
	}
	return &RecordingTip{
		Priority: 8,
		RuleID:   "mains_hum",
		Message:  fmt.Sprintf("There's a constant hum around %d Hz in your recording - check for nearby power supplies, dimmers, or chargers and move them away from your microphone.", humHz),
	}
}

// tipLargeCorrection fires when any band needs an extreme gain change.
func tipLargeCorrection(res *analysis.Result, _ int) *RecordingTip {
	var worst analysis.BandResult
	found := false
	for _, b := range res.Bands {
		if math.Abs(b.Gain) < largeCorrectionDB {
			continue
		}
		if !found || math.Abs(b.Gain) > math.Abs(worst.Gain) {
			worst = b
			found = true
		}
	}
	if !found {
		return nil
	}
	return &RecordingTip{
		Priority: 7,
		RuleID:   "large_correction",
		Message:  fmt.Sprintf("The %s band needs a %.0f dB correction. Changes this large usually point at room acoustics or microphone placement rather than something EQ can fix cleanly.", strings.ToLower(worst.Band.Label), worst.Gain),
	}
}

// tipLimitedBandwidth fires when detected content stops well short of
// the top of the audible range. Skipped for silent input, where the
// detected range is just the audible-range default.
func tipLimitedBandwidth(res *analysis.Result, _ int) *RecordingTip {
	if res.SegmentsUsed == 0 || res.MaxFrequency >= limitedBandwidthHz {
		return nil
	}
	return &RecordingTip{
		Priority: 6,
		RuleID:   "limited_bandwidth",
		Message:  fmt.Sprintf("No content was detected above %s. A low sample rate, a heavy codec, or a muffled source may be cutting the top end - boosting it with EQ cannot bring back what was never captured.", formatHz(res.MaxFrequency)),
	}
}

// tipBassHeavy fires when either of the two bottom bands sits well
// above the cross-band average, the classic signature of proximity
// effect.
func tipBassHeavy(res *analysis.Result, _ int) *RecordingTip {
	if len(res.Balance) < 2 {
		return nil
	}
	if res.Balance[0].Deviation <= balanceDeviationDB && res.Balance[1].Deviation <= balanceDeviationDB {
		return nil
	}
	return &RecordingTip{
		Priority: 5,
		RuleID:   "bass_heavy",
		Message:  "The low end is much louder than the rest of the spectrum - you may be too close to a directional microphone. Try moving back slightly or engaging the low-cut switch if your microphone has one.",
	}
}

// tipHarshTopEnd fires when the presence or air band sits well above
// the cross-band average, which tends to read as harshness.
func tipHarshTopEnd(res *analysis.Result, _ int) *RecordingTip {
	if len(res.Balance) < analysis.NumBands {
		return nil
	}
	if res.Balance[5].Deviation <= balanceDeviationDB && res.Balance[6].Deviation <= balanceDeviationDB {
		return nil
	}
	return &RecordingTip{
		Priority: 5,
		RuleID:   "harsh_top_end",
		Message:  "The top of the spectrum carries unusually strong energy, which often sounds harsh or sibilant. Try angling the microphone slightly off-axis - point it at your chin rather than directly at your mouth.",
	}
}

// tipPercussiveContent fires on dense transient material. The 10
// transients per second threshold matches the point where the analyser
// switches every band to its narrowest corrections.
func tipPercussiveContent(res *analysis.Result, _ int) *RecordingTip {
	if res.Transients.Density <= 10.0 {
		return nil
	}
	return &RecordingTip{
		Priority: 4,
		RuleID:   "percussive_content",
		Message:  fmt.Sprintf("The recording is strongly percussive (%.1f transients per second), so the preset uses narrower corrections. For spoken word, check for desk thumps or plosives reaching the microphone.", res.Transients.Density),
	}
}
