// Package preset assembles equaliser presets from analysis results and
// writes them in the JSON layout the downstream plugin loads.
package preset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/calum-mcyoko/Analysis-Plugin/internal/analysis"
)

const createdBy = "PresetAnalyzer"

// Metadata describes where a preset came from. The plugin shows these
// fields in its preset browser but never feeds them back into the
// equaliser parameters.
type Metadata struct {
	CreatedBy        string     `json:"CreatedBy"`
	SourceFile       string     `json:"SourceFile"`
	CreationDate     string     `json:"CreationDate"`
	TransientDensity float64    `json:"TransientDensity"`
	FrequencyRange   [2]float64 `json:"FrequencyRange"`
}

// Preset is a complete seven-band parametric EQ preset. Band parameters
// are normalised to [0, 1] as the plugin expects.
type Preset struct {
	Metadata    Metadata
	Bands       [analysis.NumBands]analysis.BandParameters
	ZeroLatency float64
}

// Build assembles a preset from an analysis result. The source file is
// recorded by base name only and the creation date in local time.
func Build(res *analysis.Result, sourceFile string, now time.Time) Preset {
	p := Preset{
		Metadata: Metadata{
			CreatedBy:        createdBy,
			SourceFile:       filepath.Base(sourceFile),
			CreationDate:     now.Format("2006-01-02 15:04:05"),
			TransientDensity: res.Transients.Density,
			FrequencyRange:   [2]float64{res.MinFrequency, res.MaxFrequency},
		},
		ZeroLatency: 1.0,
	}
	copy(p.Bands[:], res.Parameters)
	return p
}

// DefaultName derives a preset name from an audio file path: the base
// name with its extension removed.
func DefaultName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// MarshalJSON emits the flat key layout the plugin parses: Metadata
// first, then Frequency/Gain/Q triplets indexed by band, then
// ZeroLatency. The plugin looks keys up by exact name, so the layout is
// written by hand rather than left to struct reflection.
func (p Preset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(name string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "%q:%s", name, encoded)
		return nil
	}

	if err := writeField("Metadata", p.Metadata); err != nil {
		return nil, err
	}
	for i, band := range p.Bands {
		if err := writeField(fmt.Sprintf("Frequency%d", i), band.Frequency); err != nil {
			return nil, err
		}
		if err := writeField(fmt.Sprintf("Gain%d", i), band.Gain); err != nil {
			return nil, err
		}
		if err := writeField(fmt.Sprintf("Q%d", i), band.Q); err != nil {
			return nil, err
		}
	}
	if err := writeField("ZeroLatency", p.ZeroLatency); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
