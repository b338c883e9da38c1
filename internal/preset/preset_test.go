package preset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/calum-mcyoko/Analysis-Plugin/internal/analysis"
)

func testResult() *analysis.Result {
	res := &analysis.Result{
		SampleRate:   44100,
		Duration:     3.5,
		Transients:   analysis.TransientProfile{Density: 7.5, QFactor: 1.1},
		MinFrequency: 40,
		MaxFrequency: 18000,
	}
	for i := 0; i < analysis.NumBands; i++ {
		res.Parameters = append(res.Parameters, analysis.BandParameters{
			Frequency: 0.1 * float64(i+1),
			Gain:      0.5,
			Q:         0.65,
		})
	}
	return res
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	p := Build(testResult(), "/home/calum/recordings/Episode 42.wav", now)

	if p.Metadata.CreatedBy != "PresetAnalyzer" {
		t.Errorf("CreatedBy = %q, want %q", p.Metadata.CreatedBy, "PresetAnalyzer")
	}
	if p.Metadata.SourceFile != "Episode 42.wav" {
		t.Errorf("SourceFile = %q, want base name only", p.Metadata.SourceFile)
	}
	if p.Metadata.CreationDate != "2024-03-01 12:30:45" {
		t.Errorf("CreationDate = %q, want %q", p.Metadata.CreationDate, "2024-03-01 12:30:45")
	}
	if p.Metadata.TransientDensity != 7.5 {
		t.Errorf("TransientDensity = %v, want 7.5", p.Metadata.TransientDensity)
	}
	if p.Metadata.FrequencyRange != [2]float64{40, 18000} {
		t.Errorf("FrequencyRange = %v, want [40 18000]", p.Metadata.FrequencyRange)
	}
	if p.ZeroLatency != 1.0 {
		t.Errorf("ZeroLatency = %v, want 1.0", p.ZeroLatency)
	}
	for i, band := range p.Bands {
		if want := 0.1 * float64(i+1); band.Frequency != want {
			t.Errorf("band %d frequency = %v, want %v", i, band.Frequency, want)
		}
	}
}

func TestDefaultName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/calum/recordings/Episode 42.wav", "Episode 42"},
		{"track.flac", "track"},
		{"noext", "noext"},
		{"nested.dir/take-3.wav", "take-3"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DefaultName(tt.path); got != tt.want {
				t.Errorf("DefaultName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestPresetJSONKeys(t *testing.T) {
	p := Build(testResult(), "take.wav", time.Now())

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	// Metadata + 3 keys per band + ZeroLatency.
	if want := 2 + 3*analysis.NumBands; len(decoded) != want {
		t.Errorf("key count = %d, want %d", len(decoded), want)
	}
	for i := 0; i < analysis.NumBands; i++ {
		for _, prefix := range []string{"Frequency", "Gain", "Q"} {
			key := prefix + strconv.Itoa(i)
			if _, ok := decoded[key]; !ok {
				t.Errorf("missing key %q", key)
			}
		}
	}
	if got := decoded["ZeroLatency"]; got != 1.0 {
		t.Errorf("ZeroLatency = %v, want 1.0", got)
	}

	meta, ok := decoded["Metadata"].(map[string]any)
	if !ok {
		t.Fatalf("Metadata = %T, want an object", decoded["Metadata"])
	}
	if meta["SourceFile"] != "take.wav" {
		t.Errorf("Metadata.SourceFile = %v, want take.wav", meta["SourceFile"])
	}

	if got := decoded["Frequency3"]; got != 0.4 {
		t.Errorf("Frequency3 = %v, want 0.4", got)
	}
}

func TestPresetJSONKeyOrder(t *testing.T) {
	p := Build(testResult(), "take.wav", time.Now())

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	text := string(data)

	keys := []string{`"Metadata"`}
	for i := 0; i < analysis.NumBands; i++ {
		digit := strconv.Itoa(i)
		keys = append(keys, `"Frequency`+digit+`"`, `"Gain`+digit+`"`, `"Q`+digit+`"`)
	}
	keys = append(keys, `"ZeroLatency"`)

	last := -1
	for _, key := range keys {
		idx := strings.Index(text, key)
		if idx < 0 {
			t.Fatalf("key %s missing from output", key)
		}
		if idx < last {
			t.Errorf("key %s out of order", key)
		}
		last = idx
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	p := Build(testResult(), "take.wav", time.Now())

	path, err := Write(p, dir, "demo")
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if filepath.Base(path) != "demo_preset.json" {
		t.Errorf("file name = %q, want demo_preset.json", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "{\n  \"Metadata\"") {
		t.Errorf("output not indented with two spaces: %.40q", string(data))
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
}

func TestWriteMissingDirectory(t *testing.T) {
	p := Build(testResult(), "take.wav", time.Now())

	missing := filepath.Join(t.TempDir(), "no", "such", "dir")
	if _, err := Write(p, missing, "demo"); err == nil {
		t.Error("expected an error writing into a missing directory")
	}
}

func TestResolveDirectoryOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "presets")

	dir, fellBack, err := ResolveDirectory(override)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if dir != override {
		t.Errorf("dir = %q, want %q", dir, override)
	}
	if fellBack {
		t.Error("override should never fall back")
	}
	if info, err := os.Stat(override); err != nil || !info.IsDir() {
		t.Errorf("override directory was not created: %v", err)
	}
}

func TestResolveDirectoryOverrideBlocked(t *testing.T) {
	// A regular file where the directory should go makes MkdirAll fail.
	blocked := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := ResolveDirectory(blocked); err == nil {
		t.Error("expected an error for an override blocked by a file")
	}
}

func TestResolveDirectoryDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, fellBack, err := ResolveDirectory("")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := filepath.Join(home, "Documents", "PresetAnalyzer", "Presets")
	if dir != want {
		t.Errorf("dir = %q, want %q", dir, want)
	}
	if fellBack {
		t.Error("writable default should not fall back")
	}
}

func TestResolveDirectoryFallsBackToCwd(t *testing.T) {
	t.Setenv("HOME", "")

	dir, fellBack, err := ResolveDirectory("")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !fellBack {
		t.Error("expected fallback with no usable home directory")
	}
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if dir != cwd {
		t.Errorf("dir = %q, want working directory %q", dir, cwd)
	}
}
