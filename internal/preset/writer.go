package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	documentsFolder = "Documents"
	presetsFolder   = "PresetAnalyzer"
	presetsSubdir   = "Presets"
	probeFile       = ".write-probe"
)

// ResolveDirectory picks the directory presets are written to. An
// explicit override is created and checked for writability, and any
// failure there is an error. With no override the default is
// Documents/PresetAnalyzer/Presets under the user's home; if that
// cannot be created or written, the current working directory is used
// instead and fellBack reports the switch.
func ResolveDirectory(override string) (dir string, fellBack bool, err error) {
	if override != "" {
		if err := os.MkdirAll(override, 0o755); err != nil {
			return "", false, fmt.Errorf("failed to create output directory %s: %w", override, err)
		}
		if err := probeWrite(override); err != nil {
			return "", false, fmt.Errorf("output directory %s is not writable: %w", override, err)
		}
		return override, false, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		docs := filepath.Join(home, documentsFolder, presetsFolder, presetsSubdir)
		if err := os.MkdirAll(docs, 0o755); err == nil {
			if err := probeWrite(docs); err == nil {
				return docs, false, nil
			}
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve a writable preset directory: %w", err)
	}
	return cwd, true, nil
}

// probeWrite confirms dir accepts new files by creating and removing a
// scratch file. MkdirAll succeeding is not enough: the directory may
// already exist with permissions that block us.
func probeWrite(dir string) error {
	probe := filepath.Join(dir, probeFile)
	f, err := os.Create(probe)
	if err != nil {
		return err
	}
	if _, err := f.WriteString("probe"); err != nil {
		f.Close()
		os.Remove(probe)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(probe)
		return err
	}
	return os.Remove(probe)
}

// Write serialises the preset to <name>_preset.json inside dir with
// two-space indentation and returns the path of the written file.
func Write(p Preset, dir, name string) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode preset: %w", err)
	}

	path := filepath.Join(dir, name+"_preset.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write preset: %w", err)
	}
	return path, nil
}
