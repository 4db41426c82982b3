package levels

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TuningKind             = "tuning"
	SupportedSchemaVersion = 1
)

type tuningFile struct {
	Kind          string `yaml:"kind"`
	SchemaVersion int    `yaml:"schema_version"`
	Tuning        Tuning `yaml:"tuning"`
}

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// LoadTuning reads an optional YAML tuning file. An empty path or a missing
// file yields the defaults.
func (l *FSLoader) LoadTuning(ctx context.Context, path string) (Tuning, error) {
	if err := ctx.Err(); err != nil {
		return Tuning{}, err
	}
	if strings.TrimSpace(path) == "" {
		return DefaultTuning(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultTuning(), nil
		}
		return Tuning{}, err
	}
	return parseTuning(b)
}

func parseTuning(b []byte) (Tuning, error) {
	var file tuningFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return Tuning{}, fmt.Errorf("decode tuning: %w", err)
	}
	if file.Kind != "" && file.Kind != TuningKind {
		return Tuning{}, fmt.Errorf("unexpected kind %q", file.Kind)
	}
	if file.SchemaVersion != 0 && file.SchemaVersion != SupportedSchemaVersion {
		return Tuning{}, fmt.Errorf("unsupported schema_version %d", file.SchemaVersion)
	}
	tuning := file.Tuning
	applyTuningDefaults(&tuning)
	if err := tuning.Validate(); err != nil {
		return Tuning{}, err
	}
	return tuning, nil
}

func applyTuningDefaults(t *Tuning) {
	if t.SettleDelay <= 0 {
		t.SettleDelay = Duration(700 * time.Millisecond)
	}
	if t.TickInterval <= 0 {
		t.TickInterval = Duration(16 * time.Millisecond)
	}
	if t.TimingBaseDuration <= 0 {
		t.TimingBaseDuration = Duration(2 * time.Second)
	}
	if t.TimingMinDuration <= 0 {
		t.TimingMinDuration = Duration(600 * time.Millisecond)
	}
	if t.RevealBaseDelay <= 0 {
		t.RevealBaseDelay = Duration(800 * time.Millisecond)
	}
	if t.RevealMinDelay <= 0 {
		t.RevealMinDelay = Duration(300 * time.Millisecond)
	}
}
