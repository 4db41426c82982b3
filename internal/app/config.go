package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"skillarcade/internal/ui"

	"github.com/caarlos0/env/v11"
)

// Config controls storage, logging and engine tuning for the arcade.
type Config struct {
	DataDir    string `env:"SKILLARCADE_DATA_DIR"`
	Backend    string `env:"SKILLARCADE_BACKEND"`
	LogPath    string `env:"SKILLARCADE_LOG_PATH"`
	TuningPath string `env:"SKILLARCADE_TUNING_PATH"`
	Debug      bool   `env:"SKILLARCADE_DEBUG"`
	// Seed fixes challenge generation when non-zero.
	Seed     uint64 `env:"SKILLARCADE_SEED"`
	Gameplay GameplayConfig
	UI       UIConfig
}

type GameplayConfig struct {
	FrameRate int    `env:"SKILLARCADE_FRAME_RATE"`
	Scenario  string `env:"SKILLARCADE_SCENARIO"`
}

type UIConfig struct {
	StyleVariant string `env:"SKILLARCADE_STYLE"`
}

func DefaultConfig() Config {
	return Config{
		Backend: string(BackendSQLite),
		Gameplay: GameplayConfig{
			FrameRate: 30,
			Scenario:  "perfect",
		},
		UI: UIConfig{StyleVariant: "modern_arcade"},
	}
}

// LoadEnv overrides cfg with any SKILLARCADE_* variables that are set.
func LoadEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	backend, ok := normalizeBackend(c.Backend)
	if !ok {
		return fmt.Errorf("invalid storage backend %q", c.Backend)
	}
	c.Backend = string(backend)

	if c.Gameplay.FrameRate <= 0 {
		c.Gameplay.FrameRate = 30
	}
	if c.Gameplay.FrameRate > 120 {
		return fmt.Errorf("frame rate %d exceeds 120", c.Gameplay.FrameRate)
	}
	if c.Gameplay.Scenario == "" {
		c.Gameplay.Scenario = "perfect"
	}

	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = ui.Styles[0]
	}
	if !ui.ValidStyle(c.UI.StyleVariant) {
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "skillarcade")
	}

	return nil
}
