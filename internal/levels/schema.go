package levels

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownVariant = errors.New("unknown game variant")
	ErrUnknownTier    = errors.New("unknown difficulty tier")
	ErrLevelRange     = errors.New("level out of range")
)

// Variant identifies one of the three mini-games.
type Variant int

const (
	Timing Variant = iota
	PatternMemory
	GridRouting
)

// Variants lists every game variant in display order.
var Variants = []Variant{Timing, PatternMemory, GridRouting}

type variantInfo struct {
	id         string
	title      string
	rewardUnit string
}

var variantTable = map[Variant]variantInfo{
	Timing:        {id: "timing", title: "Pulse Strike", rewardUnit: "beats"},
	PatternMemory: {id: "pattern", title: "Echo Grid", rewardUnit: "sparks"},
	GridRouting:   {id: "grid", title: "Circuit Run", rewardUnit: "keys"},
}

func (v Variant) ID() string         { return variantTable[v].id }
func (v Variant) Title() string      { return variantTable[v].title }
func (v Variant) RewardUnit() string { return variantTable[v].rewardUnit }
func (v Variant) String() string     { return v.ID() }

func (v Variant) Valid() bool {
	_, ok := variantTable[v]
	return ok
}

// ParseVariant accepts a variant id or a few common aliases.
func ParseVariant(raw string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "timing", "beat", "pulse":
		return Timing, nil
	case "pattern", "memory", "patternmemory":
		return PatternMemory, nil
	case "grid", "routing", "gridrouting":
		return GridRouting, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownVariant, raw)
}

// Tier is a difficulty tier. Tier attributes are fixed at compile time.
type Tier int

const (
	Initiate Tier = iota
	Adept
	Master
)

// Tiers lists every difficulty tier from easiest to hardest.
var Tiers = []Tier{Initiate, Adept, Master}

type tierInfo struct {
	id         string
	levelCount int
	speed      float64
	complexity int
}

var tierTable = map[Tier]tierInfo{
	Initiate: {id: "initiate", levelCount: 5, speed: 1.0, complexity: 1},
	Adept:    {id: "adept", levelCount: 8, speed: 1.5, complexity: 2},
	Master:   {id: "master", levelCount: 10, speed: 2.0, complexity: 3},
}

func (t Tier) ID() string                { return tierTable[t].id }
func (t Tier) LevelCount() int           { return tierTable[t].levelCount }
func (t Tier) SpeedMultiplier() float64  { return tierTable[t].speed }
func (t Tier) ComplexityMultiplier() int { return tierTable[t].complexity }
func (t Tier) String() string            { return t.ID() }

func (t Tier) Valid() bool {
	_, ok := tierTable[t]
	return ok
}

// ParseTier accepts a tier id.
func ParseTier(raw string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "initiate", "easy":
		return Initiate, nil
	case "adept", "medium":
		return Adept, nil
	case "master", "hard":
		return Master, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownTier, raw)
}

// TotalLevels is the number of levels a variant offers across all tiers.
func TotalLevels() int {
	total := 0
	for _, t := range Tiers {
		total += t.LevelCount()
	}
	return total
}

// Config is the difficulty/level value object handed to generators and
// engines for one session.
type Config struct {
	Variant Variant
	Tier    Tier
	Level   int
	Tuning  Tuning
}

// NewConfig validates the (variant, tier, level) tuple.
func NewConfig(v Variant, t Tier, level int, tuning Tuning) (Config, error) {
	if !v.Valid() {
		return Config{}, fmt.Errorf("%w %d", ErrUnknownVariant, int(v))
	}
	if !t.Valid() {
		return Config{}, fmt.Errorf("%w %d", ErrUnknownTier, int(t))
	}
	if level < 1 || level > t.LevelCount() {
		return Config{}, fmt.Errorf("%w: %s has %d levels, got %d", ErrLevelRange, t.ID(), t.LevelCount(), level)
	}
	applyTuningDefaults(&tuning)
	return Config{Variant: v, Tier: t, Level: level, Tuning: tuning}, nil
}

func (c Config) Complexity() int { return c.Tier.ComplexityMultiplier() }

func (c Config) Speed() float64 { return c.Tier.SpeedMultiplier() }

// Key returns the composite progress key gameId_difficultyId_level.
func (c Config) Key() string {
	return LevelKey(c.Variant, c.Tier, c.Level)
}

func GameKey(v Variant, t Tier) string {
	return v.ID() + "_" + t.ID()
}

func LevelKey(v Variant, t Tier, level int) string {
	return fmt.Sprintf("%s_%d", GameKey(v, t), level)
}

// Tuning holds the timing constants of the round engines. Zero values are
// replaced with defaults.
type Tuning struct {
	SettleDelay        Duration `yaml:"settle_delay"`
	TickInterval       Duration `yaml:"tick_interval"`
	TimingBaseDuration Duration `yaml:"timing_base_duration"`
	TimingMinDuration  Duration `yaml:"timing_min_duration"`
	RevealBaseDelay    Duration `yaml:"reveal_base_delay"`
	RevealMinDelay     Duration `yaml:"reveal_min_delay"`
}

// DefaultTuning returns the built-in engine timings.
func DefaultTuning() Tuning {
	var t Tuning
	applyTuningDefaults(&t)
	return t
}

func (t Tuning) Validate() error {
	if t.TimingMinDuration.D() > t.TimingBaseDuration.D() {
		return fmt.Errorf("timing_min_duration %s exceeds timing_base_duration %s", t.TimingMinDuration.D(), t.TimingBaseDuration.D())
	}
	if t.RevealMinDelay.D() > t.RevealBaseDelay.D() {
		return fmt.Errorf("reveal_min_delay %s exceeds reveal_base_delay %s", t.RevealMinDelay.D(), t.RevealBaseDelay.D())
	}
	if t.TickInterval.D() > t.TimingMinDuration.D() {
		return fmt.Errorf("tick_interval %s exceeds timing_min_duration %s", t.TickInterval.D(), t.TimingMinDuration.D())
	}
	return nil
}

// Duration is a time.Duration that reads "700ms"-style strings from YAML.
type Duration time.Duration

func (d Duration) D() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}
