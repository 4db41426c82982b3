// Package scoring holds the point, reward and pass-threshold formulas shared
// by the round engines.
package scoring

import (
	"math"

	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
)

// Grade classifies a Timing hit.
type Grade int

const (
	Miss Grade = iota
	Good
	Perfect
)

func (g Grade) String() string {
	switch g {
	case Perfect:
		return "perfect"
	case Good:
		return "good"
	}
	return "miss"
}

func (g Grade) Points() int {
	switch g {
	case Perfect:
		return 100
	case Good:
		return 50
	}
	return 0
}

// perfectBand is the fraction of the zone width around its centre that
// counts as Perfect.
const perfectBand = 0.3

// GradeHit classifies a hit at progress p against a zone.
func GradeHit(p float64, zone challenge.Timing) Grade {
	if !zone.Contains(p) {
		return Miss
	}
	if math.Abs(p-zone.Center()) < perfectBand*zone.ZoneWidth {
		return Perfect
	}
	return Good
}

func PatternRoundScore(patternLength, round, complexity int) int {
	return patternLength*20 + round*10 + complexity*15
}

func GridRoundScore(movesRemaining, round, complexity int) int {
	return movesRemaining*15 + round*20 + complexity*25
}

// Rounds is the number of rounds in one session of a variant.
func Rounds(v levels.Variant) int {
	if v == levels.Timing {
		return 5
	}
	return 3
}

// Threshold is the number of cleared rounds a session needs to succeed.
func Threshold(cfg levels.Config) int {
	if cfg.Variant == levels.Timing {
		return min(Rounds(levels.Timing), 2+cfg.Complexity())
	}
	return 2
}

type rewardTerms struct{ base, perLevel, perComplexity int }

var rewardTable = map[levels.Variant]rewardTerms{
	levels.Timing:        {base: 10, perLevel: 2, perComplexity: 5},
	levels.PatternMemory: {base: 15, perLevel: 3, perComplexity: 5},
	levels.GridRouting:   {base: 20, perLevel: 3, perComplexity: 6},
}

// Reward is the session reward; failed sessions earn nothing.
func Reward(cfg levels.Config, success bool) int {
	if !success {
		return 0
	}
	t := rewardTable[cfg.Variant]
	return t.base + t.perLevel*cfg.Level + t.perComplexity*cfg.Complexity()
}
