package challenge

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"skillarcade/internal/levels"
)

// Rand is the randomness a generator draws from.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// Generator produces the content of one round.
type Generator interface {
	Timing(cfg levels.Config, round int) Timing
	Pattern(cfg levels.Config, round int) Pattern
	Grid(cfg levels.Config, round int) Grid
}

const (
	minZoneWidth      = 0.08
	maxPatternLength  = 12
	maxBlockChance    = 0.35
	gridRegenAttempts = 32
)

// RandomGenerator is the production Generator.
type RandomGenerator struct {
	rng Rand
}

func New(rng Rand) *RandomGenerator { return &RandomGenerator{rng: rng} }

// NewSeeded returns a reproducible generator.
func NewSeeded(seed uint64) *RandomGenerator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewSeed generates a seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// TimingDuration is the sweep time for a level, shrinking with level and
// tier speed and floored at the tuning minimum.
func TimingDuration(cfg levels.Config) time.Duration {
	base := float64(cfg.Tuning.TimingBaseDuration.D()) / cfg.Speed()
	scaled := time.Duration(base * (1 - 0.05*float64(cfg.Level-1)))
	return max(scaled, cfg.Tuning.TimingMinDuration.D())
}

// ZoneWidth shrinks with level and complexity, floored at minZoneWidth.
func ZoneWidth(cfg levels.Config) float64 {
	w := 0.30 - 0.02*float64(cfg.Level-1) - 0.03*float64(cfg.Complexity()-1)
	return max(w, minZoneWidth)
}

func (g *RandomGenerator) Timing(cfg levels.Config, _ int) Timing {
	width := ZoneWidth(cfg)
	return Timing{
		ZoneStart: g.rng.Float64() * (1 - width),
		ZoneWidth: width,
		Duration:  TimingDuration(cfg),
	}
}

// PatternGridSize is 4 on Master or past level 5, else 3.
func PatternGridSize(cfg levels.Config) int {
	if cfg.Complexity() >= 3 || cfg.Level > 5 {
		return 4
	}
	return 3
}

func PatternLength(cfg levels.Config, round int) int {
	n := 2 + round + cfg.Complexity() + (cfg.Level-1)/3
	return min(n, maxPatternLength)
}

func RevealDelay(cfg levels.Config) time.Duration {
	d := cfg.Tuning.RevealBaseDelay.D() -
		time.Duration(cfg.Complexity()-1)*100*time.Millisecond -
		time.Duration(cfg.Level-1)*20*time.Millisecond
	return max(d, cfg.Tuning.RevealMinDelay.D())
}

func (g *RandomGenerator) Pattern(cfg levels.Config, round int) Pattern {
	size := PatternGridSize(cfg)
	cells := size * size
	seq := make([]int, PatternLength(cfg, round))
	for i := range seq {
		if i == 0 {
			seq[i] = g.rng.IntN(cells)
			continue
		}
		// Draw from the cells other than the previous one.
		next := g.rng.IntN(cells - 1)
		if next >= seq[i-1] {
			next++
		}
		seq[i] = next
	}
	return Pattern{GridSize: size, Sequence: seq, RevealDelay: RevealDelay(cfg)}
}

// BlockChance rises mildly with complexity and level.
func BlockChance(cfg levels.Config) float64 {
	p := 0.15 + 0.03*float64(cfg.Complexity()-1) + 0.01*float64(cfg.Level-1)
	return min(p, maxBlockChance)
}

func MoveBudget(cfg levels.Config) int {
	return max(6, 10+cfg.Level-cfg.Complexity())
}

// Grid places blocks, then regenerates until the target is reachable within
// the move budget. When every attempt fails the blocks are cleared.
func (g *RandomGenerator) Grid(cfg levels.Config, _ int) Grid {
	budget := MoveBudget(cfg)
	chance := BlockChance(cfg)
	for range gridRegenAttempts {
		var blocked [GridNodes]bool
		for node := range GridNodes {
			if isCorner(node) {
				continue
			}
			blocked[node] = g.rng.Float64() < chance
		}
		grid := g.place(blocked, budget)
		if d := grid.ShortestPath(); d >= 0 && d <= budget {
			return grid
		}
	}
	return g.place([GridNodes]bool{}, budget)
}

func (g *RandomGenerator) place(blocked [GridNodes]bool, budget int) Grid {
	start := g.pick(rowCandidates(blocked, 0, -1))
	if start < 0 {
		start = lastUnblocked(blocked, -1)
	}
	target := g.pick(rowCandidates(blocked, GridSide-1, start))
	if target == start || target < 0 {
		target = lastUnblocked(blocked, start)
	}
	return NewGrid(blocked, start, target, budget)
}

func (g *RandomGenerator) pick(candidates []int) int {
	if len(candidates) == 0 {
		return -1
	}
	return candidates[g.rng.IntN(len(candidates))]
}

func rowCandidates(blocked [GridNodes]bool, row, exclude int) []int {
	var out []int
	for c := range GridSide {
		node := row*GridSide + c
		if !blocked[node] && node != exclude {
			out = append(out, node)
		}
	}
	return out
}

func lastUnblocked(blocked [GridNodes]bool, exclude int) int {
	for node := GridNodes - 1; node >= 0; node-- {
		if !blocked[node] && node != exclude {
			return node
		}
	}
	return GridNodes - 1
}
