// Package engine implements the progression rules core: class bonus
// formulas, skill aggregation, final XP composition, achievement
// evaluation, the daily reward state machine, and wager settlement.
//
// Every evaluation is a pure function of a user snapshot plus inputs. State
// changes come back as a CounterPatch the caller persists; the engine never
// writes anywhere. Callers are expected to serialize evaluations per player
// around the read-compute-persist sequence.
package engine

import "math/rand"

// Roller is the engine's randomness seam. Production uses math/rand; tests
// inject scripted rolls to pin outcomes.
type Roller interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Int63n returns a uniform value in [0, n). n must be > 0.
	Int63n(n int64) int64
}

type sysRoller struct{}

func (sysRoller) Float64() float64     { return rand.Float64() }
func (sysRoller) Int63n(n int64) int64 { return rand.Int63n(n) }

// Engine evaluates progression rules.
type Engine struct {
	roll Roller
}

// New creates an Engine backed by math/rand.
func New() *Engine {
	return &Engine{roll: sysRoller{}}
}

// NewWithRoller creates an Engine with an injected randomness source.
func NewWithRoller(r Roller) *Engine {
	return &Engine{roll: r}
}

func intPtr(v int) *int { return &v }

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
