// Package config collects the tunables of the board engine and search
// components into a single struct, in the spirit of original_source's plain
// constants but exposed so callers and tests can override them per instance
// instead of at compile time.
package config

import "time"

// UCBType selects the UCT child-selection formula.
type UCBType int

const (
	UCB1 UCBType = iota
	UCB1Tuned
	// Winrate selects a move by win rate alone, with no exploration term --
	// used for the final move decision after simulations stop, where
	// encouraging further exploration no longer makes sense.
	Winrate
)

func (t UCBType) String() string {
	switch t {
	case UCB1Tuned:
		return "ucb1-tuned"
	case Winrate:
		return "winrate"
	default:
		return "ucb1"
	}
}

// KomiType selects how (or whether) the UCT root's dynamic komi adjusts
// the root position.
type KomiType int

const (
	KomiNone KomiType = iota
	KomiStatic
	KomiDynamic
)

// Options holds every tunable the board engine and search packages consult.
// Zero value is not meaningful; always start from Default().
type Options struct {
	// Wave pruning.
	WaveRadius int

	// UCT search.
	UCBType               UCBType
	FinalUCBType          UCBType // used to pick the final move once simulating stops
	UCTDrawWeight         float64
	UCTK                  float64
	UCTWhenCreateChildren uint64
	UCTDepth              int
	KomiType              KomiType
	KomiMinIterations     uint64
	// KomiRed/KomiGreen bound the win-rate band the dynamic komi ratchet
	// treats as balanced: below KomiRed the komi favors the opponent too
	// much and is decreased; above KomiGreen (with the ratchet not already
	// tripped) it is increased.
	KomiRed   float64
	KomiGreen float64

	// Minimax search.
	TrajectoryDepth int
	MTDFFirstGuess  bool

	// Concurrency.
	Threads int

	// Transposition table.
	TranspositionTableSize int

	// UseUnionFind enables the optional disjoint-set bookkeeping used to
	// speed up connectivity queries on large boards.
	UseUnionFind bool

	// Time control.
	SoftLimit time.Duration
	HardLimit time.Duration
}

// Default returns the tunables original_source/src/config.rs ships with,
// extended with knobs (thread count, transposition table size, time
// control) that the original leaves to its bot/CLI layer.
func Default() Options {
	return Options{
		WaveRadius:             3,
		UCBType:                UCB1Tuned,
		FinalUCBType:           Winrate,
		UCTDrawWeight:          0.4,
		UCTK:                   1.0,
		UCTWhenCreateChildren:  2,
		UCTDepth:               8,
		KomiType:               KomiDynamic,
		KomiMinIterations:      3000,
		KomiRed:                0.45,
		KomiGreen:              0.55,
		TrajectoryDepth:        6,
		MTDFFirstGuess:         true,
		Threads:                1,
		TranspositionTableSize: 1 << 20,
		UseUnionFind:           false,
		SoftLimit:              5 * time.Second,
		HardLimit:              30 * time.Second,
	}
}
