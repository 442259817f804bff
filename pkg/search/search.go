// Package search contains the types and interfaces shared by the UCT and
// minimax search engines: principal variations, the transposition table
// contract, and the launcher/handle pattern used to run a search as a
// cancelable background task.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/herohde/dots/pkg/field"
)

// Score is a search-time evaluation: an exact capture-count differential for
// a terminal or fully-resolved position, or a heuristic estimate otherwise.
// Inf/NegInf sit outside any value field.Score can produce, so they compose
// safely with alpha-beta bounds.
type Score int32

const (
	Inf    Score = math.MaxInt32
	NegInf Score = math.MinInt32 + 1 // negatable without overflow
)

func (s Score) String() string {
	switch s {
	case Inf:
		return "+inf"
	case NegInf:
		return "-inf"
	default:
		return fmt.Sprintf("%+d", int32(s))
	}
}

// FromBoardScore lifts an exact field.Score into the search Score domain.
func FromBoardScore(s field.Score) Score { return Score(s) }

// Negate flips a score to the other player's perspective, the core
// operation of negamax-style search. Inf and NegInf map to each other
// exactly; any other value negates arithmetically.
func (s Score) Negate() Score {
	switch s {
	case Inf:
		return NegInf
	case NegInf:
		return Inf
	default:
		return -s
	}
}

// Options hold dynamic search options. The user may change these on a particular search.
type Options struct {
	DepthLimit int // 0 == no limit
}

// Launcher is a Search generator.
type Launcher interface {
	// Launch a new search from the given position. It expects an exclusive (forked) board and
	// returns a PV channel for iteratively deeper searches. If the search is exhausted, the
	// channel is closed. The search can be stopped at any time.
	Launch(ctx context.Context, b *field.Board, opt Options) (Handle, <-chan PV)
}

// Handle is an interface for the engine to manage searches. The engine is expected to spin off
// searches with forked boards and close/abandon them when no longer needed. This design keeps
// stopping conditions and re-synchronization trivial.
type Handle interface {
	// Halt halts the search, if running. Idempotent.
	Halt() PV
}

// ErrHalted is returned by a single-call Search when it is canceled or its
// time control expires before completion.
var ErrHalted = errors.New("search: halted")

// Context carries the alpha-beta window and transposition table through one
// fixed-depth search call.
type Context struct {
	Alpha, Beta Score
	TT          TranspositionTable
}

// Search runs one fixed-depth search from b, returning the node count, score
// and principal variation. Implemented by AlphaBeta, NegaScout and MTDF in
// pkg/search/minimax.
type Search func(ctx context.Context, sctx *Context, b *field.Board, depth int) (nodes uint64, score Score, pv []field.Pos, err error)

// Exploration selects and orders the candidate moves to search. limit is a
// trajectory-pruned candidate set; nil means every legal move is a
// candidate.
type Exploration func(ctx context.Context, b *field.Board, limit []field.Pos) []field.Pos

// FullExploration explores every legal move on b, or exactly limit if given.
func FullExploration(ctx context.Context, b *field.Board, limit []field.Pos) []field.Pos {
	if limit != nil {
		return limit
	}
	var moves []field.Pos
	for pos := b.MinPos(); pos <= b.MaxPos(); pos++ {
		if b.IsPuttingAllowed(pos) {
			moves = append(moves, pos)
		}
	}
	return moves
}
