package minimax

import (
	"context"

	"github.com/herohde/dots/pkg/field"
	"github.com/herohde/dots/pkg/search"
)

// MTDF wraps an inner fixed-depth search (ordinarily a NegaScout) with the
// MTD(f) driver: repeated minimal [beta-1,beta] null-window probes that
// converge on the true score by ratcheting a lower and upper bound, each
// probe reusing the transposition table the previous one filled. FirstGuess
// seeds beta from sctx.Alpha (the previous iteration's score) when true, or
// 0 otherwise, following the usual MTD(f) convergence heuristic (starting
// near the true value costs far fewer probes than starting from
// +-infinity).
type MTDF struct {
	Root       search.Search
	FirstGuess bool
}

func (p MTDF) Search(ctx context.Context, sctx *search.Context, b *field.Board, depth int) (uint64, search.Score, []field.Pos, error) {
	g := search.Score(0)
	if p.FirstGuess {
		g = sctx.Alpha
	}

	lower, upper := search.NegInf, search.Inf
	var pv []field.Pos
	var total uint64

	for lower < upper {
		beta := g
		if g == lower {
			beta = g + 1
		}

		probe := &search.Context{Alpha: beta - 1, Beta: beta, TT: sctx.TT}
		nodes, score, line, err := p.Root(ctx, probe, b, depth)
		total += nodes
		if err != nil {
			return total, 0, nil, err
		}

		g = score
		if line != nil {
			pv = line
		}
		if g < beta {
			upper = g
		} else {
			lower = g
		}
	}

	return total, g, pv, nil
}
