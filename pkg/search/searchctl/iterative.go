package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/herohde/dots/pkg/field"
	"github.com/herohde/dots/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Iterative is a search harness for iterative deepening search.
type Iterative struct {
	Root search.Search
}

func (i *Iterative) Launch(ctx context.Context, b *field.Board, tt search.TranspositionTable, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i.Root, b, tt, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, root search.Search, b *field.Board, tt search.TranspositionTable, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	sctx := &search.Context{Alpha: search.NegInf, Beta: search.Inf, TT: tt}
	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.CurPlayer())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	depth := 1
	for !h.quit.IsClosed() {
		start := time.Now()

		nodes, score, moves, err := root.Search(wctx, sctx, b, depth)
		if err != nil {
			if err == search.ErrHalted {
				return // Halt was called.
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", b, depth, err)
			return
		}

		pv := search.PV{
			Depth: depth,
			Nodes: nodes,
			Score: score,
			Moves: moves,
			Time:  time.Since(start),
		}
		if tt != nil {
			pv.Hash = tt.Used()
		}

		logw.Debugf(ctx, "Searched %v: %v", b, pv)
		verifyFromOpponentSide(wctx, root, b, tt, pv, depth)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if score == search.Inf || score == search.NegInf {
			return // halt: a stupid-move cutoff resolved the position exactly
		}
		if useSoft && soft < time.Since(start) {
			return // halt: exceeded soft time limit. Do not start new search.
		}
		depth++
	}
}

// verifyFromOpponentSide re-searches one ply shallower from the opponent's
// perspective with a window pinned to the negated root score, on a forked
// board so the live board is untouched. A wide swing suggests the deeper
// search hasn't stabilized yet; it is only logged, not acted on, since the
// root search already owns move selection.
func verifyFromOpponentSide(ctx context.Context, root search.Search, b *field.Board, tt search.TranspositionTable, pv search.PV, depth int) {
	if len(pv.Moves) == 0 || depth < 2 {
		return
	}

	fork := b.Fork()
	if !fork.PutPoint(pv.Moves[0], b.CurPlayer()) {
		return
	}

	want := pv.Score.Negate()
	narrow := &search.Context{Alpha: want - 1, Beta: want + 1, TT: tt}
	_, score, _, err := root.Search(ctx, narrow, fork, depth-1)
	if err != nil {
		return
	}

	if got := score.Negate(); got != pv.Score {
		logw.Debugf(ctx, "Verify at depth=%v: root=%v opponent-side=%v", depth, pv.Score, got)
	}
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
