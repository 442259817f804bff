package minimax

import (
	"context"
	"sync"

	"github.com/herohde/dots/pkg/field"
	"github.com/herohde/dots/pkg/field/trajectory"
	"github.com/herohde/dots/pkg/search"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// RootParallel splits the trajectory-pruned root moves across Threads
// workers, each searching its own forked board with Inner and racing to
// improve a shared alpha via a CAS loop. Grounded on original_source's
// minimax::minimax, which hands root moves out through an spmc queue to a
// fixed worker pool and converges on the best move with
// AtomicIsize/AtomicUsize compare-and-swap retries; this replaces the Rust
// spmc channel with a pre-filled buffered Go channel (the move count is
// known upfront, so there is nothing left to produce once filled) and the
// worker pool with an errgroup.Group.
type RootParallel struct {
	Inner           search.Search
	Threads         int
	TrajectoryDepth int
}

func (p RootParallel) Search(ctx context.Context, sctx *search.Context, b *field.Board, depth int) (uint64, search.Score, []field.Pos, error) {
	player := b.CurPlayer()
	emptyBoard := make([]uint32, b.Length())
	traj := trajectory.New(b, player, min(depth, p.TrajectoryDepth), emptyBoard)
	moves := traj.CalculateMoves(emptyBoard)

	if depth == 0 || len(moves) == 0 || b.IsGameOver() {
		return 0, search.FromBoardScore(b.Score(player)), nil, nil
	}

	threads := p.Threads
	if threads < 1 {
		threads = 1
	}
	if threads > len(moves) {
		threads = len(moves)
	}

	queue := make(chan field.Pos, len(moves))
	for _, m := range moves {
		queue <- m
	}
	close(queue)

	shared := &rootShared{move: field.NoPos, score: search.NegInf}
	shared.alpha.Store(int64(sctx.Alpha))

	var totalNodes atomic.Uint64

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			local := b.Fork()

			for pos := range queue {
				if !local.PutPoint(pos, player) {
					continue
				}

				curAlpha := search.Score(shared.alpha.Load())
				window := &search.Context{Alpha: curAlpha.Negate() - 1, Beta: curAlpha.Negate(), TT: sctx.TT}
				nodes, score, rem, err := p.Inner(gctx, window, local, depth-1)
				totalNodes.Add(nodes)
				score = score.Negate()

				if err == nil && score > curAlpha {
					full := &search.Context{Alpha: search.NegInf, Beta: score.Negate(), TT: sctx.TT}
					nodes, score2, rem2, err2 := p.Inner(gctx, full, local, depth-1)
					totalNodes.Add(nodes)
					if err2 == nil {
						score, rem = score2.Negate(), rem2
					}
				}

				local.Undo()

				if err != nil {
					return err
				}
				pv := append([]field.Pos{pos}, rem...)
				shared.tryUpdate(score, pos, pv)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return totalNodes.Load(), 0, nil, err
	}

	shared.mu.Lock()
	score, pv := shared.score, shared.pv
	shared.mu.Unlock()

	return totalNodes.Load(), score, pv, nil
}

// rootShared is the CAS-protected best-result tracker workers race to
// update: alpha is the fast lock-free comparison point, mu guards the
// compound (score, move, pv) write so a reader never observes a pv that
// doesn't match score.
type rootShared struct {
	alpha atomic.Int64

	mu    sync.Mutex
	score search.Score
	move  field.Pos
	pv    []field.Pos
}

func (s *rootShared) tryUpdate(score search.Score, move field.Pos, pv []field.Pos) {
	for {
		cur := search.Score(s.alpha.Load())
		if score <= cur {
			return
		}
		if s.alpha.CAS(int64(cur), int64(score)) {
			s.mu.Lock()
			if score > s.score {
				s.score = score
				s.move = move
				s.pv = pv
			}
			s.mu.Unlock()
			return
		}
	}
}
