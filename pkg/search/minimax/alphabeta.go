package minimax

import (
	"context"

	"github.com/herohde/dots/pkg/field"
	"github.com/herohde/dots/pkg/field/trajectory"
	"github.com/herohde/dots/pkg/search"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// AlphaBeta implements plain fail-hard negamax alpha-beta, without
// NegaScout's null-window re-search: every child gets a full [-beta,-alpha]
// window. Useful as a simpler baseline to validate NegaScout and MTD(f)
// against.
type AlphaBeta struct {
	TrajectoryDepth int
}

func (p AlphaBeta) Search(ctx context.Context, sctx *search.Context, b *field.Board, depth int) (uint64, search.Score, []field.Pos, error) {
	run := &runAlphaBeta{
		tt:         sctx.TT,
		b:          b,
		emptyBoard: make([]uint32, b.Length()),
		tdepth:     p.TrajectoryDepth,
	}

	player := b.CurPlayer()
	traj := trajectory.New(b, player, min(depth, run.tdepth), run.emptyBoard)

	score, pv := run.search(ctx, depth, field.NoPos, player, traj, sctx.Alpha, sctx.Beta, true)
	if contextx.IsCancelled(ctx) {
		return 0, 0, nil, search.ErrHalted
	}
	return run.nodes, score, pv, nil
}

type runAlphaBeta struct {
	tt         search.TranspositionTable
	b          *field.Board
	emptyBoard []uint32
	tdepth     int
	nodes      uint64
}

// search returns the score from player's perspective. isRoot suppresses the
// stupid-move check, which needs a preceding move to evaluate.
func (m *runAlphaBeta) search(ctx context.Context, depth int, lastPos field.Pos, player field.Color, traj *trajectory.Set, alpha, beta search.Score, isRoot bool) (search.Score, []field.Pos) {
	if contextx.IsCancelled(ctx) {
		return 0, nil
	}
	m.nodes++

	if !isRoot && isLastMoveStupid(m.b, lastPos, player.Next()) {
		return search.Inf, nil
	}
	if depth == 0 || m.b.IsGameOver() {
		return search.FromBoardScore(m.b.Score(player)), nil
	}

	var best field.Pos
	if m.tt != nil {
		if bound, d, score, mv, ok := m.tt.Read(m.b.Hash()); ok {
			best = mv
			if d >= depth && bound == search.ExactBound {
				return score, nil
			}
		}
	}

	moves := traj.CalculateMoves(m.emptyBoard)
	if len(moves) == 0 {
		return search.FromBoardScore(m.b.Score(player)), nil
	}

	enemy := player.Next()
	var pv []field.Pos
	bound := search.UpperBound

	list := search.NewMoveList(moves, search.Rank(reorder(moves, best)))
	for {
		pos, ok := list.Next()
		if !ok {
			break
		}
		if !m.b.PutPoint(pos, player) {
			continue
		}
		if isPenultMoveStupid(m.b) {
			m.b.Undo()
			return search.Inf, []field.Pos{pos}
		}
		next := trajectory.FromLast(m.b, enemy, depth-1, m.emptyBoard, traj, pos)
		score, rem := m.search(ctx, depth-1, pos, enemy, next, beta.Negate(), alpha.Negate(), false)
		score = score.Negate()
		m.b.Undo()

		if score > alpha {
			alpha = score
			bound = search.ExactBound
			pv = append([]field.Pos{pos}, rem...)
		}
		if alpha >= beta {
			bound = search.LowerBound
			break
		}
	}

	if m.tt != nil {
		move := lastPos
		if pv != nil {
			move = pv[0]
		}
		m.tt.Write(m.b.Hash(), bound, depth, alpha, move)
	}
	return alpha, pv
}
