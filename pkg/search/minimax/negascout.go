package minimax

import (
	"context"

	"github.com/herohde/dots/pkg/field"
	"github.com/herohde/dots/pkg/field/trajectory"
	"github.com/herohde/dots/pkg/search"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// NegaScout implements principal variation search over the trajectory-pruned
// candidate set: a full-window search of the first child, then a null-window
// search-and-verify of every later one.
type NegaScout struct {
	// TrajectoryDepth bounds how many plies ahead the forced-capture-sequence
	// pruning of pkg/field/trajectory looks when building the candidate move
	// set at each node.
	TrajectoryDepth int
}

func (n NegaScout) Search(ctx context.Context, sctx *search.Context, b *field.Board, depth int) (uint64, search.Score, []field.Pos, error) {
	run := &runNegaScout{
		tt:         sctx.TT,
		b:          b,
		emptyBoard: make([]uint32, b.Length()),
		tdepth:     n.TrajectoryDepth,
	}

	player := b.CurPlayer()
	traj := trajectory.New(b, player, min(depth, run.tdepth), run.emptyBoard)

	score, pv := run.root(ctx, depth, player, traj, sctx.Alpha, sctx.Beta)
	if contextx.IsCancelled(ctx) {
		return 0, 0, nil, search.ErrHalted
	}
	return run.nodes, score, pv, nil
}

type runNegaScout struct {
	tt         search.TranspositionTable
	b          *field.Board
	emptyBoard []uint32
	tdepth     int
	nodes      uint64
}

// root searches the trajectory-pruned moves at the top of the tree -- the
// one call site with no preceding move to run the stupid-move check
// against.
func (r *runNegaScout) root(ctx context.Context, depth int, player field.Color, traj *trajectory.Set, alpha, beta search.Score) (search.Score, []field.Pos) {
	if depth == 0 || r.b.IsGameOver() {
		return search.FromBoardScore(r.b.Score(player)), nil
	}

	moves := traj.CalculateMoves(r.emptyBoard)
	if len(moves) == 0 {
		return search.FromBoardScore(r.b.Score(player)), nil
	}

	var best field.Pos
	if r.tt != nil {
		if _, _, _, m, ok := r.tt.Read(r.b.Hash()); ok {
			best = m
		}
	}

	enemy := player.Next()
	var pv []field.Pos
	first := true

	list := search.NewMoveList(moves, search.Rank(reorder(moves, best)))
	for {
		pos, ok := list.Next()
		if !ok {
			break
		}
		if !r.b.PutPoint(pos, player) {
			continue
		}
		if isPenultMoveStupid(r.b) {
			r.b.Undo()
			return search.Inf, []field.Pos{pos}
		}
		next := trajectory.FromLast(r.b, enemy, depth-1, r.emptyBoard, traj, pos)

		var score search.Score
		var rem []field.Pos
		if first {
			score, rem = r.negamax(ctx, depth-1, pos, enemy, next, beta.Negate(), alpha.Negate())
			score = score.Negate()
			first = false
		} else {
			score, rem = r.negamax(ctx, depth-1, pos, enemy, next, alpha.Negate()-1, alpha.Negate())
			score = score.Negate()
			if score > alpha && score < beta {
				score, rem = r.negamax(ctx, depth-1, pos, enemy, next, beta.Negate(), score.Negate())
				score = score.Negate()
			}
		}
		r.b.Undo()

		if score > alpha {
			alpha = score
			pv = append([]field.Pos{pos}, rem...)
		}
		if alpha >= beta {
			break
		}
	}

	if r.tt != nil && pv != nil {
		r.tt.Write(r.b.Hash(), search.ExactBound, depth, alpha, pv[0])
	}
	return alpha, pv
}

// negamax is the recursive search body, called for every node but the root.
// lastPos is the move that led into this node, played by player.Next().
func (r *runNegaScout) negamax(ctx context.Context, depth int, lastPos field.Pos, player field.Color, traj *trajectory.Set, alpha, beta search.Score) (search.Score, []field.Pos) {
	if contextx.IsCancelled(ctx) {
		return 0, nil
	}

	r.nodes++

	prevMover := player.Next()
	if isLastMoveStupid(r.b, lastPos, prevMover) {
		return search.Inf, nil
	}
	if depth == 0 || r.b.IsGameOver() {
		return search.FromBoardScore(r.b.Score(player)), nil
	}

	var best field.Pos
	if r.tt != nil {
		if bound, d, score, m, ok := r.tt.Read(r.b.Hash()); ok {
			best = m
			if d >= depth && bound == search.ExactBound {
				return score, nil
			}
		}
	}

	moves := traj.CalculateMoves(r.emptyBoard)
	if len(moves) == 0 {
		return search.FromBoardScore(r.b.Score(player)), nil
	}

	enemy := player.Next()
	var pv []field.Pos
	bound := search.UpperBound
	first := true

	list := search.NewMoveList(moves, search.Rank(reorder(moves, best)))
	for {
		pos, ok := list.Next()
		if !ok {
			break
		}
		if !r.b.PutPoint(pos, player) {
			continue
		}
		if isPenultMoveStupid(r.b) {
			r.b.Undo()
			return search.Inf, []field.Pos{pos}
		}
		next := trajectory.FromLast(r.b, enemy, depth-1, r.emptyBoard, traj, pos)

		var score search.Score
		var rem []field.Pos
		if first {
			score, rem = r.negamax(ctx, depth-1, pos, enemy, next, beta.Negate(), alpha.Negate())
			score = score.Negate()
			first = false
		} else {
			score, rem = r.negamax(ctx, depth-1, pos, enemy, next, alpha.Negate()-1, alpha.Negate())
			score = score.Negate()
			if score > alpha && score < beta {
				score, rem = r.negamax(ctx, depth-1, pos, enemy, next, beta.Negate(), score.Negate())
				score = score.Negate()
			}
		}
		r.b.Undo()

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

	if r.tt != nil {
		move := lastPos
		if pv != nil {
			move = pv[0]
		}
		r.tt.Write(r.b.Hash(), bound, depth, alpha, move)
	}
	return alpha, pv
}

// reorder returns moves with best (if present) moved to the front, so
// search.Rank assigns it the highest priority. best == field.NoPos is a
// no-op.
func reorder(moves []field.Pos, best field.Pos) []field.Pos {
	if best == field.NoPos {
		return moves
	}
	for i, m := range moves {
		if m == best {
			out := make([]field.Pos, len(moves))
			out[0] = best
			copy(out[1:], moves[:i])
			copy(out[1+i:], moves[i+1:])
			return out
		}
	}
	return moves
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
