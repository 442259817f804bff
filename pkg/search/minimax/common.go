// Package minimax implements fixed-depth tree searches: AlphaBeta,
// NegaScout and MTD(f), all trajectory-pruned and transposition-table
// backed, plus a work-stealing root parallelizer.
package minimax

import "github.com/herohde/dots/pkg/field"

// isLastMoveStupid reports whether the move just played at pos by mover
// should be pruned from further search: it lost material
// outright, or it broke even while leaving the mover's stone nearly
// surrounded with room still to escape -- a shape no reasonable opponent
// plays out further. Grounded on original_source's
// common::is_last_move_stupid.
func isLastMoveStupid(b *field.Board, pos field.Pos, mover field.Color) bool {
	delta := b.GetDeltaScore(mover)
	if delta < 0 {
		return true
	}
	if delta != 0 {
		return false
	}

	enemy := mover.Next()
	enemiesAround := 0
	for _, p := range [4]field.Pos{b.N(pos), b.S(pos), b.W(pos), b.E(pos)} {
		if b.Cell(p).IsPoint(enemy) {
			enemiesAround++
		}
	}
	if enemiesAround != 3 {
		return false
	}
	return b.IsPuttingAllowed(b.N(pos)) || b.IsPuttingAllowed(b.S(pos)) ||
		b.IsPuttingAllowed(b.W(pos)) || b.IsPuttingAllowed(b.E(pos))
}

// isPenultMoveStupid reports whether the move before the last one was
// immediately captured -- a sign the last two plies traded a stone for
// nothing and the branch is not worth searching further.
func isPenultMoveStupid(b *field.Board) bool {
	moves := b.Moves()
	if len(moves) < 2 {
		return false
	}
	return b.Cell(moves[len(moves)-2]).IsCaptured()
}
