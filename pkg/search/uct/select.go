package uct

import (
	"math"
	"math/rand"

	"github.com/herohde/dots/pkg/config"
	"github.com/herohde/dots/pkg/field"
)

// ucb scores a child for selection under the parent's visit count.
// Winrate drops the exploration term entirely, for the final move decision
// once simulating stops.
func ucb(parent, node *Node, ucbType config.UCBType, drawWeight, uctk float64) float64 {
	wins := float64(node.Wins())
	draws := float64(node.Draws())
	visits := float64(node.Visits())
	parentVisits := float64(parent.Visits())

	winRate := (wins + draws*drawWeight) / visits

	var uct float64
	switch ucbType {
	case config.UCB1:
		uct = uctk * math.Sqrt(2*math.Log(parentVisits)/visits)
	case config.UCB1Tuned:
		v := (wins+draws*drawWeight*drawWeight)/visits - winRate*winRate + math.Sqrt(2*math.Log(parentVisits)/visits)
		uct = uctk * math.Sqrt(math.Min(v, 0.25)*math.Log(parentVisits)/visits)
	case config.Winrate:
		// no exploration term
	}
	return winRate + uct
}

// uctSelect picks the child to descend into: an unvisited child is taken
// immediately, a permanently pruned child (visits == pruned) is skipped,
// and otherwise the highest-ucb child wins. Returns nil if node has no
// eligible children.
func uctSelect(node *Node, ucbType config.UCBType, drawWeight, uctk float64) *Node {
	var best float64
	var result *Node
	for _, next := range node.Children() {
		switch next.Visits() {
		case pruned:
			continue
		case 0:
			return next
		default:
			if v := ucb(node, next, ucbType, drawWeight, uctk); v > best {
				best = v
				result = next
			}
		}
	}
	return result
}

// isLastMoveStupid reports whether the move just played at pos by mover
// lost material, or gained nothing and has enemy stones on three of its four
// sides while a neighbour is still playable -- grounded on original_source/src/uct.rs's own copy of
// this check (duplicated there rather than shared with common.rs, a
// duplication this package mirrors instead of factoring away).
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
	for _, n := range [4]field.Pos{b.N(pos), b.S(pos), b.W(pos), b.E(pos)} {
		if b.Cell(n).IsPoint(enemy) {
			enemiesAround++
		}
	}
	if enemiesAround != 3 {
		return false
	}
	return b.IsPuttingAllowed(b.N(pos)) || b.IsPuttingAllowed(b.S(pos)) || b.IsPuttingAllowed(b.W(pos)) || b.IsPuttingAllowed(b.E(pos))
}

// isPenultMoveStupid reports whether the move two plies back was
// immediately recaptured by the move just played -- a free trade that marks
// the branch a loss for whoever made that second-to-last move, grounded on
// original_source/src/uct.rs's own copy of this check (duplicated there
// rather than shared with common.rs, mirrored here for the same reason
// isLastMoveStupid is duplicated instead of imported from pkg/search/minimax).
func isPenultMoveStupid(b *field.Board) bool {
	moves := b.Moves()
	if len(moves) < 2 {
		return false
	}
	return b.Cell(moves[len(moves)-2]).IsCaptured()
}

// randomResult reports who wins a finished random game under komi, or
// ok=false for a draw. komi is the score, from mover's perspective, that
// mover must exceed to win, so a positive komi makes mover's win harder.
func randomResult(b *field.Board, mover field.Color, komi int64) (field.Color, bool) {
	redKomi := komi
	if mover != field.Red {
		redKomi = -komi
	}
	redScore := int64(b.Score(field.Red))
	switch {
	case redScore > redKomi:
		return field.Red, true
	case redScore < redKomi:
		return field.Black, true
	default:
		return field.ZeroColor, false
	}
}

// playRandomGame plays out every remaining candidate move in random order,
// skipping any that have since become disallowed or sit in an opponent's
// empty base (entering one is legal but not a "free" random move), then
// scores the result under komi. The moves it plays are left on the board
// for the caller to undo -- a single simulation undoes everything it
// played, random game included, in one pass back to the search root.
func playRandomGame(b *field.Board, mover field.Color, rng *rand.Rand, moves []field.Pos, komi int64) (field.Color, bool) {
	rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })

	cur := mover
	for _, pos := range moves {
		if b.IsPuttingAllowed(pos) && !b.Cell(pos).IsEmptyBase() {
			if b.PutPoint(pos, cur) {
				cur = cur.Next()
			}
		}
	}
	return randomResult(b, mover, komi)
}
