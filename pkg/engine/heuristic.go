package engine

import "github.com/herohde/dots/pkg/field"

// cgSum scores a position by its count of same-colored near points, grounded
// on original_source/src/heuristic.rs's CG_SUM table verbatim.
var cgSum = [9]int{-5, -1, 0, 0, 1, 2, 5, 20, 30}

// heuristicEstimate scores placing a stone of player at pos, grounded on
// original_source/src/heuristic.rs's heuristic_estimation: favors positions
// that build groups of the mover's own color while denying the enemy the
// same, tempered by how close the two counts already are, and nudged toward
// continuing near the most recently played point.
func heuristicEstimate(b *field.Board, pos field.Pos, player field.Color) int {
	enemy := player.Next()
	g1 := b.NumberNearGroups(pos, player)
	g2 := b.NumberNearGroups(pos, enemy)
	c1 := cgSum[b.NumberNearPoints(pos, player)]
	c2 := cgSum[b.NumberNearPoints(pos, enemy)]

	diff := g1 - g2
	if diff < 0 {
		diff = -diff
	}
	result := (g1*3+g2*2)*(5-diff) - c1 - c2

	if moves := b.Moves(); len(moves) > 0 {
		if b.IsNear(moves[len(moves)-1], pos) {
			result += 5
		}
	}
	return result
}

// heuristic scans every currently puttable position and returns the one
// heuristicEstimate ranks highest, or field.NoPos if none is available. It
// is both the bot facade's fallback when a search returns no move and,
// standing alone, the Heuristic EngineKind.
func heuristic(b *field.Board, player field.Color) field.Pos {
	best := field.NoPos
	bestScore := 0
	found := false

	for pos := b.MinPos(); pos <= b.MaxPos(); pos++ {
		if !b.IsPuttingAllowed(pos) {
			continue
		}
		score := heuristicEstimate(b, pos, player)
		if !found || score > bestScore {
			bestScore = score
			best = pos
			found = true
		}
	}
	return best
}
