// Package trajectory implements short forced-capture-sequence enumeration:
// a minimax move-ordering oracle that prunes a player's candidate moves
// down to those that participate in some short capturing line for either
// side.
package trajectory

import "github.com/herohde/dots/pkg/field"

// Trajectory is one short sequence of positions that, played by one player in
// order, delivers a capture. Excluded trajectories are retained (for the
// fixpoint computation in exclude below) but no longer contribute moves.
type Trajectory struct {
	points   []field.Pos
	hash     field.ZobristHash
	excluded bool
}

func newTrajectory(points []field.Pos, hash field.ZobristHash) *Trajectory {
	return &Trajectory{points: append([]field.Pos(nil), points...), hash: hash}
}

func (t *Trajectory) Points() []field.Pos { return t.points }
func (t *Trajectory) Len() int            { return len(t.points) }
func (t *Trajectory) Excluded() bool      { return t.excluded }
func (t *Trajectory) exclude()            { t.excluded = true }

// Set holds the trajectories available to each side at a given position, as
// computed by New, FromLast, DecExists or IncExists.
type Set struct {
	red, black []*Trajectory
}

// Empty returns a Set with no trajectories for either side.
func Empty() *Set { return &Set{} }

func (s *Set) forPlayer(p field.Color) []*Trajectory {
	if p == field.Red {
		return s.red
	}
	return s.black
}

// CalculateMoves returns the deduplicated union of every non-excluded
// trajectory's points across both players -- the candidate move set a
// minimax search should explore instead of every legal move. emptyBoard is a
// caller-owned scratch buffer of length board.Length(), assumed zeroed on
// entry and restored to zeroed on return.
func (s *Set) CalculateMoves(emptyBoard []uint32) []field.Pos {
	var result []field.Pos
	for _, list := range [2][]*Trajectory{s.red, s.black} {
		for _, t := range list {
			if t.excluded {
				continue
			}
			for _, pos := range t.points {
				if emptyBoard[pos] == 0 {
					emptyBoard[pos] = 1
					result = append(result, pos)
				}
			}
		}
	}
	for _, pos := range result {
		emptyBoard[pos] = 0
	}
	return result
}

func addTrajectory(b *field.Board, trajectories *[]*Trajectory, points []field.Pos, player field.Color) {
	for _, pos := range points {
		if !b.Cell(pos).IsBound() || b.NumberNearGroups(pos, player) < 2 {
			return
		}
	}
	var hash field.ZobristHash
	for _, pos := range points {
		hash ^= b.Zobrist().Get(pos, field.Red)
	}
	for _, t := range *trajectories {
		if t.hash == hash {
			return
		}
	}
	*trajectories = append(*trajectories, newTrajectory(points, hash))
}

func buildTrajectoriesRec(b *field.Board, trajectories *[]*Trajectory, player field.Color, curDepth, depth int) {
	for pos := b.MinPos(); pos <= b.MaxPos(); pos++ {
		if !b.IsPuttingAllowed(pos) || !b.HasNearPoints(pos, player) || b.Cell(pos).IsEmptyBaseOf(player) {
			continue
		}
		if b.Cell(pos).IsEmptyBaseOf(player.Next()) {
			b.PutPoint(pos, player)
			if b.GetDeltaScore(player) > 0 {
				moves := b.Moves()
				addTrajectory(b, trajectories, moves[len(moves)-curDepth:], player)
			}
			b.Undo()
			continue
		}
		b.PutPoint(pos, player)
		if b.GetDeltaScore(player) > 0 {
			moves := b.Moves()
			addTrajectory(b, trajectories, moves[len(moves)-curDepth:], player)
		} else if depth > 0 {
			buildTrajectoriesRec(b, trajectories, player, curDepth+1, depth-1)
		}
		b.Undo()
	}
}

func buildTrajectories(b *field.Board, trajectories *[]*Trajectory, player field.Color, depth int) {
	if depth > 0 {
		buildTrajectoriesRec(b, trajectories, player, 1, depth-1)
	}
}

func intersectionHash(t1, t2 *Trajectory, zt *field.ZobristTable, emptyBoard []uint32) field.ZobristHash {
	result := t1.hash ^ t2.hash
	for _, pos := range t1.points {
		emptyBoard[pos] = 1
	}
	for _, pos := range t2.points {
		if emptyBoard[pos] != 0 {
			result ^= zt.Get(pos, field.Red)
		}
	}
	for _, pos := range t1.points {
		emptyBoard[pos] = 0
	}
	return result
}

// excludeCompositeTrajectories excludes any trajectory whose points are
// exactly the (disjoint-friendly) union of two shorter trajectories of the
// same list, whether or not those two are themselves excluded: the shorter
// two already cover it, so it adds no new information to the move set.
func excludeCompositeTrajectories(trajectories []*Trajectory, zt *field.ZobristTable, emptyBoard []uint32) {
	n := len(trajectories)
	for k := 0; k < n; k++ {
		for i := 0; i < n-1; i++ {
			if trajectories[k].Len() <= trajectories[i].Len() {
				continue
			}
			for j := i + 1; j < n; j++ {
				if trajectories[k].Len() > trajectories[j].Len() &&
					trajectories[k].hash == intersectionHash(trajectories[i], trajectories[j], zt, emptyBoard) {
					trajectories[k].exclude()
				}
			}
		}
	}
}

func project(trajectories []*Trajectory, emptyBoard []uint32) {
	for _, t := range trajectories {
		if t.excluded {
			continue
		}
		for _, pos := range t.points {
			emptyBoard[pos]++
		}
	}
}

func deproject(trajectories []*Trajectory, emptyBoard []uint32) {
	for _, t := range trajectories {
		if t.excluded {
			continue
		}
		for _, pos := range t.points {
			emptyBoard[pos]--
		}
	}
}

// excludeUnnecessaryTrajectories drops any trajectory that owns more than one
// position no other live trajectory touches: such a trajectory requires more
// than one otherwise-unforced move to complete, so it does not tighten the
// move set beyond what is already forced. Returns whether any exclusion
// happened, so callers can iterate to a fixpoint.
func excludeUnnecessaryTrajectories(trajectories []*Trajectory, emptyBoard []uint32) bool {
	needExclude := false
	for _, t := range trajectories {
		if t.excluded {
			continue
		}
		singleCount := 0
		for _, pos := range t.points {
			if emptyBoard[pos] == 1 {
				singleCount++
			}
		}
		if singleCount > 1 {
			for _, pos := range t.points {
				emptyBoard[pos]--
			}
			t.exclude()
			needExclude = true
		}
	}
	return needExclude
}

func excludeTrajectories(cur, enemy []*Trajectory, zt *field.ZobristTable, emptyBoard []uint32) {
	excludeCompositeTrajectories(cur, zt, emptyBoard)
	excludeCompositeTrajectories(enemy, zt, emptyBoard)
	project(cur, emptyBoard)
	project(enemy, emptyBoard)
	for excludeUnnecessaryTrajectories(cur, emptyBoard) || excludeUnnecessaryTrajectories(enemy, emptyBoard) {
	}
	deproject(cur, emptyBoard)
	deproject(enemy, emptyBoard)
}

func buildResult(curTrajectories, enemyTrajectories []*Trajectory, player field.Color) *Set {
	if player == field.Red {
		return &Set{red: curTrajectories, black: enemyTrajectories}
	}
	return &Set{red: enemyTrajectories, black: curTrajectories}
}

// New computes the trajectory set for player to move, searching depth plies
// ahead: ceil(depth/2) plies for player, floor(depth/2) for the opponent.
func New(b *field.Board, player field.Color, depth int, emptyBoard []uint32) *Set {
	if depth == 0 {
		return Empty()
	}
	var cur, enemy []*Trajectory
	buildTrajectories(b, &cur, player, (depth+1)/2)
	buildTrajectories(b, &enemy, player.Next(), depth/2)
	excludeTrajectories(cur, enemy, b.Zobrist(), emptyBoard)
	return buildResult(cur, enemy, player)
}

// FromLast incrementally derives the trajectory set after lastPos was played,
// reusing the opponent's surviving trajectories from last instead of
// recomputing them from scratch.
func FromLast(b *field.Board, player field.Color, depth int, emptyBoard []uint32, last *Set, lastPos field.Pos) *Set {
	if depth == 0 {
		return Empty()
	}
	var cur, enemy []*Trajectory
	lastEnemy := last.forPlayer(player.Next())

	buildTrajectories(b, &cur, player, (depth+1)/2)

	enemyDepth := depth / 2
	if enemyDepth > 0 {
		for _, t := range lastEnemy {
			length := t.Len()
			containsPos := containsPos(t.points, lastPos)
			if !(length <= enemyDepth || (length == enemyDepth+1 && containsPos)) {
				continue
			}
			ok := true
			for _, pos := range t.points {
				if !b.IsPuttingAllowed(pos) && pos != lastPos {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			if containsPos {
				if length == 1 {
					continue
				}
				points := make([]field.Pos, 0, length-1)
				for _, pos := range t.points {
					if pos != lastPos {
						points = append(points, pos)
					}
				}
				enemy = append(enemy, newTrajectory(points, t.hash^b.Zobrist().Get(lastPos, field.Red)))
			} else {
				enemy = append(enemy, newTrajectory(t.points, t.hash))
			}
		}
	}
	excludeTrajectories(cur, enemy, b.Zobrist(), emptyBoard)
	return buildResult(cur, enemy, player)
}

func containsPos(points []field.Pos, pos field.Pos) bool {
	for _, p := range points {
		if p == pos {
			return true
		}
	}
	return false
}

// DecExists narrows an existing trajectory set to a reduced search depth,
// without re-walking the board: used when descending the search tree one
// ply, where the horizon shrinks by exactly one.
func DecExists(b *field.Board, player field.Color, depth int, emptyBoard []uint32, exists *Set) *Set {
	if depth == 0 {
		return Empty()
	}
	existsCur, existsEnemy := exists.forPlayer(player), exists.forPlayer(player.Next())

	cur := make([]*Trajectory, 0, len(existsCur))
	for _, t := range existsCur {
		cur = append(cur, newTrajectory(t.points, t.hash))
	}

	enemyDepth := depth / 2
	var enemy []*Trajectory
	if enemyDepth > 0 {
		for _, t := range existsEnemy {
			if t.Len() <= enemyDepth {
				enemy = append(enemy, newTrajectory(t.points, t.hash))
			}
		}
	}
	excludeTrajectories(cur, enemy, b.Zobrist(), emptyBoard)
	return buildResult(cur, enemy, player)
}

// IncExists grows an existing trajectory set by one ply, alternating which
// side gets a freshly rebuilt half: used when returning up the search tree
// one ply after a DecExists descent.
func IncExists(b *field.Board, player field.Color, depth int, emptyBoard []uint32, exists *Set) *Set {
	existsCur, existsEnemy := exists.forPlayer(player), exists.forPlayer(player.Next())

	var cur, enemy []*Trajectory
	if depth%2 == 0 {
		buildTrajectories(b, &enemy, player.Next(), depth/2)
		for _, t := range existsCur {
			cur = append(cur, newTrajectory(t.points, t.hash))
		}
	} else {
		buildTrajectories(b, &cur, player, (depth+1)/2)
		for _, t := range existsEnemy {
			enemy = append(enemy, newTrajectory(t.points, t.hash))
		}
	}
	excludeTrajectories(cur, enemy, b.Zobrist(), emptyBoard)
	return buildResult(cur, enemy, player)
}
