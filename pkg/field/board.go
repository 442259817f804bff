// Package field implements the incremental, undoable dots/points board: an
// (width+2)x(height+2) padded buffer of bit-packed cells, capture detection
// and application, and an undo log sufficient to reverse every mutation a
// single move caused.
package field

import "fmt"

// cellDelta is one (position, previous value) entry in a move's undo log.
type cellDelta struct {
	pos  Pos
	prev Cell
}

type dsuDelta struct {
	pos  Pos
	prev Pos
}

// change is the full undo record for one successful PutPoint call: the score
// and hash immediately before the move, plus every cell (and, if enabled,
// union-find parent) mutation it caused, in the order they happened.
type change struct {
	scoreRed, scoreBlack Score
	hash                 ZobristHash
	cellChanges          []cellDelta
	dsuChanges           []dsuDelta
}

// inputPoint pairs a chain-start neighbor with the interior seed beside it,
// one per group of friendly stones found around a just-placed stone.
type inputPoint struct {
	chain    Pos
	captured Pos
}

// Board is an incremental board representation supporting push/undo move
// application with O(1) amortized surround/capture bookkeeping. Not
// thread-safe -- Fork before handing a board to another goroutine.
type Board struct {
	width, height int
	length        Pos

	scoreRed, scoreBlack Score

	moves []Pos
	cells []Cell
	dsu   []Pos // union-find parents; nil unless WithUnionFind is given

	zobrist *ZobristTable
	hash    ZobristHash

	changes []change

	useDSU bool
}

// Option configures a new Board.
type Option func(*Board)

// WithUnionFind enables optional disjoint-set acceleration of connectivity
// queries. It currently only maintains parent pointers through the undo
// log; no caller yet consults them to short-circuit chain building.
func WithUnionFind() Option {
	return func(b *Board) { b.useDSU = true }
}

// NewBoard allocates an empty board of the given logical dimensions. The
// outer ring of padding cells is marked permanently off-board.
func NewBoard(width, height int, zt *ZobristTable, opts ...Option) *Board {
	length := Length(width, height)
	b := &Board{
		width:   width,
		height:  height,
		length:  length,
		cells:   make([]Cell, length),
		zobrist: zt,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.useDSU {
		b.dsu = make([]Pos, length)
	}

	maxPos := b.MaxPos()
	for x := Pos(0); x < stride(width); x++ {
		b.cells[x].setOffBoard()
		b.cells[maxPos+1+x].setOffBoard()
	}
	for y := Pos(1); y < Pos(height)+1; y++ {
		b.cells[y*stride(width)].setOffBoard()
		b.cells[(y+1)*stride(width)-1].setOffBoard()
	}
	return b
}

// Fork returns an independent deep copy, safe to mutate (and undo) on another
// goroutine while the original is read or mutated concurrently by the caller.
func (b *Board) Fork() *Board {
	fork := &Board{
		width: b.width, height: b.height, length: b.length,
		scoreRed: b.scoreRed, scoreBlack: b.scoreBlack,
		zobrist: b.zobrist, hash: b.hash, useDSU: b.useDSU,
	}
	fork.cells = append([]Cell(nil), b.cells...)
	fork.moves = append([]Pos(nil), b.moves...)
	if b.useDSU {
		fork.dsu = append([]Pos(nil), b.dsu...)
	}
	fork.changes = make([]change, len(b.changes))
	for i, c := range b.changes {
		fork.changes[i] = change{
			scoreRed: c.scoreRed, scoreBlack: c.scoreBlack, hash: c.hash,
			cellChanges: append([]cellDelta(nil), c.cellChanges...),
		}
		if b.useDSU {
			fork.changes[i].dsuChanges = append([]dsuDelta(nil), c.dsuChanges...)
		}
	}
	return fork
}

func (b *Board) Width() int    { return b.width }
func (b *Board) Height() int   { return b.height }
func (b *Board) Length() Pos   { return b.length }
func (b *Board) MinPos() Pos   { return ToPos(b.width, 0, 0) }
func (b *Board) MaxPos() Pos   { return ToPos(b.width, b.width-1, b.height-1) }
func (b *Board) Cell(pos Pos) Cell { return b.cells[pos] }
func (b *Board) Hash() ZobristHash { return b.hash }
func (b *Board) Zobrist() *ZobristTable { return b.zobrist }
func (b *Board) MovesCount() int   { return len(b.moves) }
func (b *Board) Moves() []Pos      { return b.moves }

func (b *Board) N(pos Pos) Pos  { return N(b.width, pos) }
func (b *Board) S(pos Pos) Pos  { return S(b.width, pos) }
func (b *Board) W(pos Pos) Pos  { return W(pos) }
func (b *Board) E(pos Pos) Pos  { return E(pos) }
func (b *Board) NW(pos Pos) Pos { return NW(b.width, pos) }
func (b *Board) NE(pos Pos) Pos { return NE(b.width, pos) }
func (b *Board) SW(pos Pos) Pos { return SW(b.width, pos) }
func (b *Board) SE(pos Pos) Pos { return SE(b.width, pos) }

func (b *Board) IsNear(pos1, pos2 Pos) bool { return IsNear(b.width, pos1, pos2) }
func (b *Board) Manhattan(pos1, pos2 Pos) int { return Manhattan(b.width, pos1, pos2) }

// WaveFrom runs a flood fill over the board starting at startPos.
func (b *Board) WaveFrom(startPos Pos, cond func(Pos) bool) { Wave(b.width, startPos, cond) }

// HashAt returns the board hash as of the given move number (0 == empty board).
func (b *Board) HashAt(moveNumber int) (ZobristHash, bool) {
	switch {
	case moveNumber < len(b.moves):
		return b.changes[moveNumber].hash, true
	case moveNumber == len(b.moves):
		return b.hash, true
	default:
		return 0, false
	}
}

// LastPlayer returns the color that made the most recent move, if any.
func (b *Board) LastPlayer() (Color, bool) {
	if len(b.moves) == 0 {
		return ZeroColor, false
	}
	return b.cells[b.moves[len(b.moves)-1]].player(), true
}

// CurPlayer returns the color to move next (Red on an empty board).
func (b *Board) CurPlayer() Color {
	last, ok := b.LastPlayer()
	if !ok {
		return Black.Next()
	}
	return last.Next()
}

// CapturedCount returns the number of opposing stones the given color has captured.
func (b *Board) CapturedCount(player Color) Score {
	if player == Red {
		return b.scoreRed
	}
	return b.scoreBlack
}

// Score returns the signed score from the given player's perspective.
func (b *Board) Score(player Color) Score {
	if player == Red {
		return b.scoreRed - b.scoreBlack
	}
	return b.scoreBlack - b.scoreRed
}

// GetDeltaScore returns the change in the given player's score caused by the
// most recently applied move, or the full score if no move has been played.
func (b *Board) GetDeltaScore(player Color) Score {
	cur := b.Score(player)
	if len(b.changes) == 0 {
		return cur
	}
	last := b.changes[len(b.changes)-1]
	var prev Score
	if player == Red {
		prev = last.scoreRed - last.scoreBlack
	} else {
		prev = last.scoreBlack - last.scoreRed
	}
	return cur - prev
}

func (b *Board) isLive(pos Pos, player Color) bool { return b.cells[pos].IsLivePoint(player) }

// HasNearPoints reports whether any of the eight neighbors is a live stone of player.
func (b *Board) HasNearPoints(center Pos, player Color) bool {
	return b.isLive(b.N(center), player) || b.isLive(b.S(center), player) ||
		b.isLive(b.W(center), player) || b.isLive(b.E(center), player) ||
		b.isLive(b.NW(center), player) || b.isLive(b.NE(center), player) ||
		b.isLive(b.SW(center), player) || b.isLive(b.SE(center), player)
}

// NumberNearPoints counts live neighbor stones of player around center.
func (b *Board) NumberNearPoints(center Pos, player Color) int {
	n := 0
	for _, p := range b.eightNeighbors(center) {
		if b.isLive(p, player) {
			n++
		}
	}
	return n
}

// NumberNearGroups counts the distinct orthogonally-separated groups of
// player's live stones touching center -- used by trajectory pruning to
// detect "over-committed" positions.
func (b *Board) NumberNearGroups(center Pos, player Color) int {
	n := 0
	w, s, e, nn := b.W(center), b.S(center), b.E(center), b.N(center)
	nw, ne, sw, se := b.NW(center), b.NE(center), b.SW(center), b.SE(center)
	if !b.isLive(w, player) && (b.isLive(nw, player) || b.isLive(nn, player)) {
		n++
	}
	if !b.isLive(s, player) && (b.isLive(sw, player) || b.isLive(w, player)) {
		n++
	}
	if !b.isLive(e, player) && (b.isLive(se, player) || b.isLive(s, player)) {
		n++
	}
	if !b.isLive(nn, player) && (b.isLive(ne, player) || b.isLive(e, player)) {
		n++
	}
	return n
}

func (b *Board) eightNeighbors(pos Pos) [8]Pos {
	return [8]Pos{b.N(pos), b.S(pos), b.W(pos), b.E(pos), b.NW(pos), b.NE(pos), b.SW(pos), b.SE(pos)}
}

// IsPuttingAllowed reports whether a stone of any color may be placed at pos.
func (b *Board) IsPuttingAllowed(pos Pos) bool {
	return pos >= 0 && pos < b.length && b.cells[pos].IsPlayingAllowed()
}

func (b *Board) updateHash(pos Pos, player Color) {
	b.hash ^= b.zobrist.Get(pos, player)
}

func (b *Board) saveCellValue(pos Pos) {
	c := &b.changes[len(b.changes)-1]
	c.cellChanges = append(c.cellChanges, cellDelta{pos: pos, prev: b.cells[pos]})
}

func (b *Board) saveDSUValue(pos Pos) {
	c := &b.changes[len(b.changes)-1]
	c.dsuChanges = append(c.dsuChanges, dsuDelta{pos: pos, prev: b.dsu[pos]})
}

// getInputPoints finds, for each cardinal gap around center whose orthogonal
// neighbor is not a live stone of player but a diagonal or further orthogonal
// neighbor is, the (chain-start, inside-seed) pair to build a chain from.
func (b *Board) getInputPoints(center Pos, player Color) []inputPoint {
	var pts []inputPoint
	w, s, e, n := b.W(center), b.S(center), b.E(center), b.N(center)
	nw, ne, sw, se := b.NW(center), b.NE(center), b.SW(center), b.SE(center)

	if !b.isLive(w, player) {
		if b.isLive(nw, player) {
			pts = append(pts, inputPoint{nw, w})
		} else if b.isLive(n, player) {
			pts = append(pts, inputPoint{n, w})
		}
	}
	if !b.isLive(s, player) {
		if b.isLive(sw, player) {
			pts = append(pts, inputPoint{sw, s})
		} else if b.isLive(w, player) {
			pts = append(pts, inputPoint{w, s})
		}
	}
	if !b.isLive(e, player) {
		if b.isLive(se, player) {
			pts = append(pts, inputPoint{se, e})
		} else if b.isLive(s, player) {
			pts = append(pts, inputPoint{s, e})
		}
	}
	if !b.isLive(n, player) {
		if b.isLive(ne, player) {
			pts = append(pts, inputPoint{ne, n})
		} else if b.isLive(e, player) {
			pts = append(pts, inputPoint{e, n})
		}
	}
	return pts
}

// getFirstNextPos and getNextPos implement the fixed turning order used to
// walk a chain of live stones around successive centers. The diagrams below
// match the relative layouts they resolve.
//
//	* . .   x . *   . x x   . . .
//	. o .   x o .   . o .   . o x
//	x x .   . . .   . . *   * . x
//	o = center, x = pos, * = result
func (b *Board) getFirstNextPos(center, pos Pos) Pos {
	if pos < center {
		if pos == b.NW(center) || pos == b.W(center) {
			return b.NE(center)
		}
		return b.SE(center)
	}
	if pos == b.E(center) || pos == b.SE(center) {
		return b.SW(center)
	}
	return b.NW(center)
}

func (b *Board) getNextPos(center, pos Pos) Pos {
	if pos < center {
		switch pos {
		case b.NW(center):
			return b.N(center)
		case b.N(center):
			return b.NE(center)
		case b.NE(center):
			return b.E(center)
		default:
			return b.NW(center)
		}
	}
	switch pos {
	case b.E(center):
		return b.SE(center)
	case b.SE(center):
		return b.S(center)
	case b.S(center):
		return b.SW(center)
	default:
		return b.W(center)
	}
}

// buildChain walks live player stones starting at startPos in directionPos,
// accumulating the signed skew-product area. Returns the ring and true iff the
// walk closed into a valid (negative-area, length > 2) enclosing chain.
func (b *Board) buildChain(startPos Pos, player Color, directionPos Pos) ([]Pos, bool) {
	chain := []Pos{startPos}
	pos := directionPos
	center := startPos
	baseSquare := square(b.width, center, pos)

	for {
		if b.cells[pos].isTagged() {
			for chain[len(chain)-1] != pos {
				b.cells[chain[len(chain)-1]].clearTag()
				chain = chain[:len(chain)-1]
			}
		} else {
			b.cells[pos].setTag()
			chain = append(chain, pos)
		}

		pos, center = center, pos
		pos = b.getFirstNextPos(center, pos)
		for !b.isLive(pos, player) {
			pos = b.getNextPos(center, pos)
		}
		baseSquare += square(b.width, center, pos)
		if pos == startPos {
			break
		}
	}

	for _, p := range chain {
		b.cells[p].clearTag()
	}
	if baseSquare < 0 && len(chain) > 2 {
		return chain, true
	}
	return nil, false
}

// IsPointInsideRing implements a horizontal-ray point-in-polygon test for
// pos against an enclosing ring of positions.
func (b *Board) IsPointInsideRing(pos Pos, ring []Pos) bool {
	return isPointInsideRing(b.width, pos, ring)
}

type intersectionState uint8

const (
	none intersectionState = iota
	up
	target
	down
)

func getIntersectionState(width int, pos, next Pos) intersectionState {
	px, py := ToXY(width, pos)
	nx, ny := ToXY(width, next)
	if nx > px {
		return none
	}
	switch ny - py {
	case 1:
		return up
	case 0:
		return target
	case -1:
		return down
	default:
		return none
	}
}

func isPointInsideRing(width int, pos Pos, ring []Pos) bool {
	intersections := 0
	state := none
	for _, next := range ring {
		switch getIntersectionState(width, pos, next) {
		case none:
			state = none
		case up:
			if state == down {
				intersections++
			}
			state = up
		case down:
			if state == up {
				intersections++
			}
			state = down
		case target:
			// no state change
		}
	}
	if state == up || state == down {
		i := 0
		beginState := getIntersectionState(width, pos, ring[i])
		for beginState == target {
			i++
			beginState = getIntersectionState(width, pos, ring[i])
		}
		if (state == up && beginState == down) || (state == down && beginState == up) {
			intersections++
		}
	}
	return intersections%2 == 1
}

// capture applies a verified enclosing ring: tags the ring, flood-fills the
// interior from insidePos, and either commits the capture (scoring and
// bind/capture-marking every ring and interior cell) or, if no opposing
// stone was captured, marks the interior as an empty base of player.
func (b *Board) capture(chain []Pos, insidePos Pos, player Color) bool {
	var capturedCount, freedCount Score
	var capturedPoints []Pos

	for _, p := range chain {
		b.cells[p].setTag()
	}
	b.WaveFrom(insidePos, func(pos Pos) bool {
		if b.cells[pos].isTagged() || b.cells[pos].IsBoundPlayer(player) {
			return false
		}
		b.cells[pos].setTag()
		capturedPoints = append(capturedPoints, pos)
		if b.cells[pos].IsPut() {
			if b.cells[pos].player() != player {
				capturedCount++
			} else if b.cells[pos].IsCaptured() {
				freedCount++
			}
		}
		return true
	})

	if capturedCount > 0 {
		switch player {
		case Red:
			b.scoreRed += capturedCount
			b.scoreBlack -= freedCount
		case Black:
			b.scoreBlack += capturedCount
			b.scoreRed -= freedCount
		}
		for _, p := range chain {
			b.cells[p].clearTag()
			b.saveCellValue(p)
			b.cells[p].setBound()
		}
		for _, p := range capturedPoints {
			b.cells[p].clearTag()
			b.saveCellValue(p)
			if !b.cells[p].IsPut() {
				if !b.cells[p].IsCaptured() {
					b.cells[p].setCaptured()
				} else {
					b.updateHash(p, player.Next())
				}
				b.cells[p].clearEmptyBase()
				b.cells[p].setPlayer(player)
				b.updateHash(p, player)
			} else if b.cells[p].player() != player {
				b.cells[p].setCaptured()
				b.updateHash(p, player.Next())
				b.updateHash(p, player)
			} else if b.cells[p].IsCaptured() {
				b.cells[p].clearCaptured()
				b.updateHash(p, player.Next())
				b.updateHash(p, player)
			}
		}
		return true
	}

	for _, p := range chain {
		b.cells[p].clearTag()
	}
	for _, p := range capturedPoints {
		b.cells[p].clearTag()
		if !b.cells[p].IsPut() {
			b.saveCellValue(p)
			b.cells[p].setEmptyBasePlayer(player)
		}
	}
	return false
}

// findCaptures looks for chains formed by the stone just played at pos, and
// applies every capture found. Returns true iff at least one chain captured.
func (b *Board) findCaptures(pos Pos, player Color) bool {
	inputPoints := b.getInputPoints(pos, player)
	count := len(inputPoints)
	if count > 1 {
		chainsCount := 0
		for _, ip := range inputPoints {
			if chain, ok := b.buildChain(pos, player, ip.chain); ok {
				b.capture(chain, ip.captured, player)
				chainsCount++
				if chainsCount == count-1 {
					break
				}
			}
		}
		return chainsCount > 0
	}
	if b.useDSU {
		b.saveDSUValue(pos)
		if count > 0 {
			b.dsu[pos] = inputPoints[0].chain
		} else {
			b.dsu[pos] = pos
		}
	}
	return false
}

func (b *Board) removeEmptyBase(startPos Pos) {
	b.WaveFrom(startPos, func(pos Pos) bool {
		if b.cells[pos].IsEmptyBase() {
			b.saveCellValue(pos)
			b.cells[pos].clearEmptyBase()
			return true
		}
		return false
	})
}

// PutPoint attempts to play a stone of player at pos. Returns false if the
// position is not playing-allowed, unless it is an empty base of the other
// player -- entering an opponent's empty territory is always allowed, and is
// how one captures inside it. On success, every capture the move induces is
// applied and a full undo record is pushed.
func (b *Board) PutPoint(pos Pos, player Color) bool {
	if !b.IsPuttingAllowed(pos) {
		return false
	}

	b.changes = append(b.changes, change{scoreRed: b.scoreRed, scoreBlack: b.scoreBlack, hash: b.hash})
	b.saveCellValue(pos)
	b.updateHash(pos, player)

	if emptyBasePlayer, ok := b.cells[pos].EmptyBaseOwner(); ok {
		b.cells[pos].putPoint(player)
		if emptyBasePlayer == player {
			b.cells[pos].clearEmptyBase()
		} else if b.findCaptures(pos, player) {
			b.removeEmptyBase(pos)
		} else {
			// The new stone interrupts an opponent's empty base without
			// forming its own chain: walk west to find the opposing chain
			// that encloses pos, and capture it.
			next := player.Next()
			boundPos := pos
		outer:
			for {
				boundPos = b.W(boundPos)
				for !b.cells[boundPos].IsPoint(next) {
					boundPos = b.W(boundPos)
				}
				for _, ip := range b.getInputPoints(boundPos, next) {
					if chain, ok := b.buildChain(boundPos, next, ip.chain); ok {
						if b.IsPointInsideRing(pos, chain) {
							b.capture(chain, ip.captured, next)
							break outer
						}
					}
				}
			}
		}
	} else {
		b.cells[pos].putPoint(player)
		b.findCaptures(pos, player)
	}

	b.moves = append(b.moves, pos)
	return true
}

// Undo reverses the last successful PutPoint exactly. Returns false if no
// moves remain.
func (b *Board) Undo() bool {
	if len(b.changes) == 0 {
		return false
	}
	ch := b.changes[len(b.changes)-1]
	b.changes = b.changes[:len(b.changes)-1]
	b.moves = b.moves[:len(b.moves)-1]

	b.scoreRed = ch.scoreRed
	b.scoreBlack = ch.scoreBlack
	b.hash = ch.hash
	for i := len(ch.cellChanges) - 1; i >= 0; i-- {
		d := ch.cellChanges[i]
		b.cells[d.pos] = d.prev
	}
	if b.useDSU {
		for i := len(ch.dsuChanges) - 1; i >= 0; i-- {
			d := ch.dsuChanges[i]
			b.dsu[d.pos] = d.prev
		}
	}
	return true
}

// nonGroundedLiveStones counts color's live stones whose connected
// same-color group (8-adjacency) never touches the off-board ring. Used by
// IsGameOver as the proxy for "isolated in the interior": this flood-fills
// live-stone adjacency directly rather than relying on a shape-specific
// bit, so it works unchanged across board shapes.
func (b *Board) nonGroundedLiveStones(c Color) int {
	seen := make([]bool, b.length)
	count := 0
	for pos := b.MinPos(); pos <= b.MaxPos(); pos++ {
		if !b.cells[pos].IsLivePoint(c) || seen[pos] {
			continue
		}
		grounded := false
		stack := []Pos{pos}
		seen[pos] = true
		group := 0
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			group++
			for _, np := range b.eightNeighbors(p) {
				if b.cells[np].IsOffBoard() {
					grounded = true
					continue
				}
				if b.cells[np].IsLivePoint(c) && !seen[np] {
					seen[np] = true
					stack = append(stack, np)
				}
			}
		}
		if !grounded {
			count += group
		}
	}
	return count
}

func (b *Board) isCorner(pos Pos) bool {
	x, y := ToXY(b.width, pos)
	return (x == 0 || x == b.width-1) && (y == 0 || y == b.height-1)
}

func (b *Board) hasPlayingAllowedNonCorner() bool {
	for pos := b.MinPos(); pos <= b.MaxPos(); pos++ {
		if b.IsPuttingAllowed(pos) && !b.isCorner(pos) {
			return true
		}
	}
	return false
}

// IsGameOver reports whether the game has concluded: either the leader's
// score already exceeds the opponent's remaining catchable material
// (non-grounded live stones), or no playing-allowed non-corner cell remains.
func (b *Board) IsGameOver() bool {
	red := b.scoreRed - b.scoreBlack
	if red > 0 && Score(b.nonGroundedLiveStones(Black)) < red {
		return true
	}
	if red < 0 && Score(b.nonGroundedLiveStones(Red)) < -red {
		return true
	}
	return !b.hasPlayingAllowedNonCorner()
}

func (b *Board) String() string {
	return fmt.Sprintf("board{%vx%v moves=%v score=%v/%v hash=%x}", b.width, b.height, len(b.moves), b.scoreRed, b.scoreBlack, b.hash)
}
