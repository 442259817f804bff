// Package wave implements a candidate-move halo: a Manhattan-radius flood
// fill around every stone on the board, incrementally maintained as moves
// are played, used to restrict search to positions near existing stones
// instead of every empty cell.
package wave

import "github.com/herohde/dots/pkg/field"

// Pruning tracks the set of playing-allowed positions within radius of any
// stone played so far. Not safe for concurrent use; Fork the owning board and
// give each search worker its own Pruning via Init.
type Pruning struct {
	moves      []field.Pos
	movesField []field.Pos // movesField[pos] == the stone pos was discovered from, or 0 if unvisited
}

// New allocates a Pruning sized for a board of the given buffer length.
func New(length field.Pos) *Pruning {
	return &Pruning{
		moves:      make([]field.Pos, 0, length),
		movesField: make([]field.Pos, length),
	}
}

// Moves returns the current candidate positions. The returned slice is owned
// by Pruning and must not be retained past the next Init/Update/Clear call.
func (p *Pruning) Moves() []field.Pos { return p.moves }

// Clear resets the pruning to empty.
func (p *Pruning) Clear() {
	p.moves = p.moves[:0]
	for i := range p.movesField {
		p.movesField[i] = 0
	}
}

// Init (re)computes the full candidate set from every stone already on b.
func (p *Pruning) Init(b *field.Board, radius int) {
	width := b.Width()
	for _, startPos := range b.Moves() {
		startPos := startPos
		b.WaveFrom(startPos, func(pos field.Pos) bool {
			switch {
			case pos == startPos && p.movesField[pos] == 0:
				p.movesField[pos] = 1
				return true
			case p.movesField[pos] != startPos && b.IsPuttingAllowed(pos) && field.Manhattan(width, startPos, pos) <= radius:
				if p.movesField[pos] == 0 {
					p.moves = append(p.moves, pos)
				}
				p.movesField[pos] = startPos
				return true
			default:
				return false
			}
		})
		p.movesField[startPos] = 0
	}
}

// Update extends the candidate set for moves played since lastMovesCount, and
// drops positions that are no longer playing-allowed. Returns the positions
// newly added to the candidate set.
func (p *Pruning) Update(b *field.Board, lastMovesCount int, radius int) []field.Pos {
	filtered := p.moves[:0]
	for _, pos := range p.moves {
		if b.IsPuttingAllowed(pos) {
			filtered = append(filtered, pos)
		} else {
			p.movesField[pos] = 0
		}
	}
	p.moves = filtered

	width := b.Width()
	var added []field.Pos
	moves := b.Moves()
	for _, nextPos := range moves[lastMovesCount:] {
		nextPos := nextPos
		b.WaveFrom(nextPos, func(pos field.Pos) bool {
			switch {
			case pos == nextPos && p.movesField[pos] == 0:
				p.movesField[pos] = 1
				return true
			case p.movesField[pos] != nextPos && b.IsPuttingAllowed(pos) && field.Manhattan(width, nextPos, pos) <= radius:
				if p.movesField[pos] == 0 && pos != nextPos {
					p.moves = append(p.moves, pos)
					added = append(added, pos)
				}
				p.movesField[pos] = nextPos
				return true
			default:
				return false
			}
		})
		p.movesField[nextPos] = 0
	}
	return added
}
