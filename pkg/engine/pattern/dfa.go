package pattern

import "github.com/herohde/dots/pkg/field"

// category classifies one board cell relative to a fixed absolute color for
// the purpose of glyph matching, mirroring original_source's dfa.rs chain of
// empty/red/black/bad transitions.
type category int

const (
	catEmpty category = iota
	catRed
	catBlack
	catOff
)

func categorize(c field.Cell) category {
	if c.IsOffBoard() {
		return catOff
	}
	if owner, ok := c.GetOwner(); ok {
		if owner == field.Red {
			return catRed
		}
		return catBlack
	}
	return catEmpty
}

// relCell is one pattern cell expressed as an offset from the pattern's
// anchor (its center), plus the glyph found there.
type relCell struct {
	dx, dy int
	glyph  byte
}

// dfaState is one link in the matching chain: which state to move to next
// for each of the four cell categories, or -1 to reject. Mirrors dfa.rs's
// DfaState, minus the multi-pattern Dfa::product merge -- a pattern file
// here is matched one compiled chain at a time instead of as one combined
// automaton, since no caller needs that scanning optimization.
type dfaState struct {
	empty, red, black, bad int
}

func (s dfaState) next(cat category) int {
	switch cat {
	case catEmpty:
		return s.empty
	case catRed:
		return s.red
	case catBlack:
		return s.black
	default:
		return s.bad
	}
}

// dfa is one compiled pattern variant: a linear chain of states, one per
// constrained cell, terminating in an accepting state. moves holds the
// anchor-relative offsets of every '+' glyph in the variant.
type dfa struct {
	states []dfaState
	cells  []relCell
	moves  []relCell
}

// compile builds the chain for one set of relative cells (already rotated
// and reflected into place by generateVariants). Unconstrained cells
// (glyphAny, glyphAnyBad) are dropped before compilation since they never
// reject a match.
func compile(cells []relCell) *dfa {
	var constrained, moves []relCell
	for _, rc := range cells {
		if rc.glyph == glyphMove {
			moves = append(moves, rc)
		}
		switch rc.glyph {
		case glyphAnyBad:
			// matches everything, including off-board; no constraint to encode.
		case glyphAny:
			// matches everything except off-board.
			constrained = append(constrained, rc)
		default:
			constrained = append(constrained, rc)
		}
	}

	states := make([]dfaState, len(constrained)+1)
	for i, rc := range constrained {
		allow := func(cat category) int {
			if glyphAllows(rc.glyph, cat) {
				return i + 1
			}
			return -1
		}
		states[i] = dfaState{
			empty: allow(catEmpty),
			red:   allow(catRed),
			black: allow(catBlack),
			bad:   allow(catOff),
		}
	}
	return &dfa{states: states, cells: constrained, moves: moves}
}

// glyphAllows reports whether glyph accepts a cell of the given absolute
// color category, before applying the querying player's color inversion
// (done in match, exactly as dfa.rs's Dfa::run takes an inv_color bool
// rather than baking two color-compiled copies of every chain).
func glyphAllows(glyph byte, cat category) bool {
	switch glyph {
	case glyphEmpty:
		return cat == catEmpty
	case glyphOwn:
		return cat == catRed
	case glyphEnemy:
		return cat == catBlack
	case glyphNotEnemy:
		return cat == catEmpty || cat == catRed
	case glyphNotOwn:
		return cat == catEmpty || cat == catBlack
	case glyphAny:
		return cat != catOff
	case glyphBorder:
		return cat == catOff
	case glyphMove:
		return cat == catEmpty
	default:
		return false
	}
}

// match walks the chain anchored at pos on behalf of player me. invert
// swaps the red/black transitions so a chain compiled with 'X' meaning "red"
// can be reused for a black querying player by treating black as "own"
// instead, exactly as dfa.rs's inv_color parameter does.
func (d *dfa) match(b *field.Board, anchor field.Pos, me field.Color) ([]field.Pos, bool) {
	w := b.Width()
	invert := me == field.Black

	state := 0
	for _, rc := range d.cells {
		x, y := field.ToXY(w, anchor)
		nx, ny := x+rc.dx, y+rc.dy
		var cat category
		if nx < 0 || nx >= w || ny < 0 || ny >= b.Height() {
			cat = catOff
		} else {
			cat = categorize(b.Cell(field.ToPos(w, nx, ny)))
		}
		if invert {
			if cat == catRed {
				cat = catBlack
			} else if cat == catBlack {
				cat = catRed
			}
		}

		next := d.states[state].next(cat)
		if next < 0 {
			return nil, false
		}
		state = next
	}

	if len(d.moves) == 0 {
		return nil, true
	}
	x, y := field.ToXY(w, anchor)
	moves := make([]field.Pos, 0, len(d.moves))
	for _, rc := range d.moves {
		nx, ny := x+rc.dx, y+rc.dy
		if nx < 0 || nx >= w || ny < 0 || ny >= b.Height() {
			continue
		}
		moves = append(moves, field.ToPos(w, nx, ny))
	}
	return moves, true
}
