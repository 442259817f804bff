package field

// Cell is one byte of bit-packed per-position metadata: color, put, captured,
// bound, empty-base, off-board and a transient tag bit. 1 byte.
//
// The tag bit is transient working state for a single flood-fill algorithm
// (chain building, capture application); every algorithm that
// sets it must clear it again before returning, and no two algorithms may use
// it concurrently on the same board.
type Cell uint8

const (
	playerBit    Cell = 1 << iota // meaningful only if put or emptyBase is set
	putBit                        // a stone was placed here
	capturedBit                   // inside a confirmed surrounding chain
	boundBit                      // lies on a confirmed surrounding chain
	emptyBaseBit                  // empty cell inside a non-capturing surround
	offBoardBit                   // permanent padding-ring marker
	tagBit                        // transient flood-fill marker
)

func (c Cell) player() Color {
	if c&playerBit != 0 {
		return Black
	}
	return Red
}

func (c *Cell) setPlayer(p Color) {
	*c &^= playerBit
	if p == Black {
		*c |= playerBit
	}
}

func (c Cell) IsPut() bool         { return c&putBit != 0 }
func (c Cell) IsCaptured() bool    { return c&capturedBit != 0 }
func (c Cell) IsBound() bool       { return c&boundBit != 0 }
func (c Cell) IsEmptyBase() bool   { return c&emptyBaseBit != 0 }
func (c Cell) IsOffBoard() bool    { return c&offBoardBit != 0 }
func (c Cell) isTagged() bool      { return c&tagBit != 0 }

func (c *Cell) setPut()         { *c |= putBit }
func (c *Cell) setCaptured()    { *c |= capturedBit }
func (c *Cell) clearCaptured()  { *c &^= capturedBit }
func (c *Cell) setBound()       { *c |= boundBit }
func (c *Cell) setEmptyBase()   { *c |= emptyBaseBit }
func (c *Cell) clearEmptyBase() { *c &^= emptyBaseBit }
func (c *Cell) setOffBoard()    { *c |= offBoardBit }
func (c *Cell) setTag()         { *c |= tagBit }
func (c *Cell) clearTag()       { *c &^= tagBit }

// GetOwner returns the color that owns this cell, if any. A captured cell is
// owned by the surrounder: player.Next() if it was also put, else player.
func (c Cell) GetOwner() (Color, bool) {
	switch {
	case c.IsCaptured():
		if c.IsPut() {
			return c.player().Next(), true
		}
		return c.player(), true
	case c.IsPut():
		return c.player(), true
	default:
		return ZeroColor, false
	}
}

func (c Cell) IsOwner(p Color) bool {
	owner, ok := c.GetOwner()
	return ok && owner == p
}

// IsLivePoint reports whether the cell holds an uncaptured stone of the given color.
func (c Cell) IsLivePoint(p Color) bool {
	return c.IsPut() && !c.IsCaptured() && c.player() == p
}

// IsPoint reports whether the cell holds a (possibly captured) stone of the given color.
func (c Cell) IsPoint(p Color) bool {
	return c.IsPut() && c.player() == p
}

func (c Cell) IsBoundPlayer(p Color) bool {
	return c.IsBound() && c.IsPoint(p)
}

func (c Cell) IsEmptyBaseOf(p Color) bool {
	return c.IsEmptyBase() && c.player() == p
}

// EmptyBaseOwner returns the owner of an empty base, if any.
func (c Cell) EmptyBaseOwner() (Color, bool) {
	if c.IsEmptyBase() {
		return c.player(), true
	}
	return ZeroColor, false
}

// putPoint marks the cell as carrying a live stone of the given player.
func (c *Cell) putPoint(p Color) {
	c.setPlayer(p)
	c.setPut()
}

// setEmptyBasePlayer marks the (empty) cell as an empty base of the given player.
func (c *Cell) setEmptyBasePlayer(p Color) {
	c.setPlayer(p)
	c.setEmptyBase()
}

// IsPlayingAllowed reports whether a stone may be placed on this cell: neither
// already put, captured, nor off-board. Empty bases remain playing-allowed.
func (c Cell) IsPlayingAllowed() bool {
	return !c.IsPut() && !c.IsCaptured() && !c.IsOffBoard()
}
