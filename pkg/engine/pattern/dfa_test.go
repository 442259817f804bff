package pattern

import (
	"testing"

	"github.com/herohde/dots/pkg/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(w, h int) *field.Board {
	zt := field.NewZobristTable(field.Length(w, h), 1)
	return field.NewBoard(w, h, zt)
}

func TestCompileAndMatchSimplePattern(t *testing.T) {
	// "X" north, empty move suggestion south, of the anchor.
	p := &Pattern{Width: 1, Height: 3, Glyphs: []byte{glyphOwn, glyphEmpty, glyphMove}}
	variants := compileVariants(p)
	require.Len(t, variants, 8)

	b := newTestBoard(9, 9)
	w := b.Width()
	anchor := field.ToPos(w, 4, 4)
	require.True(t, b.PutPoint(field.ToPos(w, 4, 3), field.Red))

	var matched bool
	var moves []field.Pos
	for _, d := range variants {
		if ms, ok := d.match(b, anchor, field.Red); ok {
			matched = true
			moves = ms
		}
	}
	require.True(t, matched)
	assert.Contains(t, moves, field.ToPos(w, 4, 5))
}

func TestMatchInvertsColorForBlack(t *testing.T) {
	p := &Pattern{Width: 1, Height: 2, Glyphs: []byte{glyphOwn, glyphEmpty}}
	variants := compileVariants(p)

	b := newTestBoard(9, 9)
	w := b.Width()
	anchor := field.ToPos(w, 4, 4)
	require.True(t, b.PutPoint(field.ToPos(w, 4, 3), field.Black))

	var matchedForBlack, matchedForRed bool
	for _, d := range variants {
		if _, ok := d.match(b, anchor, field.Black); ok {
			matchedForBlack = true
		}
		if _, ok := d.match(b, anchor, field.Red); ok {
			matchedForRed = true
		}
	}
	assert.True(t, matchedForBlack)
	assert.False(t, matchedForRed)
}

func TestBorderGlyphRequiresOffBoard(t *testing.T) {
	p := &Pattern{Width: 1, Height: 2, Glyphs: []byte{glyphBorder, glyphEmpty}}
	variants := compileVariants(p)

	b := newTestBoard(9, 9)
	w := b.Width()

	var matchedAtCorner, matchedAtCenter bool
	corner := field.ToPos(w, 0, 0)
	center := field.ToPos(w, 4, 4)
	for _, d := range variants {
		if _, ok := d.match(b, corner, field.Red); ok {
			matchedAtCorner = true
		}
		if _, ok := d.match(b, center, field.Red); ok {
			matchedAtCenter = true
		}
	}
	assert.True(t, matchedAtCorner, "a cell one step off the 9x9 board should satisfy '#'")
	assert.False(t, matchedAtCenter, "every neighbor of the board center is in bounds")
}

func TestAnyBadGlyphNeverRejects(t *testing.T) {
	p := &Pattern{Width: 1, Height: 1, Glyphs: []byte{glyphAnyBad}}
	variants := compileVariants(p)

	b := newTestBoard(9, 9)
	anchor := field.ToPos(b.Width(), 4, 4)
	for _, d := range variants {
		_, ok := d.match(b, anchor, field.Red)
		assert.True(t, ok)
	}
}
