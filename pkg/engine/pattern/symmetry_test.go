package pattern

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileVariantsProducesEightChains(t *testing.T) {
	p := &Pattern{Width: 3, Height: 3, Glyphs: []byte{
		glyphEmpty, glyphOwn, glyphEmpty,
		glyphEmpty, glyphEmpty, glyphMove,
		glyphEmpty, glyphEnemy, glyphEmpty,
	}}
	variants := compileVariants(p)
	require.Len(t, variants, 8)

	seen := map[string]bool{}
	for _, d := range variants {
		var key string
		for _, rc := range d.cells {
			key += fmt.Sprintf("%d,%d:%c;", rc.dx, rc.dy, rc.glyph)
		}
		for _, rc := range d.moves {
			key += fmt.Sprintf("+%d,%d;", rc.dx, rc.dy)
		}
		seen[key] = true
	}
	// the pattern has no rotational or reflective symmetry of its own, so
	// all 8 variants should compile to distinct chains.
	assert.Len(t, seen, 8)
}

func TestCompileVariantsRotatesMoveOffset(t *testing.T) {
	// '+' due east of the anchor: under the 90 degree rotation (dx,dy) ->
	// (-dy,dx) it should land due south (dy = +1) instead.
	p := &Pattern{Width: 3, Height: 3, Glyphs: []byte{
		glyphEmpty, glyphEmpty, glyphEmpty,
		glyphEmpty, glyphEmpty, glyphMove,
		glyphEmpty, glyphEmpty, glyphEmpty,
	}}
	variants := compileVariants(p)

	offsets := make(map[[2]int]bool)
	for _, d := range variants {
		require.Len(t, d.moves, 1)
		offsets[[2]int{d.moves[0].dx, d.moves[0].dy}] = true
	}
	assert.Contains(t, offsets, [2]int{1, 0})
	assert.Contains(t, offsets, [2]int{0, 1})
	assert.Contains(t, offsets, [2]int{-1, 0})
	assert.Contains(t, offsets, [2]int{0, -1})
}
