package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatternsSingleBlock(t *testing.T) {
	patterns, err := ParsePatterns(strings.NewReader(".X.\nXX+\n.o."))
	require.NoError(t, err)
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, 3, p.Width)
	assert.Equal(t, 3, p.Height)
	assert.Equal(t, byte(glyphOwn), p.glyphAt(1, 0))
	assert.Equal(t, byte(glyphMove), p.glyphAt(2, 1))
}

func TestParsePatternsMultipleBlocksAndComments(t *testing.T) {
	input := "# first pattern\n.X.\n.X.\n\n# second pattern\nO?O\n"
	patterns, err := ParsePatterns(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, patterns, 2)

	assert.Equal(t, 2, patterns[0].Height)
	assert.Equal(t, 1, patterns[1].Height)
	assert.Equal(t, 3, patterns[1].Width)
}

func TestParsePatternsRejectsRaggedRows(t *testing.T) {
	_, err := ParsePatterns(strings.NewReader(".X.\n.X"))
	assert.Error(t, err)
}

func TestParsePatternsRejectsInvalidGlyph(t *testing.T) {
	_, err := ParsePatterns(strings.NewReader(".X.\n.Y."))
	assert.Error(t, err)
}
