package pattern

import (
	"context"
	"strings"
	"testing"

	"github.com/herohde/dots/pkg/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPatternsAndSuggest(t *testing.T) {
	// Own stone directly north of an empty cell suggests playing there.
	o, err := LoadPatterns(strings.NewReader(".X.\n.+."))
	require.NoError(t, err)

	b := newTestBoard(9, 9)
	w := b.Width()
	require.True(t, b.PutPoint(field.ToPos(w, 4, 3), field.Red))

	suggestions, err := o.Suggest(context.Background(), b, field.Red, false)
	require.NoError(t, err)
	assert.Contains(t, suggestions, field.ToPos(w, 4, 4))
}

func TestSuggestFirstMatchShortCircuits(t *testing.T) {
	o, err := LoadPatterns(strings.NewReader(".X.\n.+."))
	require.NoError(t, err)

	b := newTestBoard(9, 9)
	w := b.Width()
	require.True(t, b.PutPoint(field.ToPos(w, 4, 3), field.Red))
	require.True(t, b.PutPoint(field.ToPos(w, 6, 3), field.Red))

	all, err := o.Suggest(context.Background(), b, field.Red, false)
	require.NoError(t, err)

	first, err := o.Suggest(context.Background(), b, field.Red, true)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.LessOrEqual(t, len(first), len(all))
}

func TestSuggestHonorsCancellation(t *testing.T) {
	o, err := LoadPatterns(strings.NewReader(".X.\n.+."))
	require.NoError(t, err)

	b := newTestBoard(9, 9)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suggestions, err := o.Suggest(ctx, b, field.Red, false)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggestNoMatchOnEmptyBoard(t *testing.T) {
	o, err := LoadPatterns(strings.NewReader(".X.\n.+."))
	require.NoError(t, err)

	b := newTestBoard(9, 9)
	suggestions, err := o.Suggest(context.Background(), b, field.Red, false)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestNopOracleSuggestsNothing(t *testing.T) {
	b := newTestBoard(9, 9)
	suggestions, err := NopOracle{}.Suggest(context.Background(), b, field.Red, false)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}
