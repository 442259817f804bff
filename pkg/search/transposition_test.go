package search_test

import (
	"context"
	"testing"

	"github.com/herohde/dots/pkg/field"
	"github.com/herohde/dots/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_WriteRead_RoundTrip(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<16)

	hash := field.ZobristHash(12345)
	ok := tt.Write(hash, search.ExactBound, 4, search.Score(7), field.Pos(42))
	require.True(t, ok)

	bound, depth, score, move, found := tt.Read(hash)
	require.True(t, found)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 4, depth)
	assert.Equal(t, search.Score(7), score)
	assert.Equal(t, field.Pos(42), move)
}

func TestTable_Read_MissReturnsFalse(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<16)
	_, _, _, _, found := tt.Read(field.ZobristHash(999))
	assert.False(t, found)
}

func TestTable_Write_ReplacementPolicyPrefersHigherDepth(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<10)
	hash := field.ZobristHash(7)

	require.True(t, tt.Write(hash, search.ExactBound, 2, search.Score(1), field.Pos(1)))
	ok := tt.Write(hash, search.UpperBound, 1, search.Score(99), field.Pos(2))
	assert.False(t, ok, "shallower, upper-bound write should not replace a deeper exact entry")

	_, depth, _, _, _ := tt.Read(hash)
	assert.Equal(t, 2, depth)

	require.True(t, tt.Write(hash, search.ExactBound, 5, search.Score(3), field.Pos(3)))
	_, depth, _, move, _ := tt.Read(hash)
	assert.Equal(t, 5, depth)
	assert.Equal(t, field.Pos(3), move)
}

func TestNoTranspositionTable_AlwaysMisses(t *testing.T) {
	var tt search.NoTranspositionTable
	assert.False(t, tt.Write(field.ZobristHash(1), search.ExactBound, 1, 1, 1))
	_, _, _, _, found := tt.Read(field.ZobristHash(1))
	assert.False(t, found)
}
