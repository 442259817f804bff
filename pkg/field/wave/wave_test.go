package wave

import (
	"testing"

	"github.com/herohde/dots/pkg/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(w, h int) *field.Board {
	zt := field.NewZobristTable(field.Length(w, h), 7)
	return field.NewBoard(w, h, zt)
}

func TestInit_IncludesNeighborsWithinRadius(t *testing.T) {
	w, h := 9, 9
	b := newTestBoard(w, h)
	center := field.ToPos(w, 4, 4)
	require.True(t, b.PutPoint(center, field.Red))

	p := New(b.Length())
	p.Init(b, 1)

	near := field.ToPos(w, 5, 4)
	far := field.ToPos(w, 4, 4+5)
	assert.Contains(t, p.Moves(), near)
	assert.NotContains(t, p.Moves(), far)
	assert.NotContains(t, p.Moves(), center, "occupied cell itself is not a candidate move")
}

func TestUpdate_AddsNewNeighborsAndDropsOccupied(t *testing.T) {
	w, h := 9, 9
	b := newTestBoard(w, h)
	first := field.ToPos(w, 4, 4)
	require.True(t, b.PutPoint(first, field.Red))

	p := New(b.Length())
	p.Init(b, 2)

	second := field.ToPos(w, 4, 5)
	require.True(t, b.PutPoint(second, field.Black))
	added := p.Update(b, 1, 2)

	assert.NotContains(t, p.Moves(), second, "occupied cell removed from candidates")
	assert.NotEmpty(t, added)
	for _, pos := range added {
		assert.True(t, b.IsPuttingAllowed(pos))
	}
}

func TestClear_ResetsState(t *testing.T) {
	w, h := 9, 9
	b := newTestBoard(w, h)
	require.True(t, b.PutPoint(field.ToPos(w, 4, 4), field.Red))

	p := New(b.Length())
	p.Init(b, 1)
	require.NotEmpty(t, p.Moves())

	p.Clear()
	assert.Empty(t, p.Moves())
}
