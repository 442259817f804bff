package trajectory

import (
	"testing"

	"github.com/herohde/dots/pkg/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(w, h int) *field.Board {
	zt := field.NewZobristTable(field.Length(w, h), 11)
	return field.NewBoard(w, h, zt)
}

func TestEmpty_HasNoMoves(t *testing.T) {
	w, h := 9, 9
	b := newTestBoard(w, h)
	s := Empty()
	empty := make([]uint32, b.Length())
	assert.Empty(t, s.CalculateMoves(empty))
}

func TestNew_ZeroDepth_IsEmpty(t *testing.T) {
	w, h := 9, 9
	b := newTestBoard(w, h)
	empty := make([]uint32, b.Length())
	s := New(b, field.Red, 0, empty)
	assert.Empty(t, s.CalculateMoves(empty))
}

// TestNew_FindsOneMoveCaptureTrajectory sets up a three-sided box around a
// lone Black stone, leaving exactly one Red move to close it, and checks that
// the depth-1 trajectory set surfaces that closing move as a candidate.
func TestNew_FindsOneMoveCaptureTrajectory(t *testing.T) {
	w, h := 9, 9
	b := newTestBoard(w, h)

	center := field.ToPos(w, 4, 4)
	require.True(t, b.PutPoint(center, field.Black))
	for _, pos := range []field.Pos{field.ToPos(w, 4, 3), field.ToPos(w, 3, 4), field.ToPos(w, 4, 5)} {
		require.True(t, b.PutPoint(pos, field.Red))
	}

	empty := make([]uint32, b.Length())
	s := New(b, field.Red, 1, empty)
	moves := s.CalculateMoves(empty)

	closing := field.ToPos(w, 5, 4)
	assert.Contains(t, moves, closing)
}

func TestDecExists_ZeroDepth_IsEmpty(t *testing.T) {
	w, h := 9, 9
	b := newTestBoard(w, h)
	empty := make([]uint32, b.Length())
	existing := New(b, field.Red, 2, empty)
	s := DecExists(b, field.Red, 0, empty, existing)
	assert.Empty(t, s.CalculateMoves(empty))
}
