package uct_test

import (
	"context"
	"testing"

	"github.com/herohde/dots/pkg/config"
	"github.com/herohde/dots/pkg/field"
	"github.com/herohde/dots/pkg/search"
	"github.com/herohde/dots/pkg/search/uct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(w, h int) *field.Board {
	zt := field.NewZobristTable(field.Length(w, h), 1)
	return field.NewBoard(w, h, zt)
}

func must(ok bool) {
	if !ok {
		panic("setup move rejected")
	}
}

// buildOneMoveCapture mirrors pkg/search/minimax's fixture: a three-sided
// box around a lone Black stone, one Red move away from closing and
// capturing. Red's sides are played first and Black's stone last so the
// board's CurPlayer is Red, the side about to play the capturing move.
func buildOneMoveCapture(b *field.Board) field.Pos {
	w := b.Width()
	center := field.ToPos(w, 4, 4)
	must(b.PutPoint(field.ToPos(w, 4, 3), field.Red))
	must(b.PutPoint(field.ToPos(w, 3, 4), field.Red))
	must(b.PutPoint(field.ToPos(w, 4, 5), field.Red))
	must(b.PutPoint(center, field.Black))
	return field.ToPos(w, 5, 4)
}

func testOptions() config.Options {
	opt := config.Default()
	opt.Threads = 2
	opt.UCTWhenCreateChildren = 1
	opt.UCTDepth = 6
	opt.WaveRadius = 3
	return opt
}

func TestDriver_FindsImmediateCapture(t *testing.T) {
	b := newTestBoard(9, 9)
	gap := buildOneMoveCapture(b)

	d := uct.NewDriver(testOptions(), 42)
	h, out := d.Launch(context.Background(), b, search.Options{DepthLimit: 200})

	pv, ok := <-out
	require.True(t, ok)
	require.NotEmpty(t, pv.Moves)
	assert.Equal(t, gap, pv.Moves[0])

	// Halt is idempotent once the search has already finished.
	assert.Equal(t, pv, h.Halt())
}

func TestDriver_ReusesTreeAcrossCalls(t *testing.T) {
	b := newTestBoard(9, 9)
	gap := buildOneMoveCapture(b)

	d := uct.NewDriver(testOptions(), 7)
	_, out := d.Launch(context.Background(), b, search.Options{DepthLimit: 150})
	pv := <-out
	require.NotEmpty(t, pv.Moves)
	assert.Equal(t, gap, pv.Moves[0])

	// Play the chosen move and search again from the opponent's side: the
	// driver should reuse (not reset) the subtree under the played move
	// instead of erroring or stalling.
	require.True(t, b.PutPoint(pv.Moves[0], field.Red))
	_, out2 := d.Launch(context.Background(), b, search.Options{DepthLimit: 150})
	pv2 := <-out2
	assert.NotNil(t, pv2)
}

func TestDriver_NoMovesReturnsEmptyPV(t *testing.T) {
	b := newTestBoard(2, 2)
	d := uct.NewDriver(testOptions(), 1)

	_, out := d.Launch(context.Background(), b, search.Options{DepthLimit: 50})
	pv := <-out
	assert.Empty(t, pv.Moves)
}

func TestDriver_HaltStopsBeforeExhaustingIterations(t *testing.T) {
	b := newTestBoard(9, 9)
	buildOneMoveCapture(b)

	d := uct.NewDriver(testOptions(), 3)
	h, out := d.Launch(context.Background(), b, search.Options{})
	go h.Halt()

	// Draining out first guarantees process() has already stored its final
	// PV, so the later Halt() call observes the same result instead of
	// racing its own write.
	drained := <-out
	assert.Equal(t, drained, h.Halt())
}
