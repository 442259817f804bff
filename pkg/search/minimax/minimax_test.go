package minimax_test

import (
	"context"
	"testing"

	"github.com/herohde/dots/pkg/field"
	"github.com/herohde/dots/pkg/search"
	"github.com/herohde/dots/pkg/search/minimax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(w, h int) *field.Board {
	zt := field.NewZobristTable(field.Length(w, h), 1)
	return field.NewBoard(w, h, zt)
}

// buildOneMoveCapture sets up a three-sided box around a lone Black stone,
// leaving exactly one Red move (east of center) to close it and capture --
// the same fixture pkg/field/trajectory's tests use.
func buildOneMoveCapture(b *field.Board) field.Pos {
	w := b.Width()
	center := field.ToPos(w, 4, 4)
	// Red's three sides go down first and Black's lone stone last, so the
	// board's CurPlayer (whoever moves after the last move played) is Red --
	// the side about to play the closing, capturing move.
	must(b.PutPoint(field.ToPos(w, 4, 3), field.Red))
	must(b.PutPoint(field.ToPos(w, 3, 4), field.Red))
	must(b.PutPoint(field.ToPos(w, 4, 5), field.Red))
	must(b.PutPoint(center, field.Black))
	return field.ToPos(w, 5, 4)
}

func must(ok bool) {
	if !ok {
		panic("setup move rejected")
	}
}

func TestAlphaBeta_FindsImmediateCapture(t *testing.T) {
	b := newTestBoard(9, 9)
	gap := buildOneMoveCapture(b)

	ab := minimax.AlphaBeta{TrajectoryDepth: 4}
	sctx := &search.Context{Alpha: search.NegInf, Beta: search.Inf, TT: search.NoTranspositionTable{}}

	_, score, pv, err := ab.Search(context.Background(), sctx, b, 2)
	require.NoError(t, err)
	require.NotEmpty(t, pv)
	assert.Equal(t, gap, pv[0])
	assert.Greater(t, int32(score), int32(0))
}

func TestNegaScout_AgreesWithAlphaBeta(t *testing.T) {
	b1 := newTestBoard(9, 9)
	buildOneMoveCapture(b1)
	b2 := b1.Fork()

	ab := minimax.AlphaBeta{TrajectoryDepth: 4}
	ns := minimax.NegaScout{TrajectoryDepth: 4}

	sctx1 := &search.Context{Alpha: search.NegInf, Beta: search.Inf, TT: search.NoTranspositionTable{}}
	sctx2 := &search.Context{Alpha: search.NegInf, Beta: search.Inf, TT: search.NoTranspositionTable{}}

	_, s1, pv1, err1 := ab.Search(context.Background(), sctx1, b1, 2)
	_, s2, pv2, err2 := ns.Search(context.Background(), sctx2, b2, 2)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, s1, s2)
	require.NotEmpty(t, pv1)
	require.NotEmpty(t, pv2)
	assert.Equal(t, pv1[0], pv2[0])
}

func TestMTDF_ConvergesToSameScoreAsNegaScout(t *testing.T) {
	b1 := newTestBoard(9, 9)
	buildOneMoveCapture(b1)
	b2 := b1.Fork()

	ns := minimax.NegaScout{TrajectoryDepth: 4}
	mtdf := minimax.MTDF{Root: ns.Search, FirstGuess: false}

	direct := &search.Context{Alpha: search.NegInf, Beta: search.Inf, TT: search.NoTranspositionTable{}}
	_, directScore, _, err := ns.Search(context.Background(), direct, b1, 2)
	require.NoError(t, err)

	probe := &search.Context{Alpha: 0, Beta: 0, TT: search.NoTranspositionTable{}}
	_, mtdfScore, pv, err := mtdf.Search(context.Background(), probe, b2, 2)
	require.NoError(t, err)
	require.NotEmpty(t, pv)
	assert.Equal(t, directScore, mtdfScore)
}

func TestAlphaBeta_NoMovesReturnsCurrentScore(t *testing.T) {
	b := newTestBoard(3, 3)
	ab := minimax.AlphaBeta{TrajectoryDepth: 2}
	sctx := &search.Context{Alpha: search.NegInf, Beta: search.Inf, TT: search.NoTranspositionTable{}}

	_, score, pv, err := ab.Search(context.Background(), sctx, b, 1)
	require.NoError(t, err)
	assert.Nil(t, pv)
	assert.Equal(t, search.Score(0), score)
}

func TestRootParallel_FindsCaptureWithMultipleWorkers(t *testing.T) {
	b := newTestBoard(9, 9)
	gap := buildOneMoveCapture(b)

	rp := minimax.RootParallel{
		Inner:           minimax.NegaScout{TrajectoryDepth: 4}.Search,
		Threads:         4,
		TrajectoryDepth: 4,
	}
	sctx := &search.Context{Alpha: search.NegInf, Beta: search.Inf, TT: search.NoTranspositionTable{}}

	_, score, pv, err := rp.Search(context.Background(), sctx, b, 2)
	require.NoError(t, err)
	require.NotEmpty(t, pv)
	assert.Equal(t, gap, pv[0])
	assert.Greater(t, int32(score), int32(0))
}
