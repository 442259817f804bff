package uct

import (
	"math/rand"
	"testing"

	"github.com/herohde/dots/pkg/config"
	"github.com/herohde/dots/pkg/field"
	"github.com/stretchr/testify/assert"
)

func TestUctSelect_PrefersUnvisitedChild(t *testing.T) {
	parent := newNode(field.NoPos)
	visited := newNode(field.Pos(1))
	visited.addWin()
	visited.addWin()
	unvisited := newNode(field.Pos(2))
	parent.children.Store(&[]*Node{visited, unvisited})

	got := uctSelect(parent, config.UCB1, 0.4, 1.0)
	assert.Same(t, unvisited, got)
}

func TestUctSelect_SkipsPrunedChildren(t *testing.T) {
	parent := newNode(field.NoPos)
	looser := newNode(field.Pos(1))
	looser.looseNode()
	only := newNode(field.Pos(2))
	only.addWin()
	parent.children.Store(&[]*Node{looser, only})
	// Give the parent enough visits that ucb's log term is well-defined.
	parent.addWin()
	parent.addWin()

	got := uctSelect(parent, config.UCB1, 0.4, 1.0)
	assert.Same(t, only, got)
}

func TestNode_LooseNodeIsPermanentlyExcluded(t *testing.T) {
	n := newNode(field.Pos(1))
	n.addWin()
	n.addDraw()
	n.looseNode()

	assert.Equal(t, uint64(0), n.Wins())
	assert.Equal(t, uint64(0), n.Draws())
	assert.Equal(t, pruned, n.Visits())
}

func TestIsLastMoveStupid_FlagsThreeSidedBoxWithEscape(t *testing.T) {
	zt := field.NewZobristTable(field.Length(9, 9), 1)
	b := field.NewBoard(9, 9, zt)
	w := b.Width()

	center := field.ToPos(w, 4, 4)
	require := func(ok bool) {
		if !ok {
			t.Fatal("setup move rejected")
		}
	}
	require(b.PutPoint(field.ToPos(w, 4, 3), field.Black))
	require(b.PutPoint(field.ToPos(w, 3, 4), field.Black))
	require(b.PutPoint(field.ToPos(w, 4, 5), field.Black))
	require(b.PutPoint(center, field.Red))

	assert.True(t, isLastMoveStupid(b, center, field.Red))
}

func TestPlayRandomGame_NoMovesZeroKomiIsDraw(t *testing.T) {
	zt := field.NewZobristTable(field.Length(5, 5), 1)
	b := field.NewBoard(5, 5, zt)
	rng := rand.New(rand.NewSource(1))

	result, ok := playRandomGame(b, field.Red, rng, nil, 0)
	assert.False(t, ok)
	assert.Equal(t, field.Color(0), result)
}
