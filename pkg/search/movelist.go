package search

import (
	"container/heap"
	"fmt"

	"github.com/herohde/dots/pkg/field"
)

// Priority represents the move order priority.
type Priority int32

// MoveList is a move priority queue for move ordering: higher-priority moves
// (trajectory-pruned candidates, the previous iteration's best move, a
// transposition table hint) come off first.
type MoveList struct {
	h moveHeap
}

// NewMoveList returns a new move list with the given priorities.
func NewMoveList(moves []field.Pos, fn func(move field.Pos) Priority) *MoveList {
	h := make(moveHeap, len(moves))
	for i, m := range moves {
		h[i] = elm{m: m, val: fn(m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next returns the next move, in priority order.
func (ml *MoveList) Next() (field.Pos, bool) {
	if ml.Size() == 0 {
		return 0, false
	}
	ret := heap.Pop(&ml.h).(elm)
	return ret.m, true
}

func (ml *MoveList) Size() int { return ml.h.Len() }

func (ml *MoveList) String() string {
	if ml.Size() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].m, ml.Size())
}

type elm struct {
	m   field.Pos
	val Priority
}

type moveHeap []elm

func (h moveHeap) Len() int            { return len(h) }
func (h moveHeap) Less(i, j int) bool  { return h[i].val > h[j].val }
func (h moveHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *moveHeap) Push(x interface{}) { panic("fixed size heap") }

func (h *moveHeap) Pop() interface{} {
	n := len(*h)
	ret := (*h)[n-1]
	*h = (*h)[0 : n-1]
	return ret
}

// Rank assigns each move in list a descending priority by position in the
// slice: list[0] ranks highest. Used to turn an ordered exploration slice
// (e.g. a trajectory-pruned candidate set with the transposition table's
// best move moved to the front) into per-move priorities for NewMoveList.
func Rank(list []field.Pos) func(field.Pos) Priority {
	rank := make(map[field.Pos]Priority, len(list))
	for i, m := range list {
		rank[m] = Priority(len(list) - i)
	}
	return func(m field.Pos) Priority { return rank[m] }
}
