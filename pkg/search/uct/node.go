// Package uct implements Monte Carlo tree search over the board engine:
// UCB1/UCB1-Tuned child selection, random rollouts pruned by the stupid-move
// heuristic, dynamic komi, and tree reuse across calls. Grounded on
// original_source/src/uct.rs's UctNode/UctRoot.
package uct

import (
	"math/rand"
	"sync/atomic"

	"github.com/herohde/dots/pkg/field"
	uatomic "go.uber.org/atomic"
)

// pruned is the visits sentinel original_source's UctNode.loose_node uses to
// permanently exclude a node from future selection: a child that led to a
// stupid move is marked this way instead of removed, since removal would
// race with a concurrent reader walking the children slice.
const pruned = ^uint64(0)

// Node is one arena entry in the simulation tree. wins/draws/visits are
// updated by many worker goroutines concurrently; children is installed
// once per node via compare-and-swap and read-only thereafter until the
// next tree update.
type Node struct {
	pos    field.Pos
	wins   uatomic.Uint64
	draws  uatomic.Uint64
	visits uatomic.Uint64

	children atomic.Pointer[[]*Node]
}

func newNode(pos field.Pos) *Node {
	return &Node{pos: pos}
}

func (n *Node) Pos() field.Pos { return n.pos }

func (n *Node) Visits() uint64 { return n.visits.Load() }
func (n *Node) Wins() uint64   { return n.wins.Load() }
func (n *Node) Draws() uint64  { return n.draws.Load() }

// Children returns the node's child list, or nil if none has been installed
// yet.
func (n *Node) Children() []*Node {
	p := n.children.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (n *Node) addWin() {
	n.visits.Inc()
	n.wins.Inc()
}

func (n *Node) addDraw() {
	n.visits.Inc()
	n.draws.Inc()
}

func (n *Node) addLoose() {
	n.visits.Inc()
}

// looseNode marks the node as a dead branch: its last simulation played a
// stupid move, so it is excluded from selection forever, rather than
// deleted out from under a concurrent sibling scan.
func (n *Node) looseNode() {
	n.wins.Store(0)
	n.draws.Store(0)
	n.visits.Store(pruned)
}

func (n *Node) clearStats() {
	n.wins.Store(0)
	n.draws.Store(0)
	n.visits.Store(0)
}

// createChildren installs one child per currently-puttable move in moves,
// shuffled, but only if no child list has been installed yet -- concurrent
// callers racing to expand the same leaf all attempt this, and exactly one
// wins.
func createChildren(b *field.Board, moves []field.Pos, node *Node, rng *rand.Rand) {
	shuffled := append([]field.Pos(nil), moves...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	var children []*Node
	for _, pos := range shuffled {
		if b.IsPuttingAllowed(pos) {
			children = append(children, newNode(pos))
		}
	}
	if len(children) == 0 {
		return
	}
	node.children.CompareAndSwap(nil, &children)
}

// expandTree walks the whole persisted subtree, attaching added as new
// children of every node that already has children (so positions the
// wave-pruning halo newly discovered become explorable throughout the reused
// tree, not only at its root) and reviving any pruned leaf back to a clean,
// exploreable state. Leaves get no new children here. Only called between simulation bursts, from the single goroutine
// driving the search -- never concurrently with createChildren/select.
func expandTree(node *Node, added []field.Pos, rng *rand.Rand) {
	children := node.Children()
	if len(children) == 0 {
		if node.visits.Load() == pruned {
			node.clearStats()
		}
		return
	}

	for _, child := range children {
		expandTree(child, added, rng)
	}

	if len(added) == 0 {
		return
	}
	shuffled := append([]field.Pos(nil), added...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	next := append(append([]*Node(nil), children...), make([]*Node, len(shuffled))...)
	for i, pos := range shuffled {
		next[len(children)+i] = newNode(pos)
	}
	node.children.Store(&next)
}
