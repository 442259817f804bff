package search

import (
	"fmt"
	"time"

	"github.com/herohde/dots/pkg/field"
)

// PV represents the principal variation for some search depth.
type PV struct {
	Depth int         // depth of search
	Moves []field.Pos // principal variation
	Score Score       // evaluation at depth
	Nodes uint64      // interior/leaf nodes searched
	Time  time.Duration
	Hash  float64 // transposition table utilization [0;1]
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%v%% pv=%v", p.Depth, p.Score, p.Nodes, p.Time, int(100*p.Hash), p.Moves)
}
