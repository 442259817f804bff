package uct

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/herohde/dots/pkg/config"
	"github.com/herohde/dots/pkg/field"
	"github.com/herohde/dots/pkg/field/wave"
	"github.com/herohde/dots/pkg/search"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
	uatomic "go.uber.org/atomic"
)

// Driver runs Monte Carlo tree search against a persistent, reused game
// tree, implementing search.Launcher/search.Handle the way
// pkg/search/searchctl.Iterative does for minimax. Unlike minimax, a
// Driver is stateful across calls: Launch walks the tree down the moves
// actually played since the previous call instead of starting over,
// grounded on original_source/src/uct.rs's UctRoot.
//
// Not safe for concurrent Launch calls; serialize them the way a single
// bot only ever has one search in flight at a time.
type Driver struct {
	Options config.Options
	Seed    int64

	rng *rand.Rand // seeds per-call/per-worker RNGs; not used for simulation itself

	root       *Node
	player     field.Color
	movesCount int
	hash       field.ZobristHash
	pruning    *wave.Pruning

	komi       uatomic.Int64
	komiVisits uatomic.Uint64
	komiWins   uatomic.Uint64
	komiDraws  uatomic.Uint64
}

// NewDriver allocates a Driver with an empty tree. seed initializes the
// Driver's RNG, from which every worker's rollout RNG is seeded, rather than
// reading the clock.
func NewDriver(opt config.Options, seed int64) *Driver {
	return &Driver{Options: opt, Seed: seed, rng: rand.New(rand.NewSource(seed))}
}

func (d *Driver) reset(b *field.Board, player field.Color) {
	d.root = newNode(field.NoPos)
	if d.pruning == nil {
		d.pruning = wave.New(b.Length())
	} else {
		d.pruning.Clear()
	}
	d.pruning.Init(b, d.Options.WaveRadius)

	d.player = player
	d.movesCount = b.MovesCount()
	d.hash = b.Hash()

	var komi int64
	if d.Options.KomiType != config.KomiNone {
		komi = int64(b.Score(player))
	}
	d.komi.Store(komi)
	d.komiVisits.Store(0)
	d.komiWins.Store(0)
	d.komiDraws.Store(0)
}

// update reuses as much of the existing tree as the moves actually played
// since the previous call allow: walk the sequence of moves played since
// the stored position one at a time, descending into the matching child at
// each step; a missing child, a mismatched mover or a hash mismatch at the
// stored depth all mean the live position diverged from the tree, and it
// starts over.
func (d *Driver) update(b *field.Board, player field.Color, rng *rand.Rand) {
	if d.root != nil {
		if h, ok := b.HashAt(d.movesCount); !ok || h != d.hash {
			d.root = nil
		}
	}
	if d.root == nil {
		d.reset(b, player)
		return
	}

	lastMovesCount := d.movesCount
	moves := b.Moves()
	for {
		if d.movesCount == b.MovesCount() {
			if d.player != player {
				d.reset(b, player)
				return
			}

			added := d.pruning.Update(b, lastMovesCount, d.Options.WaveRadius)
			expandTree(d.root, added, rng)

			switch d.Options.KomiType {
			case config.KomiStatic:
				d.komi.Store(int64(b.Score(d.player)))
			case config.KomiDynamic:
				d.komiVisits.Store(d.root.Visits())
				d.komiWins.Store(d.root.Wins())
				d.komiDraws.Store(d.root.Draws())
			}
			return
		}

		nextPos := moves[d.movesCount]
		if !b.Cell(nextPos).IsPoint(d.player) {
			d.reset(b, player)
			return
		}

		var next *Node
		for _, c := range d.root.Children() {
			if c.Pos() == nextPos {
				next = c
				break
			}
		}
		if next == nil {
			d.reset(b, player)
			return
		}

		d.root = next
		d.movesCount++
		d.player = d.player.Next()
		if h, ok := b.HashAt(d.movesCount); ok {
			d.hash = h
		}
		if d.Options.KomiType == config.KomiDynamic {
			d.komi.Store(-d.komi.Load())
		}
	}
}

// playSimulation runs one rollout from the root and, for dynamic komi,
// considers ratcheting the komi once enough new visits have landed since
// the last adjustment window.
func (d *Driver) playSimulation(b *field.Board, player field.Color, moves []field.Pos, rng *rand.Rand, ratchet *uatomic.Int64) {
	playSimulationRec(b, player, d.root, moves, rng, d.komi.Load(), 0, d.Options)

	if d.Options.KomiType != config.KomiDynamic {
		return
	}

	visits := d.root.Visits()
	komiVisits := d.komiVisits.Load()
	deltaVisits := visits - komiVisits
	if deltaVisits <= d.Options.KomiMinIterations {
		return
	}

	wins := d.root.Wins()
	deltaWins := wins - d.komiWins.Load()
	draws := d.root.Draws()
	deltaDraws := draws - d.komiDraws.Load()
	winRate := 1 - (float64(deltaWins)+float64(deltaDraws)*d.Options.UCTDrawWeight)/float64(deltaVisits)
	komi := d.komi.Load()

	if winRate < d.Options.KomiRed || (winRate > d.Options.KomiGreen && komi < ratchet.Load()) {
		if d.komiVisits.CAS(komiVisits, visits) {
			d.komiWins.Store(wins)
			d.komiDraws.Store(draws)
			if winRate < d.Options.KomiRed {
				if komi > 0 {
					ratchet.Store(komi - 1)
				}
				d.komi.Sub(1)
			} else {
				d.komi.Add(1)
			}
		}
	}
}

// playSimulationRec is the recursive rollout body grounded on
// UctRoot::play_simulation_rec: below the expansion threshold or at max
// depth, play a random game to the end; otherwise lazily expand, select a
// child via UCB, and recurse one ply deeper -- unless the selected move is
// stupid, in which case the child is pruned and selection retries at the
// same node.
func playSimulationRec(b *field.Board, mover field.Color, node *Node, moves []field.Pos, rng *rand.Rand, komi int64, depth int, opt config.Options) (field.Color, bool) {
	var result field.Color
	var ok bool

	if node.Visits() < opt.UCTWhenCreateChildren || depth == opt.UCTDepth {
		result, ok = playRandomGame(b, mover, rng, moves, komi)
	} else {
		if len(node.Children()) == 0 {
			createChildren(b, moves, node, rng)
		}
		if next := uctSelect(node, opt.UCBType, opt.UCTDrawWeight, opt.UCTK); next != nil {
			pos := next.Pos()
			b.PutPoint(pos, mover)
			if isLastMoveStupid(b, pos, mover) {
				b.Undo()
				next.looseNode()
				return playSimulationRec(b, mover, node, moves, rng, komi, depth, opt)
			}
			if isPenultMoveStupid(b) {
				// The move just applied recaptures the penultimate one for
				// free: leave it on the board for the caller's bulk undo and
				// treat this node as a win for mover without recursing
				// further.
				node.looseNode()
				return mover, true
			}
			result, ok = playSimulationRec(b, mover.Next(), next, moves, rng, -komi, depth+1, opt)
		} else {
			result, ok = randomResult(b, mover, komi)
		}
	}

	switch {
	case !ok:
		node.addDraw()
	case result == mover:
		node.addLoose()
	default:
		node.addWin()
	}
	return result, ok
}

// bestMove picks the final move: highest visit count, ties broken by
// FinalUCBType (Winrate by default, so ties resolve to highest win rate),
// remaining ties broken at random.
func (d *Driver) bestMove(rng *rand.Rand) field.Pos {
	children := d.root.Children()
	if len(children) == 0 {
		return field.NoPos
	}

	var leaders []*Node
	var maxVisits uint64
	found := false
	for _, c := range children {
		v := c.Visits()
		if v == pruned {
			continue
		}
		switch {
		case !found || v > maxVisits:
			maxVisits = v
			leaders = leaders[:0]
			leaders = append(leaders, c)
			found = true
		case v == maxVisits:
			leaders = append(leaders, c)
		}
	}
	if len(leaders) == 0 {
		return field.NoPos
	}
	if len(leaders) == 1 {
		return leaders[0].Pos()
	}
	if maxVisits == 0 {
		// Every leader is unvisited; ucb's winrate term divides by zero, so
		// break the tie at random among the leaders directly instead.
		return leaders[rng.Intn(len(leaders))].Pos()
	}

	var tied []*Node
	bestUCB := -math.MaxFloat64
	for _, c := range leaders {
		v := ucb(d.root, c, d.Options.FinalUCBType, d.Options.UCTDrawWeight, d.Options.UCTK)
		switch {
		case v > bestUCB:
			bestUCB = v
			tied = tied[:0]
			tied = append(tied, c)
		case v == bestUCB:
			tied = append(tied, c)
		}
	}
	return tied[rng.Intn(len(tied))].Pos()
}

// Launch starts a simulation burst from b, reusing the persistent tree,
// and returns a handle plus a PV channel carrying exactly one result: the
// chosen move as a one-element PV, delivered once the threads stop (on
// Halt, context cancellation, or opt.DepthLimit simulations).
func (d *Driver) Launch(ctx context.Context, b *field.Board, opt search.Options) (search.Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, d, b, opt, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, d *Driver, b *field.Board, opt search.Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	player := b.CurPlayer()
	d.update(b, player, d.rng)

	moves := append([]field.Pos(nil), d.pruning.Moves()...)
	threads := d.Options.Threads
	if threads < 1 {
		threads = 1
	}

	ratchet := uatomic.NewInt64(math.MaxInt64)
	var iterations uatomic.Uint64
	maxIterations := uint64(math.MaxUint64)
	if opt.DepthLimit > 0 {
		maxIterations = uint64(opt.DepthLimit)
	}

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		workerSeed := d.rng.Int63()
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()

			local := b.Fork()
			localRng := rand.New(rand.NewSource(seed))
			localMoves := append([]field.Pos(nil), moves...)

			for wctx.Err() == nil && iterations.Load() < maxIterations {
				d.playSimulation(local, player, localMoves, localRng, ratchet)
				for local.MovesCount() > d.movesCount {
					local.Undo()
				}
				iterations.Inc()
			}
		}(workerSeed)
	}

	h.init.Close()
	wg.Wait()

	pos := d.bestMove(d.rng)
	pv := search.PV{Moves: nil, Nodes: iterations.Load()}
	if pos != field.NoPos {
		pv.Moves = []field.Pos{pos}
	}

	h.mu.Lock()
	h.pv = pv
	h.mu.Unlock()

	select {
	case out <- pv:
	default:
	}
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}
