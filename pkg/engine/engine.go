package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/herohde/dots/pkg/config"
	"github.com/herohde/dots/pkg/engine/pattern"
	"github.com/herohde/dots/pkg/field"
	"github.com/herohde/dots/pkg/search"
	"github.com/herohde/dots/pkg/search/minimax"
	"github.com/herohde/dots/pkg/search/searchctl"
	"github.com/herohde/dots/pkg/search/uct"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// EngineKind selects which search family the bot facade dispatches to.
type EngineKind int

const (
	KindUCT EngineKind = iota
	KindMinimax
	KindHeuristic
)

func (k EngineKind) String() string {
	switch k {
	case KindMinimax:
		return "minimax"
	case KindHeuristic:
		return "heuristic"
	default:
		return "uct"
	}
}

// Options are bot creation and runtime options.
type Options struct {
	// Depth is the search depth/iteration limit applied when BestMove's
	// budget carries no complexity of its own. Zero means no limit.
	Depth uint
	// Hash is the minimax transposition table size in MB. Zero disables it;
	// UCT never uses a transposition table.
	Hash uint
	// Engine selects the search family BestMove dispatches to.
	Engine EngineKind
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, engine=%v}", o.Depth, o.Hash, o.Engine)
}

// Budget bounds one BestMove call, either by a 0..1 complexity fraction
// mapped linearly onto UCT iterations or minimax depth, or by a
// wall-clock duration, or both.
type Budget struct {
	Complexity lang.Optional[float64]
	Duration   lang.Optional[time.Duration]
}

// WithComplexity bounds a search by a 0..1 complexity fraction.
func WithComplexity(c float64) Budget {
	return Budget{Complexity: lang.Some(c)}
}

// WithDuration bounds a search by wall-clock time.
func WithDuration(d time.Duration) Budget {
	return Budget{Duration: lang.Some(d)}
}

const (
	maxUCTIterations = 500000 // original_source/src/bot.rs's MAX_UCT_ITERATIONS
	maxMinimaxDepth  = 20
)

// Engine encapsulates game state, the pattern oracle, and the configured
// search family behind a small set of bot operations: Init, Put, Undo,
// Analyze/Halt, and BestMove.
type Engine struct {
	name, author string

	factory search.TranspositionTableFactory
	cfg     config.Options
	oracle  pattern.Oracle
	seed    int64
	opts    Options

	b      *field.Board
	tt     search.TranspositionTable
	uct    *uct.Driver
	rng    *rand.Rand
	active searchctl.Handle
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithTable configures the engine to use the given transposition table
// factory for the minimax engine kind.
func WithTable(factory search.TranspositionTableFactory) Option {
	return func(e *Engine) { e.factory = factory }
}

// WithConfig sets the search tunables.
func WithConfig(cfg config.Options) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithOracle configures the pattern oracle consulted before search, ahead
// of the configured search family. The default is pattern.NopOracle{}.
func WithOracle(oracle pattern.Oracle) Option {
	return func(e *Engine) { e.oracle = oracle }
}

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithZobrist configures the engine to use the given random seed instead of
// the default seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:    name,
		author:  author,
		factory: search.NewTranspositionTable,
		cfg:     config.Default(),
		oracle:  pattern.NopOracle{},
	}
	for _, fn := range opts {
		fn(e)
	}
	e.rng = rand.New(rand.NewSource(e.seed))

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetHash(size uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = size
}

func (e *Engine) SetEngine(kind EngineKind) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Engine = kind
}

// Width returns the current board's width, or 0 if Init hasn't been called yet.
func (e *Engine) Width() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.b == nil {
		return 0
	}
	return e.b.Width()
}

// Board returns a forked board, or nil if Init hasn't been called yet.
func (e *Engine) Board() *field.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.b == nil {
		return nil
	}
	return e.b.Fork()
}

// Init resets the engine to a new, empty board of the given size. Any
// active search is halted first.
func (e *Engine) Init(ctx context.Context, width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Init %vx%v, depth=%v, hash=%vMB, engine=%v", width, height, e.opts.Depth, e.opts.Hash, e.opts.Engine)

	e.haltSearchIfActiveLocked(ctx)

	zt := field.NewZobristTable(field.Length(width, height), e.seed)
	e.b = field.NewBoard(width, height, zt)
	e.resetSearchStateLocked(ctx)
}

func (e *Engine) resetSearchStateLocked(ctx context.Context) {
	e.tt = search.NoTranspositionTable{}
	if e.opts.Hash > 0 {
		e.tt = e.factory(ctx, uint64(e.opts.Hash)<<20)
	}
	e.uct = uct.NewDriver(e.cfg, e.rng.Int63())
}

// Put applies a move, usually an opponent's.
func (e *Engine) Put(ctx context.Context, x, y int, c field.Color) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.b == nil {
		return false
	}
	e.haltSearchIfActiveLocked(ctx)

	pos := field.ToPos(e.b.Width(), x, y)
	ok := e.b.PutPoint(pos, c)

	logw.Infof(ctx, "Put %v,%v %v: %v", x, y, c, ok)
	return ok
}

// Undo takes back the latest move.
func (e *Engine) Undo(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.b == nil {
		return false
	}
	e.haltSearchIfActiveLocked(ctx)

	ok := e.b.Undo()
	logw.Infof(ctx, "Undo: %v", ok)
	return ok
}

// Analyze launches a streaming search of the current position using the
// configured EngineKind.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.b == nil {
		return nil, fmt.Errorf("not initialized")
	}
	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.b, opt)

	launcher := e.launcherLocked()
	handle, out := launcher.Launch(ctx, e.b.Fork(), e.tt, opt)
	e.active = handle
	return out, nil
}

// launcherLocked builds the searchctl.Launcher for the configured engine
// kind. BestMove resolves KindHeuristic without it, but Analyze (and so
// StreamAnalyze) with KindHeuristic reaches here and gets the UCT launcher.
func (e *Engine) launcherLocked() searchctl.Launcher {
	if e.opts.Engine == KindMinimax {
		root := minimax.MTDF{
			Root: minimax.RootParallel{
				Inner:           minimax.NegaScout{TrajectoryDepth: e.cfg.TrajectoryDepth}.Search,
				Threads:         e.cfg.Threads,
				TrajectoryDepth: e.cfg.TrajectoryDepth,
			}.Search,
			FirstGuess: e.cfg.MTDFFirstGuess,
		}
		return &searchctl.Iterative{Root: root.Search}
	}
	return &uct.Launcher{Driver: e.uct}
}

// Halt halts the active search and returns the principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pv, ok := e.haltSearchIfActiveLocked(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActiveLocked(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search halted: %v", pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}

// BestMove picks a move for color c: a deterministic opening for the
// first two moves, then the pattern oracle, then the configured search
// family under budget, falling back to the heuristic oracle if the
// search returns nothing.
func (e *Engine) BestMove(ctx context.Context, c field.Color, budget Budget) (x, y int, ok bool) {
	pos, width, ok := e.bestMovePos(ctx, c, budget)
	if !ok {
		return 0, 0, false
	}
	px, py := field.ToXY(width, pos)
	return px, py, true
}

func (e *Engine) bestMovePos(ctx context.Context, c field.Color, budget Budget) (field.Pos, int, bool) {
	e.mu.Lock()
	if e.b == nil {
		e.mu.Unlock()
		return field.NoPos, 0, false
	}
	width := e.b.Width()

	if e.b.MovesCount() < 2 {
		if pos := e.openingMoveLocked(); pos != field.NoPos {
			e.mu.Unlock()
			return pos, width, true
		}
	}
	oracle, b := e.oracle, e.b
	kind := e.opts.Engine
	e.mu.Unlock()

	if moves, err := oracle.Suggest(ctx, b, c, false); err == nil && len(moves) > 0 {
		e.mu.Lock()
		pos := moves[e.rng.Intn(len(moves))]
		e.mu.Unlock()
		return pos, width, true
	}

	if kind == KindHeuristic {
		pos := heuristic(b, c)
		return pos, width, pos != field.NoPos
	}

	pos, ok := e.searchBestMove(ctx, budget)
	if !ok || pos == field.NoPos {
		e.mu.Lock()
		live := e.b
		e.mu.Unlock()
		if live == nil {
			return field.NoPos, width, false
		}
		pos = heuristic(live, c)
		return pos, width, pos != field.NoPos
	}
	return pos, width, true
}

// openingMoveLocked must be called with e.mu held. It plays the board
// center for the very first move, and a point-symmetric response to the
// opponent's first move for the second -- an opening book choice recorded
// in DESIGN.md.
func (e *Engine) openingMoveLocked() field.Pos {
	b := e.b
	if b.MovesCount() == 0 {
		return field.ToPos(b.Width(), b.Width()/2, b.Height()/2)
	}

	first := b.Moves()[0]
	fx, fy := field.ToXY(b.Width(), first)
	pos := field.ToPos(b.Width(), b.Width()-1-fx, b.Height()-1-fy)
	if b.IsPuttingAllowed(pos) {
		return pos
	}
	return field.NoPos
}

// StreamAnalyze launches a search bounded by budget and returns its PV
// stream directly, without the opening/pattern-oracle/heuristic steps of
// BestMove -- the counterpart pkg/engine/proto's Analyze command drives
// this directly rather than going through the move-selection facade.
func (e *Engine) StreamAnalyze(ctx context.Context, budget Budget) (<-chan search.PV, error) {
	opt, duration, hasDuration := e.budgetToOptions(budget)

	out, err := e.Analyze(ctx, opt)
	if err != nil {
		return nil, err
	}
	if hasDuration {
		time.AfterFunc(duration, func() { _, _ = e.Halt(ctx) })
	}
	return out, nil
}

func (e *Engine) searchBestMove(ctx context.Context, budget Budget) (field.Pos, bool) {
	out, err := e.StreamAnalyze(ctx, budget)
	if err != nil {
		return field.NoPos, false
	}

	var last search.PV
	for pv := range out {
		last = pv
	}
	_, _ = e.Halt(ctx)

	if len(last.Moves) == 0 {
		return field.NoPos, false
	}
	return last.Moves[0], true
}

func (e *Engine) budgetToOptions(budget Budget) (searchctl.Options, time.Duration, bool) {
	var opt searchctl.Options

	if comp, ok := budget.Complexity.V(); ok {
		if comp < 0 {
			comp = 0
		} else if comp > 1 {
			comp = 1
		}

		e.mu.Lock()
		kind := e.opts.Engine
		e.mu.Unlock()

		if kind == KindMinimax {
			depth := uint(comp * maxMinimaxDepth)
			if depth < 1 {
				depth = 1
			}
			opt.DepthLimit = lang.Some(depth)
		} else {
			opt.DepthLimit = lang.Some(uint(comp * maxUCTIterations))
		}
	}

	if d, ok := budget.Duration.V(); ok {
		return opt, d, true
	}
	return opt, 0, false
}
