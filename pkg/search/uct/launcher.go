package uct

import (
	"context"

	"github.com/herohde/dots/pkg/field"
	"github.com/herohde/dots/pkg/search"
	"github.com/herohde/dots/pkg/search/searchctl"
)

// Launcher adapts Driver to searchctl.Launcher, the interface
// pkg/engine.Engine drives both search families through. UCT has no
// transposition table and no ply-depth notion, so DepthLimit is
// reinterpreted as a simulation-count budget shared by all workers, and tt is
// ignored; TimeControl is enforced the same way searchctl.Iterative does
// it, via EnforceTimeControl arming a time.AfterFunc(hard, Halt).
type Launcher struct {
	Driver *Driver
}

func (l *Launcher) Launch(ctx context.Context, b *field.Board, tt search.TranspositionTable, opt searchctl.Options) (searchctl.Handle, <-chan search.PV) {
	var sopt search.Options
	if v, ok := opt.DepthLimit.V(); ok {
		sopt.DepthLimit = int(v)
	}

	h, out := l.Driver.Launch(ctx, b, sopt)
	searchctl.EnforceTimeControl(ctx, h, opt.TimeControl, b.CurPlayer())
	return h, out
}
