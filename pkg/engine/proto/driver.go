package proto

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/herohde/dots/pkg/engine"
	"github.com/herohde/dots/pkg/field"
	"github.com/herohde/dots/pkg/search"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

// Driver implements a newline-delimited JSON request/response protocol for
// an *engine.Engine: one goroutine reading stdin lines, one buffered stdout
// channel, commands dispatched inline except Analyze, which runs in its own
// goroutine so a long search never blocks Put/Undo/Init on the next line.
type Driver struct {
	e   *engine.Engine
	out chan<- string

	initialized atomic.Bool

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:    e,
		out:  out,
		quit: make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "JSON protocol initialized")

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			d.handle(ctx, line)

		case <-d.quit:
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) handle(ctx context.Context, line string) {
	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		logw.Errorf(ctx, "Malformed request %q: %v", line, err)
		d.send(Response{Error: fmt.Sprintf("malformed request: %v", err)})
		return
	}

	switch req.Command {
	case CommandInit:
		d.handleInit(ctx, req)
	case CommandPut:
		d.handlePut(ctx, req)
	case CommandUndo:
		d.handleUndo(ctx)
	case CommandAnalyze:
		d.handleAnalyze(ctx, req)
	default:
		d.send(Response{Error: fmt.Sprintf("unknown command %q", req.Command)})
	}
}

// requireInit surfaces the "not initialized" structured error for any
// command other than init arriving before one.
func (d *Driver) requireInit(cmd string) bool {
	if d.initialized.Load() {
		return true
	}
	d.send(Response{Command: cmd, Error: "not initialized"})
	return false
}

func (d *Driver) handleInit(ctx context.Context, req Request) {
	if req.Width <= 0 || req.Height <= 0 {
		d.send(Response{Command: CommandInit, Error: "width and height must be positive"})
		return
	}

	d.e.Init(ctx, req.Width, req.Height)
	d.initialized.Store(true)
	d.send(Response{Command: CommandInit})
}

func (d *Driver) handlePut(ctx context.Context, req Request) {
	if !d.requireInit(CommandPut) {
		return
	}
	if req.Coords == nil {
		d.send(Response{Command: CommandPut, Error: "missing coords"})
		return
	}
	c, ok := parsePlayer(req.Player)
	if !ok {
		d.send(Response{Command: CommandPut, Error: fmt.Sprintf("invalid player %q", req.Player)})
		return
	}

	put := d.e.Put(ctx, req.Coords.X, req.Coords.Y, c)
	d.send(Response{Command: CommandPut, Put: &put})
}

func (d *Driver) handleUndo(ctx context.Context) {
	if !d.requireInit(CommandUndo) {
		return
	}

	undone := d.e.Undo(ctx)
	d.send(Response{Command: CommandUndo, Undone: &undone})
}

func (d *Driver) handleAnalyze(ctx context.Context, req Request) {
	if !d.requireInit(CommandAnalyze) {
		return
	}

	id := uuid.New().String()

	budget, err := budgetFromRequest(req)
	if err != nil {
		d.send(Response{Command: CommandAnalyze, ID: id, Error: err.Error()})
		return
	}

	out, err := d.e.StreamAnalyze(ctx, budget)
	if err != nil {
		d.send(Response{Command: CommandAnalyze, ID: id, Error: err.Error()})
		return
	}
	width := d.e.Width()

	go func() {
		var last search.PV
		for pv := range out {
			last = pv
		}
		d.send(Response{Command: CommandAnalyze, ID: id, Moves: toSuggestions(last, width)})
	}()
}

func (d *Driver) send(r Response) {
	b, err := json.Marshal(r)
	if err != nil {
		d.out <- fmt.Sprintf(`{"error":%q}`, err.Error())
		return
	}
	d.out <- string(b)
}

func budgetFromRequest(req Request) (engine.Budget, error) {
	switch {
	case req.DurationMS != nil:
		return engine.WithDuration(time.Duration(*req.DurationMS) * time.Millisecond), nil
	case req.Complexity != nil:
		return engine.WithComplexity(*req.Complexity), nil
	default:
		return engine.Budget{}, fmt.Errorf("analyze requires duration_ms or complexity")
	}
}

func toSuggestions(pv search.PV, width int) []Suggestion {
	if width == 0 || len(pv.Moves) == 0 {
		return nil
	}

	weight := float64(pv.Score)
	suggestions := make([]Suggestion, len(pv.Moves))
	for i, pos := range pv.Moves {
		x, y := field.ToXY(width, pos)
		suggestions[i] = Suggestion{Coords: Coords{X: x, Y: y}, Weight: weight}
	}
	return suggestions
}

func parsePlayer(s string) (field.Color, bool) {
	switch s {
	case "red":
		return field.Red, true
	case "black":
		return field.Black, true
	default:
		return field.ZeroColor, false
	}
}
