package proto_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/herohde/dots/pkg/engine"
	"github.com/herohde/dots/pkg/engine/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDriver(ctx context.Context) (*proto.Driver, chan string, <-chan string) {
	in := make(chan string, 16)
	e := engine.New(ctx, "test", "suite", engine.WithOptions(engine.Options{Engine: engine.KindHeuristic}))
	d, out := proto.NewDriver(ctx, e, in)
	return d, in, out
}

func recv(t *testing.T, out <-chan string) proto.Response {
	t.Helper()
	select {
	case line := <-out:
		var resp proto.Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		return resp
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for response")
		return proto.Response{}
	}
}

func TestCommandBeforeInitReturnsNotInitialized(t *testing.T) {
	ctx := context.Background()
	_, in, out := newTestDriver(ctx)
	defer close(in)

	in <- `{"command":"put","coords":{"x":0,"y":0},"player":"red"}`
	resp := recv(t, out)
	assert.Equal(t, "not initialized", resp.Error)
}

func TestInitPutUndoSequence(t *testing.T) {
	ctx := context.Background()
	_, in, out := newTestDriver(ctx)
	defer close(in)

	in <- `{"command":"init","width":9,"height":9}`
	resp := recv(t, out)
	require.Empty(t, resp.Error)
	assert.Equal(t, proto.CommandInit, resp.Command)

	in <- `{"command":"put","coords":{"x":4,"y":4},"player":"red"}`
	resp = recv(t, out)
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Put)
	assert.True(t, *resp.Put)

	in <- `{"command":"undo"}`
	resp = recv(t, out)
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Undone)
	assert.True(t, *resp.Undone)
}

func TestPutRejectsInvalidPlayer(t *testing.T) {
	ctx := context.Background()
	_, in, out := newTestDriver(ctx)
	defer close(in)

	in <- `{"command":"init","width":9,"height":9}`
	recv(t, out)

	in <- `{"command":"put","coords":{"x":0,"y":0},"player":"green"}`
	resp := recv(t, out)
	assert.Contains(t, resp.Error, "invalid player")
}

func TestPutRejectsMissingCoords(t *testing.T) {
	ctx := context.Background()
	_, in, out := newTestDriver(ctx)
	defer close(in)

	in <- `{"command":"init","width":9,"height":9}`
	recv(t, out)

	in <- `{"command":"put","player":"red"}`
	resp := recv(t, out)
	assert.Contains(t, resp.Error, "missing coords")
}

func TestInitRejectsNonPositiveSize(t *testing.T) {
	ctx := context.Background()
	_, in, out := newTestDriver(ctx)
	defer close(in)

	in <- `{"command":"init","width":0,"height":9}`
	resp := recv(t, out)
	assert.NotEmpty(t, resp.Error)
}

func TestMalformedRequestReturnsError(t *testing.T) {
	ctx := context.Background()
	_, in, out := newTestDriver(ctx)
	defer close(in)

	in <- `{not json`
	resp := recv(t, out)
	assert.Contains(t, resp.Error, "malformed request")
}

func TestUnknownCommandReturnsError(t *testing.T) {
	ctx := context.Background()
	_, in, out := newTestDriver(ctx)
	defer close(in)

	in <- `{"command":"castle"}`
	resp := recv(t, out)
	assert.Contains(t, resp.Error, "unknown command")
}

func TestAnalyzeRequiresDurationOrComplexity(t *testing.T) {
	ctx := context.Background()
	_, in, out := newTestDriver(ctx)
	defer close(in)

	in <- `{"command":"init","width":9,"height":9}`
	recv(t, out)

	in <- `{"command":"analyze"}`
	resp := recv(t, out)
	assert.Contains(t, resp.Error, "duration_ms or complexity")
}

func TestAnalyzeReturnsSuggestionsWithID(t *testing.T) {
	ctx := context.Background()
	_, in, out := newTestDriver(ctx)
	defer close(in)

	in <- `{"command":"init","width":9,"height":9}`
	recv(t, out)
	in <- `{"command":"put","coords":{"x":4,"y":4},"player":"red"}`
	recv(t, out)
	in <- `{"command":"put","coords":{"x":4,"y":5},"player":"black"}`
	recv(t, out)

	in <- `{"command":"analyze","complexity":1}`
	resp := recv(t, out)
	require.Empty(t, resp.Error)
	assert.NotEmpty(t, resp.ID)
	require.NotEmpty(t, resp.Moves)
	assert.Equal(t, proto.CommandAnalyze, resp.Command)
}

func TestCloseStopsProcessing(t *testing.T) {
	ctx := context.Background()
	d, in, out := newTestDriver(ctx)
	defer close(in)

	d.Close()
	select {
	case <-d.Closed():
	case <-time.After(time.Second):
		t.Fatal("driver did not close")
	}

	_, ok := <-out
	assert.False(t, ok, "out channel should be closed once the driver stops")
}
