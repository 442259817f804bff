package sgf_test

import (
	"testing"

	"github.com/herohde/dots/pkg/engine/sgf"
	"github.com/herohde/dots/pkg/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(w, h int) *field.Board {
	zt := field.NewZobristTable(field.Length(w, h), 1)
	return field.NewBoard(w, h, zt)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b := newTestBoard(9, 9)
	require.True(t, b.PutPoint(field.ToPos(9, 4, 4), field.Red))
	require.True(t, b.PutPoint(field.ToPos(9, 4, 5), field.Black))
	require.True(t, b.PutPoint(field.ToPos(9, 5, 4), field.Red))

	record, err := sgf.Encode(b)
	require.NoError(t, err)
	assert.Contains(t, record, "GM[40]")
	assert.Contains(t, record, "SZ[9:9]")

	zt := field.NewZobristTable(field.Length(9, 9), 1)
	decoded, err := sgf.Decode(record, zt)
	require.NoError(t, err)

	assert.Equal(t, b.Moves(), decoded.Moves())
	assert.Equal(t, b.Score(field.Red), decoded.Score(field.Red))
	assert.Equal(t, b.Score(field.Black), decoded.Score(field.Black))
}

func TestEncodeMoveColorFollowsWhoPlayedIt(t *testing.T) {
	// Four Red stones enclose a lone Black stone: the Black stone is
	// captured and its cell's *current* owner becomes Red, but the SGF
	// record must still tag the node with B[], the color that played it.
	b := newTestBoard(9, 9)
	require.True(t, b.PutPoint(field.ToPos(9, 4, 3), field.Red))
	require.True(t, b.PutPoint(field.ToPos(9, 4, 4), field.Black))
	require.True(t, b.PutPoint(field.ToPos(9, 3, 4), field.Red))
	require.True(t, b.PutPoint(field.ToPos(9, 5, 5), field.Black))
	require.True(t, b.PutPoint(field.ToPos(9, 5, 4), field.Red))
	require.True(t, b.PutPoint(field.ToPos(9, 0, 0), field.Black))
	require.True(t, b.PutPoint(field.ToPos(9, 4, 5), field.Red))
	require.True(t, b.Cell(field.ToPos(9, 4, 4)).IsCaptured())

	record, err := sgf.Encode(b)
	require.NoError(t, err)

	// Moves in order: W B W B W B W -- Red is W, Black is B.
	assert.Regexp(t, `;W\[.{2}\];B\[.{2}\];W\[.{2}\];B\[.{2}\];W\[.{2}\];B\[.{2}\];W\[.{2}\]\)$`, record)
}

func TestDecodeRejectsWrongGameKind(t *testing.T) {
	zt := field.NewZobristTable(field.Length(9, 9), 1)
	_, err := sgf.Decode("(;GM[1]SZ[9:9])", zt)
	assert.Error(t, err)
}

func TestDecodeRejectsIllegalMove(t *testing.T) {
	zt := field.NewZobristTable(field.Length(9, 9), 1)
	// Same cell played twice.
	_, err := sgf.Decode("(;GM[40]SZ[9:9];W[ee];B[ee])", zt)
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	w, h, err := sgf.ParseSize("(;GM[40]SZ[13:19];W[gg])")
	require.NoError(t, err)
	assert.Equal(t, 13, w)
	assert.Equal(t, 19, h)
}

func TestCoordinateAlphabetCoversLargeBoards(t *testing.T) {
	b := newTestBoard(40, 40)
	require.True(t, b.PutPoint(field.ToPos(40, 30, 35), field.Red))

	record, err := sgf.Encode(b)
	require.NoError(t, err)

	zt := field.NewZobristTable(field.Length(40, 40), 1)
	decoded, err := sgf.Decode(record, zt)
	require.NoError(t, err)
	assert.Equal(t, b.Moves(), decoded.Moves())
}
