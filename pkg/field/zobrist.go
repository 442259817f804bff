package field

import "math/rand"

// ZobristHash is a position hash based on owner-labeled cells. It is the XOR
// of per-(position, color) random bitstrings for every non-empty cell, and
// updates incrementally as cells change owner.
//
// See also: https://research.cs.wisc.edu/techreports/1970/TR88.pdf.
type ZobristHash uint64

// ZobristTable is a pseudo-randomized, immutable table for computing incremental
// position hashes. Shared (read-only) across every Board forked from the same game.
type ZobristTable struct {
	hashes []ZobristHash // [0, length) for Red, [length, 2*length) for Black
	length Pos
}

// NewZobristTable returns a table sized for a board of the given length, with
// 2*length random 64-bit keys (one per position per color).
func NewZobristTable(length Pos, seed int64) *ZobristTable {
	r := rand.New(rand.NewSource(seed))

	hashes := make([]ZobristHash, 2*length)
	for i := range hashes {
		hashes[i] = ZobristHash(r.Uint64())
	}
	return &ZobristTable{hashes: hashes, length: length}
}

// Get returns the random key for the given position and color.
func (z *ZobristTable) Get(pos Pos, c Color) ZobristHash {
	if c == Red {
		return z.hashes[pos]
	}
	return z.hashes[z.length+pos]
}
