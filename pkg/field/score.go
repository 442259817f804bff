package field

import "fmt"

// Score is a signed capture-count differential: red captures minus black captures,
// from the perspective it is read. Unlike chess pawn scores, this is an exact integer
// count, not a heuristic estimate.
type Score int32

func (s Score) String() string {
	return fmt.Sprintf("%+d", int32(s))
}

// Max returns the largest of the given scores.
func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

// Min returns the smallest of the given scores.
func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
