package pattern

import (
	"context"
	"io"

	"github.com/herohde/dots/pkg/field"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// FileOracle matches every compiled pattern variant against every board
// position, returning the suggested moves of whichever patterns match.
type FileOracle struct {
	variants [][]*dfa
}

// LoadPatterns parses r as a pattern file and compiles every pattern into
// its 8 symmetry variants.
func LoadPatterns(r io.Reader) (*FileOracle, error) {
	patterns, err := ParsePatterns(r)
	if err != nil {
		return nil, err
	}

	o := &FileOracle{variants: make([][]*dfa, len(patterns))}
	for i, p := range patterns {
		o.variants[i] = compileVariants(p)
	}
	return o, nil
}

func (o *FileOracle) Suggest(ctx context.Context, b *field.Board, c field.Color, firstMatch bool) ([]field.Pos, error) {
	var suggestions []field.Pos

	for pos := b.MinPos(); pos <= b.MaxPos(); pos++ {
		if contextx.IsCancelled(ctx) {
			return suggestions, nil
		}
		if !b.IsPuttingAllowed(pos) && !b.Cell(pos).IsEmptyBase() {
			continue
		}

		for _, variants := range o.variants {
			for _, d := range variants {
				moves, ok := d.match(b, pos, c)
				if !ok {
					continue
				}
				suggestions = append(suggestions, moves...)
				if firstMatch && len(suggestions) > 0 {
					return suggestions, nil
				}
			}
		}
	}
	return suggestions, nil
}
