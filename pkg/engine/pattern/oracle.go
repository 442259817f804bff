// Package pattern implements an external pattern oracle: a collaborator the
// bot facade consults for forced-move suggestions before falling back to
// search. Grounded on original_source/src/{patterns,dfa}.rs.
package pattern

import (
	"context"

	"github.com/herohde/dots/pkg/field"
)

// Oracle suggests candidate moves for player c on board b. The result is
// unordered; firstMatch instructs the oracle to return as soon as any
// pattern matches rather than scanning for every match.
type Oracle interface {
	Suggest(ctx context.Context, b *field.Board, c field.Color, firstMatch bool) ([]field.Pos, error)
}

// NopOracle never suggests a move. It is the bot facade's default collaborator.
type NopOracle struct{}

func (NopOracle) Suggest(context.Context, *field.Board, field.Color, bool) ([]field.Pos, error) {
	return nil, nil
}
