// Package strategy produces candidate deals for the negotiator to propose.
package strategy

import (
	"context"

	"dipnego/deal"
	"dipnego/game"

	"golang.org/x/exp/slices"
)

// Context is everything a generator may look at when building deals.
type Context struct {
	State       *game.GameState
	Me          game.Power
	Negotiating []game.Power // alive powers other than Me, sorted
	Confirmed   []deal.BasicDeal
}

// NewContext derives the negotiating powers from the alive powers in state.
func NewContext(state *game.GameState, me game.Power, confirmed []deal.BasicDeal) Context {
	negotiating := slices.DeleteFunc(state.AlivePowers(), func(p game.Power) bool { return p == me })
	return Context{
		State:       state,
		Me:          me,
		Negotiating: negotiating,
		Confirmed:   confirmed,
	}
}

// IsNegotiating reports whether p is one of the other negotiating powers.
func (c Context) IsNegotiating(p game.Power) bool {
	_, found := slices.BinarySearch(c.Negotiating, p)
	return found
}

// Generator returns zero or more deals to propose. Returning no deal is not
// an error; errors report a failing collaborator.
type Generator interface {
	Generate(ctx context.Context, c Context) ([]deal.BasicDeal, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, c Context) ([]deal.BasicDeal, error)

func (f GeneratorFunc) Generate(ctx context.Context, c Context) ([]deal.BasicDeal, error) {
	return f(ctx, c)
}

// keepValid drops every deal failing the structural invariants for me.
func keepValid(me game.Power, deals []deal.BasicDeal) []deal.BasicDeal {
	return slices.DeleteFunc(deals, func(d deal.BasicDeal) bool {
		return d.Validate(me) != nil
	})
}
