// Package tactics defines the planner and consistency checker the negotiator
// consults, together with simple reference implementations of both.
package tactics

import (
	"errors"

	"dipnego/deal"
	"dipnego/game"
)

var (
	// ErrInfeasible is returned when no plan satisfies a set of commitments.
	ErrInfeasible = errors.New("no feasible plan")
	// ErrInconsistent is returned when a set of deals cannot be jointly obeyed.
	ErrInconsistent = errors.New("deals are inconsistent")
	// ErrInvalid is returned when a deal refers to units or borders that do not exist.
	ErrInvalid = errors.New("deal is invalid on the current board")
)

// Plan is the planner's recommended orders for one power and the number of
// supply centers it expects to hold after playing them.
type Plan struct {
	Value  int
	Orders []game.Order
}

// Planner returns the best plan for power under a set of binding deals.
// A nil plan or an error means no feasible plan exists. Implementations must
// not modify state.
type Planner interface {
	BestPlan(state *game.GameState, power game.Power, deals []deal.BasicDeal) (*Plan, error)
}

// ConsistencyChecker decides whether deals can be obeyed together and whether
// a single deal makes sense on the current board. Both are pure functions of
// their inputs; a nil error means consistent / valid.
type ConsistencyChecker interface {
	CheckConsistency(state *game.GameState, deals []deal.BasicDeal) error
	CheckValidity(state *game.GameState, d deal.BasicDeal) error
}
