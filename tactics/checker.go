package tactics

import (
	"fmt"

	"dipnego/deal"
	"dipnego/game"
)

type unitKey struct {
	time game.Time
	unit game.Territory
}

// Checker is the reference ConsistencyChecker.
type Checker struct{}

func NewChecker() *Checker {
	return &Checker{}
}

// CheckConsistency rejects deal sets that commit the same unit to two
// different orders in one round, or that commit a power to end an order in a
// territory a DMZ forbids to it in that round.
func (c *Checker) CheckConsistency(_ *game.GameState, deals []deal.BasicDeal) error {
	orders := make(map[unitKey]game.Order)
	dmzs := make(map[game.Time][]deal.DMZ)

	for _, d := range deals {
		for _, dmz := range d.DMZs {
			dmzs[dmz.Time()] = append(dmzs[dmz.Time()], dmz)
		}
	}

	for _, d := range deals {
		for _, oc := range d.OrderCommitments {
			key := unitKey{time: oc.Time(), unit: oc.Order.Unit}
			if existing, ok := orders[key]; ok && existing != oc.Order {
				return fmt.Errorf("%w: %s conflicts with %s", ErrInconsistent, oc.Order, existing)
			}
			orders[key] = oc.Order

			for _, dmz := range dmzs[oc.Time()] {
				if dmz.Forbids(oc.Order.Power, oc.Order.Destination()) {
					return fmt.Errorf("%w: %s ends in demilitarised %s", ErrInconsistent, oc, oc.Order.Destination())
				}
			}
		}
	}
	return nil
}

// CheckValidity checks commitments for the current round against the board:
// ordered units must exist and belong to the ordering power, and moves and
// supports must follow borders. Future rounds cannot be checked and pass.
func (c *Checker) CheckValidity(state *game.GameState, d deal.BasicDeal) error {
	for _, dmz := range d.DMZs {
		for _, t := range dmz.Territories {
			if _, ok := state.Map.Provinces[t]; !ok {
				return fmt.Errorf("%w: unknown territory %s", ErrInvalid, t)
			}
		}
	}

	for _, oc := range d.OrderCommitments {
		if oc.Time() != state.Time {
			continue
		}
		if err := c.CheckOrder(state, oc.Order); err != nil {
			return err
		}
	}
	return nil
}

// CheckOrder checks a single order against the board.
func (c *Checker) CheckOrder(state *game.GameState, o game.Order) error {
	if !o.IsWellFormed() {
		return fmt.Errorf("%w: malformed order %s", ErrInvalid, o)
	}
	if owner, ok := state.Controller(o.Unit); !ok || owner != o.Power {
		return fmt.Errorf("%w: %s has no unit in %s", ErrInvalid, o.Power, o.Unit)
	}

	m := state.Map
	switch o.Kind {
	case game.MoveTo:
		if !m.AreAdjacent(o.Unit, o.Dest) {
			return fmt.Errorf("%w: %s cannot reach %s", ErrInvalid, o.Unit, o.Dest)
		}
	case game.Support:
		if owner, ok := state.Controller(o.SupportedUnit); !ok || owner != o.SupportedPower {
			return fmt.Errorf("%w: %s has no unit in %s to support", ErrInvalid, o.SupportedPower, o.SupportedUnit)
		}
		if !m.AreAdjacent(o.Unit, o.SupportedUnit) {
			return fmt.Errorf("%w: %s cannot support %s", ErrInvalid, o.Unit, o.SupportedUnit)
		}
	case game.SupportMoveTo:
		if owner, ok := state.Controller(o.SupportedUnit); !ok || owner != o.SupportedPower {
			return fmt.Errorf("%w: %s has no unit in %s to support", ErrInvalid, o.SupportedPower, o.SupportedUnit)
		}
		if !m.AreAdjacent(o.Unit, o.Dest) || !m.AreAdjacent(o.SupportedUnit, o.Dest) {
			return fmt.Errorf("%w: %s cannot support %s into %s", ErrInvalid, o.Unit, o.SupportedUnit, o.Dest)
		}
	}
	return nil
}
