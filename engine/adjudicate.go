package engine

import (
	"dipnego/game"
	"dipnego/tactics"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Adjudicate plays orders on state and returns the board of the following
// round. Movement rounds resolve moves, supports and bounces with a simplified
// resolver: dislodged units are removed rather than retreating, and a closed
// rotation of three or more unopposed moves succeeds as a whole. Autumn hands
// occupied supply centers to the occupier and Winter builds or disbands until
// each power's unit count matches its supply centers.
func Adjudicate(state *game.GameState, orders []game.Order) *game.GameState {
	next := state.Copy()
	next.Time = state.Time.Advance(1)

	switch state.Time.Phase {
	case game.Spring, game.Fall:
		next.Units = resolveMoves(state, orders)
	case game.Autumn:
		for t, p := range next.Units {
			if next.Map.IsSupplyCenter(t) {
				next.SetOwner(p, t)
			}
		}
	case game.Winter:
		adjustUnits(next)
	}
	return next
}

func resolveMoves(state *game.GameState, orders []game.Order) map[game.Territory]game.Power {
	checker := tactics.NewChecker()

	orderOf := make(map[game.Territory]game.Order, len(state.Units))
	for _, o := range orders {
		if err := checker.CheckOrder(state, o); err != nil {
			log.Debug().Str("power", string(o.Power)).Msgf("ignoring order: %v", err)
			continue
		}
		if _, ok := orderOf[o.Unit]; ok {
			continue
		}
		orderOf[o.Unit] = o
	}
	for unit, p := range state.Units {
		if _, ok := orderOf[unit]; !ok {
			orderOf[unit] = game.NewHold(p, unit)
		}
	}

	// Supports for a hold count for any unit that stays put.
	support := make(map[game.Order]int)
	for _, o := range orderOf {
		supported, ok := o.Supported()
		if !ok {
			continue
		}
		actual := orderOf[supported.Unit]
		switch {
		case supported.Kind == game.MoveTo && actual == supported:
			support[supported]++
		case supported.Kind == game.Hold && actual.Kind != game.MoveTo:
			support[supported]++
		}
	}

	var moves []game.Order
	for _, o := range orderOf {
		if o.Kind == game.MoveTo {
			moves = append(moves, o)
		}
	}

	r := &resolver{orderOf: orderOf, support: support, moves: moves, succeeded: make(map[game.Territory]bool)}
	r.settle()
	if r.rotate() {
		r.settle()
	}

	entered := make(map[game.Territory]bool)
	for _, m := range moves {
		if r.succeeded[m.Unit] {
			entered[m.Dest] = true
		}
	}

	units := make(map[game.Territory]game.Power, len(state.Units))
	for unit, o := range orderOf {
		if o.Kind == game.MoveTo && r.succeeded[unit] {
			continue
		}
		if entered[unit] {
			log.Debug().Str("power", string(o.Power)).Msgf("unit in %s dislodged", unit)
			continue
		}
		units[unit] = o.Power
	}
	for _, m := range moves {
		if r.succeeded[m.Unit] {
			units[m.Dest] = m.Power
		}
	}
	return units
}

type resolver struct {
	orderOf   map[game.Territory]game.Order
	support   map[game.Order]int
	moves     []game.Order
	succeeded map[game.Territory]bool
}

// settle re-evaluates every move until no outcome changes.
func (r *resolver) settle() {
	for range len(r.moves) + 1 {
		changed := false
		for _, m := range r.moves {
			ok := r.succeeds(m)
			if ok != r.succeeded[m.Unit] {
				r.succeeded[m.Unit] = ok
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// rotate lets failed moves that chase each other round a closed loop of three
// or more succeed together, provided no other move contests any square of it.
func (r *resolver) rotate() bool {
	rotated := false
	for _, start := range r.moves {
		if r.succeeded[start.Unit] {
			continue
		}
		cycle := []game.Order{start}
		for cur := start; ; {
			if !r.unopposed(cur) {
				cycle = nil
				break
			}
			next, ok := r.orderOf[cur.Dest]
			if !ok || next.Kind != game.MoveTo || r.succeeded[next.Unit] {
				cycle = nil
				break
			}
			if next == start {
				break
			}
			if slices.Contains(cycle, next) {
				cycle = nil
				break
			}
			cycle = append(cycle, next)
			cur = next
		}
		if len(cycle) < 3 {
			continue
		}
		for _, m := range cycle {
			r.succeeded[m.Unit] = true
		}
		rotated = true
	}
	return rotated
}

// unopposed reports whether m is stronger than every other move into its destination.
func (r *resolver) unopposed(m game.Order) bool {
	attack := r.strength(m)
	for _, other := range r.moves {
		if other != m && other.Dest == m.Dest && r.strength(other) >= attack {
			return false
		}
	}
	return true
}

func (r *resolver) strength(m game.Order) int {
	return 1 + r.support[m]
}

func (r *resolver) succeeds(m game.Order) bool {
	if !r.unopposed(m) {
		return false
	}
	attack := r.strength(m)

	occupant, occupied := r.orderOf[m.Dest]
	if !occupied {
		return true
	}
	if occupant.Kind == game.MoveTo {
		if occupant.Dest == m.Unit {
			// head to head
			return occupant.Power != m.Power && attack > r.strength(occupant)
		}
		if r.succeeded[occupant.Unit] {
			return true
		}
		return occupant.Power != m.Power && attack > 1
	}
	defence := 1 + r.support[game.NewHold(occupant.Power, occupant.Unit)]
	return occupant.Power != m.Power && attack > defence
}

// adjustUnits disbands surplus units, last territory first, and builds on
// vacant owned supply centers.
func adjustUnits(next *game.GameState) {
	for _, p := range next.Powers {
		units := next.ControlledTerritories(p)
		centers := next.OwnedSupplyCenters(p)
		for len(units) > len(centers) {
			last := units[len(units)-1]
			delete(next.Units, last)
			units = units[:len(units)-1]
			log.Debug().Str("power", string(p)).Msgf("disbanded unit in %s", last)
		}
		for _, sc := range centers {
			if len(units) >= len(centers) {
				break
			}
			if _, occupied := next.Controller(sc); occupied {
				continue
			}
			next.PlaceUnit(p, sc)
			units = append(units, sc)
			log.Debug().Str("power", string(p)).Msgf("built unit in %s", sc)
		}
	}
}
