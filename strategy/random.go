package strategy

import (
	"context"
	"math/rand/v2"

	"dipnego/deal"
	"dipnego/game"

	"golang.org/x/exp/slices"
)

// Random builds exploratory deals for the current round: a few DMZs between
// us and a random other power over random territories, and a few hold or
// move commitments for random units that respect those DMZs.
type Random struct {
	rng             *rand.Rand
	dmzs            int
	commitments     int
	provincesPerDMZ int
}

type RandomOption func(*Random)

// WithCounts sets how many DMZs and order commitments a deal carries.
// Negative counts are treated as zero.
func WithCounts(dmzs, commitments int) RandomOption {
	return func(r *Random) {
		r.dmzs = max(dmzs, 0)
		r.commitments = max(commitments, 0)
	}
}

// WithProvincesPerDMZ sets how many territories each DMZ draws, at least one.
func WithProvincesPerDMZ(n int) RandomOption {
	return func(r *Random) {
		r.provincesPerDMZ = max(n, 1)
	}
}

// NewRandom draws from rng so that seeded runs are reproducible.
func NewRandom(rng *rand.Rand, opts ...RandomOption) *Random {
	if rng == nil {
		panic("strategy: nil random source")
	}
	r := &Random{rng: rng, dmzs: 3, commitments: 3, provincesPerDMZ: 3}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Random) Generate(_ context.Context, c Context) ([]deal.BasicDeal, error) {
	d, ok := r.Deal(c)
	if !ok {
		return nil, nil
	}
	return []deal.BasicDeal{d}, nil
}

// Deal returns one random deal, or false when nothing sensible can be built.
func (r *Random) Deal(c Context) (deal.BasicDeal, bool) {
	if len(c.Negotiating) == 0 {
		return deal.BasicDeal{}, false
	}
	now := c.State.Time
	territories := c.State.Map.Territories()

	dmzs := make([]deal.DMZ, 0, r.dmzs)
	for range r.dmzs {
		other := c.Negotiating[r.rng.IntN(len(c.Negotiating))]
		var picked []game.Territory
		for range r.provincesPerDMZ {
			t := territories[r.rng.IntN(len(territories))]
			if !slices.Contains(picked, t) {
				picked = append(picked, t)
			}
		}
		dmzs = append(dmzs, deal.NewDMZ(now, []game.Power{c.Me, other}, picked))
	}

	// Units of every negotiating power, us included
	var units []game.Territory
	for _, p := range append([]game.Power{c.Me}, c.Negotiating...) {
		units = append(units, c.State.ControlledTerritories(p)...)
	}

	commitments := make([]deal.OrderCommitment, 0, r.commitments)
	for range r.commitments {
		if len(units) == 0 {
			break
		}
		i := r.rng.IntN(len(units))
		unit := units[i]
		units = slices.Delete(units, i, i+1)

		power, _ := c.State.Controller(unit)
		var destinations []game.Territory
		for _, t := range append(c.State.Map.Adjacent(unit), unit) {
			if !forbidden(dmzs, power, t) {
				destinations = append(destinations, t)
			}
		}
		if len(destinations) == 0 {
			continue
		}

		dest := destinations[r.rng.IntN(len(destinations))]
		order := game.NewHold(power, unit)
		if dest != unit {
			order = game.NewMove(power, unit, dest)
		}
		commitments = append(commitments, deal.NewOrderCommitment(now, order))
	}

	d := deal.NewBasicDeal(commitments, dmzs)
	if d.Validate(c.Me) != nil {
		return deal.BasicDeal{}, false
	}
	return d, true
}

func forbidden(dmzs []deal.DMZ, p game.Power, t game.Territory) bool {
	for _, dmz := range dmzs {
		if dmz.Forbids(p, t) {
			return true
		}
	}
	return false
}
