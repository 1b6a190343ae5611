package strategy

import (
	"context"

	"dipnego/deal"
	"dipnego/tactics"

	"github.com/rs/zerolog/log"
)

// Search samples candidate deals and keeps the one whose plan beats the plan
// under the confirmed deals alone by the widest margin.
type Search struct {
	planner    tactics.Planner
	candidates Generator
	tries      int
}

func NewSearch(planner tactics.Planner, candidates Generator, tries int) *Search {
	if planner == nil || candidates == nil {
		panic("strategy: search needs a planner and a candidate generator")
	}
	return &Search{planner: planner, candidates: candidates, tries: tries}
}

func (s *Search) Generate(ctx context.Context, c Context) ([]deal.BasicDeal, error) {
	best, err := s.planner.BestPlan(c.State, c.Me, c.Confirmed)
	if err != nil || best == nil {
		// Our commitments are already infeasible; promising more cannot help
		return nil, nil
	}

	var chosen *deal.BasicDeal
	for range s.tries {
		if ctx.Err() != nil {
			break
		}
		candidates, err := s.candidates.Generate(ctx, c)
		if err != nil {
			return nil, err
		}
		for _, d := range candidates {
			plan, err := s.planner.BestPlan(c.State, c.Me, deal.Merge(c.Confirmed, d))
			if err != nil || plan == nil {
				continue
			}
			if plan.Value > best.Value {
				best = plan
				chosen = &d
			}
		}
	}

	if chosen == nil {
		return nil, nil
	}
	log.Debug().Str("power", string(c.Me)).Msgf("search found %s worth %d", chosen, best.Value)
	return []deal.BasicDeal{*chosen}, nil
}
