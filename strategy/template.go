package strategy

import (
	"context"
	"fmt"

	"dipnego/deal"
	"dipnego/game"

	"github.com/rs/zerolog/log"
)

// Template builds the four fixed deal shapes the source asks for. Territories
// and powers are visited alphabetically so the same board always yields the
// same deals.
type Template struct {
	source Source
}

func NewTemplate(source Source) *Template {
	if source == nil {
		panic("strategy: nil suggestion source")
	}
	return &Template{source: source}
}

func (g *Template) Generate(ctx context.Context, c Context) ([]deal.BasicDeal, error) {
	s, err := g.source.Suggest(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}

	t := c.State.Time.Advance(max(s.PhasesAhead, 0))
	units := c.State.ControlledTerritories(c.Me)

	var deals []deal.BasicDeal
	add := func(d deal.BasicDeal, ok bool) {
		if ok {
			deals = append(deals, d)
		}
	}

	if s.DefendUnit.Execute {
		if i, ok := clip(s.DefendUnit.Index, len(units)); ok {
			add(MutualDefend(c, units[i], t))
		}
	}
	if s.DefendSC.Execute {
		if i, ok := clip(s.DefendSC.Index, len(c.Negotiating)); ok {
			add(MutualDMZ(c, c.Negotiating[i], t))
		}
	}
	if s.Attack.Execute {
		if i, ok := clip(s.Attack.Index, len(units)); ok {
			add(Attack(c, units[i], t))
		}
	}
	if s.SupportAttack.Execute {
		if i, ok := clip(s.SupportAttack.Index, len(units)); ok {
			add(SupportAttack(c, units[i], t))
		}
	}

	deals = keepValid(c.Me, deals)
	log.Debug().Str("power", string(c.Me)).Msgf("template generated %d deals for %s", len(deals), t)
	return deals, nil
}

// MutualDefend pairs our unit in ours with the first neighbouring unit of a
// negotiating power: each supports the other holding.
func MutualDefend(c Context, ours game.Territory, t game.Time) (deal.BasicDeal, bool) {
	if !ownedBy(c, ours) {
		return deal.BasicDeal{}, false
	}
	for _, adj := range c.State.Map.Adjacent(ours) {
		ally, ok := c.State.Controller(adj)
		if !ok || !c.IsNegotiating(ally) {
			continue
		}
		return deal.NewBasicDeal([]deal.OrderCommitment{
			deal.NewOrderCommitment(t, game.NewSupport(c.Me, ours, game.NewHold(ally, adj))),
			deal.NewOrderCommitment(t, game.NewSupport(ally, adj, game.NewHold(c.Me, ours))),
		}, nil), true
	}
	return deal.BasicDeal{}, false
}

// MutualDMZ proposes that we and ally keep out of each other's supply centers.
func MutualDMZ(c Context, ally game.Power, t game.Time) (deal.BasicDeal, bool) {
	if ally == c.Me || !c.IsNegotiating(ally) {
		return deal.BasicDeal{}, false
	}
	territories := append(c.State.OwnedSupplyCenters(ally), c.State.OwnedSupplyCenters(c.Me)...)
	if len(territories) == 0 {
		return deal.BasicDeal{}, false
	}
	powers := []game.Power{c.Me, ally}
	return deal.NewBasicDeal(nil, []deal.DMZ{deal.NewDMZ(t, powers, territories)}), true
}

// Attack moves our unit in ours into a neighbour, supported by a unit of a
// third negotiating power that borders the target.
func Attack(c Context, ours game.Territory, t game.Time) (deal.BasicDeal, bool) {
	if !ownedBy(c, ours) {
		return deal.BasicDeal{}, false
	}
	m := c.State.Map
	for _, target := range m.Adjacent(ours) {
		victim, occupied := c.State.Controller(target)
		if occupied && victim == c.Me {
			continue
		}
		move := game.NewMove(c.Me, ours, target)

		for _, from := range m.Adjacent(target) {
			if from == ours {
				continue
			}
			supporter, ok := c.State.Controller(from)
			if !ok || (occupied && supporter == victim) || !c.IsNegotiating(supporter) {
				continue
			}
			return deal.NewBasicDeal([]deal.OrderCommitment{
				deal.NewOrderCommitment(t, move),
				deal.NewOrderCommitment(t, game.NewSupportMove(supporter, from, move)),
			}, nil), true
		}
	}
	return deal.BasicDeal{}, false
}

// SupportAttack is Attack with the roles swapped: a negotiating power moves
// into a neighbour of ours and our unit supports the move.
func SupportAttack(c Context, ours game.Territory, t game.Time) (deal.BasicDeal, bool) {
	if !ownedBy(c, ours) {
		return deal.BasicDeal{}, false
	}
	m := c.State.Map
	for _, target := range m.Adjacent(ours) {
		victim, occupied := c.State.Controller(target)
		if occupied && victim == c.Me {
			continue
		}

		for _, from := range m.Adjacent(target) {
			if from == ours {
				continue
			}
			ally, ok := c.State.Controller(from)
			if !ok || (occupied && ally == victim) || !c.IsNegotiating(ally) {
				continue
			}
			move := game.NewMove(ally, from, target)
			return deal.NewBasicDeal([]deal.OrderCommitment{
				deal.NewOrderCommitment(t, move),
				deal.NewOrderCommitment(t, game.NewSupportMove(c.Me, ours, move)),
			}, nil), true
		}
	}
	return deal.BasicDeal{}, false
}

func ownedBy(c Context, unit game.Territory) bool {
	owner, ok := c.State.Controller(unit)
	return ok && owner == c.Me
}
