package tactics

import (
	"cmp"
	"fmt"

	"dipnego/deal"
	"dipnego/game"

	"golang.org/x/exp/slices"
)

// GreedyPlanner is a one-round lookahead planner. It obeys every commitment
// binding the power, sends each free unit to the first neighbouring supply
// center it can take, and scores the result as supply centers held after the
// round.
type GreedyPlanner struct {
	checker ConsistencyChecker
}

func NewGreedyPlanner(checker ConsistencyChecker) *GreedyPlanner {
	if checker == nil {
		checker = NewChecker()
	}
	return &GreedyPlanner{checker: checker}
}

func (p *GreedyPlanner) BestPlan(state *game.GameState, power game.Power, deals []deal.BasicDeal) (*Plan, error) {
	if err := p.checker.CheckConsistency(state, deals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInfeasible, err)
	}

	b := bind(state.Time, deals)
	orders := make([]game.Order, 0, len(state.ControlledTerritories(power)))
	targeted := make(map[game.Territory]bool)

	// Committed units first so free units do not bump into them
	var free []game.Territory
	for _, unit := range state.ControlledTerritories(power) {
		if o, ok := b.orders[unit]; ok && o.Power == power {
			orders = append(orders, o)
			targeted[o.Destination()] = true
			continue
		}
		free = append(free, unit)
	}

	for _, unit := range free {
		o := p.chooseOrder(state, power, unit, b, targeted)
		targeted[o.Destination()] = true
		orders = append(orders, o)
	}

	slices.SortFunc(orders, func(a, b game.Order) int {
		return cmp.Compare(a.Unit, b.Unit)
	})

	return &Plan{Value: p.score(state, power, orders, b), Orders: orders}, nil
}

func (p *GreedyPlanner) chooseOrder(state *game.GameState, power game.Power, unit game.Territory, b binding, targeted map[game.Territory]bool) game.Order {
	m := state.Map
	for _, adj := range m.Adjacent(unit) {
		if !m.IsSupplyCenter(adj) || state.Owners[adj] == power || targeted[adj] || b.forbids(power, adj) {
			continue
		}
		if owner, ok := state.Controller(adj); ok && owner == power {
			continue
		}
		move := game.NewMove(power, unit, adj)
		if b.attackStrength(state, move) > b.defenceStrength(state, adj) {
			return move
		}
	}

	if !b.forbids(power, unit) && !targeted[unit] {
		return game.NewHold(power, unit)
	}

	// Forced out of a demilitarised territory
	for _, adj := range m.Adjacent(unit) {
		if targeted[adj] || b.forbids(power, adj) {
			continue
		}
		if _, occupied := state.Controller(adj); occupied {
			continue
		}
		return game.NewMove(power, unit, adj)
	}
	return game.NewHold(power, unit)
}

// score counts the supply centers power holds after orders: current centers
// plus successful captures minus centers left open to a free enemy unit.
func (p *GreedyPlanner) score(state *game.GameState, power game.Power, orders []game.Order, b binding) int {
	value := state.SupplyCenterCount(power)
	occupied := make(map[game.Territory]bool)
	for _, o := range orders {
		occupied[o.Destination()] = true
		if o.Kind != game.MoveTo || !state.Map.IsSupplyCenter(o.Dest) || state.Owners[o.Dest] == power {
			continue
		}
		if b.attackStrength(state, o) > b.defenceStrength(state, o.Dest) {
			value++
		}
	}

	for _, sc := range state.OwnedSupplyCenters(power) {
		defence := 0
		if occupied[sc] {
			defence = 1 + b.supportsFor(game.NewHold(power, sc))
		}
		if b.threat(state, power, sc) > defence {
			value--
		}
	}
	return value
}

type binding struct {
	orders map[game.Territory]game.Order
	dmzs   []deal.DMZ
	all    []game.Order
}

// bind collects the commitments and DMZs of deals that apply at now.
func bind(now game.Time, deals []deal.BasicDeal) binding {
	b := binding{orders: make(map[game.Territory]game.Order)}
	for _, d := range deals {
		for _, oc := range d.OrderCommitments {
			if oc.Time() == now {
				b.orders[oc.Order.Unit] = oc.Order
				b.all = append(b.all, oc.Order)
			}
		}
		for _, dmz := range d.DMZs {
			if dmz.Time() == now {
				b.dmzs = append(b.dmzs, dmz)
			}
		}
	}
	return b
}

func (b binding) forbids(p game.Power, t game.Territory) bool {
	for _, dmz := range b.dmzs {
		if dmz.Forbids(p, t) {
			return true
		}
	}
	return false
}

// supportsFor counts committed supports for o.
func (b binding) supportsFor(o game.Order) int {
	n := 0
	for _, c := range b.all {
		if supported, ok := c.Supported(); ok && supported == o {
			n++
		}
	}
	return n
}

func (b binding) attackStrength(_ *game.GameState, move game.Order) int {
	return 1 + b.supportsFor(move)
}

func (b binding) defenceStrength(state *game.GameState, t game.Territory) int {
	owner, ok := state.Controller(t)
	if !ok {
		return 0
	}
	if o, committed := b.orders[t]; committed && o.Kind == game.MoveTo {
		return 0
	}
	return 1 + b.supportsFor(game.NewHold(owner, t))
}

// threat is the strongest attack an enemy unit left free by the commitments
// could make on t.
func (b binding) threat(state *game.GameState, power game.Power, t game.Territory) int {
	strongest := 0
	for _, adj := range state.Map.Adjacent(t) {
		enemy, ok := state.Controller(adj)
		if !ok || enemy == power {
			continue
		}
		if b.forbids(enemy, t) {
			continue
		}
		attack := game.NewMove(enemy, adj, t)
		if o, committed := b.orders[adj]; committed && o != attack {
			continue
		}
		strongest = max(strongest, 1+b.supportsFor(attack))
	}
	return strongest
}
