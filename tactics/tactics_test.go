package tactics

import (
	"testing"

	"dipnego/deal"
	"dipnego/game"

	"github.com/stretchr/testify/require"
)

var spring1901 = game.Time{Year: 1901, Phase: game.Spring}

func commit(orders ...game.Order) deal.BasicDeal {
	ocs := make([]deal.OrderCommitment, 0, len(orders))
	for _, o := range orders {
		ocs = append(ocs, deal.NewOrderCommitment(spring1901, o))
	}
	return deal.NewBasicDeal(ocs, nil)
}

func dmz(t game.Time, powers []game.Power, territories ...game.Territory) deal.BasicDeal {
	return deal.NewBasicDeal(nil, []deal.DMZ{deal.NewDMZ(t, powers, territories)})
}

// A lone French army in Picardy with Paris behind it.
func picardyState() *game.GameState {
	gs := game.NewGameState(game.CreateMap(), spring1901, "FRA", "GER")
	gs.PlaceUnit("FRA", "PIC")
	gs.SetOwner("FRA", "PAR")
	return gs
}

func TestCheckConsistency(t *testing.T) {
	c := NewChecker()
	gs := game.StandardGame()

	t.Run("Disjoint commitments are consistent", func(t *testing.T) {
		deals := []deal.BasicDeal{
			commit(game.NewMove("FRA", "PAR", "BUR")),
			commit(game.NewHold("GER", "MUN")),
		}
		require.NoError(t, c.CheckConsistency(gs, deals))
	})

	t.Run("Two orders for one unit", func(t *testing.T) {
		deals := []deal.BasicDeal{
			commit(game.NewMove("FRA", "PAR", "BUR")),
			commit(game.NewHold("FRA", "PAR")),
		}
		require.ErrorIs(t, c.CheckConsistency(gs, deals), ErrInconsistent)
	})

	t.Run("Repeated identical order", func(t *testing.T) {
		deals := []deal.BasicDeal{
			commit(game.NewHold("FRA", "PAR")),
			commit(game.NewHold("FRA", "PAR")),
		}
		require.NoError(t, c.CheckConsistency(gs, deals))
	})

	t.Run("Move into a DMZ", func(t *testing.T) {
		deals := []deal.BasicDeal{
			commit(game.NewMove("FRA", "PAR", "BUR")),
			dmz(spring1901, []game.Power{"FRA", "GER"}, "BUR"),
		}
		require.ErrorIs(t, c.CheckConsistency(gs, deals), ErrInconsistent)
	})

	t.Run("DMZ in another round", func(t *testing.T) {
		deals := []deal.BasicDeal{
			commit(game.NewMove("FRA", "PAR", "BUR")),
			dmz(spring1901.Advance(2), []game.Power{"FRA", "GER"}, "BUR"),
		}
		require.NoError(t, c.CheckConsistency(gs, deals))
	})
}

func TestCheckValidity(t *testing.T) {
	c := NewChecker()
	gs := game.StandardGame()

	tests := []struct {
		name  string
		deal  deal.BasicDeal
		valid bool
	}{
		{"Move to a neighbour", commit(game.NewMove("FRA", "PAR", "BUR")), true},
		{"Move across the map", commit(game.NewMove("FRA", "PAR", "MUN")), false},
		{"Order for someone else's unit", commit(game.NewHold("FRA", "MUN")), false},
		{"Order for an empty territory", commit(game.NewHold("FRA", "BUR")), false},
		{"Support a neighbour", commit(game.NewSupport("GER", "KIE", game.NewHold("GER", "BER"))), true},
		{"Support out of reach", commit(game.NewSupport("GER", "BER", game.NewHold("FRA", "PAR"))), false},
		{"Support a move", commit(game.NewSupportMove("GER", "MUN", game.NewMove("FRA", "PAR", "BUR"))), true},
		{"Unknown DMZ territory", dmz(spring1901, []game.Power{"FRA", "GER"}, "ATLANTIS"), false},
		{
			"Future commitments are not checked",
			deal.NewBasicDeal([]deal.OrderCommitment{
				deal.NewOrderCommitment(spring1901.Advance(2), game.NewHold("FRA", "MUN")),
			}, nil),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.CheckValidity(gs, tt.deal)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestGreedyPlanner(t *testing.T) {
	p := NewGreedyPlanner(nil)

	t.Run("Inconsistent deals have no plan", func(t *testing.T) {
		deals := []deal.BasicDeal{
			commit(game.NewMove("FRA", "PIC", "BEL")),
			commit(game.NewHold("FRA", "PIC")),
		}
		plan, err := p.BestPlan(picardyState(), "FRA", deals)
		require.ErrorIs(t, err, ErrInfeasible)
		require.Nil(t, plan)
	})

	t.Run("Free unit captures the first open center", func(t *testing.T) {
		plan, err := p.BestPlan(picardyState(), "FRA", nil)
		require.NoError(t, err)
		require.Equal(t, []game.Order{game.NewMove("FRA", "PIC", "BEL")}, plan.Orders)
		require.Equal(t, 2, plan.Value)
	})

	t.Run("DMZ redirects the capture", func(t *testing.T) {
		deals := []deal.BasicDeal{dmz(spring1901, []game.Power{"FRA", "GER"}, "BEL")}
		plan, err := p.BestPlan(picardyState(), "FRA", deals)
		require.NoError(t, err)
		require.Equal(t, []game.Order{game.NewMove("FRA", "PIC", "BRE")}, plan.Orders)
		require.Equal(t, 2, plan.Value)
	})

	t.Run("Commitments are obeyed", func(t *testing.T) {
		deals := []deal.BasicDeal{commit(game.NewHold("FRA", "PIC"))}
		plan, err := p.BestPlan(picardyState(), "FRA", deals)
		require.NoError(t, err)
		require.Equal(t, []game.Order{game.NewHold("FRA", "PIC")}, plan.Orders)
		require.Equal(t, 1, plan.Value)
	})

	t.Run("Orders are sorted by unit", func(t *testing.T) {
		gs := picardyState()
		gs.PlaceUnit("FRA", "BRE")

		deals := []deal.BasicDeal{commit(game.NewHold("FRA", "PIC"))}
		plan, err := p.BestPlan(gs, "FRA", deals)
		require.NoError(t, err)
		require.Equal(t, []game.Order{game.NewHold("FRA", "BRE"), game.NewHold("FRA", "PIC")}, plan.Orders,
			"Committed units are planned first but listed alphabetically")
	})

	t.Run("Open center next to an enemy is lost", func(t *testing.T) {
		gs := picardyState()
		gs.PlaceUnit("GER", "BUR")

		plan, err := p.BestPlan(gs, "FRA", nil)
		require.NoError(t, err)
		require.Equal(t, 1, plan.Value)

		deals := []deal.BasicDeal{dmz(spring1901, []game.Power{"FRA", "GER"}, "PAR")}
		plan, err = p.BestPlan(gs, "FRA", deals)
		require.NoError(t, err)
		require.Equal(t, 2, plan.Value, "A DMZ over Paris should remove the threat")
	})

	t.Run("Planner does not modify the state", func(t *testing.T) {
		gs := picardyState()
		before := gs.Copy()
		_, err := p.BestPlan(gs, "FRA", nil)
		require.NoError(t, err)
		require.Equal(t, before, gs)
	})
}
