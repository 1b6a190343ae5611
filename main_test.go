package main

import (
	"context"
	"testing"

	"dipnego/config"
	"dipnego/game"
	"dipnego/strategy"
	"dipnego/tactics"

	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	gs, err := newBoard(config.Simulation{StartYear: 1905, Powers: []string{"GER", "FRA"}})
	require.NoError(t, err)
	require.Equal(t, []game.Power{"FRA", "GER"}, gs.Powers)
	require.Equal(t, game.Time{Year: 1905, Phase: game.Spring}, gs.Time)
	require.Len(t, gs.Units, 6)
	require.Equal(t, []game.Territory{"BER", "KIE", "MUN"}, gs.OwnedSupplyCenters("GER"))
	require.Empty(t, gs.ControlledTerritories("ENG"))

	_, err = newBoard(config.Simulation{StartYear: 1901, Powers: []string{"FRA", "RUS"}})
	require.Error(t, err)
}

func TestNewGenerator(t *testing.T) {
	planner := tactics.NewGreedyPlanner(nil)
	c := strategy.NewContext(game.StandardGame(), "FRA", nil)

	t.Run("Template", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Strategy.PhasesAhead = 2
		g, closer, err := newGenerator(cfg, planner, 0)
		require.NoError(t, err)
		require.Nil(t, closer)
		require.IsType(t, &strategy.Template{}, g)

		deals, err := g.Generate(context.Background(), c)
		require.NoError(t, err)
		for _, d := range deals {
			for _, oc := range d.OrderCommitments {
				require.Equal(t, game.Time{Year: 1901, Phase: game.Fall}, oc.Time())
			}
		}
	})

	t.Run("Random", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Strategy.Kind = config.Random
		g, _, err := newGenerator(cfg, planner, 1)
		require.NoError(t, err)
		require.IsType(t, &strategy.Random{}, g)

		again, _, err := newGenerator(cfg, planner, 1)
		require.NoError(t, err)
		first, err := g.Generate(context.Background(), c)
		require.NoError(t, err)
		second, err := again.Generate(context.Background(), c)
		require.NoError(t, err)
		require.Equal(t, first, second, "Same seed and agent should give the same deals")
	})

	t.Run("Search", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Strategy.Kind = config.Search
		g, _, err := newGenerator(cfg, planner, 0)
		require.NoError(t, err)
		require.IsType(t, &strategy.Search{}, g)
	})
}
