package strategy

import (
	"context"
	"errors"

	"dipnego/deal"
	"dipnego/game"
	"dipnego/tactics"
)

// mockPlanner values a deal set with a caller supplied function.
type mockPlanner struct {
	value func(deals []deal.BasicDeal) (int, bool)
	calls int
}

func (m *mockPlanner) BestPlan(_ *game.GameState, _ game.Power, deals []deal.BasicDeal) (*tactics.Plan, error) {
	m.calls++
	v, ok := m.value(deals)
	if !ok {
		return nil, tactics.ErrInfeasible
	}
	return &tactics.Plan{Value: v}, nil
}

type failingSource struct{}

func (failingSource) Suggest(context.Context, Context) (Suggestion, error) {
	return Suggestion{}, errors.New("model offline")
}
