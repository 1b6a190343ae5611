package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"dipnego/communication/local"
	"dipnego/config"
	"dipnego/game"
	"dipnego/metrics"
	"dipnego/negotiator"
	"dipnego/tactics"

	"github.com/rs/zerolog/log"
)

// Settings returns the negotiation settings for the next round, letting a
// reloaded configuration take effect at round boundaries.
type Settings func() config.Negotiation

var _ Engine = (*LocalEngine)(nil)

// LocalEngine runs every agent in process over a shared local.Hub.
type LocalEngine struct {
	State *game.GameState

	hub      *local.Hub
	agents   []*negotiator.Negotiator
	planner  tactics.Planner
	settings Settings
}

func NewLocalEngine(state *game.GameState, hub *local.Hub, planner tactics.Planner, settings Settings, agents ...*negotiator.Negotiator) *LocalEngine {
	if len(agents) < 2 {
		panic("need at least two agents")
	}
	if settings == nil {
		settings = func() config.Negotiation { return config.DefaultConfig().Negotiation }
	}
	return &LocalEngine{
		State:    state,
		hub:      hub,
		agents:   agents,
		planner:  planner,
		settings: settings,
	}
}

func (e *LocalEngine) Run(ctx context.Context, rounds int) ([]metrics.RoundRecord, error) {
	var records []metrics.RoundRecord
	for round := 1; round <= rounds; round++ {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		if len(e.State.AlivePowers()) < 2 {
			log.Info().Msgf("game over in %s", e.State.Time)
			break
		}
		records = append(records, e.playRound(ctx, round)...)
	}
	return records, nil
}

func (e *LocalEngine) playRound(ctx context.Context, round int) []metrics.RoundRecord {
	cfg := e.settings()
	e.hub.BeginRound(e.State)
	for _, a := range e.agents {
		a.Configure(
			negotiator.WithPollInterval(cfg.PollInterval),
			negotiator.WithDrainLimit(cfg.DrainLimit),
			negotiator.WithTieMargin(cfg.TieMargin),
			negotiator.WithMultiProposal(cfg.MultiProposal),
		)
		a.BeginRound(e.State)
	}

	var records []metrics.RoundRecord
	if e.State.Time.Phase.IsNegotiation() {
		deadline := time.Now().Add(cfg.RoundDuration)
		results := make([]metrics.RoundMetric, len(e.agents))

		var wg sync.WaitGroup
		for i, a := range e.agents {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = a.Negotiate(ctx, deadline)
			}()
		}
		wg.Wait()

		for _, m := range results {
			records = append(records, metrics.RoundRecord{Round: round, RoundMetric: m})
		}
	}

	var orders []game.Order
	for _, a := range e.agents {
		a.RefreshConfirmed()
		orders = append(orders, e.ordersFor(a)...)
	}

	e.State = Adjudicate(e.State, orders)
	log.Info().Msgf("%s: %s", e.State.Time, scoreboard(e.State))
	return records
}

// ordersFor plans a's orders under its confirmed deals, holding every unit
// when no plan can be found.
func (e *LocalEngine) ordersFor(a *negotiator.Negotiator) []game.Order {
	me := a.Me()
	if commitments := a.Commitments(); len(commitments) > 0 {
		log.Info().Str("power", string(me)).Msgf("obeying %d commitments: %v", len(commitments), commitments)
	}

	plan, err := e.planner.BestPlan(e.State, me, a.ConfirmedDeals())
	if err == nil && plan != nil {
		return plan.Orders
	}
	log.Warn().Str("power", string(me)).Msgf("no plan, holding: %v", err)

	var orders []game.Order
	for _, unit := range e.State.ControlledTerritories(me) {
		orders = append(orders, game.NewHold(me, unit))
	}
	return orders
}

func scoreboard(state *game.GameState) string {
	var parts []string
	for _, p := range state.Powers {
		parts = append(parts, fmt.Sprintf("%s=%d", p, state.SupplyCenterCount(p)))
	}
	return strings.Join(parts, " ")
}
