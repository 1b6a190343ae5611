package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"dipnego/communication/local"
	"dipnego/config"
	"dipnego/engine"
	"dipnego/game"
	"dipnego/journal"
	"dipnego/metrics"
	"dipnego/negotiator"
	"dipnego/strategy"
	"dipnego/suggest"
	"dipnego/tactics"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

var (
	simRounds int
	simWatch  bool
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntVar(&simRounds, "rounds", 0, "Rounds to play (overrides simulation.rounds)")
	simulateCmd.Flags().BoolVar(&simWatch, "watch", false, "Reload negotiation settings when the config file changes")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play negotiating agents against each other",
	Long: "Starts one negotiator per configured power on the standard board, lets\n" +
		"them negotiate through an in-process notary each movement round and\n" +
		"plays the orders their plans produce.",
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	rounds := cfg.Simulation.Rounds
	if simRounds > 0 {
		rounds = simRounds
	}

	state, err := newBoard(cfg.Simulation)
	if err != nil {
		return err
	}

	checker := tactics.NewChecker()
	planner := tactics.NewGreedyPlanner(checker)
	hub := local.NewHub(checker)

	var store *journal.Store
	if cfg.Journal.Path != "" {
		store, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	var agents []*negotiator.Negotiator
	for i, p := range state.Powers {
		generator, closer, err := newGenerator(cfg, planner, i)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		opts := []negotiator.Option{negotiator.WithMetrics(metrics.NewCollector())}
		if store != nil {
			opts = append(opts, negotiator.WithJournal(store))
		}
		agents = append(agents, negotiator.New(p, hub.Client(p), planner, checker, generator, opts...))
	}

	var eng engine.Engine = engine.NewLocalEngine(state, hub, planner, settings, agents...)
	records, err := eng.Run(ctx, rounds)
	if errors.Is(err, context.Canceled) {
		log.Warn().Msgf("simulation interrupted after %d records", len(records))
		err = nil
	}
	if err != nil {
		return err
	}

	var proposed, confirmed int
	for _, r := range records {
		proposed += r.Proposed
		confirmed += r.Confirmed
	}
	log.Info().Msgf("played %d rounds: %d proposals, %d confirmed deals held at deadlines", rounds, proposed, confirmed)

	if cfg.Metrics.Dir == "" {
		return nil
	}
	w, err := metrics.NewWriter(cfg.Metrics.Dir)
	if err != nil {
		return err
	}
	if err := w.WriteRoundRecords(records); err != nil {
		return err
	}
	log.Info().Msgf("metrics written to %s", w.Dir())
	return nil
}

// loadSettings reads the config once, or keeps watching it with --watch so
// negotiation settings can change between rounds.
func loadSettings(ctx context.Context) (*config.Config, engine.Settings, error) {
	if !simWatch || configPath == "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, nil, err
		}
		return cfg, func() config.Negotiation { return cfg.Negotiation }, nil
	}

	r, err := config.NewReloader(configPath)
	if err != nil {
		return nil, nil, err
	}
	go func() {
		if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Msgf("config watcher stopped: %v", err)
		}
	}()
	return r.Current(), func() config.Negotiation { return r.Current().Negotiation }, nil
}

// newBoard is the standard opening restricted to the configured powers.
func newBoard(sim config.Simulation) (*game.GameState, error) {
	std := game.StandardGame()

	var powers []game.Power
	for _, name := range sim.Powers {
		p := game.Power(name)
		if !slices.Contains(std.Powers, p) {
			return nil, fmt.Errorf("unknown power %q", name)
		}
		powers = append(powers, p)
	}

	gs := game.NewGameState(std.Map, game.Time{Year: sim.StartYear, Phase: game.Spring}, powers...)
	for t, p := range std.Units {
		if slices.Contains(powers, p) {
			gs.PlaceUnit(p, t)
		}
	}
	for t, p := range std.Owners {
		if slices.Contains(powers, p) {
			gs.SetOwner(p, t)
		}
	}
	return gs, nil
}

// newGenerator builds the deal generator of the i-th agent. Random streams
// are seeded per agent so runs are reproducible.
func newGenerator(cfg *config.Config, planner tactics.Planner, i int) (strategy.Generator, io.Closer, error) {
	s := cfg.Strategy
	switch s.Kind {
	case config.Random, config.Search:
		rng := rand.New(rand.NewPCG(s.Seed, uint64(i)))
		random := strategy.NewRandom(rng,
			strategy.WithCounts(s.DMZs, s.Commitments),
			strategy.WithProvincesPerDMZ(s.ProvincesPerDMZ),
		)
		if s.Kind == config.Random {
			return random, nil, nil
		}
		return strategy.NewSearch(planner, random, s.SearchTries), nil, nil
	default:
		if cfg.Suggest.Address != "" {
			client, err := suggest.Dial(cfg.Suggest.Address, cfg.Suggest.Timeout)
			if err != nil {
				return nil, nil, err
			}
			return strategy.NewTemplate(client), client, nil
		}
		phasesAhead := s.PhasesAhead
		return strategy.NewTemplate(suggest.Local(func(ctx context.Context, req suggest.Request) (strategy.Suggestion, error) {
			suggestion, err := suggest.DefaultPolicy(ctx, req)
			suggestion.PhasesAhead = phasesAhead
			return suggestion, err
		})), nil, nil
	}
}
