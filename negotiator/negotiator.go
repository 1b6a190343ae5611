// Package negotiator runs one power's side of the negotiation protocol: it
// classifies incoming messages, decides which proposals to accept, keeps the
// set of confirmed deals and proposes at most once per round.
package negotiator

import (
	"context"
	"time"

	"dipnego/communication"
	"dipnego/deal"
	"dipnego/game"
	"dipnego/journal"
	"dipnego/metrics"
	"dipnego/strategy"
	"dipnego/tactics"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultDrainLimit   = 32
	DefaultTieMargin    = 2
)

// State is the round controller's position within a round.
type State int

const (
	Draining State = iota
	Proposing
	Idle
)

func (s State) String() string {
	switch s {
	case Draining:
		return "draining"
	case Proposing:
		return "proposing"
	default:
		return "idle"
	}
}

// Journal records negotiation events, see journal.Store.
type Journal interface {
	Record(e journal.Event) error
}

// Negotiator is owned by a single goroutine; none of its methods may be
// called concurrently.
type Negotiator struct {
	me        game.Power
	transport communication.Transport
	planner   tactics.Planner
	checker   tactics.ConsistencyChecker
	generator strategy.Generator

	pollInterval  time.Duration
	drainLimit    int
	tieMargin     int
	multiProposal bool
	collector     metrics.Collector
	journal       Journal

	board     *game.GameState
	confirmed []deal.BasicDeal
	proposed  bool
	state     State
}

func New(
	me game.Power,
	transport communication.Transport,
	planner tactics.Planner,
	checker tactics.ConsistencyChecker,
	generator strategy.Generator,
	opts ...Option,
) *Negotiator {
	if transport == nil || planner == nil || checker == nil || generator == nil {
		panic("negotiator: nil collaborator")
	}
	n := &Negotiator{
		me:           me,
		transport:    transport,
		planner:      planner,
		checker:      checker,
		generator:    generator,
		pollInterval: DefaultPollInterval,
		drainLimit:   DefaultDrainLimit,
		tieMargin:    DefaultTieMargin,
		collector:    metrics.NewDummyCollector(),
	}
	n.Configure(opts...)
	return n
}

// Configure applies options between rounds.
func (n *Negotiator) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(n)
	}
}

func (n *Negotiator) Me() game.Power {
	return n.me
}

func (n *Negotiator) State() State {
	return n.state
}

// ConfirmedDeals returns a copy of the deals currently binding us.
func (n *Negotiator) ConfirmedDeals() []deal.BasicDeal {
	return slices.Clone(n.confirmed)
}

// Commitments returns the orders our confirmed deals oblige us to give this round.
func (n *Negotiator) Commitments() []game.Order {
	if n.board == nil {
		return nil
	}
	var orders []game.Order
	for _, d := range n.confirmed {
		orders = append(orders, d.CommitmentsFor(n.me, n.board.Time)...)
	}
	return orders
}

// BeginRound starts a new round on board. The confirmed set is rebuilt from
// the transport, keeping only deals that are neither historical nor invalid
// on the new board.
func (n *Negotiator) BeginRound(board *game.GameState) {
	n.board = board
	n.proposed = false
	n.state = Draining
	n.collector.Start(n.me, board.Time)
	n.RefreshConfirmed()
}

// RefreshConfirmed replaces the confirmed set with the transport's view.
func (n *Negotiator) RefreshConfirmed() {
	n.confirmed = nil
	for _, d := range n.transport.ConfirmedDeals() {
		if err := d.CheckTemporal(n.board.Time); err != nil {
			log.Debug().Str("power", string(n.me)).Msgf("forgetting confirmed deal: %v", err)
			continue
		}
		if err := n.checker.CheckValidity(n.board, d); err != nil {
			log.Debug().Str("power", string(n.me)).Msgf("forgetting confirmed deal: %v", err)
			continue
		}
		n.confirmed = append(n.confirmed, d)
	}
}

// Negotiate runs the round controller until deadline or until ctx is done.
// Messages still queued afterwards stay with the transport and are handled
// in a later round.
func (n *Negotiator) Negotiate(ctx context.Context, deadline time.Time) metrics.RoundMetric {
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	n.state = Draining
	for ctx.Err() == nil {
		switch n.state {
		case Draining:
			n.drain(ctx)
			if n.proposed {
				n.state = Idle
			} else {
				n.state = Proposing
			}
		case Proposing:
			n.propose(ctx)
			n.state = Idle
		case Idle:
			timer := time.NewTimer(n.pollInterval)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
			n.state = Draining
		}
	}

	log.Debug().Str("power", string(n.me)).Msgf("negotiation over with %d confirmed deals", len(n.confirmed))
	return n.collector.Complete(len(n.confirmed))
}

// drain handles at most drainLimit queued messages.
func (n *Negotiator) drain(ctx context.Context) int {
	handled := 0
	for handled < n.drainLimit && ctx.Err() == nil && n.transport.HasPendingMessage() {
		msg, err := n.transport.NextMessage()
		if err != nil {
			log.Warn().Str("power", string(n.me)).Msgf("failed to read message: %v", err)
			break
		}
		n.HandleMessage(msg)
		handled++
	}
	return handled
}

func (n *Negotiator) propose(ctx context.Context) {
	n.proposed = true

	deals, err := n.generator.Generate(ctx, strategy.NewContext(n.board, n.me, n.ConfirmedDeals()))
	if err != nil {
		log.Warn().Str("power", string(n.me)).Msgf("deal generation failed: %v", err)
		return
	}

	sent := 0
	for _, d := range deals {
		if !n.multiProposal && sent > 0 {
			break
		}
		if err := d.Validate(n.me); err != nil {
			log.Warn().Str("power", string(n.me)).Msgf("not proposing %s: %v", d, err)
			continue
		}
		id, err := n.transport.Propose(d)
		if err != nil {
			log.Warn().Str("power", string(n.me)).Msgf("failed to propose %s: %v", d, err)
			continue
		}
		sent++
		n.collector.AddProposed()
		n.record(journal.ProposeSent, id, "", d, "")
		log.Info().Str("power", string(n.me)).Msgf("proposed %s: %s", id, d)
	}
}

func (n *Negotiator) record(kind journal.Kind, id string, peer game.Power, d deal.BasicDeal, detail string) {
	if n.journal == nil {
		return
	}
	e := journal.Event{
		Power:      n.me,
		Kind:       kind,
		ProposalID: id,
		Peer:       peer,
		Detail:     detail,
	}
	if n.board != nil {
		e.Time = n.board.Time
	}
	if !d.IsEmpty() {
		e.Deal = d.String()
	}
	if err := n.journal.Record(e); err != nil {
		log.Warn().Str("power", string(n.me)).Msgf("journal: %v", err)
	}
}
