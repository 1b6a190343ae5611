package negotiator

import (
	"dipnego/communication"
	"dipnego/deal"
	"dipnego/journal"

	"github.com/rs/zerolog/log"
)

// HandleMessage routes one incoming message. Nothing it receives can make it
// fail: bad messages are logged and dropped.
func (n *Negotiator) HandleMessage(msg communication.Message) {
	n.collector.AddReceived(msg.Performative)

	if n.board == nil {
		log.Warn().Str("power", string(n.me)).Msgf("dropping %s received before the first round", msg.Performative)
		return
	}

	switch msg.Performative {
	case communication.Propose:
		n.handlePropose(msg)
	case communication.Accept, communication.Reject:
		// Only a confirmation binds anyone
		log.Debug().Str("power", string(n.me)).Msgf("%s from %s", msg.Performative, msg.Sender)
	case communication.Confirm:
		n.handleConfirm(msg)
	default:
		log.Warn().Str("power", string(n.me)).Msgf("dropping message with unknown performative %d from %s", msg.Performative, msg.Sender)
		n.record(journal.Dropped, "", msg.Sender, deal.BasicDeal{}, "unknown performative")
	}
}

func (n *Negotiator) decode(msg communication.Message) (deal.Proposal, bool) {
	p, err := communication.DecodeProposal(msg.Payload)
	if err == nil {
		err = p.Validate()
	}
	if err != nil {
		n.collector.AddMalformed()
		log.Warn().Str("power", string(n.me)).Msgf("dropping %s from %s: %v", msg.Performative, msg.Sender, err)
		n.record(journal.Dropped, p.ID, msg.Sender, deal.BasicDeal{}, err.Error())
		return deal.Proposal{}, false
	}
	return p, true
}

func (n *Negotiator) handlePropose(msg communication.Message) {
	p, ok := n.decode(msg)
	if !ok {
		return
	}
	logger := log.With().Str("power", string(n.me)).Str("proposal", p.ID).Logger()

	// Accepting must bind someone besides us too
	if err := p.Deal.Validate(n.me); err != nil {
		n.collector.AddMalformed()
		logger.Warn().Msgf("dropping proposal from %s: %v", p.Proposer, err)
		n.record(journal.Dropped, p.ID, p.Proposer, p.Deal, err.Error())
		return
	}

	if err := p.Deal.CheckTemporal(n.board.Time); err != nil {
		n.collector.AddOutdated()
		logger.Info().Msgf("ignoring outdated proposal from %s: %v", p.Proposer, err)
		n.record(journal.Dropped, p.ID, p.Proposer, p.Deal, "outdated")
		return
	}

	if err := n.checker.CheckConsistency(n.board, deal.Merge(n.confirmed, p.Deal)); err != nil {
		n.collector.AddInconsistent()
		logger.Info().Msgf("ignoring inconsistent proposal from %s: %v", p.Proposer, err)
		n.record(journal.Dropped, p.ID, p.Proposer, p.Deal, "inconsistent")
		return
	}

	if !n.ShouldAccept(p) {
		n.collector.AddDeclined()
		logger.Debug().Msgf("declining %s", p.Deal)
		return
	}

	if err := n.transport.Accept(p.ID); err != nil {
		logger.Warn().Msgf("failed to accept: %v", err)
		return
	}
	n.collector.AddAccepted()
	n.record(journal.AcceptSent, p.ID, p.Proposer, p.Deal, "")
	logger.Info().Msgf("accepted %s from %s", p.Deal, p.Proposer)
}

func (n *Negotiator) handleConfirm(msg communication.Message) {
	p, ok := n.decode(msg)
	if !ok {
		return
	}
	logger := log.With().Str("power", string(n.me)).Str("proposal", p.ID).Logger()

	if err := p.Deal.CheckTemporal(n.board.Time); err != nil {
		n.collector.AddOutdated()
		logger.Info().Msgf("ignoring outdated confirmation: %v", err)
		n.record(journal.Dropped, p.ID, p.Proposer, p.Deal, "outdated confirmation")
		return
	}

	if !n.isConfirmed(p.Deal) {
		n.confirmed = append(n.confirmed, p.Deal)
	}
	n.record(journal.Confirmed, p.ID, p.Proposer, p.Deal, "")
	logger.Info().Msgf("confirmed %s", p.Deal)

	// Withdraw from every open proposal the new commitment contradicts
	for _, open := range n.transport.UnconfirmedProposals() {
		if open.ID == p.ID {
			continue
		}
		if n.checker.CheckConsistency(n.board, []deal.BasicDeal{p.Deal, open.Deal}) == nil {
			continue
		}
		if err := n.transport.Reject(open.ID); err != nil {
			logger.Warn().Msgf("failed to reject %s: %v", open.ID, err)
			continue
		}
		n.collector.AddWithdrawn()
		n.record(journal.RejectSent, open.ID, open.Proposer, open.Deal, "contradicts "+p.ID)
		logger.Info().Msgf("rejected %s, it contradicts the confirmed deal", open.ID)
	}
}

func (n *Negotiator) isConfirmed(d deal.BasicDeal) bool {
	for _, c := range n.confirmed {
		if c.Equal(d) {
			return true
		}
	}
	return false
}
