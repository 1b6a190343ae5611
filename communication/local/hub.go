// Package local is an in-process negotiation server. Each power gets a Client
// satisfying communication.Transport; the Hub relays proposals between them
// and confirms a deal once every power it binds has accepted it.
package local

import (
	"fmt"
	"sync"

	"dipnego/communication"
	"dipnego/deal"
	"dipnego/game"
	"dipnego/tactics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type pending struct {
	proposal deal.Proposal
	involved []game.Power
	accepted map[game.Power]bool
}

type Hub struct {
	mu        sync.Mutex
	checker   tactics.ConsistencyChecker
	state     *game.GameState
	inboxes   map[game.Power][]communication.Message
	proposals map[string]*pending
	order     []string // proposal ids in submission order
	confirmed []deal.BasicDeal
}

// NewHub creates a hub. When checker is non-nil a fully accepted deal is only
// confirmed if it is consistent with the deals already confirmed.
func NewHub(checker tactics.ConsistencyChecker) *Hub {
	return &Hub{
		checker:   checker,
		inboxes:   make(map[game.Power][]communication.Message),
		proposals: make(map[string]*pending),
	}
}

// BeginRound drops open proposals and confirmed deals that only concern
// earlier rounds.
func (h *Hub) BeginRound(state *game.GameState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state = state
	h.proposals = make(map[string]*pending)
	h.order = nil
	h.confirmed = slices.DeleteFunc(h.confirmed, func(d deal.BasicDeal) bool {
		return !activeAt(d, state.Time)
	})
}

// activeAt reports whether d still commits anyone to something at or after now.
func activeAt(d deal.BasicDeal, now game.Time) bool {
	for _, oc := range d.OrderCommitments {
		if !now.IsHistory(oc.Phase, oc.Year) {
			return true
		}
	}
	for _, dmz := range d.DMZs {
		if !now.IsHistory(dmz.Phase, dmz.Year) {
			return true
		}
	}
	return false
}

// Client returns power's connection to the hub.
func (h *Hub) Client(power game.Power) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.inboxes[power]; !ok {
		h.inboxes[power] = nil
	}
	return &Client{hub: h, power: power}
}

// Confirmed returns a copy of every confirmed deal.
func (h *Hub) Confirmed() []deal.BasicDeal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.confirmed)
}

func (h *Hub) propose(from game.Power, d deal.BasicDeal) (string, error) {
	p := deal.Proposal{ID: uuid.NewString(), Proposer: from, Deal: d}
	if err := p.Validate(); err != nil {
		return "", err
	}
	payload, err := communication.EncodeProposal(p)
	if err != nil {
		return "", err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entry := &pending{
		proposal: p,
		involved: d.InvolvedPowers(),
		accepted: map[game.Power]bool{from: true},
	}
	h.proposals[p.ID] = entry
	h.order = append(h.order, p.ID)

	h.broadcast(entry, from, communication.Message{Performative: communication.Propose, Sender: from, Payload: payload})
	log.Debug().Msgf("hub: %s proposed %s", from, p)
	return p.ID, nil
}

func (h *Hub) accept(from game.Power, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, err := h.lookup(from, id)
	if err != nil {
		return err
	}
	entry.accepted[from] = true
	payload, err := communication.EncodeProposal(entry.proposal)
	if err != nil {
		return err
	}
	h.broadcast(entry, from, communication.Message{Performative: communication.Accept, Sender: from, Payload: payload})

	for _, p := range entry.involved {
		if !entry.accepted[p] {
			return nil
		}
	}
	h.settle(entry, payload)
	return nil
}

// settle confirms a fully accepted proposal, or rejects it on behalf of the
// server when it contradicts an earlier confirmation.
func (h *Hub) settle(entry *pending, payload []byte) {
	h.remove(entry.proposal.ID)

	if h.checker != nil && h.state != nil {
		if err := h.checker.CheckConsistency(h.state, deal.Merge(h.confirmed, entry.proposal.Deal)); err != nil {
			log.Info().Msgf("hub: dropping %s: %v", entry.proposal.ID, err)
			h.broadcast(entry, "", communication.Message{Performative: communication.Reject, Payload: payload})
			return
		}
	}

	h.confirmed = append(h.confirmed, entry.proposal.Deal)
	h.broadcast(entry, "", communication.Message{Performative: communication.Confirm, Payload: payload})
	log.Debug().Msgf("hub: confirmed %s", entry.proposal)
}

func (h *Hub) reject(from game.Power, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, err := h.lookup(from, id)
	if err != nil {
		return err
	}
	payload, err := communication.EncodeProposal(entry.proposal)
	if err != nil {
		return err
	}
	h.remove(id)
	h.broadcast(entry, from, communication.Message{Performative: communication.Reject, Sender: from, Payload: payload})
	return nil
}

func (h *Hub) lookup(from game.Power, id string) (*pending, error) {
	entry, ok := h.proposals[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", communication.ErrUnknownProposal, id)
	}
	if !slices.Contains(entry.involved, from) {
		return nil, fmt.Errorf("%w: %s is not bound by %s", communication.ErrUnknownProposal, from, id)
	}
	return entry, nil
}

func (h *Hub) remove(id string) {
	delete(h.proposals, id)
	h.order = slices.DeleteFunc(h.order, func(other string) bool { return other == id })
}

// broadcast queues msg for every involved power except skip.
func (h *Hub) broadcast(entry *pending, skip game.Power, msg communication.Message) {
	for _, p := range entry.involved {
		if p == skip {
			continue
		}
		h.inboxes[p] = append(h.inboxes[p], msg)
	}
}

func (h *Hub) hasPending(power game.Power) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.inboxes[power]) > 0
}

func (h *Hub) next(power game.Power) (communication.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	inbox := h.inboxes[power]
	if len(inbox) == 0 {
		return communication.Message{}, fmt.Errorf("no message pending for %s", power)
	}
	msg := inbox[0]
	h.inboxes[power] = inbox[1:]
	return msg, nil
}

func (h *Hub) unconfirmed(power game.Power) []deal.Proposal {
	h.mu.Lock()
	defer h.mu.Unlock()

	var proposals []deal.Proposal
	for _, id := range h.order {
		entry := h.proposals[id]
		if slices.Contains(entry.involved, power) {
			proposals = append(proposals, entry.proposal)
		}
	}
	return proposals
}

func (h *Hub) confirmedFor(power game.Power) []deal.BasicDeal {
	h.mu.Lock()
	defer h.mu.Unlock()

	var deals []deal.BasicDeal
	for _, d := range h.confirmed {
		if d.Binds(power) {
			deals = append(deals, d)
		}
	}
	return deals
}
