// Package communication defines the messages exchanged with the negotiation
// server and the Transport the negotiator talks through.
package communication

import (
	"errors"

	"dipnego/deal"
	"dipnego/game"
)

var (
	// ErrMalformed is returned when a message payload cannot be decoded.
	ErrMalformed = errors.New("malformed message")
	// ErrUnknownProposal is returned when accepting or rejecting an id the server never issued.
	ErrUnknownProposal = errors.New("unknown proposal")
)

type Performative int

const (
	Unknown Performative = iota
	Propose
	Accept
	Reject
	Confirm
)

var performativeNames = map[Performative]string{
	Propose: "PROPOSE",
	Accept:  "ACCEPT",
	Reject:  "REJECT",
	Confirm: "CONFIRM",
}

func (p Performative) String() string {
	if name, ok := performativeNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

// Message is one notification from the negotiation server. Payload carries an
// encoded proposal, see EncodeProposal.
type Message struct {
	Performative Performative
	Sender       game.Power
	Payload      []byte
}

// Transport is the negotiator's view of the negotiation server.
type Transport interface {
	// HasPendingMessage never blocks.
	HasPendingMessage() bool
	// NextMessage returns the oldest pending message.
	NextMessage() (Message, error)
	// Propose submits a deal and returns the proposal id the server assigned.
	Propose(d deal.BasicDeal) (string, error)
	Accept(id string) error
	Reject(id string) error
	UnconfirmedProposals() []deal.Proposal
	// ConfirmedDeals is the server's authoritative list of confirmed deals.
	ConfirmedDeals() []deal.BasicDeal
}
