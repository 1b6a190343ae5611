package local

import (
	"dipnego/communication"
	"dipnego/deal"
	"dipnego/game"
)

// Client is one power's Transport onto a Hub.
type Client struct {
	hub   *Hub
	power game.Power
}

var _ communication.Transport = (*Client)(nil)

func (c *Client) Power() game.Power {
	return c.power
}

func (c *Client) HasPendingMessage() bool {
	return c.hub.hasPending(c.power)
}

func (c *Client) NextMessage() (communication.Message, error) {
	return c.hub.next(c.power)
}

func (c *Client) Propose(d deal.BasicDeal) (string, error) {
	return c.hub.propose(c.power, d)
}

func (c *Client) Accept(id string) error {
	return c.hub.accept(c.power, id)
}

func (c *Client) Reject(id string) error {
	return c.hub.reject(c.power, id)
}

func (c *Client) UnconfirmedProposals() []deal.Proposal {
	return c.hub.unconfirmed(c.power)
}

func (c *Client) ConfirmedDeals() []deal.BasicDeal {
	return c.hub.confirmedFor(c.power)
}
