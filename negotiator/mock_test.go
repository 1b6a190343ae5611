package negotiator

import (
	"context"
	"fmt"
	"sync"

	"dipnego/communication"
	"dipnego/deal"
	"dipnego/game"
	"dipnego/journal"
	"dipnego/strategy"
	"dipnego/tactics"
)

type mockTransport struct {
	mu          sync.Mutex
	inbox       []communication.Message
	proposed    []deal.BasicDeal
	accepted    []string
	rejected    []string
	unconfirmed []deal.Proposal
	confirmed   []deal.BasicDeal
}

func (m *mockTransport) push(msgs ...communication.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbox = append(m.inbox, msgs...)
}

func (m *mockTransport) HasPendingMessage() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inbox) > 0
}

func (m *mockTransport) NextMessage() (communication.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.inbox) == 0 {
		return communication.Message{}, fmt.Errorf("empty inbox")
	}
	msg := m.inbox[0]
	m.inbox = m.inbox[1:]
	return msg, nil
}

func (m *mockTransport) Propose(d deal.BasicDeal) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposed = append(m.proposed, d)
	return fmt.Sprintf("mine-%d", len(m.proposed)), nil
}

func (m *mockTransport) Accept(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accepted = append(m.accepted, id)
	return nil
}

func (m *mockTransport) Reject(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, id)
	return nil
}

func (m *mockTransport) UnconfirmedProposals() []deal.Proposal {
	return m.unconfirmed
}

func (m *mockTransport) ConfirmedDeals() []deal.BasicDeal {
	return m.confirmed
}

// mockPlanner values deal sets with a function; nil value means infeasible.
type mockPlanner struct {
	value func(deals []deal.BasicDeal) *int
}

func (m *mockPlanner) BestPlan(_ *game.GameState, _ game.Power, deals []deal.BasicDeal) (*tactics.Plan, error) {
	v := m.value(deals)
	if v == nil {
		return nil, tactics.ErrInfeasible
	}
	return &tactics.Plan{Value: *v}, nil
}

func values(base, withDeal *int) *mockPlanner {
	return &mockPlanner{value: func(deals []deal.BasicDeal) *int {
		if len(deals) == 0 {
			return base
		}
		return withDeal
	}}
}

func intp(v int) *int { return &v }

// mockChecker reports deal sets as inconsistent when conflict says so.
type mockChecker struct {
	consistencyCalls int
	conflict         func(deals []deal.BasicDeal) bool
	invalid          func(d deal.BasicDeal) bool
}

func (m *mockChecker) CheckConsistency(_ *game.GameState, deals []deal.BasicDeal) error {
	m.consistencyCalls++
	if m.conflict != nil && m.conflict(deals) {
		return tactics.ErrInconsistent
	}
	return nil
}

func (m *mockChecker) CheckValidity(_ *game.GameState, d deal.BasicDeal) error {
	if m.invalid != nil && m.invalid(d) {
		return tactics.ErrInvalid
	}
	return nil
}

type mockGenerator struct {
	deals []deal.BasicDeal
	err   error
	calls int
}

func (m *mockGenerator) Generate(context.Context, strategy.Context) ([]deal.BasicDeal, error) {
	m.calls++
	return m.deals, m.err
}

type mockJournal struct {
	events []journal.Event
}

func (m *mockJournal) Record(e journal.Event) error {
	m.events = append(m.events, e)
	return nil
}
