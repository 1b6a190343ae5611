// Package metrics counts what happens during each negotiation round and
// writes the results as CSV.
package metrics

import (
	"sync/atomic"
	"time"

	"dipnego/communication"
	"dipnego/game"
)

type RoundMetric struct {
	Power    game.Power
	Time     game.Time
	Duration time.Duration

	// Messages received by performative
	Proposals int
	Accepts   int
	Rejects   int
	Confirms  int
	Unknown   int

	Malformed    int // payload could not be decoded
	Outdated     int // proposals referring to past rounds
	Inconsistent int // proposals contradicting confirmed deals
	Accepted     int // ACCEPT sent
	Declined     int // proposals evaluated and left unanswered
	Withdrawn    int // REJECT sent after a confirmation
	Proposed     int // PROPOSE sent
	Confirmed    int // size of the confirmed set at the deadline
}

type Collector interface {
	Start(power game.Power, t game.Time)
	AddReceived(p communication.Performative)
	AddMalformed()
	AddOutdated()
	AddInconsistent()
	AddAccepted()
	AddDeclined()
	AddWithdrawn()
	AddProposed()
	Complete(confirmed int) RoundMetric
}

type collector struct {
	power     game.Power
	time      game.Time
	startTime time.Time

	received     [communication.Confirm + 1]atomic.Int32
	malformed    atomic.Int32
	outdated     atomic.Int32
	inconsistent atomic.Int32
	accepted     atomic.Int32
	declined     atomic.Int32
	withdrawn    atomic.Int32
	proposed     atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets every counter for a new round.
func (m *collector) Start(power game.Power, t game.Time) {
	m.power = power
	m.time = t
	m.startTime = time.Now()
	for i := range m.received {
		m.received[i].Store(0)
	}
	for _, c := range []*atomic.Int32{&m.malformed, &m.outdated, &m.inconsistent, &m.accepted, &m.declined, &m.withdrawn, &m.proposed} {
		c.Store(0)
	}
}

func (m *collector) AddReceived(p communication.Performative) {
	if p < communication.Unknown || p > communication.Confirm {
		p = communication.Unknown
	}
	m.received[p].Add(1)
}

func (m *collector) AddMalformed()    { m.malformed.Add(1) }
func (m *collector) AddOutdated()     { m.outdated.Add(1) }
func (m *collector) AddInconsistent() { m.inconsistent.Add(1) }
func (m *collector) AddAccepted()     { m.accepted.Add(1) }
func (m *collector) AddDeclined()     { m.declined.Add(1) }
func (m *collector) AddWithdrawn()    { m.withdrawn.Add(1) }
func (m *collector) AddProposed()     { m.proposed.Add(1) }

func (m *collector) Complete(confirmed int) RoundMetric {
	return RoundMetric{
		Power:        m.power,
		Time:         m.time,
		Duration:     time.Since(m.startTime),
		Proposals:    int(m.received[communication.Propose].Load()),
		Accepts:      int(m.received[communication.Accept].Load()),
		Rejects:      int(m.received[communication.Reject].Load()),
		Confirms:     int(m.received[communication.Confirm].Load()),
		Unknown:      int(m.received[communication.Unknown].Load()),
		Malformed:    int(m.malformed.Load()),
		Outdated:     int(m.outdated.Load()),
		Inconsistent: int(m.inconsistent.Load()),
		Accepted:     int(m.accepted.Load()),
		Declined:     int(m.declined.Load()),
		Withdrawn:    int(m.withdrawn.Load()),
		Proposed:     int(m.proposed.Load()),
		Confirmed:    confirmed,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(game.Power, game.Time)            {}
func (m *dummyCollector) AddReceived(communication.Performative) {}
func (m *dummyCollector) AddMalformed()                          {}
func (m *dummyCollector) AddOutdated()                           {}
func (m *dummyCollector) AddInconsistent()                       {}
func (m *dummyCollector) AddAccepted()                           {}
func (m *dummyCollector) AddDeclined()                           {}
func (m *dummyCollector) AddWithdrawn()                          {}
func (m *dummyCollector) AddProposed()                           {}
func (m *dummyCollector) Complete(int) RoundMetric               { return RoundMetric{} }
