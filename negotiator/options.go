package negotiator

import (
	"time"

	"dipnego/metrics"
)

type Option func(*Negotiator)

// WithPollInterval sets how long the round controller idles between passes.
func WithPollInterval(d time.Duration) Option {
	return func(n *Negotiator) {
		if d > 0 {
			n.pollInterval = d
		}
	}
}

// WithDrainLimit caps the messages handled per pass so a chatty peer cannot
// starve the proposal step.
func WithDrainLimit(limit int) Option {
	return func(n *Negotiator) {
		if limit > 0 {
			n.drainLimit = limit
		}
	}
}

// WithTieMargin sets how many supply centers behind us a proposer must be for
// a deal that leaves our plan value unchanged to be accepted.
func WithTieMargin(margin int) Option {
	return func(n *Negotiator) {
		n.tieMargin = margin
	}
}

// WithMultiProposal sends every generated deal instead of only the first.
func WithMultiProposal(enabled bool) Option {
	return func(n *Negotiator) {
		n.multiProposal = enabled
	}
}

func WithMetrics(c metrics.Collector) Option {
	return func(n *Negotiator) {
		if c != nil {
			n.collector = c
		}
	}
}

func WithJournal(j Journal) Option {
	return func(n *Negotiator) {
		n.journal = j
	}
}
