package engine

import (
	"context"

	"dipnego/metrics"
)

// Engine plays negotiation rounds between agents.
type Engine interface {
	// Run plays up to rounds rounds, or until a single power is left or ctx
	// is done, returning one record per agent per negotiation round.
	Run(ctx context.Context, rounds int) ([]metrics.RoundRecord, error)
}
