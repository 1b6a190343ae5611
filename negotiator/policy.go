package negotiator

import (
	"dipnego/deal"

	"github.com/rs/zerolog/log"
)

// ShouldAccept compares our best plan under the confirmed deals with our best
// plan once p is added. A gain is accepted and a loss rejected. A tie is only
// accepted from a proposer at least tieMargin supply centers behind us.
// Either plan being infeasible means reject.
func (n *Negotiator) ShouldAccept(p deal.Proposal) bool {
	base, err := n.planner.BestPlan(n.board, n.me, n.confirmed)
	if err != nil || base == nil {
		log.Debug().Str("power", string(n.me)).Msgf("no plan under confirmed deals: %v", err)
		return false
	}
	hypothetical, err := n.planner.BestPlan(n.board, n.me, deal.Merge(n.confirmed, p.Deal))
	if err != nil || hypothetical == nil {
		log.Debug().Str("power", string(n.me)).Msgf("no plan with %s: %v", p.ID, err)
		return false
	}

	switch {
	case hypothetical.Value > base.Value:
		return true
	case hypothetical.Value < base.Value:
		return false
	}
	return n.board.SupplyCenterCount(p.Proposer) <= n.board.SupplyCenterCount(n.me)-n.tieMargin
}
