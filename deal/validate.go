package deal

import (
	"errors"
	"fmt"

	"dipnego/game"
)

// ErrStructural is wrapped by every structural invariant violation.
var ErrStructural = errors.New("structurally invalid deal")

var (
	ErrEmptyDeal    = fmt.Errorf("%w: deal has no commitments", ErrStructural)
	ErrSelfOnly     = fmt.Errorf("%w: deal binds no power other than the local agent", ErrStructural)
	ErrUnknownOrder = fmt.Errorf("%w: order is not HLD, MTO, SUP or SUPMTO", ErrStructural)
	ErrMalformedDMZ = fmt.Errorf("%w: DMZ lists no powers or no territories", ErrStructural)
	ErrNoProposer   = fmt.Errorf("%w: proposal has no id or proposer", ErrStructural)
)

// Validate checks the structural invariants of a deal from the point of view
// of the local power me: every order is a recognised variant, every DMZ names
// powers and territories, and the deal binds at least one power other than me.
func (d BasicDeal) Validate(me game.Power) error {
	if d.IsEmpty() {
		return ErrEmptyDeal
	}

	bindsOther := false
	for _, oc := range d.OrderCommitments {
		if !oc.Order.IsWellFormed() {
			return fmt.Errorf("%w: %s", ErrUnknownOrder, oc)
		}
		if oc.Order.Power != me {
			bindsOther = true
		}
	}
	for _, dmz := range d.DMZs {
		if len(dmz.Powers) == 0 || len(dmz.Territories) == 0 {
			return fmt.Errorf("%w: %s", ErrMalformedDMZ, dmz)
		}
		for _, p := range dmz.Powers {
			if p != me {
				bindsOther = true
			}
		}
	}

	if !bindsOther {
		return ErrSelfOnly
	}
	return nil
}

// Validate checks the proposal envelope and its deal. The proposer counts as
// the local power, so a proposal must bind someone besides its proposer.
func (p Proposal) Validate() error {
	if p.ID == "" || p.Proposer == "" {
		return ErrNoProposer
	}
	return p.Deal.Validate(p.Proposer)
}
