// Package deal holds the commitments agents negotiate over: order commitments,
// demilitarised zones, the deals aggregating them and the proposals that carry
// a deal through the protocol.
package deal

import (
	"fmt"
	"strings"

	"dipnego/game"

	"golang.org/x/exp/slices"
)

// OrderCommitment is a promise that order.Power issues order during (Year, Phase).
type OrderCommitment struct {
	Year  int
	Phase game.Phase
	Order game.Order
}

func NewOrderCommitment(t game.Time, order game.Order) OrderCommitment {
	return OrderCommitment{Year: t.Year, Phase: t.Phase, Order: order}
}

func (oc OrderCommitment) Time() game.Time {
	return game.Time{Year: oc.Year, Phase: oc.Phase}
}

func (oc OrderCommitment) String() string {
	return fmt.Sprintf("%s %d: %s", oc.Phase, oc.Year, oc.Order)
}

// DMZ is a mutual promise that none of Powers moves a unit into, or keeps a
// unit in, any of Territories during (Year, Phase).
type DMZ struct {
	Year        int
	Phase       game.Phase
	Powers      []game.Power
	Territories []game.Territory
}

func NewDMZ(t game.Time, powers []game.Power, territories []game.Territory) DMZ {
	return DMZ{
		Year:        t.Year,
		Phase:       t.Phase,
		Powers:      slices.Clone(powers),
		Territories: slices.Clone(territories),
	}
}

func (d DMZ) Time() game.Time {
	return game.Time{Year: d.Year, Phase: d.Phase}
}

// Forbids reports whether the DMZ keeps power p out of territory t.
func (d DMZ) Forbids(p game.Power, t game.Territory) bool {
	return slices.Contains(d.Powers, p) && slices.Contains(d.Territories, t)
}

func (d DMZ) Equal(other DMZ) bool {
	return d.Year == other.Year && d.Phase == other.Phase &&
		slices.Equal(d.Powers, other.Powers) && slices.Equal(d.Territories, other.Territories)
}

func (d DMZ) String() string {
	return fmt.Sprintf("%s %d: DMZ %v %v", d.Phase, d.Year, d.Powers, d.Territories)
}

// BasicDeal is an ordered collection of order commitments and DMZs. Its
// identity is structural: two deals with equal commitments are the same deal.
type BasicDeal struct {
	OrderCommitments []OrderCommitment
	DMZs             []DMZ
}

func NewBasicDeal(commitments []OrderCommitment, dmzs []DMZ) BasicDeal {
	return BasicDeal{
		OrderCommitments: slices.Clone(commitments),
		DMZs:             slices.Clone(dmzs),
	}
}

func (d BasicDeal) IsEmpty() bool {
	return len(d.OrderCommitments) == 0 && len(d.DMZs) == 0
}

func (d BasicDeal) Equal(other BasicDeal) bool {
	return slices.Equal(d.OrderCommitments, other.OrderCommitments) &&
		slices.EqualFunc(d.DMZs, other.DMZs, DMZ.Equal)
}

// InvolvedPowers returns, alphabetically, every power the deal binds.
func (d BasicDeal) InvolvedPowers() []game.Power {
	var powers []game.Power
	add := func(p game.Power) {
		if idx, found := slices.BinarySearch(powers, p); !found {
			powers = slices.Insert(powers, idx, p)
		}
	}
	for _, oc := range d.OrderCommitments {
		add(oc.Order.Power)
	}
	for _, dmz := range d.DMZs {
		for _, p := range dmz.Powers {
			add(p)
		}
	}
	return powers
}

// Binds reports whether the deal commits power p to anything.
func (d BasicDeal) Binds(p game.Power) bool {
	return slices.Contains(d.InvolvedPowers(), p)
}

// IsOutdated reports whether any commitment refers to a round before now.
func (d BasicDeal) IsOutdated(now game.Time) bool {
	return d.CheckTemporal(now) != nil
}

// CheckTemporal returns an error wrapping game.ErrHistorical for the first
// DMZ or order commitment that lies before now.
func (d BasicDeal) CheckTemporal(now game.Time) error {
	for _, dmz := range d.DMZs {
		if now.IsHistory(dmz.Phase, dmz.Year) {
			return fmt.Errorf("%w: %s", game.ErrHistorical, dmz)
		}
	}
	for _, oc := range d.OrderCommitments {
		if now.IsHistory(oc.Phase, oc.Year) {
			return fmt.Errorf("%w: %s", game.ErrHistorical, oc)
		}
	}
	return nil
}

// CommitmentsFor returns the orders p promised to issue at t.
func (d BasicDeal) CommitmentsFor(p game.Power, t game.Time) []game.Order {
	var orders []game.Order
	for _, oc := range d.OrderCommitments {
		if oc.Time() == t && oc.Order.Power == p {
			orders = append(orders, oc.Order)
		}
	}
	return orders
}

// DMZsFor returns the DMZs binding p at t.
func (d BasicDeal) DMZsFor(p game.Power, t game.Time) []DMZ {
	var dmzs []DMZ
	for _, dmz := range d.DMZs {
		if dmz.Time() == t && slices.Contains(dmz.Powers, p) {
			dmzs = append(dmzs, dmz)
		}
	}
	return dmzs
}

func (d BasicDeal) String() string {
	parts := make([]string, 0, len(d.OrderCommitments)+len(d.DMZs))
	for _, oc := range d.OrderCommitments {
		parts = append(parts, oc.String())
	}
	for _, dmz := range d.DMZs {
		parts = append(parts, dmz.String())
	}
	return "[" + strings.Join(parts, "; ") + "]"
}

// Merge returns deals followed by extra without modifying deals.
func Merge(deals []BasicDeal, extra ...BasicDeal) []BasicDeal {
	merged := make([]BasicDeal, 0, len(deals)+len(extra))
	merged = append(merged, deals...)
	return append(merged, extra...)
}

// Proposal is a deal tracked by the protocol layer under ID.
type Proposal struct {
	ID       string
	Proposer game.Power
	Deal     BasicDeal
}

func (p Proposal) String() string {
	return fmt.Sprintf("%s from %s %s", p.ID, p.Proposer, p.Deal)
}
