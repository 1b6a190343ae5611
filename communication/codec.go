package communication

import (
	"fmt"
	"math"

	"dipnego/deal"
	"dipnego/game"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeProposal serialises a proposal as a protobuf Struct so it can travel
// inside a Message or over gRPC unchanged.
func EncodeProposal(p deal.Proposal) ([]byte, error) {
	s, err := ProposalToStruct(p)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

// DecodeProposal is the inverse of EncodeProposal. Any decoding failure wraps
// ErrMalformed.
func DecodeProposal(payload []byte) (deal.Proposal, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(payload, &s); err != nil {
		return deal.Proposal{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return ProposalFromStruct(&s)
}

func ProposalToStruct(p deal.Proposal) (*structpb.Struct, error) {
	fields := DealToMap(p.Deal)
	fields["id"] = p.ID
	fields["proposer"] = string(p.Proposer)
	return structpb.NewStruct(fields)
}

func ProposalFromStruct(s *structpb.Struct) (deal.Proposal, error) {
	fields := s.AsMap()
	d, err := DealFromMap(fields)
	if err != nil {
		return deal.Proposal{}, err
	}
	id, _ := fields["id"].(string)
	proposer, _ := fields["proposer"].(string)
	return deal.Proposal{ID: id, Proposer: game.Power(proposer), Deal: d}, nil
}

// DealToMap returns the Struct-compatible representation of d.
func DealToMap(d deal.BasicDeal) map[string]any {
	commitments := make([]any, 0, len(d.OrderCommitments))
	for _, oc := range d.OrderCommitments {
		o := oc.Order
		commitments = append(commitments, map[string]any{
			"year":            oc.Year,
			"phase":           oc.Phase.String(),
			"kind":            o.Kind.String(),
			"power":           string(o.Power),
			"unit":            string(o.Unit),
			"dest":            string(o.Dest),
			"supported_power": string(o.SupportedPower),
			"supported_unit":  string(o.SupportedUnit),
		})
	}

	dmzs := make([]any, 0, len(d.DMZs))
	for _, dmz := range d.DMZs {
		powers := make([]any, 0, len(dmz.Powers))
		for _, p := range dmz.Powers {
			powers = append(powers, string(p))
		}
		territories := make([]any, 0, len(dmz.Territories))
		for _, t := range dmz.Territories {
			territories = append(territories, string(t))
		}
		dmzs = append(dmzs, map[string]any{
			"year":        dmz.Year,
			"phase":       dmz.Phase.String(),
			"powers":      powers,
			"territories": territories,
		})
	}

	return map[string]any{"commitments": commitments, "dmzs": dmzs}
}

func DealFromMap(fields map[string]any) (deal.BasicDeal, error) {
	var d deal.BasicDeal

	commitments, err := list(fields, "commitments")
	if err != nil {
		return d, err
	}
	for _, raw := range commitments {
		m, ok := raw.(map[string]any)
		if !ok {
			return d, fmt.Errorf("%w: commitment is not an object", ErrMalformed)
		}
		oc, err := commitmentFromMap(m)
		if err != nil {
			return d, err
		}
		d.OrderCommitments = append(d.OrderCommitments, oc)
	}

	dmzs, err := list(fields, "dmzs")
	if err != nil {
		return d, err
	}
	for _, raw := range dmzs {
		m, ok := raw.(map[string]any)
		if !ok {
			return d, fmt.Errorf("%w: dmz is not an object", ErrMalformed)
		}
		dmz, err := dmzFromMap(m)
		if err != nil {
			return d, err
		}
		d.DMZs = append(d.DMZs, dmz)
	}
	return d, nil
}

func commitmentFromMap(m map[string]any) (deal.OrderCommitment, error) {
	t, err := timeFromMap(m)
	if err != nil {
		return deal.OrderCommitment{}, err
	}
	kind, err := game.ParseOrderKind(str(m, "kind"))
	if err != nil {
		return deal.OrderCommitment{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	o := game.Order{
		Kind:           kind,
		Power:          game.Power(str(m, "power")),
		Unit:           game.Territory(str(m, "unit")),
		Dest:           game.Territory(str(m, "dest")),
		SupportedPower: game.Power(str(m, "supported_power")),
		SupportedUnit:  game.Territory(str(m, "supported_unit")),
	}
	return deal.NewOrderCommitment(t, o), nil
}

func dmzFromMap(m map[string]any) (deal.DMZ, error) {
	t, err := timeFromMap(m)
	if err != nil {
		return deal.DMZ{}, err
	}
	powers, err := stringList(m, "powers")
	if err != nil {
		return deal.DMZ{}, err
	}
	territories, err := stringList(m, "territories")
	if err != nil {
		return deal.DMZ{}, err
	}
	dmz := deal.DMZ{Year: t.Year, Phase: t.Phase}
	for _, p := range powers {
		dmz.Powers = append(dmz.Powers, game.Power(p))
	}
	for _, tr := range territories {
		dmz.Territories = append(dmz.Territories, game.Territory(tr))
	}
	return dmz, nil
}

func timeFromMap(m map[string]any) (game.Time, error) {
	year, ok := m["year"].(float64)
	if !ok {
		return game.Time{}, fmt.Errorf("%w: missing year", ErrMalformed)
	}
	if year != math.Trunc(year) || year < math.MinInt32 || year > math.MaxInt32 {
		return game.Time{}, fmt.Errorf("%w: year %v is not a whole number", ErrMalformed, year)
	}
	phase, err := game.ParsePhase(str(m, "phase"))
	if err != nil {
		return game.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return game.Time{Year: int(year), Phase: phase}, nil
}

func list(m map[string]any, key string) ([]any, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	l, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a list", ErrMalformed, key)
	}
	return l, nil
}

func stringList(m map[string]any, key string) ([]string, error) {
	l, err := list(m, key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(l))
	for _, raw := range l {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s holds a non-string", ErrMalformed, key)
		}
		out = append(out, s)
	}
	return out, nil
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
