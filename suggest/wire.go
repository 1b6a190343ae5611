// Package suggest serves deal suggestions over gRPC. Requests and responses
// are protobuf Structs, so no generated code is needed on either side.
package suggest

import (
	"fmt"

	"dipnego/game"
	"dipnego/strategy"

	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName   = "dipnego.DealSuggester"
	suggestMethod = "/" + serviceName + "/Suggest"
)

// Request is the board as seen by the power asking for a suggestion.
type Request struct {
	Me            game.Power
	Time          game.Time
	Units         []game.Territory
	SupplyCenters []game.Territory
	Negotiating   []game.Power
}

func RequestFor(c strategy.Context) Request {
	return Request{
		Me:            c.Me,
		Time:          c.State.Time,
		Units:         c.State.ControlledTerritories(c.Me),
		SupplyCenters: c.State.OwnedSupplyCenters(c.Me),
		Negotiating:   c.Negotiating,
	}
}

func (r Request) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"me":             string(r.Me),
		"year":           r.Time.Year,
		"phase":          r.Time.Phase.String(),
		"units":          anyList(r.Units),
		"supply_centers": anyList(r.SupplyCenters),
		"negotiating":    anyList(r.Negotiating),
	})
}

func requestFromStruct(s *structpb.Struct) (Request, error) {
	fields := s.GetFields()
	phase, err := game.ParsePhase(fields["phase"].GetStringValue())
	if err != nil {
		return Request{}, err
	}
	me := fields["me"].GetStringValue()
	if me == "" {
		return Request{}, fmt.Errorf("missing power")
	}
	return Request{
		Me:            game.Power(me),
		Time:          game.Time{Year: int(fields["year"].GetNumberValue()), Phase: phase},
		Units:         typedList[game.Territory](fields["units"]),
		SupplyCenters: typedList[game.Territory](fields["supply_centers"]),
		Negotiating:   typedList[game.Power](fields["negotiating"]),
	}, nil
}

func suggestionToStruct(s strategy.Suggestion) (*structpb.Struct, error) {
	action := func(a strategy.Action) map[string]any {
		return map[string]any{"execute": a.Execute, "index": a.Index}
	}
	return structpb.NewStruct(map[string]any{
		"phases_ahead":   s.PhasesAhead,
		"defend_unit":    action(s.DefendUnit),
		"defend_sc":      action(s.DefendSC),
		"attack":         action(s.Attack),
		"support_attack": action(s.SupportAttack),
	})
}

func suggestionFromStruct(s *structpb.Struct) strategy.Suggestion {
	fields := s.GetFields()
	action := func(key string) strategy.Action {
		a := fields[key].GetStructValue().GetFields()
		return strategy.Action{
			Execute: a["execute"].GetBoolValue(),
			Index:   int(a["index"].GetNumberValue()),
		}
	}
	return strategy.Suggestion{
		PhasesAhead:   int(fields["phases_ahead"].GetNumberValue()),
		DefendUnit:    action("defend_unit"),
		DefendSC:      action("defend_sc"),
		Attack:        action("attack"),
		SupportAttack: action("support_attack"),
	}
}

func anyList[T ~string](values []T) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

func typedList[T ~string](v *structpb.Value) []T {
	var out []T
	for _, item := range v.GetListValue().GetValues() {
		out = append(out, T(item.GetStringValue()))
	}
	return out
}
