package strategy

import "context"

// Action switches one deal template on and picks its subject by index into
// an alphabetical list.
type Action struct {
	Execute bool
	Index   int
}

// Suggestion tells the template generator which deals to build and for which
// round, counted in phases from the current one.
type Suggestion struct {
	PhasesAhead   int
	DefendUnit    Action // index into our units
	DefendSC      Action // index into the negotiating powers
	Attack        Action // index into our units
	SupportAttack Action // index into our units
}

// Source supplies suggestions, e.g. a learned policy behind gRPC.
type Source interface {
	Suggest(ctx context.Context, c Context) (Suggestion, error)
}

// Fixed is a Source that always returns the same suggestion.
type Fixed Suggestion

func (f Fixed) Suggest(context.Context, Context) (Suggestion, error) {
	return Suggestion(f), nil
}

// clip maps an out of range index to the nearest valid one. It returns false
// for an empty list.
func clip(index, length int) (int, bool) {
	if length == 0 {
		return 0, false
	}
	return min(max(index, 0), length-1), true
}
