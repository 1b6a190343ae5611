package game

import "fmt"

// Power is one of the negotiating parties, e.g. "FRA".
type Power string

// Territory is a location on the board that can hold a unit, e.g. "PAR".
type Territory string

// Phase is one of the five sub-periods of a game year.
type Phase int

const (
	UnknownPhase Phase = iota
	Spring             // SPR: spring movement
	Summer             // SUM: spring retreats
	Fall               // FAL: fall movement
	Autumn             // AUT: fall retreats
	Winter             // WIN: builds and removals
)

// PhasesPerYear is the length of the fixed phase cycle.
const PhasesPerYear = 5

var phaseNames = map[Phase]string{
	Spring: "SPR",
	Summer: "SUM",
	Fall:   "FAL",
	Autumn: "AUT",
	Winter: "WIN",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// ParsePhase maps a three letter phase name back to its Phase.
func ParsePhase(name string) (Phase, error) {
	for phase, n := range phaseNames {
		if n == name {
			return phase, nil
		}
	}
	return UnknownPhase, fmt.Errorf("unknown phase %q", name)
}

// index returns the position of the phase within a year, -1 if unknown.
func (p Phase) index() int {
	if p < Spring || p > Winter {
		return -1
	}
	return int(p - Spring)
}

// IsNegotiation reports whether agents negotiate before submitting orders in this phase.
func (p Phase) IsNegotiation() bool {
	return p == Spring || p == Fall
}
