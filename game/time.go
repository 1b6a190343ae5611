package game

import (
	"errors"
	"fmt"
)

// ErrHistorical marks a commitment whose (year, phase) already lies in the past.
var ErrHistorical = errors.New("commitment refers to a past phase")

// Time identifies a single round of the game.
type Time struct {
	Year  int
	Phase Phase
}

func (t Time) String() string {
	return fmt.Sprintf("%s %d", t.Phase, t.Year)
}

// IsHistory reports whether (year, phase) is strictly earlier than t.
// An unrecognised phase in the current year counts as history.
func (t Time) IsHistory(phase Phase, year int) bool {
	if year == t.Year {
		return phase.index() < t.Phase.index()
	}
	return year < t.Year
}

// Before reports whether t is strictly earlier than other.
func (t Time) Before(other Time) bool {
	return other.IsHistory(t.Phase, t.Year)
}

// Advance returns the round n phases after t, wrapping into following years.
func (t Time) Advance(n int) Time {
	if n <= 0 {
		return t
	}
	idx := t.Phase.index()
	if idx < 0 {
		idx = 0
	}
	total := idx + n
	return Time{
		Year:  t.Year + total/PhasesPerYear,
		Phase: Spring + Phase(total%PhasesPerYear),
	}
}
