package game

import (
	"maps"

	"golang.org/x/exp/slices"
)

// GameState is a read-only view of the board at the start of a round: which
// power has a unit in which territory and who owns each supply center.
type GameState struct {
	Map    *Map                // Reference to the static game map
	Time   Time                // The round being played
	Powers []Power             // Every power in the game, eliminated or not
	Units  map[Territory]Power // Controller of the unit occupying a territory
	Owners map[Territory]Power // Owner of each owned supply center
}

// NewGameState initializes and returns an empty GameState.
func NewGameState(m *Map, t Time, powers ...Power) *GameState {
	ps := slices.Clone(powers)
	slices.Sort(ps)
	return &GameState{
		Map:    m,
		Time:   t,
		Powers: ps,
		Units:  make(map[Territory]Power),
		Owners: make(map[Territory]Power),
	}
}

// StandardGame returns the opening position for England, France, Germany and Italy in spring 1901.
func StandardGame() *GameState {
	gs := NewGameState(CreateMap(), Time{Year: 1901, Phase: Spring}, "ENG", "FRA", "GER", "ITA")
	homes := map[Power][]Territory{
		"ENG": {"EDI", "LON", "LVP"},
		"FRA": {"BRE", "MAR", "PAR"},
		"GER": {"BER", "KIE", "MUN"},
		"ITA": {"NAP", "ROM", "VEN"},
	}
	for power, territories := range homes {
		for _, t := range territories {
			gs.PlaceUnit(power, t)
			gs.SetOwner(power, t)
		}
	}
	return gs
}

// Copy returns a deep copy sharing the immutable map.
func (gs *GameState) Copy() *GameState {
	return &GameState{
		Map:    gs.Map,
		Time:   gs.Time,
		Powers: slices.Clone(gs.Powers),
		Units:  maps.Clone(gs.Units),
		Owners: maps.Clone(gs.Owners),
	}
}

func (gs *GameState) PlaceUnit(p Power, t Territory) {
	gs.Units[t] = p
}

func (gs *GameState) SetOwner(p Power, t Territory) {
	gs.Owners[t] = p
}

// Controller returns the power with a unit in t.
func (gs *GameState) Controller(t Territory) (Power, bool) {
	p, ok := gs.Units[t]
	return p, ok
}

// ControlledTerritories returns the territories holding p's units in alphabetical order.
func (gs *GameState) ControlledTerritories(p Power) []Territory {
	var territories []Territory
	for t, owner := range gs.Units {
		if owner == p {
			territories = append(territories, t)
		}
	}
	slices.Sort(territories)
	return territories
}

// OwnedSupplyCenters returns p's supply centers in alphabetical order.
func (gs *GameState) OwnedSupplyCenters(p Power) []Territory {
	var territories []Territory
	for t, owner := range gs.Owners {
		if owner == p {
			territories = append(territories, t)
		}
	}
	slices.Sort(territories)
	return territories
}

func (gs *GameState) SupplyCenterCount(p Power) int {
	count := 0
	for _, owner := range gs.Owners {
		if owner == p {
			count++
		}
	}
	return count
}

// IsDead reports whether p has neither units nor supply centers left.
func (gs *GameState) IsDead(p Power) bool {
	for _, owner := range gs.Units {
		if owner == p {
			return false
		}
	}
	return gs.SupplyCenterCount(p) == 0
}

// AlivePowers returns the powers that have not been eliminated, alphabetically.
func (gs *GameState) AlivePowers() []Power {
	var alive []Power
	for _, p := range gs.Powers {
		if !gs.IsDead(p) {
			alive = append(alive, p)
		}
	}
	return alive
}

// IsHistory reports whether (year, phase) lies strictly before the current round.
func (gs *GameState) IsHistory(phase Phase, year int) bool {
	return gs.Time.IsHistory(phase, year)
}
