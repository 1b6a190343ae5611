package game

import "golang.org/x/exp/slices"

type Province struct {
	Name         Territory   // Three letter abbreviation
	SupplyCenter bool        // Whether owning it counts towards a power's strength
	Adjacent     []Territory // Kept sorted alphabetically
}

// Map represents the static game board.
type Map struct {
	Provinces map[Territory]*Province
}

// NewMap creates and returns a new Map instance.
func NewMap() *Map {
	return &Map{
		Provinces: make(map[Territory]*Province),
	}
}

// AddProvince adds a new province to the map.
func (m *Map) AddProvince(name Territory, supplyCenter bool) {
	if _, ok := m.Provinces[name]; ok {
		return
	}
	m.Provinces[name] = &Province{Name: name, SupplyCenter: supplyCenter}
}

// AddBorder adds a bidirectional border between two provinces.
func (m *Map) AddBorder(a, b Territory) {
	m.addAdjacent(a, b)
	m.addAdjacent(b, a)
}

func (m *Map) addAdjacent(from, to Territory) {
	p := m.Provinces[from]
	idx, found := slices.BinarySearch(p.Adjacent, to)
	if found {
		return
	}
	p.Adjacent = slices.Insert(p.Adjacent, idx, to)
}

// Adjacent returns the alphabetically ordered neighbours of t.
func (m *Map) Adjacent(t Territory) []Territory {
	p, ok := m.Provinces[t]
	if !ok {
		return nil
	}
	return slices.Clone(p.Adjacent)
}

func (m *Map) AreAdjacent(a, b Territory) bool {
	p, ok := m.Provinces[a]
	if !ok {
		return false
	}
	_, found := slices.BinarySearch(p.Adjacent, b)
	return found
}

func (m *Map) IsSupplyCenter(t Territory) bool {
	p, ok := m.Provinces[t]
	return ok && p.SupplyCenter
}

// Territories returns every province name in alphabetical order.
func (m *Map) Territories() []Territory {
	names := make([]Territory, 0, len(m.Provinces))
	for name := range m.Provinces {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CreateMap builds the land provinces of western and central Europe used by
// the simulation. Only army adjacencies are modelled.
func CreateMap() *Map {
	m := NewMap()

	for _, name := range supplyCenters {
		m.AddProvince(name, true)
	}
	for _, name := range otherProvinces {
		m.AddProvince(name, false)
	}
	for _, border := range borders {
		m.AddBorder(border[0], border[1])
	}

	return m
}

var supplyCenters = []Territory{
	"BEL", "BER", "BRE", "DEN", "EDI", "HOL", "KIE", "LON", "LVP", "MAR",
	"MUN", "NAP", "PAR", "POR", "ROM", "SPA", "VEN",
}

var otherProvinces = []Territory{
	"APU", "BUR", "CLY", "GAS", "PIC", "PIE", "PRU", "RUH", "SIL", "TUS",
	"TYR", "WAL", "YOR",
}

var borders = [][2]Territory{
	// France and Iberia
	{"BRE", "PIC"}, {"BRE", "PAR"}, {"BRE", "GAS"},
	{"PAR", "PIC"}, {"PAR", "BUR"}, {"PAR", "GAS"},
	{"PIC", "BUR"}, {"PIC", "BEL"},
	{"BUR", "BEL"}, {"BUR", "RUH"}, {"BUR", "MUN"}, {"BUR", "MAR"}, {"BUR", "GAS"},
	{"GAS", "MAR"}, {"GAS", "SPA"},
	{"MAR", "PIE"}, {"MAR", "SPA"},
	{"SPA", "POR"},
	// Low countries and Germany
	{"BEL", "RUH"}, {"BEL", "HOL"},
	{"HOL", "RUH"}, {"HOL", "KIE"},
	{"RUH", "KIE"}, {"RUH", "MUN"},
	{"KIE", "MUN"}, {"KIE", "BER"}, {"KIE", "DEN"},
	{"BER", "MUN"}, {"BER", "SIL"}, {"BER", "PRU"},
	{"MUN", "SIL"}, {"MUN", "TYR"},
	{"SIL", "PRU"},
	// Italy
	{"TYR", "PIE"}, {"TYR", "VEN"},
	{"PIE", "VEN"}, {"PIE", "TUS"},
	{"VEN", "TUS"}, {"VEN", "ROM"}, {"VEN", "APU"},
	{"TUS", "ROM"},
	{"ROM", "APU"}, {"ROM", "NAP"},
	{"APU", "NAP"},
	// Britain
	{"LON", "WAL"}, {"LON", "YOR"},
	{"WAL", "YOR"}, {"WAL", "LVP"},
	{"YOR", "LVP"}, {"YOR", "EDI"},
	{"LVP", "EDI"}, {"LVP", "CLY"},
	{"EDI", "CLY"},
}
