package risk

import (
	"fmt"
	"slices"
)

type Canton struct {
	ID           int    // Index into Map.Cantons
	Name         string // Full name of the canton
	Abbreviation string
	AdjacentIDs  []int
}

// Region grants Bonus extra troops per turn to the player holding all of it.
type Region struct {
	Name      string
	CantonIDs []int
	Bonus     int
}

// Map is the static board. It is shared by every state of a game and must not
// be modified once play starts.
type Map struct {
	Cantons []*Canton
	Regions []*Region
}

// AddCanton appends a canton and returns its ID.
func (m *Map) AddCanton(abbreviation, name string) int {
	id := len(m.Cantons)
	m.Cantons = append(m.Cantons, &Canton{ID: id, Name: name, Abbreviation: abbreviation})
	return id
}

// AddBorder adds a bidirectional border between two cantons.
func (m *Map) AddBorder(id1, id2 int) {
	if !slices.Contains(m.Cantons[id1].AdjacentIDs, id2) {
		m.Cantons[id1].AdjacentIDs = append(m.Cantons[id1].AdjacentIDs, id2)
	}
	if !slices.Contains(m.Cantons[id2].AdjacentIDs, id1) {
		m.Cantons[id2].AdjacentIDs = append(m.Cantons[id2].AdjacentIDs, id1)
	}
}

func (m *Map) AddRegion(name string, bonus int, cantonIDs ...int) {
	m.Regions = append(m.Regions, &Region{Name: name, CantonIDs: cantonIDs, Bonus: bonus})
}

func (m *Map) AreAdjacent(id1, id2 int) bool {
	return slices.Contains(m.Cantons[id1].AdjacentIDs, id2)
}

// CreateMap builds the map of the Swiss cantons.
func CreateMap() *Map {
	m := &Map{}
	ids := make(map[string]int, len(cantonAbbreviations))
	for i, abbreviation := range cantonAbbreviations {
		ids[abbreviation] = m.AddCanton(abbreviation, cantonNames[i])
	}
	for abbreviation, neighbors := range adjacencyData {
		for _, neighbor := range neighbors {
			m.AddBorder(ids[abbreviation], ids[neighbor])
		}
	}
	for _, region := range regionData {
		cantons := make([]int, len(region.cantons))
		for i, abbreviation := range region.cantons {
			id, ok := ids[abbreviation]
			if !ok {
				panic(fmt.Sprintf("unknown canton %s in region %s", abbreviation, region.name))
			}
			cantons[i] = id
		}
		m.AddRegion(region.name, region.bonus, cantons...)
	}
	// Map iteration order must not leak into move order.
	for _, c := range m.Cantons {
		slices.Sort(c.AdjacentIDs)
	}
	return m
}

var cantonAbbreviations = []string{
	"AG", "AI", "AR", "BE", "BL", "BS", "FR", "GE", "GL", "GR",
	"JU", "LU", "NE", "NW", "OW", "SG", "SH", "SO", "SZ", "TG",
	"TI", "UR", "VD", "VS", "ZG", "ZH",
}

var cantonNames = []string{
	"Aargau", "Appenzell Innerrhoden", "Appenzell Ausserrhoden", "Bern",
	"Basel-Landschaft", "Basel-Stadt", "Fribourg", "Geneva", "Glarus",
	"Graubünden", "Jura", "Lucerne", "Neuchâtel", "Nidwalden", "Obwalden",
	"St. Gallen", "Schaffhausen", "Solothurn", "Schwyz", "Thurgau",
	"Ticino", "Uri", "Vaud", "Valais", "Zug", "Zürich",
}

var adjacencyData = map[string][]string{
	"AG": {"BL", "LU", "ZG", "ZH", "SO"},
	"AI": {"AR", "SG"},
	"AR": {"AI", "SG"},
	"BE": {"FR", "JU", "NE", "SO", "VD", "VS", "LU"},
	"BL": {"AG", "BS", "SO", "JU"},
	"BS": {"BL"},
	"FR": {"BE", "VD", "NE"},
	"GE": {"VD"},
	"GL": {"SG", "SZ", "GR"},
	"GR": {"SG", "TI", "GL", "UR"},
	"JU": {"BE", "SO", "BL"},
	"LU": {"AG", "BE", "NW", "OW", "ZG"},
	"NE": {"BE", "FR", "VD"},
	"NW": {"OW", "LU", "UR"},
	"OW": {"NW", "UR", "LU"},
	"SG": {"AI", "AR", "GL", "TG", "ZH", "GR"},
	"SH": {"ZH", "TG"},
	"SO": {"BE", "BL", "JU", "AG"},
	"SZ": {"ZG", "UR", "GL"},
	"TG": {"SH", "SG", "ZH"},
	"TI": {"GR", "VS", "UR"},
	"UR": {"SZ", "OW", "GR", "TI", "NW"},
	"VD": {"GE", "FR", "VS", "NE", "BE"},
	"VS": {"VD", "BE", "TI", "UR"},
	"ZG": {"AG", "SZ", "LU", "ZH"},
	"ZH": {"AG", "SG", "TG", "SH", "ZG"},
}

var regionData = []struct {
	name    string
	bonus   int
	cantons []string
}{
	{"Romandie", 3, []string{"GE", "VD", "NE", "FR", "JU"}},
	{"Mittelland", 3, []string{"BE", "SO", "BL", "BS", "AG"}},
	{"Zentralschweiz", 3, []string{"LU", "ZG", "SZ", "UR", "OW", "NW"}},
	{"Ostschweiz", 4, []string{"ZH", "SH", "TG", "SG", "AI", "AR", "GL"}},
	{"Alpen", 2, []string{"VS", "TI", "GR"}},
}
