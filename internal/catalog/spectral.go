package catalog

import "fmt"

// SpectralClass is one of the Harvard spectral types O, B, A, F, G, K, M.
type SpectralClass string

// Spectral classes, hottest first.
const (
	ClassO SpectralClass = "O"
	ClassB SpectralClass = "B"
	ClassA SpectralClass = "A"
	ClassF SpectralClass = "F"
	ClassG SpectralClass = "G"
	ClassK SpectralClass = "K"
	ClassM SpectralClass = "M"
)

// SpectralInfo binds a class to its closed temperature range, display color
// and a short description.
type SpectralInfo struct {
	Class       SpectralClass
	Color       string
	MinTempK    int
	MaxTempK    int
	Description string
	Kind        string
}

// spectralTable is indexed by the generator, so its order is part of the
// reproducibility contract.
var spectralTable = []SpectralInfo{
	{Class: ClassO, Color: "#9bb0ff", MinTempK: 30000, MaxTempK: 50000, Description: "Blue Hypergiant", Kind: "Hypergiant"},
	{Class: ClassB, Color: "#aabfff", MinTempK: 10000, MaxTempK: 30000, Description: "Blue-White Supergiant", Kind: "Supergiant"},
	{Class: ClassA, Color: "#cad7ff", MinTempK: 7500, MaxTempK: 10000, Description: "White Main Sequence", Kind: "Main"},
	{Class: ClassF, Color: "#f8f7ff", MinTempK: 6000, MaxTempK: 7500, Description: "Yellow-White Dwarf", Kind: "Dwarf"},
	{Class: ClassG, Color: "#fff4ea", MinTempK: 5200, MaxTempK: 6000, Description: "Yellow Dwarf (Sol-like)", Kind: "Dwarf"},
	{Class: ClassK, Color: "#ffd2a1", MinTempK: 3700, MaxTempK: 5200, Description: "Orange Dwarf", Kind: "Dwarf"},
	{Class: ClassM, Color: "#ffcc6f", MinTempK: 2400, MaxTempK: 3700, Description: "Red Dwarf/Giant", Kind: "Dwarf/Giant"},
}

// SpectralClasses returns the spectral table in generation order.
func SpectralClasses() []SpectralInfo {
	out := make([]SpectralInfo, len(spectralTable))
	copy(out, spectralTable)
	return out
}

// Spectral returns the table entry for class c.
func Spectral(c SpectralClass) (SpectralInfo, error) {
	for _, info := range spectralTable {
		if info.Class == c {
			return info, nil
		}
	}
	return SpectralInfo{}, fmt.Errorf("catalog: unknown spectral class %q: %w", c, ErrInvalidArgument)
}

// Contains reports whether tempK lies within the class bounds.
func (s SpectralInfo) Contains(tempK int) bool {
	return tempK >= s.MinTempK && tempK <= s.MaxTempK
}

var greekLetters = []string{
	"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta", "Theta",
	"Iota", "Kappa", "Lambda", "Mu", "Nu", "Xi", "Omicron", "Pi", "Rho",
	"Sigma", "Tau", "Upsilon", "Phi", "Chi", "Psi", "Omega",
}

var constellations = []string{
	"Andromedae", "Antliae", "Apodis", "Aquarii", "Aquilae", "Arae",
	"Arietis", "Aurigae", "Bootis", "Caeli", "Camelopardalis", "Cancri",
	"Canum", "Majoris", "Minoris", "Carinae", "Cassiopeiae", "Centauri",
	"Cephei", "Ceti", "Chamaeleontis", "Circini", "Columbae",
	"Comae Berenices", "Coronae",
}
