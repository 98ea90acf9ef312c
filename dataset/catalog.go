package dataset

import (
	"fmt"
	"strings"
)

// ColumnSpec is one immutable catalog entry.
type ColumnSpec struct {
	Name    string
	Unit    string
	Variant Variant
}

// Catalog is an ordered set of column specs with unique names.
type Catalog struct {
	specs []ColumnSpec
}

// NewCatalog validates that names are non-empty and unique and that every
// spec carries a usable variant.
func NewCatalog(specs ...ColumnSpec) (Catalog, error) {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return Catalog{}, fmt.Errorf("catalog: column with empty name")
		}
		if seen[name] {
			return Catalog{}, fmt.Errorf("catalog: duplicate column %q", name)
		}
		seen[name] = true
		if err := checkVariant(s); err != nil {
			return Catalog{}, err
		}
	}
	out := make([]ColumnSpec, len(specs))
	copy(out, specs)
	return Catalog{specs: out}, nil
}

// MustCatalog is NewCatalog that panics on an invalid catalog.
func MustCatalog(specs ...ColumnSpec) Catalog {
	c, err := NewCatalog(specs...)
	if err != nil {
		panic(err)
	}
	return c
}

func checkVariant(s ColumnSpec) error {
	switch v := s.Variant.(type) {
	case IntRange:
		if v.Max <= v.Min {
			return fmt.Errorf("catalog: %s: empty integer range [%d, %d)", s.Name, v.Min, v.Max)
		}
	case FloatRange:
		if v.Max <= v.Min {
			return fmt.Errorf("catalog: %s: empty float range [%g, %g)", s.Name, v.Min, v.Max)
		}
	case Choice:
		if len(v.Options) == 0 {
			return fmt.Errorf("catalog: %s: choice without options", s.Name)
		}
	case Flag:
	case Score:
		for _, t := range v.Terms {
			if t.Source.Max <= t.Source.Min {
				return fmt.Errorf("catalog: %s: empty score term range", s.Name)
			}
		}
		if v.Noise.Max < v.Noise.Min {
			return fmt.Errorf("catalog: %s: inverted noise range", s.Name)
		}
	default:
		return fmt.Errorf("catalog: %s: missing or unknown variant", s.Name)
	}
	return nil
}

// Len returns the number of specs.
func (c Catalog) Len() int { return len(c.specs) }

// Specs returns a copy of the specs in catalog order.
func (c Catalog) Specs() []ColumnSpec {
	out := make([]ColumnSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Names returns the column names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c.specs))
	for i, s := range c.specs {
		names[i] = s.Name
	}
	return names
}

// Lookup finds a spec by name.
func (c Catalog) Lookup(name string) (ColumnSpec, bool) {
	for _, s := range c.specs {
		if s.Name == name {
			return s, true
		}
	}
	return ColumnSpec{}, false
}

var defaultCatalog = MustCatalog(
	ColumnSpec{Name: "Points", Unit: "points", Variant: IntRange{Min: 5, Max: 30}},
	ColumnSpec{Name: "Assists", Unit: "count", Variant: IntRange{Min: 0, Max: 15}},
	ColumnSpec{Name: "Rebounds", Unit: "count", Variant: IntRange{Min: 0, Max: 20}},
	ColumnSpec{Name: "MinutesPlayed", Unit: "minutes", Variant: IntRange{Min: 20, Max: 48}},
	ColumnSpec{Name: "SpeedKmh", Unit: "km/h", Variant: FloatRange{Min: 15, Max: 35, Decimals: 1}},
	ColumnSpec{Name: "HeightCm", Unit: "cm", Variant: IntRange{Min: 170, Max: 205}},
	ColumnSpec{Name: "Team", Variant: Choice{Options: []string{"Lions", "Eagles", "Wolves", "Tigers", "Panthers", "Condors"}}},
	ColumnSpec{Name: "Position", Variant: Choice{Options: []string{"Forward", "Defender", "Midfielder", "Goalkeeper", "Pivot", "Guard"}}},
	ColumnSpec{Name: "Gender", Variant: Choice{Options: []string{"Male", "Female"}}},
	ColumnSpec{Name: "IsCaptain", Variant: Flag{}},
	ColumnSpec{Name: "PerformanceScore", Unit: "score", Variant: Score{
		Terms: []ScoreTerm{
			{Source: IntRange{Min: 5, Max: 30}, Weight: 0.4},
			{Source: IntRange{Min: 0, Max: 15}, Weight: 0.3},
			{Source: IntRange{Min: 0, Max: 20}, Weight: 0.3},
		},
		Noise: FloatRange{Min: 0, Max: 10},
	}},
)

// DefaultCatalog returns the built-in sports catalog.
func DefaultCatalog() Catalog { return defaultCatalog }
