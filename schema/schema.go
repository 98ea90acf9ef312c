package schema

import (
	"fmt"

	"github.com/spektr-org/playbook/engine"
)

// ============================================================================
// SCHEMA — Describes the shape of a generated dataset for the UI
// ============================================================================
// Built from a dataset.Dataset by Describe. The CLI uses schema metadata to
// label columns, offer column pickers and hint which charts will resolve.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Rows        int    `json:"rows"`

	// Columns lists every column name in dataset order.
	Columns []string `json:"columns"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	DescribedAt string `json:"describedAt,omitempty"`
}

// DimensionMeta describes a qualitative column used for counting and grouping.
type DimensionMeta struct {
	Key             string             `json:"key"`
	DisplayName     string             `json:"displayName"`
	SampleValues    []string           `json:"sampleValues"`
	Unique          int                `json:"unique"`
	CardinalityHint string             `json:"cardinalityHint"` // "low", "medium", "high"
	Groupable       bool               `json:"groupable"`
	Filterable      bool               `json:"filterable"`
	Charts          []engine.ChartKind `json:"charts"`
}

// MeasureMeta describes a quantitative column.
type MeasureMeta struct {
	Key                string             `json:"key"`
	DisplayName        string             `json:"displayName"`
	Unit               string             `json:"unit,omitempty"` // "points", "count", "minutes", "km/h", "cm", "score"
	Decimals           int                `json:"decimals"`
	SampleValues       []string           `json:"sampleValues"`
	Unique             int                `json:"unique"`
	CardinalityHint    string             `json:"cardinalityHint"`
	Aggregations       []string           `json:"aggregations,omitempty"`
	DefaultAggregation string             `json:"defaultAggregation,omitempty"`
	Charts             []engine.ChartKind `json:"charts"`
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// GetDefaultMeasure returns the first measure's key, or "" when the dataset
// has no quantitative column.
func (c Config) GetDefaultMeasure() string {
	if len(c.Measures) > 0 {
		return c.Measures[0].Key
	}
	return ""
}

// DisplayName returns the human label for a column key, or the key itself.
func (c Config) DisplayName(key string) string {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d.DisplayName
		}
	}
	for _, m := range c.Measures {
		if m.Key == key {
			return m.DisplayName
		}
	}
	return key
}

// ChartsFor returns the chart kinds a single-column selection of key can
// use. Scatter is listed for numeric columns when another numeric column
// exists to pair with.
func (c Config) ChartsFor(key string) []engine.ChartKind {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d.Charts
		}
	}
	for _, m := range c.Measures {
		if m.Key == key {
			return m.Charts
		}
	}
	return nil
}

// Summary returns a short "rows × columns" description.
func (c Config) Summary() string {
	return fmt.Sprintf("%d rows × %d columns (%d numeric, %d categorical)",
		c.Rows, len(c.Columns), len(c.Measures), len(c.Dimensions))
}
