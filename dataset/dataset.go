// Package dataset generates synthetic sports statistics tables.
//
// A Dataset is built once by a Generator (or New) and never mutated; a new
// generation replaces the whole value. Dataset implements
// engine.ColumnSource so the resolver reads it without copying.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spektr-org/playbook/engine"
)

// ErrInvalidDataset is wrapped by every invariant violation New reports.
var ErrInvalidDataset = errors.New("invalid dataset")

// Column is one named, typed column. Quantitative columns use Numbers,
// qualitative columns use Labels.
type Column struct {
	Name     string      `json:"name"`
	Kind     engine.Kind `json:"kind"`
	Unit     string      `json:"unit,omitempty"`
	Decimals int         `json:"decimals"`
	Numbers  []float64   `json:"numbers,omitempty"`
	Labels   []string    `json:"labels,omitempty"`
}

// Len returns the number of values in the column.
func (c Column) Len() int {
	if c.Kind == engine.Quantitative {
		return len(c.Numbers)
	}
	return len(c.Labels)
}

// Format renders row i for display.
func (c Column) Format(i int) string {
	if i < 0 || i >= c.Len() {
		return ""
	}
	if c.Kind == engine.Quantitative {
		return strconv.FormatFloat(c.Numbers[i], 'f', c.Decimals, 64)
	}
	return c.Labels[i]
}

// Dataset is an immutable table of equal-length columns with unique names.
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    int
	dimKeys []string
	mesKeys []string
}

// New assembles a Dataset, checking that names are unique, lengths agree and
// each column stores values matching its kind.
func New(columns ...Column) (*Dataset, error) {
	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}
	for _, c := range columns {
		switch c.Kind {
		case engine.Quantitative:
			if c.Labels != nil {
				return nil, fmt.Errorf("%w: quantitative column %q has labels", ErrInvalidDataset, c.Name)
			}
		case engine.Qualitative:
			if c.Numbers != nil {
				return nil, fmt.Errorf("%w: qualitative column %q has numbers", ErrInvalidDataset, c.Name)
			}
		default:
			return nil, fmt.Errorf("%w: column %q has no kind", ErrInvalidDataset, c.Name)
		}
		if c.Len() != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrInvalidDataset, c.Name, c.Len(), rows)
		}
	}
	return build(rows, columns)
}

func build(rows int, columns []Column) (*Dataset, error) {
	ds := &Dataset{
		columns: columns,
		index:   make(map[string]int, len(columns)),
		rows:    rows,
	}
	for i, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", ErrInvalidDataset, i)
		}
		if _, dup := ds.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrInvalidDataset, c.Name)
		}
		ds.index[c.Name] = i
		if c.Kind == engine.Quantitative {
			ds.mesKeys = append(ds.mesKeys, c.Name)
		} else {
			ds.dimKeys = append(ds.dimKeys, c.Name)
		}
	}
	return ds, nil
}

// Rows returns the sample count.
func (d *Dataset) Rows() int { return d.rows }

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int { return len(d.columns) }

// Columns returns the columns in dataset order. The slices inside are shared
// and must not be modified.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// ============================================================================
// engine.ColumnSource
// ============================================================================

func (d *Dataset) Len() int { return d.rows }

func (d *Dataset) Dimension(i int, key string) string {
	c, ok := d.Column(key)
	if !ok || c.Kind != engine.Qualitative || i < 0 || i >= len(c.Labels) {
		return ""
	}
	return c.Labels[i]
}

func (d *Dataset) Measure(i int, key string) float64 {
	c, ok := d.Column(key)
	if !ok || c.Kind != engine.Quantitative || i < 0 || i >= len(c.Numbers) {
		return 0
	}
	return c.Numbers[i]
}

func (d *Dataset) DimensionKeys() []string { return d.dimKeys }
func (d *Dataset) MeasureKeys() []string   { return d.mesKeys }

// ColumnNames returns the names in dataset order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// ColumnKind reports a column's kind.
func (d *Dataset) ColumnKind(name string) (engine.Kind, bool) {
	c, ok := d.Column(name)
	if !ok {
		return 0, false
	}
	return c.Kind, true
}

// FormatValue renders one cell with the column's precision.
func (d *Dataset) FormatValue(row int, column string) string {
	c, ok := d.Column(column)
	if !ok {
		return ""
	}
	return c.Format(row)
}

// ============================================================================
// JSON
// ============================================================================

type datasetJSON struct {
	Rows    int      `json:"rows"`
	Columns []Column `json:"columns"`
}

// MarshalJSON writes {"rows": n, "columns": [...]}.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(datasetJSON{Rows: d.rows, Columns: d.columns})
}

// UnmarshalJSON reads the MarshalJSON shape and re-checks invariants.
func (d *Dataset) UnmarshalJSON(b []byte) error {
	var raw datasetJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := New(raw.Columns...)
	if err != nil {
		return err
	}
	if len(raw.Columns) == 0 {
		parsed.rows = raw.Rows
	}
	*d = *parsed
	return nil
}
