package dataset

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spektr-org/playbook/engine"
)

func sampleColumns() []Column {
	return []Column{
		{Name: "Points", Kind: engine.Quantitative, Unit: "points", Numbers: []float64{10, 22, 7}},
		{Name: "SpeedKmh", Kind: engine.Quantitative, Unit: "km/h", Decimals: 1, Numbers: []float64{20.5, 31, 18.25}},
		{Name: "Team", Kind: engine.Qualitative, Labels: []string{"Lions", "Wolves", "Lions"}},
	}
}

func TestNewValidDataset(t *testing.T) {
	ds, err := New(sampleColumns()...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ds.Rows() != 3 || ds.NumColumns() != 3 {
		t.Fatalf("got %d rows × %d columns", ds.Rows(), ds.NumColumns())
	}
	if diff := cmp.Diff([]string{"Points", "SpeedKmh", "Team"}, ds.ColumnNames()); diff != "" {
		t.Errorf("ColumnNames (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Team"}, ds.DimensionKeys()); diff != "" {
		t.Errorf("DimensionKeys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Points", "SpeedKmh"}, ds.MeasureKeys()); diff != "" {
		t.Errorf("MeasureKeys (-want +got):\n%s", diff)
	}
}

func TestNewRejectsBrokenInvariants(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
	}{
		{
			name: "duplicate names",
			columns: []Column{
				{Name: "Points", Kind: engine.Quantitative, Numbers: []float64{1}},
				{Name: "Points", Kind: engine.Quantitative, Numbers: []float64{2}},
			},
		},
		{
			name: "unequal lengths",
			columns: []Column{
				{Name: "Points", Kind: engine.Quantitative, Numbers: []float64{1, 2}},
				{Name: "Team", Kind: engine.Qualitative, Labels: []string{"Lions"}},
			},
		},
		{
			name: "labels on a quantitative column",
			columns: []Column{
				{Name: "Points", Kind: engine.Quantitative, Labels: []string{"a"}},
			},
		},
		{
			name: "numbers on a qualitative column",
			columns: []Column{
				{Name: "Team", Kind: engine.Qualitative, Numbers: []float64{1}},
			},
		},
		{
			name:    "missing kind",
			columns: []Column{{Name: "Points", Numbers: []float64{1}}},
		},
		{
			name:    "empty name",
			columns: []Column{{Kind: engine.Quantitative, Numbers: []float64{1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.columns...)
			if !errors.Is(err, ErrInvalidDataset) {
				t.Fatalf("New: got %v, want ErrInvalidDataset", err)
			}
		})
	}
}

func TestColumnSourceAccess(t *testing.T) {
	ds, err := New(sampleColumns()...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := ds.Measure(1, "Points"); got != 22 {
		t.Errorf("Measure(1, Points) = %v, want 22", got)
	}
	if got := ds.Dimension(2, "Team"); got != "Lions" {
		t.Errorf("Dimension(2, Team) = %q, want Lions", got)
	}
	// Cross-kind and out-of-range reads return zero values.
	if got := ds.Measure(0, "Team"); got != 0 {
		t.Errorf("Measure on qualitative column = %v, want 0", got)
	}
	if got := ds.Dimension(9, "Team"); got != "" {
		t.Errorf("Dimension out of range = %q, want empty", got)
	}

	kind, ok := ds.ColumnKind("SpeedKmh")
	if !ok || kind != engine.Quantitative {
		t.Errorf("ColumnKind(SpeedKmh) = %v, %v", kind, ok)
	}
	if _, ok := ds.ColumnKind("Missing"); ok {
		t.Error("ColumnKind(Missing) reported a column")
	}
}

func TestFormatValueUsesColumnPrecision(t *testing.T) {
	ds, err := New(sampleColumns()...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		row    int
		column string
		want   string
	}{
		{0, "Points", "10"},
		{1, "SpeedKmh", "31.0"},
		{0, "SpeedKmh", "20.5"},
		{1, "Team", "Wolves"},
		{0, "Missing", ""},
		{5, "Points", ""},
	}
	for _, tt := range tests {
		if got := ds.FormatValue(tt.row, tt.column); got != tt.want {
			t.Errorf("FormatValue(%d, %q) = %q, want %q", tt.row, tt.column, got, tt.want)
		}
	}
}

func TestColumnsReturnsCopy(t *testing.T) {
	ds, err := New(sampleColumns()...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cols := ds.Columns()
	cols[0].Name = "Changed"
	if ds.ColumnNames()[0] != "Points" {
		t.Fatal("mutating Columns() result changed the dataset")
	}
}

func TestDatasetJSONRoundTrip(t *testing.T) {
	original := NewGenerator(rand.NewSource(17)).Generate(25, 5)

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Dataset
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.Rows() != original.Rows() {
		t.Errorf("rows: got %d, want %d", decoded.Rows(), original.Rows())
	}
	if diff := cmp.Diff(original.Columns(), decoded.Columns()); diff != "" {
		t.Errorf("columns changed after round trip (-want +got):\n%s", diff)
	}
}

func TestDatasetJSONRejectsInvalidPayload(t *testing.T) {
	payload := `{"rows":2,"columns":[{"name":"A","kind":"quantitative","decimals":0,"numbers":[1,2]},{"name":"A","kind":"qualitative","decimals":0,"labels":["x","y"]}]}`
	var ds Dataset
	if err := json.Unmarshal([]byte(payload), &ds); !errors.Is(err, ErrInvalidDataset) {
		t.Fatalf("Unmarshal duplicate columns: got %v, want ErrInvalidDataset", err)
	}
}

func TestEmptyDatasetResolvesIdle(t *testing.T) {
	ds, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	res := engine.Resolve(ds, engine.ChartRequest{Kind: engine.ChartHistogram})
	if res.Status != engine.StatusIdle {
		t.Fatalf("empty request: got status %v, want idle", res.Status)
	}
}
