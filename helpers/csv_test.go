package helpers

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/spektr-org/playbook/dataset"
	"github.com/spektr-org/playbook/engine"
)

func smallDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		dataset.Column{Name: "Team", Kind: engine.Qualitative, Labels: []string{"Lions", "Wolves", "Lions"}},
		dataset.Column{Name: "SpeedKmh", Kind: engine.Quantitative, Decimals: 1, Numbers: []float64{20.5, 31, 18.2}},
		dataset.Column{Name: "Points", Kind: engine.Quantitative, Numbers: []float64{10, 20, 10}},
	)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func TestWriteDatasetCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDatasetCSV(&buf, smallDataset(t)); err != nil {
		t.Fatalf("WriteDatasetCSV: %v", err)
	}

	want := "Team,SpeedKmh,Points\n" +
		"Lions,20.5,10\n" +
		"Wolves,31.0,20\n" +
		"Lions,18.2,10\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestDatasetCSVRoundTrip(t *testing.T) {
	original := dataset.NewGenerator(rand.NewSource(12)).Generate(60, 11)

	var buf bytes.Buffer
	if err := WriteDatasetCSV(&buf, original); err != nil {
		t.Fatalf("WriteDatasetCSV: %v", err)
	}
	parsed, err := ParseDatasetCSV(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseDatasetCSV: %v", err)
	}

	// Units are not part of the CSV export.
	ignoreUnit := cmpopts.IgnoreFields(dataset.Column{}, "Unit")
	if diff := cmp.Diff(original.Columns(), parsed.Columns(), ignoreUnit); diff != "" {
		t.Errorf("round trip changed the dataset (-want +got):\n%s", diff)
	}
}

func TestParseDatasetCSVErrors(t *testing.T) {
	if _, err := ParseDatasetCSV([]byte("A,B\n1,2\n3\n")); err == nil {
		t.Error("short row: want error")
	}
	if _, err := ParseDatasetCSV([]byte("A,A\n1,2\n")); err == nil {
		t.Error("duplicate header: want error")
	}

	ds, err := ParseDatasetCSV(nil)
	if err != nil || ds.NumColumns() != 0 {
		t.Errorf("empty input: got %v, %v", ds, err)
	}
}

func TestWriteInstructionCSV(t *testing.T) {
	ds := smallDataset(t)
	tests := []struct {
		name string
		req  engine.ChartRequest
		opts []engine.Option
		want string
	}{
		{
			name: "count bar",
			req:  engine.ChartRequest{Kind: engine.ChartBar, Columns: []string{"Team"}},
			want: "Team,count,share\nLions,2,66.67\nWolves,1,33.33\n",
		},
		{
			name: "grouped bar",
			req:  engine.ChartRequest{Kind: engine.ChartBar, Columns: []string{"Points", "Team"}},
			want: "Team,mean_Points,count\nLions,10,2\nWolves,20,1\n",
		},
		{
			name: "pie",
			req:  engine.ChartRequest{Kind: engine.ChartPie, Columns: []string{"Team"}},
			want: "Team,count,share\nLions,2,66.67\nWolves,1,33.33\n",
		},
		{
			name: "scatter",
			req:  engine.ChartRequest{Kind: engine.ChartScatter, Columns: []string{"Points", "SpeedKmh"}},
			want: "Points,SpeedKmh\n10,20.5\n20,31\n10,18.2\n",
		},
		{
			name: "trend",
			req:  engine.ChartRequest{Kind: engine.ChartTrend, Columns: []string{"Points"}},
			want: "row_index,Points\n0,10\n1,20\n2,10\n",
		},
		{
			name: "histogram",
			req:  engine.ChartRequest{Kind: engine.ChartHistogram, Columns: []string{"Points"}},
			opts: []engine.Option{engine.WithHistogramBins(2)},
			want: "bin_min,bin_max,count\n10,15,2\n15,20,1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Resolve(ds, tt.req, tt.opts...)
			if res.Status != engine.StatusResolved {
				t.Fatalf("got %+v, want resolved", res)
			}
			var buf bytes.Buffer
			if err := WriteInstructionCSV(&buf, res.Instruction); err != nil {
				t.Fatalf("WriteInstructionCSV: %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("CSV mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteInstructionCSVNil(t *testing.T) {
	err := WriteInstructionCSV(&bytes.Buffer{}, nil)
	if err == nil || !strings.Contains(err.Error(), "no plot instruction") {
		t.Errorf("got %v, want missing-instruction error", err)
	}
}
