package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ============================================================================
// CHART / TABLE / DESCRIBE BUILDER TESTS
// ============================================================================

func resolveOrFail(t *testing.T, src ColumnSource, kind ChartKind, cols ...string) *PlotInstruction {
	t.Helper()
	res := Resolve(src, ChartRequest{Kind: kind, Columns: cols})
	if res.Status != StatusResolved {
		t.Fatalf("%s %v: got %+v, want resolved", kind, cols, res)
	}
	return res.Instruction
}

func TestBuildChartHistogram(t *testing.T) {
	cfg := BuildChart(resolveOrFail(t, playersFixture(), ChartHistogram, "Points"))

	if cfg.ChartType != "histogram" || cfg.ShowLegend {
		t.Errorf("unexpected chart header: %+v", cfg)
	}
	want := []ChartPoint{
		{Label: "10-15", Value: 3},
		{Label: "15-20", Value: 0},
		{Label: "20-25", Value: 2},
		{Label: "25-30", Value: 1},
	}
	if diff := cmp.Diff(want, cfg.Series[0].Data); diff != "" {
		t.Errorf("histogram series (-want +got):\n%s", diff)
	}
}

func TestBuildChartGroupedBar(t *testing.T) {
	cfg := BuildChart(resolveOrFail(t, playersFixture(), ChartBar, "Team", "Assists"))

	if cfg.ChartType != "bar" || cfg.XAxis != "Team" || cfg.YAxis != "Mean of Assists" {
		t.Errorf("unexpected chart header: %+v", cfg)
	}
	want := []ChartSeries{{
		Name:  "Mean of Assists",
		Color: defaultColors[0],
		Data: []ChartPoint{
			{Label: "Lions", Value: 3.33},
			{Label: "Wolves", Value: 3.5},
			{Label: "Eagles", Value: 4},
		},
	}}
	if diff := cmp.Diff(want, cfg.Series); diff != "" {
		t.Errorf("grouped series (-want +got):\n%s", diff)
	}
}

func TestBuildChartPieColorsEverySlice(t *testing.T) {
	cfg := BuildChart(resolveOrFail(t, playersFixture(), ChartPie, "Team"))

	if cfg.ChartType != "pie" || cfg.ShowGrid {
		t.Errorf("unexpected chart header: %+v", cfg)
	}
	if len(cfg.Colors) != 3 || len(cfg.Series[0].Data) != 3 {
		t.Errorf("got %d colors for %d slices", len(cfg.Colors), len(cfg.Series[0].Data))
	}
}

func TestBuildChartContinuousSeries(t *testing.T) {
	src := playersFixture()
	tests := []struct {
		kind      ChartKind
		cols      []string
		chartType string
		name      string
	}{
		{ChartScatter, []string{"Assists", "Points"}, "scatter", "Points vs Assists"},
		{ChartTrend, []string{"Points"}, "line", "Points"},
	}

	for _, tt := range tests {
		cfg := BuildChart(resolveOrFail(t, src, tt.kind, tt.cols...))
		if cfg.ChartType != tt.chartType || cfg.Series[0].Name != tt.name {
			t.Errorf("%s: got type %q series %q", tt.kind, cfg.ChartType, cfg.Series[0].Name)
		}
		data := cfg.Series[0].Data
		if len(data) != src.Len() {
			t.Fatalf("%s: got %d points, want %d", tt.kind, len(data), src.Len())
		}
		if data[0].X == nil || data[0].Label != "" {
			t.Errorf("%s: continuous points need X and no label, got %+v", tt.kind, data[0])
		}
	}
}

func TestBuildChartNil(t *testing.T) {
	if cfg := BuildChart(nil); cfg != nil {
		t.Errorf("BuildChart(nil) = %+v, want nil", cfg)
	}
}

func TestBuildTable(t *testing.T) {
	table := BuildTable(playersFixture(), "Players", 2)

	wantColumns := []Column{
		{Key: "Points", Label: "Points", Type: "number", Align: "right"},
		{Key: "Assists", Label: "Assists", Type: "number", Align: "right"},
		{Key: "Team", Label: "Team", Type: "text", Align: "left"},
		{Key: "Gender", Label: "Gender", Type: "text", Align: "left"},
	}
	if diff := cmp.Diff(wantColumns, table.Columns); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}
	wantRows := [][]string{
		{"10", "1", "Lions", "Male"},
		{"20", "2", "Wolves", "Female"},
	}
	if diff := cmp.Diff(wantRows, table.Rows); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
	if table.TotalRows != 6 || table.Title != "Players" {
		t.Errorf("got title %q total %d", table.Title, table.TotalRows)
	}

	if all := BuildTable(playersFixture(), "", 0); len(all.Rows) != 6 {
		t.Errorf("limit 0: got %d rows, want 6", len(all.Rows))
	}
}

func TestBuildTableOnFilteredSource(t *testing.T) {
	filters, _ := ParseFilter("Team=Eagles")
	table := BuildTable(Filter(playersFixture(), filters), "Eagles", 0)

	want := [][]string{{"30", "4", "Eagles", "Female"}}
	if diff := cmp.Diff(want, table.Rows); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
}

func TestDescribe(t *testing.T) {
	got := Describe(playersFixture())

	want := []ColumnSummary{
		{Name: "Points", Kind: Quantitative, Count: 6, Mean: ptr(16.67), Std: ptr(8.16), Min: ptr(10), Max: ptr(30)},
		{Name: "Assists", Kind: Quantitative, Count: 6, Mean: ptr(3.5), Std: ptr(1.87), Min: ptr(1), Max: ptr(6)},
		{Name: "Team", Kind: Qualitative, Count: 6, Unique: 3, Top: "Lions", Freq: 3},
		{Name: "Gender", Kind: Qualitative, Count: 6, Unique: 2, Top: "Female", Freq: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Describe (-want +got):\n%s", diff)
	}
}

func TestDescribeEmptySource(t *testing.T) {
	got := Describe(sequenceFixture(0))
	if len(got) != 2 || got[0].Mean != nil || got[1].Unique != 0 {
		t.Errorf("unexpected summary of empty source: %+v", got)
	}
}
