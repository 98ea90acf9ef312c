package helpers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spektr-org/playbook/dataset"
	"github.com/spektr-org/playbook/engine"
)

// ============================================================================
// CSV HELPER — Dataset and chart data to/from CSV
// ============================================================================
// Export writes a header row followed by one row per sample, values printed
// with each column's precision. ParseDatasetCSV reads such an export back:
// a column is quantitative when every value parses as a number.
// ============================================================================

// WriteDatasetCSV writes every row of src as CSV.
func WriteDatasetCSV(w io.Writer, src engine.ColumnSource) error {
	return WriteTableCSV(w, engine.BuildTable(src, "", 0))
}

// WriteTableCSV writes a TableData with column keys as the header.
func WriteTableCSV(w io.Writer, table *engine.TableData) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Key
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// WriteInstructionCSV writes the data behind a plot instruction:
//
//	histogram    bin_min,bin_max,count
//	bar / pie    <column>,count,share
//	grouped bar  <category>,mean_<numeric>,count
//	scatter      <x>,<y>
//	trend        row_index,<column>
func WriteInstructionCSV(w io.Writer, instr *engine.PlotInstruction) error {
	if instr == nil {
		return fmt.Errorf("no plot instruction to export")
	}

	var header []string
	var rows [][]string
	num := engine.FormatNumber

	switch instr.Kind {
	case engine.PlotHistogram:
		header = []string{"bin_min", "bin_max", "count"}
		for _, b := range instr.Histogram.Bins {
			rows = append(rows, []string{num(b.Min), num(b.Max), strconv.Itoa(b.Count)})
		}

	case engine.PlotBar:
		header, rows = countRows(instr.Bar.Column, instr.Bar.Counts)

	case engine.PlotPie:
		header, rows = countRows(instr.Pie.Column, instr.Pie.Counts)

	case engine.PlotGroupedBar:
		gb := instr.GroupedBar
		header = []string{gb.CategoryColumn, "mean_" + gb.NumericColumn, "count"}
		for _, g := range gb.Groups {
			rows = append(rows, []string{g.Category, num(g.Mean), strconv.Itoa(g.Count)})
		}

	case engine.PlotScatter:
		header = []string{instr.Scatter.XColumn, instr.Scatter.YColumn}
		for _, p := range instr.Scatter.Points {
			rows = append(rows, []string{num(p.X), num(p.Y)})
		}

	case engine.PlotTrend:
		header = []string{instr.Trend.XAxis, instr.Trend.Column}
		for _, p := range instr.Trend.Points {
			rows = append(rows, []string{num(p.X), num(p.Y)})
		}

	default:
		return fmt.Errorf("unsupported plot kind %q", instr.Kind)
	}

	return WriteTableCSV(w, &engine.TableData{Columns: keyColumns(header), Rows: rows})
}

func countRows(column string, counts []engine.CategoryCount) ([]string, [][]string) {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Count), engine.FormatNumber(c.Share)})
	}
	return []string{column, "count", "share"}, rows
}

func keyColumns(keys []string) []engine.Column {
	cols := make([]engine.Column, len(keys))
	for i, k := range keys {
		cols[i] = engine.Column{Key: k}
	}
	return cols
}

// ParseDatasetCSV parses a dataset export back into a Dataset.
// Column order follows the header. Empty input yields an empty dataset.
func ParseDatasetCSV(data []byte) (*dataset.Dataset, error) {
	reader := csv.NewReader(bytes.NewReader(data))

	headers, err := reader.Read()
	if err == io.EOF {
		return dataset.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	raw := make([][]string, len(headers))
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		for i := range headers {
			raw[i] = append(raw[i], strings.TrimSpace(row[i]))
		}
	}

	columns := make([]dataset.Column, len(headers))
	for i, h := range headers {
		columns[i] = parseColumn(strings.TrimSpace(h), raw[i])
	}
	return dataset.New(columns...)
}

// parseColumn tries numeric first and falls back to labels.
func parseColumn(name string, values []string) dataset.Column {
	numbers := make([]float64, len(values))
	decimals := 0
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return dataset.Column{Name: name, Kind: engine.Qualitative, Labels: values}
		}
		numbers[i] = f
		if dot := strings.IndexByte(v, '.'); dot >= 0 && len(v)-dot-1 > decimals {
			decimals = len(v) - dot - 1
		}
	}
	return dataset.Column{Name: name, Kind: engine.Quantitative, Decimals: decimals, Numbers: numbers}
}
