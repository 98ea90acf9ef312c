package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ============================================================================
// AGGREGATORS — Counting, Grouping, Bucketing via RecordView
// ============================================================================
// All functions operate on RecordView: zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
// Output order never depends on map iteration.
// ============================================================================

// Group is an intermediate grouping result.
type Group struct {
	Key   string     `json:"key"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // rows in this group (zero-copy)
}

// ============================================================================
// GROUPING
// ============================================================================

// groupBySingle partitions rows by a qualitative column, keeping groups in
// order of first appearance.
func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// GroupMeans averages a quantitative column per category of a qualitative
// column. Categories keep first-appearance order.
func GroupMeans(view RecordView, categoryColumn, numericColumn string) []GroupMean {
	groups := groupBySingle(view, categoryColumn)
	out := make([]GroupMean, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupMean{
			Category: g.Key,
			Mean:     AvgMeasure(g.View, numericColumn),
			Count:    g.Count,
		})
	}
	return out
}

// ============================================================================
// COUNTING
// ============================================================================

// valueLabel renders the value at row i as a category label.
func valueLabel(view RecordView, i int, column string, kind Kind) string {
	if kind == Quantitative {
		return FormatNumber(view.Measure(i, column))
	}
	return view.Dimension(i, column)
}

// CountValues counts occurrences of each distinct value, sorted by count
// descending then label ascending. Share is the percentage of all rows.
func CountValues(view RecordView, column string, kind Kind) []CategoryCount {
	n := view.Len()
	counts := make(map[string]int)
	for i := 0; i < n; i++ {
		counts[valueLabel(view, i, column, kind)]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for label, c := range counts {
		share := 0.0
		if n > 0 {
			share = RoundTo2(float64(c) / float64(n) * 100)
		}
		out = append(out, CategoryCount{Label: label, Count: c, Share: share})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// DistinctCount returns the number of distinct values in a column.
func DistinctCount(view RecordView, column string, kind Kind) int {
	seen := make(map[string]struct{})
	for i := 0; i < view.Len(); i++ {
		seen[valueLabel(view, i, column, kind)] = struct{}{}
	}
	return len(seen)
}

// ============================================================================
// BUCKETING
// ============================================================================

// SturgesBins returns ceil(log2(n)) + 1, the default histogram bucket count.
func SturgesBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// HistogramBins splits values into n equal-width buckets over [min, max].
// Bins are half-open except the last, which includes max. A constant
// column yields a single bin.
func HistogramBins(values []float64, n int) []Bin {
	if len(values) == 0 {
		return nil
	}
	if n < 1 {
		n = SturgesBins(len(values))
	}

	lo, hi := minMax(values)
	if lo == hi {
		return []Bin{{Min: lo, Max: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Min = lo + float64(i)*width
		bins[i].Max = lo + float64(i+1)*width
	}
	bins[n-1].Max = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Count++
	}
	return bins
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// ============================================================================
// MEASURE AGGREGATION
// ============================================================================

// MeasureValues copies a quantitative column out of a view in row order.
func MeasureValues(view RecordView, measure string) []float64 {
	out := make([]float64, view.Len())
	for i := range out {
		out[i] = view.Measure(i, measure)
	}
	return out
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// AvgMeasure computes average of a named measure.
func AvgMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	return SumMeasure(view, measure) / float64(n)
}

// StdMeasure is the sample standard deviation (n-1 denominator).
func StdMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n < 2 {
		return 0
	}
	mean := AvgMeasure(view, measure)
	var ss float64
	for i := 0; i < n; i++ {
		d := view.Measure(i, measure) - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// MaxMeasure returns the largest value of a named measure.
func MaxMeasure(view RecordView, measure string) float64 {
	if view.Len() == 0 {
		return 0
	}
	_, hi := minMax(MeasureValues(view, measure))
	return hi
}

// MinMeasure returns the smallest value of a named measure.
func MinMeasure(view RecordView, measure string) float64 {
	if view.Len() == 0 {
		return 0
	}
	lo, _ := minMax(MeasureValues(view, measure))
	return lo
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatNumber prints a float without trailing zeros: 17, 23.4.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForColumn splits a CamelCase column name into words:
// "MinutesPlayed" → "Minutes Played".
func LabelForColumn(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteRune(' ')
		}
		if r == '_' {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LabelForAggregation returns a human-readable label for an aggregator.
func LabelForAggregation(aggregation string) string {
	switch aggregation {
	case "mean", "avg":
		return "Mean"
	case "count":
		return "Count"
	case "sum":
		return "Sum"
	default:
		return "Value"
	}
}
