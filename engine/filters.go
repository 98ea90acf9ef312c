package engine

import (
	"fmt"
	"sort"
	"strings"
)

// ============================================================================
// FILTERS — Row filtering on qualitative columns via RecordView
// ============================================================================
// Single-pass filter: checks ALL column constraints per row in one loop.
// Returns a SubView (index list into parent), zero data copy.
// ============================================================================

// Filters restrict rows by qualitative column values.
// OR within a column, AND across columns. Empty = all rows.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// IsEmpty reports whether no column constraint is set.
func (f Filters) IsEmpty() bool {
	for _, allowed := range f.Dimensions {
		if len(allowed) > 0 {
			return false
		}
	}
	return true
}

// ParseFilter parses "Column=a,b" into a single-column Filters value.
func ParseFilter(expr string) (Filters, error) {
	name, values, ok := strings.Cut(expr, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Filters{}, fmt.Errorf("filter %q: want Column=value[,value...]", expr)
	}
	var allowed []string
	for _, v := range strings.Split(values, ",") {
		if v = strings.TrimSpace(v); v != "" {
			allowed = append(allowed, v)
		}
	}
	if len(allowed) == 0 {
		return Filters{}, fmt.Errorf("filter %q: no values", expr)
	}
	return Filters{Dimensions: map[string][]string{name: allowed}}, nil
}

// Merge combines two filters. Values for the same column are unioned.
func (f Filters) Merge(other Filters) Filters {
	out := Filters{Dimensions: make(map[string][]string, len(f.Dimensions)+len(other.Dimensions))}
	for _, src := range []Filters{f, other} {
		for dim, allowed := range src.Dimensions {
			out.Dimensions[dim] = append(out.Dimensions[dim], allowed...)
		}
	}
	return out
}

// Validate checks that every filtered column exists and is qualitative.
func (f Filters) Validate(src ColumnSource) error {
	dims := make([]string, 0, len(f.Dimensions))
	for dim := range f.Dimensions {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	for _, dim := range dims {
		kind, ok := src.ColumnKind(dim)
		if !ok {
			return fmt.Errorf("filter column %q is not in the current dataset", dim)
		}
		if kind != Qualitative {
			return fmt.Errorf("filter column %q is numeric; only categorical columns can be filtered", dim)
		}
	}
	return nil
}

// ApplyFilters returns a view of rows matching all column filters.
// Matching is case-insensitive. Empty filter returns the original view.
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}
	return newSubView(view, matchingRows(view, filters))
}

// Filter is ApplyFilters for a ColumnSource: the result keeps the parent's
// column order, kinds and value formatting.
func Filter(src ColumnSource, filters Filters) ColumnSource {
	if filters.IsEmpty() {
		return src
	}
	return &filteredSource{
		SubView: SubView{parent: src, indices: matchingRows(src, filters)},
		src:     src,
	}
}

func matchingRows(view RecordView, filters Filters) []int {
	// Pre-build lowercase lookup sets for each column filter
	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	// Single pass: a row passes if it matches ALL column filters
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for dim, set := range sets {
			if !set[strings.ToLower(view.Dimension(i, dim))] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}
	return indices
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}

type filteredSource struct {
	SubView
	src ColumnSource
}

func (f *filteredSource) ColumnNames() []string { return f.src.ColumnNames() }

func (f *filteredSource) ColumnKind(name string) (Kind, bool) { return f.src.ColumnKind(name) }

func (f *filteredSource) FormatValue(row int, column string) string {
	if row < 0 || row >= len(f.indices) {
		return ""
	}
	if vf, ok := f.src.(ValueFormatter); ok {
		return vf.FormatValue(f.indices[row], column)
	}
	kind, _ := f.src.ColumnKind(column)
	if kind == Quantitative {
		return FormatNumber(f.src.Measure(f.indices[row], column))
	}
	return f.src.Dimension(f.indices[row], column)
}
