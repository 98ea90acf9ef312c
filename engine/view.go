package engine

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns dataset values. It reads through these interfaces.
//
// Implementations:
//   dataset.Dataset — the generated table
//   SubView         — row subset (indices into parent, zero-copy)
// ============================================================================

// RecordView provides indexed access to a dataset.
// Dimension reads a qualitative label, Measure a quantitative number.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string // qualitative column names
	MeasureKeys() []string   // quantitative column names
}

// ColumnSource is a RecordView that also knows its column order and kinds.
type ColumnSource interface {
	RecordView
	ColumnNames() []string
	ColumnKind(name string) (Kind, bool)
}

// ============================================================================
// SUB VIEW — row subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView's rows.
// Holds indices into the parent, no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return 0
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ValueFormatter is implemented by sources that know each column's display
// precision. Table output falls back to FormatNumber without it.
type ValueFormatter interface {
	FormatValue(row int, column string) string
}
