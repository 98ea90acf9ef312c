package engine

// ============================================================================
// DESCRIBE — Per-column summary statistics
// ============================================================================

// Describe summarizes every column of a source in column order.
// Quantitative: count, mean, std, min, max. Qualitative: count, unique,
// top (most frequent, ties broken alphabetically), freq.
func Describe(src ColumnSource) []ColumnSummary {
	names := src.ColumnNames()
	out := make([]ColumnSummary, 0, len(names))

	for _, name := range names {
		kind, _ := src.ColumnKind(name)
		s := ColumnSummary{Name: name, Kind: kind, Count: src.Len()}

		if kind == Quantitative {
			if src.Len() > 0 {
				s.Mean = ptr(RoundTo2(AvgMeasure(src, name)))
				s.Std = ptr(RoundTo2(StdMeasure(src, name)))
				s.Min = ptr(MinMeasure(src, name))
				s.Max = ptr(MaxMeasure(src, name))
			}
		} else {
			counts := CountValues(src, name, kind)
			s.Unique = len(counts)
			if len(counts) > 0 {
				s.Top = counts[0].Label
				s.Freq = counts[0].Count
			}
		}
		out = append(out, s)
	}
	return out
}

func ptr(v float64) *float64 { return &v }
