package engine

// ============================================================================
// TABLE BUILDER — Produces TableData for displaying the dataset
// ============================================================================
// Column discovery uses ColumnNames()/ColumnKind() so the table keeps the
// dataset's column order.
// ============================================================================

// BuildTable renders the first limit rows of a source. limit <= 0 means all.
func BuildTable(src ColumnSource, title string, limit int) *TableData {
	names := src.ColumnNames()
	columns := make([]Column, 0, len(names))
	kinds := make([]Kind, len(names))

	for i, name := range names {
		kind, _ := src.ColumnKind(name)
		kinds[i] = kind
		col := Column{Key: name, Label: LabelForColumn(name), Type: "text", Align: "left"}
		if kind == Quantitative {
			col.Type = "number"
			col.Align = "right"
		}
		columns = append(columns, col)
	}

	n := src.Len()
	if limit > 0 && limit < n {
		n = limit
	}

	formatter, _ := src.(ValueFormatter)
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, 0, len(names))
		for j, name := range names {
			switch {
			case formatter != nil:
				row = append(row, formatter.FormatValue(i, name))
			case kinds[j] == Quantitative:
				row = append(row, FormatNumber(src.Measure(i, name)))
			default:
				row = append(row, src.Dimension(i, name))
			}
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:     title,
		Columns:   columns,
		Rows:      rows,
		TotalRows: src.Len(),
	}
}
