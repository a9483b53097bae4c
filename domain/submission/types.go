package submission

// RawGrid is the full cell text of one worksheet: rows of cells in sheet
// order, empty cells as "". Transient, produced by the workbook adapter and
// discarded after extraction.
type RawGrid [][]string

// Table is the extractor's output: cleaned column names in header order,
// and data rows keyed by column name. Every row carries an entry for every
// column ("" for cells the source row did not reach).
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// HasColumn reports whether a cleaned column name is present.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the per-row values for one column, "" where absent.
func (t Table) Column(name string) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}
