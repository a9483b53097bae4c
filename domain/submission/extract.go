package submission

import (
	"fmt"
	"strings"
)

// Partner workbooks carry free-text instructions and merged banner cells
// above and around the real data, and the nine templates place their header
// row at different offsets. Extraction therefore scans for the header
// instead of assuming a fixed row.
const (
	headerScanLimit   = 50
	fallbackScanLimit = 20
)

// FindHeaderRow locates the header row in a grid and returns its index and
// the cleaned column names. A row is a header candidate when its joined
// non-empty cell text contains "_ID" or "_Name", or contains both
// "Organization" and "Type"; the first candidate within the scan limit
// wins. With no candidate, the first non-empty row within the fallback
// limit is used. Returns index -1 when the grid has no usable row at all.
func FindHeaderRow(grid RawGrid) (int, []string) {
	limit := min(len(grid), headerScanLimit)
	for idx := 0; idx < limit; idx++ {
		row := grid[idx]
		if rowEmpty(row) {
			continue
		}
		joined := joinNonEmpty(row)
		if strings.Contains(joined, "_ID") || strings.Contains(joined, "_Name") ||
			(strings.Contains(joined, "Organization") && strings.Contains(joined, "Type")) {
			return idx, columnNames(row)
		}
	}

	limit = min(len(grid), fallbackScanLimit)
	for idx := 0; idx < limit; idx++ {
		if !rowEmpty(grid[idx]) {
			return idx, columnNames(grid[idx])
		}
	}

	return -1, nil
}

// ExtractTable turns a raw grid into a rectangular table. Rows strictly
// after the header are data candidates; all-empty rows are dropped, as are
// in-sheet annotation rows (first cell starting with "SECTION" or carrying
// an asterisk). Column names survive even when zero data rows do, so
// structural checks can still run on an empty submission.
func ExtractTable(grid RawGrid) Table {
	headerIdx, columns := FindHeaderRow(grid)
	if headerIdx < 0 {
		return Table{}
	}

	table := Table{Columns: columns}
	for _, row := range grid[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		first := ""
		if len(row) > 0 {
			first = row[0]
		}
		if strings.HasPrefix(first, "SECTION") || strings.Contains(first, "*") {
			continue
		}
		data := make(map[string]string, len(columns))
		for i, name := range columns {
			if i < len(row) {
				data[name] = strings.TrimSpace(row[i])
			} else {
				data[name] = ""
			}
		}
		table.Rows = append(table.Rows, data)
	}
	return table
}

// columnNames cleans a header row into column names: whitespace trimmed,
// asterisk markers stripped (templates use "*" to flag required fields
// visually), empty cells named positionally. Duplicate names after cleaning
// get a positional suffix so every column stays addressable.
func columnNames(row []string) []string {
	names := make([]string, len(row))
	seen := make(map[string]bool, len(row))
	for i, cell := range row {
		name := strings.TrimSpace(strings.ReplaceAll(cell, "*", ""))
		if name == "" {
			name = fmt.Sprintf("Column_%d", i)
		}
		if seen[name] {
			name = fmt.Sprintf("%s_%d", name, i)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func joinNonEmpty(row []string) string {
	parts := make([]string, 0, len(row))
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			parts = append(parts, cell)
		}
	}
	return strings.Join(parts, " ")
}
