package analysis

import "fmt"

// Summarize returns a four-line digest of r: file, sheet, data rows, columns.
func Summarize(r *Report) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("File: %s\nSheet: %s\nData rows: %d\nColumns: %d",
		r.SourceName, r.SheetName, r.DataRowCount(), r.ColumnCount)
}
