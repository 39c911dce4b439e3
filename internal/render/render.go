// Package render formats analysis reports for terminals and documents.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/sheetprobe-cli/internal/analysis"
)

// Markdown renders a compact report suitable for docs or prompts.
func Markdown(r *analysis.Report) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.SourceName != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.SourceName))
	}
	if r.SheetName != "" {
		b.WriteString(fmt.Sprintf("Sheet: %s\n", r.SheetName))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.DataRowCount()))
	b.WriteString(fmt.Sprintf("Columns: %d", r.ColumnCount))
	if r.HasHeaders {
		b.WriteString(" (with headers)")
	}
	b.WriteString("\n")
	if len(r.Statistics) == 0 {
		return b.String()
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range r.Statistics {
		total := c.NonEmptyCount + c.EmptyCount
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.EmptyCount) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-empty %d, missing %.1f%%)", safeName(c.Name), c.Type, c.NonEmptyCount, missPct))
		if c.Min != nil && c.Max != nil && c.Mean != nil {
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g", *c.Min, *c.Max, *c.Mean))
		}
		b.WriteString("\n")
	}
	return b.String()
}

const panelNameWidth = 20

// Panel renders a fixed-width column table: name, type, empty count, min and
// mean rounded to two decimals, "-" where a value is absent.
func Panel(r *analysis.Report) string {
	var b strings.Builder
	b.WriteString(safeName(r.SourceName))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Rows: %d, Columns: %d", r.DataRowCount(), r.ColumnCount))
	if r.HasHeaders {
		b.WriteString(" (with headers)")
	}
	b.WriteString("\n\n")

	rows := [][]string{{"Column", "Type", "Empty", "Min", "Mean"}}
	for _, c := range r.Statistics {
		minV, meanV := "-", "-"
		if c.Type.IsNumeric() {
			minV = formatOptional(c.Min)
			meanV = formatOptional(c.Mean)
		}
		rows = append(rows, []string{truncate(c.Name, panelNameWidth), c.Type.String(), fmt.Sprint(c.EmptyCount), minV, meanV})
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for ri, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			pad := widths[i] - utf8.RuneCountInString(cell)
			if i >= 2 {
				b.WriteString(strings.Repeat(" ", pad))
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				if i < len(row)-1 {
					b.WriteString(strings.Repeat(" ", pad))
				}
			}
		}
		b.WriteString("\n")
		if ri == 0 {
			total := 0
			for _, w := range widths {
				total += w
			}
			b.WriteString(strings.Repeat("-", total+2*(len(widths)-1)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Preview renders the first n data rows of t as a Markdown table.
func Preview(t *analysis.Table, names []string, n int) string {
	if t == nil || n <= 0 || len(names) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("[HEAD AND SAMPLE ROWS]\n| ")
	for i, name := range names {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(safeName(name)))
	}
	b.WriteString(" |\n| ")
	for i := range names {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for ri, row := range t.Rows {
		if ri >= n {
			break
		}
		b.WriteString("| ")
		for i := range names {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i].String()
			}
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
