package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table renders rows in aligned columns.
type Table struct {
	// Headers contains the column header names.
	Headers []string

	// Rows contains all data rows.
	Rows [][]string

	// MaxWidths specifies maximum width per column index (truncates with ellipsis).
	MaxWidths map[int]int
}

// NewTable creates a new table with the specified headers.
//
// Parameters:
//   - headers: Column header names
//
// Returns:
//   - *Table: A new table instance
func NewTable(headers ...string) *Table {
	return &Table{
		Headers:   headers,
		Rows:      make([][]string, 0),
		MaxWidths: make(map[int]int),
	}
}

// AddRow adds a data row to the table.
func (t *Table) AddRow(values ...string) {
	t.Rows = append(t.Rows, values)
}

// SetMaxWidth sets the maximum width for a column.
func (t *Table) SetMaxWidth(col, width int) {
	t.MaxWidths[col] = width
}

func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range t.Rows {
		for i, val := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(val))
			}
		}
	}
	for i := range widths {
		if m, ok := t.MaxWidths[i]; ok && widths[i] > m {
			widths[i] = m
		}
	}
	return widths
}

// String renders the table without styling.
func (t *Table) String() string {
	return t.render(func(s string) string { return s }, func(s string) string { return s })
}

// Render prints the table with header and cell styles.
func (t *Table) Render() {
	if len(t.Headers) == 0 {
		return
	}
	fmt.Fprint(stdout, t.render(
		func(s string) string { return TableHeaderStyle.Render(s) },
		func(s string) string { return TableCellStyle.Render(s) },
	))
}

func (t *Table) render(header, cell func(string) string) string {
	widths := t.columnWidths()
	const gap = "  "

	var b strings.Builder
	cells := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		cells[i] = header(runewidth.FillRight(h, widths[i]))
	}
	b.WriteString(strings.TrimRight(strings.Join(cells, gap), " "))
	b.WriteString("\n")

	for _, row := range t.Rows {
		for i := range t.Headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if m, ok := t.MaxWidths[i]; ok {
				val = runewidth.Truncate(val, m, "...")
			}
			cells[i] = cell(runewidth.FillRight(val, widths[i]))
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, gap), " "))
		b.WriteString("\n")
	}
	return b.String()
}
