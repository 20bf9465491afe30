package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
}

// Row is a slice of cell values.
type Row []string

// Table renders a lipgloss-styled table.
type Table struct {
	Columns []Column
	Rows    []Row
}

// NewTable creates a new table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// Render returns the full table as a string. Cells are padded to exact
// column widths before styling; styled cells must be passed pre-rendered
// and are not truncated.
func (t *Table) Render() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(ColorMeta)

	var headers, divider []string
	for _, col := range t.Columns {
		headers = append(headers, headerStyle.Render(pad(col.Title, col.Width)))
		divider = append(divider, dimStyle.Render(strings.Repeat("-", col.Width)))
	}
	sb.WriteString(strings.Join(headers, " "))
	sb.WriteString("\n")
	sb.WriteString(strings.Join(divider, " "))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			val := ""
			if j < len(row) {
				val = row[j]
			}
			cells[j] = pad(val, col.Width)
		}
		sb.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// pad left-aligns s within width visible cells, truncating plain text that
// does not fit.
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w == len(s) && w > width {
		return s[:width]
	}
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// KeyValueBlock renders a set of key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-20s", p[0]+":"))
		val := StyleValue.Render(p[1])
		sb.WriteString("  " + key + " " + val + "\n")
	}
	return StyleBorder.Render(sb.String())
}
