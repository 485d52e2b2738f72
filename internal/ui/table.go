package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows aligned on spaces, without borders. Cell widths are
// measured after styling so styled cells line up.
type Table struct {
	header     []string
	rows       [][]string
	colWidths  []int
	colPadding int
}

// NewTable creates a new table with the specified number of columns
func NewTable(cols int) *Table {
	return &Table{
		colWidths:  make([]int, cols),
		colPadding: 2,
	}
}

// SetHeader sets the header row; it is rendered bold.
func (t *Table) SetHeader(cells ...string) {
	t.header = t.fit(cells)
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, t.fit(cells))
}

func (t *Table) fit(cells []string) []string {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := lipgloss.Width(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	return row
}

// Len returns the number of body rows.
func (t *Table) Len() int { return len(t.rows) }

// String renders the table as a string
func (t *Table) String() string {
	if len(t.rows) == 0 && t.header == nil {
		return ""
	}

	var sb strings.Builder
	if t.header != nil {
		t.writeRow(&sb, t.header, true)
	}
	for _, row := range t.rows {
		t.writeRow(&sb, row, false)
	}
	return sb.String()
}

func (t *Table) writeRow(sb *strings.Builder, row []string, header bool) {
	padding := strings.Repeat(" ", t.colPadding)
	last := len(row) - 1
	for last > 0 && row[last] == "" {
		last--
	}
	for i := 0; i <= last; i++ {
		if i > 0 {
			sb.WriteString(padding)
		}
		if header {
			sb.WriteString(Bold.Render(row[i]))
		} else {
			sb.WriteString(row[i])
		}
		if i < last {
			sb.WriteString(strings.Repeat(" ", t.colWidths[i]-lipgloss.Width(row[i])))
		}
	}
	sb.WriteString("\n")
}
