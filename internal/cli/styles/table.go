package styles

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	// nothing is selectable in a printed table
	s.Selected = s.Cell.Foreground(theme.Text)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// PaneTableColumns returns columns for the resolved pane table.
func PaneTableColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "ID", Width: 24},
		{Title: "Type", Width: 14},
		{Title: "Title", Width: 30},
	}
}

// DocumentTableColumns returns columns for the document list table.
func DocumentTableColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 28},
		{Title: "Type", Width: 16},
		{Title: "Title", Width: 30},
		{Title: "Updated", Width: 17},
	}
}

// RenderTable renders rows as a static table sized to its content.
func RenderTable(theme *Theme, columns []table.Column, rows []table.Row) string {
	width := 0
	for _, c := range columns {
		width += c.Width + 2
	}
	// header, border and one line per row
	t := NewStyledTable(theme, columns, rows, width, len(rows)+2)
	return strings.TrimRight(t.View(), "\n ")
}
