package styles

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/bnema/panectl/internal/domain/entity"
)

const breadcrumbSeparator = " › "

// RenderBreadcrumb renders the pane chain root first. Loading panes are
// dimmed and fallback editors highlighted.
func (t *Theme) RenderBreadcrumb(panes entity.FlatPaneList, isFallback func(id string) bool) string {
	parts := make([]string, 0, len(panes))
	for _, p := range panes {
		switch {
		case p == nil:
			parts = append(parts, t.ErrorStyle.Render("∅"))
		case entity.IsLoading(p):
			parts = append(parts, t.Subtle.Render("…"))
		case isFallback != nil && isFallback(p.ID):
			parts = append(parts, t.WarningStyle.Render(paneLabel(p)))
		default:
			parts = append(parts, t.Normal.Render(paneLabel(p)))
		}
	}
	return strings.Join(parts, t.Subtle.Render(breadcrumbSeparator))
}

// PaneRows converts panes to table rows, one per flat index.
func PaneRows(panes entity.FlatPaneList) []table.Row {
	rows := make([]table.Row, 0, len(panes))
	for i, p := range panes {
		if p == nil {
			rows = append(rows, table.Row{strconv.Itoa(i), "", "", ""})
			continue
		}
		rows = append(rows, table.Row{strconv.Itoa(i), p.ID, string(p.Type), p.Title})
	}
	return rows
}

func paneLabel(p *entity.Node) string {
	if p.Title != "" && p.Title != p.ID {
		return p.Title + " (" + p.ID + ")"
	}
	return p.ID
}
