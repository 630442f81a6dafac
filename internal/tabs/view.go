package tabs

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles controls how the tab strip is drawn.
type Styles struct {
	Active   lipgloss.Style
	Inactive lipgloss.Style
	// Focused is applied on top of Active when the active control has focus.
	Focused   lipgloss.Style
	Separator string
}

// DefaultStyles returns the styles used when no theme is configured.
func DefaultStyles() Styles {
	return Styles{
		Active:    lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1),
		Inactive:  lipgloss.NewStyle().Faint(true).Padding(0, 1),
		Focused:   lipgloss.NewStyle().Reverse(true),
		Separator: "│",
	}
}

// View renders the tab strip on a single line. With zones configured each
// tab is marked with its control id.
func (g *Group) View(st Styles) string {
	parts := make([]string, 0, len(g.ids))
	for _, id := range g.ids {
		tab := g.renderTab(id, st)
		if g.zones != nil {
			tab = g.zones.Mark(g.ControlID(id), tab)
		}
		parts = append(parts, tab)
	}
	return strings.Join(parts, st.Separator)
}

// TabAt returns the tab whose control was under a mouse event, as recorded
// by the last scan of the zone manager.
func (g *Group) TabAt(msg tea.MouseMsg) (TabID, bool) {
	if g.zones == nil {
		return "", false
	}
	for _, id := range g.ids {
		if z := g.zones.Get(g.ControlID(id)); z != nil && z.InBounds(msg) {
			return id, true
		}
	}
	return "", false
}

func (g *Group) renderTab(id TabID, st Styles) string {
	label := g.Label(id)
	if id != g.Active() {
		return st.Inactive.Render(label)
	}
	style := st.Active
	if g.HasFocus() && g.focus.Focused() == g.ControlID(id) {
		style = style.Inherit(st.Focused)
	}
	return style.Render(label)
}
