// Package theme turns the configured palette into lipgloss styles for the
// page and the account menu.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/quokkaq/quokkaq/internal/popover"
	"github.com/quokkaq/quokkaq/internal/tabs"
	"github.com/quokkaq/quokkaq/internal/ui/accessibility"
)

// Styles holds every style the application renders with.
type Styles struct {
	Header         lipgloss.Style
	Brand          lipgloss.Style
	Trigger        lipgloss.Style
	TriggerFocused lipgloss.Style
	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	Text           lipgloss.Style
	Muted          lipgloss.Style
	Status         lipgloss.Style
	Label          lipgloss.Style

	Popover popover.Styles
}

// New builds styles from colors after the accessibility adaptations.
// Missing colour names render without a foreground.
func New(colors map[string]string, am *accessibility.Manager) Styles {
	c := am.AdaptColors(colors)
	color := func(name string) lipgloss.TerminalColor {
		if am.IsColorDisabled() || c[name] == "" {
			return lipgloss.NoColor{}
		}
		return lipgloss.Color(c[name])
	}
	a := am.CreateAccessibleStyle
	base := lipgloss.NewStyle()

	// Focus must stay visible without colour, so every focused style also
	// reverses or underlines.
	focused := base.Bold(true).Reverse(true).Foreground(color("focused"))

	s := Styles{
		Header:         base.Bold(true).Foreground(color("primary")),
		Brand:          a(base.Bold(true).Padding(0, 1).Foreground(color("accent"))),
		Trigger:        a(base.Padding(0, 1).Foreground(color("primary"))),
		TriggerFocused: a(focused.Padding(0, 1)),
		Button:         a(base.Padding(0, 1).Border(lipgloss.NormalBorder()).BorderForeground(color("border"))),
		ButtonFocused:  a(base.Padding(0, 1).Bold(true).Underline(true).Border(lipgloss.ThickBorder()).BorderForeground(color("focused"))),
		Text:           a(base.Foreground(color("primary"))),
		Muted:          a(base.Faint(true).Foreground(color("muted"))),
		Status:         a(base.Italic(true).Foreground(color("success"))),
		Label:          a(base.Bold(true).Foreground(color("muted"))),
	}

	s.Popover = popover.Styles{
		Box: base.Border(lipgloss.RoundedBorder()).
			BorderForeground(color("border")).
			Padding(0, 1),
		Title:          a(base.Bold(true).Foreground(color("accent"))),
		Rule:           a(base.Faint(true).Foreground(color("border"))),
		Body:           a(base.Foreground(color("primary"))),
		Control:        a(base.Foreground(color("primary"))),
		ControlFocused: a(focused),
		Tabs: tabs.Styles{
			Active:    a(base.Bold(true).Underline(true).Padding(0, 1).Foreground(color("accent"))),
			Inactive:  a(base.Faint(true).Padding(0, 1).Foreground(color("muted"))),
			Focused:   base.Reverse(true),
			Separator: "│",
		},
	}
	if am.IsHighContrastMode() || am.IsColorDisabled() {
		s.Popover.Box = s.Popover.Box.Border(lipgloss.DoubleBorder())
	}
	return s
}
