package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/quokkaq/quokkaq/internal/config"
	"github.com/quokkaq/quokkaq/internal/panel"
	"github.com/quokkaq/quokkaq/internal/tabs"
	"github.com/quokkaq/quokkaq/internal/ui/theme"
)

// Tab ids with a built-in panel.
const (
	TabProfile  tabs.TabID = "profile"
	TabSettings tabs.TabID = "settings"
)

// ErrUnknownPanel is returned for a configured tab with no built-in panel.
var ErrUnknownPanel = errors.New("no panel for tab")

// ProfilePanel shows the signed-in user.
type ProfilePanel struct {
	Name    string
	Email   string
	Role    string
	Summary panel.Optional[string]

	session *Session
	styles  theme.Styles
}

// NewProfilePanel builds the profile panel from configuration. An empty
// summary leaves the summary block out.
func NewProfilePanel(p config.ProfileConfig, s *Session, st theme.Styles) ProfilePanel {
	summary := panel.None[string]()
	if p.Summary != "" {
		summary = panel.Some(p.Summary)
	}
	return ProfilePanel{
		Name:    p.Name,
		Email:   p.Email,
		Role:    p.Role,
		Summary: summary,
		session: s,
		styles:  st,
	}
}

func (p ProfilePanel) ID() tabs.TabID { return TabProfile }

func (p ProfilePanel) Render(width int) string {
	lines := []string{
		p.styles.Text.Bold(true).Render(fit(p.Name, width)),
		p.styles.Muted.Render(fit(p.Email, width)),
	}
	if p.Role != "" {
		lines = append(lines, p.styles.Text.Render(fit(p.Role, width)))
	}
	body := strings.Join(lines, "\n")

	return body + panel.Match(p.Summary,
		func(s string) string {
			return "\n\n" + p.styles.Label.Render("Summary") + "\n" + p.styles.Text.Render(fit(s, width))
		},
		func() string { return "" },
	)
}

func (p ProfilePanel) Controls() []panel.Control {
	return []panel.Control{
		{ID: "dashboard", Label: "Go to dashboard", Action: func() { p.session.Navigate(RouteDashboard) }},
		{ID: "logout", Label: "Log out", Action: p.session.SignOut},
	}
}

// SettingsPanel lists the settings pages.
type SettingsPanel struct {
	Entries []config.SettingsEntry

	session *Session
	styles  theme.Styles
}

func (s SettingsPanel) ID() tabs.TabID { return TabSettings }

func (s SettingsPanel) Render(width int) string {
	return s.styles.Muted.Render(fit("Manage your QuokkaQ preferences.", width))
}

func (s SettingsPanel) Controls() []panel.Control {
	controls := make([]panel.Control, 0, len(s.Entries))
	for _, e := range s.Entries {
		route := e.Route
		controls = append(controls, panel.Control{
			ID:     e.ID,
			Label:  e.Label,
			Action: func() { s.session.Navigate(route) },
		})
	}
	return controls
}

// label returns the entry label for a settings route.
func (s SettingsPanel) label(route string) string {
	for _, e := range s.Entries {
		if e.Route == route {
			return e.Label
		}
	}
	return strings.TrimPrefix(route, "/settings/")
}

// buildPanels returns one provider per configured tab.
func buildPanels(cfg *config.Config, s *Session, st theme.Styles) ([]panel.Provider, SettingsPanel, error) {
	settings := SettingsPanel{Entries: cfg.Settings.Entries, session: s, styles: st}
	providers := make([]panel.Provider, 0, len(cfg.Popover.Tabs))
	for _, id := range cfg.Popover.Tabs {
		switch tabs.TabID(id) {
		case TabProfile:
			providers = append(providers, NewProfilePanel(cfg.Profile, s, st))
		case TabSettings:
			providers = append(providers, settings)
		default:
			return nil, settings, fmt.Errorf("%w: %q", ErrUnknownPanel, id)
		}
	}
	return providers, settings, nil
}

func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
