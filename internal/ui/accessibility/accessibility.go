package accessibility

import (
	"fmt"
	"maps"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quokkaq/quokkaq/internal/term"
)

// Options are the configured preferences. Detection can only turn features
// on, never off.
type Options struct {
	ScreenReader  bool
	HighContrast  bool
	NoColor       bool
	Announcements bool
}

// Manager handles all accessibility features
type Manager struct {
	opts         Options
	terminal     term.Info
	screenReader bool
	highContrast bool
	noColor      bool
	last         string
}

// NewManager combines opts with what the environment and terminal report.
func NewManager(opts Options, info term.Info, getenv term.Getenv) *Manager {
	return &Manager{
		opts:         opts,
		terminal:     info,
		screenReader: opts.ScreenReader || detectScreenReader(getenv),
		highContrast: opts.HighContrast || detectHighContrast(getenv),
		noColor:      opts.NoColor || detectNoColor(getenv, info),
	}
}

// detectScreenReader checks for screen reader presence
func detectScreenReader(getenv term.Getenv) bool {
	for _, v := range []string{
		"NVDA_PORT",
		"JAWS",
		"ORCA_PREFERENCES_PATH",
		"SPEECHD_ADDRESS",
	} {
		if getenv(v) != "" {
			return true
		}
	}
	return getenv("ACCESSIBILITY_ENABLED") == "1"
}

func detectHighContrast(getenv term.Getenv) bool {
	if getenv("HIGH_CONTRAST") == "1" || getenv("FORCE_HIGH_CONTRAST") == "1" {
		return true
	}
	t := strings.ToLower(getenv("TERM"))
	return strings.Contains(t, "mono") || strings.Contains(t, "contrast")
}

func detectNoColor(getenv term.Getenv, info term.Info) bool {
	if getenv("NO_COLOR") != "" || getenv("COLORBLIND") == "1" {
		return true
	}
	return !info.SupportsColor()
}

// IsScreenReaderActive returns true if screen reader support is enabled
func (m *Manager) IsScreenReaderActive() bool { return m.screenReader }

// IsHighContrastMode returns true if high contrast mode is enabled
func (m *Manager) IsHighContrastMode() bool { return m.highContrast }

// IsColorDisabled returns true if color should be disabled
func (m *Manager) IsColorDisabled() bool { return m.noColor }

// AnnouncementsEnabled reports whether status line announcements are shown.
func (m *Manager) AnnouncementsEnabled() bool {
	return m.opts.Announcements || m.screenReader
}

// AdaptColors returns palette adjusted for the active modes. Unknown names
// in palette are kept.
func (m *Manager) AdaptColors(palette map[string]string) map[string]string {
	adapted := maps.Clone(palette)
	if adapted == nil {
		adapted = make(map[string]string)
	}

	var override map[string]string
	switch {
	case m.IsColorDisabled():
		override = monochrome
	case m.IsHighContrastMode(), m.IsScreenReaderActive():
		override = highContrast
	}
	for name, value := range override {
		adapted[name] = value
	}
	return adapted
}

var monochrome = map[string]string{
	"primary": "#ffffff",
	"muted":   "#cccccc",
	"accent":  "#ffffff",
	"border":  "#808080",
	"focused": "#ffffff",
	"success": "#ffffff",
	"error":   "#ffffff",
}

var highContrast = map[string]string{
	"primary": "#ffffff",
	"muted":   "#ffffff",
	"accent":  "#ffff00",
	"border":  "#ffffff",
	"focused": "#ffff00",
	"success": "#00ff00",
	"error":   "#ff0000",
}

// CreateAccessibleStyle creates a style adapted for accessibility
func (m *Manager) CreateAccessibleStyle(base lipgloss.Style) lipgloss.Style {
	if m.IsScreenReaderActive() {
		return base.UnsetBlink().UnsetFaint().UnsetItalic()
	}
	if m.IsHighContrastMode() {
		return base.Bold(true).UnsetFaint()
	}
	return base
}

// FormatList numbers lines for screen readers; otherwise lines are joined
// unchanged.
func (m *Manager) FormatList(items []string) string {
	if !m.IsScreenReaderActive() || len(items) == 0 {
		return strings.Join(items, "\n")
	}
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, fmt.Sprintf("List with %d items:", len(items)))
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("Item %d of %d: %s", i+1, len(items), item))
	}
	return strings.Join(lines, "\n")
}

// Announce records msg as the latest announcement and returns it. Nothing is
// recorded while announcements are off.
func (m *Manager) Announce(msg string) string {
	if !m.AnnouncementsEnabled() {
		return ""
	}
	m.last = msg
	return msg
}

// Last returns the most recent announcement.
func (m *Manager) Last() string { return m.last }

// TabSelected announces a tab change, e.g. "Settings tab selected, 2 of 2".
func (m *Manager) TabSelected(label string, pos, total int) string {
	return m.Announce(fmt.Sprintf("%s tab selected, %d of %d", label, pos, total))
}

// MenuOpened announces the popover opening on a tab.
func (m *Manager) MenuOpened(title, tab string) string {
	return m.Announce(fmt.Sprintf("%s menu opened, %s tab", title, tab))
}

// MenuClosed announces the popover closing.
func (m *Manager) MenuClosed(title string) string {
	return m.Announce(fmt.Sprintf("%s menu closed", title))
}

// FocusMoved announces a focus change to a named control.
func (m *Manager) FocusMoved(name string) string {
	return m.Announce(fmt.Sprintf("Focus moved to %s", name))
}

// Report summarizes the effective settings.
func (m *Manager) Report() string {
	var b strings.Builder
	b.WriteString("Accessibility Status:\n")
	fmt.Fprintf(&b, "  Screen Reader: %v\n", m.IsScreenReaderActive())
	fmt.Fprintf(&b, "  High Contrast: %v\n", m.IsHighContrastMode())
	fmt.Fprintf(&b, "  Color Disabled: %v\n", m.IsColorDisabled())
	fmt.Fprintf(&b, "  Announcements: %v\n", m.AnnouncementsEnabled())
	fmt.Fprintf(&b, "  Terminal: tty=%v color=%v\n", m.terminal.IsTTY, m.terminal.SupportsColor())
	return b.String()
}
