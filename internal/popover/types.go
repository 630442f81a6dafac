package popover

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/quokkaq/quokkaq/internal/tabs"
)

// Reason records what asked the popover to close. It is reported to hooks
// and in ClosedMsg; it never changes how closing behaves.
type Reason int

const (
	ReasonProgrammatic Reason = iota
	ReasonEscape
	ReasonOutsideClick
	ReasonNavigation
)

// String returns the string representation of Reason
func (r Reason) String() string {
	switch r {
	case ReasonProgrammatic:
		return "programmatic"
	case ReasonEscape:
		return "escape"
	case ReasonOutsideClick:
		return "outside_click"
	case ReasonNavigation:
		return "navigation"
	default:
		return "unknown"
	}
}

// ReopenPolicy selects the tab shown when the popover opens again.
type ReopenPolicy int

const (
	// ReopenRestoreLast shows the tab that was active when it closed.
	ReopenRestoreLast ReopenPolicy = iota
	// ReopenResetFirst always opens on the first tab.
	ReopenResetFirst
)

// String returns the configuration name of the policy.
func (p ReopenPolicy) String() string {
	if p == ReopenResetFirst {
		return "reset_first"
	}
	return "restore_last"
}

// ParseReopenPolicy parses a configuration value. The empty string selects
// ReopenRestoreLast.
func ParseReopenPolicy(s string) (ReopenPolicy, error) {
	switch s {
	case "", "restore_last":
		return ReopenRestoreLast, nil
	case "reset_first":
		return ReopenResetFirst, nil
	default:
		return ReopenRestoreLast, fmt.Errorf("unknown reopen policy %q (want restore_last or reset_first)", s)
	}
}

// Rect is a screen rectangle in cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// ClosedMsg is emitted by Update after the popover closed.
type ClosedMsg struct {
	Reason Reason
}

// Styles controls how the popover box is drawn.
type Styles struct {
	Box            lipgloss.Style
	Title          lipgloss.Style
	Rule           lipgloss.Style
	Body           lipgloss.Style
	Control        lipgloss.Style
	ControlFocused lipgloss.Style
	Tabs           tabs.Styles
}

// DefaultStyles returns unthemed styles.
func DefaultStyles() Styles {
	return Styles{
		Box:            lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Title:          lipgloss.NewStyle().Bold(true),
		Rule:           lipgloss.NewStyle().Faint(true),
		Body:           lipgloss.NewStyle(),
		Control:        lipgloss.NewStyle(),
		ControlFocused: lipgloss.NewStyle().Bold(true).Reverse(true),
		Tabs:           tabs.DefaultStyles(),
	}
}
