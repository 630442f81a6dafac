package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/quokkaq/quokkaq/internal/term"
	"github.com/quokkaq/quokkaq/internal/ui/accessibility"
)

var palette = map[string]string{
	"primary": "#FAFAFA",
	"accent":  "#7D56F4",
	"focused": "#06B6D4",
	"border":  "#6B7280",
}

func manager(opts accessibility.Options) *accessibility.Manager {
	info := term.Info{IsTTY: true, Profile: termenv.TrueColor}
	return accessibility.NewManager(opts, info, func(string) string { return "" })
}

func TestNewUsesPalette(t *testing.T) {
	s := New(palette, manager(accessibility.Options{}))

	require.Equal(t, lipgloss.Color("#7D56F4"), s.Popover.Tabs.Active.GetForeground())
	require.Equal(t, lipgloss.Color("#6B7280"), s.Popover.Box.GetBorderTopForeground())
	require.True(t, s.Popover.ControlFocused.GetReverse())
	require.Equal(t, 1, s.Popover.Box.GetPaddingLeft())
}

func TestNoColorKeepsFocusVisible(t *testing.T) {
	s := New(palette, manager(accessibility.Options{NoColor: true}))

	require.Equal(t, lipgloss.NoColor{}, s.Popover.Tabs.Active.GetForeground())
	require.True(t, s.Popover.ControlFocused.GetReverse())
	require.True(t, s.Popover.Tabs.Focused.GetReverse())
	require.True(t, s.ButtonFocused.GetUnderline())
}

func TestHighContrast(t *testing.T) {
	s := New(palette, manager(accessibility.Options{HighContrast: true}))

	require.Equal(t, lipgloss.Color("#ffff00"), s.Popover.Tabs.Active.GetForeground())
	require.False(t, s.Popover.Tabs.Inactive.GetFaint(), "faint text is dropped")
	require.Equal(t, lipgloss.DoubleBorder(), s.Popover.Box.GetBorderStyle())
}
