package model

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/quokkaq/quokkaq/internal/config"
	"github.com/quokkaq/quokkaq/internal/focus"
	"github.com/quokkaq/quokkaq/internal/tabs"
	"github.com/quokkaq/quokkaq/internal/term"
	"github.com/quokkaq/quokkaq/internal/ui/accessibility"
)

func newTestModel(t *testing.T, mutate ...func(*config.Config)) AppModel {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	for _, fn := range mutate {
		fn(cfg)
	}

	am := accessibility.NewManager(
		accessibility.Options{Announcements: true},
		term.Info{IsTTY: true, Profile: termenv.TrueColor},
		func(string) string { return "" },
	)
	m, err := NewAppModel(cfg, am, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// render draws the screen, which records mouse zones, and waits for ids.
func render(t *testing.T, m AppModel, ids ...string) []string {
	t.Helper()
	lines := strings.Split(m.View(), "\n")
	require.Eventually(t, func() bool {
		for _, id := range ids {
			if m.zones.Get(id) == nil {
				return false
			}
		}
		return true
	}, time.Second, time.Millisecond)
	return lines
}

func rowOf(t *testing.T, lines []string, text string) int {
	t.Helper()
	for i, line := range lines {
		if strings.Contains(line, text) {
			return i
		}
	}
	t.Fatalf("%q not on screen", text)
	return -1
}

func send(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(AppModel)
	require.True(t, ok)
	return out
}

func press(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func status(m AppModel) string { return m.accessibility.Last() }

func TestAccountMenuKeyboardJourney(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, ElementTrigger, m.Focus().Focused())

	// Open from the trigger.
	m = send(t, m, press(tea.KeyEnter))
	require.True(t, m.Menu().IsOpen())
	require.Equal(t, "popover:tabs:profile", m.Focus().Focused())
	require.Equal(t, "Account menu opened, Profile tab", status(m))
	require.Contains(t, m.View(), "Quinn Quokka")

	// Arrow to settings.
	m = send(t, m, press(tea.KeyRight))
	require.Equal(t, tabs.TabID("settings"), m.Menu().ActiveTab())
	require.Equal(t, "Settings tab selected, 2 of 2", status(m))
	view := m.View()
	require.Contains(t, view, "Notifications")
	require.NotContains(t, view, "Quinn Quokka")

	// Wrap back and forth.
	m = send(t, m, press(tea.KeyRight))
	require.Equal(t, tabs.TabID("profile"), m.Menu().ActiveTab())
	m = send(t, m, press(tea.KeyLeft))
	require.Equal(t, tabs.TabID("settings"), m.Menu().ActiveTab())

	// Escape restores focus and keeps the tab.
	m = send(t, m, press(tea.KeyEsc))
	require.False(t, m.Menu().IsOpen())
	require.Equal(t, ElementTrigger, m.Focus().Focused())
	require.Equal(t, "Account menu closed", status(m))
	require.NotContains(t, m.View(), "Notifications")

	// Reopen on the last tab.
	m = send(t, m, press(tea.KeyEnter))
	require.Equal(t, tabs.TabID("settings"), m.Menu().ActiveTab())
	require.Equal(t, "popover:tabs:settings", m.Focus().Focused())
}

func TestResetTabPolicy(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) { c.Popover.Reopen = "reset_first" })

	m = send(t, m, press(tea.KeyEnter))
	m = send(t, m, press(tea.KeyEnd))
	m = send(t, m, press(tea.KeyEsc))
	m = send(t, m, press(tea.KeyEnter))
	require.Equal(t, tabs.TabID("profile"), m.Menu().ActiveTab())
}

func TestClickOutsideCloses(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, press(tea.KeyTab))
	require.Equal(t, ElementAsk, m.Focus().Focused())

	m = send(t, m, press(tea.KeyShiftTab))
	m = send(t, m, press(tea.KeyEnter))
	require.True(t, m.Menu().IsOpen())

	m = send(t, m, click(0, 20))
	require.False(t, m.Menu().IsOpen())
	require.Equal(t, ElementTrigger, m.Focus().Focused())
}

func TestClickTriggerOpens(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, press(tea.KeyTab))

	render(t, m, ElementTrigger)
	z := m.zones.Get(ElementTrigger)
	require.Equal(t, 0, z.StartY)
	require.Greater(t, z.StartX, 60, "trigger sits at the right edge")

	m = send(t, m, click(z.StartX+1, 0))
	require.True(t, m.Menu().IsOpen())
	require.Equal(t, ElementTrigger, m.Menu().Anchor())

	b := m.Menu().Bounds()
	require.Equal(t, 1, b.Y, "menu drops below the header")
	require.Equal(t, 80, b.X+b.W)
}

func TestTabTrappedInsideMenu(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, press(tea.KeyEnter))

	seen := map[string]bool{}
	for i := 0; i < 6; i++ {
		m = send(t, m, press(tea.KeyTab))
		seen[m.Focus().Focused()] = true
	}
	for id := range seen {
		require.True(t, strings.HasPrefix(id, "popover:"), "focus escaped to %s", id)
	}
	require.True(t, seen["popover:panel:profile:logout"])
	require.Equal(t, "Focus moved to "+m.describe(m.Focus().Focused()), status(m))
}

func TestNavigationControls(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, press(tea.KeyEnter))
	m = send(t, m, press(tea.KeyTab))
	require.Equal(t, "popover:panel:profile:dashboard", m.Focus().Focused())
	require.Equal(t, "Focus moved to Go to dashboard", status(m))

	m = send(t, m, press(tea.KeyEnter))
	require.False(t, m.Menu().IsOpen())
	require.Equal(t, RouteDashboard, m.Session().Route)
	require.Equal(t, ElementTrigger, m.Focus().Focused())
	require.Contains(t, m.View(), "Dashboard")

	m = send(t, m, press(tea.KeyEnter))
	m = send(t, m, press(tea.KeyRight))
	m = send(t, m, press(tea.KeyTab))
	m = send(t, m, press(tea.KeyTab))
	require.Equal(t, "popover:panel:settings:appearance", m.Focus().Focused())
	m = send(t, m, press(tea.KeyEnter))
	require.Equal(t, "/settings/appearance", m.Session().Route)
	require.Contains(t, m.View(), "Settings › Appearance")
}

func TestLogout(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, press(tea.KeyEnter))
	m = send(t, m, press(tea.KeyShiftTab))
	require.Equal(t, "popover:panel:profile:logout", m.Focus().Focused())

	m = send(t, m, press(tea.KeyEnter))
	require.False(t, m.Session().SignedIn)
	require.Contains(t, m.View(), "You are signed out")

	require.False(t, m.Focus().Exists(ElementAsk))
	require.False(t, m.Focus().Exists(ElementThreads))
	m = send(t, m, press(tea.KeyTab))
	require.Equal(t, ElementTrigger, m.Focus().Focused(), "hidden buttons are not reachable")
	require.NotContains(t, m.Describe(), "Ask question")

	m.activate(ElementAsk)
	require.Equal(t, RouteHome, m.Session().Route)
	require.Empty(t, m.Session().History)
}

func TestPointerOnWrappedSettingsEntry(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) {
		c.Settings.Entries = []config.SettingsEntry{
			{ID: "notifications", Label: "Email and push notification preferences for all of your courses", Route: "/settings/notifications"},
			{ID: "privacy", Label: "Privacy", Route: "/settings/privacy"},
		}
	})
	m = send(t, m, press(tea.KeyEnter))
	m = send(t, m, press(tea.KeyRight))

	lines := render(t, m, "popover:panel:settings:notifications", "popover:panel:settings:privacy")
	first, tail, privacy := rowOf(t, lines, "Email"), rowOf(t, lines, "courses"), rowOf(t, lines, "Privacy")
	require.Greater(t, tail, first, "the label wraps")
	require.Equal(t, tail+1, privacy)
	x := m.Menu().Bounds().X + 3

	m = send(t, m, click(x, privacy))
	require.Equal(t, "/settings/privacy", m.Session().Route)
	require.False(t, m.Menu().IsOpen())

	m = send(t, m, press(tea.KeyEnter))
	m = send(t, m, click(x, tail))
	require.Equal(t, "/settings/notifications", m.Session().Route)
}

func TestPageControls(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, press(tea.KeyTab))
	require.Equal(t, "Focus moved to Ask question", status(m))

	m = send(t, m, press(tea.KeyEnter))
	require.Equal(t, RouteAsk, m.Session().Route)
	require.False(t, m.Menu().IsOpen())

	m = send(t, m, press(tea.KeyTab))
	m = send(t, m, press(tea.KeyTab))
	require.Equal(t, ElementTrigger, m.Focus().Focused(), "page focus wraps")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())

	m = send(t, m, press(tea.KeyEnter))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.Nil(t, cmd, "q inside the menu does not quit")
	require.True(t, m.Menu().IsOpen())

	_, cmd = m.Update(press(tea.KeyCtrlC))
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	require.False(t, m.showHelp)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	require.True(t, m.showHelp)
	require.Contains(t, m.View(), "quit")
}

func TestProfileSummaryIsOptional(t *testing.T) {
	without := NewProfilePanel(config.ProfileConfig{Name: "Ada", Email: "ada@example.edu"}, NewSession(), newTestModel(t).styles)
	require.NotContains(t, without.Render(30), "Summary")

	with := NewProfilePanel(config.ProfileConfig{Name: "Ada", Summary: "12 answers"}, NewSession(), newTestModel(t).styles)
	body := with.Render(30)
	require.Contains(t, body, "Summary")
	require.Contains(t, body, "12 answers")
}

func TestUnknownTabIsRejected(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Popover.Tabs = []string{"profile", "billing"}

	am := accessibility.NewManager(accessibility.Options{}, term.Info{}, func(string) string { return "" })
	_, err = NewAppModel(cfg, am, log.New(io.Discard))
	require.ErrorIs(t, err, ErrUnknownPanel)
}

func TestDescribe(t *testing.T) {
	m := newTestModel(t)
	out := m.Describe()
	require.Contains(t, out, "Course Q&A")
	require.Contains(t, out, "Profile\nSettings")
	require.Contains(t, out, "Log out")
	require.False(t, m.Menu().IsOpen())
	require.Equal(t, ElementTrigger, m.Focus().Focused())
	require.NotEqual(t, focus.Body, m.Focus().Focused())
}

func TestOverlayAt(t *testing.T) {
	base := "aaaaaaaaaa\nbbbbbbbbbb\ncccccccccc"
	out := overlayAt(base, "XY\nZW", 3, 1, 10, 3)
	require.Equal(t, "aaaaaaaaaa\nbbbXYbbbbb\ncccZWccccc", out)

	clipped := overlayAt(base, "XY\nZW\nQQ", 0, 2, 10, 3)
	require.Equal(t, "aaaaaaaaaa\nbbbbbbbbbb\nXYcccccccc", clipped)
}
