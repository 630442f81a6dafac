package panel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quokkaq/quokkaq/internal/focus"
	"github.com/quokkaq/quokkaq/internal/tabs"
)

type stubPanel struct {
	id       tabs.TabID
	body     string
	controls []Control
}

func (s stubPanel) ID() tabs.TabID { return s.id }
func (s stubPanel) Render(int) string { return s.body }
func (s stubPanel) Controls() []Control { return s.controls }

func providers() []Provider {
	return []Provider{
		stubPanel{id: "profile", body: "Ada Lovelace", controls: []Control{{ID: "dashboard", Label: "Go to dashboard"}, {ID: "logout", Label: "Log out"}}},
		stubPanel{id: "settings", body: "Settings", controls: []Control{{ID: "notifications", Label: "Notifications"}}},
	}
}

func TestIsVisibleExclusivity(t *testing.T) {
	all := []tabs.TabID{"profile", "settings", "billing"}
	for _, open := range []bool{true, false} {
		for _, active := range all {
			visible := 0
			for _, id := range all {
				if IsVisible(open, active, id) {
					visible++
				}
			}
			want := 0
			if open {
				want = 1
			}
			if visible != want {
				t.Errorf("open=%v active=%s: %d panels visible, want %d", open, active, visible, want)
			}
		}
	}
}

func TestNewRendererRejectsDuplicates(t *testing.T) {
	_, err := NewRenderer([]Provider{stubPanel{id: "profile"}, stubPanel{id: "profile"}})
	require.ErrorIs(t, err, ErrDuplicatePanel)
}

func TestRender(t *testing.T) {
	r, err := NewRenderer(providers())
	require.NoError(t, err)

	frame := r.Render(true, "settings", 40)
	require.True(t, frame.Visible)
	require.Equal(t, "Settings", frame.Body)
	require.Len(t, frame.Controls, 1)
	require.Equal(t, "popover:panel:settings:notifications", frame.Controls[0].ElementID)

	closed := r.Render(false, "settings", 40)
	require.False(t, closed.Visible)
	require.Empty(t, closed.Body)
	require.Empty(t, closed.Controls)

	missing := r.Render(true, "billing", 40)
	require.False(t, missing.Visible)
	require.False(t, r.Has("billing"))
}

func TestSyncRemovesInactivePanelsFromTraversal(t *testing.T) {
	fm := focus.NewManager()
	r, _ := NewRenderer(providers(), WithFocus(fm, ""))

	r.Sync(true, "profile")
	require.Equal(t, []string{
		"popover:panel:profile:dashboard",
		"popover:panel:profile:logout",
	}, fm.Tabbable())

	fm.Focus("popover:panel:profile:logout")
	r.Sync(true, "settings")
	require.Equal(t, []string{"popover:panel:settings:notifications"}, fm.Tabbable())
	require.False(t, fm.Exists("popover:panel:profile:logout"))
	require.Equal(t, focus.Body, fm.Focused(), "focus inside a hidden panel is dropped")

	r.Sync(false, "settings")
	require.Empty(t, fm.Tabbable(), "closed overlay exposes no panel controls")
}

func TestSyncKeepsFocusWithinVisiblePanel(t *testing.T) {
	fm := focus.NewManager()
	r, _ := NewRenderer(providers(), WithFocus(fm, "menu"))

	r.Sync(true, "profile")
	require.True(t, fm.Focus("menu:profile:logout"))
	r.Sync(true, "profile")
	require.Equal(t, "menu:profile:logout", fm.Focused())
}

func TestControlLookup(t *testing.T) {
	r, _ := NewRenderer(providers())

	c, ok := r.Control(true, "profile", "popover:panel:profile:logout")
	require.True(t, ok)
	require.Equal(t, "Log out", c.Label)

	_, ok = r.Control(true, "settings", "popover:panel:profile:logout")
	require.False(t, ok, "controls of hidden panels cannot be found")

	_, ok = r.Control(false, "profile", "popover:panel:profile:logout")
	require.False(t, ok)
}

func TestOptionalMatch(t *testing.T) {
	present := func(s string) string { return "summary: " + s }
	absent := func() string { return "" }

	require.Equal(t, "summary: 12 threads", Match(Some("12 threads"), present, absent))
	require.Equal(t, "", Match(None[string](), present, absent))

	v, ok := Some(3).Get()
	require.True(t, ok)
	require.Equal(t, 3, v)
	require.False(t, None[int]().Present())

	var zero Optional[string]
	require.False(t, zero.Present(), "zero value is absent")
	require.True(t, strings.HasPrefix(Match(Some("x"), present, absent), "summary"))
}
