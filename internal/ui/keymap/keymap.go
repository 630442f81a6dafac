package keymap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMapContext defines different keyboard contexts
type KeyMapContext int

const (
	// PageContext is active while the popover is closed.
	PageContext KeyMapContext = iota
	// PopoverContext is active while the popover is open.
	PopoverContext
)

// String returns the string representation of KeyMapContext
func (c KeyMapContext) String() string {
	switch c {
	case PageContext:
		return "page"
	case PopoverContext:
		return "popover"
	default:
		return "unknown"
	}
}

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Tab list navigation
	Left  key.Binding
	Right key.Binding
	Home  key.Binding
	End   key.Binding

	// Focus traversal
	NextFocus key.Binding
	PrevFocus key.Binding

	// Selection and interaction
	Activate key.Binding
	Close    key.Binding

	// Application controls
	Quit key.Binding
	Help key.Binding
}

// DefaultKeyMap returns the default key mappings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous tab"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next tab"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first tab"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last tab"),
		),

		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next control"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous control"),
		),

		Activate: key.NewBinding(
			key.WithKeys("enter", " ", "space"),
			key.WithHelp("enter/space", "activate"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close menu"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// bindings maps configuration names to the binding they override.
func (k *KeyMap) bindings() map[string]*key.Binding {
	return map[string]*key.Binding{
		"left":       &k.Left,
		"right":      &k.Right,
		"home":       &k.Home,
		"end":        &k.End,
		"next_focus": &k.NextFocus,
		"prev_focus": &k.PrevFocus,
		"activate":   &k.Activate,
		"close":      &k.Close,
		"quit":       &k.Quit,
		"help":       &k.Help,
	}
}

// WithOverrides returns a copy of the keymap where every named binding in
// overrides has its keys replaced. Help text keeps its description and shows
// the first configured key. Unknown names are reported as an error.
func (k KeyMap) WithOverrides(overrides map[string][]string) (KeyMap, error) {
	out := k
	targets := out.bindings()

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		keys := overrides[name]
		b, ok := targets[name]
		if !ok {
			return k, fmt.Errorf("unknown key binding %q (known: %s)", name, strings.Join(Names(), ", "))
		}
		if len(keys) == 0 {
			return k, fmt.Errorf("key binding %q has no keys", name)
		}
		*b = key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(keys[0], b.Help().Desc),
		)
	}
	return out, nil
}

// Names returns the configurable binding names in sorted order.
func Names() []string {
	k := DefaultKeyMap()
	names := make([]string, 0, 10)
	for name := range k.bindings() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ShortHelp returns key bindings to be shown in the mini help view. KeyMap
// itself describes the page; use ForContext while the popover is open.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextFocus, k.Activate, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return k.ContextualHelp(PageContext)
}

// ForContext returns the help.KeyMap for ctx.
func (k KeyMap) ForContext(ctx KeyMapContext) help.KeyMap {
	if ctx == PopoverContext {
		return popoverHelp{k}
	}
	return k
}

type popoverHelp struct{ keys KeyMap }

func (p popoverHelp) ShortHelp() []key.Binding {
	return []key.Binding{p.keys.Left, p.keys.Right, p.keys.NextFocus, p.keys.Activate, p.keys.Close}
}

func (p popoverHelp) FullHelp() [][]key.Binding {
	return p.keys.ContextualHelp(PopoverContext)
}

// ContextualHelp returns help for a specific context
func (k KeyMap) ContextualHelp(ctx KeyMapContext) [][]key.Binding {
	switch ctx {
	case PopoverContext:
		return [][]key.Binding{
			{k.Left, k.Right, k.Home, k.End},
			{k.NextFocus, k.PrevFocus, k.Activate, k.Close},
		}
	default:
		return [][]key.Binding{
			{k.NextFocus, k.PrevFocus, k.Activate},
			{k.Help, k.Quit},
		}
	}
}

// IsTabNavigationKey checks if a key drives the tab list
func (k KeyMap) IsTabNavigationKey(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Left, k.Right, k.Home, k.End)
}

// IsFocusKey checks if a key moves focus sequentially
func (k KeyMap) IsFocusKey(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.NextFocus, k.PrevFocus)
}
