// Package tabs implements a tab list with automatic activation: moving to a
// tab with the keyboard or pointer selects it immediately. Exactly one tab is
// active at any time and only the active tab's control takes part in
// sequential focus traversal (roving tabindex).
package tabs

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"

	"github.com/quokkaq/quokkaq/internal/focus"
	"github.com/quokkaq/quokkaq/internal/ui/keymap"
)

var (
	// ErrNoTabs is returned when a group is built from an empty id list.
	ErrNoTabs = errors.New("tab group needs at least one tab")
	// ErrDuplicateTab is returned when an id appears twice.
	ErrDuplicateTab = errors.New("duplicate tab id")
	// ErrUnknownTab is returned when an id is not part of the group.
	ErrUnknownTab = errors.New("unknown tab id")
)

// TabID identifies a tab. The set of ids and their order is fixed when the
// group is created.
type TabID string

// DefaultScope is the focus scope used for tab controls.
const DefaultScope = "popover:tabs"

// Group owns the active tab.
type Group struct {
	ids    []TabID
	labels map[TabID]string
	active int

	strict bool
	logger *log.Logger
	keys   keymap.KeyMap

	focus    *focus.Manager
	scope    string
	attached bool
	zones    *zone.Manager

	observers []func(prev, next TabID)
}

// Option configures a Group.
type Option func(*Group)

// WithStrict makes invariant violations panic instead of being clamped.
func WithStrict(strict bool) Option {
	return func(g *Group) { g.strict = strict }
}

// WithLogger sets the logger used for lenient-mode warnings.
func WithLogger(l *log.Logger) Option {
	return func(g *Group) { g.logger = l }
}

// WithLabels sets display labels. Tabs without a label display their id.
func WithLabels(labels map[TabID]string) Option {
	return func(g *Group) {
		for id, label := range labels {
			g.labels[id] = label
		}
	}
}

// WithKeyMap sets the bindings HandleKey reacts to.
func WithKeyMap(km keymap.KeyMap) Option {
	return func(g *Group) { g.keys = km }
}

// WithFocus connects the group to a focus manager. Tab controls are
// registered under scope when Attach is called.
func WithFocus(m *focus.Manager, scope string) Option {
	return func(g *Group) {
		g.focus = m
		if scope != "" {
			g.scope = scope
		}
	}
}

// WithZones marks each tab control in View so TabAt can resolve mouse
// presses. The host must pass its rendered output through zm.Scan.
func WithZones(zm *zone.Manager) Option {
	return func(g *Group) { g.zones = zm }
}

// New creates a group whose active tab is the first id.
func New(ids []TabID, opts ...Option) (*Group, error) {
	if len(ids) == 0 {
		return nil, ErrNoTabs
	}
	seen := make(map[TabID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTab, id)
		}
		seen[id] = struct{}{}
	}

	g := &Group{
		ids:    append([]TabID(nil), ids...),
		labels: make(map[TabID]string, len(ids)),
		logger: log.Default(),
		keys:   keymap.DefaultKeyMap(),
		scope:  DefaultScope,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Active returns the active tab.
func (g *Group) Active() TabID { return g.ids[g.active] }

// Index returns the position of the active tab.
func (g *Group) Index() int { return g.active }

// Len returns the number of tabs.
func (g *Group) Len() int { return len(g.ids) }

// IDs returns a copy of the ordered tab ids.
func (g *Group) IDs() []TabID { return append([]TabID(nil), g.ids...) }

// Label returns the display label of a tab.
func (g *Group) Label(id TabID) string {
	if l, ok := g.labels[id]; ok && l != "" {
		return l
	}
	return string(id)
}

// Contains reports whether id belongs to the group.
func (g *Group) Contains(id TabID) bool {
	_, err := g.IndexOf(id)
	return err == nil
}

// IndexOf returns the position of id.
func (g *Group) IndexOf(id TabID) (int, error) {
	for i, candidate := range g.ids {
		if candidate == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownTab, id)
}

// OnChange registers an observer called after every change of the active
// tab, synchronously and in registration order.
func (g *Group) OnChange(fn func(prev, next TabID)) {
	g.observers = append(g.observers, fn)
}

// Select makes id the active tab without moving keyboard focus. An id
// outside the group is a programmer error: it panics in strict mode and
// otherwise keeps the current tab.
func (g *Group) Select(id TabID) {
	i, err := g.IndexOf(id)
	if err != nil {
		g.violation("select: %v", err)
		return
	}
	g.set(i, false)
}

// SelectIndex makes the tab at i active without moving keyboard focus. An
// out of range index panics in strict mode and is otherwise clamped.
func (g *Group) SelectIndex(i int) {
	if i < 0 || i >= len(g.ids) {
		g.violation("select index %d out of range [0,%d)", i, len(g.ids))
		i = max(0, min(i, len(g.ids)-1))
	}
	g.set(i, false)
}

// Activate selects id and focuses its control, as a pointer press does.
func (g *Group) Activate(id TabID) {
	i, err := g.IndexOf(id)
	if err != nil {
		g.violation("activate: %v", err)
		return
	}
	g.set(i, true)
}

// Next selects the following tab, wrapping from last to first.
func (g *Group) Next() { g.set((g.active+1)%len(g.ids), true) }

// Prev selects the preceding tab, wrapping from first to last.
func (g *Group) Prev() { g.set((g.active-1+len(g.ids))%len(g.ids), true) }

// First selects the first tab.
func (g *Group) First() { g.set(0, true) }

// Last selects the last tab.
func (g *Group) Last() { g.set(len(g.ids)-1, true) }

// HandleKey applies the tab list keyboard contract. It reports whether the
// key was consumed; unhandled keys (Tab among them) are left to the caller.
// When the group is attached to a focus manager, keys are only handled while
// one of its tab controls has focus.
func (g *Group) HandleKey(msg tea.KeyMsg) bool {
	if !g.keys.IsTabNavigationKey(msg) {
		return false
	}
	if g.focus != nil && !g.HasFocus() {
		return false
	}
	switch {
	case key.Matches(msg, g.keys.Right):
		g.Next()
	case key.Matches(msg, g.keys.Left):
		g.Prev()
	case key.Matches(msg, g.keys.Home):
		g.First()
	case key.Matches(msg, g.keys.End):
		g.Last()
	default:
		return false
	}
	return true
}

// TabIndex returns 0 for the active tab and -1 for every other tab.
func (g *Group) TabIndex(id TabID) int {
	if g.Active() == id {
		return 0
	}
	return -1
}

// ControlID returns the focus element id of a tab control.
func (g *Group) ControlID(id TabID) string {
	return g.scope + ":" + string(id)
}

// Scope returns the focus scope of the tab controls.
func (g *Group) Scope() string { return g.scope }

// HasFocus reports whether one of the tab controls is focused.
func (g *Group) HasFocus() bool {
	if g.focus == nil {
		return false
	}
	_, ok := g.controlTab(g.focus.Focused())
	return ok
}

// Attach registers the tab controls with the focus manager. Only the active
// control is tabbable.
func (g *Group) Attach() {
	if g.focus == nil {
		return
	}
	g.attached = true
	g.sync()
}

// Detach removes the tab controls from the focus manager.
func (g *Group) Detach() {
	if g.focus == nil {
		return
	}
	g.attached = false
	g.focus.UnregisterScope(g.scope)
}

// FocusActive moves focus to the active tab's control.
func (g *Group) FocusActive() bool {
	if g.focus == nil || !g.attached {
		return false
	}
	return g.focus.Focus(g.ControlID(g.Active()))
}

func (g *Group) set(i int, moveFocus bool) {
	prev := g.Active()
	g.active = i
	next := g.Active()

	if g.attached {
		g.sync()
		if moveFocus {
			g.FocusActive()
		}
	}
	if prev == next {
		return
	}
	for _, fn := range g.observers {
		fn(prev, next)
	}
}

// sync re-derives the roving tabindex.
func (g *Group) sync() {
	for _, id := range g.ids {
		g.focus.Register(focus.Element{
			ID:       g.ControlID(id),
			Scope:    g.scope,
			Tabbable: g.TabIndex(id) == 0,
		})
	}
}

func (g *Group) controlTab(elementID string) (TabID, bool) {
	for _, id := range g.ids {
		if g.ControlID(id) == elementID {
			return id, true
		}
	}
	return "", false
}

func (g *Group) violation(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if g.strict {
		panic("tabs: " + msg)
	}
	g.logger.Warn("tab invariant violated, clamping", "detail", msg, "active", g.Active())
}
