// Package popover owns the open/closed lifecycle of a tabbed overlay: it
// captures the element that had focus when the overlay opened, traps
// sequential focus inside the overlay while it is open, listens for outside
// clicks, and hands focus back to the captured element on close.
package popover

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"

	"github.com/quokkaq/quokkaq/internal/focus"
	"github.com/quokkaq/quokkaq/internal/panel"
	"github.com/quokkaq/quokkaq/internal/tabs"
	"github.com/quokkaq/quokkaq/internal/ui/keymap"
)

// ErrMissingPanel is returned when a tab has no panel provider.
var ErrMissingPanel = errors.New("tab has no panel")

// DefaultTrapScope is the focus scope prefix shared by the tab and panel
// controls.
const DefaultTrapScope = "popover"

// Controller is the popover component. All methods are meant to be called
// from the Bubble Tea update loop.
type Controller struct {
	mounted   bool
	open      bool
	listening bool
	anchor    string

	group  *tabs.Group
	panels *panel.Renderer
	focus  *focus.Manager

	keys      keymap.KeyMap
	logger    *log.Logger
	reopen    ReopenPolicy
	trapScope string

	title  string
	width  int
	x, y   int
	styles Styles
	zones  *zone.Manager

	onOpen  []func(tabs.TabID)
	onClose []func(Reason)
}

// Option configures a Controller.
type Option func(*Controller)

// WithTitle sets the heading drawn above the tab strip.
func WithTitle(title string) Option {
	return func(c *Controller) { c.title = title }
}

// WithWidth sets the content width of the box.
func WithWidth(width int) Option {
	return func(c *Controller) {
		if width > 0 {
			c.width = width
		}
	}
}

// WithReopenPolicy selects which tab a reopened popover shows.
func WithReopenPolicy(p ReopenPolicy) Option {
	return func(c *Controller) { c.reopen = p }
}

// WithKeyMap sets the bindings for close, focus traversal and activation.
func WithKeyMap(km keymap.KeyMap) Option {
	return func(c *Controller) { c.keys = km }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithStyles sets the styles.
func WithStyles(st Styles) Option {
	return func(c *Controller) { c.styles = st }
}

// WithZones marks panel controls in View so pointer presses can be resolved.
// The host scans its full screen with zm; give the tab group the same
// manager through tabs.WithZones.
func WithZones(zm *zone.Manager) Option {
	return func(c *Controller) { c.zones = zm }
}

// WithTrapScope sets the focus scope prefix trapped while open. It must
// cover the scopes of the group's and renderer's controls.
func WithTrapScope(prefix string) Option {
	return func(c *Controller) {
		if prefix != "" {
			c.trapScope = prefix
		}
	}
}

// New creates a mounted, closed popover. group and panels must share fm.
func New(group *tabs.Group, panels *panel.Renderer, fm *focus.Manager, opts ...Option) (*Controller, error) {
	for _, id := range group.IDs() {
		if !panels.Has(id) {
			return nil, fmt.Errorf("%w: %q", ErrMissingPanel, id)
		}
	}

	c := &Controller{
		mounted:   true,
		group:     group,
		panels:    panels,
		focus:     fm,
		keys:      keymap.DefaultKeyMap(),
		logger:    log.Default(),
		trapScope: DefaultTrapScope,
		width:     36,
		styles:    DefaultStyles(),
	}
	for _, opt := range opts {
		opt(c)
	}

	group.OnChange(func(prev, next tabs.TabID) {
		c.panels.Sync(c.open, next)
		c.logger.Debug("tab changed", "from", prev, "to", next)
	})
	return c, nil
}

// OnOpen registers a hook run after the popover opened.
func (c *Controller) OnOpen(fn func(active tabs.TabID)) {
	c.onOpen = append(c.onOpen, fn)
}

// OnClose registers a hook run after the popover closed.
func (c *Controller) OnClose(fn func(Reason)) {
	c.onClose = append(c.onClose, fn)
}

// IsOpen reports whether the overlay is open.
func (c *Controller) IsOpen() bool { return c.open }

// Mounted reports whether the component is mounted.
func (c *Controller) Mounted() bool { return c.mounted }

// Listening reports whether the outside-click listener is installed.
func (c *Controller) Listening() bool { return c.listening }

// Anchor returns the element focus returns to on close, or "" when closed.
func (c *Controller) Anchor() string { return c.anchor }

// ActiveTab returns the active tab for host code. It is read-only: tabs
// change through the keyboard, the pointer or the group itself.
func (c *Controller) ActiveTab() tabs.TabID { return c.group.Active() }

// Group returns the tab group.
func (c *Controller) Group() *tabs.Group { return c.group }

// Place sets the top-left cell of the box on screen.
func (c *Controller) Place(x, y int) {
	c.x, c.y = max(0, x), max(0, y)
}

// Size returns the rendered width and height of the box.
func (c *Controller) Size() (int, int) {
	v := c.render(true)
	return lipgloss.Width(v), lipgloss.Height(v)
}

// Mount marks the component mounted again after Unmount.
func (c *Controller) Mount() {
	c.mounted = true
}

// Unmount closes the popover if needed, releasing the focus trap and the
// outside-click listener, and turns every later call into a no-op.
func (c *Controller) Unmount() {
	if !c.mounted {
		return
	}
	c.close(ReasonProgrammatic)
	c.mounted = false
}

// Open shows the overlay and moves focus to the active tab. Opening an open
// or unmounted popover does nothing.
func (c *Controller) Open() {
	if !c.mounted {
		c.logger.Debug("open ignored, popover not mounted")
		return
	}
	if c.open {
		return
	}

	c.anchor = c.focus.Focused()
	if c.reopen == ReopenResetFirst {
		c.group.SelectIndex(0)
	}

	c.open = true
	c.listening = true
	c.group.Attach()
	c.panels.Sync(true, c.group.Active())
	c.focus.Trap(c.trapScope)
	c.group.FocusActive()

	c.logger.Debug("popover opened", "tab", c.group.Active(), "anchor", c.anchor)
	for _, fn := range c.onOpen {
		fn(c.group.Active())
	}
}

// Close hides the overlay and restores focus. Closing a closed popover does
// nothing.
func (c *Controller) Close() {
	c.close(ReasonProgrammatic)
}

// RequestClose closes the overlay on behalf of reason.
func (c *Controller) RequestClose(reason Reason) {
	c.close(reason)
}

// Toggle opens a closed popover and closes an open one.
func (c *Controller) Toggle() {
	if c.open {
		c.Close()
		return
	}
	c.Open()
}

func (c *Controller) close(reason Reason) bool {
	if !c.mounted || !c.open {
		return false
	}

	c.open = false
	c.listening = false
	c.panels.Sync(false, c.group.Active())
	c.group.Detach()
	c.focus.Release()

	anchor := c.anchor
	c.anchor = ""
	if !c.focus.Focus(anchor) {
		c.logger.Debug("focus anchor gone, focusing body", "anchor", anchor)
		c.focus.Focus(focus.Body)
	}

	c.logger.Info("popover closed", "reason", reason, "tab", c.group.Active())
	for _, fn := range c.onClose {
		fn(reason)
	}
	return true
}

// Update handles key and mouse input while the popover is open. It consumes
// all such input; the host should only route to it while IsOpen is true.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if !c.mounted || !c.open {
		return nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return c.handleKey(msg)
	case tea.MouseMsg:
		return c.handleMouse(msg)
	}
	return nil
}

func (c *Controller) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, c.keys.Close) {
		return c.closeCmd(ReasonEscape)
	}
	if c.keys.IsFocusKey(msg) {
		if key.Matches(msg, c.keys.PrevFocus) {
			c.focus.Prev()
		} else {
			c.focus.Next()
		}
		return nil
	}

	if c.group.HandleKey(msg) {
		return nil
	}

	if key.Matches(msg, c.keys.Activate) {
		if ctl, ok := c.panels.Control(c.open, c.group.Active(), c.focus.Focused()); ok {
			return c.activate(ctl)
		}
	}
	return nil
}

func (c *Controller) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	if !c.Bounds().Contains(msg.X, msg.Y) {
		if !c.listening {
			return nil
		}
		return c.closeCmd(ReasonOutsideClick)
	}

	if id, ok := c.group.TabAt(msg); ok {
		c.group.Activate(id)
		return nil
	}
	if ctl, ok := c.controlAt(msg); ok {
		c.focus.Focus(ctl.ElementID)
		return c.activate(ctl)
	}
	return nil
}

// controlAt finds the visible panel control under a mouse event.
func (c *Controller) controlAt(msg tea.MouseMsg) (panel.BoundControl, bool) {
	if c.zones == nil {
		return panel.BoundControl{}, false
	}
	frame := c.panels.Render(c.open, c.group.Active(), c.innerWidth())
	for _, ctl := range frame.Controls {
		if z := c.zones.Get(ctl.ElementID); z != nil && z.InBounds(msg) {
			return ctl, true
		}
	}
	return panel.BoundControl{}, false
}

// activate runs a panel control. Navigation controls close the popover
// before their action runs so focus is restored first.
func (c *Controller) activate(ctl panel.BoundControl) tea.Cmd {
	if ctl.Action == nil {
		return nil
	}
	cmd := c.closeCmd(ReasonNavigation)
	ctl.Action()
	return cmd
}

func (c *Controller) closeCmd(reason Reason) tea.Cmd {
	if !c.close(reason) {
		return nil
	}
	return func() tea.Msg { return ClosedMsg{Reason: reason} }
}

// Bounds returns the screen rectangle of the box, empty while closed.
func (c *Controller) Bounds() Rect {
	if !c.open {
		return Rect{}
	}
	w, h := c.Size()
	return Rect{X: c.x, Y: c.y, W: w, H: h}
}

// View renders the box, or "" while closed.
func (c *Controller) View() string {
	if !c.mounted || !c.open {
		return ""
	}
	return c.render(false)
}

func (c *Controller) innerWidth() int {
	return max(1, c.width-c.styles.Box.GetHorizontalPadding())
}

// render lays the box out. With measure set the panel is rendered as if the
// popover were open, so the size is known before opening. Controls are
// padded to the full inner width so a wrapped label stays one block.
func (c *Controller) render(measure bool) string {
	st := c.styles
	inner := c.innerWidth()
	frame := c.panels.Render(c.open || measure, c.group.Active(), inner)

	var lines []string
	if c.title != "" {
		lines = append(lines, st.Title.Render(c.title))
	}
	lines = append(lines, c.group.View(st.Tabs))
	lines = append(lines, st.Rule.Render(strings.Repeat("─", inner)))
	if frame.Body != "" {
		lines = append(lines, st.Body.Render(frame.Body))
	}

	if len(frame.Controls) > 0 {
		lines = append(lines, "")
		focused := c.focus.Focused()
		for _, ctl := range frame.Controls {
			var row string
			if ctl.ElementID == focused {
				row = st.ControlFocused.Width(inner).Render("› " + ctl.Label)
			} else {
				row = st.Control.Width(inner).Render("  " + ctl.Label)
			}
			if c.zones != nil {
				row = c.zones.Mark(ctl.ElementID, row)
			}
			lines = append(lines, row)
		}
	}

	return st.Box.Width(c.width).Render(strings.Join(lines, "\n"))
}
