// Package panel decides which tab panel is exposed. A panel is visible only
// while the overlay is open and its tab is the active one; every other panel
// is neither rendered nor reachable by keyboard.
package panel

import (
	"errors"
	"fmt"

	"github.com/quokkaq/quokkaq/internal/focus"
	"github.com/quokkaq/quokkaq/internal/tabs"
)

// ErrDuplicatePanel is returned when two providers claim the same tab.
var ErrDuplicatePanel = errors.New("duplicate panel")

// DefaultScope is the focus scope prefix for panel controls.
const DefaultScope = "popover:panel"

// Control is an interactive element inside a panel.
type Control struct {
	ID    string
	Label string
	// Action runs when the control is activated. Controls with an action
	// are navigation controls: activating one also closes the overlay.
	Action func()
}

// Provider supplies the content of one panel from already loaded data.
type Provider interface {
	ID() tabs.TabID
	Render(width int) string
	Controls() []Control
}

// BoundControl is a control together with its focus element id.
type BoundControl struct {
	Control
	ElementID string
}

// Frame is the renderer output for one update.
type Frame struct {
	Panel    tabs.TabID
	Visible  bool
	Body     string
	Controls []BoundControl
}

// IsVisible reports whether the panel for id is exposed.
func IsVisible(open bool, active, id tabs.TabID) bool {
	return open && id == active
}

// Renderer maps the active tab to panel content.
type Renderer struct {
	order     []tabs.TabID
	providers map[tabs.TabID]Provider
	focus     *focus.Manager
	prefix    string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFocus registers visible panel controls with m under prefix.
func WithFocus(m *focus.Manager, prefix string) Option {
	return func(r *Renderer) {
		r.focus = m
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// NewRenderer builds a renderer over a fixed provider set.
func NewRenderer(providers []Provider, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		providers: make(map[tabs.TabID]Provider, len(providers)),
		prefix:    DefaultScope,
	}
	for _, p := range providers {
		if _, dup := r.providers[p.ID()]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePanel, p.ID())
		}
		r.providers[p.ID()] = p
		r.order = append(r.order, p.ID())
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Has reports whether a provider exists for id.
func (r *Renderer) Has(id tabs.TabID) bool {
	_, ok := r.providers[id]
	return ok
}

// Scope returns the focus scope of a panel's controls.
func (r *Renderer) Scope(id tabs.TabID) string {
	return r.prefix + ":" + string(id)
}

// Render computes the frame for the given state. It has no side effects.
func (r *Renderer) Render(open bool, active tabs.TabID, width int) Frame {
	frame := Frame{Panel: active}
	p, ok := r.providers[active]
	if !ok || !IsVisible(open, active, p.ID()) {
		return frame
	}
	frame.Visible = true
	frame.Body = p.Render(width)
	frame.Controls = r.bind(p)
	return frame
}

// Sync makes the focus manager agree with Render: the visible panel's
// controls are registered and tabbable, every other panel's scope is
// removed.
func (r *Renderer) Sync(open bool, active tabs.TabID) {
	if r.focus == nil {
		return
	}
	for _, id := range r.order {
		scope := r.Scope(id)
		if !IsVisible(open, active, id) {
			r.focus.UnregisterScope(scope)
			continue
		}
		for _, c := range r.bind(r.providers[id]) {
			r.focus.Register(focus.Element{ID: c.ElementID, Scope: scope, Tabbable: true})
		}
	}
}

// Control finds a control of the visible panel by focus element id.
func (r *Renderer) Control(open bool, active tabs.TabID, elementID string) (BoundControl, bool) {
	p, ok := r.providers[active]
	if !ok || !IsVisible(open, active, p.ID()) {
		return BoundControl{}, false
	}
	for _, c := range r.bind(p) {
		if c.ElementID == elementID {
			return c, true
		}
	}
	return BoundControl{}, false
}

func (r *Renderer) bind(p Provider) []BoundControl {
	controls := p.Controls()
	bound := make([]BoundControl, 0, len(controls))
	for _, c := range controls {
		bound = append(bound, BoundControl{
			Control:   c,
			ElementID: r.Scope(p.ID()) + ":" + c.ID,
		})
	}
	return bound
}
