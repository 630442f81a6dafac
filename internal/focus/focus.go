// Package focus models keyboard focus for the terminal UI: which control
// currently receives key input, which controls take part in sequential
// Tab/Shift+Tab traversal, and an optional trap that keeps traversal inside
// one region of the screen.
package focus

import "strings"

// Body is the root element. It is always registered, never tabbable, and is
// where focus lands when the focused element disappears.
const Body = "body"

// Element is a focusable control.
type Element struct {
	ID string
	// Scope groups elements, e.g. "page" or "popover:tabs". Traps match
	// scopes by prefix.
	Scope string
	// Tabbable reports whether Tab/Shift+Tab may land on the element
	// (tabindex 0). Non-tabbable elements can still be focused directly.
	Tabbable bool
}

// Manager tracks registered elements in registration order, the focused
// element and the active trap.
type Manager struct {
	elements []Element
	focused  string
	trap     string
	trapped  bool
}

// NewManager creates a manager with only Body registered and focused.
func NewManager() *Manager {
	return &Manager{
		elements: []Element{{ID: Body}},
		focused:  Body,
	}
}

// Register adds an element at the end of the traversal order. Registering
// an existing ID updates it in place and keeps its position.
func (m *Manager) Register(el Element) {
	if el.ID == Body {
		return
	}
	if i := m.indexOf(el.ID); i >= 0 {
		m.elements[i] = el
		return
	}
	m.elements = append(m.elements, el)
}

// Unregister removes an element. If it held focus, focus falls back to Body.
func (m *Manager) Unregister(id string) {
	if id == Body {
		return
	}
	i := m.indexOf(id)
	if i < 0 {
		return
	}
	m.elements = append(m.elements[:i], m.elements[i+1:]...)
	if m.focused == id {
		m.focused = Body
	}
}

// UnregisterScope removes every element whose scope equals scope.
func (m *Manager) UnregisterScope(scope string) {
	kept := m.elements[:0]
	for _, el := range m.elements {
		if el.ID != Body && el.Scope == scope {
			if m.focused == el.ID {
				m.focused = Body
			}
			continue
		}
		kept = append(kept, el)
	}
	m.elements = kept
}

// Exists reports whether id is registered.
func (m *Manager) Exists(id string) bool {
	return m.indexOf(id) >= 0
}

// Focus moves focus to a registered element. It returns false and leaves
// focus alone when id is unknown.
func (m *Manager) Focus(id string) bool {
	if !m.Exists(id) {
		return false
	}
	m.focused = id
	return true
}

// Focused returns the ID of the focused element.
func (m *Manager) Focused() string {
	return m.focused
}

// Trap restricts sequential traversal to elements whose scope starts with
// prefix, until Release is called.
func (m *Manager) Trap(prefix string) {
	m.trap = prefix
	m.trapped = true
}

// Release lifts the active trap. Releasing with no trap is a no-op.
func (m *Manager) Release() {
	m.trap = ""
	m.trapped = false
}

// Trapped reports whether a trap is active.
func (m *Manager) Trapped() bool {
	return m.trapped
}

// Next moves focus to the next tabbable element after the focused one,
// wrapping around, and returns the new focused ID.
func (m *Manager) Next() string {
	return m.step(1)
}

// Prev moves focus to the previous tabbable element, wrapping around.
func (m *Manager) Prev() string {
	return m.step(-1)
}

// Tabbable returns the IDs reachable by sequential traversal, in order,
// honouring the active trap.
func (m *Manager) Tabbable() []string {
	var ids []string
	for _, el := range m.elements {
		if m.reachable(el) {
			ids = append(ids, el.ID)
		}
	}
	return ids
}

func (m *Manager) step(dir int) string {
	n := len(m.elements)
	cur := m.indexOf(m.focused)
	if cur < 0 {
		cur = 0
	}
	for k := 1; k <= n; k++ {
		i := ((cur+dir*k)%n + n) % n
		if m.reachable(m.elements[i]) {
			m.focused = m.elements[i].ID
			break
		}
	}
	return m.focused
}

func (m *Manager) reachable(el Element) bool {
	if !el.Tabbable || el.ID == Body {
		return false
	}
	return !m.trapped || strings.HasPrefix(el.Scope, m.trap)
}

func (m *Manager) indexOf(id string) int {
	for i, el := range m.elements {
		if el.ID == id {
			return i
		}
	}
	return -1
}
