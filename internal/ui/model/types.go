package model

import "strings"

// Focusable page elements outside the account menu.
const (
	ElementTrigger = "page:account"
	ElementAsk     = "page:ask"
	ElementThreads = "page:threads"

	PageScope = "page"
)

// Routes the demo can show.
const (
	RouteHome      = "/"
	RouteAsk       = "/ask"
	RouteThreads   = "/threads"
	RouteDashboard = "/dashboard"
)

// Session is the state the panel callbacks act on. It is shared by pointer
// so callbacks keep working across model copies.
type Session struct {
	Route    string
	SignedIn bool
	History  []string
}

// NewSession returns a signed-in session on the home page.
func NewSession() *Session {
	return &Session{Route: RouteHome, SignedIn: true}
}

// Navigate moves to route, remembering the previous one.
func (s *Session) Navigate(route string) {
	if route == "" || route == s.Route {
		return
	}
	s.History = append(s.History, s.Route)
	s.Route = route
}

// SignOut ends the session and returns home.
func (s *Session) SignOut() {
	s.SignedIn = false
	s.Navigate(RouteHome)
}

// pageTitle returns the heading for the current route.
func (s *Session) pageTitle(settingsLabel func(route string) string) string {
	if !s.SignedIn {
		return "You are signed out"
	}
	switch s.Route {
	case RouteHome:
		return "Course Q&A"
	case RouteAsk:
		return "Ask a question"
	case RouteThreads:
		return "Browse threads"
	case RouteDashboard:
		return "Dashboard"
	}
	if strings.HasPrefix(s.Route, "/settings/") {
		return "Settings › " + settingsLabel(s.Route)
	}
	return s.Route
}
