package model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"

	"github.com/quokkaq/quokkaq/internal/config"
	"github.com/quokkaq/quokkaq/internal/focus"
	"github.com/quokkaq/quokkaq/internal/logging"
	"github.com/quokkaq/quokkaq/internal/panel"
	"github.com/quokkaq/quokkaq/internal/popover"
	"github.com/quokkaq/quokkaq/internal/tabs"
	"github.com/quokkaq/quokkaq/internal/ui/accessibility"
	"github.com/quokkaq/quokkaq/internal/ui/keymap"
	"github.com/quokkaq/quokkaq/internal/ui/theme"
)

// AppModel is the main Bubble Tea model: the QuokkaQ page with the account
// menu in its header.
type AppModel struct {
	cfg    *config.Config
	logger *log.Logger

	accessibility *accessibility.Manager
	styles        theme.Styles
	keyMap        keymap.KeyMap
	help          help.Model
	showHelp      bool

	focus    *focus.Manager
	zones    *zone.Manager
	menu     *popover.Controller
	panels   *panel.Renderer
	settings SettingsPanel
	session  *Session

	terminalSize tea.WindowSizeMsg
	pageLabels   map[string]string
}

// NewAppModel wires the account menu into the page.
func NewAppModel(cfg *config.Config, am *accessibility.Manager, logger *log.Logger) (AppModel, error) {
	km, err := keymap.DefaultKeyMap().WithOverrides(cfg.Keys)
	if err != nil {
		return AppModel{}, fmt.Errorf("failed to apply key bindings: %w", err)
	}
	styles := theme.New(cfg.Theme.Colors, am)
	session := NewSession()

	fm := focus.NewManager()
	fm.Register(focus.Element{ID: ElementTrigger, Scope: PageScope, Tabbable: true})
	fm.Focus(ElementTrigger)
	zm := zone.New()

	ids := make([]tabs.TabID, 0, len(cfg.Popover.Tabs))
	labels := make(map[tabs.TabID]string, len(cfg.Popover.Labels))
	for _, id := range cfg.Popover.Tabs {
		ids = append(ids, tabs.TabID(id))
	}
	for id, label := range cfg.Popover.Labels {
		labels[tabs.TabID(id)] = label
	}

	group, err := tabs.New(ids,
		tabs.WithStrict(cfg.Popover.Strict),
		tabs.WithLogger(logging.Component(logger, "tabs")),
		tabs.WithLabels(labels),
		tabs.WithKeyMap(km),
		tabs.WithFocus(fm, ""),
		tabs.WithZones(zm),
	)
	if err != nil {
		zm.Close()
		return AppModel{}, fmt.Errorf("failed to create tabs: %w", err)
	}

	providers, settings, err := buildPanels(cfg, session, styles)
	if err != nil {
		zm.Close()
		return AppModel{}, err
	}
	renderer, err := panel.NewRenderer(providers, panel.WithFocus(fm, ""))
	if err != nil {
		zm.Close()
		return AppModel{}, fmt.Errorf("failed to create panels: %w", err)
	}

	menu, err := popover.New(group, renderer, fm,
		popover.WithTitle(cfg.Popover.Title),
		popover.WithWidth(cfg.Popover.Width),
		popover.WithReopenPolicy(cfg.ReopenPolicy()),
		popover.WithKeyMap(km),
		popover.WithLogger(logging.Component(logger, "popover")),
		popover.WithStyles(styles.Popover),
		popover.WithZones(zm),
	)
	if err != nil {
		zm.Close()
		return AppModel{}, fmt.Errorf("failed to create account menu: %w", err)
	}

	title := cfg.Popover.Title
	menu.OnOpen(func(active tabs.TabID) {
		am.MenuOpened(title, group.Label(active))
	})
	menu.OnClose(func(popover.Reason) {
		am.MenuClosed(title)
	})
	group.OnChange(func(_, next tabs.TabID) {
		if !menu.IsOpen() {
			return
		}
		am.TabSelected(group.Label(next), group.Index()+1, group.Len())
	})

	m := AppModel{
		cfg:           cfg,
		logger:        logger,
		accessibility: am,
		styles:        styles,
		keyMap:        km,
		help:          help.New(),
		focus:         fm,
		zones:         zm,
		menu:          menu,
		panels:        renderer,
		settings:      settings,
		session:       session,
		terminalSize:  tea.WindowSizeMsg{Width: 80, Height: 24},
		pageLabels: map[string]string{
			ElementTrigger: title + " menu",
			ElementAsk:     "Ask question",
			ElementThreads: "Browse threads",
		},
	}
	m.syncPage()
	m.placeMenu()
	return m, nil
}

// Close stops the mouse zone tracker.
func (m AppModel) Close() {
	m.zones.Close()
}

// Init implements tea.Model interface
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Menu returns the account menu.
func (m AppModel) Menu() *popover.Controller { return m.menu }

// Focus returns the focus registry.
func (m AppModel) Focus() *focus.Manager { return m.focus }

// Session returns the page session.
func (m AppModel) Session() *Session { return m.session }

// Update implements tea.Model interface
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.terminalSize = msg
		m.help.Width = msg.Width
		m.placeMenu()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case popover.ClosedMsg:
		m.logger.Debug("account menu closed", "reason", msg.Reason, "route", m.session.Route)
		return m, nil
	}
	return m, nil
}

func (m AppModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	before, beforeTab := m.focus.Focused(), m.menu.ActiveTab()
	if m.menu.IsOpen() {
		cmd := m.menu.Update(msg)
		m.syncPage()
		m.announceFocus(before, beforeTab)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keyMap.NextFocus):
		m.focus.Next()
	case key.Matches(msg, m.keyMap.PrevFocus):
		m.focus.Prev()
	case key.Matches(msg, m.keyMap.Activate):
		m.activate(m.focus.Focused())
		return m, nil
	}
	m.announceFocus(before, beforeTab)
	return m, nil
}

func (m AppModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.menu.IsOpen() {
		cmd := m.menu.Update(msg)
		m.syncPage()
		return m, cmd
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if z := m.zones.Get(ElementTrigger); z != nil && z.InBounds(msg) {
		m.focus.Focus(ElementTrigger)
		m.activate(ElementTrigger)
	}
	return m, nil
}

// activate runs a page control. Signed out, only the account menu remains.
func (m AppModel) activate(id string) {
	if id != ElementTrigger && !m.session.SignedIn {
		return
	}
	switch id {
	case ElementTrigger:
		m.placeMenu()
		m.menu.Toggle()
	case ElementAsk:
		m.session.Navigate(RouteAsk)
	case ElementThreads:
		m.session.Navigate(RouteThreads)
	}
}

// syncPage keeps the page buttons in the focus order only while they are
// drawn.
func (m AppModel) syncPage() {
	for _, id := range []string{ElementAsk, ElementThreads} {
		if m.session.SignedIn {
			m.focus.Register(focus.Element{ID: id, Scope: PageScope, Tabbable: true})
		} else {
			m.focus.Unregister(id)
		}
	}
}

// announceFocus reports a focus move that stayed on the page or inside the
// menu. Opening, closing and tab changes announce themselves.
func (m AppModel) announceFocus(before string, beforeTab tabs.TabID) {
	after := m.focus.Focused()
	if after == before || after == focus.Body || m.menu.ActiveTab() != beforeTab {
		return
	}
	if strings.HasPrefix(before, PageScope+":") != strings.HasPrefix(after, PageScope+":") {
		return
	}
	if name := m.describe(after); name != "" {
		m.accessibility.FocusMoved(name)
	}
}

// describe names a focus element for announcements.
func (m AppModel) describe(id string) string {
	if label, ok := m.pageLabels[id]; ok {
		return label
	}
	group := m.menu.Group()
	if tab, ok := strings.CutPrefix(id, group.Scope()+":"); ok && group.Contains(tabs.TabID(tab)) {
		return group.Label(tabs.TabID(tab)) + " tab"
	}
	if ctl, ok := m.panels.Control(m.menu.IsOpen(), group.Active(), id); ok {
		return ctl.Label
	}
	return ""
}

// placeMenu anchors the menu under the trigger, right-aligned.
func (m AppModel) placeMenu() {
	w, _ := m.menu.Size()
	m.menu.Place(m.terminalSize.Width-w, 1)
}

func (m AppModel) triggerLabel() string {
	style := m.styles.Trigger
	if m.focus.Focused() == ElementTrigger {
		style = m.styles.TriggerFocused
	}
	arrow := "▾"
	if m.menu.IsOpen() {
		arrow = "▴"
	}
	return style.Render(m.cfg.Popover.Title + " " + arrow)
}

// View implements tea.Model interface
func (m AppModel) View() string {
	page := m.renderPage()
	if !m.menu.IsOpen() {
		return m.zones.Scan(page)
	}
	b := m.menu.Bounds()
	return m.zones.Scan(overlayAt(page, m.menu.View(), b.X, b.Y, m.terminalSize.Width, m.terminalSize.Height))
}

func (m AppModel) renderPage() string {
	width, height := m.terminalSize.Width, m.terminalSize.Height

	top := []string{m.renderHeader(width), ""}
	top = append(top, m.styles.Text.Bold(true).Render(m.session.pageTitle(m.settings.label)), "")
	if m.session.SignedIn {
		top = append(top, m.renderButtons())
	}

	var bottom []string
	if m.accessibility.AnnouncementsEnabled() {
		bottom = append(bottom, m.styles.Status.Render(m.accessibility.Last()))
	}
	bottom = append(bottom, m.renderHelp())

	topBlock := strings.Join(top, "\n")
	bottomBlock := strings.Join(bottom, "\n")
	gap := height - lipgloss.Height(topBlock) - lipgloss.Height(bottomBlock)
	if gap < 1 {
		gap = 1
	}
	return topBlock + strings.Repeat("\n", gap) + bottomBlock
}

func (m AppModel) renderHeader(width int) string {
	brand := m.styles.Brand.Render("QuokkaQ")
	trigger := m.zones.Mark(ElementTrigger, m.triggerLabel())
	gap := width - lipgloss.Width(brand) - lipgloss.Width(trigger)
	if gap < 1 {
		gap = 1
	}
	return m.styles.Header.Render(brand + strings.Repeat(" ", gap) + trigger)
}

func (m AppModel) renderButtons() string {
	button := func(id string) string {
		if m.focus.Focused() == id {
			return m.styles.ButtonFocused.Render(m.pageLabels[id])
		}
		return m.styles.Button.Render(m.pageLabels[id])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, button(ElementAsk), " ", button(ElementThreads))
}

func (m AppModel) renderHelp() string {
	ctx := keymap.PageContext
	if m.focus.Trapped() {
		ctx = keymap.PopoverContext
	}
	h := m.help
	h.ShowAll = m.showHelp
	return h.View(m.keyMap.ForContext(ctx))
}

// Describe renders a plain-text summary for terminals that cannot run the
// interactive program.
func (m AppModel) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "QuokkaQ - %s\n", m.session.pageTitle(m.settings.label))

	reachable := m.focus.Tabbable()
	page := make([]string, 0, len(reachable))
	for _, id := range reachable {
		page = append(page, m.describe(id))
	}
	fmt.Fprintf(&b, "Page controls:\n%s\n", m.accessibility.FormatList(page))

	group := m.menu.Group()
	labels := make([]string, 0, group.Len())
	for _, id := range group.IDs() {
		labels = append(labels, group.Label(id))
	}
	fmt.Fprintf(&b, "%s menu tabs:\n%s\n", m.cfg.Popover.Title, m.accessibility.FormatList(labels))

	frame := m.panels.Render(true, group.Active(), m.cfg.Popover.Width)
	controls := make([]string, 0, len(frame.Controls))
	for _, c := range frame.Controls {
		controls = append(controls, c.Label)
	}
	fmt.Fprintf(&b, "%s:\n%s\n", group.Label(group.Active()), m.accessibility.FormatList(controls))
	return b.String()
}
