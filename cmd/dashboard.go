package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/handreceipt/hr-cli/internal/adapters/ws"
	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/config"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Launch interactive dashboard (alias: dash)",
	Long: `Launch a full-screen interactive dashboard over the property book.

The dashboard provides:
- Tabbed views for properties, transfers, and documents
- A detail pane for the selected row
- Real-time search and filtering
- Quick actions: verify, approve/reject transfers, copy serials
- Live updates over the server websocket while signed in

Keyboard Shortcuts:
  Navigation:
    ↑/k         Move up
    ↓/j         Move down
    g           Jump to top
    G           Jump to bottom
    Tab / 1-3   Switch view

  Actions:
    Enter       Load full details into the pane
    v           Verify selected property
    a           Approve selected transfer
    x           Reject selected transfer
    y           Copy serial / ID
    r           Refresh from the server

  Views:
    /           Search mode
    Esc         Clear search / Exit mode
    ?           Show help

  General:
    q           Quit dashboard
    Ctrl+C      Force quit`,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(getContext())
	defer cancel()

	// Load initial data, all three collections in parallel
	data, err := loadDashboardData(ctx, false)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to load dashboard data: " + err.Error()))
		if errors.Is(err, ports.ErrOffline) {
			fmt.Println(ui.FormatInfo("Run the dashboard once while online to warm the cache"))
		}
		return err
	}

	// Live events while a session exists; nil channel disables them
	events := openDashboardSocket(ctx)

	m := newDashboardModel(ctx, data, events)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}

	return nil
}

// dashboardData is the snapshot the model renders from.
type dashboardData struct {
	properties []domain.Property
	transfers  []domain.Transfer
	documents  []domain.Document
	offline    bool
}

// loadDashboardData fetches all three collections concurrently. refresh
// bypasses fresh cache entries; the stale fallback still applies offline.
func loadDashboardData(ctx context.Context, refresh bool) (dashboardData, error) {
	var (
		data                                  dashboardData
		propsStale, transfersStale, docsStale bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := propertyService.List(gctx, services.ListPropertiesRequest{Refresh: refresh})
		if err != nil {
			return fmt.Errorf("properties: %w", err)
		}
		data.properties = resp.Properties
		propsStale = resp.Offline
		return nil
	})
	g.Go(func() error {
		resp, err := transferService.List(gctx, services.ListTransfersRequest{Refresh: refresh})
		if err != nil {
			return fmt.Errorf("transfers: %w", err)
		}
		data.transfers = resp.Transfers
		transfersStale = resp.Offline
		return nil
	})
	g.Go(func() error {
		resp, err := documentService.List(gctx, services.ListDocumentsRequest{Box: "inbox", Refresh: refresh})
		if err != nil {
			return fmt.Errorf("documents: %w", err)
		}
		data.documents = resp.Documents
		docsStale = resp.Offline
		return nil
	})
	if err := g.Wait(); err != nil {
		return data, err
	}

	data.offline = propsStale || transfersStale || docsStale
	return data, nil
}

// openDashboardSocket connects the live event stream. Any failure just
// means no live updates; the dashboard still works from cache.
func openDashboardSocket(ctx context.Context) <-chan ws.Event {
	session, err := tokenStore.Load()
	if err != nil {
		return nil
	}

	socket, err := ws.New(config.ResolveServerURL(serverFlag, appConfig), session.AccessToken, ws.Options{
		ReconnectDelay: appConfig.SocketReconnectDelay(),
		MaxReconnects:  appConfig.SocketMaxReconnects,
	}, appLogger.Named("dashboard"))
	if err != nil {
		return nil
	}

	events := make(chan ws.Event, 16)
	for _, eventType := range ws.EventTypes {
		socket.On(eventType, func(ev ws.Event) {
			select {
			case events <- ev:
			default: // drop rather than block the read loop
			}
		})
	}

	go func() {
		defer socket.Close()
		_ = socket.Run(ctx)
	}()

	return events
}

// Dashboard view modes
type viewMode int

const (
	modeList viewMode = iota
	modeSearch
	modeHelp
	modeConfirm
)

// Dashboard tabs
type dashboardTab int

const (
	tabProperties dashboardTab = iota
	tabTransfers
	tabDocuments
)

func (t dashboardTab) String() string {
	switch t {
	case tabTransfers:
		return "Transfers"
	case tabDocuments:
		return "Documents"
	default:
		return "Properties"
	}
}

// Preview state
type previewState struct {
	title    string
	content  string
	viewport viewport.Model
}

// resolvePrompt is a transfer decision awaiting confirmation
type resolvePrompt struct {
	id      int
	action  string
	summary string
}

// Dashboard model
type dashboardModel struct {
	ctx    context.Context
	events <-chan ws.Event

	properties []domain.Property
	transfers  []domain.Transfer
	documents  []domain.Document

	filteredProperties []domain.Property
	filteredTransfers  []domain.Transfer
	filteredDocuments  []domain.Document

	tab     dashboardTab
	cursors [3]int // Selected item index per tab
	offsets [3]int // Scroll offset per tab

	mode        viewMode
	searchInput textinput.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	ready       bool
	online      bool

	message       string // Status message
	messageStyle  lipgloss.Style
	messageExpiry time.Time

	pendingResolve *resolvePrompt // Transfer decision awaiting confirmation

	preview previewState
}

// Key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	NextTab key.Binding
	Detail  key.Binding
	Verify  key.Binding
	Approve key.Binding
	Reject  key.Binding
	Yank    key.Binding
	Refresh key.Binding
	Search  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Detail, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.NextTab},
		{k.Detail, k.Verify, k.Approve, k.Reject, k.Yank, k.Refresh},
		{k.Search, k.Help, k.Escape, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "bottom"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch view"),
	),
	Detail: key.NewBinding(
		key.WithKeys("enter", "o"),
		key.WithHelp("enter/o", "details"),
	),
	Verify: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "verify"),
	),
	Approve: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "approve"),
	),
	Reject: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reject"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy serial"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

func newDashboardModel(ctx context.Context, data dashboardData, events <-chan ws.Event) dashboardModel {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 100
	ti.Width = 50

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle().Foreground(ui.ColorDefault)

	m := dashboardModel{
		ctx:                ctx,
		events:             events,
		properties:         data.properties,
		transfers:          data.transfers,
		documents:          data.documents,
		filteredProperties: data.properties,
		filteredTransfers:  data.transfers,
		filteredDocuments:  data.documents,
		tab:                tabProperties,
		mode:               modeList,
		searchInput:        ti,
		help:               help.New(),
		keys:               keys,
		online:             !data.offline,
		preview: previewState{
			viewport: vp,
		},
	}
	m.syncPreview()
	return m
}

func (m dashboardModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

		// Update preview viewport size
		previewWidth := (msg.Width / 2) - 4
		previewHeight := msg.Height - 16
		if previewHeight < 10 {
			previewHeight = 10
		}
		m.preview.viewport.Width = previewWidth
		m.preview.viewport.Height = previewHeight
		return m, nil

	case tea.KeyMsg:
		// Handle mode-specific key bindings
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeHelp:
			return m.updateHelp(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeList:
			return m.updateList(msg)
		}

	case statusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		m.messageExpiry = time.Now().Add(3 * time.Second)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearMessageMsg{}
		})

	case clearMessageMsg:
		if time.Now().After(m.messageExpiry) {
			m.message = ""
		}
		return m, nil

	case reloadMsg:
		return m, m.refreshAll()

	case dataLoadedMsg:
		m.properties = msg.data.properties
		m.transfers = msg.data.transfers
		m.documents = msg.data.documents
		m.online = !msg.data.offline
		m.applySearch()
		m.syncPreview()
		return m, nil

	case detailLoadedMsg:
		m.preview.title = msg.title
		m.preview.content = msg.content
		m.preview.viewport.SetContent(msg.content)
		m.preview.viewport.GotoTop()
		if msg.readDocID != 0 {
			m.markDocumentRead(msg.readDocID)
		}
		return m, nil

	case socketEventMsg:
		m.message = socketEventLine(msg.event)
		m.messageStyle = ui.StyleInfo
		m.messageExpiry = time.Now().Add(3 * time.Second)
		return m, tea.Batch(m.refreshAll(), waitForEvent(m.events))
	}

	// Update viewport if we're in list or search mode (preview is always visible)
	if m.mode == modeList || m.mode == modeSearch {
		var cmd tea.Cmd
		m.preview.viewport, cmd = m.preview.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m dashboardModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursors[m.tab] > 0 {
			m.cursors[m.tab]--
			m.adjustViewport()
			m.syncPreview()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursors[m.tab] < m.rowCount()-1 {
			m.cursors[m.tab]++
			m.adjustViewport()
			m.syncPreview()
		}

	case key.Matches(msg, m.keys.Top):
		m.cursors[m.tab] = 0
		m.offsets[m.tab] = 0
		m.syncPreview()

	case key.Matches(msg, m.keys.Bottom):
		if n := m.rowCount(); n > 0 {
			m.cursors[m.tab] = n - 1
			m.adjustViewport()
			m.syncPreview()
		}

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % 3
		m.adjustViewport()
		m.syncPreview()

	case msg.String() == "1":
		m.tab = tabProperties
		m.syncPreview()

	case msg.String() == "2":
		m.tab = tabTransfers
		m.syncPreview()

	case msg.String() == "3":
		m.tab = tabDocuments
		m.syncPreview()

	case msg.Type == tea.KeyPgUp:
		m.preview.viewport.ViewUp()

	case msg.Type == tea.KeyPgDown:
		m.preview.viewport.ViewDown()

	case key.Matches(msg, m.keys.Detail):
		return m, m.loadDetail()

	case key.Matches(msg, m.keys.Verify):
		if m.tab == tabProperties {
			return m, m.verifySelected()
		}

	case key.Matches(msg, m.keys.Approve):
		if m.tab == tabTransfers {
			if t := m.selectedTransfer(); t != nil {
				m.pendingResolve = &resolvePrompt{id: t.ID, action: "approve", summary: transferItemLabel(t)}
				m.mode = modeConfirm
			}
		}

	case key.Matches(msg, m.keys.Reject):
		if m.tab == tabTransfers {
			if t := m.selectedTransfer(); t != nil {
				m.pendingResolve = &resolvePrompt{id: t.ID, action: "reject", summary: transferItemLabel(t)}
				m.mode = modeConfirm
			}
		}

	case key.Matches(msg, m.keys.Yank):
		return m, m.yankSelected()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshAll()

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}

	return m, nil
}

func (m dashboardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.applySearch()
		m.syncPreview()
		return m, nil

	// Enter keeps the filter and returns to the list
	case msg.Type == tea.KeyEnter:
		m.mode = modeList
		m.searchInput.Blur()
		return m, nil

	// Only use arrow keys for navigation in search mode, not j/k
	case msg.Type == tea.KeyUp:
		if m.cursors[m.tab] > 0 {
			m.cursors[m.tab]--
			m.adjustViewport()
			m.syncPreview()
		}

	case msg.Type == tea.KeyDown:
		if m.cursors[m.tab] < m.rowCount()-1 {
			m.cursors[m.tab]++
			m.adjustViewport()
			m.syncPreview()
		}

	case msg.Type == tea.KeyPgUp:
		m.preview.viewport.ViewUp()

	case msg.Type == tea.KeyPgDown:
		m.preview.viewport.ViewDown()

	default:
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.applySearch()
		m.syncPreview()
		return m, cmd
	}

	return m, nil
}

func (m dashboardModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = modeList
	}
	return m, nil
}

func (m dashboardModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		pr := m.pendingResolve
		m.pendingResolve = nil
		m.mode = modeList
		return m, m.resolveTransfer(pr)

	case key.Matches(msg, m.keys.Cancel):
		m.pendingResolve = nil
		m.mode = modeList
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "\n  Loading dashboard..."
	}

	switch m.mode {
	case modeHelp:
		return m.viewHelp()
	case modeConfirm:
		return m.viewConfirm()
	default:
		return m.viewList()
	}
}

func (m dashboardModel) viewList() string {
	// Split screen: list on left (40%), preview on right (60%)
	listWidth := int(float64(m.width) * 0.4)
	previewWidth := m.width - listWidth - 2 // -2 for separator

	if listWidth < 30 {
		listWidth = 30
	}

	var s strings.Builder

	// Header spans full width
	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n")

	// Search bar spans full width
	s.WriteString(m.renderSearchBar())
	s.WriteString("\n\n")

	if previewWidth < 40 {
		// Screen too narrow for the split, list only
		s.WriteString(m.renderRows(m.width - 2))
	} else {
		// Render list and preview side by side
		listContent := m.renderRows(listWidth)
		previewContent := m.renderPreview(previewWidth)

		listLines := strings.Split(listContent, "\n")
		previewLines := strings.Split(previewContent, "\n")

		maxLines := len(listLines)
		if len(previewLines) > maxLines {
			maxLines = len(previewLines)
		}

		for i := 0; i < maxLines; i++ {
			var listLine, previewLine string

			if i < len(listLines) {
				listLine = listLines[i]
			}
			if i < len(previewLines) {
				previewLine = previewLines[i]
			}

			s.WriteString(padRight(listLine, listWidth))
			s.WriteString("  ") // Separator
			s.WriteString(previewLine)
			s.WriteString("\n")
		}
	}

	// Footer
	s.WriteString("\n")
	s.WriteString(m.renderFooter())

	return s.String()
}

func (m dashboardModel) viewHelp() string {
	var s strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Padding(1, 2)

	sectionStyle := lipgloss.NewStyle().
		Foreground(ui.ColorAccent).
		Bold(true).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(ui.ColorSuccess).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(ui.ColorDefault)

	s.WriteString(titleStyle.Render("HandReceipt Dashboard - Keyboard Shortcuts"))
	s.WriteString("\n\n")

	sections := []struct {
		title string
		keys  []struct{ key, desc string }
	}{
		{
			title: "Navigation",
			keys: []struct{ key, desc string }{
				{"↑ / k", "Move cursor up"},
				{"↓ / j", "Move cursor down"},
				{"g", "Jump to top"},
				{"G", "Jump to bottom"},
				{"Tab", "Next view"},
				{"1 / 2 / 3", "Properties / Transfers / Documents"},
			},
		},
		{
			title: "Actions",
			keys: []struct{ key, desc string }{
				{"Enter / o", "Load full details into the pane"},
				{"v", "Verify selected property"},
				{"a", "Approve selected transfer (with confirmation)"},
				{"x", "Reject selected transfer (with confirmation)"},
				{"y", "Copy serial number / ID to clipboard"},
				{"r", "Refresh all views from the server"},
			},
		},
		{
			title: "Search",
			keys: []struct{ key, desc string }{
				{"/", "Start search (type to filter, arrow keys to navigate)"},
				{"Esc", "Exit search / Cancel"},
				{"?", "Show this help"},
			},
		},
		{
			title: "Detail pane",
			keys: []struct{ key, desc string }{
				{"PgUp/PgDn", "Scroll detail pane"},
			},
		},
		{
			title: "General",
			keys: []struct{ key, desc string }{
				{"q", "Quit dashboard"},
				{"Ctrl+C", "Force quit"},
			},
		},
	}

	for _, section := range sections {
		s.WriteString(sectionStyle.Render(section.title))
		s.WriteString("\n")
		for _, binding := range section.keys {
			s.WriteString("  ")
			s.WriteString(keyStyle.Render(binding.key))
			s.WriteString(descStyle.Render(binding.desc))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render("  Press ESC or ? to return to dashboard"))
	s.WriteString("\n")

	return s.String()
}

func (m dashboardModel) viewConfirm() string {
	if m.pendingResolve == nil {
		return ""
	}

	var s strings.Builder

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(60).
		Align(lipgloss.Center)

	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorWarning).
		Bold(true)

	itemStyle := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true)

	promptStyle := lipgloss.NewStyle().
		Foreground(ui.ColorDefault).
		MarginTop(1)

	verb := strings.ToUpper(m.pendingResolve.action[:1]) + m.pendingResolve.action[1:]
	content := fmt.Sprintf("%s\n\n%s\n%s\n\n%s",
		titleStyle.Render(fmt.Sprintf("%s transfer #%d?", verb, m.pendingResolve.id)),
		itemStyle.Render(m.pendingResolve.summary),
		ui.StyleMuted.Render("The server applies the decision immediately"),
		promptStyle.Render("Press 'y' to confirm, 'n' or ESC to cancel"),
	)

	box := boxStyle.Render(content)

	// Center the box vertically
	verticalPadding := (m.height - lipgloss.Height(box)) / 2
	if verticalPadding < 0 {
		verticalPadding = 0
	}

	for i := 0; i < verticalPadding; i++ {
		s.WriteString("\n")
	}

	// Center horizontally
	s.WriteString(lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, box))

	return s.String()
}

func (m dashboardModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	statsStyle := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Align(lipgloss.Right)

	title := titleStyle.Render(ui.IconProperty + " HandReceipt Dashboard")
	stats := statsStyle.Render(fmt.Sprintf("%d properties · %d transfers · %d documents  ",
		len(m.properties), len(m.transfers), len(m.documents))) + ui.ConnectivityBadge(m.online)

	// Create a two-column layout
	titleWidth := lipgloss.Width(title)
	statsWidth := lipgloss.Width(stats)
	spacer := m.width - titleWidth - statsWidth

	if spacer < 0 {
		spacer = 0
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		strings.Repeat(" ", spacer),
		stats,
	)
}

func (m dashboardModel) renderTabs() string {
	var parts []string
	for _, t := range []dashboardTab{tabProperties, tabTransfers, tabDocuments} {
		label := fmt.Sprintf(" %s (%d) ", t, m.tabCount(t))
		if t == m.tab {
			parts = append(parts, ui.StylePrimary.Render(label))
		} else {
			parts = append(parts, ui.StyleMuted.Render(label))
		}
	}
	return " " + strings.Join(parts, ui.StyleMuted.Render("│"))
}

func (m dashboardModel) renderSearchBar() string {
	borderColor := ui.ColorMuted
	if m.mode == modeSearch {
		borderColor = ui.ColorPrimary
	}

	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(m.width - 4)

	var prompt string
	if m.mode == modeSearch {
		prompt = ui.StylePrimary.Render("/ ")
	} else {
		prompt = ui.StyleMuted.Render("/ ")
	}

	content := prompt + m.searchInput.View()
	if m.mode != modeSearch && m.searchInput.Value() == "" {
		content = prompt + ui.StyleMuted.Render("Press / to search...")
	}

	return searchStyle.Render(content)
}

func (m dashboardModel) renderRows(width int) string {
	var s strings.Builder

	if m.rowCount() == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Padding(2, 2).
			Width(width)

		if m.searchInput.Value() != "" {
			s.WriteString(emptyStyle.Render("Nothing matches your search."))
		} else {
			s.WriteString(emptyStyle.Render("Nothing here yet."))
		}
		return s.String()
	}

	// Calculate viewport
	listHeight := m.listHeight()

	// Render visible rows
	start := m.offsets[m.tab]
	end := start + listHeight
	if end > m.rowCount() {
		end = m.rowCount()
	}

	for i := start; i < end; i++ {
		s.WriteString(m.renderRow(i, i == m.cursors[m.tab], width))
	}

	return s.String()
}

func (m dashboardModel) renderRow(i int, selected bool, width int) string {
	var cursor string
	nameStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault)

	if selected {
		cursor = ui.StylePrimary.Render("▶ ")
		nameStyle = ui.StylePrimary.Bold(true)
	} else {
		cursor = "  "
	}

	// Reserve space for cursor and the trailing column
	maxNameLen := width - 16
	if maxNameLen < 10 {
		maxNameLen = 10
	}

	var name, meta string
	switch m.tab {
	case tabProperties:
		p := m.filteredProperties[i]
		name = truncate(p.DisplayName(), maxNameLen)
		meta = ui.StyleMuted.Render(p.SerialNumber)
		if p.VerifiedAt == nil {
			meta = ui.StyleWarning.Render(p.SerialNumber)
		}
	case tabTransfers:
		t := m.filteredTransfers[i]
		name = truncate(fmt.Sprintf("#%d %s", t.ID, transferItemLabel(&t)), maxNameLen)
		meta = ui.StatusBadge(t.Status)
	case tabDocuments:
		d := m.filteredDocuments[i]
		marker := "  "
		if d.Unread() {
			marker = ui.StyleWarning.Render(ui.IconDocument) + " "
		}
		name = marker + truncate(d.Title, maxNameLen-2)
		meta = ui.StyleMuted.Render(relativeTime(d.SentAt))
	}

	line := fmt.Sprintf("%s%s %s", cursor, padRight(nameStyle.Render(name), maxNameLen), meta)
	return padRight(line, width) + "\n"
}

func (m dashboardModel) renderPreview(width int) string {
	var s strings.Builder

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Width(width - 2).
		Height(m.height - 12)

	if m.preview.content == "" {
		return borderStyle.Render(
			lipgloss.NewStyle().
				Foreground(ui.ColorMuted).
				Italic(true).
				Padding(1).
				Render("Nothing selected"),
		)
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Width(width - 4)

	s.WriteString(titleStyle.Render(m.preview.title))
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render(fmt.Sprintf("PgUp/PgDn to scroll · %d%%", int(m.preview.viewport.ScrollPercent()*100))))
	s.WriteString("\n\n")
	s.WriteString(m.preview.viewport.View())

	return borderStyle.Render(s.String())
}

func (m dashboardModel) renderFooter() string {
	// Status message
	var statusLine string
	if m.message != "" && time.Now().Before(m.messageExpiry) {
		statusLine = m.messageStyle.Render(m.message)
	} else if m.online {
		statusLine = ui.StyleMuted.Render("Ready")
	} else {
		statusLine = ui.StyleWarning.Render("Offline · showing cached data")
	}

	// Help hint
	var hint string
	switch m.tab {
	case tabTransfers:
		hint = "[↑↓/jk] Navigate  [tab] Switch  [enter] Details  [a] Approve  [x] Reject  [/] Search  [?] Help  [q] Quit"
	case tabDocuments:
		hint = "[↑↓/jk] Navigate  [tab] Switch  [enter] Read  [y] Copy ID  [/] Search  [?] Help  [q] Quit"
	default:
		hint = "[↑↓/jk] Navigate  [tab] Switch  [enter] Details  [v] Verify  [y] Copy serial  [/] Search  [?] Help  [q] Quit"
	}

	footerStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		statusLine,
		ui.StyleMuted.Render(hint),
	)

	return footerStyle.Render(content)
}

func padRight(s string, width int) string {
	// Strip ANSI codes to get real length
	realLen := lipgloss.Width(s)
	if realLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-realLen)
}

func (m dashboardModel) listHeight() int {
	h := m.height - 11
	if h < 3 {
		h = 3
	}
	return h
}

func (m dashboardModel) rowCount() int {
	return m.tabCount(m.tab)
}

func (m dashboardModel) tabCount(t dashboardTab) int {
	switch t {
	case tabTransfers:
		return len(m.filteredTransfers)
	case tabDocuments:
		return len(m.filteredDocuments)
	default:
		return len(m.filteredProperties)
	}
}

func (m *dashboardModel) adjustViewport() {
	listHeight := m.listHeight()

	// Scroll down
	if m.cursors[m.tab] >= m.offsets[m.tab]+listHeight {
		m.offsets[m.tab] = m.cursors[m.tab] - listHeight + 1
	}

	// Scroll up
	if m.cursors[m.tab] < m.offsets[m.tab] {
		m.offsets[m.tab] = m.cursors[m.tab]
	}
}

func (m *dashboardModel) applySearch() {
	query := strings.ToLower(strings.TrimSpace(m.searchInput.Value()))

	if query == "" {
		m.filteredProperties = m.properties
		m.filteredTransfers = m.transfers
		m.filteredDocuments = m.documents
	} else {
		m.filteredProperties = nil
		for _, p := range m.properties {
			haystack := strings.ToLower(strings.Join([]string{p.DisplayName(), p.SerialNumber, p.Category, p.Status, p.NSN, p.LIN}, " "))
			if strings.Contains(haystack, query) {
				m.filteredProperties = append(m.filteredProperties, p)
			}
		}
		m.filteredTransfers = nil
		for _, t := range m.transfers {
			haystack := strings.ToLower(strings.Join([]string{t.PropertyName, t.SerialNumber, t.Status, t.TransferType, t.Notes}, " "))
			if strings.Contains(haystack, query) {
				m.filteredTransfers = append(m.filteredTransfers, t)
			}
		}
		m.filteredDocuments = nil
		for _, d := range m.documents {
			haystack := strings.ToLower(strings.Join([]string{d.Title, d.Type, d.Subtype, d.SerialNumber}, " "))
			if strings.Contains(haystack, query) {
				m.filteredDocuments = append(m.filteredDocuments, d)
			}
		}
	}

	// Clamp cursors
	for i := range m.cursors {
		n := m.tabCount(dashboardTab(i))
		if m.cursors[i] >= n {
			m.cursors[i] = n - 1
		}
		if m.cursors[i] < 0 {
			m.cursors[i] = 0
		}
	}
	m.adjustViewport()
}

func (m dashboardModel) selectedProperty() *domain.Property {
	if m.tab != tabProperties || len(m.filteredProperties) == 0 {
		return nil
	}
	return &m.filteredProperties[m.cursors[tabProperties]]
}

func (m dashboardModel) selectedTransfer() *domain.Transfer {
	if m.tab != tabTransfers || len(m.filteredTransfers) == 0 {
		return nil
	}
	return &m.filteredTransfers[m.cursors[tabTransfers]]
}

func (m dashboardModel) selectedDocument() *domain.Document {
	if m.tab != tabDocuments || len(m.filteredDocuments) == 0 {
		return nil
	}
	return &m.filteredDocuments[m.cursors[tabDocuments]]
}

// syncPreview rebuilds the detail pane from the in-memory row. Full
// server detail arrives only on demand, via loadDetail.
func (m *dashboardModel) syncPreview() {
	var title, content string

	switch m.tab {
	case tabProperties:
		if p := m.selectedProperty(); p != nil {
			title = p.DisplayName()
			content = propertyPreview(p)
		}
	case tabTransfers:
		if t := m.selectedTransfer(); t != nil {
			title = fmt.Sprintf("Transfer #%d", t.ID)
			content = transferPreview(t)
		}
	case tabDocuments:
		if d := m.selectedDocument(); d != nil {
			title = d.Title
			content = documentPreview(d)
		}
	}

	m.preview.title = title
	m.preview.content = content
	m.preview.viewport.SetContent(content)
	m.preview.viewport.GotoTop()
}

func (m *dashboardModel) markDocumentRead(id int) {
	now := time.Now()
	for i := range m.documents {
		if m.documents[i].ID == id && m.documents[i].Unread() {
			m.documents[i].Status = domain.DocumentStatusRead
			m.documents[i].ReadAt = &now
		}
	}
	for i := range m.filteredDocuments {
		if m.filteredDocuments[i].ID == id && m.filteredDocuments[i].Unread() {
			m.filteredDocuments[i].Status = domain.DocumentStatusRead
			m.filteredDocuments[i].ReadAt = &now
		}
	}
}

func previewField(label, value string) string {
	if value == "" {
		return ""
	}
	labelStyle := ui.StyleMuted.Width(12)
	return labelStyle.Render(label) + value + "\n"
}

func propertyPreview(p *domain.Property) string {
	var s strings.Builder

	s.WriteString(previewField("Serial", p.SerialNumber))
	s.WriteString(previewField("Status", ui.StatusBadge(p.Status)))
	s.WriteString(previewField("Verified", ui.VerifiedBadge(p.VerifiedAt != nil)))
	if p.VerifiedAt != nil {
		s.WriteString(previewField("Last seen", relativeTime(*p.VerifiedAt)))
	}
	s.WriteString(previewField("Category", p.Category))
	s.WriteString(previewField("Condition", p.Condition))
	s.WriteString(previewField("NSN", p.NSN))
	s.WriteString(previewField("LIN", p.LIN))
	s.WriteString(previewField("Location", p.Location))
	if p.Quantity > 1 {
		s.WriteString(previewField("Quantity", fmt.Sprintf("%d", p.Quantity)))
	}

	if len(p.Components) > 0 {
		s.WriteString("\n")
		s.WriteString(ui.StyleBold.Render(fmt.Sprintf("Components (%d)", len(p.Components))))
		s.WriteString("\n")
		for _, c := range p.Components {
			label := c.Name
			if c.SerialNumber != "" {
				label += " (" + c.SerialNumber + ")"
			}
			s.WriteString("  • " + label + "\n")
		}
	}

	if p.Description != "" {
		s.WriteString("\n")
		s.WriteString(p.Description)
		s.WriteString("\n")
	}

	return s.String()
}

func transferPreview(t *domain.Transfer) string {
	var s strings.Builder

	s.WriteString(previewField("Item", transferItemLabel(t)))
	s.WriteString(previewField("Type", t.TransferType))
	s.WriteString(previewField("Status", ui.StatusBadge(t.Status)))
	s.WriteString(previewField("From", fmt.Sprintf("user %d", t.FromUserID)))
	s.WriteString(previewField("To", fmt.Sprintf("user %d", t.ToUserID)))
	if t.IncludeComponents {
		s.WriteString(previewField("Components", "included"))
	}
	s.WriteString(previewField("Requested", relativeTime(t.RequestDate)))
	if t.ResolvedDate != nil {
		s.WriteString(previewField("Resolved", relativeTime(*t.ResolvedDate)))
	}

	if t.Notes != "" {
		s.WriteString("\n")
		s.WriteString(t.Notes)
		s.WriteString("\n")
	}

	if t.Status == "pending" {
		s.WriteString("\n")
		s.WriteString(ui.StyleMuted.Render("Press 'a' to approve or 'x' to reject"))
		s.WriteString("\n")
	}

	return s.String()
}

func documentPreview(d *domain.Document) string {
	var s strings.Builder

	s.WriteString(previewField("Form", documentFormLabel(d)))
	s.WriteString(previewField("From", fmt.Sprintf("user %d", d.SenderUserID)))
	s.WriteString(previewField("Sent", relativeTime(d.SentAt)))
	if d.SerialNumber != "" {
		s.WriteString(previewField("Serial", d.SerialNumber))
	}
	if d.Unread() {
		s.WriteString(previewField("Status", ui.StyleWarning.Render("unread")))
	}

	if d.Description != "" {
		s.WriteString("\n")
		s.WriteString(d.Description)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render("Press enter to read the full form"))
	s.WriteString("\n")

	return s.String()
}

// documentDetail renders the full form, with the payload highlighted
func documentDetail(d *domain.Document) string {
	var s strings.Builder

	s.WriteString(previewField("Form", documentFormLabel(d)))
	s.WriteString(previewField("From", fmt.Sprintf("user %d", d.SenderUserID)))
	s.WriteString(previewField("Sent", d.SentAt.Local().Format("2006-01-02 15:04")))
	if d.SerialNumber != "" {
		s.WriteString(previewField("Serial", d.SerialNumber))
	}

	if d.Description != "" {
		s.WriteString("\n")
		s.WriteString(d.Description)
		s.WriteString("\n")
	}

	if len(d.FormData) > 0 {
		s.WriteString("\n")
		s.WriteString(ui.StyleBold.Render("Form data"))
		s.WriteString("\n")

		var fields map[string]any
		if err := json.Unmarshal(d.FormData, &fields); err == nil {
			pretty, err := json.MarshalIndent(fields, "", "  ")
			if err == nil {
				s.WriteString(highlightJSON(string(pretty)))
				s.WriteString("\n")
			}
		}
	}

	if len(d.Attachments) > 0 {
		s.WriteString("\n")
		s.WriteString(ui.StyleBold.Render(fmt.Sprintf("Attachments (%d)", len(d.Attachments))))
		s.WriteString("\n")
		for _, a := range d.Attachments {
			s.WriteString("  • " + a + "\n")
		}
	}

	return s.String()
}

// highlightJSON applies syntax highlighting to a JSON payload
func highlightJSON(content string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.TTY16m

	var buf strings.Builder
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	err = formatter.Format(&buf, style, iterator)
	if err != nil {
		return content
	}

	return buf.String()
}

// relativeTime renders a timestamp as a coarse age, day granularity
func relativeTime(ts time.Time) string {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())

	days := int(today.Sub(day).Hours() / 24)

	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "1d ago"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	case days < 14:
		return "1w ago"
	case days < 30:
		return fmt.Sprintf("%dw ago", days/7)
	case days < 60:
		return "1mo ago"
	case days < 365:
		return fmt.Sprintf("%dmo ago", days/30)
	case days < 730:
		return "1y ago"
	default:
		return fmt.Sprintf("%dy ago", days/365)
	}
}

// Commands

type statusMsg struct {
	message string
	style   lipgloss.Style
}

type clearMessageMsg struct{}

type reloadMsg struct{}

type dataLoadedMsg struct {
	data dashboardData
}

type detailLoadedMsg struct {
	title     string
	content   string
	readDocID int
}

type socketEventMsg struct {
	event ws.Event
}

func waitForEvent(events <-chan ws.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return socketEventMsg{event: <-events}
	}
}

// socketEventLine turns a live event into a one-line status message
func socketEventLine(ev ws.Event) string {
	switch ev.Type {
	case ws.EventPropertyUpdate:
		var data ws.PropertyEventData
		if ev.Decode(&data) == nil {
			return fmt.Sprintf("Property %s: %s", data.SerialNumber, data.Action)
		}
	case ws.EventTransferUpdate, ws.EventTransferCreated:
		var data ws.TransferEventData
		if ev.Decode(&data) == nil {
			return fmt.Sprintf("Transfer #%d (%s): %s", data.TransferID, data.ItemName, data.Status)
		}
	case ws.EventConnectionRequest, ws.EventConnectionAccepted:
		var data ws.ConnectionEventData
		if ev.Decode(&data) == nil && data.FromUserName != "" {
			return fmt.Sprintf("Connection from %s: %s", data.FromUserName, data.Status)
		}
	case ws.EventDocumentReceived:
		var data ws.DocumentEventData
		if ev.Decode(&data) == nil {
			return "Document received: " + data.Title
		}
	}
	return "Server event: " + ev.Type
}

func (m dashboardModel) refreshAll() tea.Cmd {
	return func() tea.Msg {
		data, err := loadDashboardData(m.ctx, true)
		if err != nil {
			return statusMsg{
				message: "Refresh failed: " + err.Error(),
				style:   ui.StyleError,
			}
		}
		return dataLoadedMsg{data: data}
	}
}

func (m dashboardModel) loadDetail() tea.Cmd {
	switch m.tab {
	case tabProperties:
		p := m.selectedProperty()
		if p == nil {
			return nil
		}
		ref := p.SerialNumber
		return func() tea.Msg {
			resp, err := propertyService.Show(m.ctx, services.ShowPropertyRequest{Ref: ref})
			if err != nil {
				return statusMsg{message: "Lookup failed: " + err.Error(), style: ui.StyleError}
			}
			return detailLoadedMsg{
				title:   resp.Property.DisplayName(),
				content: propertyPreview(resp.Property),
			}
		}

	case tabTransfers:
		t := m.selectedTransfer()
		if t == nil {
			return nil
		}
		id := t.ID
		return func() tea.Msg {
			transfer, err := transferService.Get(m.ctx, id)
			if err != nil {
				return statusMsg{message: "Lookup failed: " + err.Error(), style: ui.StyleError}
			}
			return detailLoadedMsg{
				title:   fmt.Sprintf("Transfer #%d", transfer.ID),
				content: transferPreview(transfer),
			}
		}

	case tabDocuments:
		d := m.selectedDocument()
		if d == nil {
			return nil
		}
		id := d.ID
		return func() tea.Msg {
			resp, err := documentService.Read(m.ctx, id)
			if err != nil {
				return statusMsg{message: "Read failed: " + err.Error(), style: ui.StyleError}
			}
			msg := detailLoadedMsg{
				title:   resp.Document.Title,
				content: documentDetail(resp.Document),
			}
			if resp.MarkedRead {
				msg.readDocID = resp.Document.ID
			}
			return msg
		}
	}
	return nil
}

func (m dashboardModel) verifySelected() tea.Cmd {
	p := m.selectedProperty()
	if p == nil {
		return nil
	}
	serial := p.SerialNumber
	name := p.DisplayName()

	return func() tea.Msg {
		resp, err := propertyService.Verify(m.ctx, services.VerifyPropertyRequest{Serial: serial})
		if err != nil {
			return statusMsg{
				message: "Verify failed: " + err.Error(),
				style:   ui.StyleError,
			}
		}
		if resp.Queued {
			return statusMsg{
				message: fmt.Sprintf("Verify queued for %s (offline)", name),
				style:   ui.StyleWarning,
			}
		}
		return tea.Sequence(
			func() tea.Msg {
				return statusMsg{
					message: ui.IconSuccess + " Verified: " + name,
					style:   ui.StyleSuccess,
				}
			},
			func() tea.Msg {
				return reloadMsg{}
			},
		)()
	}
}

func (m dashboardModel) resolveTransfer(pr *resolvePrompt) tea.Cmd {
	if pr == nil {
		return nil
	}
	return func() tea.Msg {
		resp, err := transferService.Resolve(m.ctx, services.ResolveTransferRequest{ID: pr.id, Action: pr.action})
		if err != nil {
			return statusMsg{
				message: "Transfer update failed: " + err.Error(),
				style:   ui.StyleError,
			}
		}
		return tea.Sequence(
			func() tea.Msg {
				return statusMsg{
					message: fmt.Sprintf("%s Transfer #%d %s", ui.IconSuccess, resp.Transfer.ID, resp.Transfer.Status),
					style:   ui.StyleSuccess,
				}
			},
			func() tea.Msg {
				return reloadMsg{}
			},
		)()
	}
}

func (m dashboardModel) yankSelected() tea.Cmd {
	var text, label string

	switch m.tab {
	case tabProperties:
		if p := m.selectedProperty(); p != nil {
			text, label = p.SerialNumber, "serial "+p.SerialNumber
		}
	case tabTransfers:
		if t := m.selectedTransfer(); t != nil {
			if t.SerialNumber != "" {
				text, label = t.SerialNumber, "serial "+t.SerialNumber
			} else {
				text, label = fmt.Sprintf("%d", t.ID), fmt.Sprintf("transfer id %d", t.ID)
			}
		}
	case tabDocuments:
		if d := m.selectedDocument(); d != nil {
			text, label = fmt.Sprintf("%d", d.ID), fmt.Sprintf("document id %d", d.ID)
		}
	}

	if text == "" {
		return nil
	}

	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{
				message: "Clipboard unavailable: " + err.Error(),
				style:   ui.StyleError,
			}
		}
		return statusMsg{
			message: "Copied " + label,
			style:   ui.StyleSuccess,
		}
	}
}
