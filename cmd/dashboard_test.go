package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handreceipt/hr-cli/internal/adapters/ws"
	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

// TestDashboardModelInitialization tests that the dashboard model is initialized correctly
func TestDashboardModelInitialization(t *testing.T) {
	ctx := context.Background()
	data := createTestData(2, 1, 1)

	m := newDashboardModel(ctx, data, nil)

	if len(m.properties) != 2 {
		t.Errorf("Expected 2 properties, got %d", len(m.properties))
	}

	if len(m.filteredProperties) != 2 {
		t.Errorf("Expected 2 filtered properties, got %d", len(m.filteredProperties))
	}

	if m.tab != tabProperties {
		t.Errorf("Expected initial tab to be Properties, got %v", m.tab)
	}

	if m.cursors[tabProperties] != 0 {
		t.Errorf("Expected cursor at 0, got %d", m.cursors[tabProperties])
	}

	if m.mode != modeList {
		t.Errorf("Expected mode to be modeList, got %v", m.mode)
	}

	if m.ready {
		t.Error("Expected ready to be false initially")
	}

	if !m.online {
		t.Error("Expected online to be true for fresh data")
	}

	// The preview pane follows the selection immediately
	if m.preview.content == "" {
		t.Error("Expected preview content for the selected property")
	}
}

// TestDashboardOfflineFlag tests that stale data marks the model offline
func TestDashboardOfflineFlag(t *testing.T) {
	ctx := context.Background()
	data := createTestData(1, 0, 0)
	data.offline = true

	m := newDashboardModel(ctx, data, nil)

	if m.online {
		t.Error("Expected online to be false for stale data")
	}
}

// TestDashboardNavigationUp tests moving cursor up
func TestDashboardNavigationUp(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(5, 0, 0), nil)
	m.cursors[tabProperties] = 2

	msg := tea.KeyMsg{Type: tea.KeyUp}
	updated, _ := m.updateList(msg)
	m = updated.(dashboardModel)

	if m.cursors[tabProperties] != 1 {
		t.Errorf("Expected cursor at 1, got %d", m.cursors[tabProperties])
	}
}

// TestDashboardNavigationDown tests moving cursor down
func TestDashboardNavigationDown(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(5, 0, 0), nil)
	m.cursors[tabProperties] = 1

	msg := tea.KeyMsg{Type: tea.KeyDown}
	updated, _ := m.updateList(msg)
	m = updated.(dashboardModel)

	if m.cursors[tabProperties] != 2 {
		t.Errorf("Expected cursor at 2, got %d", m.cursors[tabProperties])
	}
}

// TestDashboardNavigationBoundaries tests cursor boundaries
func TestDashboardNavigationBoundaries(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(3, 0, 0), nil)

	// Up boundary (should stay at 0)
	m.cursors[tabProperties] = 0
	msg := tea.KeyMsg{Type: tea.KeyUp}
	updated, _ := m.updateList(msg)
	m = updated.(dashboardModel)

	if m.cursors[tabProperties] != 0 {
		t.Errorf("Cursor should stay at 0, got %d", m.cursors[tabProperties])
	}

	// Down boundary (should stay at last item)
	m.cursors[tabProperties] = 2
	msg = tea.KeyMsg{Type: tea.KeyDown}
	updated, _ = m.updateList(msg)
	m = updated.(dashboardModel)

	if m.cursors[tabProperties] != 2 {
		t.Errorf("Cursor should stay at 2, got %d", m.cursors[tabProperties])
	}
}

// TestDashboardJumpToTop tests jumping to top
func TestDashboardJumpToTop(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(10, 0, 0), nil)
	m.cursors[tabProperties] = 5
	m.offsets[tabProperties] = 3

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}
	updated, _ := m.updateList(msg)
	m = updated.(dashboardModel)

	if m.cursors[tabProperties] != 0 {
		t.Errorf("Expected cursor at 0, got %d", m.cursors[tabProperties])
	}

	if m.offsets[tabProperties] != 0 {
		t.Errorf("Expected offset at 0, got %d", m.offsets[tabProperties])
	}
}

// TestDashboardJumpToBottom tests jumping to bottom
func TestDashboardJumpToBottom(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(10, 0, 0), nil)
	m.cursors[tabProperties] = 2

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}
	updated, _ := m.updateList(msg)
	m = updated.(dashboardModel)

	if m.cursors[tabProperties] != 9 {
		t.Errorf("Expected cursor at 9 (last item), got %d", m.cursors[tabProperties])
	}
}

// TestDashboardTabSwitching tests cycling and jumping between tabs
func TestDashboardTabSwitching(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(3, 2, 1), nil)

	// Tab cycles forward
	msg := tea.KeyMsg{Type: tea.KeyTab}
	updated, _ := m.updateList(msg)
	m = updated.(dashboardModel)

	if m.tab != tabTransfers {
		t.Errorf("Expected Transfers tab after tab key, got %v", m.tab)
	}

	updated, _ = m.updateList(msg)
	m = updated.(dashboardModel)

	if m.tab != tabDocuments {
		t.Errorf("Expected Documents tab after second tab key, got %v", m.tab)
	}

	updated, _ = m.updateList(msg)
	m = updated.(dashboardModel)

	if m.tab != tabProperties {
		t.Errorf("Expected tab key to wrap back to Properties, got %v", m.tab)
	}

	// Number keys jump directly
	msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}}
	updated, _ = m.updateList(msg)
	m = updated.(dashboardModel)

	if m.tab != tabTransfers {
		t.Errorf("Expected '2' to select Transfers, got %v", m.tab)
	}
}

// TestDashboardCursorsPerTab tests that each tab keeps its own cursor
func TestDashboardCursorsPerTab(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(5, 5, 0), nil)

	// Move down twice on the properties tab
	down := tea.KeyMsg{Type: tea.KeyDown}
	for i := 0; i < 2; i++ {
		updated, _ := m.updateList(down)
		m = updated.(dashboardModel)
	}

	// Switch to transfers, cursor there starts fresh
	msg := tea.KeyMsg{Type: tea.KeyTab}
	updated, _ := m.updateList(msg)
	m = updated.(dashboardModel)

	if m.cursors[tabTransfers] != 0 {
		t.Errorf("Expected transfers cursor at 0, got %d", m.cursors[tabTransfers])
	}

	if m.cursors[tabProperties] != 2 {
		t.Errorf("Expected properties cursor preserved at 2, got %d", m.cursors[tabProperties])
	}
}

// TestDashboardModeTransitions tests switching between modes
func TestDashboardModeTransitions(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(3, 0, 0), nil)

	if m.mode != modeList {
		t.Errorf("Expected initial mode to be modeList")
	}

	// Enter search mode
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}}
	updated, _ := m.updateList(msg)
	m = updated.(dashboardModel)

	if m.mode != modeSearch {
		t.Errorf("Expected mode to be modeSearch, got %v", m.mode)
	}

	// Exit search mode
	msg = tea.KeyMsg{Type: tea.KeyEsc}
	updated, _ = m.updateSearch(msg)
	m = updated.(dashboardModel)

	if m.mode != modeList {
		t.Errorf("Expected mode to return to modeList, got %v", m.mode)
	}

	// Enter help mode
	msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}
	updated, _ = m.updateList(msg)
	m = updated.(dashboardModel)

	if m.mode != modeHelp {
		t.Errorf("Expected mode to be modeHelp, got %v", m.mode)
	}

	// Exit help mode
	msg = tea.KeyMsg{Type: tea.KeyEsc}
	updated, _ = m.updateHelp(msg)
	m = updated.(dashboardModel)

	if m.mode != modeList {
		t.Errorf("Expected mode to return to modeList, got %v", m.mode)
	}
}

// TestDashboardConfirmFlow tests the transfer decision confirmation
func TestDashboardConfirmFlow(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(0, 3, 0), nil)
	m.tab = tabTransfers
	m.cursors[tabTransfers] = 1

	// Trigger approve
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}
	updated, _ := m.updateList(msg)
	m = updated.(dashboardModel)

	if m.mode != modeConfirm {
		t.Errorf("Expected mode to be modeConfirm, got %v", m.mode)
	}

	if m.pendingResolve == nil {
		t.Fatal("Expected pendingResolve to be set")
	}

	if m.pendingResolve.action != "approve" {
		t.Errorf("Expected action 'approve', got %s", m.pendingResolve.action)
	}

	if m.pendingResolve.id != m.filteredTransfers[1].ID {
		t.Errorf("Expected transfer id %d, got %d", m.filteredTransfers[1].ID, m.pendingResolve.id)
	}

	// Cancel the decision
	msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}
	updated, _ = m.updateConfirm(msg)
	m = updated.(dashboardModel)

	if m.mode != modeList {
		t.Errorf("Expected mode to return to modeList")
	}

	if m.pendingResolve != nil {
		t.Error("Expected pendingResolve to be nil after cancel")
	}
}

// TestDashboardConfirmAccept tests that confirming produces a command
func TestDashboardConfirmAccept(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(0, 1, 0), nil)
	m.tab = tabTransfers

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}
	updated, _ := m.updateList(msg)
	m = updated.(dashboardModel)

	if m.pendingResolve == nil || m.pendingResolve.action != "reject" {
		t.Fatal("Expected a pending reject decision")
	}

	// Confirm: the model leaves confirm mode and emits the resolve command.
	// The command itself hits the server, so it is not invoked here.
	msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}
	updated, cmd := m.updateConfirm(msg)
	m = updated.(dashboardModel)

	if m.mode != modeList {
		t.Errorf("Expected mode to return to modeList")
	}

	if m.pendingResolve != nil {
		t.Error("Expected pendingResolve to be cleared")
	}

	if cmd == nil {
		t.Error("Expected a resolve command")
	}
}

// TestDashboardApproveIgnoredOnPropertiesTab tests tab gating for actions
func TestDashboardApproveIgnoredOnPropertiesTab(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(2, 2, 0), nil)

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}
	updated, _ := m.updateList(msg)
	m = updated.(dashboardModel)

	if m.mode != modeList {
		t.Error("Approve should do nothing on the properties tab")
	}

	if m.pendingResolve != nil {
		t.Error("No resolve prompt should be created on the properties tab")
	}
}

// TestDashboardSearchFiltering tests that search filters all three views
func TestDashboardSearchFiltering(t *testing.T) {
	ctx := context.Background()
	data := dashboardData{
		properties: []domain.Property{
			{ID: 1, Name: "M4 Carbine", SerialNumber: "W123456"},
			{ID: 2, Name: "ACOG Optic", SerialNumber: "O777"},
			{ID: 3, Name: "M4 Sling", SerialNumber: "S001"},
		},
		transfers: []domain.Transfer{
			{ID: 10, PropertyName: "M4 Carbine", Status: "pending"},
			{ID: 11, PropertyName: "Radio Set", Status: "pending"},
		},
		documents: []domain.Document{
			{ID: 20, Title: "Maintenance form for M4", Type: "maintenance_form"},
			{ID: 21, Title: "Transfer receipt", Type: "transfer_document"},
		},
	}

	m := newDashboardModel(ctx, data, nil)
	m.searchInput.SetValue("m4")
	m.applySearch()

	if len(m.filteredProperties) != 2 {
		t.Errorf("Expected 2 matching properties, got %d", len(m.filteredProperties))
	}

	if len(m.filteredTransfers) != 1 {
		t.Errorf("Expected 1 matching transfer, got %d", len(m.filteredTransfers))
	}

	if len(m.filteredDocuments) != 1 {
		t.Errorf("Expected 1 matching document, got %d", len(m.filteredDocuments))
	}

	// Clearing the query restores everything
	m.searchInput.SetValue("")
	m.applySearch()

	if len(m.filteredProperties) != 3 || len(m.filteredTransfers) != 2 || len(m.filteredDocuments) != 2 {
		t.Error("Expected all rows back after clearing the search")
	}
}

// TestDashboardSearchClampsCursor tests cursor clamping when results shrink
func TestDashboardSearchClampsCursor(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(6, 0, 0), nil)
	m.cursors[tabProperties] = 5

	m.searchInput.SetValue("no such item")
	m.applySearch()

	if m.cursors[tabProperties] != 0 {
		t.Errorf("Expected cursor clamped to 0 for empty results, got %d", m.cursors[tabProperties])
	}
}

// TestDashboardSearchClearOnEscape tests that search is cleared on escape
func TestDashboardSearchClearOnEscape(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(3, 0, 0), nil)

	m.mode = modeSearch
	m.searchInput.SetValue("test query")

	msg := tea.KeyMsg{Type: tea.KeyEsc}
	updated, _ := m.updateSearch(msg)
	m = updated.(dashboardModel)

	if m.searchInput.Value() != "" {
		t.Errorf("Expected search to be cleared, got %s", m.searchInput.Value())
	}

	if m.mode != modeList {
		t.Error("Expected to return to list mode")
	}
}

// TestDashboardSearchModeArrowKeys tests navigation while searching
func TestDashboardSearchModeArrowKeys(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(5, 0, 0), nil)
	m.mode = modeSearch
	m.searchInput.Focus()
	m.cursors[tabProperties] = 1

	msg := tea.KeyMsg{Type: tea.KeyDown}
	updated, _ := m.updateSearch(msg)
	m = updated.(dashboardModel)

	if m.cursors[tabProperties] != 2 {
		t.Errorf("Expected cursor at 2 after arrow down, got %d", m.cursors[tabProperties])
	}

	msg = tea.KeyMsg{Type: tea.KeyUp}
	updated, _ = m.updateSearch(msg)
	m = updated.(dashboardModel)

	if m.cursors[tabProperties] != 1 {
		t.Errorf("Expected cursor at 1 after arrow up, got %d", m.cursors[tabProperties])
	}
}

// TestDashboardSearchEnterKeepsFilter tests that Enter leaves search mode with the filter applied
func TestDashboardSearchEnterKeepsFilter(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(5, 0, 0), nil)
	m.mode = modeSearch
	m.searchInput.Focus()
	m.searchInput.SetValue("Item 1")
	m.applySearch()

	msg := tea.KeyMsg{Type: tea.KeyEnter}
	updated, _ := m.updateSearch(msg)
	m = updated.(dashboardModel)

	if m.mode != modeList {
		t.Errorf("Expected to exit search mode, still in mode %v", m.mode)
	}

	if m.searchInput.Focused() {
		t.Error("Search input should be blurred after Enter")
	}

	if m.searchInput.Value() != "Item 1" {
		t.Error("Enter should keep the filter text")
	}
}

// TestDashboardStatusMessage tests status message handling
func TestDashboardStatusMessage(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(3, 0, 0), nil)

	msg := statusMsg{
		message: "Test message",
		style:   ui.StyleSuccess,
	}

	updated, cmd := m.Update(msg)
	m = updated.(dashboardModel)

	if m.message != "Test message" {
		t.Errorf("Expected message to be 'Test message', got %s", m.message)
	}

	if time.Now().After(m.messageExpiry) {
		t.Error("Message should not be expired immediately")
	}

	if cmd == nil {
		t.Error("Expected an expiry tick command")
	}
}

// TestDashboardClearMessage tests that expired messages are cleared
func TestDashboardClearMessage(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(1, 0, 0), nil)

	// Expired message goes away
	m.message = "old"
	m.messageExpiry = time.Now().Add(-time.Second)
	updated, _ := m.Update(clearMessageMsg{})
	m = updated.(dashboardModel)

	if m.message != "" {
		t.Errorf("Expected expired message to be cleared, got %q", m.message)
	}

	// A fresh message survives an early clear tick
	m.message = "new"
	m.messageExpiry = time.Now().Add(time.Minute)
	updated, _ = m.Update(clearMessageMsg{})
	m = updated.(dashboardModel)

	if m.message != "new" {
		t.Error("Fresh message should survive the clear tick")
	}
}

// TestDashboardWindowResize tests window resize handling
func TestDashboardWindowResize(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(3, 0, 0), nil)

	msg := tea.WindowSizeMsg{
		Width:  100,
		Height: 40,
	}

	updated, _ := m.Update(msg)
	m = updated.(dashboardModel)

	if m.width != 100 {
		t.Errorf("Expected width to be 100, got %d", m.width)
	}

	if m.height != 40 {
		t.Errorf("Expected height to be 40, got %d", m.height)
	}

	if !m.ready {
		t.Error("Expected ready to be true after resize")
	}

	if m.preview.viewport.Width != 46 {
		t.Errorf("Expected preview viewport width 46, got %d", m.preview.viewport.Width)
	}

	if m.preview.viewport.Height != 24 {
		t.Errorf("Expected preview viewport height 24, got %d", m.preview.viewport.Height)
	}
}

// TestDashboardDataLoaded tests swapping in refreshed data
func TestDashboardDataLoaded(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(1, 0, 0), nil)

	fresh := createTestData(4, 2, 1)
	fresh.offline = true

	updated, _ := m.Update(dataLoadedMsg{data: fresh})
	m = updated.(dashboardModel)

	if len(m.properties) != 4 {
		t.Errorf("Expected 4 properties after reload, got %d", len(m.properties))
	}

	if len(m.filteredTransfers) != 2 {
		t.Errorf("Expected 2 filtered transfers after reload, got %d", len(m.filteredTransfers))
	}

	if m.online {
		t.Error("Expected online to be false after a stale reload")
	}
}

// TestDashboardDetailLoaded tests the detail pane update
func TestDashboardDetailLoaded(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(1, 0, 2), nil)

	msg := detailLoadedMsg{
		title:   "Transfer #7",
		content: "Full detail content",
	}

	updated, _ := m.Update(msg)
	m = updated.(dashboardModel)

	if m.preview.title != "Transfer #7" {
		t.Errorf("Expected preview title 'Transfer #7', got %q", m.preview.title)
	}

	if m.preview.content != "Full detail content" {
		t.Errorf("Expected preview content to be replaced, got %q", m.preview.content)
	}
}

// TestDashboardMarkDocumentRead tests the read marker after opening a document
func TestDashboardMarkDocumentRead(t *testing.T) {
	ctx := context.Background()
	data := createTestData(0, 0, 2)
	m := newDashboardModel(ctx, data, nil)

	id := data.documents[1].ID
	if !m.documents[1].Unread() {
		t.Fatal("Fixture document should start unread")
	}

	msg := detailLoadedMsg{title: "doc", content: "body", readDocID: id}
	updated, _ := m.Update(msg)
	m = updated.(dashboardModel)

	if m.documents[1].Unread() {
		t.Error("Document should be marked read in the base slice")
	}

	if m.filteredDocuments[1].Unread() {
		t.Error("Document should be marked read in the filtered slice")
	}
}

// TestDashboardSocketEvent tests that live events surface as status messages
func TestDashboardSocketEvent(t *testing.T) {
	ctx := context.Background()
	events := make(chan ws.Event, 1)
	m := newDashboardModel(ctx, createTestData(1, 0, 0), events)

	payload, _ := json.Marshal(ws.PropertyEventData{SerialNumber: "W123", Action: "updated"})
	msg := socketEventMsg{event: ws.Event{Type: ws.EventPropertyUpdate, Data: payload}}

	updated, cmd := m.Update(msg)
	m = updated.(dashboardModel)

	if !strings.Contains(m.message, "W123") {
		t.Errorf("Expected event message to mention the serial, got %q", m.message)
	}

	if cmd == nil {
		t.Error("Expected a refresh plus re-arm command after a socket event")
	}
}

// TestSocketEventLine tests event to status line conversion
func TestSocketEventLine(t *testing.T) {
	transferData, _ := json.Marshal(ws.TransferEventData{TransferID: 12, ItemName: "M4 Carbine", Status: "approved"})
	connectionData, _ := json.Marshal(ws.ConnectionEventData{FromUserName: "SGT Kim", Status: "pending"})
	documentData, _ := json.Marshal(ws.DocumentEventData{Title: "Maintenance form"})

	tests := []struct {
		name     string
		event    ws.Event
		expected string
	}{
		{
			name:     "transfer update",
			event:    ws.Event{Type: ws.EventTransferUpdate, Data: transferData},
			expected: "Transfer #12 (M4 Carbine): approved",
		},
		{
			name:     "connection request",
			event:    ws.Event{Type: ws.EventConnectionRequest, Data: connectionData},
			expected: "Connection from SGT Kim: pending",
		},
		{
			name:     "document received",
			event:    ws.Event{Type: ws.EventDocumentReceived, Data: documentData},
			expected: "Document received: Maintenance form",
		},
		{
			name:     "unknown type falls back",
			event:    ws.Event{Type: "something:else"},
			expected: "Server event: something:else",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := socketEventLine(tt.event)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

// TestDashboardViewportAdjustment tests viewport scrolling
func TestDashboardViewportAdjustment(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(20, 0, 0), nil)
	m.height = 20

	// Move cursor down beyond viewport
	m.cursors[tabProperties] = 15
	m.adjustViewport()

	if m.offsets[tabProperties] < 0 {
		t.Errorf("Offset should not be negative, got %d", m.offsets[tabProperties])
	}

	if m.cursors[tabProperties] >= m.offsets[tabProperties]+m.listHeight() {
		t.Error("Cursor should be inside the visible window after adjustment")
	}

	// Move cursor back up
	m.cursors[tabProperties] = 2
	m.adjustViewport()

	if m.offsets[tabProperties] > m.cursors[tabProperties] {
		t.Errorf("Offset should not be greater than cursor position")
	}
}

// TestDashboardEmptyState tests behavior with no data
func TestDashboardEmptyState(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, dashboardData{}, nil)

	if m.rowCount() != 0 {
		t.Errorf("Expected 0 rows, got %d", m.rowCount())
	}

	if m.selectedProperty() != nil {
		t.Error("Expected no selected property")
	}

	// Navigation should not crash with empty lists
	msg := tea.KeyMsg{Type: tea.KeyDown}
	_, _ = m.updateList(msg)

	// Yank with nothing selected produces no command
	if cmd := m.yankSelected(); cmd != nil {
		t.Error("Expected no yank command with nothing selected")
	}
}

// TestDashboardRowRendering tests individual row rendering
func TestDashboardRowRendering(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(2, 0, 0), nil)
	m.width = 100

	selectedOutput := m.renderRow(0, true, 60)
	if selectedOutput == "" {
		t.Error("Selected row rendering should not be empty")
	}

	unselectedOutput := m.renderRow(0, false, 60)
	if unselectedOutput == "" {
		t.Error("Unselected row rendering should not be empty")
	}

	if selectedOutput == unselectedOutput {
		t.Error("Selected and unselected renderings should differ")
	}
}

// TestDashboardPreviewFollowsSelection tests the synchronous preview
func TestDashboardPreviewFollowsSelection(t *testing.T) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(3, 2, 0), nil)

	first := m.preview.title

	msg := tea.KeyMsg{Type: tea.KeyDown}
	updated, _ := m.updateList(msg)
	m = updated.(dashboardModel)

	if m.preview.title == first {
		t.Error("Preview should follow the cursor to the next property")
	}

	// Switching tabs swaps the preview to the other collection
	msg = tea.KeyMsg{Type: tea.KeyTab}
	updated, _ = m.updateList(msg)
	m = updated.(dashboardModel)

	if !strings.HasPrefix(m.preview.title, "Transfer #") {
		t.Errorf("Expected a transfer preview title, got %q", m.preview.title)
	}
}

// TestDashboardPadRight tests the padRight utility function
func TestDashboardPadRight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected int // expected length
	}{
		{"short string", "hello", 10, 10},
		{"exact width", "hello", 5, 5},
		{"longer than width", "hello world", 5, 11}, // Should not truncate
		{"empty string", "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := padRight(tt.input, tt.width)
			if len(result) != tt.expected {
				t.Errorf("Expected length %d, got %d", tt.expected, len(result))
			}
		})
	}
}

// TestDashboardRelativeTimeFormatting tests time formatting
func TestDashboardRelativeTimeFormatting(t *testing.T) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())

	tests := []struct {
		name     string
		ts       time.Time
		expected string
	}{
		{"today", today, "today"},
		{"yesterday", today.AddDate(0, 0, -1), "1d ago"},
		{"three days", today.AddDate(0, 0, -3), "3d ago"},
		{"week ago", today.AddDate(0, 0, -7), "1w ago"},
		{"three weeks", today.AddDate(0, 0, -21), "3w ago"},
		{"six weeks", today.AddDate(0, 0, -42), "1mo ago"},
		{"half a year", today.AddDate(0, 0, -190), "6mo ago"},
		{"year ago", today.AddDate(0, 0, -400), "1y ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := relativeTime(tt.ts)
			if result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}
}

// TestDashboardTabString tests tab labels
func TestDashboardTabString(t *testing.T) {
	tests := []struct {
		tab      dashboardTab
		expected string
	}{
		{tabProperties, "Properties"},
		{tabTransfers, "Transfers"},
		{tabDocuments, "Documents"},
	}

	for _, tt := range tests {
		if got := tt.tab.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

// Helper to build a dashboard data snapshot of the given sizes
func createTestData(props, transfers, docs int) dashboardData {
	data := dashboardData{}

	for i := 0; i < props; i++ {
		verifiedAt := time.Now().AddDate(0, 0, -i)
		data.properties = append(data.properties, domain.Property{
			ID:           i + 1,
			Name:         fmt.Sprintf("Item %d", i+1),
			SerialNumber: fmt.Sprintf("SN-%04d", i+1),
			Status:       "active",
			Quantity:     1,
			VerifiedAt:   &verifiedAt,
		})
	}

	for i := 0; i < transfers; i++ {
		data.transfers = append(data.transfers, domain.Transfer{
			ID:           100 + i,
			PropertyName: fmt.Sprintf("Item %d", i+1),
			SerialNumber: fmt.Sprintf("SN-%04d", i+1),
			Status:       "pending",
			TransferType: "offer",
			RequestDate:  time.Now().AddDate(0, 0, -i),
		})
	}

	for i := 0; i < docs; i++ {
		data.documents = append(data.documents, domain.Document{
			ID:           200 + i,
			Type:         "maintenance_form",
			Title:        fmt.Sprintf("Form %d", i+1),
			SenderUserID: 9,
			Status:       "unread",
			SentAt:       time.Now().AddDate(0, 0, -i),
		})
	}

	return data
}

// Benchmark tests
func BenchmarkDashboardRendering(b *testing.B) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(100, 20, 20), nil)
	m.width = 100
	m.height = 40
	m.ready = true

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.View()
	}
}

func BenchmarkDashboardNavigation(b *testing.B) {
	ctx := context.Background()
	m := newDashboardModel(ctx, createTestData(1000, 0, 0), nil)

	msg := tea.KeyMsg{Type: tea.KeyDown}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		updated, _ := m.updateList(msg)
		m = updated.(dashboardModel)
	}
}
