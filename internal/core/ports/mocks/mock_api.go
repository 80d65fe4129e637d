package mocks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// MockPropertyAPI is a mock implementation of the PropertyAPI port
type MockPropertyAPI struct {
	mu         sync.Mutex
	properties map[int]*domain.Property
	nextID     int
	failWith   error
	calls      []string
}

// NewMockPropertyAPI creates a new mock property API
func NewMockPropertyAPI() *MockPropertyAPI {
	return &MockPropertyAPI{
		properties: make(map[int]*domain.Property),
		nextID:     1,
	}
}

// SetFailWith makes every subsequent call return err
func (m *MockPropertyAPI) SetFailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Seed inserts a property without recording a call
func (m *MockPropertyAPI) Seed(p domain.Property) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.nextID
	}
	if p.ID >= m.nextID {
		m.nextID = p.ID + 1
	}
	m.properties[p.ID] = &p
}

// Calls returns the recorded call log
func (m *MockPropertyAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockPropertyAPI) record(call string) error {
	m.calls = append(m.calls, call)
	return m.failWith
}

// List returns all seeded properties
func (m *MockPropertyAPI) List(ctx context.Context) ([]domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("List"); err != nil {
		return nil, err
	}

	out := make([]domain.Property, 0, len(m.properties))
	for _, p := range m.properties {
		out = append(out, *p)
	}
	return out, nil
}

// Get retrieves a property by id
func (m *MockPropertyAPI) Get(ctx context.Context, id int) (*domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(fmt.Sprintf("Get:%d", id)); err != nil {
		return nil, err
	}

	p, ok := m.properties[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// GetBySerial retrieves a property by serial number
func (m *MockPropertyAPI) GetBySerial(ctx context.Context, serial string) (*domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetBySerial:" + serial); err != nil {
		return nil, err
	}

	want := domain.NormalizeSerial(serial)
	for _, p := range m.properties {
		if domain.NormalizeSerial(p.SerialNumber) == want {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ports.ErrNotFound
}

// Create creates a property from input
func (m *MockPropertyAPI) Create(ctx context.Context, input domain.PropertyInput) (*domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Create:" + input.SerialNumber); err != nil {
		return nil, err
	}

	p := &domain.Property{
		ID:           m.nextID,
		Name:         input.Name,
		SerialNumber: domain.NormalizeSerial(input.SerialNumber),
		Description:  input.Description,
		Category:     input.Category,
		NSN:          input.NSN,
		LIN:          input.LIN,
		Location:     input.Location,
		Quantity:     input.Quantity,
		Condition:    input.Condition,
		Status:       domain.PropertyStatusActive,
	}
	m.nextID++
	m.properties[p.ID] = p
	cp := *p
	return &cp, nil
}

// UpdateStatus changes a property's status
func (m *MockPropertyAPI) UpdateStatus(ctx context.Context, id int, status string) (*domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(fmt.Sprintf("UpdateStatus:%d:%s", id, status)); err != nil {
		return nil, err
	}

	p, ok := m.properties[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	p.Status = status
	cp := *p
	return &cp, nil
}

// Verify marks a property verified
func (m *MockPropertyAPI) Verify(ctx context.Context, id int) (*domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(fmt.Sprintf("Verify:%d", id)); err != nil {
		return nil, err
	}

	p, ok := m.properties[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	p.Verified = true
	cp := *p
	return &cp, nil
}

// AttachPhoto records a photo upload and returns a fake URL
func (m *MockPropertyAPI) AttachPhoto(ctx context.Context, id int, filename string, photo io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(fmt.Sprintf("AttachPhoto:%d:%s", id, filename)); err != nil {
		return "", err
	}

	p, ok := m.properties[id]
	if !ok {
		return "", ports.ErrNotFound
	}
	p.PhotoURL = "/photos/" + filename
	return p.PhotoURL, nil
}

// --- MockTransferAPI ---

// MockTransferAPI is a mock implementation of the TransferAPI port
type MockTransferAPI struct {
	mu        sync.Mutex
	transfers map[int]*domain.Transfer
	nextID    int
	failWith  error
	calls     []string
}

// NewMockTransferAPI creates a new mock transfer API
func NewMockTransferAPI() *MockTransferAPI {
	return &MockTransferAPI{
		transfers: make(map[int]*domain.Transfer),
		nextID:    1,
	}
}

// SetFailWith makes every subsequent call return err
func (m *MockTransferAPI) SetFailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Seed inserts a transfer without recording a call
func (m *MockTransferAPI) Seed(tr domain.Transfer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tr.ID == 0 {
		tr.ID = m.nextID
	}
	if tr.ID >= m.nextID {
		m.nextID = tr.ID + 1
	}
	m.transfers[tr.ID] = &tr
}

// Calls returns the recorded call log
func (m *MockTransferAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockTransferAPI) record(call string) error {
	m.calls = append(m.calls, call)
	return m.failWith
}

// List returns all seeded transfers
func (m *MockTransferAPI) List(ctx context.Context) ([]domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("List"); err != nil {
		return nil, err
	}

	out := make([]domain.Transfer, 0, len(m.transfers))
	for _, tr := range m.transfers {
		out = append(out, *tr)
	}
	return out, nil
}

// Get retrieves a transfer by id
func (m *MockTransferAPI) Get(ctx context.Context, id int) (*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(fmt.Sprintf("Get:%d", id)); err != nil {
		return nil, err
	}

	tr, ok := m.transfers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *tr
	return &cp, nil
}

// Create creates a pending transfer
func (m *MockTransferAPI) Create(ctx context.Context, input domain.TransferInput) (*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(fmt.Sprintf("Create:%d", input.PropertyID)); err != nil {
		return nil, err
	}

	tr := &domain.Transfer{
		ID:                m.nextID,
		PropertyID:        input.PropertyID,
		ToUserID:          input.ToUserID,
		TransferType:      input.TransferType,
		IncludeComponents: input.IncludeComponents,
		Status:            domain.TransferStatusPending,
		Notes:             input.Notes,
	}
	m.nextID++
	m.transfers[tr.ID] = tr
	cp := *tr
	return &cp, nil
}

// RequestBySerial creates a pending serial request
func (m *MockTransferAPI) RequestBySerial(ctx context.Context, input domain.SerialRequestInput) (*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("RequestBySerial:" + input.SerialNumber); err != nil {
		return nil, err
	}

	tr := &domain.Transfer{
		ID:                    m.nextID,
		RequestedSerialNumber: domain.NormalizeSerial(input.SerialNumber),
		TransferType:          domain.TransferTypeRequest,
		Status:                domain.TransferStatusPending,
		Notes:                 input.Notes,
	}
	m.nextID++
	m.transfers[tr.ID] = tr
	cp := *tr
	return &cp, nil
}

// UpdateStatus resolves a transfer
func (m *MockTransferAPI) UpdateStatus(ctx context.Context, id int, status string) (*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(fmt.Sprintf("UpdateStatus:%d:%s", id, status)); err != nil {
		return nil, err
	}

	tr, ok := m.transfers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	tr.Status = status
	cp := *tr
	return &cp, nil
}

// --- MockConnectionAPI ---

// MockConnectionAPI is a mock implementation of the ConnectionAPI port
type MockConnectionAPI struct {
	mu          sync.Mutex
	connections map[int]*domain.UserConnection
	users       []domain.User
	nextID      int
	failWith    error
}

// NewMockConnectionAPI creates a new mock connection API
func NewMockConnectionAPI() *MockConnectionAPI {
	return &MockConnectionAPI{
		connections: make(map[int]*domain.UserConnection),
		nextID:      1,
	}
}

// SetFailWith makes every subsequent call return err
func (m *MockConnectionAPI) SetFailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Seed inserts a connection
func (m *MockConnectionAPI) Seed(c domain.UserConnection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.nextID
	}
	if c.ID >= m.nextID {
		m.nextID = c.ID + 1
	}
	m.connections[c.ID] = &c
}

// SeedUsers sets the user directory used by SearchUsers
func (m *MockConnectionAPI) SeedUsers(users []domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = users
}

// List returns all seeded connections
func (m *MockConnectionAPI) List(ctx context.Context) ([]domain.UserConnection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	out := make([]domain.UserConnection, 0, len(m.connections))
	for _, c := range m.connections {
		out = append(out, *c)
	}
	return out, nil
}

// Request creates a pending connection
func (m *MockConnectionAPI) Request(ctx context.Context, targetUserID int) (*domain.UserConnection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	c := &domain.UserConnection{
		ID:               m.nextID,
		ConnectedUserID:  targetUserID,
		ConnectionStatus: domain.ConnectionStatusPending,
	}
	m.nextID++
	m.connections[c.ID] = c
	cp := *c
	return &cp, nil
}

// UpdateStatus accepts or blocks a connection
func (m *MockConnectionAPI) UpdateStatus(ctx context.Context, id int, status string) (*domain.UserConnection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	c, ok := m.connections[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	c.ConnectionStatus = status
	cp := *c
	return &cp, nil
}

// SearchUsers filters the seeded user directory
func (m *MockConnectionAPI) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	q := strings.ToLower(query)
	var out []domain.User
	for _, u := range m.users {
		if q == "" || strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out, nil
}

// --- MockDocumentAPI ---

// MockDocumentAPI is a mock implementation of the DocumentAPI port
type MockDocumentAPI struct {
	mu        sync.Mutex
	documents map[int]*domain.Document
	nextID    int
	failWith  error
}

// NewMockDocumentAPI creates a new mock document API
func NewMockDocumentAPI() *MockDocumentAPI {
	return &MockDocumentAPI{
		documents: make(map[int]*domain.Document),
		nextID:    1,
	}
}

// SetFailWith makes every subsequent call return err
func (m *MockDocumentAPI) SetFailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Seed inserts a document
func (m *MockDocumentAPI) Seed(d domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == 0 {
		d.ID = m.nextID
	}
	if d.ID >= m.nextID {
		m.nextID = d.ID + 1
	}
	m.documents[d.ID] = &d
}

// List returns seeded documents, optionally filtered by box
func (m *MockDocumentAPI) List(ctx context.Context, box string) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	out := make([]domain.Document, 0, len(m.documents))
	for _, d := range m.documents {
		out = append(out, *d)
	}
	return out, nil
}

// Get retrieves a document by id
func (m *MockDocumentAPI) Get(ctx context.Context, id int) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	d, ok := m.documents[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// UpdateStatus changes a document's read state
func (m *MockDocumentAPI) UpdateStatus(ctx context.Context, id int, status string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	d, ok := m.documents[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	d.Status = status
	cp := *d
	return &cp, nil
}

// SendMaintenanceForm creates an unread maintenance document
func (m *MockDocumentAPI) SendMaintenanceForm(ctx context.Context, input domain.MaintenanceFormInput) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	d := &domain.Document{
		ID:              m.nextID,
		Type:            domain.DocumentTypeMaintenance,
		Subtype:         input.FormType,
		RecipientUserID: input.RecipientUserID,
		PropertyID:      &input.PropertyID,
		Description:     input.Description,
		Status:          domain.DocumentStatusUnread,
	}
	m.nextID++
	m.documents[d.ID] = d
	cp := *d
	return &cp, nil
}

// Bulk applies an operation to many documents, returning the count touched
func (m *MockDocumentAPI) Bulk(ctx context.Context, ids []int, op string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}

	count := 0
	for _, id := range ids {
		d, ok := m.documents[id]
		if !ok {
			continue
		}
		switch op {
		case domain.BulkOpRead:
			d.Status = domain.DocumentStatusRead
		case domain.BulkOpArchive:
			d.Status = domain.DocumentStatusArchived
		case domain.BulkOpDelete:
			delete(m.documents, id)
		}
		count++
	}
	return count, nil
}

// --- MockImportAPI ---

// MockImportAPI is a mock implementation of the ImportAPI port
type MockImportAPI struct {
	mu          sync.Mutex
	scanResult  *domain.ScanResult
	failWith    error
	imported    [][]domain.ScanItem
	failSerials map[string]string
}

// NewMockImportAPI creates a new mock import API
func NewMockImportAPI() *MockImportAPI {
	return &MockImportAPI{
		failSerials: make(map[string]string),
	}
}

// SetFailWith makes every subsequent call return err
func (m *MockImportAPI) SetFailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// SetScanResult sets what UploadScan returns
func (m *MockImportAPI) SetScanResult(r *domain.ScanResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanResult = r
}

// FailSerial makes ImportItems report one serial as failed with a reason
func (m *MockImportAPI) FailSerial(serial, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSerials[domain.NormalizeSerial(serial)] = reason
}

// Imported returns every batch passed to ImportItems
func (m *MockImportAPI) Imported() [][]domain.ScanItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imported
}

// UploadScan returns the configured scan result
func (m *MockImportAPI) UploadScan(ctx context.Context, filename string, scan io.Reader) (*domain.ScanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if m.scanResult == nil {
		return &domain.ScanResult{}, nil
	}
	return m.scanResult, nil
}

// ImportItems simulates a batch create with per-item outcomes
func (m *MockImportAPI) ImportItems(ctx context.Context, items []domain.ScanItem, sourceRef string) (*domain.ImportResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	m.imported = append(m.imported, items)

	result := &domain.ImportResult{}
	for i, item := range items {
		if reason, bad := m.failSerials[domain.NormalizeSerial(item.SerialNumber)]; bad {
			result.FailedCount++
			result.Failed = append(result.Failed, domain.FailedImport{Item: item, Reason: reason})
			continue
		}
		result.CreatedCount++
		result.Created = append(result.Created, domain.Property{
			ID:           i + 1,
			Name:         item.Name,
			SerialNumber: domain.NormalizeSerial(item.SerialNumber),
			Status:       domain.PropertyStatusActive,
		})
	}
	return result, nil
}

// --- MockReferenceAPI ---

// MockReferenceAPI is a mock implementation of the ReferenceAPI port
type MockReferenceAPI struct {
	mu       sync.Mutex
	records  map[string]*domain.NSNRecord
	failWith error
	lookups  []string
}

// NewMockReferenceAPI creates a new mock reference API
func NewMockReferenceAPI() *MockReferenceAPI {
	return &MockReferenceAPI{
		records: make(map[string]*domain.NSNRecord),
	}
}

// SetFailWith makes every subsequent call return err
func (m *MockReferenceAPI) SetFailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Seed inserts a catalog record
func (m *MockReferenceAPI) Seed(r domain.NSNRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.NSN] = &r
}

// Lookups returns the NSNs requested so far
func (m *MockReferenceAPI) Lookups() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.lookups))
	copy(out, m.lookups)
	return out
}

// LookupNSN fetches one record
func (m *MockReferenceAPI) LookupNSN(ctx context.Context, nsn string) (*domain.NSNRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, nsn)
	if m.failWith != nil {
		return nil, m.failWith
	}

	r, ok := m.records[nsn]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// SearchNSN searches seeded records by nomenclature substring
func (m *MockReferenceAPI) SearchNSN(ctx context.Context, query string, limit int) ([]domain.NSNRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	q := strings.ToLower(query)
	var out []domain.NSNRecord
	for _, r := range m.records {
		if strings.Contains(strings.ToLower(r.Nomenclature), q) {
			out = append(out, *r)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}
