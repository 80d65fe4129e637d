package mocks

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// MockAuthAPI is a mock implementation of the AuthAPI port
type MockAuthAPI struct {
	mu       sync.Mutex
	session  *ports.Session
	user     *domain.User
	failWith error
	calls    []string
}

// NewMockAuthAPI creates a new mock auth API
func NewMockAuthAPI() *MockAuthAPI {
	return &MockAuthAPI{}
}

// SetFailWith makes every subsequent call return err
func (m *MockAuthAPI) SetFailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// SetSession sets what Login returns
func (m *MockAuthAPI) SetSession(s *ports.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
}

// SetUser sets what Me returns
func (m *MockAuthAPI) SetUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = u
}

// Calls returns the recorded call log
func (m *MockAuthAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Login returns the configured session
func (m *MockAuthAPI) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "Login:"+email)
	if m.failWith != nil {
		return nil, m.failWith
	}
	if m.session == nil {
		return nil, ports.ErrUnauthorized
	}
	cp := *m.session
	return &cp, nil
}

// Logout records the call
func (m *MockAuthAPI) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "Logout")
	return m.failWith
}

// Me returns the configured user
func (m *MockAuthAPI) Me(ctx context.Context) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "Me")
	if m.failWith != nil {
		return nil, m.failWith
	}
	if m.user == nil {
		return nil, ports.ErrUnauthorized
	}
	cp := *m.user
	return &cp, nil
}

// --- MockPinger ---

// MockPinger is a mock implementation of the Pinger port
type MockPinger struct {
	mu     sync.Mutex
	online bool
	pings  int
}

// NewMockPinger creates a mock pinger in the given state
func NewMockPinger(online bool) *MockPinger {
	return &MockPinger{online: online}
}

// SetOnline flips the simulated connectivity state
func (m *MockPinger) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online = online
}

// Pings returns how many times Ping was called
func (m *MockPinger) Pings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pings
}

// Ping returns ErrOffline unless the mock is online
func (m *MockPinger) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pings++
	if !m.online {
		return ports.ErrOffline
	}
	return nil
}

// --- MockQueueRepository ---

// MockQueueRepository is an in-memory queue used by service tests
type MockQueueRepository struct {
	mu       sync.Mutex
	entries  []domain.QueuedOperation
	failWith error
}

// NewMockQueueRepository creates an empty mock queue
func NewMockQueueRepository() *MockQueueRepository {
	return &MockQueueRepository{}
}

// SetFailWith makes every subsequent call return err
func (m *MockQueueRepository) SetFailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Enqueue appends an operation
func (m *MockQueueRepository) Enqueue(ctx context.Context, op *domain.QueuedOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.entries = append(m.entries, *op)
	return nil
}

// List returns queued operations oldest first
func (m *MockQueueRepository) List(ctx context.Context) ([]domain.QueuedOperation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]domain.QueuedOperation, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// Remove deletes the operation with the given id
func (m *MockQueueRepository) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for i, op := range m.entries {
		if op.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

// Clear discards every queued operation
func (m *MockQueueRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.entries = nil
	return nil
}

// Len reports the number of queued operations
func (m *MockQueueRepository) Len(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	return len(m.entries), nil
}

// --- MockCacheRepository ---

type cacheEntry struct {
	data      []byte
	fetchedAt time.Time
}

// MockCacheRepository is an in-memory cache used by service tests
type MockCacheRepository struct {
	mu       sync.Mutex
	entries  map[string]cacheEntry
	failWith error
}

// NewMockCacheRepository creates an empty mock cache
func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		entries: make(map[string]cacheEntry),
	}
}

// SetFailWith makes every subsequent call return err
func (m *MockCacheRepository) SetFailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// SeedAt inserts an entry with an explicit fetch time, for staleness tests
func (m *MockCacheRepository) SeedAt(key string, value any, fetchedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	m.entries[key] = cacheEntry{data: data, fetchedAt: fetchedAt}
}

// Put stores a snapshot under key with the current time
func (m *MockCacheRepository) Put(ctx context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = cacheEntry{data: data, fetchedAt: time.Now()}
	return nil
}

// Get decodes the stored snapshot into value and returns its fetch time
func (m *MockCacheRepository) Get(ctx context.Context, key string, value any) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return time.Time{}, m.failWith
	}
	e, ok := m.entries[key]
	if !ok {
		return time.Time{}, ports.ErrCacheMiss
	}
	if err := json.Unmarshal(e.data, value); err != nil {
		return time.Time{}, err
	}
	return e.fetchedAt, nil
}

// Invalidate drops one key
func (m *MockCacheRepository) Invalidate(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	delete(m.entries, key)
	return nil
}

// InvalidateAll drops every key
func (m *MockCacheRepository) InvalidateAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.entries = make(map[string]cacheEntry)
	return nil
}

// --- MockTokenStore ---

// MockTokenStore is an in-memory token store used by service tests
type MockTokenStore struct {
	mu       sync.Mutex
	session  *ports.Session
	failWith error
}

// NewMockTokenStore creates an empty mock token store
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{}
}

// SetFailWith makes every subsequent call return err
func (m *MockTokenStore) SetFailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Save stores the session
func (m *MockTokenStore) Save(session *ports.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	cp := *session
	m.session = &cp
	return nil
}

// Load returns the stored session
func (m *MockTokenStore) Load() (*ports.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if m.session == nil {
		return nil, ports.ErrNoSession
	}
	cp := *m.session
	return &cp, nil
}

// Clear discards the stored session
func (m *MockTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.session = nil
	return nil
}

// --- MockCatalogRepository ---

// MockCatalogRepository is an in-memory catalog used by service tests
type MockCatalogRepository struct {
	mu       sync.Mutex
	records  map[string]domain.NSNRecord
	failWith error
	puts     []string
}

// NewMockCatalogRepository creates an empty mock catalog
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		records: make(map[string]domain.NSNRecord),
	}
}

// SetFailWith makes every subsequent call return err
func (m *MockCatalogRepository) SetFailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Seed inserts a record without recording a put
func (m *MockCatalogRepository) Seed(r domain.NSNRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.NSN] = r
}

// Puts returns the NSNs stored via Put
func (m *MockCatalogRepository) Puts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.puts))
	copy(out, m.puts)
	return out
}

// Get returns a cached catalog record
func (m *MockCatalogRepository) Get(ctx context.Context, nsn string) (*domain.NSNRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	r, ok := m.records[nsn]
	if !ok {
		return nil, nil
	}
	cp := r
	return &cp, nil
}

// Put stores a catalog record
func (m *MockCatalogRepository) Put(ctx context.Context, record *domain.NSNRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.records[record.NSN] = *record
	m.puts = append(m.puts, record.NSN)
	return nil
}

// Search matches seeded records by nomenclature substring
func (m *MockCatalogRepository) Search(ctx context.Context, query string, limit int) ([]domain.NSNRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	q := strings.ToLower(query)
	var out []domain.NSNRecord
	for _, r := range m.records {
		if strings.Contains(strings.ToLower(r.Nomenclature), q) {
			out = append(out, r)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// Count reports the number of cached records
func (m *MockCatalogRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	return len(m.records), nil
}
