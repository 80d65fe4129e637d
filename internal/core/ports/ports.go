package ports

import (
	"context"
	"io"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
)

// PropertyAPI defines the port for property endpoints
type PropertyAPI interface {
	// List returns all properties visible to the session user
	List(ctx context.Context) ([]domain.Property, error)

	// Get retrieves a property by id
	Get(ctx context.Context, id int) (*domain.Property, error)

	// GetBySerial retrieves a property by serial number
	GetBySerial(ctx context.Context, serial string) (*domain.Property, error)

	// Create creates a new property record
	Create(ctx context.Context, input domain.PropertyInput) (*domain.Property, error)

	// UpdateStatus changes a property's status
	UpdateStatus(ctx context.Context, id int, status string) (*domain.Property, error)

	// Verify marks a property as verified by the session user
	Verify(ctx context.Context, id int) (*domain.Property, error)

	// AttachPhoto uploads a photo for a property
	AttachPhoto(ctx context.Context, id int, filename string, photo io.Reader) (string, error)
}

// TransferAPI defines the port for transfer endpoints
type TransferAPI interface {
	// List returns transfers involving the session user
	List(ctx context.Context) ([]domain.Transfer, error)

	// Get retrieves a transfer by id
	Get(ctx context.Context, id int) (*domain.Transfer, error)

	// Create creates a transfer for a known property
	Create(ctx context.Context, input domain.TransferInput) (*domain.Transfer, error)

	// RequestBySerial requests property custody by serial number
	RequestBySerial(ctx context.Context, input domain.SerialRequestInput) (*domain.Transfer, error)

	// UpdateStatus approves, rejects, or cancels a pending transfer
	UpdateStatus(ctx context.Context, id int, status string) (*domain.Transfer, error)
}

// ConnectionAPI defines the port for user connection endpoints
type ConnectionAPI interface {
	// List returns the session user's connections in every status
	List(ctx context.Context) ([]domain.UserConnection, error)

	// Request sends a connection request to a user
	Request(ctx context.Context, targetUserID int) (*domain.UserConnection, error)

	// UpdateStatus accepts or blocks a connection
	UpdateStatus(ctx context.Context, id int, status string) (*domain.UserConnection, error)

	// SearchUsers finds users by name, email, or unit
	SearchUsers(ctx context.Context, query string) ([]domain.User, error)
}

// DocumentAPI defines the port for document endpoints
type DocumentAPI interface {
	// List returns documents in the given box ("inbox", "sent", "all")
	List(ctx context.Context, box string) ([]domain.Document, error)

	// Get retrieves a document by id
	Get(ctx context.Context, id int) (*domain.Document, error)

	// UpdateStatus marks a document read or archived
	UpdateStatus(ctx context.Context, id int, status string) (*domain.Document, error)

	// SendMaintenanceForm creates and sends a maintenance document
	SendMaintenanceForm(ctx context.Context, input domain.MaintenanceFormInput) (*domain.Document, error)

	// Bulk applies one operation to many documents
	Bulk(ctx context.Context, ids []int, op string) (int, error)
}

// ImportAPI defines the port for DA 2062 endpoints
type ImportAPI interface {
	// UploadScan sends a form scan for server-side OCR and returns parsed items
	UploadScan(ctx context.Context, filename string, scan io.Reader) (*domain.ScanResult, error)

	// ImportItems batch-creates properties from reviewed scan items
	ImportItems(ctx context.Context, items []domain.ScanItem, sourceRef string) (*domain.ImportResult, error)
}

// ReferenceAPI defines the port for NSN reference endpoints
type ReferenceAPI interface {
	// LookupNSN fetches catalog data for one NSN
	LookupNSN(ctx context.Context, nsn string) (*domain.NSNRecord, error)

	// SearchNSN searches the catalog by nomenclature
	SearchNSN(ctx context.Context, query string, limit int) ([]domain.NSNRecord, error)
}

// AuthAPI defines the port for session endpoints
type AuthAPI interface {
	// Login exchanges credentials for session tokens
	Login(ctx context.Context, email, password string) (*Session, error)

	// Logout invalidates the server-side session
	Logout(ctx context.Context) error

	// Me returns the profile of the session user
	Me(ctx context.Context) (*domain.User, error)
}

// Pinger defines the port for unauthenticated connectivity checks
type Pinger interface {
	// Ping returns nil when the server is reachable
	Ping(ctx context.Context) error
}

// Session holds the tokens returned by login
type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UserID       int       `json:"userId"`
	Email        string    `json:"email"`
}

// QueueRepository defines the port for the offline operation queue
type QueueRepository interface {
	// Enqueue appends an operation to the queue
	Enqueue(ctx context.Context, op *domain.QueuedOperation) error

	// List returns all queued operations in FIFO order
	List(ctx context.Context) ([]domain.QueuedOperation, error)

	// Remove deletes an operation by id
	Remove(ctx context.Context, id string) error

	// Clear empties the queue
	Clear(ctx context.Context) error

	// Len returns the number of queued operations
	Len(ctx context.Context) (int, error)
}

// CacheRepository defines the port for cached API collections.
// Entries carry the fetch time; staleness is the caller's policy.
type CacheRepository interface {
	// Put stores a collection snapshot under a key
	Put(ctx context.Context, key string, value any) error

	// Get loads a collection snapshot; returns the fetch time.
	// Returns ErrCacheMiss when the key has never been stored.
	Get(ctx context.Context, key string, value any) (time.Time, error)

	// Invalidate drops one key
	Invalidate(ctx context.Context, key string) error

	// InvalidateAll drops every cached collection
	InvalidateAll(ctx context.Context) error
}

// TokenStore defines the port for persisted session tokens.
// It replaces ambient token state: every consumer receives the store
// explicitly and nothing reads tokens from package globals.
type TokenStore interface {
	// Save persists the session
	Save(session *Session) error

	// Load returns the stored session, or ErrNoSession
	Load() (*Session, error)

	// Clear removes the stored session
	Clear() error
}

// CatalogRepository defines the port for the local NSN reference cache
type CatalogRepository interface {
	// Get returns a cached record, or nil when absent
	Get(ctx context.Context, nsn string) (*domain.NSNRecord, error)

	// Put stores or refreshes a record
	Put(ctx context.Context, record *domain.NSNRecord) error

	// Search queries cached records by nomenclature substring
	Search(ctx context.Context, query string, limit int) ([]domain.NSNRecord, error)

	// Count returns the number of cached records
	Count(ctx context.Context) (int, error)
}
