package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// catalogSchema holds NSN reference records fetched from the server.
// The catalog changes rarely, so lookups hit this table before the API.
const catalogSchema = `
CREATE TABLE IF NOT EXISTS nsn_catalog (
    nsn          TEXT PRIMARY KEY,
    lin          TEXT,
    nomenclature TEXT NOT NULL,
    fsc          TEXT,
    niin         TEXT,
    unit_price   REAL NOT NULL DEFAULT 0,
    manufacturer TEXT,
    part_number  TEXT,
    last_updated DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nsn_catalog_nomenclature
    ON nsn_catalog(nomenclature);
`

// CatalogStore is the local NSN reference cache on SQLite
type CatalogStore struct {
	db *sql.DB
}

// OpenCatalog opens (creating if needed) the catalog database and
// configures pragmas.
func OpenCatalog(path string) (*CatalogStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return &CatalogStore{db: db}, nil
}

// Ensure it implements the interface
var _ ports.CatalogRepository = (*CatalogStore)(nil)

// Close releases the database handle
func (c *CatalogStore) Close() error {
	return c.db.Close()
}

// Get returns a cached record, or nil when absent
func (c *CatalogStore) Get(ctx context.Context, nsn string) (*domain.NSNRecord, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT nsn, lin, nomenclature, fsc, niin, unit_price, manufacturer, part_number, last_updated
		 FROM nsn_catalog WHERE nsn = ?`, nsn)

	record, err := scanNSNRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog record: %w", err)
	}
	return record, nil
}

// Put stores or refreshes a record
func (c *CatalogStore) Put(ctx context.Context, record *domain.NSNRecord) error {
	lastUpdated := record.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = time.Now().UTC()
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO nsn_catalog (nsn, lin, nomenclature, fsc, niin, unit_price, manufacturer, part_number, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (nsn) DO UPDATE SET
		     lin = excluded.lin,
		     nomenclature = excluded.nomenclature,
		     fsc = excluded.fsc,
		     niin = excluded.niin,
		     unit_price = excluded.unit_price,
		     manufacturer = excluded.manufacturer,
		     part_number = excluded.part_number,
		     last_updated = excluded.last_updated`,
		record.NSN, record.LIN, record.Nomenclature, record.FSC, record.NIIN,
		record.UnitPrice, record.Manufacturer, record.PartNumber, lastUpdated)
	if err != nil {
		return fmt.Errorf("failed to store catalog record: %w", err)
	}
	return nil
}

// Search queries cached records by nomenclature substring
func (c *CatalogStore) Search(ctx context.Context, query string, limit int) ([]domain.NSNRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT nsn, lin, nomenclature, fsc, niin, unit_price, manufacturer, part_number, last_updated
		 FROM nsn_catalog
		 WHERE nomenclature LIKE '%' || ? || '%' COLLATE NOCASE
		 ORDER BY nomenclature
		 LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}
	defer rows.Close()

	var out []domain.NSNRecord
	for rows.Next() {
		record, err := scanNSNRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog record: %w", err)
		}
		out = append(out, *record)
	}
	return out, rows.Err()
}

// Count returns the number of cached records
func (c *CatalogStore) Count(ctx context.Context) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nsn_catalog`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count catalog records: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNSNRecord(row rowScanner) (*domain.NSNRecord, error) {
	var r domain.NSNRecord
	var lin, fsc, niin, manufacturer, partNumber sql.NullString
	err := row.Scan(&r.NSN, &lin, &r.Nomenclature, &fsc, &niin,
		&r.UnitPrice, &manufacturer, &partNumber, &r.LastUpdated)
	if err != nil {
		return nil, err
	}
	r.LIN = lin.String
	r.FSC = fsc.String
	r.NIIN = niin.String
	r.Manufacturer = manufacturer.String
	r.PartNumber = partNumber.String
	return &r, nil
}
