package taxonomy

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/amesfield/bean-counter/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteBackend persists expense records in a SQLite database. It is the
// alternative to the JSON document for users who want their classification
// history in a queryable form.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// NewSQLiteBackend opens (creating if needed) the database at the given path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	b := &SQLiteBackend{db: db, path: path}
	if err := b.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

func (b *SQLiteBackend) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS expenses (
			name TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			subcategory TEXT NOT NULL,
			mean REAL NOT NULL,
			purchase_count INTEGER NOT NULL CHECK (purchase_count >= 1)
		)`
	if _, err := b.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Load reads all persisted records. A freshly created database yields an
// empty record set.
func (b *SQLiteBackend) Load(ctx context.Context) (map[string]model.ExpenseRecord, error) {
	query := `
		SELECT name, category, subcategory, mean, purchase_count
		FROM expenses`

	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make(map[string]model.ExpenseRecord)
	for rows.Next() {
		var rec model.ExpenseRecord
		if err := rows.Scan(&rec.Name, &rec.Category, &rec.Subcategory, &rec.Mean, &rec.PurchaseCount); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		records[rec.Name] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	slog.Debug("loaded expense records", "path", b.path, "count", len(records))
	return records, nil
}

// Save upserts all records in a single transaction.
func (b *SQLiteBackend) Save(ctx context.Context, records map[string]model.ExpenseRecord) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (name, category, subcategory, mean, purchase_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			category = excluded.category,
			subcategory = excluded.subcategory,
			mean = excluded.mean,
			purchase_count = excluded.purchase_count`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Name, rec.Category, rec.Subcategory, rec.Mean, rec.PurchaseCount); err != nil {
			return fmt.Errorf("failed to upsert expense %q: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expenses: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
