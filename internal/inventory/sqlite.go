package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/packlist/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS inventory_ids (
	inventory_id    TEXT PRIMARY KEY,
	thickness       REAL NOT NULL DEFAULT 0,
	width           REAL NOT NULL DEFAULT 0,
	length          REAL NOT NULL DEFAULT 0,
	weight_per_area REAL NOT NULL DEFAULT 0,
	description     TEXT NOT NULL DEFAULT ''
);
`

// SQLiteStore keeps the catalog in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create inventory table: %w", err)
	}
	logger.Info("inventory.sqlite.open", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]entity.InventoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT inventory_id, thickness, width, length, weight_per_area, description FROM inventory_ids ORDER BY inventory_id`)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	var out []entity.InventoryEntry
	for rows.Next() {
		var e entity.InventoryEntry
		if err := rows.Scan(&e.InventoryID, &e.Thickness, &e.Width, &e.Length, &e.WeightPerArea, &e.Description); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Save replaces the table contents in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, entries []entity.InventoryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_ids`); err != nil {
		return fmt.Errorf("clear inventory: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO inventory_ids (inventory_id, thickness, width, length, weight_per_area, description) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.InventoryID, e.Thickness, e.Width, e.Length, e.WeightPerArea, e.Description); err != nil {
			return fmt.Errorf("insert %s: %w", e.InventoryID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("inventory.sqlite.saved", "entries", len(entries))
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM inventory_ids`); err != nil {
		return fmt.Errorf("clear inventory: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
