package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/entity"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS inventory_ids (
	inventory_id    TEXT PRIMARY KEY,
	thickness       DOUBLE PRECISION NOT NULL DEFAULT 0,
	width           DOUBLE PRECISION NOT NULL DEFAULT 0,
	length          DOUBLE PRECISION NOT NULL DEFAULT 0,
	weight_per_area DOUBLE PRECISION NOT NULL DEFAULT 0,
	description     TEXT NOT NULL DEFAULT ''
)`

// PostgresStore keeps the catalog in a shared Postgres table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres creates a pgx pool from cfg and makes sure the table exists.
func OpenPostgres(ctx context.Context, cfg common.InventoryConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to inventory database")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse inventory database url", "error", err)
		return nil, err
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "packlist"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
	}

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to inventory database", "error", err)
		return nil, err
	}
	if _, err := pool.Exec(dialCtx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create inventory table: %w", err)
	}

	logger.Info("connected to inventory database")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]entity.InventoryEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT inventory_id, thickness, width, length, weight_per_area, description FROM inventory_ids ORDER BY inventory_id`)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.InventoryEntry, error) {
		var e entity.InventoryEntry
		err := row.Scan(&e.InventoryID, &e.Thickness, &e.Width, &e.Length, &e.WeightPerArea, &e.Description)
		return e, err
	})
}

// Save replaces the table contents in one transaction using a COPY.
func (s *PostgresStore) Save(ctx context.Context, entries []entity.InventoryEntry) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM inventory_ids`); err != nil {
			return fmt.Errorf("clear inventory: %w", err)
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"inventory_ids"},
			[]string{"inventory_id", "thickness", "width", "length", "weight_per_area", "description"},
			pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
				e := entries[i]
				return []any{e.InventoryID, e.Thickness, e.Width, e.Length, e.WeightPerArea, e.Description}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy inventory: %w", err)
		}
		s.logger.Debug("inventory.postgres.saved", "entries", len(entries))
		return nil
	})
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM inventory_ids`); err != nil {
		return fmt.Errorf("clear inventory: %w", err)
	}
	return nil
}

// HealthCheck pings the pool.
func (s *PostgresStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	s.logger.Debug("pinging inventory database")
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.logger.Info("closing inventory database connections")
	s.pool.Close()
	return nil
}
