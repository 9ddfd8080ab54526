package inventory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/packlist/internal/common"
)

// Open returns the configured store, or nil when no store is configured.
func Open(ctx context.Context, cfg common.InventoryConfig, logger *slog.Logger) (Store, error) {
	switch strings.ToLower(cfg.Store) {
	case "":
		return nil, nil
	case "file":
		return NewFileStore(cfg.Path, logger), nil
	case "sqlite":
		s, err := OpenSQLite(ctx, cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := OpenPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, common.InvalidArgumentErrorf("unknown inventory store %q", cfg.Store)
}
