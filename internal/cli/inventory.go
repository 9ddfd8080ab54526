package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/inventory"
)

func newInventoryCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Manage the inventory-identifier catalog",
	}
	cmd.AddCommand(
		newInventoryImportCmd(g),
		newInventoryListCmd(g),
		newInventoryClearCmd(g),
		newInventoryPersistCmd(g),
	)
	return cmd
}

func newInventoryImportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Add catalog entries from CSV, XLSX or JSON files",
		Example: `  packlist --inventory-store sqlite --inventory-path inv.db inventory import ids.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			total := 0
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				entries, err := inventory.ReadEntries(path, f)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				a.Inventory.Put(entries...)
				total += len(entries)
			}
			if err := a.Inventory.Persist(ctx); err != nil {
				return err
			}
			return g.print(map[string]int{"imported": total, "entries": a.Inventory.Len()})
		},
	}
}

func newInventoryListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every catalog entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return g.print(a.Inventory.Entries())
		},
	}
}

func newInventoryClearCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every catalog entry from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Inventory.Clear(cmd.Context())
		},
	}
}

// persist copies the configured catalog into a second store, e.g. a side
// file into Postgres.
func newInventoryPersistCmd(g *globals) *cobra.Command {
	var target common.InventoryConfig
	cmd := &cobra.Command{
		Use:   "persist",
		Short: "Copy the catalog into another store",
		Example: `  packlist inventory persist --to-store postgres --to-dsn postgres://localhost/erp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := common.ValidateAndReturnError(common.NewValidator().
				Field("to-store", target.Store, common.Required, common.OneOf("file", "sqlite", "postgres"))); err != nil {
				return err
			}
			a, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg := g.cfg.Inventory
			cfg.Store, cfg.Path, cfg.DSN = target.Store, target.Path, target.DSN
			store, err := inventory.Open(ctx, cfg, g.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			dst := inventory.NewLookup(store, g.logger)
			dst.Put(a.Inventory.Entries()...)
			if err := dst.Persist(ctx); err != nil {
				return err
			}
			return g.print(map[string]any{"store": cfg.Store, "entries": dst.Len()})
		},
	}
	cmd.Flags().StringVar(&target.Store, "to-store", "", "file, sqlite or postgres")
	cmd.Flags().StringVar(&target.Path, "to-path", "inventory.json", "side-file or sqlite path")
	cmd.Flags().StringVar(&target.DSN, "to-dsn", "", "postgres connection string")
	return cmd
}
