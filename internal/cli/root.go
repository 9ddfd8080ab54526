// Package cli holds the cobra commands behind the packlist binary.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/packlist/internal/app"
	"github.com/joseph-ayodele/packlist/internal/common"
)

// globals are the persistent flags shared by every command.
type globals struct {
	logLevel       string
	logFormat      string
	output         string
	inventoryStore string
	inventoryPath  string
	ocrEngine      string

	cfg    *common.Config
	logger *slog.Logger
	stdout io.Writer
}

func NewRootCmd() *cobra.Command {
	g := &globals{stdout: os.Stdout}
	cmd := &cobra.Command{
		Use:   "packlist",
		Short: "Extract steel packing lists into ERP-ready line items",
		Long: `packlist reads supplier packing lists (text PDFs, scanned PDFs, spreadsheets)
and turns them into normalized line items with inventory IDs, lot numbers and weights.

Configuration comes from the environment (and a .env file when present);
flags override it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			g.cfg = common.LoadConfig()
			if g.logLevel != "" {
				g.cfg.Log.Level = g.logLevel
			}
			if g.logFormat != "" {
				g.cfg.Log.Format = g.logFormat
			}
			if g.inventoryStore != "" {
				g.cfg.Inventory.Store = g.inventoryStore
			}
			if g.inventoryPath != "" {
				g.cfg.Inventory.Path = g.inventoryPath
			}
			if g.ocrEngine != "" {
				g.cfg.OCR.Engine = g.ocrEngine
			}
			g.logger = common.NewLogger(cmd.ErrOrStderr(), g.cfg.Log.Level, g.cfg.Log.Format)
			slog.SetDefault(g.logger)
			g.stdout = cmd.OutOrStdout()
			return common.ValidateAndReturnError(common.NewValidator().
				Field("output", g.output, common.OneOf("json", "yaml")))
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	pf.StringVar(&g.logFormat, "log-format", "", "text or json (env LOG_FORMAT)")
	pf.StringVarP(&g.output, "output", "o", "json", "result format: json or yaml")
	pf.StringVar(&g.inventoryStore, "inventory-store", "", "file, sqlite or postgres (env INVENTORY_STORE)")
	pf.StringVar(&g.inventoryPath, "inventory-path", "", "side-file or sqlite path (env INVENTORY_PATH)")
	pf.StringVar(&g.ocrEngine, "ocr-engine", "", "tesseract or vision (env OCR_ENGINE)")

	cmd.AddCommand(
		newParseCmd(g),
		newOCRCmd(g),
		newInventoryCmd(g),
		newExportCmd(g),
		newWatchCmd(g),
		newServeCmd(g),
	)
	return cmd
}

// open builds the application for one command run.
func (g *globals) open(ctx context.Context) (*app.App, error) {
	a, err := app.New(ctx, g.cfg, g.logger)
	if err != nil {
		return nil, fmt.Errorf("startup: %w", err)
	}
	return a, nil
}
