// Package app builds the long-lived components shared by the CLI and the
// daemon from one Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/export"
	"github.com/joseph-ayodele/packlist/internal/extract"
	"github.com/joseph-ayodele/packlist/internal/ingest"
	"github.com/joseph-ayodele/packlist/internal/inventory"
	"github.com/joseph-ayodele/packlist/internal/ocr"
	"github.com/joseph-ayodele/packlist/internal/pipeline"
)

type App struct {
	Config       *common.Config
	Logger       *slog.Logger
	Inventory    *inventory.Lookup
	OCR          *ocr.Processor
	Orchestrator *pipeline.Orchestrator
	Exporter     *export.Service

	closers []func() error
}

// New validates cfg, opens and loads the inventory store and wires the
// pipeline. Close releases whatever New opened.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger, Exporter: export.NewService(logger)}

	store, err := inventory.Open(ctx, cfg.Inventory, logger)
	if err != nil {
		return nil, fmt.Errorf("open inventory store: %w", err)
	}
	if store != nil {
		a.closers = append(a.closers, store.Close)
	}
	a.Inventory = inventory.NewLookup(store, logger)
	if err := a.Inventory.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}

	engine, err := a.engine(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	runner := ocr.NewExecRunner(logger)
	a.OCR = ocr.NewProcessor(ocr.NewPdftoppmRenderer(cfg.OCR.Pdftoppm, runner, logger), engine, cfg.OCR.Scale, logger)

	a.Orchestrator = pipeline.NewOrchestrator(
		logger,
		ingest.NewReader(nil, nil, logger),
		a.OCR,
		extract.NewRegistry(logger),
		a.Inventory,
		pipeline.ConfigFrom(cfg),
	)
	logger.Info("app.ready",
		"inventory_store", cfg.Inventory.Store,
		"inventory_entries", a.Inventory.Len(),
		"ocr_engine", cfg.OCR.Engine,
	)
	return a, nil
}

func (a *App) engine(ctx context.Context) (ocr.Engine, error) {
	cfg := a.Config.OCR
	if strings.EqualFold(cfg.Engine, "vision") {
		v, err := ocr.NewVisionEngine(ctx, ocr.VisionCredentials{File: cfg.VisionCredentialsFile, JSON: cfg.VisionCredentialsJSON}, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, v.Close)
		return v, nil
	}
	return ocr.NewTesseractEngine(ocr.TesseractConfig{
		Bin:         cfg.Tesseract,
		Lang:        cfg.TesseractLang,
		TessdataDir: cfg.TessdataDir,
		PSM:         cfg.PSM,
	}, ocr.NewExecRunner(a.Logger), a.Logger), nil
}

// Close releases in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
