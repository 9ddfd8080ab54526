package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/packlist/internal/app"
	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/ingest"
	"github.com/joseph-ayodele/packlist/internal/ocr"
)

// runocr recognizes every page of one scanned PDF and logs per-page
// confidence. It is a quick check of the OCR toolchain on a host.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <file.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	cfg.Inventory.Store = ""

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	doc, err := ingest.NewReader(nil, nil, logger).Read(ctx, data, filepath.Base(path))
	if err != nil {
		logger.Error("read pdf", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	results, err := a.OCR.Run(ctx, data, doc.PageCount(), nil)
	dur := time.Since(start)
	if err != nil {
		logger.Error("ocr failed", "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	for _, r := range results {
		logger.Info("page", "page", r.Page+1, "confidence", r.Confidence, "chars", len(r.Text))
	}
	as := ocr.Assess(results, cfg.OCR.MinConfidence)
	logger.Info("ocr OK",
		"engine", cfg.OCR.Engine,
		"pages", len(results),
		"confidence", as.Average,
		"acceptable", as.Acceptable,
		"duration_ms", dur.Milliseconds(),
	)
}
