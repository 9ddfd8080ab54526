package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/pipeline"
)

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	cfg := common.LoadConfig()
	cfg.Inventory.Store = "sqlite"
	cfg.Inventory.Path = filepath.Join(t.TempDir(), "inventory.db")
	cfg.OCR.Engine = "tesseract"
	return cfg
}

func TestNewWiresPipeline(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.Inventory.Put(entity.InventoryEntry{InventoryID: "PL-A"})
	if err := a.Inventory.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	if !b.Inventory.Known("PL-A") {
		t.Error("persisted entry not loaded")
	}

	csv := "PACKING LIST\nnothing to see"
	if _, err := b.Orchestrator.ParseFile(ctx, []byte(csv), "x.csv", pipeline.Options{}); err == nil {
		t.Error("expected an extraction error for an empty list")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Inventory.Store = "redis"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected config error")
	}
}

func TestServeStopsWithContext(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Serve(ctx, "127.0.0.1:0", WatchOptions{}); err != nil {
		t.Errorf("Serve = %v, want nil after cancel", err)
	}
}
