package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/packlist/internal/app"
	"github.com/joseph-ayodele/packlist/internal/common"
)

// packlistd is the unattended deployment: the gRPC API plus, when WATCH_DIR
// is set, a drop folder. Everything is configured from the environment.
func main() {
	_ = godotenv.Load()
	cfg := common.LoadConfig()

	logger := common.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	addr := cfg.Server.GRPCAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	watch := app.WatchOptions{Dir: cfg.Pipeline.WatchDir, InitialScan: true}
	if err := a.Serve(ctx, addr, watch); err != nil {
		logger.Error("packlistd stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
	logger.Info("packlistd stopped")
}
