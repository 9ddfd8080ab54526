package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/packlist/internal/server"
)

// Serve runs the gRPC API on addr until ctx is done. When watch.Dir is set
// the drop folder is processed alongside; either half failing stops both.
func (a *App) Serve(ctx context.Context, addr string, watch WatchOptions) error {
	cfg := a.Config.Server
	if addr == "" {
		addr = cfg.GRPCAddr
	}
	svc := server.NewPackingListService(a.Orchestrator, a.Inventory, cfg.MaxUploadBytes, cfg.RequestTimeout, a.Logger)
	gs, hs := server.NewGRPCServer(svc, cfg.MaxUploadBytes, a.Logger)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return server.Serve(ctx, gs, hs, addr, a.Logger) })
	if watch.Dir != "" {
		eg.Go(func() error { return a.Watch(ctx, watch) })
	}
	return eg.Wait()
}
