package cli

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/packlist/internal/app"
)

func newServeCmd(g *globals) *cobra.Command {
	var (
		addr  string
		watch app.WatchOptions
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the packing-list gRPC API",
		Long: `Serves ParseFile, ExportFile and ListInventory over gRPC with health and
reflection. With --watch, a drop folder is processed alongside the server.`,
		Example: `  packlist serve --addr :8080 --watch ./inbox`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if watch.Dir == "" {
				watch.Dir = g.cfg.Pipeline.WatchDir
			}
			return a.Serve(ctx, addr, watch)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (env GRPC_ADDR)")
	cmd.Flags().StringVar(&watch.Dir, "watch", "", "also process files dropped here (env WATCH_DIR)")
	cmd.Flags().StringVar(&watch.OutputDir, "out", "", "output folder for watched files (env OUTPUT_DIR)")
	cmd.Flags().BoolVar(&watch.InitialScan, "initial-scan", false, "parse files already in the watched folder")
	return cmd
}
