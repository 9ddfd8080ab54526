package cli

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/packlist/internal/app"
	"github.com/joseph-ayodele/packlist/internal/pipeline"
)

func newWatchCmd(g *globals) *cobra.Command {
	var (
		opts app.WatchOptions
		po   string
		ocr  bool
	)
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Parse every file dropped into a folder until interrupted",
		Long: `Watches DIR and parses each new packing list in arrival order, writing
<name>.json and <name>.xlsx into the output folder.`,
		Example: `  packlist watch ./inbox --out ./done --initial-scan`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			opts.Dir = args[0]
			opts.Options = pipeline.Options{PO: po, ForceOCR: ocr}
			return a.Watch(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "out", "", "output folder (env OUTPUT_DIR)")
	cmd.Flags().BoolVar(&opts.InitialScan, "initial-scan", false, "parse files already in the folder")
	cmd.Flags().BoolVar(&opts.Remember, "remember", false, "add parsed inventory IDs to the inventory store")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 0, "wait this long after the last write before parsing")
	cmd.Flags().StringVar(&po, "po", "", "purchase order number applied to every file")
	cmd.Flags().BoolVar(&ocr, "ocr", false, "run OCR on PDFs even when they carry text")
	return cmd
}
