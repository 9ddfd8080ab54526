package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/pipeline"
)

type exportFlags struct {
	po      string
	ocr     bool
	xlsx    string
	parquet string
}

func newExportCmd(g *globals) *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export PATH...",
		Short: "Parse packing lists and write one receipt workbook or Parquet file",
		Long: `Parses every file (directories are walked) and writes all packing-list
items into a single ERP receipt workbook and/or Parquet file. Invoices and
files that fail are reported and skipped.`,
		Example: `  packlist export --xlsx receipt.xlsx ./inbox
  packlist export --parquet lines.parquet a.pdf b.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.xlsx == "" && f.parquet == "" {
				return errors.New("export: pass --xlsx and/or --parquet")
			}
			ctx := cmd.Context()
			paths, err := expand(ctx, args)
			if err != nil {
				return err
			}
			a, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			outcomes, err := a.Orchestrator.ParseFiles(ctx, paths, pipeline.Options{PO: f.po, ForceOCR: f.ocr, Progress: progressTo(cmd, f.ocr)})
			if err != nil {
				return err
			}
			var docs []*entity.PackingList
			skipped := map[string]string{}
			for _, o := range outcomes {
				switch {
				case o.Err != nil:
					skipped[o.Path] = o.Err.Error()
				case o.Result.Document == nil:
					skipped[o.Path] = skipReason(o.Result)
				default:
					docs = append(docs, o.Result.Document)
				}
			}
			if len(docs) == 0 {
				return fmt.Errorf("export: no packing lists among %d files", len(paths))
			}

			summary := map[string]any{"documents": len(docs)}
			if len(skipped) > 0 {
				summary["skipped"] = skipped
			}
			if f.xlsx != "" {
				data, err := a.Exporter.XLSX(ctx, docs...)
				if err != nil {
					return err
				}
				if err := os.WriteFile(f.xlsx, data, 0o644); err != nil {
					return err
				}
				summary["xlsx"] = f.xlsx
			}
			if f.parquet != "" {
				out, err := os.Create(f.parquet)
				if err != nil {
					return err
				}
				n, err := a.Exporter.WriteParquet(ctx, out, docs...)
				if cerr := out.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
				summary["parquet"] = f.parquet
				summary["lines"] = n
			}
			return g.print(summary)
		},
	}
	cmd.Flags().StringVar(&f.po, "po", "", "purchase order number applied to every file")
	cmd.Flags().BoolVar(&f.ocr, "ocr", false, "run OCR on PDFs even when they carry text")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "write the receipt workbook here")
	cmd.Flags().StringVar(&f.parquet, "parquet", "", "write receipt lines as Parquet here")
	return cmd
}

func skipReason(r *pipeline.Result) string {
	switch {
	case r.IsInvoice:
		return "invoice"
	case r.NeedsOCR:
		return "needs OCR; rerun with --ocr"
	}
	return "no packing list"
}
