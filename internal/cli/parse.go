package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/joseph-ayodele/packlist/internal/ingest"
	"github.com/joseph-ayodele/packlist/internal/pipeline"
	"github.com/joseph-ayodele/packlist/internal/server"
)

type parseFlags struct {
	po       string
	ocr      bool
	remote   string
	remember bool
}

// parseOutcome is one printed entry of a multi-file run.
type parseOutcome struct {
	Path   string           `json:"path"`
	Result *pipeline.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

func newParseCmd(g *globals) *cobra.Command {
	var f parseFlags
	cmd := &cobra.Command{
		Use:   "parse PATH...",
		Short: "Parse packing-list files and print the extracted items",
		Long: `Parses each file (directories are walked) in the order given and prints
the result. Scanned PDFs come back with needs_ocr set unless --ocr is passed.`,
		Example: `  # Parse one file with a known PO
  packlist parse --po 4500777 gulf.pdf

  # Parse a folder through a running packlist server
  packlist parse --remote localhost:8080 ./inbox`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			paths, err := expand(ctx, args)
			if err != nil {
				return err
			}
			opts := pipeline.Options{PO: f.po, ForceOCR: f.ocr, Progress: progressTo(cmd, f.ocr)}

			var outcomes []pipeline.FileOutcome
			if f.remote != "" {
				outcomes, err = parseRemote(ctx, f.remote, paths, opts)
			} else {
				outcomes, err = g.parseLocal(ctx, paths, opts, f.remember)
			}
			if err != nil {
				return err
			}
			return g.report(outcomes)
		},
	}
	cmd.Flags().StringVar(&f.po, "po", "", "purchase order number; overrides any PO found in the document")
	cmd.Flags().BoolVar(&f.ocr, "ocr", false, "run OCR on PDFs even when they carry text")
	cmd.Flags().StringVar(&f.remote, "remote", "", "parse through a packlist gRPC server at this address")
	cmd.Flags().BoolVar(&f.remember, "remember", false, "add the parsed inventory IDs to the inventory store")
	return cmd
}

func (g *globals) parseLocal(ctx context.Context, paths []string, opts pipeline.Options, remember bool) ([]pipeline.FileOutcome, error) {
	a, err := g.open(ctx)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	outcomes, err := a.Orchestrator.ParseFiles(ctx, paths, opts)
	if err != nil {
		return outcomes, err
	}
	if remember {
		added := 0
		for _, o := range outcomes {
			if o.Result != nil && o.Result.Document != nil {
				added += a.Inventory.Remember(o.Result.Document.Items)
			}
		}
		if added > 0 {
			if err := a.Inventory.Persist(ctx); err != nil {
				return outcomes, err
			}
		}
		g.logger.Info("parse.remembered", "new_ids", added)
	}
	return outcomes, nil
}

func parseRemote(ctx context.Context, addr string, paths []string, opts pipeline.Options) ([]pipeline.FileOutcome, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	c := server.NewClient(conn)

	out := make([]pipeline.FileOutcome, 0, len(paths))
	for _, p := range paths {
		fo := pipeline.FileOutcome{Path: p}
		data, err := os.ReadFile(p)
		if err == nil {
			fo.Result, err = c.ParseFile(ctx, data, filepath.Base(p), opts)
		}
		fo.Err = err
		out = append(out, fo)
	}
	return out, nil
}

// report prints a single result bare and several as a list. Any failure
// makes the command fail after printing.
func (g *globals) report(outcomes []pipeline.FileOutcome) error {
	failed := 0
	printed := make([]parseOutcome, len(outcomes))
	for i, o := range outcomes {
		printed[i] = parseOutcome{Path: o.Path, Result: o.Result}
		if o.Err != nil {
			printed[i].Error = o.Err.Error()
			failed++
		}
	}
	if len(printed) == 1 && failed == 0 {
		if err := g.print(printed[0].Result); err != nil {
			return err
		}
	} else if err := g.print(printed); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
	}
	return nil
}

// expand walks directories and drops files whose content repeats.
func expand(ctx context.Context, args []string) ([]string, error) {
	seen := ingest.NewSeen()
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		results, _, err := ingest.Collect(ctx, arg, true, seen)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			if r.Err == "" && !r.Deduplicated {
				out = append(out, r.Path)
			}
		}
	}
	return out, nil
}

// progressTo reports OCR progress on stderr when OCR is forced.
func progressTo(cmd *cobra.Command, enabled bool) func(float64) {
	if !enabled {
		return nil
	}
	last := -1
	return func(f float64) {
		if pct := int(f * 100); pct/10 != last/10 {
			last = pct
			fmt.Fprintf(cmd.ErrOrStderr(), "ocr %3d%%\n", pct)
		}
	}
}
