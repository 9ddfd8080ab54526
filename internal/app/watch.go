package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/packlist/internal/async"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/ingest"
	"github.com/joseph-ayodele/packlist/internal/pipeline"
)

// WatchOptions configures a drop-folder run.
type WatchOptions struct {
	Dir         string
	OutputDir   string
	InitialScan bool
	Debounce    time.Duration
	Options     pipeline.Options
	Remember    bool // add parsed inventory IDs to the catalog and persist it
}

// Watch parses every file dropped into Dir, in arrival order, until ctx is
// done. Each file produces <name>.json and, for packing lists, <name>.xlsx
// in OutputDir. Files whose content was already seen are skipped.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	if opts.OutputDir == "" {
		opts.OutputDir = a.Config.Pipeline.OutputDir
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	out, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{opts.Dir},
		InitialScan: opts.InitialScan,
		Debounce:    opts.Debounce,
		SkipHidden:  true,
		Logger:      a.Logger,
	})
	if err != nil {
		return err
	}

	q := async.NewProcessorQueue(a.Orchestrator, a.Logger,
		async.WithWorkers(a.Config.Pipeline.QueueWorkers),
		async.WithProcessTimeout(a.Config.Pipeline.ProcessTimeout),
		async.WithHandler(a.writeOutcome(out, opts.Remember)),
	)
	defer q.Shutdown(context.Background())

	seen := ingest.NewSeen()
	a.Logger.Info("watch.started", "dir", opts.Dir, "output_dir", out)
	for {
		select {
		case <-ctx.Done():
			a.Logger.Info("watch.stopped", "dir", opts.Dir)
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			a.Logger.Warn("watch.error", "err", err)
		case p, ok := <-paths:
			if !ok {
				return nil
			}
			if abs, err := filepath.Abs(p); err == nil && strings.HasPrefix(abs, out+string(filepath.Separator)) {
				continue
			}
			hash, err := ingest.Fingerprint(p)
			if err != nil {
				a.Logger.Warn("watch.fingerprint.failed", "path", p, "err", err)
				continue
			}
			if seen.Add(hash, p) {
				a.Logger.Info("watch.duplicate", "path", p, "hash", hash)
				continue
			}
			if _, err := q.Enqueue(ctx, async.Job{Path: p, Options: opts.Options}); err != nil {
				a.Logger.Warn("watch.enqueue.failed", "path", p, "err", err)
			}
		}
	}
}

type outcome struct {
	Job    entity.ParseJob  `json:"job"`
	Result *pipeline.Result `json:"result,omitempty"`
}

func (a *App) writeOutcome(dir string, remember bool) async.Handler {
	return func(ctx context.Context, job entity.ParseJob, res *pipeline.Result, _ error) {
		base := filepath.Join(dir, strings.TrimSuffix(filepath.Base(job.Path), filepath.Ext(job.Path)))
		data, err := json.MarshalIndent(outcome{Job: job, Result: res}, "", "  ")
		if err == nil {
			err = os.WriteFile(base+".json", data, 0o644)
		}
		if err != nil {
			a.Logger.Error("watch.write.failed", "path", base+".json", "err", err)
		}
		if res == nil || res.Document == nil {
			return
		}
		xlsx, err := a.Exporter.XLSX(ctx, res.Document)
		if err == nil {
			err = os.WriteFile(base+".xlsx", xlsx, 0o644)
		}
		if err != nil {
			a.Logger.Error("watch.write.failed", "path", base+".xlsx", "err", err)
		}
		if remember {
			if n := a.Inventory.Remember(res.Document.Items); n > 0 {
				if err := a.Inventory.Persist(ctx); err != nil {
					a.Logger.Error("watch.inventory.persist_failed", "err", err)
				}
			}
		}
	}
}
