package pipeline

import (
	"context"
	"os"
	"path/filepath"
)

// FileOutcome is one entry of a batch run.
type FileOutcome struct {
	Path   string  `json:"path"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// ParseFiles parses paths strictly in the given order. A failing file is
// recorded and the batch moves on; cancellation stops the batch and returns
// what finished so far.
func (o *Orchestrator) ParseFiles(ctx context.Context, paths []string, opts Options) ([]FileOutcome, error) {
	out := make([]FileOutcome, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		fo := FileOutcome{Path: p}
		data, err := os.ReadFile(p)
		if err != nil {
			fo.Err = err
		} else {
			fo.Result, fo.Err = o.ParseFile(ctx, data, filepath.Base(p), opts)
		}
		if fo.Err != nil {
			o.Logger.Warn("pipeline.batch.file_failed", "path", p, "err", fo.Err)
		}
		out = append(out, fo)
	}
	o.Logger.Info("pipeline.batch.done", "files", len(paths))
	return out, nil
}
