package export

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/joseph-ayodele/packlist/internal/entity"
)

// WriteParquet archives every item of docs as one Line per row.
func (s *Service) WriteParquet(ctx context.Context, w io.Writer, docs ...*entity.PackingList) (int, error) {
	lines := Lines(docs...)
	pw := parquet.NewGenericWriter[Line](w)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := pw.Write(lines)
	if err != nil {
		_ = pw.Close()
		return n, fmt.Errorf("parquet write: %w", err)
	}
	if err := pw.Close(); err != nil {
		return n, fmt.Errorf("parquet close: %w", err)
	}
	s.logger.Info("export.parquet.ok", "rows", n)
	return n, nil
}

// ReadParquet loads an archive written by WriteParquet.
func ReadParquet(path string) ([]Line, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Line](pf)
	defer reader.Close()

	out := make([]Line, 0, pf.NumRows())
	batch := make([]Line, 128)
	for {
		n, err := reader.Read(batch)
		out = append(out, batch[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("parquet read: %w", err)
		}
	}
}
