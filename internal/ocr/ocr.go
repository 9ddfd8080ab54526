// Package ocr renders scanned PDF pages, cleans them up and runs a text
// recognition engine over them one page at a time.
package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/packlist/internal/entity"
)

// DefaultScale renders at 216 DPI.
const DefaultScale = 3.0

// Processor drives Renderer, Preprocess and Engine over a document.
type Processor struct {
	renderer Renderer
	engine   Engine
	scale    float64
	logger   *slog.Logger
}

func NewProcessor(renderer Renderer, engine Engine, scale float64, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Processor{renderer: renderer, engine: engine, scale: scale, logger: logger}
}

// Run recognizes pages 0..pageCount-1 of pdf strictly in order. progress
// receives (page + fraction) / pageCount. A page that fails to render or
// recognize is logged and kept with empty text and zero confidence.
func (p *Processor) Run(ctx context.Context, pdf []byte, pageCount int, progress func(float64)) ([]entity.OcrResult, error) {
	if pageCount <= 0 {
		return nil, nil
	}
	tmpDir, err := os.MkdirTemp("", "packlist-ocr-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)
	path := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(path, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("stage pdf: %w", err)
	}

	results := make([]entity.OcrResult, 0, pageCount)
	total := float64(pageCount)
	for i := 0; i < pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		pageProgress := func(f float64) { report(progress, (float64(i)+f)/total) }

		res := entity.OcrResult{Page: i}
		img, err := p.renderer.Render(ctx, path, i+1, p.scale)
		if err == nil {
			var rec Recognition
			rec, err = p.Recognize(ctx, img, pageProgress)
			res.Text, res.Confidence = rec.Text, rec.Confidence
		}
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			p.logger.Warn("ocr.page.failed", "page", i+1, "error", err)
		}
		results = append(results, res)
		report(progress, float64(i+1)/total)
		p.logger.Debug("ocr.page.done", "page", i+1, "confidence", res.Confidence)
	}
	return results, nil
}

// Recognize preprocesses and recognizes a single image, e.g. a photo of a
// packing list.
func (p *Processor) Recognize(ctx context.Context, img image.Image, progress func(float64)) (Recognition, error) {
	rec, err := p.engine.Recognize(ctx, Preprocess(img), progress)
	if err != nil {
		return Recognition{}, err
	}
	rec.Text = Normalize(rec.Text)
	return rec, nil
}
