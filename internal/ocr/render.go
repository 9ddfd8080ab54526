package ocr

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// Renderer rasterizes one 1-based page of a PDF on disk.
type Renderer interface {
	Render(ctx context.Context, pdfPath string, page int, scale float64) (image.Image, error)
}

// PdftoppmRenderer shells out to poppler's pdftoppm.
type PdftoppmRenderer struct {
	bin    string
	runner Runner
	logger *slog.Logger
}

func NewPdftoppmRenderer(bin string, runner Runner, logger *slog.Logger) *PdftoppmRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	if bin == "" {
		bin = "pdftoppm"
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	return &PdftoppmRenderer{bin: bin, runner: runner, logger: logger}
}

// Render draws page at 72*scale DPI and flattens it onto white.
func (r *PdftoppmRenderer) Render(ctx context.Context, pdfPath string, page int, scale float64) (image.Image, error) {
	tmpDir, err := os.MkdirTemp("", "packlist-render-*")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			r.logger.Warn("ocr.render.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	dpi := strconv.Itoa(int(72 * scale))
	n := strconv.Itoa(page)
	// pdftoppm -f N -l N -r DPI -png -singlefile <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.bin, "-f", n, "-l", n, "-r", dpi, "-png", "-singlefile", pdfPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm page %d: %w: %s", page, err, truncate(string(errb), 512))
	}

	f, err := os.Open(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm produced no image for page %d: %w", page, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}
	return flatten(img), nil
}

// flatten composites img over an opaque white background.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}
