package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Recognition is an engine's text for one image and its mean word
// confidence on a 0-100 scale.
type Recognition struct {
	Text       string
	Confidence float64
}

// Engine recognizes text in a preprocessed page image. progress receives
// the fraction of the page done, 0..1.
type Engine interface {
	Recognize(ctx context.Context, img *image.Gray, progress func(float64)) (Recognition, error)
}

// TesseractConfig mirrors the tesseract CLI flags we pass.
type TesseractConfig struct {
	Bin         string // default "tesseract"
	Lang        string // default "eng"
	TessdataDir string
	PSM         int // 6 treats the page as a uniform block
}

// TesseractEngine runs tesseract in TSV mode once per page and rebuilds
// lines from the word table.
type TesseractEngine struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseractEngine(cfg TesseractConfig, runner Runner, logger *slog.Logger) *TesseractEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Bin == "" {
		cfg.Bin = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	return &TesseractEngine{cfg: cfg, runner: runner, logger: logger}
}

func (e *TesseractEngine) Recognize(ctx context.Context, img *image.Gray, progress func(float64)) (Recognition, error) {
	report(progress, 0)
	tmpDir, err := os.MkdirTemp("", "packlist-tess-*")
	if err != nil {
		return Recognition{}, err
	}
	defer os.RemoveAll(tmpDir)

	in := filepath.Join(tmpDir, "page.png")
	if err := writePNG(in, img); err != nil {
		return Recognition{}, err
	}
	report(progress, 0.1)

	args := []string{in, "stdout", "-l", e.cfg.Lang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := e.runner.Run(ctx, e.cfg.Bin, args...)
	if err != nil {
		return Recognition{}, fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	rec := ParseTSV(string(out))
	report(progress, 1)
	e.logger.Debug("ocr.tesseract.page", "chars", len(rec.Text), "confidence", rec.Confidence)
	return rec, nil
}

type tsvWord struct {
	line  [3]int // block, paragraph, line
	left  int
	right int
	h     int
	text  string
}

// ParseTSV rebuilds text from tesseract's TSV table. Words on one line are
// joined by a space, or two when the gap is wider than the line height so
// column breaks survive. The confidence is the mean over recognized words.
func ParseTSV(tsv string) Recognition {
	var (
		words    []tsvWord
		sum      float64
		n        int
		colsSeen bool
	)
	for _, ln := range strings.Split(tsv, "\n") {
		cols := strings.Split(strings.TrimRight(ln, "\r"), "\t")
		if len(cols) < 12 {
			continue
		}
		if !colsSeen && cols[0] == "level" {
			colsSeen = true
			continue
		}
		if cols[0] != "5" { // word level
			continue
		}
		text := strings.TrimSpace(cols[11])
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 || text == "" {
			continue
		}
		sum += conf
		n++
		left, _ := strconv.Atoi(cols[6])
		width, _ := strconv.Atoi(cols[8])
		height, _ := strconv.Atoi(cols[9])
		w := tsvWord{left: left, right: left + width, h: height, text: text}
		w.line[0], _ = strconv.Atoi(cols[2])
		w.line[1], _ = strconv.Atoi(cols[3])
		w.line[2], _ = strconv.Atoi(cols[4])
		words = append(words, w)
	}

	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			prev := words[i-1]
			switch {
			case prev.line != w.line:
				b.WriteByte('\n')
			case w.left-prev.right > max(prev.h, w.h):
				b.WriteString("  ")
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteString(w.text)
	}

	rec := Recognition{Text: b.String()}
	if n > 0 {
		rec.Confidence = sum / float64(n)
	}
	return rec
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode page image: %w", err)
	}
	return f.Close()
}

func report(progress func(float64), f float64) {
	if progress != nil {
		progress(f)
	}
}
