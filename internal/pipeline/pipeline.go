// Package pipeline turns one uploaded file into a parsed packing list (or an
// invoice): read pages, optionally OCR them, pick the packing-list pages,
// extract, finalize and correlate any invoice found alongside.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/extract"
	"github.com/joseph-ayodele/packlist/internal/ingest"
)

// DefaultMinTextChars is the per-page character floor below which a PDF is
// treated as scanned.
const DefaultMinTextChars = 50

// DocumentReader splits raw bytes into pages.
type DocumentReader interface {
	Read(ctx context.Context, data []byte, name string) (*ingest.Document, error)
}

// OCRRunner recognizes pages 0..pageCount-1 of a PDF in order.
type OCRRunner interface {
	Run(ctx context.Context, pdf []byte, pageCount int, progress func(float64)) ([]entity.OcrResult, error)
}

// Config carries the pipeline defaults.
type Config struct {
	MinTextChars     int
	DefaultWarehouse string
	MinOCRConfidence float64
}

// ConfigFrom maps the application config onto the pipeline.
func ConfigFrom(cfg *common.Config) Config {
	return Config{
		MinTextChars:     cfg.Pipeline.MinTextChars,
		DefaultWarehouse: cfg.Pipeline.DefaultWarehouse,
		MinOCRConfidence: cfg.OCR.MinConfidence,
	}
}

// Options are per-call switches.
type Options struct {
	PO       string        // overrides any PO found in the document
	ForceOCR bool          // recognize pages even when native text exists
	Progress func(float64) // OCR progress, 0..1
}

// Result is what ParseFile produced. Exactly one of Document or Invoice is
// the primary output: Document for packing lists, Invoice when IsInvoice.
// A packing list may still carry the Invoice found in the same file.
type Result struct {
	Format        constants.FileFormat `json:"format"`
	Document      *entity.PackingList  `json:"document,omitempty"`
	Invoice       *entity.Invoice      `json:"invoice,omitempty"`
	IsInvoice     bool                 `json:"is_invoice"`
	NeedsOCR      bool                 `json:"needs_ocr"`
	OCRConfidence float64              `json:"ocr_confidence,omitempty"`
	OCRWarning    string               `json:"ocr_warning,omitempty"`
	Pages         []entity.PageScore   `json:"pages"`
	SelectedPages []int                `json:"selected_pages,omitempty"`
	Matched       int                  `json:"invoice_matches,omitempty"`
}

// Orchestrator wires the reader, OCR, extractors and finalizer together.
type Orchestrator struct {
	Logger    *slog.Logger
	Reader    DocumentReader
	OCR       OCRRunner
	Registry  *extract.Registry
	Finalizer *extract.Finalizer
	cfg       Config
}

// NewOrchestrator accepts a nil ocr (forced OCR then fails) and a nil lookup
// (no catalog overrides).
func NewOrchestrator(logger *slog.Logger, reader DocumentReader, ocr OCRRunner, registry *extract.Registry, lookup extract.Lookup, cfg Config) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if reader == nil {
		reader = ingest.NewReader(nil, nil, logger)
	}
	if registry == nil {
		registry = extract.NewRegistry(logger)
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = DefaultMinTextChars
	}
	if cfg.DefaultWarehouse == "" {
		cfg.DefaultWarehouse = "MAIN"
	}
	return &Orchestrator{
		Logger:    logger,
		Reader:    reader,
		OCR:       ocr,
		Registry:  registry,
		Finalizer: extract.NewFinalizer(lookup, logger),
		cfg:       cfg,
	}
}

// ParseFile reads data, recognizes it when asked to and extracts the packing
// list. A PDF without usable text comes back with NeedsOCR set and no error;
// the caller decides whether to retry with ForceOCR.
func (o *Orchestrator) ParseFile(ctx context.Context, data []byte, filename string, opts Options) (*Result, error) {
	ctx, _ = common.WithRunID(ctx)
	ctx = common.WithFilename(ctx, filename)
	log := common.LoggerFrom(ctx, o.Logger)

	if err := common.ValidateAndReturnError(common.NewValidator().Field("po", opts.PO, common.PONumber)); err != nil {
		return nil, err
	}

	doc, err := o.Reader.Read(ctx, data, filename)
	if err != nil {
		log.Error("pipeline.read.failed", "err", err)
		return nil, err
	}
	res := &Result{Format: doc.Format}
	log.Info("pipeline.read.ok", "format", doc.Format, "pages", doc.PageCount())

	switch {
	case opts.ForceOCR:
		if err := o.recognize(ctx, doc, data, opts.Progress, res); err != nil {
			log.Error("pipeline.ocr.failed", "err", err)
			return nil, err
		}
	case doc.Format == constants.PDF && o.thinText(doc):
		res.NeedsOCR = true
		log.Info("pipeline.needs_ocr", "min_text_chars", o.cfg.MinTextChars, "quality_needs_ocr", doc.Quality != nil && doc.Quality.NeedsOCR())
		return res, nil
	}

	if err := o.parse(ctx, doc, opts, res); err != nil {
		log.Warn("pipeline.parse.failed", "err", err)
		return nil, err
	}

	if res.IsInvoice {
		log.Info("pipeline.parse.invoice", "lines", invoiceLines(res.Invoice))
		return res, nil
	}
	log.Info("pipeline.parse.ok",
		"supplier", res.Document.Supplier,
		"strategy", res.Document.Strategy,
		"items", len(res.Document.Items),
		"selected_pages", res.SelectedPages,
		"invoice_matches", res.Matched,
	)
	return res, nil
}

// thinText reports whether no page has more than MinTextChars non-space
// characters.
func (o *Orchestrator) thinText(doc *ingest.Document) bool {
	for _, p := range doc.Pages {
		if nonSpace(p.Text) > o.cfg.MinTextChars {
			return false
		}
	}
	return true
}

func nonSpace(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
		default:
			n++
		}
	}
	return n
}

func invoiceLines(inv *entity.Invoice) int {
	if inv == nil {
		return 0
	}
	return len(inv.Lines)
}
