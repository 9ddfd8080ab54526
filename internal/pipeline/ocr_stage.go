package pipeline

import (
	"context"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/ingest"
	"github.com/joseph-ayodele/packlist/internal/ocr"
)

// recognize replaces every page of doc with OCR text and records the
// confidence assessment on res. Low confidence is a warning, not an error.
func (o *Orchestrator) recognize(ctx context.Context, doc *ingest.Document, data []byte, progress func(float64), res *Result) error {
	if doc.Format != constants.PDF {
		return common.InvalidArgumentErrorf("OCR applies to PDF files, got %s", doc.Format)
	}
	if o.OCR == nil {
		return common.InternalError("no OCR engine configured")
	}
	log := common.LoggerFrom(ctx, o.Logger)

	results, err := o.OCR.Run(ctx, data, doc.PageCount(), progress)
	if err != nil {
		return common.WrapError(err, "ocr")
	}
	pages := make([]ingest.Page, len(results))
	for i, r := range results {
		pages[i] = ingest.Page{Index: r.Page, Text: r.Text, Rows: ingest.SplitRows(r.Text)}
	}
	doc.Pages = pages

	a := ocr.Assess(results, o.cfg.MinOCRConfidence)
	res.OCRConfidence = a.Average
	res.OCRWarning = a.Warning()
	log.Info("pipeline.ocr.ok",
		"pages", len(results),
		"confidence", a.Average,
		"acceptable", a.Acceptable,
		"low_pages", a.LowPages,
	)
	return nil
}
