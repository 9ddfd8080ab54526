// Package ingest turns input files into per-page text and row grids, and
// finds or watches for new input files on disk.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/common"
)

// Page is one PDF page or one spreadsheet sheet.
type Page struct {
	Index int        `json:"index"`
	Name  string     `json:"name,omitempty"` // sheet name
	Text  string     `json:"text"`
	Rows  [][]string `json:"rows,omitempty"`
}

// Document is a file split into pages.
type Document struct {
	Name    string               `json:"name"`
	Format  constants.FileFormat `json:"format"`
	Pages   []Page               `json:"pages"`
	Quality *Quality             `json:"quality,omitempty"`
}

// Texts returns page texts in page order.
func (d *Document) Texts() []string {
	out := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		out[i] = p.Text
	}
	return out
}

// PDFSource extracts native page text from a PDF.
type PDFSource interface {
	Pages(ctx context.Context, data []byte) ([]Page, error)
}

// SheetSource returns one page per sheet of a workbook or CSV file.
type SheetSource interface {
	Sheets(ctx context.Context, data []byte, format constants.FileFormat) ([]Page, error)
}

// Reader dispatches a file to the PDF or spreadsheet source.
type Reader struct {
	pdf    PDFSource
	sheets SheetSource
	logger *slog.Logger
}

// NewReader uses the default sources when pdf or sheets is nil.
func NewReader(pdf PDFSource, sheets SheetSource, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if pdf == nil {
		pdf = NewPDFText(logger)
	}
	if sheets == nil {
		sheets = SheetReader{}
	}
	return &Reader{pdf: pdf, sheets: sheets, logger: logger}
}

// Read splits data into pages. The format is sniffed from the content first
// and the file extension second.
func (r *Reader) Read(ctx context.Context, data []byte, name string) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", common.ErrUnreadable, name)
	}
	format := constants.SniffFormat(data, filepath.Ext(name))
	doc := &Document{Name: name, Format: format}
	logger := common.LoggerFrom(ctx, r.logger).With("file", name, "format", format)

	switch format {
	case constants.PDF:
		pages, textErr := r.pdf.Pages(ctx, data)
		q, qErr := ProbePDF(data, pages)
		if qErr != nil {
			logger.Warn("ingest.pdf.quality_failed", "error", qErr)
		} else {
			doc.Quality = q
		}
		if textErr != nil {
			// scanned files sometimes defeat the text reader but still have pages to OCR
			if q == nil || q.PageCount == 0 {
				return nil, fmt.Errorf("%w: %v", common.ErrUnreadable, textErr)
			}
			logger.Warn("ingest.pdf.text_failed", "error", textErr, "pages", q.PageCount)
			pages = make([]Page, q.PageCount)
			for i := range pages {
				pages[i].Index = i
			}
		}
		doc.Pages = pages
	case constants.SPREADSHEET, constants.CSV:
		pages, err := r.sheets.Sheets(ctx, data, format)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrUnreadable, err)
		}
		doc.Pages = pages
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, name)
	}

	logger.Debug("ingest.read.ok", "pages", len(doc.Pages))
	return doc, nil
}

// PageCount is the number of pages, preferring the structural count for PDFs.
func (d *Document) PageCount() int {
	if d.Quality != nil && d.Quality.PageCount > len(d.Pages) {
		return d.Quality.PageCount
	}
	return len(d.Pages)
}
