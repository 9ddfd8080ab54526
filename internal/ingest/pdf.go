package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// DefaultYTolerance groups glyphs whose baselines differ by less than this
// many points into one line.
const DefaultYTolerance = 2.0

// PDFText reads native page text with ledongthuc/pdf and rebuilds lines from
// glyph positions so table columns stay separated by wide gaps.
type PDFText struct {
	YTolerance float64
	logger     *slog.Logger
}

func NewPDFText(logger *slog.Logger) *PDFText {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFText{YTolerance: DefaultYTolerance, logger: logger}
}

// Pages returns one Page per PDF page, including empty ones. The reader
// panics on some malformed files; that is reported as an error.
func (p *PDFText) Pages(ctx context.Context, data []byte) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()
	rd, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	tol := p.YTolerance
	if tol <= 0 {
		tol = DefaultYTolerance
	}

	n := rd.NumPage()
	pages = make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := Page{Index: i - 1}
		pg := rd.Page(i)
		if !pg.V.IsNull() {
			text := norm.NFKC.String(strings.Join(layoutLines(pg.Content().Text, tol), "\n"))
			page.Text = text
			page.Rows = SplitRows(text)
		}
		pages = append(pages, page)
		p.logger.Debug("ingest.pdf.page", "page", i, "chars", len(page.Text))
	}
	return pages, nil
}

type glyphLine struct {
	y     float64
	items []pdf.Text
}

// layoutLines groups glyphs into lines top to bottom and joins each line left
// to right. A gap wider than the font size becomes a column break.
func layoutLines(texts []pdf.Text, tol float64) []string {
	var lines []glyphLine
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		placed := false
		for i := range lines {
			if math.Abs(lines[i].y-t.Y) < tol {
				lines[i].items = append(lines[i].items, t)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, glyphLine{y: t.Y, items: []pdf.Text{t}})
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		sort.SliceStable(ln.items, func(i, j int) bool { return ln.items[i].X < ln.items[j].X })
		var b strings.Builder
		end := 0.0
		for j, t := range ln.items {
			if j > 0 {
				size := t.FontSize
				if size <= 0 {
					size = 10
				}
				gap := t.X - end
				switch {
				case gap > size*1.2:
					b.WriteString("  ")
				case gap > size*0.25 && t.S != " " && !strings.HasSuffix(b.String(), " "):
					b.WriteByte(' ')
				}
			}
			b.WriteString(t.S)
			end = t.X + t.W
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}
