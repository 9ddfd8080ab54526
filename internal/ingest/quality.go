package ingest

import (
	"bytes"
	"fmt"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Quality describes how usable a PDF's native text is.
type Quality struct {
	PageCount       int     `json:"page_count"`
	CharsPerPage    float64 `json:"chars_per_page"`
	PrintableRatio  float64 `json:"printable_ratio"`
	HasImageStreams bool    `json:"has_image_streams"`
}

// NeedsOCR is true for image-backed pages with almost no text, or for text
// that is mostly garbage glyphs.
func (q *Quality) NeedsOCR() bool {
	return (q.CharsPerPage < 50 && q.HasImageStreams) || q.PrintableRatio < 0.85
}

// ProbePDF reads the PDF structure with pdfcpu and scores the extracted pages.
func ProbePDF(data []byte, pages []Page) (*Quality, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	q := &Quality{PageCount: ctx.PageCount, HasImageStreams: hasImageStreams(ctx)}
	var text []rune
	for _, p := range pages {
		text = append(text, []rune(p.Text)...)
	}
	if ctx.PageCount > 0 {
		q.CharsPerPage = float64(len(text)) / float64(ctx.PageCount)
	}
	q.PrintableRatio = printableRatio(text)
	return q, nil
}

func hasImageStreams(ctx *model.Context) bool {
	if ctx.Optimize != nil {
		for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
				return true
			}
		}
	}
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true
			}
		}
	}
	return false
}

// printableRatio is 1 for empty text. Private-use glyphs and U+FFFD count as
// garbage.
func printableRatio(text []rune) float64 {
	if len(text) == 0 {
		return 1
	}
	printable := 0
	for _, r := range text {
		if (r >= 0xE000 && r <= 0xF8FF) || r == unicode.ReplacementChar {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	return float64(printable) / float64(len(text))
}
