package ocr

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/packlist/internal/entity"
)

// DefaultMinConfidence is the mean confidence below which OCR text is
// surfaced with a warning.
const DefaultMinConfidence = 70.0

// Assessment summarizes per-page OCR confidence.
type Assessment struct {
	Average    float64
	Acceptable bool
	LowPages   []int // 1-based
	Threshold  float64
}

// Assess averages confidence across results. It never fails; low confidence
// only produces a warning.
func Assess(results []entity.OcrResult, threshold float64) Assessment {
	if threshold <= 0 {
		threshold = DefaultMinConfidence
	}
	a := Assessment{Threshold: threshold}
	if len(results) == 0 {
		return a
	}
	var sum float64
	for _, r := range results {
		sum += r.Confidence
		if r.Confidence < threshold {
			a.LowPages = append(a.LowPages, r.Page+1)
		}
	}
	a.Average = sum / float64(len(results))
	a.Acceptable = a.Average >= threshold
	return a
}

// Warning is empty when the assessment is acceptable.
func (a Assessment) Warning() string {
	if a.Acceptable {
		return ""
	}
	msg := fmt.Sprintf("OCR confidence %.0f%% is below %.0f%%; review extracted values", a.Average, a.Threshold)
	if len(a.LowPages) > 0 {
		pages := make([]string, len(a.LowPages))
		for i, p := range a.LowPages {
			pages[i] = fmt.Sprint(p)
		}
		msg += " (low pages: " + strings.Join(pages, ", ") + ")"
	}
	return msg
}
