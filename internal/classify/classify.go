// Package classify scores text blocks for how much they look like a packing
// list, picks the best page among many and detects the supplier grammar.
package classify

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/packlist/internal/entity"
)

// Page acceptance thresholds. A page is accepted only when its score is
// strictly above a threshold.
const (
	HighThreshold = 40.0
	LowThreshold  = 20.0
)

const (
	titleBonus        = 30.0
	indicatorBonus    = 4.0
	invoicePenalty    = 10.0
	certPenalty       = 10.0
	numberLinesBonus  = 10.0
	structureLowTier  = 5.0
	structureHighTier = 15.0
)

var (
	reTitle = regexp.MustCompile(`(?i)\b(?:packing\s+list|packing\s+slip|packlist|shipping\s+list|bundle\s+list|loading\s+list)\b`)

	reIndicator = regexp.MustCompile(`(?i)\b(?:size|weight|gross|net|bundle|heat|coil|pcs|pieces|lot|thickness|width|length|gauge)s?\b`)
	reInvoice   = regexp.MustCompile(`(?i)\b(?:invoice|unit\s+price|amount\s+due|bill\s+to|remit|payment\s+terms|price)\b`)
	reCert      = regexp.MustCompile(`(?i)\b(?:certificate|mill\s+test|chemical|tensile|yield|elongation)\b`)

	reNumberLine = regexp.MustCompile(`\d[^\d\n]+\d`)

	// structural fingerprints of the known grammars
	structural = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{6}-\d{2}\b`),
		regexp.MustCompile(`\b\d{1,2}(?:[.,]\d+)?\s*[xX×*]\s*\d{3,4}\s*[xX×*]\s*\d{3,5}\b`),
		regexp.MustCompile(`(?i)\(\s*(?:\d{1,2}\s*GA|\d+/\d+|\d*\.\d+)"?\s*[xX×]`),
		regexp.MustCompile(`(?:^|\s)0?\.\d{3,4}"?\s*[xX×]\s*\d`),
	}
)

// Score is an additive keyword and pattern score; higher means more packing-list-like.
func Score(text string) float64 {
	var score float64
	if reTitle.MatchString(text) {
		score += titleBonus
	}
	score += indicatorBonus * float64(len(reIndicator.FindAllStringIndex(text, -1)))
	score -= invoicePenalty * float64(len(reInvoice.FindAllStringIndex(text, -1)))
	score -= certPenalty * float64(len(reCert.FindAllStringIndex(text, -1)))

	numberLines := 0
	for _, ln := range strings.Split(text, "\n") {
		if reNumberLine.MatchString(ln) {
			numberLines++
		}
	}
	if numberLines >= 3 && numberLines <= 100 {
		score += numberLinesBonus
	}

	for _, re := range structural {
		switch n := len(re.FindAllStringIndex(text, -1)); {
		case n >= 3:
			score += structureHighTier
		case n >= 1:
			score += structureLowTier
		}
	}
	return score
}

// ScorePages scores every page in order.
func ScorePages(pages []string) []entity.PageScore {
	out := make([]entity.PageScore, len(pages))
	for i, p := range pages {
		s := Score(p)
		out[i] = entity.PageScore{Index: i, Score: s, IsPackingList: s > LowThreshold, Text: p}
	}
	return out
}

// Selection rules, reported for logging and warnings.
const (
	RuleSingle   = "single"
	RuleHigh     = "high"
	RuleLow      = "low"
	RuleFallback = "fallback"
)

// Selection is the chosen page and the rule that accepted it.
type Selection struct {
	entity.PageScore
	Rule string
}

// SelectBestPage never returns "no candidate" while at least one page exists.
// A single page is accepted regardless of score; otherwise the best page
// above the high threshold wins, then the low threshold, then the best
// overall. Ties keep the earliest page.
func SelectBestPage(pages []string) (Selection, bool) {
	if len(pages) == 0 {
		return Selection{}, false
	}
	scores := ScorePages(pages)
	if len(scores) == 1 {
		return Selection{PageScore: scores[0], Rule: RuleSingle}, true
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	switch {
	case best.Score > HighThreshold:
		return Selection{PageScore: best, Rule: RuleHigh}, true
	case best.Score > LowThreshold:
		return Selection{PageScore: best, Rule: RuleLow}, true
	default:
		return Selection{PageScore: best, Rule: RuleFallback}, true
	}
}
