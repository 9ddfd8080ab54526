package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DigitConfusion maps a glyph OCR commonly reads in place of a digit.
// Interior positions of a numeric token are always repaired; Edge allows the
// repair at the start or end of the token as well.
type DigitConfusion struct {
	From rune
	To   rune
	Edge bool
}

// DigitConfusions is applied inside numeric tokens only.
var DigitConfusions = []DigitConfusion{
	{From: 'O', To: '0', Edge: true},
	{From: 'o', To: '0', Edge: true},
	{From: 'l', To: '1', Edge: true},
	{From: 'I', To: '1', Edge: true},
	{From: '|', To: '1', Edge: true},
	{From: 'S', To: '5'},
	{From: 'B', To: '8'},
}

// Rewrite is a literal pattern/replacement pair.
type Rewrite struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// Rewrites run after digit repair, in order.
var Rewrites = []Rewrite{
	{Name: "inch-quotes", Pattern: regexp.MustCompile(`[”“″]|''`), Replace: `"`},
	{Name: "lbs-label", Pattern: regexp.MustCompile(`\b(?:LB5|L85|1B5|IBS|1BS|LBs)\b`), Replace: "LBS"},
	{Name: "pcs-label", Pattern: regexp.MustCompile(`\b(?:PC5|PCs)\b`), Replace: "PCS"},
	{Name: "mt-label", Pattern: regexp.MustCompile(`(\d)[ \t]*(?:M[ \t]T|NT|M1)\b`), Replace: "${1} MT"},
	{Name: "gauge-label", Pattern: regexp.MustCompile(`\b(\d{1,2})[ \t]?(?:6A|G4|6a)\b`), Replace: "${1}GA"},
	{Name: "split-decimal", Pattern: regexp.MustCompile(`(\d)[ \t]+\.[ \t]*(\d)`), Replace: "${1}.${2}"},
	{Name: "split-decimal-tail", Pattern: regexp.MustCompile(`(\d)\.[ \t]+(\d)`), Replace: "${1}.${2}"},
	{Name: "bare-decimal", Pattern: regexp.MustCompile(`(?m)(^|[ \t(])\.[ \t]+(\d{2,4})`), Replace: "${1}.${2}"},
	{Name: "comma-decimal", Pattern: regexp.MustCompile(`(?m)(^|[ \t(])0,(\d{2,4})\b`), Replace: "${1}0.${2}"},
}

// ThicknessRepairs maps thickness tokens that lost part of a fraction to
// the value they most likely were. Only used when the parsed token is
// implausible for the supplier.
var ThicknessRepairs = map[string]float64{
	"4":   0.25,
	"/4":  0.25,
	"8":   0.375,
	"/8":  0.375,
	"2":   0.5,
	"/2":  0.5,
	"16":  0.1875,
	"/16": 0.1875,
}

var reNumericToken = regexp.MustCompile(`[0-9OoIlSB|]+`)

// Clean repairs OCR character confusions in text so the permissive size
// and field patterns can match.
func Clean(text string) string {
	text = fixDigits(text)
	for _, rw := range Rewrites {
		text = rw.Pattern.ReplaceAllString(text, rw.Replace)
	}
	return text
}

// RepairThickness looks tok up in ThicknessRepairs.
func RepairThickness(tok string) (float64, bool) {
	key := strings.Join(strings.Fields(strings.Trim(tok, `"`)), "")
	v, ok := ThicknessRepairs[key]
	return v, ok
}

func fixDigits(text string) string {
	locs := reNumericToken.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range locs {
		b.WriteString(text[last:loc[0]])
		b.WriteString(fixToken(text, loc[0], loc[1]))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// fixToken rewrites text[start:end] when it holds at least one real digit.
func fixToken(text string, start, end int) string {
	tok := text[start:end]
	first := strings.IndexFunc(tok, unicode.IsDigit)
	if first < 0 {
		return tok
	}
	lastDigit := strings.LastIndexFunc(tok, unicode.IsDigit)

	// A letter glued to the front means a word such as PO or NO, not a number.
	leadOK := start == 0 || !isLetterBefore(text, start)
	trailOK := end == len(text) || !isLetterAt(text, end) || hasUnitAt(text, end)

	out := []byte(tok)
	for i := 0; i < len(out); i++ {
		c := rune(out[i])
		if c >= '0' && c <= '9' {
			continue
		}
		interior := i > first && i < lastDigit
		for _, dc := range DigitConfusions {
			if dc.From != c {
				continue
			}
			switch {
			case interior:
				out[i] = byte(dc.To)
			case i < first && dc.Edge && leadOK:
				out[i] = byte(dc.To)
			case i > lastDigit && dc.Edge && trailOK:
				out[i] = byte(dc.To)
			}
		}
	}
	return string(out)
}

func isLetterBefore(text string, pos int) bool {
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return unicode.IsLetter(r)
}

func isLetterAt(text string, pos int) bool {
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return unicode.IsLetter(r)
}

func hasUnitAt(text string, pos int) bool {
	rest := strings.ToUpper(text[pos:min(pos+2, len(text))])
	return rest == "GA" || rest == "MM"
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(s, ",", "")))
	if err != nil {
		return 0
	}
	return n
}
