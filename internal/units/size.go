package units

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/packlist/internal/entity"
)

var (
	reParenGroup = regexp.MustCompile(`\(([^)]*)\)`)
	reSizeSep    = regexp.MustCompile(`\s*[xX×*]\s*`)
)

// NewSize builds a ParsedSize with the canonical thickness string.
func NewSize(thickness, width, length float64) entity.ParsedSize {
	return entity.ParsedSize{
		Thickness:          thickness,
		Width:              width,
		Length:             length,
		ThicknessFormatted: FormatThickness(thickness),
	}
}

// ParseThickness handles gauges, fractions, decimals and millimeters.
func ParseThickness(tok string) (float64, bool) {
	s := strings.ToUpper(cleanToken(tok))
	switch {
	case s == "":
		return 0, false
	case strings.HasPrefix(s, "#") || strings.HasSuffix(s, "GA") || strings.HasSuffix(s, "GAUGE"):
		return GaugeToDecimal(s)
	case strings.HasSuffix(s, "MM"):
		mm, ok := ParseMM(s)
		if !ok {
			return 0, false
		}
		return MMToInches(mm), true
	}
	return FractionToDecimal(s)
}

// ParseDimension handles inch widths and lengths such as 48, 48", 48-1/2 or 1219MM.
func ParseDimension(tok string) (float64, bool) {
	s := strings.ToUpper(cleanToken(tok))
	if strings.HasSuffix(s, "MM") {
		mm, ok := ParseMM(s)
		if !ok {
			return 0, false
		}
		return MMDimToInches(mm), true
	}
	return FractionToDecimal(s)
}

// ParseSize parses a thickness x width x length token. A parenthesized
// imperial size wins over the metric size it annotates.
func ParseSize(raw string) (entity.ParsedSize, bool) {
	s := strings.TrimSpace(raw)
	if m := reParenGroup.FindStringSubmatch(s); m != nil {
		if size, ok := parseTriple(m[1], false); ok {
			return size, true
		}
		s = strings.TrimSpace(reParenGroup.ReplaceAllString(s, " "))
	}
	up := strings.ToUpper(s)
	metric := strings.Contains(up, "MM")
	return parseTriple(strings.ReplaceAll(up, "MM", ""), metric)
}

func parseTriple(s string, metric bool) (entity.ParsedSize, bool) {
	parts := reSizeSep.Split(strings.TrimSpace(s), -1)
	if len(parts) < 3 {
		return entity.ParsedSize{}, false
	}
	t := lastThicknessField(parts[0])
	w := firstField(parts[1])
	l := firstField(parts[2])
	if t == "" || w == "" || l == "" {
		return entity.ParsedSize{}, false
	}

	if !metric {
		if wv, ok := FractionToDecimal(w); ok && wv > 200 {
			metric = true
		}
	}
	if metric {
		tv, ok1 := ParseMM(t)
		wv, ok2 := ParseMM(w)
		lv, ok3 := ParseMM(l)
		if !ok1 || !ok2 || !ok3 {
			return entity.ParsedSize{}, false
		}
		return NewSize(MMToInches(tv), MMDimToInches(wv), MMDimToInches(lv)), true
	}

	th, ok1 := ParseThickness(t)
	wv, ok2 := ParseDimension(w)
	lv, ok3 := ParseDimension(l)
	if !ok1 || !ok2 || !ok3 {
		return entity.ParsedSize{}, false
	}
	return NewSize(th, wv, lv), true
}

// lastThicknessField keeps "14 GA" together and drops leading labels like "SIZE:".
func lastThicknessField(s string) string {
	f := strings.Fields(s)
	switch {
	case len(f) == 0:
		return ""
	case len(f) >= 2 && isGaugeSuffix(f[len(f)-1]):
		return f[len(f)-2] + f[len(f)-1]
	case len(f) >= 2 && isWhole(f[len(f)-2]) && strings.Contains(f[len(f)-1], "/"):
		return f[len(f)-2] + " " + f[len(f)-1]
	}
	return f[len(f)-1]
}

func firstField(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	if len(f) >= 2 && isWhole(f[0]) && strings.Contains(f[1], "/") {
		return f[0] + " " + f[1]
	}
	return f[0]
}

func isGaugeSuffix(s string) bool {
	s = strings.ToUpper(s)
	return s == "GA" || s == "GAUGE"
}

func isWhole(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
