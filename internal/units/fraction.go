// Package units converts raw thickness, size and weight tokens into canonical
// decimal-inch dimensions and pounds, and builds inventory and lot identifiers.
package units

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reMixedFraction = regexp.MustCompile(`^(\d+)\s*[- ]\s*(\d+)\s*/\s*(\d+)$`)
	reFraction      = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
	reInchSuffix    = regexp.MustCompile(`(?i)\s*(?:"|''|”|“|in\.?|inch(?:es)?)\s*$`)
)

// cleanToken strips quotes, inch suffixes and surrounding space.
func cleanToken(s string) string {
	s = strings.TrimSpace(s)
	s = reInchSuffix.ReplaceAllString(s, "")
	s = strings.Trim(s, `"'”“ `)
	return strings.TrimSpace(s)
}

// FractionToDecimal converts "1/4", "1-1/4", "1 1/4" (quotes allowed) to inches.
// Whole numbers and plain decimals are accepted as well.
func FractionToDecimal(s string) (float64, bool) {
	s = cleanToken(s)
	if s == "" {
		return 0, false
	}
	if m := reMixedFraction.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.Atoi(m[1])
		num, _ := strconv.Atoi(m[2])
		den, _ := strconv.Atoi(m[3])
		if den == 0 || num >= den {
			return 0, false
		}
		return round(float64(whole)+float64(num)/float64(den), 4), true
	}
	if m := reFraction.FindStringSubmatch(s); m != nil {
		num, _ := strconv.Atoi(m[1])
		den, _ := strconv.Atoi(m[2])
		if den == 0 || num == 0 {
			return 0, false
		}
		return round(float64(num)/float64(den), 4), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
