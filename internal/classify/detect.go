package classify

import (
	"regexp"
	"strings"
)

var (
	rePO = regexp.MustCompile(`(?i)(?:\bP\.\s?O\.?|\bPO\b|\bPURCHASE\s+ORDER\b)(?:\s*(?:NO\.?|#|NUMBER))?\s*[:#.]?\s*([A-Z0-9][A-Z0-9\-/]{2,31})`)

	reCity = regexp.MustCompile(`(?i)\b(HOUSTON|CHICAGO|LOS\s+ANGELES|ATLANTA)\b`)
)

var warehouses = map[string]string{
	"HOUSTON":     "HOU",
	"CHICAGO":     "CHI",
	"LOS ANGELES": "LAX",
	"ATLANTA":     "ATL",
}

// DetectPO returns the first purchase-order reference whose value contains a
// digit, so "PO BOX" and similar are skipped.
func DetectPO(text string) (string, bool) {
	for _, m := range rePO.FindAllStringSubmatch(text, -1) {
		v := strings.ToUpper(strings.Trim(m[1], "-/"))
		if strings.ContainsAny(v, "0123456789") {
			return v, true
		}
	}
	return "", false
}

// DetectWarehouse maps the first ship-to city in text to a warehouse code.
func DetectWarehouse(text string) (string, bool) {
	m := reCity.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	city := strings.Join(strings.Fields(strings.ToUpper(m[1])), " ")
	code, ok := warehouses[city]
	return code, ok
}
