package extract

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/scan"
	"github.com/joseph-ayodele/packlist/internal/units"
)

// Northern Steel Mills: metric sizes with the imperial size in parentheses,
// bundle numbers first on the line, weights in metric tons.
var grammarA = &grammar{
	supplier:       constants.SupplierA,
	headerKeywords: []string{"bundle", "size", "pcs", "gross", "net", "heat"},
	strictSize:     regexp.MustCompile(`(?i)\b(\d{1,2}(?:[.,]\d{1,2})?)[ \t]*(?:MM)?[ \t]*[xX×][ \t]*(\d{3,4})[ \t]*(?:MM)?[ \t]*[xX×][ \t]*(\d{3,5})[ \t]*(?:MM)?(?:[ \t]*\(([^)\n]*)\))?`),
	looseSize:      regexp.MustCompile(`(?i)(\d{1,2}(?:[ \t]*[.,][ \t]*\d{1,2})?)[ \t]*(?:MM)?[ \t]*[xX×*][ \t]*(\d{3,4})[ \t]*(?:MM)?[ \t]*[xX×*][ \t]*(\d{3,5})[ \t]*(?:MM)?(?:[ \t]*\(([^)\n]*)\))?`),
	parseStrict:    parseMetricWithImperial(false),
	parseLoose:     parseMetricWithImperial(true),
	anchor:         regexp.MustCompile(`\b(\d{6}-\d{2})\b`),
	unit:           units.MetricTons,
	limits: units.Limits{
		MinThickness: 0.01, MaxThickness: 0.5,
		MinWidth: 12, MaxWidth: 96,
		MinLength: 24, MaxLength: 480,
		WidthNotOverLength: true,
	},
	window: 160,
}

// Pacific Coil Processing: gauge sheet, tag numbers, weights in pounds.
var grammarB = &grammar{
	supplier:       constants.SupplierB,
	headerKeywords: []string{"tag", "size", "gauge", "pcs", "gross", "net", "heat", "width", "length"},
	strictSize:     regexp.MustCompile(`(?i)\b(\d{1,2})[ \t]*GA[ \t]*[xX×][ \t]*(\d{2,3}(?:\.\d+)?)[ \t]*"?[ \t]*[xX×][ \t]*(\d{2,4}(?:\.\d+)?)[ \t]*"?`),
	looseSize:      regexp.MustCompile(`(?i)\b(\d{1,2})[ \t]*(?:G[ \t]*A?)?[ \t]*"?[ \t]*[xX×*][ \t]*(\d{2,3}(?:\.\d+)?)[ \t]*"?[ \t]*[xX×*][ \t]*(\d{2,4}(?:\.\d+)?)[ \t]*"?`),
	parseStrict:    parseGauge,
	parseLoose:     parseGauge,
	anchor:         regexp.MustCompile(`(?i)\bTAG[ \t]*(?:NO\.?|#)?[ \t]*(\d{5,6})\b`),
	unit:           units.Pounds,
	limits: units.Limits{
		MinThickness: 0.01, MaxThickness: 0.2,
		MinWidth: 12, MaxWidth: 72,
		MinLength: 24, MaxLength: 240,
	},
	window:    140,
	bareGauge: true,
}

// Gulf Plate & Supply: fractional or decimal inch plate, size before the
// lot number, container headers between groups, weights in pounds.
var grammarC = &grammar{
	supplier:       constants.SupplierC,
	headerKeywords: []string{"lot", "size", "thickness", "width", "length", "pcs", "gross", "net", "heat"},
	strictSize:     regexp.MustCompile(`(?im)(?:^|[^\w./])((?:\d+-)?\d+/\d+|\d*\.\d{2,4}|\d+)[ \t]*"?[ \t]*[xX×][ \t]*(\d{2,3}(?:\.\d+)?)[ \t]*"?[ \t]*[xX×][ \t]*(\d{2,3}(?:\.\d+)?)[ \t]*"?`),
	looseSize:      regexp.MustCompile(`(?im)(?:^|[^\w./])((?:\d+[ \t]*-[ \t]*)?\d+[ \t]*/[ \t]*\d+|/[ \t]*\d{1,2}|\d{0,2}[ \t]*\.[ \t]*\d{2,4}|\d{1,2})[ \t]*"?[ \t]*[xX×*][ \t]*(\d{2,3}(?:\.\d+)?)[ \t]*"?[ \t]*[xX×*][ \t]*(\d{2,3}(?:\.\d+)?)[ \t]*"?`),
	parseStrict:    parseInchPlate(false),
	parseLoose:     parseInchPlate(true),
	anchor:         regexp.MustCompile(`(?i)\b(?:LOT[ \t]*(?:NO\.?|#)?[ \t]*)?(\d{5}-\d{3})\b`),
	unit:           units.Pounds,
	limits: units.Limits{
		MinThickness: 0.125, MaxThickness: 3,
		MinWidth: 24, MaxWidth: 120,
		MinLength: 48, MaxLength: 600,
		WidthNotOverLength: true,
	},
	window: 160,
}

var grammars = []*grammar{grammarA, grammarB, grammarC}

var reTripleSep = regexp.MustCompile(`[ \t]*[xX×*][ \t]*`)

// parseMetricWithImperial prefers the parenthesized imperial size and
// converts the metric triple otherwise.
func parseMetricWithImperial(allowRepair bool) sizeParse {
	return func(m scan.Match, limits units.Limits) (entity.ParsedSize, bool, bool) {
		if paren := m.Group(4); paren != "" {
			if size, ok := units.ParseSize(paren); ok && units.IsValidDimensions(size, limits) {
				return size, false, true
			}
			if allowRepair {
				if size, ok := repairTriple(paren, limits); ok {
					return size, true, true
				}
			}
		}
		t, ok1 := units.ParseMM(strings.ReplaceAll(strings.Join(strings.Fields(m.Group(1)), ""), ",", "."))
		w, ok2 := units.ParseMM(m.Group(2))
		l, ok3 := units.ParseMM(m.Group(3))
		if !ok1 || !ok2 || !ok3 {
			return entity.ParsedSize{}, false, false
		}
		return units.NewSize(units.MMToInches(t), units.MMDimToInches(w), units.MMDimToInches(l)), false, true
	}
}

func parseGauge(m scan.Match, _ units.Limits) (entity.ParsedSize, bool, bool) {
	t, ok1 := units.GaugeToDecimal(m.Group(1))
	w, ok2 := units.ParseDimension(m.Group(2))
	l, ok3 := units.ParseDimension(m.Group(3))
	if !ok1 || !ok2 || !ok3 {
		return entity.ParsedSize{}, false, false
	}
	return units.NewSize(t, w, l), false, true
}

func parseInchPlate(allowRepair bool) sizeParse {
	return func(m scan.Match, limits units.Limits) (entity.ParsedSize, bool, bool) {
		t, repaired, ok1 := thicknessOrRepair(m.Group(1), limits, allowRepair)
		w, ok2 := units.ParseDimension(m.Group(2))
		l, ok3 := units.ParseDimension(m.Group(3))
		if !ok1 || !ok2 || !ok3 {
			return entity.ParsedSize{}, false, false
		}
		return units.NewSize(t, w, l), repaired, true
	}
}

// repairTriple handles an imperial triple whose thickness lost characters.
func repairTriple(s string, limits units.Limits) (entity.ParsedSize, bool) {
	parts := reTripleSep.Split(strings.TrimSpace(s), -1)
	if len(parts) < 3 {
		return entity.ParsedSize{}, false
	}
	t, repaired, ok := thicknessOrRepair(parts[0], limits, true)
	w, okW := units.ParseDimension(parts[1])
	l, okL := units.ParseDimension(parts[2])
	if !ok || !repaired || !okW || !okL {
		return entity.ParsedSize{}, false
	}
	size := units.NewSize(t, w, l)
	return size, units.IsValidDimensions(size, limits)
}
