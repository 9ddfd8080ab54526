package units

import (
	"math"
	"strconv"
	"strings"
)

const mmPerInch = 25.4

// nominal imperial equivalents ordered against metric mill thicknesses
var mmThicknessTable = map[float64]float64{
	0.6:  0.0239,
	0.8:  0.0299,
	1.0:  0.0359,
	1.2:  0.0478,
	1.5:  0.0598,
	1.9:  0.0747,
	2.0:  0.0747,
	2.3:  0.0897,
	2.5:  0.0897,
	2.7:  0.1046,
	3.0:  0.1196,
	3.4:  0.1345,
	4.0:  0.1644,
	4.5:  0.1793,
	4.8:  0.1875,
	5.0:  0.1875,
	6.0:  0.25,
	6.35: 0.25,
	8.0:  0.3125,
	9.5:  0.375,
	10.0: 0.375,
	12.0: 0.5,
	12.7: 0.5,
	16.0: 0.625,
	19.0: 0.75,
	25.0: 1.0,
	25.4: 1.0,
}

// nominal widths and lengths for common metric sheet sizes
var mmDimensionTable = map[float64]float64{
	914:  36,
	1219: 48,
	1220: 48,
	1250: 48,
	1524: 60,
	1525: 60,
	1829: 72,
	1830: 72,
	2438: 96,
	2440: 96,
	3048: 120,
	3050: 120,
	3658: 144,
	3660: 144,
	6096: 240,
}

// MMToInches converts a metric thickness. Unlisted values fall back to mm/25.4.
func MMToInches(mm float64) float64 {
	if v, ok := mmThicknessTable[round(mm, 2)]; ok {
		return v
	}
	return round(mm/mmPerInch, 4)
}

// MMDimToInches converts a metric width or length to its nominal inch size.
func MMDimToInches(mm float64) float64 {
	if v, ok := mmDimensionTable[math.Round(mm)]; ok {
		return v
	}
	return round(mm/mmPerInch, 2)
}

// ParseMM parses "3.0", "3,0" or "3.0MM".
func ParseMM(s string) (float64, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimSpace(strings.TrimSuffix(s, "MM"))
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
