package units

import (
	"math"
	"strconv"
	"strings"
)

const (
	LbsPerMetricTon = 2204.62
	LbsPerKg        = 2.20462
)

// MassUnit is the unit a supplier reports weights in.
type MassUnit int

const (
	Pounds MassUnit = iota
	MetricTons
	Kilograms
)

func (u MassUnit) String() string {
	switch u {
	case MetricTons:
		return "MT"
	case Kilograms:
		return "KG"
	default:
		return "LBS"
	}
}

// ParseMassUnit maps a unit label to a MassUnit; unknown labels are pounds.
func ParseMassUnit(label string) MassUnit {
	switch strings.ToUpper(strings.TrimSpace(strings.Trim(label, ".()"))) {
	case "MT", "T", "TON", "TONS", "TONNE", "TONNES", "M/T":
		return MetricTons
	case "KG", "KGS", "KILOS":
		return Kilograms
	default:
		return Pounds
	}
}

// MtToLbs keeps full precision; use RoundLbs for totals.
func MtToLbs(mt float64) float64 { return mt * LbsPerMetricTon }

func LbsToMt(lbs float64) float64 { return lbs / LbsPerMetricTon }

func RoundLbs(lbs float64) float64 { return math.Round(lbs) }

// ToLbs converts v in unit to pounds.
func ToLbs(v float64, unit MassUnit) float64 {
	switch unit {
	case MetricTons:
		return MtToLbs(v)
	case Kilograms:
		return v * LbsPerKg
	default:
		return v
	}
}

// ParseWeight parses "5,320", "1.876" or "5 320" into a number.
func ParseWeight(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", " ", "").Replace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
