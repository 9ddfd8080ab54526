package units

import (
	"strconv"
	"strings"
)

// manufacturer's standard gauge for uncoated sheet steel, in inches
var gaugeTable = map[int]float64{
	7:  0.1793,
	8:  0.1644,
	9:  0.1495,
	10: 0.1345,
	11: 0.1196,
	12: 0.1046,
	13: 0.0897,
	14: 0.0747,
	15: 0.0673,
	16: 0.0598,
	17: 0.0538,
	18: 0.0478,
	19: 0.0418,
	20: 0.0359,
	21: 0.0329,
	22: 0.0299,
	23: 0.0269,
	24: 0.0239,
	25: 0.0209,
	26: 0.0179,
	27: 0.0164,
	28: 0.0149,
	29: 0.0135,
	30: 0.0120,
}

// GaugeToDecimal accepts "14GA", "14 GA", "14GAUGE", "#14" and bare "14".
func GaugeToDecimal(code string) (float64, bool) {
	s := strings.ToUpper(strings.TrimSpace(code))
	s = strings.TrimPrefix(s, "#")
	for _, suffix := range []string{"GAUGE", "GA", "G"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	v, ok := gaugeTable[n]
	return v, ok
}

// GaugeCodes lists the supported gauges in ascending order.
func GaugeCodes() []int {
	out := make([]int, 0, len(gaugeTable))
	for g := 7; g <= 30; g++ {
		if _, ok := gaugeTable[g]; ok {
			out = append(out, g)
		}
	}
	return out
}
