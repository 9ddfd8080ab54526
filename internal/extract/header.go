package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/packlist/internal/units"
)

// maxHeaderRow bounds how far down a grid the header row may sit.
const maxHeaderRow = 25

type column int

const (
	colContainer column = iota
	colBundle
	colSize
	colThickness
	colWidth
	colLength
	colPieces
	colHeat
	colGross
	colNet
	numColumns
)

// columnKeywords are matched as prefixes of the lower-cased words of a
// header cell. The first column in declaration order that matches wins.
var columnKeywords = [numColumns][]string{
	colContainer: {"container", "cntr"},
	colBundle:    {"bundle", "bdl", "lot", "tag", "serial"},
	colSize:      {"size", "dimension", "description", "spec"},
	colThickness: {"thick", "thk", "gauge", "gage", "ga"},
	colWidth:     {"width", "wdth", "wd"},
	colLength:    {"length", "lgth", "len"},
	colPieces:    {"pcs", "pc", "pieces", "qty", "quantity", "sheets", "shts"},
	colHeat:      {"heat", "ht", "coil"},
	colGross:     {"gross", "gw"},
	colNet:       {"net", "nw"},
}

var (
	reHeaderWord = regexp.MustCompile(`[a-z0-9]+`)
	reTotalRow   = regexp.MustCompile(`(?i)\b(?:sub)?totals?\b`)
)

// headerLayout is the column index per field (-1 when absent) and the mass
// unit of each weight column.
type headerLayout struct {
	row       int
	cols      [numColumns]int
	grossUnit units.MassUnit
	netUnit   units.MassUnit
}

func (h headerLayout) has(c column) bool { return h.cols[c] >= 0 }

func (h headerLayout) cell(row []string, c column) string {
	i := h.cols[c]
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// locateHeader finds the first row holding at least two of required.
func locateHeader(rows [][]string, required []string, def units.MassUnit) (headerLayout, bool) {
	for r := 0; r < len(rows) && r < maxHeaderRow; r++ {
		if countKeywords(rows[r], required) < 2 {
			continue
		}
		h := headerLayout{row: r, grossUnit: def, netUnit: def}
		for i := range h.cols {
			h.cols[i] = -1
		}
		for ci, cell := range rows[r] {
			words := headerWords(cell)
			c, ok := classifyHeader(words)
			if !ok || h.cols[c] >= 0 {
				continue
			}
			h.cols[c] = ci
			switch c {
			case colGross:
				h.grossUnit = unitFromWords(words, def)
			case colNet:
				h.netUnit = unitFromWords(words, def)
			}
		}
		if !h.has(colSize) && !(h.has(colThickness) && h.has(colWidth) && h.has(colLength)) {
			continue
		}
		return h, true
	}
	return headerLayout{}, false
}

func headerWords(cell string) []string {
	return reHeaderWord.FindAllString(strings.ToLower(cell), -1)
}

func classifyHeader(words []string) (column, bool) {
	for c := column(0); c < numColumns; c++ {
		for _, kw := range columnKeywords[c] {
			for _, w := range words {
				if strings.HasPrefix(w, kw) {
					return c, true
				}
			}
		}
	}
	return 0, false
}

func countKeywords(row []string, required []string) int {
	seen := map[string]bool{}
	for _, cell := range row {
		for _, w := range headerWords(cell) {
			for _, kw := range required {
				if strings.HasPrefix(w, kw) {
					seen[kw] = true
				}
			}
		}
	}
	return len(seen)
}

func unitFromWords(words []string, def units.MassUnit) units.MassUnit {
	for _, w := range words {
		switch w {
		case "mt", "ton", "tons", "tonnes":
			return units.MetricTons
		case "kg", "kgs":
			return units.Kilograms
		case "lb", "lbs":
			return units.Pounds
		}
	}
	return def
}

func isTotalRow(row []string) bool {
	for _, cell := range row {
		if reTotalRow.MatchString(cell) {
			return true
		}
	}
	return false
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// gridPieces reads a bare count or a labeled one such as "25 PCS". An empty
// cell is zero; any other cell without a count is not ok.
func gridPieces(cell string) (int, bool) {
	if cell == "" {
		return 0, true
	}
	if n, err := strconv.Atoi(strings.ReplaceAll(cell, ",", "")); err == nil && n >= 0 {
		return n, true
	}
	if m := rePieces.FindStringSubmatch(cell); m != nil {
		return atoi(firstNonEmpty(m[1], m[2])), true
	}
	return 0, false
}

// gridWeight reads a weight cell in pounds. A bare number takes the column
// unit; "2.010 MT" or "4,960 LBS" carry their own.
func gridWeight(cell string, unit units.MassUnit) (float64, bool) {
	if cell == "" {
		return 0, true
	}
	if v, ok := units.ParseWeight(cell); ok {
		return units.ToLbs(v, unit), true
	}
	if m := reWeight.FindStringSubmatch(cell); m != nil {
		if v, ok := units.ParseWeight(m[2]); ok {
			return units.ToLbs(v, units.ParseMassUnit(m[3])), true
		}
	}
	return 0, false
}

func gridHeat(cell string) string {
	if m := reHeat.FindStringSubmatch(cell); m != nil {
		return strings.ToUpper(firstNonEmpty(m[1], m[2]))
	}
	return cell
}
