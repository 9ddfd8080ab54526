package extract

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/scan"
	"github.com/joseph-ayodele/packlist/internal/units"
)

// sizeParse turns a size match into dimensions; repaired reports that the
// thickness came from ThicknessRepairs.
type sizeParse func(m scan.Match, limits units.Limits) (size entity.ParsedSize, repaired bool, ok bool)

// grammar is everything supplier specific. The strategies themselves are
// shared and driven by these fields.
type grammar struct {
	supplier       constants.Supplier
	headerKeywords []string
	strictSize     *regexp.Regexp
	looseSize      *regexp.Regexp
	parseStrict    sizeParse
	parseLoose     sizeParse
	anchor         *regexp.Regexp // group 1 is the bundle/lot/tag identifier
	unit           units.MassUnit
	limits         units.Limits
	window         int
	bareGauge      bool // grid thickness cells hold gauge numbers
}

var (
	rePieces    = regexp.MustCompile(`(?i)\b(\d{1,4})[ \t]*(?:PCS|PC|PIECES|SHTS|SHEETS)\b|\b(?:PCS|PIECES|QTY)[ \t]*[:.#]?[ \t]*(\d{1,4})\b`)
	reHeat      = regexp.MustCompile(`(?i)\b(?:HEAT|HT|H/N)[ \t]*(?:NO\.?|#)?[ \t]*[:.]?[ \t]*([A-Z0-9]{4,12})\b|\b(H\d{6,8})\b`)
	reWeight    = regexp.MustCompile(`(?i)(?:\b(GROSS|NET|G/W|N/W)[ \t]*[:.]?[ \t]*)?(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)[ \t]*(LBS|LB|KGS|KG|MT|M/T)\b`)
	reContainer = regexp.MustCompile(`\b([A-Z]{3}[UJZ][ \t]?\d{7})\b`)
)

// fields are the per-item values read after a size or anchor.
type fields struct {
	pieces int
	heat   string
	gross  float64
	net    float64
}

func (g *grammar) chain() []Strategy {
	return []Strategy{
		{Name: constants.StrategyHeader, Run: g.headerStrategy},
		{Name: constants.StrategyRegex, Run: g.regexStrategy},
		{Name: constants.StrategyOCRTolerant, Run: g.ocrTolerantStrategy},
		{Name: constants.StrategyAnchor, Run: g.anchorStrategy},
	}
}

// headerStrategy reads a cell grid under a recognized header row. A row
// whose pieces or weight cell holds text that is not a number abandons the
// grid so the text rungs get a turn.
func (g *grammar) headerStrategy(in Input) []entity.PackingListItem {
	h, ok := locateHeader(in.Rows, g.headerKeywords, g.unit)
	if !ok {
		return nil
	}
	var items []entity.PackingListItem
	for _, row := range in.Rows[h.row+1:] {
		if isBlankRow(row) || isTotalRow(row) {
			continue
		}
		size, raw, ok := g.gridSize(h, row)
		if !ok || !units.IsValidDimensions(size, g.limits) {
			continue
		}
		it, ok := g.gridItem(h, row)
		if !ok {
			return nil
		}
		it.RawSize, it.Size = raw, size
		items = append(items, it)
	}
	return items
}

func (g *grammar) gridItem(h headerLayout, row []string) (entity.PackingListItem, bool) {
	pieces, ok := gridPieces(h.cell(row, colPieces))
	if !ok {
		return entity.PackingListItem{}, false
	}
	gross, okG := gridWeight(h.cell(row, colGross), h.grossUnit)
	net, okN := gridWeight(h.cell(row, colNet), h.netUnit)
	if !okG || !okN {
		return entity.PackingListItem{}, false
	}
	it := entity.PackingListItem{
		Bundle:    g.gridBundle(h.cell(row, colBundle)),
		Heat:      gridHeat(h.cell(row, colHeat)),
		Container: strings.ToUpper(h.cell(row, colContainer)),
		Pieces:    pieces,
		GrossLbs:  gross,
		NetLbs:    net,
	}
	if it.NetLbs == 0 {
		it.NetLbs = it.GrossLbs
	}
	if it.GrossLbs == 0 {
		it.GrossLbs = it.NetLbs
	}
	return it, true
}

// gridBundle strips a TAG or LOT label from an identifier cell.
func (g *grammar) gridBundle(cell string) string {
	if m := g.anchor.FindStringSubmatch(cell); m != nil {
		return m[1]
	}
	return cell
}

func (g *grammar) gridSize(h headerLayout, row []string) (entity.ParsedSize, string, bool) {
	if h.has(colSize) {
		raw := h.cell(row, colSize)
		if size, ok := units.ParseSize(raw); ok {
			return size, raw, true
		}
		if m, ok := scan.In(g.strictSize, raw, scan.Span{From: 0, To: len(raw)}); ok {
			if size, _, ok := g.parseStrict(m, g.limits); ok {
				return size, raw, true
			}
		}
	}
	if !h.has(colThickness) || !h.has(colWidth) || !h.has(colLength) {
		return entity.ParsedSize{}, "", false
	}
	tc, wc, lc := h.cell(row, colThickness), h.cell(row, colWidth), h.cell(row, colLength)
	var t float64
	var ok bool
	if g.bareGauge {
		t, ok = units.GaugeToDecimal(tc)
	}
	if !ok {
		t, ok = units.ParseThickness(tc)
	}
	w, okW := units.ParseDimension(wc)
	l, okL := units.ParseDimension(lc)
	if !ok || !okW || !okL {
		return entity.ParsedSize{}, "", false
	}
	return units.NewSize(t, w, l), tc + " x " + wc + " x " + lc, true
}

// regexStrategy scans for strict size tokens and reads fields after them.
func (g *grammar) regexStrategy(in Input) []entity.PackingListItem {
	return g.fromSizes(in.Text, g.strictSize, g.parseStrict)
}

// ocrTolerantStrategy repairs confusions first and accepts sloppier sizes.
func (g *grammar) ocrTolerantStrategy(in Input) []entity.PackingListItem {
	return g.fromSizes(Clean(in.Text), g.looseSize, g.parseLoose)
}

func (g *grammar) fromSizes(text string, re *regexp.Regexp, parse sizeParse) []entity.PackingListItem {
	matches := scan.FindAll(re, text)
	var items []entity.PackingListItem
	for i, m := range matches {
		size, repaired, ok := parse(m, g.limits)
		if !ok || !units.IsValidDimensions(size, g.limits) {
			continue
		}
		line := scan.LineBounds(text, m.Start)
		limit := line.To
		if i+1 < len(matches) && matches[i+1].Start < limit {
			limit = matches[i+1].Start
		}
		after := scan.Span{From: m.End, To: min(m.End+g.window, limit)}

		it := g.newItem(text, m.Start, rawSize(m), size, g.readFields(text, after))
		if a, ok := scan.Before(g.anchor, text, m.Start, g.window, line.From); ok {
			it.Bundle = a.Group(1)
		} else if a, ok := scan.After(g.anchor, text, m.End, g.window, limit); ok {
			it.Bundle = a.Group(1)
		}
		if repaired {
			it.AddFlag(constants.FlagThicknessRepaired)
		}
		items = append(items, it)
	}
	return items
}

// anchorStrategy walks bundle/lot/tag identifiers and looks for a size
// near each one. The search runs on a flattened copy of the cleaned text, so
// a triple broken over two lines or split by stray marks still matches.
// Backward it may cross lines down to the previous anchor or the last
// claimed size; forward the size must start on the anchor's own line. A
// parenthesized imperial size on its own is accepted when no triple is
// found. A row with no size inherits the previous one.
func (g *grammar) anchorStrategy(in Input) []entity.PackingListItem {
	text := Clean(in.Text)
	flat := flatten(text)
	anchors := scan.FindAll(g.anchor, text)
	var (
		items   []entity.PackingListItem
		last    entity.ParsedSize
		have    bool
		claimed int
	)
	for i, a := range anchors {
		next := scan.Next(anchors, a.Start, len(text))
		floor := max(claimed, a.Start-g.window)
		if i > 0 {
			floor = max(floor, anchors[i-1].End)
		}
		line := scan.LineBounds(text, a.Start)

		hit, found := g.nearestSize(flat, a, floor, min(next, a.End+g.window), line.To)
		carried := false
		switch {
		case found:
			claimed = hit.end
		case have:
			hit, carried = sizeHit{size: last}, true
		default:
			continue
		}
		last, have = hit.size, true

		span := scan.Span{From: a.End, To: min(a.End+g.window, next)}
		it := g.newItem(flat, a.Start, hit.raw, hit.size, g.readFields(flat, span))
		it.Bundle = a.Group(1)
		if carried {
			it.AddFlag(constants.FlagSizeCarriedForward)
		}
		if hit.repaired {
			it.AddFlag(constants.FlagThicknessRepaired)
		}
		items = append(items, it)
	}
	return items
}

var reParenSize = regexp.MustCompile(`\(([^()\n]{5,40})\)`)

type sizeHit struct {
	size     entity.ParsedSize
	raw      string
	repaired bool
	end      int
}

// nearestSize tries the permissive triple first and a bare parenthesized
// size second. Backward hits lie in [floor, a.Start); forward hits lie in
// [a.End, ceil) and start before lineEnd.
func (g *grammar) nearestSize(flat string, a scan.Match, floor, ceil, lineEnd int) (sizeHit, bool) {
	finders := []struct {
		re    *regexp.Regexp
		parse sizeParse
	}{
		{g.looseSize, g.parseLoose},
		{reParenSize, parseParenSize},
	}
	for _, f := range finders {
		back := scan.AllIn(f.re, flat, scan.Span{From: floor, To: a.Start})
		for j := len(back) - 1; j >= 0; j-- {
			if hit, ok := g.accept(back[j], f.parse); ok {
				return hit, true
			}
		}
		for _, m := range scan.AllIn(f.re, flat, scan.Span{From: a.End, To: ceil}) {
			if m.Start >= lineEnd {
				break
			}
			if hit, ok := g.accept(m, f.parse); ok {
				return hit, true
			}
		}
	}
	return sizeHit{}, false
}

func (g *grammar) accept(m scan.Match, parse sizeParse) (sizeHit, bool) {
	size, repaired, ok := parse(m, g.limits)
	if !ok || !units.IsValidDimensions(size, g.limits) {
		return sizeHit{}, false
	}
	return sizeHit{size: size, raw: rawSize(m), repaired: repaired, end: m.End}, true
}

func parseParenSize(m scan.Match, limits units.Limits) (entity.ParsedSize, bool, bool) {
	if size, ok := units.ParseSize(m.Group(1)); ok && units.IsValidDimensions(size, limits) {
		return size, false, true
	}
	if size, ok := repairTriple(m.Group(1), limits); ok {
		return size, true, true
	}
	return entity.ParsedSize{}, false, false
}

// flatten blanks line breaks and stray marks byte for byte, so offsets into
// text stay valid in the result.
func flatten(text string) string {
	b := []byte(text)
	for i, c := range b {
		switch c {
		case '\n', '\r', '~', '_', '^', '`', '|', '!', ';':
			b[i] = ' '
		}
	}
	return string(b)
}

func (g *grammar) newItem(text string, pos int, raw string, size entity.ParsedSize, f fields) entity.PackingListItem {
	it := entity.PackingListItem{
		RawSize:  raw,
		Size:     size,
		Pieces:   f.pieces,
		Heat:     f.heat,
		GrossLbs: f.gross,
		NetLbs:   f.net,
	}
	if c, ok := scan.Before(reContainer, text, pos, pos, -1); ok {
		it.Container = strings.ReplaceAll(strings.ReplaceAll(c.Group(1), " ", ""), "\t", "")
	}
	return it
}

// readFields reads pieces, heat and weights inside span. Labeled GROSS and
// NET weights win; otherwise the first two weights are gross then net.
func (g *grammar) readFields(text string, span scan.Span) fields {
	var f fields
	if m, ok := scan.In(rePieces, text, span); ok {
		f.pieces = atoi(firstNonEmpty(m.Group(1), m.Group(2)))
	}
	if m, ok := scan.In(reHeat, text, span); ok {
		f.heat = strings.ToUpper(firstNonEmpty(m.Group(1), m.Group(2)))
	}

	var unlabeled []float64
	var gotGross, gotNet bool
	for _, m := range scan.AllIn(reWeight, text, span) {
		v, ok := units.ParseWeight(m.Group(2))
		if !ok {
			continue
		}
		lbs := units.ToLbs(v, units.ParseMassUnit(m.Group(3)))
		switch strings.ToUpper(m.Group(1)) {
		case "GROSS", "G/W":
			f.gross, gotGross = lbs, true
		case "NET", "N/W":
			f.net, gotNet = lbs, true
		default:
			unlabeled = append(unlabeled, lbs)
		}
	}
	if !gotGross && len(unlabeled) > 0 {
		f.gross, gotGross = unlabeled[0], true
		unlabeled = unlabeled[1:]
	}
	if !gotNet && len(unlabeled) > 0 {
		f.net, gotNet = unlabeled[0], true
	}
	switch {
	case gotGross && !gotNet:
		f.net = f.gross
	case gotNet && !gotGross:
		f.gross = f.net
	}
	return f
}

// thicknessOrRepair parses tok and falls back to ThicknessRepairs when the
// value is outside limits.
func thicknessOrRepair(tok string, limits units.Limits, allowRepair bool) (float64, bool, bool) {
	clean := strings.Join(strings.Fields(tok), "")
	t, ok := units.ParseThickness(clean)
	if ok && t >= limits.MinThickness && t <= limits.MaxThickness {
		return t, false, true
	}
	if !allowRepair {
		return t, false, ok
	}
	if r, ok := RepairThickness(clean); ok {
		return r, true, true
	}
	return t, false, ok
}

func rawSize(m scan.Match) string {
	return strings.TrimLeft(strings.TrimSpace(m.Group(0)), "([{,;:")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
