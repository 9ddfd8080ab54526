package invoice

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/packlist/internal/classify"
	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/units"
)

const (
	thicknessTok = `(?:\d+[ -]\d+/\d+|\d+/\d+|\d*\.\d+|\d+)(?:[ \t]*(?:"|GA|MM))?`
	dimTok       = `\d+(?:\.\d+)?(?:[ -]\d+/\d+)?"?(?:[ \t]*MM)?`
	sizeSep      = `[ \t]*[xX×*][ \t]*`
	number       = `(?:\d{1,3}(?:,\d{3})+|\d+)`
)

var (
	reLineSize = regexp.MustCompile(`(?i)` + thicknessTok + sizeSep + dimTok + sizeSep + dimTok + `(?:[ \t]*\([^)\n]*\))?`)

	reLbs   = regexp.MustCompile(`(?i)(` + number + `(?:\.\d+)?)[ \t]*(LBS?|KGS?|MT)\b`)
	rePcs   = regexp.MustCompile(`(?i)\b(\d{1,5})[ \t]*(?:PCS?|PIECES|EA)\b`)
	reMoney = regexp.MustCompile(`(?i)\$?[ \t]*(` + number + `\.\d{2,4})(?:[ \t]*/[ \t]*(LBS?|CWT|PCS?|EA)\b)?`)
	reInt   = regexp.MustCompile(`\b` + number + `\b`)

	reInvoiceNo = regexp.MustCompile(`(?i)\bINVOICE[ \t]*(?:NO\.?|#|NUMBER)[ \t]*[:#]?[ \t]*([A-Z0-9][A-Z0-9\-]{2,})`)
	reTotal     = regexp.MustCompile(`(?im)^[ \t]*(?:INVOICE[ \t]+)?(?:TOTAL|AMOUNT[ \t]+DUE)\b.*?\$?[ \t]*(` + number + `\.\d{2})[ \t]*$`)

	reHeaderCWT      = regexp.MustCompile(`(?i)\bCWT\b`)
	reHeaderPerLb    = regexp.MustCompile(`(?i)(?:/[ \t]*LBS?\b|\bPER[ \t]+(?:LBS?|POUND)\b)`)
	reHeaderPerPiece = regexp.MustCompile(`(?i)(?:/[ \t]*(?:PCS?|EA)\b|\bPER[ \t]+(?:PC|PIECE)\b|\bEACH\b)`)
)

var hundred = decimal.NewFromInt(100)

// Parse reads every size-anchored line that carries a price. Lines without a
// price are skipped. An invoice with no priced lines is an error.
func Parse(text string) (*entity.Invoice, error) {
	inv := &entity.Invoice{
		Supplier: classify.DetectSupplier(text),
		PO:       entity.UnknownPO,
	}
	if po, ok := classify.DetectPO(text); ok {
		inv.PO = po
	}
	if wh, ok := classify.DetectWarehouse(text); ok {
		inv.Warehouse = wh
	}
	for _, m := range reInvoiceNo.FindAllStringSubmatch(text, -1) {
		if strings.ContainsAny(m[1], "0123456789") {
			inv.InvoiceNumber = strings.ToUpper(m[1])
			break
		}
	}

	pinned := headerBasis(text)
	sum := decimal.Zero
	for _, ln := range strings.Split(text, "\n") {
		line, ok := parseLine(ln, pinned)
		if !ok {
			continue
		}
		inv.Lines = append(inv.Lines, line)
		sum = sum.Add(line.LineValue)
	}
	if len(inv.Lines) == 0 {
		return nil, fmt.Errorf("%w: no priced size lines on invoice", common.ErrNoItems)
	}

	inv.TotalValue = sum
	if all := reTotal.FindAllStringSubmatch(text, -1); len(all) > 0 {
		if v, err := decimal.NewFromString(strings.ReplaceAll(all[len(all)-1][1], ",", "")); err == nil {
			inv.TotalValue = v
		}
	}
	return inv, nil
}

// headerBasis returns the basis the document's column vocabulary pins, or "".
func headerBasis(text string) entity.PriceBasis {
	switch {
	case reHeaderCWT.MatchString(text):
		return entity.BasisPerCWT
	case reHeaderPerLb.MatchString(text):
		return entity.BasisPerLb
	case reHeaderPerPiece.MatchString(text):
		return entity.BasisPerPiece
	}
	return ""
}

func suffixBasis(s string) entity.PriceBasis {
	switch strings.ToUpper(s) {
	case "LB", "LBS":
		return entity.BasisPerLb
	case "CWT":
		return entity.BasisPerCWT
	case "PC", "PCS", "EA":
		return entity.BasisPerPiece
	}
	return ""
}

func parseLine(ln string, pinned entity.PriceBasis) (entity.InvoiceLine, bool) {
	loc := reLineSize.FindStringIndex(ln)
	if loc == nil {
		return entity.InvoiceLine{}, false
	}
	raw := strings.TrimSpace(ln[loc[0]:loc[1]])
	size, ok := units.ParseSize(raw)
	if !ok || size.Thickness <= 0 {
		return entity.InvoiceLine{}, false
	}
	rest := ln[loc[1]:]
	line := entity.InvoiceLine{Size: raw, SizeKey: units.DimensionKey(size)}

	if m := reLbs.FindStringSubmatchIndex(rest); m != nil {
		if v, ok := units.ParseWeight(rest[m[2]:m[3]]); ok {
			line.QuantityLbs = units.ToLbs(v, units.ParseMassUnit(rest[m[4]:m[5]]))
		}
		rest = blank(rest, m[0], m[1])
	}
	if m := rePcs.FindStringSubmatchIndex(rest); m != nil {
		line.Pieces = atoi(rest[m[2]:m[3]])
		rest = blank(rest, m[0], m[1])
	}

	var money []decimal.Decimal
	basis := entity.PriceBasis("")
	for _, m := range reMoney.FindAllStringSubmatchIndex(rest, -1) {
		v, err := decimal.NewFromString(strings.ReplaceAll(rest[m[2]:m[3]], ",", ""))
		if err != nil {
			continue
		}
		money = append(money, v)
		if m[4] >= 0 {
			basis = suffixBasis(rest[m[4]:m[5]])
		}
	}
	if len(money) == 0 {
		return entity.InvoiceLine{}, false
	}
	for _, m := range reMoney.FindAllStringIndex(rest, -1) {
		rest = blank(rest, m[0], m[1])
	}

	// unlabeled quantities are pieces then weight
	for _, tok := range reInt.FindAllString(rest, -1) {
		switch {
		case line.Pieces == 0 && !strings.Contains(tok, ","):
			line.Pieces = atoi(tok)
		case line.QuantityLbs == 0:
			line.QuantityLbs, _ = units.ParseWeight(tok)
		}
	}

	price := money[0]
	var stated *decimal.Decimal
	if len(money) >= 2 {
		price = money[len(money)-2]
		stated = &money[len(money)-1]
	}
	if basis == "" {
		basis = pinned
	}
	if basis == "" {
		basis = chooseBasis(price, line.QuantityLbs, line.Pieces, stated)
	}
	applyPrice(&line, price, basis)
	if stated != nil {
		line.LineValue = *stated
	}
	return line, true
}

// chooseBasis picks whichever reading of price implies a total closer to the
// stated line value. Without a stated value per-pound wins when a weight is known.
func chooseBasis(price decimal.Decimal, lbs float64, pieces int, stated *decimal.Decimal) entity.PriceBasis {
	if stated == nil || lbs <= 0 || pieces <= 0 {
		if lbs > 0 {
			return entity.BasisPerLb
		}
		return entity.BasisPerPiece
	}
	byLb := price.Mul(decimal.NewFromFloat(lbs)).Sub(*stated).Abs()
	byPiece := price.Mul(decimal.NewFromInt(int64(pieces))).Sub(*stated).Abs()
	if byPiece.LessThan(byLb) {
		return entity.BasisPerPiece
	}
	return entity.BasisPerLb
}

// applyPrice fills per-pound, per-piece and line value from price under basis.
func applyPrice(line *entity.InvoiceLine, price decimal.Decimal, basis entity.PriceBasis) {
	lbs := decimal.NewFromFloat(line.QuantityLbs)
	pieces := decimal.NewFromInt(int64(line.Pieces))
	line.Basis = basis

	switch basis {
	case entity.BasisPerPiece:
		line.PricePerPiece = price
		line.LineValue = price.Mul(pieces).Round(2)
		if line.QuantityLbs > 0 && line.Pieces > 0 {
			// price per piece over weight per piece
			line.PricePerLb = price.Div(lbs.Div(pieces)).Round(4)
		}
		return
	case entity.BasisPerCWT:
		line.PricePerLb = price.Div(hundred).Round(4)
	default:
		line.PricePerLb = price
	}
	line.LineValue = line.PricePerLb.Mul(lbs).Round(2)
	if line.Pieces > 0 {
		line.PricePerPiece = line.LineValue.Div(pieces).Round(2)
	}
}

func blank(s string, from, to int) string {
	return s[:from] + strings.Repeat(" ", to-from) + s[to:]
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		n = n*10 + int(r-'0')
	}
	return n
}
