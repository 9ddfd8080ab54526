package invoice

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/units"
)

const samplePerLb = `GULF PLATE & SUPPLY
INVOICE
INVOICE NO: INV-20931     P.O. # 778812
BILL TO: ACME STEEL       SHIP TO: HOUSTON, TX
PAYMENT TERMS: NET 30
SIZE               PCS    WEIGHT       UNIT PRICE    AMOUNT
.250 X 60 X 120     10    6,125 LBS    0.5200        3,185.00
3/8 X 72 X 144       4    4,240 LBS    0.5100        2,162.40
TOTAL                                                5,347.40`

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestIsInvoice(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"invoice page", samplePerLb, true},
		{"packing list", "PACKING LIST\nBUNDLE  SIZE  HEAT  GROSS  NET\n778812-01  .250 X 60 X 120  3  H12345  2,210  2,190", false},
		{"below floor", "invoice invoice", false},
		{"tie goes to packing list", "invoice price amount\ngross net heat", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInvoice(tt.text); got != tt.want {
				inv, pack := Hits(tt.text)
				t.Errorf("IsInvoice = %v, want %v (hits %d/%d)", got, tt.want, inv, pack)
			}
		})
	}
}

func TestParsePerPound(t *testing.T) {
	inv, err := Parse(samplePerLb)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if inv.Supplier != constants.SupplierC || inv.PO != "778812" || inv.InvoiceNumber != "INV-20931" || inv.Warehouse != "HOU" {
		t.Errorf("header = %+v", inv)
	}
	if len(inv.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(inv.Lines))
	}
	first := inv.Lines[0]
	if first.SizeKey != ".250-60-120" || first.Pieces != 10 || first.QuantityLbs != 6125 {
		t.Errorf("line 0 = %+v", first)
	}
	if first.Basis != entity.BasisPerLb || !first.PricePerLb.Equal(dec("0.52")) || !first.LineValue.Equal(dec("3185")) {
		t.Errorf("line 0 pricing = %s %s %s", first.Basis, first.PricePerLb, first.LineValue)
	}
	if !first.PricePerPiece.Equal(dec("318.5")) {
		t.Errorf("line 0 per piece = %s", first.PricePerPiece)
	}
	if inv.Lines[1].SizeKey != ".375-72-144" {
		t.Errorf("line 1 key = %s", inv.Lines[1].SizeKey)
	}
	if !inv.TotalValue.Equal(dec("5347.40")) {
		t.Errorf("total = %s", inv.TotalValue)
	}
}

func TestParseBasis(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		basis     entity.PriceBasis
		perLb     string
		lineValue string
	}{
		{
			// WHAT: no header vocabulary; the per-piece reading matches the stated amount.
			// WHY: auto-selection compares both implied totals against the line value.
			name:      "auto per piece",
			text:      "INVOICE NO 55102\nBILL TO ACME\nSIZE PCS WEIGHT PRICE AMOUNT\n3/8 X 48 X 96  5  2,450  245.00  1,225.00",
			basis:     entity.BasisPerPiece,
			perLb:     "0.5",
			lineValue: "1225",
		},
		{
			name:      "header pins each",
			text:      "INVOICE NO 55103\nBILL TO ACME   PRICE EACH   AMOUNT\n14GA X 48 X 120   25 PCS   7,320 LBS   185.40   4,635.00",
			basis:     entity.BasisPerPiece,
			perLb:     "0.6332",
			lineValue: "4635",
		},
		{
			name:      "header pins cwt",
			text:      "INVOICE\nPRICE/CWT  AMOUNT\n1/4 X 48 X 96  6 PCS  1,960 LBS  52.00  1,019.20",
			basis:     entity.BasisPerCWT,
			perLb:     "0.52",
			lineValue: "1019.2",
		},
		{
			name:      "inline suffix",
			text:      "INVOICE\n1/2 X 60 X 120  3 PCS  3,062 LBS  $52.00/CWT  $1,592.24",
			basis:     entity.BasisPerCWT,
			perLb:     "0.52",
			lineValue: "1592.24",
		},
		{
			name:      "metric tons converted",
			text:      "INVOICE\n.250 X 48 X 96  2 PCS  1.5 MT  0.4800/LB",
			basis:     entity.BasisPerLb,
			perLb:     "0.48",
			lineValue: "1587.33",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(inv.Lines) != 1 {
				t.Fatalf("got %d lines", len(inv.Lines))
			}
			l := inv.Lines[0]
			if l.Basis != tt.basis {
				t.Errorf("basis = %s, want %s", l.Basis, tt.basis)
			}
			if !l.PricePerLb.Equal(dec(tt.perLb)) {
				t.Errorf("per lb = %s, want %s", l.PricePerLb, tt.perLb)
			}
			if !l.LineValue.Equal(dec(tt.lineValue)) {
				t.Errorf("line value = %s, want %s", l.LineValue, tt.lineValue)
			}
		})
	}
}

func TestParseWithoutPricedLines(t *testing.T) {
	_, err := Parse("INVOICE\nINVOICE NO: 1234\nTHANK YOU")
	if !errors.Is(err, common.ErrNoItems) {
		t.Errorf("err = %v, want ErrNoItems", err)
	}
}

func TestCorrelate(t *testing.T) {
	inv, err := Parse(samplePerLb)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	doc := entity.NewPackingList(constants.SupplierC, "778812")
	doc.SetItems([]entity.PackingListItem{
		{Pieces: 10, GrossLbs: 6125, NetLbs: 6100, Size: units.NewSize(0.25, 60, 120)},
		{Pieces: 4, GrossLbs: 4240, NetLbs: 4220, Size: units.NewSize(0.375, 72, 144)},
		{Pieces: 2, GrossLbs: 980, NetLbs: 975, Size: units.NewSize(0.5, 48, 96)},
	})

	if n := Correlate(doc, inv); n != 2 {
		t.Fatalf("matched %d, want 2", n)
	}
	if c := doc.Items[0].UnitCost; c == nil || !c.Equal(dec("0.52")) {
		t.Errorf("item 1 unit cost = %v", c)
	}
	if c := doc.Items[1].UnitCost; c == nil || !c.Equal(dec("0.51")) {
		t.Errorf("item 2 unit cost = %v", c)
	}
	if doc.Items[2].UnitCost != nil {
		t.Errorf("unmatched item was priced: %v", doc.Items[2].UnitCost)
	}
	if doc.TotalGrossLbs != 11345 {
		t.Errorf("totals changed: %v", doc.TotalGrossLbs)
	}
	if Correlate(nil, inv) != 0 || Correlate(doc, nil) != 0 {
		t.Error("nil inputs should match nothing")
	}
}
