package classify

import (
	"strings"
	"testing"

	"github.com/joseph-ayodele/packlist/constants"
)

const titleAndFive = "PACKING LIST\nShipment record: bundle, size, weight, gross and net.\n"

func TestScoreThresholdWithAndWithoutInvoiceTerms(t *testing.T) {
	clean := Score(titleAndFive)
	if clean != titleBonus+5*indicatorBonus {
		t.Fatalf("clean score = %v, want %v", clean, titleBonus+5*indicatorBonus)
	}
	if clean <= LowThreshold {
		t.Errorf("title + five indicators scored %v, not above %v", clean, LowThreshold)
	}

	// WHAT: three invoice-vocabulary hits drop the same block below acceptance.
	// WHY: invoices share size/weight vocabulary and must not win page selection.
	withInvoice := titleAndFive + "Invoice attached. Unit price and amount due as agreed.\n"
	got := Score(withInvoice)
	if got > LowThreshold {
		t.Errorf("score with invoice terms = %v, want <= %v", got, LowThreshold)
	}
	if ScorePages([]string{withInvoice})[0].IsPackingList {
		t.Errorf("page scoring exactly %v must not be accepted", got)
	}
}

func TestScoreComponents(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 0},
		{"title counted once", "packing list packing slip", titleBonus},
		{"certificate penalty", "mill test certificate", -2 * certPenalty},
		{"number lines", "1 a 2\n3 b 4\n5 c 6\n", numberLinesBonus},
		{"two number lines are not enough", "1 a 2\n3 b 4\n", 0},
		{"bundle shape low tier", "240117-01", structureLowTier},
		{"bundle shape high tier", "240117-01 240117-02 240117-03", structureHighTier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.text); got != tt.want {
				t.Errorf("Score(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectSupplier(t *testing.T) {
	tests := []struct {
		name string
		text string
		want constants.Supplier
	}{
		{"brand A", "NORTHERN STEEL MILLS\nPacking list", constants.SupplierA},
		{"brand B", "Pacific Coil Processing", constants.SupplierB},
		{"brand C", "GULF PLATE & SUPPLY", constants.SupplierC},
		{"bundle vocabulary", "BUNDLE NO  SIZE  PCS", constants.SupplierA},
		{"gauge and multiply sign", "TAG 510231 14GA × 48 × 120", constants.SupplierB},
		{"sales order", "S/O # 774512\nLOT 88123-004", constants.SupplierC},
		{"nothing", "hello world", constants.SupplierUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectSupplier(tt.text); got != tt.want {
				t.Errorf("DetectSupplier = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectBestPage(t *testing.T) {
	if _, ok := SelectBestPage(nil); ok {
		t.Fatal("no pages must yield no candidate")
	}

	sel, ok := SelectBestPage([]string{"certificate of analysis"})
	if !ok || sel.Rule != RuleSingle || sel.Index != 0 {
		t.Errorf("single page: %+v", sel)
	}

	sel, _ = SelectBestPage([]string{"invoice price", titleAndFive, "hello"})
	if sel.Index != 1 || sel.Rule != RuleHigh {
		t.Errorf("high tier: got index %d rule %s", sel.Index, sel.Rule)
	}

	low := "bundle size weight gross net pcs"
	sel, _ = SelectBestPage([]string{"nothing here", low})
	if sel.Index != 1 || sel.Rule != RuleLow {
		t.Errorf("low tier: got index %d rule %s score %v", sel.Index, sel.Rule, sel.Score)
	}

	sel, ok = SelectBestPage([]string{"a", "b", "c"})
	if !ok || sel.Index != 0 || sel.Rule != RuleFallback {
		t.Errorf("fallback should keep the earliest tie, got %+v", sel)
	}
}

func TestScorePagesMarksPackingLists(t *testing.T) {
	scores := ScorePages([]string{titleAndFive, strings.Repeat("invoice ", 3)})
	if !scores[0].IsPackingList || scores[1].IsPackingList {
		t.Errorf("IsPackingList flags = %v, %v", scores[0].IsPackingList, scores[1].IsPackingList)
	}
}
