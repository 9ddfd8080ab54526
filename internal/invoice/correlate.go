package invoice

import (
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/units"
)

// Correlate sets each item's unit cost (per pound) from the invoice line with
// the same dimension key and returns how many items were priced. The first
// invoice line for a key wins. Items without a match are left alone.
func Correlate(doc *entity.PackingList, inv *entity.Invoice) int {
	if doc == nil || inv == nil {
		return 0
	}
	byKey := make(map[string]entity.InvoiceLine, len(inv.Lines))
	for _, l := range inv.Lines {
		if _, dup := byKey[l.SizeKey]; !dup && !l.PricePerLb.IsZero() {
			byKey[l.SizeKey] = l
		}
	}
	matched := 0
	for i := range doc.Items {
		line, ok := byKey[units.DimensionKey(doc.Items[i].Size)]
		if !ok {
			continue
		}
		cost := line.PricePerLb
		if err := doc.UpdateItem(i, func(it *entity.PackingListItem) { it.UnitCost = &cost }); err != nil {
			continue
		}
		matched++
	}
	return matched
}
