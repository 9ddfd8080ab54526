package extract

import (
	"log/slog"
	"math"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/units"
)

// Finalizer assigns identifiers and weight flags to raw items.
type Finalizer struct {
	lookup Lookup
	logger *slog.Logger
}

// NewFinalizer accepts a nil lookup; catalog overrides and the new-ID flag
// are then skipped.
func NewFinalizer(lookup Lookup, logger *slog.Logger) *Finalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finalizer{lookup: lookup, logger: logger}
}

// Finalize returns a copy of items with line numbers, inventory IDs, lot
// numbers and weight checks applied. Suspicious values are flagged, never
// rejected.
func (f *Finalizer) Finalize(items []entity.PackingListItem, supplier constants.Supplier, po string) []entity.PackingListItem {
	out := make([]entity.PackingListItem, len(items))
	copy(out, items)
	catalog := f.lookup != nil && f.lookup.Len() > 0

	for i := range out {
		it := &out[i]
		it.Flags = append([]string(nil), it.Flags...)
		it.LineNumber = i + 1
		if it.Pieces < 1 {
			it.Pieces = 1
		}

		it.InventoryID = units.InventoryID(it.Size, supplier.FinishCode())
		var weightPerArea float64
		if catalog {
			if ov, ok := f.lookup.Override(it.Size); ok {
				if ov.InventoryID != "" {
					it.InventoryID = ov.InventoryID
				}
				weightPerArea = ov.WeightPerArea
			}
		}
		it.LotNumber = units.LotNumber(it.Bundle, po, i+1)

		theoretical := units.TheoreticalWeight(it.Size, it.Pieces, weightPerArea)
		if it.GrossLbs == 0 && it.NetLbs == 0 {
			w := math.Round(theoretical)
			it.GrossLbs, it.NetLbs = w, w
			it.AddFlag(constants.FlagTheoreticalWeight)
		} else if units.WeightConfidence(it.NetLbs, theoretical) == units.ConfidenceLow {
			it.AddFlag(constants.FlagWeightLowConfidence)
			f.logger.Warn("extract.weight_low_confidence",
				"line", it.LineNumber,
				"inventory_id", it.InventoryID,
				"net_lbs", it.NetLbs,
				"theoretical_lbs", math.Round(theoretical),
			)
		}
		if it.GrossLbs < it.NetLbs {
			it.AddFlag(constants.FlagGrossLessThanNet)
			f.logger.Warn("extract.gross_lt_net", "line", it.LineNumber, "gross_lbs", it.GrossLbs, "net_lbs", it.NetLbs)
		}
		if catalog && !f.lookup.Known(it.EffectiveInventoryID()) {
			it.AddFlag(constants.FlagNewInventoryID)
		}
	}
	return out
}
