// Package export writes parsed packing lists out for ERP import (XLSX) and
// for archiving (Parquet).
package export

import (
	"strings"

	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/units"
)

// Line is one receipt line with every reviewer override resolved.
type Line struct {
	Supplier    string  `parquet:"supplier" json:"supplier"`
	VendorCode  string  `parquet:"vendor_code" json:"vendor_code"`
	PO          string  `parquet:"po" json:"po"`
	OrderLine   int32   `parquet:"order_line" json:"order_line"`
	LineNumber  int32   `parquet:"line_number" json:"line_number"`
	InventoryID string  `parquet:"inventory_id" json:"inventory_id"`
	Warehouse   string  `parquet:"warehouse" json:"warehouse"`
	LotNumber   string  `parquet:"lot_number" json:"lot_number"`
	Pieces      int32   `parquet:"pieces" json:"pieces"`
	ReceiptQty  float64 `parquet:"receipt_qty" json:"receipt_qty"` // pounds
	GrossLbs    float64 `parquet:"gross_lbs" json:"gross_lbs"`
	NetLbs      float64 `parquet:"net_lbs" json:"net_lbs"`
	UnitCost    string  `parquet:"unit_cost" json:"unit_cost,omitempty"` // $/lb, empty when unpriced
	Heat        string  `parquet:"heat" json:"heat,omitempty"`
	Container   string  `parquet:"container" json:"container,omitempty"`
	Thickness   float64 `parquet:"thickness" json:"thickness"`
	Width       float64 `parquet:"width" json:"width"`
	Length      float64 `parquet:"length" json:"length"`
	Size        string  `parquet:"size" json:"size"`
	RawSize     string  `parquet:"raw_size" json:"raw_size"`
	Flags       string  `parquet:"flags" json:"flags,omitempty"`
}

// Lines flattens documents in order.
func Lines(docs ...*entity.PackingList) []Line {
	var out []Line
	for _, d := range docs {
		if d == nil {
			continue
		}
		for _, it := range d.Items {
			l := Line{
				Supplier:    d.Supplier.DisplayName(),
				VendorCode:  d.VendorCode,
				PO:          d.PO,
				OrderLine:   int32(it.LineNumber),
				LineNumber:  int32(it.LineNumber),
				InventoryID: it.EffectiveInventoryID(),
				Warehouse:   d.Warehouse,
				LotNumber:   it.LotNumber,
				Pieces:      int32(it.Pieces),
				ReceiptQty:  it.NetLbs,
				GrossLbs:    it.GrossLbs,
				NetLbs:      it.NetLbs,
				Heat:        it.Heat,
				Container:   it.Container,
				Thickness:   it.Size.Thickness,
				Width:       it.Size.Width,
				Length:      it.Size.Length,
				Size:        units.DimensionKey(it.Size),
				RawSize:     it.RawSize,
				Flags:       strings.Join(it.Flags, ","),
			}
			if it.PO != "" {
				l.PO = it.PO
			}
			if it.OrderLine != nil {
				l.OrderLine = int32(*it.OrderLine)
			}
			if it.Warehouse != "" {
				l.Warehouse = it.Warehouse
			}
			if it.OrderQty != nil {
				l.ReceiptQty = *it.OrderQty
			}
			if it.UnitCost != nil {
				l.UnitCost = it.UnitCost.String()
			}
			out = append(out, l)
		}
	}
	return out
}
