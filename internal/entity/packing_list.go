package entity

import (
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/packlist/constants"
)

// UnknownPO is used when neither the caller nor the document supplies a PO number.
const UnknownPO = "UNKNOWN"

// ParsedSize is a canonical dimension triple in decimal inches.
type ParsedSize struct {
	Thickness          float64 `json:"thickness"`
	Width              float64 `json:"width"`
	Length             float64 `json:"length"`
	ThicknessFormatted string  `json:"thickness_formatted"`
}

func (s ParsedSize) IsZero() bool {
	return s.Thickness == 0 && s.Width == 0 && s.Length == 0
}

// PackingListItem is one physical bundle, coil or plate group.
type PackingListItem struct {
	LineNumber  int        `json:"line_number"`
	InventoryID string     `json:"inventory_id"`
	LotNumber   string     `json:"lot_number"`
	Pieces      int        `json:"pieces"`
	Heat        string     `json:"heat,omitempty"`
	GrossLbs    float64    `json:"gross_lbs"`
	NetLbs      float64    `json:"net_lbs"`
	RawSize     string     `json:"raw_size"`
	Size        ParsedSize `json:"size"`
	Bundle      string     `json:"bundle,omitempty"`
	Container   string     `json:"container,omitempty"`
	Flags       []string   `json:"flags,omitempty"`

	// Per-item overrides set by reviewers or the invoice correlator.
	ManualInventoryID string           `json:"manual_inventory_id,omitempty"`
	OrderQty          *float64         `json:"order_qty,omitempty"`
	UnitCost          *decimal.Decimal `json:"unit_cost,omitempty"`
	Warehouse         string           `json:"warehouse,omitempty"`
	OrderLine         *int             `json:"order_line,omitempty"`
	PO                string           `json:"po,omitempty"`
}

// EffectiveInventoryID prefers the manual override.
func (it PackingListItem) EffectiveInventoryID() string {
	if it.ManualInventoryID != "" {
		return it.ManualInventoryID
	}
	return it.InventoryID
}

func (it PackingListItem) HasFlag(flag string) bool {
	for _, f := range it.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AddFlag appends flag once.
func (it *PackingListItem) AddFlag(flag string) {
	if !it.HasFlag(flag) {
		it.Flags = append(it.Flags, flag)
	}
}

// PackingList is a parsed document. Items must be changed through the methods
// below so that line numbers, totals and containers stay consistent.
type PackingList struct {
	Supplier          constants.Supplier `json:"supplier"`
	VendorCode        string             `json:"vendor_code"`
	PO                string             `json:"po"`
	Items             []PackingListItem  `json:"items"`
	TotalGrossLbs     float64            `json:"total_gross_lbs"`
	TotalNetLbs       float64            `json:"total_net_lbs"`
	Warehouse         string             `json:"warehouse"`
	WarehouseDetected bool               `json:"warehouse_detected"`
	Containers        []string           `json:"containers,omitempty"`
	Strategy          string             `json:"strategy,omitempty"`
	Warnings          []string           `json:"warnings,omitempty"`
}

// NewPackingList returns an empty document for supplier.
func NewPackingList(supplier constants.Supplier, po string) *PackingList {
	if po == "" {
		po = UnknownPO
	}
	return &PackingList{
		Supplier:   supplier,
		VendorCode: supplier.VendorCode(),
		PO:         po,
		Items:      []PackingListItem{},
	}
}

// SetItems replaces all items.
func (p *PackingList) SetItems(items []PackingListItem) {
	p.Items = append([]PackingListItem(nil), items...)
	p.recompute()
}

func (p *PackingList) AddItem(item PackingListItem) {
	p.Items = append(p.Items, item)
	p.recompute()
}

// UpdateItem applies fn to the item at index i (0-based).
func (p *PackingList) UpdateItem(i int, fn func(*PackingListItem)) error {
	if i < 0 || i >= len(p.Items) {
		return fmt.Errorf("item index %d out of range [0,%d)", i, len(p.Items))
	}
	fn(&p.Items[i])
	p.recompute()
	return nil
}

func (p *PackingList) RemoveItem(i int) error {
	if i < 0 || i >= len(p.Items) {
		return fmt.Errorf("item index %d out of range [0,%d)", i, len(p.Items))
	}
	p.Items = slices.Delete(p.Items, i, i+1)
	p.recompute()
	return nil
}

// MoveItem moves the item at from to position to.
func (p *PackingList) MoveItem(from, to int) error {
	n := len(p.Items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d->%d out of range [0,%d)", from, to, n)
	}
	it := p.Items[from]
	p.Items = slices.Insert(slices.Delete(p.Items, from, from+1), to, it)
	p.recompute()
	return nil
}

// AddWarning appends a warning once.
func (p *PackingList) AddWarning(msg string) {
	for _, w := range p.Warnings {
		if w == msg {
			return
		}
	}
	p.Warnings = append(p.Warnings, msg)
}

func (p *PackingList) recompute() {
	var gross, net float64
	seen := make(map[string]struct{})
	p.Containers = p.Containers[:0]
	for i := range p.Items {
		p.Items[i].LineNumber = i + 1
		gross += p.Items[i].GrossLbs
		net += p.Items[i].NetLbs
		if c := p.Items[i].Container; c != "" {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				p.Containers = append(p.Containers, c)
			}
		}
	}
	p.TotalGrossLbs = math.Round(gross)
	p.TotalNetLbs = math.Round(net)
	if len(p.Containers) == 0 {
		p.Containers = nil
	}
}
