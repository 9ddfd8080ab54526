package entity

// InventoryOverride is what the inventory lookup knows about a dimension triple.
type InventoryOverride struct {
	InventoryID   string  `json:"inventory_id,omitempty"`
	WeightPerArea float64 `json:"weight_per_area,omitempty"` // lb/ft²
}

// InventoryEntry is one persisted inventory identifier.
type InventoryEntry struct {
	InventoryID   string  `json:"inventory_id"`
	Thickness     float64 `json:"thickness,omitempty"`
	Width         float64 `json:"width,omitempty"`
	Length        float64 `json:"length,omitempty"`
	WeightPerArea float64 `json:"weight_per_area,omitempty"`
	Description   string  `json:"description,omitempty"`
}

// HasDimensions reports whether the entry can be matched by size.
func (e InventoryEntry) HasDimensions() bool {
	return e.Thickness > 0 && e.Width > 0 && e.Length > 0
}
