package extract

import (
	"fmt"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/entity"
)

// Input is one packing-list page. Rows is the cell grid when the source has
// one (spreadsheets, or PDF text split on column gaps).
type Input struct {
	Text string
	Rows [][]string
}

// Strategy is one rung of a supplier's extraction ladder.
type Strategy struct {
	Name string
	Run  func(in Input) []entity.PackingListItem
}

// Result is what an Extractor produced and which strategy produced it.
type Result struct {
	Supplier constants.Supplier
	Strategy string
	Items    []entity.PackingListItem
}

// Extractor turns page text into raw items for one supplier.
type Extractor interface {
	Supplier() constants.Supplier
	Extract(in Input) Result
}

// Lookup is the read side of the inventory catalog used during finalization.
type Lookup interface {
	Override(size entity.ParsedSize) (entity.InventoryOverride, bool)
	Known(inventoryID string) bool
	Len() int
}

// NoItemsError is returned when every strategy came back empty.
type NoItemsError struct {
	Supplier constants.Supplier
	Preview  string
}

func (e *NoItemsError) Error() string {
	return fmt.Sprintf("no items extracted for %s; text starts %q", e.Supplier.DisplayName(), e.Preview)
}

func (e *NoItemsError) Unwrap() error { return common.ErrNoItems }
