package entity

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/packlist/constants"
)

// PriceBasis is how an invoice line's unit price was quoted.
type PriceBasis string

const (
	BasisPerLb    PriceBasis = "PER_LB"
	BasisPerCWT   PriceBasis = "PER_CWT"
	BasisPerPiece PriceBasis = "PER_PIECE"
)

// InvoiceLine is one priced size on an invoice.
type InvoiceLine struct {
	Size          string          `json:"size"`
	SizeKey       string          `json:"size_key"`
	Pieces        int             `json:"pieces"`
	QuantityLbs   float64         `json:"quantity_lbs"`
	PricePerPiece decimal.Decimal `json:"price_per_piece"`
	PricePerLb    decimal.Decimal `json:"price_per_lb"`
	LineValue     decimal.Decimal `json:"line_value"`
	Basis         PriceBasis      `json:"basis"`
}

type Invoice struct {
	Supplier      constants.Supplier `json:"supplier"`
	PO            string             `json:"po"`
	InvoiceNumber string             `json:"invoice_number"`
	Lines         []InvoiceLine      `json:"lines"`
	TotalValue    decimal.Decimal    `json:"total_value"`
	Warehouse     string             `json:"warehouse,omitempty"`
}
