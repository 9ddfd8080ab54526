// Package invoice recognizes supplier invoices, reads their per-size prices
// and joins those prices onto packing-list items.
package invoice

import "regexp"

// MinInvoiceHits is the least invoice vocabulary a page needs before it can
// be called an invoice.
const MinInvoiceHits = 3

var (
	reInvoiceTerms = regexp.MustCompile(`(?i)\b(?:invoice|unit\s+price|amount\s+due|amount|bill\s+to|remit|payment\s+terms|terms|price|sub\s?total|total\s+due|sales\s+tax|extension)\b`)
	rePackingTerms = regexp.MustCompile(`(?i)\b(?:packing\s+list|packing\s+slip|gross|net|heat|bundle|bdl|coil|tag|lot|container|tare)\b`)
)

// Hits counts invoice and packing-list vocabulary in text.
func Hits(text string) (invoice, packing int) {
	return len(reInvoiceTerms.FindAllStringIndex(text, -1)), len(rePackingTerms.FindAllStringIndex(text, -1))
}

// IsInvoice is a simple majority vote with a floor on invoice terms.
func IsInvoice(text string) bool {
	inv, pack := Hits(text)
	return inv >= MinInvoiceHits && inv > pack
}
