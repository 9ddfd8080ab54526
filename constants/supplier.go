package constants

import (
	"strings"
)

// Supplier identifies which packing-list grammar a document follows.
type Supplier string

const (
	SupplierA       Supplier = "SUPPLIER_A"
	SupplierB       Supplier = "SUPPLIER_B"
	SupplierC       Supplier = "SUPPLIER_C"
	SupplierUnknown Supplier = "UNKNOWN"
)

// KnownSuppliers is the order used whenever every grammar has to be tried.
var KnownSuppliers = []Supplier{SupplierA, SupplierB, SupplierC}

type supplierInfo struct {
	name    string
	vendor  string
	finish  string
	aliases []string
}

var suppliers = map[Supplier]supplierInfo{
	SupplierA: {name: "Northern Steel Mills", vendor: "V1001", finish: "HRPO", aliases: []string{"a", "northern", "northern steel"}},
	SupplierB: {name: "Pacific Coil Processing", vendor: "V1002", finish: "CR", aliases: []string{"b", "pacific", "pacific coil"}},
	SupplierC: {name: "Gulf Plate & Supply", vendor: "V1003", finish: "HR", aliases: []string{"c", "gulf", "gulf plate"}},
}

// DisplayName returns a human-readable supplier name.
func (s Supplier) DisplayName() string {
	if info, ok := suppliers[s]; ok {
		return info.name
	}
	return "Unknown supplier"
}

// VendorCode is the ERP vendor code; empty for unknown suppliers.
func (s Supplier) VendorCode() string {
	return suppliers[s].vendor
}

// FinishCode is the default finish used in inventory identifiers.
func (s Supplier) FinishCode() string {
	if info, ok := suppliers[s]; ok {
		return info.finish
	}
	return "HR"
}

func (s Supplier) IsKnown() bool {
	_, ok := suppliers[s]
	return ok
}

// ParseSupplier accepts enum values, display names and short aliases.
func ParseSupplier(input string) (Supplier, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return SupplierUnknown, false
	}
	for _, s := range KnownSuppliers {
		info := suppliers[s]
		if normalized == strings.ToLower(string(s)) || normalized == strings.ToLower(info.name) {
			return s, true
		}
		for _, a := range info.aliases {
			if normalized == a {
				return s, true
			}
		}
	}
	return SupplierUnknown, false
}
