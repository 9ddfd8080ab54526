package classify

import (
	"regexp"

	"github.com/joseph-ayodele/packlist/constants"
)

type fingerprint struct {
	supplier constants.Supplier
	re       *regexp.Regexp
}

var brands = []fingerprint{
	{constants.SupplierA, regexp.MustCompile(`(?i)\bnorthern\s+steel\b|\bNSM\b`)},
	{constants.SupplierB, regexp.MustCompile(`(?i)\bpacific\s+coil\b|\bPCP\b`)},
	{constants.SupplierC, regexp.MustCompile(`(?i)\bgulf\s+plate\b`)},
}

// structural fallbacks, checked in order after brand names
var structures = []fingerprint{
	{constants.SupplierA, regexp.MustCompile(`(?i)\bbundle\s*(?:no\.?|#|number)|\bBDL\b`)},
	{constants.SupplierB, regexp.MustCompile(`(?i)\b\d{1,2}\s*GA\s*[xX×]`)},
	{constants.SupplierC, regexp.MustCompile(`(?i)\bS/?O\s*(?:#|NO\.?)?\s*-?\s*\d{6}\b`)},
}

// DetectSupplier tries brand names first, then structural fingerprints.
func DetectSupplier(text string) constants.Supplier {
	for _, f := range brands {
		if f.re.MatchString(text) {
			return f.supplier
		}
	}
	for _, f := range structures {
		if f.re.MatchString(text) {
			return f.supplier
		}
	}
	return constants.SupplierUnknown
}
