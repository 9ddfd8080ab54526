package units

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/packlist/internal/entity"
)

// MaterialGrade is the grade token embedded in every constructed inventory ID.
const MaterialGrade = "A36"

var (
	reCanonicalLot = regexp.MustCompile(`^[A-Z0-9]{5,10}-\d{2,4}$`)
	reNonDigit     = regexp.MustCompile(`\D`)
)

// InventoryID builds thickness-width-length-grade-finish, e.g. .250-60-120-A36-HR.
func InventoryID(size entity.ParsedSize, finish string) string {
	return DimensionKey(size) + "-" + MaterialGrade + "-" + strings.ToUpper(strings.TrimSpace(finish))
}

// IsCanonicalLot reports whether id already has the lot/serial shape.
func IsCanonicalLot(id string) bool {
	return reCanonicalLot.MatchString(strings.ToUpper(strings.TrimSpace(id)))
}

// LotNumber passes canonical identifiers through and otherwise builds
// PPPPPP-SSS from the PO digits and a 1-based sequence.
func LotNumber(existing, po string, seq int) string {
	if IsCanonicalLot(existing) {
		return strings.ToUpper(strings.TrimSpace(existing))
	}
	digits := reNonDigit.ReplaceAllString(po, "")
	if len(digits) < 6 {
		digits = strings.Repeat("0", 6-len(digits)) + digits
	}
	return fmt.Sprintf("%s-%03d", digits, seq)
}
