package units

import (
	"strconv"
	"strings"

	"github.com/joseph-ayodele/packlist/internal/entity"
)

// FormatThickness renders inches with 3-4 decimals and no leading zero: .250, .1345, 1.000.
func FormatThickness(t float64) string {
	s := strconv.FormatFloat(round(t, 4), 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	dot := strings.IndexByte(s, '.')
	for len(s)-dot-1 < 3 {
		s += "0"
	}
	return strings.TrimPrefix(s, "0")
}

// FormatDim renders a width or length with no trailing zeros: 48, 96.5.
func FormatDim(d float64) string {
	return strconv.FormatFloat(round(d, 3), 'f', -1, 64)
}

// DimensionKey is the thickness-width-length join key shared by items,
// invoice lines and inventory entries.
func DimensionKey(size entity.ParsedSize) string {
	return FormatThickness(size.Thickness) + "-" + FormatDim(size.Width) + "-" + FormatDim(size.Length)
}

// DimensionKeyOf is DimensionKey for bare values.
func DimensionKeyOf(thickness, width, length float64) string {
	return DimensionKey(entity.ParsedSize{Thickness: thickness, Width: width, Length: length})
}
