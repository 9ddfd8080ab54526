package units

import "github.com/joseph-ayodele/packlist/internal/entity"

// Limits is a supplier's plausible dimension range in inches.
type Limits struct {
	MinThickness, MaxThickness float64
	MinWidth, MaxWidth         float64
	MinLength, MaxLength       float64
	WidthNotOverLength         bool
}

// IsValidDimensions rejects, never clamps, sizes outside l.
func IsValidDimensions(size entity.ParsedSize, l Limits) bool {
	if size.Thickness <= 0 || size.Thickness < l.MinThickness || size.Thickness > l.MaxThickness {
		return false
	}
	if size.Width < l.MinWidth || size.Width > l.MaxWidth {
		return false
	}
	if size.Length < l.MinLength || size.Length > l.MaxLength {
		return false
	}
	if l.WidthNotOverLength && size.Width > size.Length {
		return false
	}
	return true
}

// IsValidSheetSize is IsValidDimensions for gauge sheet: at most 0.2".
func IsValidSheetSize(size entity.ParsedSize, l Limits) bool {
	return size.Thickness <= 0.2 && IsValidDimensions(size, l)
}
