package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/packlist/constants"
)

// AllowedExt checks if a file extension is in the allowed set (pdf/xlsx/xlsm/csv).
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.' or is an
// office lock file such as ~$book.xlsx).
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$")
}
