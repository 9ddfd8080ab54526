package constants

import "strings"

// FileFormat is the coarse input kind the orchestrator dispatches on.
type FileFormat string

const (
	PDF         FileFormat = "PDF"
	SPREADSHEET FileFormat = "SPREADSHEET"
	CSV         FileFormat = "CSV"
	UNSUPPORTED FileFormat = "UNSUPPORTED"
)

// AllowedExtensions holds the file extensions accepted for packing-list ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"xlsx": {},
	"xlsm": {},
	"csv":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to its format.
func MapExtToFormat(ext string) FileFormat {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "xlsx", "xlsm":
		return SPREADSHEET
	case "csv":
		return CSV
	default:
		return UNSUPPORTED
	}
}

// SniffFormat looks at magic bytes first and falls back to the extension.
func SniffFormat(data []byte, ext string) FileFormat {
	switch {
	case len(data) >= 4 && string(data[:4]) == "%PDF":
		return PDF
	case len(data) >= 4 && data[0] == 'P' && data[1] == 'K' && data[2] == 3 && data[3] == 4:
		return SPREADSHEET
	}
	return MapExtToFormat(ext)
}
