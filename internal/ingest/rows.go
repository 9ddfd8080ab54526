package ingest

import (
	"regexp"
	"strings"
)

var reCellGap = regexp.MustCompile(`\t+| {2,}`)

// SplitRows breaks text into rows of cells. Cells are separated by tabs or
// runs of two or more spaces; blank lines are dropped.
func SplitRows(text string) [][]string {
	var rows [][]string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		parts := reCellGap.Split(ln, -1)
		row := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				row = append(row, p)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// JoinRows is the inverse of SplitRows for grid sources.
func JoinRows(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		cells := make([]string, 0, len(r))
		for _, c := range r {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, "  "))
		}
	}
	return strings.Join(lines, "\n")
}
