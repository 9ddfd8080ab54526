package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/entity"
)

// ReadEntries decodes a catalog export by file extension: .json side files,
// .csv, or the first sheet of an .xlsx workbook.
func ReadEntries(name string, r io.Reader) ([]entity.InventoryEntry, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return DecodeEntries(data)
	case ".csv":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		return entriesFromRows(rows)
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
		}
		return entriesFromRows(rows)
	}
	return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, name)
}

// entriesFromRows reads a grid whose first row may name the columns. Without
// a header the first column holds the inventory ID.
func entriesFromRows(rows [][]string) ([]entity.InventoryEntry, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := map[string]int{"inventory_id": 0}
	start := 0
	if isHeader(rows[0]) {
		cols = make(map[string]int)
		for i, cell := range rows[0] {
			cols[headerName(cell)] = i
		}
		if _, ok := cols["inventory_id"]; !ok {
			return nil, common.InvalidArgumentError("inventory import: no inventory id column")
		}
		start = 1
	}

	var out []entity.InventoryEntry
	for n, row := range rows[start:] {
		e := entity.InventoryEntry{
			InventoryID: strings.TrimSpace(cell(row, cols, "inventory_id")),
			Description: strings.TrimSpace(cell(row, cols, "description")),
		}
		if e.InventoryID == "" {
			continue
		}
		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{"thickness", &e.Thickness},
			{"width", &e.Width},
			{"length", &e.Length},
			{"weight_per_area", &e.WeightPerArea},
		} {
			s := strings.TrimSpace(cell(row, cols, f.name))
			if s == "" {
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, common.InvalidArgumentErrorf("inventory import row %d: %s %q is not a number", n+start+1, f.name, s)
			}
			*f.dst = v
		}
		out = append(out, e)
	}
	return out, nil
}

func isHeader(row []string) bool {
	for _, c := range row {
		if headerName(c) == "inventory_id" {
			return true
		}
	}
	return false
}

func headerName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	switch s {
	case "inventory_id", "inventory", "id", "item", "item_id", "part":
		return "inventory_id"
	case "lb_per_sqft", "lbs_per_sqft", "weight_per_area", "wpa":
		return "weight_per_area"
	}
	return s
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
