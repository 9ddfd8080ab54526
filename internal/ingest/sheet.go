package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/packlist/constants"
)

// SheetReader reads xlsx/xlsm workbooks with excelize and CSV files with
// encoding/csv. Rows are returned as-is; the first row is not assumed to be a
// header.
type SheetReader struct{}

func (SheetReader) Sheets(ctx context.Context, data []byte, format constants.FileFormat) ([]Page, error) {
	if format == constants.CSV {
		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		rows, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		return []Page{{Index: 0, Name: "csv", Text: JoinRows(rows), Rows: rows}}, nil
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var pages []Page
	for i, name := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		pages = append(pages, Page{Index: i, Name: name, Text: JoinRows(rows), Rows: rows})
	}
	return pages, nil
}
