package export

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/packlist/internal/entity"
)

const (
	receiptSheet  = "Receipt"
	warningsSheet = "Warnings"
)

var receiptHeaders = []string{
	"Vendor",
	"PO Number",
	"PO Line",
	"Inventory ID",
	"Warehouse",
	"Lot/Serial Nbr",
	"Receipt Qty",
	"UOM",
	"Unit Cost",
	"Pieces",
	"Gross LBS",
	"Net LBS",
	"Heat",
	"Container",
	"Size",
	"Flags",
}

// Service produces export files from parsed documents.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// XLSX returns a purchase-receipt workbook with one row per item. Documents
// with warnings also get a Warnings sheet.
func (s *Service) XLSX(ctx context.Context, docs ...*entity.PackingList) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), receiptSheet); err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	for i, h := range receiptHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(receiptSheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(receiptHeaders), 1)
	_ = f.SetCellStyle(receiptSheet, "A1", last, header)

	lines := Lines(docs...)
	for i, l := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(receiptSheet, cell, v)
		}
		write(1, l.VendorCode)
		write(2, l.PO)
		write(3, l.OrderLine)
		write(4, l.InventoryID)
		write(5, l.Warehouse)
		write(6, l.LotNumber)
		write(7, l.ReceiptQty)
		write(8, "LB")
		if l.UnitCost != "" {
			if c, err := decimal.NewFromString(l.UnitCost); err == nil {
				write(9, c.InexactFloat64())
			}
		}
		write(10, l.Pieces)
		write(11, l.GrossLbs)
		write(12, l.NetLbs)
		write(13, l.Heat)
		write(14, l.Container)
		write(15, l.Size)
		write(16, l.Flags)
	}

	_ = f.SetColWidth(receiptSheet, "A", "C", 12)
	_ = f.SetColWidth(receiptSheet, "D", "D", 28) // inventory id
	_ = f.SetColWidth(receiptSheet, "E", "E", 10)
	_ = f.SetColWidth(receiptSheet, "F", "F", 20) // lot
	_ = f.SetColWidth(receiptSheet, "G", "L", 12)
	_ = f.SetColWidth(receiptSheet, "M", "O", 16)
	_ = f.SetColWidth(receiptSheet, "P", "P", 32) // flags
	_ = f.SetPanes(receiptSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if err := s.writeWarnings(f, docs); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"documents", len(docs),
		"rows", len(lines),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeWarnings(f *excelize.File, docs []*entity.PackingList) error {
	row := 1
	for _, d := range docs {
		if d == nil {
			continue
		}
		for _, w := range d.Warnings {
			if row == 1 {
				if _, err := f.NewSheet(warningsSheet); err != nil {
					return err
				}
				_ = f.SetSheetRow(warningsSheet, "A1", &[]any{"PO Number", "Warning"})
				row++
			}
			_ = f.SetSheetRow(warningsSheet, "A"+strconv.Itoa(row), &[]any{d.PO, w})
			row++
		}
	}
	if row > 1 {
		_ = f.SetColWidth(warningsSheet, "B", "B", 80)
	}
	return nil
}
