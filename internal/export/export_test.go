package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/units"
)

func sampleDoc() *entity.PackingList {
	doc := entity.NewPackingList(constants.SupplierC, "4500777")
	doc.Warehouse = "CHI"
	cost := decimal.RequireFromString("0.52")
	qty := 1500.0
	line := 7
	doc.SetItems([]entity.PackingListItem{
		{
			InventoryID: "PL.250X60X120-HR",
			LotNumber:   "88123-004",
			Pieces:      3,
			Heat:        "5A1234",
			GrossLbs:    1545,
			NetLbs:      1532,
			RawSize:     `.250" X 60" X 120"`,
			Size:        units.NewSize(0.25, 60, 120),
			Container:   "MSCU1234567",
			UnitCost:    &cost,
		},
		{
			InventoryID:       "PL.375X72X144-HR",
			ManualInventoryID: "PL-SPECIAL",
			LotNumber:         "88123-005",
			Pieces:            2,
			GrossLbs:          2215,
			NetLbs:            2205,
			Size:              units.NewSize(0.375, 72, 144),
			Flags:             []string{constants.FlagNewInventoryID},
			OrderQty:          &qty,
			OrderLine:         &line,
			Warehouse:         "HOU",
			PO:                "4500778",
		},
	})
	doc.AddWarning("some items have no matching invoice line")
	return doc
}

func TestLinesResolveOverrides(t *testing.T) {
	lines := Lines(sampleDoc(), nil)
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	first, second := lines[0], lines[1]
	if first.PO != "4500777" || first.OrderLine != 1 || first.Warehouse != "CHI" || first.ReceiptQty != 1532 || first.UnitCost != "0.52" {
		t.Errorf("first = %+v", first)
	}
	if second.InventoryID != "PL-SPECIAL" || second.PO != "4500778" || second.OrderLine != 7 || second.Warehouse != "HOU" || second.ReceiptQty != 1500 {
		t.Errorf("second = %+v", second)
	}
	if second.UnitCost != "" || second.Flags != constants.FlagNewInventoryID {
		t.Errorf("second cost/flags = %q %q", second.UnitCost, second.Flags)
	}
}

func TestXLSX(t *testing.T) {
	data, err := NewService(nil).XLSX(context.Background(), sampleDoc())
	if err != nil {
		t.Fatalf("XLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(receiptSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], receiptHeaders) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != constants.SupplierC.VendorCode() {
		t.Errorf("vendor = %q", rows[1][0])
	}
	if rows[1][3] != "PL.250X60X120-HR" || rows[1][8] != "0.52" || rows[1][7] != "LB" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][3] != "PL-SPECIAL" || rows[2][2] != "7" {
		t.Errorf("row 2 = %v", rows[2])
	}

	warn, err := f.GetRows(warningsSheet)
	if err != nil || len(warn) != 2 || warn[1][0] != "4500777" {
		t.Errorf("warnings = %v, %v", warn, err)
	}
}

func TestXLSXWithoutWarnings(t *testing.T) {
	doc := entity.NewPackingList(constants.SupplierB, "")
	data, err := NewService(nil).XLSX(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if idx, _ := f.GetSheetIndex(warningsSheet); idx != -1 {
		t.Errorf("unexpected %s sheet", warningsSheet)
	}
}

func TestParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.parquet")
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	n, err := NewService(nil).WriteParquet(context.Background(), out, sampleDoc())
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil || n != 2 {
		t.Fatalf("WriteParquet = %d, %v", n, err)
	}

	got, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}
	if want := Lines(sampleDoc()); !reflect.DeepEqual(got, want) {
		t.Errorf("round trip:\n got %+v\nwant %+v", got, want)
	}
}
