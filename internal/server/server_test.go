package server

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/inventory"
	"github.com/joseph-ayodele/packlist/internal/pipeline"
	"github.com/joseph-ayodele/packlist/internal/units"
)

type stubParser struct {
	got pipeline.Options
}

func (p *stubParser) ParseFile(_ context.Context, data []byte, name string, opts pipeline.Options) (*pipeline.Result, error) {
	p.got = opts
	switch string(data) {
	case "empty":
		return nil, &extractNoItems{}
	case "invoice":
		return &pipeline.Result{IsInvoice: true}, nil
	}
	doc := entity.NewPackingList(constants.SupplierC, opts.PO)
	doc.Warehouse = "CHI"
	doc.SetItems([]entity.PackingListItem{
		{InventoryID: "PL.250X60X120-HR", Pieces: 3, GrossLbs: 1545, NetLbs: 1532, Size: units.NewSize(0.25, 60, 120)},
	})
	return &pipeline.Result{Format: constants.PDF, Document: doc, SelectedPages: []int{0}}, nil
}

type extractNoItems struct{}

func (extractNoItems) Error() string { return "no items" }
func (extractNoItems) Unwrap() error { return common.ErrNoItems }

func dial(t *testing.T, svc PackingListServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs, _ := NewGRPCServer(svc, 1<<20, nil)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestParseFileOverGRPC(t *testing.T) {
	parser := &stubParser{}
	c := NewClient(dial(t, NewPackingListService(parser, nil, 0, time.Minute, nil)))

	res, err := c.ParseFile(context.Background(), []byte("%PDF"), "gulf.pdf", pipeline.Options{PO: "4500777", ForceOCR: true})
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if !parser.got.ForceOCR || parser.got.PO != "4500777" {
		t.Errorf("options = %+v", parser.got)
	}
	doc := res.Document
	if doc == nil || doc.PO != "4500777" || len(doc.Items) != 1 || doc.Items[0].NetLbs != 1532 {
		t.Fatalf("document = %+v", doc)
	}
	if doc.Supplier != constants.SupplierC || res.Format != constants.PDF {
		t.Errorf("supplier %s format %s", doc.Supplier, res.Format)
	}
}

func TestParseFileErrorsOverGRPC(t *testing.T) {
	c := NewClient(dial(t, NewPackingListService(&stubParser{}, nil, 16, 0, nil)))
	tests := []struct {
		name     string
		data     string
		filename string
		po       string
		want     codes.Code
	}{
		{"missing filename", "x", "", "", codes.InvalidArgument},
		{"unsupported extension", "x", "notes.docx", "", codes.InvalidArgument},
		{"bad po", "x", "a.pdf", "no spaces allowed", codes.InvalidArgument},
		{"too large", "0123456789abcdefghij", "a.pdf", "", codes.InvalidArgument},
		{"no items", "empty", "a.pdf", "", codes.FailedPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ParseFile(context.Background(), []byte(tt.data), tt.filename, pipeline.Options{PO: tt.po})
			if got := status.Code(err); got != tt.want {
				t.Errorf("code = %s, want %s (%v)", got, tt.want, err)
			}
		})
	}
}

func TestExportFileOverGRPC(t *testing.T) {
	c := NewClient(dial(t, NewPackingListService(&stubParser{}, nil, 0, 0, nil)))
	xlsx, err := c.ExportFile(context.Background(), []byte("%PDF"), "gulf.pdf", pipeline.Options{})
	if err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	if !bytes.HasPrefix(xlsx, []byte("PK")) {
		t.Errorf("export is not a zip container")
	}
	if _, err := c.ExportFile(context.Background(), []byte("invoice"), "inv.pdf", pipeline.Options{}); status.Code(err) != codes.FailedPrecondition {
		t.Errorf("invoice export err = %v", err)
	}
}

func TestListInventoryAndHealth(t *testing.T) {
	lookup := inventory.NewLookup(nil, nil)
	lookup.Put(entity.InventoryEntry{InventoryID: "PL-B"}, entity.InventoryEntry{InventoryID: "PL-A", Thickness: 0.25, Width: 60, Length: 120})
	conn := dial(t, NewPackingListService(&stubParser{}, lookup, 0, 0, nil))

	out, err := NewClient(conn).ListInventory(context.Background())
	if err != nil {
		t.Fatalf("ListInventory: %v", err)
	}
	entries := out.GetFields()["entries"].GetListValue().GetValues()
	if len(entries) != 2 || entries[0].GetStructValue().GetFields()["inventory_id"].GetStringValue() != "PL-A" {
		t.Errorf("entries = %v", entries)
	}

	hc, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil || hc.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("health = %v, %v", hc, err)
	}
}
