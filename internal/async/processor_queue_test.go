package async

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/pipeline"
)

type recordingParser struct {
	mu    sync.Mutex
	order []string
}

func (p *recordingParser) ParseFile(_ context.Context, data []byte, name string, _ pipeline.Options) (*pipeline.Result, error) {
	p.mu.Lock()
	p.order = append(p.order, name)
	p.mu.Unlock()
	switch string(data) {
	case "fail":
		return nil, errors.New("boom")
	case "scan":
		return &pipeline.Result{NeedsOCR: true}, nil
	case "invoice":
		return &pipeline.Result{IsInvoice: true, Invoice: &entity.Invoice{Supplier: constants.SupplierC}}, nil
	}
	doc := entity.NewPackingList(constants.SupplierB, "")
	doc.SetItems([]entity.PackingListItem{{Pieces: 1}, {Pieces: 2}})
	return &pipeline.Result{Document: doc}, nil
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

// WHAT: one worker finishes files in arrival order with the right status.
// WHY: watch mode relies on the queue preserving drop order.
func TestProcessorQueueOrderAndStatus(t *testing.T) {
	dir := t.TempDir()
	files := []struct {
		name, body string
		want       constants.JobStatus
	}{
		{"a.pdf", "ok", constants.JobStatusParsed},
		{"b.pdf", "fail", constants.JobStatusFailed},
		{"c.pdf", "scan", constants.JobStatusNeedsOCR},
		{"d.pdf", "invoice", constants.JobStatusInvoice},
	}

	parser := &recordingParser{}
	var mu sync.Mutex
	var handled []entity.ParseJob
	q := NewProcessorQueue(parser, nil, WithHandler(func(_ context.Context, j entity.ParseJob, _ *pipeline.Result, _ error) {
		mu.Lock()
		handled = append(handled, j)
		mu.Unlock()
	}))

	for _, f := range files {
		if _, err := q.Enqueue(context.Background(), Job{Path: writeFile(t, dir, f.name, f.body)}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	jobs := q.Jobs()
	if len(jobs) != len(files) || len(handled) != len(files) {
		t.Fatalf("jobs %d handled %d, want %d", len(jobs), len(handled), len(files))
	}
	for i, f := range files {
		if parser.order[i] != f.name {
			t.Errorf("order[%d] = %s, want %s", i, parser.order[i], f.name)
		}
		if jobs[i].Status != f.want {
			t.Errorf("%s status = %s, want %s", f.name, jobs[i].Status, f.want)
		}
		if handled[i].FinishedAt == nil {
			t.Errorf("%s has no finish time", f.name)
		}
	}
	if jobs[0].Items != 2 || jobs[0].Supplier != constants.SupplierB {
		t.Errorf("parsed job = %+v", jobs[0])
	}
	if jobs[1].ErrorMessage != "boom" {
		t.Errorf("failed job = %+v", jobs[1])
	}
	if got, ok := q.Job(jobs[3].ID); !ok || got.Supplier != constants.SupplierC {
		t.Errorf("Job(invoice) = %+v, %v", got, ok)
	}
}

func TestProcessorQueueMissingFile(t *testing.T) {
	q := NewProcessorQueue(&recordingParser{}, nil)
	id, err := q.Enqueue(context.Background(), Job{Path: filepath.Join(t.TempDir(), "gone.pdf")})
	if err != nil {
		t.Fatal(err)
	}
	q.Shutdown(context.Background())
	if j, _ := q.Job(id); j.Status != constants.JobStatusFailed {
		t.Errorf("status = %s", j.Status)
	}
}

func TestProcessorQueueRejectsAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&recordingParser{}, nil, WithWorkers(2), WithQueueSize(4), WithProcessTimeout(time.Second))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())
	if _, err := q.Enqueue(context.Background(), Job{Path: "x"}); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}
