package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joseph-ayodele/packlist/constants"
)

const gulfCSV = "GULF PLATE & SUPPLY\nPACKING LIST\n" +
	"Lot No,Thickness,Width,Length,Pcs,Heat,Gross Wt (LBS),Net Wt (LBS)\n" +
	"88123-004,0.25,60,120,3,5A1234,\"1,545\",\"1,532\"\n" +
	"88123-005,3/8,72,144,2,5A1240,\"2,215\",\"2,205\"\n"

// WHAT: a CSV dropped into the watched folder is parsed and written out.
// WHY: watch mode is the unattended path; its only output is on disk.
func TestWatchWritesOutcome(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	in, out := t.TempDir(), t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx, WatchOptions{Dir: in, OutputDir: out, Debounce: 50 * time.Millisecond, Remember: true})
	}()

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(in, "gulf.csv"), []byte(gulfCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	jsonPath := filepath.Join(out, "gulf.json")
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(filepath.Join(out, "gulf.xlsx")); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no output written")
		}
		time.Sleep(50 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Job struct {
			Status constants.JobStatus `json:"status"`
			Items  int                 `json:"items"`
		} `json:"job"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Job.Status != constants.JobStatusParsed || got.Job.Items != 2 {
		t.Errorf("job = %+v", got.Job)
	}
	if a.Inventory.Len() != 2 {
		t.Errorf("inventory has %d entries, want 2 remembered", a.Inventory.Len())
	}
}
