package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/export"
	"github.com/joseph-ayodele/packlist/internal/pipeline"
)

const gulfCSV = "GULF PLATE & SUPPLY\nPACKING LIST\n" +
	"Lot No,Thickness,Width,Length,Pcs,Heat,Gross Wt (LBS),Net Wt (LBS)\n" +
	"88123-004,0.25,60,120,3,5A1234,\"1,545\",\"1,532\"\n" +
	"88123-005,3/8,72,144,2,5A1240,\"2,215\",\"2,205\"\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// execute runs the root command against a sqlite catalog in dir.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{
		"--inventory-store", "sqlite",
		"--inventory-path", filepath.Join(dir, "inventory.db"),
		"--ocr-engine", "tesseract",
		"--log-level", "error",
	}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWriteYAMLKeepsJSONNames(t *testing.T) {
	v := struct {
		NeedsOCR bool `json:"needs_ocr"`
	}{true}
	var buf bytes.Buffer
	if err := write(&buf, "yaml", v); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "needs_ocr: true\n" {
		t.Errorf("yaml = %q", got)
	}
	buf.Reset()
	if err := write(&buf, "json", v); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"needs_ocr": true`) {
		t.Errorf("json = %q", buf.String())
	}
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gulf.csv", gulfCSV)

	out, err := execute(t, dir, "parse", "--po", "4500777", "--remember", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var res pipeline.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Document == nil || len(res.Document.Items) != 2 || res.Document.PO != "4500777" {
		t.Fatalf("result = %+v", res)
	}

	// --remember persisted the inventory IDs
	out, err = execute(t, dir, "inventory", "list")
	if err != nil {
		t.Fatalf("inventory list: %v", err)
	}
	var entries []entity.InventoryEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(entries) != 2 {
		t.Errorf("entries = %+v", entries)
	}
}

// WHAT: a directory with a duplicate and an unparseable file.
// WHY: duplicates are dropped before parsing and failures still print.
func TestParseCommandDirectory(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	if err := os.Mkdir(in, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, in, "a.csv", gulfCSV)
	writeFile(t, in, "b.csv", gulfCSV)
	writeFile(t, in, "notes.csv", "nothing,to,see\n")

	out, err := execute(t, dir, "parse", "-o", "yaml", in)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Fatalf("err = %v", err)
	}
	if strings.Count(out, "path:") != 2 || !strings.Contains(out, "error:") {
		t.Errorf("output = %s", out)
	}
}

func TestInventoryImport(t *testing.T) {
	dir := t.TempDir()
	ids := writeFile(t, dir, "ids.csv", "PL-250-60-120\nPL-375-72-144\n")

	out, err := execute(t, dir, "inventory", "import", ids)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, `"imported": 2`) {
		t.Errorf("output = %s", out)
	}

	side := filepath.Join(dir, "copy.json")
	if _, err := execute(t, dir, "inventory", "persist", "--to-store", "file", "--to-path", side); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if _, err := os.Stat(side); err != nil {
		t.Errorf("side file: %v", err)
	}

	if _, err := execute(t, dir, "inventory", "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	out, _ = execute(t, dir, "inventory", "list")
	if strings.TrimSpace(out) != "[]" && strings.TrimSpace(out) != "null" {
		t.Errorf("after clear = %s", out)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gulf.csv", gulfCSV)
	xlsx := filepath.Join(dir, "receipt.xlsx")
	pq := filepath.Join(dir, "lines.parquet")

	if _, err := execute(t, dir, "export", "--xlsx", xlsx, "--parquet", pq, path); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(xlsx)
	if err != nil || !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("xlsx: %v", err)
	}
	lines, err := export.ReadParquet(pq)
	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("lines = %d", len(lines))
	}

	if _, err := execute(t, dir, "export", path); err == nil {
		t.Error("export without a target should fail")
	}
}

func TestRejectsUnknownOutput(t *testing.T) {
	if _, err := execute(t, t.TempDir(), "-o", "xml", "inventory", "list"); err == nil {
		t.Error("expected error for -o xml")
	}
}
