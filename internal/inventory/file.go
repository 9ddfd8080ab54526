package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/packlist/internal/entity"
)

// The side file is either {"version":1,"entries":[...]} or, in its older
// form, a bare array of inventory ID strings.
const sideFileSchema = `{
  "oneOf": [
    {
      "type": "object",
      "required": ["entries"],
      "properties": {
        "version": {"type": "integer", "minimum": 1},
        "entries": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["inventory_id"],
            "properties": {
              "inventory_id": {"type": "string", "minLength": 1},
              "thickness": {"type": "number", "minimum": 0},
              "width": {"type": "number", "minimum": 0},
              "length": {"type": "number", "minimum": 0},
              "weight_per_area": {"type": "number", "minimum": 0},
              "description": {"type": "string"}
            }
          }
        }
      }
    },
    {"type": "array", "items": {"type": "string", "minLength": 1}}
  ]
}`

const sideFileVersion = 1

type sideFile struct {
	Version int                     `json:"version"`
	Entries []entity.InventoryEntry `json:"entries"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func sideSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("inventory.schema.json", strings.NewReader(sideFileSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("inventory.schema.json")
	})
	return schema, schemaErr
}

// FileStore keeps the catalog in a JSON side file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Load returns no entries when the file does not exist yet.
func (s *FileStore) Load(_ context.Context) ([]entity.InventoryEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("inventory.file.missing", "path", s.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read inventory file: %w", err)
	}
	return DecodeEntries(data)
}

// DecodeEntries validates and decodes side-file JSON.
func DecodeEntries(data []byte) ([]entity.InventoryEntry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	sch, err := sideSchema()
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal inventory file: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("inventory file does not match schema: %w", err)
	}

	if ids, ok := v.([]any); ok {
		out := make([]entity.InventoryEntry, 0, len(ids))
		for _, id := range ids {
			out = append(out, entity.InventoryEntry{InventoryID: id.(string)})
		}
		return out, nil
	}
	var f sideFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode inventory file: %w", err)
	}
	return f.Entries, nil
}

// Save writes through a temp file and rename so readers never see a partial file.
func (s *FileStore) Save(_ context.Context, entries []entity.InventoryEntry) error {
	if entries == nil {
		entries = []entity.InventoryEntry{}
	}
	data, err := json.MarshalIndent(sideFile{Version: sideFileVersion, Entries: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create inventory dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".inventory-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write inventory: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close inventory: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace inventory file: %w", err)
	}
	s.logger.Debug("inventory.file.saved", "path", s.path, "entries", len(entries))
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove inventory file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
