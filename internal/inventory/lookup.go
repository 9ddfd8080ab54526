// Package inventory holds the catalog of known inventory identifiers and the
// stores it is loaded from and persisted to. The catalog is constructed by the
// caller and handed to the pipeline; nothing here is process-global.
package inventory

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/extract"
	"github.com/joseph-ayodele/packlist/internal/units"
)

// Store persists catalog entries.
type Store interface {
	Load(ctx context.Context) ([]entity.InventoryEntry, error)
	Save(ctx context.Context, entries []entity.InventoryEntry) error
	Clear(ctx context.Context) error
	Close() error
}

var _ extract.Lookup = (*Lookup)(nil)

// Lookup is safe for concurrent use. Parses only read it.
type Lookup struct {
	mu    sync.RWMutex
	byID  map[string]entity.InventoryEntry
	byKey map[string]string // dimension key -> inventory id
	store Store

	logger *slog.Logger
}

// NewLookup returns an empty catalog. store may be nil for an in-memory catalog.
func NewLookup(store Store, logger *slog.Logger) *Lookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lookup{
		byID:   make(map[string]entity.InventoryEntry),
		byKey:  make(map[string]string),
		store:  store,
		logger: logger,
	}
}

// Load replaces the catalog with the store's contents.
func (l *Lookup) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	entries, err := l.store.Load(ctx)
	if err != nil {
		l.logger.Error("inventory.load.failed", "error", err)
		return err
	}
	l.mu.Lock()
	l.reset()
	for _, e := range entries {
		l.put(e)
	}
	n := len(l.byID)
	l.mu.Unlock()
	l.logger.Info("inventory.load.ok", "entries", n)
	return nil
}

// Clear empties the catalog and the store.
func (l *Lookup) Clear(ctx context.Context) error {
	if l.store != nil {
		if err := l.store.Clear(ctx); err != nil {
			return err
		}
	}
	l.mu.Lock()
	l.reset()
	l.mu.Unlock()
	l.logger.Info("inventory.clear.ok")
	return nil
}

// Persist writes the whole catalog to the store.
func (l *Lookup) Persist(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	entries := l.Entries()
	if err := l.store.Save(ctx, entries); err != nil {
		l.logger.Error("inventory.persist.failed", "error", err)
		return err
	}
	l.logger.Info("inventory.persist.ok", "entries", len(entries))
	return nil
}

// Put adds or replaces entries by inventory ID.
func (l *Lookup) Put(entries ...entity.InventoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range entries {
		l.put(e)
	}
}

// Remember adds the effective inventory IDs of reviewed items and returns how
// many were new.
func (l *Lookup) Remember(items []entity.PackingListItem) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	added := 0
	for _, it := range items {
		id := normalizeID(it.EffectiveInventoryID())
		if id == "" {
			continue
		}
		if _, ok := l.byID[id]; ok {
			continue
		}
		l.byID[id] = entity.InventoryEntry{InventoryID: id}
		added++
	}
	return added
}

// Override returns the catalog entry whose dimensions equal size.
func (l *Lookup) Override(size entity.ParsedSize) (entity.InventoryOverride, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.byKey[units.DimensionKey(size)]
	if !ok {
		return entity.InventoryOverride{}, false
	}
	e := l.byID[id]
	return entity.InventoryOverride{InventoryID: e.InventoryID, WeightPerArea: e.WeightPerArea}, true
}

func (l *Lookup) Known(inventoryID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.byID[normalizeID(inventoryID)]
	return ok
}

func (l *Lookup) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byID)
}

// Entries returns a copy of the catalog sorted by inventory ID.
func (l *Lookup) Entries() []entity.InventoryEntry {
	l.mu.RLock()
	out := make([]entity.InventoryEntry, 0, len(l.byID))
	for _, e := range l.byID {
		out = append(out, e)
	}
	l.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].InventoryID < out[j].InventoryID })
	return out
}

func (l *Lookup) reset() {
	l.byID = make(map[string]entity.InventoryEntry)
	l.byKey = make(map[string]string)
}

// put must be called with mu held.
func (l *Lookup) put(e entity.InventoryEntry) {
	e.InventoryID = normalizeID(e.InventoryID)
	if e.InventoryID == "" {
		return
	}
	if old, ok := l.byID[e.InventoryID]; ok && old.HasDimensions() {
		key := units.DimensionKeyOf(old.Thickness, old.Width, old.Length)
		if l.byKey[key] == e.InventoryID {
			delete(l.byKey, key)
		}
	}
	l.byID[e.InventoryID] = e
	if e.HasDimensions() {
		l.byKey[units.DimensionKeyOf(e.Thickness, e.Width, e.Length)] = e.InventoryID
	}
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
