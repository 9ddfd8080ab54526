package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joseph-ayodele/packlist/constants"
)

// FileResult is one file found by Collect.
type FileResult struct {
	Path         string               `json:"path"`
	Format       constants.FileFormat `json:"format"`
	HashHex      string               `json:"hash"`
	Deduplicated bool                 `json:"deduplicated"`
	Err          string               `json:"error,omitempty"`
}

// DirStats summarizes a directory walk.
type DirStats struct {
	Scanned      uint32 `json:"scanned"`
	Matched      uint32 `json:"matched"`
	Succeeded    uint32 `json:"succeeded"`
	Deduplicated uint32 `json:"deduplicated"`
	Failed       uint32 `json:"failed"`
}

// Seen remembers content hashes so the same file dropped twice is only
// processed once. It is safe for concurrent use.
type Seen struct {
	mu     sync.Mutex
	hashes map[string]string // hash -> first path
}

func NewSeen() *Seen {
	return &Seen{hashes: make(map[string]string)}
}

// Add records hash and reports whether it was already present.
func (s *Seen) Add(hash, path string) (dup bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hashes[hash]; ok {
		return true
	}
	s.hashes[hash] = path
	return false
}

// Fingerprint returns the hex SHA-256 of the file at path.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Collect walks root in lexical order and returns every supported file.
// Identical content is reported once as a success and afterwards as
// deduplicated. A nil seen uses a fresh set.
func Collect(ctx context.Context, root string, skipHidden bool, seen *Seen) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}
	if seen == nil {
		seen = NewSeen()
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		hash, err := Fingerprint(path)
		if err != nil {
			results = append(results, FileResult{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		r := FileResult{
			Path:         path,
			Format:       constants.MapExtToFormat(filepath.Ext(path)),
			HashHex:      hash,
			Deduplicated: seen.Add(hash, path),
		}
		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}
