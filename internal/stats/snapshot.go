package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vestalabs/vesta/internal/model"
)

// snapshotVersion is bumped whenever the snapshot layout changes; a
// mismatch forces a full live rebuild.
const snapshotVersion = 1

// snapshot is the persisted aggregate cache artifact: one document
// keyed by category name.
type snapshot struct {
	Version    int                            `json:"schema_version"`
	BuiltAt    time.Time                      `json:"built_at"`
	Categories map[string]model.CategoryStats `json:"categories"`
}

// loadSnapshot reads the snapshot from disk. Any failure — missing
// file, unreadable file, undecodable JSON, version mismatch — returns
// ok=false so the caller recomputes live aggregates. A stale or corrupt
// snapshot is discarded wholesale, never partially applied.
func loadSnapshot(path string) (map[string]model.CategoryStats, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	if snap.Version != snapshotVersion || snap.Categories == nil {
		return nil, false
	}
	return snap.Categories, true
}

// saveSnapshot writes the snapshot atomically via a temp file rename.
func saveSnapshot(path string, categories map[string]model.CategoryStats) error {
	snap := snapshot{
		Version:    snapshotVersion,
		BuiltAt:    time.Now().UTC(),
		Categories: categories,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
