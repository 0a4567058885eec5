// Package cachefile implements the local memory cache as a single JSON
// slot (memory.json) in the .reverie/ directory.
//
// The slot covers the reload-within-session scenario: it is the first
// source checked during reconciliation. A corrupt slot is purged on read
// and reported as absent - local cache corruption is recovered silently,
// never surfaced to the player.
package cachefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/reveriegames/reverie/pkg/dotdir"
	"github.com/reveriegames/reverie/pkg/memory"
)

// slotFile is the name of the cache slot inside the .reverie/ directory.
const slotFile = "memory.json"

// Driver implements store.Local backed by a JSON file.
type Driver struct {
	path   string
	logger *slog.Logger
}

// NewDriver creates a cache slot in the resolved .reverie/ directory.
// If overrideDir is non-empty, it is used instead of the default location.
func NewDriver(overrideDir string, logger *slog.Logger) (*Driver, error) {
	dir, err := dotdir.NewManager().Ensure(overrideDir)
	if err != nil {
		return nil, fmt.Errorf("resolving cache directory: %w", err)
	}

	return &Driver{
		path:   filepath.Join(dir, slotFile),
		logger: logger,
	}, nil
}

// Path returns the absolute path of the slot file.
func (d *Driver) Path() string {
	return d.path
}

// Dir returns the directory holding the slot file.
func (d *Driver) Dir() string {
	return filepath.Dir(d.path)
}

// Read returns the cached record, or nil when the slot is empty. An
// unparseable slot is purged and reported as empty.
func (d *Driver) Read() (*memory.Record, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache slot: %w", err)
	}

	record := &memory.Record{}
	if err := json.Unmarshal(data, record); err != nil {
		d.logger.Warn("purging corrupt cache slot",
			"path", d.path,
			"error", err,
		)
		if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("purging corrupt cache slot: %w", err)
		}
		return nil, nil
	}

	return record, nil
}

// Write replaces the slot with the given record.
func (d *Driver) Write(record *memory.Record) error {
	if record == nil {
		return errors.New("cannot cache nil record")
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	if err := os.WriteFile(d.path, data, 0o600); err != nil {
		return fmt.Errorf("writing cache slot: %w", err)
	}

	return nil
}

// Clear empties the slot. Clearing an empty slot is a no-op.
func (d *Driver) Clear() error {
	if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing cache slot: %w", err)
	}

	return nil
}
