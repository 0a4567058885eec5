// Package store defines the memory-store adapter: pure I/O contracts for
// persisting the game record locally and remotely. Drivers never merge or
// retry - retry policy belongs to the reconcile engine and the turn
// controller, and merging belongs to the reducer.
package store

import (
	"context"

	"github.com/reveriegames/reverie/pkg/memory"
)

// Local is the single-slot local cache holding the current session's
// record. A missing slot reads as (nil, nil); a corrupt slot is purged by
// the driver and also reads as (nil, nil).
type Local interface {
	// Read returns the cached record, or nil when the slot is empty.
	Read() (*memory.Record, error)

	// Write replaces the slot with the given record.
	Write(record *memory.Record) error

	// Clear empties the slot. Clearing an empty slot is a no-op.
	Clear() error
}

// Remote is the remote persistence collaborator, keyed by session id.
type Remote interface {
	// Load fetches the record for a session. found is false when the
	// service has no record for the session.
	Load(ctx context.Context, sessionID string) (record *memory.Record, found bool, err error)

	// Save persists the record. Callers treat failures as best-effort.
	Save(ctx context.Context, record *memory.Record) error

	// Delete removes the session's record. Deleting an unknown session
	// is a no-op.
	Delete(ctx context.Context, sessionID string) error
}
