// Package inmemory provides in-process store drivers used for tests and
// ephemeral play sessions that should not touch disk or network.
package inmemory

import (
	"context"
	"errors"
	"sync"

	"github.com/reveriegames/reverie/pkg/memory"
)

// Local implements store.Local with a single in-process slot.
type Local struct {
	mu     sync.RWMutex
	record *memory.Record
}

// NewLocal creates an empty in-memory cache slot.
func NewLocal() *Local {
	return &Local{}
}

// Read returns a copy of the cached record, or nil when the slot is empty.
func (l *Local) Read() (*memory.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.record.Clone(), nil
}

// Write replaces the slot with a copy of the given record.
func (l *Local) Write(record *memory.Record) error {
	if record == nil {
		return errors.New("cannot cache nil record")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.record = record.Clone()
	return nil
}

// Clear empties the slot.
func (l *Local) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.record = nil
	return nil
}

// Remote implements store.Remote with an in-process map keyed by session id.
type Remote struct {
	mu      sync.RWMutex
	records map[string]*memory.Record
}

// NewRemote creates an empty in-memory remote store.
func NewRemote() *Remote {
	return &Remote{
		records: make(map[string]*memory.Record),
	}
}

// Load fetches a copy of the record for a session.
func (r *Remote) Load(_ context.Context, sessionID string) (*memory.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[sessionID]
	if !ok {
		return nil, false, nil
	}

	return record.Clone(), true, nil
}

// Save persists a copy of the record under its session id.
func (r *Remote) Save(_ context.Context, record *memory.Record) error {
	if record == nil {
		return errors.New("cannot save nil record")
	}
	if record.SessionID == "" {
		return errors.New("record has no session id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.SessionID] = record.Clone()
	return nil
}

// Delete removes the session's record. Unknown sessions are a no-op.
func (r *Remote) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, sessionID)
	return nil
}
