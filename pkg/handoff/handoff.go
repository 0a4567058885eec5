// Package handoff provides the in-process context slot used to carry game
// state across navigation boundaries: either a loaded memory record (a
// "continue" action) or a requested world name for a brand-new game.
//
// The slot is an explicitly passed, single-owner object injected into the
// reconcile engine and the turn controller at construction. It always
// holds copies, never shared references.
package handoff

import (
	"sync"

	"github.com/reveriegames/reverie/pkg/memory"
)

// Slot is the shared handoff slot. The zero value is empty and ready to use.
type Slot struct {
	mu     sync.RWMutex
	record *memory.Record
	world  string
}

// NewSlot creates an empty handoff slot.
func NewSlot() *Slot {
	return &Slot{}
}

// SetRecord stores a copy of the record, making it visible to the next
// reader. Storing a record clears any pending world request.
func (s *Slot) SetRecord(record *memory.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record = record.Clone()
	s.world = ""
}

// Record returns a copy of the held record, or nil when the slot carries
// no record.
func (s *Slot) Record() *memory.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.record.Clone()
}

// RequestWorld marks the slot as a new-game request for the named world.
// Any held record is dropped.
func (s *Slot) RequestWorld(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record = nil
	s.world = name
}

// World returns the requested world name for a new game, if any.
func (s *Slot) World() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.world
}

// Clear empties the slot.
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record = nil
	s.world = ""
}
