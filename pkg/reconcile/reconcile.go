// Package reconcile decides, once per session, which copy of the game
// memory is authoritative: the local cache slot, the in-process handoff
// context, or the remote memory service.
//
// Sources are checked in strict priority order and the first hit wins.
// A hit is written forward into any faster source that missed, so later
// reads are cheap and consistent. A full miss is not an error - it
// signals a fresh session and the caller starts a new game.
package reconcile

import (
	"context"
	"log/slog"
	"sync"

	"github.com/reveriegames/reverie/pkg/handoff"
	"github.com/reveriegames/reverie/pkg/memory"
	"github.com/reveriegames/reverie/pkg/memory/store"
)

// State is the engine's lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateResolving
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateResolving:
		return "resolving"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Source identifies where the authoritative record came from.
type Source string

const (
	SourceLocal   Source = "local"
	SourceContext Source = "context"
	SourceRemote  Source = "remote"
	SourceNone    Source = "none"
)

// Outcome is the result of reconciliation. Found is false for a fresh
// session with no memory anywhere.
type Outcome struct {
	Record *memory.Record
	Found  bool
	Source Source
}

// Engine resolves the authoritative memory record for one session.
// Resolution runs exactly once per engine lifetime; re-entering Resolve
// after it has completed returns the stored outcome without touching any
// source again, so a stale reload can never clobber in-progress gameplay.
type Engine struct {
	sessionID string
	local     store.Local
	remote    store.Remote
	slot      *handoff.Slot
	logger    *slog.Logger

	mu      sync.Mutex
	state   State
	outcome Outcome
}

// NewEngine creates a reconcile engine. remote may be nil when the session
// runs offline; the remote source then always misses.
func NewEngine(sessionID string, local store.Local, remote store.Remote, slot *handoff.Slot, logger *slog.Logger) *Engine {
	return &Engine{
		sessionID: sessionID,
		local:     local,
		remote:    remote,
		slot:      slot,
		logger:    logger,
	}
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Resolve determines the authoritative record. Source faults are contained
// here: they are logged and treated as misses, never returned - a cold
// start must not hard-fail the game.
func (e *Engine) Resolve(ctx context.Context) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateResolved {
		return e.outcome
	}
	e.state = StateResolving

	e.outcome = e.resolve(ctx)
	e.state = StateResolved

	e.logger.Info("memory reconciled",
		"session_id", e.sessionID,
		"source", e.outcome.Source,
		"found", e.outcome.Found,
	)

	return e.outcome
}

func (e *Engine) resolve(ctx context.Context) Outcome {
	// Priority 1: local cache (covers reload within a session).
	record, err := e.local.Read()
	if err != nil {
		e.logger.Warn("local cache read failed", "error", err)
	}
	if record != nil {
		e.slot.SetRecord(record)
		return Outcome{Record: record, Found: true, Source: SourceLocal}
	}

	// Priority 2: handoff context (covers in-process navigation).
	if record := e.slot.Record(); record != nil {
		if err := e.local.Write(record); err != nil {
			e.logger.Warn("forwarding context record to local cache failed", "error", err)
		}
		return Outcome{Record: record, Found: true, Source: SourceContext}
	}

	// Priority 3: remote service, queried once (covers true cold start).
	if e.remote != nil {
		record, found, err := e.remote.Load(ctx, e.sessionID)
		if err != nil {
			// Treated identically to a miss.
			e.logger.Warn("remote memory load failed", "session_id", e.sessionID, "error", err)
		} else if found {
			e.slot.SetRecord(record)
			if err := e.local.Write(record); err != nil {
				e.logger.Warn("forwarding remote record to local cache failed", "error", err)
			}
			return Outcome{Record: record, Found: true, Source: SourceRemote}
		}
	}

	// Fresh session. The caller is expected to start a new game.
	return Outcome{Source: SourceNone}
}
