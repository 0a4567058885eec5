// Package turn orchestrates one player turn: snapshot the memory record,
// call the narrator, fold the scene into memory, persist, and expose the
// result to the presentation layer.
//
// At most one turn is in flight per session. A submit while a turn is
// running is not an error - it is silently rejected and the caller gets
// the current state back, protecting the record from concurrent reduces.
package turn

import (
	"time"

	"github.com/reveriegames/reverie/pkg/memory"
	"github.com/reveriegames/reverie/pkg/scene"
)

// Choice is the player action submitted for one turn.
type Choice struct {
	Text            string
	InteractionType string

	// Element fields are set for interactions targeting a specific
	// scene element (an item, an NPC, an interactive object).
	ElementID   string
	ElementType string

	// Index is the position of the chosen option in the scene's option
	// list, or -1 when the choice was free-form.
	Index int
}

// Result is the outcome of a submitted turn.
type Result struct {
	// Scene is the renderable scene after the turn.
	Scene *scene.Scene

	// Record is the memory record after the turn.
	Record *memory.Record

	// Accepted is false when the submit was rejected because another
	// turn was already in flight; Scene and Record then reflect the
	// unchanged current state.
	Accepted bool

	// Duration is the narrator round-trip time for accepted turns.
	Duration time.Duration
}
