package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTurnCommitted is emitted after a turn's scene has been
	// folded into the memory record and persisted.
	EventTypeTurnCommitted = "reverie.turn.committed"
)

// TurnCommittedEvent is a transport-neutral event payload for one
// committed turn. Consumers see the outcome of the turn, not the full
// record - the record lives in the memory service.
type TurnCommittedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	SessionID       string `json:"session_id"`
	World           string `json:"world"`
	SceneTag        string `json:"scene_tag"`
	Location        string `json:"location"`
	ScenesCompleted int    `json:"scenes_completed"`

	Choice          string `json:"choice"`
	InteractionType string `json:"interaction_type"`
	DurationMs      int64  `json:"duration_ms"`
}
