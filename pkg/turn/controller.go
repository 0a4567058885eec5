package turn

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reveriegames/reverie/pkg/eventstream"
	"github.com/reveriegames/reverie/pkg/memory"
	"github.com/reveriegames/reverie/pkg/memory/store"
	"github.com/reveriegames/reverie/pkg/narrator"
	"github.com/reveriegames/reverie/pkg/scene"
)

// Options configures a Controller.
type Options struct {
	// SessionID identifies the session. Required.
	SessionID string

	// World is the requested world name, used to seed a brand-new
	// record on the first accepted scene.
	World string

	// Record is the reconciled memory record, or nil for a fresh
	// session.
	Record *memory.Record

	// Narrator generates scenes. Required.
	Narrator narrator.Service

	// Local is the cache slot written after every committed turn.
	// Required.
	Local store.Local

	// Remote receives best-effort saves after every committed turn.
	// May be nil for offline sessions.
	Remote store.Remote

	// Slot receives the updated record for cross-navigation handoff.
	// May be nil.
	Slot recordSetter

	// Events receives turn-committed events. May be nil.
	Events eventstream.Publisher

	// Logger is required.
	Logger *slog.Logger

	// Clock overrides the wall clock for tests. Defaults to time.Now.
	Clock func() time.Time
}

// recordSetter is the slice of the handoff slot the controller needs.
type recordSetter interface {
	SetRecord(record *memory.Record)
}

// Controller runs turns for one session. It owns the memory record after
// reconciliation has resolved it and serializes all mutations.
type Controller struct {
	sessionID string
	world     string
	svc       narrator.Service
	local     store.Local
	remote    store.Remote
	slot      recordSetter
	events    eventstream.Publisher
	logger    *slog.Logger
	clock     func() time.Time

	mu       sync.Mutex
	record   *memory.Record
	inFlight bool
}

// NewController creates a turn controller seeded with the reconciled record.
func NewController(opts Options) *Controller {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Controller{
		sessionID: opts.SessionID,
		world:     opts.World,
		svc:       opts.Narrator,
		local:     opts.Local,
		remote:    opts.Remote,
		slot:      opts.Slot,
		events:    opts.Events,
		logger:    opts.Logger,
		clock:     clock,
		record:    opts.Record.Clone(),
	}
}

// Record returns a copy of the current memory record, or nil before the
// first accepted scene of a fresh session.
func (c *Controller) Record() *memory.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record.Clone()
}

// SubmitChoice runs one turn. The narrator is invoked exactly once; there
// is no automatic retry. On failure the prior record is left untouched
// and the error is returned for the player to decide whether to resubmit.
func (c *Controller) SubmitChoice(ctx context.Context, choice Choice) (*Result, error) {
	c.mu.Lock()
	if c.inFlight {
		current := c.record.Clone()
		c.mu.Unlock()

		c.logger.Debug("turn already in flight, ignoring submit",
			"session_id", c.sessionID,
			"choice", choice.Text,
		)

		result := &Result{Record: current}
		if current != nil {
			result.Scene = current.RebuildScene()
		}
		return result, nil
	}
	c.inFlight = true
	snapshot := c.record.Clone()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	now := c.clock()
	req := c.buildRequest(snapshot, choice, now)

	started := time.Now()
	s, err := c.svc.GenerateScene(ctx, req)
	duration := time.Since(started)
	if err != nil {
		c.logger.Error("turn failed",
			"session_id", c.sessionID,
			"choice", choice.Text,
			"error", err,
		)
		return nil, fmt.Errorf("generating scene: %w", err)
	}

	// Required-field validation rejects a gutted payload even when the
	// transport call succeeded.
	if err := s.Validate(); err != nil {
		c.logger.Error("narrator returned malformed scene",
			"session_id", c.sessionID,
			"error", err,
		)
		return nil, err
	}

	next := memory.Reduce(snapshot, s, memory.Seed{SessionID: c.sessionID, World: c.world}, now)
	c.commit(ctx, next)
	c.publish(ctx, next, choice, duration)

	return &Result{
		Scene:    s,
		Record:   next.Clone(),
		Accepted: true,
		Duration: duration,
	}, nil
}

// commit installs the reduced record and persists it: the local cache and
// handoff slot synchronously, the remote store fire-and-forget.
func (c *Controller) commit(ctx context.Context, next *memory.Record) {
	c.mu.Lock()
	c.record = next
	c.mu.Unlock()

	if err := c.local.Write(next); err != nil {
		c.logger.Warn("local cache write failed", "session_id", c.sessionID, "error", err)
	}

	if c.slot != nil {
		c.slot.SetRecord(next)
	}

	if c.remote != nil {
		// The write carries a full, self-consistent snapshot, so a
		// delayed save can only land an equally-or-more-recent record.
		saveCtx := context.WithoutCancel(ctx)
		snapshot := next.Clone()
		go func() {
			if err := c.remote.Save(saveCtx, snapshot); err != nil {
				c.logger.Warn("remote save failed",
					"session_id", c.sessionID,
					"scene_tag", snapshot.SceneTag,
					"error", err,
				)
			}
		}()
	}
}

func (c *Controller) publish(ctx context.Context, next *memory.Record, choice Choice, duration time.Duration) {
	if c.events == nil {
		return
	}

	event := &eventstream.TurnCommittedEvent{
		SchemaVersion:   eventstream.SchemaVersionV1,
		EventType:       eventstream.EventTypeTurnCommitted,
		EventID:         uuid.NewString(),
		EmittedAt:       c.clock(),
		SessionID:       next.SessionID,
		World:           next.World,
		SceneTag:        next.SceneTag,
		Location:        next.Location,
		ScenesCompleted: next.ScenesCompleted,
		Choice:          choice.Text,
		InteractionType: choice.InteractionType,
		DurationMs:      duration.Milliseconds(),
	}

	if err := c.events.PublishTurn(ctx, event); err != nil {
		c.logger.Warn("turn event publish failed", "session_id", c.sessionID, "error", err)
	}
}

// buildRequest snapshots the record and choice metadata into a narrator
// request. A nil record yields a default context so the backend can start
// a brand-new game.
func (c *Controller) buildRequest(record *memory.Record, choice Choice, now time.Time) *narrator.Request {
	if record == nil {
		record = memory.NewRecord(c.sessionID, c.world, now)
	}

	current := record.RebuildScene()
	tension := intFlag(record.GameState.StoryFlags, "tension_level", 1)
	escalation := intFlag(record.GameState.StoryFlags, "story_escalation_level", 1)
	scenesAfter := record.ScenesCompleted + 1

	interaction := narrator.UserInteraction{
		InteractionType: choice.InteractionType,
		ChoiceText:      choice.Text,
		ChoiceIndex:     choice.Index,
		ElementID:       choice.ElementID,
		ElementType:     choice.ElementType,
		InteractionContext: narrator.InteractionContext{
			Timestamp:         now,
			SceneContext:      record.SceneTag,
			LocationContext:   record.Location,
			CharactersPresent: current.CharacterIDs(),
			AvailableItems:    current.ItemNames(),
			ActiveThreats:     current.ImmediateThreats(),
			MoodWhenChosen:    current.MoodAtmosphere,
			TensionLevel:      tension,
		},
	}

	pacing := "build_tension"
	if scenesAfter > 50 {
		pacing = "escalate_toward_climax"
	}

	resources := record.GameState.ResourceAvailability

	return &narrator.Request{
		SessionID:         c.sessionID,
		ScenesCompleted:   scenesAfter,
		UserInteraction:   interaction,
		PlayerChoice:      choice.Text,
		CurrentLocation:   record.Location,
		CurrentWorld:      record.World,
		SceneTag:          record.SceneTag,
		PresentCharacters: current.CharacterIDs(),
		CurrentScene:      record.CurrentScene,
		CurrentInventory:  record.Inventory,
		GameState:         record.GameState,
		GameProgress: narrator.GameProgress{
			ScenesCompleted:      scenesAfter,
			PlayTimeMinutes:      record.PlayTimeMinutes,
			StoryEscalationLevel: escalation,
			TensionLevel:         tension,
			MajorStoryBeats:      record.MajorStoryBeats,
			WorldKnowledge:       record.WorldKnowledge,
			FactionStandings:     record.FactionStandings,
			PlayerPreferences:    record.PlayerPreferences,
		},
		RecentHistory: record.History,
		AgentHints: map[string]any{
			"story_pacing_hint":   pacing,
			"interaction_pattern": choice.InteractionType,
			"world_theme":         record.WorldInfo.Theme,
		},
		EmergencyFlags: map[string]bool{
			"high_threat":              highThreat(current.ImmediateThreats()),
			"story_climax_approaching": scenesAfter > 80,
			"critical_resources_low":   resources.Food == "critical" || resources.Water == "critical",
		},
	}
}

// highThreat reports an immediate-danger threat escalated past the point
// where the backend should interrupt normal pacing.
func highThreat(threats []scene.ThreatUpdate) bool {
	for _, t := range threats {
		if t.EscalationLevel > 7 {
			return true
		}
	}
	return false
}

// intFlag reads an integer story flag, tolerating the float64 values JSON
// decoding produces.
func intFlag(flags map[string]any, key string, fallback int) int {
	v, ok := flags[key]
	if !ok {
		return fallback
	}

	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return fallback
	}
}
