// Package memory defines the durable game-memory record and the pure
// reducer that folds one scene into it.
//
// The Record is the cumulative cross-turn aggregate of a play session:
// pointer fields mirroring the latest scene, a bounded history log,
// counters, and deduplicated derived collections (locations, characters,
// lore). Exactly one record is authoritative per session; the reconcile
// package guarantees this at startup and the turn controller serializes
// mutations afterwards.
package memory

import (
	"time"

	"github.com/reveriegames/reverie/pkg/scene"
)

// HistoryCap is the maximum number of history-log entries retained on a
// record. Older entries are dropped from the front.
const HistoryCap = 20

// DefaultWorld is the world name used when a session starts without a
// requested world.
const DefaultWorld = "default"

// ChoiceRecord is one entry in the player's choice history.
type ChoiceRecord struct {
	ChoiceText      string    `json:"choice_text"`
	InteractionType string    `json:"interaction_type"`
	SceneTag        string    `json:"scene_tag,omitempty"`
	ChosenAt        time.Time `json:"chosen_at"`
}

// CurrentScene is the renderable slice of the latest scene kept on the
// record so a session can be re-rendered after a reload without calling
// the narrator.
type CurrentScene struct {
	NarrationText            string                         `json:"narration_text"`
	Dialogue                 []scene.DialogueLine           `json:"dialogue"`
	Characters               []scene.Character              `json:"characters"`
	Options                  []string                       `json:"options"`
	MoodAtmosphere           string                         `json:"mood_atmosphere"`
	RelationshipChanges      map[string]int                 `json:"relationship_changes,omitempty"`
	NewSecrets               []string                       `json:"new_secrets,omitempty"`
	InteractiveElements      []scene.InteractiveElement     `json:"interactive_elements,omitempty"`
	EnvironmentalDiscoveries []scene.EnvironmentalDiscovery `json:"environmental_discoveries,omitempty"`
	ThreatUpdates            []scene.ThreatUpdate           `json:"threat_updates,omitempty"`
	AmbientEvents            []scene.AmbientEvent           `json:"ambient_events,omitempty"`
	DiscoveredLore           []scene.LoreEntry              `json:"discovered_lore,omitempty"`
	WorldInfo                scene.WorldInfo                `json:"world_info"`
	LocationDetails          scene.LocationDetails          `json:"location_details"`
}

// Record is the durable, cumulative game-state aggregate for one session.
type Record struct {
	SessionID   string    `json:"session_id"`
	LastUpdated time.Time `json:"last_updated"`

	// Pointer fields mirroring the latest accepted scene.
	SceneTag     string          `json:"scene_tag"`
	Location     string          `json:"location"`
	World        string          `json:"world"`
	Inventory    []scene.Item    `json:"inventory"`
	GameState    scene.GameState `json:"game_state"`
	CurrentScene CurrentScene    `json:"current_scene"`

	// Bounded history log, most-recent-last.
	History []string `json:"history"`

	// Cumulative counters.
	PlayTimeMinutes int `json:"play_time_minutes"`
	ScenesCompleted int `json:"scenes_completed"`

	// Cumulative derived collections.
	DiscoveredLocations  []string          `json:"discovered_locations"`
	MetCharacters        []string          `json:"met_characters"`
	UnlockedFeatures     []string          `json:"unlocked_features,omitempty"`
	MajorStoryBeats      []string          `json:"major_story_beats,omitempty"`
	ActiveSideQuests     []string          `json:"active_side_quests,omitempty"`
	PlayerChoicesHistory []ChoiceRecord    `json:"player_choices_history,omitempty"`
	WorldKnowledge       map[string]any    `json:"world_knowledge,omitempty"`
	FactionStandings     map[string]string `json:"faction_standings,omitempty"`
	DiscoveredSecrets    []string          `json:"discovered_secrets,omitempty"`
	TriggeredEvents      []string          `json:"triggered_events,omitempty"`
	PlayerPreferences    map[string]any    `json:"player_preferences,omitempty"`
	ResumeContext        map[string]any    `json:"resume_context,omitempty"`
	LoreCollection       []scene.LoreEntry `json:"lore_collection"`

	// World metadata. Persists across scenes unless replaced by a
	// non-empty value.
	WorldInfo scene.WorldInfo `json:"world_info"`
}

// NewRecord creates a default record for a brand-new session. The world
// name seeds both the world pointer field and the world metadata; an empty
// name falls back to DefaultWorld.
func NewRecord(sessionID, worldName string, now time.Time) *Record {
	if worldName == "" {
		worldName = DefaultWorld
	}

	worldInfo := scene.WorldInfo{
		Name:        worldName,
		Theme:       "survival",
		Description: "A harsh world where survival is paramount.",
	}

	return &Record{
		SessionID:   sessionID,
		LastUpdated: now,
		SceneTag:    "game_start",
		World:       worldName,
		Inventory:   []scene.Item{},
		GameState:   defaultGameState(),
		CurrentScene: CurrentScene{
			MoodAtmosphere: "neutral",
			WorldInfo:      worldInfo,
			LocationDetails: scene.LocationDetails{
				SafetyLevel: 5,
			},
		},
		History:             []string{},
		DiscoveredLocations: []string{},
		MetCharacters:       []string{},
		LoreCollection:      []scene.LoreEntry{},
		WorldInfo:           worldInfo,
	}
}

func defaultGameState() scene.GameState {
	return scene.GameState{
		Relationships: map[string]int{},
		LocationFlags: map[string]bool{},
		StoryFlags:    map[string]any{},
		Reputation:    map[string]string{},
		EnvironmentalConditions: scene.EnvironmentalConditions{
			Weather:     "clear",
			Visibility:  "normal",
			Temperature: "comfortable",
		},
		ResourceAvailability: scene.ResourceAvailability{
			Food:             "moderate",
			Water:            "moderate",
			MedicalSupplies:  "scarce",
			ShelterMaterials: "moderate",
			Fuel:             "scarce",
			Tools:            "moderate",
		},
	}
}

// RebuildScene reconstructs a renderable scene from the record. Used on
// resume, when memory exists but no live scene does (e.g. after a reload):
// the presentation layer renders this instead of asking the narrator.
func (r *Record) RebuildScene() *scene.Scene {
	narration := r.CurrentScene.NarrationText
	if narration == "" {
		narration = "You find yourself in a familiar place..."
	}

	mood := r.CurrentScene.MoodAtmosphere
	if mood == "" {
		mood = "neutral"
	}

	var lastEntry string
	if len(r.History) > 0 {
		lastEntry = r.History[len(r.History)-1]
	}

	return &scene.Scene{
		SceneTag:                     r.SceneTag,
		Location:                     r.Location,
		World:                        r.World,
		NarrationText:                narration,
		Dialogue:                     append([]scene.DialogueLine(nil), r.CurrentScene.Dialogue...),
		Characters:                   append([]scene.Character(nil), r.CurrentScene.Characters...),
		Options:                      append([]string(nil), r.CurrentScene.Options...),
		GameState:                    r.GameState,
		CurrentInventory:             append([]scene.Item(nil), r.Inventory...),
		MoodAtmosphere:               mood,
		HistoryEntry:                 lastEntry,
		RelationshipChanges:          r.CurrentScene.RelationshipChanges,
		NewSecrets:                   append([]string(nil), r.CurrentScene.NewSecrets...),
		NewObjectives:                append([]scene.QuestObjective(nil), r.GameState.ActiveObjectives...),
		CompletedObjectivesThisScene: append([]string(nil), r.GameState.CompletedObjectives...),
		InteractiveElements:          append([]scene.InteractiveElement(nil), r.CurrentScene.InteractiveElements...),
		EnvironmentalDiscoveries:     append([]scene.EnvironmentalDiscovery(nil), r.CurrentScene.EnvironmentalDiscoveries...),
		ThreatUpdates:                append([]scene.ThreatUpdate(nil), r.CurrentScene.ThreatUpdates...),
		AmbientEvents:                append([]scene.AmbientEvent(nil), r.CurrentScene.AmbientEvents...),
		DiscoveredLore:               append([]scene.LoreEntry(nil), r.CurrentScene.DiscoveredLore...),
		WorldInfo:                    r.CurrentScene.WorldInfo,
		LocationDetails:              r.CurrentScene.LocationDetails,
	}
}
