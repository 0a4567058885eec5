// Package narrator defines the contract with the narrative-generation
// backend: send a structured turn request, receive a structured scene or
// a failure. Transport and prompt engineering live behind the Service
// interface; the core never sees them.
package narrator

import (
	"context"
	"time"

	"github.com/reveriegames/reverie/pkg/memory"
	"github.com/reveriegames/reverie/pkg/scene"
)

// Interaction types accepted by the backend.
const (
	InteractionNarrativeChoice       = "narrative_choice"
	InteractionCharacterInteraction  = "character_interaction"
	InteractionItemInteraction       = "item_interaction"
	InteractionLocationInteraction   = "location_interaction"
	InteractionQuestInteraction      = "quest_interaction"
	InteractionEnvironmentalInteract = "environmental_interaction"
)

// Service generates one scene per turn request.
type Service interface {
	GenerateScene(ctx context.Context, req *Request) (*scene.Scene, error)
}

// InteractionContext captures the situation at the moment a choice was made.
type InteractionContext struct {
	Timestamp         time.Time            `json:"timestamp"`
	SceneContext      string               `json:"scene_context"`
	LocationContext   string               `json:"location_context"`
	CharactersPresent []string             `json:"characters_present"`
	AvailableItems    []string             `json:"available_items"`
	ActiveThreats     []scene.ThreatUpdate `json:"active_threats"`
	MoodWhenChosen    string               `json:"mood_when_chosen"`
	TensionLevel      int                  `json:"tension_level"`
}

// UserInteraction describes the player action that triggered the turn.
type UserInteraction struct {
	InteractionType    string             `json:"interaction_type"`
	ChoiceText         string             `json:"choice_text"`
	ChoiceIndex        int                `json:"choice_index,omitempty"`
	ElementID          string             `json:"element_id,omitempty"`
	ElementType        string             `json:"element_type,omitempty"`
	InteractionContext InteractionContext `json:"interaction_context"`
}

// GameProgress summarizes session-level pacing state for the backend.
type GameProgress struct {
	ScenesCompleted           int               `json:"scenes_completed"`
	PlayTimeMinutes           int               `json:"play_time_minutes"`
	StoryEscalationLevel      int               `json:"story_escalation_level"`
	TensionLevel              int               `json:"tension_level"`
	MajorStoryBeats           []string          `json:"major_story_beats"`
	ActiveThemes              []string          `json:"active_themes"`
	WorldKnowledge            map[string]any    `json:"world_knowledge"`
	FactionStandings          map[string]string `json:"faction_standings"`
	PlayerPreferences         map[string]any    `json:"player_preferences"`
	PreferredInteractionTypes []string          `json:"preferred_interaction_types"`
}

// Request is the structured turn request: a snapshot of the current
// memory record plus the player's choice and its context.
type Request struct {
	SessionID         string              `json:"session_id"`
	ScenesCompleted   int                 `json:"scenes_completed"`
	UserInteraction   UserInteraction     `json:"user_interaction"`
	PlayerChoice      string              `json:"player_choice"`
	CurrentLocation   string              `json:"current_location"`
	CurrentWorld      string              `json:"current_world"`
	SceneTag          string              `json:"scene_tag,omitempty"`
	PresentCharacters []string            `json:"present_characters"`
	CurrentScene      memory.CurrentScene `json:"current_scene"`
	CurrentInventory  []scene.Item        `json:"current_inventory"`
	GameState         scene.GameState     `json:"game_state"`
	GameProgress      GameProgress        `json:"game_progress"`
	RecentHistory     []string            `json:"recent_history"`
	AgentHints        map[string]any      `json:"agent_hints,omitempty"`
	EmergencyFlags    map[string]bool     `json:"emergency_flags,omitempty"`
}
