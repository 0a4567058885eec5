// Package scene defines the Scene value: the immutable payload produced by
// one narrative turn. Scenes are created by the narrator backend and are
// never mutated after creation - the memory layer folds them into the
// durable game record.
package scene

import "time"

// Item is a single inventory item.
type Item struct {
	Name        string         `json:"name"`
	Quantity    int            `json:"quantity"`
	Description string         `json:"description"`
	Durability  int            `json:"durability"`
	ItemType    string         `json:"item_type"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// InventoryChanges describes the inventory delta produced by one turn.
type InventoryChanges struct {
	AddedItems    []Item `json:"added_items"`
	RemovedItems  []Item `json:"removed_items"`
	ModifiedItems []Item `json:"modified_items"`
}

// DialogueLine is a single spoken (or thought) line in a scene.
type DialogueLine struct {
	Speaker           string   `json:"speaker"`
	Text              string   `json:"text"`
	Emotion           string   `json:"emotion"`
	IsInternalThought bool     `json:"is_internal_thought"`
	AudibleTo         []string `json:"audible_to,omitempty"`
}

// Character is an NPC present in a scene.
type Character struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Avatar             string          `json:"avatar,omitempty"`
	Interactable       bool            `json:"interactable"`
	RelationshipLevel  int             `json:"relationship_level"`
	CurrentMood        string          `json:"current_mood"`
	TrustLevel         int             `json:"trust_level"`
	Memories           []string        `json:"memories,omitempty"`
	PersonalObjectives []string        `json:"personal_objectives,omitempty"`
	KnowledgeFlags     map[string]bool `json:"knowledge_flags,omitempty"`
	Backstory          string          `json:"backstory,omitempty"`
	Faction            string          `json:"faction,omitempty"`
}

// QuestObjective is an active or proposed quest goal.
type QuestObjective struct {
	ID              string   `json:"id"`
	Description     string   `json:"description"`
	QuestType       string   `json:"quest_type"`
	Completed       bool     `json:"completed"`
	InvolvesNPCs    []string `json:"involves_npcs,omitempty"`
	Progress        int      `json:"progress"`
	EscalationLevel int      `json:"escalation_level"`
	Rewards         []string `json:"rewards,omitempty"`
	TimeLimit       string   `json:"time_limit,omitempty"`
}

// EnvironmentalConditions describes ambient conditions at the current location.
type EnvironmentalConditions struct {
	Weather     string `json:"weather"`
	Visibility  string `json:"visibility"`
	Temperature string `json:"temperature"`
	HazardLevel int    `json:"hazard_level"`
}

// ResourceAvailability describes resource scarcity levels at the current location.
type ResourceAvailability struct {
	Food             string `json:"food"`
	Water            string `json:"water"`
	MedicalSupplies  string `json:"medical_supplies"`
	ShelterMaterials string `json:"shelter_materials"`
	Fuel             string `json:"fuel"`
	Tools            string `json:"tools"`
}

// GameState is the full game-state snapshot carried by every scene.
type GameState struct {
	Relationships           map[string]int          `json:"relationships"`
	RevealedSecrets         []string                `json:"revealed_secrets"`
	CompletedObjectives     []string                `json:"completed_objectives"`
	FailedObjectives        []string                `json:"failed_objectives"`
	ActiveObjectives        []QuestObjective        `json:"active_objectives"`
	LocationFlags           map[string]bool         `json:"location_flags"`
	StoryFlags              map[string]any          `json:"story_flags"`
	Reputation              map[string]string       `json:"reputation"`
	MajorEvents             []string                `json:"major_events"`
	EnvironmentalConditions EnvironmentalConditions `json:"environmental_conditions"`
	ResourceAvailability    ResourceAvailability    `json:"resource_availability"`
}

// InteractiveElement is something in the scene the player can act on.
type InteractiveElement struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	InteractionTypes  []string          `json:"interaction_types,omitempty"`
	RequiresItems     []string          `json:"requires_items,omitempty"`
	UnlocksOptions    []string          `json:"unlocks_options,omitempty"`
	Options           []string          `json:"options,omitempty"`
	PotentialOutcomes map[string]string `json:"potential_outcomes,omitempty"`
}

// EnvironmentalDiscovery is a feature of the environment surfaced this turn.
type EnvironmentalDiscovery struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Significance   string   `json:"significance"`
	UnlocksContent []string `json:"unlocks_content,omitempty"`
}

// ThreatUpdate reports the state of an active threat.
type ThreatUpdate struct {
	ThreatID          string   `json:"threat_id"`
	ThreatName        string   `json:"threat_name"`
	EscalationLevel   int      `json:"escalation_level"`
	ImmediateDanger   bool     `json:"immediate_danger"`
	ResolutionMethods []string `json:"resolution_methods,omitempty"`
	AffectsNPCs       []string `json:"affects_npcs,omitempty"`
}

// AmbientEvent is a background event that colors the scene.
type AmbientEvent struct {
	EventType            string   `json:"event_type"`
	Description          string   `json:"description"`
	AffectsMood          bool     `json:"affects_mood"`
	CreatesOpportunities []string `json:"creates_opportunities,omitempty"`
}

// LoreEntry is a piece of world lore discovered by the player.
// Entries are deduplicated in memory by full structural equality.
type LoreEntry struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Category        string   `json:"category"`
	DiscoveredAt    string   `json:"discovered_at"`
	RelatedEntries  []string `json:"related_entries,omitempty"`
	ImportanceLevel int      `json:"importance_level"`
}

// TimelinePeriod is one period in a world's historical timeline.
type TimelinePeriod struct {
	Period string   `json:"period"`
	Events []string `json:"events"`
}

// WorldInfo is world-level metadata. In memory it persists across scenes
// unless replaced by a non-empty value.
type WorldInfo struct {
	Name               string           `json:"name"`
	Theme              string           `json:"theme"`
	Description        string           `json:"description"`
	KeyLocations       []string         `json:"key_locations,omitempty"`
	DominantFactions   []string         `json:"dominant_factions,omitempty"`
	MajorThreats       []string         `json:"major_threats,omitempty"`
	CulturalNotes      []string         `json:"cultural_notes,omitempty"`
	HistoricalTimeline []TimelinePeriod `json:"historical_timeline,omitempty"`
}

// IsEmpty reports whether the world info carries no usable content.
func (w WorldInfo) IsEmpty() bool {
	return w.Name == "" && w.Theme == "" && w.Description == "" &&
		len(w.KeyLocations) == 0 && len(w.DominantFactions) == 0 &&
		len(w.MajorThreats) == 0 && len(w.CulturalNotes) == 0 &&
		len(w.HistoricalTimeline) == 0
}

// LocationDetails describes the navigable features of the current location.
type LocationDetails struct {
	Exits         []string `json:"exits,omitempty"`
	HiddenAreas   []string `json:"hidden_areas,omitempty"`
	ResourceNodes []string `json:"resource_nodes,omitempty"`
	SafetyLevel   int      `json:"safety_level"`
}

// Scene is one narrative turn's output from the narrator backend.
type Scene struct {
	SceneTag                     string                   `json:"scene_tag"`
	Location                     string                   `json:"location"`
	World                        string                   `json:"world"`
	NarrationText                string                   `json:"narration_text"`
	Dialogue                     []DialogueLine           `json:"dialogue"`
	Characters                   []Character              `json:"characters"`
	Options                      []string                 `json:"options"`
	GameState                    GameState                `json:"game_state"`
	InventoryChanges             InventoryChanges         `json:"inventory_changes"`
	CurrentInventory             []Item                   `json:"current_inventory"`
	MoodAtmosphere               string                   `json:"mood_atmosphere"`
	HistoryEntry                 string                   `json:"history_entry"`
	RelationshipChanges          map[string]int           `json:"relationship_changes,omitempty"`
	NewSecrets                   []string                 `json:"new_secrets,omitempty"`
	NewObjectives                []QuestObjective         `json:"new_objectives,omitempty"`
	CompletedObjectivesThisScene []string                 `json:"completed_objectives_this_scene,omitempty"`
	InteractiveElements          []InteractiveElement     `json:"interactive_elements,omitempty"`
	EnvironmentalDiscoveries     []EnvironmentalDiscovery `json:"environmental_discoveries,omitempty"`
	ThreatUpdates                []ThreatUpdate           `json:"threat_updates,omitempty"`
	AmbientEvents                []AmbientEvent           `json:"ambient_events,omitempty"`
	DiscoveredLore               []LoreEntry              `json:"discovered_lore,omitempty"`
	WorldInfo                    WorldInfo                `json:"world_info"`
	LocationDetails              LocationDetails          `json:"location_details"`
}

// CharacterIDs returns the ids of all characters present in the scene,
// skipping entries without an id.
func (s *Scene) CharacterIDs() []string {
	ids := make([]string, 0, len(s.Characters))
	for _, c := range s.Characters {
		if c.ID != "" {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// ItemNames returns the names of all items in the scene's inventory.
func (s *Scene) ItemNames() []string {
	names := make([]string, 0, len(s.CurrentInventory))
	for _, item := range s.CurrentInventory {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}
	return names
}

// ImmediateThreats returns the threats flagged as immediate danger.
func (s *Scene) ImmediateThreats() []ThreatUpdate {
	var threats []ThreatUpdate
	for _, t := range s.ThreatUpdates {
		if t.ImmediateDanger {
			threats = append(threats, t)
		}
	}
	return threats
}

// NewLoreEntry creates a lore entry stamped with a discovery time.
func NewLoreEntry(id, title, content, category string, at time.Time) LoreEntry {
	return LoreEntry{
		ID:           id,
		Title:        title,
		Content:      content,
		Category:     category,
		DiscoveredAt: at.UTC().Format(time.RFC3339),
	}
}
