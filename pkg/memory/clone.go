package memory

import "github.com/reveriegames/reverie/pkg/scene"

// Clone returns a deep copy of the record. Stores and the handoff slot
// always pass copies so no two owners share backing slices or maps.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	clone := *r

	clone.Inventory = append([]scene.Item(nil), r.Inventory...)
	clone.History = append([]string(nil), r.History...)
	clone.DiscoveredLocations = append([]string(nil), r.DiscoveredLocations...)
	clone.MetCharacters = append([]string(nil), r.MetCharacters...)
	clone.UnlockedFeatures = append([]string(nil), r.UnlockedFeatures...)
	clone.MajorStoryBeats = append([]string(nil), r.MajorStoryBeats...)
	clone.ActiveSideQuests = append([]string(nil), r.ActiveSideQuests...)
	clone.PlayerChoicesHistory = append([]ChoiceRecord(nil), r.PlayerChoicesHistory...)
	clone.DiscoveredSecrets = append([]string(nil), r.DiscoveredSecrets...)
	clone.TriggeredEvents = append([]string(nil), r.TriggeredEvents...)
	clone.LoreCollection = append([]scene.LoreEntry(nil), r.LoreCollection...)

	clone.WorldKnowledge = cloneAnyMap(r.WorldKnowledge)
	clone.FactionStandings = cloneMap(r.FactionStandings)
	clone.PlayerPreferences = cloneAnyMap(r.PlayerPreferences)
	clone.ResumeContext = cloneAnyMap(r.ResumeContext)

	clone.GameState = cloneGameState(r.GameState)
	clone.CurrentScene = cloneCurrentScene(r.CurrentScene)

	return &clone
}

func cloneGameState(gs scene.GameState) scene.GameState {
	clone := gs
	clone.Relationships = cloneMap(gs.Relationships)
	clone.RevealedSecrets = append([]string(nil), gs.RevealedSecrets...)
	clone.CompletedObjectives = append([]string(nil), gs.CompletedObjectives...)
	clone.FailedObjectives = append([]string(nil), gs.FailedObjectives...)
	clone.ActiveObjectives = append([]scene.QuestObjective(nil), gs.ActiveObjectives...)
	clone.LocationFlags = cloneMap(gs.LocationFlags)
	clone.StoryFlags = cloneAnyMap(gs.StoryFlags)
	clone.Reputation = cloneMap(gs.Reputation)
	clone.MajorEvents = append([]string(nil), gs.MajorEvents...)
	return clone
}

func cloneCurrentScene(cs CurrentScene) CurrentScene {
	clone := cs
	clone.Dialogue = append([]scene.DialogueLine(nil), cs.Dialogue...)
	clone.Characters = append([]scene.Character(nil), cs.Characters...)
	clone.Options = append([]string(nil), cs.Options...)
	clone.RelationshipChanges = cloneMap(cs.RelationshipChanges)
	clone.NewSecrets = append([]string(nil), cs.NewSecrets...)
	clone.InteractiveElements = append([]scene.InteractiveElement(nil), cs.InteractiveElements...)
	clone.EnvironmentalDiscoveries = append([]scene.EnvironmentalDiscovery(nil), cs.EnvironmentalDiscoveries...)
	clone.ThreatUpdates = append([]scene.ThreatUpdate(nil), cs.ThreatUpdates...)
	clone.AmbientEvents = append([]scene.AmbientEvent(nil), cs.AmbientEvents...)
	clone.DiscoveredLore = append([]scene.LoreEntry(nil), cs.DiscoveredLore...)
	return clone
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	clone := make(map[K]V, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

func cloneAnyMap(m map[string]any) map[string]any {
	return cloneMap(m)
}
