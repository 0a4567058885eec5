package memory

import (
	"encoding/json"
	"time"

	"github.com/reveriegames/reverie/pkg/scene"
)

// Seed carries the identity used to synthesize a record when a scene is
// accepted for a brand-new session with no prior memory.
type Seed struct {
	SessionID string
	World     string
}

// Reduce folds one accepted scene into the record and returns the next
// record. The input record is never mutated; a nil record synthesizes a
// default one seeded from the request. The merge order is fixed:
//
//  1. Overwrite pointer fields from the scene.
//  2. Append the history entry (if non-empty), truncating to HistoryCap.
//  3. Increment scenes completed; add elapsed minutes since the last turn.
//  4. Union discovered locations and met characters.
//  5. Union the lore collection, deduplicating by structural equality.
//  6. Replace world metadata only when the scene carries a non-empty one.
//
// Reduce is deterministic for a fixed now; the wall clock is the only
// injected input.
func Reduce(prev *Record, s *scene.Scene, seed Seed, now time.Time) *Record {
	var elapsed int
	if prev == nil {
		prev = NewRecord(seed.SessionID, seed.World, now)
	} else {
		elapsed = minutesBetween(prev.LastUpdated, now)
	}

	next := prev.Clone()
	next.LastUpdated = now

	// 1. Pointer fields.
	next.SceneTag = s.SceneTag
	next.Location = s.Location
	next.World = s.World
	next.Inventory = append([]scene.Item(nil), s.CurrentInventory...)
	next.GameState = cloneGameState(s.GameState)
	next.CurrentScene = CurrentScene{
		NarrationText:            s.NarrationText,
		Dialogue:                 append([]scene.DialogueLine(nil), s.Dialogue...),
		Characters:               append([]scene.Character(nil), s.Characters...),
		Options:                  append([]string(nil), s.Options...),
		MoodAtmosphere:           s.MoodAtmosphere,
		RelationshipChanges:      cloneMap(s.RelationshipChanges),
		NewSecrets:               append([]string(nil), s.NewSecrets...),
		InteractiveElements:      append([]scene.InteractiveElement(nil), s.InteractiveElements...),
		EnvironmentalDiscoveries: append([]scene.EnvironmentalDiscovery(nil), s.EnvironmentalDiscoveries...),
		ThreatUpdates:            append([]scene.ThreatUpdate(nil), s.ThreatUpdates...),
		AmbientEvents:            append([]scene.AmbientEvent(nil), s.AmbientEvents...),
		DiscoveredLore:           append([]scene.LoreEntry(nil), s.DiscoveredLore...),
		WorldInfo:                s.WorldInfo,
		LocationDetails:          s.LocationDetails,
	}

	// 2. History log.
	if s.HistoryEntry != "" {
		next.History = append(next.History, s.HistoryEntry)
	}
	if len(next.History) > HistoryCap {
		next.History = append([]string(nil), next.History[len(next.History)-HistoryCap:]...)
	}

	// 3. Counters.
	next.ScenesCompleted++
	next.PlayTimeMinutes += elapsed

	// 4. Derived sets.
	if s.Location != "" {
		next.DiscoveredLocations = unionStrings(next.DiscoveredLocations, []string{s.Location})
	}
	next.MetCharacters = unionStrings(next.MetCharacters, s.CharacterIDs())

	// 5. Lore, deduplicated by full structural equality.
	next.LoreCollection = unionLore(next.LoreCollection, s.DiscoveredLore)

	// 6. World metadata: last non-empty wins.
	if !s.WorldInfo.IsEmpty() {
		next.WorldInfo = s.WorldInfo
	}

	return next
}

// minutesBetween returns whole minutes from a to b, clamped at zero so a
// skewed clock can never shrink play time.
func minutesBetween(a, b time.Time) int {
	if !b.After(a) {
		return 0
	}
	return int(b.Sub(a) / time.Minute)
}

// unionStrings appends the members of add not already present, preserving
// insertion order and skipping empty values.
func unionStrings(base, add []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, v := range base {
		seen[v] = struct{}{}
	}

	out := base
	for _, v := range add {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// unionLore merges lore entries, treating two entries as duplicates only
// when every field matches. The serialized form is the equality key.
func unionLore(base, add []scene.LoreEntry) []scene.LoreEntry {
	seen := make(map[string]struct{}, len(base))
	for _, entry := range base {
		seen[loreKey(entry)] = struct{}{}
	}

	out := base
	for _, entry := range add {
		key := loreKey(entry)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entry)
	}
	return out
}

func loreKey(entry scene.LoreEntry) string {
	key, err := json.Marshal(entry)
	if err != nil {
		// Lore entries are plain data; marshaling cannot fail in
		// practice. Fall back to the id so merging still terminates.
		return entry.ID
	}
	return string(key)
}
