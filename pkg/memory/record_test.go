package memory_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reveriegames/reverie/pkg/memory"
	"github.com/reveriegames/reverie/pkg/scene"
)

var _ = Describe("NewRecord", func() {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	It("seeds identity and defaults", func() {
		record := memory.NewRecord("sess-7", "verdant-ruins", now)

		Expect(record.SessionID).To(Equal("sess-7"))
		Expect(record.World).To(Equal("verdant-ruins"))
		Expect(record.WorldInfo.Name).To(Equal("verdant-ruins"))
		Expect(record.SceneTag).To(Equal("game_start"))
		Expect(record.LastUpdated).To(Equal(now))
		Expect(record.ScenesCompleted).To(BeZero())
		Expect(record.History).To(BeEmpty())
	})

	It("falls back to the default world", func() {
		record := memory.NewRecord("sess-7", "", now)
		Expect(record.World).To(Equal(memory.DefaultWorld))
		Expect(record.WorldInfo.Name).To(Equal(memory.DefaultWorld))
	})

	It("starts with populated game state maps", func() {
		record := memory.NewRecord("sess-7", "", now)
		Expect(record.GameState.Relationships).NotTo(BeNil())
		Expect(record.GameState.StoryFlags).NotTo(BeNil())
		Expect(record.GameState.ResourceAvailability.Food).To(Equal("moderate"))
	})
})

var _ = Describe("RebuildScene", func() {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	seed := memory.Seed{SessionID: "sess-7", World: "default"}

	It("reconstructs the latest scene from memory", func() {
		s := testScene("scene_004")
		record := memory.Reduce(nil, s, seed, now)

		rebuilt := record.RebuildScene()
		Expect(rebuilt.SceneTag).To(Equal("scene_004"))
		Expect(rebuilt.Location).To(Equal("ruined_chapel"))
		Expect(rebuilt.NarrationText).To(Equal("Dust hangs in the candlelight."))
		Expect(rebuilt.Options).To(Equal([]string{"Search the altar", "Leave quietly"}))
		Expect(rebuilt.HistoryEntry).To(Equal("Entered the chapel through the broken door."))
	})

	It("substitutes placeholder narration on an empty record", func() {
		record := memory.NewRecord("sess-7", "", now)
		rebuilt := record.RebuildScene()

		Expect(rebuilt.NarrationText).NotTo(BeEmpty())
		Expect(rebuilt.MoodAtmosphere).To(Equal("neutral"))
	})
})

var _ = Describe("Clone", func() {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	It("returns nil for a nil record", func() {
		var record *memory.Record
		Expect(record.Clone()).To(BeNil())
	})

	It("isolates maps and slices from the original", func() {
		record := memory.NewRecord("sess-7", "", now)
		record.History = []string{"one"}
		record.GameState.Relationships["keeper"] = 2
		record.LoreCollection = []scene.LoreEntry{{ID: "lore-1"}}

		clone := record.Clone()
		clone.History[0] = "mutated"
		clone.GameState.Relationships["keeper"] = 99
		clone.LoreCollection[0].ID = "mutated"

		Expect(record.History[0]).To(Equal("one"))
		Expect(record.GameState.Relationships["keeper"]).To(Equal(2))
		Expect(record.LoreCollection[0].ID).To(Equal("lore-1"))
	})
})
