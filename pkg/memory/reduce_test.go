package memory_test

import (
	"fmt"
	"reflect"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reveriegames/reverie/pkg/memory"
	"github.com/reveriegames/reverie/pkg/scene"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testScene(tag string) *scene.Scene {
	return &scene.Scene{
		SceneTag:       tag,
		Location:       "ruined_chapel",
		World:          "default",
		NarrationText:  "Dust hangs in the candlelight.",
		HistoryEntry:   "Entered the chapel through the broken door.",
		Options:        []string{"Search the altar", "Leave quietly"},
		MoodAtmosphere: "tense",
		Characters: []scene.Character{
			{ID: "keeper", Name: "The Keeper", Interactable: true},
		},
		CurrentInventory: []scene.Item{
			{Name: "rusted key", Quantity: 1},
		},
	}
}

var _ = Describe("Reduce", func() {
	seed := memory.Seed{SessionID: "sess-42", World: "default"}

	Context("with no prior record", func() {
		It("synthesizes a seeded record before merging", func() {
			next := memory.Reduce(nil, testScene("scene_001"), seed, baseTime)

			Expect(next.SessionID).To(Equal("sess-42"))
			Expect(next.World).To(Equal("default"))
			Expect(next.SceneTag).To(Equal("scene_001"))
			Expect(next.ScenesCompleted).To(Equal(1))
			Expect(next.PlayTimeMinutes).To(BeZero())
			Expect(next.LastUpdated).To(Equal(baseTime))
		})

		It("falls back to the default world for an empty seed", func() {
			s := testScene("scene_001")
			s.World = memory.DefaultWorld
			next := memory.Reduce(nil, s, memory.Seed{SessionID: "sess-42"}, baseTime)

			Expect(next.World).To(Equal(memory.DefaultWorld))
		})
	})

	Context("pointer fields", func() {
		It("overwrites them from the scene", func() {
			prev := memory.Reduce(nil, testScene("scene_001"), seed, baseTime)

			s := testScene("scene_002")
			s.Location = "bell_tower"
			s.NarrationText = "Wind screams through the louvres."
			next := memory.Reduce(prev, s, seed, baseTime.Add(time.Minute))

			Expect(next.SceneTag).To(Equal("scene_002"))
			Expect(next.Location).To(Equal("bell_tower"))
			Expect(next.CurrentScene.NarrationText).To(Equal("Wind screams through the louvres."))
		})
	})

	Context("history log", func() {
		It("appends the entry most-recent-last", func() {
			prev := memory.Reduce(nil, testScene("scene_001"), seed, baseTime)
			s := testScene("scene_002")
			s.HistoryEntry = "Climbed the tower stairs."
			next := memory.Reduce(prev, s, seed, baseTime.Add(time.Minute))

			Expect(next.History).To(HaveLen(2))
			Expect(next.History[1]).To(Equal("Climbed the tower stairs."))
		})

		It("skips empty entries", func() {
			prev := memory.Reduce(nil, testScene("scene_001"), seed, baseTime)
			s := testScene("scene_002")
			s.HistoryEntry = ""
			next := memory.Reduce(prev, s, seed, baseTime.Add(time.Minute))

			Expect(next.History).To(HaveLen(1))
		})

		It("keeps only the newest entries past the cap", func() {
			var record *memory.Record
			for i := 0; i < memory.HistoryCap+5; i++ {
				s := testScene(fmt.Sprintf("scene_%03d", i))
				s.HistoryEntry = fmt.Sprintf("entry %d", i)
				record = memory.Reduce(record, s, seed, baseTime.Add(time.Duration(i)*time.Minute))
			}

			Expect(record.History).To(HaveLen(memory.HistoryCap))
			Expect(record.History[0]).To(Equal("entry 5"))
			Expect(record.History[memory.HistoryCap-1]).To(Equal(fmt.Sprintf("entry %d", memory.HistoryCap+4)))
		})
	})

	Context("counters", func() {
		It("increments scenes completed by exactly one per reduce", func() {
			record := memory.Reduce(nil, testScene("a"), seed, baseTime)
			record = memory.Reduce(record, testScene("b"), seed, baseTime.Add(time.Minute))
			record = memory.Reduce(record, testScene("c"), seed, baseTime.Add(2*time.Minute))

			Expect(record.ScenesCompleted).To(Equal(3))
		})

		It("accumulates whole elapsed minutes", func() {
			record := memory.Reduce(nil, testScene("a"), seed, baseTime)
			record = memory.Reduce(record, testScene("b"), seed, baseTime.Add(7*time.Minute+30*time.Second))

			Expect(record.PlayTimeMinutes).To(Equal(7))
		})

		It("never decreases play time when the clock goes backwards", func() {
			record := memory.Reduce(nil, testScene("a"), seed, baseTime)
			record = memory.Reduce(record, testScene("b"), seed, baseTime.Add(10*time.Minute))
			before := record.PlayTimeMinutes

			record = memory.Reduce(record, testScene("c"), seed, baseTime.Add(5*time.Minute))
			Expect(record.PlayTimeMinutes).To(Equal(before))
		})
	})

	Context("derived sets", func() {
		It("unions locations without duplicates", func() {
			record := memory.Reduce(nil, testScene("a"), seed, baseTime)
			record = memory.Reduce(record, testScene("b"), seed, baseTime.Add(time.Minute))

			s := testScene("c")
			s.Location = "bell_tower"
			record = memory.Reduce(record, s, seed, baseTime.Add(2*time.Minute))

			Expect(record.DiscoveredLocations).To(Equal([]string{"ruined_chapel", "bell_tower"}))
		})

		It("unions character ids without duplicates", func() {
			record := memory.Reduce(nil, testScene("a"), seed, baseTime)

			s := testScene("b")
			s.Characters = append(s.Characters, scene.Character{ID: "warden", Name: "Warden"})
			record = memory.Reduce(record, s, seed, baseTime.Add(time.Minute))

			Expect(record.MetCharacters).To(Equal([]string{"keeper", "warden"}))
		})
	})

	Context("lore collection", func() {
		entry := func(id, content string) scene.LoreEntry {
			return scene.LoreEntry{ID: id, Title: "The Bell", Content: content, Category: "history"}
		}

		It("drops structurally identical entries", func() {
			s1 := testScene("a")
			s1.DiscoveredLore = []scene.LoreEntry{entry("lore-1", "The bell cracked in the last winter.")}
			record := memory.Reduce(nil, s1, seed, baseTime)

			s2 := testScene("b")
			s2.DiscoveredLore = []scene.LoreEntry{entry("lore-1", "The bell cracked in the last winter.")}
			record = memory.Reduce(record, s2, seed, baseTime.Add(time.Minute))

			Expect(record.LoreCollection).To(HaveLen(1))
		})

		It("keeps entries that share an id but differ in any field", func() {
			s1 := testScene("a")
			s1.DiscoveredLore = []scene.LoreEntry{entry("lore-1", "The bell cracked in the last winter.")}
			record := memory.Reduce(nil, s1, seed, baseTime)

			s2 := testScene("b")
			s2.DiscoveredLore = []scene.LoreEntry{entry("lore-1", "A second telling of the bell's cracking.")}
			record = memory.Reduce(record, s2, seed, baseTime.Add(time.Minute))

			Expect(record.LoreCollection).To(HaveLen(2))
		})
	})

	Context("world metadata", func() {
		It("keeps the previous info when the scene carries none", func() {
			record := memory.Reduce(nil, testScene("a"), seed, baseTime)
			previous := record.WorldInfo

			s := testScene("b")
			s.WorldInfo = scene.WorldInfo{}
			record = memory.Reduce(record, s, seed, baseTime.Add(time.Minute))

			Expect(record.WorldInfo).To(Equal(previous))
		})

		It("replaces the info when the scene carries a non-empty one", func() {
			record := memory.Reduce(nil, testScene("a"), seed, baseTime)

			s := testScene("b")
			s.WorldInfo = scene.WorldInfo{Name: "ashen-coast", Theme: "mystery"}
			record = memory.Reduce(record, s, seed, baseTime.Add(time.Minute))

			Expect(record.WorldInfo.Name).To(Equal("ashen-coast"))
			Expect(record.WorldInfo.Theme).To(Equal("mystery"))
		})
	})

	Context("purity", func() {
		It("never mutates the previous record", func() {
			prev := memory.Reduce(nil, testScene("a"), seed, baseTime)
			snapshot := prev.Clone()

			s := testScene("b")
			s.DiscoveredLore = []scene.LoreEntry{{ID: "lore-1", Content: "x"}}
			_ = memory.Reduce(prev, s, seed, baseTime.Add(time.Minute))

			Expect(reflect.DeepEqual(prev, snapshot)).To(BeTrue())
		})

		It("is deterministic for a fixed clock", func() {
			prev := memory.Reduce(nil, testScene("a"), seed, baseTime)
			at := baseTime.Add(3 * time.Minute)

			first := memory.Reduce(prev, testScene("b"), seed, at)
			second := memory.Reduce(prev, testScene("b"), seed, at)

			Expect(reflect.DeepEqual(first, second)).To(BeTrue())
		})
	})
})
