// Package scripted provides a deterministic offline narrator. It walks a
// fixed location cycle and derives every field from the request, so the
// same request always yields the same scene. Used for offline play and as
// the test double for the turn controller.
package scripted

import (
	"context"
	"fmt"

	"github.com/reveriegames/reverie/pkg/narrator"
	"github.com/reveriegames/reverie/pkg/scene"
)

var locations = []string{
	"ashen_crossroads",
	"hollow_granary",
	"river_shallows",
	"signal_tower",
	"old_orchard",
}

// Service implements narrator.Service without any backend.
type Service struct{}

// NewService creates a scripted narrator.
func NewService() *Service {
	return &Service{}
}

// GenerateScene fabricates the next scene from the request alone.
func (s *Service) GenerateScene(_ context.Context, req *narrator.Request) (*scene.Scene, error) {
	// The request already counts the scene being generated.
	turn := req.ScenesCompleted
	if turn < 1 {
		turn = 1
	}
	location := locations[turn%len(locations)]

	world := req.CurrentWorld
	if world == "" {
		world = "default"
	}

	return &scene.Scene{
		SceneTag:      fmt.Sprintf("scene_%03d", turn),
		Location:      location,
		World:         world,
		NarrationText: fmt.Sprintf("You chose %q. The path leads to the %s.", req.PlayerChoice, location),
		Options: []string{
			"Press on",
			"Search the area",
			"Rest and listen",
		},
		GameState:        req.GameState,
		CurrentInventory: req.CurrentInventory,
		MoodAtmosphere:   "tense",
		HistoryEntry:     fmt.Sprintf("Turn %d: %s at the %s.", turn, req.PlayerChoice, location),
		WorldInfo: scene.WorldInfo{
			Name:        world,
			Theme:       "survival",
			Description: "A quiet world rendered without a narrator backend.",
		},
		LocationDetails: scene.LocationDetails{
			Exits:       []string{"north", "back"},
			SafetyLevel: 5,
		},
	}, nil
}
