package nop_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reveriegames/reverie/pkg/eventstream"
	"github.com/reveriegames/reverie/pkg/eventstream/nop"
)

var _ = Describe("Publisher", func() {
	It("accepts turn events without error", func() {
		publisher := nop.NewPublisher()
		event := &eventstream.TurnCommittedEvent{
			SchemaVersion: eventstream.SchemaVersionV1,
			EventType:     eventstream.EventTypeTurnCommitted,
			EventID:       "evt-1",
			EmittedAt:     time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
			SessionID:     "sess-1",
			SceneTag:      "scene_001",
		}

		Expect(publisher.PublishTurn(context.Background(), event)).To(Succeed())
		Expect(publisher.Close()).To(Succeed())
	})

	It("rejects a nil event", func() {
		publisher := nop.NewPublisher()
		Expect(publisher.PublishTurn(context.Background(), nil)).To(MatchError(eventstream.ErrNilTurnEvent))
	})
})
