// Package eventstream defines the publisher contract for turn events.
// Publishing is best-effort from the core's perspective: the turn
// controller logs failures and never blocks gameplay on them.
package eventstream

import "context"

// Publisher publishes turn events to an event stream backend.
type Publisher interface {
	PublishTurn(ctx context.Context, event *TurnCommittedEvent) error
	Close() error
}
