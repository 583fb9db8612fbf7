// Package telemetry records engine match events to a durable store.
package telemetry

import (
	"context"
	"time"

	"github.com/louisbranch/farkle-engine/internal/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Event names emitted over a match lifecycle.
const (
	EventMatchCreated  = "match.created"
	EventTurnStarted   = "match.turn_started"
	EventDiceKept      = "match.dice_kept"
	EventRollBusted    = "match.roll_busted"
	EventTurnBanked    = "match.turn_banked"
	EventMatchFinished = "match.finished"
)

// Emitter records match telemetry events.
type Emitter struct {
	store storage.EventStore
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store storage.EventStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, evt storage.MatchEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	return e.store.AppendMatchEvent(ctx, evt)
}
