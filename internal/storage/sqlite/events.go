package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/farkle-engine/internal/storage"
)

// AppendMatchEvent persists one engine telemetry event.
func (s *Store) AppendMatchEvent(ctx context.Context, evt storage.MatchEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	evt.EventName = strings.TrimSpace(evt.EventName)
	evt.Severity = strings.TrimSpace(evt.Severity)
	if evt.EventName == "" {
		return fmt.Errorf("event name is required")
	}
	if evt.Severity == "" {
		return fmt.Errorf("severity is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	attributes := evt.AttributesJSON
	if len(attributes) == 0 {
		if len(evt.Attributes) == 0 {
			attributes = []byte("{}")
		} else {
			encoded, err := json.Marshal(evt.Attributes)
			if err != nil {
				return fmt.Errorf("marshal event attributes: %w", err)
			}
			attributes = encoded
		}
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO match_events (
	timestamp,
	event_name,
	severity,
	match_id,
	player,
	trace_id,
	span_id,
	attributes
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`,
		evt.Timestamp.UTC().UnixMilli(),
		evt.EventName,
		evt.Severity,
		evt.MatchID,
		evt.Player,
		evt.TraceID,
		evt.SpanID,
		string(attributes),
	)
	if err != nil {
		return fmt.Errorf("append match event: %w", err)
	}
	return nil
}

// ListMatchEvents lists events for one match in timestamp order.
func (s *Store) ListMatchEvents(ctx context.Context, matchID string, limit int) ([]storage.MatchEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT timestamp, event_name, severity, match_id, player, trace_id, span_id, attributes
FROM match_events
WHERE match_id = ?
ORDER BY timestamp ASC, id ASC
LIMIT ?
`, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}
	defer rows.Close()

	events := make([]storage.MatchEvent, 0, limit)
	for rows.Next() {
		var evt storage.MatchEvent
		var timestamp int64
		var attributes string
		if err := rows.Scan(
			&timestamp,
			&evt.EventName,
			&evt.Severity,
			&evt.MatchID,
			&evt.Player,
			&evt.TraceID,
			&evt.SpanID,
			&attributes,
		); err != nil {
			return nil, fmt.Errorf("scan match event: %w", err)
		}
		evt.Timestamp = time.UnixMilli(timestamp).UTC()
		evt.AttributesJSON = []byte(attributes)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match events: %w", err)
	}
	return events, nil
}

var _ storage.EventStore = (*Store)(nil)
