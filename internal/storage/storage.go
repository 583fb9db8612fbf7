package storage

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/louisbranch/farkle-engine/internal/platform/errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrAlreadyArchived indicates a finished match was archived twice.
var ErrAlreadyArchived = errors.New("match already archived")

// PlayerResult is one player's final banked score in a finished match.
type PlayerResult struct {
	Name  string
	Score int
}

// FinishedMatch is the archived record of a completed match.
type FinishedMatch struct {
	ID      string
	RuleSet string
	Winner  string
	// WinningScore is the winner's banked total when the game ended.
	WinningScore int
	// Turns counts completed turns across all players.
	Turns      int
	Players    []PlayerResult
	CreatedAt  time.Time
	FinishedAt time.Time
}

// LeaderboardEntry is one archived winner.
type LeaderboardEntry struct {
	MatchID    string
	Winner     string
	Score      int
	RuleSet    string
	FinishedAt time.Time
}

// MatchStore persists finished matches.
type MatchStore interface {
	// SaveFinishedMatch archives a completed match exactly once.
	// Archiving the same match ID again returns ErrAlreadyArchived.
	SaveFinishedMatch(ctx context.Context, match FinishedMatch) error
	GetFinishedMatch(ctx context.Context, id string) (FinishedMatch, error)
	// Leaderboard lists archived winners by score descending, earliest
	// finish first among ties.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// MatchEvent is one engine telemetry event recorded for a match.
type MatchEvent struct {
	Timestamp time.Time
	EventName string
	Severity  string
	MatchID   string
	Player    string
	TraceID   string
	SpanID    string
	// Attributes is marshaled to AttributesJSON on write when the latter
	// is empty.
	Attributes     map[string]any
	AttributesJSON []byte
}

// EventStore appends engine telemetry events.
type EventStore interface {
	AppendMatchEvent(ctx context.Context, evt MatchEvent) error
}
