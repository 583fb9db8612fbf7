// Package sqlite provides the SQLite-backed match archive.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/farkle-engine/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/farkle-engine/internal/storage"
	"github.com/louisbranch/farkle-engine/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed finished match persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a match archive store and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveFinishedMatch archives one completed match with its players.
func (s *Store) SaveFinishedMatch(ctx context.Context, match storage.FinishedMatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	match.ID = strings.TrimSpace(match.ID)
	match.RuleSet = strings.TrimSpace(match.RuleSet)
	match.Winner = strings.TrimSpace(match.Winner)
	if match.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if match.RuleSet == "" {
		return fmt.Errorf("rule set is required")
	}
	if match.Winner == "" {
		return fmt.Errorf("winner is required")
	}
	if len(match.Players) == 0 {
		return fmt.Errorf("at least one player is required")
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now().UTC()
	}
	if match.FinishedAt.IsZero() {
		match.FinishedAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO finished_matches (
	id,
	rule_set,
	winner,
	winning_score,
	turns,
	created_at,
	finished_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		match.ID,
		match.RuleSet,
		match.Winner,
		match.WinningScore,
		match.Turns,
		match.CreatedAt.UTC().UnixMilli(),
		match.FinishedAt.UTC().UnixMilli(),
	)
	if err != nil {
		_ = tx.Rollback()
		if isUniqueConstraintError(err) {
			return storage.ErrAlreadyArchived
		}
		return fmt.Errorf("archive match: %w", err)
	}

	for position, player := range match.Players {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO match_players (match_id, position, name, score)
VALUES (?, ?, ?, ?)
`,
			match.ID,
			position,
			player.Name,
			player.Score,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("archive player %s: %w", player.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive: %w", err)
	}
	return nil
}

// GetFinishedMatch loads one archived match with its players.
func (s *Store) GetFinishedMatch(ctx context.Context, id string) (storage.FinishedMatch, error) {
	if err := ctx.Err(); err != nil {
		return storage.FinishedMatch{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.FinishedMatch{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.FinishedMatch{}, fmt.Errorf("match id is required")
	}

	var match storage.FinishedMatch
	var createdAt, finishedAt int64
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, rule_set, winner, winning_score, turns, created_at, finished_at
FROM finished_matches
WHERE id = ?
`, id)
	if err := row.Scan(
		&match.ID,
		&match.RuleSet,
		&match.Winner,
		&match.WinningScore,
		&match.Turns,
		&createdAt,
		&finishedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return storage.FinishedMatch{}, storage.ErrNotFound
		}
		return storage.FinishedMatch{}, fmt.Errorf("load match: %w", err)
	}
	match.CreatedAt = time.UnixMilli(createdAt).UTC()
	match.FinishedAt = time.UnixMilli(finishedAt).UTC()

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT name, score
FROM match_players
WHERE match_id = ?
ORDER BY position ASC
`, id)
	if err != nil {
		return storage.FinishedMatch{}, fmt.Errorf("load players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var player storage.PlayerResult
		if err := rows.Scan(&player.Name, &player.Score); err != nil {
			return storage.FinishedMatch{}, fmt.Errorf("scan player: %w", err)
		}
		match.Players = append(match.Players, player)
	}
	if err := rows.Err(); err != nil {
		return storage.FinishedMatch{}, fmt.Errorf("iterate players: %w", err)
	}
	return match, nil
}

// Leaderboard lists archived winners by score descending.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error) {
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
SELECT id, winner, winning_score, rule_set, finished_at
FROM finished_matches
ORDER BY winning_score DESC, finished_at ASC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]storage.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var entry storage.LeaderboardEntry
		var finishedAt int64
		if err := rows.Scan(
			&entry.MatchID,
			&entry.Winner,
			&entry.Score,
			&entry.RuleSet,
			&finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entry.FinishedAt = time.UnixMilli(finishedAt).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}

// isUniqueConstraintError reports a primary key collision on insert.
func isUniqueConstraintError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

var _ storage.MatchStore = (*Store)(nil)
