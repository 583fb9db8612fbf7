package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/farkle-engine/internal/storage"
)

func TestSaveAndGetFinishedMatch(t *testing.T) {
	store := openTempStore(t)
	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	match := storage.FinishedMatch{
		ID:           "match-1",
		RuleSet:      "classic",
		Winner:       "Ada",
		WinningScore: 5200,
		Turns:        18,
		Players: []storage.PlayerResult{
			{Name: "Ada", Score: 5200},
			{Name: "Grace", Score: 3100},
		},
		CreatedAt:  now.Add(-30 * time.Minute),
		FinishedAt: now,
	}
	if err := store.SaveFinishedMatch(context.Background(), match); err != nil {
		t.Fatalf("save match: %v", err)
	}

	loaded, err := store.GetFinishedMatch(context.Background(), "match-1")
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if loaded.Winner != "Ada" || loaded.WinningScore != 5200 {
		t.Fatalf("loaded = %+v, want Ada at 5200", loaded)
	}
	if loaded.Turns != 18 {
		t.Fatalf("turns = %d, want 18", loaded.Turns)
	}
	if len(loaded.Players) != 2 {
		t.Fatalf("players len = %d, want 2", len(loaded.Players))
	}
	if loaded.Players[0].Name != "Ada" || loaded.Players[1].Name != "Grace" {
		t.Fatalf("players = %+v, want Ada then Grace", loaded.Players)
	}
	if !loaded.FinishedAt.Equal(now) {
		t.Fatalf("finished at = %v, want %v", loaded.FinishedAt, now)
	}
}

func TestSaveFinishedMatchExactlyOnce(t *testing.T) {
	store := openTempStore(t)

	match := storage.FinishedMatch{
		ID:           "match-1",
		RuleSet:      "classic",
		Winner:       "Ada",
		WinningScore: 5000,
		Players:      []storage.PlayerResult{{Name: "Ada", Score: 5000}},
	}
	if err := store.SaveFinishedMatch(context.Background(), match); err != nil {
		t.Fatalf("save match: %v", err)
	}

	err := store.SaveFinishedMatch(context.Background(), match)
	if !errors.Is(err, storage.ErrAlreadyArchived) {
		t.Fatalf("error = %v, want %v", err, storage.ErrAlreadyArchived)
	}
}

func TestSaveFinishedMatchValidation(t *testing.T) {
	store := openTempStore(t)

	if err := store.SaveFinishedMatch(context.Background(), storage.FinishedMatch{}); err == nil {
		t.Fatal("expected validation error for empty match")
	}
	err := store.SaveFinishedMatch(context.Background(), storage.FinishedMatch{
		ID:      "match-1",
		RuleSet: "classic",
		Winner:  "Ada",
	})
	if err == nil {
		t.Fatal("expected validation error for missing players")
	}
}

func TestGetFinishedMatchNotFound(t *testing.T) {
	store := openTempStore(t)

	_, err := store.GetFinishedMatch(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestLeaderboardOrdersByScore(t *testing.T) {
	store := openTempStore(t)
	base := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	matches := []storage.FinishedMatch{
		{ID: "m1", RuleSet: "classic", Winner: "Ada", WinningScore: 5100,
			Players: []storage.PlayerResult{{Name: "Ada", Score: 5100}}, FinishedAt: base},
		{ID: "m2", RuleSet: "classic", Winner: "Grace", WinningScore: 6400,
			Players: []storage.PlayerResult{{Name: "Grace", Score: 6400}}, FinishedAt: base.Add(time.Hour)},
		{ID: "m3", RuleSet: "classic", Winner: "Joan", WinningScore: 5100,
			Players: []storage.PlayerResult{{Name: "Joan", Score: 5100}}, FinishedAt: base.Add(-time.Hour)},
	}
	for _, match := range matches {
		if err := store.SaveFinishedMatch(context.Background(), match); err != nil {
			t.Fatalf("save %s: %v", match.ID, err)
		}
	}

	entries, err := store.Leaderboard(context.Background(), 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries len = %d, want 3", len(entries))
	}
	if entries[0].Winner != "Grace" {
		t.Fatalf("entries[0] = %+v, want Grace first", entries[0])
	}
	// Equal scores order by earliest finish.
	if entries[1].Winner != "Joan" || entries[2].Winner != "Ada" {
		t.Fatalf("tie order = %s then %s, want Joan then Ada", entries[1].Winner, entries[2].Winner)
	}

	limited, err := store.Leaderboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("leaderboard limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limited len = %d, want 1", len(limited))
	}

	if _, err := store.Leaderboard(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero limit")
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matches.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
