// Package service hosts live matches and drives the engine on behalf of
// transports. It owns the match registry, per-match serialization, match
// telemetry, and archival of finished matches.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/farkle-engine/internal/farkle"
	apperrors "github.com/louisbranch/farkle-engine/internal/platform/errors"
	"github.com/louisbranch/farkle-engine/internal/platform/id"
	"github.com/louisbranch/farkle-engine/internal/platform/random"
	"github.com/louisbranch/farkle-engine/internal/rules"
	"github.com/louisbranch/farkle-engine/internal/storage"
	"github.com/louisbranch/farkle-engine/internal/telemetry"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// Config groups the service collaborators. Zero values are usable: a nil
// store disables archival and telemetry, a nil rules loader falls back to
// the named table loader.
type Config struct {
	Store     storage.MatchStore
	Events    storage.EventStore
	LoadRules func(string) (farkle.Rules, error)
}

// Service hosts live matches keyed by ID. Operations on one match are
// serialized; distinct matches proceed independently.
type Service struct {
	mu      sync.RWMutex
	matches map[string]*match

	store     storage.MatchStore
	events    *telemetry.Emitter
	loadRules func(string) (farkle.Rules, error)
	clock     func() time.Time
	newID     func() (string, error)
	newSeed   func() (int64, error)
	newRoller func(seed int64) farkle.Roller
}

// match pairs a game with its registry bookkeeping. The mutex serializes
// every operation touching the game.
type match struct {
	mu        sync.Mutex
	id        string
	game      *farkle.Game
	createdAt time.Time
	turns     int
	archived  bool
}

// New creates a match service with default collaborators.
func New(cfg Config) *Service {
	svc := &Service{
		matches:   make(map[string]*match),
		store:     cfg.Store,
		events:    telemetry.NewEmitter(cfg.Events),
		loadRules: cfg.LoadRules,
		clock:     time.Now,
		newID:     id.NewID,
		newSeed:   random.NewSeed,
		newRoller: func(seed int64) farkle.Roller { return farkle.NewSeededRoller(seed) },
	}
	if svc.loadRules == nil {
		svc.loadRules = rules.Load
	}
	return svc
}

// CreateMatchInput describes a new match.
type CreateMatchInput struct {
	// Players join in order; at least one is required.
	Players []string
	// RuleSet resolves through the rules loader; empty means classic.
	RuleSet string
	// Seed fixes the dice sequence; nil draws a random seed.
	Seed *int64
}

// MatchState is a match ID with its current snapshot.
type MatchState struct {
	ID        string
	CreatedAt time.Time
	Snapshot  farkle.Snapshot
}

// TurnResult reports a roll operation with the resulting state.
type TurnResult struct {
	MatchID  string
	Outcome  farkle.RollOutcome
	Snapshot farkle.Snapshot
}

// KeepResult reports a keep operation with the resulting state.
type KeepResult struct {
	MatchID  string
	Outcome  farkle.KeepOutcome
	Snapshot farkle.Snapshot
}

// BankResult reports a bank operation with the resulting state.
type BankResult struct {
	MatchID  string
	Outcome  farkle.BankOutcome
	Snapshot farkle.Snapshot
}

// CreateMatch registers a new match with its players and returns the
// initial state.
func (s *Service) CreateMatch(ctx context.Context, in CreateMatchInput) (MatchState, error) {
	if len(in.Players) == 0 {
		return MatchState{}, farkle.ErrNoPlayers
	}

	table, err := s.loadRules(in.RuleSet)
	if err != nil {
		return MatchState{}, err
	}

	seed := int64(0)
	if in.Seed != nil {
		seed = *in.Seed
	} else {
		seed, err = s.newSeed()
		if err != nil {
			return MatchState{}, fmt.Errorf("derive match seed: %w", err)
		}
	}

	game, err := farkle.NewGame(table, s.newRoller(seed))
	if err != nil {
		return MatchState{}, err
	}
	for _, name := range in.Players {
		if err := game.AddPlayer(name); err != nil {
			return MatchState{}, err
		}
	}

	matchID, err := s.newID()
	if err != nil {
		return MatchState{}, fmt.Errorf("generate match id: %w", err)
	}

	m := &match{
		id:        matchID,
		game:      game,
		createdAt: s.clock().UTC(),
	}
	s.mu.Lock()
	s.matches[matchID] = m
	s.mu.Unlock()

	s.emit(ctx, storage.MatchEvent{
		EventName: telemetry.EventMatchCreated,
		Severity:  string(telemetry.SeverityInfo),
		MatchID:   matchID,
		Attributes: map[string]any{
			"players":  len(in.Players),
			"rule_set": table.Name,
		},
	})

	return MatchState{ID: matchID, CreatedAt: m.createdAt, Snapshot: game.Snapshot()}, nil
}

// State returns the current snapshot of a live match.
func (s *Service) State(ctx context.Context, matchID string) (MatchState, error) {
	if err := ctx.Err(); err != nil {
		return MatchState{}, err
	}
	m, err := s.liveMatch(matchID)
	if err != nil {
		return MatchState{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return MatchState{ID: m.id, CreatedAt: m.createdAt, Snapshot: m.game.Snapshot()}, nil
}

// StartTurn rolls the full set for the current player of a match.
func (s *Service) StartTurn(ctx context.Context, matchID string) (TurnResult, error) {
	m, err := s.liveMatch(matchID)
	if err != nil {
		return TurnResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	outcome, err := m.game.StartTurn()
	if err != nil {
		return TurnResult{}, err
	}

	s.emit(ctx, storage.MatchEvent{
		EventName: telemetry.EventTurnStarted,
		Severity:  string(telemetry.SeverityInfo),
		MatchID:   m.id,
		Player:    outcome.Player,
	})
	if outcome.Busted {
		s.recordBust(ctx, m, outcome.Player)
	}
	return TurnResult{MatchID: m.id, Outcome: outcome, Snapshot: m.game.Snapshot()}, nil
}

// Keep applies a scoring selection for the current player of a match.
func (s *Service) Keep(ctx context.Context, matchID string, values []int) (KeepResult, error) {
	m, err := s.liveMatch(matchID)
	if err != nil {
		return KeepResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	outcome, err := m.game.Keep(values)
	if err != nil {
		return KeepResult{}, err
	}

	s.emit(ctx, storage.MatchEvent{
		EventName: telemetry.EventDiceKept,
		Severity:  string(telemetry.SeverityInfo),
		MatchID:   m.id,
		Player:    outcome.Player,
		Attributes: map[string]any{
			"points":     outcome.Points,
			"turn_score": outcome.TurnScore,
			"full_clear": outcome.FullClear,
		},
	})
	if outcome.Busted {
		s.recordBust(ctx, m, outcome.Player)
	}
	return KeepResult{MatchID: m.id, Outcome: outcome, Snapshot: m.game.Snapshot()}, nil
}

// Reroll rolls the available dice for the current player of a match.
func (s *Service) Reroll(ctx context.Context, matchID string) (TurnResult, error) {
	m, err := s.liveMatch(matchID)
	if err != nil {
		return TurnResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	outcome, err := m.game.Reroll()
	if err != nil {
		return TurnResult{}, err
	}

	if outcome.Busted {
		s.recordBust(ctx, m, outcome.Player)
	}
	return TurnResult{MatchID: m.id, Outcome: outcome, Snapshot: m.game.Snapshot()}, nil
}

// Bank commits the turn score for the current player. A winning bank
// finishes the match and archives it.
func (s *Service) Bank(ctx context.Context, matchID string) (BankResult, error) {
	m, err := s.liveMatch(matchID)
	if err != nil {
		return BankResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	outcome, err := m.game.Bank()
	if err != nil {
		return BankResult{}, err
	}
	m.turns++

	s.emit(ctx, storage.MatchEvent{
		EventName: telemetry.EventTurnBanked,
		Severity:  string(telemetry.SeverityInfo),
		MatchID:   m.id,
		Player:    outcome.Player,
		Attributes: map[string]any{
			"banked": outcome.Banked,
			"total":  outcome.Total,
		},
	})

	snapshot := m.game.Snapshot()
	if outcome.Won {
		s.emit(ctx, storage.MatchEvent{
			EventName: telemetry.EventMatchFinished,
			Severity:  string(telemetry.SeverityInfo),
			MatchID:   m.id,
			Player:    outcome.Player,
			Attributes: map[string]any{
				"winning_score": outcome.Total,
				"turns":         m.turns,
			},
		})
		s.archive(ctx, m, outcome, snapshot)
	}
	return BankResult{MatchID: m.id, Outcome: outcome, Snapshot: snapshot}, nil
}

// Preview returns the scoring combinations for an arbitrary set of die
// values under a named rule table. It touches no match state.
func (s *Service) Preview(values []int, ruleSet string) ([]farkle.Combination, error) {
	table, err := s.loadRules(ruleSet)
	if err != nil {
		return nil, err
	}
	return farkle.FindCombinations(values, table), nil
}

// Leaderboard lists archived winners, best first.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error) {
	if s.store == nil {
		return nil, fmt.Errorf("match archive is not configured")
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	return s.store.Leaderboard(ctx, limit)
}

// FinishedMatch loads one archived match record.
func (s *Service) FinishedMatch(ctx context.Context, matchID string) (storage.FinishedMatch, error) {
	if s.store == nil {
		return storage.FinishedMatch{}, fmt.Errorf("match archive is not configured")
	}
	return s.store.GetFinishedMatch(ctx, matchID)
}

// liveMatch resolves a match ID in the registry.
func (s *Service) liveMatch(matchID string) (*match, error) {
	trimmed := strings.TrimSpace(matchID)
	s.mu.RLock()
	m, ok := s.matches[trimmed]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("match %s not found", trimmed),
			map[string]string{"ID": trimmed})
	}
	return m, nil
}

// recordBust emits the bust event and counts the completed turn. Called
// with the match lock held.
func (s *Service) recordBust(ctx context.Context, m *match, player string) {
	m.turns++
	s.emit(ctx, storage.MatchEvent{
		EventName: telemetry.EventRollBusted,
		Severity:  string(telemetry.SeverityWarn),
		MatchID:   m.id,
		Player:    player,
	})
}

// archive persists the finished match exactly once. Archive failures are
// logged, not surfaced: the bank already applied.
func (s *Service) archive(ctx context.Context, m *match, outcome farkle.BankOutcome, snapshot farkle.Snapshot) {
	if s.store == nil || m.archived {
		return
	}

	players := make([]storage.PlayerResult, len(snapshot.Players))
	for i, p := range snapshot.Players {
		players[i] = storage.PlayerResult{Name: p.Name, Score: p.TotalScore}
	}
	record := storage.FinishedMatch{
		ID:           m.id,
		RuleSet:      snapshot.RuleSet,
		Winner:       outcome.Player,
		WinningScore: outcome.Total,
		Turns:        m.turns,
		Players:      players,
		CreatedAt:    m.createdAt,
		FinishedAt:   s.clock().UTC(),
	}
	if err := s.store.SaveFinishedMatch(ctx, record); err != nil {
		log.Printf("archive match %s: %v", m.id, err)
		return
	}
	m.archived = true
}

// emit records a match event tagged with the active trace, logging
// failures instead of surfacing them.
func (s *Service) emit(ctx context.Context, evt storage.MatchEvent) {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		evt.TraceID = sc.TraceID().String()
		evt.SpanID = sc.SpanID().String()
	}
	if err := s.events.Emit(ctx, evt); err != nil {
		log.Printf("telemetry emit %s: %v", evt.EventName, err)
	}
}
