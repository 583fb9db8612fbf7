package farkle

import (
	"strings"

	apperrors "github.com/louisbranch/farkle-engine/internal/platform/errors"
)

var (
	// ErrPlayerNameEmpty indicates a player without a name.
	ErrPlayerNameEmpty = apperrors.New(apperrors.CodePlayerNameEmpty, "player name is required")
	// ErrPointsNegative indicates a negative point accrual.
	ErrPointsNegative = apperrors.New(apperrors.CodePointsNegative, "points cannot be negative")
)

// Player tracks one participant's turn score and banked total. The turn
// score resets exactly on bust or bank; the total only grows, and only
// through banking.
type Player struct {
	name       string
	turnScore  int
	totalScore int
}

// NewPlayer creates a player with a trimmed, non-empty name.
func NewPlayer(name string) (*Player, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrPlayerNameEmpty
	}
	return &Player{name: trimmed}, nil
}

// Name returns the player's name.
func (p *Player) Name() string {
	return p.name
}

// TurnScore returns the points accumulated this turn, not yet banked.
func (p *Player) TurnScore() int {
	return p.turnScore
}

// TotalScore returns the banked total.
func (p *Player) TotalScore() int {
	return p.totalScore
}

// AddPoints accrues points to the in-progress turn.
func (p *Player) AddPoints(points int) error {
	if points < 0 {
		return ErrPointsNegative
	}
	p.turnScore += points
	return nil
}

// BankTurn commits the turn score to the total and returns the amount
// banked.
func (p *Player) BankTurn() int {
	banked := p.turnScore
	p.totalScore += banked
	p.turnScore = 0
	return banked
}

// ResetTurn discards the turn score, as on a bust.
func (p *Player) ResetTurn() {
	p.turnScore = 0
}

// HasWon reports whether the banked total meets the winning score.
func (p *Player) HasWon(maxScore int) bool {
	return p.totalScore >= maxScore
}
