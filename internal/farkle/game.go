package farkle

import (
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/farkle-engine/internal/platform/errors"
)

// Phase is the resting state of a match between operations. Transient
// states (bust, full clear, turn end) resolve inside a single operation
// and are reported through its outcome.
type Phase string

const (
	// PhaseTurnStart awaits the current player starting their turn.
	PhaseTurnStart Phase = "TURN_START"
	// PhaseAwaitingSelection has a fresh roll on the table with nothing
	// kept from it yet. The player must keep a scoring selection, or bank
	// when the turn already carries points.
	PhaseAwaitingSelection Phase = "AWAITING_SELECTION"
	// PhaseDeciding follows a kept selection: the player may keep more
	// scoring dice, re-roll the rest, or bank.
	PhaseDeciding Phase = "DECIDING"
	// PhaseGameOver is terminal; no further moves are accepted.
	PhaseGameOver Phase = "GAME_OVER"
)

// Action is a player move the engine accepts in the current phase.
type Action string

const (
	ActionStartTurn Action = "start_turn"
	ActionKeep      Action = "keep"
	ActionReroll    Action = "reroll"
	ActionBank      Action = "bank"
)

var (
	// ErrGameOver indicates a move after the game ended.
	ErrGameOver = apperrors.New(apperrors.CodeGameOver, "game is over")
	// ErrTurnAlreadyStarted indicates a turn start while one is in progress.
	ErrTurnAlreadyStarted = apperrors.New(apperrors.CodeTurnAlreadyStarted, "a turn is already in progress")
	// ErrTurnNotStarted indicates a mid-turn move before the turn began.
	ErrTurnNotStarted = apperrors.New(apperrors.CodeTurnNotStarted, "turn has not started")
	// ErrNoPlayers indicates a turn start with nobody playing.
	ErrNoPlayers = apperrors.New(apperrors.CodeNoPlayers, "at least one player is required")
	// ErrPlayersLocked indicates a join after the first turn began.
	ErrPlayersLocked = apperrors.New(apperrors.CodePlayersLocked, "players cannot join after the first turn")
	// ErrPlayerNameTaken indicates a duplicate player name.
	ErrPlayerNameTaken = apperrors.New(apperrors.CodePlayerNameTaken, "player name already joined")
	// ErrNothingToBank indicates a bank with no points accrued this turn.
	ErrNothingToBank = apperrors.New(apperrors.CodeBankNothingAccrued, "nothing to bank this turn")
	// ErrRerollWithoutKeep indicates a re-roll before any selection was
	// kept from the current roll.
	ErrRerollWithoutKeep = apperrors.New(apperrors.CodeRerollWithoutKeep, "keep a scoring selection before re-rolling")
	// ErrNoDiceAvailable indicates a roll with every die kept.
	ErrNoDiceAvailable = apperrors.New(apperrors.CodeRollNoDiceAvailable, "no dice available to roll")
)

// Game orchestrates players and one dice set through the turn state
// machine. It owns its dice and players exclusively and is not safe for
// concurrent use; callers serialize access per match.
type Game struct {
	rules   Rules
	roller  Roller
	players []*Player
	current int
	dice    *DiceSet
	phase   Phase
	winner  string
	started bool
}

// RollOutcome reports a roll of the available dice.
type RollOutcome struct {
	Player string
	Rolled []int
	// Busted is set when the roll had no scoring dice. The turn ended and
	// NextPlayer names who plays next.
	Busted     bool
	TurnEnded  bool
	NextPlayer string
}

// KeepOutcome reports a scoring selection being set aside.
type KeepOutcome struct {
	Player    string
	Points    int
	TurnScore int
	// FullClear is set when the selection kept the last available die. The
	// whole set was re-rolled and Rolled holds the new values; Busted is
	// set when that roll came up empty, forfeiting the turn score.
	FullClear  bool
	Rolled     []int
	Busted     bool
	TurnEnded  bool
	NextPlayer string
}

// BankOutcome reports a turn score being committed to the total.
type BankOutcome struct {
	Player string
	Banked int
	Total  int
	// Won is set when the banked total reached the winning score; the game
	// is over. Otherwise NextPlayer names who plays next.
	Won        bool
	NextPlayer string
}

// NewGame validates the rule table and creates a game awaiting players.
func NewGame(rules Rules, roller Roller) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if roller == nil {
		return nil, fmt.Errorf("roller is required")
	}
	return &Game{
		rules:  rules,
		roller: roller,
		dice:   NewDiceSet(rules.DiceCount),
		phase:  PhaseTurnStart,
	}, nil
}

// AddPlayer registers a player. Players join before the first turn and
// names are unique within a game.
func (g *Game) AddPlayer(name string) error {
	if g.phase == PhaseGameOver {
		return g.gameOverError()
	}
	if g.started {
		return ErrPlayersLocked
	}
	player, err := NewPlayer(name)
	if err != nil {
		return err
	}
	for _, existing := range g.players {
		if existing.Name() == player.Name() {
			return apperrors.WithMetadata(apperrors.CodePlayerNameTaken,
				fmt.Sprintf("player %s already joined", player.Name()),
				map[string]string{"Name": player.Name()})
		}
	}
	g.players = append(g.players, player)
	return nil
}

// StartTurn rolls the full set for the current player. A roll without
// scoring dice busts immediately and passes play on.
func (g *Game) StartTurn() (RollOutcome, error) {
	if g.phase == PhaseGameOver {
		return RollOutcome{}, g.gameOverError()
	}
	if g.phase != PhaseTurnStart {
		return RollOutcome{}, ErrTurnAlreadyStarted
	}
	if len(g.players) == 0 {
		return RollOutcome{}, ErrNoPlayers
	}

	g.started = true
	g.dice.Reset()
	rolled, err := g.dice.RollAvailable(g.roller)
	if err != nil {
		return RollOutcome{}, err
	}

	outcome := RollOutcome{Player: g.currentPlayer().Name(), Rolled: rolled}
	if !HasScoringDice(rolled, g.rules) {
		outcome.Busted = true
		outcome.TurnEnded = true
		outcome.NextPlayer = g.bust()
		return outcome, nil
	}
	g.phase = PhaseAwaitingSelection
	return outcome, nil
}

// Keep atomically applies a scoring selection: the selection is validated
// in full, then the dice are set aside and the points accrue to the turn
// score. Keeping the last available die is a full clear: the whole set is
// re-rolled and the turn continues with its score preserved, at the risk
// of the fresh roll busting.
func (g *Game) Keep(values []int) (KeepOutcome, error) {
	if g.phase == PhaseGameOver {
		return KeepOutcome{}, g.gameOverError()
	}
	if g.phase != PhaseAwaitingSelection && g.phase != PhaseDeciding {
		return KeepOutcome{}, ErrTurnNotStarted
	}

	points, err := ScoreSelection(g.dice.AvailableValues(), values, g.rules)
	if err != nil {
		return KeepOutcome{}, err
	}
	if err := g.dice.MarkKept(values); err != nil {
		return KeepOutcome{}, err
	}
	player := g.currentPlayer()
	if err := player.AddPoints(points); err != nil {
		return KeepOutcome{}, err
	}

	outcome := KeepOutcome{
		Player:    player.Name(),
		Points:    points,
		TurnScore: player.TurnScore(),
	}

	if !g.dice.IsFullClear() {
		g.phase = PhaseDeciding
		return outcome, nil
	}

	// Full clear: every die scored, the set resets and rolls again.
	outcome.FullClear = true
	g.dice.Reset()
	rolled, err := g.dice.RollAvailable(g.roller)
	if err != nil {
		return KeepOutcome{}, err
	}
	outcome.Rolled = rolled
	if !HasScoringDice(rolled, g.rules) {
		outcome.Busted = true
		outcome.TurnEnded = true
		outcome.NextPlayer = g.bust()
		return outcome, nil
	}
	g.phase = PhaseAwaitingSelection
	return outcome, nil
}

// Reroll rolls the dice still available after at least one selection was
// kept from the current roll. A roll without scoring dice busts, ending
// the turn.
func (g *Game) Reroll() (RollOutcome, error) {
	if g.phase == PhaseGameOver {
		return RollOutcome{}, g.gameOverError()
	}
	if g.phase == PhaseAwaitingSelection {
		return RollOutcome{}, ErrRerollWithoutKeep
	}
	if g.phase != PhaseDeciding {
		return RollOutcome{}, ErrTurnNotStarted
	}
	if len(g.dice.AvailableValues()) == 0 {
		return RollOutcome{}, ErrNoDiceAvailable
	}

	rolled, err := g.dice.RollAvailable(g.roller)
	if err != nil {
		return RollOutcome{}, err
	}

	outcome := RollOutcome{Player: g.currentPlayer().Name(), Rolled: rolled}
	if !HasScoringDice(rolled, g.rules) {
		outcome.Busted = true
		outcome.TurnEnded = true
		outcome.NextPlayer = g.bust()
		return outcome, nil
	}
	g.phase = PhaseAwaitingSelection
	return outcome, nil
}

// Bank commits the turn score to the player's total and ends the turn.
// Banking is legal whenever the turn carries points, including right
// after a full clear with nothing kept from the fresh roll. Reaching the
// winning score ends the game immediately.
func (g *Game) Bank() (BankOutcome, error) {
	if g.phase == PhaseGameOver {
		return BankOutcome{}, g.gameOverError()
	}
	if g.phase != PhaseAwaitingSelection && g.phase != PhaseDeciding {
		return BankOutcome{}, ErrTurnNotStarted
	}

	player := g.currentPlayer()
	if player.TurnScore() == 0 {
		return BankOutcome{}, ErrNothingToBank
	}

	banked := player.BankTurn()
	outcome := BankOutcome{
		Player: player.Name(),
		Banked: banked,
		Total:  player.TotalScore(),
	}
	if player.HasWon(g.rules.MaxScore) {
		g.phase = PhaseGameOver
		g.winner = player.Name()
		outcome.Won = true
		return outcome, nil
	}
	outcome.NextPlayer = g.endTurn()
	return outcome, nil
}

// Phase returns the resting phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Winner returns the winning player's name once the game is over.
func (g *Game) Winner() string {
	return g.winner
}

// Rules returns the rule table the game plays under. Treat it as
// read-only.
func (g *Game) Rules() Rules {
	return g.rules
}

// Offerings returns the scoring combinations available on the table, or
// nil outside a turn.
func (g *Game) Offerings() []Combination {
	if g.phase != PhaseAwaitingSelection && g.phase != PhaseDeciding {
		return nil
	}
	return FindCombinations(g.dice.AvailableValues(), g.rules)
}

// AvailableActions lists the moves the engine will accept right now.
func (g *Game) AvailableActions() []Action {
	switch g.phase {
	case PhaseTurnStart:
		if len(g.players) == 0 {
			return nil
		}
		return []Action{ActionStartTurn}
	case PhaseAwaitingSelection:
		actions := []Action{ActionKeep}
		if g.currentPlayer().TurnScore() > 0 {
			actions = append(actions, ActionBank)
		}
		return actions
	case PhaseDeciding:
		actions := []Action{}
		if len(g.Offerings()) > 0 {
			actions = append(actions, ActionKeep)
		}
		actions = append(actions, ActionReroll, ActionBank)
		return actions
	default:
		return nil
	}
}

// IsInvalidMove reports whether err is a recoverable illegal player
// action. The caller may retry with a corrected move.
func IsInvalidMove(err error) bool {
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code.Kind() == apperrors.KindInvalidMove
}

func (g *Game) currentPlayer() *Player {
	return g.players[g.current]
}

// bust forfeits the turn score and passes play on. Returns the next
// player's name.
func (g *Game) bust() string {
	g.currentPlayer().ResetTurn()
	return g.endTurn()
}

// endTurn resets the dice partition and advances to the next player.
func (g *Game) endTurn() string {
	g.dice.Reset()
	g.current = (g.current + 1) % len(g.players)
	g.phase = PhaseTurnStart
	return g.currentPlayer().Name()
}

func (g *Game) gameOverError() error {
	return apperrors.WithMetadata(apperrors.CodeGameOver,
		fmt.Sprintf("game is over, %s won", g.winner),
		map[string]string{"Winner": g.winner})
}
