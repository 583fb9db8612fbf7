package farkle

import (
	"errors"
	"reflect"
	"testing"

	apperrors "github.com/louisbranch/farkle-engine/internal/platform/errors"
)

// scriptRoller feeds a predetermined sequence of values, falling back to
// 1 once the script runs out.
type scriptRoller struct {
	values []int
	next   int
}

func (r *scriptRoller) Roll(int) int {
	if r.next >= len(r.values) {
		return 1
	}
	value := r.values[r.next]
	r.next++
	return value
}

func newTestGame(t *testing.T, script []int, names ...string) *Game {
	t.Helper()
	game, err := NewGame(DefaultRules(), &scriptRoller{values: script})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	for _, name := range names {
		if err := game.AddPlayer(name); err != nil {
			t.Fatalf("add player %s: %v", name, err)
		}
	}
	return game
}

func mustStartTurn(t *testing.T, game *Game) RollOutcome {
	t.Helper()
	outcome, err := game.StartTurn()
	if err != nil {
		t.Fatalf("start turn: %v", err)
	}
	return outcome
}

func mustKeep(t *testing.T, game *Game, values ...int) KeepOutcome {
	t.Helper()
	outcome, err := game.Keep(values)
	if err != nil {
		t.Fatalf("keep %v: %v", values, err)
	}
	return outcome
}

func TestNewGameValidatesRules(t *testing.T) {
	rules := DefaultRules()
	rules.MaxScore = 0
	if _, err := NewGame(rules, &scriptRoller{}); !errors.Is(err, ErrInvalidMaxScore) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidMaxScore)
	}

	if _, err := NewGame(DefaultRules(), nil); err == nil {
		t.Fatal("expected error for nil roller")
	}
}

func TestAddPlayerRules(t *testing.T) {
	game := newTestGame(t, []int{1, 2, 2, 3, 4, 6}, "Ada")

	err := game.AddPlayer("Ada")
	if !errors.Is(err, ErrPlayerNameTaken) {
		t.Fatalf("error = %v, want %v", err, ErrPlayerNameTaken)
	}
	if got := apperrors.MetadataOf(err)["Name"]; got != "Ada" {
		t.Fatalf("metadata name = %q, want %q", got, "Ada")
	}

	if err := game.AddPlayer("   "); !errors.Is(err, ErrPlayerNameEmpty) {
		t.Fatalf("error = %v, want %v", err, ErrPlayerNameEmpty)
	}

	mustStartTurn(t, game)
	if err := game.AddPlayer("Grace"); !errors.Is(err, ErrPlayersLocked) {
		t.Fatalf("error = %v, want %v", err, ErrPlayersLocked)
	}
}

func TestStartTurnRollsForCurrentPlayer(t *testing.T) {
	game := newTestGame(t, []int{1, 2, 2, 3, 4, 6}, "Ada")

	outcome := mustStartTurn(t, game)
	if outcome.Player != "Ada" {
		t.Fatalf("player = %q, want %q", outcome.Player, "Ada")
	}
	if want := []int{1, 2, 2, 3, 4, 6}; !reflect.DeepEqual(outcome.Rolled, want) {
		t.Fatalf("rolled = %v, want %v", outcome.Rolled, want)
	}
	if outcome.Busted {
		t.Fatal("scoring roll should not bust")
	}
	if got := game.Phase(); got != PhaseAwaitingSelection {
		t.Fatalf("phase = %s, want %s", got, PhaseAwaitingSelection)
	}
}

func TestStartTurnBustPassesPlay(t *testing.T) {
	game := newTestGame(t, []int{2, 3, 4, 6, 2, 3}, "Ada", "Grace")

	outcome := mustStartTurn(t, game)
	if !outcome.Busted || !outcome.TurnEnded {
		t.Fatalf("outcome = %+v, want busted turn end", outcome)
	}
	if outcome.NextPlayer != "Grace" {
		t.Fatalf("next player = %q, want %q", outcome.NextPlayer, "Grace")
	}
	if got := game.Phase(); got != PhaseTurnStart {
		t.Fatalf("phase = %s, want %s", got, PhaseTurnStart)
	}
	if got := game.Snapshot().Current; got != 1 {
		t.Fatalf("current player = %d, want 1", got)
	}
}

func TestStartTurnGuards(t *testing.T) {
	empty, err := NewGame(DefaultRules(), &scriptRoller{})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if _, err := empty.StartTurn(); !errors.Is(err, ErrNoPlayers) {
		t.Fatalf("error = %v, want %v", err, ErrNoPlayers)
	}

	game := newTestGame(t, []int{1, 2, 2, 3, 4, 6}, "Ada")
	mustStartTurn(t, game)
	if _, err := game.StartTurn(); !errors.Is(err, ErrTurnAlreadyStarted) {
		t.Fatalf("error = %v, want %v", err, ErrTurnAlreadyStarted)
	}
}

func TestKeepAccruesTurnScore(t *testing.T) {
	game := newTestGame(t, []int{1, 5, 2, 3, 4, 4}, "Ada")
	mustStartTurn(t, game)

	outcome := mustKeep(t, game, 1)
	if outcome.Points != 100 || outcome.TurnScore != 100 {
		t.Fatalf("points = %d turn = %d, want 100 and 100", outcome.Points, outcome.TurnScore)
	}
	if outcome.FullClear {
		t.Fatal("one kept die should not clear the set")
	}
	if got := game.Phase(); got != PhaseDeciding {
		t.Fatalf("phase = %s, want %s", got, PhaseDeciding)
	}

	outcome = mustKeep(t, game, 5)
	if outcome.Points != 50 || outcome.TurnScore != 150 {
		t.Fatalf("points = %d turn = %d, want 50 and 150", outcome.Points, outcome.TurnScore)
	}
	if got := game.Phase(); got != PhaseDeciding {
		t.Fatalf("phase = %s, want %s", got, PhaseDeciding)
	}
}

func TestKeepInvalidSelectionLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name      string
		selection []int
		wantErr   error
	}{
		{name: "empty selection", selection: nil, wantErr: ErrSelectionEmpty},
		{name: "non-scoring dice", selection: []int{2}, wantErr: ErrSelectionNotScoring},
		{name: "unavailable dice", selection: []int{1, 1}, wantErr: ErrSelectionUnavailable},
		{name: "scoring plus dead dice", selection: []int{1, 2}, wantErr: ErrSelectionNotScoring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := newTestGame(t, []int{1, 2, 2, 3, 4, 6}, "Ada")
			mustStartTurn(t, game)
			before := game.Snapshot()

			if _, err := game.Keep(tt.selection); !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if after := game.Snapshot(); !reflect.DeepEqual(after, before) {
				t.Fatalf("state changed after rejected keep:\nbefore %+v\nafter  %+v", before, after)
			}
		})
	}
}

func TestKeepFullClearReRollsWithScorePreserved(t *testing.T) {
	game := newTestGame(t, []int{1, 1, 1, 5, 5, 5, 1, 2, 2, 3, 4, 6}, "Ada")
	mustStartTurn(t, game)

	outcome := mustKeep(t, game, 1, 1, 1, 5, 5, 5)
	if outcome.Points != 1500 || outcome.TurnScore != 1500 {
		t.Fatalf("points = %d turn = %d, want 1500 and 1500", outcome.Points, outcome.TurnScore)
	}
	if !outcome.FullClear {
		t.Fatal("keeping every die should clear the set")
	}
	if want := []int{1, 2, 2, 3, 4, 6}; !reflect.DeepEqual(outcome.Rolled, want) {
		t.Fatalf("fresh roll = %v, want %v", outcome.Rolled, want)
	}
	if outcome.Busted {
		t.Fatal("scoring fresh roll should not bust")
	}
	if got := game.Phase(); got != PhaseAwaitingSelection {
		t.Fatalf("phase = %s, want %s", got, PhaseAwaitingSelection)
	}

	// Nothing kept from the fresh roll, but the turn carries points.
	bank, err := game.Bank()
	if err != nil {
		t.Fatalf("bank after full clear: %v", err)
	}
	if bank.Banked != 1500 || bank.Total != 1500 {
		t.Fatalf("banked = %d total = %d, want 1500 and 1500", bank.Banked, bank.Total)
	}
}

func TestKeepFullClearBustForfeitsTurnScore(t *testing.T) {
	game := newTestGame(t, []int{1, 1, 1, 5, 5, 5, 2, 3, 4, 6, 2, 3}, "Ada", "Grace")
	mustStartTurn(t, game)

	outcome := mustKeep(t, game, 1, 1, 1, 5, 5, 5)
	if !outcome.FullClear || !outcome.Busted || !outcome.TurnEnded {
		t.Fatalf("outcome = %+v, want full clear bust", outcome)
	}
	if outcome.NextPlayer != "Grace" {
		t.Fatalf("next player = %q, want %q", outcome.NextPlayer, "Grace")
	}

	snap := game.Snapshot()
	if snap.Players[0].TurnScore != 0 || snap.Players[0].TotalScore != 0 {
		t.Fatalf("player scores = %+v, want turn and total forfeited", snap.Players[0])
	}
	if snap.Phase != PhaseTurnStart || snap.Current != 1 {
		t.Fatalf("phase = %s current = %d, want %s and 1", snap.Phase, snap.Current, PhaseTurnStart)
	}
}

func TestRerollContinuesTurn(t *testing.T) {
	game := newTestGame(t, []int{1, 2, 2, 3, 4, 6, 5, 2, 3, 4, 6}, "Ada")
	mustStartTurn(t, game)
	mustKeep(t, game, 1)

	outcome, err := game.Reroll()
	if err != nil {
		t.Fatalf("reroll: %v", err)
	}
	if want := []int{5, 2, 3, 4, 6}; !reflect.DeepEqual(outcome.Rolled, want) {
		t.Fatalf("rolled = %v, want %v", outcome.Rolled, want)
	}
	if outcome.Busted {
		t.Fatal("scoring reroll should not bust")
	}
	if got := game.Phase(); got != PhaseAwaitingSelection {
		t.Fatalf("phase = %s, want %s", got, PhaseAwaitingSelection)
	}
	if got := game.Snapshot().Players[0].TurnScore; got != 100 {
		t.Fatalf("turn score = %d, want 100", got)
	}
}

func TestRerollBustForfeitsTurnScore(t *testing.T) {
	game := newTestGame(t, []int{1, 2, 2, 3, 4, 6, 2, 3, 4, 6, 6}, "Ada", "Grace")
	mustStartTurn(t, game)
	mustKeep(t, game, 1)

	outcome, err := game.Reroll()
	if err != nil {
		t.Fatalf("reroll: %v", err)
	}
	if !outcome.Busted || !outcome.TurnEnded {
		t.Fatalf("outcome = %+v, want bust", outcome)
	}
	if outcome.NextPlayer != "Grace" {
		t.Fatalf("next player = %q, want %q", outcome.NextPlayer, "Grace")
	}

	snap := game.Snapshot()
	if snap.Players[0].TurnScore != 0 || snap.Players[0].TotalScore != 0 {
		t.Fatalf("player scores = %+v, want forfeited", snap.Players[0])
	}
}

func TestRerollBeforeKeepRejected(t *testing.T) {
	game := newTestGame(t, []int{1, 2, 2, 3, 4, 6}, "Ada")
	mustStartTurn(t, game)

	if _, err := game.Reroll(); !errors.Is(err, ErrRerollWithoutKeep) {
		t.Fatalf("error = %v, want %v", err, ErrRerollWithoutKeep)
	}
	if got := game.Phase(); got != PhaseAwaitingSelection {
		t.Fatalf("phase = %s, want %s", got, PhaseAwaitingSelection)
	}
}

func TestRerollOutsideTurnRejected(t *testing.T) {
	game := newTestGame(t, nil, "Ada")
	if _, err := game.Reroll(); !errors.Is(err, ErrTurnNotStarted) {
		t.Fatalf("error = %v, want %v", err, ErrTurnNotStarted)
	}
}

func TestBankCommitsAndPassesPlay(t *testing.T) {
	game := newTestGame(t, []int{1, 2, 2, 3, 4, 6}, "Ada", "Grace")

	if _, err := game.Bank(); !errors.Is(err, ErrTurnNotStarted) {
		t.Fatalf("error = %v, want %v", err, ErrTurnNotStarted)
	}

	mustStartTurn(t, game)
	if _, err := game.Bank(); !errors.Is(err, ErrNothingToBank) {
		t.Fatalf("error = %v, want %v", err, ErrNothingToBank)
	}

	mustKeep(t, game, 1)
	outcome, err := game.Bank()
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	if outcome.Banked != 100 || outcome.Total != 100 {
		t.Fatalf("banked = %d total = %d, want 100 and 100", outcome.Banked, outcome.Total)
	}
	if outcome.Won {
		t.Fatal("100 points should not win")
	}
	if outcome.NextPlayer != "Grace" {
		t.Fatalf("next player = %q, want %q", outcome.NextPlayer, "Grace")
	}
	if got := game.Phase(); got != PhaseTurnStart {
		t.Fatalf("phase = %s, want %s", got, PhaseTurnStart)
	}

	if _, err := game.Bank(); !errors.Is(err, ErrTurnNotStarted) {
		t.Fatalf("second bank error = %v, want %v", err, ErrTurnNotStarted)
	}
}

func TestBankReachingMaxScoreEndsGame(t *testing.T) {
	rules := DefaultRules()
	rules.MaxScore = 500
	game, err := NewGame(rules, &scriptRoller{values: []int{1, 1, 1, 2, 3, 6}})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	for _, name := range []string{"Ada", "Grace"} {
		if err := game.AddPlayer(name); err != nil {
			t.Fatalf("add player: %v", err)
		}
	}

	mustStartTurn(t, game)
	mustKeep(t, game, 1, 1, 1)

	outcome, err := game.Bank()
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	if !outcome.Won || outcome.Total != 1000 {
		t.Fatalf("outcome = %+v, want win with total 1000", outcome)
	}
	if got := game.Phase(); got != PhaseGameOver {
		t.Fatalf("phase = %s, want %s", got, PhaseGameOver)
	}
	if got := game.Winner(); got != "Ada" {
		t.Fatalf("winner = %q, want %q", got, "Ada")
	}

	_, err = game.StartTurn()
	if !errors.Is(err, ErrGameOver) {
		t.Fatalf("error = %v, want %v", err, ErrGameOver)
	}
	if got := apperrors.MetadataOf(err)["Winner"]; got != "Ada" {
		t.Fatalf("metadata winner = %q, want %q", got, "Ada")
	}
	if err := game.AddPlayer("Joan"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("error = %v, want %v", err, ErrGameOver)
	}
}

func TestAvailableActions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) *Game
		want  []Action
	}{
		{
			name: "no players",
			setup: func(t *testing.T) *Game {
				game, err := NewGame(DefaultRules(), &scriptRoller{})
				if err != nil {
					t.Fatalf("new game: %v", err)
				}
				return game
			},
			want: nil,
		},
		{
			name: "turn start",
			setup: func(t *testing.T) *Game {
				return newTestGame(t, nil, "Ada")
			},
			want: []Action{ActionStartTurn},
		},
		{
			name: "fresh roll",
			setup: func(t *testing.T) *Game {
				game := newTestGame(t, []int{1, 2, 2, 3, 4, 6}, "Ada")
				mustStartTurn(t, game)
				return game
			},
			want: []Action{ActionKeep},
		},
		{
			name: "fresh roll after full clear",
			setup: func(t *testing.T) *Game {
				game := newTestGame(t, []int{1, 1, 1, 5, 5, 5, 1, 2, 2, 3, 4, 6}, "Ada")
				mustStartTurn(t, game)
				mustKeep(t, game, 1, 1, 1, 5, 5, 5)
				return game
			},
			want: []Action{ActionKeep, ActionBank},
		},
		{
			name: "deciding with scoring dice left",
			setup: func(t *testing.T) *Game {
				game := newTestGame(t, []int{1, 5, 2, 3, 4, 4}, "Ada")
				mustStartTurn(t, game)
				mustKeep(t, game, 1)
				return game
			},
			want: []Action{ActionKeep, ActionReroll, ActionBank},
		},
		{
			name: "deciding without scoring dice left",
			setup: func(t *testing.T) *Game {
				game := newTestGame(t, []int{1, 2, 2, 3, 4, 6}, "Ada")
				mustStartTurn(t, game)
				mustKeep(t, game, 1)
				return game
			},
			want: []Action{ActionReroll, ActionBank},
		},
		{
			name: "game over",
			setup: func(t *testing.T) *Game {
				rules := DefaultRules()
				rules.MaxScore = 500
				game, err := NewGame(rules, &scriptRoller{values: []int{1, 1, 1, 2, 3, 6}})
				if err != nil {
					t.Fatalf("new game: %v", err)
				}
				if err := game.AddPlayer("Ada"); err != nil {
					t.Fatalf("add player: %v", err)
				}
				mustStartTurn(t, game)
				mustKeep(t, game, 1, 1, 1)
				if _, err := game.Bank(); err != nil {
					t.Fatalf("bank: %v", err)
				}
				return game
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := tt.setup(t)
			if got := game.AvailableActions(); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("actions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOfferingsNilOutsideTurn(t *testing.T) {
	game := newTestGame(t, nil, "Ada")
	if got := game.Offerings(); got != nil {
		t.Fatalf("offerings = %v, want nil before a roll", got)
	}
}

func TestSnapshotMutationDoesNotAffectGame(t *testing.T) {
	game := newTestGame(t, []int{1, 5, 2, 3, 4, 6}, "Ada")
	mustStartTurn(t, game)

	snap := game.Snapshot()
	snap.Players[0].TurnScore = 999
	snap.Dice[0].Value = 9
	snap.Available[0] = 9

	fresh := game.Snapshot()
	if fresh.Players[0].TurnScore != 0 {
		t.Fatalf("turn score = %d, want 0", fresh.Players[0].TurnScore)
	}
	if fresh.Dice[0].Value != 1 {
		t.Fatalf("die value = %d, want 1", fresh.Dice[0].Value)
	}
	if fresh.Available[0] != 1 {
		t.Fatalf("available value = %d, want 1", fresh.Available[0])
	}
}

func TestPlayerRotationWrapsAround(t *testing.T) {
	game := newTestGame(t, []int{2, 3, 4, 6, 2, 3, 2, 3, 4, 6, 2, 3}, "Ada", "Grace")

	first := mustStartTurn(t, game)
	if first.NextPlayer != "Grace" {
		t.Fatalf("next player = %q, want %q", first.NextPlayer, "Grace")
	}
	second := mustStartTurn(t, game)
	if second.Player != "Grace" {
		t.Fatalf("player = %q, want %q", second.Player, "Grace")
	}
	if second.NextPlayer != "Ada" {
		t.Fatalf("next player = %q, want %q", second.NextPlayer, "Ada")
	}
	if got := game.Snapshot().Current; got != 0 {
		t.Fatalf("current player = %d, want 0", got)
	}
}

func TestIsInvalidMove(t *testing.T) {
	if !IsInvalidMove(ErrSelectionEmpty) {
		t.Fatal("selection errors are invalid moves")
	}
	if IsInvalidMove(ErrTurnNotStarted) {
		t.Fatal("state errors are not invalid moves")
	}
	if IsInvalidMove(errors.New("boom")) {
		t.Fatal("plain errors are not invalid moves")
	}
}
