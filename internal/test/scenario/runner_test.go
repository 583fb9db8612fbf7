//go:build scenario

package scenario

import (
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"github.com/louisbranch/farkle-engine/internal/farkle"
	apperrors "github.com/louisbranch/farkle-engine/internal/platform/errors"
	"github.com/louisbranch/farkle-engine/internal/rules"
)

const scenarioLuaGlob = "scenarios/*.lua"

// queueRoller deals die values scripted by queue steps, first in first
// out.
type queueRoller struct {
	values []int
}

func (r *queueRoller) Roll(faces int) int {
	if len(r.values) == 0 {
		panic("dice queue exhausted")
	}
	value := r.values[0]
	r.values = r.values[1:]
	if value < 1 || value > faces {
		panic(fmt.Sprintf("queued die %d out of range 1..%d", value, faces))
	}
	return value
}

type scenarioState struct {
	game       *farkle.Game
	roller     *queueRoller
	lastBusted bool
}

func TestScenarioScripts(t *testing.T) {
	paths, err := filepath.Glob(scenarioLuaGlob)
	if err != nil {
		t.Fatalf("glob scenarios: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no scenarios found for %s", scenarioLuaGlob)
	}
	sort.Strings(paths)

	for _, path := range paths {
		path := path
		scenario, err := loadScenarioFromFile(path)
		if err != nil {
			t.Fatalf("load scenario %s: %v", path, err)
		}
		name := scenario.Name
		if name == "" {
			name = filepath.Base(path)
		}
		t.Run(name, func(t *testing.T) {
			runScenario(t, scenario)
		})
	}
}

func runScenario(t *testing.T, scenario *Scenario) {
	t.Helper()

	state := &scenarioState{roller: &queueRoller{}}
	for index, step := range scenario.Steps {
		step := step
		t.Run(fmt.Sprintf("%02d_%s", index+1, step.Kind), func(t *testing.T) {
			runStep(t, state, step)
		})
	}
}

func runStep(t *testing.T, state *scenarioState, step Step) {
	t.Helper()

	if step.Kind == "match" {
		runMatchStep(t, state, step)
		return
	}
	if state.game == nil {
		t.Fatalf("step %s before match was declared", step.Kind)
	}

	switch step.Kind {
	case "queue":
		state.roller.values = append(state.roller.values, intSlice(step.Args["values"])...)
	case "start_turn":
		requireQueued(t, state, step, state.game.Rules().DiceCount)
		outcome, err := state.game.StartTurn()
		checkActionErr(t, step, err)
		state.lastBusted = err == nil && outcome.Busted
	case "keep":
		dice := intSlice(step.Args["dice"])
		if available := state.game.Snapshot().Available; len(dice) == len(available) {
			requireQueued(t, state, step, state.game.Rules().DiceCount)
		}
		outcome, err := state.game.Keep(dice)
		checkActionErr(t, step, err)
		state.lastBusted = err == nil && outcome.Busted
	case "reroll":
		requireQueued(t, state, step, len(state.game.Snapshot().Available))
		outcome, err := state.game.Reroll()
		checkActionErr(t, step, err)
		state.lastBusted = err == nil && outcome.Busted
	case "bank":
		_, err := state.game.Bank()
		checkActionErr(t, step, err)
		state.lastBusted = false
	case "expect_phase":
		if got, want := string(state.game.Phase()), stringArg(step.Args, "phase"); got != want {
			t.Fatalf("phase = %s, want %s", got, want)
		}
	case "expect_current":
		snapshot := state.game.Snapshot()
		want := stringArg(step.Args, "player")
		if snapshot.Current < 0 || snapshot.Current >= len(snapshot.Players) {
			t.Fatalf("no current player, want %s", want)
		}
		if got := snapshot.Players[snapshot.Current].Name; got != want {
			t.Fatalf("current player = %s, want %s", got, want)
		}
	case "expect_winner":
		if got, want := state.game.Winner(), stringArg(step.Args, "winner"); got != want {
			t.Fatalf("winner = %q, want %q", got, want)
		}
	case "expect_total":
		player := playerView(t, state, stringArg(step.Args, "player"))
		if want := intArg(t, step.Args, "points"); player.TotalScore != want {
			t.Fatalf("%s total = %d, want %d", player.Name, player.TotalScore, want)
		}
	case "expect_turn":
		player := playerView(t, state, stringArg(step.Args, "player"))
		if want := intArg(t, step.Args, "points"); player.TurnScore != want {
			t.Fatalf("%s turn score = %d, want %d", player.Name, player.TurnScore, want)
		}
	case "expect_bust":
		if !state.lastBusted {
			t.Fatal("expected the last roll to bust")
		}
	default:
		t.Fatalf("unknown step kind %q", step.Kind)
	}
}

func runMatchStep(t *testing.T, state *scenarioState, step Step) {
	t.Helper()

	table, err := rules.Load(stringArg(step.Args, "rules"))
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	game, err := farkle.NewGame(table, state.roller)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	players := stringSlice(step.Args["players"])
	if len(players) == 0 {
		t.Fatal("match needs at least one player")
	}
	for _, name := range players {
		if err := game.AddPlayer(name); err != nil {
			t.Fatalf("add player %s: %v", name, err)
		}
	}
	state.game = game
}

// requireQueued fails fast when a rolling step would drain the die queue.
// Steps expected to fail roll nothing and are exempt.
func requireQueued(t *testing.T, state *scenarioState, step Step, need int) {
	t.Helper()

	if stringArg(step.Args, "fails") != "" {
		return
	}
	if have := len(state.roller.values); have < need {
		t.Fatalf("%s needs %d queued dice, have %d", step.Kind, need, have)
	}
}

func checkActionErr(t *testing.T, step Step, err error) {
	t.Helper()

	want := stringArg(step.Args, "fails")
	if want == "" {
		if err != nil {
			t.Fatalf("%s: %v", step.Kind, err)
		}
		return
	}
	if err == nil {
		t.Fatalf("%s: expected %s, got success", step.Kind, want)
	}
	if got := string(apperrors.CodeOf(err)); got != want {
		t.Fatalf("%s: expected %s, got %s (%v)", step.Kind, want, got, err)
	}
}

func playerView(t *testing.T, state *scenarioState, name string) farkle.PlayerView {
	t.Helper()

	for _, player := range state.game.Snapshot().Players {
		if player.Name == name {
			return player
		}
	}
	t.Fatalf("player %q is not in the match", name)
	return farkle.PlayerView{}
}

func stringArg(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return value
}

func intArg(t *testing.T, args map[string]any, key string) int {
	t.Helper()

	value, ok := args[key].(int)
	if !ok {
		t.Fatalf("step arg %q must be a number", key)
	}
	return value
}

func intSlice(value any) []int {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		if number, ok := item.(int); ok {
			out = append(out, number)
		}
	}
	return out
}

func stringSlice(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := item.(string); ok {
			out = append(out, text)
		}
	}
	return out
}
