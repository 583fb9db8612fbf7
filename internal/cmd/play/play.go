// Package play parses play command flags and runs a local match in the
// terminal.
package play

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/louisbranch/farkle-engine/internal/farkle"
	"github.com/louisbranch/farkle-engine/internal/farkle/service"
	entrypoint "github.com/louisbranch/farkle-engine/internal/platform/cmd"
	apperrors "github.com/louisbranch/farkle-engine/internal/platform/errors"
	"github.com/louisbranch/farkle-engine/internal/platform/errors/i18n"
	"github.com/louisbranch/farkle-engine/internal/rules"
)

// Config holds play command configuration.
type Config struct {
	Players string `env:"FARKLE_PLAYERS" envDefault:"Player 1,Player 2"`
	RuleSet string `env:"FARKLE_RULES"`
	Locale  string `env:"FARKLE_LOCALE"`
	Seed    int64
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Players, "players", cfg.Players, "Comma-separated player names")
	fs.StringVar(&cfg.RuleSet, "rules", cfg.RuleSet, "Rule table name or YAML path")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Locale for rule messages")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for reproducibility (0 = random)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run plays an interactive match reading commands from in until the match
// ends, the input closes, or the context is canceled.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	if in == nil {
		return errors.New("input is required")
	}
	if out == nil {
		out = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServicePlay, func(context.Context) error {
		return play(ctx, cfg, in, out)
	})
}

func play(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	players := splitPlayers(cfg.Players)
	if len(players) == 0 {
		return errors.New("at least one player name is required")
	}

	matches := service.New(service.Config{
		LoadRules: rules.LoaderWithDefault(cfg.RuleSet),
	})
	input := service.CreateMatchInput{Players: players}
	if cfg.Seed != 0 {
		seed := cfg.Seed
		input.Seed = &seed
	}
	state, err := matches.CreateMatch(ctx, input)
	if err != nil {
		return err
	}

	s := &session{
		matches: matches,
		matchID: state.ID,
		catalog: i18n.GetCatalog(cfg.Locale),
		out:     out,
	}
	s.printBanner(state.Snapshot)
	s.printPrompt(state.Snapshot)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		done, err := s.handle(ctx, scanner.Text())
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return scanner.Err()
}

func splitPlayers(names string) []string {
	var players []string
	for _, name := range strings.Split(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			players = append(players, name)
		}
	}
	return players
}

// session tracks one interactive match and where to print it.
type session struct {
	matches *service.Service
	matchID string
	catalog *i18n.Catalog
	out     io.Writer
}

// handle runs one command line. It reports done when the match is over or
// the player quit.
func (s *session) handle(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		snapshot, err := s.snapshot(ctx)
		if err != nil {
			return false, err
		}
		s.printPrompt(snapshot)
		return false, nil
	}

	switch cmd := fields[0]; cmd {
	case "roll", "start":
		result, err := s.matches.StartTurn(ctx, s.matchID)
		if err != nil {
			return s.printRuleError(ctx, err)
		}
		s.printRoll(result.Outcome)
		return s.advance(result.Snapshot), nil
	case "keep":
		values, err := parseDice(fields[1:])
		if err != nil {
			fmt.Fprintln(s.out, err)
			return false, nil
		}
		result, err := s.matches.Keep(ctx, s.matchID, values)
		if err != nil {
			return s.printRuleError(ctx, err)
		}
		s.printKeep(result.Outcome)
		return s.advance(result.Snapshot), nil
	case "reroll":
		result, err := s.matches.Reroll(ctx, s.matchID)
		if err != nil {
			return s.printRuleError(ctx, err)
		}
		s.printRoll(result.Outcome)
		return s.advance(result.Snapshot), nil
	case "bank":
		result, err := s.matches.Bank(ctx, s.matchID)
		if err != nil {
			return s.printRuleError(ctx, err)
		}
		s.printBank(result.Outcome)
		return s.advance(result.Snapshot), nil
	case "hint":
		return false, s.printHint(ctx)
	case "state":
		snapshot, err := s.snapshot(ctx)
		if err != nil {
			return false, err
		}
		s.printState(snapshot)
		s.printPrompt(snapshot)
		return false, nil
	case "help":
		s.printHelp()
		return false, nil
	case "quit", "exit":
		return true, nil
	default:
		fmt.Fprintf(s.out, "unknown command %q; try help\n", cmd)
		return false, nil
	}
}

// advance prints the prompt for the next decision and reports whether the
// match ended.
func (s *session) advance(snapshot farkle.Snapshot) bool {
	if snapshot.Phase == farkle.PhaseGameOver {
		s.printGameOver(snapshot)
		return true
	}
	s.printPrompt(snapshot)
	return false
}

func (s *session) snapshot(ctx context.Context) (farkle.Snapshot, error) {
	state, err := s.matches.State(ctx, s.matchID)
	if err != nil {
		return farkle.Snapshot{}, err
	}
	return state.Snapshot, nil
}

// printRuleError prints rule violations and keeps the session going.
// Errors without a known code abort the match.
func (s *session) printRuleError(ctx context.Context, err error) (bool, error) {
	code := apperrors.CodeOf(err)
	if code == apperrors.CodeUnknown {
		return false, err
	}
	fmt.Fprintln(s.out, s.catalog.Format(string(code), apperrors.MetadataOf(err)))
	snapshot, snapErr := s.snapshot(ctx)
	if snapErr != nil {
		return false, snapErr
	}
	s.printPrompt(snapshot)
	return false, nil
}

func (s *session) printBanner(snapshot farkle.Snapshot) {
	names := make([]string, len(snapshot.Players))
	for i, p := range snapshot.Players {
		names[i] = p.Name
	}
	fmt.Fprintf(s.out, "%s to %d points: %s\n", snapshot.RuleSet, snapshot.MaxScore, strings.Join(names, " vs "))
	fmt.Fprintln(s.out, "type help for commands")
}

func (s *session) printPrompt(snapshot farkle.Snapshot) {
	if snapshot.Current < 0 || snapshot.Current >= len(snapshot.Players) {
		return
	}
	player := snapshot.Players[snapshot.Current]
	fmt.Fprintf(s.out, "\n%s (turn %d, total %d)\n", player.Name, player.TurnScore, player.TotalScore)
	if len(snapshot.Available) > 0 && snapshot.Phase == farkle.PhaseAwaitingSelection {
		fmt.Fprintf(s.out, "rolled: %s\n", joinValues(snapshot.Available))
	}
	s.printOfferings(snapshot.Offerings)
	actions := make([]string, len(snapshot.Actions))
	for i, a := range snapshot.Actions {
		actions[i] = string(a)
	}
	fmt.Fprintf(s.out, "actions: %s\n", strings.Join(actions, ", "))
}

func (s *session) printOfferings(offerings []farkle.Combination) {
	for _, c := range offerings {
		fmt.Fprintf(s.out, "  %s (%s) = %d\n", c.Pattern, joinValues(c.Values), c.Score)
	}
}

func (s *session) printRoll(outcome farkle.RollOutcome) {
	fmt.Fprintf(s.out, "%s rolled %s\n", outcome.Player, joinValues(outcome.Rolled))
	if outcome.Busted {
		fmt.Fprintf(s.out, "bust! turn passes to %s\n", outcome.NextPlayer)
	}
}

func (s *session) printKeep(outcome farkle.KeepOutcome) {
	fmt.Fprintf(s.out, "%s kept for %d (turn %d)\n", outcome.Player, outcome.Points, outcome.TurnScore)
	if outcome.FullClear {
		fmt.Fprintf(s.out, "full clear! rolled %s\n", joinValues(outcome.Rolled))
	}
	if outcome.Busted {
		fmt.Fprintf(s.out, "bust! turn passes to %s\n", outcome.NextPlayer)
	}
}

func (s *session) printBank(outcome farkle.BankOutcome) {
	fmt.Fprintf(s.out, "%s banked %d (total %d)\n", outcome.Player, outcome.Banked, outcome.Total)
	if !outcome.Won {
		fmt.Fprintf(s.out, "turn passes to %s\n", outcome.NextPlayer)
	}
}

func (s *session) printHint(ctx context.Context) error {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	if len(snapshot.Offerings) == 0 {
		fmt.Fprintln(s.out, "no scoring combinations available")
	} else {
		s.printOfferings(snapshot.Offerings)
	}
	s.printPrompt(snapshot)
	return nil
}

func (s *session) printState(snapshot farkle.Snapshot) {
	fmt.Fprintf(s.out, "phase: %s\n", snapshot.Phase)
	for i, p := range snapshot.Players {
		marker := " "
		if i == snapshot.Current {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %s turn %d total %d\n", marker, p.Name, p.TurnScore, p.TotalScore)
	}
	for _, d := range snapshot.Dice {
		if d.Kept {
			fmt.Fprintf(s.out, "  die %d kept\n", d.Value)
		} else {
			fmt.Fprintf(s.out, "  die %d\n", d.Value)
		}
	}
}

func (s *session) printGameOver(snapshot farkle.Snapshot) {
	fmt.Fprintf(s.out, "\n%s wins!\n", snapshot.Winner)
	for _, p := range snapshot.Players {
		fmt.Fprintf(s.out, "  %s %d\n", p.Name, p.TotalScore)
	}
}

func (s *session) printHelp() {
	fmt.Fprint(s.out, `commands:
  roll            start your turn
  keep <dice...>  set aside scoring dice, e.g. keep 1 5 5
  reroll          roll the remaining dice again
  bank            bank the turn score and pass the dice
  hint            list scoring combinations in the current roll
  state           show the full match state
  quit            leave the match
`)
}

func parseDice(fields []string) ([]int, error) {
	if len(fields) == 0 {
		return nil, errors.New("keep needs die values, e.g. keep 1 5 5")
	}
	values := make([]int, len(fields))
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%q is not a die value", field)
		}
		values[i] = v
	}
	return values, nil
}

func joinValues(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
