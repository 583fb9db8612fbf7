package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/farkle-engine/internal/farkle"
	"github.com/louisbranch/farkle-engine/internal/farkle/service"
)

// DieState represents one die in a match snapshot.
type DieState struct {
	Value int  `json:"value" jsonschema:"face value"`
	Kept  bool `json:"kept" jsonschema:"die is set aside for the turn"`
}

// PlayerState represents one player's scores in a match snapshot.
type PlayerState struct {
	Name       string `json:"name" jsonschema:"player name"`
	TurnScore  int    `json:"turn_score" jsonschema:"points accrued this turn"`
	TotalScore int    `json:"total_score" jsonschema:"banked total"`
}

// CombinationState represents one scoring combination.
type CombinationState struct {
	Pattern string `json:"pattern" jsonschema:"scoring pattern name"`
	Values  []int  `json:"values" jsonschema:"die values forming the combination"`
	Score   int    `json:"score" jsonschema:"points the combination is worth"`
}

// MatchSnapshot represents the full state of a match.
type MatchSnapshot struct {
	Phase     string             `json:"phase" jsonschema:"state machine phase"`
	RuleSet   string             `json:"rule_set" jsonschema:"active rule table name"`
	MaxScore  int                `json:"max_score" jsonschema:"banked total needed to win"`
	Players   []PlayerState      `json:"players" jsonschema:"players in turn order"`
	Current   int                `json:"current" jsonschema:"index of the acting player, -1 before anyone joins"`
	Dice      []DieState         `json:"dice" jsonschema:"all dice with kept flags"`
	Available []int              `json:"available" jsonschema:"face values still available to keep"`
	Offerings []CombinationState `json:"offerings" jsonschema:"scoring combinations in the available dice"`
	Actions   []string           `json:"actions" jsonschema:"legal next actions"`
	Winner    string             `json:"winner,omitempty" jsonschema:"winner name once the game is over"`
}

// MatchCreateInput represents the MCP tool input for match creation.
type MatchCreateInput struct {
	Players []string `json:"players" jsonschema:"player names in turn order"`
	RuleSet string   `json:"rule_set,omitempty" jsonschema:"rule table name or file path, empty means classic"`
	Seed    *int64   `json:"seed,omitempty" jsonschema:"optional seed fixing the dice sequence"`
}

// MatchCreateResult represents the MCP tool output for match creation.
type MatchCreateResult struct {
	MatchID   string        `json:"match_id" jsonschema:"match identifier"`
	CreatedAt string        `json:"created_at" jsonschema:"creation time in RFC 3339"`
	Snapshot  MatchSnapshot `json:"snapshot" jsonschema:"initial match state"`
}

// MatchStateInput represents the MCP tool input for a state lookup.
type MatchStateInput struct {
	MatchID string `json:"match_id" jsonschema:"match identifier"`
}

// MatchStateResult represents the MCP tool output for a state lookup.
type MatchStateResult struct {
	MatchID  string        `json:"match_id" jsonschema:"match identifier"`
	Snapshot MatchSnapshot `json:"snapshot" jsonschema:"current match state"`
}

// TurnStartInput represents the MCP tool input for starting a turn.
type TurnStartInput struct {
	MatchID string `json:"match_id" jsonschema:"match identifier"`
}

// TurnStartResult represents the MCP tool output for starting a turn.
type TurnStartResult struct {
	MatchID    string        `json:"match_id" jsonschema:"match identifier"`
	Player     string        `json:"player" jsonschema:"player who rolled"`
	Rolled     []int         `json:"rolled" jsonschema:"die values rolled"`
	Busted     bool          `json:"busted" jsonschema:"roll had no scoring dice and the turn ended"`
	TurnEnded  bool          `json:"turn_ended" jsonschema:"turn passed to the next player"`
	NextPlayer string        `json:"next_player,omitempty" jsonschema:"player who acts next when the turn ended"`
	Snapshot   MatchSnapshot `json:"snapshot" jsonschema:"match state after the roll"`
}

// DiceKeepInput represents the MCP tool input for keeping dice.
type DiceKeepInput struct {
	MatchID string `json:"match_id" jsonschema:"match identifier"`
	Dice    []int  `json:"dice" jsonschema:"die values to set aside, must form scoring combinations"`
}

// DiceKeepResult represents the MCP tool output for keeping dice.
type DiceKeepResult struct {
	MatchID    string        `json:"match_id" jsonschema:"match identifier"`
	Player     string        `json:"player" jsonschema:"player who kept the dice"`
	Points     int           `json:"points" jsonschema:"points the selection scored"`
	TurnScore  int           `json:"turn_score" jsonschema:"points accrued this turn"`
	FullClear  bool          `json:"full_clear" jsonschema:"every die scored and the whole set re-rolled"`
	Rolled     []int         `json:"rolled,omitempty" jsonschema:"new die values after a full clear"`
	Busted     bool          `json:"busted" jsonschema:"the full clear re-roll had no scoring dice"`
	TurnEnded  bool          `json:"turn_ended" jsonschema:"turn passed to the next player"`
	NextPlayer string        `json:"next_player,omitempty" jsonschema:"player who acts next when the turn ended"`
	Snapshot   MatchSnapshot `json:"snapshot" jsonschema:"match state after the keep"`
}

// DiceRerollInput represents the MCP tool input for re-rolling.
type DiceRerollInput struct {
	MatchID string `json:"match_id" jsonschema:"match identifier"`
}

// TurnBankInput represents the MCP tool input for banking.
type TurnBankInput struct {
	MatchID string `json:"match_id" jsonschema:"match identifier"`
}

// TurnBankResult represents the MCP tool output for banking.
type TurnBankResult struct {
	MatchID    string        `json:"match_id" jsonschema:"match identifier"`
	Player     string        `json:"player" jsonschema:"player who banked"`
	Banked     int           `json:"banked" jsonschema:"points committed to the total"`
	Total      int           `json:"total" jsonschema:"player's banked total"`
	Won        bool          `json:"won" jsonschema:"the banked total reached the winning score"`
	NextPlayer string        `json:"next_player,omitempty" jsonschema:"player who acts next"`
	Snapshot   MatchSnapshot `json:"snapshot" jsonschema:"match state after the bank"`
}

// ScorePreviewInput represents the MCP tool input for a score preview.
type ScorePreviewInput struct {
	Dice    []int  `json:"dice" jsonschema:"die values to evaluate"`
	RuleSet string `json:"rule_set,omitempty" jsonschema:"rule table name or file path, empty means classic"`
}

// ScorePreviewResult represents the MCP tool output for a score preview.
type ScorePreviewResult struct {
	Combinations []CombinationState `json:"combinations" jsonschema:"scoring combinations present in the dice"`
	Busted       bool               `json:"busted" jsonschema:"true when no combination scores"`
}

// MatchCreateTool defines the MCP tool schema for creating matches.
func MatchCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "match_create",
		Description: "Creates a new match with the given players",
	}
}

// MatchStateTool defines the MCP tool schema for state lookups.
func MatchStateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "match_state",
		Description: "Returns the current state of a live match",
	}
}

// TurnStartTool defines the MCP tool schema for starting a turn.
func TurnStartTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "turn_start",
		Description: "Rolls the full dice set for the current player",
	}
}

// DiceKeepTool defines the MCP tool schema for keeping dice.
func DiceKeepTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "dice_keep",
		Description: "Sets aside a scoring selection for the current player",
	}
}

// DiceRerollTool defines the MCP tool schema for re-rolling.
func DiceRerollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "dice_reroll",
		Description: "Re-rolls the remaining dice for the current player",
	}
}

// TurnBankTool defines the MCP tool schema for banking.
func TurnBankTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "turn_bank",
		Description: "Commits the current player's turn score to their total",
	}
}

// ScorePreviewTool defines the MCP tool schema for score previews.
func ScorePreviewTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "score_preview",
		Description: "Evaluates which combinations score in a set of die values",
	}
}

// MatchCreateHandler executes a match creation request.
func MatchCreateHandler(matches MatchService) mcp.ToolHandlerFor[MatchCreateInput, MatchCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MatchCreateInput) (*mcp.CallToolResult, MatchCreateResult, error) {
		state, err := matches.CreateMatch(ctx, service.CreateMatchInput{
			Players: input.Players,
			RuleSet: input.RuleSet,
			Seed:    input.Seed,
		})
		if err != nil {
			return nil, MatchCreateResult{}, fmt.Errorf("match create failed: %w", err)
		}
		return nil, MatchCreateResult{
			MatchID:   state.ID,
			CreatedAt: state.CreatedAt.Format(time.RFC3339),
			Snapshot:  snapshotState(state.Snapshot),
		}, nil
	}
}

// MatchStateHandler executes a match state lookup.
func MatchStateHandler(matches MatchService) mcp.ToolHandlerFor[MatchStateInput, MatchStateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MatchStateInput) (*mcp.CallToolResult, MatchStateResult, error) {
		state, err := matches.State(ctx, input.MatchID)
		if err != nil {
			return nil, MatchStateResult{}, fmt.Errorf("match state failed: %w", err)
		}
		return nil, MatchStateResult{
			MatchID:  state.ID,
			Snapshot: snapshotState(state.Snapshot),
		}, nil
	}
}

// TurnStartHandler executes a turn start.
func TurnStartHandler(matches MatchService) mcp.ToolHandlerFor[TurnStartInput, TurnStartResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TurnStartInput) (*mcp.CallToolResult, TurnStartResult, error) {
		result, err := matches.StartTurn(ctx, input.MatchID)
		if err != nil {
			return nil, TurnStartResult{}, fmt.Errorf("turn start failed: %w", err)
		}
		return nil, turnStartResult(result), nil
	}
}

// DiceKeepHandler executes a keep.
func DiceKeepHandler(matches MatchService) mcp.ToolHandlerFor[DiceKeepInput, DiceKeepResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DiceKeepInput) (*mcp.CallToolResult, DiceKeepResult, error) {
		result, err := matches.Keep(ctx, input.MatchID, input.Dice)
		if err != nil {
			return nil, DiceKeepResult{}, fmt.Errorf("dice keep failed: %w", err)
		}
		return nil, DiceKeepResult{
			MatchID:    result.MatchID,
			Player:     result.Outcome.Player,
			Points:     result.Outcome.Points,
			TurnScore:  result.Outcome.TurnScore,
			FullClear:  result.Outcome.FullClear,
			Rolled:     result.Outcome.Rolled,
			Busted:     result.Outcome.Busted,
			TurnEnded:  result.Outcome.TurnEnded,
			NextPlayer: result.Outcome.NextPlayer,
			Snapshot:   snapshotState(result.Snapshot),
		}, nil
	}
}

// DiceRerollHandler executes a re-roll.
func DiceRerollHandler(matches MatchService) mcp.ToolHandlerFor[DiceRerollInput, TurnStartResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DiceRerollInput) (*mcp.CallToolResult, TurnStartResult, error) {
		result, err := matches.Reroll(ctx, input.MatchID)
		if err != nil {
			return nil, TurnStartResult{}, fmt.Errorf("dice reroll failed: %w", err)
		}
		return nil, turnStartResult(result), nil
	}
}

// TurnBankHandler executes a bank.
func TurnBankHandler(matches MatchService) mcp.ToolHandlerFor[TurnBankInput, TurnBankResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TurnBankInput) (*mcp.CallToolResult, TurnBankResult, error) {
		result, err := matches.Bank(ctx, input.MatchID)
		if err != nil {
			return nil, TurnBankResult{}, fmt.Errorf("turn bank failed: %w", err)
		}
		return nil, TurnBankResult{
			MatchID:    result.MatchID,
			Player:     result.Outcome.Player,
			Banked:     result.Outcome.Banked,
			Total:      result.Outcome.Total,
			Won:        result.Outcome.Won,
			NextPlayer: result.Outcome.NextPlayer,
			Snapshot:   snapshotState(result.Snapshot),
		}, nil
	}
}

// ScorePreviewHandler evaluates a set of die values without touching any
// match state.
func ScorePreviewHandler(matches MatchService) mcp.ToolHandlerFor[ScorePreviewInput, ScorePreviewResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ScorePreviewInput) (*mcp.CallToolResult, ScorePreviewResult, error) {
		combos, err := matches.Preview(input.Dice, input.RuleSet)
		if err != nil {
			return nil, ScorePreviewResult{}, fmt.Errorf("score preview failed: %w", err)
		}
		return nil, ScorePreviewResult{
			Combinations: combinationStates(combos),
			Busted:       len(combos) == 0,
		}, nil
	}
}

func turnStartResult(result service.TurnResult) TurnStartResult {
	return TurnStartResult{
		MatchID:    result.MatchID,
		Player:     result.Outcome.Player,
		Rolled:     result.Outcome.Rolled,
		Busted:     result.Outcome.Busted,
		TurnEnded:  result.Outcome.TurnEnded,
		NextPlayer: result.Outcome.NextPlayer,
		Snapshot:   snapshotState(result.Snapshot),
	}
}

func snapshotState(snap farkle.Snapshot) MatchSnapshot {
	players := make([]PlayerState, len(snap.Players))
	for i, p := range snap.Players {
		players[i] = PlayerState{Name: p.Name, TurnScore: p.TurnScore, TotalScore: p.TotalScore}
	}
	dice := make([]DieState, len(snap.Dice))
	for i, d := range snap.Dice {
		dice[i] = DieState{Value: d.Value, Kept: d.Kept}
	}
	actions := make([]string, len(snap.Actions))
	for i, action := range snap.Actions {
		actions[i] = string(action)
	}
	return MatchSnapshot{
		Phase:     string(snap.Phase),
		RuleSet:   snap.RuleSet,
		MaxScore:  snap.MaxScore,
		Players:   players,
		Current:   snap.Current,
		Dice:      dice,
		Available: snap.Available,
		Offerings: combinationStates(snap.Offerings),
		Actions:   actions,
		Winner:    snap.Winner,
	}
}

func combinationStates(combos []farkle.Combination) []CombinationState {
	states := make([]CombinationState, len(combos))
	for i, combo := range combos {
		states[i] = CombinationState{
			Pattern: string(combo.Pattern),
			Values:  combo.Values,
			Score:   combo.Score,
		}
	}
	return states
}
