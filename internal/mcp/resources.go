package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/farkle-engine/internal/farkle"
)

// leaderboardResourceLimit caps entries in the leaderboard resource.
const leaderboardResourceLimit = 10

// LeaderboardEntryPayload represents one archived winner.
type LeaderboardEntryPayload struct {
	MatchID    string `json:"match_id"`
	Winner     string `json:"winner"`
	Score      int    `json:"score"`
	RuleSet    string `json:"rule_set"`
	FinishedAt string `json:"finished_at"`
}

// LeaderboardPayload represents the MCP resource payload for the leaderboard.
type LeaderboardPayload struct {
	Entries []LeaderboardEntryPayload `json:"entries"`
}

// RuleTablePayload represents the MCP resource payload for a rule table.
type RuleTablePayload struct {
	Name        string         `json:"name"`
	MaxScore    int            `json:"max_score"`
	DiceCount   int            `json:"dice_count"`
	Scores      map[string]int `json:"scores"`
	Multipliers map[int]int    `json:"multipliers"`
}

// LeaderboardResource defines the MCP resource for archived winners.
func LeaderboardResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "leaderboard_top",
		Title:       "Leaderboard",
		Description: "Readable listing of archived match winners, best first",
		MIMEType:    "application/json",
		URI:         "leaderboard://top",
	}
}

// RuleTableResource defines the MCP resource for the active rule table.
func RuleTableResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "rule_table",
		Title:       "Rule Table",
		Description: "Scoring patterns, multipliers, and winning score of the active rule table",
		MIMEType:    "application/json",
		URI:         "rules://table",
	}
}

// LeaderboardResourceHandler returns a readable leaderboard resource.
func LeaderboardResourceHandler(matches MatchService) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if matches == nil {
			return nil, fmt.Errorf("match service is not configured")
		}

		uri := LeaderboardResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		entries, err := matches.Leaderboard(ctx, leaderboardResourceLimit)
		if err != nil {
			return nil, fmt.Errorf("leaderboard read failed: %w", err)
		}

		payload := LeaderboardPayload{}
		for _, entry := range entries {
			payload.Entries = append(payload.Entries, LeaderboardEntryPayload{
				MatchID:    entry.MatchID,
				Winner:     entry.Winner,
				Score:      entry.Score,
				RuleSet:    entry.RuleSet,
				FinishedAt: entry.FinishedAt.Format(time.RFC3339),
			})
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal leaderboard: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

// RuleTableResourceHandler returns the active rule table as a readable
// resource.
func RuleTableResourceHandler(load func(string) (farkle.Rules, error), ruleSet string) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if load == nil {
			return nil, fmt.Errorf("rules loader is not configured")
		}

		uri := RuleTableResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		table, err := load(ruleSet)
		if err != nil {
			return nil, fmt.Errorf("rule table read failed: %w", err)
		}

		scores := make(map[string]int, len(table.Scores))
		for pattern, score := range table.Scores {
			scores[string(pattern)] = score
		}
		payload := RuleTablePayload{
			Name:        table.Name,
			MaxScore:    table.MaxScore,
			DiceCount:   table.DiceCount,
			Scores:      scores,
			Multipliers: table.Multipliers,
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal rule table: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
