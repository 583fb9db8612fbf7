// Package mcp exposes match play as MCP tools over stdio so model-driven
// clients can play matches against the engine.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/farkle-engine/internal/farkle"
	"github.com/louisbranch/farkle-engine/internal/farkle/service"
	"github.com/louisbranch/farkle-engine/internal/rules"
	"github.com/louisbranch/farkle-engine/internal/storage"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Farkle Engine MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// MatchService is the service surface the MCP tools drive.
type MatchService interface {
	CreateMatch(ctx context.Context, in service.CreateMatchInput) (service.MatchState, error)
	State(ctx context.Context, matchID string) (service.MatchState, error)
	StartTurn(ctx context.Context, matchID string) (service.TurnResult, error)
	Keep(ctx context.Context, matchID string, values []int) (service.KeepResult, error)
	Reroll(ctx context.Context, matchID string) (service.TurnResult, error)
	Bank(ctx context.Context, matchID string) (service.BankResult, error)
	Preview(values []int, ruleSet string) ([]farkle.Combination, error)
	Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error)
}

// Config configures the MCP server.
type Config struct {
	Matches MatchService
	// LoadRules resolves rule table names for the rule table resource;
	// nil falls back to the named table loader.
	LoadRules func(string) (farkle.Rules, error)
	// RuleSet names the table the rule table resource describes; empty
	// means classic.
	RuleSet string
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server over a match service.
func New(cfg Config) *Server {
	if cfg.LoadRules == nil {
		cfg.LoadRules = rules.Load
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerMatchTools(mcpServer, cfg.Matches)
	registerArchiveResources(mcpServer, cfg.Matches)
	mcpServer.AddResource(RuleTableResource(), RuleTableResourceHandler(cfg.LoadRules, cfg.RuleSet))

	return &Server{mcpServer: mcpServer}
}

// Run serves the MCP server on stdio until the context ends.
func Run(ctx context.Context, cfg Config) error {
	return New(cfg).serveWithTransport(ctx, &mcp.StdioTransport{})
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
// A context cancellation is a clean shutdown, not an error.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func registerMatchTools(mcpServer *mcp.Server, matches MatchService) {
	mcp.AddTool(mcpServer, MatchCreateTool(), MatchCreateHandler(matches))
	mcp.AddTool(mcpServer, MatchStateTool(), MatchStateHandler(matches))
	mcp.AddTool(mcpServer, TurnStartTool(), TurnStartHandler(matches))
	mcp.AddTool(mcpServer, DiceKeepTool(), DiceKeepHandler(matches))
	mcp.AddTool(mcpServer, DiceRerollTool(), DiceRerollHandler(matches))
	mcp.AddTool(mcpServer, TurnBankTool(), TurnBankHandler(matches))
	mcp.AddTool(mcpServer, ScorePreviewTool(), ScorePreviewHandler(matches))
}

// registerArchiveResources registers readable archive MCP resources.
func registerArchiveResources(mcpServer *mcp.Server, matches MatchService) {
	mcpServer.AddResource(LeaderboardResource(), LeaderboardResourceHandler(matches))
}
