// Package mcp composes storage and the match service into a runnable MCP
// server.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/farkle-engine/internal/farkle/service"
	"github.com/louisbranch/farkle-engine/internal/mcp"
	"github.com/louisbranch/farkle-engine/internal/rules"
	"github.com/louisbranch/farkle-engine/internal/storage/sqlite"
)

// Config holds the MCP composition settings.
type Config struct {
	// DBPath locates the sqlite archive; empty disables archival and the
	// leaderboard resource data.
	DBPath string
	// RuleSet names the table used when a match names none; empty means
	// classic.
	RuleSet string
}

// Run hosts the match service behind an MCP server on stdio until the
// context ends.
func Run(ctx context.Context, cfg Config) error {
	svcCfg := service.Config{LoadRules: rules.LoaderWithDefault(cfg.RuleSet)}

	if path := strings.TrimSpace(cfg.DBPath); path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create storage dir: %w", err)
			}
		}
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close match store: %v", err)
			}
		}()
		svcCfg.Store = store
		svcCfg.Events = store
	}

	matches := service.New(svcCfg)
	return mcp.Run(ctx, mcp.Config{
		Matches:   matches,
		LoadRules: svcCfg.LoadRules,
		RuleSet:   cfg.RuleSet,
	})
}
