// Package mcp parses MCP command flags and starts the stdio runtime.
package mcp

import (
	"context"
	"flag"

	appmcp "github.com/louisbranch/farkle-engine/internal/app/mcp"
	entrypoint "github.com/louisbranch/farkle-engine/internal/platform/cmd"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath  string `env:"FARKLE_DB_PATH"`
	RuleSet string `env:"FARKLE_RULES"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the sqlite match archive (empty disables archival)")
	fs.StringVar(&cfg.RuleSet, "rules", cfg.RuleSet, "Default rule table name or YAML path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter on stdio.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(context.Context) error {
		return appmcp.Run(ctx, appmcp.Config{
			DBPath:  cfg.DBPath,
			RuleSet: cfg.RuleSet,
		})
	})
}
