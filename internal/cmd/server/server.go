// Package server parses server command flags and starts the HTTP runtime.
package server

import (
	"context"
	"flag"

	appserver "github.com/louisbranch/farkle-engine/internal/app/server"
	entrypoint "github.com/louisbranch/farkle-engine/internal/platform/cmd"
)

// Config holds server command configuration.
type Config struct {
	Port    int    `env:"FARKLE_PORT" envDefault:"8080"`
	Addr    string `env:"FARKLE_ADDR"`
	DBPath  string `env:"FARKLE_DB_PATH"`
	RuleSet string `env:"FARKLE_RULES"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The match server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The match server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the sqlite match archive")
	fs.StringVar(&cfg.RuleSet, "rules", cfg.RuleSet, "Default rule table name or YAML path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the match HTTP service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(context.Context) error {
		return appserver.Run(ctx, appserver.Config{
			Port:    cfg.Port,
			Addr:    cfg.Addr,
			DBPath:  cfg.DBPath,
			RuleSet: cfg.RuleSet,
		})
	})
}
