// Package mcp parses MCP command flags and serves the agent MCP surface.
package mcp

import (
	"context"
	"flag"
	"strings"

	mcpservice "github.com/louisbranch/orion/internal/mcp/service"
	entrypoint "github.com/louisbranch/orion/internal/platform/cmd"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath    string `env:"ORION_DB_PATH" envDefault:"data/orion.db"`
	Owner     string `env:"ORION_OWNER"`
	Operators string `env:"ORION_OPERATORS"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The agent SQLite database path")
	fs.StringVar(&cfg.Owner, "owner", cfg.Owner, "The agent owner identity")
	fs.StringVar(&cfg.Operators, "operators", cfg.Operators, "Comma-separated operators allowed to wake the agent")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the MCP surface on stdio.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return mcpservice.Run(ctx, mcpservice.Config{
			DBPath:    cfg.DBPath,
			Owner:     cfg.Owner,
			Operators: splitOperators(cfg.Operators),
		})
	})
}

func splitOperators(spec string) []string {
	var operators []string
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			operators = append(operators, entry)
		}
	}
	return operators
}
