// Package daemon parses daemon command flags and launches the agent runtime.
package daemon

import (
	"context"
	"flag"
	"strings"
	"time"

	daemonapp "github.com/louisbranch/orion/internal/app/daemon"
	entrypoint "github.com/louisbranch/orion/internal/platform/cmd"
)

// Config holds daemon command configuration.
type Config struct {
	Port              int           `env:"ORION_DAEMON_PORT" envDefault:"8090"`
	DBPath            string        `env:"ORION_DB_PATH" envDefault:"data/orion.db"`
	Owner             string        `env:"ORION_OWNER"`
	Operators         string        `env:"ORION_OPERATORS"`
	HeartbeatInterval time.Duration `env:"ORION_HEARTBEAT_INTERVAL" envDefault:"1m"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The daemon health gRPC server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The agent SQLite database path")
	fs.StringVar(&cfg.Owner, "owner", cfg.Owner, "The agent owner identity")
	fs.StringVar(&cfg.Operators, "operators", cfg.Operators, "Comma-separated operators allowed to wake the agent")
	fs.DurationVar(&cfg.HeartbeatInterval, "heartbeat-interval", cfg.HeartbeatInterval, "Heartbeat pulse interval")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the daemon runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDaemon, func(ctx context.Context) error {
		return daemonapp.Run(ctx, daemonapp.RuntimeConfig{
			Port:              cfg.Port,
			DBPath:            cfg.DBPath,
			Owner:             cfg.Owner,
			Operators:         splitOperators(cfg.Operators),
			HeartbeatInterval: cfg.HeartbeatInterval,
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
