package daemon

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfig_ParsesDefaultsAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	t.Setenv("ORION_DAEMON_PORT", "9091")
	t.Setenv("ORION_OWNER", "owner-from-env")

	cfg, err := ParseConfig(fs, []string{"-heartbeat-interval", "30s", "-operators", "a, b,"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9091 {
		t.Fatalf("port = %d, want 9091", cfg.Port)
	}
	if cfg.Owner != "owner-from-env" {
		t.Fatalf("owner = %q, want owner-from-env", cfg.Owner)
	}
	if cfg.HeartbeatInterval != 30*time.Second {
		t.Fatalf("heartbeat interval = %s, want 30s", cfg.HeartbeatInterval)
	}
	operators := splitOperators(cfg.Operators)
	if len(operators) != 2 || operators[0] != "a" || operators[1] != "b" {
		t.Fatalf("operators = %v, want [a b]", operators)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8090 {
		t.Fatalf("port = %d, want 8090", cfg.Port)
	}
	if cfg.DBPath != "data/orion.db" {
		t.Fatalf("db path = %q, want data/orion.db", cfg.DBPath)
	}
	if cfg.HeartbeatInterval != time.Minute {
		t.Fatalf("heartbeat interval = %s, want 1m", cfg.HeartbeatInterval)
	}
}
