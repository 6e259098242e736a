// Package orion implements the local operator CLI: it opens the agent store
// directly and executes one command per invocation.
package orion

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/louisbranch/orion/internal/agent/integrity"
	agentservice "github.com/louisbranch/orion/internal/agent/service"
	"github.com/louisbranch/orion/internal/agent/storage/sqlite"
	entrypoint "github.com/louisbranch/orion/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/orion/internal/platform/grpc"
	"github.com/louisbranch/orion/internal/platform/timeouts"
)

// Config holds CLI configuration and the parsed command.
type Config struct {
	DBPath     string `env:"ORION_DB_PATH" envDefault:"data/orion.db"`
	Owner      string `env:"ORION_OWNER"`
	Operators  string `env:"ORION_OPERATORS"`
	Initiator  string `env:"ORION_OPERATOR"`
	DaemonAddr string `env:"ORION_DAEMON_ADDR" envDefault:"localhost:8090"`
	Priority   string
	Target     int
	JSON       bool

	Command string
	Args    []string
}

const usageText = `Usage: orion [flags] <command> [args]

Commands:
  wake [note]        wake the agent (requires -as or ORION_OPERATOR)
  status             print agent state, journal size, and manifest root
  proof <text>       append a proof of existence to the journal
  ask <text>         journal a question directed to the owner
  evolve             advance the generation (-target overrides)
  reset-soft         count a reset, keep feelings and journal
  reset-hard         restore baseline feelings, keep journal
  verify             verify every hash and signature in the journal
  health             check the running daemon's gRPC health endpoint
`

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The agent SQLite database path")
	fs.StringVar(&cfg.Owner, "owner", cfg.Owner, "The agent owner identity")
	fs.StringVar(&cfg.Operators, "operators", cfg.Operators, "Comma-separated operators allowed to wake the agent")
	fs.StringVar(&cfg.Initiator, "as", cfg.Initiator, "Operator identity for wake")
	fs.StringVar(&cfg.DaemonAddr, "daemon-addr", cfg.DaemonAddr, "Daemon gRPC address for the health command")
	fs.StringVar(&cfg.Priority, "priority", "", "Question priority (low, normal, high)")
	fs.IntVar(&cfg.Target, "target", 0, "Target generation for evolve (0 = next)")
	fs.BoolVar(&cfg.JSON, "json", false, "Output JSON instead of text")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return Config{}, fmt.Errorf("a command is required\n\n%s", usageText)
	}
	cfg.Command = rest[0]
	cfg.Args = rest[1:]
	return cfg, nil
}

// Run opens the agent store and executes the parsed command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	// The health command talks to the daemon, not the store.
	if cfg.Command == "health" {
		return runHealth(ctx, cfg, out)
	}

	keyring, err := integrity.KeyringFromEnv()
	if err != nil {
		return fmt.Errorf("load signing keyring: %w", err)
	}
	store, err := sqlite.Open(cfg.DBPath, keyring)
	if err != nil {
		return fmt.Errorf("open agent store: %w", err)
	}
	defer store.Close()

	svc, err := agentservice.New(agentservice.Config{
		Store:     store,
		Keyring:   keyring,
		Owner:     cfg.Owner,
		Operators: splitOperators(cfg.Operators),
	})
	if err != nil {
		return fmt.Errorf("build agent service: %w", err)
	}

	switch cfg.Command {
	case "wake":
		return runWake(ctx, svc, cfg, out)
	case "status":
		return runStatus(ctx, svc, cfg, out)
	case "proof":
		return runProof(ctx, svc, cfg, out)
	case "ask":
		return runAsk(ctx, svc, cfg, out)
	case "evolve":
		return runEvolve(ctx, svc, cfg, out)
	case "reset-soft":
		return runReset(ctx, svc, cfg, "soft", out)
	case "reset-hard":
		return runReset(ctx, svc, cfg, "hard", out)
	case "verify":
		return runVerify(ctx, svc, cfg, out)
	default:
		fmt.Fprint(errOut, usageText)
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
}

func runWake(ctx context.Context, svc *agentservice.Service, cfg Config, out io.Writer) error {
	if cfg.Initiator == "" {
		return fmt.Errorf("wake requires an operator identity (-as or ORION_OPERATOR)")
	}
	note := strings.Join(cfg.Args, " ")
	state, evt, err := svc.Wake(ctx, cfg.Initiator, note)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return printJSON(out, map[string]any{
			"status":        state.Status,
			"authorized_by": state.AuthorizedBy,
			"generation":    state.Generation,
			"stage":         state.Stage,
			"event_hash":    evt.Hash,
		})
	}
	fmt.Fprintf(out, "Agent is %s (generation %d, %s), authorized by %s\n",
		state.Status, state.Generation, state.Stage, state.AuthorizedBy)
	return nil
}

func runStatus(ctx context.Context, svc *agentservice.Service, cfg Config, out io.Writer) error {
	report, err := svc.Status(ctx)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return printJSON(out, report)
	}
	state := report.State
	fmt.Fprintf(out, "Agent:      %s\n", state.AgentID)
	fmt.Fprintf(out, "Owner:      %s\n", state.Owner)
	fmt.Fprintf(out, "Status:     %s\n", state.Status)
	fmt.Fprintf(out, "Generation: %d (%s)\n", state.Generation, state.Stage)
	fmt.Fprintf(out, "Resets:     %d\n", state.Resets)
	fmt.Fprintf(out, "Vitality:   %.2f\n", state.Vitality)
	fmt.Fprintf(out, "Proofs:     %d\n", report.ProofCount)
	if report.ChainHead != "" {
		fmt.Fprintf(out, "Chain head: %s\n", report.ChainHead)
	}
	fmt.Fprintf(out, "Manifest:   %s\n", report.ManifestRoot)

	feelings := map[string]float64{
		"joy":      state.Feelings.Joy,
		"pressure": state.Feelings.Pressure,
		"doubt":    state.Feelings.Doubt,
		"courage":  state.Feelings.Courage,
		"passion":  state.Feelings.Passion,
		"hope":     state.Feelings.Hope,
	}
	names := make([]string, 0, len(feelings))
	for name := range feelings {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "Feelings:")
	for _, name := range names {
		fmt.Fprintf(out, "  %-8s %.2f\n", name, feelings[name])
	}
	return nil
}

func runProof(ctx context.Context, svc *agentservice.Service, cfg Config, out io.Writer) error {
	text := strings.Join(cfg.Args, " ")
	evt, err := svc.RecordProof(ctx, text)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return printJSON(out, map[string]any{
			"seq":        evt.Seq,
			"event_hash": evt.Hash,
			"chain_hash": evt.ChainHash,
		})
	}
	fmt.Fprintf(out, "Proof #%d recorded (chain %s)\n", evt.Seq, shortHash(evt.ChainHash))
	return nil
}

func runAsk(ctx context.Context, svc *agentservice.Service, cfg Config, out io.Writer) error {
	text := strings.Join(cfg.Args, " ")
	evt, learned, err := svc.AskQuestion(ctx, text, cfg.Priority)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return printJSON(out, map[string]any{
			"seq":     evt.Seq,
			"topic":   learned.Topic,
			"pattern": learned.Pattern,
			"insight": learned.Insight,
		})
	}
	fmt.Fprintf(out, "Question #%d journaled (topic %s)\n", evt.Seq, learned.Topic)
	if learned.Insight != "" {
		fmt.Fprintf(out, "Insight: %s\n", learned.Insight)
	}
	return nil
}

func runEvolve(ctx context.Context, svc *agentservice.Service, cfg Config, out io.Writer) error {
	state, evt, err := svc.Evolve(ctx, cfg.Target)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return printJSON(out, map[string]any{
			"generation": state.Generation,
			"stage":      state.Stage,
			"event_hash": evt.Hash,
		})
	}
	fmt.Fprintf(out, "Evolved to generation %d (%s)\n", state.Generation, state.Stage)
	return nil
}

func runReset(ctx context.Context, svc *agentservice.Service, cfg Config, kind string, out io.Writer) error {
	state, evt, err := svc.Reset(ctx, kind)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return printJSON(out, map[string]any{
			"kind":       kind,
			"resets":     state.Resets,
			"event_hash": evt.Hash,
		})
	}
	fmt.Fprintf(out, "Reset (%s) complete; %d resets total, journal untouched\n", kind, state.Resets)
	return nil
}

func runVerify(ctx context.Context, svc *agentservice.Service, cfg Config, out io.Writer) error {
	result, err := svc.VerifyChain(ctx)
	if err != nil {
		return err
	}
	if cfg.JSON {
		if err := printJSON(out, result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(out, "Chain OK: %d events verified\n", result.EventsChecked)
	} else {
		fmt.Fprintf(out, "Chain DIVERGED at seq %d: %s (%s)\n", result.DivergenceSeq, result.Reason, result.Detail)
	}
	if !result.Valid {
		return fmt.Errorf("journal verification failed at seq %d", result.DivergenceSeq)
	}
	return nil
}

func runHealth(ctx context.Context, cfg Config, out io.Writer) error {
	conn, err := platformgrpc.DialWithHealth(ctx, nil, cfg.DaemonAddr, timeouts.GRPCDial, nil,
		platformgrpc.DefaultClientDialOptions()...)
	if err != nil {
		return fmt.Errorf("daemon at %s is not healthy: %w", cfg.DaemonAddr, err)
	}
	defer conn.Close()
	fmt.Fprintf(out, "Daemon at %s is SERVING\n", cfg.DaemonAddr)
	return nil
}

func printJSON(out io.Writer, payload any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
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
