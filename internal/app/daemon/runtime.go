// Package daemon runs the agent runtime: SQLite journal, subsystem
// services, the heartbeat loop, and a gRPC health endpoint.
package daemon

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/orion/internal/agent/integrity"
	"github.com/louisbranch/orion/internal/agent/service"
	"github.com/louisbranch/orion/internal/agent/storage/sqlite"
	"github.com/louisbranch/orion/internal/heartbeat"
	"github.com/louisbranch/orion/internal/platform/timeouts"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// RuntimeConfig controls daemon startup and heartbeat behavior.
type RuntimeConfig struct {
	Port              int
	DBPath            string
	Owner             string
	Operators         []string
	HeartbeatInterval time.Duration
}

const (
	defaultDaemonPort    = 8090
	defaultDaemonDB      = "data/orion.db"
	defaultPulseInterval = time.Minute
	healthServiceName    = "orion.daemon"
)

// Run starts daemon dependencies and blocks on the heartbeat loop.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.Owner) == "" {
		return fmt.Errorf("owner is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultDaemonPort
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultDaemonDB
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaultPulseInterval
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create daemon storage dir: %w", err)
		}
	}

	keyring, err := integrity.KeyringFromEnv()
	if err != nil {
		return fmt.Errorf("load event keyring: %w", err)
	}

	store, err := sqlite.Open(cfg.DBPath, keyring)
	if err != nil {
		return fmt.Errorf("open agent sqlite store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close agent sqlite store: %v", closeErr)
		}
	}()

	svc, err := service.New(service.Config{
		Store:     store,
		Keyring:   keyring,
		Owner:     cfg.Owner,
		Operators: cfg.Operators,
	})
	if err != nil {
		return fmt.Errorf("build agent service: %w", err)
	}
	if _, err := svc.Init(ctx); err != nil {
		return fmt.Errorf("initialize agent state: %w", err)
	}

	heart := heartbeat.New(store, svc.AgentID())
	svc.AttachHeart(heart)
	for _, task := range svc.HeartbeatTasks() {
		heart.Register(task)
	}
	resumeCtx, cancel := context.WithTimeout(ctx, timeouts.Shutdown)
	err = heart.Resume(resumeCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("resume heartbeat: %w", err)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on daemon port %d: %w", cfg.Port, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(healthServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	log.Printf("daemon listening at %v", listener.Addr())
	return heart.Run(ctx, cfg.HeartbeatInterval)
}
