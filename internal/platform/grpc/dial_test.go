package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func TestDialWithHealthServing(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := gogrpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	go func() { _ = server.Serve(listener) }()
	defer server.Stop()

	conn, err := DialWithHealth(
		context.Background(),
		nil,
		listener.Addr().String(),
		5*time.Second,
		nil,
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial with health: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("close conn: %v", err)
	}
}

func TestDialWithHealthConnectError(t *testing.T) {
	dialErr := errors.New("boom")
	dialer := DialerFunc(func(context.Context, string, ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
		return nil, dialErr
	})

	_, err := DialWithHealth(context.Background(), dialer, "unused:0", time.Second, nil)
	if err == nil {
		t.Fatal("expected connect error")
	}
	var stageErr *DialError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected DialError, got %T", err)
	}
	if stageErr.Stage != DialStageConnect {
		t.Fatalf("stage = %q, want %q", stageErr.Stage, DialStageConnect)
	}
	if !errors.Is(err, dialErr) {
		t.Fatal("expected wrapped dial error")
	}
}

func TestWaitForHealthNilConn(t *testing.T) {
	if err := WaitForHealth(context.Background(), nil, "", nil); err == nil {
		t.Fatal("expected error for nil connection")
	}
}
