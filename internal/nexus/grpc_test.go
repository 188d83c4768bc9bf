package nexus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DrC0ns0le/net-ping/internal/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func healthStatus(t *testing.T, s *GRPCServer, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.Status
}

func TestCheckAll(t *testing.T) {
	s := &GRPCServer{
		health: health.NewServer(),
		logger: discardLogger(),
		checks: map[string]capabilityCheck{
			pingService:    func(ctx context.Context) error { return nil },
			trafficService: func(ctx context.Context) error { return errors.New("netlink: permission denied") },
		},
	}

	s.checkAll()

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, healthStatus(t, s, pingService))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, healthStatus(t, s, trafficService))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, healthStatus(t, s, ""))
}

func TestWatchStops(t *testing.T) {
	s := &GRPCServer{
		health:   health.NewServer(),
		logger:   discardLogger(),
		interval: time.Hour,
		stopCh:   make(chan struct{}),
		checks: map[string]capabilityCheck{
			pingService: func(ctx context.Context) error { return nil },
		},
	}

	done := make(chan struct{})
	go func() {
		s.watch()
		close(done)
	}()
	close(s.stopCh)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not return after stop")
	}
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, healthStatus(t, s, ""))
}

func TestGRPCStopTwice(t *testing.T) {
	s := NewGRPCServer(&system.Node{Logger: discardLogger()})

	assert.NotPanics(t, func() {
		assert.NoError(t, s.Stop())
		assert.NoError(t, s.Stop())
	})
}
