package nexus

import (
	"context"
	"flag"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/DrC0ns0le/net-ping/internal/measure/ping"
	"github.com/DrC0ns0le/net-ping/internal/system"
	"github.com/DrC0ns0le/net-ping/pkg/logging"
)

var (
	grpcPort       = flag.Int("grpc.port", 5122, "port for grpc health server")
	healthInterval = flag.Duration("grpc.health.interval", 30*time.Second, "how often capabilities are re-checked")
	healthTarget   = flag.String("grpc.health.target", "127.0.0.1", "address pinged to check ICMP capability")
)

const (
	pingService    = "ping"
	trafficService = "traffic"
)

// capabilityCheck returns nil when the named capability works on this host.
type capabilityCheck func(ctx context.Context) error

// GRPCServer exposes grpc.health.v1 with one service per capability, so
// orchestrators can tell whether ICMP and traffic counters are usable.
type GRPCServer struct {
	port     int
	server   *grpc.Server
	health   *health.Server
	checks   map[string]capabilityCheck
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   logging.Logger
}

func NewGRPCServer(global *system.Node) *GRPCServer {
	s := &GRPCServer{
		port:     *grpcPort,
		server:   grpc.NewServer(),
		health:   health.NewServer(),
		interval: *healthInterval,
		stopCh:   make(chan struct{}),
		logger:   global.Logger.With("component", "grpc"),
		checks: map[string]capabilityCheck{
			pingService: func(ctx context.Context) error {
				_, err := global.Pinger.Ping(ctx, *healthTarget, ping.Options{Timeout: time.Second})
				return err
			},
			trafficService: func(ctx context.Context) error {
				_, err := global.Traffic.Snapshot()
				return err
			},
		},
	}
	s.register()
	return s
}

func (s *GRPCServer) Start() error {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(s.port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	go s.watch()

	s.logger.Infof("gRPC server listening at %v", listener.Addr())
	if err := s.server.Serve(listener); err != nil {
		return fmt.Errorf("failed to serve gRPC server: %w", err)
	}

	return nil
}

func (s *GRPCServer) Stop() error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.health.Shutdown()
		s.server.Stop()
	})
	return nil
}

func (s *GRPCServer) register() {
	healthpb.RegisterHealthServer(s.server, s.health)
}

func (s *GRPCServer) watch() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.checkAll()
	for {
		select {
		case <-ticker.C:
			s.checkAll()
		case <-s.stopCh:
			return
		}
	}
}

// checkAll runs every capability check and publishes the result. The
// overall ("") status is SERVING only when all checks pass.
func (s *GRPCServer) checkAll() {
	overall := healthpb.HealthCheckResponse_SERVING
	for name, check := range s.checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check(ctx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			s.logger.Errorf("%s capability check failed: %v", name, err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
		}
		s.health.SetServingStatus(name, status)
	}
	s.health.SetServingStatus("", overall)
}
