package nexus

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DrC0ns0le/net-ping/internal/measure/pool"
	"github.com/DrC0ns0le/net-ping/internal/system"
	"github.com/DrC0ns0le/net-ping/pkg/logging"
)

var drainTimeout = flag.Duration("shutdown.drain", 10*time.Second, "how long shutdown waits for in-flight measurements")

type Server interface {
	Start() error
	Stop() error
}

type namedServer struct {
	name string
	Server
}

// Nexus runs the daemon's external surfaces over one shared measurement
// pool.
type Nexus struct {
	servers []namedServer
	pool    *pool.Pool
	drain   time.Duration
	stopCh  chan struct{}
	logger  logging.Logger
}

func New(global *system.Node) *Nexus {
	return &Nexus{
		servers: []namedServer{
			{"http", NewHTTPServer(global)},
			{"socket", NewSocketServer(global)},
			{"grpc", NewGRPCServer(global)},
		},
		pool:   global.Pool,
		drain:  *drainTimeout,
		stopCh: global.StopCh,
		logger: global.Logger.With("component", "nexus"),
	}
}

type startResult struct {
	name string
	err  error
}

// Serve starts every server and blocks until the stop channel closes or
// every server has failed to start. A server that fails alone is logged and
// the rest keep serving. On stop, servers are shut down and in-flight
// measurements get up to the drain timeout to deliver.
func (n *Nexus) Serve() error {
	results := make(chan startResult, len(n.servers))
	for _, s := range n.servers {
		go func(s namedServer) {
			results <- startResult{name: s.name, err: s.Start()}
		}(s)
	}

	var startErrs []error
	for {
		select {
		case r := <-results:
			if r.err == nil {
				continue
			}
			n.logger.Errorf("%s server failed: %v", r.name, r.err)
			startErrs = append(startErrs, fmt.Errorf("%s: %w", r.name, r.err))

			if len(startErrs) == len(n.servers) {
				n.drainPool()
				return fmt.Errorf("no server could start: %w", errors.Join(startErrs...))
			}

		case <-n.stopCh:
			n.logger.Info("received stop signal, shutting down servers")
			err := n.stop()
			n.drainPool()
			return err
		}
	}
}

func (n *Nexus) stop() error {
	var g errgroup.Group
	for _, s := range n.servers {
		s := s
		g.Go(func() error {
			if err := s.Stop(); err != nil {
				return fmt.Errorf("stopping %s server: %w", s.name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// drainPool waits for queued echo tasks and guards. Guards return as soon as
// their request delivers, so this is bounded by the longest ping budget.
func (n *Nexus) drainPool() {
	if n.pool == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		n.pool.Wait()
		close(done)
	}()

	select {
	case <-done:
		n.logger.Debug("measurement pool drained")
	case <-time.After(n.drain):
		n.logger.Errorf("measurements still running after %v, exiting anyway", n.drain)
	}
}
