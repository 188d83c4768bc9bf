package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/DrC0ns0le/net-ping/internal/measure/ping"
	"github.com/DrC0ns0le/net-ping/internal/measure/pool"
	"github.com/DrC0ns0le/net-ping/internal/measure/traffic"
	"github.com/DrC0ns0le/net-ping/internal/nexus"
	"github.com/DrC0ns0le/net-ping/internal/system"
	"github.com/DrC0ns0le/net-ping/pkg/logging"
)

func main() {

	flag.Parse()

	node := &system.Node{
		StopCh: make(chan struct{}),
		Pool:   pool.Shared(),
		Logger: logging.NewDefaultLogger(),
	}

	node.Logger.Infof("starting net-ping daemon")

	counters, err := traffic.NewCounters()
	if err != nil {
		node.Logger.Fatalf("failed to set up traffic counters: %v", err)
	}

	node.Pinger = ping.NewEngine(ping.NewICMPEchoer(),
		ping.WithScheduler(node.Pool),
		ping.WithLogger(node.Logger.With("component", "ping")),
	)
	node.Traffic = traffic.NewSampler(counters, traffic.DefaultInterval)

	served := make(chan error, 1)
	go func() {
		served <- nexus.New(node).Serve()
	}()

	// wait for termination signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sig:
		close(node.StopCh)
		if err := <-served; err != nil {
			node.Logger.Errorf("%v", err)
		}
	case err := <-served:
		node.Logger.Fatalf("%v", err)
	}

	node.Logger.Info("net-ping daemon stopped")
}
