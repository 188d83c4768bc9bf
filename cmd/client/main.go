package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/DrC0ns0le/net-ping/internal/measure/ping"
	"github.com/DrC0ns0le/net-ping/internal/measure/traffic"
	"github.com/DrC0ns0le/net-ping/pkg/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var (
	count   = flag.Int("count", 0, "echo attempts, defaults to -ping.count")
	timeout = flag.Duration("timeout", 0, "per attempt timeout, defaults to -ping.timeout")
	daemon  = flag.String("daemon", "127.0.0.1:5122", "daemon grpc address for the health command")
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: client [flags] ping <host> | traffic | health [service]")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {

	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	logger := logging.NewDefaultLogger()
	ctx := context.Background()

	switch args[0] {
	case "ping":
		if len(args) < 2 {
			usage()
		}
		opts := ping.DefaultOptions()
		if *count > 0 {
			opts.Count = *count
		}
		if *timeout > 0 {
			opts.Timeout = *timeout
		}

		engine := ping.NewEngine(ping.NewICMPEchoer(), ping.WithLogger(logger.With("component", "ping")))
		rtt, err := engine.Ping(ctx, args[1], opts)
		if err != nil {
			logger.Errorf("ping %s: %v", args[1], err)
			os.Exit(1)
		}
		fmt.Printf("%s: %dms\n", args[1], rtt)

	case "traffic":
		counters, err := traffic.NewCounters()
		if err != nil {
			logger.Fatalf("failed to set up traffic counters: %v", err)
		}

		report, err := traffic.NewSampler(counters, traffic.DefaultInterval).Sample(ctx)
		if err != nil {
			logger.Errorf("traffic: %v", err)
			os.Exit(1)
		}
		fmt.Printf("received %s (%s)\n", report.ReceivedTotal, report.ReceivedRate)
		fmt.Printf("sent     %s (%s)\n", report.SentTotal, report.SentRate)

	case "health":
		service := ""
		if len(args) > 1 {
			service = args[1]
		}

		conn, err := grpc.NewClient(*daemon, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			logger.Fatalf("error connecting to daemon at %s: %v", *daemon, err)
		}
		defer conn.Close()

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		if err != nil {
			logger.Errorf("health check failed: %v", err)
			os.Exit(1)
		}
		fmt.Println(resp.Status.String())

	default:
		usage()
	}
}
