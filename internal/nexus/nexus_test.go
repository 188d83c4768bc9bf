package nexus

import (
	"context"
	"io"
	"log/slog"

	"github.com/DrC0ns0le/net-ping/internal/measure"
	"github.com/DrC0ns0le/net-ping/internal/measure/ping"
	"github.com/DrC0ns0le/net-ping/internal/measure/traffic"
	"github.com/DrC0ns0le/net-ping/pkg/logging"
)

type fakePinger struct {
	addrs map[string]string
	rtt   int64
	err   error

	lastTarget string
	lastOpts   ping.Options
}

func (f *fakePinger) Resolve(ctx context.Context, target string) (string, error) {
	if target == "" {
		return "", measure.ErrHostNotSet
	}
	if addr, ok := f.addrs[target]; ok {
		return addr, nil
	}
	return "", measure.NewError(measure.HostUnknown, nil)
}

func (f *fakePinger) Ping(ctx context.Context, target string, opts ping.Options) (int64, error) {
	f.lastTarget = target
	f.lastOpts = opts
	if target == "" {
		return 0, measure.ErrHostNotSet
	}
	return f.rtt, f.err
}

type fakeSampler struct {
	report traffic.Report
	err    error
}

func (f *fakeSampler) Sample(ctx context.Context) (traffic.Report, error) {
	return f.report, f.err
}

func discardLogger() logging.Logger {
	return logging.NewLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var testReport = traffic.Compare(
	traffic.Snapshot{Received: 1536, Sent: 100},
	traffic.Snapshot{Received: 1536 + 2048, Sent: 200},
	traffic.DefaultInterval,
)
