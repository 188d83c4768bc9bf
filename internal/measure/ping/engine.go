package ping

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/DrC0ns0le/net-ping/internal/measure"
	"github.com/DrC0ns0le/net-ping/internal/measure/pool"
	"github.com/DrC0ns0le/net-ping/pkg/logging"
	"github.com/cespare/xxhash"
)

const (
	DefaultTimeout = 1000 * time.Millisecond
	DefaultCount   = 1
)

var (
	pingTimeout = flag.Duration("ping.timeout", DefaultTimeout, "per attempt echo timeout used when a request does not set one")
	pingCount   = flag.Int("ping.count", DefaultCount, "echo attempts per request used when a request does not set one")
)

// Options controls a single ping request. Zero values take the defaults.
type Options struct {
	Timeout time.Duration
	Count   int
}

// DefaultOptions returns the options configured by -ping.timeout and
// -ping.count.
func DefaultOptions() Options {
	return Options{Timeout: *pingTimeout, Count: *pingCount}.normalize()
}

func (o Options) normalize() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	} else if o.Timeout < time.Millisecond {
		o.Timeout = time.Millisecond
	}
	if o.Count < 1 {
		o.Count = DefaultCount
	}
	return o
}

// Engine runs ping requests. Each request races a prober against a timeout
// guard on the shared worker pool, and an Arbiter lets exactly one of them
// deliver.
type Engine struct {
	resolver  Resolver
	prober    *Prober
	scheduler pool.Scheduler
	logger    logging.Logger
}

type EngineOption func(*Engine)

func WithResolver(r Resolver) EngineOption {
	return func(e *Engine) {
		e.resolver = r
	}
}

func WithScheduler(s pool.Scheduler) EngineOption {
	return func(e *Engine) {
		e.scheduler = s
	}
}

func WithLogger(l logging.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

func NewEngine(echoer Echoer, opts ...EngineOption) *Engine {
	e := &Engine{
		resolver:  net.DefaultResolver,
		prober:    NewProber(echoer),
		scheduler: pool.Shared(),
		logger:    logging.NewDefaultLogger().With("component", "ping"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start validates and resolves target, then schedules the prober and the
// guard and returns without waiting. done is called exactly once with the
// outcome. An empty target or a failed lookup is returned directly and
// nothing is scheduled.
func (e *Engine) Start(ctx context.Context, target string, opts Options, done func(Outcome)) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return measure.ErrHostNotSet
	}
	opts = opts.normalize()

	addr, err := resolve(ctx, e.resolver, target)
	if err != nil {
		e.logger.Debugf("failed to resolve %s: %v", target, err)
		return err
	}

	logger := e.logger.With("request", requestID(target), "target", target, "address", addr)
	measure.PingStarted()

	arb := NewArbiter(func(o Outcome) {
		measure.PingFinished(target, o.AvgRTT, o.Err)
		if o.OK() {
			logger.Debugf("average rtt %dms over %d attempts", o.AvgRTT, opts.Count)
		} else {
			logger.Debugf("ping failed: %v", o.Err)
		}
		if done != nil {
			done(o)
		}
	})

	// the caller cannot cancel a started request; the guard stops the
	// prober's echoes once a timeout has been delivered
	probeCtx, cancelProbe := context.WithCancel(context.WithoutCancel(ctx))

	e.scheduler.Go(func() {
		defer cancelProbe()
		rtt, err := e.prober.AverageRTT(probeCtx, addr, opts.Count, opts.Timeout)
		if errors.Is(err, ErrNoReply) {
			// a lost echo is a timeout; the guard reports it at the full budget
			logger.Debugf("leaving outcome to the guard: %v", err)
			return
		}
		if err != nil {
			if !arb.TryDeliver(Outcome{Err: err}) {
				logger.Debugf("dropping late prober error: %v", err)
			}
			return
		}
		if !arb.TryDeliver(Success(rtt)) {
			logger.Debugf("dropping late rtt %dms", rtt)
		}
	})

	e.scheduler.Go(func() {
		if guard(arb, guardBudget(opts)) {
			cancelProbe()
		}
	})

	return nil
}

// Ping runs a request and waits for its outcome. Cancelling ctx stops the
// wait only; the request itself still runs to completion.
func (e *Engine) Ping(ctx context.Context, target string, opts Options) (int64, error) {
	ch := make(chan Outcome, 1)
	err := e.Start(ctx, target, opts, func(o Outcome) {
		ch <- o
	})
	if err != nil {
		return 0, err
	}

	select {
	case o := <-ch:
		return o.AvgRTT, o.Err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Resolve exposes the lookup used by Start.
func (e *Engine) Resolve(ctx context.Context, target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", measure.ErrHostNotSet
	}
	return resolve(ctx, e.resolver, target)
}

func requestID(target string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(fmt.Sprintf("%s-%d", target, time.Now().UnixNano())))
}
