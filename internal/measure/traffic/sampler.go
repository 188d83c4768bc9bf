package traffic

import (
	"context"
	"time"

	"github.com/DrC0ns0le/net-ping/internal/measure"
)

// DefaultInterval is the gap between the two snapshots of a sample.
const DefaultInterval = 1000 * time.Millisecond

// Snapshot holds cumulative byte counters at one instant.
type Snapshot struct {
	Received   uint64
	Sent       uint64
	CapturedAt time.Time
}

// Report combines two snapshots. Totals come from the first snapshot,
// rates from the difference over the interval.
type Report struct {
	ReceivedTotal string `json:"receivedNetworkTotal"`
	SentTotal     string `json:"sendNetworkTotal"`
	ReceivedRate  string `json:"receivedNetworkSpeed"`
	SentRate      string `json:"sendNetworkSpeed"`

	ReceivedBytes          uint64 `json:"receivedBytes"`
	SentBytes              uint64 `json:"sentBytes"`
	ReceivedBytesPerSecond uint64 `json:"receivedBytesPerSecond"`
	SentBytesPerSecond     uint64 `json:"sentBytesPerSecond"`
}

type Sampler struct {
	counters Counters
	interval time.Duration

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) error
}

func NewSampler(counters Counters, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{
		counters: counters,
		interval: interval,
		now:      time.Now,
		wait:     sleep,
	}
}

func (s *Sampler) Interval() time.Duration {
	return s.interval
}

// Snapshot reads the counters once.
func (s *Sampler) Snapshot() (Snapshot, error) {
	rx, tx, err := s.counters.ReadCounters()
	if err != nil {
		return Snapshot{}, measure.NewError(measure.CounterUnavailable, err)
	}
	return Snapshot{Received: rx, Sent: tx, CapturedAt: s.now()}, nil
}

// Sample takes a snapshot, waits one interval and takes another. Only ctx
// cancellation interrupts the wait.
func (s *Sampler) Sample(ctx context.Context) (Report, error) {
	t0, err := s.Snapshot()
	if err != nil {
		return Report{}, err
	}

	if err := s.wait(ctx, s.interval); err != nil {
		return Report{}, err
	}

	t1, err := s.Snapshot()
	if err != nil {
		return Report{}, err
	}

	report := Compare(t0, t1, s.interval)
	measure.ObserveTraffic(report.ReceivedBytes, report.SentBytes,
		float64(report.ReceivedBytesPerSecond), float64(report.SentBytesPerSecond))

	return report, nil
}

// Compare builds a Report from two snapshots taken interval apart.
func Compare(t0, t1 Snapshot, interval time.Duration) Report {
	rxRate := rate(t0.Received, t1.Received, interval)
	txRate := rate(t0.Sent, t1.Sent, interval)

	return Report{
		ReceivedTotal: FormatBytes(t0.Received),
		SentTotal:     FormatBytes(t0.Sent),
		ReceivedRate:  FormatRate(rxRate),
		SentRate:      FormatRate(txRate),

		ReceivedBytes:          t0.Received,
		SentBytes:              t0.Sent,
		ReceivedBytesPerSecond: rxRate,
		SentBytesPerSecond:     txRate,
	}
}

// rate is zero when the counter went backwards, e.g. after an interface
// was removed between snapshots.
func rate(before, after uint64, interval time.Duration) uint64 {
	if after < before || interval <= 0 {
		return 0
	}
	return uint64(float64(after-before) / interval.Seconds())
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
