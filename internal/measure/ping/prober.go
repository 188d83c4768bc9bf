package ping

import (
	"context"
	"fmt"
	"time"

	"github.com/DrC0ns0le/net-ping/internal/measure"
)

// Echoer sends one echo request to addr and reports its round trip time.
type Echoer interface {
	Echo(ctx context.Context, addr string, timeout time.Duration) (time.Duration, error)
}

// Prober averages sequential echo round trips.
type Prober struct {
	echoer Echoer
}

func NewProber(echoer Echoer) *Prober {
	return &Prober{echoer: echoer}
}

// AverageRTT performs count echoes against addr, one after another, and
// returns the mean RTT in whole milliseconds. The first failed echo aborts
// the probe with an UnknownError.
func (p *Prober) AverageRTT(ctx context.Context, addr string, count int, timeout time.Duration) (int64, error) {
	if count < 1 {
		count = 1
	}

	var total time.Duration
	for i := 0; i < count; i++ {
		rtt, err := p.echoer.Echo(ctx, addr, timeout)
		if err != nil {
			return 0, measure.NewError(measure.UnknownError, fmt.Errorf("echo %d/%d to %s: %w", i+1, count, addr, err))
		}
		if rtt < 0 {
			rtt = 0
		}
		total += rtt
	}

	return (total / time.Duration(count)).Milliseconds(), nil
}
