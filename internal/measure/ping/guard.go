package ping

import (
	"time"

	"github.com/DrC0ns0le/net-ping/internal/measure"
)

// guardBudget is the time allowed for a whole request: every attempt may
// use its full timeout.
func guardBudget(opts Options) time.Duration {
	return opts.Timeout * time.Duration(opts.Count)
}

// guard delivers a Timeout once budget elapses, unless the arbiter closed
// first. It returns as soon as either happens and reports whether the
// timeout was delivered.
func guard(arb *Arbiter, budget time.Duration) bool {
	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case <-timer.C:
		return arb.TryDeliver(Failure(measure.Timeout, nil))
	case <-arb.Done():
		return false
	}
}
