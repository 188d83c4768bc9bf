package ping

import (
	"sync/atomic"

	"github.com/DrC0ns0le/net-ping/internal/measure"
)

// Outcome is the single result of a ping request: an average RTT in
// milliseconds, or an error carrying a measure.Kind.
type Outcome struct {
	AvgRTT int64
	Err    error
}

func Success(avgRTT int64) Outcome {
	if avgRTT < 0 {
		avgRTT = 0
	}
	return Outcome{AvgRTT: avgRTT}
}

func Failure(kind measure.Kind, err error) Outcome {
	return Outcome{Err: measure.NewError(kind, err)}
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Arbiter owns the completion gate of one request. The first TryDeliver
// wins, every later call is a no-op.
type Arbiter struct {
	closed  atomic.Bool
	done    chan struct{}
	deliver func(Outcome)
}

func NewArbiter(deliver func(Outcome)) *Arbiter {
	return &Arbiter{
		done:    make(chan struct{}),
		deliver: deliver,
	}
}

// TryDeliver closes the gate and forwards o to the completion callback. It
// returns false without calling back if the gate was already closed.
func (a *Arbiter) TryDeliver(o Outcome) bool {
	if !a.closed.CompareAndSwap(false, true) {
		return false
	}
	defer close(a.done)

	if a.deliver != nil {
		a.deliver(o)
	}
	return true
}

// Done is closed once an outcome has been delivered.
func (a *Arbiter) Done() <-chan struct{} {
	return a.done
}

func (a *Arbiter) Delivered() bool {
	return a.closed.Load()
}
