package ping

import (
	"context"
	"flag"
	"time"

	"github.com/pkg/errors"
	probing "github.com/prometheus-community/pro-bing"
)

var (
	pingPrivileged = flag.Bool("ping.privileged", false, "send ICMP echo over raw sockets instead of unprivileged datagram sockets")
	pingSize       = flag.Int("ping.size", 24, "ICMP echo payload size in bytes")
)

// ErrNoReply is returned when an echo request got no answer in time.
var ErrNoReply = errors.New("no echo reply received")

// ICMPEchoer sends ICMP echo requests through the host network stack.
type ICMPEchoer struct {
	Privileged bool
	Size       int
}

func NewICMPEchoer() *ICMPEchoer {
	return &ICMPEchoer{
		Privileged: *pingPrivileged,
		Size:       *pingSize,
	}
}

func (e *ICMPEchoer) Echo(ctx context.Context, addr string, timeout time.Duration) (time.Duration, error) {
	pinger, err := probing.NewPinger(addr)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create pinger")
	}
	pinger.SetPrivileged(e.Privileged)
	pinger.Count = 1
	pinger.Timeout = timeout
	if e.Size > 0 {
		pinger.Size = e.Size
	}

	err = pinger.RunWithContext(ctx) // Blocks until finished.
	if err != nil {
		return 0, errors.Wrapf(err, "failed to ping %s", addr)
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return 0, ErrNoReply
	}

	return stats.AvgRtt, nil
}
