package traffic

import (
	"flag"
	"fmt"
	"net"

	"github.com/pkg/errors"
	"github.com/prometheus/procfs"
	"github.com/vishvananda/netlink"
)

var (
	trafficSource   = flag.String("traffic.source", "netlink", "where to read interface byte counters from (netlink or procfs)")
	trafficLoopback = flag.Bool("traffic.loopback", false, "include loopback interfaces in traffic counters")
)

// Counters reads cumulative received and sent byte counts for the host.
type Counters interface {
	ReadCounters() (rx, tx uint64, err error)
}

// NewCounters returns the counter source selected by -traffic.source.
func NewCounters() (Counters, error) {
	switch *trafficSource {
	case "netlink":
		return &NetlinkCounters{IncludeLoopback: *trafficLoopback}, nil
	case "procfs":
		return &ProcfsCounters{IncludeLoopback: *trafficLoopback}, nil
	default:
		return nil, fmt.Errorf("unknown traffic source %q", *trafficSource)
	}
}

// NetlinkCounters sums link statistics over every interface.
type NetlinkCounters struct {
	IncludeLoopback bool
}

func (c *NetlinkCounters) ReadCounters() (uint64, uint64, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to list links")
	}

	var rx, tx uint64
	for _, link := range links {
		attrs := link.Attrs()
		if attrs == nil || attrs.Statistics == nil {
			continue
		}
		if !c.IncludeLoopback && (attrs.Flags&net.FlagLoopback != 0 || isLoopback(attrs.Name)) {
			continue
		}
		rx += attrs.Statistics.RxBytes
		tx += attrs.Statistics.TxBytes
	}

	return rx, tx, nil
}

// ProcfsCounters sums /proc/net/dev.
type ProcfsCounters struct {
	IncludeLoopback bool
	// MountPoint overrides the proc mount, defaults to /proc
	MountPoint string
}

func (c *ProcfsCounters) ReadCounters() (uint64, uint64, error) {
	mount := c.MountPoint
	if mount == "" {
		mount = procfs.DefaultMountPoint
	}

	fs, err := procfs.NewFS(mount)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "failed to open procfs at %s", mount)
	}

	netDev, err := fs.NetDev()
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to read net/dev")
	}

	var rx, tx uint64
	for name, line := range netDev {
		if !c.IncludeLoopback && isLoopback(name) {
			continue
		}
		rx += line.RxBytes
		tx += line.TxBytes
	}

	return rx, tx, nil
}

func isLoopback(name string) bool {
	return name == "lo"
}
