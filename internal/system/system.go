package system

import (
	"github.com/DrC0ns0le/net-ping/internal/measure/ping"
	"github.com/DrC0ns0le/net-ping/internal/measure/pool"
	"github.com/DrC0ns0le/net-ping/internal/measure/traffic"
	"github.com/DrC0ns0le/net-ping/pkg/logging"
)

// Node holds the process-wide pieces shared by every server.
type Node struct {
	StopCh chan struct{}

	Pool    *pool.Pool
	Pinger  *ping.Engine
	Traffic *traffic.Sampler

	Logger logging.Logger
}
