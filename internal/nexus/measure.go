package nexus

import (
	"context"
	"net/http"

	"github.com/DrC0ns0le/net-ping/internal/measure"
	"github.com/DrC0ns0le/net-ping/internal/measure/ping"
	"github.com/DrC0ns0le/net-ping/internal/measure/traffic"
)

// Pinger is the part of *ping.Engine the servers use.
type Pinger interface {
	Resolve(ctx context.Context, target string) (string, error)
	Ping(ctx context.Context, target string, opts ping.Options) (int64, error)
}

// TrafficSampler is the part of *traffic.Sampler the servers use.
type TrafficSampler interface {
	Sample(ctx context.Context) (traffic.Report, error)
}

var kindStatus = map[measure.Kind]int{
	measure.HostNotSet:         http.StatusBadRequest,
	measure.HostUnknown:        http.StatusNotFound,
	measure.Timeout:            http.StatusGatewayTimeout,
	measure.UnknownError:       http.StatusBadGateway,
	measure.CounterUnavailable: http.StatusServiceUnavailable,
}

func statusFor(kind measure.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
