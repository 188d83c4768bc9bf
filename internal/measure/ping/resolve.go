package ping

import (
	"context"
	"errors"
	"net"

	"github.com/DrC0ns0le/net-ping/internal/measure"
)

// Resolver looks up the addresses of a host. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

var errNoAddress = errors.New("no address found")

// resolve returns target unchanged when it is already a literal address,
// otherwise the first address the resolver returns.
func resolve(ctx context.Context, r Resolver, target string) (string, error) {
	if ip := net.ParseIP(target); ip != nil {
		return ip.String(), nil
	}

	addrs, err := r.LookupHost(ctx, target)
	if err != nil {
		return "", measure.NewError(measure.HostUnknown, err)
	}
	if len(addrs) == 0 {
		return "", measure.NewError(measure.HostUnknown, errNoAddress)
	}

	return addrs[0], nil
}
