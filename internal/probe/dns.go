package probe

import (
	"context"
	"net"
	"strings"
	"time"
)

// DefaultDNSTimeout is the maximum time to wait for a reverse DNS lookup.
const DefaultDNSTimeout = 500 * time.Millisecond

// HostnameResolver performs bounded reverse DNS lookups.
type HostnameResolver struct {
	timeout  time.Duration
	resolver *net.Resolver
}

// NewHostnameResolver creates a reverse DNS prober. A non-positive timeout
// falls back to DefaultDNSTimeout.
func NewHostnameResolver(timeout time.Duration) *HostnameResolver {
	if timeout <= 0 {
		timeout = DefaultDNSTimeout
	}
	return &HostnameResolver{timeout: timeout, resolver: net.DefaultResolver}
}

// Resolve returns the PTR name for ip without the trailing dot, or "" when
// the lookup fails, times out, or yields no record.
func (r *HostnameResolver) Resolve(ctx context.Context, ip string) string {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	names, err := r.resolver.LookupAddr(ctx, ip)
	if err != nil || len(names) == 0 {
		return ""
	}
	return strings.TrimSuffix(names[0], ".")
}
