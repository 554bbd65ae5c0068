// Package probe implements the timeout-bounded host checks used by the
// discovery sweep: ICMP liveness, neighbor-table lookups, and reverse DNS.
// Every probe fails closed; a transport or parsing failure is reported as
// "host not reachable", never as an error.
package probe

import (
	"context"
	"runtime"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"
)

// DefaultPingTimeout is the per-host liveness wait budget.
const DefaultPingTimeout = 700 * time.Millisecond

// Pinger checks host liveness with a single ICMP echo.
type Pinger struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewPinger creates a liveness prober. A non-positive timeout falls back to
// DefaultPingTimeout.
func NewPinger(timeout time.Duration, logger *zap.Logger) *Pinger {
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}
	return &Pinger{timeout: timeout, logger: logger}
}

// IsAlive sends one echo request and reports whether a reply arrived within
// the wait budget.
func (p *Pinger) IsAlive(ctx context.Context, ip string) bool {
	pinger, err := probing.NewPinger(ip)
	if err != nil {
		p.logger.Debug("failed to create pinger", zap.String("ip", ip), zap.Error(err))
		return false
	}

	pinger.Count = 1
	pinger.Timeout = p.timeout
	// Raw ICMP sockets are mandatory on Windows; elsewhere UDP ping works
	// unprivileged.
	pinger.SetPrivileged(runtime.GOOS == "windows")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if runErr := pinger.Run(); runErr != nil {
			p.logger.Debug("ping failed", zap.String("ip", ip), zap.Error(runErr))
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pinger.Stop()
		return false
	}

	return pinger.Statistics().PacketsRecv > 0
}
