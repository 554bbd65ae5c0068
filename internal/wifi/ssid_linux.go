//go:build linux

package wifi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mdlayher/wifi"
	"go.uber.org/zap"
)

type linuxNameSource struct {
	logger *zap.Logger
}

// NewNameSource returns a Linux NameSource backed by nl80211.
func NewNameSource(logger *zap.Logger) NameSource {
	return &linuxNameSource{logger: logger}
}

// CurrentSSID returns the SSID of the first associated station-mode
// interface. Permission errors degrade to "no network" rather than failing:
// SSID resolution is best-effort and its absence maps to the Unknown
// sentinel downstream.
func (s *linuxNameSource) CurrentSSID(_ context.Context) (string, error) {
	c, err := wifi.New()
	if err != nil {
		if isPermissionError(err) {
			s.logger.Debug("wifi client requires elevated privileges", zap.Error(err))
			return "", nil
		}
		return "", fmt.Errorf("open wifi client: %w", err)
	}
	defer c.Close()

	ifaces, err := c.Interfaces()
	if err != nil {
		return "", fmt.Errorf("enumerate wifi interfaces: %w", err)
	}

	for _, ifi := range ifaces {
		if ifi.Type != wifi.InterfaceTypeStation {
			continue
		}
		bss, err := c.BSS(ifi)
		if err != nil || bss == nil {
			// Not associated, or the kernel refused; try the next interface.
			continue
		}
		if bss.SSID != "" {
			return bss.SSID, nil
		}
	}
	return "", nil
}

func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "permission denied") || strings.Contains(msg, "operation not permitted")
}
