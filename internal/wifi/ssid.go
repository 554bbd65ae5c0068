// Package wifi reports the name of the wireless network the host is
// currently associated with.
package wifi

import "context"

// NameSource looks up the current network name from the platform's wireless
// subsystem.
type NameSource interface {
	// CurrentSSID returns the associated network's SSID, or "" when no
	// wireless interface is active or none is associated. Errors are
	// reserved for subsystem failures; "no network" is not an error.
	CurrentSSID(ctx context.Context) (string, error)
}
