// Package netif selects the active IPv4 interface and derives the set of
// candidate host addresses to probe.
package netif

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"runtime"
	"strconv"
	"strings"

	"github.com/nobrega8/netscan2/pkg/models"
)

// ErrNoActiveInterface is returned when no up, running, non-loopback IPv4
// interface exists. It is a terminal sweep status, not a process failure.
var ErrNoActiveInterface = errors.New("no active IPv4 interface found")

// Prefix lengths outside this band are enumerated as /24. Probing anything
// wider than /24 host-by-host is out of scope; see EnumerateHosts.
const (
	minPrefixLen     = 24
	maxPrefixLen     = 30
	defaultPrefixLen = 24
)

// preferredWirelessNames lists the platform's conventional primary wireless
// interface names, checked before falling back to enumeration order.
func preferredWirelessNames() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"en0"}
	case "windows":
		return []string{"Wi-Fi", "WiFi"}
	default:
		return []string{"wlan0", "wlp2s0", "wlo1"}
	}
}

// Select returns the active, non-loopback IPv4 interface. The platform's
// conventional wireless interface wins when it qualifies; otherwise the
// first qualifying interface in enumeration order is used.
func Select() (*models.InterfaceInfo, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("enumerate interfaces: %w", err)
	}
	return selectFrom(ifaces, interfaceAddrs, preferredWirelessNames())
}

// interfaceAddrs adapts net.Interface.Addrs for injection in tests.
func interfaceAddrs(ifi *net.Interface) ([]net.Addr, error) {
	return ifi.Addrs()
}

func selectFrom(ifaces []net.Interface, addrsOf func(*net.Interface) ([]net.Addr, error), preferred []string) (*models.InterfaceInfo, error) {
	var first *models.InterfaceInfo

	for i := range ifaces {
		ifi := &ifaces[i]
		if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagRunning == 0 || ifi.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := addrsOf(ifi)
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipNet.IP.To4()
			if ip4 == nil {
				continue
			}
			info := &models.InterfaceInfo{Name: ifi.Name, Address: ip4, Netmask: ipNet.Mask}
			for _, name := range preferred {
				if ifi.Name == name {
					return info, nil
				}
			}
			if first == nil {
				first = info
			}
			break
		}
	}

	if first == nil {
		return nil, ErrNoActiveInterface
	}
	return first, nil
}

// EnumerateHosts returns every host address strictly between the network and
// broadcast addresses of the subnet, in ascending numeric order. The
// effective prefix length is clamped to [24,30]; anything outside that band
// is enumerated as /24. A /16 is therefore probed as if it were /24 -- a
// deliberate scope limit, not an error.
func EnumerateHosts(address net.IP, netmask net.IPMask) []string {
	ip4 := address.To4()
	if ip4 == nil {
		return nil
	}

	prefixLen, bits := netmask.Size()
	if bits != 32 || prefixLen < minPrefixLen || prefixLen > maxPrefixLen {
		prefixLen = defaultPrefixLen
	}
	mask := net.CIDRMask(prefixLen, 32)

	network := binary.BigEndian.Uint32(ip4.Mask(mask))
	hostBits := 32 - prefixLen
	broadcast := network | (1<<hostBits - 1)

	hosts := make([]string, 0, 1<<hostBits-2)
	for n := network + 1; n < broadcast; n++ {
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], n)
		hosts = append(hosts, net.IP(buf[:]).String())
	}
	return hosts
}

// IPLess orders dotted-quad addresses numerically, component by component.
// Missing or non-numeric components compare as 0, so the order is total
// even for malformed input.
func IPLess(a, b string) bool {
	ac := strings.Split(a, ".")
	bc := strings.Split(b, ".")
	for i := 0; i < 4; i++ {
		av := component(ac, i)
		bv := component(bc, i)
		if av != bv {
			return av < bv
		}
	}
	return false
}

func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(parts[i])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
