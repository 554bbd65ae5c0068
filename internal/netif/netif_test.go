package netif

import (
	"net"
	"sort"
	"testing"
)

func TestEnumerateHosts_Slash24(t *testing.T) {
	hosts := EnumerateHosts(net.ParseIP("192.168.1.5"), net.CIDRMask(24, 32))

	if len(hosts) != 254 {
		t.Fatalf("expected 254 hosts, got %d", len(hosts))
	}
	if hosts[0] != "192.168.1.1" {
		t.Errorf("first host = %q, want 192.168.1.1", hosts[0])
	}
	if hosts[len(hosts)-1] != "192.168.1.254" {
		t.Errorf("last host = %q, want 192.168.1.254", hosts[len(hosts)-1])
	}

	for _, h := range hosts {
		if h == "192.168.1.0" || h == "192.168.1.255" {
			t.Errorf("network/broadcast address %q must be excluded", h)
		}
	}

	if !sort.SliceIsSorted(hosts, func(i, j int) bool { return IPLess(hosts[i], hosts[j]) }) {
		t.Error("hosts are not in ascending numeric order")
	}
}

func TestEnumerateHosts_HostCount(t *testing.T) {
	tests := []struct {
		name      string
		prefixLen int
		want      int
	}{
		{"slash24", 24, 254},
		{"slash25", 25, 126},
		{"slash26", 26, 62},
		{"slash28", 28, 14},
		{"slash30", 30, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hosts := EnumerateHosts(net.ParseIP("10.0.0.1"), net.CIDRMask(tt.prefixLen, 32))
			if len(hosts) != tt.want {
				t.Errorf("prefix /%d: got %d hosts, want %d", tt.prefixLen, len(hosts), tt.want)
			}
		})
	}
}

func TestEnumerateHosts_ClampsToSlash24(t *testing.T) {
	// Prefixes outside [24,30] fall back to /24 enumeration.
	tests := []struct {
		name      string
		prefixLen int
	}{
		{"slash16", 16},
		{"slash8", 8},
		{"slash23", 23},
		{"slash31", 31},
		{"slash32", 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hosts := EnumerateHosts(net.ParseIP("172.16.42.9"), net.CIDRMask(tt.prefixLen, 32))
			if len(hosts) != 254 {
				t.Fatalf("prefix /%d: got %d hosts, want 254 (clamped /24)", tt.prefixLen, len(hosts))
			}
			if hosts[0] != "172.16.42.1" {
				t.Errorf("first host = %q, want 172.16.42.1", hosts[0])
			}
		})
	}
}

func TestEnumerateHosts_NonIPv4(t *testing.T) {
	if hosts := EnumerateHosts(net.ParseIP("fe80::1"), net.CIDRMask(64, 128)); hosts != nil {
		t.Errorf("expected nil for IPv6 address, got %d hosts", len(hosts))
	}
}

func TestIPLess(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"numeric not lexicographic", "192.168.1.9", "192.168.1.10", true},
		{"reverse", "192.168.1.10", "192.168.1.9", false},
		{"equal", "192.168.1.1", "192.168.1.1", false},
		{"first_octet", "9.0.0.0", "10.0.0.0", true},
		{"missing components as zero", "192.168.1", "192.168.1.1", true},
		{"garbage as zero", "192.168.x.5", "192.168.0.6", true},
		{"empty vs anything", "", "0.0.0.1", true},
		{"both malformed", "abc", "def", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IPLess(tt.a, tt.b); got != tt.want {
				t.Errorf("IPLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSelectFrom(t *testing.T) {
	addr := func(ip string, prefix int) net.Addr {
		return &net.IPNet{IP: net.ParseIP(ip), Mask: net.CIDRMask(prefix, 32)}
	}

	up := net.FlagUp | net.FlagRunning
	ifaces := []net.Interface{
		{Index: 1, Name: "lo", Flags: up | net.FlagLoopback},
		{Index: 2, Name: "eth0", Flags: up},
		{Index: 3, Name: "wlan0", Flags: up},
		{Index: 4, Name: "eth1", Flags: net.FlagUp}, // not running
	}
	addrs := map[string][]net.Addr{
		"lo":    {addr("127.0.0.1", 8)},
		"eth0":  {addr("10.0.0.7", 24)},
		"wlan0": {addr("192.168.1.5", 24)},
		"eth1":  {addr("10.9.9.9", 24)},
	}
	lookup := func(ifi *net.Interface) ([]net.Addr, error) { return addrs[ifi.Name], nil }

	info, err := selectFrom(ifaces, lookup, []string{"wlan0"})
	if err != nil {
		t.Fatalf("selectFrom: %v", err)
	}
	// wlan0 is preferred over eth0 even though eth0 enumerates first.
	if info.Name != "wlan0" {
		t.Errorf("selected %q, want wlan0", info.Name)
	}
	if info.Address.String() != "192.168.1.5" {
		t.Errorf("address = %s, want 192.168.1.5", info.Address)
	}
}

func TestSelectFrom_FirstMatchWithoutWireless(t *testing.T) {
	up := net.FlagUp | net.FlagRunning
	ifaces := []net.Interface{
		{Index: 1, Name: "eth0", Flags: up},
		{Index: 2, Name: "eth1", Flags: up},
	}
	lookup := func(ifi *net.Interface) ([]net.Addr, error) {
		return []net.Addr{&net.IPNet{IP: net.ParseIP("10.0.0." + ifi.Name[3:]), Mask: net.CIDRMask(24, 32)}}, nil
	}

	info, err := selectFrom(ifaces, lookup, []string{"wlan0"})
	if err != nil {
		t.Fatalf("selectFrom: %v", err)
	}
	if info.Name != "eth0" {
		t.Errorf("selected %q, want eth0 (enumeration order)", info.Name)
	}
}

func TestSelectFrom_NoActiveInterface(t *testing.T) {
	ifaces := []net.Interface{
		{Index: 1, Name: "lo", Flags: net.FlagUp | net.FlagRunning | net.FlagLoopback},
	}
	lookup := func(*net.Interface) ([]net.Addr, error) {
		return []net.Addr{&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)}}, nil
	}

	if _, err := selectFrom(ifaces, lookup, nil); err != ErrNoActiveInterface {
		t.Errorf("err = %v, want ErrNoActiveInterface", err)
	}
}
