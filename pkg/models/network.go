package models

import (
	"net"
	"time"
)

// UnknownSSID is the sentinel network name used when the wireless subsystem
// reports no associated network (Ethernet, rfkill, hidden SSID). At most one
// catalog record ever carries this name.
const UnknownSSID = "Unknown"

// DefaultEmoji is the display tag assigned to newly created networks.
const DefaultEmoji = "\U0001F4E1" // satellite antenna

// Network is one catalog bucket of devices, keyed by the network name the
// sweep was reconciled under. Devices are keyed by uppercase MAC address.
type Network struct {
	ID       string             `json:"id"`
	SSID     string             `json:"ssid"`
	Emoji    string             `json:"emoji"`
	Devices  map[string]*Device `json:"devices"`
	LastSeen time.Time          `json:"lastSeen"`
}

// Clone returns a deep copy of the network, including its device map.
func (n *Network) Clone() *Network {
	c := *n
	c.Devices = make(map[string]*Device, len(n.Devices))
	for mac, d := range n.Devices {
		c.Devices[mac] = d.Clone()
	}
	return &c
}

// InterfaceInfo describes the selected active IPv4 interface. It is
// recomputed at the start of every sweep, never persisted.
type InterfaceInfo struct {
	Name    string     `json:"name"`
	Address net.IP     `json:"address"`
	Netmask net.IPMask `json:"-"`
}

// Subnet returns the interface's network in CIDR form.
func (i *InterfaceInfo) Subnet() *net.IPNet {
	return &net.IPNet{IP: i.Address.Mask(i.Netmask), Mask: i.Netmask}
}

// SweepResult summarizes one discovery pass over a subnet.
type SweepResult struct {
	ID        string    `json:"id"`
	Subnet    string    `json:"subnet"`
	SSID      string    `json:"ssid,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt,omitzero"`
	Status    string    `json:"status"`
	Total     int       `json:"total"`
	Found     int       `json:"found"`
	Devices   []*Device `json:"devices,omitempty"`
}

// Sweep status values.
const (
	SweepStatusRunning   = "running"
	SweepStatusCompleted = "completed"
	SweepStatusCancelled = "cancelled"
	SweepStatusFailed    = "failed"
)
