package models

import "time"

// DeviceStatus represents the current reachability of a device. It is
// derived during reconciliation, never edited directly.
type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "online"
	DeviceStatusOffline DeviceStatus = "offline"
)

// Device is one observed host on a network. The MAC address is the durable
// identity key; a host that answered a probe but has no resolvable neighbor
// entry carries an empty MAC and cannot be merged into the catalog.
//
// IP and Hostname track the latest sweep. Owner, Brand and Model are
// user-editable and survive rescans. CustomIconPath is owned by the icon
// store and is never erased by a sweep that did not probe for it.
type Device struct {
	ID             string       `json:"id"`
	IP             string       `json:"ip"`
	MAC            string       `json:"mac,omitempty"`
	Hostname       string       `json:"hostname,omitempty"`
	CustomIconPath string       `json:"customIconPath,omitempty"`
	Owner          string       `json:"owner,omitempty"`
	Brand          string       `json:"brand,omitempty"`
	Model          string       `json:"model,omitempty"`
	LastSeen       time.Time    `json:"lastSeen"`
	Status         DeviceStatus `json:"status"`
}

// Clone returns a copy of the device.
func (d *Device) Clone() *Device {
	c := *d
	return &c
}
