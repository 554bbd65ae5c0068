package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nobrega8/netscan2/pkg/models"
)

// Merge reconciles one sweep's results into the network record for
// networkName. An empty name maps to the shared Unknown record, so repeated
// sweeps without an SSID always converge on a single network. Devices
// without a MAC address carry no stable identity and are discarded.
func (s *Service) Merge(networkName string, scanned []*models.Device) {
	name := networkName
	if name == "" {
		name = models.UnknownSSID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	network := s.findBySSIDLocked(name)
	if network == nil {
		network = &models.Network{
			ID:      uuid.NewString(),
			SSID:    name,
			Emoji:   models.DefaultEmoji,
			Devices: make(map[string]*models.Device),
		}
		s.networks = append(s.networks, network)
	}

	seen := make(map[string]bool, len(scanned))
	for _, d := range scanned {
		mac := normalizeMAC(d.MAC)
		if mac == "" {
			continue
		}
		seen[mac] = true

		existing, ok := network.Devices[mac]
		if !ok {
			dev := d.Clone()
			dev.MAC = mac
			if dev.ID == "" {
				dev.ID = uuid.NewString()
			}
			dev.Status = models.DeviceStatusOnline
			dev.LastSeen = now
			network.Devices[mac] = dev
			continue
		}

		// Sweeps own the volatile fields. Everything a user curated
		// (owner, model, a brand already on record, a custom icon)
		// survives the merge untouched.
		existing.IP = d.IP
		existing.Hostname = d.Hostname
		if d.CustomIconPath != "" {
			existing.CustomIconPath = d.CustomIconPath
		}
		if existing.Brand == "" {
			existing.Brand = d.Brand
		}
		existing.Status = models.DeviceStatusOnline
		existing.LastSeen = now
	}

	for mac, dev := range network.Devices {
		if !seen[mac] {
			dev.Status = models.DeviceStatusOffline
		}
	}
	network.LastSeen = now

	s.persistLocked()
	s.logger.Info("reconciled sweep into catalog",
		zap.String("network", name),
		zap.Int("scanned", len(seen)),
		zap.Int("total", len(network.Devices)))
}

// UpdateEmoji replaces the display emoji of a network.
func (s *Service) UpdateEmoji(networkID, emoji string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	network := s.findLocked(networkID)
	if network == nil {
		return ErrNotFound
	}
	network.Emoji = emoji
	s.persistLocked()
	return nil
}

// UpdateDevice applies user edits to a device record. When the edited brand
// differs from the built-in OUI brand for the device's prefix, the override
// is registered so future sweeps keep reporting the corrected brand.
func (s *Service) UpdateDevice(networkID string, device *models.Device) error {
	mac := normalizeMAC(device.MAC)
	if mac == "" {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	network := s.findLocked(networkID)
	if network == nil {
		return ErrNotFound
	}
	existing, ok := network.Devices[mac]
	if !ok {
		return ErrNotFound
	}

	existing.Hostname = device.Hostname
	existing.Owner = device.Owner
	existing.Model = device.Model
	if device.CustomIconPath != "" {
		existing.CustomIconPath = device.CustomIconPath
	}
	if device.Brand != existing.Brand {
		existing.Brand = device.Brand
		if s.brands != nil && device.Brand != "" &&
			device.Brand != s.brands.BuiltinBrand(mac) {
			if err := s.brands.RegisterOverride(mac, device.Brand); err != nil {
				s.logger.Warn("failed to register brand override",
					zap.String("mac", mac), zap.Error(err))
			}
		}
	}

	s.persistLocked()
	return nil
}

// DeleteNetwork removes a network and all its devices. If it was the
// selected network, the selection is cleared.
func (s *Service) DeleteNetwork(networkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, n := range s.networks {
		if n.ID == networkID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	s.networks = append(s.networks[:idx], s.networks[idx+1:]...)
	if s.selectedID == networkID {
		s.selectedID = ""
	}
	s.persistLocked()
	return nil
}

// MergeDevices collapses duplicate records of one physical device into a
// single entry. The first MAC in the list is the surviving identity; the
// others contribute their first non-empty owner, brand and model, then are
// removed.
func (s *Service) MergeDevices(networkID string, macs []string) (*models.Device, error) {
	if len(macs) < 2 {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	network := s.findLocked(networkID)
	if network == nil {
		return nil, ErrNotFound
	}

	primaryMAC := normalizeMAC(macs[0])
	primary, ok := network.Devices[primaryMAC]
	if !ok {
		return nil, ErrNotFound
	}

	for _, raw := range macs[1:] {
		mac := normalizeMAC(raw)
		other, ok := network.Devices[mac]
		if !ok || mac == primaryMAC {
			continue
		}
		if primary.Owner == "" {
			primary.Owner = other.Owner
		}
		if primary.Brand == "" {
			primary.Brand = other.Brand
		}
		if primary.Model == "" {
			primary.Model = other.Model
		}
		if primary.CustomIconPath == "" {
			primary.CustomIconPath = other.CustomIconPath
		}
		if other.Status == models.DeviceStatusOnline {
			primary.Status = models.DeviceStatusOnline
		}
		if other.LastSeen.After(primary.LastSeen) {
			primary.LastSeen = other.LastSeen
		}
		delete(network.Devices, mac)
	}

	s.persistLocked()
	return primary.Clone(), nil
}

func normalizeMAC(mac string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(mac), "-", ":"))
}
