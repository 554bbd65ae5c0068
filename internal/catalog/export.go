package catalog

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/nobrega8/netscan2/internal/netif"
	"github.com/nobrega8/netscan2/pkg/models"
)

// ExportCSV writes a network's devices as CSV, ordered by IP. The status
// column is optional so exports can stay stable across sweeps.
func (s *Service) ExportCSV(w io.Writer, networkID string, includeStatus bool) error {
	network, err := s.Network(networkID)
	if err != nil {
		return err
	}

	devices := make([]*models.Device, 0, len(network.Devices))
	for _, d := range network.Devices {
		devices = append(devices, d)
	}
	sort.Slice(devices, func(i, j int) bool {
		return netif.IPLess(devices[i].IP, devices[j].IP)
	})

	cw := csv.NewWriter(w)
	header := []string{"ip", "mac", "hostname", "owner", "brand", "model"}
	if includeStatus {
		header = append(header, "status")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, d := range devices {
		row := []string{d.IP, d.MAC, d.Hostname, d.Owner, d.Brand, d.Model}
		if includeStatus {
			row = append(row, string(d.Status))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
