// Package catalog owns the durable, per-network device catalog and the
// reconciliation of sweep results into it. The Service is the only writer;
// the whole catalog is persisted on every mutation.
package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/nobrega8/netscan2/pkg/models"
)

// ErrNotFound is returned when a network or device lookup misses.
var ErrNotFound = errors.New("not found")

// BrandRegistry persists manual brand assignments that differ from the
// built-in OUI table.
type BrandRegistry interface {
	BuiltinBrand(mac string) string
	RegisterOverride(prefix, brand string) error
}

// Service is the reconciliation engine plus the persistent catalog. All
// mutations go through it; it loads the catalog once at construction and
// rewrites the whole file after every change.
type Service struct {
	mu         sync.Mutex
	path       string
	networks   []*models.Network
	selectedID string
	brands     BrandRegistry
	logger     *zap.Logger
}

// New creates the catalog service, loading any persisted catalog from path.
// A missing or corrupt file starts an empty catalog; startup never fails on
// persistence problems.
func New(path string, brands BrandRegistry, logger *zap.Logger) *Service {
	s := &Service{path: path, brands: brands, logger: logger}
	s.load()
	return s
}

// Networks returns a deep copy of all network records, in catalog order.
func (s *Service) Networks() []*models.Network {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Network, len(s.networks))
	for i, n := range s.networks {
		out[i] = n.Clone()
	}
	return out
}

// Network returns a deep copy of one network record.
func (s *Service) Network(id string) (*models.Network, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.findLocked(id)
	if n == nil {
		return nil, ErrNotFound
	}
	return n.Clone(), nil
}

// SelectNetwork marks a network as the current selection.
func (s *Service) SelectNetwork(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return ErrNotFound
	}
	s.selectedID = id
	return nil
}

// SelectedNetwork returns the ID of the selected network, or "".
func (s *Service) SelectedNetwork() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

func (s *Service) findLocked(id string) *models.Network {
	for _, n := range s.networks {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (s *Service) findBySSIDLocked(ssid string) *models.Network {
	for _, n := range s.networks {
		if n.SSID == ssid {
			return n
		}
	}
	return nil
}

func (s *Service) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read catalog, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return
	}

	var networks []*models.Network
	if err := json.Unmarshal(data, &networks); err != nil {
		s.logger.Warn("corrupt catalog file, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return
	}

	for _, n := range networks {
		if n.Devices == nil {
			n.Devices = make(map[string]*models.Device)
		}
	}
	s.networks = networks
	s.logger.Info("catalog loaded",
		zap.String("path", s.path), zap.Int("networks", len(networks)))
}

// persistLocked rewrites the catalog file atomically (temp file + rename).
// Write failures are logged and swallowed: the in-memory catalog stays the
// source of truth and the next successful write reconciles the file.
func (s *Service) persistLocked() {
	data, err := json.MarshalIndent(s.networks, "", "  ")
	if err != nil {
		s.logger.Error("failed to encode catalog", zap.Error(err))
		return
	}
	if s.networks == nil {
		data = []byte("[]")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Error("failed to create catalog directory", zap.Error(err))
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.logger.Error("failed to write catalog", zap.Error(err))
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.Error("failed to replace catalog", zap.Error(err))
	}
}
