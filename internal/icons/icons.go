// Package icons maps device MAC addresses to custom icon files chosen by
// the user. The mapping lives in a small JSON file next to the catalog.
package icons

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Store is a persistent MAC-to-icon-path map. Keys are normalized to
// uppercase colon-separated MACs.
type Store struct {
	mu     sync.Mutex
	path   string
	icons  map[string]string
	logger *zap.Logger
}

// New loads the icon map from path. A missing or unreadable file starts an
// empty map.
func New(path string, logger *zap.Logger) *Store {
	s := &Store{path: path, icons: make(map[string]string), logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read icon map, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return s
	}
	if err := json.Unmarshal(data, &s.icons); err != nil {
		logger.Warn("corrupt icon map, starting empty",
			zap.String("path", path), zap.Error(err))
		s.icons = make(map[string]string)
	}
	return s
}

// PathFor returns the icon path for a MAC, or "" when none is assigned.
func (s *Store) PathFor(mac string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.icons[normalize(mac)]
}

// Set assigns an icon path to a MAC and persists the map.
func (s *Store) Set(mac, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.icons[normalize(mac)] = path
	return s.persistLocked()
}

// Remove deletes the icon assignment for a MAC.
func (s *Store) Remove(mac string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.icons, normalize(mac))
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.icons, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func normalize(mac string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(mac), "-", ":"))
}
