// Package oui maps hardware-address vendor prefixes to brand names. Lookups
// layer a user-maintained override file on top of a built-in table; a
// matching override always wins.
package oui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Table resolves OUI prefixes to brand names.
type Table struct {
	mu        sync.RWMutex
	overrides map[string]string
	path      string
	logger    *zap.Logger
}

// New creates a brand table, loading any persisted overrides from path.
// A missing or corrupt override file starts with no overrides.
func New(path string, logger *zap.Logger) *Table {
	t := &Table{
		overrides: make(map[string]string),
		path:      path,
		logger:    logger,
	}
	t.load()
	return t
}

// Lookup returns the brand for the address's OUI prefix, or "" when neither
// the built-in table nor the overrides match.
func (t *Table) Lookup(mac string) string {
	prefix := Prefix(mac)
	if prefix == "" {
		return ""
	}

	brand := builtinBrands[prefix]

	t.mu.RLock()
	if o, ok := t.overrides[prefix]; ok {
		brand = o
	}
	t.mu.RUnlock()

	return brand
}

// BuiltinBrand returns the built-in table's brand for the address, ignoring
// overrides. Used to decide whether a manual brand edit needs persisting.
func (t *Table) BuiltinBrand(mac string) string {
	return builtinBrands[Prefix(mac)]
}

// RegisterOverride adds or replaces one prefix-to-brand mapping and persists
// the override table immediately. The prefix may be a full MAC; only its
// first three octets are kept.
func (t *Table) RegisterOverride(prefix, brand string) error {
	p := Prefix(prefix)
	if p == "" {
		return fmt.Errorf("invalid OUI prefix %q", prefix)
	}

	t.mu.Lock()
	t.overrides[p] = brand
	snapshot := make(map[string]string, len(t.overrides))
	for k, v := range t.overrides {
		snapshot[k] = v
	}
	t.mu.Unlock()

	return t.persist(snapshot)
}

// NormalizeMAC uppercases a hardware address and converts hyphen separators
// to colons.
func NormalizeMAC(mac string) string {
	return strings.ToUpper(strings.ReplaceAll(mac, "-", ":"))
}

// Prefix returns the normalized XX:XX:XX vendor prefix of a hardware
// address, or "" if the address has fewer than three octets.
func Prefix(mac string) string {
	parts := strings.Split(NormalizeMAC(mac), ":")
	if len(parts) < 3 {
		return ""
	}
	return strings.Join(parts[:3], ":")
}

func (t *Table) load() {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.logger.Warn("failed to read brand overrides", zap.String("path", t.path), zap.Error(err))
		}
		return
	}

	var overrides map[string]string
	if err := json.Unmarshal(data, &overrides); err != nil {
		t.logger.Warn("corrupt brand override file, starting empty",
			zap.String("path", t.path), zap.Error(err))
		return
	}

	for prefix, brand := range overrides {
		if p := Prefix(prefix); p != "" {
			t.overrides[p] = brand
		}
	}
}

// persist writes the override table with a whole-file atomic replace.
// Write failures are logged and returned but leave the in-memory table as
// the source of truth.
func (t *Table) persist(overrides map[string]string) error {
	data, err := json.MarshalIndent(overrides, "", "  ")
	if err != nil {
		return fmt.Errorf("encode brand overrides: %w", err)
	}

	tmp := t.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		t.logger.Error("failed to create override directory", zap.Error(err))
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		t.logger.Error("failed to write brand overrides", zap.Error(err))
		return err
	}
	if err := os.Rename(tmp, t.path); err != nil {
		t.logger.Error("failed to replace brand overrides", zap.Error(err))
		return err
	}
	return nil
}
