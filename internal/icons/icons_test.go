package icons

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestStore_SetAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.json")
	s := New(path, zap.NewNop())

	if err := s.Set("aa-bb-cc-dd-ee-01", "/icons/router.png"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if got := s.PathFor("AA:BB:CC:DD:EE:01"); got != "/icons/router.png" {
		t.Errorf("PathFor = %q, want normalized lookup to hit", got)
	}
	if got := s.PathFor("AA:BB:CC:DD:EE:99"); got != "" {
		t.Errorf("unassigned MAC returned %q", got)
	}
}

func TestStore_PersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.json")
	s := New(path, zap.NewNop())
	if err := s.Set("AA:BB:CC:DD:EE:01", "/icons/router.png"); err != nil {
		t.Fatal(err)
	}

	reloaded := New(path, zap.NewNop())
	if got := reloaded.PathFor("AA:BB:CC:DD:EE:01"); got != "/icons/router.png" {
		t.Errorf("PathFor after reload = %q", got)
	}
}

func TestStore_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.json")
	s := New(path, zap.NewNop())
	if err := s.Set("AA:BB:CC:DD:EE:01", "/icons/router.png"); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove("AA:BB:CC:DD:EE:01"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := s.PathFor("AA:BB:CC:DD:EE:01"); got != "" {
		t.Errorf("PathFor after remove = %q", got)
	}
}

func TestNew_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.json")
	if err := os.WriteFile(path, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(path, zap.NewNop())
	if got := s.PathFor("AA:BB:CC:DD:EE:01"); got != "" {
		t.Errorf("expected empty map, got %q", got)
	}
}
