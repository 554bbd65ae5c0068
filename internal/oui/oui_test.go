package oui

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "brands.json"), zap.NewNop())
}

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase colons", "b8:27:eb:aa:bb:cc", "B8:27:EB:AA:BB:CC"},
		{"hyphens", "b8-27-eb-aa-bb-cc", "B8:27:EB:AA:BB:CC"},
		{"already normalized", "B8:27:EB:AA:BB:CC", "B8:27:EB:AA:BB:CC"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMAC(tt.in); got != tt.want {
				t.Errorf("NormalizeMAC(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrefix(t *testing.T) {
	if got := Prefix("b8-27-eb-aa-bb-cc"); got != "B8:27:EB" {
		t.Errorf("Prefix = %q, want B8:27:EB", got)
	}
	if got := Prefix("b8:27"); got != "" {
		t.Errorf("Prefix of short address = %q, want empty", got)
	}
}

func TestLookup_Builtin(t *testing.T) {
	tbl := testTable(t)

	if got := tbl.Lookup("b8:27:eb:12:34:56"); got != "Raspberry Pi" {
		t.Errorf("Lookup = %q, want Raspberry Pi", got)
	}
	if got := tbl.Lookup("de:ad:be:ef:00:01"); got != "" {
		t.Errorf("Lookup of unknown prefix = %q, want empty", got)
	}
}

func TestRegisterOverride_WinsOverBuiltin(t *testing.T) {
	tbl := testTable(t)

	if err := tbl.RegisterOverride("B8:27:EB", "My Pi Cluster"); err != nil {
		t.Fatalf("RegisterOverride: %v", err)
	}
	if got := tbl.Lookup("b8:27:eb:12:34:56"); got != "My Pi Cluster" {
		t.Errorf("Lookup = %q, want override to win", got)
	}
}

func TestRegisterOverride_PersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brands.json")
	tbl := New(path, zap.NewNop())

	if err := tbl.RegisterOverride("aa-bb-cc-dd-ee-ff", "Acme"); err != nil {
		t.Fatalf("RegisterOverride: %v", err)
	}

	// Re-registering the same mapping is idempotent.
	if err := tbl.RegisterOverride("AA:BB:CC", "Acme"); err != nil {
		t.Fatalf("RegisterOverride (repeat): %v", err)
	}

	reloaded := New(path, zap.NewNop())
	if got := reloaded.Lookup("AA:BB:CC:00:00:01"); got != "Acme" {
		t.Errorf("Lookup after reload = %q, want Acme", got)
	}
}

func TestNew_CorruptOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brands.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl := New(path, zap.NewNop())
	if got := tbl.Lookup("b8:27:eb:12:34:56"); got != "Raspberry Pi" {
		t.Errorf("built-in lookup after corrupt load = %q, want Raspberry Pi", got)
	}
}

func TestRegisterOverride_InvalidPrefix(t *testing.T) {
	tbl := testTable(t)
	if err := tbl.RegisterOverride("zz", "Nope"); err == nil {
		t.Error("expected error for invalid prefix")
	}
}
