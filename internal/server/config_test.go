package server

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	v, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if got := v.GetInt("server.port"); got != 8080 {
		t.Errorf("server.port = %d, want 8080", got)
	}
	if got := v.GetInt("sweep.concurrency"); got != 64 {
		t.Errorf("sweep.concurrency = %d, want 64", got)
	}
	if got := v.GetDuration("sweep.ping_timeout"); got != 700*time.Millisecond {
		t.Errorf("sweep.ping_timeout = %v, want 700ms", got)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("NETSCAN2_SERVER_PORT", "9090")
	t.Setenv("NETSCAN2_SWEEP_PING_TIMEOUT", "250ms")

	v, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if got := v.GetInt("server.port"); got != 9090 {
		t.Errorf("server.port = %d, want 9090 from environment", got)
	}
	if got := v.GetDuration("sweep.ping_timeout"); got != 250*time.Millisecond {
		t.Errorf("sweep.ping_timeout = %v, want 250ms from environment", got)
	}
}

func TestConfig_Addr(t *testing.T) {
	c := &Config{Host: "0.0.0.0", Port: 8080}
	if got := c.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr = %q, want 0.0.0.0:8080", got)
	}
}
