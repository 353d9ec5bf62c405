package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fieldkitd.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDaemonConfigDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := LoadDaemonConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "fieldkitd" {
		t.Fatalf("unexpected name: %q", cfg.Name)
	}
	if cfg.Addr != ":9300" {
		t.Fatalf("unexpected addr: %q", cfg.Addr)
	}
	if cfg.Identity.Side != "right" || !cfg.Identity.Split {
		t.Fatalf("unexpected identity defaults: %+v", cfg.Identity)
	}
}

func TestLoadDaemonConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
name = "bench-kit"
addr = ":9400"
cors_origins = ["http://localhost:3000"]

[identity]
keyboard = "corne"
bootloader = "rp2040"
mcu = "rp2040"
protocol = "serial"
side = "left"
split = true
`)

	cfg, err := LoadDaemonConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "bench-kit" || cfg.Addr != ":9400" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Identity.Keyboard != "corne" || cfg.Identity.Side != "left" {
		t.Fatalf("identity overrides not applied: %+v", cfg.Identity)
	}
}

func TestLoadDaemonConfigRejectsBadSide(t *testing.T) {
	path := writeConfig(t, `
[identity]
side = "middle"
`)

	if _, err := LoadDaemonConfig(path); err == nil {
		t.Fatalf("expected error for invalid side")
	}
}

func TestLoadDaemonConfigMissingFile(t *testing.T) {
	if _, err := LoadDaemonConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
