package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type DaemonConfig struct {
	Name        string         `toml:"name"`
	Addr        string         `toml:"addr"`
	CorsOrigins []string       `toml:"cors_origins"`
	Identity    IdentityConfig `toml:"identity"`
}

type IdentityConfig struct {
	Keyboard   string `toml:"keyboard"`
	Bootloader string `toml:"bootloader"`
	MCU        string `toml:"mcu"`
	Protocol   string `toml:"protocol"`
	Side       string `toml:"side"`
	Split      bool   `toml:"split"`
}

func LoadDaemonConfig(path string) (DaemonConfig, error) {
	var cfg DaemonConfig
	if err := loadToml(path, &cfg); err != nil {
		return DaemonConfig{}, err
	}
	applyDaemonDefaults(&cfg)
	if err := ValidateDaemonConfig(cfg); err != nil {
		return DaemonConfig{}, err
	}
	return cfg, nil
}

// DefaultDaemonConfig is the config used when no file is given.
func DefaultDaemonConfig() DaemonConfig {
	var cfg DaemonConfig
	applyDaemonDefaults(&cfg)
	return cfg
}

func applyDaemonDefaults(cfg *DaemonConfig) {
	if cfg.Name == "" {
		cfg.Name = "fieldkitd"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9300"
	}
	if cfg.Identity.Keyboard == "" {
		cfg.Identity.Keyboard = "fieldkit_test"
	}
	if cfg.Identity.Bootloader == "" {
		cfg.Identity.Bootloader = "rp2040"
	}
	if cfg.Identity.MCU == "" {
		cfg.Identity.MCU = "rp2040"
	}
	if cfg.Identity.Protocol == "" {
		cfg.Identity.Protocol = "serial"
	}
	if cfg.Identity.Side == "" {
		cfg.Identity.Side = "right"
		cfg.Identity.Split = true
	}
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateDaemonConfig(cfg DaemonConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("daemon config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("daemon config missing addr")
	}
	switch cfg.Identity.Side {
	case "left", "right":
	default:
		return fmt.Errorf("daemon config invalid side %q", cfg.Identity.Side)
	}
	return nil
}
