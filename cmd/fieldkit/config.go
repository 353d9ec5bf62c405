package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type clientConfig struct {
	HarnessAddr string
	Timeout     time.Duration
	KeyboardDir string
}

type fileConfig struct {
	HarnessAddr string `toml:"harness_addr"`
	Timeout     string `toml:"timeout"`
	KeyboardDir string `toml:"keyboard_dir"`
}

func defaultClientConfig() clientConfig {
	return clientConfig{
		HarnessAddr: "http://127.0.0.1:9300",
		Timeout:     5 * time.Second,
	}
}

func loadClientConfig(path string) (clientConfig, error) {
	cfg := defaultClientConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return clientConfig{}, fmt.Errorf("load fieldkit config: %w", err)
	}

	if meta.IsDefined("harness_addr") {
		addr := strings.TrimSpace(raw.HarnessAddr)
		if addr != "" {
			cfg.HarnessAddr = addr
		}
	}

	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return clientConfig{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}

	if meta.IsDefined("keyboard_dir") {
		cfg.KeyboardDir = strings.TrimSpace(raw.KeyboardDir)
	}

	return cfg, nil
}
