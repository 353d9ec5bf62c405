// Package bootwait waits for a keyboard to reappear as a bootloader device
// after a reset has been triggered.
package bootwait

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

var (
	ErrTimeout      = errors.New("bootwait: bootloader device did not appear")
	ErrNoProbe      = errors.New("bootwait: no probe available for this platform")
	ErrProbeFailure = errors.New("bootwait: probe failed")
)

// Probe checks once whether the bootloader device is present.
type Probe func() (bool, error)

// Progress is reported once per poll attempt.
type Progress struct {
	Attempt int
	Elapsed time.Duration
}

// Wait polls the configured probe until the device appears, the timeout
// elapses, or ctx is cancelled.
func Wait(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Probe == nil {
		return ErrNoProbe
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	start := time.Now()
	attempt := 0
	for {
		attempt++
		present, err := cfg.Probe()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProbeFailure, err)
		}
		if present {
			return nil
		}
		if cfg.OnProgress != nil {
			cfg.OnProgress(Progress{Attempt: attempt, Elapsed: time.Since(start)})
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w after %s", ErrTimeout, time.Since(start).Round(time.Second))
		case <-ticker.C:
		}
	}
}

// RP2040Probe detects an RP2040 in BOOT mode: the RPI-RP2 mass-storage
// volume on darwin, an lsusb scan on linux.
func RP2040Probe() Probe {
	switch runtime.GOOS {
	case "darwin":
		return volumeProbe("/Volumes/RPI-RP2")
	case "linux":
		return lsusbProbe("Raspberry Pi", "RP2 Boot")
	default:
		return nil
	}
}

func volumeProbe(path string) Probe {
	return func() (bool, error) {
		_, err := os.Stat(path)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
}

func lsusbProbe(needles ...string) Probe {
	return func() (bool, error) {
		out, err := exec.Command("lsusb").Output()
		if err != nil {
			// lsusb missing or transiently failing is a "not yet", the
			// next poll retries.
			return false, nil
		}
		text := string(out)
		for _, needle := range needles {
			if !strings.Contains(text, needle) {
				return false, nil
			}
		}
		return true, nil
	}
}
