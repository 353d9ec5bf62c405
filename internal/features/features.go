// Package features detects build-time keyboard capabilities from a QMK
// keyboard directory: keyboard.json plus rules.mk overrides.
package features

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrKeyboardDirMissing = errors.New("features: keyboard directory missing")

// Features is everything the host tooling needs to know about one keyboard
// before talking to it or flashing it.
type Features struct {
	Keyboard          string
	KeyboardPath      string
	Bootloader        string
	MCUFamily         string
	SplitEnabled      bool
	TransportProtocol string
	AutoBootloader    bool
	SideLockEnabled   bool
	Rules             map[string]string
}

type keyboardJSON struct {
	KeyboardName string `json:"keyboard_name"`
	Bootloader   string `json:"bootloader"`
	Split        struct {
		Enabled   bool `json:"enabled"`
		Transport struct {
			Protocol string `json:"protocol"`
		} `json:"transport"`
	} `json:"split"`
}

// Detect reads keyboard.json and rules.mk under dir. A missing
// keyboard.json is tolerated (older boards keep everything in rules.mk);
// a missing directory is not.
func Detect(dir string) (Features, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Features{}, fmt.Errorf("%w: %s", ErrKeyboardDirMissing, dir)
	}

	f := Features{
		Keyboard:     filepath.Base(dir),
		KeyboardPath: dir,
		Bootloader:   "unknown",
		Rules:        map[string]string{},
	}

	if kb, err := parseKeyboardJSON(filepath.Join(dir, "keyboard.json")); err == nil {
		if kb.KeyboardName != "" {
			f.Keyboard = kb.KeyboardName
		}
		if kb.Bootloader != "" {
			f.Bootloader = kb.Bootloader
		}
		f.SplitEnabled = kb.Split.Enabled
		if kb.Split.Enabled {
			f.TransportProtocol = kb.Split.Transport.Protocol
			if f.TransportProtocol == "" {
				f.TransportProtocol = "serial"
			}
		}
	}

	if err := parseRulesMK(dir, "rules.mk", f.Rules, 0); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Features{}, err
	}
	f.AutoBootloader = ruleEnabled(f.Rules, "AUTO_BOOTLOADER_ENABLE")
	f.SideLockEnabled = ruleEnabled(f.Rules, "SIDE_LOCK_ENABLE")
	f.MCUFamily = mcuFamilyFor(f.Bootloader)
	return f, nil
}

func parseKeyboardJSON(path string) (keyboardJSON, error) {
	var kb keyboardJSON
	data, err := os.ReadFile(path)
	if err != nil {
		return keyboardJSON{}, err
	}
	if err := json.Unmarshal(data, &kb); err != nil {
		return keyboardJSON{}, fmt.Errorf("features: parse %s: %w", path, err)
	}
	return kb, nil
}

const maxIncludeDepth = 8

func parseRulesMK(dir, name string, out map[string]string, depth int) error {
	if depth > maxIncludeDepth {
		return fmt.Errorf("features: rules.mk include depth exceeded under %s", dir)
	}
	path := filepath.Join(dir, name)
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "include "); ok {
			included := filepath.Join(dir, strings.TrimSpace(rest))
			if err := parseRulesMK(filepath.Dir(included), filepath.Base(included), out, depth+1); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return scanner.Err()
}

func ruleEnabled(rules map[string]string, key string) bool {
	return strings.EqualFold(rules[key], "yes")
}

// mcuFamilyFor maps a bootloader id to the MCU family the flashing path
// cares about. Unknown bootloaders return empty.
func mcuFamilyFor(bootloader string) string {
	switch bootloader {
	case "rp2040":
		return "rp2040"
	case "atmel-dfu", "caterina", "halfkay":
		return "avr"
	case "stm32-dfu", "stm32duino":
		return "arm"
	default:
		return ""
	}
}
