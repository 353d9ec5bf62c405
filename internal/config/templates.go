package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "daemon":
		return daemonTemplate, nil
	case "client":
		return clientTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const daemonTemplate = `name = "fieldkitd"
addr = ":9300"
cors_origins = ["http://localhost:3000"]

[identity]
keyboard = "fieldkit_test"
bootloader = "rp2040"
mcu = "rp2040"
protocol = "serial"
side = "right"
split = true
`

const clientTemplate = `harness_addr = "http://127.0.0.1:9300"
timeout = "5s"
keyboard_dir = ""
`
