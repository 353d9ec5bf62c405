package config

import (
	"github.com/danmuck/fieldkit/internal/handler"
)

func DeviceIdentity(entry IdentityConfig) handler.Identity {
	return handler.Identity{
		Keyboard:   entry.Keyboard,
		Bootloader: entry.Bootloader,
		MCU:        entry.MCU,
		Protocol:   entry.Protocol,
		Side:       entry.Side,
		Split:      entry.Split,
	}
}
