package handler

import "github.com/danmuck/fieldkit/internal/wire"

// Kind is one entry of the closed command enumeration.
type Kind int

const (
	KindUnknown Kind = iota
	KindBootloader
	KindRebootBootloader
	KindFirmwareInfo
	KindSideInfo
	KindStatus
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindBootloader:       "bootloader",
	KindRebootBootloader: "reboot_bootloader",
	KindFirmwareInfo:     "firmware_info",
	KindSideInfo:         "side_info",
	KindStatus:           "status",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

var commandTable = map[string]Kind{
	wire.CmdBootloader:       KindBootloader,
	wire.CmdRebootBootloader: KindRebootBootloader,
	wire.CmdFirmwareInfo:     KindFirmwareInfo,
	wire.CmdSideInfo:         KindSideInfo,
	wire.CmdStatus:           KindStatus,
}

// ParseCommand maps a completed command string to its kind. Anything
// outside the fixed table, the empty string included, is KindUnknown.
func ParseCommand(command string) Kind {
	if kind, ok := commandTable[command]; ok {
		return kind
	}
	return KindUnknown
}

// TriggersBootloader reports whether a kind ends in the terminal
// bootloader jump after its response is sent.
func (k Kind) TriggersBootloader() bool {
	return k == KindBootloader || k == KindRebootBootloader
}
