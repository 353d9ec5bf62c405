package wire

import "fmt"

const (
	// Tag bytes prefixing every report that belongs to the field kit
	// protocol. Chosen to stay clear of the qmk-notifier identifiers.
	TagByte1 byte = 0x82
	TagByte2 byte = 0x9E

	TagLen = 2

	// Terminator marks end of a command string inside tagged payload bytes.
	Terminator byte = 0x03

	// ReportSize is the fixed raw-HID report length, inbound and outbound.
	ReportSize = 32

	// BufferSize is the device-side command accumulation capacity.
	BufferSize = 256
)

// Wire-level command strings. ASCII, case sensitive, terminated by the
// Terminator byte inside the tagged payload.
const (
	CmdBootloader       = "BOOTLOADER"
	CmdRebootBootloader = "REBOOT_BOOTLOADER"
	CmdFirmwareInfo     = "FIRMWARE_INFO"
	CmdSideInfo         = "SIDE_INFO"
	CmdStatus           = "STATUS"
)

// Status is the first byte of every outbound response packet.
type Status byte

const (
	StatusError               Status = 0x00
	StatusOk                  Status = 0x01
	StatusBootloaderTriggered Status = 0x02
	StatusInfo                Status = 0x03
)

var statusNames = map[Status]string{
	StatusError:               "error",
	StatusOk:                  "ok",
	StatusBootloaderTriggered: "bootloader_triggered",
	StatusInfo:                "info",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(0x%02x)", byte(s))
}

// Success reports whether a status byte acknowledges the command.
func (s Status) Success() bool {
	switch s {
	case StatusOk, StatusInfo, StatusBootloaderTriggered:
		return true
	default:
		return false
	}
}

// IsTagged reports whether data carries the field kit tag. Pure predicate:
// true iff the report is at least TagLen bytes and both tag bytes match in
// order. Callers strip the tag before accumulating payload bytes.
func IsTagged(data []byte) bool {
	return len(data) >= TagLen && data[0] == TagByte1 && data[1] == TagByte2
}
