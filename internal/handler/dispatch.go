package handler

import (
	"fmt"
	"time"

	"github.com/danmuck/fieldkit/internal/wire"
)

// Transport sends one outbound report. Fire and forget: no acknowledgement
// is awaited and a failed send is only logged.
type Transport interface {
	Send(packet []byte) error
}

// Device exposes the collaborator primitives the dispatcher needs. Both are
// implemented by real hardware glue or by test fakes; EnterBootloader is
// irreversible on hardware and never returns control to normal execution.
type Device interface {
	EnterBootloader()
	Sleep(d time.Duration)
}

// Identity is the build-time device identity consumed by the info commands.
// Read-only to this package.
type Identity struct {
	Keyboard   string
	Bootloader string
	MCU        string
	Protocol   string
	Side       string
	Split      bool
}

// FirmwareInfo formats the FIRMWARE_INFO payload.
func (id Identity) FirmwareInfo() string {
	return fmt.Sprintf("KEYBOARD=%s|BOOTLOADER=%s|MCU=%s|PROTOCOL=%s",
		id.Keyboard, id.Bootloader, id.MCU, id.Protocol)
}

// SideInfo formats the SIDE_INFO payload.
func (id Identity) SideInfo() string {
	return fmt.Sprintf("SIDE=%s|SPLIT=%t", id.Side, id.Split)
}

// Response is one dispatched command outcome. Created fresh per command,
// never persisted. Message is bounded by the accumulation capacity; the
// responder may still drop it from the packet when it exceeds the packet
// payload.
type Response struct {
	Status  wire.Status
	Message string
}

const (
	msgBootloader     = "Entering bootloader mode"
	msgStatus         = "Field Kit active"
	msgUnknownCommand = "Unknown command"
)

// HandleCommand maps a completed command string to its response. The
// returned bool is false only for unknown commands. No side effects here:
// the bootloader jump is ordered by ProcessReport after the response has
// been handed to the transport.
func (h *Handler) HandleCommand(command string) (Response, bool) {
	switch ParseCommand(command) {
	case KindBootloader, KindRebootBootloader:
		h.log.Info().Str("command", command).Msg("bootloader command received")
		return Response{Status: wire.StatusBootloaderTriggered, Message: msgBootloader}, true
	case KindFirmwareInfo:
		return Response{Status: wire.StatusInfo, Message: h.identity.FirmwareInfo()}, true
	case KindSideInfo:
		return Response{Status: wire.StatusInfo, Message: h.identity.SideInfo()}, true
	case KindStatus:
		return Response{Status: wire.StatusOk, Message: msgStatus}, true
	default:
		return Response{Status: wire.StatusError, Message: msgUnknownCommand}, false
	}
}
