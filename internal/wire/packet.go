package wire

import (
	"bytes"
	"fmt"
)

// EncodeResponsePacket serializes one response into a fixed-size outbound
// report. Byte 0 is the status; the message occupies bytes 1..len(message)
// only when it fits with the status byte, otherwise the packet carries the
// status alone. Remaining bytes are zero.
func EncodeResponsePacket(status Status, message string) [ReportSize]byte {
	var packet [ReportSize]byte
	packet[0] = byte(status)
	if len(message) > 0 && len(message) < ReportSize-1 {
		copy(packet[1:], message)
	}
	return packet
}

// DecodeResponsePacket is the host-side inverse: status byte plus the
// message with trailing zero padding removed.
func DecodeResponsePacket(packet []byte) (Status, string, error) {
	if len(packet) < 1 {
		return StatusError, "", ErrShortPacket
	}
	msg := bytes.TrimRight(packet[1:], "\x00")
	return Status(packet[0]), string(msg), nil
}

// BuildCommandReport frames one command for the device: tag bytes, ASCII
// command, terminator, zero padding out to the report size. A command must
// fit in a single report; there is no multi-report framing on this wire.
func BuildCommandReport(command string) ([]byte, error) {
	if len(command) == 0 {
		return nil, ErrEmptyCommand
	}
	if TagLen+len(command)+1 > ReportSize {
		return nil, fmt.Errorf("%w: %q (%d bytes)", ErrCommandTooLong, command, len(command))
	}
	report := make([]byte, ReportSize)
	report[0] = TagByte1
	report[1] = TagByte2
	copy(report[TagLen:], command)
	report[TagLen+len(command)] = Terminator
	return report, nil
}
