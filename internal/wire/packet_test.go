package wire

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncodeResponsePacketLayout(t *testing.T) {
	packet := EncodeResponsePacket(StatusOk, "Field Kit active")

	if packet[0] != byte(StatusOk) {
		t.Fatalf("byte 0 must be the status, got 0x%02x", packet[0])
	}
	if got := string(packet[1 : 1+len("Field Kit active")]); got != "Field Kit active" {
		t.Fatalf("message not copied from byte 1: %q", got)
	}
	for i := 1 + len("Field Kit active"); i < ReportSize; i++ {
		if packet[i] != 0 {
			t.Fatalf("byte %d should be zero, got 0x%02x", i, packet[i])
		}
	}
}

func TestEncodeResponsePacketDropsOversizedMessage(t *testing.T) {
	long := strings.Repeat("x", ReportSize-1)
	packet := EncodeResponsePacket(StatusInfo, long)

	if packet[0] != byte(StatusInfo) {
		t.Fatalf("status byte must survive truncation, got 0x%02x", packet[0])
	}
	for i := 1; i < ReportSize; i++ {
		if packet[i] != 0 {
			t.Fatalf("oversized message must be dropped entirely, byte %d = 0x%02x", i, packet[i])
		}
	}

	// One byte shorter fits exactly.
	fits := strings.Repeat("y", ReportSize-2)
	packet = EncodeResponsePacket(StatusInfo, fits)
	if string(packet[1:]) != fits {
		t.Fatalf("boundary message should fill the payload")
	}
}

func TestDecodeResponsePacketRoundTrip(t *testing.T) {
	packet := EncodeResponsePacket(StatusInfo, "SIDE=left|SPLIT=true")

	status, message, err := DecodeResponsePacket(packet[:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status != StatusInfo || message != "SIDE=left|SPLIT=true" {
		t.Fatalf("round trip mismatch: %v %q", status, message)
	}
}

func TestDecodeResponsePacketShort(t *testing.T) {
	if _, _, err := DecodeResponsePacket(nil); !errors.Is(err, ErrShortPacket) {
		t.Fatalf("expected ErrShortPacket, got %v", err)
	}
}

func TestBuildCommandReportFraming(t *testing.T) {
	report, err := BuildCommandReport("STATUS")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(report) != ReportSize {
		t.Fatalf("report must be padded to %d bytes, got %d", ReportSize, len(report))
	}
	if !IsTagged(report) {
		t.Fatalf("report must carry the tag: % x", report[:2])
	}
	want := append([]byte("STATUS"), Terminator)
	if !bytes.Equal(report[TagLen:TagLen+len(want)], want) {
		t.Fatalf("payload framing wrong: % x", report[TagLen:TagLen+len(want)])
	}
	for _, b := range report[TagLen+len(want):] {
		if b != 0 {
			t.Fatalf("padding must be zero")
		}
	}
}

func TestBuildCommandReportRejectsOversized(t *testing.T) {
	long := strings.Repeat("A", ReportSize-TagLen)
	if _, err := BuildCommandReport(long); !errors.Is(err, ErrCommandTooLong) {
		t.Fatalf("expected ErrCommandTooLong, got %v", err)
	}

	// Longest command that still fits with tag and terminator.
	fits := strings.Repeat("A", ReportSize-TagLen-1)
	if _, err := BuildCommandReport(fits); err != nil {
		t.Fatalf("boundary command should fit: %v", err)
	}
}

func TestBuildCommandReportRejectsEmpty(t *testing.T) {
	if _, err := BuildCommandReport(""); !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("expected ErrEmptyCommand, got %v", err)
	}
}
