package emulator

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danmuck/fieldkit/internal/handler"
	"github.com/danmuck/fieldkit/internal/hostkit"
	"github.com/danmuck/fieldkit/internal/testutil/testlog"
	"github.com/danmuck/fieldkit/internal/wire"
)

func testIdentity() handler.Identity {
	return handler.Identity{
		Keyboard:   "fieldkit_test",
		Bootloader: "rp2040",
		MCU:        "rp2040",
		Protocol:   "serial",
		Side:       "right",
		Split:      true,
	}
}

func TestLoopbackStatusExchange(t *testing.T) {
	testlog.Start(t)

	dev := NewDevice(testIdentity(), zerolog.Nop())
	client := hostkit.NewClient(dev, zerolog.Nop())

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestLoopbackInfoExchange(t *testing.T) {
	testlog.Start(t)

	dev := NewDevice(testIdentity(), zerolog.Nop())
	client := hostkit.NewClient(dev, zerolog.Nop())

	info, err := client.SideInfo(context.Background())
	if err != nil {
		t.Fatalf("side info: %v", err)
	}
	if info["SIDE"] != "right" || info["SPLIT"] != "true" {
		t.Fatalf("unexpected side info: %v", info)
	}
}

func TestLoopbackBootloaderResetsDevice(t *testing.T) {
	testlog.Start(t)

	dev := NewDevice(testIdentity(), zerolog.Nop())
	client := hostkit.NewClient(dev, zerolog.Nop())

	if err := client.TriggerBootloader(context.Background()); err != nil {
		t.Fatalf("trigger bootloader: %v", err)
	}
	if !dev.BootloaderEntered() {
		t.Fatalf("device should have entered bootloader")
	}

	// The device is gone now; further traffic fails like a disconnect.
	if _, err := dev.Write([]byte{wire.TagByte1, wire.TagByte2}); err == nil {
		t.Fatalf("expected write to a reset device to fail")
	}
}

func TestInjectSplitsAcrossReports(t *testing.T) {
	testlog.Start(t)

	dev := NewDevice(testIdentity(), zerolog.Nop())

	first := []byte{wire.TagByte1, wire.TagByte2, 'S', 'T', 'A'}
	if packets := dev.Inject(first); len(packets) != 0 {
		t.Fatalf("no response expected mid command, got %d", len(packets))
	}
	if dev.Buffered() != 3 {
		t.Fatalf("expected 3 buffered bytes, got %d", dev.Buffered())
	}

	second := []byte{wire.TagByte1, wire.TagByte2, 'T', 'U', 'S', wire.Terminator}
	packets := dev.Inject(second)
	if len(packets) != 1 {
		t.Fatalf("expected one response, got %d", len(packets))
	}
	status, message, err := wire.DecodeResponsePacket(packets[0])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status != wire.StatusOk || message != "Field Kit active" {
		t.Fatalf("unexpected response: %v %q", status, message)
	}
}
