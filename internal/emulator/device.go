package emulator

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/fieldkit/internal/handler"
)

var ErrDeviceGone = errors.New("emulator: device reset into bootloader")

// Device is one emulated keyboard. It owns a handler instance and stands in
// for the USB transport on both sides: the handler sends response packets
// into an outbox, and the hostkit Device methods (Write/ReadTimeout/Close)
// let a host client talk to it in process.
//
// The mutex serializes report delivery; the handler itself assumes strictly
// serial reports, so the emulator enforces that at its boundary.
type Device struct {
	mu      sync.Mutex
	handler *handler.Handler
	outbox  chan []byte

	bootloader bool
	slept      time.Duration
}

func NewDevice(identity handler.Identity, log zerolog.Logger) *Device {
	d := &Device{
		outbox: make(chan []byte, 8),
	}
	d.handler = handler.New(outboxTransport{d: d}, deviceControl{d: d}, identity, log)
	return d
}

type outboxTransport struct{ d *Device }

func (t outboxTransport) Send(packet []byte) error {
	buf := make([]byte, len(packet))
	copy(buf, packet)
	select {
	case t.d.outbox <- buf:
		return nil
	default:
		return errors.New("emulator: outbox full")
	}
}

type deviceControl struct{ d *Device }

func (c deviceControl) EnterBootloader() {
	c.d.bootloader = true
}

// Sleep records the flush delay instead of blocking; the emulated transport
// has no packet in flight to wait for.
func (c deviceControl) Sleep(d time.Duration) {
	c.d.slept += d
}

// Inject delivers one raw report and returns any response packets it
// produced.
func (d *Device) Inject(report []byte) [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bootloader {
		return nil
	}
	d.handler.ProcessReport(report)
	return d.drain()
}

func (d *Device) drain() [][]byte {
	var packets [][]byte
	for {
		select {
		case p := <-d.outbox:
			packets = append(packets, p)
		default:
			return packets
		}
	}
}

// BootloaderEntered reports whether the emulated device has "reset".
func (d *Device) BootloaderEntered() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bootloader
}

// Buffered exposes the handler accumulation cursor.
func (d *Device) Buffered() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handler.Buffered()
}

// Write implements the hostkit device contract: one inbound report.
func (d *Device) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bootloader {
		return 0, ErrDeviceGone
	}
	d.handler.ProcessReport(p)
	return len(p), nil
}

// ReadTimeout implements the hostkit device contract: next response packet
// or a zero-length read on timeout. A device that reset reports itself gone
// once its outbox is empty.
func (d *Device) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	select {
	case packet := <-d.outbox:
		return copy(p, packet), nil
	default:
	}
	if d.BootloaderEntered() {
		return 0, ErrDeviceGone
	}
	select {
	case packet := <-d.outbox:
		return copy(p, packet), nil
	case <-time.After(timeout):
		return 0, nil
	}
}

func (d *Device) Close() error {
	return nil
}
