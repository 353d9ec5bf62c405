package handler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/fieldkit/internal/observability"
	"github.com/danmuck/fieldkit/internal/wire"
)

// Delay between handing the bootloader response to the transport and the
// irreversible jump, so the outbound packet can flush.
const bootloaderFlushDelay = 100 * time.Millisecond

// Handler accumulates tagged report payloads into one command at a time and
// dispatches completed commands. One instance owns one accumulation buffer;
// nothing here is package-global. Callers must deliver reports serially;
// there is no locking, matching the single-writer firmware model.
type Handler struct {
	transport Transport
	device    Device
	identity  Identity
	log       zerolog.Logger

	buf    [wire.BufferSize]byte
	cursor int
}

// New returns an empty handler bound to its collaborators.
func New(transport Transport, device Device, identity Identity, log zerolog.Logger) *Handler {
	return &Handler{
		transport: transport,
		device:    device,
		identity:  identity,
		log:       log.With().Str("component", "fieldkit.handler").Logger(),
	}
}

// Buffered returns how many command bytes are currently accumulated.
func (h *Handler) Buffered() int {
	return h.cursor
}

// ProcessReport consumes one inbound report.
//
// Reports without the field kit tag are ignored untouched. Tagged payload
// bytes are appended until the terminator completes a command, which is
// dispatched and answered with exactly one response packet; any bytes after
// the first terminator in the same report are dropped. Overflow discards
// the accumulated bytes and keeps scanning the report with an empty buffer;
// no response is sent for an overflow alone.
func (h *Handler) ProcessReport(data []byte) {
	if !wire.IsTagged(data) {
		observability.RecordReport(false)
		return
	}
	observability.RecordReport(true)

	payload := data[wire.TagLen:]
	for _, c := range payload {
		if c == wire.Terminator {
			command := string(h.buf[:h.cursor])
			h.cursor = 0

			h.log.Debug().Str("command", command).Msg("command received")

			resp, handled := h.HandleCommand(command)
			kind := ParseCommand(command)
			observability.RecordCommand(kind.String(), handled)

			h.sendResponse(resp)

			if kind.TriggersBootloader() {
				h.device.Sleep(bootloaderFlushDelay)
				h.device.EnterBootloader()
			}
			break
		}
		if h.cursor < wire.BufferSize-1 {
			h.buf[h.cursor] = c
			h.cursor++
			continue
		}
		// Capacity reached with no terminator: drop everything buffered and
		// keep scanning this report as a fresh accumulation.
		h.cursor = 0
		observability.RecordOverflow()
		h.log.Warn().Msg("accumulation buffer overflow, resetting")
	}
}

// sendResponse serializes and transmits one response packet. Messages too
// long for the packet payload are dropped from the wire but logged in full.
func (h *Handler) sendResponse(resp Response) {
	packet := wire.EncodeResponsePacket(resp.Status, resp.Message)
	if err := h.transport.Send(packet[:]); err != nil {
		h.log.Error().Err(err).Stringer("status", resp.Status).Msg("response send failed")
		return
	}
	observability.RecordResponse(resp.Status.String())
	h.log.Debug().
		Stringer("status", resp.Status).
		Str("message", resp.Message).
		Msg("response sent")
}
