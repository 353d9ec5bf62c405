package hostkit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/fieldkit/internal/wire"
)

// Device is one opened raw-HID endpoint. Satisfied by hidapi bindings and
// by the in-memory emulator device.
type Device interface {
	Write(p []byte) (int, error)
	ReadTimeout(p []byte, timeout time.Duration) (int, error)
	Close() error
}

// Result is one decoded device response.
type Result struct {
	Status  wire.Status
	Message string
}

func (r Result) Success() bool {
	return r.Status.Success()
}

const (
	defaultExchangeTimeout = 5 * time.Second
	readSlice              = 100 * time.Millisecond
)

// Client drives the field kit exchange over one device.
type Client struct {
	dev     Device
	log     zerolog.Logger
	timeout time.Duration
}

func NewClient(dev Device, log zerolog.Logger) *Client {
	return &Client{
		dev:     dev,
		log:     log.With().Str("component", "fieldkit.hostkit").Logger(),
		timeout: defaultExchangeTimeout,
	}
}

// SetTimeout overrides the per-exchange deadline.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// SendCommand frames command into one tagged report, writes it, and polls
// for the single response packet until the context or the client timeout
// expires.
func (c *Client) SendCommand(ctx context.Context, command string) (Result, error) {
	report, err := wire.BuildCommandReport(command)
	if err != nil {
		return Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.dev.Write(report); err != nil {
		if triggersBootloader(command) {
			return c.bootloaderGone(err), nil
		}
		return Result{}, fmt.Errorf("%w: write: %v", ErrDeviceUnavailable, err)
	}

	buf := make([]byte, wire.ReportSize)
	for {
		select {
		case <-ctx.Done():
			return Result{}, fmt.Errorf("%w: %s", ErrNoResponse, command)
		default:
		}

		n, err := c.dev.ReadTimeout(buf, readSlice)
		if err != nil {
			if triggersBootloader(command) {
				return c.bootloaderGone(err), nil
			}
			return Result{}, fmt.Errorf("%w: read: %v", ErrDeviceUnavailable, err)
		}
		if n == 0 {
			continue
		}

		status, message, err := wire.DecodeResponsePacket(buf[:n])
		if err != nil {
			return Result{}, err
		}
		c.log.Debug().
			Str("command", command).
			Stringer("status", status).
			Str("message", message).
			Msg("response")
		return Result{Status: status, Message: message}, nil
	}
}

// Ping checks basic liveness via STATUS.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.SendCommand(ctx, wire.CmdStatus)
	if err != nil {
		return err
	}
	if !res.Success() {
		return fmt.Errorf("%w: %s", ErrCommandFailed, res.Message)
	}
	return nil
}

// FirmwareInfo queries and parses the FIRMWARE_INFO payload.
func (c *Client) FirmwareInfo(ctx context.Context) (map[string]string, error) {
	return c.infoCommand(ctx, wire.CmdFirmwareInfo)
}

// SideInfo queries and parses the SIDE_INFO payload.
func (c *Client) SideInfo(ctx context.Context) (map[string]string, error) {
	return c.infoCommand(ctx, wire.CmdSideInfo)
}

func (c *Client) infoCommand(ctx context.Context, command string) (map[string]string, error) {
	res, err := c.SendCommand(ctx, command)
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		return nil, fmt.Errorf("%w: %s: %s", ErrCommandFailed, command, res.Message)
	}
	return ParseInfo(res.Message), nil
}

// TriggerBootloader asks the device to reset into its bootloader. The
// device resets right after acknowledging, so a disconnect mid-exchange is
// the success path, not an error.
func (c *Client) TriggerBootloader(ctx context.Context) error {
	res, err := c.SendCommand(ctx, wire.CmdBootloader)
	if err != nil {
		return err
	}
	if res.Status != wire.StatusBootloaderTriggered {
		return fmt.Errorf("%w: bootloader not triggered: %s", ErrCommandFailed, res.Message)
	}
	return nil
}

// Close releases the underlying device.
func (c *Client) Close() error {
	return c.dev.Close()
}

func triggersBootloader(command string) bool {
	return command == wire.CmdBootloader || command == wire.CmdRebootBootloader
}

func (c *Client) bootloaderGone(cause error) Result {
	c.log.Info().Err(cause).Msg("device disconnected during bootloader exchange")
	return Result{
		Status:  wire.StatusBootloaderTriggered,
		Message: "Device entering bootloader",
	}
}
