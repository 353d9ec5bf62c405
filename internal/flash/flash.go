package flash

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/danmuck/fieldkit/internal/bootwait"
	"github.com/danmuck/fieldkit/internal/features"
)

var (
	ErrInvalidSide       = errors.New("flash: invalid side")
	ErrSideLockViolation = errors.New("flash: side lock violation")
	ErrSideUnavailable   = errors.New("flash: keyboard side unavailable")
	ErrBuildFailed       = errors.New("flash: build failed")
	ErrDeployFailed      = errors.New("flash: deploy failed")
)

// DeviceClient is the slice of the host client the flasher needs.
type DeviceClient interface {
	SideInfo(ctx context.Context) (map[string]string, error)
	TriggerBootloader(ctx context.Context) error
}

// Request describes one flash invocation.
type Request struct {
	// Side is "left", "right", or "auto" (resolve from the device when the
	// board carries a side lock).
	Side string
	// KeyboardDir is the QMK keyboard directory for feature detection.
	KeyboardDir string
	// Force skips side-lock enforcement and flashes Side as given.
	Force bool
}

// Manager sequences one flash end to end.
type Manager struct {
	runner   Runner
	client   DeviceClient
	waitOpts []bootwait.Option
	log      zerolog.Logger
}

func NewManager(runner Runner, client DeviceClient, log zerolog.Logger, waitOpts ...bootwait.Option) *Manager {
	return &Manager{
		runner:   runner,
		client:   client,
		waitOpts: waitOpts,
		log:      log.With().Str("component", "fieldkit.flash").Logger(),
	}
}

// Flash detects features, resolves the side against any side lock, builds
// the plan and runs it: clean, build, optional bootloader entry + wait,
// optional deploy.
func (m *Manager) Flash(ctx context.Context, req Request) error {
	feats, err := features.Detect(req.KeyboardDir)
	if err != nil {
		return err
	}

	side := req.Side
	if feats.SplitEnabled && feats.SideLockEnabled {
		side, err = m.resolveSide(ctx, req, feats)
		if err != nil {
			return err
		}
	} else if side == "auto" {
		return fmt.Errorf("%w: auto side needs side lock enabled", ErrInvalidSide)
	}

	plan, err := BuildPlan(feats, side)
	if err != nil {
		return err
	}

	m.log.Info().
		Str("keyboard", feats.Keyboard).
		Str("side", side).
		Bool("auto_bootloader", feats.AutoBootloader).
		Msg("flashing")

	if err := m.runner.Run(ctx, Command{Name: "qmk", Args: []string{"clean"}}); err != nil {
		return fmt.Errorf("%w: clean: %v", ErrBuildFailed, err)
	}
	if err := m.runner.Run(ctx, plan.Build); err != nil {
		return fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}

	if plan.NeedsBootloader {
		if err := m.enterBootloader(ctx, feats); err != nil {
			return err
		}
	}

	if plan.Deploy != nil {
		if err := m.runner.Run(ctx, *plan.Deploy); err != nil {
			return fmt.Errorf("%w: %v", ErrDeployFailed, err)
		}
	}

	m.log.Info().Str("side", side).Msg("flash complete")
	return nil
}

// resolveSide enforces the side lock: the device is queried for its
// configured side and a mismatching explicit request aborts unless forced.
func (m *Manager) resolveSide(ctx context.Context, req Request, feats features.Features) (string, error) {
	if req.Force {
		m.log.Warn().Str("side", req.Side).Msg("side lock bypassed with force")
		if req.Side != "left" && req.Side != "right" {
			return "", fmt.Errorf("%w: %q", ErrInvalidSide, req.Side)
		}
		return req.Side, nil
	}

	if m.client == nil {
		return "", fmt.Errorf("%w: no device connection for side lock", ErrSideUnavailable)
	}
	info, err := m.client.SideInfo(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSideUnavailable, err)
	}
	current := info["SIDE"]
	if current != "left" && current != "right" {
		return "", fmt.Errorf("%w: device reported side %q", ErrSideUnavailable, current)
	}
	m.log.Info().Str("side", current).Msg("keyboard reports side")

	if req.Side != "auto" && req.Side != current {
		return "", fmt.Errorf("%w: requested %q but keyboard is configured as %q",
			ErrSideLockViolation, req.Side, current)
	}
	return current, nil
}

func (m *Manager) enterBootloader(ctx context.Context, feats features.Features) error {
	if m.client != nil {
		if err := m.client.TriggerBootloader(ctx); err != nil {
			m.log.Warn().Err(err).Msg("hid bootloader entry failed, waiting for manual entry")
		}
	} else {
		m.log.Warn().Msg("no device connection, waiting for manual bootloader entry")
	}

	if feats.MCUFamily != "rp2040" {
		// Only the RP2040 path has a reliable appearance probe today.
		return nil
	}
	return bootwait.Wait(ctx, m.waitOpts...)
}
