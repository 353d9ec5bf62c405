package flash

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/fieldkit/internal/bootwait"
	"github.com/danmuck/fieldkit/internal/testutil/testlog"
)

type fakeRunner struct {
	commands []Command
	failOn   string
}

func (r *fakeRunner) Run(_ context.Context, cmd Command) error {
	r.commands = append(r.commands, cmd)
	if r.failOn != "" && cmd.String() == r.failOn {
		return errors.New("boom")
	}
	return nil
}

type fakeClient struct {
	side          string
	sideErr       error
	triggered     bool
	triggerErr    error
	sideQueried   bool
	triggerCalled int
}

func (c *fakeClient) SideInfo(context.Context) (map[string]string, error) {
	c.sideQueried = true
	if c.sideErr != nil {
		return nil, c.sideErr
	}
	return map[string]string{"SIDE": c.side, "SPLIT": "true"}, nil
}

func (c *fakeClient) TriggerBootloader(context.Context) error {
	c.triggerCalled++
	if c.triggerErr != nil {
		return c.triggerErr
	}
	c.triggered = true
	return nil
}

func writeKeyboard(t *testing.T, kbJSON, rules string) string {
	t.Helper()
	dir := t.TempDir()
	if kbJSON != "" {
		if err := os.WriteFile(filepath.Join(dir, "keyboard.json"), []byte(kbJSON), 0o600); err != nil {
			t.Fatalf("write keyboard.json: %v", err)
		}
	}
	if rules != "" {
		if err := os.WriteFile(filepath.Join(dir, "rules.mk"), []byte(rules), 0o600); err != nil {
			t.Fatalf("write rules.mk: %v", err)
		}
	}
	return dir
}

func instantProbe() bootwait.Option {
	return bootwait.WithProbe(func() (bool, error) { return true, nil })
}

const splitRP2040 = `{
	"keyboard_name": "corne",
	"bootloader": "rp2040",
	"split": {"enabled": true, "transport": {"protocol": "serial"}}
}`

func TestFlashSplitAutoBootloader(t *testing.T) {
	testlog.Start(t)

	dir := writeKeyboard(t, splitRP2040, "AUTO_BOOTLOADER_ENABLE = yes\n")
	runner := &fakeRunner{}
	client := &fakeClient{side: "left"}
	mgr := NewManager(runner, client, zerolog.Nop(), instantProbe(), bootwait.WithTimeout(time.Second))

	if err := mgr.Flash(context.Background(), Request{Side: "left", KeyboardDir: dir}); err != nil {
		t.Fatalf("flash: %v", err)
	}

	if len(runner.commands) != 3 {
		t.Fatalf("expected clean+build+deploy, got %v", runner.commands)
	}
	if runner.commands[0].String() != "qmk clean" {
		t.Fatalf("expected clean first, got %v", runner.commands[0])
	}
	if runner.commands[1].Env[0] != "EXTRAFLAGS=-DMASTER_LEFT -DINIT_EE_HANDS_LEFT" {
		t.Fatalf("side flags not baked into build: %v", runner.commands[1].Env)
	}
	if !client.triggered {
		t.Fatalf("bootloader was not triggered")
	}
}

func TestFlashSideLockMismatchAborts(t *testing.T) {
	testlog.Start(t)

	dir := writeKeyboard(t, splitRP2040, "SIDE_LOCK_ENABLE = yes\n")
	runner := &fakeRunner{}
	client := &fakeClient{side: "right"}
	mgr := NewManager(runner, client, zerolog.Nop(), instantProbe())

	err := mgr.Flash(context.Background(), Request{Side: "left", KeyboardDir: dir})
	if !errors.Is(err, ErrSideLockViolation) {
		t.Fatalf("expected ErrSideLockViolation, got %v", err)
	}
	if len(runner.commands) != 0 {
		t.Fatalf("nothing should run after a side lock violation: %v", runner.commands)
	}
}

func TestFlashSideLockAutoResolves(t *testing.T) {
	testlog.Start(t)

	dir := writeKeyboard(t, splitRP2040, "SIDE_LOCK_ENABLE = yes\n")
	runner := &fakeRunner{}
	client := &fakeClient{side: "right"}
	mgr := NewManager(runner, client, zerolog.Nop(), instantProbe())

	if err := mgr.Flash(context.Background(), Request{Side: "auto", KeyboardDir: dir}); err != nil {
		t.Fatalf("flash: %v", err)
	}
	if !client.sideQueried {
		t.Fatalf("side lock should query the device")
	}
	// No auto bootloader: single qmk flash with the device-reported side.
	if runner.commands[1].String() != "qmk flash -bl uf2-split-right" {
		t.Fatalf("unexpected flash command: %v", runner.commands[1])
	}
}

func TestFlashForceBypassesSideLock(t *testing.T) {
	testlog.Start(t)

	dir := writeKeyboard(t, splitRP2040, "SIDE_LOCK_ENABLE = yes\n")
	runner := &fakeRunner{}
	client := &fakeClient{side: "right"}
	mgr := NewManager(runner, client, zerolog.Nop(), instantProbe())

	if err := mgr.Flash(context.Background(), Request{Side: "left", KeyboardDir: dir, Force: true}); err != nil {
		t.Fatalf("flash: %v", err)
	}
	if client.sideQueried {
		t.Fatalf("force must skip the side query")
	}
	if runner.commands[1].String() != "qmk flash -bl uf2-split-left" {
		t.Fatalf("unexpected flash command: %v", runner.commands[1])
	}
}

func TestFlashBuildFailureStops(t *testing.T) {
	testlog.Start(t)

	dir := writeKeyboard(t, splitRP2040, "")
	runner := &fakeRunner{failOn: "qmk clean"}
	mgr := NewManager(runner, nil, zerolog.Nop(), instantProbe())

	err := mgr.Flash(context.Background(), Request{Side: "left", KeyboardDir: dir})
	if !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("expected ErrBuildFailed, got %v", err)
	}
	if len(runner.commands) != 1 {
		t.Fatalf("expected stop after clean, got %v", runner.commands)
	}
}

func TestFlashAutoSideWithoutSideLock(t *testing.T) {
	testlog.Start(t)

	dir := writeKeyboard(t, splitRP2040, "")
	mgr := NewManager(&fakeRunner{}, nil, zerolog.Nop())

	err := mgr.Flash(context.Background(), Request{Side: "auto", KeyboardDir: dir})
	if !errors.Is(err, ErrInvalidSide) {
		t.Fatalf("expected ErrInvalidSide, got %v", err)
	}
}
