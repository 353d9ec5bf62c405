package flash

import (
	"context"
	"os"
	"os/exec"

	"github.com/rs/zerolog"
)

// Runner executes one plan command. Tests substitute a recording fake so
// nothing is ever exec'd.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs plan commands with os/exec, inheriting the environment
// plus the command's additions.
type ExecRunner struct {
	Log zerolog.Logger
}

func (r ExecRunner) Run(ctx context.Context, cmd Command) error {
	r.Log.Info().Str("cmd", cmd.String()).Msg("run")
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Env = append(os.Environ(), cmd.Env...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
