// Package command runs external programs and reports their output through
// the run's logger.
package command

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/logging"
	"github.com/rs/zerolog"
)

// Runner executes commands to completion, one at a time.
type Runner struct {
	logger zerolog.Logger
}

// NewRunner creates a command runner.
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{logger: logging.Component(logger, "command")}
}

// Run executes name with args in dir and waits for it. Stdin is inherited.
// Captured stdout is logged line by line at info level and stderr at warn
// level. A non-zero exit status or death by signal is returned as a
// COMMAND_FAILED error.
func (r *Runner) Run(ctx context.Context, name string, args []string, dir string) error {
	display := filepath.Base(name)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug().
		Str("command", name).
		Strs("args", args).
		Str("workingDir", dir).
		Msg("Spawning command")

	err := cmd.Run()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return errors.Wrapf(err, errors.ErrCommandSpawn, "failed to spawn %s", display).
			WithDetail("command", name)
	}

	r.logger.Debug().Str("command", display).Str("status", cmd.ProcessState.String()).Msg("Command exited")

	r.logLines(display, "stdout", stdout.String(), r.logger.Info)
	r.logLines(display, "stderr", stderr.String(), r.logger.Warn)

	if exitErr == nil {
		return nil
	}

	failure := errors.Wrapf(err, errors.ErrCommandFailed, "%s returned an error", display).
		WithDetail("command", name).
		WithDetail("exitCode", exitErr.ExitCode())

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		r.logger.Error().
			Str("command", display).
			Str("signal", status.Signal().String()).
			Msg("Command was killed by signal")
		failure = failure.WithDetail("signal", status.Signal().String())
	}

	return failure
}

func (r *Runner) logLines(command, stream, output string, level func() *zerolog.Event) {
	if output == "" {
		r.logger.Debug().Str("command", command).Msgf("No output on %s", stream)
		return
	}

	level().Str("command", command).Msgf("%s %s:", command, stream)
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		level().Str("command", command).Msg("  " + line)
	}
}
