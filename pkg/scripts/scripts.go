// Package scripts runs the repository's install scripts after the dotfiles
// are linked.
package scripts

import (
	"context"
	"sort"

	"github.com/arthur-debert/dotfiles-installer/pkg/command"
	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/filesystem"
	"github.com/arthur-debert/dotfiles-installer/pkg/internal/hashutil"
	"github.com/arthur-debert/dotfiles-installer/pkg/logging"
	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

const notADirMsg = "install script path %s does not seem to be a directory, this may be caused by missing permissions"

// Runner executes install scripts in sorted order.
type Runner struct {
	fs     filesystem.FS
	cmd    *command.Runner
	logger zerolog.Logger
}

// Report lists what happened to each script, by absolute path.
type Report struct {
	Ran     []string
	Skipped []string
}

// NewRunner creates a script runner.
func NewRunner(fsys filesystem.FS, cmd *command.Runner, logger zerolog.Logger) *Runner {
	return &Runner{
		fs:     fsys,
		cmd:    cmd,
		logger: logging.Component(logger, "scripts"),
	}
}

// Run executes every executable file below dir, sorted by full path. Each
// script receives the dotfiles root as its only argument and runs in the
// repository root. Scripts without execute permission are skipped with a
// warning. The first failing script stops the run.
func (r *Runner) Run(ctx context.Context, dir paths.Root[paths.Scripts], dotfiles paths.Root[paths.Dotfiles], repo paths.Root[paths.Repository]) (*Report, error) {
	info, err := r.fs.Stat(dir.Path())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrScriptsDir, notADirMsg, dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrScriptsDir, notADirMsg, dir)
	}

	scripts, err := filesystem.ListFiles(r.fs, dir.Path())
	if err != nil {
		return nil, err
	}
	sort.Strings(scripts)

	report := &Report{}
	for _, script := range scripts {
		if sum, err := hashutil.CalculateFileChecksum(r.fs, script); err == nil {
			r.logger.Debug().Str("script", script).Str("checksum", sum).Msg("Found install script")
		}

		err := unix.Access(script, unix.X_OK)
		switch {
		case err == nil:
			r.logger.Info().Str("script", script).Msg("Running")
			if err := r.cmd.Run(ctx, script, []string{dotfiles.Path()}, repo.Path()); err != nil {
				return report, err
			}
			report.Ran = append(report.Ran, script)
		case errors.Is(err, unix.EACCES):
			r.logger.Warn().Str("script", script).Msg("Skipping because it does not have execute permissions")
			report.Skipped = append(report.Skipped, script)
		default:
			return report, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to check permissions of %s", script)
		}
	}

	return report, nil
}
