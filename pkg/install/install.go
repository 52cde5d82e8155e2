// Package install reconciles the home directory with the dotfiles
// repository. Every managed path is backed up, proven equal to its backup,
// removed and replaced by a symlink into the repository, in that order.
package install

import (
	"context"

	"github.com/arthur-debert/dotfiles-installer/pkg/backup"
	"github.com/arthur-debert/dotfiles-installer/pkg/command"
	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/filesystem"
	"github.com/arthur-debert/dotfiles-installer/pkg/logging"
	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
	"github.com/arthur-debert/dotfiles-installer/pkg/scripts"
	"github.com/arthur-debert/dotfiles-installer/pkg/verify"
	"github.com/rs/zerolog"
)

// DefaultCheckoutCommand checks out the repository's submodules.
var DefaultCheckoutCommand = []string{"git", "submodule", "update", "--init", "--recursive"}

// Options configures an Installer
type Options struct {
	// Locations are the roots resolved for this run.
	Locations paths.Locations

	// CheckoutSubmodules runs CheckoutCommand before anything else.
	CheckoutSubmodules bool

	// CheckoutCommand defaults to DefaultCheckoutCommand.
	CheckoutCommand []string

	// Backup configures the backup engine.
	Backup backup.Options

	// SkipScripts disables the install scripts.
	SkipScripts bool
}

// Installer runs the install flow.
type Installer struct {
	fs      filesystem.FS
	logger  zerolog.Logger
	locs    paths.Locations
	opts    Options
	checker *verify.Checker
	backups *backup.Engine
	cmd     *command.Runner
	scripts *scripts.Runner
}

// Summary describes a completed run.
type Summary struct {
	Backup  *backup.Result
	Linked  []paths.RelPath
	Removed []paths.RelPath
	Scripts *scripts.Report
}

// New creates an installer.
func New(fsys filesystem.FS, logger zerolog.Logger, opts Options) *Installer {
	if len(opts.CheckoutCommand) == 0 {
		opts.CheckoutCommand = DefaultCheckoutCommand
	}
	cmd := command.NewRunner(logger)
	return &Installer{
		fs:      fsys,
		logger:  logging.Component(logger, "install"),
		locs:    opts.Locations,
		opts:    opts,
		checker: verify.NewChecker(fsys, logger),
		backups: backup.NewEngine(fsys, logger, opts.Backup),
		cmd:     cmd,
		scripts: scripts.NewRunner(fsys, cmd, logger),
	}
}

// Run checks out submodules, backs up everything about to be replaced, links
// every managed file and the submodule directory, then runs the install
// scripts. It stops at the first error.
func (i *Installer) Run(ctx context.Context) (*Summary, error) {
	done := logging.LogOperationStart(i.logger, "install")
	defer done()

	i.logger.Debug().
		Str("home", i.locs.Home.Path()).
		Str("repo", i.locs.Repo.Path()).
		Str("dotfiles", i.locs.Dotfiles.Path()).
		Msg("Using locations")

	if err := i.CheckoutSubmodules(ctx); err != nil {
		return nil, err
	}

	files, err := filesystem.ListRelFiles(i.fs, i.locs.Dotfiles.Path())
	if err != nil {
		return nil, err
	}
	i.logger.Debug().Int("count", len(files)).Msg("Found managed files")

	result, err := i.backups.Create(i.locs.Home, files, i.locs.SubmoduleLink)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Backup: result}

	for _, rel := range files {
		removed, err := i.InstallFile(rel, result.Root)
		if err != nil {
			return summary, err
		}
		if removed {
			summary.Removed = append(summary.Removed, rel)
		}
		summary.Linked = append(summary.Linked, rel)
	}

	removed, err := i.LinkSubmodules(result.Root)
	if err != nil {
		return summary, err
	}
	if removed {
		summary.Removed = append(summary.Removed, i.locs.SubmoduleLink)
	}
	summary.Linked = append(summary.Linked, i.locs.SubmoduleLink)

	if i.opts.SkipScripts {
		i.logger.Info().Msg("Skipping install scripts")
		return summary, nil
	}
	report, err := i.scripts.Run(ctx, i.locs.Scripts, i.locs.Dotfiles, i.locs.Repo)
	summary.Scripts = report
	if err != nil {
		return summary, err
	}

	return summary, nil
}

// CheckoutSubmodules runs the checkout command in the repository root when
// enabled.
func (i *Installer) CheckoutSubmodules(ctx context.Context) error {
	if !i.opts.CheckoutSubmodules {
		i.logger.Debug().Msg("Submodule checkout disabled")
		return nil
	}
	i.logger.Info().Msg("Checking out submodules")
	name, args := i.opts.CheckoutCommand[0], i.opts.CheckoutCommand[1:]
	return i.cmd.Run(ctx, name, args, i.locs.Repo.Path())
}

// InstallFile replaces the home entry for rel with a symlink to the
// repository copy. An existing entry is only removed once it is proven equal
// to its copy in backupRoot. It reports whether an entry was removed.
func (i *Installer) InstallFile(rel paths.RelPath, backupRoot paths.Root[paths.Backup]) (bool, error) {
	live := i.locs.Home.Join(rel)
	i.logger.Info().Str("file", rel.String()).Msg("Installing")
	target := i.locs.Dotfiles.Join(rel)
	return i.replace(live, backupRoot.Join(rel), func() error { return i.Link(live, target) })
}

// LinkSubmodules points the home submodule slot at the repository's
// submodule directory, removing whatever was there once it is proven equal
// to its backup.
func (i *Installer) LinkSubmodules(backupRoot paths.Root[paths.Backup]) (bool, error) {
	link := i.locs.SubmoduleLink
	i.logger.Info().Str("file", link.String()).Msg("Linking submodules")
	live := i.locs.Home.Join(link)
	return i.replace(live, backupRoot.Join(link), func() error { return i.LinkDir(live, i.locs.Submodules) })
}

func (i *Installer) replace(live paths.File[paths.Home], saved paths.File[paths.Backup], link func() error) (bool, error) {
	exists, err := filesystem.Exists(i.fs, live.Path())
	if err != nil {
		return false, err
	}

	if exists {
		if err := i.VerifyAndRemove(live, saved); err != nil {
			return false, err
		}
	} else if err := i.ensureParent(live); err != nil {
		return false, err
	}

	if err := link(); err != nil {
		return exists, err
	}
	return exists, nil
}

// VerifyAndRemove deletes live only if saved is an equivalent copy of it.
// Files and symlinks are removed directly, directories recursively.
func (i *Installer) VerifyAndRemove(live paths.File[paths.Home], saved paths.File[paths.Backup]) error {
	equal, err := i.checker.Equivalent(live, saved)
	if err != nil {
		return err
	}
	if !equal {
		return errors.Newf(errors.ErrVerification,
			"Not deleting %s because it's not backed up properly. Please check %s", live, saved).
			WithDetail("live", live.Path()).
			WithDetail("backup", saved.Path())
	}

	kind, err := filesystem.Classify(i.fs, live.Path())
	if err != nil {
		return err
	}

	i.logger.Debug().Str("path", live.Path()).Stringer("kind", kind).Msg("Deleting")
	switch kind {
	case filesystem.File, filesystem.Symlink:
		err = i.fs.Remove(live.Path())
	case filesystem.Dir:
		err = i.fs.RemoveAll(live.Path())
	default:
		return errors.Newf(errors.ErrUnknownKind, "can't delete %s because it is a %s", live, kind).
			WithDetail("kind", kind.String())
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrRemove, "failed to delete %s", live)
	}
	return nil
}

// Link points live at its managed file in the repository.
func (i *Installer) Link(live paths.File[paths.Home], target paths.File[paths.Dotfiles]) error {
	return i.link(live, target.Path())
}

// LinkDir points live at the repository's submodule directory.
func (i *Installer) LinkDir(live paths.File[paths.Home], target paths.Root[paths.Submodules]) error {
	return i.link(live, target.Path())
}

func (i *Installer) link(live paths.File[paths.Home], target string) error {
	i.logger.Debug().Str("link", live.Path()).Str("target", target).Msg("Creating symlink")
	if err := i.fs.Symlink(target, live.Path()); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate,
			"failed to create symlink %s -> %s", live, target)
	}
	return nil
}

func (i *Installer) ensureParent(live paths.File[paths.Home]) error {
	parent, ok := live.Parent()
	if !ok {
		return nil
	}
	exists, err := filesystem.Exists(i.fs, parent.Path())
	if err != nil || exists {
		return err
	}
	i.logger.Debug().Str("path", parent.Path()).Msg("Creating parent directory")
	if err := i.fs.MkdirAll(parent.Path(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", parent)
	}
	return nil
}
