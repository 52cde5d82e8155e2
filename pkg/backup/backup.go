// Package backup snapshots everything the installer is about to replace.
//
// Each run creates a fresh directory named after the current time below the
// home directory and mirrors every pre-existing managed entry into it before
// anything is removed. The directory is never reused or deleted.
package backup

import (
	_ "embed"
	"io/fs"
	"time"

	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/filesystem"
	"github.com/arthur-debert/dotfiles-installer/pkg/logging"
	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
	cp "github.com/otiai10/copy"
	"github.com/rs/zerolog"
)

const (
	// DefaultPrefix starts every backup directory name.
	DefaultPrefix = "dotfiles-backup_"

	// TimestampFormat completes the backup directory name. It includes
	// seconds, so two runs only collide when started in the same second.
	TimestampFormat = "2006-01-02_15:04:05"

	// ReadmeFile is the explanatory note written into each backup.
	ReadmeFile = "README.md"
)

//go:embed README.md
var readmeContents []byte

// Options configures an Engine
type Options struct {
	// Prefix replaces DefaultPrefix when set.
	Prefix string

	// Now is the clock used to name the backup directory.
	Now func() time.Time
}

// Engine creates backups.
type Engine struct {
	fs     filesystem.FS
	logger zerolog.Logger
	prefix string
	now    func() time.Time
}

// Result describes one backup.
type Result struct {
	Root paths.Root[paths.Backup]

	// Saved lists the relative paths copied into Root, in copy order.
	Saved []paths.RelPath
}

// NewEngine creates a backup engine.
func NewEngine(fsys filesystem.FS, logger zerolog.Logger, opts Options) *Engine {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		fs:     fsys,
		logger: logging.Component(logger, "backup"),
		prefix: prefix,
		now:    now,
	}
}

// Create makes a new backup directory under home and copies into it every
// managed file that currently exists in home, followed by the submodule link
// slot. It fails if the backup directory already exists.
func (e *Engine) Create(home paths.Root[paths.Home], files []paths.RelPath, submoduleLink paths.RelPath) (*Result, error) {
	root, err := e.createDir(home)
	if err != nil {
		return nil, err
	}
	result := &Result{Root: root}

	for _, rel := range files {
		e.logger.Info().Str("file", rel.String()).Msg("Backing up")
		saved, err := e.backupFile(home, root, rel)
		if err != nil {
			return nil, err
		}
		if saved {
			result.Saved = append(result.Saved, rel)
		}
	}

	saved, err := e.backupSubmodules(home, root, submoduleLink)
	if err != nil {
		return nil, err
	}
	result.Saved = append(result.Saved, saved...)

	return result, nil
}

func (e *Engine) createDir(home paths.Root[paths.Home]) (paths.Root[paths.Backup], error) {
	name, err := paths.NewRelPath(e.prefix + e.now().Format(TimestampFormat))
	if err != nil {
		return paths.Root[paths.Backup]{}, err
	}
	root := paths.Sub[paths.Backup](home, name)

	e.logger.Info().Str("path", root.Path()).Msg("Creating backup directory")
	if err := e.fs.Mkdir(root.Path(), 0755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return paths.Root[paths.Backup]{}, errors.Wrapf(err, errors.ErrBackupExists,
				"backup directory %s already exists", root)
		}
		return paths.Root[paths.Backup]{}, errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create backup directory %s", root)
	}

	readme := root.Join(paths.MustRelPath(ReadmeFile))
	e.logger.Debug().Str("path", readme.Path()).Msg("Creating readme file")
	if err := e.fs.WriteFile(readme.Path(), readmeContents, 0644); err != nil {
		return paths.Root[paths.Backup]{}, errors.Wrapf(err, errors.ErrFileWrite,
			"failed to create readme file %s", readme)
	}

	return root, nil
}

// backupFile copies one entry from home into the backup. It reports false
// when there was nothing to copy.
func (e *Engine) backupFile(home paths.Root[paths.Home], root paths.Root[paths.Backup], rel paths.RelPath) (bool, error) {
	src := home.Join(rel)
	dst := root.Join(rel)

	kind, err := filesystem.Classify(e.fs, src.Path())
	if err != nil {
		return false, err
	}
	if kind == filesystem.Absent {
		e.logger.Debug().Str("path", src.Path()).Msg("Not backing up because it doesn't exist")
		return false, nil
	}

	e.logger.Trace().Str("from", src.Path()).Str("to", dst.Path()).Msg("Backing up")
	if err := e.ensureParent(dst); err != nil {
		return false, err
	}

	switch kind {
	case filesystem.Symlink:
		return true, e.copySymlink(src.Path(), dst.Path())
	case filesystem.File:
		return true, e.copyFile(src.Path(), dst.Path())
	default:
		return false, errors.Newf(errors.ErrUnknownKind,
			"can't back up %s because it is a %s", src, kind).
			WithDetail("kind", kind.String())
	}
}

func (e *Engine) ensureParent(dst paths.File[paths.Backup]) error {
	parent, ok := dst.Parent()
	if !ok {
		return nil
	}
	exists, err := filesystem.Exists(e.fs, parent.Path())
	if err != nil || exists {
		return err
	}
	e.logger.Debug().Str("path", parent.Path()).Msg("Creating subdirectory in backup directory")
	if err := e.fs.MkdirAll(parent.Path(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", parent)
	}
	return nil
}

func (e *Engine) copySymlink(src, dst string) error {
	target, err := e.fs.Readlink(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "failed to read symlink %s", src)
	}
	e.logger.Trace().Str("link", src).Str("target", target).Str("to", dst).Msg("Copying symlink")
	if err := e.fs.Symlink(target, dst); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate,
			"failed to copy symlink (%s -> %s) to %s", src, target, dst)
	}
	return nil
}

func (e *Engine) copyFile(src, dst string) error {
	opts := cp.Options{
		PermissionControl: cp.PerservePermission,
		PreserveTimes:     false,
		PreserveOwner:     false,
	}
	if err := cp.Copy(src, dst, opts); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to copy %s to %s", src, dst)
	}
	return nil
}

// backupSubmodules saves the home submodule slot. A symlink is saved like
// any managed file. A directory is saved leaf by leaf through backupFile, so
// symlinks stay symlinks and special files stop the backup.
func (e *Engine) backupSubmodules(home paths.Root[paths.Home], root paths.Root[paths.Backup], link paths.RelPath) ([]paths.RelPath, error) {
	slot := home.Join(link)

	kind, err := filesystem.Classify(e.fs, slot.Path())
	if err != nil {
		return nil, err
	}
	e.logger.Debug().Str("path", slot.Path()).Stringer("kind", kind).Msg("Got submodule dir type")

	switch kind {
	case filesystem.Absent:
		e.logger.Debug().Str("path", slot.Path()).Msg("Not backing up submodule dir because it doesn't exist")
		return nil, nil

	case filesystem.Symlink:
		e.logger.Info().Str("path", link.String()).Msg("Backing up submodules by copying symlink")
		if _, err := e.backupFile(home, root, link); err != nil {
			return nil, err
		}
		return []paths.RelPath{link}, nil

	case filesystem.Dir:
		e.logger.Info().Str("path", link.String()).Msg("Backing up submodules by copying file-by-file")
		leaves, err := filesystem.ListRelFiles(e.fs, slot.Path())
		if err != nil {
			return nil, err
		}

		dst := root.Join(link)
		if err := e.fs.MkdirAll(dst.Path(), 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dst)
		}

		saved := make([]paths.RelPath, 0, len(leaves))
		for _, leaf := range leaves {
			rel := link.Join(leaf.Path())
			if _, err := e.backupFile(home, root, rel); err != nil {
				return nil, err
			}
			saved = append(saved, rel)
		}
		e.logger.Info().Int("count", len(saved)).Msg("Backed up files from submodule dir")
		return saved, nil

	default:
		return nil, errors.Newf(errors.ErrUnknownKind,
			"can't back up submodule dir %s because it is a %s", slot, kind).
			WithDetail("kind", kind.String())
	}
}
