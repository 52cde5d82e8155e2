// Package verify decides whether a live entry in the home directory is
// faithfully preserved by its counterpart in the backup directory. A positive
// answer is the only thing that authorizes the installer to delete the live
// entry.
package verify

import (
	"bytes"
	"io"

	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/filesystem"
	"github.com/arthur-debert/dotfiles-installer/pkg/logging"
	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
	"github.com/rs/zerolog"
)

const chunkSize = 32 * 1024

// Checker compares live entries against their backups.
type Checker struct {
	fs     filesystem.FS
	logger zerolog.Logger
}

// NewChecker creates a checker.
func NewChecker(fsys filesystem.FS, logger zerolog.Logger) *Checker {
	return &Checker{
		fs:     fsys,
		logger: logging.Component(logger, "verify"),
	}
}

// Equivalent reports whether backup is a faithful copy of live.
//
// Entries of different kinds are never equivalent. Regular files must have
// identical contents and symlinks identical raw targets. Directories are
// equivalent when both sides hold the same set of leaves and every pair is
// equivalent. I/O failures and entries of unknown kind are returned as
// errors, never as a false result.
func (c *Checker) Equivalent(live paths.File[paths.Home], backup paths.File[paths.Backup]) (bool, error) {
	c.logger.Debug().Str("live", live.Path()).Str("backup", backup.Path()).Msg("Checking that entries are equal")

	liveKind, err := filesystem.Classify(c.fs, live.Path())
	if err != nil {
		return false, err
	}
	backupKind, err := filesystem.Classify(c.fs, backup.Path())
	if err != nil {
		return false, err
	}

	if liveKind != backupKind {
		c.logger.Warn().
			Str("live", live.Path()).
			Stringer("liveKind", liveKind).
			Str("backup", backup.Path()).
			Stringer("backupKind", backupKind).
			Msg("Entries have different file types")
		return false, nil
	}

	switch liveKind {
	case filesystem.File:
		return c.filesEqual(live.Path(), backup.Path())
	case filesystem.Symlink:
		return c.symlinksEqual(live.Path(), backup.Path())
	case filesystem.Dir:
		return c.dirsEqual(live, backup)
	case filesystem.Absent:
		return false, errors.Newf(errors.ErrInvalidInput,
			"can't compare %s and %s because neither exists", live, backup)
	default:
		return false, errors.Newf(errors.ErrUnknownKind,
			"can't compare %s and %s with unknown file type", live, backup).
			WithDetail("kind", liveKind.String())
	}
}

func (c *Checker) filesEqual(a, b string) (bool, error) {
	fa, err := c.fs.Open(a)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", a)
	}
	defer func() { _ = fa.Close() }()

	fb, err := c.fs.Open(b)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", b)
	}
	defer func() { _ = fb.Close() }()

	equal, err := sameContents(fa, fb)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileRead, "failed to compare %s and %s", a, b)
	}

	if equal {
		c.logger.Trace().Str("a", a).Str("b", b).Msg("Files are equal")
	} else {
		c.logger.Warn().Str("a", a).Str("b", b).Msg("Files have different contents")
	}
	return equal, nil
}

func sameContents(a, b io.Reader) (bool, error) {
	bufA := make([]byte, chunkSize)
	bufB := make([]byte, chunkSize)

	for {
		na, errA := io.ReadFull(a, bufA)
		if errA != nil && errA != io.EOF && errA != io.ErrUnexpectedEOF {
			return false, errA
		}
		nb, errB := io.ReadFull(b, bufB)
		if errB != nil && errB != io.EOF && errB != io.ErrUnexpectedEOF {
			return false, errB
		}

		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		// A short read means both readers are exhausted.
		if na < chunkSize {
			return true, nil
		}
	}
}

func (c *Checker) symlinksEqual(a, b string) (bool, error) {
	targetA, err := c.fs.Readlink(a)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileRead, "failed to read symlink %s", a)
	}
	targetB, err := c.fs.Readlink(b)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileRead, "failed to read symlink %s", b)
	}

	equal := targetA == targetB
	event := c.logger.Trace()
	msg := "Symlinks are equal"
	if !equal {
		event = c.logger.Warn()
		msg = "Symlinks have different targets"
	}
	event.Str("a", a).Str("aTarget", targetA).Str("b", b).Str("bTarget", targetB).Msg(msg)
	return equal, nil
}

func (c *Checker) dirsEqual(live paths.File[paths.Home], backup paths.File[paths.Backup]) (bool, error) {
	liveRoot := live.AsRoot()
	backupRoot := backup.AsRoot()

	liveEntries, err := filesystem.ListRelFiles(c.fs, liveRoot.Path())
	if err != nil {
		return false, err
	}
	for _, rel := range liveEntries {
		equal, err := c.Equivalent(liveRoot.Join(rel), backupRoot.Join(rel))
		if err != nil || !equal {
			return false, err
		}
	}

	// Every backup leaf needs a live counterpart of the same kind. A live
	// directory holds no leaves of its own, so it is not caught above.
	backupEntries, err := filesystem.ListRelFiles(c.fs, backupRoot.Path())
	if err != nil {
		return false, err
	}
	for _, rel := range backupEntries {
		liveKind, err := filesystem.Classify(c.fs, liveRoot.Join(rel).Path())
		if err != nil {
			return false, err
		}
		backupKind, err := filesystem.Classify(c.fs, backupRoot.Join(rel).Path())
		if err != nil {
			return false, err
		}
		if liveKind != backupKind {
			c.logger.Warn().
				Str("live", live.Path()).
				Str("entry", rel.String()).
				Stringer("liveKind", liveKind).
				Stringer("backupKind", backupKind).
				Msg("Backup entry has no matching entry in the live directory")
			return false, nil
		}
	}

	c.logger.Trace().Str("live", live.Path()).Str("backup", backup.Path()).Msg("Directories are equal")
	return true, nil
}
