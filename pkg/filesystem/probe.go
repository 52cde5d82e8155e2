package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
)

// Kind is the type of an on-disk entry, determined without following a
// trailing symlink.
type Kind int

const (
	Absent Kind = iota
	File
	Symlink
	Dir
	Other
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case File:
		return "file"
	case Symlink:
		return "symlink"
	case Dir:
		return "directory"
	default:
		return "other"
	}
}

// KindOf maps a file mode to a Kind.
func KindOf(mode fs.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return File
	case mode&fs.ModeSymlink != 0:
		return Symlink
	case mode.IsDir():
		return Dir
	default:
		return Other
	}
}

// Classify returns the kind of the entry at path. A dangling symlink is a
// Symlink, not Absent. Metadata errors other than not-exist are returned.
func Classify(fsys FS, path string) (Kind, error) {
	info, err := fsys.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Absent, nil
		}
		return Other, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to get metadata for %s", path)
	}
	return KindOf(info.Mode()), nil
}

// Exists reports whether anything, including a dangling symlink, is at path.
func Exists(fsys FS, path string) (bool, error) {
	kind, err := Classify(fsys, path)
	if err != nil {
		return false, err
	}
	return kind != Absent, nil
}

// ListFiles returns the absolute path of every non-directory entry below
// root, descending into sub-directories. Symlinks are leaves and are never
// followed. Any read error aborts the listing.
func ListFiles(fsys FS, root string) ([]string, error) {
	var files []string
	if err := walk(fsys, root, func(path string) {
		files = append(files, path)
	}); err != nil {
		return nil, err
	}
	return files, nil
}

// ListRelFiles is ListFiles with each entry made relative to root.
func ListRelFiles(fsys FS, root string) ([]paths.RelPath, error) {
	var rels []paths.RelPath
	var relErr error
	err := walk(fsys, root, func(path string) {
		if relErr != nil {
			return
		}
		rel, err := paths.RelTo(root, path)
		if err != nil {
			relErr = err
			return
		}
		rels = append(rels, rel)
	})
	if err != nil {
		return nil, err
	}
	if relErr != nil {
		return nil, relErr
	}
	return rels, nil
}

func walk(fsys FS, dir string, visit func(path string)) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead,
			"failed to read directory %s", dir)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		// DirEntry.Type comes from lstat-like information, so symlinks to
		// directories are reported as symlinks.
		if entry.Type().IsDir() {
			if err := walk(fsys, path, visit); err != nil {
				return err
			}
			continue
		}
		visit(path)
	}
	return nil
}
