package paths

import (
	"path/filepath"

	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
)

// Role tags the directory a path is anchored in.
type Role interface {
	roleName() string
}

// Home is the user's home directory.
type Home struct{}

// Backup is the timestamped backup directory created for one run.
type Backup struct{}

// Repository is the root of the dotfiles repository.
type Repository struct{}

// Dotfiles is the managed file tree inside the repository.
type Dotfiles struct{}

// Submodules is the directory holding the repository's submodules.
type Submodules struct{}

// Scripts is the directory holding the install scripts.
type Scripts struct{}

func (Home) roleName() string       { return "home" }
func (Backup) roleName() string     { return "backup" }
func (Repository) roleName() string { return "repository" }
func (Dotfiles) roleName() string   { return "dotfiles" }
func (Submodules) roleName() string { return "submodules" }
func (Scripts) roleName() string    { return "scripts" }

// RoleName returns the human readable name of role R.
func RoleName[R Role]() string {
	var r R
	return r.roleName()
}

// Root is an absolute directory playing role R.
type Root[R Role] struct {
	path string
}

// NewRoot creates a root from an absolute path.
func NewRoot[R Role](path string) (Root[R], error) {
	if path == "" {
		return Root[R]{}, errors.Newf(errors.ErrInvalidInput, "empty %s root", RoleName[R]())
	}
	if !filepath.IsAbs(path) {
		return Root[R]{}, errors.Newf(errors.ErrInvalidInput,
			"%s root must be absolute: %s", RoleName[R](), path)
	}
	return Root[R]{path: filepath.Clean(path)}, nil
}

// MustRoot is NewRoot for paths known to be valid. It panics otherwise.
func MustRoot[R Role](path string) Root[R] {
	r, err := NewRoot[R](path)
	if err != nil {
		panic(err)
	}
	return r
}

// Path returns the absolute path of the root.
func (r Root[R]) Path() string { return r.path }

// String implements fmt.Stringer.
func (r Root[R]) String() string { return r.path }

// IsZero reports whether the root was never set.
func (r Root[R]) IsZero() bool { return r.path == "" }

// Join anchors rel in this root.
func (r Root[R]) Join(rel RelPath) File[R] {
	return File[R]{root: r, rel: rel}
}

// Sub returns a root of another role located at rel below r.
func Sub[S Role, R Role](r Root[R], rel RelPath) Root[S] {
	return Root[S]{path: filepath.Join(r.path, rel.path)}
}

// File is a relative path anchored in a root of role R.
type File[R Role] struct {
	root Root[R]
	rel  RelPath
}

// Root returns the root the file is anchored in.
func (f File[R]) Root() Root[R] { return f.root }

// Rel returns the relative part of the file.
func (f File[R]) Rel() RelPath { return f.rel }

// Path returns the absolute path of the file.
func (f File[R]) Path() string {
	return filepath.Join(f.root.path, f.rel.path)
}

// String implements fmt.Stringer.
func (f File[R]) String() string { return f.Path() }

// Parent returns the file's parent directory in the same root. It returns
// false when the file sits directly in the root.
func (f File[R]) Parent() (File[R], bool) {
	parent, ok := f.rel.Parent()
	if !ok {
		return File[R]{}, false
	}
	return File[R]{root: f.root, rel: parent}, true
}

// AsRoot treats the file as a directory root of the same role, so entries
// below it can be addressed with relative paths.
func (f File[R]) AsRoot() Root[R] {
	return Root[R]{path: f.Path()}
}

// RelPath is a non-empty relative path. The same RelPath addresses a managed
// file in every root.
type RelPath struct {
	path string
}

// NewRelPath validates and cleans a relative path.
func NewRelPath(path string) (RelPath, error) {
	if path == "" {
		return RelPath{}, errors.New(errors.ErrInvalidInput, "empty relative path")
	}
	if filepath.IsAbs(path) {
		return RelPath{}, errors.Newf(errors.ErrInvalidInput, "relative path is absolute: %s", path)
	}
	cleaned := filepath.Clean(path)
	if cleaned == "." {
		return RelPath{}, errors.Newf(errors.ErrInvalidInput, "relative path names its root: %s", path)
	}
	return RelPath{path: cleaned}, nil
}

// MustRelPath is NewRelPath for constants. It panics on invalid input.
func MustRelPath(path string) RelPath {
	rel, err := NewRelPath(path)
	if err != nil {
		panic(err)
	}
	return rel
}

// RelTo returns target relative to base. target must lie below base.
func RelTo(base, target string) (RelPath, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return RelPath{}, errors.Wrapf(err, errors.ErrInvalidInput,
			"%s is not below %s", target, base)
	}
	return NewRelPath(rel)
}

// Join appends more path elements.
func (p RelPath) Join(elem ...string) RelPath {
	return RelPath{path: filepath.Join(append([]string{p.path}, elem...)...)}
}

// Parent returns the parent relative path, or false for single-component
// paths.
func (p RelPath) Parent() (RelPath, bool) {
	dir := filepath.Dir(p.path)
	if dir == "." {
		return RelPath{}, false
	}
	return RelPath{path: dir}, true
}

// Path returns the relative path as a string.
func (p RelPath) Path() string { return p.path }

// String implements fmt.Stringer.
func (p RelPath) String() string { return p.path }

// IsZero reports whether the path was never set.
func (p RelPath) IsZero() bool { return p.path == "" }
