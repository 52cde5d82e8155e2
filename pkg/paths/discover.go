package paths

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
)

const (
	// GitMarker is the directory that identifies the repository root.
	GitMarker = ".git"

	// RepoEnvVar points discovery at a repository instead of the binary's
	// location.
	RepoEnvVar = "DOTFILES_INSTALLER_REPO"
)

// Layout names the repository sub-directories and the home entry the
// installer manages. Values are relative paths.
type Layout struct {
	FilesDir          string
	SubmodulesDir     string
	ScriptsDir        string
	HomeSubmoduleLink string
}

// DefaultLayout mirrors the repository layout the installer ships with.
var DefaultLayout = Layout{
	FilesDir:          "files",
	SubmodulesDir:     "submodules",
	ScriptsDir:        "installer/scripts",
	HomeSubmoduleLink: ".dotfiles-submodules",
}

// Locations holds every root resolved for one run. It is read-only once
// built.
type Locations struct {
	Home       Root[Home]
	Repo       Root[Repository]
	Dotfiles   Root[Dotfiles]
	Submodules Root[Submodules]
	Scripts    Root[Scripts]

	// SubmoduleLink is the home entry kept as a symlink to Submodules.
	SubmoduleLink RelPath
}

// NewLocations derives the repository sub-roots from layout.
func NewLocations(home Root[Home], repo Root[Repository], layout Layout) (Locations, error) {
	files, err := NewRelPath(layout.FilesDir)
	if err != nil {
		return Locations{}, errors.Wrap(err, errors.ErrConfigParse, "invalid files directory")
	}
	submodules, err := NewRelPath(layout.SubmodulesDir)
	if err != nil {
		return Locations{}, errors.Wrap(err, errors.ErrConfigParse, "invalid submodules directory")
	}
	scripts, err := NewRelPath(layout.ScriptsDir)
	if err != nil {
		return Locations{}, errors.Wrap(err, errors.ErrConfigParse, "invalid scripts directory")
	}
	link, err := NewRelPath(layout.HomeSubmoduleLink)
	if err != nil {
		return Locations{}, errors.Wrap(err, errors.ErrConfigParse, "invalid home submodule link")
	}

	return Locations{
		Home:          home,
		Repo:          repo,
		Dotfiles:      Sub[Dotfiles](repo, files),
		Submodules:    Sub[Submodules](repo, submodules),
		Scripts:       Sub[Scripts](repo, scripts),
		SubmoduleLink: link,
	}, nil
}

// FindRepoRoot returns the closest ancestor of start (start included) that
// contains a .git directory.
func FindRepoRoot(start string) (Root[Repository], error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return Root[Repository]{}, errors.Wrapf(err, errors.ErrEnvironment,
			"failed to get absolute path for %s", start)
	}

	dir := abs
	for {
		info, err := os.Stat(filepath.Join(dir, GitMarker))
		if err == nil && info.IsDir() {
			return NewRoot[Repository](dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return Root[Repository]{}, errors.Newf(errors.ErrEnvironment,
		"couldn't find the root of the dotfile repository above %s, make sure to run this binary inside the repo", abs).
		WithDetail("start", abs)
}

// FindRepoRootFromExecutable searches upwards from the running binary.
func FindRepoRootFromExecutable() (Root[Repository], error) {
	exe, err := os.Executable()
	if err != nil {
		return Root[Repository]{}, errors.Wrap(err, errors.ErrEnvironment,
			"failed to get the path to the binary")
	}
	return FindRepoRoot(filepath.Dir(exe))
}

// DiscoverRepo resolves the repository root. An explicit override wins, then
// RepoEnvVar, then the location of the running binary. Overrides may point
// anywhere inside the repository.
func DiscoverRepo(override string) (Root[Repository], error) {
	if override != "" {
		return FindRepoRoot(override)
	}
	if fromEnv := os.Getenv(RepoEnvVar); fromEnv != "" {
		return FindRepoRoot(fromEnv)
	}
	return FindRepoRootFromExecutable()
}

// FindHome returns the current user's home directory from the account
// database, falling back to $HOME when the lookup fails.
func FindHome() (Root[Home], error) {
	u, err := user.Current()
	if err == nil && u.HomeDir != "" {
		return NewRoot[Home](u.HomeDir)
	}

	if home := os.Getenv("HOME"); home != "" {
		return NewRoot[Home](home)
	}

	if err == nil {
		err = errors.New(errors.ErrEnvironment, "account record has no home directory")
	}
	return Root[Home]{}, errors.Wrap(err, errors.ErrEnvironment,
		"failed to get user info for the current user")
}
