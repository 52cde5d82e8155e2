package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRepoRoot(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(repo, paths.GitMarker), 0755))
	deep := filepath.Join(repo, "installer", "target", "release")
	require.NoError(t, os.MkdirAll(deep, 0755))

	t.Run("from_nested_directory", func(t *testing.T) {
		root, err := paths.FindRepoRoot(deep)
		require.NoError(t, err)
		assert.Equal(t, repo, root.Path())
	})

	t.Run("from_root_itself", func(t *testing.T) {
		root, err := paths.FindRepoRoot(repo)
		require.NoError(t, err)
		assert.Equal(t, repo, root.Path())
	})
}

func TestFindRepoRootIgnoresGitFile(t *testing.T) {
	dir := t.TempDir()
	// A .git file (worktree pointer) is not a repository marker here.
	require.NoError(t, os.WriteFile(filepath.Join(dir, paths.GitMarker), []byte("gitdir: x"), 0644))

	root, err := paths.FindRepoRoot(dir)
	if err != nil {
		assert.True(t, errors.IsErrorCode(err, errors.ErrEnvironment))
		return
	}
	assert.NotEqual(t, dir, root.Path())
}

func TestNewLocations(t *testing.T) {
	home := paths.MustRoot[paths.Home]("/home/user")
	repo := paths.MustRoot[paths.Repository]("/src/dotfiles")

	locs, err := paths.NewLocations(home, repo, paths.DefaultLayout)
	require.NoError(t, err)

	assert.Equal(t, "/src/dotfiles/files", locs.Dotfiles.Path())
	assert.Equal(t, "/src/dotfiles/submodules", locs.Submodules.Path())
	assert.Equal(t, "/src/dotfiles/installer/scripts", locs.Scripts.Path())
	assert.Equal(t, ".dotfiles-submodules", locs.SubmoduleLink.String())
	assert.Equal(t, home, locs.Home)
	assert.Equal(t, repo, locs.Repo)
}

func TestNewLocationsRejectsAbsoluteLayout(t *testing.T) {
	layout := paths.DefaultLayout
	layout.ScriptsDir = "/usr/bin"

	_, err := paths.NewLocations(
		paths.MustRoot[paths.Home]("/home/user"),
		paths.MustRoot[paths.Repository]("/src/dotfiles"),
		layout,
	)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestFindHome(t *testing.T) {
	home, err := paths.FindHome()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(home.Path()))
}

func TestDiscoverRepo(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(repo, paths.GitMarker), 0755))
	inside := filepath.Join(repo, "files")
	require.NoError(t, os.Mkdir(inside, 0755))

	t.Run("override", func(t *testing.T) {
		t.Setenv(paths.RepoEnvVar, "")
		root, err := paths.DiscoverRepo(inside)
		require.NoError(t, err)
		assert.Equal(t, repo, root.Path())
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(paths.RepoEnvVar, inside)
		root, err := paths.DiscoverRepo("")
		require.NoError(t, err)
		assert.Equal(t, repo, root.Path())
	})

	t.Run("override_beats_environment", func(t *testing.T) {
		other := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(other, paths.GitMarker), 0755))
		t.Setenv(paths.RepoEnvVar, inside)

		root, err := paths.DiscoverRepo(other)
		require.NoError(t, err)
		assert.Equal(t, other, root.Path())
	})
}
