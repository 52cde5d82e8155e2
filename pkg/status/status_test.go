package status_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotfiles-installer/pkg/filesystem"
	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
	"github.com/arthur-debert/dotfiles-installer/pkg/status"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func setup(t *testing.T) paths.Locations {
	t.Helper()
	home := paths.MustRoot[paths.Home](t.TempDir())
	repo := paths.MustRoot[paths.Repository](t.TempDir())
	locs, err := paths.NewLocations(home, repo, paths.DefaultLayout)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(locs.Dotfiles.Path(), 0755))
	require.NoError(t, os.MkdirAll(locs.Submodules.Path(), 0755))
	return locs
}

func write(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func check(t *testing.T, locs paths.Locations) *status.Report {
	t.Helper()
	report, err := status.NewChecker(filesystem.NewOS(), zerolog.New(zerolog.NewTestWriter(t))).Check(locs)
	require.NoError(t, err)
	return report
}

func TestCheckStates(t *testing.T) {
	locs := setup(t)
	for _, name := range []string{"linked", "missing", "conflict", "foreign"} {
		write(t, filepath.Join(locs.Dotfiles.Path(), name))
	}
	home := locs.Home.Path()
	require.NoError(t, os.Symlink(filepath.Join(locs.Dotfiles.Path(), "linked"), filepath.Join(home, "linked")))
	write(t, filepath.Join(home, "conflict"))
	require.NoError(t, os.Symlink("/elsewhere", filepath.Join(home, "foreign")))

	report := check(t, locs)

	got := map[string]status.State{}
	for _, e := range report.Entries {
		got[e.Path] = e.State
	}
	assert.Equal(t, map[string]status.State{
		"linked":   status.StateLinked,
		"missing":  status.StateMissing,
		"conflict": status.StateConflict,
		"foreign":  status.StateForeignLink,
	}, got)

	assert.Equal(t, status.StateMissing, report.Submodules.State)
	assert.Equal(t, ".dotfiles-submodules", report.Submodules.Path)
	assert.False(t, report.Installed())
	assert.Equal(t, map[status.State]int{
		status.StateLinked:      1,
		status.StateMissing:     2,
		status.StateConflict:    1,
		status.StateForeignLink: 1,
	}, report.Counts())
	assert.Len(t, report.Pending(), 4)
}

func TestCheckFullyInstalled(t *testing.T) {
	locs := setup(t)
	write(t, filepath.Join(locs.Dotfiles.Path(), ".config", "app.toml"))
	require.NoError(t, os.MkdirAll(filepath.Join(locs.Home.Path(), ".config"), 0755))
	require.NoError(t, os.Symlink(
		filepath.Join(locs.Dotfiles.Path(), ".config", "app.toml"),
		filepath.Join(locs.Home.Path(), ".config", "app.toml")))
	require.NoError(t, os.Symlink(locs.Submodules.Path(), filepath.Join(locs.Home.Path(), ".dotfiles-submodules")))

	report := check(t, locs)

	assert.True(t, report.Installed())
	assert.Empty(t, report.Pending())
}

func TestCheckSubmoduleDirectoryIsConflict(t *testing.T) {
	locs := setup(t)
	write(t, filepath.Join(locs.Home.Path(), ".dotfiles-submodules", "plugin"))

	report := check(t, locs)

	assert.Equal(t, status.StateConflict, report.Submodules.State)
	assert.Equal(t, "directory", report.Submodules.Kind)
}

func TestReportYAML(t *testing.T) {
	locs := setup(t)
	write(t, filepath.Join(locs.Dotfiles.Path(), "a"))

	out, err := check(t, locs).YAML()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, locs.Home.Path(), decoded["home"])
	entries, ok := decoded["entries"].([]interface{})
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "missing", entries[0].(map[string]interface{})["state"])
}
