package backup_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/dotfiles-installer/pkg/backup"
	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/filesystem"
	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

var submoduleLink = paths.MustRelPath(".dotfiles-submodules")

func fixedClock() time.Time {
	return time.Date(2024, 5, 17, 8, 30, 42, 0, time.Local)
}

func newEngine(t *testing.T) *backup.Engine {
	return backup.NewEngine(filesystem.NewOS(), zerolog.New(zerolog.NewTestWriter(t)), backup.Options{Now: fixedClock})
}

func newHome(t *testing.T) paths.Root[paths.Home] {
	return paths.MustRoot[paths.Home](t.TempDir())
}

func write(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func rels(names ...string) []paths.RelPath {
	out := make([]paths.RelPath, 0, len(names))
	for _, n := range names {
		out = append(out, paths.MustRelPath(n))
	}
	return out
}

func TestCreateNamesDirectoryByTimestamp(t *testing.T) {
	home := newHome(t)

	result, err := newEngine(t).Create(home, nil, submoduleLink)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home.Path(), "dotfiles-backup_2024-05-17_08:30:42"), result.Root.Path())
	info, err := os.Stat(result.Root.Path())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	readme, err := os.ReadFile(filepath.Join(result.Root.Path(), backup.ReadmeFile))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "dotfiles-installer backup")
	assert.Empty(t, result.Saved)
}

func TestCreateCustomPrefix(t *testing.T) {
	home := newHome(t)
	engine := backup.NewEngine(filesystem.NewOS(), zerolog.Nop(), backup.Options{Prefix: "pre-", Now: fixedClock})

	result, err := engine.Create(home, nil, submoduleLink)
	require.NoError(t, err)
	assert.Equal(t, "pre-2024-05-17_08:30:42", filepath.Base(result.Root.Path()))
}

func TestCreateTwiceInSameSecondFails(t *testing.T) {
	home := newHome(t)
	engine := newEngine(t)

	_, err := engine.Create(home, nil, submoduleLink)
	require.NoError(t, err)

	_, err = engine.Create(home, nil, submoduleLink)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupExists))
}

func TestBackupCopiesExistingFiles(t *testing.T) {
	home := newHome(t)
	write(t, filepath.Join(home.Path(), "a"), "foo")
	write(t, filepath.Join(home.Path(), ".config", "git", "config"), "[user]")
	require.NoError(t, os.Chmod(filepath.Join(home.Path(), "a"), 0600))

	result, err := newEngine(t).Create(home, rels("a", "b", ".config/git/config"), submoduleLink)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(result.Root.Path(), "a"))
	require.NoError(t, err)
	assert.Equal(t, "foo", string(content))

	info, err := os.Lstat(filepath.Join(result.Root.Path(), "a"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	content, err = os.ReadFile(filepath.Join(result.Root.Path(), ".config", "git", "config"))
	require.NoError(t, err)
	assert.Equal(t, "[user]", string(content))

	// Nothing existed at b, so there is nothing to protect.
	_, err = os.Lstat(filepath.Join(result.Root.Path(), "b"))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, rels("a", ".config/git/config"), result.Saved)
}

func TestBackupCopiesSymlinksVerbatim(t *testing.T) {
	home := newHome(t)
	require.NoError(t, os.Symlink("relative/target", filepath.Join(home.Path(), "rel")))
	require.NoError(t, os.Symlink("/absolute/dangling", filepath.Join(home.Path(), "abs")))

	result, err := newEngine(t).Create(home, rels("rel", "abs"), submoduleLink)
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(result.Root.Path(), "rel"))
	require.NoError(t, err)
	assert.Equal(t, "relative/target", target)

	target, err = os.Readlink(filepath.Join(result.Root.Path(), "abs"))
	require.NoError(t, err)
	assert.Equal(t, "/absolute/dangling", target)
}

func TestBackupRefusesDirectoryAtManagedPath(t *testing.T) {
	home := newHome(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home.Path(), ".vimrc"), 0755))

	_, err := newEngine(t).Create(home, rels(".vimrc"), submoduleLink)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownKind))
}

func TestBackupSubmoduleSymlink(t *testing.T) {
	home := newHome(t)
	require.NoError(t, os.Symlink("/old/repo/submodules", filepath.Join(home.Path(), submoduleLink.String())))

	result, err := newEngine(t).Create(home, nil, submoduleLink)
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(result.Root.Path(), submoduleLink.String()))
	require.NoError(t, err)
	assert.Equal(t, "/old/repo/submodules", target)
	assert.Equal(t, []paths.RelPath{submoduleLink}, result.Saved)
}

func TestBackupSubmoduleDirectory(t *testing.T) {
	home := newHome(t)
	slot := filepath.Join(home.Path(), submoduleLink.String())
	write(t, filepath.Join(slot, "plugin", "init.vim"), "set nu")
	write(t, filepath.Join(slot, "README"), "readme")
	require.NoError(t, os.Symlink("plugin/init.vim", filepath.Join(slot, "link")))

	result, err := newEngine(t).Create(home, nil, submoduleLink)
	require.NoError(t, err)

	saved := filepath.Join(result.Root.Path(), submoduleLink.String())
	content, err := os.ReadFile(filepath.Join(saved, "plugin", "init.vim"))
	require.NoError(t, err)
	assert.Equal(t, "set nu", string(content))

	info, err := os.Lstat(filepath.Join(saved, "link"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "symlinks inside the submodule dir stay symlinks")
	target, err := os.Readlink(filepath.Join(saved, "link"))
	require.NoError(t, err)
	assert.Equal(t, "plugin/init.vim", target)

	assert.ElementsMatch(t,
		rels(".dotfiles-submodules/plugin/init.vim", ".dotfiles-submodules/README", ".dotfiles-submodules/link"),
		result.Saved)
}

func TestBackupSubmoduleDirectoryRefusesSpecialFiles(t *testing.T) {
	home := newHome(t)
	slot := filepath.Join(home.Path(), submoduleLink.String())
	write(t, filepath.Join(slot, "a"), "a")
	require.NoError(t, unix.Mkfifo(filepath.Join(slot, "pipe"), 0644))

	result, err := newEngine(t).Create(home, nil, submoduleLink)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownKind))
}

func TestBackupEmptySubmoduleDirectory(t *testing.T) {
	home := newHome(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home.Path(), submoduleLink.String()), 0755))

	result, err := newEngine(t).Create(home, nil, submoduleLink)
	require.NoError(t, err)

	info, err := os.Lstat(filepath.Join(result.Root.Path(), submoduleLink.String()))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Empty(t, result.Saved)
}
