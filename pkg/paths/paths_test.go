package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRelPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "simple", input: ".bashrc", want: ".bashrc"},
		{name: "nested", input: ".config/git/config", want: ".config/git/config"},
		{name: "cleaned", input: "./.config//nvim/", want: ".config/nvim"},
		{name: "empty", input: "", wantErr: true},
		{name: "absolute", input: "/etc/passwd", wantErr: true},
		{name: "dot", input: ".", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, err := paths.NewRelPath(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel.String())
		})
	}
}

func TestMustRelPathPanics(t *testing.T) {
	assert.Panics(t, func() { paths.MustRelPath("/abs") })
	assert.NotPanics(t, func() { paths.MustRelPath("ok") })
}

func TestNewRootRequiresAbsolute(t *testing.T) {
	_, err := paths.NewRoot[paths.Home]("relative/home")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "home root must be absolute")

	_, err = paths.NewRoot[paths.Backup]("")
	require.Error(t, err)

	root, err := paths.NewRoot[paths.Home]("/home/user/")
	require.NoError(t, err)
	assert.Equal(t, "/home/user", root.Path())
	assert.False(t, root.IsZero())
}

func TestTripleAddressing(t *testing.T) {
	rel := paths.MustRelPath(".config/git/config")
	home := paths.MustRoot[paths.Home]("/home/user")
	backup := paths.MustRoot[paths.Backup]("/home/user/dotfiles-backup_2024-01-01_00:00:00")
	dotfiles := paths.MustRoot[paths.Dotfiles]("/src/dotfiles/files")

	assert.Equal(t, "/home/user/.config/git/config", home.Join(rel).Path())
	assert.Equal(t, "/home/user/dotfiles-backup_2024-01-01_00:00:00/.config/git/config", backup.Join(rel).Path())
	assert.Equal(t, "/src/dotfiles/files/.config/git/config", dotfiles.Join(rel).Path())

	assert.Equal(t, rel, home.Join(rel).Rel())
	assert.Equal(t, home, home.Join(rel).Root())
}

func TestFileParent(t *testing.T) {
	home := paths.MustRoot[paths.Home]("/home/user")

	parent, ok := home.Join(paths.MustRelPath(".config/git/config")).Parent()
	require.True(t, ok)
	assert.Equal(t, "/home/user/.config/git", parent.Path())
	assert.Equal(t, ".config/git", parent.Rel().String())

	_, ok = home.Join(paths.MustRelPath(".bashrc")).Parent()
	assert.False(t, ok)
}

func TestAsRootKeepsRole(t *testing.T) {
	home := paths.MustRoot[paths.Home]("/home/user")
	dir := home.Join(paths.MustRelPath(".vim"))

	nested := dir.AsRoot().Join(paths.MustRelPath("colors/dark.vim"))
	assert.Equal(t, "/home/user/.vim/colors/dark.vim", nested.Path())
	assert.Equal(t, "colors/dark.vim", nested.Rel().String())
}

func TestRelTo(t *testing.T) {
	rel, err := paths.RelTo("/a/b", "/a/b/c/d")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("c", "d"), rel.String())

	_, err = paths.RelTo("/a/b", "/a/b")
	assert.Error(t, err)
}

func TestRoleName(t *testing.T) {
	assert.Equal(t, "home", paths.RoleName[paths.Home]())
	assert.Equal(t, "backup", paths.RoleName[paths.Backup]())
	assert.Equal(t, "dotfiles", paths.RoleName[paths.Dotfiles]())
	assert.Equal(t, "scripts", paths.RoleName[paths.Scripts]())
}
