package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvLayout(t *testing.T) {
	env := NewEnv(t)

	for _, dir := range []string{
		env.RepoPath(".git"),
		env.Locs.Dotfiles.Path(),
		env.Locs.Submodules.Path(),
		env.Locs.Scripts.Path(),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
}

func TestEnvHelpers(t *testing.T) {
	env := NewEnv(t)

	repoFile := env.RepoFile(".config/app/settings", "value")
	assert.Equal(t, filepath.Join(env.Locs.Dotfiles.Path(), ".config/app/settings"), repoFile)
	assert.Equal(t, "value", ReadFile(t, repoFile))

	link := env.HomeSymlink(".config/app/settings", repoFile)
	assert.True(t, IsSymlink(link))
	assert.Equal(t, repoFile, ReadSymlink(t, link))
	assert.False(t, IsSymlink(env.HomeFile("plain", "x")))

	script := env.Script("setup.sh", "true", false)
	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestClockAdvances(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := Clock(start)

	assert.Equal(t, start.Add(time.Second), clock())
	assert.Equal(t, start.Add(2*time.Second), clock())
}
