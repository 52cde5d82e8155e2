package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
	"github.com/stretchr/testify/require"
)

// Env is a home directory and a dotfiles repository with the default layout.
type Env struct {
	T    *testing.T
	Locs paths.Locations
}

// NewEnv creates the repository directories, including the .git marker, in
// fresh temporary directories.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	home := paths.MustRoot[paths.Home](t.TempDir())
	repo := paths.MustRoot[paths.Repository](t.TempDir())
	locs, err := paths.NewLocations(home, repo, paths.DefaultLayout)
	require.NoError(t, err)

	CreateDir(t, repo.Path(), paths.GitMarker)
	for _, dir := range []string{locs.Dotfiles.Path(), locs.Submodules.Path(), locs.Scripts.Path()} {
		CreateDir(t, dir, ".")
	}
	return &Env{T: t, Locs: locs}
}

// RepoFile adds a managed file and returns its absolute path.
func (e *Env) RepoFile(rel, content string) string {
	e.T.Helper()
	return CreateFile(e.T, e.Locs.Dotfiles.Path(), rel, content)
}

// HomeFile creates a file in the home directory and returns its absolute path.
func (e *Env) HomeFile(rel, content string) string {
	e.T.Helper()
	return CreateFile(e.T, e.Locs.Home.Path(), rel, content)
}

// HomeSymlink creates a symlink in the home directory.
func (e *Env) HomeSymlink(rel, target string) string {
	e.T.Helper()
	link := e.HomePath(rel)
	CreateSymlink(e.T, target, link)
	return link
}

// Script adds an install script with the given shell body.
func (e *Env) Script(name, body string, executable bool) string {
	e.T.Helper()
	path := CreateFile(e.T, e.Locs.Scripts.Path(), name, "#!/bin/sh\n"+body+"\n")
	mode := 0644
	if executable {
		mode = 0755
	}
	chmod(e.T, path, mode)
	return path
}

// HomePath returns the absolute home path of rel.
func (e *Env) HomePath(rel string) string {
	return filepath.Join(e.Locs.Home.Path(), rel)
}

// RepoPath returns the absolute repository path of rel.
func (e *Env) RepoPath(rel string) string {
	return filepath.Join(e.Locs.Repo.Path(), rel)
}
