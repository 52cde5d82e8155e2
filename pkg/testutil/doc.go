// Package testutil provides utilities for testing dotfiles-installer
// components.
//
// Tests run against the real filesystem under t.TempDir(). Env lays out a
// home directory and a repository with the default layout so engines can be
// exercised end to end.
package testutil
