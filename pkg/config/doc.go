// Package config handles configuration management for dotfiles-installer.
// It layers the embedded defaults, an optional .dotfiles-installer.toml at
// the repository root, DOTFILES_INSTALLER_* environment variables and
// command-line overrides, in that order.
package config
