package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

const (
	// FileName is the optional per-repository configuration file.
	FileName = ".dotfiles-installer.toml"

	// EnvPrefix starts every environment override.
	EnvPrefix = "DOTFILES_INSTALLER_"
)

// Config is the effective configuration of one run.
type Config struct {
	Layout     Layout     `koanf:"layout" toml:"layout"`
	Backup     Backup     `koanf:"backup" toml:"backup"`
	Submodules Submodules `koanf:"submodules" toml:"submodules"`
	Scripts    Scripts    `koanf:"scripts" toml:"scripts"`
	Log        Log        `koanf:"log" toml:"log"`
}

// Layout names the repository directories and the home submodule link.
type Layout struct {
	FilesDir          string `koanf:"files_dir" toml:"files_dir"`
	SubmodulesDir     string `koanf:"submodules_dir" toml:"submodules_dir"`
	ScriptsDir        string `koanf:"scripts_dir" toml:"scripts_dir"`
	HomeSubmoduleLink string `koanf:"home_submodule_link" toml:"home_submodule_link"`
}

// Backup configures backup directory naming.
type Backup struct {
	DirPrefix string `koanf:"dir_prefix" toml:"dir_prefix"`
}

// Submodules configures the submodule checkout.
type Submodules struct {
	Checkout bool     `koanf:"checkout" toml:"checkout"`
	Command  []string `koanf:"command" toml:"command"`
}

// Scripts configures the install scripts.
type Scripts struct {
	Enabled bool `koanf:"enabled" toml:"enabled"`
}

// Log configures the log file.
type Log struct {
	Dir string `koanf:"dir" toml:"dir"`
}

// PathsLayout converts the layout section for path resolution.
func (c *Config) PathsLayout() paths.Layout {
	return paths.Layout{
		FilesDir:          c.Layout.FilesDir,
		SubmodulesDir:     c.Layout.SubmodulesDir,
		ScriptsDir:        c.Layout.ScriptsDir,
		HomeSubmoduleLink: c.Layout.HomeSubmoduleLink,
	}
}

// Options controls Load
type Options struct {
	// RepoRoot is searched for FileName. Empty skips the repository file.
	RepoRoot string

	// Overrides are applied last, keyed by dotted path (e.g. "log.dir").
	Overrides map[string]interface{}
}

// Load merges the configuration layers and decodes them.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Repository file if it exists
	if opts.RepoRoot != "" {
		path := filepath.Join(opts.RepoRoot, FileName)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad,
					"failed to load config from %s", path).WithDetail("path", path)
			}
		}
	}

	// 3. Environment variables
	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Command-line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(" "),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps DOTFILES_INSTALLER_SECTION_SOME_KEY to section.some_key. Only
// the first underscore separates the section, as keys contain underscores.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Submodules.Checkout && len(c.Submodules.Command) == 0 {
		return errors.New(errors.ErrConfigParse, "submodules.command must not be empty when checkout is enabled")
	}
	if c.Backup.DirPrefix == "" {
		return errors.New(errors.ErrConfigParse, "backup.dir_prefix must not be empty")
	}
	if strings.ContainsRune(c.Backup.DirPrefix, filepath.Separator) {
		return errors.Newf(errors.ErrConfigParse, "backup.dir_prefix must be a plain name: %s", c.Backup.DirPrefix)
	}
	return nil
}

// Marshal renders the configuration as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	out, err := gotoml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}
