package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/arthur-debert/dotfiles-installer/internal/version"
	"github.com/arthur-debert/dotfiles-installer/pkg/config"
	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/logging"
	"github.com/arthur-debert/dotfiles-installer/pkg/paths"
	"github.com/arthur-debert/dotfiles-installer/pkg/style"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// needsRepo marks commands that resolve the repository, configuration and
// logging before running.
const needsRepo = "needs-repo"

// app holds the state shared by the commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	verbose    int
	quiet      int
	repo       string
	home       string
	noColor    bool
	logDir     string
	noCheckout bool
	noScripts  bool

	renderer style.Renderer
	logger   zerolog.Logger
	logPath  string
	closeLog func()
	cfg      *config.Config
	locs     paths.Locations
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout:   stdout,
		stderr:   stderr,
		logger:   zerolog.Nop(),
		closeLog: func() {},
	}
	defer func() { a.closeLog() }()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		a.handleError(err)
		return 1
	}
	return 0
}

// handleError is the single place errors are reported.
func (a *app) handleError(err error) {
	a.logger.Error().
		Err(err).
		Str("code", string(errors.GetErrorCode(err))).
		Interface("details", errors.GetErrorDetails(err)).
		Msg("Command failed")

	renderer := a.renderer
	if renderer == nil {
		renderer = style.NewRenderer(a.noColor)
	}
	_, _ = fmt.Fprintln(a.stderr, renderer.RenderError(err))
	if a.logPath != "" {
		_, _ = fmt.Fprintf(a.stderr, MsgSeeLogFile, a.logPath)
	}
}

func newRootCmd(a *app) *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "dotfiles-installer",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.noColor || termenv.EnvNoColor() {
				a.noColor = true
				pterm.DisableStyling()
			}
			a.renderer = style.NewRenderer(a.noColor)

			if cmd.Annotations[needsRepo] != "true" {
				return nil
			}
			return a.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbose, "verbose", "v", MsgFlagVerbose)
	flags.CountVarP(&a.quiet, "quiet", "q", MsgFlagQuiet)
	flags.StringVar(&a.repo, "repo", "", MsgFlagRepo)
	flags.StringVar(&a.home, "home", "", MsgFlagHome)
	flags.BoolVar(&a.noColor, "no-color", false, MsgFlagNoColor)
	flags.StringVar(&a.logDir, "log-dir", "", MsgFlagLogDir)

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInstallCmd(a))
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// prepare resolves the repository, loads the configuration, starts logging
// and resolves every location, in that order.
func (a *app) prepare(cmd *cobra.Command) error {
	repo, err := paths.DiscoverRepo(a.repo)
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.Options{
		RepoRoot:  repo.Path(),
		Overrides: a.overrides(cmd),
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, a.logPath, a.closeLog = logging.Setup(logging.Options{
		Level:   logging.LevelFor(a.verbose, a.quiet),
		Console: a.stderr,
		Dir:     cfg.Log.Dir,
		NoColor: a.noColor,
	})
	a.logger.Debug().
		Str("command", cmd.Name()).
		Str("version", version.Version).
		Msg("Command started")

	home, err := a.resolveHome()
	if err != nil {
		return err
	}

	a.locs, err = paths.NewLocations(home, repo, cfg.PathsLayout())
	if err != nil {
		return err
	}
	return nil
}

// overrides turns the flags that were set into configuration keys.
func (a *app) overrides(cmd *cobra.Command) map[string]interface{} {
	out := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("log-dir") {
		out["log.dir"] = a.logDir
	}
	if flags.Lookup("no-checkout") != nil && flags.Changed("no-checkout") {
		out["submodules.checkout"] = !a.noCheckout
	}
	if flags.Lookup("no-scripts") != nil && flags.Changed("no-scripts") {
		out["scripts.enabled"] = !a.noScripts
	}
	return out
}

func (a *app) resolveHome() (paths.Root[paths.Home], error) {
	if a.home == "" {
		return paths.FindHome()
	}
	abs, err := filepath.Abs(a.home)
	if err != nil {
		return paths.Root[paths.Home]{}, errors.Wrapf(err, errors.ErrEnvironment,
			"failed to get absolute path for %s", a.home)
	}
	return paths.NewRoot[paths.Home](abs)
}
