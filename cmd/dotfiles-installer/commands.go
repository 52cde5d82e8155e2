package main

import (
	"fmt"

	"github.com/arthur-debert/dotfiles-installer/internal/version"
	"github.com/arthur-debert/dotfiles-installer/pkg/backup"
	"github.com/arthur-debert/dotfiles-installer/pkg/config"
	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/filesystem"
	"github.com/arthur-debert/dotfiles-installer/pkg/install"
	"github.com/arthur-debert/dotfiles-installer/pkg/status"
	"github.com/spf13/cobra"
)

func newInstallCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "install",
		Short:       MsgInstallShort,
		Long:        MsgInstallLong,
		Example:     MsgInstallExample,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{needsRepo: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			inst := install.New(filesystem.NewOS(), a.logger, install.Options{
				Locations:          a.locs,
				CheckoutSubmodules: a.cfg.Submodules.Checkout,
				CheckoutCommand:    a.cfg.Submodules.Command,
				Backup:             backup.Options{Prefix: a.cfg.Backup.DirPrefix},
				SkipScripts:        !a.cfg.Scripts.Enabled,
			})

			summary, err := inst.Run(cmd.Context())
			if err != nil {
				return err
			}

			a.logger.Info().
				Int("linked", len(summary.Linked)).
				Int("removed", len(summary.Removed)).
				Str("backup", summary.Backup.Root.Path()).
				Msg(MsgInstallDone)
			_, _ = fmt.Fprint(cmd.OutOrStdout(), a.renderer.RenderSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&a.noCheckout, "no-checkout", false, MsgFlagNoCheckout)
	cmd.Flags().BoolVar(&a.noScripts, "no-scripts", false, MsgFlagNoScripts)
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:         "status",
		Short:       MsgStatusShort,
		Long:        MsgStatusLong,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{needsRepo: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return errors.Newf(errors.ErrInvalidInput, MsgErrFormat, format)
			}

			report, err := status.NewChecker(filesystem.NewOS(), a.logger).Check(a.locs)
			if err != nil {
				return err
			}

			if format == "yaml" {
				out, err := report.YAML()
				if err != nil {
					return errors.Wrap(err, errors.ErrInternal, "failed to render status")
				}
				_, _ = cmd.OutOrStdout().Write(out)
				return nil
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), a.renderer.RenderStatus(report))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:         "config",
		Short:       MsgConfigShort,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{needsRepo: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), config.DefaultContent())
				return nil
			}
			out, err := config.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, _ = cmd.OutOrStdout().Write(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "dotfiles-installer version %s\n", version.Version)
			_, _ = fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			_, _ = fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}
