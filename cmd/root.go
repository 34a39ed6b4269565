// SPDX-License-Identifier: MIT
//
// Package cmd wires the tempo subcommands onto a cobra root command.
package cmd

import (
	"fmt"
	"io"
	"os"

	"tempo/internal/config"
	"tempo/internal/log"
	"tempo/pkg/build"

	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand. cfg is loaded in the
// root's PersistentPreRunE.
type app struct {
	configPath string
	verbose    bool
	method     string

	cfg *config.Config
	out io.Writer
}

// NewRootCommand builds the command tree writing normal output to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	buildInfo := build.GetBuildFlags()
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       build.VersionString(),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}
	rootCmd.SetOut(out)

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"Configuration file (default: ./"+config.DefaultFileName+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Show verbose output")
	rootCmd.PersistentFlags().StringVarP(&a.method, "method", "m", "",
		"Onset detection method, overrides the configuration (see 'methods')")

	rootCmd.AddCommand(
		a.newAnalyzeCommand(),
		a.newMethodsCommand(),
		a.newPrefsCommand(),
		a.newDevicesCommand(),
		a.newListenCommand(),
		a.newHistoryCommand(),
		a.newGenerateCommand(),
	)
	return rootCmd
}

// Execute runs the command line in args against stdout.
func Execute(args []string) error {
	rootCmd := NewRootCommand(os.Stdout)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("method") {
		cfg.Analysis.Method = a.method
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if err := log.Configure(cfg.LogLevel, a.verbose); err != nil {
		return err
	}
	log.Debugf("configuration: method=%s window=%d hop=%d transport=%s",
		cfg.Analysis.Method, cfg.Analysis.WindowSize, cfg.Analysis.HopSize, cfg.Transport.Kind)
	a.cfg = cfg
	return nil
}

func (a *app) printf(format string, v ...any) {
	fmt.Fprintf(a.out, format, v...)
}
