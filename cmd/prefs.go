// SPDX-License-Identifier: MIT
package cmd

import (
	"tempo/internal/config"
	"tempo/internal/onset"
	"tempo/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func (a *app) newPrefsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prefs",
		Short: "Choose the onset detection method interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := onset.ParseMethod(a.cfg.Analysis.Method)
			if err != nil {
				return err
			}
			method, ok, err := tui.PickMethod(current, tea.WithAltScreen())
			if err != nil {
				return err
			}
			if !ok {
				a.printf("Preferences unchanged.\n")
				return nil
			}
			return a.saveMethod(method)
		},
	}
}

func (a *app) saveMethod(method onset.Method) error {
	a.cfg.Analysis.Method = method.String()
	path := a.configPath
	if path == "" {
		path = config.DefaultFileName
	}
	if err := a.cfg.Save(path); err != nil {
		return err
	}
	a.printf("Method set to %s (%s), saved to %s\n", method, method.Description(), path)
	return nil
}
