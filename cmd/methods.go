// SPDX-License-Identifier: MIT
package cmd

import (
	"tempo/internal/onset"

	"github.com/spf13/cobra"
)

func (a *app) newMethodsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List onset detection methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := onset.ParseMethod(a.cfg.Analysis.Method)
			if err != nil {
				return err
			}
			for _, m := range onset.Methods() {
				marker := " "
				if m == current {
					marker = "*"
				}
				a.printf("%s %-9s %s\n", marker, m, m.Description())
			}
			return nil
		},
	}
}
