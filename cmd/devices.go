// SPDX-License-Identifier: MIT
package cmd

import (
	"tempo/internal/capture"
	"tempo/internal/log"

	"github.com/spf13/cobra"
)

func (a *app) newDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := capture.Initialize(); err != nil {
				return err
			}
			defer func() {
				if err := capture.Terminate(); err != nil {
					log.Warnf("devices: %v", err)
				}
			}()
			return capture.ListDevices(a.out)
		},
	}
}
