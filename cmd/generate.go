// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"os"

	"tempo/pkg/utils"

	"github.com/spf13/cobra"
)

func (a *app) newGenerateCommand() *cobra.Command {
	var (
		bpm      float64
		seconds  float64
		rate     int
		offset   float64
		bitDepth int
	)

	cmd := &cobra.Command{
		Use:   "generate <out.wav>",
		Short: "Write a click track for testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bpm <= 0 || seconds <= 0 || rate <= 0 {
				return fmt.Errorf("bpm, seconds and rate must be positive")
			}
			return a.generate(args[0], bpm, seconds, offset, rate, bitDepth)
		},
	}
	cmd.Flags().Float64Var(&bpm, "bpm", 120, "Click tempo")
	cmd.Flags().Float64Var(&seconds, "seconds", 10, "Length of the track")
	cmd.Flags().IntVar(&rate, "rate", 44100, "Sample rate (Hz)")
	cmd.Flags().Float64Var(&offset, "offset", 0, "Seconds before the first click")
	cmd.Flags().IntVar(&bitDepth, "bit-depth", 16, "Bit depth (16, 24 or 32)")
	return cmd
}

func (a *app) generate(path string, bpm, seconds, offset float64, rate, bitDepth int) error {
	samples := utils.ClickTrack(rate, bpm, seconds, offset)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := utils.WriteWAV(f, rate, bitDepth, 1, samples); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.printf("Wrote %d clicks at %.2f bpm to %s\n", len(utils.ClickTimes(bpm, seconds, offset)), bpm, path)
	return nil
}
