// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"tempo/internal/capture"
	"tempo/internal/config"
	"tempo/internal/log"
	"tempo/internal/onset"
	"tempo/internal/tempo"
	"tempo/internal/transport"

	"github.com/spf13/cobra"
)

// liveSource names live input in published events and history.
const liveSource = "live"

func (a *app) newListenCommand() *cobra.Command {
	var (
		duration time.Duration
		record   string
		device   int
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Track onsets and tempo from an input device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.cfg.Capture
			if cmd.Flags().Changed("duration") {
				c.Duration = duration
			}
			if cmd.Flags().Changed("record") {
				c.RecordFile = record
			}
			if cmd.Flags().Changed("device") {
				c.InputDevice = device
			}
			return a.listen(c)
		},
	}
	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "Stop after this long (0 runs until interrupted)")
	cmd.Flags().StringVarP(&record, "record", "r", "", "Also record the raw input to this WAV file")
	cmd.Flags().IntVar(&device, "device", -1, "Input device ID (see 'devices'), -1 for the default")
	return cmd
}

// listen runs in three phases: setup, capture until interrupted or the
// duration elapses, then shutdown and the final estimate.
func (a *app) listen(c config.CaptureConfig) error {
	// ==================== STARTUP PHASE (Cold Path) ====================

	opts, err := a.cfg.Analysis.EstimatorOptions()
	if err != nil {
		return err
	}
	rate := c.SampleRate
	tracker, err := onset.NewTracker(opts.TrackerOptions(int(rate)))
	if err != nil {
		return err
	}

	tr, err := transport.New(a.cfg.Transport)
	if err != nil {
		return err
	}
	defer tr.Close()

	// One thread for the audio callback, one for everything else.
	runtime.GOMAXPROCS(2)

	if err := capture.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := capture.Terminate(); err != nil {
			log.Warnf("listen: %v", err)
		}
	}()

	live := capture.NewLive(tracker, rate, opts.HopSize, func(at float64) {
		log.Debugf("listen: onset at %.3fs, strength %.4g", at, tracker.LastStrength())
		if err := tr.Send(transport.NewOnsetEvent(liveSource, at)); err != nil {
			log.Debugf("listen: publish onset: %v", err)
		}
	})
	engine, err := capture.NewEngine(capture.OptionsFromConfig(c, opts.HopSize), live.Feed)
	if err != nil {
		return err
	}

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if c.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Duration)
		defer cancel()
	}

	if err := engine.StartInputStream(); err != nil {
		return err
	}
	if c.RecordFile != "" {
		if err := engine.StartRecording(c.RecordFile, c.BitDepth); err != nil {
			engine.Close()
			return err
		}
	}
	a.printf("Listening on %s with %s onsets, press Ctrl+C to stop.\n", engine.DeviceName(), opts.Method)

	<-ctx.Done()

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	if err := engine.Close(); err != nil {
		log.Errorf("listen: closing audio engine: %v", err)
	}
	if c.RecordFile != "" {
		a.printf("Recording saved to: %s\n", c.RecordFile)
	}

	onsets := live.Onsets()
	res := tempo.Result{
		BPM:        tempo.Failed,
		Onsets:     onsets,
		Blocks:     int(engine.Blocks()),
		Samples:    engine.Blocks() * int64(opts.HopSize),
		SampleRate: int(rate),
		Method:     opts.Method,
	}
	bpm, err := live.Estimate()
	if err == nil {
		res.BPM = bpm
	}
	if sendErr := tr.Send(transport.NewEstimateEvent(liveSource, res, err)); sendErr != nil {
		log.Warnf("listen: publish estimate: %v", sendErr)
	}

	if err != nil {
		if errors.Is(err, tempo.ErrInsufficientOnsets) {
			a.printf("%.1fs captured, %d onsets: not enough to estimate a tempo.\n", live.Elapsed(), len(onsets))
			return nil
		}
		return err
	}
	a.printf("%.1fs captured, %d onsets, %.2f bpm\n", live.Elapsed(), len(onsets), bpm)
	return nil
}
