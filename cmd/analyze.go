// SPDX-License-Identifier: MIT
package cmd

import (
	"encoding/json"
	"fmt"

	"tempo/internal/host"
	"tempo/internal/log"
	"tempo/internal/source"
	"tempo/internal/store"
	"tempo/internal/tempo"
	"tempo/internal/transport"

	"github.com/spf13/cobra"
)

// initialTempo is the session tempo before an estimate is applied.
const initialTempo = 120.0

func (a *app) newAnalyzeCommand() *cobra.Command {
	var (
		length    float64
		asJSON    bool
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Estimate the tempo of audio files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("length") {
				length = a.cfg.Analysis.Length
			}
			return a.analyze(args, length, asJSON, noHistory)
		},
	}
	cmd.Flags().Float64VarP(&length, "length", "l", 0,
		"Seconds to analyse from the start of each file (0 for the whole file)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per file")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the runs in the history database")
	return cmd
}

func (a *app) analyze(paths []string, length float64, asJSON, noHistory bool) error {
	opts, err := a.cfg.Analysis.EstimatorOptions()
	if err != nil {
		return err
	}
	action := &host.DetectAction{
		Analyzer: tempo.New(opts),
		Notifier: host.LogNotifier{},
		Length:   length,
	}

	tr, err := transport.New(a.cfg.Transport)
	if err != nil {
		return err
	}
	defer tr.Close()

	var history *store.Store
	if a.cfg.History.Enabled && !noHistory {
		history, err = store.Open(a.cfg.History.Path)
		if err != nil {
			return err
		}
		defer history.Close()
	}

	failures := 0
	for _, path := range paths {
		res, err := analyzeFile(action, path)
		if err != nil {
			failures++
			log.Errorf("analyze: %s: %v", path, err)
		}
		res.Method = opts.Method

		ev := transport.NewEstimateEvent(path, res, err)
		if sendErr := tr.Send(ev); sendErr != nil {
			log.Warnf("analyze: publish %s: %v", path, sendErr)
		}

		if history != nil {
			if _, saveErr := history.Save(newRun(path, res, err)); saveErr != nil {
				log.Warnf("analyze: history: %v", saveErr)
			}
		}

		if asJSON {
			data, jsonErr := json.Marshal(ev)
			if jsonErr != nil {
				return jsonErr
			}
			a.printf("%s\n", data)
			continue
		}
		if err != nil {
			a.printf("%s\tfailed\t%v\n", path, err)
			continue
		}
		a.printf("%s\t%.2f bpm\t%d onsets\n", path, res.BPM, len(res.Onsets))
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(paths))
	}
	return nil
}

func analyzeFile(action *host.DetectAction, path string) (tempo.Result, error) {
	src, err := source.Open(path)
	if err != nil {
		return tempo.Result{BPM: tempo.Failed}, err
	}
	session := host.NewSession(src, initialTempo)
	res, err := action.Run(session)
	if err == nil {
		log.Debugf("analyze: %s: session tempo %.2f, item length %.3fs, play rate %.2f",
			path, session.Tempo(), session.Item().Length(), session.Item().Take().PlayRate())
	}
	return res, err
}

func newRun(path string, res tempo.Result, err error) store.Run {
	run := store.Run{
		Path:       path,
		Method:     res.Method.String(),
		BPM:        res.Value(),
		Onsets:     len(res.Onsets),
		Samples:    res.Samples,
		SampleRate: res.SampleRate,
	}
	if err != nil {
		run.Error = err.Error()
	}
	return run
}
