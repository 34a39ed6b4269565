// SPDX-License-Identifier: MIT
//
// Package tempo estimates the tempo of a clip by streaming it through an
// onset tracker one hop at a time and reducing the onset timeline to a
// single BPM value.
package tempo

import (
	"fmt"
	"math"
	"time"

	"tempo/internal/fft"
	"tempo/internal/log"
	"tempo/internal/onset"
	"tempo/internal/source"
)

// Failed is the BPM reported for every failed estimate.
const Failed = -1.0

// Options configures an Estimator. The sample rate comes from the source.
type Options struct {
	Method      onset.Method
	WindowSize  int
	HopSize     int
	Threshold   float64
	SilenceDB   float64
	MinInterval time.Duration
	Window      fft.WindowFunc
}

// DefaultOptions returns a 1024-sample window with a 512-sample hop.
func DefaultOptions() Options {
	return Options{
		Method:      onset.Default,
		WindowSize:  onset.DefaultWindowSize,
		HopSize:     onset.DefaultHopSize,
		Threshold:   onset.DefaultThreshold,
		SilenceDB:   onset.DefaultSilenceDB,
		MinInterval: onset.DefaultMinInterval,
		Window:      fft.Hann,
	}
}

// TrackerOptions returns the onset tracker options for a stream at sampleRate.
func (o Options) TrackerOptions(sampleRate int) onset.Options {
	return onset.Options{
		Method:      o.Method,
		WindowSize:  o.WindowSize,
		HopSize:     o.HopSize,
		SampleRate:  sampleRate,
		Threshold:   o.Threshold,
		SilenceDB:   o.SilenceDB,
		MinInterval: o.MinInterval,
		Window:      o.Window,
	}
}

// Result describes one estimation run. BPM is Failed whenever the run
// returned an error.
type Result struct {
	BPM        float64
	Onsets     []float64 // onset times in seconds, non-decreasing
	Blocks     int
	Samples    int64
	SampleRate int
	Method     onset.Method
	// Truncated is set when the source ran dry before the requested length.
	Truncated bool
}

// Value returns the BPM, or Failed for a result without a tempo.
func (r Result) Value() float64 {
	if r.BPM <= 0 || math.IsNaN(r.BPM) {
		return Failed
	}
	return r.BPM
}

// Estimator runs tempo estimation with fixed options. It holds no state
// between calls and may be shared.
type Estimator struct {
	opts Options

	newTracker func(onset.Options) (onset.BlockProcessor, error)
}

// New returns an Estimator.
func New(opts Options) *Estimator {
	return &Estimator{
		opts: opts,
		newTracker: func(o onset.Options) (onset.BlockProcessor, error) {
			return onset.NewTracker(o)
		},
	}
}

// Options returns the estimator configuration.
func (e *Estimator) Options() Options {
	return e.opts
}

// EstimateBPM streams the first lengthSeconds of src through a new onset
// tracker and reduces the onset times to a tempo. The source is only read.
func (e *Estimator) EstimateBPM(src source.Source, lengthSeconds float64) (Result, error) {
	res := Result{BPM: Failed, Method: e.opts.Method}
	if src == nil {
		return res, ErrNoSource
	}

	rate := src.SampleRate()
	res.SampleRate = rate
	tracker, err := e.newTracker(e.opts.TrackerOptions(rate))
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	total := lengthSeconds * float64(rate)
	block := make([]float32, e.opts.HopSize)
	var pos int64

	for float64(pos) < total {
		clear(block)
		n := src.GetSamples(float64(pos)/float64(rate), block)
		if n <= 0 {
			res.Truncated = true
			break
		}
		res.Blocks++
		if tracker.ProcessBlock(block) {
			res.Onsets = append(res.Onsets, float64(pos)/float64(rate))
		}
		pos += int64(n)
	}
	res.Samples = pos

	log.Debugf("tempo: %s read %d samples in %d blocks, %d onsets",
		e.opts.Method, res.Samples, res.Blocks, len(res.Onsets))

	if pos == 0 && total > 0 {
		return res, ErrStreamExhausted
	}

	bpm, err := Reduce(res.Onsets)
	if err != nil {
		return res, err
	}
	res.BPM = bpm
	return res, nil
}

// Reduce turns an onset timeline into a tempo: the number of intervals
// divided by the time between the first and the last onset, in beats per
// minute, rounded to the nearest integer.
func Reduce(timeline []float64) (float64, error) {
	if len(timeline) < 2 {
		return Failed, ErrInsufficientOnsets
	}
	count := float64(len(timeline) - 1)
	elapsed := timeline[len(timeline)-1] - timeline[0]
	if elapsed <= 0 || count <= 0 {
		return Failed, ErrDegenerateTiming
	}
	return math.Round(count / elapsed * 60), nil
}
