// SPDX-License-Identifier: MIT
//
// Package onset detects note onsets in a mono stream delivered one hop at a
// time. A Tracker slides an analysis window over the stream, reduces each
// window to an onset strength with one of six detection functions and
// picks peaks from the strength curve with an adaptive threshold.
package onset

import (
	"fmt"
	"math"
	"time"

	"tempo/internal/fft"
	"tempo/pkg/bitint"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultWindowSize  = 1024
	DefaultHopSize     = 512
	DefaultThreshold   = 0.3
	DefaultSilenceDB   = -90.0
	DefaultMinInterval = 50 * time.Millisecond
)

// BlockProcessor consumes one hop of samples and reports whether an onset
// was detected.
type BlockProcessor interface {
	ProcessBlock(samples []float32) bool
}

// Options configures a Tracker.
type Options struct {
	Method     Method
	WindowSize int
	HopSize    int
	SampleRate int
	// Threshold scales the mean of the recent strengths added to their
	// median to form the adaptive peak threshold.
	Threshold float64
	// SilenceDB is the frame level below which nothing is detected.
	SilenceDB float64
	// MinInterval is the shortest allowed distance between two onsets.
	MinInterval time.Duration
	Window      fft.WindowFunc
}

// DefaultOptions returns the defaults for a stream at sampleRate.
func DefaultOptions(sampleRate int) Options {
	return Options{
		Method:      Default,
		WindowSize:  DefaultWindowSize,
		HopSize:     DefaultHopSize,
		SampleRate:  sampleRate,
		Threshold:   DefaultThreshold,
		SilenceDB:   DefaultSilenceDB,
		MinInterval: DefaultMinInterval,
		Window:      fft.Hann,
	}
}

// Tracker is a stateful onset detector for a single stream. It is not safe
// for concurrent use and cannot be reset; use one Tracker per pass.
type Tracker struct {
	opts     Options
	fft      *fft.Processor
	spectrum *fft.Spectrum
	detector Detector
	picker   *peakPicker

	frame []float64 // sliding analysis window, newest hop at the end

	minGap    int64 // minimum onset distance in samples
	blocks    int64
	onsets    int64
	lastOnset int64 // block index of the previous onset, -1 if none
	strength  float64
}

var _ BlockProcessor = (*Tracker)(nil)

// NewTracker validates opts and allocates every buffer the tracker needs.
func NewTracker(opts Options) (*Tracker, error) {
	if opts.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, opts.SampleRate)
	}
	if opts.HopSize <= 0 {
		return nil, fmt.Errorf("%w: hop %d", ErrInvalidWindow, opts.HopSize)
	}
	if !bitint.IsPowerOfTwo(opts.WindowSize) || opts.WindowSize < opts.HopSize {
		return nil, fmt.Errorf("%w: window %d, hop %d", ErrInvalidWindow, opts.WindowSize, opts.HopSize)
	}
	if !opts.Method.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(opts.Method))
	}

	proc, err := fft.NewProcessor(opts.WindowSize, float64(opts.SampleRate), opts.Window)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	spectrum := fft.NewSpectrum(opts.WindowSize)
	detector, err := NewDetector(opts.Method, spectrum.Bins())
	if err != nil {
		return nil, err
	}

	return &Tracker{
		opts:      opts,
		fft:       proc,
		spectrum:  spectrum,
		detector:  detector,
		picker:    newPeakPicker(opts.Threshold),
		frame:     make([]float64, opts.WindowSize),
		minGap:    opts.MinInterval.Nanoseconds() * int64(opts.SampleRate) / int64(time.Second),
		lastOnset: -1,
	}, nil
}

// ProcessBlock analyses the next hop of samples. Shorter input is treated
// as zero-padded and anything past the hop size is ignored. The onset
// decision refers to the previous frame, so detections are reported one
// hop late.
func (t *Tracker) ProcessBlock(samples []float32) bool {
	hop := t.opts.HopSize
	copy(t.frame, t.frame[hop:])
	tail := t.frame[len(t.frame)-hop:]
	for i := range tail {
		if i < len(samples) {
			tail[i] = float64(samples[i])
		} else {
			tail[i] = 0
		}
	}

	block := t.blocks
	t.blocks++

	strength := 0.0
	if !t.silent() {
		t.fft.Transform(t.frame, t.spectrum)
		strength = t.detector.Strength(t.spectrum)
	} else {
		// Keep the detector history in step with the stream.
		clear(t.spectrum.Norm)
		clear(t.spectrum.Phase)
		t.detector.Strength(t.spectrum)
	}
	t.strength = strength

	if !t.picker.push(strength) {
		return false
	}
	if t.lastOnset >= 0 && (block-t.lastOnset)*int64(hop) < t.minGap {
		return false
	}
	t.lastOnset = block
	t.onsets++
	return true
}

// silent reports whether the level of the current frame is under the
// silence threshold.
func (t *Tracker) silent() bool {
	energy := floats.Dot(t.frame, t.frame) / float64(len(t.frame))
	if energy == 0 {
		return true
	}
	return 10*math.Log10(energy) < t.opts.SilenceDB
}

// Blocks returns the number of blocks processed so far.
func (t *Tracker) Blocks() int64 {
	return t.blocks
}

// Onsets returns the number of onsets reported so far.
func (t *Tracker) Onsets() int64 {
	return t.onsets
}

// LastStrength returns the raw onset strength of the most recent frame.
func (t *Tracker) LastStrength() float64 {
	return t.strength
}

// Options returns the options the tracker was built with.
func (t *Tracker) Options() Options {
	return t.opts
}
