// SPDX-License-Identifier: MIT
package capture

import (
	"sync"

	"tempo/internal/onset"
	"tempo/internal/tempo"
)

// Live turns a stream of captured blocks into an onset timeline. Feed is
// the engine's BlockHandler; the other methods may be called from any
// goroutine.
type Live struct {
	tracker    onset.BlockProcessor
	sampleRate float64
	hop        int
	onOnset    func(seconds float64)

	mu       sync.Mutex
	pos      int64 // frames consumed
	timeline []float64
}

// NewLive wraps tracker. onOnset, if non-nil, runs on the capture thread
// for every detected onset.
func NewLive(tracker onset.BlockProcessor, sampleRate float64, hop int, onOnset func(seconds float64)) *Live {
	return &Live{
		tracker:    tracker,
		sampleRate: sampleRate,
		hop:        hop,
		onOnset:    onOnset,
	}
}

// Feed processes one block.
func (l *Live) Feed(block []float32) {
	l.mu.Lock()
	detected := l.tracker.ProcessBlock(block)
	var at float64
	if detected {
		at = float64(l.pos) / l.sampleRate
		l.timeline = append(l.timeline, at)
	}
	l.pos += int64(len(block))
	l.mu.Unlock()

	if detected && l.onOnset != nil {
		l.onOnset(at)
	}
}

// Onsets returns a copy of the timeline in seconds.
func (l *Live) Onsets() []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]float64(nil), l.timeline...)
}

// Elapsed returns the captured duration in seconds.
func (l *Live) Elapsed() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return float64(l.pos) / l.sampleRate
}

// Estimate reduces the timeline collected so far.
func (l *Live) Estimate() (float64, error) {
	return tempo.Reduce(l.Onsets())
}
