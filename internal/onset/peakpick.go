// SPDX-License-Identifier: MIT
package onset

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

const (
	// historyLen is the number of recent strengths the adaptive threshold
	// is computed over (five past frames, the current one and one ahead).
	historyLen = 7
)

// peakPicker turns onset strengths into onset decisions. Each strength is
// compared against median + threshold*mean of the recent history and the
// result kept for three frames so a local maximum can be confirmed once
// the following frame is known.
type peakPicker struct {
	threshold float64

	history []float64 // ring buffer of raw strengths
	next    int
	filled  int
	sorted  []float64

	// keep[0] is two frames ago, keep[2] the current frame.
	keep [3]float64
}

func newPeakPicker(threshold float64) *peakPicker {
	return &peakPicker{
		threshold: threshold,
		history:   make([]float64, historyLen),
		sorted:    make([]float64, 0, historyLen),
	}
}

// push feeds the strength of the current frame and reports whether the
// previous frame was a peak.
func (p *peakPicker) push(strength float64) bool {
	p.history[p.next] = strength
	p.next = (p.next + 1) % len(p.history)
	if p.filled < len(p.history) {
		p.filled++
	}

	p.sorted = append(p.sorted[:0], p.history[:p.filled]...)
	slices.Sort(p.sorted)
	median := stat.Quantile(0.5, stat.Empirical, p.sorted, nil)
	mean := stat.Mean(p.sorted, nil)

	p.keep[0] = p.keep[1]
	p.keep[1] = p.keep[2]
	p.keep[2] = strength - median - p.threshold*mean

	return p.keep[1] > p.keep[0] && p.keep[1] >= p.keep[2] && p.keep[1] > 0
}
