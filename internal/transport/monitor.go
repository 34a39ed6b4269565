// SPDX-License-Identifier: MIT
package transport

import (
	"sync"

	"tempo/internal/tempo"
	"tempo/internal/transport/udp"
)

// DefaultMonitorWindow is the number of recent onsets the running tempo is
// computed over.
const DefaultMonitorWindow = 32

// Monitor is a Transport that keeps a running tempo from the onset events
// it receives. Estimate events replace the running value until the next
// onset arrives.
type Monitor struct {
	mu       sync.Mutex
	window   int
	timeline []float64
	onsets   uint32
	bpm      float64
}

// NewMonitor keeps the last window onsets (at least two).
func NewMonitor(window int) *Monitor {
	window = max(window, 2)
	return &Monitor{
		window:   window,
		timeline: make([]float64, 0, window),
		bpm:      tempo.Failed,
	}
}

func (m *Monitor) Send(data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch ev := data.(type) {
	case OnsetEvent:
		if len(m.timeline) == m.window {
			copy(m.timeline, m.timeline[1:])
			m.timeline = m.timeline[:m.window-1]
		}
		m.timeline = append(m.timeline, ev.Time)
		m.onsets++
		if bpm, err := tempo.Reduce(m.timeline); err == nil {
			m.bpm = bpm
		}
	case EstimateEvent:
		m.bpm = ev.BPM
		m.onsets = uint32(ev.Onsets)
	}
	return nil
}

func (m *Monitor) Close() error { return nil }

// Snapshot implements udp.TempoProvider.
func (m *Monitor) Snapshot() udp.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return udp.Snapshot{BPM: float32(m.bpm), Onsets: m.onsets}
}

var (
	_ Transport         = (*Monitor)(nil)
	_ udp.TempoProvider = (*Monitor)(nil)
)
