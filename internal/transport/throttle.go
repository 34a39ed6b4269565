// SPDX-License-Identifier: MIT
package transport

import (
	"sync/atomic"

	"golang.org/x/time/rate"
)

// Throttled limits the rate of onset events passed to the wrapped
// transport. Other events are always forwarded. Events over the limit are
// dropped, not delayed.
type Throttled struct {
	next    Transport
	limiter *rate.Limiter
	dropped atomic.Int64
}

// NewThrottled allows perSecond onset events with a burst of one second's
// worth.
func NewThrottled(next Transport, perSecond float64) *Throttled {
	burst := max(1, int(perSecond))
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (t *Throttled) Send(data any) error {
	if _, ok := data.(OnsetEvent); ok && !t.limiter.Allow() {
		t.dropped.Add(1)
		return nil
	}
	return t.next.Send(data)
}

func (t *Throttled) Close() error {
	return t.next.Close()
}

// Dropped returns the number of events discarded so far.
func (t *Throttled) Dropped() int64 {
	return t.dropped.Load()
}

var _ Transport = (*Throttled)(nil)
