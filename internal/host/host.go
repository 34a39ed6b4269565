// SPDX-License-Identifier: MIT
//
// Package host applies a tempo estimate to an editing session: it finds the
// selected item, analyses the media behind its active take and, on success,
// writes the tempo back while keeping the item length and play rate intact.
// Failures are reported through a Notifier and leave the session unchanged.
package host

import (
	"errors"
	"fmt"
	"io"

	"tempo/internal/log"
	"tempo/internal/source"
	"tempo/internal/tempo"
)

// User-facing messages.
const (
	MsgNoItem         = "no item selected"
	MsgNoTake         = "no active take"
	MsgNoSource       = "media source unavailable"
	MsgAnalysisFailed = "BPM analysis failed"
	msgEstimated      = "estimated %.2f bpm"
)

var (
	ErrNoItem   = errors.New(MsgNoItem)
	ErrNoTake   = errors.New(MsgNoTake)
	ErrNoSource = errors.New(MsgNoSource)
)

// Project is the editing session the action operates on.
type Project interface {
	SelectedItem() Item
	Tempo() float64
	SetTempo(bpm float64)
}

// Item is a clip placed in the project.
type Item interface {
	ActiveTake() Take
	Length() float64
	SetLength(seconds float64)
}

// Take is one media variant of an item.
type Take interface {
	Source() source.Source
	PlayRate() float64
	SetPlayRate(rate float64)
}

// Notifier shows a one-line message to the user.
type Notifier interface {
	Notify(msg string)
}

// Analyzer estimates the tempo of a source.
type Analyzer interface {
	EstimateBPM(src source.Source, lengthSeconds float64) (tempo.Result, error)
}

var _ Analyzer = (*tempo.Estimator)(nil)

// DetectAction estimates the tempo of the selected item and applies it to
// the project.
type DetectAction struct {
	Analyzer Analyzer
	Notifier Notifier
	Length   float64 // Seconds to analyse; 0 or more than the source means all of it.
}

// Run executes the action once. Exactly one message is sent per run.
func (a *DetectAction) Run(p Project) (tempo.Result, error) {
	failed := tempo.Result{BPM: tempo.Failed}

	item := p.SelectedItem()
	if item == nil {
		a.notify(MsgNoItem)
		return failed, ErrNoItem
	}
	take := item.ActiveTake()
	if take == nil {
		a.notify(MsgNoTake)
		return failed, ErrNoTake
	}
	src := take.Source()
	if src == nil {
		a.notify(MsgNoSource)
		return failed, ErrNoSource
	}

	previous := p.Tempo()
	length := item.Length()

	analysed := src.Length()
	if a.Length > 0 && a.Length < analysed {
		analysed = a.Length
	}
	res, err := a.Analyzer.EstimateBPM(src, analysed)
	if err == nil && res.Value() == tempo.Failed {
		err = tempo.ErrAnalysisFailed
	}
	if err != nil {
		a.notify(MsgAnalysisFailed)
		return res, err
	}

	p.SetTempo(res.BPM)
	// Changing the tempo may stretch the item; restore the original length.
	item.SetLength(length)
	take.SetPlayRate(1.0)
	log.Debugf("host: tempo %.2f -> %.2f bpm", previous, res.BPM)

	a.notify(fmt.Sprintf(msgEstimated, res.BPM))
	return res, nil
}

func (a *DetectAction) notify(msg string) {
	if a.Notifier != nil {
		a.Notifier.Notify(msg)
	}
}

// LogNotifier reports messages through the process logger.
type LogNotifier struct{}

func (LogNotifier) Notify(msg string) {
	log.Infof("%s", msg)
}

// WriterNotifier prints one message per line to W.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(msg string) {
	fmt.Fprintln(n.W, msg)
}
