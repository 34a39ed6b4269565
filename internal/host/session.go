// SPDX-License-Identifier: MIT
package host

import "tempo/internal/source"

// Session is an in-memory project holding a single clip. It lets the
// command line drive DetectAction for a decoded file.
type Session struct {
	tempo    float64
	selected bool
	item     *SessionItem
}

// NewSession places src in a new project at the given tempo and selects it.
// A nil src yields a take without media.
func NewSession(src source.Source, initialTempo float64) *Session {
	length := 0.0
	if src != nil {
		length = src.Length()
	}
	return &Session{
		tempo:    initialTempo,
		selected: true,
		item: &SessionItem{
			length: length,
			take:   &SessionTake{src: src, playRate: 1.0},
		},
	}
}

// Deselect clears the item selection.
func (s *Session) Deselect() { s.selected = false }

// Item returns the session's clip whether or not it is selected.
func (s *Session) Item() *SessionItem { return s.item }

func (s *Session) SelectedItem() Item {
	if !s.selected || s.item == nil {
		return nil
	}
	return s.item
}

func (s *Session) Tempo() float64 { return s.tempo }

func (s *Session) SetTempo(bpm float64) { s.tempo = bpm }

// SessionItem is the clip of a Session.
type SessionItem struct {
	length float64
	take   *SessionTake
}

func (i *SessionItem) ActiveTake() Take {
	if i.take == nil {
		return nil
	}
	return i.take
}

// RemoveTake drops the active take.
func (i *SessionItem) RemoveTake() { i.take = nil }

// Take returns the concrete take, or nil.
func (i *SessionItem) Take() *SessionTake { return i.take }

func (i *SessionItem) Length() float64 { return i.length }

func (i *SessionItem) SetLength(seconds float64) { i.length = seconds }

// SessionTake is the media of a SessionItem.
type SessionTake struct {
	src      source.Source
	playRate float64
}

func (t *SessionTake) Source() source.Source { return t.src }

func (t *SessionTake) PlayRate() float64 { return t.playRate }

func (t *SessionTake) SetPlayRate(rate float64) { t.playRate = rate }
