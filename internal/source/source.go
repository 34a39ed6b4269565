// SPDX-License-Identifier: MIT
//
// Package source provides random-access audio clips for analysis: the
// Source interface the estimator reads from, an in-memory implementation
// and decoders that load WAV, AIFF, MP3 and Ogg Vorbis files into it.
package source

import (
	"math"

	"github.com/go-audio/audio"
)

// Source is a read-only, random-access view of decoded audio. Sources are
// borrowed by the analysis for the duration of one call and never closed
// by it.
type Source interface {
	SampleRate() int
	Channels() int
	// Length is the duration of the clip in seconds.
	Length() float64
	// GetSamples copies up to len(dst) samples of the first channel
	// starting at time at (seconds) into dst and returns how many were
	// written. It returns 0 once the clip is exhausted.
	GetSamples(at float64, dst []float32) int
}

// MemSource is a fully decoded clip held in memory as planar channels.
type MemSource struct {
	format   *audio.Format
	channels [][]float32
	frames   int
}

var _ Source = (*MemSource)(nil)

// NewMemSource de-interleaves samples into a MemSource. A trailing partial
// frame is dropped.
func NewMemSource(interleaved []float32, channels, sampleRate int) *MemSource {
	if channels <= 0 {
		channels = 1
	}
	frames := len(interleaved) / channels
	planar := make([][]float32, channels)
	for c := range planar {
		planar[c] = make([]float32, frames)
	}
	for f := range frames {
		for c := range channels {
			planar[c][f] = interleaved[f*channels+c]
		}
	}
	return &MemSource{
		format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		channels: planar,
		frames:   frames,
	}
}

// NewMonoSource wraps a single channel without copying it.
func NewMonoSource(samples []float32, sampleRate int) *MemSource {
	return &MemSource{
		format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		channels: [][]float32{samples},
		frames:   len(samples),
	}
}

func (s *MemSource) SampleRate() int { return s.format.SampleRate }
func (s *MemSource) Channels() int { return s.format.NumChannels }

// Format returns the go-audio format descriptor of the clip.
func (s *MemSource) Format() *audio.Format { return s.format }

// Frames returns the number of sample frames in the clip.
func (s *MemSource) Frames() int { return s.frames }

// Channel returns the samples of channel c, or nil when out of range.
func (s *MemSource) Channel(c int) []float32 {
	if c < 0 || c >= len(s.channels) {
		return nil
	}
	return s.channels[c]
}

func (s *MemSource) Length() float64 {
	if s.format.SampleRate <= 0 {
		return 0
	}
	return float64(s.frames) / float64(s.format.SampleRate)
}

// GetSamples reads channel 0 only; other channels are ignored.
func (s *MemSource) GetSamples(at float64, dst []float32) int {
	if len(dst) == 0 || s.format.SampleRate <= 0 || at < 0 || math.IsNaN(at) {
		return 0
	}
	start := math.Round(at * float64(s.format.SampleRate))
	if start >= float64(s.frames) {
		return 0
	}
	return copy(dst, s.channels[0][int(start):])
}
