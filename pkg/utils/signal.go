// SPDX-License-Identifier: MIT
//
// Package utils generates the synthetic signals used to exercise the onset
// tracker: click tracks at a known tempo, sine tones and silence. The
// generate command writes them to WAV so that a known-tempo fixture can be
// fed through the whole decode and analysis path.
package utils

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// ClickFrequency is the carrier of each click burst (Hz).
	ClickFrequency = 1000.0
	// ClickDecay is the exponential decay time constant of a click (seconds).
	ClickDecay = 0.004
	// ClickLength is the length of a click burst (seconds).
	ClickLength = 0.010
	// ClickAmplitude is the peak amplitude of a click.
	ClickAmplitude = 0.9
)

// ClickTimes returns the start time in seconds of every click a ClickTrack
// with the same arguments contains.
func ClickTimes(bpm, seconds, offset float64) []float64 {
	if bpm <= 0 || seconds <= 0 {
		return nil
	}
	period := 60.0 / bpm
	var times []float64
	for t := offset; t+ClickLength <= seconds; t += period {
		times = append(times, t)
	}
	return times
}

// ClickTrack renders a mono click track: a decaying sine burst every beat,
// silence in between. The first click starts at offset seconds.
func ClickTrack(sampleRate int, bpm, seconds, offset float64) []float32 {
	n := int(seconds * float64(sampleRate))
	if n <= 0 {
		return nil
	}
	buffer := make([]float32, n)
	clickSamples := int(ClickLength * float64(sampleRate))

	for _, start := range ClickTimes(bpm, seconds, offset) {
		first := int(math.Round(start * float64(sampleRate)))
		for i := range clickSamples {
			idx := first + i
			if idx >= n {
				break
			}
			tm := float64(i) / float64(sampleRate)
			v := math.Sin(2*math.Pi*ClickFrequency*tm) * math.Exp(-tm/ClickDecay)
			buffer[idx] = float32(v * ClickAmplitude)
		}
	}
	return buffer
}

// Sine renders a mono sine tone.
func Sine(sampleRate int, seconds, frequency, amplitude float64) []float32 {
	n := int(seconds * float64(sampleRate))
	if n <= 0 {
		return nil
	}
	buffer := make([]float32, n)
	for i := range buffer {
		t := float64(i) / float64(sampleRate)
		buffer[i] = float32(math.Sin(2*math.Pi*frequency*t) * amplitude)
	}
	return buffer
}

// Silence renders seconds worth of zero samples.
func Silence(sampleRate int, seconds float64) []float32 {
	n := int(seconds * float64(sampleRate))
	if n <= 0 {
		return nil
	}
	return make([]float32, n)
}

// Interleave merges equally long mono channels into one interleaved buffer.
// Shorter channels are padded with zeros.
func Interleave(channels ...[]float32) []float32 {
	if len(channels) == 0 {
		return nil
	}
	frames := 0
	for _, ch := range channels {
		frames = max(frames, len(ch))
	}
	out := make([]float32, frames*len(channels))
	for c, ch := range channels {
		for f, v := range ch {
			out[f*len(channels)+c] = v
		}
	}
	return out
}

// WriteWAV encodes interleaved float samples in [-1, 1] as integer PCM WAV.
func WriteWAV(w io.WriteSeeker, sampleRate, bitDepth, channels int, interleaved []float32) error {
	if channels <= 0 {
		return fmt.Errorf("invalid channel count %d", channels)
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	encoder := wav.NewEncoder(w, sampleRate, bitDepth, channels, 1)
	scale := float64(int64(1)<<(bitDepth-1) - 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: bitDepth,
		Data:           make([]int, len(interleaved)),
	}
	for i, v := range interleaved {
		x := math.Max(-1, math.Min(1, float64(v)))
		buf.Data[i] = int(math.Round(x * scale))
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
