// SPDX-License-Identifier: MIT
package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

const testSampleRate = 44100

func TestClickTimes(t *testing.T) {
	tests := []struct {
		name    string
		bpm     float64
		seconds float64
		offset  float64
		want    int
	}{
		{"120 BPM for 4s", 120, 4, 0, 8},
		{"60 BPM for 4s", 60, 4, 0, 4},
		{"Offset shifts last click out", 120, 4, 0.496, 7},
		{"Zero tempo", 0, 4, 0, 0},
		{"Zero length", 120, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClickTimes(tt.bpm, tt.seconds, tt.offset)
			if len(got) != tt.want {
				t.Fatalf("ClickTimes() returned %d clicks, want %d (%v)", len(got), tt.want, got)
			}
			for i := 1; i < len(got); i++ {
				if diff := got[i] - got[i-1] - 60/tt.bpm; math.Abs(diff) > 1e-9 {
					t.Errorf("click %d spacing off by %g", i, diff)
				}
			}
		})
	}
}

func TestClickTrack(t *testing.T) {
	track := ClickTrack(testSampleRate, 120, 2, 0.1)
	if len(track) != 2*testSampleRate {
		t.Fatalf("len = %d, want %d", len(track), 2*testSampleRate)
	}

	for _, start := range ClickTimes(120, 2, 0.1) {
		idx := int(math.Round(start * testSampleRate))
		var peak float32
		for i := idx; i < idx+testSampleRate/100; i++ {
			peak = max(peak, float32(math.Abs(float64(track[i]))))
		}
		if peak < 0.3 {
			t.Errorf("click at %.3fs has peak %.3f, want audible burst", start, peak)
		}
	}

	// Halfway between two clicks the track is silent.
	mid := int((0.1 + 0.25) * testSampleRate)
	if track[mid] != 0 {
		t.Errorf("track[%d] = %v, want silence between clicks", mid, track[mid])
	}
}

func TestSineAndSilence(t *testing.T) {
	sine := Sine(testSampleRate, 0.5, 440, 0.5)
	if len(sine) != testSampleRate/2 {
		t.Fatalf("len(sine) = %d, want %d", len(sine), testSampleRate/2)
	}
	for i, v := range sine {
		if math.Abs(float64(v)) > 0.5+1e-6 {
			t.Fatalf("sine[%d] = %v exceeds amplitude", i, v)
		}
	}

	silence := Silence(testSampleRate, 0.25)
	for i, v := range silence {
		if v != 0 {
			t.Fatalf("silence[%d] = %v, want 0", i, v)
		}
	}

	if Sine(testSampleRate, 0, 440, 1) != nil || Silence(testSampleRate, -1) != nil {
		t.Error("non-positive durations should yield nil")
	}
}

func TestInterleave(t *testing.T) {
	got := Interleave([]float32{1, 2, 3}, []float32{4, 5})
	want := []float32{1, 4, 2, 5, 3, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if Interleave() != nil {
		t.Error("Interleave() with no channels should be nil")
	}
}

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "click.wav")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	track := ClickTrack(testSampleRate, 120, 1, 0)
	if err := WriteWAV(file, testSampleRate, 16, 1, track); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}
	file.Close()

	in, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer in.Close()

	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		t.Fatal("written file is not a valid WAV")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}
	if buf.Format.SampleRate != testSampleRate || buf.Format.NumChannels != 1 {
		t.Errorf("format = %+v, want %d Hz mono", *buf.Format, testSampleRate)
	}
	if len(buf.Data) != len(track) {
		t.Errorf("decoded %d samples, want %d", len(buf.Data), len(track))
	}
}

func TestWriteWAVRejectsBadArguments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer file.Close()

	if err := WriteWAV(file, testSampleRate, 12, 1, nil); err == nil {
		t.Error("expected error for 12-bit depth")
	}
	if err := WriteWAV(file, testSampleRate, 16, 0, nil); err == nil {
		t.Error("expected error for zero channels")
	}
}

func BenchmarkClickTrack(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = ClickTrack(testSampleRate, 120, 4, 0)
	}
}
