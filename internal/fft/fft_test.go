// SPDX-License-Identifier: MIT
package fft

import (
	"math"
	"testing"
)

const (
	testFFTSize    = 1024
	testSampleRate = 44100
)

func sineFrame(freq float64) []float64 {
	frame := make([]float64, testFFTSize)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * freq * float64(i) / testSampleRate)
	}
	return frame
}

func TestNewProcessorRejectsBadArguments(t *testing.T) {
	if _, err := NewProcessor(1000, testSampleRate, Hann); err == nil {
		t.Error("expected error for non power of two size")
	}
	if _, err := NewProcessor(testFFTSize, 0, Hann); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestTransformPeakBin(t *testing.T) {
	processor, err := NewProcessor(testFFTSize, testSampleRate, Hann)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	// Bin 40 sits exactly on 40*44100/1024 Hz.
	freq := 40.0 * testSampleRate / testFFTSize
	spec := NewSpectrum(testFFTSize)
	processor.Transform(sineFrame(freq), spec)

	if spec.Bins() != testFFTSize/2+1 {
		t.Fatalf("Bins() = %d, want %d", spec.Bins(), testFFTSize/2+1)
	}
	peak := 0
	for i, v := range spec.Norm {
		if v > spec.Norm[peak] {
			peak = i
		}
	}
	if peak != 40 {
		t.Errorf("peak bin = %d, want 40", peak)
	}
	if got := processor.FrequencyForBin(peak); math.Abs(got-freq) > 1e-6 {
		t.Errorf("FrequencyForBin(%d) = %f, want %f", peak, got, freq)
	}
}

func TestTransformZeroPadsShortFrames(t *testing.T) {
	processor, err := NewProcessor(testFFTSize, testSampleRate, Rectangular)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	spec := NewSpectrum(testFFTSize)
	processor.Transform([]float64{1}, spec)
	// A single unit impulse has a flat magnitude spectrum.
	for i, v := range spec.Norm {
		if math.Abs(v-1) > 1e-9 {
			t.Fatalf("Norm[%d] = %f, want 1", i, v)
		}
	}
}

func TestFrequencyForBinOutOfRange(t *testing.T) {
	processor, err := NewProcessor(testFFTSize, testSampleRate, Hann)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	if got := processor.FrequencyForBin(-1); got != 0 {
		t.Errorf("FrequencyForBin(-1) = %f", got)
	}
	if got := processor.FrequencyForBin(testFFTSize); got != 0 {
		t.Errorf("FrequencyForBin(%d) = %f", testFFTSize, got)
	}
	if got := processor.FrequencyForBin(testFFTSize / 2); math.Abs(got-testSampleRate/2) > 1e-6 {
		t.Errorf("Nyquist bin = %f", got)
	}
}

func TestParseWindowFunc(t *testing.T) {
	tests := []struct {
		name    string
		want    WindowFunc
		wantErr bool
	}{
		{"", Hann, false},
		{"Hann", Hann, false},
		{"hamming", Hamming, false},
		{"BLACKMAN", Blackman, false},
		{"blackmannuttall", BlackmanNuttall, false},
		{"bartletthann", BartlettHann, false},
		{"lanczos", Lanczos, false},
		{"nuttall", Nuttall, false},
		{"rectangular", Rectangular, false},
		{"triangle", Hann, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWindowFunc(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindowStringRoundTrip(t *testing.T) {
	for w := range windowNames {
		got, err := ParseWindowFunc(w.String())
		if err != nil || got != w {
			t.Errorf("ParseWindowFunc(%q) = %v, %v", w.String(), got, err)
		}
	}
}

func TestTransformHotPath(t *testing.T) {
	processor, err := NewProcessor(testFFTSize, testSampleRate, Hann)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	frame := sineFrame(440)
	spec := NewSpectrum(testFFTSize)

	processor.Transform(frame, spec)
	allocs := testing.AllocsPerRun(100, func() {
		processor.Transform(frame, spec)
	})
	if allocs > 0 {
		t.Errorf("Expected zero allocations in Transform hot path, got %.1f", allocs)
	}
}

func BenchmarkTransform(b *testing.B) {
	processor, err := NewProcessor(testFFTSize, testSampleRate, Hann)
	if err != nil {
		b.Fatal(err)
	}
	frame := make([]float64, testFFTSize)
	for i := range frame {
		tm := float64(i) / testSampleRate
		frame[i] = math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2
	}
	spec := NewSpectrum(testFFTSize)

	b.ReportAllocs()
	for b.Loop() {
		processor.Transform(frame, spec)
	}
}
