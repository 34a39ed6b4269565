// SPDX-License-Identifier: MIT
package fft

import (
	"fmt"
	"math"
	"math/cmplx"

	"tempo/pkg/bitint"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum is the polar form of one analysis frame: Norm[k] and Phase[k]
// for bins 0..N/2.
type Spectrum struct {
	Norm  []float64
	Phase []float64
}

// NewSpectrum allocates a spectrum for an fftSize-point transform.
func NewSpectrum(fftSize int) *Spectrum {
	bins := fftSize/2 + 1
	return &Spectrum{
		Norm:  make([]float64, bins),
		Phase: make([]float64, bins),
	}
}

// Bins returns the number of frequency bins.
func (s *Spectrum) Bins() int {
	return len(s.Norm)
}

// workspace holds pre-allocated buffers for FFT calculations.
type workspace struct {
	input     []float64    // windowed input frame
	fftOutput []complex128 // complex coefficients, N/2+1 values
	window    []float64    // window coefficients
}

// Processor turns time-domain frames into spectra. It is not safe for
// concurrent use; every tracker owns its own Processor.
type Processor struct {
	fftSize    int
	sampleRate float64
	windowType WindowFunc
	fftObj     *fourier.FFT
	workspace  workspace
}

// NewProcessor creates an FFT processor for frames of fftSize samples. All
// buffers and the window coefficients are allocated here so Transform does
// not allocate.
func NewProcessor(fftSize int, sampleRate float64, windowType WindowFunc) (*Processor, error) {
	if !bitint.IsPowerOfTwo(fftSize) {
		return nil, fmt.Errorf("fft size must be a power of 2, got %d", fftSize)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) {
		return nil, fmt.Errorf("sample rate must be positive, got %f", sampleRate)
	}

	window := make([]float64, fftSize)
	applyWindow(window, windowType)

	return &Processor{
		fftSize:    fftSize,
		sampleRate: sampleRate,
		windowType: windowType,
		fftObj:     fourier.NewFFT(fftSize),
		workspace: workspace{
			input:     make([]float64, fftSize),
			fftOutput: make([]complex128, fftSize/2+1),
			window:    window,
		},
	}, nil
}

// Transform windows frame, runs the FFT and writes magnitudes and phases
// into dst. frame shorter than the FFT size is zero-padded.
func (p *Processor) Transform(frame []float64, dst *Spectrum) {
	for i := range p.fftSize {
		if i < len(frame) {
			p.workspace.input[i] = frame[i] * p.workspace.window[i]
		} else {
			p.workspace.input[i] = 0
		}
	}

	p.fftObj.Coefficients(p.workspace.fftOutput, p.workspace.input)
	for i, c := range p.workspace.fftOutput {
		dst.Norm[i] = cmplx.Abs(c)
		dst.Phase[i] = cmplx.Phase(c)
	}
}

// FrequencyForBin returns the center frequency in Hz of bin i, or 0 when i
// is out of range.
func (p *Processor) FrequencyForBin(i int) float64 {
	if i < 0 || i >= len(p.workspace.fftOutput) {
		return 0
	}
	return p.fftObj.Freq(i) * p.sampleRate
}

// Size returns the number of points of the transform.
func (p *Processor) Size() int {
	return p.fftSize
}

// SampleRate returns the sample rate the bin frequencies refer to.
func (p *Processor) SampleRate() float64 {
	return p.sampleRate
}

// Window returns the window function applied before the transform.
func (p *Processor) Window() WindowFunc {
	return p.windowType
}
