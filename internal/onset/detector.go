// SPDX-License-Identifier: MIT
package onset

import (
	"math"
	"math/cmplx"

	"tempo/internal/fft"

	"gonum.org/v1/gonum/floats"
)

// Detector computes the onset strength of one spectrum. Implementations
// keep whatever history they need between calls.
type Detector interface {
	Strength(spec *fft.Spectrum) float64
}

// NewDetector returns the detection function for m. Default resolves to
// high frequency content.
func NewDetector(m Method, bins int) (Detector, error) {
	switch m {
	case Default, HFC:
		return &hfcDetector{}, nil
	case Energy:
		return &energyDetector{}, nil
	case SpecDiff:
		return &specDiffDetector{prevNorm: make([]float64, bins)}, nil
	case Phase:
		return &phaseDetector{
			prevPhase:     make([]float64, bins),
			prevPrevPhase: make([]float64, bins),
		}, nil
	case Complex:
		return &complexDetector{
			prevNorm:      make([]float64, bins),
			prevPhase:     make([]float64, bins),
			prevPrevPhase: make([]float64, bins),
		}, nil
	default:
		return nil, ErrUnknownMethod
	}
}

type energyDetector struct{}

func (energyDetector) Strength(spec *fft.Spectrum) float64 {
	return floats.Dot(spec.Norm, spec.Norm)
}

// hfcDetector weights each bin magnitude by its index.
type hfcDetector struct{}

func (hfcDetector) Strength(spec *fft.Spectrum) float64 {
	var sum float64
	for k, v := range spec.Norm {
		sum += float64(k) * v
	}
	return sum
}

// specDiffDetector sums the positive magnitude changes from the previous
// frame.
type specDiffDetector struct {
	prevNorm []float64
}

func (d *specDiffDetector) Strength(spec *fft.Spectrum) float64 {
	var sum float64
	for k, v := range spec.Norm {
		if diff := v - d.prevNorm[k]; diff > 0 {
			sum += diff
		}
	}
	copy(d.prevNorm, spec.Norm)
	return sum
}

// minNorm excludes bins that carry no energy from the phase measures.
const minNorm = 1e-9

// phaseDetector is the mean absolute phase deviation from a constant
// instantaneous frequency prediction.
type phaseDetector struct {
	prevPhase     []float64
	prevPrevPhase []float64
}

func (d *phaseDetector) Strength(spec *fft.Spectrum) float64 {
	var sum float64
	for k, phi := range spec.Phase {
		if spec.Norm[k] > minNorm {
			sum += math.Abs(princarg(phi - 2*d.prevPhase[k] + d.prevPrevPhase[k]))
		}
	}
	copy(d.prevPrevPhase, d.prevPhase)
	copy(d.prevPhase, spec.Phase)
	return sum / float64(len(spec.Phase))
}

// complexDetector measures the distance between each bin and its value
// predicted from the two previous frames.
type complexDetector struct {
	prevNorm      []float64
	prevPhase     []float64
	prevPrevPhase []float64
}

func (d *complexDetector) Strength(spec *fft.Spectrum) float64 {
	var sum float64
	for k, phi := range spec.Phase {
		target := cmplx.Rect(d.prevNorm[k], 2*d.prevPhase[k]-d.prevPrevPhase[k])
		sum += cmplx.Abs(cmplx.Rect(spec.Norm[k], phi) - target)
	}
	copy(d.prevNorm, spec.Norm)
	copy(d.prevPrevPhase, d.prevPhase)
	copy(d.prevPhase, spec.Phase)
	return sum
}

// princarg maps a phase to (-pi, pi].
func princarg(phase float64) float64 {
	p := math.Mod(phase+math.Pi, 2*math.Pi)
	if p <= 0 {
		p += 2 * math.Pi
	}
	return p - math.Pi
}
