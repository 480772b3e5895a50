// Package analysis extracts frequency-domain observables from sampled
// trajectory frames: power spectra of the recorded energy series and the
// autocorrelation they derive from.
package analysis

import (
	"errors"
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/moldyn/internal/experiment"
)

var ErrTooFewSamples = errors.New("analysis: too few samples")

// SpectrumPoint is one bin of a power spectrum. Frequency is in cycles per
// time unit of the trajectory.
type SpectrumPoint struct {
	Frequency float64
	Power     float64
}

// SampleInterval returns the mean spacing between frames. Frames are
// sampled on a fixed stride, so the mean is the spacing.
func SampleInterval(frames []experiment.Frame) (float64, error) {
	if len(frames) < 2 {
		return 0, ErrTooFewSamples
	}
	span := frames[len(frames)-1].Time - frames[0].Time
	if span <= 0 {
		return 0, errors.New("analysis: frames do not advance in time")
	}
	return span / float64(len(frames)-1), nil
}

func KineticSeries(frames []experiment.Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Kinetic
	}
	return out
}

func PotentialSeries(frames []experiment.Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Potential
	}
	return out
}

func TemperatureSeries(frames []experiment.Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Temperature
	}
	return out
}

// PowerSpectrum computes the one-sided power spectrum of a uniformly
// sampled series. The mean is removed and a Hann window applied before the
// transform, so slow drift does not leak into every bin. The zero-frequency
// bin is dropped.
func PowerSpectrum(values []float64, sampleInterval float64) ([]SpectrumPoint, error) {
	n := len(values)
	if n < 4 {
		return nil, ErrTooFewSamples
	}
	if sampleInterval <= 0 {
		return nil, errors.New("analysis: non-positive sample interval")
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range values {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	coeffs := fft.FFTReal(windowed)
	spec := make([]SpectrumPoint, 0, n/2)
	for k := 1; k <= n/2; k++ {
		re := real(coeffs[k])
		im := imag(coeffs[k])
		spec = append(spec, SpectrumPoint{
			Frequency: float64(k) / (float64(n) * sampleInterval),
			Power:     re*re + im*im,
		})
	}
	return spec, nil
}

// DominantFrequency returns the spectrum bin with the most power.
func DominantFrequency(spec []SpectrumPoint) SpectrumPoint {
	var best SpectrumPoint
	for _, p := range spec {
		if p.Power > best.Power {
			best = p
		}
	}
	return best
}

// Autocorrelation returns the normalized autocorrelation of a series up to
// maxLag, with lag 0 normalized to 1. A constant series returns all zeros.
func Autocorrelation(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}

	out := make([]float64, maxLag+1)
	if variance == 0 {
		return out
	}
	for lag := 0; lag <= maxLag; lag++ {
		var sum float64
		for i := 0; i+lag < n; i++ {
			sum += (values[i] - mean) * (values[i+lag] - mean)
		}
		out[lag] = sum / variance
	}
	return out
}
