package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Bin is one frequency bin of a power spectrum.
type Bin struct {
	Freq  float64
	Power float64
}

// PowerSpectrum returns |X_k| for k in [0, n/2] of the mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// Spectrum labels the power spectrum of a series sampled every dt with
// frequencies in cycles per unit time.
func Spectrum(data []float64, dt float64) []Bin {
	ps := PowerSpectrum(data)
	if len(ps) == 0 || dt <= 0 {
		return nil
	}

	df := 1 / (float64(len(data)) * dt)
	bins := make([]Bin, len(ps))
	for k, p := range ps {
		bins[k] = Bin{Freq: float64(k) * df, Power: p}
	}
	return bins
}

// DominantFrequency returns the strongest non-zero frequency. Series with
// fewer than four samples report zero.
func DominantFrequency(data []float64, dt float64) (freq, power float64) {
	if len(data) < 4 {
		return 0, 0
	}
	bins := Spectrum(data, dt)
	for _, b := range bins[1:] {
		if b.Power > power {
			freq, power = b.Freq, b.Power
		}
	}
	return freq, power
}
