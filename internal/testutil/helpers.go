// Package testutil provides shared helpers for the radar decoding and
// processing tests: synthetic signal generation, spectral measurement,
// and testify-based matrix assertions.
package testutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// MeanTolerance is the default tolerance for assertions on values that
// should be exactly zero up to floating-point accumulation error.
const MeanTolerance = 1e-9

// Sine returns n samples of a sine at freq Hz sampled at fs Hz.
func Sine(n int, freq, fs, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/fs)
	}
	return out
}

// AddSine adds a sine at freq Hz to x in place.
func AddSine(x []float64, freq, fs, amplitude float64) {
	for i := range x {
		x[i] += amplitude * math.Sin(2*math.Pi*freq*float64(i)/fs)
	}
}

// SpectrumMagnitudes returns the normalized magnitude spectrum of x,
// one entry per real-FFT bin (len(x)/2 + 1 entries).
func SpectrumMagnitudes(x []float64) []float64 {
	fft := fourier.NewFFT(len(x))
	coeffs := fft.Coefficients(nil, x)

	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = cmplx.Abs(c)
	}
	// Normalize by the transform length (gonum doesn't).
	f64.Scale(mags, mags, 1/float64(len(x)))
	return mags
}

// BinFor returns the real-FFT bin index closest to freq for an n-sample
// signal at sampling rate fs.
func BinFor(n int, freq, fs float64) int {
	return int(math.Round(freq / fs * float64(n)))
}

// EnergyAt returns the spectral magnitude of x at the bin closest to
// freq, searching one neighboring bin to either side for leakage.
func EnergyAt(x []float64, freq, fs float64) float64 {
	mags := SpectrumMagnitudes(x)
	bin := BinFor(len(x), freq, fs)

	peak := 0.0
	for b := bin - 1; b <= bin+1; b++ {
		if b >= 0 && b < len(mags) && mags[b] > peak {
			peak = mags[b]
		}
	}
	return peak
}

// AssertSameDims verifies that every matrix shares the dimensions of the
// first one.
func AssertSameDims(t *testing.T, ms []*mat.Dense, msgAndArgs ...any) bool {
	t.Helper()
	if len(ms) == 0 {
		return true
	}
	rows, cols := ms[0].Dims()
	for i, m := range ms[1:] {
		r, c := m.Dims()
		if !assert.Equal(t, [2]int{rows, cols}, [2]int{r, c},
			"matrix %d is %dx%d, matrix 0 is %dx%d", i+1, r, c, rows, cols) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no element of m is NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, m *mat.Dense, msgAndArgs ...any) bool {
	t.Helper()
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return assert.Fail(t, "non-finite element", "m[%d,%d] = %v", i, j, v)
			}
		}
	}
	return true
}

// ColumnMean returns the mean of column j of m over rows [start, end).
func ColumnMean(m *mat.Dense, j, start, end int) float64 {
	sum := 0.0
	for i := start; i < end; i++ {
		sum += m.At(i, j)
	}
	return sum / float64(end-start)
}
