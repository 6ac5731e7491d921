// Package dsp provides the filter design and column statistics used by the
// radar processing operations: Butterworth second-order-section design,
// zero-phase forward-backward filtering, and baseline estimation.
package dsp

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
)

const (
	// nyquistDivisor relates sampling frequency to Nyquist frequency.
	nyquistDivisor = 2.0

	// minFilterOrder and maxFilterOrder bound the accepted design orders.
	// Above ~12 the bilinear-transformed sections start losing precision
	// for cutoffs near the band edges.
	minFilterOrder = 1
	maxFilterOrder = 12
)

// Biquad is one normalized second-order section in Direct-Form II
// transposed coefficients: a0 is 1, A1 and A2 are the remaining
// denominator terms. First-order sections set B2 and A2 to zero.
type Biquad struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// validateDesign checks the shared Butterworth design parameters.
func validateDesign(order int, cutoff, fs float64) error {
	if order < minFilterOrder || order > maxFilterOrder {
		return fmt.Errorf("invalid filter order %d (must be %d-%d)", order, minFilterOrder, maxFilterOrder)
	}
	if fs <= 0 {
		return fmt.Errorf("invalid sampling frequency %v (must be positive)", fs)
	}
	if cutoff <= 0 {
		return fmt.Errorf("invalid cutoff %v (must be positive)", cutoff)
	}
	if nyq := fs / nyquistDivisor; cutoff >= nyq {
		return fmt.Errorf("cutoff %v is at or above the Nyquist frequency %v", cutoff, nyq)
	}
	return nil
}

// ButterworthLowpass designs an order-n Butterworth lowpass filter as a
// cascade of second-order sections.
//
// The design places the analog prototype poles on the Butterworth circle,
// prewarps the cutoff for the bilinear transform, and maps each conjugate
// pole pair (plus the real pole for odd orders) to one digital section.
// Sections are individually normalized, so the cascade has unity gain in
// the passband and monotonic rolloff.
func ButterworthLowpass(order int, cutoff, fs float64) ([]Biquad, error) {
	return butterworth(order, cutoff, fs, false)
}

// ButterworthHighpass designs the highpass counterpart: identical pole
// placement with the section zeros moved from z=-1 to z=+1.
func ButterworthHighpass(order int, cutoff, fs float64) ([]Biquad, error) {
	return butterworth(order, cutoff, fs, true)
}

func butterworth(order int, cutoff, fs float64, highpass bool) ([]Biquad, error) {
	if err := validateDesign(order, cutoff, fs); err != nil {
		return nil, err
	}

	// Bilinear transform constant and prewarped analog cutoff. Prewarping
	// keeps the -3 dB point exactly at the requested digital frequency.
	k := nyquistDivisor * fs
	wa := k * math.Tan(math.Pi*cutoff/fs)

	sos := make([]Biquad, 0, (order+1)/2)

	// Conjugate pole pairs. Pole angles follow the Butterworth placement
	// theta_m = pi*(2m+order+1)/(2*order); pairing m with order-1-m gives
	// an analog section s^2 + b1*s + wa^2 with b1 = -2*wa*cos(theta_m).
	for m := 0; m < order/2; m++ {
		theta := math.Pi * float64(2*m+order+1) / float64(2*order)
		b1 := -nyquistDivisor * wa * math.Cos(theta)

		a0 := k*k + b1*k + wa*wa
		sec := Biquad{
			A1: (nyquistDivisor*wa*wa - nyquistDivisor*k*k) / a0,
			A2: (k*k - b1*k + wa*wa) / a0,
		}
		if highpass {
			sec.B0 = k * k / a0
			sec.B1 = -nyquistDivisor * k * k / a0
			sec.B2 = k * k / a0
		} else {
			sec.B0 = wa * wa / a0
			sec.B1 = nyquistDivisor * wa * wa / a0
			sec.B2 = wa * wa / a0
		}
		sos = append(sos, sec)
	}

	// Real pole for odd orders maps to a first-order section.
	if order%2 == 1 {
		a0 := k + wa
		sec := Biquad{A1: (wa - k) / a0}
		if highpass {
			sec.B0 = k / a0
			sec.B1 = -k / a0
		} else {
			sec.B0 = wa / a0
			sec.B1 = wa / a0
		}
		sos = append(sos, sec)
	}

	return sos, nil
}

// Mean returns the arithmetic mean of x, zero for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return f64.Sum(x) / float64(len(x))
}
