package dsp

import "fmt"

// padLen is the reflection padding applied at each end of the signal
// before a forward-backward pass. Three times the section order is the
// established amount for settling a second-order section's transient.
const padLen = 6

// FiltFilt applies the section cascade to x forward and backward, giving
// a zero-phase result at the cost of squaring the magnitude response.
// Transients at the sequence ends are suppressed by odd-reflection
// padding combined with steady-state initial conditions [1].
//
//	[1]: Gustafsson, Fredrik.
//	     "Determining the initial states in forward-backward filtering."
//	     IEEE Transactions on signal processing 44.4 (1996): 988-992.
//
// The input slice is not modified. The signal must be longer than the
// reflection padding on both ends combined.
func FiltFilt(sos []Biquad, x []float64) ([]float64, error) {
	if len(x) <= padLen {
		return nil, fmt.Errorf("signal too short for zero-phase filtering: %d samples (need more than %d)", len(x), padLen)
	}

	y := make([]float64, len(x))
	copy(y, x)
	for i := range sos {
		y = sos[i].filtfilt(y)
	}
	return y, nil
}

// sectionState is the Direct-Form II transposed delay line of one section.
type sectionState struct {
	w0, w1 float64
}

// step advances the section by one sample.
func (s *Biquad) step(st *sectionState, x float64) float64 {
	y := st.w0 + s.B0*x
	st.w0 = st.w1 - s.A1*y + s.B1*x
	st.w1 = s.B2*x - s.A2*y
	return y
}

// steadyState returns the initial delay-line values that put the section
// in steady state for a unit input, scaled by the first sample before use.
func (s *Biquad) steadyState() (si0, si1 float64) {
	kdc := (s.B0 + s.B1 + s.B2) / (1 + s.A1 + s.A2)
	si1 = s.B2 - kdc*s.A2
	si0 = si1 + s.B1 - kdc*s.A1
	return si0, si1
}

// filtfilt runs one forward-backward pass of a single section over the
// signal, with odd-reflection extensions at both ends that are discarded
// from the result.
func (s *Biquad) filtfilt(signal []float64) []float64 {
	si0, si1 := s.steadyState()
	n := len(signal)
	last := signal[n-1]

	v := make([]float64, 0, n+2*padLen)

	// Forward pass over the odd-extended signal.
	st := sectionState{
		w0: si0 * (signal[0]*2 - signal[padLen]),
		w1: si1 * (signal[0]*2 - signal[padLen]),
	}
	for i := padLen; i >= 1; i-- {
		v = append(v, s.step(&st, signal[0]*2-signal[i]))
	}
	for i := range signal {
		v = append(v, s.step(&st, signal[i]))
	}
	for i := 1; i <= padLen; i++ {
		v = append(v, s.step(&st, last*2-signal[n-1-i]))
	}

	// Backward pass.
	st = sectionState{
		w0: si0 * v[len(v)-1],
		w1: si1 * v[len(v)-1],
	}
	for i := len(v) - 1; i >= 0; i-- {
		v[i] = s.step(&st, v[i])
	}

	return v[padLen : n+padLen]
}
