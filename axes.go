package gpr

import (
	"gonum.org/v1/gonum/floats"
)

// SampleTimes returns the two-way travel time axis of the sample rows in
// nanoseconds, from zero to the header time window, shifted down by zero
// so that a caller can re-center on the ground surface. It returns nil
// before a survey has been loaded.
func (r *Radar) SampleTimes(zero float64) []float64 {
	if !r.loaded {
		return nil
	}
	t := axisSpan(r.Rows(), r.Header.Range)
	floats.AddConst(-zero, t)
	return t
}

// ProfileTimes returns the acquisition time axis of the trace columns,
// scaled by the header scan rate and shifted down by shift. It returns
// nil before a survey has been loaded.
func (r *Radar) ProfileTimes(shift float64) []float64 {
	if !r.loaded {
		return nil
	}
	n := r.Cols()
	t := axisSpan(n, r.Header.ScansPerSecond*float64(n))
	floats.AddConst(-shift, t)
	return t
}

// ProfileDistances returns the survey-line distance axis of the trace
// columns, scaled by the header scans-per-meter rate, optionally
// reversed for lines surveyed in the opposite direction, and shifted
// down by shift. It returns nil before a survey has been loaded.
func (r *Radar) ProfileDistances(shift float64, reverse bool) []float64 {
	if !r.loaded {
		return nil
	}
	n := r.Cols()
	d := axisSpan(n, r.Header.ScansPerMeter*float64(n))
	if reverse {
		floats.Reverse(d)
	}
	floats.AddConst(-shift, d)
	return d
}

// axisSpan returns n points evenly spaced over [0, max]. floats.Span
// rejects spans of fewer than two points, but a one-sample or one-trace
// survey still has a valid axis at the origin.
func axisSpan(n int, max float64) []float64 {
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	return floats.Span(out, 0, max)
}
