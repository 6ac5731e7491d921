package gpr

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/go-gpr/internal/dsp"
)

const (
	// filterOrder is the Butterworth order of the reference design. Six
	// gives a flat passband with 36 dB/octave rolloff per pass, doubled
	// by the forward-backward application.
	filterOrder = 6

	// nsPerSecond converts the header's nanosecond time window.
	nsPerSecond = 1e-9
)

// RemoveDC subtracts the per-trace DC baseline from every channel: for
// each trace column, the mean over sample rows [start, Rows()) is
// computed and subtracted from the entire column. start selects where the
// baseline window begins, typically past the direct-coupling band at the
// top of each trace.
//
// start must satisfy 0 <= start < Rows().
func (r *Radar) RemoveDC(start int) error {
	return r.removeDCRange("RemoveDC", start, r.Rows())
}

// RemoveDCRange is RemoveDC with an explicit baseline window [start, end).
func (r *Radar) RemoveDCRange(start, end int) error {
	return r.removeDCRange("RemoveDCRange", start, end)
}

func (r *Radar) removeDCRange(op string, start, end int) error {
	if err := r.requireLoaded(op); err != nil {
		return err
	}
	if err := r.checkInvariant(); err != nil {
		return err
	}
	if start < 0 || start >= r.Rows() {
		return fmt.Errorf("%w: baseline start %d outside sample rows [0, %d)", ErrInvalidParam, start, r.Rows())
	}
	if end <= start || end > r.Rows() {
		return fmt.Errorf("%w: baseline end %d outside (%d, %d]", ErrInvalidParam, end, start, r.Rows())
	}

	for _, ch := range r.channels {
		rows, cols := ch.Dims()
		col := make([]float64, rows)
		for t := 0; t < cols; t++ {
			mat.Col(col, t, ch)
			baseline := dsp.Mean(col[start:end])
			for s := range col {
				col[s] -= baseline
			}
			ch.SetCol(t, col)
		}
	}

	return r.checkInvariant()
}

// Lowpass applies a zero-phase order-6 Butterworth lowpass filter along
// the sample (time) axis of every trace in every channel. The matrix
// shapes are unchanged.
//
// cutoff is either a number (absolute cutoff frequency in Hz) or a
// numeric string, which is parsed and multiplied by the antenna center
// frequency in Header.Frequency. A string cutoff without Header.Frequency
// set fails with ErrMissingMetadata. The resolved cutoff must lie below
// the Nyquist frequency implied by the trace time window, else the call
// fails with ErrInvalidParam.
func (r *Radar) Lowpass(cutoff any) error {
	return r.filter(cutoff, dsp.ButterworthLowpass, "Lowpass")
}

// Highpass is the highpass counterpart of Lowpass, with the same cutoff
// semantics.
func (r *Radar) Highpass(cutoff any) error {
	return r.filter(cutoff, dsp.ButterworthHighpass, "Highpass")
}

func (r *Radar) filter(cutoff any, design func(int, float64, float64) ([]dsp.Biquad, error), op string) error {
	if err := r.requireLoaded(op); err != nil {
		return err
	}
	if err := r.checkInvariant(); err != nil {
		return err
	}

	hz, err := r.resolveCutoff(cutoff)
	if err != nil {
		return err
	}
	fs, err := r.samplingRate()
	if err != nil {
		return err
	}

	sos, err := design(filterOrder, hz, fs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}

	for _, ch := range r.channels {
		rows, cols := ch.Dims()
		col := make([]float64, rows)
		for t := 0; t < cols; t++ {
			mat.Col(col, t, ch)
			filtered, err := dsp.FiltFilt(sos, col)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidParam, err)
			}
			ch.SetCol(t, filtered)
		}
	}

	return r.checkInvariant()
}

// resolveCutoff turns the caller-supplied cutoff into an absolute
// frequency in Hz. Numeric values pass through unchanged; strings are
// parsed as multipliers of the antenna center frequency.
func (r *Radar) resolveCutoff(cutoff any) (float64, error) {
	switch c := cutoff.(type) {
	case float64:
		return c, nil
	case float32:
		return float64(c), nil
	case int:
		return float64(c), nil
	case string:
		mult, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: unparseable cutoff multiplier %q", ErrInvalidParam, c)
		}
		if r.Header.Frequency <= 0 {
			return 0, fmt.Errorf("%w: relative cutoff %q needs the antenna center frequency; set Header.Frequency first",
				ErrMissingMetadata, c)
		}
		return mult * r.Header.Frequency, nil
	default:
		return 0, fmt.Errorf("%w: cutoff must be a number or a numeric string, got %T", ErrInvalidParam, cutoff)
	}
}

// samplingRate derives the vertical sampling frequency in Hz from the
// current row count and the header's two-way time window.
func (r *Radar) samplingRate() (float64, error) {
	if r.Header.Range <= 0 {
		return 0, fmt.Errorf("%w: trace time window unknown; set Header.Range first", ErrMissingMetadata)
	}
	return float64(r.Rows()) / (r.Header.Range * nsPerSecond), nil
}
