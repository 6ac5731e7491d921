package gpr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Marker is one survey annotation recovered from the marker rows before
// they are stripped.
type Marker struct {
	// Trace is the trace (column) index the marker was recorded at.
	Trace int

	// Raw is the marker word exactly as stored in the file.
	Raw uint64

	// Value is the marker word with its bit order reversed, which is how
	// the recorder packs marker codes.
	Value uint64
}

// StripMarkers removes the leading marker rows from every channel and
// re-aligns the sample axis, so that sample row k afterwards corresponds
// to row k+Header.MarkerRows of the freshly loaded data. The number of
// rows removed is Header.MarkerRows, which the caller may override
// between loading and stripping.
//
// Marker annotations found in the marker rows of the primary channel are
// recovered first and remain available through Markers.
//
// Stripping is a one-shot operation: a second call fails with ErrState
// rather than silently removing radar samples.
func (r *Radar) StripMarkers() error {
	if err := r.requireLoaded("StripMarkers"); err != nil {
		return err
	}
	if r.markersStripped {
		return fmt.Errorf("%w: markers already stripped", ErrState)
	}
	if err := r.checkInvariant(); err != nil {
		return err
	}

	markerRows := r.Header.MarkerRows
	if markerRows < 0 || markerRows >= r.Rows() {
		return fmt.Errorf("%w: cannot strip %d marker rows from %d sample rows",
			ErrInvalidParam, markerRows, r.Rows())
	}

	if markerRows > 0 {
		r.markers = r.extractMarkers()
		for i, ch := range r.channels {
			rows, cols := ch.Dims()
			r.channels[i] = ch.Slice(markerRows, rows, 0, cols).(*mat.Dense)
		}
	}

	r.markersStripped = true
	return r.checkInvariant()
}

// Markers returns the annotations recovered by StripMarkers, in trace
// order. It returns nil before markers have been stripped.
func (r *Radar) Markers() []Marker {
	return r.markers
}

// extractMarkers scans the marker value row of the primary channel for
// nonzero entries. Marker words are recorded as raw unsigned counts, so
// the loader's zero-centering is undone before testing for presence.
func (r *Radar) extractMarkers() []Marker {
	const valueRow = 1
	if r.Header.MarkerRows <= valueRow {
		return nil
	}

	bias := unsignedBias(r.Header.Bits)
	mask := sampleMask(r.Header.Bits)
	data := r.Data()
	_, cols := data.Dims()

	var markers []Marker
	for t := 0; t < cols; t++ {
		// Masking to the sample width keeps a negative signed sample's
		// two's-complement on-disk word instead of its sign extension.
		raw := uint64(int64(data.At(valueRow, t))+bias) & mask
		if raw == 0 {
			continue
		}
		markers = append(markers, Marker{
			Trace: t,
			Raw:   raw,
			Value: reverseBits(raw),
		})
	}
	return markers
}

// sampleMask returns the all-ones mask of the sample width.
func sampleMask(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(bits) - 1
}

// unsignedBias returns the midpoint bias the loader subtracted from
// unsigned sample encodings, zero for the signed widths.
func unsignedBias(bits int) int64 {
	switch bits {
	case 8, 16:
		return 1 << (bits - 1)
	default:
		return 0
	}
}

// reverseBits reverses the minimal-width binary representation of v, so
// 0b1101 becomes 0b1011. Zero maps to zero.
func reverseBits(v uint64) uint64 {
	var out uint64
	for ; v > 0; v >>= 1 {
		out = out<<1 | v&1
	}
	return out
}
