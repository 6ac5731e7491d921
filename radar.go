package gpr

import (
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/go-gpr/dzt"
)

// Radar holds one decoded GPR survey: the instrument header and one
// samples-by-traces matrix per acquisition channel.
//
// All channel matrices share identical dimensions; this invariant is
// re-checked after every mutating operation and a violation surfaces as
// ErrInvariant. The zero value is an empty Radar ready for ReadFile.
type Radar struct {
	// Header is the decoded instrument metadata. Callers may adjust
	// Frequency and MarkerRows before processing and may store their
	// own annotations in Header.Extra.
	Header *dzt.Header

	channels []*mat.Dense
	markers  []Marker

	loaded          bool
	markersStripped bool
}

// New returns an empty Radar.
func New() *Radar {
	return &Radar{}
}

// Open is a convenience constructor that loads the survey at path.
func Open(path string) (*Radar, error) {
	r := New()
	if err := r.ReadFile(path); err != nil {
		return nil, err
	}
	return r, nil
}

// ReadFile loads a DZT survey file. The file is opened, read and closed
// within the call; no handle is retained. Loading is atomic: on any
// failure the Radar is left exactly as it was before the call.
//
// A Radar can be loaded only once; call Reset first to reuse it.
func (r *Radar) ReadFile(path string) error {
	if r.loaded {
		return fmt.Errorf("%w: survey already loaded (call Reset to reuse)", ErrState)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return r.ReadFrom(f)
}

// ReadFrom loads a DZT survey from an arbitrary reader, consuming it to
// EOF. It follows the same contract as ReadFile.
func (r *Radar) ReadFrom(rd io.Reader) error {
	if r.loaded {
		return fmt.Errorf("%w: survey already loaded (call Reset to reuse)", ErrState)
	}

	hdr, channels, err := dzt.Decode(rd)
	if err != nil {
		return err
	}

	r.Header = hdr
	r.channels = channels
	r.loaded = true
	return r.checkInvariant()
}

// Reset returns the Radar to its unloaded state, discarding the header,
// all channel data and any extracted markers.
func (r *Radar) Reset() {
	*r = Radar{}
}

// Channels returns the per-channel trace matrices in acquisition order.
// The slice and the matrices are the Radar's own storage, not copies.
func (r *Radar) Channels() []*mat.Dense {
	return r.channels
}

// Data returns the primary (first) channel's matrix. It is an alias of
// Channels()[0]: in-place transforms are visible through both paths.
// Data returns nil before a survey has been loaded.
func (r *Radar) Data() *mat.Dense {
	if len(r.channels) == 0 {
		return nil
	}
	return r.channels[0]
}

// Rows returns the samples per trace, zero before loading.
func (r *Radar) Rows() int {
	if len(r.channels) == 0 {
		return 0
	}
	rows, _ := r.channels[0].Dims()
	return rows
}

// Cols returns the trace count per channel, zero before loading.
func (r *Radar) Cols() int {
	if len(r.channels) == 0 {
		return 0
	}
	_, cols := r.channels[0].Dims()
	return cols
}

// NumChannels returns the number of acquisition channels, zero before
// loading.
func (r *Radar) NumChannels() int {
	return len(r.channels)
}

// checkInvariant verifies that every channel matrix shares the dimensions
// of channel 0.
func (r *Radar) checkInvariant() error {
	if len(r.channels) == 0 {
		return fmt.Errorf("%w: no channel matrices", ErrInvariant)
	}
	rows, cols := r.channels[0].Dims()
	for i, ch := range r.channels[1:] {
		chRows, chCols := ch.Dims()
		if chRows != rows || chCols != cols {
			return fmt.Errorf("%w: channel %d is %dx%d, channel 0 is %dx%d",
				ErrInvariant, i+1, chRows, chCols, rows, cols)
		}
	}
	return nil
}

// requireLoaded guards operations that need decoded data.
func (r *Radar) requireLoaded(op string) error {
	if !r.loaded {
		return fmt.Errorf("%w: %s requires a loaded survey", ErrState, op)
	}
	return nil
}

// String summarizes the loaded survey.
func (r *Radar) String() string {
	if !r.loaded {
		return "gpr.Radar (empty)"
	}
	return fmt.Sprintf("gpr.Radar (%d channels, %d samples x %d traces)",
		r.NumChannels(), r.Rows(), r.Cols())
}
