// Package gpr reads and conditions ground penetrating radar surveys in pure Go.
//
// The library decodes the GSSI DZT binary format into per-channel trace
// matrices and provides the signal conditioning needed before analysis:
// marker-row stripping, per-trace DC baseline removal, and zero-phase
// Butterworth filtering.
//
// # Quick Start
//
// Load a survey and condition the primary channel:
//
//	radar, err := gpr.Open("survey.dzt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := radar.StripMarkers(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := radar.RemoveDC(500); err != nil {
//	    log.Fatal(err)
//	}
//	if err := radar.Lowpass(500e6); err != nil { // 500 MHz, absolute
//	    log.Fatal(err)
//	}
//	analyze(radar.Data())
//
// # Data Model
//
// A [Radar] owns one samples-by-traces matrix per acquisition channel, all
// sharing identical dimensions. [Radar.Data] is an alias of channel 0, not
// a copy: in-place transforms are visible through both access paths. The
// decoded instrument metadata lives in [Radar.Header]; its Frequency and
// MarkerRows fields may be adjusted by the caller between loading and
// processing, and Extra carries arbitrary caller-defined annotations.
//
// # Lifecycle
//
// Operations are ordered: [Radar.ReadFile] (or [Radar.ReadFrom]) must come
// first, [Radar.StripMarkers] may run once after loading, and the
// processing operations may then run in any order and combination. Calls
// outside this order fail with [ErrState]. [Radar.Reset] returns a Radar
// to its unloaded state.
//
// # Filter Cutoffs
//
// [Radar.Lowpass] and [Radar.Highpass] accept the cutoff either as a
// number (absolute frequency in Hz) or as a numeric string, which is
// parsed and multiplied by the antenna center frequency in
// Header.Frequency:
//
//	radar.Lowpass(500e6) // 500 MHz
//	radar.Lowpass("6")   // 6 x center frequency
//
// The reference design is an order-6 Butterworth cascade applied
// forward-backward along the sample axis, so the passband is flat, the
// rolloff monotonic, and no time shift is introduced.
//
// # Errors
//
// All failures surface synchronously from the call that triggered them and
// wrap one of the sentinel errors [ErrFormat], [ErrState],
// [ErrMissingMetadata], [ErrInvalidParam] or [ErrInvariant]; nothing is
// retried or recovered internally.
package gpr
