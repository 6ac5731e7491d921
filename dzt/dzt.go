// Package dzt decodes GSSI DZT ground penetrating radar survey files.
//
// A DZT file begins with a fixed 1024-byte little-endian header block,
// optionally followed by further 1024-byte header blocks (one per extra
// channel in the legacy layout, or a header-declared count in the modern
// layout), and then a flat payload of fixed-width samples. Samples are
// stored trace-major with the channels interleaved trace by trace:
//
//	trace 0 (channel 0) | trace 0 (channel 1) | trace 1 (channel 0) | ...
//
// Decode reconstructs one samples-by-traces matrix per channel together
// with the instrument metadata. Unsigned sample encodings (8- and 16-bit)
// are re-centered around zero during loading, so the returned matrices are
// always zero-biased float64 regardless of the on-disk representation.
package dzt

import (
	"errors"
	"time"
)

// Errors returned by the decoder.
var (
	// ErrFormat indicates a malformed or unsupported DZT layout: an
	// unknown header tag, a truncated payload, or declared sizes that
	// do not agree with the file contents.
	ErrFormat = errors.New("invalid DZT format")

	// ErrInvariant indicates an internal consistency failure in the
	// decoder itself rather than a problem with the input file.
	ErrInvariant = errors.New("decoder invariant violated")
)

const (
	// headerBlockLen is the size of one DZT header block in bytes.
	headerBlockLen = 1024

	// tagRFData is the header tag of the supported layout generation.
	tagRFData = 0x00ff

	// legacyDataBlock is the value of the data field that marks the
	// legacy layout, where each channel carries its own header block.
	legacyDataBlock = 1024

	// DefaultMarkerRows is the number of leading sample rows per trace
	// that hold marker/annotation values instead of radar returns.
	DefaultMarkerRows = 2
)

// Supported sample widths in bits. 8- and 16-bit data is unsigned on disk
// with a fixed midpoint bias; 32- and 64-bit data is signed.
const (
	bits8  = 8
	bits16 = 16
	bits32 = 32
	bits64 = 64
)

// Midpoint biases for the unsigned encodings.
const (
	bias8  = 1 << 7
	bias16 = 1 << 15
)

// Header holds the decoded fields of the first DZT header block.
//
// Fields the trace loader depends on (SamplesPerTrace, Channels, Bits) are
// validated during decoding. Frequency and MarkerRows start from
// format-convention defaults and may be overwritten by the caller before
// running frequency-relative processing. Extra carries caller-defined
// annotations that have no dedicated field.
type Header struct {
	Tag       uint16 // layout discriminator, first two bytes of the file
	DataBlock uint16 // header region length in 1024-byte blocks (modern layout)

	SamplesPerTrace int // samples recorded per trace
	Bits            int // sample width in bits
	ZeroSample      int // time-zero adjustment, in samples

	ScansPerSecond float64 // trace acquisition rate
	ScansPerMeter  float64 // traces per meter of survey line
	MetersPerMark  float64 // distance between survey marks
	Position       float64 // vertical start position, ns
	Range          float64 // two-way time window per trace, ns

	PassCount int // antenna passes

	CreateTime time.Time // survey creation timestamp, zero if undecodable
	ModifyTime time.Time // last modification timestamp, zero if undecodable

	GainOffset int // byte offset of the range-gain region
	GainCount  int // entries in the range-gain region
	TextOffset int // byte offset of the operator text region
	TextCount  int // bytes of operator text
	ProcOffset int // byte offset of the processing-history region
	ProcCount  int // bytes of processing history

	Channels int // interleaved acquisition channels

	Epsr         float64 // assumed relative permittivity
	TopPosition  float64 // top of the displayed window, m
	DepthRange   float64 // depth window, m
	DataType     byte    // vendor data type code
	Antenna      string  // antenna model name
	ChannelMask  uint16  // active channel bitmask
	FileName     string  // original survey file name
	Checksum     uint16  // header checksum as stored

	// Frequency is the antenna center frequency in Hz, inferred from the
	// antenna model name when possible. Zero means unknown; callers must
	// set it before using frequency-relative filter cutoffs.
	Frequency float64

	// MarkerRows is the number of leading marker rows embedded in every
	// trace, DefaultMarkerRows unless overridden by the caller.
	MarkerRows int

	// ExtraHeaders holds the raw trailing header blocks, one 1024-byte
	// slice per block, for callers that need vendor extension data.
	ExtraHeaders [][]byte

	// Extra carries caller-defined metadata added after decoding.
	Extra map[string]any
}

// decodeTimestamp unpacks the packed DOS-style DZT date bitfield:
//
//	bits  0-4   seconds/2
//	bits  5-10  minutes
//	bits 11-15  hours
//	bits 16-20  day
//	bits 21-24  month
//	bits 25-31  year - 1980
//
// The zero time is returned when any component is out of range, which is
// how blank (all-zero) date fields present themselves.
func decodeTimestamp(packed uint32) time.Time {
	sec2 := int(packed & 0x1f)
	minute := int(packed >> 5 & 0x3f)
	hour := int(packed >> 11 & 0x1f)
	day := int(packed >> 16 & 0x1f)
	month := int(packed >> 21 & 0x0f)
	year := int(packed >> 25 & 0x7f)

	if sec2 > 29 || minute > 59 || hour > 23 ||
		day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}
	}
	return time.Date(1980+year, time.Month(month), day, hour, minute, 2*sec2, 0, time.UTC)
}

// antennaFrequency infers the center frequency in Hz from the antenna
// model name. GSSI model numbers encode the frequency band in the leading
// digits; only the bands the processing stages care about are mapped.
func antennaFrequency(model string) float64 {
	switch {
	case len(model) >= 2 && model[:2] == "41":
		return 1e9
	case len(model) >= 2 && model[:2] == "42":
		return 2e9
	default:
		return 0
	}
}
