package dzt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// headerDecoders maps the header tag to the decode function for that
// layout generation. Decoding fails with ErrFormat for tags that have no
// entry here rather than guessing at field offsets.
var headerDecoders = map[uint16]func([]byte) (*Header, error){
	tagRFData: decodeRFDataHeader,
}

// Decode reads a complete DZT stream: the header region, then the sample
// payload, reshaped into one samples-by-traces matrix per channel.
//
// The reader is consumed to EOF. Decode allocates all state it returns and
// never mutates caller state, so a failed decode leaves nothing behind.
func Decode(r io.Reader) (*Header, []*mat.Dense, error) {
	hdr, err := readHeaderRegion(r)
	if err != nil {
		return nil, nil, err
	}

	traces, err := readTraceMatrix(r, hdr)
	if err != nil {
		return nil, nil, err
	}

	channels, err := deinterleave(traces, hdr.Channels)
	if err != nil {
		return nil, nil, err
	}

	return hdr, channels, nil
}

// readHeaderRegion reads the first header block, dispatches on the tag,
// and consumes the remaining blocks of the header region so that the
// reader is positioned at the start of the sample payload.
func readHeaderRegion(r io.Reader) (*Header, error) {
	block := make([]byte, headerBlockLen)
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, fmt.Errorf("%w: reading header block: %v", ErrFormat, err)
	}

	tag := binary.LittleEndian.Uint16(block[0:2])
	decode, ok := headerDecoders[tag]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported header tag 0x%04x", ErrFormat, tag)
	}

	hdr, err := decode(block)
	if err != nil {
		return nil, err
	}

	// The legacy layout repeats the header once per channel; the modern
	// layout declares the header region length in the data field.
	extraBlocks := int(hdr.DataBlock) - 1
	if hdr.DataBlock == legacyDataBlock {
		extraBlocks = hdr.Channels - 1
	}

	for i := 0; i < extraBlocks; i++ {
		extra := make([]byte, headerBlockLen)
		if _, err := io.ReadFull(r, extra); err != nil {
			return nil, fmt.Errorf("%w: reading header block %d: %v", ErrFormat, i+1, err)
		}
		hdr.ExtraHeaders = append(hdr.ExtraHeaders, extra)
	}

	return hdr, nil
}

// decodeRFDataHeader decodes the 0x00ff header block layout. All fields
// sit at fixed byte offsets and are little-endian with no padding.
func decodeRFDataHeader(b []byte) (*Header, error) {
	hdr := &Header{
		Tag:             binary.LittleEndian.Uint16(b[0:2]),
		DataBlock:       binary.LittleEndian.Uint16(b[2:4]),
		SamplesPerTrace: int(binary.LittleEndian.Uint16(b[4:6])),
		Bits:            int(binary.LittleEndian.Uint16(b[6:8])),
		ZeroSample:      int(int16(binary.LittleEndian.Uint16(b[8:10]))),
		ScansPerSecond:  float64(math.Float32frombits(binary.LittleEndian.Uint32(b[10:14]))),
		ScansPerMeter:   float64(math.Float32frombits(binary.LittleEndian.Uint32(b[14:18]))),
		MetersPerMark:   float64(math.Float32frombits(binary.LittleEndian.Uint32(b[18:22]))),
		Position:        float64(math.Float32frombits(binary.LittleEndian.Uint32(b[22:26]))),
		Range:           float64(math.Float32frombits(binary.LittleEndian.Uint32(b[26:30]))),
		PassCount:       int(binary.LittleEndian.Uint16(b[30:32])),
		CreateTime:      decodeTimestamp(binary.LittleEndian.Uint32(b[32:36])),
		ModifyTime:      decodeTimestamp(binary.LittleEndian.Uint32(b[36:40])),
		GainOffset:      int(binary.LittleEndian.Uint16(b[40:42])),
		GainCount:       int(binary.LittleEndian.Uint16(b[42:44])),
		TextOffset:      int(binary.LittleEndian.Uint16(b[44:46])),
		TextCount:       int(binary.LittleEndian.Uint16(b[46:48])),
		ProcOffset:      int(binary.LittleEndian.Uint16(b[48:50])),
		ProcCount:       int(binary.LittleEndian.Uint16(b[50:52])),
		Channels:        int(binary.LittleEndian.Uint16(b[52:54])),
		Epsr:            float64(math.Float32frombits(binary.LittleEndian.Uint32(b[54:58]))),
		TopPosition:     float64(math.Float32frombits(binary.LittleEndian.Uint32(b[58:62]))),
		DepthRange:      float64(math.Float32frombits(binary.LittleEndian.Uint32(b[62:66]))),
		DataType:        b[97],
		Antenna:         trimPadded(b[98:112]),
		ChannelMask:     binary.LittleEndian.Uint16(b[112:114]),
		FileName:        trimPadded(b[114:126]),
		Checksum:        binary.LittleEndian.Uint16(b[126:128]),
		MarkerRows:      DefaultMarkerRows,
		Extra:           make(map[string]any),
	}

	hdr.Frequency = antennaFrequency(hdr.Antenna)

	if hdr.SamplesPerTrace == 0 {
		return nil, fmt.Errorf("%w: header declares zero samples per trace", ErrFormat)
	}
	if hdr.Channels == 0 {
		return nil, fmt.Errorf("%w: header declares zero channels", ErrFormat)
	}
	switch hdr.Bits {
	case bits8, bits16, bits32, bits64:
	default:
		return nil, fmt.Errorf("%w: unsupported sample width %d bits", ErrFormat, hdr.Bits)
	}

	return hdr, nil
}

// trimPadded converts a NUL-padded fixed-width field to a string.
func trimPadded(b []byte) string {
	return strings.TrimRight(strings.TrimSpace(strings.ReplaceAll(string(b), "\x00", " ")), " ")
}

// readTraceMatrix reads the sample payload and reshapes it into a single
// samples-by-columns matrix holding every channel's traces interleaved in
// file order. The payload must hold a whole number of trace groups; a
// short final group means the file was truncated mid-write.
//
// Unsigned sample encodings carry a fixed midpoint bias on disk and are
// re-centered here so that later stages only ever see zero-biased values.
func readTraceMatrix(r io.Reader, hdr *Header) (*mat.Dense, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sample payload: %v", ErrFormat, err)
	}

	bytesPerSample := hdr.Bits / 8
	groupLen := hdr.SamplesPerTrace * hdr.Channels * bytesPerSample

	traceCount := len(payload) / groupLen
	if traceCount == 0 {
		return nil, fmt.Errorf("%w: payload holds %d bytes, need at least %d for one trace group",
			ErrFormat, len(payload), groupLen)
	}
	if len(payload)%groupLen != 0 {
		return nil, fmt.Errorf("%w: truncated payload: %d bytes is not a whole number of %d-byte trace groups",
			ErrFormat, len(payload), groupLen)
	}

	rows := hdr.SamplesPerTrace
	cols := traceCount * hdr.Channels

	// Payload order is trace-major; the matrix is samples-by-traces, so
	// trace t sample s lands at row s, column t.
	backing := make([]float64, rows*cols)
	for t := 0; t < cols; t++ {
		base := t * rows * bytesPerSample
		for s := 0; s < rows; s++ {
			backing[s*cols+t] = decodeSample(payload[base+s*bytesPerSample:], hdr.Bits)
		}
	}

	return mat.NewDense(rows, cols, backing), nil
}

// decodeSample decodes one little-endian sample to a zero-centered value.
func decodeSample(b []byte, bits int) float64 {
	switch bits {
	case bits8:
		return float64(int(b[0]) - bias8)
	case bits16:
		return float64(int(binary.LittleEndian.Uint16(b)) - bias16)
	case bits32:
		return float64(int32(binary.LittleEndian.Uint32(b)))
	default:
		return float64(int64(binary.LittleEndian.Uint64(b)))
	}
}

// deinterleave splits the combined matrix into one matrix per channel by
// strided column selection: channel c holds columns c, c+n, c+2n, ...
// preserving sample order within each trace.
func deinterleave(m *mat.Dense, channels int) ([]*mat.Dense, error) {
	rows, cols := m.Dims()
	if channels <= 0 || cols%channels != 0 {
		return nil, fmt.Errorf("%w: %d columns do not split into %d channels", ErrInvariant, cols, channels)
	}

	traceCount := cols / channels
	out := make([]*mat.Dense, channels)
	col := make([]float64, rows)
	for c := 0; c < channels; c++ {
		ch := mat.NewDense(rows, traceCount, nil)
		for t := 0; t < traceCount; t++ {
			mat.Col(col, c+t*channels, m)
			ch.SetCol(t, col)
		}
		out[c] = ch
	}
	return out, nil
}
