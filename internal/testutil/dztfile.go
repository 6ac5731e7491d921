package testutil

import (
	"encoding/binary"
	"math"
)

// DZT header constants mirrored here so fixtures do not depend on the
// decoder under test.
const (
	dztHeaderLen = 1024
	dztTag       = 0x00ff
)

// DZTFile is a synthetic DZT survey for decoder and pipeline tests.
// Encode produces the complete on-disk byte stream: the header region
// followed by the trace-major, channel-interleaved sample payload.
type DZTFile struct {
	Tag       uint16
	DataBlock uint16 // 1024 marks the legacy layout

	Samples  int
	Bits     int
	Channels int
	Traces   int

	ZeroSample     int16
	ScansPerSecond float32
	ScansPerMeter  float32
	MetersPerMark  float32
	Position       float32
	Range          float32
	CreateDate     uint32
	Antenna        string
	FileName       string

	// Raw holds one unsigned sample word per payload sample in file
	// order; values are encoded at the Bits width.
	Raw []uint64
}

// NewDZTFile returns a fixture with the given geometry, 16-bit samples,
// legacy layout, a 1 GHz antenna and every sample at the unsigned
// midpoint (decoding to zero).
func NewDZTFile(samples, traces, channels int) *DZTFile {
	f := &DZTFile{
		Tag:            dztTag,
		DataBlock:      dztHeaderLen,
		Samples:        samples,
		Bits:           16,
		Channels:       channels,
		Traces:         traces,
		ScansPerSecond: 100,
		ScansPerMeter:  50,
		Range:          100, // ns
		Antenna:        "4105NR",
		FileName:       "FIX_001.DZT",
		Raw:            make([]uint64, samples*traces*channels),
	}
	for i := range f.Raw {
		f.Raw[i] = 1 << 15
	}
	return f
}

// SetSample stores a raw sample word for channel ch, trace t, sample s.
func (f *DZTFile) SetSample(ch, t, s int, raw uint64) {
	f.Raw[(t*f.Channels+ch)*f.Samples+s] = raw
}

// SetCentered stores a zero-centered value, applying the unsigned
// midpoint bias the decoder will remove again.
func (f *DZTFile) SetCentered(ch, t, s int, v float64) {
	f.SetSample(ch, t, s, uint64(int64(math.Round(v))+int64(1)<<(f.Bits-1)))
}

// Encode renders the complete DZT byte stream.
func (f *DZTFile) Encode() []byte {
	out := f.EncodeHeaderRegion()
	return append(out, f.EncodePayload()...)
}

// EncodeHeaderRegion renders the header blocks only. Legacy layouts get
// one zero-filled extra block per additional channel; modern layouts get
// DataBlock-1 extra blocks.
func (f *DZTFile) EncodeHeaderRegion() []byte {
	b := make([]byte, dztHeaderLen)

	binary.LittleEndian.PutUint16(b[0:2], f.Tag)
	binary.LittleEndian.PutUint16(b[2:4], f.DataBlock)
	binary.LittleEndian.PutUint16(b[4:6], uint16(f.Samples))
	binary.LittleEndian.PutUint16(b[6:8], uint16(f.Bits))
	binary.LittleEndian.PutUint16(b[8:10], uint16(f.ZeroSample))
	binary.LittleEndian.PutUint32(b[10:14], math.Float32bits(f.ScansPerSecond))
	binary.LittleEndian.PutUint32(b[14:18], math.Float32bits(f.ScansPerMeter))
	binary.LittleEndian.PutUint32(b[18:22], math.Float32bits(f.MetersPerMark))
	binary.LittleEndian.PutUint32(b[22:26], math.Float32bits(f.Position))
	binary.LittleEndian.PutUint32(b[26:30], math.Float32bits(f.Range))
	binary.LittleEndian.PutUint32(b[32:36], f.CreateDate)
	binary.LittleEndian.PutUint16(b[52:54], uint16(f.Channels))
	copy(b[98:112], f.Antenna)
	copy(b[114:126], f.FileName)

	extraBlocks := int(f.DataBlock) - 1
	if f.DataBlock == dztHeaderLen {
		extraBlocks = f.Channels - 1
	}
	if extraBlocks < 0 {
		extraBlocks = 0
	}
	return append(b, make([]byte, extraBlocks*dztHeaderLen)...)
}

// EncodePayload renders the sample payload.
func (f *DZTFile) EncodePayload() []byte {
	width := f.Bits / 8
	out := make([]byte, len(f.Raw)*width)
	for i, v := range f.Raw {
		switch f.Bits {
		case 8:
			out[i] = byte(v)
		case 16:
			binary.LittleEndian.PutUint16(out[i*width:], uint16(v))
		case 32:
			binary.LittleEndian.PutUint32(out[i*width:], uint32(v))
		default:
			binary.LittleEndian.PutUint64(out[i*width:], v)
		}
	}
	return out
}
