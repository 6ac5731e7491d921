package dzt_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-gpr/dzt"
	"github.com/tphakala/go-gpr/internal/testutil"
)

func TestDecodeHeaderFields(t *testing.T) {
	f := testutil.NewDZTFile(256, 10, 2)
	f.Range = 50
	f.ScansPerSecond = 120
	f.ScansPerMeter = 25
	f.Antenna = "4108 10NS+"
	f.FileName = "LINE_042.DZT"
	// 2019-08-28 13:37:14 in the packed DOS-style bitfield.
	f.CreateDate = 7 | 37<<5 | 13<<11 | 28<<16 | 8<<21 | 39<<25

	hdr, channels, err := dzt.Decode(bytes.NewReader(f.Encode()))
	require.NoError(t, err)
	require.Len(t, channels, 2)

	assert.Equal(t, 256, hdr.SamplesPerTrace)
	assert.Equal(t, 16, hdr.Bits)
	assert.Equal(t, 2, hdr.Channels)
	assert.InDelta(t, 50.0, hdr.Range, 1e-6)
	assert.InDelta(t, 120.0, hdr.ScansPerSecond, 1e-6)
	assert.InDelta(t, 25.0, hdr.ScansPerMeter, 1e-6)
	assert.Equal(t, "4108 10NS+", hdr.Antenna)
	assert.Equal(t, "LINE_042.DZT", hdr.FileName)
	assert.Equal(t, dzt.DefaultMarkerRows, hdr.MarkerRows)
	assert.Equal(t, time.Date(2019, time.August, 28, 13, 37, 14, 0, time.UTC), hdr.CreateTime)
	assert.True(t, hdr.ModifyTime.IsZero(), "blank date field should decode to the zero time")

	for _, ch := range channels {
		rows, cols := ch.Dims()
		assert.Equal(t, 256, rows)
		assert.Equal(t, 10, cols)
	}
}

func TestDecodeAntennaFrequency(t *testing.T) {
	tests := []struct {
		name    string
		antenna string
		want    float64
	}{
		{"1GHz_horn", "4105NR", 1e9},
		{"2GHz_palm", "42000S", 2e9},
		{"unknown_model", "3101A", 0},
		{"blank", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.NewDZTFile(64, 4, 1)
			f.Antenna = tt.antenna

			hdr, _, err := dzt.Decode(bytes.NewReader(f.Encode()))
			require.NoError(t, err)
			assert.Equal(t, tt.want, hdr.Frequency)
		})
	}
}

func TestDecodeUnsupportedTag(t *testing.T) {
	f := testutil.NewDZTFile(64, 4, 1)
	f.Tag = 0x00aa

	_, _, err := dzt.Decode(bytes.NewReader(f.Encode()))
	require.ErrorIs(t, err, dzt.ErrFormat)
	assert.Contains(t, err.Error(), "0x00aa")
}

func TestDecodeRejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*testutil.DZTFile)
	}{
		{"zero_samples", func(f *testutil.DZTFile) { f.Samples = 0 }},
		{"zero_channels", func(f *testutil.DZTFile) { f.Channels = 0 }},
		{"odd_bit_width", func(f *testutil.DZTFile) { f.Bits = 24 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.NewDZTFile(64, 4, 1)
			tt.mutate(f)
			// Header only; decoding must fail before the payload.
			_, _, err := dzt.Decode(bytes.NewReader(f.EncodeHeaderRegion()))
			require.ErrorIs(t, err, dzt.ErrFormat)
		})
	}
}

func TestDecodeTruncatedHeader(t *testing.T) {
	f := testutil.NewDZTFile(64, 4, 1)
	_, _, err := dzt.Decode(bytes.NewReader(f.Encode()[:100]))
	require.ErrorIs(t, err, dzt.ErrFormat)
}

func TestDecodeTruncatedPayload(t *testing.T) {
	f := testutil.NewDZTFile(64, 4, 2)
	full := f.Encode()

	// Drop half a trace group from the end.
	_, _, err := dzt.Decode(bytes.NewReader(full[:len(full)-64]))
	require.ErrorIs(t, err, dzt.ErrFormat)
	assert.Contains(t, err.Error(), "truncated")
}

func TestDecodeEmptyPayload(t *testing.T) {
	f := testutil.NewDZTFile(64, 4, 1)
	_, _, err := dzt.Decode(bytes.NewReader(f.EncodeHeaderRegion()))
	require.ErrorIs(t, err, dzt.ErrFormat)
}

func TestDecodeDeinterleave(t *testing.T) {
	f := testutil.NewDZTFile(8, 5, 2)
	// Tag each sample with a value identifying (channel, trace, sample).
	for ch := 0; ch < 2; ch++ {
		for tr := 0; tr < 5; tr++ {
			for s := 0; s < 8; s++ {
				f.SetCentered(ch, tr, s, float64(1000*ch+100*tr+s))
			}
		}
	}

	_, channels, err := dzt.Decode(bytes.NewReader(f.Encode()))
	require.NoError(t, err)
	require.Len(t, channels, 2)

	for ch, m := range channels {
		rows, cols := m.Dims()
		require.Equal(t, 8, rows)
		require.Equal(t, 5, cols)
		for tr := 0; tr < cols; tr++ {
			for s := 0; s < rows; s++ {
				assert.Equal(t, float64(1000*ch+100*tr+s), m.At(s, tr),
					"channel %d trace %d sample %d", ch, tr, s)
			}
		}
	}
}

func TestDecodeZeroCentering(t *testing.T) {
	t.Run("16bit", func(t *testing.T) {
		f := testutil.NewDZTFile(4, 2, 1)
		f.SetSample(0, 0, 0, 0)       // unsigned minimum
		f.SetSample(0, 0, 1, 1<<15)   // midpoint
		f.SetSample(0, 0, 2, 1<<16-1) // unsigned maximum

		_, channels, err := dzt.Decode(bytes.NewReader(f.Encode()))
		require.NoError(t, err)

		assert.Equal(t, -32768.0, channels[0].At(0, 0))
		assert.Equal(t, 0.0, channels[0].At(1, 0))
		assert.Equal(t, 32767.0, channels[0].At(2, 0))
	})

	t.Run("8bit", func(t *testing.T) {
		f := testutil.NewDZTFile(4, 2, 1)
		f.Bits = 8
		for i := range f.Raw {
			f.Raw[i] = 1 << 7
		}
		f.SetSample(0, 0, 0, 0)
		f.SetSample(0, 0, 1, 255)

		_, channels, err := dzt.Decode(bytes.NewReader(f.Encode()))
		require.NoError(t, err)

		assert.Equal(t, -128.0, channels[0].At(0, 0))
		assert.Equal(t, 127.0, channels[0].At(1, 0))
		assert.Equal(t, 0.0, channels[0].At(2, 0))
	})

	t.Run("32bit_signed", func(t *testing.T) {
		f := testutil.NewDZTFile(4, 2, 1)
		f.Bits = 32
		for i := range f.Raw {
			f.Raw[i] = 0
		}
		f.SetSample(0, 0, 0, 0xffffffff) // -1 as int32

		_, channels, err := dzt.Decode(bytes.NewReader(f.Encode()))
		require.NoError(t, err)

		assert.Equal(t, -1.0, channels[0].At(0, 0))
		assert.Equal(t, 0.0, channels[0].At(1, 0))
	})
}

func TestDecodeModernLayout(t *testing.T) {
	f := testutil.NewDZTFile(32, 6, 1)
	f.DataBlock = 3 // header region spans three 1024-byte blocks

	hdr, channels, err := dzt.Decode(bytes.NewReader(f.Encode()))
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Len(t, hdr.ExtraHeaders, 2)

	rows, cols := channels[0].Dims()
	assert.Equal(t, 32, rows)
	assert.Equal(t, 6, cols)
}

func TestDecodeExcessWholeTraces(t *testing.T) {
	// A recorder that keeps appending whole trace groups after the
	// surveyed line is still decodable; the extra traces are data.
	f := testutil.NewDZTFile(16, 3, 1)
	hdr, channels, err := dzt.Decode(bytes.NewReader(f.Encode()))
	require.NoError(t, err)
	require.Equal(t, 1, hdr.Channels)

	_, cols := channels[0].Dims()
	assert.Equal(t, 3, cols)
}
