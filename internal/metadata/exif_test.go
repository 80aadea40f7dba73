package metadata

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/pkg/errors"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ifdEntry struct {
	tag    uint16
	typ    uint16
	count  uint32
	inline []byte // payload of at most 4 bytes
	data   []byte // out-of-line payload
}

// buildTIFF writes a little-endian TIFF with an IFD0 holding the capture
// time and a GPS sub-IFD holding latitude and longitude.
func buildTIFF(t *testing.T, latRef string, lat [3][2]uint32, lonRef string, lon [3][2]uint32, taken string) []byte {
	t.Helper()

	rational := func(v [3][2]uint32) []byte {
		b := make([]byte, 0, 24)
		for _, r := range v {
			b = binary.LittleEndian.AppendUint32(b, r[0])
			b = binary.LittleEndian.AppendUint32(b, r[1])
		}
		return b
	}
	ascii := func(s string) []byte { return append([]byte(s), 0) }

	const ifd0Offset = 8
	dateBytes := ascii(taken)
	ifd0Size := 2 + 2*12 + 4
	dateOffset := ifd0Offset + ifd0Size
	gpsOffset := dateOffset + len(dateBytes)
	gpsEntries := []ifdEntry{
		{tag: 0x0001, typ: 2, count: 2, inline: ascii(latRef)},
		{tag: 0x0002, typ: 5, count: 3, data: rational(lat)},
		{tag: 0x0003, typ: 2, count: 2, inline: ascii(lonRef)},
		{tag: 0x0004, typ: 5, count: 3, data: rational(lon)},
	}
	gpsSize := 2 + len(gpsEntries)*12 + 4
	dataOffset := gpsOffset + gpsSize

	var buf bytes.Buffer
	le := binary.LittleEndian
	w := func(v any) { require.NoError(t, binary.Write(&buf, le, v)) }

	buf.WriteString("II")
	w(uint16(42))
	w(uint32(ifd0Offset))

	w(uint16(2))
	w(uint16(0x8825))
	w(uint16(4))
	w(uint32(1))
	w(uint32(gpsOffset))
	w(uint16(0x9003))
	w(uint16(2))
	w(uint32(len(dateBytes)))
	w(uint32(dateOffset))
	w(uint32(0))

	buf.Write(dateBytes)

	var trailing []byte
	w(uint16(len(gpsEntries)))
	for _, e := range gpsEntries {
		w(e.tag)
		w(e.typ)
		w(e.count)
		if e.data != nil {
			w(uint32(dataOffset + len(trailing)))
			trailing = append(trailing, e.data...)
			continue
		}
		var inline [4]byte
		copy(inline[:], e.inline)
		buf.Write(inline[:])
	}
	w(uint32(0))
	buf.Write(trailing)

	return buf.Bytes()
}

func TestExtractGPSAndDate(t *testing.T) {
	data := buildTIFF(t,
		"N", [3][2]uint32{{40, 1}, {26, 1}, {46, 1}},
		"W", [3][2]uint32{{79, 1}, {58, 1}, {5600, 100}},
		"2023:05:01 10:20:30",
	)

	meta, err := NewExtractor().Extract(data)
	require.NoError(t, err)
	require.NotNil(t, meta.GPS)
	require.NotNil(t, meta.DateTaken)

	assert.Equal(t, "2023:05:01 10:20:30", *meta.DateTaken)
	assert.Equal(t, "N", meta.GPS.LatitudeRef)
	assert.Equal(t, "W", meta.GPS.LongitudeRef)
	assert.InDelta(t, 56.0, meta.GPS.Longitude.Seconds, 1e-9)

	lat, lon := meta.GPS.Decimal()
	assert.InDelta(t, 40.4461, lat, 1e-4)
	assert.InDelta(t, -79.9822, lon, 1e-4)
}

func TestExtractSouthernHemisphere(t *testing.T) {
	data := buildTIFF(t,
		"S", [3][2]uint32{{33, 1}, {51, 1}, {545, 10}},
		"E", [3][2]uint32{{151, 1}, {12, 1}, {0, 1}},
		"2021:12:24 08:00:00",
	)

	meta, err := NewExtractor().Extract(data)
	require.NoError(t, err)
	require.NotNil(t, meta.GPS)

	lat, lon := meta.GPS.Decimal()
	assert.InDelta(t, -33.865139, lat, 1e-6)
	assert.InDelta(t, 151.2, lon, 1e-6)
}

func TestExtractZeroDenominatorDropsGPS(t *testing.T) {
	data := buildTIFF(t,
		"N", [3][2]uint32{{40, 0}, {26, 1}, {46, 1}},
		"E", [3][2]uint32{{10, 1}, {0, 1}, {0, 1}},
		"2020:01:01 00:00:00",
	)

	meta, err := NewExtractor().Extract(data)
	require.NoError(t, err)
	assert.Nil(t, meta.GPS)
	require.NotNil(t, meta.DateTaken)
}

func TestExtractWithoutExif(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	meta, err := NewExtractor().Extract(buf.Bytes())
	assert.Error(t, err)
	assert.Nil(t, meta)
}

func TestExtractGarbage(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		[]byte("not an image"),
		[]byte("II*\x00\xff\xff\xff\xff"),
	} {
		assert.NotPanics(t, func() {
			meta, err := NewExtractor().Extract(data)
			assert.Error(t, err)
			assert.Nil(t, meta)
		})
	}
}

func TestExtractRecoversDecoderPanic(t *testing.T) {
	orig := decodeEXIF
	decodeEXIF = func([]byte) (*exif.Exif, error) { panic("index out of range") }
	t.Cleanup(func() { decodeEXIF = orig })

	meta, err := NewExtractor().Extract([]byte("broken"))
	require.Error(t, err)
	assert.Nil(t, meta)
	assert.Contains(t, err.Error(), "exif decode panicked: index out of range")

	var traced interface{ StackTrace() errors.StackTrace }
	assert.True(t, errors.As(err, &traced))
}
