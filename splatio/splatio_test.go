package splatio

import (
	"bytes"
	"encoding/binary"
	"math/rand/v2"
	"testing"

	"github.com/mrjoshuak/go-gsplat/splat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet(count int) splat.SplatSet {
	r := rand.New(rand.NewPCG(uint64(count), 7))
	set := splat.NewSplatSet(count)
	for i := range set.Positions {
		set.Positions[i] = r.Float32()*20 - 10
	}
	for i := range set.Scales {
		set.Scales[i] = r.Float32()
	}
	for i := range set.Rotations {
		// Exactly representable after quantization.
		set.Rotations[i] = float32(int(r.UintN(256))-128) / 128
	}
	for i := range set.Colors {
		set.Colors[i] = uint8(r.UintN(256))
	}
	return set
}

func TestSplatRoundTrip(t *testing.T) {
	for _, count := range []int{0, 1, 5, 1000} {
		set := testSet(count)

		var buf bytes.Buffer
		require.NoError(t, WriteSplat(&buf, set))
		require.Equal(t, count*RecordSize, buf.Len())

		got, err := ReadSplat(&buf)
		require.NoError(t, err)
		assert.Equal(t, set, got)
	}
}

func TestSplatRecordLayout(t *testing.T) {
	set := splat.SplatSet{
		Count:     1,
		Positions: []float32{1, 2, 3},
		Scales:    []float32{0.5, 0.25, 0.125},
		Rotations: []float32{0.5, -0.5, 0, 1},
		Colors:    []uint8{10, 20, 30, 40},
	}
	data, err := EncodeSplat(set)
	require.NoError(t, err)
	require.Len(t, data, RecordSize)

	assert.Equal(t, uint32(0x3f800000), binary.LittleEndian.Uint32(data[0:]))
	assert.Equal(t, uint32(0x3e000000), binary.LittleEndian.Uint32(data[20:]))
	assert.Equal(t, []byte{10, 20, 30, 40}, data[24:28])
	// w, x, y, z; 1.0 clamps to 255.
	assert.Equal(t, []byte{255, 192, 64, 128}, data[28:32])
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{0, 128},
		{-1, 0},
		{1, 255},
		{2, 255},
		{-3, 0},
		{0.5, 192},
		{-0.5, 64},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, quantize(tt.in), "quantize(%g)", tt.in)
	}
	for b := range 256 {
		assert.Equal(t, uint8(b), quantize(dequantize(uint8(b))))
	}
}

func TestSplatTruncated(t *testing.T) {
	data, err := EncodeSplat(testSet(3))
	require.NoError(t, err)

	_, err = DecodeSplat(data[:len(data)-1])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestWriteSplatInvalidSet(t *testing.T) {
	set := testSet(2)
	set.Scales = set.Scales[:5]
	err := WriteSplat(&bytes.Buffer{}, set)
	assert.ErrorIs(t, err, splat.ErrLengthMismatch)
}

func TestTextureRoundTrip(t *testing.T) {
	for _, count := range []int{0, 1, 1024, 3000} {
		tex, err := splat.GenerateTexture(testSet(count))
		require.NoError(t, err)

		for _, c := range []Compression{CompressionNone, CompressionZlib, CompressionZstd} {
			var buf bytes.Buffer
			require.NoError(t, WriteTexture(&buf, tex, c))
			assert.Equal(t, Magic, buf.String()[:4])

			got, err := ReadTexture(&buf)
			require.NoErrorf(t, err, "count=%d compression=%s", count, c)
			assert.Equalf(t, tex, got, "count=%d compression=%s", count, c)
		}
	}
}

// coherentSet returns splats on a sorted grid with a small palette, the
// shape of a real scene after sorting.
func coherentSet(count int) splat.SplatSet {
	palette := [][4]uint8{{200, 180, 160, 255}, {90, 120, 60, 255}, {30, 30, 40, 200}, {250, 250, 250, 128}}
	set := splat.NewSplatSet(count)
	for i := range count {
		set.Positions[3*i] = float32(i%64) * 0.25
		set.Positions[3*i+1] = float32(i/64%64) * 0.25
		set.Positions[3*i+2] = -float32(i/4096) * 0.5
		set.Scales[3*i] = 0.05
		set.Scales[3*i+1] = 0.05
		set.Scales[3*i+2] = 0.02
		set.Rotations[4*i+3] = 1
		copy(set.Colors[4*i:], palette[i/16%len(palette)][:])
	}
	return set
}

func TestTextureCompressionShrinksPayload(t *testing.T) {
	tests := []struct {
		name string
		set  splat.SplatSet
	}{
		{"coherent", coherentSet(4096)},
		{"random", testSet(4096)},
	}

	for _, tt := range tests {
		tex, err := splat.GenerateTexture(tt.set)
		require.NoError(t, err)

		raw, err := EncodeTexture(tex, CompressionNone)
		require.NoError(t, err)
		for _, c := range []Compression{CompressionZlib, CompressionZstd} {
			packed, err := EncodeTexture(tex, c)
			require.NoError(t, err)
			assert.Lessf(t, len(packed), len(raw), "%s %s", tt.name, c)
		}
	}

	// A real scene packs far better than random data.
	tex, err := splat.GenerateTexture(coherentSet(4096))
	require.NoError(t, err)
	raw, err := EncodeTexture(tex, CompressionNone)
	require.NoError(t, err)
	packed, err := EncodeTexture(tex, CompressionZstd)
	require.NoError(t, err)
	assert.Less(t, 4*len(packed), len(raw))
}

func TestDecodeTextureErrors(t *testing.T) {
	tex, err := splat.GenerateTexture(testSet(10))
	require.NoError(t, err)
	good, err := EncodeTexture(tex, CompressionZlib)
	require.NoError(t, err)

	mutate := func(f func(b []byte) []byte) []byte {
		return f(bytes.Clone(good))
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"short header", good[:10], ErrTruncated},
		{"magic", mutate(func(b []byte) []byte { b[0] = 'X'; return b }), ErrBadMagic},
		{"version", mutate(func(b []byte) []byte { b[4] = 9; return b }), ErrUnsupportedVersion},
		{"compression", mutate(func(b []byte) []byte { b[6] = 9; return b }), ErrUnknownCompression},
		{"width", mutate(func(b []byte) []byte { b[8] = 1; return b }), ErrCorrupt},
		{"height", mutate(func(b []byte) []byte { b[12] = 5; return b }), ErrCorrupt},
		{"huge height", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[12:], 1<<30)
			return b
		}), ErrCorrupt},
		{"payload truncated", good[:len(good)-3], ErrTruncated},
		{"trailing bytes", append(bytes.Clone(good), 0), ErrCorrupt},
		{"payload garbage", mutate(func(b []byte) []byte {
			for i := headerSize; i < len(b); i++ {
				b[i] = 0xAA
			}
			return b
		}), ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTexture(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEncodeTextureRejectsBadGeometry(t *testing.T) {
	tex := &splat.Texture{Data: make([]uint32, 8), Width: 4, Height: 1, Count: 1}
	_, err := EncodeTexture(tex, CompressionNone)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZlib, CompressionZstd} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParseCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, got)

	_, err = ParseCompression("lz4")
	assert.ErrorIs(t, err, ErrUnknownCompression)
	assert.Equal(t, "Compression(7)", Compression(7).String())
}

func TestColorPreview(t *testing.T) {
	set := testSet(300)
	tex, err := splat.GenerateTexture(set)
	require.NoError(t, err)

	img := ColorPreview(tex)
	assert.Equal(t, PreviewWidth, img.Bounds().Dx())
	assert.Equal(t, minPreviewHeight, img.Bounds().Dy())

	for _, i := range []int{0, 255, 256, 299} {
		c := img.NRGBAAt(i%PreviewWidth, i/PreviewWidth)
		assert.Equal(t, set.Color(i), [4]uint8{c.R, c.G, c.B, c.A})
	}
	assert.Zero(t, img.NRGBAAt(300%PreviewWidth, 300/PreviewWidth))

	big, err := splat.GenerateTexture(splat.NewSplatSet(PreviewWidth*70 + 1))
	require.NoError(t, err)
	assert.Equal(t, 71, ColorPreview(big).Bounds().Dy())
}

func TestEncodePreview(t *testing.T) {
	tex, err := splat.GenerateTexture(testSet(500))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodePreview(&buf, tex))
	require.Greater(t, buf.Len(), 2)
	// J2K codestreams start with the SOC marker.
	assert.Equal(t, []byte{0xFF, 0x4F}, buf.Bytes()[:2])

	img, err := DecodePreview(&buf)
	require.NoError(t, err)
	assert.Equal(t, ColorPreview(tex).Bounds(), img.Bounds())
}
