package splatio

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/mrjoshuak/go-gsplat/internal/le"
	"github.com/mrjoshuak/go-gsplat/internal/shuffle"
	"github.com/mrjoshuak/go-gsplat/splat"
)

// Container layout, all values little-endian:
//
//	0   magic "GSPT"
//	4   version      uint16
//	6   compression  uint16
//	8   width        uint32
//	12  height       uint32
//	16  count        uint32
//	20  payload size uint32
//	24  payload
//
// The uncompressed payload is the texture's lanes, four bytes each.
// Compressed payloads are shuffled into one byte plane per offset within a
// splat record before compression. Nothing may follow the payload.
const (
	Magic         = "GSPT"
	Version       = 1
	headerSize    = 24
	laneSize      = 4
	recordSize    = splat.LanesPerSplat * laneSize
	maxTexHeight  = 1 << 14
	maxPayloadLen = splat.TextureWidth * maxTexHeight * 4 * laneSize
)

// Compression is a payload compression method.
type Compression uint16

// Compression methods.
const (
	CompressionNone Compression = iota
	CompressionZlib
	CompressionZstd
)

var compressionNames = [...]string{
	CompressionNone: "none",
	CompressionZlib: "zlib",
	CompressionZstd: "zstd",
}

func (c Compression) String() string {
	if int(c) < len(compressionNames) {
		return compressionNames[c]
	}
	return fmt.Sprintf("Compression(%d)", uint16(c))
}

// ParseCompression parses "none", "zlib" or "zstd".
func ParseCompression(s string) (Compression, error) {
	for i, name := range compressionNames {
		if strings.EqualFold(s, name) {
			return Compression(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
}

var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxPayloadLen))
	})
)

// WriteTexture writes tex as a container using compression c.
func WriteTexture(w io.Writer, tex *splat.Texture, c Compression) error {
	data, err := EncodeTexture(tex, c)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// EncodeTexture encodes tex as a container using compression c.
func EncodeTexture(tex *splat.Texture, c Compression) ([]byte, error) {
	if err := checkGeometry(tex.Width, tex.Height, tex.Count, len(tex.Data)); err != nil {
		return nil, err
	}

	raw := le.NewBufferWriter(laneSize * len(tex.Data))
	raw.WriteUint32s(tex.Data)

	payload, err := compress(raw.Bytes(), c)
	if err != nil {
		return nil, err
	}

	bw := le.NewBufferWriter(headerSize + len(payload))
	bw.WriteBytes([]byte(Magic))
	bw.WriteUint16(Version)
	bw.WriteUint16(uint16(c))
	bw.WriteUint32(uint32(tex.Width))
	bw.WriteUint32(uint32(tex.Height))
	bw.WriteUint32(uint32(tex.Count))
	bw.WriteUint32(uint32(len(payload)))
	bw.WriteBytes(payload)

	splat.Logger().Debug("splatio: encoded texture",
		"count", tex.Count, "compression", c, "raw", raw.Len(), "payload", len(payload))
	return bw.Bytes(), nil
}

// ReadTexture reads a container written by WriteTexture.
func ReadTexture(r io.Reader) (*splat.Texture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeTexture(data)
}

// DecodeTexture decodes a complete container.
func DecodeTexture(data []byte) (*splat.Texture, error) {
	rd := le.NewReader(data)
	hdr, err := rd.ReadBytes(headerSize)
	if err != nil {
		return nil, fmt.Errorf("%w: header", ErrTruncated)
	}
	if string(hdr[:4]) != Magic {
		return nil, ErrBadMagic
	}

	h := le.NewReader(hdr[4:])
	version, _ := h.ReadUint16()
	method, _ := h.ReadUint16()
	width, _ := h.ReadUint32()
	height, _ := h.ReadUint32()
	count, _ := h.ReadUint32()
	size, _ := h.ReadUint32()

	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	c := Compression(method)
	if int(c) >= len(compressionNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, method)
	}
	if height > maxTexHeight || count > maxTexHeight*splat.TextureWidth {
		return nil, fmt.Errorf("%w: %d rows exceed limit %d", ErrCorrupt, height, maxTexHeight)
	}
	lanes := int(width) * int(height) * 4
	if err := checkGeometry(int(width), int(height), int(count), lanes); err != nil {
		return nil, err
	}

	payload, err := rd.ReadBytes(int(size))
	if err != nil {
		return nil, fmt.Errorf("%w: payload", ErrTruncated)
	}
	if rd.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes after payload", ErrCorrupt, rd.Len())
	}
	raw, err := decompress(payload, c, laneSize*lanes)
	if err != nil {
		return nil, err
	}

	tex := &splat.Texture{
		Data:   make([]uint32, lanes),
		Width:  int(width),
		Height: int(height),
		Count:  int(count),
	}
	if err := le.NewReader(raw).ReadUint32s(tex.Data); err != nil {
		return nil, fmt.Errorf("%w: payload", ErrCorrupt)
	}
	return tex, nil
}

func checkGeometry(width, height, count, lanes int) error {
	switch {
	case width != splat.TextureWidth:
		return fmt.Errorf("%w: width %d, want %d", ErrCorrupt, width, splat.TextureWidth)
	case height != splat.TextureHeight(count):
		return fmt.Errorf("%w: height %d for %d splats", ErrCorrupt, height, count)
	case lanes != width*height*4:
		return fmt.Errorf("%w: %d lanes for %dx%d", ErrCorrupt, lanes, width, height)
	}
	return nil
}

func compress(raw []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return raw, nil
	case CompressionZlib:
		var buf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(shuffle.Encode(raw, recordSize)); err != nil {
			zw.Close()
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionZstd:
		enc, err := zstdEncoder()
		if err != nil {
			return nil, err
		}
		return enc.EncodeAll(shuffle.Encode(raw, recordSize), nil), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint16(c))
}

// decompress returns exactly size bytes of raw lanes.
func decompress(payload []byte, c Compression, size int) ([]byte, error) {
	var filtered []byte
	switch c {
	case CompressionNone:
		if len(payload) != size {
			return nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrCorrupt, len(payload), size)
		}
		return payload, nil
	case CompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		defer zr.Close()
		filtered = make([]byte, size)
		if _, err := io.ReadFull(zr, filtered); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if n, _ := zr.Read(make([]byte, 1)); n != 0 {
			return nil, fmt.Errorf("%w: payload longer than %d bytes", ErrCorrupt, size)
		}
	case CompressionZstd:
		dec, err := zstdDecoder()
		if err != nil {
			return nil, err
		}
		filtered, err = dec.DecodeAll(payload, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if len(filtered) != size {
			return nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrCorrupt, len(filtered), size)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint16(c))
	}
	return shuffle.Decode(filtered, recordSize), nil
}
