package splatio

import (
	"fmt"
	"io"
	"math"

	"github.com/mrjoshuak/go-gsplat/internal/le"
	"github.com/mrjoshuak/go-gsplat/splat"
)

// RecordSize is the size of one .splat record in bytes.
//
// Record layout:
//
//	0   position x, y, z  3×float32
//	12  scale x, y, z     3×float32
//	24  color r, g, b, a  4×uint8
//	28  rotation w, x, y, z, each quantized as q*128+128  4×uint8
const RecordSize = 32

// ReadSplat reads a .splat stream until EOF.
func ReadSplat(r io.Reader) (splat.SplatSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return splat.SplatSet{}, err
	}
	return DecodeSplat(data)
}

// DecodeSplat decodes a complete .splat buffer.
func DecodeSplat(data []byte) (splat.SplatSet, error) {
	if len(data)%RecordSize != 0 {
		return splat.SplatSet{}, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte records",
			ErrTruncated, len(data), RecordSize)
	}

	set := splat.NewSplatSet(len(data) / RecordSize)
	rd := le.NewReader(data)
	for i := range set.Count {
		if err := readRecord(rd, set, i); err != nil {
			return splat.SplatSet{}, fmt.Errorf("%w: record %d: %v", ErrTruncated, i, err)
		}
	}
	splat.Logger().Debug("splatio: decoded splats", "count", set.Count)
	return set, nil
}

func readRecord(rd *le.Reader, set splat.SplatSet, i int) error {
	for k := range 3 {
		v, err := rd.ReadFloat32()
		if err != nil {
			return err
		}
		set.Positions[3*i+k] = v
	}
	for k := range 3 {
		v, err := rd.ReadFloat32()
		if err != nil {
			return err
		}
		set.Scales[3*i+k] = v
	}
	if err := rd.ReadBytesInto(set.Colors[4*i : 4*i+4]); err != nil {
		return err
	}

	rot, err := rd.ReadBytes(4)
	if err != nil {
		return err
	}
	q := set.Rotations[4*i : 4*i+4]
	q[0] = dequantize(rot[1])
	q[1] = dequantize(rot[2])
	q[2] = dequantize(rot[3])
	q[3] = dequantize(rot[0])
	return nil
}

// WriteSplat writes set as a .splat stream.
func WriteSplat(w io.Writer, set splat.SplatSet) error {
	data, err := EncodeSplat(set)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// EncodeSplat encodes set in the .splat layout.
func EncodeSplat(set splat.SplatSet) ([]byte, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	bw := le.NewBufferWriter(set.Count * RecordSize)
	for i := range set.Count {
		for _, v := range set.Position(i) {
			bw.WriteFloat32(v)
		}
		for _, v := range set.Scale(i) {
			bw.WriteFloat32(v)
		}
		c := set.Color(i)
		bw.WriteBytes(c[:])
		q := set.Rotation(i)
		bw.WriteUint8(quantize(q[3]))
		bw.WriteUint8(quantize(q[0]))
		bw.WriteUint8(quantize(q[1]))
		bw.WriteUint8(quantize(q[2]))
	}
	return bw.Bytes(), nil
}

// quantize maps a quaternion component in [-1, 1] to a byte, clamping
// values outside that range. NaN maps to the zero point.
func quantize(q float32) uint8 {
	if math.IsNaN(float64(q)) {
		return 128
	}
	v := math.Round(float64(q)*128 + 128)
	return uint8(min(max(v, 0), 255))
}

func dequantize(b uint8) float32 {
	return (float32(b) - 128) / 128
}
