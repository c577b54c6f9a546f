package splat

import (
	"math"

	"github.com/mrjoshuak/go-gsplat/half"
)

// Texture is a packed RGBA32 splat texture.
//
// Splat i occupies lanes [8i, 8i+8) of Data:
//
//	0-2  position x, y, z as float32 bits
//	3    unused, zero
//	4    Σ00 | Σ01<<16  (binary16, scaled by CovarianceScale)
//	5    Σ02 | Σ11<<16
//	6    Σ12 | Σ22<<16
//	7    color r, g, b, a as little-endian bytes
type Texture struct {
	Data   []uint32
	Width  int
	Height int
	Count  int
}

// TextureHeight returns the number of texel rows needed for count splats.
func TextureHeight(count int) int {
	return (TexelsPerSplat*count + TextureWidth - 1) / TextureWidth
}

// GenerateTexture packs every splat of set into a new Texture.
func GenerateTexture(set SplatSet) (*Texture, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	height := TextureHeight(set.Count)
	tex := &Texture{
		Data:   make([]uint32, TextureWidth*height*4),
		Width:  TextureWidth,
		Height: height,
		Count:  set.Count,
	}
	for i := 0; i < set.Count; i++ {
		packSplat(tex.Data[LanesPerSplat*i:LanesPerSplat*(i+1):LanesPerSplat*(i+1)],
			set.Position(i), set.Scale(i), set.Rotation(i), set.Color(i))
	}
	return tex, nil
}

// GenerateTextureFromAttrs packs count splats given as separate attribute
// slices.
func GenerateTextureFromAttrs(positions, scales, rotations []float32, colors []uint8, count int) (*Texture, error) {
	return GenerateTexture(SplatSet{
		Count:     count,
		Positions: positions,
		Scales:    scales,
		Rotations: rotations,
		Colors:    colors,
	})
}

func packSplat(lanes []uint32, pos, scale [3]float32, rot [4]float32, color [4]uint8) {
	lanes[0] = math.Float32bits(pos[0])
	lanes[1] = math.Float32bits(pos[1])
	lanes[2] = math.Float32bits(pos[2])

	sigma := Covariance(rot, scale)
	for k := range sigma {
		sigma[k] *= CovarianceScale
	}
	half.PackPairs(lanes[4:7], sigma[:])

	lanes[7] = uint32(color[0]) | uint32(color[1])<<8 | uint32(color[2])<<16 | uint32(color[3])<<24
}

// Lanes returns the eight lanes of splat i.
func (t *Texture) Lanes(i int) []uint32 {
	return t.Data[LanesPerSplat*i : LanesPerSplat*(i+1) : LanesPerSplat*(i+1)]
}

// Position decodes the position of splat i.
func (t *Texture) Position(i int) [3]float32 {
	l := t.Lanes(i)
	return [3]float32{
		math.Float32frombits(l[0]),
		math.Float32frombits(l[1]),
		math.Float32frombits(l[2]),
	}
}

// Color decodes the color of splat i.
func (t *Texture) Color(i int) [4]uint8 {
	c := t.Lanes(i)[7]
	return [4]uint8{uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)}
}

// Covariance decodes the six packed covariance terms of splat i. The
// values include the CovarianceScale factor.
func (t *Texture) Covariance(i int) [6]float32 {
	var sigma [6]float32
	half.UnpackPairs(sigma[:], t.Lanes(i)[4:7])
	return sigma
}
