package splat

import "math"

// coordLimit replaces infinite coordinates. Under a unit view axis it
// lands on the int32 bounds of the fixed-point depth.
const coordLimit = 1 << 19

// depthAxis is the view-space z row used to project positions.
type depthAxis struct {
	x, y, z, t float32
}

func (v ViewMatrix) depthAxis(translate bool) depthAxis {
	a := depthAxis{x: v[2], y: v[6], z: v[10]}
	if translate {
		a.t = v[14]
	}
	return a
}

// depth projects one position. The conversions force a rounding after
// every product so no platform fuses them into FMA instructions; every
// kernel must reproduce these bits exactly.
func (a depthAxis) depth(x, y, z float32) float32 {
	return float32(float32(float32(x*a.x)+float32(y*a.y))+float32(z*a.z)) + a.t
}

// finite maps NaN to 0 and ±Inf to ±coordLimit.
func finite(v float32) float32 {
	switch {
	case math.IsNaN(float64(v)):
		return 0
	case math.IsInf(float64(v), 1):
		return coordLimit
	case math.IsInf(float64(v), -1):
		return -coordLimit
	}
	return v
}

// fixedDepth returns floor(d*DepthScale) saturated to the int32 range.
// A NaN depth, from a non-finite view or opposing overflowed products,
// maps to 0.
func fixedDepth(d float32) int32 {
	f := math.Floor(float64(d) * DepthScale)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

func (a depthAxis) fixed(p []float32) int32 {
	return fixedDepth(a.depth(finite(p[0]), finite(p[1]), finite(p[2])))
}

// depthKeysScalar stores the fixed-point depth of every splat in dst and
// returns the minimum.
func depthKeysScalar(dst []uint32, positions []float32, a depthAxis) int32 {
	lo := int32(math.MaxInt32)
	for i := range dst {
		d := a.fixed(positions[3*i : 3*i+3 : 3*i+3])
		dst[i] = uint32(d)
		lo = min(lo, d)
	}
	return lo
}

// depthKeysWide is depthKeysScalar unrolled four splats at a time.
func depthKeysWide(dst []uint32, positions []float32, a depthAxis) int32 {
	n := len(dst)
	lo := int32(math.MaxInt32)

	i := 0
	for ; i+4 <= n; i += 4 {
		p := positions[3*i : 3*i+12 : 3*i+12]
		d0 := a.fixed(p[0:3])
		d1 := a.fixed(p[3:6])
		d2 := a.fixed(p[6:9])
		d3 := a.fixed(p[9:12])
		dst[i] = uint32(d0)
		dst[i+1] = uint32(d1)
		dst[i+2] = uint32(d2)
		dst[i+3] = uint32(d3)
		lo = min(lo, d0, d1, d2, d3)
	}
	for ; i < n; i++ {
		d := a.fixed(positions[3*i : 3*i+3 : 3*i+3])
		dst[i] = uint32(d)
		lo = min(lo, d)
	}
	return lo
}

// normalizeKeys subtracts lo from every key. The int32 span of the keys is
// below 2^32, so the unsigned difference is exact and order preserving.
func normalizeKeys(keys []uint32, lo int32) {
	off := uint32(lo)
	for i := range keys {
		keys[i] -= off
	}
}

// computeDepthKeys fills keys with normalized depth keys using kernel k.
func computeDepthKeys(k Kernel, keys []uint32, positions []float32, a depthAxis) {
	if len(keys) == 0 {
		return
	}
	var lo int32
	if k.Resolve() == KernelWide {
		lo = depthKeysWide(keys, positions, a)
	} else {
		lo = depthKeysScalar(keys, positions, a)
	}
	normalizeKeys(keys, lo)
}

// DepthKeys returns the normalized depth key of each of count splats for
// view: floor(depth*DepthScale) minus the smallest such value. Keys grow
// toward the camera, so ascending keys run back to front.
//
// Non-finite coordinates are sanitized rather than rejected. opts may be
// nil.
func DepthKeys(positions []float32, view ViewMatrix, count int, opts *SorterOptions) ([]uint32, error) {
	if count < 0 {
		return nil, ErrNegativeCount
	}
	if err := checkLen("positions", len(positions), 3*count); err != nil {
		return nil, err
	}
	var o SorterOptions
	if opts != nil {
		o = *opts
	}
	keys := make([]uint32, count)
	computeDepthKeys(o.Kernel, keys, positions, view.depthAxis(o.Translate))
	return keys, nil
}
