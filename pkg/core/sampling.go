package core

// oneMinusEpsilon is the largest float32 below 1
const oneMinusEpsilon float32 = 0x1.fffffep-1

// XorShift32 advances a 32-bit xorshift state. Zero maps to zero, so seeds
// must be nonzero.
func XorShift32(x uint32) uint32 {
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}

// UnitFloat32FromUint32 maps v to [0, 1) as v / 2^32
func UnitFloat32FromUint32(v uint32) float32 {
	// Inputs near 2^32 round up to 1.0 when narrowed to float32.
	f := float32(float64(v) / (1 << 32))
	return min(f, oneMinusEpsilon)
}

// SampleSquare draws a point in the unit square, x first then y, and
// returns the advanced seed for the next draw
func SampleSquare(seed uint32) (uint32, [2]float32) {
	seed = XorShift32(seed)
	x := UnitFloat32FromUint32(seed)
	seed = XorShift32(seed)
	y := UnitFloat32FromUint32(seed)
	return seed, [2]float32{x, y}
}
