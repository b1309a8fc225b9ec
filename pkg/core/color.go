package core

import "github.com/chewxy/math32"

// maxChannel keeps floor(x*256) and floor(x*65536) below the channel maximum
// for inputs at or above 1.0.
const maxChannel = 0.9999

// Color is a linear RGB triple, nominally in [0, 1)
type Color struct {
	R, G, B float32
}

// NewColor creates a new Color
func NewColor(r, g, b float32) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromVec3 copies the vector components into the color channels
func ColorFromVec3(v Vec3) Color {
	return Color{R: v.X, G: v.Y, B: v.Z}
}

// ToVec3 copies the color channels into a vector for arithmetic
func (c Color) ToVec3() Vec3 {
	return Vec3{X: c.R, Y: c.G, Z: c.B}
}

// Lerp blends linearly from a (n=0) to b (n=1)
func Lerp(n float32, a, b Color) Color {
	return ColorFromVec3(a.ToVec3().Multiply(1 - n).Add(b.ToVec3().Multiply(n)))
}

// RGB8 encodes the color as three 8-bit channels
func (c Color) RGB8() [3]uint8 {
	return [3]uint8{channel8(c.R), channel8(c.G), channel8(c.B)}
}

// RGB16 encodes the color as three big-endian 16-bit channels
func (c Color) RGB16() [6]uint8 {
	r, g, b := channel16(c.R), channel16(c.G), channel16(c.B)
	return [6]uint8{
		uint8(r >> 8), uint8(r),
		uint8(g >> 8), uint8(g),
		uint8(b >> 8), uint8(b),
	}
}

func clampChannel(x float32) float32 {
	return max(0, min(maxChannel, x))
}

func channel8(x float32) uint8 {
	return uint8(math32.Floor(clampChannel(x) * 256))
}

func channel16(x float32) uint16 {
	return uint16(math32.Floor(clampChannel(x) * 65536))
}
