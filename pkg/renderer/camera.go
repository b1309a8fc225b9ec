package renderer

import (
	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// CameraConfig describes an axis-aligned pinhole camera looking down -Z
type CameraConfig struct {
	Width          int         // Image width in pixels
	Height         int         // Image height in pixels
	ViewportHeight float32     // Height of the viewport in world units
	FocalLength    float32     // Distance from the camera center to the viewport
	Center         core.Point3 // Camera position
}

// DefaultCameraConfig returns the 600x400 camera at the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Width:          600,
		Height:         400,
		ViewportHeight: 2.0,
		FocalLength:    1.0,
		Center:         core.NewVec3(0, 0, 0),
	}
}

// Camera generates rays for rendering
type Camera struct {
	center      core.Point3
	pixel00     core.Point3 // Center of pixel (0, 0)
	pixelDeltaU core.Vec3   // Offset to the pixel to the right
	pixelDeltaV core.Vec3   // Offset to the pixel below
	width       int
	height      int
}

// NewCamera derives the viewport geometry from the configuration
func NewCamera(config CameraConfig) *Camera {
	viewportWidth := config.ViewportHeight * (float32(config.Width) / float32(config.Height))

	// Viewport spans, v points down the image
	viewportU := core.NewVec3(viewportWidth, 0, 0)
	viewportV := core.NewVec3(0, -config.ViewportHeight, 0)

	pixelDeltaU := viewportU.Multiply(1.0 / float32(config.Width))
	pixelDeltaV := viewportV.Multiply(1.0 / float32(config.Height))

	upperLeft := config.Center.
		Subtract(core.NewVec3(0, 0, config.FocalLength)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	pixel00 := upperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	return &Camera{
		center:      config.Center,
		pixel00:     pixel00,
		pixelDeltaU: pixelDeltaU,
		pixelDeltaV: pixelDeltaV,
		width:       config.Width,
		height:      config.Height,
	}
}

// GetRay generates a ray through pixel (col, row) offset by (jx, jy) in
// [0, 1). The offset is measured from the pixel center, so (0, 0) is the
// center and the direction is left unnormalized.
func (c *Camera) GetRay(col, row int, jx, jy float32) core.Ray {
	sample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float32(col) + jx)).
		Add(c.pixelDeltaV.Multiply(float32(row) + jy))

	return core.NewRay(c.center, sample.Subtract(c.center))
}

// Center returns the camera position
func (c *Camera) Center() core.Point3 {
	return c.center
}

// Pixel00 returns the center of the upper-left pixel
func (c *Camera) Pixel00() core.Point3 {
	return c.pixel00
}

// PixelDeltas returns the horizontal and vertical pixel spacing
func (c *Camera) PixelDeltas() (u, v core.Vec3) {
	return c.pixelDeltaU, c.pixelDeltaV
}

// Size returns the image dimensions in pixels
func (c *Camera) Size() (width, height int) {
	return c.width, c.height
}
