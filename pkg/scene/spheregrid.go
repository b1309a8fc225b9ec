package scene

import (
	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

const (
	gridColumns = 5
	gridRows    = 3
)

// NewSphereGridScene creates a 5x3 wall of spheres above the ground sphere,
// rendered with jittered anti-aliasing
func NewSphereGridScene() *Scene {
	s := newScene()

	const spacing = 0.9
	const radius = 0.35
	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridColumns; col++ {
			x := (float32(col) - (gridColumns-1)/2.0) * spacing
			y := float32(row)*spacing - 0.1
			s.AddSphere(core.NewVec3(x, y, -3), radius)
		}
	}
	s.AddSphere(core.NewVec3(0, -100.5, -3), 100)

	s.SamplingConfig.SamplesPerPixel = 16
	s.SamplingConfig.Jitter = true
	return s
}
