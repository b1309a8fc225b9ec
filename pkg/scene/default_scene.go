package scene

import (
	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// NewDefaultScene creates a sphere resting on a large ground sphere
func NewDefaultScene() *Scene {
	s := newScene()
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5)
	s.AddSphere(core.NewVec3(0, -100.5, -1), 100)
	return s
}

// NewSingleSphereScene creates a scene with only the small sphere
func NewSingleSphereScene() *Scene {
	s := newScene()
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5)
	return s
}

// NewEmptyScene creates a scene with nothing but the sky
func NewEmptyScene() *Scene {
	return newScene()
}
