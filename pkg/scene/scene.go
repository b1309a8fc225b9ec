package scene

import (
	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	CameraConfig   renderer.CameraConfig
	World          *geometry.World // Objects in the scene
	SamplingConfig renderer.SamplingConfig
}

// newScene creates an empty scene with the default camera and sampling
func newScene() *Scene {
	return &Scene{
		CameraConfig:   renderer.DefaultCameraConfig(),
		World:          geometry.NewWorld(),
		SamplingConfig: renderer.DefaultSamplingConfig(),
	}
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Point3, radius float32) {
	s.World.Add(geometry.NewSphere(center, radius))
}

// SetSize overrides the image dimensions; zero keeps the current value
func (s *Scene) SetSize(width, height int) {
	if width > 0 {
		s.CameraConfig.Width = width
	}
	if height > 0 {
		s.CameraConfig.Height = height
	}
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// GetCameraConfig implements renderer.Scene
func (s *Scene) GetCameraConfig() renderer.CameraConfig {
	return s.CameraConfig
}

// GetWorld implements renderer.Scene
func (s *Scene) GetWorld() renderer.World {
	return s.World
}

// GetSamplingConfig implements renderer.Scene
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig {
	return s.SamplingConfig
}
