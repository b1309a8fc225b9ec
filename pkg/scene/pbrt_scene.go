package scene

import (
	"fmt"

	"github.com/df07/go-pinhole-raytracer/pkg/loaders"
)

// defaultPBRTRadius is the sphere radius PBRT assumes when none is given
const defaultPBRTRadius = 1.0

// NewPBRTScene loads a sphere-only PBRT scene file
func NewPBRTScene(filename string) (*Scene, error) {
	pbrtScene, err := loaders.LoadPBRT(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load PBRT scene: %w", err)
	}
	return FromPBRT(pbrtScene)
}

// FromPBRT converts parsed PBRT statements into a scene. Film resolution
// sets the image size and Sampler pixelsamples the samples per pixel; the
// camera keeps its fixed pinhole placement.
func FromPBRT(pbrtScene *loaders.PBRTScene) (*Scene, error) {
	s := newScene()

	if film := pbrtScene.Film; film != nil {
		width, _ := film.GetIntParam("xresolution")
		height, _ := film.GetIntParam("yresolution")
		if width < 0 || height < 0 {
			return nil, fmt.Errorf("invalid film resolution %dx%d", width, height)
		}
		s.SetSize(width, height)
	}

	if sampler := pbrtScene.Sampler; sampler != nil {
		if samples, ok := sampler.GetIntParam("pixelsamples"); ok {
			if samples < 1 {
				return nil, fmt.Errorf("invalid pixelsamples %d", samples)
			}
			s.SamplingConfig.SamplesPerPixel = samples
		}
		jitter, ok := sampler.GetBoolParam("jitter")
		if !ok {
			jitter = s.SamplingConfig.SamplesPerPixel > 1
		}
		s.SamplingConfig.Jitter = jitter
	}

	for _, shape := range pbrtScene.Shapes {
		radius, ok := shape.GetFloatParam("radius")
		if !ok {
			radius = defaultPBRTRadius
		}
		if !(radius > 0) {
			return nil, fmt.Errorf("invalid sphere radius %g", radius)
		}
		s.AddSphere(shape.Offset, radius)
	}

	return s, nil
}
