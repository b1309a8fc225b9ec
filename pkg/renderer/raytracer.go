package renderer

import (
	"context"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// DefaultSeed starts the sampler stream when no seed is configured
const DefaultSeed uint32 = 0x9E3779B9

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int    // Number of rays per pixel
	Jitter          bool   // Offset each ray randomly within its pixel
	Seed            uint32 // Initial sampler state, must be nonzero when jittering
}

// DefaultSamplingConfig returns one ray through each pixel center
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 1,
		Jitter:          false,
		Seed:            DefaultSeed,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCameraConfig() CameraConfig
	GetWorld() World
	GetSamplingConfig() SamplingConfig
}

// Raytracer handles the rendering process
type Raytracer struct {
	world  World
	camera *Camera
	width  int
	height int
	config SamplingConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer. A nil logger discards output.
func NewRaytracer(scene Scene, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = discardLogger{}
	}
	cameraConfig := scene.GetCameraConfig()
	return &Raytracer{
		world:  scene.GetWorld(),
		camera: NewCamera(cameraConfig),
		width:  cameraConfig.Width,
		height: cameraConfig.Height,
		config: scene.GetSamplingConfig(),
		logger: logger,
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SamplingConfig returns the active sampling configuration
func (rt *Raytracer) SamplingConfig() SamplingConfig {
	return rt.config
}

// Camera returns the camera rays are generated from
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// RenderPass renders every pixel and returns the image. The sampler seed is
// threaded through the whole image in row-major, sample-minor order.
func (rt *Raytracer) RenderPass() (*Image, RenderStats) {
	img, stats, _ := rt.RenderPassContext(context.Background())
	return img, stats
}

// RenderPassContext is like RenderPass but stops at the next row once ctx is
// done, returning the partly rendered image and ctx's error.
func (rt *Raytracer) RenderPassContext(ctx context.Context) (*Image, RenderStats, error) {
	startTime := time.Now()
	img := NewImage(rt.width, rt.height)

	samples := max(1, rt.config.SamplesPerPixel)
	weight := 1.0 / float32(samples)
	seed := rt.config.Seed

	rt.logger.Printf("Rendering %dx%d, %d samples per pixel (jitter: %t)\n",
		rt.width, rt.height, samples, rt.config.Jitter)

	stats := RenderStats{
		TotalPixels:     rt.width * rt.height,
		SamplesPerPixel: samples,
	}

	for row := 0; row < rt.height; row++ {
		if err := ctx.Err(); err != nil {
			stats.TotalSamples = stats.HitSamples + stats.SkySamples
			stats.FinalSeed = seed
			stats.Elapsed = time.Since(startTime)
			rt.logger.Printf("Render cancelled at row %d of %d: %v\n", row, rt.height, err)
			return img, stats, err
		}
		for col := 0; col < rt.width; col++ {
			var accum pixelAccumulator

			for s := 0; s < samples; s++ {
				var offset [2]float32
				if rt.config.Jitter {
					seed, offset = core.SampleSquare(seed)
				}

				ray := rt.camera.GetRay(col, row, offset[0], offset[1])
				color, isHit := ShadeHit(ray, rt.world)
				accum.add(color, weight)

				if isHit {
					stats.HitSamples++
				} else {
					stats.SkySamples++
				}
			}

			img.Set(row, col, accum.color())
		}
	}

	stats.TotalSamples = stats.HitSamples + stats.SkySamples
	stats.FinalSeed = seed
	stats.Elapsed = time.Since(startTime)

	rt.logger.Printf("Render completed in %v (%.1f%% of samples hit geometry)\n",
		stats.Elapsed, 100*stats.HitRatio())

	return img, stats, nil
}
