package renderer

import (
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of samples taken
	SamplesPerPixel int           // Samples taken for every pixel
	HitSamples      int           // Samples whose ray struck the world
	SkySamples      int           // Samples shaded by the background gradient
	FinalSeed       uint32        // Sampler state after the last draw
	Elapsed         time.Duration // Wall time spent in the render loop
}

// HitRatio returns the fraction of samples that struck the world
func (rs RenderStats) HitRatio() float64 {
	if rs.TotalSamples == 0 {
		return 0
	}
	return float64(rs.HitSamples) / float64(rs.TotalSamples)
}

// pixelAccumulator sums weighted samples in vector space
type pixelAccumulator struct {
	sum core.Vec3
}

// add accumulates one sample scaled by weight
func (pa *pixelAccumulator) add(c core.Color, weight float32) {
	pa.sum = pa.sum.Add(c.ToVec3().Multiply(weight))
}

func (pa *pixelAccumulator) color() core.Color {
	return core.ColorFromVec3(pa.sum)
}
