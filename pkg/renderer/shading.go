package renderer

import (
	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

var (
	white   = core.NewColor(1.0, 1.0, 1.0)
	skyBlue = core.NewColor(0.5, 0.7, 1.0)
)

// World is the read-only scene view the renderer shades against
type World interface {
	Hit(ray core.Ray, rayT core.Interval) (*core.HitRecord, bool)
}

// Shade returns the color seen along a ray
func Shade(ray core.Ray, world World) core.Color {
	color, _ := ShadeHit(ray, world)
	return color
}

// ShadeHit is like Shade but also reports whether the ray struck the world.
// Hits blend white with the normal read as RGB; misses fall through to the
// sky gradient.
func ShadeHit(ray core.Ray, world World) (core.Color, bool) {
	if hit, isHit := world.Hit(ray, core.Forward()); isHit {
		return core.Lerp(0.5, white, core.ColorFromVec3(hit.Normal)), true
	}
	return backgroundGradient(ray), false
}

// backgroundGradient returns a gradient color based on ray direction
func backgroundGradient(ray core.Ray) core.Color {
	unitDirection := ray.Direction.Unit()

	// Map y from [-1, 1] to [0, 1]
	n := 0.5 * (unitDirection.Y + 1.0)
	return core.Lerp(n, white, skyBlue)
}
