package geometry

import "github.com/df07/go-pinhole-raytracer/pkg/core"

// Shape interface for objects that can be hit by rays. A miss is reported
// as (nil, false) and is not an error.
type Shape interface {
	Hit(ray core.Ray, rayT core.Interval) (*core.HitRecord, bool)
}
