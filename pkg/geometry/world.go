package geometry

import "github.com/df07/go-pinhole-raytracer/pkg/core"

// World is an ordered collection of shapes. It is built before rendering
// and only read afterwards.
type World struct {
	shapes []Shape
}

// NewWorld creates a world holding the given shapes
func NewWorld(shapes ...Shape) *World {
	return &World{shapes: append([]Shape(nil), shapes...)}
}

// Add appends shapes to the world
func (w *World) Add(shapes ...Shape) {
	w.shapes = append(w.shapes, shapes...)
}

// Clear removes every shape
func (w *World) Clear() {
	w.shapes = w.shapes[:0]
}

// Len returns the number of shapes
func (w *World) Len() int {
	return len(w.shapes)
}

// Shapes returns a copy of the shapes in storage order
func (w *World) Shapes() []Shape {
	return append([]Shape(nil), w.shapes...)
}

// Hit returns the nearest intersection across all shapes
func (w *World) Hit(ray core.Ray, rayT core.Interval) (*core.HitRecord, bool) {
	hit, _, ok := w.HitShape(ray, rayT)
	return hit, ok
}

// HitShape is like Hit but also reports which shape was struck. Each hit
// narrows the upper bound to its t, so farther shapes reject themselves.
func (w *World) HitShape(ray core.Ray, rayT core.Interval) (*core.HitRecord, Shape, bool) {
	var closest *core.HitRecord
	var struck Shape
	for _, shape := range w.shapes {
		if hit, ok := shape.Hit(ray, rayT); ok {
			closest, struck = hit, shape
			rayT = rayT.WithMax(hit.T)
		}
	}
	return closest, struck, closest != nil
}
