package geometry

import (
	"testing"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

func TestWorld_Hit_Empty(t *testing.T) {
	world := NewWorld()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if hit, isHit := world.Hit(ray, core.Forward()); isHit {
		t.Errorf("Expected miss in empty world, got hit at t=%f", hit.T)
	}
}

func TestWorld_Hit_NearestIsOrderIndependent(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -3), 1.0) // front face at t=2
	far := NewSphere(core.NewVec3(0, 0, -6), 1.0)  // front face at t=5
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	tests := []struct {
		name     string
		interval core.Interval
		expected float32
	}{
		{"forward range", core.Forward(), 2},
		// The near sphere's far side at t=4 still beats the far sphere at t=5.
		{"lower bound past near front face", core.NewInterval(3, 100), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forward := NewWorld(near, far)
			reversed := NewWorld(far, near)

			a, okA := forward.Hit(ray, tt.interval)
			b, okB := reversed.Hit(ray, tt.interval)
			if !okA || !okB {
				t.Fatalf("Expected hits in both orders, got %t and %t", okA, okB)
			}
			if a.T != tt.expected {
				t.Errorf("Expected t=%f, got t=%f", tt.expected, a.T)
			}
			if *a != *b {
				t.Errorf("Expected identical hit records, got %+v and %+v", *a, *b)
			}
		})
	}
}

func TestWorld_HitShape(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -3), 1.0)
	far := NewSphere(core.NewVec3(0, 0, -6), 1.0)
	world := NewWorld(far, near)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	_, shape, isHit := world.HitShape(ray, core.Forward())
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if shape != Shape(near) {
		t.Errorf("Expected the near sphere, got %+v", shape)
	}
}

func TestWorld_AddAndClear(t *testing.T) {
	world := NewWorld()
	world.Add(NewSphere(core.NewVec3(0, 0, -1), 0.5), NewSphere(core.NewVec3(0, -100.5, -1), 100))
	if world.Len() != 2 {
		t.Fatalf("Expected 2 shapes, got %d", world.Len())
	}

	world.Clear()
	if world.Len() != 0 {
		t.Errorf("Expected empty world after Clear, got %d shapes", world.Len())
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if _, isHit := world.Hit(ray, core.Forward()); isHit {
		t.Error("Expected miss after Clear")
	}
}

func TestWorld_ShapesReturnsCopy(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -3), 1.0)
	world := NewWorld(sphere)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	shapes := world.Shapes()
	shapes[0] = NewSphere(core.NewVec3(0, 0, -10), 1.0)
	_ = append(shapes[:0], nil)

	if world.Len() != 1 {
		t.Errorf("Expected 1 shape, got %d", world.Len())
	}
	if world.Shapes()[0] != sphere {
		t.Error("Expected stored shape to be unchanged")
	}
	hit, ok := world.Hit(ray, core.Forward())
	if !ok || hit.T != 2 {
		t.Errorf("Expected hit at t=2, got ok=%t hit=%+v", ok, hit)
	}
}
