package core

import "github.com/chewxy/math32"

// Interval is a range of ray parameters, inclusive of Min and exclusive of Max
type Interval struct {
	Min, Max float32
}

// NewInterval creates a new Interval
func NewInterval(min, max float32) Interval {
	return Interval{Min: min, Max: max}
}

// Forward covers every parameter in front of the ray origin, [0, +Inf)
func Forward() Interval {
	return Interval{Min: 0, Max: math32.Inf(1)}
}

// Contains reports whether t lies in [Min, Max)
func (i Interval) Contains(t float32) bool {
	return i.Min <= t && t < i.Max
}

// WithMax returns the interval with its upper bound replaced
func (i Interval) WithMax(max float32) Interval {
	return Interval{Min: i.Min, Max: max}
}
