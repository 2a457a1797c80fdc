package valueobjects

import (
	"math"

	pkgerrors "notecanvas/pkg/errors"
)

// Vec2 is a value object representing a point or displacement in either
// world or screen space. Which space a Vec2 lives in is a property of the
// code handling it; the math is identical.
type Vec2 struct {
	X float64
	Y float64
}

// NewVec2 creates a Vec2 with validation
func NewVec2(x, y float64) (Vec2, error) {
	if !isFinite(x) || !isFinite(y) {
		return Vec2{}, pkgerrors.NewValidationError("invalid coordinates: must be finite numbers")
	}
	return Vec2{X: x, Y: y}, nil
}

// Add returns the component-wise sum
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the component-wise difference
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale returns the vector multiplied by a scalar
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// DistanceTo calculates the Euclidean distance to another point
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Length returns the Euclidean length of the vector
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Equals checks if two points are equal within a small epsilon
func (v Vec2) Equals(other Vec2) bool {
	const epsilon = 1e-9
	return math.Abs(v.X-other.X) < epsilon && math.Abs(v.Y-other.Y) < epsilon
}

// Rounded returns the point with both components rounded to the nearest
// integer. Persisted positions are always rounded.
func (v Vec2) Rounded() Vec2 {
	return Vec2{X: math.Round(v.X), Y: math.Round(v.Y)}
}

// IsFinite reports whether both components are finite numbers
func (v Vec2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// DistanceToSegment calculates the shortest distance from the point to the
// line segment between a and b.
func (v Vec2) DistanceToSegment(a, b Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return v.DistanceTo(a)
	}
	t := ((v.X-a.X)*ab.X + (v.Y-a.Y)*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := a.Add(ab.Scale(t))
	return v.DistanceTo(closest)
}

// isFinite checks if a coordinate is a valid finite number
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
