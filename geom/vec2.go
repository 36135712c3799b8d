// Package geom provides the 2D vector and circle math used by the growth engine.
package geom

import "math"

// Vec2 is a point or direction in the play area.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// Normalize returns v scaled to unit length.
// A zero-length vector has no direction and panics; callers must never
// produce one.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) {
		panic("geom: normalize of degenerate vector")
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rotate returns v rotated counter-clockwise about the origin by deg degrees.
func (v Vec2) Rotate(deg float64) Vec2 {
	sn, cs := math.Sincos(deg * math.Pi / 180)
	return Vec2{
		X: v.X*cs - v.Y*sn,
		Y: v.X*sn + v.Y*cs,
	}
}

// AngleDegrees returns the angle of v from the +X axis, in (-180, 180].
func (v Vec2) AngleDegrees() float64 {
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}

// Heading returns the unit vector pointing along deg degrees.
func Heading(deg float64) Vec2 {
	return Vec2{X: 1}.Rotate(deg).Normalize()
}

// InRect reports whether v lies inside [0,size.X] x [0,size.Y], edges included.
func (v Vec2) InRect(size Vec2) bool {
	return v.X >= 0 && v.Y >= 0 && v.X <= size.X && v.Y <= size.Y
}
