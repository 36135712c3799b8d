// Package components defines the node data model of the growth simulation.
package components

import (
	"math"

	"github.com/pthm-cable/hyphae/geom"
)

// Color is an 8-bit RGBA colour. It mirrors raylib's layout so the shell can
// convert without arithmetic.
type Color struct {
	R, G, B, A uint8
}

// Darken scales the RGB channels by f, leaving alpha untouched.
func (c Color) Darken(f float64) Color {
	return Color{
		R: scaleChannel(c.R, f),
		G: scaleChannel(c.G, f),
		B: scaleChannel(c.B, f),
		A: c.A,
	}
}

func scaleChannel(v uint8, f float64) uint8 {
	s := float64(v) * f
	if s <= 0 {
		return 0
	}
	if s >= 255 {
		return 255
	}
	return uint8(s)
}

// Cell is a spatial grid coordinate.
type Cell struct {
	X, Y int
}

// CellOf returns the grid cell containing p for cells of size w x h.
func CellOf(p geom.Vec2, w, h float64) Cell {
	return Cell{
		X: int(math.Floor(p.X / w)),
		Y: int(math.Floor(p.Y / h)),
	}
}

// Node is one circle of the growing network.
type Node struct {
	Circle  geom.Circle
	Spawned bool // set once the node has attempted its child

	Direction float64 // heading in degrees
	Jitter    float64 // per-step heading wobble, degrees
	Spacing   float64 // parent-to-child distance
	Color     Color

	Branch int // lineage id; same-branch nodes never collide
	ID     int // creation order

	Cell Cell // cached at creation
}

// Center returns the node position.
func (n *Node) Center() geom.Vec2 { return n.Circle.Center }

// Radius returns the node radius.
func (n *Node) Radius() float64 { return n.Circle.Radius }
