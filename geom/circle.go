package geom

// Circle is a disc in the play area.
type Circle struct {
	Center Vec2
	Radius float64
}

// CirclesCollide reports whether a and b overlap. Tangent circles do not.
func CirclesCollide(a, b Circle) bool {
	return a.Center.Dist(b.Center) < a.Radius+b.Radius
}
