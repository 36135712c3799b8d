package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestVecArithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(1, -2)

	if got := a.Add(b); got != V(4, 2) {
		t.Errorf("Add = %v, want (4,2)", got)
	}
	if got := a.Sub(b); got != V(2, 6) {
		t.Errorf("Sub = %v, want (2,6)", got)
	}
	if got := a.Scale(2); got != V(6, 8) {
		t.Errorf("Scale = %v, want (6,8)", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("Dot = %v, want -5", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
	if got := a.Dist(V(0, 0)); got != 5 {
		t.Errorf("Dist = %v, want 5", got)
	}
}

func TestNormalize(t *testing.T) {
	n := V(3, 4).Normalize()
	if !near(n.Len(), 1) || !near(n.X, 0.6) || !near(n.Y, 0.8) {
		t.Errorf("Normalize = %v, want (0.6,0.8)", n)
	}
}

func TestNormalizeZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic normalizing zero vector")
		}
	}()
	V(0, 0).Normalize()
}

func TestRotate(t *testing.T) {
	tests := []struct {
		deg  float64
		want Vec2
	}{
		{0, V(1, 0)},
		{90, V(0, 1)},
		{180, V(-1, 0)},
		{270, V(0, -1)},
		{-90, V(0, -1)},
		{360, V(1, 0)},
	}
	for _, tc := range tests {
		got := V(1, 0).Rotate(tc.deg)
		if !near(got.X, tc.want.X) || !near(got.Y, tc.want.Y) {
			t.Errorf("Rotate(%v) = %v, want %v", tc.deg, got, tc.want)
		}
	}
}

func TestAngleDegrees(t *testing.T) {
	for _, deg := range []float64{0, 30, 90, 135, -45, -170} {
		got := Heading(deg).AngleDegrees()
		if math.Abs(got-deg) > 1e-6 {
			t.Errorf("Heading(%v).AngleDegrees() = %v", deg, got)
		}
	}
}

func TestInRect(t *testing.T) {
	size := V(100, 50)
	inside := []Vec2{V(0, 0), V(100, 50), V(50, 25)}
	outside := []Vec2{V(-0.1, 10), V(10, -0.1), V(100.1, 10), V(10, 50.1)}
	for _, p := range inside {
		if !p.InRect(size) {
			t.Errorf("%v should be inside %v", p, size)
		}
	}
	for _, p := range outside {
		if p.InRect(size) {
			t.Errorf("%v should be outside %v", p, size)
		}
	}
}

func TestCirclesCollide(t *testing.T) {
	a := Circle{Center: V(0, 0), Radius: 5}

	if !CirclesCollide(a, Circle{Center: V(9, 0), Radius: 5}) {
		t.Error("distance 9 with radii 5+5 should collide")
	}
	if CirclesCollide(a, Circle{Center: V(10, 0), Radius: 5}) {
		t.Error("tangent circles should not collide")
	}
	if CirclesCollide(a, Circle{Center: V(0, 20), Radius: 5}) {
		t.Error("distant circles should not collide")
	}
}
