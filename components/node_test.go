package components

import (
	"testing"

	"github.com/pthm-cable/hyphae/geom"
)

func TestColorDarken(t *testing.T) {
	c := Color{R: 200, G: 100, B: 10, A: 255}
	got := c.Darken(0.8)
	want := Color{R: 160, G: 80, B: 8, A: 255}
	if got != want {
		t.Errorf("Darken(0.8) = %+v, want %+v", got, want)
	}

	if got := c.Darken(2); got.R != 255 || got.G != 200 {
		t.Errorf("Darken(2) should clamp, got %+v", got)
	}
}

func TestCellOf(t *testing.T) {
	tests := []struct {
		p    geom.Vec2
		want Cell
	}{
		{geom.V(0, 0), Cell{0, 0}},
		{geom.V(31.9, 31.9), Cell{0, 0}},
		{geom.V(32, 64), Cell{1, 2}},
		{geom.V(-0.5, 10), Cell{-1, 0}},
	}
	for _, tc := range tests {
		if got := CellOf(tc.p, 32, 32); got != tc.want {
			t.Errorf("CellOf(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}
