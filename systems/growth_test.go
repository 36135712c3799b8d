package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/hyphae/components"
	"github.com/pthm-cable/hyphae/config"
	"github.com/pthm-cable/hyphae/geom"
)

// maxSource always returns the largest value, so IntN(n) yields n-1: headings
// of 359 degrees, white seeds, a coin of -1 and fork draws of 99.
type maxSource struct{}

func (maxSource) Uint64() uint64 { return math.MaxUint64 }

func testGrowthConfig() config.GrowthConfig {
	return config.Default().Growth
}

func newTestGrowth(cfg config.GrowthConfig) (*GrowthSystem, *Graph) {
	g := NewGraph(cfg.MaxNodes)
	return NewGrowthSystem(cfg, g), g
}

func approxVec(a, b geom.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestSeedLayout(t *testing.T) {
	cfg := testGrowthConfig()
	s, g := newTestGrowth(cfg)

	s.Seed(geom.V(400, 200), 3, rand.New(maxSource{}))

	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
	for i, n := range g.Nodes() {
		want := geom.V(float64(i+1)*100, 100)
		if !approxVec(n.Center(), want) {
			t.Errorf("seed %d at %v, want %v", i, n.Center(), want)
		}
		if n.Branch != i+1 || n.ID != i {
			t.Errorf("seed %d branch/id = %d/%d, want %d/%d", i, n.Branch, n.ID, i+1, i)
		}
		if n.Direction != 359 {
			t.Errorf("seed %d direction = %v, want 359", i, n.Direction)
		}
		if n.Color != (components.Color{R: 255, G: 255, B: 255, A: 255}) {
			t.Errorf("seed %d color = %v, want white", i, n.Color)
		}
		if n.Radius() != cfg.InitialRadius || n.Spacing != cfg.InitialSpacing || n.Jitter != cfg.InitialJitter {
			t.Errorf("seed %d radius/spacing/jitter = %v/%v/%v", i, n.Radius(), n.Spacing, n.Jitter)
		}
		if n.Cell != components.CellOf(n.Center(), cfg.CellWidth, cfg.CellHeight) {
			t.Errorf("seed %d cell %v inconsistent with center", i, n.Cell)
		}
	}
	if s.ActiveCount() != 3 || s.AddedThisTick() != 3 {
		t.Errorf("active/added = %d/%d, want 3/3", s.ActiveCount(), s.AddedThisTick())
	}
	if s.Grid().Len() != 3 {
		t.Errorf("grid holds %d nodes, want 3", s.Grid().Len())
	}
}

func TestUpdateGrowsOneChild(t *testing.T) {
	cfg := testGrowthConfig()
	s, g := newTestGrowth(cfg)
	s.Seed(geom.V(100, 100), 1, rand.New(maxSource{}))

	if added := s.Update(geom.V(100, 100)); added != 1 {
		t.Fatalf("Update() added %d, want 1", added)
	}
	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}

	parent, child := g.Nodes()[0], g.Nodes()[1]
	if !parent.Spawned {
		t.Error("parent not marked spawned")
	}
	if child.Spawned {
		t.Error("child already spawned")
	}
	if child.Branch != parent.Branch {
		t.Errorf("child branch = %d, want %d", child.Branch, parent.Branch)
	}
	if child.ID != 1 {
		t.Errorf("child id = %d, want 1", child.ID)
	}

	wantDir := 359 - cfg.InitialJitter
	if child.Direction != wantDir {
		t.Errorf("child direction = %v, want %v", child.Direction, wantDir)
	}
	wantPos := parent.Center().Add(geom.Heading(wantDir).Scale(cfg.InitialSpacing))
	if !approxVec(child.Center(), wantPos) {
		t.Errorf("child at %v, want %v", child.Center(), wantPos)
	}

	c := s.Counts()
	if c.Proposed != 1 || c.Accepted != 1 || c.Forks != 0 {
		t.Errorf("counts = %+v, want 1 proposed, 1 accepted, 0 forks", c)
	}
	if s.ActiveCount() != 1 || s.AddedThisTick() != 1 {
		t.Errorf("active/added = %d/%d, want 1/1", s.ActiveCount(), s.AddedThisTick())
	}
}

func TestUpdateForks(t *testing.T) {
	cfg := testGrowthConfig()
	cfg.ForkK = 10 // (1+10)*10 percent always beats a draw of 99
	s, g := newTestGrowth(cfg)
	area := geom.V(1000, 1000)
	s.Seed(area, 1, rand.New(maxSource{}))

	if added := s.Update(area); added != 2 {
		t.Fatalf("Update() added %d, want 2", added)
	}
	child, fork := g.Nodes()[1], g.Nodes()[2]

	if fork.Branch != 2 || fork.ID != 2 {
		t.Errorf("fork branch/id = %d/%d, want 2/2", fork.Branch, fork.ID)
	}
	wantDir := child.Direction - cfg.ForkTurn
	if fork.Direction != wantDir {
		t.Errorf("fork direction = %v, want %v", fork.Direction, wantDir)
	}
	wantSpacing := child.Spacing / cfg.RadiusShrinkFactor
	if fork.Spacing != wantSpacing {
		t.Errorf("fork spacing = %v, want %v", fork.Spacing, wantSpacing)
	}
	wantPos := child.Center().Add(geom.Heading(wantDir).Scale(wantSpacing * cfg.ForkBoost))
	if !approxVec(fork.Center(), wantPos) {
		t.Errorf("fork at %v, want %v", fork.Center(), wantPos)
	}
	if fork.Radius() != child.Radius()/cfg.RadiusShrinkFactor {
		t.Errorf("fork radius = %v, want %v", fork.Radius(), child.Radius()/cfg.RadiusShrinkFactor)
	}
	if fork.Jitter != child.Jitter*cfg.JitterGrowthFactor {
		t.Errorf("fork jitter = %v, want %v", fork.Jitter, child.Jitter*cfg.JitterGrowthFactor)
	}
	if fork.Color != child.Color.Darken(cfg.ColorDarkenFactor) {
		t.Errorf("fork color = %v, want %v", fork.Color, child.Color.Darken(cfg.ColorDarkenFactor))
	}
	if s.Counts().Forks != 1 {
		t.Errorf("Forks = %d, want 1", s.Counts().Forks)
	}
}

func TestForkChanceGrowsWithBranch(t *testing.T) {
	cfg := testGrowthConfig()
	cfg.ForkK = 9 // (branch+9)*9 percent against a draw of 99
	s, _ := newTestGrowth(cfg)
	s.rng = rand.New(maxSource{})

	tests := []struct {
		branch int
		want   bool
	}{
		{1, false}, // 90%
		{2, false}, // 99%
		{3, true},  // 108%
	}
	for _, tt := range tests {
		n := components.Node{Circle: geom.Circle{Radius: cfg.InitialRadius}, Branch: tt.branch}
		if got := s.shouldFork(&n); got != tt.want {
			t.Errorf("shouldFork(branch %d) = %v, want %v", tt.branch, got, tt.want)
		}
	}
}

func TestUpdateNoForkBelowMinRadius(t *testing.T) {
	cfg := testGrowthConfig()
	cfg.ForkK = 10
	cfg.ForkMinRadius = cfg.InitialRadius
	s, g := newTestGrowth(cfg)
	area := geom.V(1000, 1000)
	s.Seed(area, 1, rand.New(maxSource{}))

	s.Update(area)
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (no fork at radius == fork_min_radius)", g.Len())
	}
}

func TestUpdateRejectsOutOfBounds(t *testing.T) {
	cfg := testGrowthConfig()
	s, g := newTestGrowth(cfg)
	area := geom.V(10, 10)
	s.Seed(area, 1, rand.New(maxSource{}))

	if added := s.Update(area); added != 0 {
		t.Fatalf("Update() added %d, want 0", added)
	}
	if s.Counts().RejectedBounds != 1 {
		t.Errorf("RejectedBounds = %d, want 1", s.Counts().RejectedBounds)
	}
	if !g.Nodes()[0].Spawned {
		t.Error("rejected parent must still be marked spawned")
	}
	if s.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, want 0", s.ActiveCount())
	}

	if added := s.Update(geom.V(1000, 1000)); added != 0 {
		t.Errorf("Update after stall added %d, want 0", added)
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
}

func TestUpdateRejectsCollision(t *testing.T) {
	cfg := testGrowthConfig()
	cfg.IDExemption = 0
	s, g := newTestGrowth(cfg)
	area := geom.V(60, 100)
	s.Seed(area, 2, rand.New(maxSource{}))

	// The left seed's child lands on the right seed; the right seed's child
	// clears both.
	if added := s.Update(area); added != 1 {
		t.Fatalf("Update() added %d, want 1", added)
	}
	c := s.Counts()
	if c.RejectedCollision != 1 || c.Accepted != 1 {
		t.Errorf("counts = %+v, want 1 collision, 1 accepted", c)
	}
	if got := g.Nodes()[2].Branch; got != 2 {
		t.Errorf("surviving child branch = %d, want 2", got)
	}
}

// placeNode moves a seeded node and re-indexes the grid.
func placeNode(s *GrowthSystem, g *Graph, i int, pos geom.Vec2, dir float64) {
	n := g.At(i)
	n.Circle.Center = pos
	n.Direction = dir
	n.Jitter = 0
	n.Cell = s.grid.CellOf(pos)

	s.grid.Clear()
	for j := range g.Nodes() {
		s.grid.Insert(j, g.At(j).Cell)
	}
}

func TestUpdateRejectsCollisionWithStagedNode(t *testing.T) {
	cfg := testGrowthConfig()
	cfg.IDExemption = 0
	s, g := newTestGrowth(cfg)
	area := geom.V(1000, 1000)
	s.Seed(area, 2, rand.New(maxSource{}))

	// Two seeds facing each other: their children land 22 apart, closer than
	// two radii, while each child clears the other seed.
	placeNode(s, g, 0, geom.V(480, 500), 0)
	placeNode(s, g, 1, geom.V(530, 500), 180)

	if added := s.Update(area); added != 1 {
		t.Fatalf("Update() added %d, want 1", added)
	}
	c := s.Counts()
	if c.Proposed != 2 || c.Accepted != 1 || c.RejectedCollision != 1 {
		t.Errorf("counts = %+v, want 2 proposed, 1 accepted, 1 collision", c)
	}
	// The left seed is visited first, so its child is the one kept.
	if got := g.Nodes()[2]; got.Branch != 1 || !approxVec(got.Center(), geom.V(494, 500)) {
		t.Errorf("kept child branch %d at %v, want branch 1 at (494, 500)", got.Branch, got.Center())
	}
}

func TestUpdateIdleRevealsIntermediate(t *testing.T) {
	s, _ := newTestGrowth(testGrowthConfig())
	area := geom.V(10, 10)
	s.Seed(area, 1, rand.New(maxSource{}))
	s.SetRevealIntermediate(false)

	if added := s.Update(area); added != 0 {
		t.Fatalf("Update() added %d, want 0", added)
	}
	if s.RevealIntermediate() {
		t.Fatal("RevealIntermediate() = true after a tick that followed seeding")
	}

	s.Update(area)
	if !s.RevealIntermediate() {
		t.Error("RevealIntermediate() = false after a zero-growth tick")
	}
}

func TestUpdateIDExemptionAllowsOverlap(t *testing.T) {
	cfg := testGrowthConfig()
	s, g := newTestGrowth(cfg)
	area := geom.V(60, 100)
	s.Seed(area, 2, rand.New(maxSource{}))

	if added := s.Update(area); added != 2 {
		t.Fatalf("Update() added %d, want 2", added)
	}
	if g.Len() != 4 {
		t.Errorf("Len() = %d, want 4", g.Len())
	}
}

func TestUpdateStopsAtCapacity(t *testing.T) {
	cfg := testGrowthConfig()
	cfg.MaxNodes = 3
	cfg.ForkK = 10
	s, g := newTestGrowth(cfg)
	area := geom.V(1000, 1000)
	s.Seed(area, 1, rand.New(maxSource{}))

	if added := s.Update(area); added != 2 {
		t.Fatalf("first Update() added %d, want 2", added)
	}
	if added := s.Update(area); added != 0 {
		t.Errorf("Update at capacity added %d, want 0", added)
	}
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}
	if s.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, want 0", s.ActiveCount())
	}
}

func TestSortFrontierBreaksTiesByID(t *testing.T) {
	cfg := testGrowthConfig()
	s, g := newTestGrowth(cfg)

	for _, n := range []components.Node{
		{Circle: geom.Circle{Center: geom.V(5, 0)}, ID: 3},
		{Circle: geom.Circle{Center: geom.V(1, 0)}, ID: 2},
		{Circle: geom.Circle{Center: geom.V(5, 9)}, ID: 1},
	} {
		idx, _ := g.Append(n)
		s.frontier = append(s.frontier, idx)
	}

	s.sortFrontier()

	var ids []int
	for _, idx := range s.frontier {
		ids = append(ids, g.At(idx).ID)
	}
	want := []int{2, 1, 3}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("sorted ids = %v, want %v", ids, want)
		}
	}
}

func TestUpdateBeforeSeedIsIdle(t *testing.T) {
	s, g := newTestGrowth(testGrowthConfig())
	if added := s.Update(geom.V(100, 100)); added != 0 {
		t.Errorf("Update() before Seed added %d, want 0", added)
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d, want 0", g.Len())
	}
}
