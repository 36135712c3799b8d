package systems

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/pthm-cable/hyphae/components"
	"github.com/pthm-cable/hyphae/config"
	"github.com/pthm-cable/hyphae/geom"
	"github.com/pthm-cable/hyphae/telemetry"
)

// PhaseTimer receives phase boundaries during Update.
// *telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(name string)
}

// GrowthSystem grows the network by one generation per Update.
//
// Only unspawned nodes can produce children, so the system tracks them as a
// frontier of store indices. Spawned nodes never re-enter it, which keeps the
// per-tick sort proportional to the growing edge instead of the whole store.
type GrowthSystem struct {
	cfg   config.GrowthConfig
	graph *Graph
	grid  *SpatialGrid
	rng   *rand.Rand
	timer PhaseTimer

	frontier     []int
	frontierNext []int
	staged       []components.Node
	neighbors    []int
	base         int // store length at scan start
	counts       telemetry.TickCounts

	startingNew        bool
	activeCount        int
	addedThisTick      int
	revealIntermediate bool
}

// NewGrowthSystem creates a growth system over graph using cfg.
// cfg must already be validated.
func NewGrowthSystem(cfg config.GrowthConfig, graph *Graph) *GrowthSystem {
	return &GrowthSystem{
		cfg:                cfg,
		graph:              graph,
		grid:               NewSpatialGrid(cfg.CellWidth, cfg.CellHeight),
		revealIntermediate: true,
	}
}

// SetPhaseTimer installs t to receive phase boundaries. nil disables timing.
func (s *GrowthSystem) SetPhaseTimer(t PhaseTimer) { s.timer = t }

// Grid exposes the spatial index for inspection.
func (s *GrowthSystem) Grid() *SpatialGrid { return s.grid }

// ActiveCount returns the number of nodes accepted in the last tick.
func (s *GrowthSystem) ActiveCount() int { return s.activeCount }

// AddedThisTick returns how many trailing store nodes the last tick appended.
func (s *GrowthSystem) AddedThisTick() int { return s.addedThisTick }

// Counts returns what the last tick's scan did.
func (s *GrowthSystem) Counts() telemetry.TickCounts { return s.counts }

// FrontierLen returns the number of nodes that have not spawned yet.
func (s *GrowthSystem) FrontierLen() int { return len(s.frontier) }

// RevealIntermediate reports whether intermediate states should be drawn.
// It switches on by itself once growth stalls.
func (s *GrowthSystem) RevealIntermediate() bool { return s.revealIntermediate }

// SetRevealIntermediate overrides the intermediate rendering flag.
func (s *GrowthSystem) SetRevealIntermediate(v bool) { s.revealIntermediate = v }

// Seed clears the store and plants count seed nodes evenly across the width
// of area, vertically centred. rng drives every later random draw.
func (s *GrowthSystem) Seed(area geom.Vec2, count int, rng *rand.Rand) {
	s.phase(telemetry.PhaseSeed)

	s.rng = rng
	s.graph.Reset()
	s.grid.Clear()
	s.frontier = s.frontier[:0]
	s.staged = s.staged[:0]

	for i := 0; i < count; i++ {
		pos := geom.V(float64(i+1)*area.X/float64(count+1), area.Y/2)
		n := components.Node{
			Circle:    geom.Circle{Center: pos, Radius: s.cfg.InitialRadius},
			Direction: float64(s.rng.IntN(360)),
			Jitter:    s.cfg.InitialJitter,
			Spacing:   s.cfg.InitialSpacing,
			Cell:      s.grid.CellOf(pos),
		}
		n.Color = s.seedColor()
		n.Branch = s.graph.NewBranch()
		n.ID = s.graph.NewID()

		idx, ok := s.graph.Append(n)
		if !ok {
			break
		}
		s.grid.Insert(idx, n.Cell)
		s.frontier = append(s.frontier, idx)
	}

	s.startingNew = true
	s.activeCount = s.graph.Len()
	s.addedThisTick = s.graph.Len()
}

func (s *GrowthSystem) seedColor() components.Color {
	channel := func() uint8 {
		return uint8(s.rng.IntN(s.cfg.ColorRange) + s.cfg.ColorMin)
	}
	r := channel()
	g := channel()
	b := channel()
	return components.Color{R: r, G: g, B: b, A: 255}
}

// Update advances one generation against the play area size and returns the
// number of nodes appended. A tick after a tick that added nothing is a no-op,
// unless Seed ran in between.
func (s *GrowthSystem) Update(area geom.Vec2) int {
	starting := s.startingNew
	s.startingNew = false
	s.counts = telemetry.TickCounts{}

	if !s.revealIntermediate && s.activeCount < 1 {
		s.revealIntermediate = true
	}
	if !starting && s.activeCount < 1 {
		s.addedThisTick = 0
		return 0
	}
	if s.rng == nil {
		panic("systems: GrowthSystem.Update before Seed")
	}

	s.phase(telemetry.PhaseSort)
	s.sortFrontier()

	s.phase(telemetry.PhaseScan)
	visited := s.scan(area)

	s.phase(telemetry.PhaseCommit)
	s.commit(visited)

	return s.addedThisTick
}

// sortFrontier orders pending nodes by ascending x, breaking ties by id so the
// visiting order is a total order.
func (s *GrowthSystem) sortFrontier() {
	slices.SortFunc(s.frontier, func(a, b int) int {
		na, nb := s.graph.At(a), s.graph.At(b)
		if c := cmp.Compare(na.Circle.Center.X, nb.Circle.Center.X); c != 0 {
			return c
		}
		return cmp.Compare(na.ID, nb.ID)
	})
}

// scan visits the frontier in order, staging accepted children and forks.
// It returns how many frontier entries were visited.
func (s *GrowthSystem) scan(area geom.Vec2) int {
	s.staged = s.staged[:0]
	s.base = s.graph.Len()
	room := s.graph.Room()

	visited := 0
	for _, idx := range s.frontier {
		if len(s.staged) >= room {
			break
		}
		visited++

		parent := s.graph.At(idx)
		if parent.Spawned {
			continue
		}
		child := s.propose(parent)
		parent.Spawned = true
		s.counts.Proposed++

		if !s.accept(&child, area) {
			continue
		}
		s.stage(child)
		s.counts.Accepted++

		if len(s.staged) < room && s.shouldFork(&child) {
			fork := s.fork(&child)
			if s.accept(&fork, area) {
				s.stage(fork)
				s.counts.Forks++
			}
		}
	}
	return visited
}

// propose builds the next node of parent's branch one spacing along a
// heading wobbled by plus or minus the parent's jitter.
func (s *GrowthSystem) propose(parent *components.Node) components.Node {
	dir := parent.Direction + s.coin()*parent.Jitter
	pos := parent.Circle.Center.Add(geom.Heading(dir).Scale(parent.Spacing))
	return components.Node{
		Circle:    geom.Circle{Center: pos, Radius: parent.Circle.Radius},
		Direction: dir,
		Jitter:    parent.Jitter,
		Spacing:   parent.Spacing,
		Color:     parent.Color,
		Branch:    parent.Branch,
		ID:        s.graph.NewID(),
		Cell:      s.grid.CellOf(pos),
	}
}

// shouldFork draws the fork chance for an accepted child. The chance in
// percent is (branch + k) * k, so later branches fork more readily.
func (s *GrowthSystem) shouldFork(c *components.Node) bool {
	if c.Circle.Radius <= s.cfg.ForkMinRadius {
		return false
	}
	chance := (float64(c.Branch) + s.cfg.ForkK) * s.cfg.ForkK
	return float64(s.rng.IntN(100)) < chance
}

// fork starts a new, smaller branch next to c.
func (s *GrowthSystem) fork(c *components.Node) components.Node {
	shrink := s.cfg.RadiusShrinkFactor
	dir := c.Direction + s.coin()*s.cfg.ForkTurn
	spacing := c.Spacing / shrink
	pos := c.Circle.Center.Add(geom.Heading(dir).Scale(spacing * s.cfg.ForkBoost))

	n := components.Node{
		Circle:    geom.Circle{Center: pos, Radius: c.Circle.Radius / shrink},
		Direction: dir,
		Jitter:    c.Jitter * s.cfg.JitterGrowthFactor,
		Spacing:   spacing,
		Color:     c.Color.Darken(s.cfg.ColorDarkenFactor),
		Cell:      s.grid.CellOf(pos),
	}
	n.Branch = s.graph.NewBranch()
	n.ID = s.graph.NewID()
	return n
}

// accept reports whether c lies in the play area and clears every
// neighbouring node of another branch that is not id-exempt. Nodes staged
// earlier in the same scan are included.
func (s *GrowthSystem) accept(c *components.Node, area geom.Vec2) bool {
	if !c.Circle.Center.InRect(area) {
		s.counts.RejectedBounds++
		return false
	}

	s.neighbors = s.grid.QueryNeighborhoodInto(s.neighbors[:0], c.Cell)
	for _, j := range s.neighbors {
		m := s.nodeAt(j)
		if m.Branch == c.Branch {
			continue
		}
		if absInt(m.ID-c.ID) < s.cfg.IDExemption {
			continue
		}
		if geom.CirclesCollide(c.Circle, m.Circle) {
			s.counts.RejectedCollision++
			return false
		}
	}
	return true
}

// stage queues n for commit and indexes it under the store index it will get.
func (s *GrowthSystem) stage(n components.Node) {
	s.staged = append(s.staged, n)
	s.grid.Insert(s.base+len(s.staged)-1, n.Cell)
}

// nodeAt resolves an index that may point past the store into the staging
// buffer.
func (s *GrowthSystem) nodeAt(i int) *components.Node {
	if i < s.base {
		return s.graph.At(i)
	}
	return &s.staged[i-s.base]
}

// commit appends staged nodes in order and rebuilds the frontier from the
// unvisited tail plus the new nodes.
func (s *GrowthSystem) commit(visited int) {
	next := s.frontierNext[:0]
	next = append(next, s.frontier[visited:]...)
	for _, n := range s.staged {
		idx, ok := s.graph.Append(n)
		if !ok {
			// scan never stages past the remaining room
			panic("systems: staged nodes exceed store capacity")
		}
		next = append(next, idx)
	}
	s.frontier, s.frontierNext = next, s.frontier

	s.activeCount = len(s.staged)
	s.addedThisTick = len(s.staged)
	s.staged = s.staged[:0]
}

// coin returns +1 or -1 with equal probability.
func (s *GrowthSystem) coin() float64 {
	if s.rng.IntN(2) == 0 {
		return 1
	}
	return -1
}

func (s *GrowthSystem) phase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
