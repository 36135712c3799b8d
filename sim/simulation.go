// Package sim exposes the growth simulation to a driver: reset it, step it
// once per frame, and read snapshots between steps.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/pthm-cable/hyphae/components"
	"github.com/pthm-cable/hyphae/config"
	"github.com/pthm-cable/hyphae/geom"
	"github.com/pthm-cable/hyphae/systems"
	"github.com/pthm-cable/hyphae/telemetry"
)

// Errors returned for rejected inputs. Configuration errors wrap the config
// package sentinels, which are re-exported here.
var (
	ErrInvalidArea      = errors.New("play area must have positive width and height")
	ErrInvalidSeedCount = config.ErrInvalidSeedCount
	ErrInvalidCellSize  = config.ErrInvalidCellSize
	ErrInvalidCapacity  = config.ErrInvalidCapacity
)

// SourceFunc builds the random source for a reset from its seed.
type SourceFunc func(seed uint64) rand.Source

// PCGSource is the default SourceFunc.
func PCGSource(seed uint64) rand.Source { return rand.NewPCG(seed, 0) }

// Option configures a Simulation.
type Option func(*Simulation)

// WithSource replaces the random source used on every reset.
func WithSource(f SourceFunc) Option {
	return func(s *Simulation) { s.newSource = f }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithPerf times every step into pc.
func WithPerf(pc *telemetry.PerfCollector) Option {
	return func(s *Simulation) { s.perf = pc }
}

// Simulation owns the node store and drives the growth engine. It is not
// safe for concurrent use; snapshots may be taken between steps.
type Simulation struct {
	cfg       config.GrowthConfig
	graph     *systems.Graph
	growth    *systems.GrowthSystem
	newSource SourceFunc
	logger    *slog.Logger
	perf      *telemetry.PerfCollector

	query []int

	initialPoints int
	seed          uint64
	area          geom.Vec2
	tick          int
	seeded        bool
	stable        bool
}

// New validates cfg and returns an empty simulation. Call Reset before Step.
func New(cfg config.GrowthConfig, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid growth config: %w", err)
	}

	s := &Simulation{
		cfg:           cfg,
		newSource:     PCGSource,
		initialPoints: cfg.InitialPoints,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.graph = systems.NewGraph(cfg.MaxNodes)
	s.growth = systems.NewGrowthSystem(cfg, s.graph)
	if s.perf != nil {
		s.growth.SetPhaseTimer(s.perf)
	}
	return s, nil
}

// Reset clears the store and plants initialPoints seeds across area using a
// generator seeded with seed. Inputs are checked before anything changes.
func (s *Simulation) Reset(initialPoints int, area geom.Vec2, seed uint64) error {
	if !(area.X > 0 && area.Y > 0) {
		return fmt.Errorf("reset with area %vx%v: %w", area.X, area.Y, ErrInvalidArea)
	}
	if initialPoints <= 0 || initialPoints > s.cfg.MaxNodes {
		return fmt.Errorf("reset with %d seeds (capacity %d): %w", initialPoints, s.cfg.MaxNodes, ErrInvalidSeedCount)
	}

	s.initialPoints = initialPoints
	s.seed = seed
	s.area = area
	s.tick = 0
	s.stable = false

	s.startTick()
	s.growth.Seed(area, initialPoints, rand.New(s.newSource(seed)))
	s.endTick()
	s.seeded = true

	s.logger.Info("simulation reset",
		"seeds", initialPoints,
		"width", area.X,
		"height", area.Y,
		"rng_seed", seed,
		"max_nodes", s.cfg.MaxNodes,
	)
	return nil
}

// Restart reseeds with the current initial point count and area.
func (s *Simulation) Restart(seed uint64) error {
	return s.Reset(s.initialPoints, s.area, seed)
}

// Step advances one generation with area as the bounds for new nodes and
// returns how many nodes were appended. Area may change between calls.
func (s *Simulation) Step(area geom.Vec2) int {
	if !s.seeded {
		return 0
	}
	s.area = area

	s.startTick()
	added := s.growth.Update(area)
	s.endTick()
	s.tick++

	if s.growth.ActiveCount() == 0 && !s.stable {
		s.stable = true
		s.logger.Info("growth stabilized",
			"tick", s.tick,
			"nodes", s.graph.Len(),
			"branches", s.graph.Branches(),
			"capacity_reached", s.graph.Room() == 0,
		)
	}
	return added
}

func (s *Simulation) startTick() {
	if s.perf != nil {
		s.perf.StartTick()
	}
}

func (s *Simulation) endTick() {
	if s.perf != nil {
		s.perf.EndTick()
	}
}

// Snapshot returns a copy of all nodes in creation order.
func (s *Simulation) Snapshot() []components.Node {
	nodes := s.graph.Nodes()
	out := make([]components.Node, len(nodes))
	copy(out, nodes)
	return out
}

// Nodes returns the live node slice without copying. It is only valid until
// the next Step or Reset and must not be modified.
func (s *Simulation) Nodes() []components.Node { return s.graph.Nodes() }

// Added returns the nodes appended by the most recent step or reset. Like
// Nodes, the slice is a view.
func (s *Simulation) Added() []components.Node {
	nodes := s.graph.Nodes()
	return nodes[len(nodes)-s.growth.AddedThisTick():]
}

// NodeAt returns the topmost node whose disc contains p. Later nodes are
// drawn over earlier ones, so the highest index wins.
func (s *Simulation) NodeAt(p geom.Vec2) (components.Node, bool) {
	grid := s.growth.Grid()
	s.query = grid.QueryNeighborhoodInto(s.query[:0], grid.CellOf(p))

	best := -1
	for _, idx := range s.query {
		n := s.graph.At(idx)
		if idx > best && n.Circle.Center.Dist(p) <= n.Circle.Radius {
			best = idx
		}
	}
	if best < 0 {
		return components.Node{}, false
	}
	return *s.graph.At(best), true
}

// AddedThisTick returns how many trailing nodes the most recent step appended.
func (s *Simulation) AddedThisTick() int { return s.growth.AddedThisTick() }

// ActiveCount returns how many nodes the most recent step accepted.
// Zero means growth has stabilized.
func (s *Simulation) ActiveCount() int { return s.growth.ActiveCount() }

// Done reports whether growth has stopped since the last reset.
func (s *Simulation) Done() bool { return s.seeded && s.growth.ActiveCount() == 0 }

// Counts returns the scan counters of the most recent step.
func (s *Simulation) Counts() telemetry.TickCounts { return s.growth.Counts() }

// Len returns the number of nodes.
func (s *Simulation) Len() int { return s.graph.Len() }

// MaxNodes returns the store capacity.
func (s *Simulation) MaxNodes() int { return s.graph.MaxNodes() }

// Branches returns how many branches have been started.
func (s *Simulation) Branches() int { return s.graph.Branches() }

// Frontier returns how many nodes have not spawned yet.
func (s *Simulation) Frontier() int { return s.growth.FrontierLen() }

// Tick returns the number of steps since the last reset.
func (s *Simulation) Tick() int { return s.tick }

// Seed returns the generator seed of the last reset.
func (s *Simulation) Seed() uint64 { return s.seed }

// Area returns the play area of the last reset or step.
func (s *Simulation) Area() geom.Vec2 { return s.area }

// CellSize returns the spatial grid cell size.
func (s *Simulation) CellSize() (w, h float64) { return s.cfg.CellWidth, s.cfg.CellHeight }

// InitialPointCount returns the seed count used by the next Restart.
func (s *Simulation) InitialPointCount() int { return s.initialPoints }

// SetInitialPointCount changes the seed count for the next Restart.
// Negative values are clamped to zero.
func (s *Simulation) SetInitialPointCount(n int) {
	s.initialPoints = max(n, 0)
}

// RevealIntermediate reports whether intermediate growth should be drawn.
func (s *Simulation) RevealIntermediate() bool { return s.growth.RevealIntermediate() }

// SetRevealIntermediate overrides the intermediate rendering flag.
func (s *Simulation) SetRevealIntermediate(v bool) { s.growth.SetRevealIntermediate(v) }

// StoreState captures what the telemetry collector needs at flush time.
func (s *Simulation) StoreState() telemetry.StoreState {
	return telemetry.StoreState{
		Nodes:    s.graph.Nodes(),
		Frontier: s.growth.FrontierLen(),
		Branches: s.graph.Branches(),
		Area:     s.area,
		CellW:    s.cfg.CellWidth,
		CellH:    s.cfg.CellHeight,
	}
}
