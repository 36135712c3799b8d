package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/hyphae/config"
	"github.com/pthm-cable/hyphae/geom"
	"github.com/pthm-cable/hyphae/sim"
	"github.com/pthm-cable/hyphae/telemetry"
)

// FitnessEvaluator runs headless growth and scores how well it covers the
// play area.
type FitnessEvaluator struct {
	params   *ParamVector
	base     config.GrowthConfig
	area     geom.Vec2
	maxTicks int
	seeds    []uint64
	logger   *slog.Logger

	mu        sync.Mutex
	lastShape telemetry.Shape // mean shape from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, base config.GrowthConfig, area geom.Vec2, maxTicks int, seeds []uint64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		base:     base,
		area:     area,
		maxTicks: maxTicks,
		seeds:    seeds,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// LastShape returns the seed-averaged shape of the most recent evaluation.
func (fe *FitnessEvaluator) LastShape() telemetry.Shape {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastShape
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Fitness is -(occupancy + 0.1 * min(fill, 1)), averaged over seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.base
	fe.params.ApplyToConfig(&cfg, x)

	// Run all seeds in parallel
	shapes := make([]telemetry.Shape, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			shapes[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var mean telemetry.Shape
	var total float64
	for _, sh := range shapes {
		total += computeFitness(sh)
		mean.Occupancy += sh.Occupancy
		mean.Fill += sh.Fill
		mean.RadiusMean += sh.RadiusMean
	}
	n := float64(len(shapes))
	mean.Occupancy /= n
	mean.Fill /= n
	mean.RadiusMean /= n

	fe.mu.Lock()
	fe.lastShape = mean
	fe.mu.Unlock()

	return total / n
}

// runSimulation grows one seed to completion or maxTicks and measures it.
// An invalid config scores as an empty canvas.
func (fe *FitnessEvaluator) runSimulation(cfg config.GrowthConfig, seed uint64) telemetry.Shape {
	s, err := sim.New(cfg, sim.WithLogger(fe.logger))
	if err != nil {
		return telemetry.Shape{}
	}
	if err := s.Reset(cfg.InitialPoints, fe.area, seed); err != nil {
		return telemetry.Shape{}
	}
	for s.Tick() < fe.maxTicks && !s.Done() {
		s.Step(fe.area)
	}
	return telemetry.ComputeShape(s.Nodes(), fe.area, cfg.CellWidth, cfg.CellHeight)
}

// computeFitness rewards spread first and density second.
func computeFitness(sh telemetry.Shape) float64 {
	return -(sh.Occupancy + 0.1*math.Min(sh.Fill, 1))
}
