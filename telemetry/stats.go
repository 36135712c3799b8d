package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/hyphae/components"
	"github.com/pthm-cable/hyphae/geom"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int `csv:"-"`
	WindowEndTick   int `csv:"window_end"`

	// Store state at window end
	Nodes    int `csv:"nodes"`
	Frontier int `csv:"frontier"`
	Branches int `csv:"branches"`

	// Scan events during window
	Proposed          int     `csv:"proposed"`
	Accepted          int     `csv:"accepted"`
	RejectedBounds    int     `csv:"rejected_bounds"`
	RejectedCollision int     `csv:"rejected_collision"`
	Forks             int     `csv:"forks"`
	AcceptRate        float64 `csv:"accept_rate"`

	Shape
}

// Shape summarises the geometry of a node set.
type Shape struct {
	RadiusMean float64 `csv:"radius_mean"`
	RadiusP10  float64 `csv:"radius_p10"`
	RadiusP50  float64 `csv:"radius_p50"`
	RadiusP90  float64 `csv:"radius_p90"`

	// Fill is the summed disc area over the play area. Same-branch overlap
	// is counted twice, so it can exceed 1.
	Fill float64 `csv:"fill"`

	// Occupancy is the fraction of grid cells inside the play area that hold
	// at least one node.
	Occupancy float64 `csv:"occupancy"`
}

// ComputeShape measures nodes against a play area divided into cells of
// cellW x cellH.
func ComputeShape(nodes []components.Node, area geom.Vec2, cellW, cellH float64) Shape {
	if len(nodes) == 0 {
		return Shape{}
	}

	radii := make([]float64, len(nodes))
	occupied := make(map[components.Cell]struct{})
	var discArea float64
	for i := range nodes {
		r := nodes[i].Circle.Radius
		radii[i] = r
		discArea += math.Pi * r * r
		occupied[nodes[i].Cell] = struct{}{}
	}
	sort.Float64s(radii)

	s := Shape{
		RadiusMean: stat.Mean(radii, nil),
		RadiusP10:  stat.Quantile(0.10, stat.Empirical, radii, nil),
		RadiusP50:  stat.Quantile(0.50, stat.Empirical, radii, nil),
		RadiusP90:  stat.Quantile(0.90, stat.Empirical, radii, nil),
	}

	if playArea := area.X * area.Y; playArea > 0 {
		s.Fill = discArea / playArea
	}
	if cellW > 0 && cellH > 0 {
		cells := math.Ceil(area.X/cellW) * math.Ceil(area.Y/cellH)
		if cells > 0 {
			s.Occupancy = math.Min(1, float64(len(occupied))/cells)
		}
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Int("nodes", s.Nodes),
		slog.Int("frontier", s.Frontier),
		slog.Int("branches", s.Branches),
		slog.Int("proposed", s.Proposed),
		slog.Int("accepted", s.Accepted),
		slog.Int("rejected_bounds", s.RejectedBounds),
		slog.Int("rejected_collision", s.RejectedCollision),
		slog.Int("forks", s.Forks),
		slog.Float64("accept_rate", s.AcceptRate),
		slog.Float64("radius_mean", s.RadiusMean),
		slog.Float64("radius_p50", s.RadiusP50),
		slog.Float64("fill", s.Fill),
		slog.Float64("occupancy", s.Occupancy),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
