package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseSeed   = "seed"
	PhaseSort   = "sort"
	PhaseScan   = "scan"
	PhaseCommit = "commit"
)

var phaseOrder = [...]string{PhaseSeed, PhaseSort, PhaseScan, PhaseCommit}

const numPhases = len(phaseOrder)

// PhaseOrder returns the phase names in the order a step runs them.
func PhaseOrder() []string { return append([]string(nil), phaseOrder[:]...) }

func phaseIndex(name string) int {
	for i, p := range phaseOrder {
		if p == name {
			return i
		}
	}
	return -1
}

// stepTiming is the timing of one reset or step.
type stepTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector times steps phase by phase and keeps the last windowSize
// samples. It satisfies the growth engine's phase timer.
type PerfCollector struct {
	ring   []stepTiming
	next   int
	filled int

	cur        stepTiming
	stepStart  time.Time
	phaseStart time.Time
	phase      int // index into phaseOrder, -1 when no phase is open
}

// NewPerfCollector creates a collector averaging over windowSize steps.
// Non-positive sizes fall back to 60.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:  make([]stepTiming, windowSize),
		phase: -1,
	}
}

// StartTick begins timing a step.
func (p *PerfCollector) StartTick() {
	p.cur = stepTiming{}
	p.stepStart = time.Now()
	p.phase = -1
}

// StartPhase closes the open phase and opens phase. Unknown names only close.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phaseIndex(phase)
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the step and stores its sample, evicting the oldest once
// the window is full.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1
	p.cur.total = now.Sub(p.stepStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// PerfStats summarises the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of step time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64
}

// Stats averages the samples in the window. Every phase is reported once
// a sample exists, including phases that took no time.
func (p *PerfCollector) Stats() PerfStats {
	st := PerfStats{
		PhaseAvg: make(map[string]time.Duration, numPhases),
		PhasePct: make(map[string]float64, numPhases),
	}
	if p.filled == 0 {
		return st
	}

	var sum stepTiming
	for i, s := range p.ring[:p.filled] {
		sum.total += s.total
		for j, d := range s.phases {
			sum.phases[j] += d
		}
		if i == 0 || s.total < st.MinTickDuration {
			st.MinTickDuration = s.total
		}
		st.MaxTickDuration = max(st.MaxTickDuration, s.total)
	}

	n := time.Duration(p.filled)
	st.AvgTickDuration = sum.total / n
	for j, name := range phaseOrder {
		avg := sum.phases[j] / n
		st.PhaseAvg[name] = avg
		if st.AvgTickDuration > 0 {
			st.PhasePct[name] = float64(avg) / float64(st.AvgTickDuration) * 100
		}
	}
	if st.AvgTickDuration > 0 {
		st.TicksPerSecond = float64(time.Second) / float64(st.AvgTickDuration)
	}
	return st
}

// LogStats logs the window summary.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_step_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_step_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("steps_per_sec", s.TicksPerSecond),
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd   int     `csv:"window_end"`
	AvgStepUS   int64   `csv:"avg_step_us"`
	MinStepUS   int64   `csv:"min_step_us"`
	MaxStepUS   int64   `csv:"max_step_us"`
	StepsPerSec float64 `csv:"steps_per_sec"`
	SeedPct     float64 `csv:"seed_pct"`
	SortPct     float64 `csv:"sort_pct"`
	ScanPct     float64 `csv:"scan_pct"`
	CommitPct   float64 `csv:"commit_pct"`
}

// ToCSV flattens s into a perf.csv row for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgStepUS:   s.AvgTickDuration.Microseconds(),
		MinStepUS:   s.MinTickDuration.Microseconds(),
		MaxStepUS:   s.MaxTickDuration.Microseconds(),
		StepsPerSec: s.TicksPerSecond,
		SeedPct:     s.PhasePct[PhaseSeed],
		SortPct:     s.PhasePct[PhaseSort],
		ScanPct:     s.PhasePct[PhaseScan],
		CommitPct:   s.PhasePct[PhaseCommit],
	}
}
