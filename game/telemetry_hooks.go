package game

import (
	"log/slog"
)

// flushTelemetry writes the stats window when it is due, or unconditionally
// when force is set and the window is not empty.
func (g *Game) flushTelemetry(force bool) {
	tick := g.sim.Tick()
	if !g.collector.ShouldFlush(tick) && !(force && g.collector.HasPending(tick)) {
		return
	}

	stats := g.collector.Flush(tick, g.sim.StoreState())
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// finish runs once per run when growth stops.
func (g *Game) finish() {
	if g.finished {
		return
	}
	g.finished = true
	g.writeFinalOutputs()
}

func (g *Game) writeFinalOutputs() {
	g.flushTelemetry(true)

	if g.outputManager == nil {
		return
	}
	if err := g.outputManager.WriteNodes(g.sim.Nodes()); err != nil {
		slog.Error("failed to write nodes", "error", err)
		return
	}
	slog.Info("nodes written", "dir", g.outputManager.Dir(), "nodes", g.sim.Len(), "seed", g.sim.Seed())
}
