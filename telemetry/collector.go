package telemetry

import (
	"github.com/pthm-cable/hyphae/components"
	"github.com/pthm-cable/hyphae/geom"
)

// Collector accumulates scan events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks     int
	windowStartTick int
	counts          TickCounts
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// Record adds one tick's scan counts to the current window.
func (c *Collector) Record(counts TickCounts) {
	c.counts.Add(counts)
}

// Restart drops the current window and begins a new one at tick.
func (c *Collector) Restart(tick int) {
	c.windowStartTick = tick
	c.counts = TickCounts{}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// HasPending reports whether ticks have passed since the window started.
func (c *Collector) HasPending(currentTick int) bool {
	return currentTick > c.windowStartTick
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int { return c.windowTicks }

// StoreState describes the node store at flush time.
type StoreState struct {
	Nodes    []components.Node
	Frontier int
	Branches int
	Area     geom.Vec2
	CellW    float64
	CellH    float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int, st StoreState) WindowStats {
	var acceptRate float64
	if c.counts.Proposed > 0 {
		acceptRate = float64(c.counts.Accepted) / float64(c.counts.Proposed)
	}

	stats := WindowStats{
		WindowStartTick:   c.windowStartTick,
		WindowEndTick:     currentTick,
		Nodes:             len(st.Nodes),
		Frontier:          st.Frontier,
		Branches:          st.Branches,
		Proposed:          c.counts.Proposed,
		Accepted:          c.counts.Accepted,
		RejectedBounds:    c.counts.RejectedBounds,
		RejectedCollision: c.counts.RejectedCollision,
		Forks:             c.counts.Forks,
		AcceptRate:        acceptRate,
		Shape:             ComputeShape(st.Nodes, st.Area, st.CellW, st.CellH),
	}

	c.Restart(currentTick)
	return stats
}
