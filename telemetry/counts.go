// Package telemetry collects growth statistics and timing and writes them out.
package telemetry

// TickCounts tallies what the growth scan did during one tick.
type TickCounts struct {
	Proposed          int // children proposed (one per visited node)
	Accepted          int // children staged
	RejectedBounds    int // candidates outside the play area
	RejectedCollision int // candidates overlapping another branch
	Forks             int // fork siblings staged
}

// Add accumulates o into c.
func (c *TickCounts) Add(o TickCounts) {
	c.Proposed += o.Proposed
	c.Accepted += o.Accepted
	c.RejectedBounds += o.RejectedBounds
	c.RejectedCollision += o.RejectedCollision
	c.Forks += o.Forks
}
