package systems

import "github.com/pthm-cable/hyphae/components"

// Graph is the append-only, capacity-bounded node store together with the
// id and branch counters. It is shrunk only by Reset.
type Graph struct {
	nodes    []components.Node
	maxNodes int

	nextBranch int
	nextID     int
}

// NewGraph creates an empty store holding at most maxNodes nodes.
func NewGraph(maxNodes int) *Graph {
	g := &Graph{maxNodes: maxNodes}
	g.Reset()
	return g
}

// Reset drops all nodes and restarts the counters.
func (g *Graph) Reset() {
	g.nodes = g.nodes[:0]
	g.nextBranch = 1
	g.nextID = 0
}

// Len returns the number of stored nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// MaxNodes returns the store capacity.
func (g *Graph) MaxNodes() int { return g.maxNodes }

// Room returns how many more nodes fit.
func (g *Graph) Room() int { return g.maxNodes - len(g.nodes) }

// At returns a pointer to node i. The pointer is invalidated by Append.
func (g *Graph) At(i int) *components.Node { return &g.nodes[i] }

// Nodes exposes the stored nodes in creation order. Callers must not modify
// or retain the slice across a step.
func (g *Graph) Nodes() []components.Node { return g.nodes }

// Append stores n and returns its index. It reports false, storing nothing,
// when the store is full.
func (g *Graph) Append(n components.Node) (int, bool) {
	if len(g.nodes) >= g.maxNodes {
		return -1, false
	}
	g.nodes = append(g.nodes, n)
	return len(g.nodes) - 1, true
}

// NewBranch allocates the next branch id.
func (g *Graph) NewBranch() int {
	b := g.nextBranch
	g.nextBranch++
	return b
}

// NewID allocates the next node id.
func (g *Graph) NewID() int {
	id := g.nextID
	g.nextID++
	return id
}

// Branches returns how many branch ids have been handed out.
func (g *Graph) Branches() int { return g.nextBranch - 1 }
