package grid

import "sync"

// GridNodeID is the identifier of the aggregate grid bus node.
const GridNodeID = "Grid"

// Topology is a directed enable/disable graph over device identifiers. It
// gates whether a device participates in a tick: an absent edge counts as
// disabled and edges are never symmetric. Operators may flip edges from a
// control channel at any tick boundary, so access is guarded.
type Topology struct {
	mu    sync.RWMutex
	edges map[string]map[string]bool
}

// NewTopology builds an empty topology.
func NewTopology() *Topology {
	return &Topology{edges: make(map[string]map[string]bool)}
}

// AddConnection registers a directed edge in the given state.
func (t *Topology) AddConnection(source, target string, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.edges[source] == nil {
		t.edges[source] = make(map[string]bool)
	}
	t.edges[source][target] = enabled
}

// Enable turns an existing edge on. Unknown edges are left untouched.
func (t *Topology) Enable(source, target string) {
	t.setState(source, target, true)
}

// Disable turns an existing edge off. Unknown edges are left untouched.
func (t *Topology) Disable(source, target string) {
	t.setState(source, target, false)
}

func (t *Topology) setState(source, target string, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if targets, ok := t.edges[source]; ok {
		if _, ok := targets[target]; ok {
			targets[target] = enabled
		}
	}
}

// IsConnected reports whether the directed edge exists and is enabled.
func (t *Topology) IsConnected(source, target string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.edges[source][target]
}

// Edge is a directed connection with its current state.
type Edge struct {
	Source  string
	Target  string
	Enabled bool
}

// ActiveConnections returns every enabled edge.
func (t *Topology) ActiveConnections() []Edge {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var active []Edge
	for source, targets := range t.edges {
		for target, enabled := range targets {
			if enabled {
				active = append(active, Edge{Source: source, Target: target, Enabled: true})
			}
		}
	}
	return active
}
