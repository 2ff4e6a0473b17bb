package grid

import "sync"

// RoutingPolicy holds the fractional split of aggregate supply across
// consumer classes. The split is informational: it feeds the power-flow
// snapshot for observability and never feeds back into the physical
// balance. An external policy engine may push partial updates at any time.
type RoutingPolicy struct {
	mu        sync.RWMutex
	fractions map[string]float64
}

// DefaultRouting mirrors the stock even split across consumer classes.
func DefaultRouting() map[string]float64 {
	return map[string]float64{
		"solar_to_houses":     0.33,
		"solar_to_industries": 0.33,
		"solar_to_stations":   0.34,
		"wind_to_houses":      0.33,
		"wind_to_industries":  0.33,
		"wind_to_stations":    0.34,
		"bess_to_houses":      0.33,
		"bess_to_industries":  0.33,
		"bess_to_stations":    0.34,
	}
}

// NewRoutingPolicy builds a policy with the default split.
func NewRoutingPolicy() *RoutingPolicy {
	return &RoutingPolicy{fractions: DefaultRouting()}
}

// Update merges the given fractions by key. Keys not present in the update
// keep their current value, so partial updates never reset the table.
func (p *RoutingPolicy) Update(fractions map[string]float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, v := range fractions {
		p.fractions[k] = v
	}
}

// Routing returns a copy of the current split.
func (p *RoutingPolicy) Routing() map[string]float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]float64, len(p.fractions))
	for k, v := range p.fractions {
		out[k] = v
	}
	return out
}

// Fraction returns the split for a single key, zero when unknown.
func (p *RoutingPolicy) Fraction(key string) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fractions[key]
}
