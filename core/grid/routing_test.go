package grid

import (
	"math"
	"testing"
)

func TestDefaultRoutingSumsToOnePerSource(t *testing.T) {
	p := NewRoutingPolicy()
	for _, source := range []string{"solar", "wind", "bess"} {
		sum := p.Fraction(source+"_to_houses") +
			p.Fraction(source+"_to_industries") +
			p.Fraction(source+"_to_stations")
		if math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("%s fractions sum to %v, want 1.0", source, sum)
		}
	}
}

func TestRoutingUpdateMergesByKey(t *testing.T) {
	p := NewRoutingPolicy()
	p.Update(map[string]float64{"solar_to_houses": 0.5})

	if got := p.Fraction("solar_to_houses"); got != 0.5 {
		t.Fatalf("solar_to_houses = %v, want 0.5", got)
	}
	// Untouched keys keep their prior values.
	if got := p.Fraction("solar_to_industries"); got != 0.33 {
		t.Fatalf("solar_to_industries = %v, want 0.33", got)
	}
	if got := p.Fraction("wind_to_stations"); got != 0.34 {
		t.Fatalf("wind_to_stations = %v, want 0.34", got)
	}
}

func TestRoutingUnknownKeyIsZero(t *testing.T) {
	p := NewRoutingPolicy()
	if got := p.Fraction("coal_to_houses"); got != 0 {
		t.Fatalf("unknown key = %v, want 0", got)
	}
}

func TestRoutingReturnsCopy(t *testing.T) {
	p := NewRoutingPolicy()
	snapshot := p.Routing()
	snapshot["solar_to_houses"] = 0.99

	if got := p.Fraction("solar_to_houses"); got != 0.33 {
		t.Fatalf("mutating the copy changed the policy: %v", got)
	}
}
