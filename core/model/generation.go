package model

import (
	"fmt"
	"time"

	"github.com/kilianp07/microgrid/core/cost"
	"github.com/kilianp07/microgrid/core/telemetry"
)

// GeneratorKind is the closed set of generation variants.
type GeneratorKind string

const (
	GeneratorSolar    GeneratorKind = "solar"
	GeneratorWind     GeneratorKind = "wind"
	GeneratorExternal GeneratorKind = "external"
)

// windRatedSpeedMS is the wind speed delivering rated output on the
// simplified cubic power curve.
const windRatedSpeedMS = 12.0

// ErrNoGenerationCurve is returned when a unit without a configured kind is
// asked to generate.
var ErrNoGenerationCurve = fmt.Errorf("generation unit has no generation curve")

// GenerationUnit produces one output sample per tick from an environmental
// driver value. The driver semantics depend on the kind: a sunlight factor
// in [0,1] for solar, a wind speed in m/s for wind, a requested power in kW
// for external sources.
type GenerationUnit struct {
	ID         string
	Kind       GeneratorKind
	CapacityKW float64
	Location   string

	OutputKW       float64
	GenerationCost float64

	costs   *cost.Model
	simTime time.Time
}

// NewSolarPlant builds a solar generation unit identified by its location.
func NewSolarPlant(location string, capacityKW float64, costs *cost.Model) *GenerationUnit {
	return &GenerationUnit{ID: location, Kind: GeneratorSolar, CapacityKW: capacityKW, Location: location, costs: costs}
}

// NewWindPlant builds a wind generation unit identified by its location.
func NewWindPlant(location string, capacityKW float64, costs *cost.Model) *GenerationUnit {
	return &GenerationUnit{ID: location, Kind: GeneratorWind, CapacityKW: capacityKW, Location: location, costs: costs}
}

// NewExternalSource builds an on-demand external supply unit.
func NewExternalSource(id string, capacityKW float64, costs *cost.Model) *GenerationUnit {
	return &GenerationUnit{ID: id, Kind: GeneratorExternal, CapacityKW: capacityKW, Location: id, costs: costs}
}

// curve maps the driver value to raw output in kW before the capacity clip.
func (g *GenerationUnit) curve(driver float64) (float64, error) {
	switch g.Kind {
	case GeneratorSolar:
		return g.CapacityKW * driver, nil
	case GeneratorWind:
		norm := driver / windRatedSpeedMS
		if norm > 1 {
			norm = 1
		}
		return g.CapacityKW * norm * norm * norm, nil
	case GeneratorExternal:
		return min(driver, g.CapacityKW), nil
	default:
		return 0, ErrNoGenerationCurve
	}
}

// Generate samples one tick of output. The result is clipped to capacity
// and accrues generation cost when positive.
func (g *GenerationUnit) Generate(driver float64, simTime time.Time) (float64, error) {
	raw, err := g.curve(driver)
	if err != nil {
		return 0, err
	}
	g.OutputKW = min(raw, g.CapacityKW)
	g.simTime = simTime

	if g.costs != nil && g.OutputKW > 0 {
		op := cost.OpExternalGrid
		switch g.Kind {
		case GeneratorSolar:
			op = cost.OpSolarGeneration
		case GeneratorWind:
			op = cost.OpWindGeneration
		}
		g.GenerationCost += g.costs.Price(op, g.OutputKW, 0, simTime).TotalCost
	}
	return g.OutputKW, nil
}

// Snapshot returns the publishable state record.
func (g *GenerationUnit) Snapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		DeviceID:      g.ID,
		Class:         telemetry.ClassGeneration,
		SimulatedTime: telemetry.FormatSimTime(g.simTime),
		Fields: map[string]any{
			"current_output":      g.OutputKW,
			"capacity_kw":         g.CapacityKW,
			"location":            g.Location,
			"kind":                string(g.Kind),
			"generation_cost_inr": g.GenerationCost,
		},
	}
}
