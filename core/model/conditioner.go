package model

import (
	"fmt"
	"time"

	"github.com/kilianp07/microgrid/core/cost"
	"github.com/kilianp07/microgrid/core/telemetry"
)

// ConditionerKind is the closed set of grid-conditioning equipment.
type ConditionerKind string

const (
	ConditionerInverter    ConditionerKind = "inverter"
	ConditionerTransformer ConditionerKind = "transformer"
	ConditionerSubstation  ConditionerKind = "substation"
)

// GridConditioner models lossy power-conditioning equipment. PowerIn and
// PowerOut are nil when the device has received no data (as opposed to a
// measured zero).
type GridConditioner struct {
	ID           string
	Kind         ConditionerKind
	Efficiency   float64
	InputSource  string
	OutputSource string

	PowerIn  *float64
	PowerOut *float64

	TransferCost float64

	costs   *cost.Model
	simTime time.Time
}

// NewGridConditioner validates the efficiency and builds the device. An
// efficiency outside [0,1] is a configuration error and the only error the
// conditioner ever reports.
func NewGridConditioner(id string, kind ConditionerKind, efficiency float64, inputSource, outputSource string, costs *cost.Model) (*GridConditioner, error) {
	if efficiency < 0 || efficiency > 1 {
		return nil, fmt.Errorf("conditioner %s: efficiency must be between 0 and 1, got %v", id, efficiency)
	}
	return &GridConditioner{
		ID:           id,
		Kind:         kind,
		Efficiency:   efficiency,
		InputSource:  inputSource,
		OutputSource: outputSource,
		costs:        costs,
	}, nil
}

// NewInverter builds a DC-AC inverter.
func NewInverter(id string, efficiency float64, inputSource, outputSource string, costs *cost.Model) (*GridConditioner, error) {
	return NewGridConditioner(id, ConditionerInverter, efficiency, inputSource, outputSource, costs)
}

// NewTransformer builds a voltage transformer.
func NewTransformer(id string, efficiency float64, inputSource, outputSource string, costs *cost.Model) (*GridConditioner, error) {
	return NewGridConditioner(id, ConditionerTransformer, efficiency, inputSource, outputSource, costs)
}

// NewSubstation builds a substation.
func NewSubstation(id string, efficiency float64, inputSource, outputSource string, costs *cost.Model) (*GridConditioner, error) {
	return NewGridConditioner(id, ConditionerSubstation, efficiency, inputSource, outputSource, costs)
}

// TransferPower applies the efficiency loss to the input. A nil or negative
// input marks both sides as "no data" and bills nothing. Cost is charged on
// the input energy, before losses.
func (c *GridConditioner) TransferPower(inputKW *float64, simTime time.Time) *float64 {
	if inputKW == nil || *inputKW < 0 {
		c.PowerIn = nil
		c.PowerOut = nil
		c.simTime = simTime
		return nil
	}
	in := *inputKW
	out := in * c.Efficiency
	c.PowerIn = &in
	c.PowerOut = &out
	c.simTime = simTime

	if c.costs != nil {
		c.TransferCost += c.costs.Price(c.costOp(), in, 0, simTime).TotalCost
	}
	return c.PowerOut
}

func (c *GridConditioner) costOp() cost.Operation {
	switch c.Kind {
	case ConditionerTransformer:
		return cost.OpTransmission
	case ConditionerSubstation:
		return cost.OpSubstation
	default:
		return cost.OpDistribution
	}
}

// Snapshot returns the publishable state record. When the device has no
// data the record carries only its identity and a status marker.
func (c *GridConditioner) Snapshot() telemetry.Snapshot {
	if c.PowerIn == nil && c.PowerOut == nil {
		return telemetry.Snapshot{
			DeviceID:      c.ID,
			Class:         telemetry.ClassGrid,
			SimulatedTime: telemetry.FormatSimTime(c.simTime),
			Fields:        map[string]any{"status": "No data"},
		}
	}
	return telemetry.Snapshot{
		DeviceID:      c.ID,
		Class:         telemetry.ClassGrid,
		SimulatedTime: telemetry.FormatSimTime(c.simTime),
		Fields: map[string]any{
			"kind":              string(c.Kind),
			"efficiency":        c.Efficiency,
			"input_source_id":   c.InputSource,
			"output_source_id":  c.OutputSource,
			"power_in":          *c.PowerIn,
			"power_out":         *c.PowerOut,
			"transfer_cost_inr": c.TransferCost,
		},
	}
}
