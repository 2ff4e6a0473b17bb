package model

import (
	"time"

	"github.com/kilianp07/microgrid/core/cost"
	"github.com/kilianp07/microgrid/core/telemetry"
)

// ConsumerKind is the closed set of consumer variants.
type ConsumerKind string

const (
	ConsumerHouse    ConsumerKind = "house"
	ConsumerIndustry ConsumerKind = "industry"
	ConsumerStation  ConsumerKind = "station"
	ConsumerEV       ConsumerKind = "ev"
)

// ConsumerLoad is the shared core of every consumer variant. Variants embed
// it and add their own fixed loads on top of the configured profile.
type ConsumerLoad struct {
	ID         string
	Kind       ConsumerKind
	Profile    DemandProfile
	Efficiency float64
	Voltage    float64

	PowerKW         float64
	CurrentA        float64
	ConsumptionCost float64

	costs   *cost.Model
	simTime time.Time
}

func newConsumerLoad(id string, kind ConsumerKind, profile DemandProfile, efficiency, voltage float64, costs *cost.Model) ConsumerLoad {
	return ConsumerLoad{
		ID:         id,
		Kind:       kind,
		Profile:    profile,
		Efficiency: efficiency,
		Voltage:    voltage,
		costs:      costs,
	}
}

// baseDemand evaluates the profile net of efficiency and updates the
// electrical state. Degenerate efficiencies (<=0) leave the raw demand
// untouched rather than dividing by zero.
func (c *ConsumerLoad) baseDemand(simTime time.Time) float64 {
	raw := c.Profile.Demand(simTime)
	net := raw
	if c.Efficiency > 0 {
		net = raw / c.Efficiency
	}
	c.PowerKW = net
	c.CurrentA = net * 1000 / c.Voltage
	c.simTime = simTime

	if c.costs != nil {
		c.ConsumptionCost += c.costs.Price(c.costOp(), net, 0, simTime).TotalCost
	}
	return net
}

func (c *ConsumerLoad) costOp() cost.Operation {
	switch c.Kind {
	case ConsumerHouse:
		return cost.OpHouseConsumption
	case ConsumerIndustry:
		return cost.OpIndustryConsumption
	default:
		return cost.OpEVCharging
	}
}

// Snapshot returns the publishable state record shared by all variants.
func (c *ConsumerLoad) Snapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		DeviceID:      c.ID,
		Class:         telemetry.ClassConsumer,
		SimulatedTime: telemetry.FormatSimTime(c.simTime),
		Fields: map[string]any{
			"kind":                 string(c.Kind),
			"power":                c.PowerKW,
			"current":              c.CurrentA,
			"voltage":              c.Voltage,
			"consumption_cost_inr": c.ConsumptionCost,
		},
	}
}

// House adds a constant appliance load on top of the base profile.
type House struct {
	ConsumerLoad
	Occupants    int
	AppliancesKW map[string]float64
}

// NewHouse builds a residential load.
func NewHouse(id string, profile DemandProfile, occupants int, appliancesKW map[string]float64, efficiency, voltage float64, costs *cost.Model) *House {
	return &House{
		ConsumerLoad: newConsumerLoad(id, ConsumerHouse, profile, efficiency, voltage, costs),
		Occupants:    occupants,
		AppliancesKW: appliancesKW,
	}
}

// Demand returns the current draw: profile demand plus the sum of rated
// appliance loads.
func (h *House) Demand(simTime time.Time) float64 {
	total := h.baseDemand(simTime) + sumValues(h.AppliancesKW)
	h.PowerKW = total
	return total
}

// Shift is a working interval as [start, end) hours of day.
type Shift struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// Industry gates its machinery load on the configured shift intervals.
type Industry struct {
	ConsumerLoad
	IndustryType string
	Shifts       []Shift
	MachineryKW  map[string]float64
}

// NewIndustry builds an industrial load.
func NewIndustry(id, industryType string, profile DemandProfile, shifts []Shift, machineryKW map[string]float64, efficiency, voltage float64, costs *cost.Model) *Industry {
	return &Industry{
		ConsumerLoad: newConsumerLoad(id, ConsumerIndustry, profile, efficiency, voltage, costs),
		IndustryType: industryType,
		Shifts:       shifts,
		MachineryKW:  machineryKW,
	}
}

// Demand returns the profile demand plus machinery load while a shift is
// active.
func (i *Industry) Demand(simTime time.Time) float64 {
	total := i.baseDemand(simTime)
	hour := simTime.Hour()
	for _, s := range i.Shifts {
		if hour >= s.StartHour && hour < s.EndHour {
			total += sumValues(i.MachineryKW)
			break
		}
	}
	i.PowerKW = total
	return total
}

func sumValues(m map[string]float64) float64 {
	var sum float64
	for _, v := range m {
		sum += v
	}
	return sum
}
