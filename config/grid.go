package config

import (
	"fmt"

	"github.com/kilianp07/microgrid/core/grid"
	"github.com/kilianp07/microgrid/core/model"
)

// PlantConfig describes one generation plant, its inverter and optional
// co-located storage.
type PlantConfig struct {
	ID                 string               `json:"id"`
	Kind               string               `json:"kind"`
	CapacityKW         float64              `json:"capacity_kw"`
	InverterEfficiency float64              `json:"inverter_efficiency"`
	BESS               *model.BatteryConfig `json:"bess"`
}

// ConditionerConfig describes one substation or transformer stage.
type ConditionerConfig struct {
	ID         string  `json:"id"`
	Efficiency float64 `json:"efficiency"`
}

// GridConfig describes the full grid assembly.
type GridConfig struct {
	Plants       []PlantConfig        `json:"plants"`
	GridBESS     *model.BatteryConfig `json:"grid_bess"`
	Substations  []ConditionerConfig  `json:"substations"`
	Transformers []ConditionerConfig  `json:"transformers"`

	Houses     int `json:"houses"`
	Industries int `json:"industries"`

	Stations          int     `json:"stations"`
	StationPorts      int     `json:"station_ports"`
	StationMaxPowerKW float64 `json:"station_max_power_kw"`

	EVs                 int                 `json:"evs"`
	InitialConnectedEVs int                 `json:"initial_connected_evs"`
	EVBattery           model.BatteryConfig `json:"ev_battery"`
	Fleet               grid.EVFleetConfig  `json:"fleet"`
}

// SetDefaults applies the stock assembly: two solar farms and a wind farm,
// each with co-located storage, one substation and transformer stage and a
// small town of consumers.
func (c *GridConfig) SetDefaults() {
	if len(c.Plants) == 0 {
		plantBESS := func(capacity, power float64) *model.BatteryConfig {
			return &model.BatteryConfig{CapacityKWh: capacity, RatedVoltage: 400, RatedPowerKW: power}
		}
		c.Plants = []PlantConfig{
			{ID: "SolarFarm1", Kind: "solar", CapacityKW: 500, InverterEfficiency: 0.97, BESS: plantBESS(400, 150)},
			{ID: "SolarFarm2", Kind: "solar", CapacityKW: 300, InverterEfficiency: 0.97, BESS: plantBESS(250, 100)},
			{ID: "WindFarm1", Kind: "wind", CapacityKW: 400, InverterEfficiency: 0.96, BESS: plantBESS(300, 120)},
		}
	}
	if c.GridBESS == nil {
		c.GridBESS = &model.BatteryConfig{CapacityKWh: 1000, RatedVoltage: 400, RatedPowerKW: 200}
	}
	if len(c.Substations) == 0 {
		c.Substations = []ConditionerConfig{{ID: "Substation1", Efficiency: 0.99}}
	}
	if len(c.Transformers) == 0 {
		c.Transformers = []ConditionerConfig{{ID: "Transformer1", Efficiency: 0.97}}
	}
	if c.Houses == 0 {
		c.Houses = 20
	}
	if c.Industries == 0 {
		c.Industries = 5
	}
	if c.Stations == 0 {
		c.Stations = 3
	}
	if c.StationPorts == 0 {
		c.StationPorts = 8
	}
	if c.StationMaxPowerKW == 0 {
		c.StationMaxPowerKW = 250
	}
	if c.EVs == 0 {
		c.EVs = 30
	}
	if c.InitialConnectedEVs == 0 {
		c.InitialConnectedEVs = 10
	}
	if c.EVBattery.CapacityKWh == 0 {
		c.EVBattery = model.BatteryConfig{CapacityKWh: 60, RatedVoltage: 400, RatedPowerKW: 50}
	}
	c.Fleet.SetDefaults()
}

// Validate checks the assembly for impossible parameters.
func (c GridConfig) Validate() error {
	for i, p := range c.Plants {
		if p.ID == "" {
			return fmt.Errorf("plants[%d]: id is required", i)
		}
		if p.Kind != "solar" && p.Kind != "wind" {
			return fmt.Errorf("plants[%d]: unknown kind %q", i, p.Kind)
		}
		if p.CapacityKW <= 0 {
			return fmt.Errorf("plants[%d]: capacity_kw must be positive", i)
		}
		if p.InverterEfficiency < 0 || p.InverterEfficiency > 1 {
			return fmt.Errorf("plants[%d]: inverter_efficiency must be within [0, 1]", i)
		}
	}
	for i, s := range c.Substations {
		if s.Efficiency < 0 || s.Efficiency > 1 {
			return fmt.Errorf("substations[%d]: efficiency must be within [0, 1]", i)
		}
	}
	for i, tr := range c.Transformers {
		if tr.Efficiency < 0 || tr.Efficiency > 1 {
			return fmt.Errorf("transformers[%d]: efficiency must be within [0, 1]", i)
		}
	}
	if c.Houses < 0 || c.Industries < 0 || c.Stations < 0 || c.EVs < 0 {
		return fmt.Errorf("population counts must not be negative")
	}
	if c.InitialConnectedEVs > c.EVs {
		return fmt.Errorf("initial_connected_evs (%d) exceeds evs (%d)", c.InitialConnectedEVs, c.EVs)
	}
	return nil
}
