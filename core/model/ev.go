package model

import (
	"time"

	"github.com/kilianp07/microgrid/core/cost"
)

// EVStatus reflects what a vehicle is currently doing at a port.
type EVStatus string

const (
	EVIdle     EVStatus = "idle"
	EVCharging EVStatus = "charging"
)

// EV is a vehicle: a consumer load with an attached battery pack. An EV is
// either available (roaming) or connected to exactly one charging station.
type EV struct {
	ConsumerLoad
	Battery   *Battery
	Connected bool
	Status    EVStatus
}

// NewEV builds a vehicle with its battery.
func NewEV(id string, profile DemandProfile, battery *Battery, efficiency, voltage float64, costs *cost.Model) *EV {
	return &EV{
		ConsumerLoad: newConsumerLoad(id, ConsumerEV, profile, efficiency, voltage, costs),
		Battery:      battery,
		Status:       EVIdle,
	}
}

// Demand returns the vehicle's charging demand.
func (e *EV) Demand(simTime time.Time) float64 {
	return e.baseDemand(simTime)
}

// PlugIn marks the vehicle as connected.
func (e *EV) PlugIn() { e.Connected = true }

// Unplug disconnects the vehicle and resets its status.
func (e *EV) Unplug() {
	e.Connected = false
	e.Status = EVIdle
}

// ChargeBattery charges the attached battery with the vehicle's current
// demand for durationH hours. Disconnected vehicles draw nothing.
func (e *EV) ChargeBattery(simTime time.Time, durationH float64) float64 {
	if !e.Connected {
		return 0
	}
	demand := e.Demand(simTime)
	e.Battery.Charge(demand, durationH, simTime)
	e.Status = EVCharging
	return demand
}

// ChargingStation is a consumer aggregating the demand of its connected
// vehicles, capped at the station's maximum power.
type ChargingStation struct {
	ConsumerLoad
	NumPorts   int
	MaxPowerKW float64

	connected []*EV
}

// NewChargingStation builds a charging station with the given port count
// and power cap.
func NewChargingStation(id string, profile DemandProfile, numPorts int, maxPowerKW, efficiency, voltage float64, costs *cost.Model) *ChargingStation {
	return &ChargingStation{
		ConsumerLoad: newConsumerLoad(id, ConsumerStation, profile, efficiency, voltage, costs),
		NumPorts:     numPorts,
		MaxPowerKW:   maxPowerKW,
	}
}

// ConnectEV attaches a vehicle if a port is free. It reports whether the
// vehicle was accepted.
func (s *ChargingStation) ConnectEV(ev *EV) bool {
	if len(s.connected) >= s.NumPorts {
		return false
	}
	s.connected = append(s.connected, ev)
	return true
}

// DisconnectEV removes a vehicle from the station. It reports whether the
// vehicle was present.
func (s *ChargingStation) DisconnectEV(ev *EV) bool {
	for i, c := range s.connected {
		if c == ev {
			s.connected = append(s.connected[:i], s.connected[i+1:]...)
			return true
		}
	}
	return false
}

// ConnectedEVs returns the vehicles currently occupying ports.
func (s *ChargingStation) ConnectedEVs() []*EV { return s.connected }

// Demand returns the station draw: base profile plus every connected
// vehicle's demand, capped at the station maximum.
func (s *ChargingStation) Demand(simTime time.Time) float64 {
	total := s.baseDemand(simTime)
	for _, ev := range s.connected {
		total += ev.Demand(simTime)
	}
	total = min(total, s.MaxPowerKW)
	s.PowerKW = total
	return total
}
