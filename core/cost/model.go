package cost

import (
	"math"
	"time"
)

// Operation identifies the class of energy transfer being priced.
type Operation string

const (
	OpBatteryCharging     Operation = "battery_charging"
	OpBatteryDischarging  Operation = "battery_discharging"
	OpBatteryStorage      Operation = "battery_storage"
	OpSolarGeneration     Operation = "solar_generation"
	OpWindGeneration      Operation = "wind_generation"
	OpExternalGrid        Operation = "external_grid_generation"
	OpTransmission        Operation = "grid_transmission"
	OpDistribution        Operation = "grid_distribution"
	OpSubstation          Operation = "grid_substation"
	OpHouseConsumption    Operation = "house_consumption"
	OpIndustryConsumption Operation = "industry_consumption"
	OpEVCharging          Operation = "ev_charging_consumption"
)

// Breakdown details a single priced operation.
type Breakdown struct {
	Operation          Operation `json:"operation"`
	EnergyKWh          float64   `json:"energy_kwh"`
	DurationH          float64   `json:"duration_h,omitempty"`
	BaseRatePerKWh     float64   `json:"base_cost_per_kwh"`
	TimeMultiplier     float64   `json:"time_multiplier"`
	SeasonalMultiplier float64   `json:"seasonal_multiplier"`
	FinalRatePerKWh    float64   `json:"final_cost_per_kwh"`
	TotalCost          float64   `json:"total_cost_inr"`
	Currency           string    `json:"currency"`
}

// Model prices grid operations against a tariff. It is stateless once
// constructed and safe to share between devices.
type Model struct {
	tariff Tariff
}

// NewModel builds a cost model from the given tariff.
func NewModel(t Tariff) *Model {
	return &Model{tariff: t}
}

// Tariff returns the underlying rate table.
func (m *Model) Tariff() Tariff { return m.tariff }

// TimeMultiplier resolves the time-of-day multiplier for t. The peak window
// 18:00-22:00 is checked first and both bounds are inclusive, matching the
// original tariff semantics.
func (m *Model) TimeMultiplier(t time.Time) float64 {
	minute := t.Hour()*60 + t.Minute()
	switch {
	case minute >= 18*60 && minute <= 22*60:
		return m.tariff.PeakMultiplier
	case minute >= 22*60 || minute <= 6*60:
		return m.tariff.OffPeakMultiplier
	default:
		return m.tariff.NormalMultiplier
	}
}

// SeasonalMultiplier resolves the seasonal multiplier for t. April through
// September count as summer.
func (m *Model) SeasonalMultiplier(t time.Time) float64 {
	if t.Month() >= time.April && t.Month() <= time.September {
		return m.tariff.SummerMultiplier
	}
	return m.tariff.WinterMultiplier
}

func (m *Model) baseRate(op Operation) float64 {
	switch op {
	case OpBatteryCharging:
		return m.tariff.ChargingPerKWh
	case OpBatteryDischarging:
		return m.tariff.DischargingPerKWh
	case OpBatteryStorage:
		return m.tariff.StoragePerKWhHour
	case OpSolarGeneration:
		return m.tariff.SolarPerKWh
	case OpWindGeneration:
		return m.tariff.WindPerKWh
	case OpExternalGrid:
		return m.tariff.ExternalGridPerKWh
	case OpTransmission:
		return m.tariff.TransmissionPerKWh
	case OpDistribution:
		return m.tariff.DistributionPerKWh
	case OpSubstation:
		return m.tariff.SubstationPerKWh
	case OpHouseConsumption:
		return m.tariff.HousePerKWh
	case OpIndustryConsumption:
		return m.tariff.IndustryPerKWh
	case OpEVCharging:
		return m.tariff.EVChargingPerKWh
	default:
		return 0
	}
}

// Price computes the cost of transferring energyKWh under the given
// operation class at time t. Storage operations additionally scale by
// durationH (kWh held times hours held).
func (m *Model) Price(op Operation, energyKWh, durationH float64, t time.Time) Breakdown {
	base := m.baseRate(op)
	tm := m.TimeMultiplier(t)
	sm := m.SeasonalMultiplier(t)
	rate := base * tm * sm
	total := energyKWh * rate
	if op == OpBatteryStorage {
		total = energyKWh * durationH * rate
	}
	return Breakdown{
		Operation:          op,
		EnergyKWh:          energyKWh,
		DurationH:          durationH,
		BaseRatePerKWh:     base,
		TimeMultiplier:     tm,
		SeasonalMultiplier: sm,
		FinalRatePerKWh:    rate,
		TotalCost:          round2(total),
		Currency:           m.tariff.Currency,
	}
}

// BatteryCharging prices a charging operation of energyKWh over durationH.
func (m *Model) BatteryCharging(energyKWh, durationH float64, t time.Time) Breakdown {
	return m.Price(OpBatteryCharging, energyKWh, durationH, t)
}

// BatteryDischarging prices a discharging operation.
func (m *Model) BatteryDischarging(energyKWh, durationH float64, t time.Time) Breakdown {
	return m.Price(OpBatteryDischarging, energyKWh, durationH, t)
}

// BatteryStorage prices holding energyKWh for durationH hours.
func (m *Model) BatteryStorage(energyKWh, durationH float64, t time.Time) Breakdown {
	return m.Price(OpBatteryStorage, energyKWh, durationH, t)
}

// ExternalGrid prices an import of energyKWh from the external grid.
func (m *Model) ExternalGrid(energyKWh float64, t time.Time) Breakdown {
	return m.Price(OpExternalGrid, energyKWh, 0, t)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
