package cost

import "fmt"

// Tariff holds the static rate table applied to every energy transfer.
// Rates are expressed in INR per kWh (per kWh-hour for storage).
type Tariff struct {
	Currency string `json:"currency"`

	ChargingPerKWh    float64 `json:"charging_per_kwh"`
	DischargingPerKWh float64 `json:"discharging_per_kwh"`
	StoragePerKWhHour float64 `json:"storage_per_kwh_hour"`

	SolarPerKWh        float64 `json:"solar_per_kwh"`
	WindPerKWh         float64 `json:"wind_per_kwh"`
	ExternalGridPerKWh float64 `json:"external_grid_per_kwh"`

	TransmissionPerKWh float64 `json:"transmission_per_kwh"`
	DistributionPerKWh float64 `json:"distribution_per_kwh"`
	SubstationPerKWh   float64 `json:"substation_per_kwh"`

	HousePerKWh      float64 `json:"house_per_kwh"`
	IndustryPerKWh   float64 `json:"industry_per_kwh"`
	EVChargingPerKWh float64 `json:"ev_charging_per_kwh"`

	// Time-of-day window multipliers. Peak covers 18:00-22:00 inclusive,
	// off-peak 22:00-06:00 wrapping midnight; everything else is normal.
	PeakMultiplier    float64 `json:"peak_multiplier"`
	OffPeakMultiplier float64 `json:"off_peak_multiplier"`
	NormalMultiplier  float64 `json:"normal_multiplier"`

	// Seasonal multipliers: summer is April through September.
	SummerMultiplier float64 `json:"summer_multiplier"`
	WinterMultiplier float64 `json:"winter_multiplier"`
}

// DefaultTariff mirrors the stock cost configuration shipped with the
// simulator.
func DefaultTariff() Tariff {
	return Tariff{
		Currency:           "INR",
		ChargingPerKWh:     6.50,
		DischargingPerKWh:  0.50,
		StoragePerKWhHour:  0.10,
		SolarPerKWh:        2.50,
		WindPerKWh:         3.20,
		ExternalGridPerKWh: 8.00,
		TransmissionPerKWh: 0.80,
		DistributionPerKWh: 1.20,
		SubstationPerKWh:   0.30,
		HousePerKWh:        7.50,
		IndustryPerKWh:     6.80,
		EVChargingPerKWh:   8.50,
		PeakMultiplier:     1.5,
		OffPeakMultiplier:  0.7,
		NormalMultiplier:   1.0,
		SummerMultiplier:   1.2,
		WinterMultiplier:   0.9,
	}
}

// SetDefaults fills zero-valued fields from the default tariff.
func (t *Tariff) SetDefaults() {
	def := DefaultTariff()
	if t.Currency == "" {
		t.Currency = def.Currency
	}
	if t.ChargingPerKWh == 0 {
		t.ChargingPerKWh = def.ChargingPerKWh
	}
	if t.DischargingPerKWh == 0 {
		t.DischargingPerKWh = def.DischargingPerKWh
	}
	if t.StoragePerKWhHour == 0 {
		t.StoragePerKWhHour = def.StoragePerKWhHour
	}
	if t.SolarPerKWh == 0 {
		t.SolarPerKWh = def.SolarPerKWh
	}
	if t.WindPerKWh == 0 {
		t.WindPerKWh = def.WindPerKWh
	}
	if t.ExternalGridPerKWh == 0 {
		t.ExternalGridPerKWh = def.ExternalGridPerKWh
	}
	if t.TransmissionPerKWh == 0 {
		t.TransmissionPerKWh = def.TransmissionPerKWh
	}
	if t.DistributionPerKWh == 0 {
		t.DistributionPerKWh = def.DistributionPerKWh
	}
	if t.SubstationPerKWh == 0 {
		t.SubstationPerKWh = def.SubstationPerKWh
	}
	if t.HousePerKWh == 0 {
		t.HousePerKWh = def.HousePerKWh
	}
	if t.IndustryPerKWh == 0 {
		t.IndustryPerKWh = def.IndustryPerKWh
	}
	if t.EVChargingPerKWh == 0 {
		t.EVChargingPerKWh = def.EVChargingPerKWh
	}
	if t.PeakMultiplier == 0 {
		t.PeakMultiplier = def.PeakMultiplier
	}
	if t.OffPeakMultiplier == 0 {
		t.OffPeakMultiplier = def.OffPeakMultiplier
	}
	if t.NormalMultiplier == 0 {
		t.NormalMultiplier = def.NormalMultiplier
	}
	if t.SummerMultiplier == 0 {
		t.SummerMultiplier = def.SummerMultiplier
	}
	if t.WinterMultiplier == 0 {
		t.WinterMultiplier = def.WinterMultiplier
	}
}

// Validate rejects negative rates and multipliers.
func (t Tariff) Validate() error {
	rates := map[string]float64{
		"charging_per_kwh":      t.ChargingPerKWh,
		"discharging_per_kwh":   t.DischargingPerKWh,
		"storage_per_kwh_hour":  t.StoragePerKWhHour,
		"solar_per_kwh":         t.SolarPerKWh,
		"wind_per_kwh":          t.WindPerKWh,
		"external_grid_per_kwh": t.ExternalGridPerKWh,
		"transmission_per_kwh":  t.TransmissionPerKWh,
		"distribution_per_kwh":  t.DistributionPerKWh,
		"substation_per_kwh":    t.SubstationPerKWh,
		"house_per_kwh":         t.HousePerKWh,
		"industry_per_kwh":      t.IndustryPerKWh,
		"ev_charging_per_kwh":   t.EVChargingPerKWh,
		"peak_multiplier":       t.PeakMultiplier,
		"off_peak_multiplier":   t.OffPeakMultiplier,
		"normal_multiplier":     t.NormalMultiplier,
		"summer_multiplier":     t.SummerMultiplier,
		"winter_multiplier":     t.WinterMultiplier,
	}
	for name, v := range rates {
		if v < 0 {
			return fmt.Errorf("tariff %s must not be negative", name)
		}
	}
	return nil
}
