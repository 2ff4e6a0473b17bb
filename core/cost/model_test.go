package cost

import (
	"testing"
	"time"
)

func neutralModel() *Model {
	t := DefaultTariff()
	t.SummerMultiplier = 1.0
	t.WinterMultiplier = 1.0
	return NewModel(t)
}

func TestBatteryChargingNeutralHour(t *testing.T) {
	m := neutralModel()
	// 11:00 is neither peak nor off-peak.
	ts := time.Date(2025, time.October, 4, 11, 0, 0, 0, time.UTC)
	b := m.BatteryCharging(10, 1, ts)
	if b.TotalCost != 65.0 {
		t.Fatalf("expected 65.0 got %v", b.TotalCost)
	}
	if b.TimeMultiplier != 1.0 || b.SeasonalMultiplier != 1.0 {
		t.Fatalf("unexpected multipliers: %v %v", b.TimeMultiplier, b.SeasonalMultiplier)
	}
}

func TestTimeMultiplierWindows(t *testing.T) {
	m := NewModel(DefaultTariff())
	tests := []struct {
		name string
		hour int
		min  int
		want float64
	}{
		{"peak start", 18, 0, 1.5},
		{"peak middle", 20, 30, 1.5},
		{"peak end inclusive", 22, 0, 1.5},
		{"off peak night", 23, 15, 0.7},
		{"off peak early morning", 3, 0, 0.7},
		{"off peak end inclusive", 6, 0, 0.7},
		{"normal morning", 9, 0, 1.0},
		{"normal afternoon", 15, 45, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := time.Date(2025, time.January, 10, tt.hour, tt.min, 0, 0, time.UTC)
			if got := m.TimeMultiplier(ts); got != tt.want {
				t.Fatalf("expected %v got %v", tt.want, got)
			}
		})
	}
}

func TestSeasonalMultiplier(t *testing.T) {
	m := NewModel(DefaultTariff())
	summer := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	winter := time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC)
	if got := m.SeasonalMultiplier(summer); got != 1.2 {
		t.Fatalf("expected 1.2 got %v", got)
	}
	if got := m.SeasonalMultiplier(winter); got != 0.9 {
		t.Fatalf("expected 0.9 got %v", got)
	}
}

func TestStorageScalesByDuration(t *testing.T) {
	m := neutralModel()
	ts := time.Date(2025, time.October, 4, 11, 0, 0, 0, time.UTC)
	b := m.BatteryStorage(100, 2, ts)
	// 100 kWh * 2 h * 0.10 INR/kWh-hour
	if b.TotalCost != 20.0 {
		t.Fatalf("expected 20.0 got %v", b.TotalCost)
	}
}

func TestExternalGridPeakSummer(t *testing.T) {
	m := NewModel(DefaultTariff())
	ts := time.Date(2025, time.July, 10, 19, 0, 0, 0, time.UTC)
	b := m.ExternalGrid(50, ts)
	// 50 * 8.0 * 1.5 * 1.2
	if b.TotalCost != 720.0 {
		t.Fatalf("expected 720.0 got %v", b.TotalCost)
	}
}

func TestTariffValidate(t *testing.T) {
	tr := DefaultTariff()
	tr.SolarPerKWh = -1
	if err := tr.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestTariffSetDefaults(t *testing.T) {
	var tr Tariff
	tr.SetDefaults()
	if tr.ChargingPerKWh != 6.50 || tr.Currency != "INR" {
		t.Fatalf("defaults not applied: %+v", tr)
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("default tariff invalid: %v", err)
	}
}
