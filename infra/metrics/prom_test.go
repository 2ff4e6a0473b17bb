package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/microgrid/core/grid"
	"github.com/kilianp07/microgrid/core/model"
)

func TestPromSinkObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	b := model.NewBattery("GridBESS", model.BatteryConfig{
		CapacityKWh: 100, RatedVoltage: 400, RatedPowerKW: 50,
	}, nil)
	res := grid.TickResult{
		Time:               time.Date(2025, time.October, 4, 12, 0, 0, 0, time.UTC),
		TotalSupplyKW:      120,
		TotalDemandKW:      80,
		NetKW:              40,
		ExternalImportKW:   0,
		ExternalImportCost: 0,
		SupplyByPlant:      map[string]float64{"SolarFarm": 120},
	}
	sink.Observe(res, []*model.Battery{b})

	if got := testutil.ToFloat64(sink.supply); got != 120 {
		t.Fatalf("supply gauge = %v, want 120", got)
	}
	if got := testutil.ToFloat64(sink.demand); got != 80 {
		t.Fatalf("demand gauge = %v, want 80", got)
	}
	if got := testutil.ToFloat64(sink.batterySOC.WithLabelValues("GridBESS")); got != 100 {
		t.Fatalf("soc gauge = %v, want 100", got)
	}
}

func TestPromSinkAccumulatesExternalCost(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	res := grid.TickResult{ExternalImportKW: 50, ExternalImportCost: 360}
	sink.Observe(res, nil)
	sink.Observe(res, nil)

	if got := testutil.ToFloat64(sink.externalCost); got != 720 {
		t.Fatalf("external cost counter = %v, want 720", got)
	}
}
