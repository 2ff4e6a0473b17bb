package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/microgrid/core/grid"
	"github.com/kilianp07/microgrid/core/model"
)

// Config defines the Prometheus exposition settings.
type Config struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// SetDefaults applies the stock listen address.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":9091"
	}
}

// PromSink exposes per-tick grid aggregates as Prometheus metrics.
type PromSink struct {
	supply       prometheus.Gauge
	demand       prometheus.Gauge
	net          prometheus.Gauge
	importKW     prometheus.Gauge
	externalCost prometheus.Counter
	plantOutput  *prometheus.GaugeVec
	batterySOC   *prometheus.GaugeVec
}

// NewPromSink registers grid metrics on the default Prometheus registerer.
// The exposition server should be started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		supply: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "microgrid_supply_kw",
			Help: "Aggregate generation delivered to the grid bus after conditioning losses",
		}),
		demand: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "microgrid_demand_kw",
			Help: "Aggregate consumer demand",
		}),
		net: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "microgrid_net_kw",
			Help: "Supply minus demand before storage arbitrage",
		}),
		importKW: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "microgrid_external_import_kw",
			Help: "Power imported from the external grid this tick",
		}),
		externalCost: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "microgrid_external_cost_inr_total",
			Help: "Cumulative external grid import cost",
		}),
		plantOutput: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "microgrid_plant_output_kw",
			Help: "Per-plant supply after conditioning losses",
		}, []string{"plant_id"}),
		batterySOC: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "microgrid_battery_soc_percent",
			Help: "State of charge per storage unit",
		}, []string{"battery_id"}),
	}

	collectors := []prometheus.Collector{
		s.supply, s.demand, s.net, s.importKW, s.externalCost, s.plantOutput, s.batterySOC,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// Observe records one completed tick.
func (s *PromSink) Observe(res grid.TickResult, batteries []*model.Battery) {
	s.supply.Set(res.TotalSupplyKW)
	s.demand.Set(res.TotalDemandKW)
	s.net.Set(res.NetKW)
	s.importKW.Set(res.ExternalImportKW)
	if res.ExternalImportCost > 0 {
		s.externalCost.Add(res.ExternalImportCost)
	}
	for id, kw := range res.SupplyByPlant {
		s.plantOutput.WithLabelValues(id).Set(kw)
	}
	for _, b := range batteries {
		s.batterySOC.WithLabelValues(b.ID).Set(b.SOC)
	}
}
