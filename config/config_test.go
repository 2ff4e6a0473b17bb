package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `mqtt:
  broker: "tcp://localhost:1883"
  client_id: "sim"
  username: "user"
  password: "pass"
  qos: 1
influx:
  enabled: true
  url: "http://localhost:8086"
  org: "grid"
  bucket: "telemetry"
metrics:
  enabled: true
  addr: ":9091"
sim:
  start_time: "2025-10-04T00:00:00Z"
  step_minutes: 15
  days: 2
  scale: 60
  publish_every_ticks: 4
  events:
    - at_step: 10
      source: "SolarFarm1"
      target: "Grid"
      enable: false
grid:
  houses: 10
  industries: 2
  plants:
    - id: "SolarFarm1"
      kind: "solar"
      capacity_kw: 500
      inverter_efficiency: 0.97
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "sim"},
		{"qos", cfg.MQTT.QoS, byte(1)},
		{"routing_topic_default", cfg.MQTT.RoutingTopic, "microgrid/control/routing"},
		{"influx.url", cfg.Influx.URL, "http://localhost:8086"},
		{"metrics.addr", cfg.Metrics.Addr, ":9091"},
		{"sim.step_minutes", cfg.Sim.StepMinutes, 15},
		{"sim.days", cfg.Sim.Days, 2},
		{"sim.publish_every_ticks", cfg.Sim.PublishEveryTicks, 4},
		{"sim.events", len(cfg.Sim.Events), 1},
		{"grid.houses", cfg.Grid.Houses, 10},
		{"grid.plants", len(cfg.Grid.Plants), 1},
		{"grid.stations_default", cfg.Grid.Stations, 3},
		{"tariff_default", cfg.Tariff.ExternalGridPerKWh, 8.0},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoadRejectsInvalidSim(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `sim:
  step_minutes: -5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for negative step_minutes")
	}
}

func TestDefaultAssembly(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(cfg.Grid.Plants) != 3 {
		t.Fatalf("default plants = %d, want 3", len(cfg.Grid.Plants))
	}
	if cfg.Grid.GridBESS == nil || cfg.Grid.GridBESS.CapacityKWh != 1000 {
		t.Fatalf("default grid BESS missing or wrong: %+v", cfg.Grid.GridBESS)
	}
	if cfg.Grid.EVs != 30 || cfg.Grid.InitialConnectedEVs != 10 {
		t.Fatalf("default fleet = %d/%d, want 30/10", cfg.Grid.EVs, cfg.Grid.InitialConnectedEVs)
	}
	if cfg.Sim.TotalSteps() != 96 {
		t.Fatalf("default steps = %d, want 96", cfg.Sim.TotalSteps())
	}
}
