package app

import (
	"context"
	"testing"

	"github.com/kilianp07/microgrid/config"
	"github.com/kilianp07/microgrid/core/grid"
)

func offlineConfig() *config.Config {
	cfg := config.Default()
	cfg.Sim.StartTime = "2025-10-04T06:00:00Z"
	cfg.Sim.Scale = 0 // no wall-clock pacing
	return cfg
}

func TestServiceRunsOffline(t *testing.T) {
	svc, err := New(offlineConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}()

	res, err := svc.RunSteps(context.Background(), 8)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.TotalDemandKW <= 0 {
		t.Fatalf("demand = %v, want positive with the default town", res.TotalDemandKW)
	}
	if res.DurationH != 0.25 {
		t.Fatalf("tick duration = %v h, want 0.25", res.DurationH)
	}
}

func TestServiceAppliesScriptedEvents(t *testing.T) {
	cfg := offlineConfig()
	cfg.Sim.Events = []config.GridEvent{
		{AtStep: 1, Source: "SolarFarm1", Target: grid.GridNodeID, Enable: false},
	}
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	if _, err := svc.RunSteps(context.Background(), 2); err != nil {
		t.Fatalf("run: %v", err)
	}
	if svc.Orchestrator().Topology().IsConnected("SolarFarm1", grid.GridNodeID) {
		t.Fatalf("scripted event did not disable the plant edge")
	}
}

func TestServiceHonorsContextCancellation(t *testing.T) {
	svc, err := New(offlineConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.RunSteps(ctx, 1000); err != nil {
		t.Fatalf("cancelled run returned error: %v", err)
	}
}

func TestServiceRejectsUnknownPlantKind(t *testing.T) {
	cfg := offlineConfig()
	cfg.Grid.Plants[0].Kind = "coal"
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error for unknown plant kind")
	}
}
