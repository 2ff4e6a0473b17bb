package model

import (
	"errors"
	"math"
	"testing"
)

func TestSolarGeneration(t *testing.T) {
	p := NewSolarPlant("SolarSite_1", 300, nil)
	out, err := p.Generate(0.5, simTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != 150 {
		t.Fatalf("expected 150 got %v", out)
	}
}

func TestSolarGenerationClippedToCapacity(t *testing.T) {
	p := NewSolarPlant("SolarSite_1", 300, nil)
	out, err := p.Generate(2.0, simTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != 300 {
		t.Fatalf("expected clip to capacity, got %v", out)
	}
}

func TestWindGenerationCubicCurve(t *testing.T) {
	p := NewWindPlant("WindSite_1", 600, nil)
	tests := []struct {
		speed float64
		want  float64
	}{
		{6, 600 * 0.125}, // (6/12)^3
		{12, 600},        // rated speed
		{20, 600},        // above rated still capped
		{0, 0},
	}
	for _, tt := range tests {
		out, err := p.Generate(tt.speed, simTime)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(out-tt.want) > 1e-9 {
			t.Fatalf("speed %v: expected %v got %v", tt.speed, tt.want, out)
		}
	}
}

func TestExternalSourceServesRequest(t *testing.T) {
	p := NewExternalSource("ExternalGrid", 500, nil)
	out, err := p.Generate(200, simTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != 200 {
		t.Fatalf("expected 200 got %v", out)
	}
	out, _ = p.Generate(900, simTime)
	if out != 500 {
		t.Fatalf("expected capacity cap 500 got %v", out)
	}
}

func TestGenerateWithoutCurveFails(t *testing.T) {
	g := &GenerationUnit{ID: "broken", CapacityKW: 100}
	if _, err := g.Generate(1, simTime); !errors.Is(err, ErrNoGenerationCurve) {
		t.Fatalf("expected ErrNoGenerationCurve got %v", err)
	}
}

func TestGenerationSnapshot(t *testing.T) {
	p := NewWindPlant("WindSite_1", 600, nil)
	if _, err := p.Generate(9, simTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := p.Snapshot()
	if snap.DeviceID != "WindSite_1" || snap.Class != "generation" {
		t.Fatalf("unexpected identity: %+v", snap)
	}
	if snap.Fields["kind"] != "wind" {
		t.Fatalf("missing kind tag: %+v", snap.Fields)
	}
}
