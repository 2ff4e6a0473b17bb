package model

import (
	"testing"
)

func f(v float64) *float64 { return &v }

func TestConditionerRejectsInvalidEfficiency(t *testing.T) {
	for _, eff := range []float64{1.5, -0.1} {
		if _, err := NewInverter("inv", eff, "plant", "grid", nil); err == nil {
			t.Fatalf("expected error for efficiency %v", eff)
		}
	}
}

func TestConditionerTransfer(t *testing.T) {
	inv, err := NewInverter("inv", 0.95, "plant", "grid", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := inv.TransferPower(f(100), simTime)
	if out == nil || *out != 95.0 {
		t.Fatalf("expected 95.0 got %v", out)
	}
	if inv.PowerIn == nil || *inv.PowerIn != 100 {
		t.Fatalf("expected power_in 100 got %v", inv.PowerIn)
	}
}

func TestConditionerNoData(t *testing.T) {
	inv, err := NewInverter("inv", 0.95, "plant", "grid", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out := inv.TransferPower(nil, simTime); out != nil {
		t.Fatalf("expected nil output got %v", *out)
	}
	if inv.PowerIn != nil || inv.PowerOut != nil {
		t.Fatalf("expected no-data sentinel on both sides")
	}
	snap := inv.Snapshot()
	if snap.Fields["status"] != "No data" {
		t.Fatalf("expected No data snapshot, got %+v", snap.Fields)
	}
}

func TestConditionerNegativeInputIsNoData(t *testing.T) {
	sub, err := NewSubstation("sub", 0.99, "generation", "distribution", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Establish data first, then observe the sentinel reset.
	sub.TransferPower(f(10), simTime)
	if out := sub.TransferPower(f(-5), simTime); out != nil {
		t.Fatalf("expected nil output for negative input")
	}
	if sub.PowerIn != nil || sub.PowerOut != nil {
		t.Fatalf("negative input must clear both sides")
	}
}

func TestConditionerBoundaryEfficiencies(t *testing.T) {
	for _, eff := range []float64{0, 1} {
		if _, err := NewTransformer("tr", eff, "hv", "lv", nil); err != nil {
			t.Fatalf("efficiency %v should be accepted: %v", eff, err)
		}
	}
}
