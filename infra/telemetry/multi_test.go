package telemetry

import (
	"errors"
	"testing"

	coretelemetry "github.com/kilianp07/microgrid/core/telemetry"
)

func snap(id string) coretelemetry.Snapshot {
	return coretelemetry.Snapshot{
		DeviceID:      id,
		Class:         coretelemetry.ClassBattery,
		SimulatedTime: "2025-10-04T11:00:00.000Z",
		Fields:        map[string]any{"soc": 50.0},
	}
}

func TestMultiSinkFanOut(t *testing.T) {
	a := NewMockSink()
	b := NewMockSink()
	m := NewMultiSink(a, b)

	if err := m.Record(snap("GridBESS")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(a.Snapshots()) != 1 || len(b.Snapshots()) != 1 {
		t.Fatalf("expected both sinks to receive the snapshot")
	}
}

func TestMultiSinkFirstErrorDoesNotStopFanOut(t *testing.T) {
	failing := NewMockSink()
	failing.Err = errors.New("boom")
	ok := NewMockSink()
	m := NewMultiSink(failing, ok)

	err := m.Record(snap("GridBESS"))
	if err == nil {
		t.Fatalf("expected error from failing sink")
	}
	if len(ok.Snapshots()) != 1 {
		t.Fatalf("healthy sink missed the snapshot after an earlier error")
	}
}

func TestMockSinkByDevice(t *testing.T) {
	m := NewMockSink()
	if err := m.Record(snap("A")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := m.Record(snap("B")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := len(m.ByDevice("A")); got != 1 {
		t.Fatalf("ByDevice(A) = %d, want 1", got)
	}
}
