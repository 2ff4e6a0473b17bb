package telemetry

import (
	"sync"

	coretelemetry "github.com/kilianp07/microgrid/core/telemetry"
)

// MockSink records snapshots in memory for tests.
type MockSink struct {
	mu    sync.Mutex
	snaps []coretelemetry.Snapshot
	// Err, when set, is returned by every Record call.
	Err error
}

// NewMockSink creates an empty MockSink.
func NewMockSink() *MockSink { return &MockSink{} }

// Record stores the snapshot.
func (m *MockSink) Record(snap coretelemetry.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.snaps = append(m.snaps, snap)
	return nil
}

// Snapshots returns a copy of everything recorded so far.
func (m *MockSink) Snapshots() []coretelemetry.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]coretelemetry.Snapshot(nil), m.snaps...)
}

// ByDevice returns the recorded snapshots for one device.
func (m *MockSink) ByDevice(deviceID string) []coretelemetry.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []coretelemetry.Snapshot
	for _, s := range m.snaps {
		if s.DeviceID == deviceID {
			out = append(out, s)
		}
	}
	return out
}
