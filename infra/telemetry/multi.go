package telemetry

import coretelemetry "github.com/kilianp07/microgrid/core/telemetry"

// MultiSink fans snapshots out to multiple sinks.
type MultiSink struct {
	Sinks []coretelemetry.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coretelemetry.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// Record forwards the snapshot to all sinks, returning the first error
// encountered. Remaining sinks still receive the snapshot.
func (m *MultiSink) Record(snap coretelemetry.Snapshot) error {
	var firstErr error
	for _, s := range m.Sinks {
		if err := s.Record(snap); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes every sink that supports it.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
