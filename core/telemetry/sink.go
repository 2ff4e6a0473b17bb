package telemetry

import "time"

// Class identifies the device family a snapshot belongs to. External
// aggregators filter by this tag (or by the device_id prefix conventions)
// when building per-class views.
type Class string

const (
	ClassBattery    Class = "batteries"
	ClassGeneration Class = "generation"
	ClassConsumer   Class = "consumers"
	ClassGrid       Class = "grid"
)

// Snapshot is one JSON-serializable state record for a single device at a
// simulated instant. Fields holds the device-specific payload; DeviceID and
// SimulatedTime are always present.
type Snapshot struct {
	DeviceID      string
	Class         Class
	SimulatedTime string
	Fields        map[string]any
}

// FormatSimTime renders a simulated timestamp as RFC3339 with millisecond
// precision and a Z suffix, the format persisted downstream.
func FormatSimTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Record builds the flat map that is actually serialized: the device
// identity and timestamp merged with the payload fields.
func (s Snapshot) Record() map[string]any {
	rec := make(map[string]any, len(s.Fields)+2)
	for k, v := range s.Fields {
		rec[k] = v
	}
	rec["device_id"] = s.DeviceID
	rec["simulated_time"] = s.SimulatedTime
	return rec
}

// Sink consumes device snapshots after a completed tick. Implementations
// own transport and persistence; the core only guarantees the snapshot is
// complete and stable.
type Sink interface {
	Record(snap Snapshot) error
}

// NopSink discards all snapshots.
type NopSink struct{}

func (NopSink) Record(Snapshot) error { return nil }
