package telemetry

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coretelemetry "github.com/kilianp07/microgrid/core/telemetry"
	"github.com/kilianp07/microgrid/infra/logger"
)

// InfluxConfig defines the InfluxDB v2 endpoint.
type InfluxConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Token   string `json:"token"`
	Org     string `json:"org"`
	Bucket  string `json:"bucket"`
}

// InfluxSink persists device snapshots to an InfluxDB instance using the
// official client. One point per snapshot, measured by device class.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx_sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing database never stalls
// the simulation.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coretelemetry.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coretelemetry.NopSink{}
	}
	return sink
}

// Record writes one snapshot as a point tagged by device identity.
func (s *InfluxSink) Record(snap coretelemetry.Snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ts := time.Now()
	if parsed, err := time.Parse("2006-01-02T15:04:05.000Z", snap.SimulatedTime); err == nil {
		ts = parsed
	}
	p := write.NewPointWithMeasurement(string(snap.Class)).
		AddTag("device_id", snap.DeviceID).
		SetTime(ts)
	for k, v := range snap.Fields {
		p.AddField(k, v)
	}
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
