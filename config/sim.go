package config

import (
	"fmt"
	"time"
)

// GridEvent is a scripted topology change applied after the given step
// completes.
type GridEvent struct {
	AtStep int    `json:"at_step"`
	Source string `json:"source"`
	Target string `json:"target"`
	Enable bool   `json:"enable"`
}

// SimConfig drives the simulated clock.
type SimConfig struct {
	// StartTime is the simulated start instant, RFC3339. Empty means the
	// current wall-clock time.
	StartTime string `json:"start_time"`
	// StepMinutes is the simulated duration of one tick.
	StepMinutes int `json:"step_minutes"`
	// Days is the simulated horizon.
	Days int `json:"days"`
	// Scale compresses wall-clock pacing: one tick sleeps
	// step/scale. Zero or negative disables pacing entirely.
	Scale float64 `json:"scale"`
	// PublishEveryTicks throttles telemetry: snapshots go out every Nth
	// tick.
	PublishEveryTicks int `json:"publish_every_ticks"`
	// Seed drives the weather model and the EV fleet process.
	Seed uint64 `json:"seed"`
	// Events are scripted topology changes.
	Events []GridEvent `json:"events"`
}

// SetDefaults applies the stock clock parameters.
func (c *SimConfig) SetDefaults() {
	if c.StepMinutes == 0 {
		c.StepMinutes = 15
	}
	if c.Days == 0 {
		c.Days = 1
	}
	if c.PublishEveryTicks == 0 {
		c.PublishEveryTicks = 1
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
}

// Validate checks mandatory fields.
func (c SimConfig) Validate() error {
	if c.StepMinutes <= 0 {
		return fmt.Errorf("step_minutes must be positive, got %d", c.StepMinutes)
	}
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", c.Days)
	}
	if c.PublishEveryTicks <= 0 {
		return fmt.Errorf("publish_every_ticks must be positive, got %d", c.PublishEveryTicks)
	}
	if c.StartTime != "" {
		if _, err := time.Parse(time.RFC3339, c.StartTime); err != nil {
			return fmt.Errorf("start_time: %w", err)
		}
	}
	for i, e := range c.Events {
		if e.Source == "" || e.Target == "" {
			return fmt.Errorf("events[%d]: source and target are required", i)
		}
		if e.AtStep < 0 {
			return fmt.Errorf("events[%d]: at_step must not be negative", i)
		}
	}
	return nil
}

// Start resolves the simulated start instant.
func (c SimConfig) Start() time.Time {
	if c.StartTime == "" {
		return time.Now().UTC()
	}
	t, _ := time.Parse(time.RFC3339, c.StartTime)
	return t
}

// Step returns the tick duration on the simulated clock.
func (c SimConfig) Step() time.Duration {
	return time.Duration(c.StepMinutes) * time.Minute
}

// StepHours returns the tick duration in hours, the unit the power math
// runs in.
func (c SimConfig) StepHours() float64 {
	return float64(c.StepMinutes) / 60.0
}

// TotalSteps returns the number of ticks in the configured horizon.
func (c SimConfig) TotalSteps() int {
	return c.Days * 24 * 60 / c.StepMinutes
}

// Pacing returns the wall-clock sleep per tick, zero when pacing is
// disabled.
func (c SimConfig) Pacing() time.Duration {
	if c.Scale <= 0 {
		return 0
	}
	return time.Duration(float64(c.Step()) / c.Scale)
}
