package grid

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/microgrid/core/model"
)

// EVFleetConfig parameterizes the stochastic arrival/departure process.
type EVFleetConfig struct {
	// ArrivalProb is the per-tick plug-in probability outside the evening
	// rush; ArrivalProbPeak applies between 17:00 and 23:00.
	ArrivalProb     float64 `json:"arrival_prob"`
	ArrivalProbPeak float64 `json:"arrival_prob_peak"`
	// DepartureProb is the per-tick unplug probability outside the morning
	// rush; DepartureProbPeak applies between 06:00 and 10:00.
	DepartureProb     float64 `json:"departure_prob"`
	DepartureProbPeak float64 `json:"departure_prob_peak"`
	Seed              uint64  `json:"seed"`
}

// SetDefaults applies the stock probabilities.
func (c *EVFleetConfig) SetDefaults() {
	if c.ArrivalProb == 0 {
		c.ArrivalProb = 0.1
	}
	if c.ArrivalProbPeak == 0 {
		c.ArrivalProbPeak = 0.3
	}
	if c.DepartureProb == 0 {
		c.DepartureProb = 0.05
	}
	if c.DepartureProbPeak == 0 {
		c.DepartureProbPeak = 0.2
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
}

// EVFleet moves vehicles between the available pool and charging-station
// ports. Every vehicle is in exactly one of the two sets at any time; each
// move is atomic per vehicle.
type EVFleet struct {
	cfg      EVFleetConfig
	stations []*model.ChargingStation

	available []*model.EV
	connected []*model.EV

	rng *rand.Rand
}

// NewEVFleet builds a fleet with every vehicle available.
func NewEVFleet(cfg EVFleetConfig, evs []*model.EV, stations []*model.ChargingStation) *EVFleet {
	cfg.SetDefaults()
	f := &EVFleet{
		cfg:       cfg,
		stations:  stations,
		available: append([]*model.EV(nil), evs...),
		rng:       rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)),
	}
	return f
}

// SeedConnections plugs up to n vehicles into randomly chosen stations
// before the simulation starts, mirroring the stock initial state.
func (f *EVFleet) SeedConnections(n int) {
	for i := 0; i < n && len(f.available) > 0; i++ {
		ev := f.available[0]
		station := f.stations[f.rng.IntN(len(f.stations))]
		if !station.ConnectEV(ev) {
			continue
		}
		ev.PlugIn()
		f.available = f.available[1:]
		f.connected = append(f.connected, ev)
	}
}

func (f *EVFleet) arrivalProb(hour int) float64 {
	if hour >= 17 && hour < 23 {
		return f.cfg.ArrivalProbPeak
	}
	return f.cfg.ArrivalProb
}

func (f *EVFleet) departureProb(hour int) float64 {
	if hour >= 6 && hour < 10 {
		return f.cfg.DepartureProbPeak
	}
	return f.cfg.DepartureProb
}

// Step draws arrivals and departures for one tick. Each available vehicle
// independently attempts to plug in at a uniformly chosen station; the
// attempt only succeeds while the station has a free port. Each connected
// vehicle independently unplugs with the departure probability.
func (f *EVFleet) Step(simTime time.Time) {
	hour := simTime.Hour()
	arrive := distuv.Bernoulli{P: f.arrivalProb(hour), Src: f.rng}
	depart := distuv.Bernoulli{P: f.departureProb(hour), Src: f.rng}

	if len(f.stations) > 0 {
		remaining := f.available[:0]
		for _, ev := range f.available {
			if arrive.Rand() == 1 {
				station := f.stations[f.rng.IntN(len(f.stations))]
				if station.ConnectEV(ev) {
					ev.PlugIn()
					f.connected = append(f.connected, ev)
					continue
				}
			}
			remaining = append(remaining, ev)
		}
		f.available = remaining
	}

	staying := f.connected[:0]
	for _, ev := range f.connected {
		if depart.Rand() == 1 {
			for _, station := range f.stations {
				if station.DisconnectEV(ev) {
					break
				}
			}
			ev.Unplug()
			f.available = append(f.available, ev)
			continue
		}
		staying = append(staying, ev)
	}
	f.connected = staying
}

// Available returns the vehicles not plugged in.
func (f *EVFleet) Available() []*model.EV { return f.available }

// Connected returns the vehicles currently at a port.
func (f *EVFleet) Connected() []*model.EV { return f.connected }

// Stations returns the charging stations managed by the fleet.
func (f *EVFleet) Stations() []*model.ChargingStation { return f.stations }
