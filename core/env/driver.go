// Package env generates the time-correlated environmental drivers feeding
// the generation units: a sunlight factor in [0,1] for solar plants and a
// wind speed in m/s for wind plants. The simulator ships these as the
// default implementation; any external weather model satisfying Driver can
// replace them.
package env

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Driver supplies one environmental sample per generator per tick.
type Driver interface {
	// SunlightFactor returns the solar irradiance factor in [0,1].
	SunlightFactor(t time.Time) float64
	// WindSpeed returns the wind speed in m/s.
	WindSpeed(t time.Time) float64
}

// WeatherModel is a persistent-state driver: each sample nudges an internal
// weather state toward a Gaussian target, producing smooth transitions
// between ticks instead of white noise.
type WeatherModel struct {
	weather   float64 // persistent cloud-cover state
	windSpeed float64 // persistent wind speed in m/s

	cloudTarget distuv.Normal
	windTarget  distuv.Normal
}

// NewWeatherModel builds a seeded weather model. The same seed reproduces
// the same weather sequence.
func NewWeatherModel(seed uint64) *WeatherModel {
	src := rand.NewPCG(seed, seed)
	return &WeatherModel{
		weather:     0.85,
		windSpeed:   8.0,
		cloudTarget: distuv.Normal{Mu: 0.85, Sigma: 0.05, Src: src},
		windTarget:  distuv.Normal{Mu: 8.0, Sigma: 2.0, Src: src},
	}
}

// SunlightFactor combines solar elevation, a seasonal term and the
// persistent weather state. It is zero outside 06:00-18:00.
func (w *WeatherModel) SunlightFactor(t time.Time) float64 {
	dayOfYear := float64(t.YearDay())
	seasonal := 1.0 + 0.2*math.Cos(2*math.Pi*(dayOfYear-172)/365)

	hour := float64(t.Hour()) + float64(t.Minute())/60
	var elevation float64
	if hour >= 6 && hour < 18 {
		elevation = math.Sin(math.Pi * (hour - 6) / 12)
	}

	target := clamp(w.cloudTarget.Rand(), 0.7, 1.0)
	w.weather = 0.98*w.weather + 0.02*target

	factor := elevation * seasonal * w.weather * 0.9
	if factor < 0 {
		factor = 0
	}
	return factor
}

// WindSpeed advances the persistent wind state and applies a daily
// sinusoidal variation. The returned speed stays within the plant's
// operating range.
func (w *WeatherModel) WindSpeed(t time.Time) float64 {
	target := clamp(w.windTarget.Rand(), 3.0, 15.0)
	w.windSpeed = 0.95*w.windSpeed + 0.05*target

	hour := float64(t.Hour()) + float64(t.Minute())/60
	daily := 1.0 + 0.2*math.Sin(2*math.Pi*hour/24)
	return w.windSpeed * daily
}

// Fixed is a Driver returning constant values, used by tests and scripted
// scenarios.
type Fixed struct {
	Sunlight float64
	Wind     float64
}

func (f Fixed) SunlightFactor(time.Time) float64 { return f.Sunlight }
func (f Fixed) WindSpeed(time.Time) float64      { return f.Wind }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
