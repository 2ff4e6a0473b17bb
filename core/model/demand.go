package model

import (
	"math"
	"time"
)

// DemandProfileKind is the closed set of demand shapes a consumer can be
// configured with. Profiles replace opaque demand callables so they can be
// serialized and tested.
type DemandProfileKind string

const (
	// ProfileConstant always returns BaseKW.
	ProfileConstant DemandProfileKind = "constant"
	// ProfileSmooth ramps between BaseKW and PeakKW with half-cosine
	// transitions around the peak window.
	ProfileSmooth DemandProfileKind = "smooth"
)

// DemandProfile describes a time-of-day demand curve in kW.
type DemandProfile struct {
	Kind DemandProfileKind `json:"kind"`

	BaseKW float64 `json:"base_kw"`
	PeakKW float64 `json:"peak_kw"`
	// Peak window boundaries in decimal hours.
	PeakStartH float64 `json:"peak_start_h"`
	PeakEndH   float64 `json:"peak_end_h"`
	// TransitionH is the ramp length on both sides of the window.
	TransitionH float64 `json:"transition_h"`
}

// ConstantDemand builds a flat profile.
func ConstantDemand(kw float64) DemandProfile {
	return DemandProfile{Kind: ProfileConstant, BaseKW: kw}
}

// SmoothDemand builds a smooth-transition profile.
func SmoothDemand(baseKW, peakKW, peakStartH, peakEndH, transitionH float64) DemandProfile {
	return DemandProfile{
		Kind:        ProfileSmooth,
		BaseKW:      baseKW,
		PeakKW:      peakKW,
		PeakStartH:  peakStartH,
		PeakEndH:    peakEndH,
		TransitionH: transitionH,
	}
}

// Demand evaluates the profile at the given simulated time.
func (p DemandProfile) Demand(t time.Time) float64 {
	switch p.Kind {
	case ProfileSmooth:
		return p.smooth(float64(t.Hour()) + float64(t.Minute())/60)
	default:
		return p.BaseKW
	}
}

func (p DemandProfile) smooth(decimal float64) float64 {
	switch {
	case decimal >= p.PeakStartH-p.TransitionH && decimal < p.PeakStartH:
		progress := (decimal - (p.PeakStartH - p.TransitionH)) / p.TransitionH
		return p.BaseKW + (p.PeakKW-p.BaseKW)*(0.5-0.5*math.Cos(math.Pi*progress))
	case decimal >= p.PeakEndH && decimal < p.PeakEndH+p.TransitionH:
		progress := (decimal - p.PeakEndH) / p.TransitionH
		return p.PeakKW - (p.PeakKW-p.BaseKW)*(0.5-0.5*math.Cos(math.Pi*progress))
	case decimal >= p.PeakStartH && decimal < p.PeakEndH:
		return p.PeakKW
	default:
		return p.BaseKW
	}
}

// Stock profiles matching the reference grid assembly.

// HouseDemandProfile is the default residential curve.
func HouseDemandProfile() DemandProfile { return SmoothDemand(15, 50, 18, 22, 1.5) }

// IndustryDemandProfile is the default industrial curve.
func IndustryDemandProfile() DemandProfile { return SmoothDemand(150, 800, 8, 18, 1) }

// EVDemandProfile is the default per-vehicle charging curve.
func EVDemandProfile() DemandProfile { return SmoothDemand(25, 60, 17, 23, 1.5) }

// StationDemandProfile is the default charging-station base curve.
func StationDemandProfile() DemandProfile { return SmoothDemand(60, 120, 17, 23, 1.5) }
