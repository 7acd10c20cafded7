// Package bishop computes the factor of safety of a circular slip surface
// using Bishop's simplified method of slices.
//
// An analysis runs in three stages: the slip mass is located by scanning for
// crossings between the circle and the ground surface, the mass is cut into
// equal-width vertical slices, and the fixed-point Bishop equation is iterated
// over those slices. All stages are pure functions of their inputs.
package bishop

import (
	"github.com/alexiusacademia/goslope/internal/geometry"
)

// Default solver and discretization parameters
const (
	DefaultSlices        = 30
	DefaultSamples       = 1000
	DefaultMargin        = 0.01 // m, keeps the scan inside the circle
	DefaultMaxIterations = 20
	DefaultTolerance     = 0.001
	DefaultInitialFS     = 1.2
)

// Default soil parameters
const (
	DefaultUnitWeight      = 18.0 // kN/m³
	DefaultWaterUnitWeight = 9.81 // kN/m³
	DefaultCohesion        = 15.0 // kPa
	DefaultFrictionAngle   = 25.0 // degrees
)

// Soil holds the unit weights and effective shear strength parameters
type Soil struct {
	UnitWeight      float64 `json:"gamma"`   // γ (kN/m³)
	WaterUnitWeight float64 `json:"gamma_w"` // γw (kN/m³)
	Cohesion        float64 `json:"c"`       // c' (kPa)
	FrictionAngle   float64 `json:"phi"`     // φ' (degrees)
}

// DefaultSoil returns the default soil parameters
func DefaultSoil() Soil {
	return Soil{
		UnitWeight:      DefaultUnitWeight,
		WaterUnitWeight: DefaultWaterUnitWeight,
		Cohesion:        DefaultCohesion,
		FrictionAngle:   DefaultFrictionAngle,
	}
}

// Span is the horizontal extent of the slip mass
type Span struct {
	Start float64 `json:"x_start"` // m, entry point
	End   float64 `json:"x_end"`   // m, exit point
}

// Length returns End - Start
func (s Span) Length() float64 {
	return s.End - s.Start
}

// Slice is one vertical strip of the slip mass. Slices are produced in a
// single batch by Discretize and are never modified afterwards.
type Slice struct {
	XMid         float64 `json:"x_mid"`     // m, midpoint
	Width        float64 `json:"b"`         // m
	Height       float64 `json:"h"`         // m, >= 0
	Weight       float64 `json:"W"`         // kN/m
	Alpha        float64 `json:"alpha_deg"` // degrees, positive left of center
	PorePressure float64 `json:"u"`         // kPa, >= 0
	YBot         float64 `json:"y_bot"`     // m, slip surface elevation
}

// Options controls discretization and iteration. Zero fields take the
// package defaults.
type Options struct {
	Slices        int     `json:"slices,omitempty"`
	Samples       int     `json:"samples,omitempty"`
	Margin        float64 `json:"margin,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`
	Tolerance     float64 `json:"tolerance,omitempty"`
	InitialFS     float64 `json:"initial_fs,omitempty"`
}

// DefaultOptions returns the standard parameters: 30 slices, a 1000-point
// intersection scan, 20 iterations and a 0.001 tolerance from FS = 1.2.
func DefaultOptions() Options {
	return Options{
		Slices:        DefaultSlices,
		Samples:       DefaultSamples,
		Margin:        DefaultMargin,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		InitialFS:     DefaultInitialFS,
	}
}

// withDefaults fills zero fields
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Slices <= 0 {
		o.Slices = d.Slices
	}
	if o.Samples < 2 {
		o.Samples = d.Samples
	}
	if o.Margin <= 0 {
		o.Margin = d.Margin
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.InitialFS <= 0 {
		o.InitialFS = d.InitialFS
	}
	return o
}

// Input is everything a single analysis needs. Water may be nil when there
// is no phreatic surface.
type Input struct {
	Circle  geometry.Circle
	Ground  *geometry.Profile
	Water   *geometry.Profile
	Soil    Soil
	Options Options
}
