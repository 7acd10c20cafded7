package project

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/goslope/internal/bishop"
	"github.com/alexiusacademia/goslope/internal/criteria"
	"github.com/alexiusacademia/goslope/internal/geometry"
)

// Case is one slope stability problem as read from a JSON case file.
// Coordinates are in a cross-section frame where:
// - X-axis points downstream (to the right)
// - Y-axis is elevation (positive up)
type Case struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Trial slip circle
	Circle geometry.Circle `json:"circle"`

	// Ground surface, strictly increasing x
	Ground []geometry.Point `json:"ground"`

	// Phreatic line (optional)
	Water []geometry.Point `json:"water,omitempty"`

	// Soil parameters; omitted fields take the defaults
	Soil *SoilInput `json:"soil,omitempty"`

	// Loading condition ID used for the acceptance check (optional)
	Condition string `json:"condition,omitempty"`

	// Solver overrides (optional)
	Options *bishop.Options `json:"options,omitempty"`
}

// Upper limits on solver options accepted from case files
const (
	MaxSlices        = 1000
	MaxSamples       = 100000
	MaxIterationsCap = 1000
)

// SoilInput mirrors bishop.Soil with optional fields so that a case file
// can set only the parameters that differ from the defaults
type SoilInput struct {
	UnitWeight      *float64 `json:"gamma,omitempty"`
	WaterUnitWeight *float64 `json:"gamma_w,omitempty"`
	Cohesion        *float64 `json:"c,omitempty"`
	FrictionAngle   *float64 `json:"phi,omitempty"`
}

// SoilParams returns the soil parameters with defaults applied
func (c *Case) SoilParams() bishop.Soil {
	soil := bishop.DefaultSoil()
	if c.Soil == nil {
		return soil
	}
	if c.Soil.UnitWeight != nil {
		soil.UnitWeight = *c.Soil.UnitWeight
	}
	if c.Soil.WaterUnitWeight != nil {
		soil.WaterUnitWeight = *c.Soil.WaterUnitWeight
	}
	if c.Soil.Cohesion != nil {
		soil.Cohesion = *c.Soil.Cohesion
	}
	if c.Soil.FrictionAngle != nil {
		soil.FrictionAngle = *c.Soil.FrictionAngle
	}
	return soil
}

// SetSoil overrides every soil parameter
func (c *Case) SetSoil(s bishop.Soil) {
	c.Soil = &SoilInput{
		UnitWeight:      &s.UnitWeight,
		WaterUnitWeight: &s.WaterUnitWeight,
		Cohesion:        &s.Cohesion,
		FrictionAngle:   &s.FrictionAngle,
	}
}

// Validate checks if the case definition is valid
func (c *Case) Validate() error {
	if c.Circle.Radius <= 0 || math.IsNaN(c.Circle.Radius) || math.IsInf(c.Circle.Radius, 0) {
		return &ValidationError{"circle radius must be positive"}
	}
	if len(c.Ground) < 2 {
		return &ValidationError{"ground profile must have at least 2 points"}
	}
	if err := checkIncreasing("ground", c.Ground); err != nil {
		return err
	}
	if len(c.Water) > 0 {
		if err := checkIncreasing("water", c.Water); err != nil {
			return err
		}
	}

	soil := c.SoilParams()
	if soil.UnitWeight < 0 {
		return &ValidationError{"unit weight must not be negative"}
	}
	if soil.WaterUnitWeight < 0 {
		return &ValidationError{"water unit weight must not be negative"}
	}
	if soil.Cohesion < 0 {
		return &ValidationError{"cohesion must not be negative"}
	}
	if soil.FrictionAngle < 0 || soil.FrictionAngle >= 90 {
		return &ValidationError{"friction angle must be in [0, 90) degrees"}
	}

	if o := c.Options; o != nil {
		if o.Slices > MaxSlices {
			return &ValidationError{fmt.Sprintf("options.slices must not exceed %d", MaxSlices)}
		}
		if o.Samples > MaxSamples {
			return &ValidationError{fmt.Sprintf("options.samples must not exceed %d", MaxSamples)}
		}
		if o.MaxIterations > MaxIterationsCap {
			return &ValidationError{fmt.Sprintf("options.max_iterations must not exceed %d", MaxIterationsCap)}
		}
	}

	if c.Condition != "" {
		if _, ok := criteria.FindCondition(c.Condition); !ok {
			return &ValidationError{fmt.Sprintf("unknown loading condition %q", c.Condition)}
		}
	}
	return nil
}

func checkIncreasing(name string, pts []geometry.Point) error {
	for i := 1; i < len(pts); i++ {
		if pts[i].X <= pts[i-1].X {
			return &ValidationError{fmt.Sprintf("%s profile x must be strictly increasing (point %d)", name, i+1)}
		}
	}
	return nil
}

// ValidationError represents a case validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
