// Package project reads, validates and runs slope stability case files.
package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alexiusacademia/goslope/internal/bishop"
	"github.com/alexiusacademia/goslope/internal/criteria"
	"github.com/alexiusacademia/goslope/internal/geometry"
)

// LoadFromFile loads a case definition from a JSON file
func LoadFromFile(filepath string) (*Case, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes and validates a case from r
func Parse(r io.Reader) (*Case, error) {
	var c Case
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode case: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Input converts the case into solver input
func (c *Case) Input() (bishop.Input, error) {
	if err := c.Validate(); err != nil {
		return bishop.Input{}, err
	}

	ground, err := geometry.NewProfile(c.Ground)
	if err != nil {
		return bishop.Input{}, fmt.Errorf("ground: %w", err)
	}

	in := bishop.Input{
		Circle:  c.Circle,
		Ground:  ground,
		Soil:    c.SoilParams(),
		Options: c.SolverOptions(),
	}

	if len(c.Water) > 0 {
		water, err := geometry.NewProfile(c.Water)
		if err != nil {
			return bishop.Input{}, fmt.Errorf("water: %w", err)
		}
		in.Water = water
	}

	return in, nil
}

// Outcome bundles a solver result with its acceptance assessment
type Outcome struct {
	Result bishop.Result   `json:"result"`
	Status criteria.Status `json:"-"`
	Check  *criteria.Check `json:"-"`
}

// StatusText is the status band label
func (o Outcome) StatusText() string {
	return o.Status.String()
}

// Run validates the case, analyses it and classifies the result
func (c *Case) Run() (*Outcome, error) {
	in, err := c.Input()
	if err != nil {
		return nil, err
	}

	res := bishop.Analyze(in)
	out := &Outcome{
		Result: res,
		Status: criteria.Classify(res.FS, res.HasValue()),
	}

	if lc, ok := criteria.FindCondition(c.Condition); ok {
		chk := lc.Evaluate(res.FS, res.HasValue())
		out.Check = &chk
	}

	return out, nil
}

// WithCircle returns a copy of the case using another trial circle
func (c *Case) WithCircle(circle geometry.Circle, name string) *Case {
	cp := *c
	cp.Circle = circle
	if name != "" {
		cp.Name = name
	}
	return &cp
}

// ApplyOptions fills solver options the case leaves unset from base
func (c *Case) ApplyOptions(base bishop.Options) {
	if c.Options == nil {
		if base == (bishop.Options{}) {
			return
		}
		c.Options = &bishop.Options{}
	}
	o := c.Options
	if o.Slices <= 0 {
		o.Slices = base.Slices
	}
	if o.Samples <= 0 {
		o.Samples = base.Samples
	}
	if o.Margin <= 0 {
		o.Margin = base.Margin
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = base.MaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = base.Tolerance
	}
	if o.InitialFS <= 0 {
		o.InitialFS = base.InitialFS
	}
}

// SolverOptions returns the case's solver overrides, zero when unset
func (c *Case) SolverOptions() bishop.Options {
	if c.Options == nil {
		return bishop.Options{}
	}
	return *c.Options
}
