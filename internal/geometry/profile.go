package geometry

import (
	"fmt"
	"sort"
)

// Point represents a 2D coordinate in the cross-section
type Point struct {
	X float64 `json:"x"` // m, horizontal
	Y float64 `json:"y"` // m, elevation
}

// Profile is a piecewise-linear curve through points with strictly
// increasing X. It is used for the ground surface and the phreatic line.
type Profile struct {
	xs []float64
	ys []float64
}

// NewProfile builds a profile from points, rejecting empty input and
// non-increasing X coordinates
func NewProfile(points []Point) (*Profile, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("profile must have at least one point")
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if i > 0 && p.X <= points[i-1].X {
			return nil, fmt.Errorf("profile x must be strictly increasing: point %d (x=%.3f) follows x=%.3f",
				i+1, p.X, points[i-1].X)
		}
		xs[i] = p.X
		ys[i] = p.Y
	}

	return &Profile{xs: xs, ys: ys}, nil
}

// MustProfile is like NewProfile but panics on invalid points.
// Intended for fixed geometry in tests and examples.
func MustProfile(points ...Point) *Profile {
	p, err := NewProfile(points)
	if err != nil {
		panic(err)
	}
	return p
}

// At returns the interpolated elevation at x. Outside the defined range the
// nearest edge elevation is returned (flat extension).
func (p *Profile) At(x float64) float64 {
	n := len(p.xs)
	if x <= p.xs[0] {
		return p.ys[0]
	}
	if x >= p.xs[n-1] {
		return p.ys[n-1]
	}

	// First index with xs[i] >= x; x lies in (xs[i-1], xs[i]]
	i := sort.SearchFloat64s(p.xs, x)
	if p.xs[i] == x {
		return p.ys[i]
	}

	x0, x1 := p.xs[i-1], p.xs[i]
	y0, y1 := p.ys[i-1], p.ys[i]
	t := (x - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}

// Points returns a copy of the profile vertices
func (p *Profile) Points() []Point {
	pts := make([]Point, len(p.xs))
	for i := range p.xs {
		pts[i] = Point{X: p.xs[i], Y: p.ys[i]}
	}
	return pts
}

// Bounds returns the bounding box of the profile vertices
func (p *Profile) Bounds() (minX, maxX, minY, maxY float64) {
	minX, maxX = p.xs[0], p.xs[len(p.xs)-1]
	minY, maxY = p.ys[0], p.ys[0]
	for _, y := range p.ys {
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return minX, maxX, minY, maxY
}
