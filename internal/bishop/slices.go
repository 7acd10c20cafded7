package bishop

import (
	"math"

	"github.com/alexiusacademia/goslope/internal/geometry"
)

// Discretize cuts the span into n equal-width vertical slices, ordered left
// to right. water may be nil, in which case every pore pressure is zero.
//
// For each slice the ground and phreatic elevations are read at the
// midpoint, the height and pore pressure are clamped at zero, and the base
// inclination α = asin((xc - x)/R) is taken from the circle alone.
func Discretize(span Span, circle geometry.Circle, ground, water *geometry.Profile, soil Soil, n int) []Slice {
	if n <= 0 {
		n = DefaultSlices
	}

	edges := geometry.Linspace(span.Start, span.End, n+1)
	b := span.Length() / float64(n)

	slices := make([]Slice, n)
	for i := 0; i < n; i++ {
		xMid := (edges[i] + edges[i+1]) / 2
		yTop := ground.At(xMid)
		yBot := circle.Base(xMid)
		h := math.Max(0, yTop-yBot)

		// Hydrostatic head from the phreatic line down to the slip surface
		u := 0.0
		if water != nil {
			u = math.Max(0, (water.At(xMid)-yBot)*soil.WaterUnitWeight)
		}

		alpha := math.Asin((circle.Xc - xMid) / circle.Radius)

		slices[i] = Slice{
			XMid:         xMid,
			Width:        b,
			Height:       h,
			Weight:       h * b * soil.UnitWeight,
			Alpha:        toDegrees(alpha),
			PorePressure: u,
			YBot:         yBot,
		}
	}

	return slices
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
