package bishop

import (
	"math"
	"strconv"
)

// Solution holds the outcome of the Bishop iteration
type Solution struct {
	FS         float64   // last estimate, unrounded
	Iterations int       // iterations performed
	Converged  bool      // successive estimates within tolerance
	Degenerate bool      // zero net driving moment
	History    []float64 // estimates in iteration order, seed first
	Driving    float64   // Σ W·sin α of the final iteration (kN/m)
	Resisting  float64   // Σ (c·b + (W - u·b)·tan φ)/m_α of the final iteration (kN/m)
}

// Solve iterates Bishop's simplified equation
//
//	FS = Σ [c·b + (W - u·b)·tan φ] / m_α  /  Σ W·sin α
//	m_α = cos α + sin α·tan φ / FS
//
// starting from opts.InitialFS. It stops when two successive estimates
// differ by less than opts.Tolerance or after opts.MaxIterations. A zero
// driving sum stops the iteration immediately with FS = 0.
func Solve(slices []Slice, soil Soil, opts Options) Solution {
	opts = opts.withDefaults()

	tanPhi := math.Tan(toRadians(soil.FrictionAngle))
	fs := opts.InitialFS
	sol := Solution{History: []float64{fs}}

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		sol.Iterations = iter

		var driving, resisting float64
		for _, s := range slices {
			a := toRadians(s.Alpha)
			sinA, cosA := math.Sin(a), math.Cos(a)

			driving += s.Weight * sinA

			mAlpha := cosA
			if tanPhi != 0 {
				mAlpha += sinA * tanPhi / fs
			}

			resisting += (soil.Cohesion*s.Width + (s.Weight-s.PorePressure*s.Width)*tanPhi) / mAlpha
		}

		sol.Driving, sol.Resisting = driving, resisting

		if driving == 0 {
			sol.FS = 0
			sol.Degenerate = true
			return sol
		}

		next := resisting / driving
		sol.History = append(sol.History, next)
		sol.FS = next

		if math.Abs(next-fs) < opts.Tolerance {
			sol.Converged = true
			return sol
		}
		fs = next
	}

	return sol
}

// Round rounds v to the given number of decimals using the exact decimal
// value of v, so 2.675 (stored as 2.67499...) rounds down to 2.67
func Round(v float64, decimals int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	if err != nil {
		return v
	}
	return r
}
