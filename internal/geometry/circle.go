package geometry

import "math"

// Circle is a trial slip circle
type Circle struct {
	Xc     float64 `json:"xc"`     // m, center x
	Yc     float64 `json:"yc"`     // m, center y
	Radius float64 `json:"radius"` // m
}

// Contains reports whether x lies within the horizontal extent of the circle
func (c Circle) Contains(x float64) bool {
	return math.Abs(x-c.Xc) <= c.Radius
}

// Base returns the elevation of the lower arc at x:
// y = yc - sqrt(R² - (x - xc)²)
// The result is NaN when x lies outside the circle.
func (c Circle) Base(x float64) float64 {
	dx := x - c.Xc
	return c.Yc - math.Sqrt(c.Radius*c.Radius-dx*dx)
}

// Extent returns the leftmost and rightmost x of the circle
func (c Circle) Extent() (float64, float64) {
	return c.Xc - c.Radius, c.Xc + c.Radius
}

// Outline returns n points around the full circle, starting at angle 0
func (c Circle) Outline(n int) []Point {
	pts := make([]Point, n)
	for i, theta := range Linspace(0, 2*math.Pi, n) {
		pts[i] = Point{
			X: c.Xc + c.Radius*math.Cos(theta),
			Y: c.Yc + c.Radius*math.Sin(theta),
		}
	}
	return pts
}

// Linspace returns n evenly spaced values from start to stop inclusive.
// The last value is exactly stop.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}

	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
