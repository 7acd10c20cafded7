package bishop_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goslope/internal/bishop"
	"github.com/alexiusacademia/goslope/internal/geometry"
)

func damGround() *geometry.Profile {
	return geometry.MustProfile(
		geometry.Point{X: 40, Y: 10},
		geometry.Point{X: 70, Y: 45},
		geometry.Point{X: 100, Y: 45},
		geometry.Point{X: 130, Y: 14},
	)
}

func damWater() *geometry.Profile {
	return geometry.MustProfile(
		geometry.Point{X: 40, Y: 10},
		geometry.Point{X: 85, Y: 30},
		geometry.Point{X: 110, Y: 40},
		geometry.Point{X: 130, Y: 42},
	)
}

func damInput() bishop.Input {
	return bishop.Input{
		Circle: geometry.Circle{Xc: 95, Yc: 80, Radius: 60},
		Ground: damGround(),
		Soil:   bishop.DefaultSoil(),
	}
}

func TestAnalyzeDamScenario(t *testing.T) {
	res := bishop.Analyze(damInput())

	require.Equal(t, bishop.Converged, res.Outcome)
	assert.True(t, res.HasSlipMass())
	assert.True(t, res.HasValue())
	assert.InDelta(t, 4.823, res.FS, 1e-9)
	assert.LessOrEqual(t, res.Iterations, bishop.DefaultMaxIterations)
	assert.Equal(t, 4, res.Iterations)
	require.Len(t, res.Slices, 30)

	b := res.Slices[0].Width
	for _, s := range res.Slices {
		assert.Equal(t, b, s.Width)
	}
	assert.InDelta(t, 58.90992, res.Span.Start, 1e-4)
	assert.InDelta(t, 119.20017, res.Span.End, 1e-4)
	assert.Greater(t, res.Driving, 0.0)
}

func TestAnalyzeWithPhreaticSurface(t *testing.T) {
	in := damInput()
	in.Water = damWater()

	res := bishop.Analyze(in)
	require.Equal(t, bishop.Converged, res.Outcome)
	assert.InDelta(t, 3.485, res.FS, 1e-9)

	dry := bishop.Analyze(damInput())
	assert.Less(t, res.FS, dry.FS, "pore pressure must reduce the factor of safety")
}

func TestNoIntersection(t *testing.T) {
	cases := []struct {
		name   string
		circle geometry.Circle
	}{
		{"circle entirely above ground", geometry.Circle{Xc: 95, Yc: 200, Radius: 60}},
		{"circle entirely below ground", geometry.Circle{Xc: 95, Yc: -100, Radius: 60}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := damInput()
			in.Circle = tc.circle

			_, ok := bishop.LocateSpan(tc.circle, in.Ground, bishop.Options{})
			assert.False(t, ok)

			res := bishop.Analyze(in)
			assert.Equal(t, bishop.NoIntersection, res.Outcome)
			assert.False(t, res.HasSlipMass())
			assert.False(t, res.HasValue())
			assert.Empty(t, res.Slices)
		})
	}
}

func TestLocateSpanIgnoresInteriorCrossings(t *testing.T) {
	// Ground dips below the arc in the middle, producing four crossings
	ground := geometry.MustProfile(
		geometry.Point{X: 0, Y: 10},
		geometry.Point{X: 45, Y: 10},
		geometry.Point{X: 50, Y: -20},
		geometry.Point{X: 55, Y: 10},
		geometry.Point{X: 100, Y: 10},
	)
	circle := geometry.Circle{Xc: 50, Yc: 20, Radius: 20}

	span, ok := bishop.LocateSpan(circle, ground, bishop.Options{})
	require.True(t, ok)

	// Arc meets y=10 at x = 50 ± sqrt(300)
	half := math.Sqrt(300)
	assert.InDelta(t, 50-half, span.Start, 0.05)
	assert.InDelta(t, 50+half, span.End, 0.05)
}

func TestSliceCoverageAndOrdering(t *testing.T) {
	in := damInput()
	span, ok := bishop.LocateSpan(in.Circle, in.Ground, bishop.Options{})
	require.True(t, ok)

	for _, n := range []int{1, 7, 30, 100} {
		slices := bishop.Discretize(span, in.Circle, in.Ground, nil, in.Soil, n)
		require.Len(t, slices, n)

		var total float64
		for i, s := range slices {
			total += s.Width
			if i > 0 {
				assert.Greater(t, s.XMid, slices[i-1].XMid)
			}
		}
		assert.InDelta(t, span.Length(), total, 1e-9)
		assert.Greater(t, slices[0].XMid, span.Start)
		assert.Less(t, slices[n-1].XMid, span.End)
	}
}

func TestSliceNonNegativity(t *testing.T) {
	in := damInput()
	// Phreatic line well below the slip surface everywhere
	low := geometry.MustProfile(geometry.Point{X: 0, Y: -50}, geometry.Point{X: 200, Y: -50})
	// A ground surface that sags under the arc near the toe
	span := bishop.Span{Start: 40, End: 150}

	slices := bishop.Discretize(span, in.Circle, in.Ground, low, in.Soil, 30)
	for _, s := range slices {
		assert.GreaterOrEqual(t, s.Height, 0.0)
		assert.GreaterOrEqual(t, s.PorePressure, 0.0)
		assert.GreaterOrEqual(t, s.Weight, 0.0)
	}
}

func TestNoWaterEquivalence(t *testing.T) {
	dry := bishop.Analyze(damInput())

	in := damInput()
	in.Water = geometry.MustProfile(geometry.Point{X: 0, Y: -50}, geometry.Point{X: 200, Y: -50})
	wet := bishop.Analyze(in)

	require.Len(t, wet.Slices, len(dry.Slices))
	for i := range dry.Slices {
		assert.Equal(t, 0.0, wet.Slices[i].PorePressure)
		assert.Equal(t, dry.Slices[i].Weight, wet.Slices[i].Weight)
		assert.Equal(t, dry.Slices[i].Alpha, wet.Slices[i].Alpha)
	}
	assert.Equal(t, dry.FS, wet.FS)
}

func TestBaseInclinationSign(t *testing.T) {
	res := bishop.Analyze(damInput())
	require.True(t, res.HasSlipMass())

	for _, s := range res.Slices {
		want := math.Asin((95-s.XMid)/60) * 180 / math.Pi
		assert.InDelta(t, want, s.Alpha, 1e-9)
		switch {
		case s.XMid < 95:
			assert.Greater(t, s.Alpha, 0.0)
		case s.XMid > 95:
			assert.Less(t, s.Alpha, 0.0)
		}
	}
}

func TestZeroStrengthConvergesToZero(t *testing.T) {
	in := damInput()
	in.Soil.Cohesion = 0
	in.Soil.FrictionAngle = 0

	res := bishop.Analyze(in)
	assert.Equal(t, bishop.Converged, res.Outcome)
	assert.Equal(t, 0.0, res.FS)
	assert.Equal(t, 2, res.Iterations)
	assert.False(t, math.IsNaN(res.RawFS))
}

func TestMonotonicInStrength(t *testing.T) {
	prev := -1.0
	for _, c := range []float64{0, 5, 15, 30, 60} {
		in := damInput()
		in.Soil.Cohesion = c
		res := bishop.Analyze(in)
		require.True(t, res.HasValue())
		assert.GreaterOrEqual(t, res.FS, prev, "cohesion %.0f", c)
		prev = res.FS
	}

	prev = -1.0
	for _, phi := range []float64{0, 10, 25, 35, 40} {
		in := damInput()
		in.Soil.FrictionAngle = phi
		res := bishop.Analyze(in)
		require.True(t, res.HasValue())
		assert.GreaterOrEqual(t, res.FS, prev, "phi %.0f", phi)
		prev = res.FS
	}
}

func TestIterationCapIsReported(t *testing.T) {
	in := damInput()
	in.Options = bishop.Options{MaxIterations: 2}

	res := bishop.Analyze(in)
	assert.Equal(t, bishop.IterationCapped, res.Outcome)
	assert.False(t, res.Converged())
	assert.True(t, res.HasValue())
	assert.Equal(t, 2, res.Iterations)
	assert.InDelta(t, 4.822, res.FS, 1e-9)
	assert.Len(t, res.History, 3)
}

func TestSolveDegenerateGeometry(t *testing.T) {
	slices := []bishop.Slice{
		{XMid: 1, Width: 1, Alpha: 20},
		{XMid: 2, Width: 1, Alpha: -20},
	}
	sol := bishop.Solve(slices, bishop.DefaultSoil(), bishop.Options{})
	assert.True(t, sol.Degenerate)
	assert.Equal(t, 0.0, sol.FS)
	assert.Equal(t, 1, sol.Iterations)
}

func TestAnalyzeDegenerate(t *testing.T) {
	in := damInput()
	in.Soil.UnitWeight = 0

	res := bishop.Analyze(in)
	assert.Equal(t, bishop.Degenerate, res.Outcome)
	assert.Equal(t, 0.0, res.FS)
	assert.Equal(t, 0.0, res.RawFS)
	assert.False(t, res.HasValue())
	assert.True(t, res.HasSlipMass())
	assert.Len(t, res.Slices, 30)
}

func TestSingleCrossingHasNoSlipMass(t *testing.T) {
	// y = x + 10 enters the arc once near x = -3.54 and stays above it
	ground := geometry.MustProfile(
		geometry.Point{X: -10, Y: 0},
		geometry.Point{X: 10, Y: 20},
	)
	circle := geometry.Circle{Xc: 0, Yc: 10, Radius: 5}

	_, ok := bishop.LocateSpan(circle, ground, bishop.Options{})
	assert.False(t, ok)

	res := bishop.Analyze(bishop.Input{Circle: circle, Ground: ground, Soil: bishop.DefaultSoil()})
	assert.Equal(t, bishop.NoIntersection, res.Outcome)
	assert.Empty(t, res.Slices)
}

func TestRound(t *testing.T) {
	cases := []struct {
		v        float64
		decimals int
		want     float64
	}{
		{4.82349, 3, 4.823},
		{3.4855, 3, 3.486},
		{1.0005, 3, 1.0}, // stored as 1.000499999...
		{2.675, 2, 2.67}, // stored as 2.674999999...
		{0.125, 2, 0.12}, // exact tie rounds to even
		{-1.23456, 3, -1.235},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, bishop.Round(tc.v, tc.decimals), "Round(%v, %d)", tc.v, tc.decimals)
	}
}

func TestSolveUsesFinalEstimate(t *testing.T) {
	res := bishop.Analyze(damInput())
	require.Equal(t, bishop.Converged, res.Outcome)
	require.NotEmpty(t, res.History)

	last := res.History[len(res.History)-1]
	assert.Equal(t, last, res.RawFS)
	assert.Equal(t, bishop.Round(last, 3), res.FS)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	a := bishop.Analyze(damInput())
	b := bishop.Analyze(damInput())
	assert.Equal(t, a, b)
}

func TestOutcomeText(t *testing.T) {
	for _, o := range []bishop.Outcome{bishop.NoIntersection, bishop.Degenerate, bishop.Converged, bishop.IterationCapped} {
		text, err := o.MarshalText()
		require.NoError(t, err)

		var back bishop.Outcome
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, o, back)
	}

	var o bishop.Outcome
	assert.Error(t, o.UnmarshalText([]byte("bogus")))
}
