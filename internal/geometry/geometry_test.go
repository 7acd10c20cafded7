package geometry_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goslope/internal/geometry"
)

func damProfile() *geometry.Profile {
	return geometry.MustProfile(
		geometry.Point{X: 40, Y: 10},
		geometry.Point{X: 70, Y: 45},
		geometry.Point{X: 100, Y: 45},
		geometry.Point{X: 130, Y: 14},
	)
}

func TestProfileAt(t *testing.T) {
	p := damProfile()

	cases := []struct {
		name string
		x    float64
		want float64
	}{
		{"left of range extends flat", 0, 10},
		{"first vertex", 40, 10},
		{"upstream slope midpoint", 55, 27.5},
		{"crest vertex", 70, 45},
		{"crest interior", 85, 45},
		{"downstream slope", 115, 29.5},
		{"last vertex", 130, 14},
		{"right of range extends flat", 500, 14},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, p.At(tc.x), 1e-12)
		})
	}
}

func TestNewProfileRejectsNonIncreasingX(t *testing.T) {
	_, err := geometry.NewProfile([]geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 1}, {X: 10, Y: 2}})
	require.Error(t, err)

	_, err = geometry.NewProfile([]geometry.Point{{X: 5, Y: 0}, {X: 1, Y: 1}})
	require.Error(t, err)

	_, err = geometry.NewProfile(nil)
	require.Error(t, err)
}

func TestSinglePointProfileIsFlat(t *testing.T) {
	p := geometry.MustProfile(geometry.Point{X: 3, Y: 7})
	assert.Equal(t, 7.0, p.At(-100))
	assert.Equal(t, 7.0, p.At(3))
	assert.Equal(t, 7.0, p.At(100))
}

func TestProfileBoundsAndPoints(t *testing.T) {
	p := damProfile()
	minX, maxX, minY, maxY := p.Bounds()
	assert.Equal(t, 40.0, minX)
	assert.Equal(t, 130.0, maxX)
	assert.Equal(t, 10.0, minY)
	assert.Equal(t, 45.0, maxY)

	pts := p.Points()
	require.Len(t, pts, 4)
	pts[0].Y = 999
	assert.Equal(t, 10.0, p.At(40), "Points must return a copy")
}

func TestCircleBase(t *testing.T) {
	c := geometry.Circle{Xc: 95, Yc: 80, Radius: 60}

	assert.InDelta(t, 20.0, c.Base(95), 1e-12)
	assert.InDelta(t, 80.0, c.Base(35), 1e-12)
	assert.True(t, c.Contains(155))
	assert.False(t, c.Contains(155.5))
	assert.True(t, math.IsNaN(c.Base(200)))

	left, right := c.Extent()
	assert.Equal(t, 35.0, left)
	assert.Equal(t, 155.0, right)
}

func TestLinspace(t *testing.T) {
	xs := geometry.Linspace(0, 1, 5)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, xs)

	assert.Nil(t, geometry.Linspace(0, 1, 0))
	assert.Equal(t, []float64{2}, geometry.Linspace(2, 9, 1))

	xs = geometry.Linspace(0.3, 0.7, 1000)
	assert.Equal(t, 0.7, xs[len(xs)-1])
}

func TestCircleOutline(t *testing.T) {
	c := geometry.Circle{Xc: 1, Yc: 2, Radius: 3}
	pts := c.Outline(9)
	require.Len(t, pts, 9)
	for _, p := range pts {
		assert.InDelta(t, 3.0, math.Hypot(p.X-1, p.Y-2), 1e-9)
	}
}
