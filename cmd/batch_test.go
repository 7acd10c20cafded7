package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goslope/internal/bishop"
	"github.com/alexiusacademia/goslope/internal/geometry"
	"github.com/alexiusacademia/goslope/internal/project"
	"github.com/alexiusacademia/goslope/internal/report"
)

func TestAnalyzeCirclesKeepsOrder(t *testing.T) {
	base, err := project.LoadFromFile("../examples/tailings-dam.json")
	require.NoError(t, err)

	circles := []report.CircleRow{
		{Name: "dam", Circle: geometry.Circle{Xc: 95, Yc: 80, Radius: 60}},
		{Name: "high", Circle: geometry.Circle{Xc: 95, Yc: 300, Radius: 60}},
		{Name: "dam-again", Circle: geometry.Circle{Xc: 95, Yc: 80, Radius: 60}},
	}

	rows, err := analyzeCircles(base, circles, 2)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "dam", rows[0].Name)
	assert.InDelta(t, 3.485, rows[0].Result.FS, 1e-9)
	assert.Equal(t, bishop.NoIntersection, rows[1].Result.Outcome)
	assert.Equal(t, rows[0].Result, rows[2].Result)
	assert.Equal(t, 80.0, base.Circle.Yc)
}

func TestAnalyzeCirclesReportsInvalidCircle(t *testing.T) {
	base, err := project.LoadFromFile("../examples/tailings-dam.json")
	require.NoError(t, err)

	_, err = analyzeCircles(base, []report.CircleRow{
		{Name: "bad", Circle: geometry.Circle{Xc: 95, Yc: 80, Radius: -1}},
	}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}
