package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goslope/internal/bishop"
	"github.com/alexiusacademia/goslope/internal/geometry"
	"github.com/alexiusacademia/goslope/internal/project"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// Deterministic, strictly increasing clock
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func damCase(name string, yc float64) *project.Case {
	return &project.Case{
		Name:   name,
		Circle: geometry.Circle{Xc: 95, Yc: yc, Radius: 60},
		Ground: []geometry.Point{{X: 40, Y: 10}, {X: 70, Y: 45}, {X: 100, Y: 45}, {X: 130, Y: 14}},
	}
}

func run(t *testing.T, c *project.Case) bishop.Result {
	t.Helper()
	out, err := c.Run()
	require.NoError(t, err)
	return out.Result
}

func TestSaveAndGet(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	c := damCase("dry", 80)
	res := run(t, c)

	rec, err := s.Save(ctx, c, res)
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)
	require.NotNil(t, rec.FS)
	assert.InDelta(t, 4.823, *rec.FS, 1e-9)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "dry", got.Name)
	assert.Equal(t, bishop.Converged, got.Outcome)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	require.NotNil(t, got.Result)
	assert.Len(t, got.Result.Slices, 30)
	assert.Equal(t, res.FS, got.Result.FS)
	require.NotNil(t, got.Case)
	assert.Equal(t, c.Circle, got.Case.Circle)
}

func TestSaveNoIntersection(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	c := damCase("high", 300)
	rec, err := s.Save(ctx, c, run(t, c))
	require.NoError(t, err)
	assert.Nil(t, rec.FS)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, bishop.NoIntersection, got.Outcome)
	assert.Nil(t, got.FS)
}

func TestGetUnknown(t *testing.T) {
	s := tempStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListNewestFirst(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		c := damCase(name, 80)
		_, err := s.Save(ctx, c, run(t, c))
		require.NoError(t, err)
	}

	recs, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "third", recs[0].Name)
	assert.Equal(t, "second", recs[1].Name)
	assert.Nil(t, recs[0].Result)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDelete(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	c := damCase("gone", 80)
	rec, err := s.Save(ctx, c, run(t, c))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, rec.ID))
	_, err = s.Get(ctx, rec.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Delete(ctx, rec.ID), ErrNotFound))
}
