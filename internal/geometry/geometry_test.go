package geometry_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-perception/internal/geometry"
)

type GeometryTestSuite struct {
	suite.Suite
}

func TestGeometrySuite(t *testing.T) {
	suite.Run(t, new(GeometryTestSuite))
}

func (s *GeometryTestSuite) TestOrient2dFast() {
	a := geometry.Point{X: 0, Y: 0}
	b := geometry.Point{X: 10, Y: 0}

	s.Run("point below the line on screen is negative", func() {
		s.Assert().Less(geometry.Orient2dFast(a, b, geometry.Point{X: 5, Y: 5}), 0.0)
	})
	s.Run("point above the line on screen is positive", func() {
		s.Assert().Greater(geometry.Orient2dFast(a, b, geometry.Point{X: 5, Y: -5}), 0.0)
	})
	s.Run("collinear is zero", func() {
		s.Assert().Equal(0.0, geometry.Orient2dFast(a, b, geometry.Point{X: 20, Y: 0}))
	})
}

func (s *GeometryTestSuite) TestLineSegmentIntersects() {
	testCases := []struct {
		name       string
		a, b, c, d geometry.Point
		expected   bool
	}{
		{
			name:     "crossing",
			a:        geometry.Point{X: 0, Y: 0},
			b:        geometry.Point{X: 10, Y: 10},
			c:        geometry.Point{X: 0, Y: 10},
			d:        geometry.Point{X: 10, Y: 0},
			expected: true,
		},
		{
			name:     "disjoint",
			a:        geometry.Point{X: 0, Y: 0},
			b:        geometry.Point{X: 1, Y: 1},
			c:        geometry.Point{X: 5, Y: 5},
			d:        geometry.Point{X: 6, Y: 0},
			expected: false,
		},
		{
			name:     "touching at endpoint",
			a:        geometry.Point{X: 0, Y: 0},
			b:        geometry.Point{X: 10, Y: 0},
			c:        geometry.Point{X: 10, Y: 0},
			d:        geometry.Point{X: 10, Y: 10},
			expected: true,
		},
		{
			name:     "collinear overlap is not an intersection",
			a:        geometry.Point{X: 0, Y: 0},
			b:        geometry.Point{X: 10, Y: 0},
			c:        geometry.Point{X: 5, Y: 0},
			d:        geometry.Point{X: 15, Y: 0},
			expected: false,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Assert().Equal(tc.expected, geometry.LineSegmentIntersects(tc.a, tc.b, tc.c, tc.d))
		})
	}
}

func (s *GeometryTestSuite) TestLineLineIntersection() {
	s.Run("perpendicular lines", func() {
		i, ok := geometry.LineLineIntersection(
			geometry.Point{X: 0, Y: 5}, geometry.Point{X: 10, Y: 5},
			geometry.Point{X: 2, Y: 0}, geometry.Point{X: 2, Y: 10},
		)
		s.Require().True(ok)
		s.Assert().InDelta(2.0, i.X, 1e-9)
		s.Assert().InDelta(5.0, i.Y, 1e-9)
		s.Assert().InDelta(0.2, i.T0, 1e-9)
		s.Assert().InDelta(0.5, i.T1, 1e-9)
	})

	s.Run("parallel lines", func() {
		_, ok := geometry.LineLineIntersection(
			geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0},
			geometry.Point{X: 0, Y: 5}, geometry.Point{X: 10, Y: 5},
		)
		s.Assert().False(ok)
	})

	s.Run("shared endpoint is exact", func() {
		i, ok := geometry.LineLineIntersection(
			geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0},
			geometry.Point{X: 10, Y: 0}, geometry.Point{X: 10, Y: 10},
		)
		s.Require().True(ok)
		s.Assert().Equal(1.0, i.T0)
		s.Assert().Equal(0.0, i.T1)
	})

	s.Run("segment variant rejects points beyond the ends", func() {
		_, ok := geometry.LineSegmentIntersection(
			geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1, Y: 0},
			geometry.Point{X: 5, Y: -1}, geometry.Point{X: 5, Y: 1},
		)
		s.Assert().False(ok)
	})
}

func (s *GeometryTestSuite) TestVertexKey() {
	s.Assert().Equal(geometry.VertexKey(10.2, 20.9), geometry.VertexKey(10.7, 20.1))
	s.Assert().NotEqual(geometry.VertexKey(10, 20), geometry.VertexKey(11, 20))
	s.Assert().Equal(int64(3*65536+4), geometry.VertexKey(3.5, 4.5))
}

func (s *GeometryTestSuite) TestPolygonContains() {
	square := geometry.NewPolygon(
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 10, Y: 0},
		geometry.Point{X: 10, Y: 10},
		geometry.Point{X: 0, Y: 10},
	)

	s.Assert().True(square.Contains(geometry.Point{X: 5, Y: 5}))
	s.Assert().False(square.Contains(geometry.Point{X: 15, Y: 5}))
	s.Assert().False((&geometry.Polygon{}).Contains(geometry.Point{}))
	s.Assert().InDelta(100.0, math.Abs(square.Area()), 1e-9)
	s.Assert().True(square.IsConvex())
}

func (s *GeometryTestSuite) TestClipConvex() {
	subject := geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}.ToPolygon()
	clip := geometry.Rect{X: 5, Y: 5, Width: 10, Height: 10}.ToPolygon()

	out := subject.ClipConvex(clip)
	s.Require().Equal(4, out.Len())
	s.Assert().InDelta(25.0, math.Abs(out.Area()), 1e-9)
	s.Assert().True(out.Contains(geometry.Point{X: 7, Y: 7}))
	s.Assert().False(out.Contains(geometry.Point{X: 2, Y: 2}))

	s.Run("disjoint clip is empty", func() {
		far := geometry.Rect{X: 100, Y: 100, Width: 5, Height: 5}.ToPolygon()
		s.Assert().True(subject.ClipConvex(far).IsEmpty())
	})
}

func (s *GeometryTestSuite) TestRect() {
	r := geometry.Rect{X: 0, Y: 0, Width: 100, Height: 50}
	s.Assert().True(r.Contains(geometry.Point{X: 100, Y: 50}))
	s.Assert().False(r.Contains(geometry.Point{X: 101, Y: 0}))
	s.Assert().Equal(geometry.Rect{X: -10, Y: -10, Width: 120, Height: 70}, r.Pad(10))
	s.Assert().Equal(geometry.Rect{X: 50, Y: 25, Width: 50, Height: 25},
		r.Intersect(geometry.Rect{X: 50, Y: 25, Width: 100, Height: 100}))
	s.Assert().True(r.LineSegmentIntersects(geometry.Point{X: -10, Y: 25}, geometry.Point{X: 200, Y: 25}))
}

func (s *GeometryTestSuite) TestLineCircleIntersection() {
	c := geometry.Circle{X: 0, Y: 0, Radius: 5}
	ts := geometry.LineCircleIntersection(geometry.Point{X: -10, Y: 0}, geometry.Point{X: 10, Y: 0}, c)
	s.Require().Len(ts, 2)
	s.Assert().InDelta(0.25, ts[0], 1e-9)
	s.Assert().InDelta(0.75, ts[1], 1e-9)

	s.Assert().Empty(geometry.LineCircleIntersection(geometry.Point{X: -10, Y: 10}, geometry.Point{X: 10, Y: 10}, c))
}

func (s *GeometryTestSuite) TestNormalizeRadians() {
	s.Assert().InDelta(math.Pi, geometry.NormalizeRadians(-math.Pi), 1e-12)
	s.Assert().InDelta(0, geometry.NormalizeRadians(geometry.TwoPi), 1e-12)
}
