package fog_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/fog"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
)

type ExplorationTestSuite struct {
	suite.Suite
	exploration *fog.Exploration
}

func TestExplorationSuite(t *testing.T) {
	suite.Run(t, new(ExplorationTestSuite))
}

func (s *ExplorationTestSuite) SetupTest() {
	s.exploration = fog.NewExploration(nil, "s1", "u1", 100)
}

func vision(id string, x, y, radius float64, constrained bool) *sources.Source {
	return &sources.Source{
		ID:   id,
		Kind: sources.KindVision,
		Data: sources.Data{X: x, Y: y, Dim: radius},
		FOV:  &engine.Polygon{Polygon: &geometry.Polygon{}, Constrained: constrained},
	}
}

func (s *ExplorationTestSuite) TestPositionKey() {
	testCases := []struct {
		name     string
		point    geometry.Point
		grid     float64
		expected string
	}{
		{"cell center", geometry.Point{X: 150, Y: 250}, 100, "150_250"},
		{"cell corner", geometry.Point{X: 100, Y: 200}, 100, "150_250"},
		{"negative coordinates", geometry.Point{X: -10, Y: -160}, 100, "-50_-150"},
		{"odd grid", geometry.Point{X: 75, Y: 10}, 50, "75_25"},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Assert().Equal(tc.expected, fog.PositionKey(tc.point, tc.grid))
		})
	}
}

func (s *ExplorationTestSuite) TestExploreRules() {
	s.Assert().True(s.exploration.Explore(vision("a", 150, 150, 300, true), false), "first entry")
	s.Assert().False(s.exploration.Explore(vision("a", 160, 140, 300, true), false), "same cell, same entry")
	s.Assert().True(s.exploration.Explore(vision("a", 150, 150, 200, false), false), "no longer limited, even with a smaller radius")
	s.Assert().Equal(entities.FogPosition{Radius: 200}, s.exploration.Positions()["150_150"])
	s.Assert().False(s.exploration.Explore(vision("a", 150, 150, 150, false), false), "smaller radius")
	s.Assert().False(s.exploration.Explore(vision("a", 150, 150, 200, true), false), "becoming limited is no improvement")
	s.Assert().True(s.exploration.Explore(vision("a", 150, 150, 400, true), false), "larger radius")

	s.Assert().Equal(map[string]entities.FogPosition{
		"150_150": {Radius: 400, Limit: true},
	}, s.exploration.Positions())

	s.Run("force replaces a better entry", func() {
		s.Assert().True(s.exploration.Explore(vision("a", 150, 150, 100, false), true))
		s.Assert().Equal(entities.FogPosition{Radius: 100}, s.exploration.Positions()["150_150"])
	})

	s.Run("force with an identical entry changes nothing", func() {
		s.Assert().False(s.exploration.Explore(vision("a", 150, 150, 100, false), true))
	})

	s.Run("nil source", func() {
		s.Assert().False(s.exploration.Explore(nil, true))
	})
}

func (s *ExplorationTestSuite) TestExploreReportsChanges() {
	steps := []struct {
		src   *sources.Source
		force bool
	}{
		{vision("a", 50, 50, 100, false), false},
		{vision("a", 50, 50, 100, false), false},
		{vision("b", 250, 50, 100, true), false},
		{vision("b", 250, 50, 100, false), false},
		{vision("b", 250, 50, 50, true), false},
		{vision("b", 250, 50, 50, true), true},
		{vision("c", 50, 50, 90, false), true},
		{vision("c", 50, 50, 90, false), true},
		{vision("d", 950, 950, 0, false), false},
	}

	for i, step := range steps {
		before := s.exploration.Positions()
		changed := s.exploration.Explore(step.src, step.force)
		after := s.exploration.Positions()
		s.Assert().Equal(!reflect.DeepEqual(before, after), changed, "step %d", i)
	}
}

func (s *ExplorationTestSuite) TestWrapsStoredRecord() {
	doc := entities.NewFogExploration("s1", "u1")
	doc.Positions["150_150"] = entities.FogPosition{Radius: 500}
	e := fog.NewExploration(doc, "s1", "u1", 100)

	s.Assert().False(e.Explore(vision("a", 150, 150, 300, false), false))
	s.Assert().Len(e.Document().Positions, 1)

	e.Document().Positions["x"] = entities.FogPosition{}
	s.Assert().Len(e.Positions(), 1, "documents are copies")
}
