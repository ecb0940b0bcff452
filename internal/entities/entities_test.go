package entities_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
)

type EntitiesTestSuite struct {
	suite.Suite
}

func TestEntitiesSuite(t *testing.T) {
	suite.Run(t, new(EntitiesTestSuite))
}

func (s *EntitiesTestSuite) TestSceneDimensions() {
	scene := &entities.Scene{ID: "s1", Width: 1000, Height: 800, Padding: 0.25, GridSize: 100}
	s.Require().NoError(scene.Validate())

	dims := scene.Dimensions()
	s.Assert().Equal(geometry.Rect{X: 300, Y: 200, Width: 1000, Height: 800}, dims.SceneRect)
	s.Assert().Equal(geometry.Rect{X: 0, Y: 0, Width: 1600, Height: 1200}, dims.Rect)
	s.Assert().Equal(100.0, dims.Size)
}

func (s *EntitiesTestSuite) TestSceneDefaultsGrid() {
	scene := &entities.Scene{ID: "s1", Width: 500, Height: 500}
	dims := scene.Dimensions()
	s.Assert().Equal(float64(entities.DefaultGridSize), dims.Size)
	s.Assert().Equal(dims.Rect, dims.SceneRect)
}

func (s *EntitiesTestSuite) TestSceneValidate() {
	err := (&entities.Scene{Padding: 2}).Validate()
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))

	var nilScene *entities.Scene
	s.Assert().Error(nilScene.Validate())
}

func (s *EntitiesTestSuite) TestFogExplorationRaster() {
	fog := entities.NewFogExploration("s1", "u1")
	s.Assert().False(fog.HasRaster())

	bad := "not an image"
	fog.Explored = &bad
	s.Assert().False(fog.HasRaster())

	good := entities.FogExplorationDataPrefix + "AAAA"
	fog.Explored = &good
	s.Assert().True(fog.HasRaster())
}

func (s *EntitiesTestSuite) TestFogExplorationClone() {
	raster := entities.FogExplorationDataPrefix + "AAAA"
	fog := entities.NewFogExploration("s1", "u1")
	fog.Explored = &raster
	fog.Positions["1_1"] = entities.FogPosition{Radius: 300}

	clone := fog.Clone()
	clone.Positions["2_2"] = entities.FogPosition{Radius: 10}
	*clone.Explored = "changed"

	s.Assert().Len(fog.Positions, 1)
	s.Assert().Equal(raster, *fog.Explored)
}

func (s *EntitiesTestSuite) TestPlaceableCenter() {
	p := &entities.Placeable{X: 100, Y: 200, Width: 100, Height: 60}
	s.Assert().Equal(geometry.Point{X: 150, Y: 230}, p.Center())
	s.Assert().Equal(15.0, p.Tolerance())
}
