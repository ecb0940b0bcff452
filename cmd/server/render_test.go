package main

import (
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RenderTestSuite struct {
	suite.Suite
	dir string
}

func TestRenderTestSuite(t *testing.T) {
	suite.Run(t, new(RenderTestSuite))
}

func (s *RenderTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	scenePath = filepath.Join("testdata", "dungeon.yaml")
	outPath = filepath.Join(s.dir, "out.jpg")
}

func (s *RenderTestSuite) TestLoadScene() {
	scene, err := loadScene(scenePath)
	s.Require().NoError(err)
	s.Assert().Equal("dungeon", scene.ID)
	s.Assert().Len(scene.Walls, 2)
	s.Assert().Len(scene.Placeables, 2)
	s.Assert().NoError(scene.Validate())
}

func (s *RenderTestSuite) TestRenderPolygon() {
	originX, originY = 150, 500
	polygonType = "sight"
	radius = 0
	resolution = 0.5

	s.Require().NoError(renderPolygon(renderPolygonCmd, nil))

	f, err := os.Open(outPath)
	s.Require().NoError(err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	s.Require().NoError(err)
	s.Assert().Equal(600, img.Bounds().Dx())
}

func (s *RenderTestSuite) TestRenderFog() {
	fogUser = "u1"
	frames = 2

	s.Require().NoError(renderFog(renderFogCmd, nil))
	_, err := os.Stat(outPath)
	s.Assert().NoError(err)
}

func (s *RenderTestSuite) TestMissingScene() {
	_, err := loadScene(filepath.Join(s.dir, "missing.yaml"))
	s.Assert().Error(err)
}
