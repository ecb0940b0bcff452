package visibility_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
	"github.com/KirkDiggler/rpg-perception/internal/visibility"
	visibilitymock "github.com/KirkDiggler/rpg-perception/internal/visibility/mock"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

type CompositorTestSuite struct {
	suite.Suite
	store      *walls.Store
	registry   *sources.Registry
	compositor *visibility.Compositor
}

func TestCompositorSuite(t *testing.T) {
	suite.Run(t, new(CompositorTestSuite))
}

func (s *CompositorTestSuite) SetupTest() {
	s.store = walls.NewStore(nil)
	scene := geometry.Rect{X: 100, Y: 100, Width: 1000, Height: 1000}
	s.store.SetBoundaries(scene.Pad(100), scene)

	eng, err := engine.New(&engine.Config{Walls: s.store})
	s.Require().NoError(err)
	s.registry, err = sources.NewRegistry(&sources.Config{Engine: eng})
	s.Require().NoError(err)
	s.compositor, err = visibility.New(&visibility.Config{
		Registry:  s.registry,
		Engine:    eng,
		SceneRect: scene,
	})
	s.Require().NoError(err)

	// a wall splitting the scene at x=600
	_, err = s.store.Upsert(walls.NormalWall("split", 600, 100, 600, 1100))
	s.Require().NoError(err)
}

func (s *CompositorTestSuite) add(src *sources.Source) {
	s.Require().NoError(s.registry.Add(src))
}

func (s *CompositorTestSuite) token(id string, x, y, radius float64, modes ...sources.ModeRef) {
	s.add(&sources.Source{
		ID:     id,
		Kind:   sources.KindVision,
		Object: id,
		Data:   sources.Data{X: x, Y: y, Dim: radius, DetectionModes: modes},
	})
}

func (s *CompositorTestSuite) TestNoVisionSources() {
	s.compositor.Refresh()
	p := geometry.Point{X: 300, Y: 300}
	s.Assert().True(s.compositor.TestVisibility(p, visibility.TestOptions{IsGM: true}))
	s.Assert().False(s.compositor.TestVisibility(p, visibility.TestOptions{}))
}

func (s *CompositorTestSuite) TestBasicSight() {
	s.token("t1", 300, 600, 400)
	mask := s.compositor.Refresh()

	s.Assert().True(mask.Contains(geometry.Point{X: 400, Y: 600}))
	s.Assert().False(mask.Contains(geometry.Point{X: 550, Y: 1000}), "out of range and unlit")
	s.Assert().False(mask.Contains(geometry.Point{X: 700, Y: 600}), "behind the wall")

	s.Assert().True(s.compositor.TestVisibility(geometry.Point{X: 400, Y: 600}, visibility.TestOptions{}))
	s.Assert().False(s.compositor.TestVisibility(geometry.Point{X: 550, Y: 1000}, visibility.TestOptions{}))

	s.Run("tolerance reaches around the wall edge", func() {
		p := geometry.Point{X: 605, Y: 600}
		s.Assert().False(s.compositor.TestVisibility(p, visibility.TestOptions{}))
		s.Assert().True(s.compositor.TestVisibility(p, visibility.TestOptions{Tolerance: 10}))
	})
}

func (s *CompositorTestSuite) TestLightsIlluminate() {
	s.token("t1", 300, 600, 50)
	s.add(&sources.Source{
		ID:   "torch",
		Kind: sources.KindLight,
		Data: sources.Data{X: 400, Y: 900, Dim: 150},
	})
	mask := s.compositor.Refresh()

	lit := geometry.Point{X: 450, Y: 900}
	s.Assert().True(mask.Contains(lit))
	s.Assert().True(s.compositor.TestVisibility(lit, visibility.TestOptions{}))

	s.Run("vision lights grant sight on their own", func() {
		s.add(&sources.Source{
			ID:   "beacon",
			Kind: sources.KindLight,
			Data: sources.Data{X: 900, Y: 300, Dim: 100, Vision: true},
		})
		s.compositor.Refresh()
		s.Assert().True(s.compositor.TestVisibility(geometry.Point{X: 900, Y: 320}, visibility.TestOptions{}))
	})
}

func (s *CompositorTestSuite) TestZeroRadiusVisionRevealsBase() {
	s.token("blind", 300, 300, 0)
	mask := s.compositor.Refresh()
	s.Require().Len(mask.Base, 1)
	s.Assert().True(mask.Contains(geometry.Point{X: 310, Y: 300}))
	s.Assert().False(mask.Contains(geometry.Point{X: 400, Y: 300}))
}

func (s *CompositorTestSuite) TestBufferSeparation() {
	s.token("inside", 150, 150, 500)
	s.compositor.Refresh()

	s.Assert().True(s.compositor.TestVisibility(geometry.Point{X: 200, Y: 200}, visibility.TestOptions{}))
	s.Assert().False(s.compositor.TestVisibility(geometry.Point{X: 50, Y: 50}, visibility.TestOptions{}))
}

func (s *CompositorTestSuite) TestSpecialModes() {
	s.token("seer", 300, 600, 200,
		sources.ModeRef{ID: visibility.ModeSeeInvisibility, Range: 200, Enabled: true},
		sources.ModeRef{ID: visibility.ModeSenseAll, Range: 500, Enabled: true},
	)
	s.compositor.Refresh()

	s.Run("invisible tokens are found by see invisibility", func() {
		target := &visibility.Target{ID: "ghost", Kind: visibility.TargetToken, Invisible: true}
		s.Assert().True(s.compositor.TestVisibility(geometry.Point{X: 400, Y: 600}, visibility.TestOptions{Object: target}))
		s.Assert().Equal(visibility.FilterGlow, target.DetectionFilter)
	})

	s.Run("sense all reaches through walls", func() {
		target := &visibility.Target{ID: "orc", Kind: visibility.TargetToken}
		s.Assert().True(s.compositor.TestVisibility(geometry.Point{X: 700, Y: 600}, visibility.TestOptions{Object: target}))
		s.Assert().Equal(visibility.FilterOutline, target.DetectionFilter)
	})

	s.Run("special modes only target tokens", func() {
		note := &visibility.Target{ID: "note", Kind: visibility.TargetNote}
		s.Assert().False(s.compositor.TestVisibility(geometry.Point{X: 700, Y: 600}, visibility.TestOptions{Object: note}))
	})

	s.Run("basic sight wins without a filter", func() {
		target := &visibility.Target{ID: "orc", Kind: visibility.TargetToken, DetectionFilter: "stale"}
		s.Assert().True(s.compositor.TestVisibility(geometry.Point{X: 400, Y: 600}, visibility.TestOptions{Object: target}))
		s.Assert().Equal(visibility.FilterNone, target.DetectionFilter)
	})
}

func (s *CompositorTestSuite) TestRegisteredMode() {
	ctrl := gomock.NewController(s.T())
	mode := visibilitymock.NewMockDetectionMode(ctrl)
	mode.EXPECT().ID().Return("clairvoyance").AnyTimes()
	mode.EXPECT().DetectionFilter().Return("crystal")
	mode.EXPECT().
		TestVisibility(gomock.Any(), sources.ModeRef{ID: "clairvoyance", Enabled: true}, gomock.Any()).
		DoAndReturn(func(src *sources.Source, _ sources.ModeRef, cfg *visibility.TestConfig) bool {
			s.Assert().Equal("oracle", src.ID)
			s.Assert().Equal("far", cfg.Object.ID)
			s.Assert().Len(cfg.Tests, 1)
			return true
		})

	s.Require().NoError(s.compositor.Modes().Register(mode))
	s.token("oracle", 300, 600, 10, sources.ModeRef{ID: "clairvoyance", Enabled: true})
	s.compositor.Refresh()

	target := &visibility.Target{ID: "far", Kind: visibility.TargetToken}
	s.Assert().True(s.compositor.TestVisibility(geometry.Point{X: 1000, Y: 1000}, visibility.TestOptions{Object: target}))
	s.Assert().Equal("crystal", target.DetectionFilter)
	s.Assert().Contains(s.compositor.Modes().IDs(), "clairvoyance")
}

func (s *CompositorTestSuite) TestUnregisteredModeIsSkipped() {
	s.token("oracle", 300, 600, 10, sources.ModeRef{ID: "clairvoyance", Enabled: true})
	s.compositor.Refresh()

	target := &visibility.Target{ID: "far", Kind: visibility.TargetToken}
	s.Assert().False(s.compositor.TestVisibility(geometry.Point{X: 1000, Y: 1000}, visibility.TestOptions{Object: target}))
	s.Assert().Equal(visibility.FilterNone, target.DetectionFilter)
}

func (s *CompositorTestSuite) TestRefreshIsIdempotent() {
	s.token("t1", 300, 600, 200)
	s.add(&sources.Source{ID: "torch", Kind: sources.KindLight, Data: sources.Data{X: 800, Y: 800, Dim: 100}})

	first := s.compositor.Refresh()
	second := s.compositor.Refresh()
	s.Require().Equal(len(first.FOV), len(second.FOV))
	for i := range first.FOV {
		s.Assert().Equal(first.FOV[i].Points, second.FOV[i].Points)
	}
	for i := range first.LOS {
		s.Assert().Equal(first.LOS[i].Points, second.LOS[i].Points)
	}
}
