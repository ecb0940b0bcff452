package fog_test

import (
	"context"
	"fmt"
	"image"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-perception/internal/clients/socket"
	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/fog"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-perception/internal/render"
	rendermock "github.com/KirkDiggler/rpg-perception/internal/render/mock"
	"github.com/KirkDiggler/rpg-perception/internal/render/raster"
	fogexploration "github.com/KirkDiggler/rpg-perception/internal/repositories/fog_exploration"
	fogexplorationmock "github.com/KirkDiggler/rpg-perception/internal/repositories/fog_exploration/mock"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
	"github.com/KirkDiggler/rpg-perception/internal/testutils"
	"github.com/KirkDiggler/rpg-perception/internal/testutils/mocks"
	"github.com/KirkDiggler/rpg-perception/internal/visibility"
)

type ManagerTestSuite struct {
	suite.Suite
	ctx         context.Context
	clock       *clock.Manual
	host        *raster.Host
	repo        *fogexploration.InMemoryRepository
	broadcaster *socket.Local
	events      []socket.Event
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (s *ManagerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s.host = raster.New(nil)
	s.repo = fogexploration.NewInMemory(s.clock)
	s.broadcaster = socket.NewLocal()
	s.events = nil
	_, err := s.broadcaster.Subscribe(s.ctx, func(e socket.Event) {
		s.events = append(s.events, e)
	})
	s.Require().NoError(err)
}

func dims(w, h float64) entities.Dimensions {
	scene := &entities.Scene{ID: "s1", Width: w, Height: h, GridSize: 100}
	return scene.Dimensions()
}

func (s *ManagerTestSuite) manager(cfg fog.Config) *fog.Manager {
	if cfg.Host == nil {
		cfg.Host = s.host
	}
	if cfg.Repository == nil {
		cfg.Repository = s.repo
	}
	cfg.Broadcaster = s.broadcaster
	cfg.Clock = s.clock
	cfg.SceneID = "s1"
	if cfg.UserID == "" {
		cfg.UserID = "u1"
	}
	m, err := fog.New(&cfg)
	s.Require().NoError(err)
	return m
}

// frame returns a mask revealing a disc around (x, y) and the vision source there
func frame(id string, x, y, radius float64) (*visibility.Mask, []*sources.Source) {
	mask := &visibility.Mask{Base: []geometry.Circle{{X: x, Y: y, Radius: radius}}}
	return mask, []*sources.Source{vision(id, x, y, radius, false)}
}

func (s *ManagerTestSuite) refresh(m *fog.Manager, id string, x, y, radius float64) *fog.RefreshResult {
	mask, vis := frame(id, x, y, radius)
	res, err := m.Refresh(mask, vis, false)
	s.Require().NoError(err)
	return res
}

func (s *ManagerTestSuite) alpha(img image.Image) *image.Alpha {
	a, ok := img.(*image.Alpha)
	s.Require().True(ok, "raster host extracts alpha images")
	return a
}

func (s *ManagerTestSuite) TestConfigValidation() {
	_, err := fog.New(&fog.Config{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = fog.New(nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *ManagerTestSuite) TestCommitAndDebouncedSave() {
	m := s.manager(fog.Config{Dimensions: dims(5000, 2500)})
	s.Require().InDelta(0.8192, m.Resolution(), 1e-12)
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{RequesterID: "u1"}))

	for i := 0; i < 11; i++ {
		res := s.refresh(m, fmt.Sprintf("t%d", i), float64(i)*400+50, 250, 150)
		s.Assert().True(res.Explored)
		s.Assert().Equal(i == 9, res.Committed, "frame %d", i)
		if i == 9 {
			s.Assert().Equal(0, m.Snapshot().Pending)
		}
	}
	snap := m.Snapshot()
	s.Assert().Equal(1, snap.Pending)
	s.Assert().True(snap.Updated)
	s.Assert().Len(snap.Positions, 11)

	s.Run("nothing is saved before the quiet period", func() {
		s.clock.Advance(2 * time.Second)
		s.Require().NoError(m.Tick(s.ctx))
		_, err := s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
		s.Assert().True(errors.IsNotFound(err))
	})

	s.Run("the raster is saved after three seconds", func() {
		s.clock.Advance(time.Second)
		s.Require().NoError(m.Tick(s.ctx))

		out, err := s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
		s.Require().NoError(err)
		s.Require().True(out.Exploration.HasRaster())
		s.Assert().Len(out.Exploration.Positions, 11)

		img, err := fog.DecodeRaster(*out.Exploration.Explored)
		s.Require().NoError(err)
		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		s.Assert().LessOrEqual(max(w, h), fog.MaxTextureSize)
		s.Assert().Equal(4096, w)
		s.Assert().Equal(2048, h)
		for _, px := range []int{w, h} {
			units := float64(px) / m.Resolution()
			s.Assert().InDelta(math.Round(units), units, 1e-6)
		}
		s.Assert().False(m.Snapshot().Updated)
	})

	s.Run("a second save updates the same record", func() {
		first, err := s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
		s.Require().NoError(err)

		_, err = m.Commit()
		s.Require().NoError(err)
		s.Require().NoError(m.Save(s.ctx))

		second, err := s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
		s.Require().NoError(err)
		s.Assert().Equal(first.Exploration.ID, second.Exploration.ID)
	})
}

func (s *ManagerTestSuite) TestCommitIsPixelwiseMax() {
	m := s.manager(fog.Config{Dimensions: dims(200, 100), CommitThreshold: 1})
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))

	s.Require().True(s.refresh(m, "a", 60, 50, 40).Committed)
	first, err := m.Raster()
	s.Require().NoError(err)

	mask, vis := frame("b", 120, 50, 40)
	expected := s.host
	tex, err := expected.CreateRenderTexture(render.TextureOptions{Width: 200, Height: 100, Resolution: 1})
	s.Require().NoError(err)
	s.Require().NoError(expected.RenderInto(mask.Draw(), tex, &render.Transform{Scale: 1}))
	pending, err := expected.Extract(tex)
	s.Require().NoError(err)

	res, err := m.Refresh(mask, vis, false)
	s.Require().NoError(err)
	s.Require().True(res.Committed)
	second, err := m.Raster()
	s.Require().NoError(err)

	prev, add, got := s.alpha(first), s.alpha(pending), s.alpha(second)
	s.Require().Equal(prev.Bounds(), got.Bounds())
	for i := range got.Pix {
		s.Require().Equal(max(prev.Pix[i], add.Pix[i]), got.Pix[i], "pixel %d", i)
	}
	s.Assert().NotZero(got.AlphaAt(60, 50).A)
	s.Assert().NotZero(got.AlphaAt(120, 50).A)
	s.Assert().Zero(got.AlphaAt(195, 5).A)
}

func (s *ManagerTestSuite) TestUnchangedFramesAreNotStaged() {
	m := s.manager(fog.Config{Dimensions: dims(400, 400)})
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))

	s.Assert().True(s.refresh(m, "a", 150, 150, 100).Explored)
	for i := 0; i < 20; i++ {
		res := s.refresh(m, "a", 150, 150, 100)
		s.Assert().False(res.Explored)
		s.Assert().False(res.Committed)
	}
	s.Assert().Equal(1, m.Snapshot().Pending)
}

func (s *ManagerTestSuite) TestCommitRequiresLoad() {
	m := s.manager(fog.Config{Dimensions: dims(100, 100)})
	_, err := m.Commit()
	s.Assert().True(errors.IsFailedPrecondition(err))

	res := s.refresh(m, "a", 50, 50, 10)
	s.Assert().False(res.Explored)
}

func (s *ManagerTestSuite) TestLoadPermissions() {
	m := s.manager(fog.Config{Dimensions: dims(100, 100)})
	err := m.Load(s.ctx, fog.LoadOptions{RequesterID: "u2"})
	s.Assert().True(errors.IsPermissionDenied(err))

	s.Assert().NoError(m.Load(s.ctx, fog.LoadOptions{RequesterID: "u2", IsGM: true}))
}

func (s *ManagerTestSuite) TestLoadInstallsStoredRaster() {
	m := s.manager(fog.Config{Dimensions: dims(200, 200), CommitThreshold: 1})
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))
	s.refresh(m, "a", 100, 100, 50)
	s.Require().NoError(m.Save(s.ctx))
	m.Close()

	reloaded := s.manager(fog.Config{Dimensions: dims(200, 200)})
	s.Require().NoError(reloaded.Load(s.ctx, fog.LoadOptions{}))
	snap := reloaded.Snapshot()
	s.Assert().Len(snap.Positions, 1)
	s.Assert().NotEmpty(snap.Exploration.ID)

	img, err := reloaded.Raster()
	s.Require().NoError(err)
	a := s.alpha(img)
	s.Assert().Greater(a.AlphaAt(100, 100).A, uint8(200))
	s.Assert().Less(a.AlphaAt(5, 5).A, uint8(40))
}

func (s *ManagerTestSuite) TestCorruptRasterStartsEmpty() {
	doc := entities.NewFogExploration("s1", "u1")
	bad := entities.FogExplorationDataPrefix + "/9j/AAAA"
	doc.Explored = &bad
	_, err := s.repo.Create(s.ctx, fogexploration.CreateInput{Exploration: doc})
	s.Require().NoError(err)

	m := s.manager(fog.Config{Dimensions: dims(100, 100)})
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))
	img, err := m.Raster()
	s.Require().NoError(err)
	for _, v := range s.alpha(img).Pix {
		s.Require().Zero(v)
	}
}

func (s *ManagerTestSuite) TestReset() {
	resets := 0
	m := s.manager(fog.Config{
		Dimensions:      dims(200, 200),
		CommitThreshold: 1,
		OnReset:         func() { resets++ },
	})
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))

	other := entities.NewFogExploration("s1", "u2")
	_, err := s.repo.Create(s.ctx, fogexploration.CreateInput{Exploration: other})
	s.Require().NoError(err)

	s.refresh(m, "a", 50, 50, 40)
	s.refresh(m, "b", 150, 150, 40)
	before := m.Snapshot()
	s.Require().True(before.Updated)
	s.Require().NotNil(before.Texture)

	s.Require().NoError(m.Reset(s.ctx))

	s.Require().Len(s.events, 1)
	s.Assert().Equal(socket.EventResetFog, s.events[0].Type)
	s.Assert().Equal("s1", s.events[0].SceneID)
	s.Assert().Equal(1, resets)

	_, err = s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u2"})
	s.Assert().True(errors.IsNotFound(err), "every user's exploration of the scene is removed")

	after := m.Snapshot()
	s.Assert().Nil(after.Exploration)
	s.Assert().False(after.Updated)
	s.Assert().Zero(after.Pending)
	s.Assert().Zero(after.Pooled)
	s.Assert().Nil(after.Texture)
	s.Assert().True(before.Texture.Destroyed())
	s.Assert().Zero(s.host.Allocated())

	s.Run("the debounced save does not resurrect the old record", func() {
		s.clock.Advance(5 * time.Second)
		s.Require().NoError(m.Tick(s.ctx))
		_, err := s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
		s.Assert().True(errors.IsNotFound(err))
	})

	s.Run("exploration starts over", func() {
		res := s.refresh(m, "b", 150, 150, 40)
		s.Assert().True(res.Explored)
		s.Assert().True(res.Committed)
		s.Assert().Equal(map[string]entities.FogPosition{"150_150": {Radius: 40}}, m.Snapshot().Positions)

		img, err := m.Raster()
		s.Require().NoError(err)
		s.Assert().Zero(s.alpha(img).AlphaAt(50, 50).A, "old exploration is gone")
	})
}

func (s *ManagerTestSuite) TestDegradedMode() {
	// room for exactly one 100x100 texture
	host := raster.New(&raster.Config{MaxPixels: 100 * 100})
	m := s.manager(fog.Config{Host: host, Dimensions: dims(100, 100), CommitThreshold: 1})
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))

	res := s.refresh(m, "a", 50, 50, 20)
	s.Assert().True(res.Explored)
	s.Assert().False(res.Committed)

	snap := m.Snapshot()
	s.Assert().True(snap.Degraded)
	s.Assert().False(snap.Updated)

	s.refresh(m, "b", 10, 10, 5)
	s.Assert().Equal(1, m.Snapshot().Pending, "degraded frames are not staged")

	committed, err := m.Commit()
	s.Require().NoError(err)
	s.Assert().False(committed)
}

func (s *ManagerTestSuite) TestOverlayVideo() {
	m := s.manager(fog.Config{Dimensions: dims(100, 100), Overlay: "fog.webm"})
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))

	video := m.Snapshot().OverlayVideo
	s.Require().NotNil(video)
	s.Assert().True(video.Playing())

	m.Close()
	s.Assert().False(video.Playing())
	s.Assert().Zero(s.host.Allocated())
}

func (s *ManagerTestSuite) TestSaveFallsBackToUpdate() {
	m := s.manager(fog.Config{Dimensions: dims(100, 100), CommitThreshold: 1})
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))
	s.refresh(m, "a", 50, 50, 20)

	// another client created the record after this manager loaded
	doc := entities.NewFogExploration("s1", "u1")
	_, err := s.repo.Create(s.ctx, fogexploration.CreateInput{Exploration: doc})
	s.Require().NoError(err)

	s.Require().NoError(m.Save(s.ctx))
	out, err := s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
	s.Require().NoError(err)
	s.Assert().True(out.Exploration.HasRaster())
	s.Assert().False(m.Snapshot().Updated)
}

func (s *ManagerTestSuite) TestSaveFailureRetries() {
	ctrl := gomock.NewController(s.T())
	repo := fogexplorationmock.NewMockRepository(ctrl)
	m := s.manager(fog.Config{Repository: repo, Dimensions: dims(100, 100), CommitThreshold: 1})

	mocks.ExpectFogNotFound(s.ctx, repo, "s1", "u1")
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))
	s.refresh(m, "a", 50, 50, 20)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("redis is down"))
	s.clock.Advance(fog.DefaultSaveDelay)
	err := m.Tick(s.ctx)
	s.Assert().True(errors.IsUnavailable(err))

	snap := m.Snapshot()
	s.Assert().True(snap.Updated, "a failed write stays dirty")
	s.Assert().Equal(s.clock.Now().Add(fog.DefaultSaveDelay), snap.SaveAt)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input fogexploration.CreateInput) (*fogexploration.CreateOutput, error) {
			s.Assert().True(input.Exploration.HasRaster())
			s.Assert().Len(input.Exploration.Positions, 1)
			out := input.Exploration.Clone()
			out.ID = "fog_1"
			return &fogexploration.CreateOutput{Exploration: out}, nil
		})
	s.clock.Advance(fog.DefaultSaveDelay)
	s.Require().NoError(m.Tick(s.ctx))
	s.Assert().False(m.Snapshot().Updated)
	s.Assert().Equal("fog_1", m.Snapshot().Exploration.ID)
}

func (s *ManagerTestSuite) TestSaveUpdatesStoredRecord() {
	ctrl := gomock.NewController(s.T())
	repo := fogexplorationmock.NewMockRepository(ctrl)
	m := s.manager(fog.Config{Repository: repo, Dimensions: dims(100, 100), CommitThreshold: 1})

	mocks.ExpectFogGet(s.ctx, repo, "s1", "u1", testutils.FogExploration("s1", "u1"), nil)
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))
	s.refresh(m, "a", 50, 50, 20)

	mocks.ExpectFogUpdate(s.ctx, repo)
	s.Require().NoError(m.Save(s.ctx))
	s.Assert().Equal("fog-test-001", m.Snapshot().Exploration.ID)
}

func (s *ManagerTestSuite) TestFirstSaveCreates() {
	ctrl := gomock.NewController(s.T())
	repo := fogexplorationmock.NewMockRepository(ctrl)
	m := s.manager(fog.Config{Repository: repo, Dimensions: dims(100, 100), CommitThreshold: 1})

	mocks.ExpectFogNotFound(s.ctx, repo, "s1", "u1")
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))
	s.refresh(m, "a", 50, 50, 20)

	mocks.ExpectFogCreate(s.ctx, repo)
	s.Require().NoError(m.Save(s.ctx))
	s.Assert().Equal("fog-test-001", m.Snapshot().Exploration.ID)
}

func (s *ManagerTestSuite) TestAllocationFailureDegrades() {
	ctrl := gomock.NewController(s.T())
	host := rendermock.NewMockHost(ctrl)

	// one attempt, then a retry after flushing the pool
	host.EXPECT().
		CreateRenderTexture(gomock.Any()).
		Return(nil, errors.ResourceExhausted("texture budget exceeded")).
		Times(2)

	m := s.manager(fog.Config{Host: host, Dimensions: dims(200, 100), CommitThreshold: 1})
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))
	s.Assert().True(m.Snapshot().Degraded)

	res := s.refresh(m, "a", 100, 100, 50)
	s.Assert().True(res.Explored, "positions are still tracked")
	s.Assert().False(res.Committed)
	s.Assert().Zero(m.Snapshot().Pending)
}

func (s *ManagerTestSuite) TestCommitRenderFailure() {
	ctrl := gomock.NewController(s.T())
	host := rendermock.NewMockHost(ctrl)

	texture := func(id string) *rendermock.MockTexture {
		tex := rendermock.NewMockTexture(ctrl)
		tex.EXPECT().ID().Return(id).AnyTimes()
		tex.EXPECT().Destroyed().Return(false).AnyTimes()
		return tex
	}
	initial, staged := texture("t1"), texture("t2")

	gomock.InOrder(
		host.EXPECT().CreateRenderTexture(gomock.Any()).Return(initial, nil),
		host.EXPECT().CreateRenderTexture(gomock.Any()).Return(staged, nil),
	)
	host.EXPECT().
		RenderInto(gomock.Any(), staged, gomock.Any()).
		Return(errors.Internal("rasterizer failed"))

	m := s.manager(fog.Config{Host: host, Dimensions: dims(200, 100), CommitThreshold: 1})
	s.Require().NoError(m.Load(s.ctx, fog.LoadOptions{}))

	mask, vis := frame("a", 100, 100, 50)
	_, err := m.Refresh(mask, vis, false)
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "failed to commit fog")

	snap := m.Snapshot()
	s.Assert().Equal(initial, snap.Texture, "the committed texture is kept")
	s.Assert().Equal(1, snap.Pooled, "the staged texture is recycled")
	s.Assert().False(snap.Updated)
}
