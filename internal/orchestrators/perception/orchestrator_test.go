package perception_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-perception/internal/clients/socket"
	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/orchestrators/perception"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-perception/internal/render/raster"
	fogexploration "github.com/KirkDiggler/rpg-perception/internal/repositories/fog_exploration"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
	"github.com/KirkDiggler/rpg-perception/internal/testutils"
	"github.com/KirkDiggler/rpg-perception/internal/testutils/builders"
	"github.com/KirkDiggler/rpg-perception/internal/visibility"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx          context.Context
	clock        *clock.Manual
	host         *raster.Host
	repo         *fogexploration.InMemoryRepository
	broadcaster  *socket.Local
	orchestrator perception.Service
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s.host = raster.New(nil)
	s.repo = fogexploration.NewInMemory(s.clock)
	s.broadcaster = socket.NewLocal()
	s.orchestrator = s.newOrchestrator(0)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.Require().NoError(s.orchestrator.Close(s.ctx))
}

func (s *OrchestratorTestSuite) newOrchestrator(interval time.Duration) perception.Service {
	o, err := perception.NewOrchestrator(&perception.Config{
		Host:         s.host,
		Repository:   s.repo,
		Broadcaster:  s.broadcaster,
		Clock:        s.clock,
		IDGenerator:  idgen.NewSequential("session"),
		Fog:          perception.FogOptions{CommitThreshold: 1},
		TickInterval: interval,
	})
	s.Require().NoError(err)
	return o
}

// dungeon is a 1000x1000 room split by a closed door at x=500. The hero stands
// west of the door and the goblin east of it.
func dungeon() *entities.Scene {
	return testutils.DungeonScene()
}

func (s *OrchestratorTestSuite) load(userID string, isGM bool) *perception.LoadSceneOutput {
	out, err := s.orchestrator.LoadScene(s.ctx, &perception.LoadSceneInput{
		Scene:  dungeon(),
		UserID: userID,
		IsGM:   isGM,
	})
	s.Require().NoError(err)
	return out
}

func (s *OrchestratorTestSuite) tick(userID string) *perception.TickOutput {
	out, err := s.orchestrator.Tick(s.ctx, &perception.TickInput{SceneID: "s1", UserID: userID})
	s.Require().NoError(err)
	return out
}

func visibleByID(out *perception.TickOutput) map[string]bool {
	m := make(map[string]bool, len(out.Placeables))
	for _, p := range out.Placeables {
		m[p.ID] = p.Visible
	}
	return m
}

func (s *OrchestratorTestSuite) TestConfigValidation() {
	_, err := perception.NewOrchestrator(&perception.Config{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = perception.NewOrchestrator(nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestLoadSceneIsIdempotentPerUser() {
	first := s.load("u1", false)
	second := s.load("u1", false)

	s.Assert().Equal(first.SessionID, second.SessionID)
	s.Assert().True(first.FogEnabled)
	s.Assert().Greater(first.Resolution, 0.0)

	other := s.load("u2", false)
	s.Assert().NotEqual(first.SessionID, other.SessionID)
}

func (s *OrchestratorTestSuite) TestLoadSceneValidation() {
	_, err := s.orchestrator.LoadScene(s.ctx, &perception.LoadSceneInput{Scene: dungeon()})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.LoadScene(s.ctx, &perception.LoadSceneInput{
		Scene:  &entities.Scene{ID: "bad"},
		UserID: "u1",
	})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestFogDisabledWithoutTokenVision() {
	scene := dungeon()
	scene.TokenVision = false
	out, err := s.orchestrator.LoadScene(s.ctx, &perception.LoadSceneInput{Scene: scene, UserID: "u1"})
	s.Require().NoError(err)
	s.Assert().False(out.FogEnabled)
	s.Assert().Zero(out.Resolution)

	tick := s.tick("u1")
	vis := visibleByID(tick)
	s.Assert().True(vis["goblin"], "everything is visible without token vision")
	s.Assert().False(vis["secret"], "hidden placeables stay hidden from players")

	_, err = s.orchestrator.SaveFog(s.ctx, &perception.SaveFogInput{SceneID: "s1", UserID: "u1"})
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestDoorStateChangesVisibility() {
	s.load("u1", false)

	tick := s.tick("u1")
	vis := visibleByID(tick)
	s.Assert().True(vis["hero"])
	s.Assert().False(vis["goblin"], "the closed door blocks sight")
	s.Assert().Contains(tick.Doors, "door")

	out, err := s.orchestrator.SetDoorState(s.ctx, &perception.SetDoorStateInput{
		SceneID: "s1",
		WallID:  "door",
		State:   walls.DoorOpen,
	})
	s.Require().NoError(err)
	s.Assert().Equal(walls.DoorOpen, out.Wall.DoorState)

	tick = s.tick("u1")
	s.Assert().True(visibleByID(tick)["goblin"], "the open door no longer blocks sight")
}

func (s *OrchestratorTestSuite) TestSetDoorStateErrors() {
	s.load("u1", false)

	_, err := s.orchestrator.SetDoorState(s.ctx, &perception.SetDoorStateInput{SceneID: "s1", WallID: "nope"})
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.orchestrator.SetDoorState(s.ctx, &perception.SetDoorStateInput{SceneID: "s2", WallID: "door"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestWallChangesInvalidateSources() {
	s.load("u1", false)
	s.tick("u1")

	_, err := s.orchestrator.UpsertPlaceable(s.ctx, &perception.UpsertPlaceableInput{
		SceneID: "s1",
		Placeable: builders.NewTokenBuilder("goblin").At(250, 450).OwnedBy("gm").Build(),
	})
	s.Require().NoError(err)
	s.Assert().True(visibleByID(s.tick("u1"))["goblin"], "the goblin moved to the hero's side")

	_, err = s.orchestrator.ApplyWallChange(s.ctx, &perception.ApplyWallChangeInput{
		SceneID: "s1",
		Kind:    walls.ChangeCreate,
		Wall:    walls.NormalWall("screen", 250, 0, 250, 1000),
	})
	s.Require().NoError(err)
	s.Assert().False(visibleByID(s.tick("u1"))["goblin"], "the new wall hides the goblin")

	_, err = s.orchestrator.ApplyWallChange(s.ctx, &perception.ApplyWallChangeInput{
		SceneID: "s1",
		Kind:    walls.ChangeDelete,
		Wall:    walls.Wall{ID: "screen"},
	})
	s.Require().NoError(err)
	s.Assert().True(visibleByID(s.tick("u1"))["goblin"], "removing the wall reveals the goblin")
}

func (s *OrchestratorTestSuite) TestApplyWallChange() {
	s.load("u1", false)

	out, err := s.orchestrator.ApplyWallChange(s.ctx, &perception.ApplyWallChangeInput{
		SceneID: "s1",
		Kind:    walls.ChangeCreate,
		Wall:    walls.NormalWall("bar", 400, 300, 600, 300),
	})
	s.Require().NoError(err)
	s.Assert().Equal(1, out.Intersections, "the bar crosses the door")

	s.Run("delete unknown wall", func() {
		_, err := s.orchestrator.ApplyWallChange(s.ctx, &perception.ApplyWallChangeInput{
			SceneID: "s1",
			Kind:    walls.ChangeDelete,
			Wall:    walls.Wall{ID: "nope"},
		})
		s.Assert().True(errors.IsNotFound(err))
	})

	s.Run("door changes go through SetDoorState", func() {
		_, err := s.orchestrator.ApplyWallChange(s.ctx, &perception.ApplyWallChangeInput{
			SceneID: "s1",
			Kind:    walls.ChangeDoor,
			Wall:    walls.Wall{ID: "door"},
		})
		s.Assert().True(errors.IsInvalidArgument(err))
	})
}

func (s *OrchestratorTestSuite) TestHiddenPlaceablesAreGMOnly() {
	s.load("u1", false)
	s.load("gm", true)

	s.Assert().False(visibleByID(s.tick("u1"))["secret"])

	gm := visibleByID(s.tick("gm"))
	s.Assert().True(gm["secret"])
	s.Assert().True(gm["hero"], "a GM without vision sources sees everything")
}

func (s *OrchestratorTestSuite) TestTestVisibility() {
	s.load("u1", false)
	s.tick("u1")

	out, err := s.orchestrator.TestVisibility(s.ctx, &perception.TestVisibilityInput{
		SceneID: "s1",
		UserID:  "u1",
		Point:   geometry.Point{X: 300, Y: 500},
	})
	s.Require().NoError(err)
	s.Assert().True(out.Visible)

	out, err = s.orchestrator.TestVisibility(s.ctx, &perception.TestVisibilityInput{
		SceneID: "s1",
		UserID:  "u1",
		Point:   geometry.Point{X: 800, Y: 500},
		Object:  &visibility.Target{ID: "goblin", Kind: visibility.TargetToken},
	})
	s.Require().NoError(err)
	s.Assert().False(out.Visible)

	_, err = s.orchestrator.TestVisibility(s.ctx, &perception.TestVisibilityInput{SceneID: "s1", UserID: "u9"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestCanHear() {
	s.load("u1", false)
	s.tick("u1")

	out, err := s.orchestrator.CanHear(s.ctx, &perception.CanHearInput{
		SceneID: "s1", UserID: "u1", Point: geometry.Point{X: 200, Y: 200},
	})
	s.Require().NoError(err)
	s.Assert().True(out.Audible)
	s.Assert().Equal([]string{"drip"}, out.SourceIDs)

	out, err = s.orchestrator.CanHear(s.ctx, &perception.CanHearInput{
		SceneID: "s1", UserID: "u1", Point: geometry.Point{X: 900, Y: 900},
	})
	s.Require().NoError(err)
	s.Assert().False(out.Audible)

	_, err = s.orchestrator.RemoveSource(s.ctx, &perception.RemoveSourceInput{SceneID: "s1", SourceID: "drip"})
	s.Require().NoError(err)
	out, err = s.orchestrator.CanHear(s.ctx, &perception.CanHearInput{
		SceneID: "s1", UserID: "u1", Point: geometry.Point{X: 200, Y: 200},
	})
	s.Require().NoError(err)
	s.Assert().False(out.Audible)
}

func (s *OrchestratorTestSuite) TestUpsertSource() {
	s.load("u1", false)

	s.Run("sounds are added to every session", func() {
		_, err := s.orchestrator.UpsertSource(s.ctx, &perception.UpsertSourceInput{
			SceneID: "s1",
			Kind:    sources.KindSound,
			Source:  &entities.Light{ID: "bell", Data: sources.Data{X: 800, Y: 800, Dim: 100}},
		})
		s.Require().NoError(err)
		s.tick("u1")
		out, err := s.orchestrator.CanHear(s.ctx, &perception.CanHearInput{
			SceneID: "s1", UserID: "u1", Point: geometry.Point{X: 820, Y: 820},
		})
		s.Require().NoError(err)
		s.Assert().Equal([]string{"bell"}, out.SourceIDs)
	})

	s.Run("vision is not a standalone source", func() {
		_, err := s.orchestrator.UpsertSource(s.ctx, &perception.UpsertSourceInput{
			SceneID: "s1",
			Kind:    sources.KindVision,
			Source:  &entities.Light{ID: "eye"},
		})
		s.Assert().True(errors.IsInvalidArgument(err))
	})

	s.Run("ids are unique across lights and sounds", func() {
		_, err := s.orchestrator.UpsertSource(s.ctx, &perception.UpsertSourceInput{
			SceneID: "s1",
			Kind:    sources.KindLight,
			Source:  &entities.Light{ID: "bell", Data: sources.Data{X: 800, Y: 800, Dim: 100}},
		})
		s.Assert().True(errors.IsAlreadyExists(err))
	})

	s.Run("removing an unknown source", func() {
		_, err := s.orchestrator.RemoveSource(s.ctx, &perception.RemoveSourceInput{SceneID: "s1", SourceID: "nope"})
		s.Assert().True(errors.IsNotFound(err))
	})
}

func (s *OrchestratorTestSuite) TestComputePolygonAndCollision() {
	s.load("u1", false)

	poly, err := s.orchestrator.ComputePolygon(s.ctx, &perception.ComputePolygonInput{
		SceneID: "s1",
		Origin:  geometry.Point{X: 150, Y: 500},
		Config:  &engine.PolygonConfig{Type: engine.TypeSight, Angle: 360, Radius: engine.Unbounded},
	})
	s.Require().NoError(err)
	s.Assert().True(poly.Polygon.Contains(geometry.Point{X: 300, Y: 500}))
	s.Assert().False(poly.Polygon.Contains(geometry.Point{X: 800, Y: 500}))

	hit, err := s.orchestrator.TestCollision(s.ctx, &perception.TestCollisionInput{
		SceneID:     "s1",
		Origin:      geometry.Point{X: 150, Y: 500},
		Destination: geometry.Point{X: 800, Y: 500},
		Config:      &engine.CollisionConfig{Type: engine.TypeMove, Mode: engine.CollisionClosest},
	})
	s.Require().NoError(err)
	s.Require().True(hit.Result.Hit)
	s.Assert().Equal("door", hit.Result.Closest.WallID)
	s.Assert().InDelta(500, hit.Result.Closest.X, 1e-9)

	_, err = s.orchestrator.TestCollision(s.ctx, &perception.TestCollisionInput{
		SceneID:     "s1",
		Origin:      geometry.Point{X: 150, Y: 500},
		Destination: geometry.Point{X: 800, Y: 500},
		Config:      &engine.CollisionConfig{Type: engine.TypeUniversal, Mode: engine.CollisionAny},
	})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestFogIsCommittedAndSaved() {
	s.load("u1", false)
	s.tick("u1")

	img, err := s.orchestrator.FogImage(s.ctx, &perception.FogImageInput{
		SceneID: "s1", UserID: "u1", RequesterID: "u1",
	})
	s.Require().NoError(err)
	s.Assert().False(img.Image.Bounds().Empty())
	s.Assert().Greater(img.Resolution, 0.0)

	_, err = s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
	s.Assert().True(errors.IsNotFound(err), "the save is debounced")

	_, err = s.orchestrator.SaveFog(s.ctx, &perception.SaveFogInput{SceneID: "s1", UserID: "u1"})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
	s.Require().NoError(err)
	s.Assert().Contains(got.Exploration.Positions, "150_550")
	s.Assert().True(got.Exploration.HasRaster())
}

func (s *OrchestratorTestSuite) TestFogSavesAfterDebounce() {
	s.load("u1", false)
	s.tick("u1")

	s.clock.Advance(3 * time.Second)
	s.tick("u1")

	_, err := s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
	s.Assert().NoError(err)
}

func (s *OrchestratorTestSuite) TestFogImagePermissions() {
	s.load("u1", false)
	s.tick("u1")

	read := func(requester string) error {
		_, err := s.orchestrator.FogImage(s.ctx, &perception.FogImageInput{
			SceneID: "s1", UserID: "u1", RequesterID: requester,
		})
		return err
	}

	s.Run("owner", func() {
		s.Assert().NoError(read("u1"))
	})

	s.Run("user without a session", func() {
		s.Assert().True(errors.IsPermissionDenied(read("gm")))
	})

	s.Run("player session", func() {
		s.load("u2", false)
		s.Assert().True(errors.IsPermissionDenied(read("u2")))
	})

	s.Run("gm session", func() {
		s.load("gm", true)
		s.Assert().NoError(read("gm"))
	})
}

func (s *OrchestratorTestSuite) TestResetFogRequiresGM() {
	s.load("u1", false)

	_, err := s.orchestrator.ResetFog(s.ctx, &perception.ResetFogInput{SceneID: "s1", UserID: "u1"})
	s.Assert().True(errors.IsPermissionDenied(err))
}

func (s *OrchestratorTestSuite) TestResetFogReachesOtherSessions() {
	var events []socket.Event
	_, err := s.broadcaster.Subscribe(s.ctx, func(e socket.Event) { events = append(events, e) })
	s.Require().NoError(err)

	s.load("u1", false)
	s.load("gm", true)
	s.tick("u1")
	_, err = s.orchestrator.SaveFog(s.ctx, &perception.SaveFogInput{SceneID: "s1", UserID: "u1"})
	s.Require().NoError(err)

	_, err = s.orchestrator.ResetFog(s.ctx, &perception.ResetFogInput{SceneID: "s1", UserID: "gm"})
	s.Require().NoError(err)

	s.Require().Len(events, 1)
	s.Assert().Equal(socket.EventResetFog, events[0].Type)
	s.Assert().Equal("s1", events[0].SceneID)

	_, err = s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
	s.Assert().True(errors.IsNotFound(err))

	// the reset is applied at the start of the player's next frame
	_, err = s.orchestrator.FogImage(s.ctx, &perception.FogImageInput{SceneID: "s1", UserID: "u1", RequesterID: "u1"})
	s.Assert().NoError(err)
	s.tick("u1")
	_, err = s.orchestrator.FogImage(s.ctx, &perception.FogImageInput{SceneID: "s1", UserID: "u1", RequesterID: "u1"})
	s.Assert().True(errors.IsNotFound(err))

	// vision is re-initialized on the frame after and explores again
	s.tick("u1")
	_, err = s.orchestrator.FogImage(s.ctx, &perception.FogImageInput{SceneID: "s1", UserID: "u1", RequesterID: "u1"})
	s.Assert().NoError(err)
}

func (s *OrchestratorTestSuite) TestUnloadScene() {
	s.load("u1", false)
	s.load("u2", false)
	s.tick("u1")

	_, err := s.orchestrator.UnloadScene(s.ctx, &perception.UnloadSceneInput{SceneID: "s1", UserID: "u1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
	s.Assert().NoError(err, "unloading flushes fog")

	_, err = s.orchestrator.Tick(s.ctx, &perception.TickInput{SceneID: "s1", UserID: "u1"})
	s.Assert().True(errors.IsNotFound(err))
	s.tick("u2")

	_, err = s.orchestrator.UnloadScene(s.ctx, &perception.UnloadSceneInput{SceneID: "s1", UserID: "u2"})
	s.Require().NoError(err)
	_, err = s.orchestrator.ComputePolygon(s.ctx, &perception.ComputePolygonInput{SceneID: "s1"})
	s.Assert().True(errors.IsNotFound(err), "the scene is dropped with its last session")
	s.Assert().Zero(s.host.Allocated())
}

func (s *OrchestratorTestSuite) TestBackgroundFrames() {
	o := s.newOrchestrator(5 * time.Millisecond)
	defer func() { s.Require().NoError(o.Close(s.ctx)) }()

	_, err := o.LoadScene(s.ctx, &perception.LoadSceneInput{Scene: dungeon(), UserID: "u1"})
	s.Require().NoError(err)

	s.Eventually(func() bool {
		out, err := o.TestVisibility(s.ctx, &perception.TestVisibilityInput{
			SceneID: "s1",
			UserID:  "u1",
			Point:   geometry.Point{X: 300, Y: 500},
		})
		return err == nil && out.Visible
	}, time.Second, 5*time.Millisecond)
}
