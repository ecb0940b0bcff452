package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/scheduler"
	schedulermock "github.com/KirkDiggler/rpg-perception/internal/scheduler/mock"
)

type SchedulerTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	pipeline  *schedulermock.MockPipeline
	scheduler *scheduler.Scheduler
	ctx       context.Context
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (s *SchedulerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.pipeline = schedulermock.NewMockPipeline(s.ctrl)
	s.ctx = context.Background()

	var err error
	s.scheduler, err = scheduler.New(&scheduler.Config{Pipeline: s.pipeline, Interval: time.Millisecond})
	s.Require().NoError(err)
}

func (s *SchedulerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SchedulerTestSuite) TestNewRequiresPipeline() {
	_, err := scheduler.New(&scheduler.Config{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *SchedulerTestSuite) TestDrainRunsStepsInOrder() {
	s.scheduler.Update(scheduler.InitializeSounds|scheduler.InitializeLighting|scheduler.InitializeVision|scheduler.ForceUpdateFog, false)

	gomock.InOrder(
		s.pipeline.EXPECT().InitializeSounds(s.ctx).Return(nil),
		s.pipeline.EXPECT().InitializeLighting(s.ctx).Return(nil),
		s.pipeline.EXPECT().InitializeVision(s.ctx).Return(nil),
		s.pipeline.EXPECT().RefreshLighting(s.ctx).Return(nil),
		s.pipeline.EXPECT().RefreshVision(s.ctx, true).Return(nil),
		s.pipeline.EXPECT().UpdateFog(s.ctx).Return(nil),
		s.pipeline.EXPECT().RestrictVisibility(s.ctx, false).Return(nil),
	)

	flags, err := s.scheduler.Drain(s.ctx)
	s.Require().NoError(err)
	s.Assert().True(flags.Has(scheduler.RefreshVision))
	s.Assert().Equal(scheduler.Flags(0), s.scheduler.Pending())
}

func (s *SchedulerTestSuite) TestForcedFogUpdateRefreshesVision() {
	s.scheduler.Update(scheduler.ForceUpdateFog, false)

	gomock.InOrder(
		s.pipeline.EXPECT().RefreshVision(s.ctx, true).Return(nil),
		s.pipeline.EXPECT().UpdateFog(s.ctx).Return(nil),
		s.pipeline.EXPECT().RestrictVisibility(s.ctx, false).Return(nil),
	)

	flags, err := s.scheduler.Drain(s.ctx)
	s.Require().NoError(err)
	s.Assert().True(flags.Has(scheduler.RefreshVision | scheduler.ForceUpdateFog))
}

func (s *SchedulerTestSuite) TestUpdatesCoalesce() {
	for i := 0; i < 5; i++ {
		s.scheduler.Update(scheduler.RefreshVision, true)
	}

	s.pipeline.EXPECT().RefreshVision(s.ctx, false).Return(nil).Times(1)
	s.pipeline.EXPECT().UpdateFog(s.ctx).Return(nil).Times(1)
	s.pipeline.EXPECT().RestrictVisibility(s.ctx, false).Return(nil).Times(1)

	_, err := s.scheduler.Drain(s.ctx)
	s.Require().NoError(err)
}

func (s *SchedulerTestSuite) TestRefreshTilesOnly() {
	s.scheduler.Update(scheduler.RefreshTiles, false)

	s.pipeline.EXPECT().UpdateFog(s.ctx).Return(nil)
	s.pipeline.EXPECT().RestrictVisibility(s.ctx, true).Return(nil)

	_, err := s.scheduler.Drain(s.ctx)
	s.Require().NoError(err)
}

func (s *SchedulerTestSuite) TestFlagsRaisedDuringDrainWaitForNextDrain() {
	s.scheduler.Update(scheduler.RefreshVision, false)

	s.pipeline.EXPECT().RefreshVision(s.ctx, false).DoAndReturn(func(context.Context, bool) error {
		s.scheduler.Update(scheduler.RefreshLighting, false)
		return nil
	})
	s.pipeline.EXPECT().UpdateFog(s.ctx).Return(nil)
	s.pipeline.EXPECT().RestrictVisibility(s.ctx, false).Return(nil)

	_, err := s.scheduler.Drain(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(scheduler.RefreshLighting|scheduler.RefreshVision, s.scheduler.Pending())
}

func (s *SchedulerTestSuite) TestPostRunsBeforeSteps() {
	var order []string
	s.scheduler.Post(func() { order = append(order, "mutation") })
	s.scheduler.Update(scheduler.RefreshVision, false)

	s.pipeline.EXPECT().RefreshVision(s.ctx, false).DoAndReturn(func(context.Context, bool) error {
		order = append(order, "refreshVision")
		s.scheduler.Post(func() { order = append(order, "deferred") })
		return nil
	})
	s.pipeline.EXPECT().UpdateFog(s.ctx).Return(nil).Times(2)
	s.pipeline.EXPECT().RestrictVisibility(s.ctx, false).Return(nil)

	_, err := s.scheduler.Drain(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"mutation", "refreshVision"}, order)

	_, err = s.scheduler.Drain(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"mutation", "refreshVision", "deferred"}, order)
}

func (s *SchedulerTestSuite) TestFailingStepDoesNotStopTheFrame() {
	s.scheduler.Update(scheduler.RefreshVision, false)

	s.pipeline.EXPECT().RefreshVision(s.ctx, false).Return(errors.Internal("boom"))
	s.pipeline.EXPECT().UpdateFog(s.ctx).Return(errors.Unavailable("redis is down"))
	s.pipeline.EXPECT().RestrictVisibility(s.ctx, false).Return(nil)

	_, err := s.scheduler.Drain(s.ctx)
	s.Require().Error(err)
	s.Assert().True(errors.IsInternal(err), "the first failure is returned")
}

func (s *SchedulerTestSuite) TestRunDrainsPushedWork() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	var refreshed atomic.Int32
	s.pipeline.EXPECT().UpdateFog(gomock.Any()).Return(nil).AnyTimes()
	s.pipeline.EXPECT().RestrictVisibility(gomock.Any(), false).Return(nil).AnyTimes()
	s.pipeline.EXPECT().RefreshVision(gomock.Any(), false).DoAndReturn(func(context.Context, bool) error {
		refreshed.Add(1)
		return nil
	}).AnyTimes()

	done := make(chan error, 1)
	go func() { done <- s.scheduler.Run(ctx) }()

	s.scheduler.Update(scheduler.RefreshVision, true)
	s.Eventually(func() bool { return refreshed.Load() == 1 }, time.Second, time.Millisecond)

	cancel()
	s.Require().NoError(<-done)
}

func TestFlags(t *testing.T) {
	f, err := scheduler.ParseFlags("refreshVision", "refreshTiles")
	require.NoError(t, err)
	assert.Equal(t, scheduler.RefreshVision|scheduler.RefreshTiles, f)
	assert.Equal(t, "refreshVision|refreshTiles", f.String())
	assert.Equal(t, "none", scheduler.Flags(0).String())

	_, err = scheduler.ParseFlags("refreshEverything")
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "refreshEverything")
}
