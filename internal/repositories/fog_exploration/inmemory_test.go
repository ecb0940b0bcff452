package fogexploration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/clock"
	fogexploration "github.com/KirkDiggler/rpg-perception/internal/repositories/fog_exploration"
)

type InMemoryRepositoryTestSuite struct {
	suite.Suite
	repo *fogexploration.InMemoryRepository
	ctx  context.Context
}

func TestInMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(InMemoryRepositoryTestSuite))
}

func (s *InMemoryRepositoryTestSuite) SetupTest() {
	s.repo = fogexploration.NewInMemory(clock.NewManual(time.UnixMilli(1000)))
	s.ctx = context.Background()
}

func (s *InMemoryRepositoryTestSuite) TestLifecycle() {
	fog := entities.NewFogExploration("s1", "u1")
	created, err := s.repo.Create(s.ctx, fogexploration.CreateInput{Exploration: fog})
	s.Require().NoError(err)
	s.Assert().NotEmpty(created.Exploration.ID)
	s.Assert().Equal(int64(1000), created.Exploration.Timestamp)

	created.Exploration.Positions["0_0"] = entities.FogPosition{Radius: 1}
	got, err := s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
	s.Require().NoError(err)
	s.Assert().Empty(got.Exploration.Positions, "stored record must be isolated from callers")

	got.Exploration.Positions["0_0"] = entities.FogPosition{Radius: 1}
	_, err = s.repo.Update(s.ctx, fogexploration.UpdateInput{Exploration: got.Exploration})
	s.Require().NoError(err)

	got, err = s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
	s.Require().NoError(err)
	s.Assert().Len(got.Exploration.Positions, 1)

	_, err = s.repo.Create(s.ctx, fogexploration.CreateInput{Exploration: fog})
	s.Assert().True(errors.IsAlreadyExists(err))

	out, err := s.repo.DeleteByScene(s.ctx, fogexploration.DeleteBySceneInput{SceneID: "s1"})
	s.Require().NoError(err)
	s.Assert().Equal(1, out.Deleted)

	_, err = s.repo.Get(s.ctx, fogexploration.GetInput{SceneID: "s1", UserID: "u1"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *InMemoryRepositoryTestSuite) TestValidation() {
	_, err := s.repo.Get(s.ctx, fogexploration.GetInput{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.repo.Update(s.ctx, fogexploration.UpdateInput{Exploration: entities.NewFogExploration("s1", "u1")})
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.repo.DeleteByScene(s.ctx, fogexploration.DeleteBySceneInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}
