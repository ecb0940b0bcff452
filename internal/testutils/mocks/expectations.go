// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	fogexploration "github.com/KirkDiggler/rpg-perception/internal/repositories/fog_exploration"
	fogexplorationmock "github.com/KirkDiggler/rpg-perception/internal/repositories/fog_exploration/mock"
)

// ExpectFogGet sets up a mock expectation for loading a user's exploration
func ExpectFogGet(
	ctx context.Context, mockRepo *fogexplorationmock.MockRepository,
	sceneID, userID string, fog *entities.FogExploration, err error,
) *gomock.Call {
	var out *fogexploration.GetOutput
	if err == nil {
		out = &fogexploration.GetOutput{Exploration: fog}
	}
	return mockRepo.EXPECT().
		Get(ctx, fogexploration.GetInput{SceneID: sceneID, UserID: userID}).
		Return(out, err)
}

// ExpectFogNotFound sets up a mock expectation for a user with no stored exploration
func ExpectFogNotFound(
	ctx context.Context, mockRepo *fogexplorationmock.MockRepository, sceneID, userID string,
) *gomock.Call {
	return ExpectFogGet(ctx, mockRepo, sceneID, userID, nil, errors.NotFound("fog exploration not found"))
}

// ExpectFogCreate sets up a mock expectation for the first save of an exploration
// and echoes the record back with an id
func ExpectFogCreate(ctx context.Context, mockRepo *fogexplorationmock.MockRepository) *gomock.Call {
	return mockRepo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input fogexploration.CreateInput) (*fogexploration.CreateOutput, error) {
			out := input.Exploration.Clone()
			out.ID = "fog-test-001"
			return &fogexploration.CreateOutput{Exploration: out}, nil
		})
}

// ExpectFogUpdate sets up a mock expectation for overwriting an exploration
func ExpectFogUpdate(ctx context.Context, mockRepo *fogexplorationmock.MockRepository) *gomock.Call {
	return mockRepo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input fogexploration.UpdateInput) (*fogexploration.UpdateOutput, error) {
			return &fogexploration.UpdateOutput{Exploration: input.Exploration.Clone()}, nil
		})
}
