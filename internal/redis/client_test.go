package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/redis"
)

type ClientTestSuite struct {
	suite.Suite
	mr *miniredis.Miniredis
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
}

func (s *ClientTestSuite) TearDownTest() {
	s.mr.Close()
}

func (s *ClientTestSuite) TestNewFromConfigSingle() {
	client, err := redis.NewFromConfig(&redis.Config{Endpoints: " " + s.mr.Addr() + " ,"})
	s.Require().NoError(err)
	defer func() { _ = client.Close() }()

	s.Require().NoError(client.Set(context.Background(), "k", "v", 0).Err())
	got, err := s.mr.Get("k")
	s.Require().NoError(err)
	s.Assert().Equal("v", got)
}

func (s *ClientTestSuite) TestNewFromConfigErrors() {
	testCases := []struct {
		name string
		cfg  *redis.Config
	}{
		{name: "nil config", cfg: nil},
		{name: "no endpoint", cfg: &redis.Config{Mode: redis.ModeSingle}},
		{name: "no cluster endpoints", cfg: &redis.Config{Mode: redis.ModeCluster}},
		{name: "no master", cfg: &redis.Config{Mode: redis.ModeFailover, Endpoints: "a:1"}},
		{name: "unknown mode", cfg: &redis.Config{Mode: "ring", Endpoints: "a:1"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := redis.NewFromConfig(tc.cfg)
			s.Require().Error(err)
			s.Assert().True(errors.IsInvalidArgument(err))
		})
	}
}
