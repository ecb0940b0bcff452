package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-perception/internal/config"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/redis"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ConfigTestSuite) write(body string) string {
	path := filepath.Join(s.dir, "perception.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.Load("")
	s.Require().NoError(err)
	s.Assert().Equal(50051, cfg.Server.GRPCPort)
	s.Assert().Equal(config.FogBackendRedis, cfg.Fog.Backend)
	s.Assert().Equal(10, cfg.Fog.CommitThreshold)
	s.Assert().Equal(3*time.Second, cfg.Fog.SaveDelay)
	s.Assert().Equal(4096, cfg.Fog.MaxTextureSize)
	s.Assert().Equal(12, cfg.Perception.Density)
}

func (s *ConfigTestSuite) TestLoadOverridesDefaults() {
	path := s.write(`
server:
  grpc_port: 6000
redis:
  mode: cluster
  endpoints: "r1:6379,r2:6379"
  options:
    pool_size: 20
fog:
  backend: minio
  save_delay: 5s
  overlay: overlays/mist.webm
minio:
  endpoint: minio:9000
  bucket: fog
`)
	cfg, err := config.Load(path)
	s.Require().NoError(err)
	s.Assert().Equal(6000, cfg.Server.GRPCPort)
	s.Assert().Equal(8080, cfg.Server.HTTPPort, "unset fields keep defaults")
	s.Assert().Equal(redis.ModeCluster, cfg.Redis.Mode)
	s.Assert().Equal(20, cfg.Redis.Options.PoolSize)
	s.Assert().Equal(config.FogBackendMinio, cfg.Fog.Backend)
	s.Assert().Equal(5*time.Second, cfg.Fog.SaveDelay)
	s.Assert().Equal("overlays/mist.webm", cfg.Fog.Overlay)
	s.Assert().Equal("fog", cfg.Minio.Bucket)
	s.Assert().Equal(10, cfg.Fog.CommitThreshold)
}

func (s *ConfigTestSuite) TestLoadErrors() {
	testCases := []struct {
		name  string
		path  func() string
		check func(error) bool
	}{
		{
			name:  "missing file",
			path:  func() string { return filepath.Join(s.dir, "missing.yaml") },
			check: errors.IsNotFound,
		},
		{
			name:  "invalid yaml",
			path:  func() string { return s.write("server: [") },
			check: errors.IsInvalidArgument,
		},
		{
			name:  "unknown backend",
			path:  func() string { return s.write("fog:\n  backend: disk\n") },
			check: errors.IsInvalidArgument,
		},
		{
			name:  "zero threshold",
			path:  func() string { return s.write("fog:\n  commit_threshold: 0\n") },
			check: errors.IsInvalidArgument,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := config.Load(tc.path())
			s.Require().Error(err)
			s.Assert().True(tc.check(err))
		})
	}
}
