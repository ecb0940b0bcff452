// Package config loads the perception server configuration from YAML
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-perception/internal/clients/objectstore"
	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/fog"
	"github.com/KirkDiggler/rpg-perception/internal/redis"
	"github.com/KirkDiggler/rpg-perception/internal/scheduler"
)

// FogBackend selects where fog explorations are stored
type FogBackend string

const (
	FogBackendRedis  FogBackend = "redis"
	FogBackendMinio  FogBackend = "minio"
	FogBackendMemory FogBackend = "memory"
)

// Server holds listener settings
type Server struct {
	GRPCPort int `yaml:"grpc_port"`
	HTTPPort int `yaml:"http_port"`
	// ShutdownTimeout bounds graceful stop
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Fog holds fog exploration settings
type Fog struct {
	Backend         FogBackend    `yaml:"backend"`
	CommitThreshold int           `yaml:"commit_threshold"`
	SaveDelay       time.Duration `yaml:"save_delay"`
	MaxTextureSize  int           `yaml:"max_texture_size"`
	Overlay         string        `yaml:"overlay"`
}

// Perception holds polygon and frame settings
type Perception struct {
	Density      int           `yaml:"density"`
	TickInterval time.Duration `yaml:"tick_interval"`
	// MaxTexturePixels caps the software render host; zero is unlimited
	MaxTexturePixels int64 `yaml:"max_texture_pixels"`
}

// Config is the server configuration
type Config struct {
	Server     Server                  `yaml:"server"`
	Redis      redis.Config            `yaml:"redis"`
	Minio      objectstore.MinioConfig `yaml:"minio"`
	Fog        Fog                     `yaml:"fog"`
	Perception Perception              `yaml:"perception"`
}

// DefaultConfig returns a config for a local redis on the default port
func DefaultConfig() *Config {
	return &Config{
		Server: Server{
			GRPCPort:        50051,
			HTTPPort:        8080,
			ShutdownTimeout: 30 * time.Second,
		},
		Redis: redis.Config{
			Mode:      redis.ModeSingle,
			Endpoints: "localhost:6379",
		},
		Minio: objectstore.MinioConfig{
			Endpoint: "localhost:9000",
			Bucket:   "perception",
		},
		Fog: Fog{
			Backend:         FogBackendRedis,
			CommitThreshold: fog.DefaultCommitThreshold,
			SaveDelay:       fog.DefaultSaveDelay,
			MaxTextureSize:  fog.MaxTextureSize,
		},
		Perception: Perception{
			Density:      engine.DefaultDensity,
			TickInterval: scheduler.DefaultInterval,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("config file %s not found", path)
		}
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "failed to parse config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("server.grpc_port", c.Server.GRPCPort, 1, 65535, vb)
	// 0 disables the HTTP surface
	errors.ValidateRange("server.http_port", c.Server.HTTPPort, 0, 65535, vb)
	switch c.Fog.Backend {
	case FogBackendRedis:
		if c.Redis.Endpoints == "" {
			vb.RequiredField("redis.endpoints")
		}
	case FogBackendMinio:
		if c.Minio.Endpoint == "" {
			vb.RequiredField("minio.endpoint")
		}
		if c.Minio.Bucket == "" {
			vb.RequiredField("minio.bucket")
		}
	case FogBackendMemory:
	default:
		vb.InvalidField("fog.backend", "must be one of redis, minio, memory")
	}
	if c.Fog.CommitThreshold < 1 {
		vb.InvalidField("fog.commit_threshold", "must be at least 1")
	}
	if c.Fog.SaveDelay < 0 {
		vb.InvalidField("fog.save_delay", "must be non-negative")
	}
	if c.Fog.MaxTextureSize < 1 {
		vb.InvalidField("fog.max_texture_size", "must be at least 1")
	}
	if c.Perception.Density < 1 {
		vb.InvalidField("perception.density", "must be at least 1")
	}
	if c.Perception.TickInterval <= 0 {
		vb.InvalidField("perception.tick_interval", "must be positive")
	}
	return vb.Build()
}
