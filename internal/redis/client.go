// Package redis builds go-redis clients for the fog exploration repository and
// the reset broadcaster from configuration.
package redis

import (
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
)

// Options configures Redis client behavior
type Options struct {
	PoolSize        int           `yaml:"pool_size"`
	MinIdleConns    int           `yaml:"min_idle_conns"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	MaxRetries      int           `yaml:"max_retries"`
	UseTLS          bool          `yaml:"use_tls"`
	// ReadOnly routes reads to replicas in cluster mode
	ReadOnly bool `yaml:"read_only"`
	// DB selects the logical database for single-instance clients
	DB int `yaml:"db"`
}

// NewClient creates a Redis client for a single instance. Connections are
// opened lazily.
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.InvalidArgument("redis: endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	redisOpts := &redis.Options{
		Addr:            endpoint,
		DB:              opts.DB,
		MinIdleConns:    opts.MinIdleConns,
		PoolSize:        opts.PoolSize,
		ConnMaxIdleTime: opts.ConnMaxIdleTime,
		MaxRetries:      opts.MaxRetries,
	}

	if opts.UseTLS {
		redisOpts.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402 // For self-signed certs #nosec G402
		}
	}

	return redis.NewClient(redisOpts), nil
}

// NewClusterClient creates a Redis client for cluster mode
func NewClusterClient(endpoints []string, opts *Options) (Client, error) {
	if len(endpoints) == 0 {
		return nil, errors.InvalidArgument("redis: at least one endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	clusterOpts := &redis.ClusterOptions{
		Addrs:        endpoints,
		MinIdleConns: opts.MinIdleConns,
		PoolSize:     opts.PoolSize,
		MaxRetries:   opts.MaxRetries,
		ReadOnly:     opts.ReadOnly,
	}

	if opts.UseTLS {
		clusterOpts.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402
		}
	}

	return redis.NewClusterClient(clusterOpts), nil
}

// NewFailoverClient creates a Redis client with Sentinel support
func NewFailoverClient(masterName string, sentinelAddrs []string, opts *Options) (Client, error) {
	if masterName == "" {
		return nil, errors.InvalidArgument("redis: master name is required")
	}
	if len(sentinelAddrs) == 0 {
		return nil, errors.InvalidArgument("redis: at least one sentinel address is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	failoverOpts := &redis.FailoverOptions{
		MasterName:    masterName,
		SentinelAddrs: sentinelAddrs,
		MinIdleConns:  opts.MinIdleConns,
		PoolSize:      opts.PoolSize,
		MaxRetries:    opts.MaxRetries,
	}

	if opts.UseTLS {
		failoverOpts.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402
		}
	}

	return redis.NewFailoverClient(failoverOpts), nil
}

// Mode selects the kind of client built by NewFromConfig
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeCluster  Mode = "cluster"
	ModeFailover Mode = "failover"
)

// Config is the redis section of the service configuration
type Config struct {
	Mode Mode `yaml:"mode"`
	// Endpoints is a comma separated list; the first is used in single mode
	Endpoints  string  `yaml:"endpoints"`
	MasterName string  `yaml:"master_name"`
	Options    Options `yaml:"options"`
}

// NewFromConfig creates the client selected by cfg.Mode
func NewFromConfig(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("redis: config is required")
	}
	var endpoints []string
	for _, e := range strings.Split(cfg.Endpoints, ",") {
		if e = strings.TrimSpace(e); e != "" {
			endpoints = append(endpoints, e)
		}
	}
	opts := cfg.Options

	switch cfg.Mode {
	case ModeSingle, "":
		if len(endpoints) == 0 {
			return nil, errors.InvalidArgument("redis: endpoint is required")
		}
		return NewClient(endpoints[0], &opts)
	case ModeCluster:
		return NewClusterClient(endpoints, &opts)
	case ModeFailover:
		return NewFailoverClient(cfg.MasterName, endpoints, &opts)
	default:
		return nil, errors.InvalidArgumentf("redis: unknown mode %q", cfg.Mode)
	}
}
