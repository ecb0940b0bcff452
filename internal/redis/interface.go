package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so repositories and the fog broadcaster
// accept single, cluster and failover clients alike
type Client interface {
	redis.UniversalClient
}
