package cache

import (
	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient builds the shared redis client. The protocol is pinned
// so RESP3 push messages never surprise the pipeline code.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		Protocol: 2,
	})
}
