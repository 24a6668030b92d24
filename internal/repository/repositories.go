package repository

import (
	"github.com/redis/go-redis/v9"
	"manospy_gateway/pkg/logger"
)

type Repositories struct {
	Session   SessionRepository
	RateLimit RateLimitRepository
}

func NewRepositories(rdb *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		Session:   NewSessionRepository(rdb, log),
		RateLimit: NewRateLimitRepository(rdb, log),
	}
}
