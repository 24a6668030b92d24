package service

import (
	"manospy_gateway/internal/backend"
	"manospy_gateway/internal/config"
	"manospy_gateway/internal/repository"
	"manospy_gateway/pkg/logger"
)

type Services struct {
	Lifecycle LifecycleService
	Chat      ChatService
	Actions   ActionsService
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, client *backend.Client, cfg *config.Config, log logger.Logger) *Services {
	return &Services{
		Lifecycle: NewLifecycleService(client, repos.Session, cfg.Lifecycle, log),
		Chat:      NewChatService(client, cfg.Lifecycle, log),
		Actions:   NewActionsService(client, log),
		RateLimit: NewRateLimitService(repos.RateLimit, log),
	}
}
