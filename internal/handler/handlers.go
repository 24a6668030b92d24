package handler

import (
	"manospy_gateway/internal/config"
	"manospy_gateway/internal/service"
	"manospy_gateway/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Lifecycle *LifecycleHandler
	Chat      *ChatHandler
	Actions   *ActionsHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(cfg),
		Lifecycle: NewLifecycleHandler(services.Lifecycle, log),
		Chat:      NewChatHandler(services.Chat, log),
		Actions:   NewActionsHandler(services.Actions, log),
		WebSocket: NewWebSocketHandler(services.Lifecycle, services.Chat, log),
	}
}
