package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"manospy_gateway/internal/backend"
	"manospy_gateway/internal/config"
	"manospy_gateway/internal/handler"
	"manospy_gateway/internal/middleware"
	"manospy_gateway/internal/repository"
	"manospy_gateway/internal/service"
	"manospy_gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Carga de configuracion
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Inicializacion del logger
	appLogger := logger.New(cfg.Log.Level)

	// Conexion a Redis (cache de sesion y rate limit)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	// Cliente hacia el backend principal de ManosPy
	backendClient := backend.NewClient(cfg.Backend)
	appLogger.Info("Backend client initialized", "base_url", cfg.Backend.BaseURL)

	// Repositorios
	repos := repository.NewRepositories(rdb, appLogger)

	// Servicios
	services := service.NewServices(repos, backendClient, cfg, appLogger)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)

	// Handlers
	handlers := handler.NewHandlers(services, cfg, appLogger)

	// Router
	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg)

	// Servidor HTTP
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", handlers.Health.Check)

	// API v1
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		// Ciclo de vida: clasificacion actual y navegacion de arranque
		lifecycle := v1.Group("/lifecycle")
		{
			lifecycle.GET("/state", handlers.Lifecycle.GetState)
			lifecycle.GET("/navigation", handlers.Lifecycle.GetNavigation)
		}

		// Aprobacion del profesional (sondeo acotado con ?wait=true)
		v1.GET("/professional/approval", handlers.Lifecycle.GetApproval)

		// Chat via REST (la version en vivo va por WebSocket)
		chats := v1.Group("/chats")
		{
			chats.GET("/:id/messages", handlers.Chat.GetMessages)
			chats.POST("/:id/messages", rateLimitMiddleware.Limit(), handlers.Chat.SendMessage)
			chats.POST("/:id/convert", handlers.Actions.ConvertChat)
		}

		// Acciones explicitas del usuario
		requests := v1.Group("/requests")
		{
			requests.POST("/:id/cancel", handlers.Actions.CancelRequest)
		}
		reservations := v1.Group("/reservations")
		{
			reservations.POST("/:id/cancel", handlers.Actions.CancelReservation)
			reservations.POST("/:id/complete", handlers.Actions.CompleteReservation)
			reservations.POST("/:id/review", handlers.Actions.SubmitReview)
		}
	}

	// WebSocket: sesion de ciclo de vida y pantalla de chat
	ws := router.Group("/ws")
	ws.Use(authMiddleware.RequireAuth())
	{
		ws.GET("/lifecycle", handlers.WebSocket.HandleLifecycle)
		ws.GET("/chat/:id", handlers.WebSocket.HandleChat)
	}

	return router
}
