// File: sammies/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"sammies/config"
	"sammies/cron"
	"sammies/handlers"
	"sammies/middleware"
	"sammies/routes"
	"sammies/services/conversation"
	"sammies/services/llm"
	"sammies/services/notification"
	"sammies/services/receptionist"
	"sammies/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Domain profile (prompt contract + required fields).
	profile := receptionist.ProfileByKey(config.AppConfig.BusinessProfile)

	// Completion provider.
	var completer llm.Completer
	switch config.AppConfig.AIProvider {
	case "gemini":
		gc, err := llm.NewGeminiClient(context.Background(), config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize gemini client: %v", err)
		}
		completer = gc
	default:
		completer = llm.NewOpenAIClient(config.AppConfig.OpenAIAPIKey, config.AppConfig.OpenAIModel)
	}

	// Session store.
	ttl := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	var store conversation.Store
	var err error
	if config.AppConfig.SessionStore == string(conversation.StoreTypeRedis) {
		utils.InitSessionCache()
		store, err = conversation.NewStore(conversation.StoreTypeRedis,
			conversation.WithRedisClient(utils.GetSessionCacheClient()),
			conversation.WithTTL(ttl),
		)
		utils.StartHealthMonitor([]*redis.Client{utils.GetSessionCacheClient()})
	} else {
		store, err = conversation.NewStore(conversation.StoreTypeMemory, conversation.WithTTL(ttl))
	}
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize session store: %v", err)
	}
	defer store.Close()

	// Notification dispatch: asynq-backed when Redis is reachable,
	// no-op otherwise (local development without a queue).
	var dispatcher notification.Dispatcher
	if config.AppConfig.RedisAddr != "" {
		dispatcher = notification.NewAsynqDispatcher(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		})
		cron.InitNotificationWorker(profile.BusinessName)
	} else {
		dispatcher = notification.NoopDispatcher{}
	}

	svc := receptionist.NewDefaultService(
		completer,
		store,
		dispatcher,
		profile,
		time.Duration(config.AppConfig.AITimeoutSeconds)*time.Second,
		logger,
	)

	receptionistHandler := handlers.NewReceptionistHandler(svc)
	voiceHandler := handlers.NewVoiceHandler(svc, dispatcher)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := &handlers.HandlerBundle{
		HandleTurnHandler:   receptionistHandler.HandleTurn,
		NewSessionHandler:   receptionistHandler.NewSession,
		ClearSessionHandler: receptionistHandler.ClearSession,

		VoiceHandler:         voiceHandler.Voice,
		AfterTransferHandler: voiceHandler.AfterTransfer,
		TakeMessageHandler:   voiceHandler.TakeMessage,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting %s receptionist on %s...", profile.BusinessName, srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
