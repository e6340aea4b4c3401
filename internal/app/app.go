package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"prowork_backend/database"
	"prowork_backend/internal/config"
	"prowork_backend/internal/handlers"
	"prowork_backend/internal/logger"
	"prowork_backend/internal/middleware"
	"prowork_backend/internal/routes"
	"prowork_backend/internal/services"
	"prowork_backend/internal/workers"
	"prowork_backend/ws"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ginRouter, container := SetupRouter(ctx, cfg, gormDB)

	startWorkers(ctx, cfg, container)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{Addr: address, Handler: ginRouter}

	go func() {
		logger.Info(fmt.Sprintf("Server starting on %s", address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	container.EmailService.Close()
	logger.Info("Server stopped")
}

// SetupRouter собирает контейнер сервисов, хэндлеры, WebSocket и маршруты.
// Вынесен отдельно ради интеграционных тестов.
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	serviceContainer, err := services.NewServiceContainer(gormDB, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}

	appHandlers := handlers.NewAppHandlers(serviceContainer)

	wsManager := ws.NewWebSocketManager()
	go wsManager.Run(ctx)
	wsHandler := ws.NewWebSocketHandler(wsManager)

	// Новые in-app уведомления уходят подключенным клиентам
	serviceContainer.NotificationService.SetPublisher(wsManager)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter, serviceContainer
}

func startWorkers(ctx context.Context, cfg *config.Config, container *services.ServiceContainer) {
	availabilityWorker := workers.NewAvailabilityWorker(container.AvailabilityService, cfg.AwaySweepInterval())
	availabilityWorker.Start(ctx)

	throttleWorker := workers.NewThrottleWorker(container.NotificationService, cfg.ThrottleSweepInterval())
	throttleWorker.Start(ctx)

	cleanupWorker := workers.NewCleanupWorker(container.NotificationService, cfg.ReadRetention())
	cleanupWorker.Start(ctx)
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}
