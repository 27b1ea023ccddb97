package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	adapterrepo "github.com/wekeepgrowing/identity-server/internal/adapter/repository"
	"github.com/wekeepgrowing/identity-server/internal/config"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/db"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/grpc"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/http"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/http/handler"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/http/middleware"
	appinit "github.com/wekeepgrowing/identity-server/internal/init"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := cfg.Logger
	defer logger.Sync()

	logger.Info("starting identity server",
		zap.String("service", cfg.Service.Name),
		zap.String("version", cfg.Service.Version))

	ctx := context.Background()

	database, err := db.NewMongoDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize mongodb", zap.Error(err))
	}
	defer database.Close(ctx)

	if err := database.EnsureIndexes(ctx); err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	redisClient, err := db.NewRedisClient(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize redis", zap.Error(err))
	}
	defer redisClient.Close()

	repositories := adapterrepo.NewRepositories(cfg, database, redisClient, logger)
	useCases := appinit.NewUseCases(cfg, repositories, logger)

	authHandler := handler.NewAuthHandler(useCases.Auth, cfg.JWT.RefreshTTL, logger)
	accountHandler := handler.NewAccountHandler(useCases.Account, logger)
	authMiddleware := middleware.NewAuthMiddleware(useCases.Auth, logger)

	httpServer := http.NewServer(http.Config{
		Port:    cfg.Server.HTTP.Port,
		Timeout: cfg.Server.HTTP.Timeout,
		Debug:   cfg.Server.HTTP.Debug,
	}, logger)
	httpServer.RegisterRoutes(authHandler, accountHandler, authMiddleware)

	grpcServer := grpc.NewServer(grpc.Config{
		Port:    cfg.Server.GRPC.Port,
		Timeout: cfg.Server.GRPC.Timeout,
	}, logger)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	go func() {
		if err := grpcServer.Start(); err != nil {
			logger.Error("gRPC server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := httpServer.Stop(); err != nil {
		logger.Error("failed to stop HTTP server", zap.Error(err))
	}
	grpcServer.Stop()

	logger.Info("shutdown complete")
}
