package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralTrust/ThrottleGate/pkg/config"
	"github.com/NeuralTrust/ThrottleGate/pkg/dependency_container"
	infraLogger "github.com/NeuralTrust/ThrottleGate/pkg/infra/logger"
	"github.com/NeuralTrust/ThrottleGate/pkg/server"
	"github.com/NeuralTrust/ThrottleGate/pkg/server/router"
	"github.com/joho/godotenv"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	err := config.Load(os.Getenv("CONFIG_PATH"))
	cfg := config.GetConfig()

	logger := infraLogger.NewLogger(cfg.Server.Type)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			logger.Fatalf("Failed to load config: %v", err)
		}
		logger.Warn(err.Error())
	}

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Close()

	apiRouter := router.NewAPIRouter(
		container.GlobalTransport,
		container.APITransport,
		container.AdminAuthMiddleware,
		container.HandlerTransport,
	)
	srv := server.NewBaseServer(cfg, logger).WithRouters(apiRouter)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}
