package main

import (
	"log/slog"
	"os"

	_ "tasktrack/docs"
	"tasktrack/internal/config"
	"tasktrack/internal/logger"
	"tasktrack/internal/server"
)

// @title           Task Tracker API
// @version         1.0
// @description     API for creating, assigning and tracking tasks.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()
	logger.Setup(logger.ParseLevel(cfg.LogLevel))

	s, err := server.Init(cfg)
	if err != nil {
		slog.Error("server initialization failed", "error", err)
		os.Exit(1)
	}

	s.Run()
}
