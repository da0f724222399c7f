package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"webscout-server/internal/infrastructure/config"
	"webscout-server/internal/infrastructure/logger"
	_ "webscout-server/internal/infrastructure/metrics" // Register Prometheus metrics
	"webscout-server/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HTTPServer
	config     *config.Config
}

func init() {
	// Initialize logger with default settings
	logger.Init("info", "json")
}

// @title WebScout MCP Server
// @version 1.0
// @description Model Context Protocol (MCP) server providing web search and page scraping tools.
// @BasePath /
func (app *Application) Start() error {
	log.Info().Str("address", fmt.Sprintf(":%s", app.config.HTTPPort)).Msg("Server listening")
	return app.httpServer.Run()
}

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Re-initialize logger with config settings
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("log_level", cfg.LogLevel).
		Str("search_engine", cfg.SearchEngine).
		Msg("Starting WebScout server")

	// Create application with dependency injection
	application, err := CreateApplication(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	// Start application
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
