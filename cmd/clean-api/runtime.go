package main

import (
	"fmt"

	"github.com/deppfellow/clean-api/internal/config"
	"github.com/deppfellow/clean-api/internal/logger"
	"github.com/rs/zerolog"
)

// runtime is what every command needs before doing real work.
type runtime struct {
	cfg           *config.Config
	loggerService *logger.LoggerService
	log           zerolog.Logger
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize New Relic: %w", err)
	}

	return &runtime{
		cfg:           cfg,
		loggerService: loggerService,
		log:           logger.NewLoggerWithService(cfg.Observability, loggerService),
	}, nil
}

func (rt *runtime) close() {
	rt.loggerService.Shutdown()
}
