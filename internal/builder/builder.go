package builder

import (
	"fmt"
	"net/http"

	"github.com/futig/wrapgen/internal/api"
	workflowapi "github.com/futig/wrapgen/internal/api/workflow"
	"github.com/futig/wrapgen/internal/config"
	"github.com/futig/wrapgen/internal/integration/llm"
	"github.com/futig/wrapgen/internal/pkg/formatter"
	"github.com/futig/wrapgen/internal/pkg/validator"
	"github.com/futig/wrapgen/internal/repository"
	"github.com/futig/wrapgen/internal/usecase/workflow"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	archiveCache := repository.NewArchiveCache(cfg.ArchiveCacheCfg)
	logger.Info("Archive cache initialized",
		zap.Duration("ttl", cfg.ArchiveCacheCfg.TTL),
		zap.Duration("cleanup_interval", cfg.ArchiveCacheCfg.CleanupInterval),
	)

	// Initialize generation service connector (with mock support)
	var generationClient workflow.GenerationClient
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the generation service")
		generationClient = llm.NewMockConnector()
	} else {
		logger.Info("Using real connector for the generation service",
			zap.String("service_url", cfg.LLMConnectorCfg.Url),
			zap.String("project_model", cfg.LLMConnectorCfg.ProjectModel),
			zap.String("image_model", cfg.LLMConnectorCfg.ImageModel),
		)
		generationClient = llm.NewConnector(cfg.LLMConnectorCfg)
	}

	inputValidator := validator.NewValidator(cfg.InputCfg)

	workflowUC := workflow.NewUsecase(
		generationClient,
		archiveCache,
		inputValidator,
		formatter.NewFactory(),
		workflow.Models{
			Project: cfg.LLMConnectorCfg.ProjectModel,
			Image:   cfg.LLMConnectorCfg.ImageModel,
		},
	)
	logger.Info("Use cases initialized")

	workflowHandler := workflowapi.NewHandler(workflowUC)

	router := api.SetupRouter(workflowHandler, cfg.CORSCfg, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}, nil
}
