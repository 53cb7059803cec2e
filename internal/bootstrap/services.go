package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/predictlab/forecast-ui-api/config"
	"github.com/predictlab/forecast-ui-api/internal/data"
	"github.com/predictlab/forecast-ui-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth          *AuthStack
	Predictions   *service.PredictionService
	SourceFiles   *service.SourceFileService
	Subscriptions *service.SubscriptionService
}

// ServiceDeps groups the shared dependencies services are built from.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Predictions   *data.PredictionRepo
	SourceFiles   *data.SourceFileRepo
	Subscriptions *data.SubscriptionRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		Predictions:   data.NewPredictionRepo(db),
		SourceFiles:   data.NewSourceFileRepo(db),
		Subscriptions: data.NewSubscriptionRepo(db),
	}
}

// NewServices wires the full service container from shared dependencies.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil {
		return ServiceContainer{}, errors.New("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	auth, err := BuildAuthStack(AuthStackConfig{
		Auth:        appCfg.Auth,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth stack: %w", err)
	}

	repos := buildRepositories(deps.DB)

	return ServiceContainer{
		Auth: auth,
		Predictions: service.NewPredictionService(service.PredictionServiceOptions{
			Repo:        repos.Predictions,
			SourceFiles: repos.SourceFiles,
			Logger:      logger,
		}),
		SourceFiles: service.NewSourceFileService(service.SourceFileServiceOptions{
			Repo:   repos.SourceFiles,
			Logger: logger,
		}),
		Subscriptions: service.NewSubscriptionService(service.SubscriptionServiceOptions{
			Repo: repos.Subscriptions,
		}),
	}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// RunServicesWithShutdown starts all enabled services and manages their
// lifecycle. This function blocks until a shutdown signal is received or a
// service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	// The session manager consumes identity events regardless of which
	// transports are enabled.
	if cfg.Services.Auth != nil {
		if startErr := cfg.Services.Auth.Manager.Start(serviceCtx); startErr != nil {
			return fmt.Errorf("start session manager: %w", startErr)
		}
	}

	var httpServer *http.Server
	if enabledServices[config.ServiceModeHTTP] {
		httpServer = StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
	}

	return waitForShutdown(shutdownConfig{
		ctx:        serviceCtx,
		cancel:     cancel,
		httpServer: httpServer,
		services:   cfg.Services,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	cancel     context.CancelFunc
	httpServer *http.Server
	services   ServiceContainer
	logger     *slog.Logger
}

// waitForShutdown waits for a shutdown signal and stops services gracefully.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	cfg.logger.Info("shutting down services...")
	cfg.cancel()
	return gracefulStop(cfg)
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	// Stop the identity event consumer after the HTTP surface is drained so
	// in-flight requests keep a consistent session view.
	if cfg.services.Auth != nil {
		cfg.services.Auth.Manager.Stop()
	}

	return nil
}
