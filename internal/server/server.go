package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "github.com/nyxos/backend/internal/api/http"
	"github.com/nyxos/backend/internal/api/middleware"
	"github.com/nyxos/backend/internal/boot"
	"github.com/nyxos/backend/internal/infrastructure/config"
	"github.com/nyxos/backend/internal/infrastructure/logging"
	"github.com/nyxos/backend/internal/infrastructure/monitoring"
	"github.com/nyxos/backend/internal/infrastructure/tracing"
	"github.com/nyxos/backend/internal/providers/filesystem"
	"github.com/nyxos/backend/internal/providers/system"
	"github.com/nyxos/backend/internal/providers/theme"
	"github.com/nyxos/backend/internal/service"
	"github.com/nyxos/backend/internal/storage"
	"github.com/nyxos/backend/internal/vfs"
)

// shutdownTimeout bounds how long in-flight requests get on Close
const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router    *gin.Engine
	http      *http.Server
	fs        *vfs.FileSystem
	registry  *service.Registry
	autostart *boot.Autostart
	tracer    *tracing.Tracer
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// NewServer opens the filesystem, runs the boot sequence and builds the
// router. The caller owns the returned server and must Close it.
func NewServer(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Server, error) {
	logger = logging.OrNop(logger)
	logger.Info("Initializing NyxOS backend",
		zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		zap.String("storage", cfg.Storage.Backend),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics(nil)

	fs, err := vfs.Open(ctx, vfs.Config{
		Storage: storage.Config{
			Backend:      cfg.Storage.Backend,
			DSN:          cfg.Storage.DSN,
			FallbackPath: cfg.Storage.FallbackPath,
		},
		StrictParents:          cfg.Filesystem.StrictParents,
		PreserveMetadataOnMove: cfg.Filesystem.PreserveMetadataOnMove,
		Observer:               metrics,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open filesystem: %w", err)
	}
	metrics.SetStoreBackend(fs.Backend())

	autostart, err := bootSequence(ctx, cfg, fs, metrics, logger)
	if err != nil {
		fs.Close()
		return nil, err
	}

	serviceRegistry := service.NewRegistry()
	serviceRegistry.SetRecorder(metrics)
	registerProviders(serviceRegistry, fs, logger)

	tracer := tracing.New("nyxos", logger)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.RequestID())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.CORSForOrigins(cfg.CORS.Origins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limits.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limits))
	}

	api.NewHandlers(fs, serviceRegistry, autostart, metrics, logger).Register(router)

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		fs:        fs,
		registry:  serviceRegistry,
		autostart: autostart,
		tracer:    tracer,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}, nil
}

// bootSequence seeds a fresh filesystem, guarantees the root and queues
// autoexec apps for the shell
func bootSequence(ctx context.Context, cfg *config.Config, fs *vfs.FileSystem, metrics *monitoring.Metrics, logger *logging.Logger) (*boot.Autostart, error) {
	if cfg.Filesystem.FirstBoot {
		seeded, err := boot.FirstBoot(ctx, fs, logger)
		if err != nil {
			return nil, fmt.Errorf("first boot: %w", err)
		}
		if seeded {
			logger.Info("Seeded default filesystem layout")
		}
	}
	if err := fs.Init(ctx); err != nil {
		return nil, fmt.Errorf("init filesystem: %w", err)
	}

	autostart := boot.NewAutostart()
	if !cfg.Filesystem.Autoexec {
		return autostart, nil
	}
	launcher := boot.LauncherFunc(func(ctx context.Context, appID string) error {
		err := autostart.Launch(ctx, appID)
		metrics.RecordAutoexecLaunch(err)
		return err
	})
	ids, err := boot.RunAutoexec(ctx, fs, launcher, logger)
	if err != nil {
		// a broken autoexec entry must not keep the desktop from starting
		logger.Warn("Autoexec finished with errors", zap.Error(err))
	}
	logger.Info("Autoexec queued apps", zap.Strings("apps", ids))
	return autostart, nil
}

func registerProviders(registry *service.Registry, fs *vfs.FileSystem, logger *logging.Logger) {
	providers := []service.Provider{
		filesystem.NewService(fs),
		theme.NewProvider(fs),
		system.NewProvider(fs, logger),
	}
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			logger.Warn("Failed to register provider", zap.String("service", p.Definition().ID), zap.Error(err))
		}
	}

	stats := registry.Stats()
	logger.Info("Registered service providers",
		zap.Any("services", stats["total_services"]),
		zap.Any("tools", stats["total_tools"]),
	)
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Autostart returns the apps queued at boot
func (s *Server) Autostart() []string {
	return s.autostart.Apps()
}

// Run starts the HTTP server and blocks until it stops. A clean Close
// returns nil, including a Close that lands before Run starts listening.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close drains in-flight requests, then closes the filesystem
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	var errs []error
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP shutdown failed", zap.Error(err))
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	if err := s.fs.Close(); err != nil {
		s.logger.Error("Failed to close filesystem", zap.Error(err))
		errs = append(errs, fmt.Errorf("close filesystem: %w", err))
	}
	s.tracer.Close()

	// Sync logger before exit
	_ = s.logger.Sync()

	return errors.Join(errs...)
}
