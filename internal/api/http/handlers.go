package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nyxos/backend/internal/infrastructure/logging"
	"github.com/nyxos/backend/internal/infrastructure/monitoring"
	"github.com/nyxos/backend/internal/infrastructure/tracing"
	"github.com/nyxos/backend/internal/providers/filesystem"
	"github.com/nyxos/backend/internal/service"
	"github.com/nyxos/backend/internal/shared/types"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// FileSystem is what the fs endpoints need from the filesystem
type FileSystem interface {
	filesystem.Operations
	Backend() string
}

// AppQueue lists apps queued for the shell at boot
type AppQueue interface {
	Apps() []string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	fs        FileSystem
	registry  *service.Registry
	autostart AppQueue
	metrics   *monitoring.Metrics
	logger    *logging.Logger
}

// NewHandlers creates a new handler set. metrics and autostart may be nil.
func NewHandlers(fs FileSystem, registry *service.Registry, autostart AppQueue, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	return &Handlers{
		fs:        fs,
		registry:  registry,
		autostart: autostart,
		metrics:   metrics,
		logger:    logging.OrNop(logger).Named("http"),
	}
}

// Root handles the liveness probe
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "NyxOS backend",
		"version": Version,
	})
}

// Health reports the store backend and registry state
func (h *Handlers) Health(c *gin.Context) {
	ok, err := h.fs.Exists(c.Request.Context(), "/")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	body := gin.H{
		"status":           "healthy",
		"storage":          gin.H{"backend": h.fs.Backend(), "root": ok},
		"service_registry": h.registry.Stats(),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// ExecuteService executes a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var appCtx *types.Context
	if req.AppID != nil {
		appCtx = &types.Context{AppID: req.AppID}
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if errors.Is(err, service.ErrToolNotFound) {
		c.JSON(http.StatusNotFound, result)
		return
	}
	if err != nil {
		h.logger.Error("service execution failed",
			zap.String("tool", req.ToolID),
			zap.String("request_id", tracing.GetRequestID(c.Request.Context())),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Autostart returns the app ids queued by autoexec.ini
func (h *Handlers) Autostart(c *gin.Context) {
	apps := []string{}
	if h.autostart != nil {
		apps = h.autostart.Apps()
	}
	c.JSON(http.StatusOK, gin.H{"apps": apps})
}

// Metrics serves the Prometheus exposition
func (h *Handlers) Metrics(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusNotFound)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// MetricsJSON serves the counter snapshot for the shell's status widget
func (h *Handlers) MetricsJSON(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusNotFound)
		return
	}
	snap := h.metrics.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"snapshot":           snap,
		"average_latency_ms": snap.AvgLatency() * 1000,
		"store_backend":      h.fs.Backend(),
	})
}
