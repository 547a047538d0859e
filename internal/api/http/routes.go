package http

import "github.com/gin-gonic/gin"

// Register mounts every endpoint on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// Service management
	r.GET("/services", h.ListServices)
	r.POST("/services/execute", h.ExecuteService)

	// Filesystem
	r.GET("/fs/list", h.ListDir)
	r.GET("/fs/stat", h.Stat)
	r.GET("/fs/read", h.ReadFile)
	r.PUT("/fs/write", h.WriteFile)
	r.POST("/fs/mkdir", h.Mkdir)
	r.DELETE("/fs", h.Delete)
	r.POST("/fs/move", h.Move)
	r.GET("/fs/export", h.Export)

	// Boot
	r.GET("/autostart", h.Autostart)

	// Observability
	r.POST("/logs", h.StreamLogs)
	r.GET("/metrics", h.Metrics)
	r.GET("/metrics/json", h.MetricsJSON)
}
