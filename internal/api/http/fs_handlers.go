package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nyxos/backend/internal/infrastructure/tracing"
	"github.com/nyxos/backend/internal/providers/filesystem"
	"github.com/nyxos/backend/internal/shared/types"
)

// fsStatus maps provider errors to HTTP status codes
func fsStatus(err error) int {
	switch {
	case errors.Is(err, filesystem.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, filesystem.ErrParentMissing):
		return http.StatusConflict
	case errors.Is(err, filesystem.ErrNotFile), errors.Is(err, filesystem.ErrInvalidMove):
		return http.StatusBadRequest
	case errors.Is(err, filesystem.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, filesystem.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) fsError(c *gin.Context, op string, err error) {
	status := fsStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("filesystem request failed",
			zap.String("op", op),
			zap.String("request_id", tracing.GetRequestID(c.Request.Context())),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func requirePath(c *gin.Context) (string, bool) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return "", false
	}
	return path, true
}

// ListDir handles GET /fs/list?path=
func (h *Handlers) ListDir(c *gin.Context) {
	path := c.DefaultQuery("path", "/")
	nodes, err := h.fs.List(c.Request.Context(), path)
	if err != nil {
		h.fsError(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "nodes": nodes})
}

// Stat handles GET /fs/stat?path=
func (h *Handlers) Stat(c *gin.Context) {
	path, ok := requirePath(c)
	if !ok {
		return
	}
	node, err := h.fs.Stat(c.Request.Context(), path)
	if err != nil {
		h.fsError(c, "stat", err)
		return
	}
	if node == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "path": path})
		return
	}
	c.JSON(http.StatusOK, node)
}

// ReadFile handles GET /fs/read?path=
func (h *Handlers) ReadFile(c *gin.Context) {
	path, ok := requirePath(c)
	if !ok {
		return
	}
	content, found, err := h.fs.ReadFile(c.Request.Context(), path)
	if err != nil {
		h.fsError(c, "read", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such file", "path": path})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "content": content})
}

// WriteFile handles PUT /fs/write
func (h *Handlers) WriteFile(c *gin.Context) {
	var req types.WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.fs.WriteFile(c.Request.Context(), req.Path, req.Content); err != nil {
		h.fsError(c, "write", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": req.Path})
}

// Mkdir handles POST /fs/mkdir
func (h *Handlers) Mkdir(c *gin.Context) {
	var req types.PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.fs.Mkdir(c.Request.Context(), req.Path); err != nil {
		h.fsError(c, "mkdir", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": req.Path})
}

// Delete handles DELETE /fs?path=
func (h *Handlers) Delete(c *gin.Context) {
	path, ok := requirePath(c)
	if !ok {
		return
	}
	if err := h.fs.Delete(c.Request.Context(), path); err != nil {
		h.fsError(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": path})
}

// Move handles POST /fs/move
func (h *Handlers) Move(c *gin.Context) {
	var req types.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.fs.Move(c.Request.Context(), req.Src, req.Dest); err != nil {
		h.fsError(c, "move", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "src": req.Src, "dest": req.Dest})
}

var exportContentTypes = map[string]string{
	filesystem.FormatJSON: "application/json",
	filesystem.FormatYAML: "application/yaml",
	filesystem.FormatTOML: "application/toml",
}

// Export handles GET /fs/export?root=&format=
func (h *Handlers) Export(c *gin.Context) {
	root := c.DefaultQuery("root", "/")
	format := c.DefaultQuery("format", filesystem.FormatJSON)
	data, err := h.fs.Export(c.Request.Context(), root, format)
	if err != nil {
		h.fsError(c, "export", err)
		return
	}
	c.Data(http.StatusOK, exportContentTypes[format], data)
}
