package system

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nyxos/backend/internal/infrastructure/logging"
	"github.com/nyxos/backend/internal/shared/types"
)

// Version is the backend release reported by system.info
const Version = "0.3.0"

// FS is the part of the filesystem system.info inspects
type FS interface {
	Backend() string
	Search(ctx context.Context, root, query string) ([]types.Node, error)
}

// Provider implements system information and the app log
type Provider struct {
	fs        FS
	startTime time.Time
	logs      *CircularLogBuffer
	logger    *logging.Logger
}

// CircularLogBuffer is a thread-safe circular buffer for log entries
type CircularLogBuffer struct {
	entries []*LogEntry
	head    int
	size    int
	maxSize int
	mu      sync.RWMutex
}

// LogEntry represents an app log entry
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	AppID     string    `json:"app_id,omitempty"`
}

// NewProvider creates a system provider
func NewProvider(fs FS, logger *logging.Logger) *Provider {
	return &Provider{
		fs:        fs,
		startTime: time.Now(),
		logs:      NewCircularLogBuffer(1000),
		logger:    logging.OrNop(logger).Named("apps"),
	}
}

// NewCircularLogBuffer creates a new circular buffer for logs
func NewCircularLogBuffer(maxSize int) *CircularLogBuffer {
	return &CircularLogBuffer{
		entries: make([]*LogEntry, maxSize),
		maxSize: maxSize,
	}
}

// Add inserts a log entry, overwriting the oldest once full
func (cb *CircularLogBuffer) Add(entry *LogEntry) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.entries[cb.head] = entry
	cb.head = (cb.head + 1) % cb.maxSize
	if cb.size < cb.maxSize {
		cb.size++
	}
}

// GetRecent returns up to limit entries, newest first, optionally filtered
// by level
func (cb *CircularLogBuffer) GetRecent(limit int, levelFilter string) []LogEntry {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if limit > cb.size {
		limit = cb.size
	}

	result := make([]LogEntry, 0, limit)
	for i := 0; i < cb.size && len(result) < limit; i++ {
		idx := (cb.head - 1 - i + cb.maxSize) % cb.maxSize
		entry := cb.entries[idx]
		if entry != nil && (levelFilter == "" || entry.Level == levelFilter) {
			result = append(result, *entry)
		}
	}
	return result
}

// Definition returns service metadata
func (s *Provider) Definition() types.Service {
	return types.Service{
		ID:          "system",
		Name:        "System Service",
		Description: "System information, time and app logging",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"info",
			"time",
			"logging",
		},
		Tools: []types.Tool{
			{
				ID:          "system.info",
				Name:        "System Info",
				Description: "Runtime, store backend and filesystem totals",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "system.time",
				Name:        "Current Time",
				Description: "Server time",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "system.log",
				Name:        "Log Message",
				Description: "Record an app log line",
				Parameters: []types.Parameter{
					{Name: "message", Type: "string", Description: "Log message", Required: true},
					{Name: "level", Type: "string", Description: "debug, info, warn or error", Required: false},
				},
				Returns: "boolean",
			},
			{
				ID:          "system.getLogs",
				Name:        "Get Logs",
				Description: "Recent app log lines, newest first",
				Parameters: []types.Parameter{
					{Name: "limit", Type: "number", Description: "Maximum entries (default 100)", Required: false},
					{Name: "level", Type: "string", Description: "Only this level", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "system.ping",
				Name:        "Ping",
				Description: "Liveness check",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute runs a system operation
func (s *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "system.info":
		return s.info(ctx)
	case "system.time":
		return s.currentTime()
	case "system.log":
		return s.log(params, appCtx)
	case "system.getLogs":
		return s.getLogs(params)
	case "system.ping":
		return success(map[string]interface{}{
			"pong":      true,
			"timestamp": time.Now().Unix(),
		})
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (s *Provider) info(ctx context.Context) (*types.Result, error) {
	nodes, err := s.fs.Search(ctx, "/", "")
	if err != nil {
		return failure(err.Error())
	}
	var files, folders, bytes int
	for _, n := range nodes {
		if n.IsFolder() {
			folders++
			continue
		}
		files++
		bytes += len(n.Content)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return success(map[string]interface{}{
		"version":        Version,
		"go_version":     runtime.Version(),
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
		"cpus":           runtime.NumCPU(),
		"goroutines":     runtime.NumGoroutine(),
		"memory_alloc":   m.Alloc / 1024 / 1024, // MB
		"uptime_seconds": time.Since(s.startTime).Seconds(),
		"store_backend":  s.fs.Backend(),
		"files":          files,
		"folders":        folders,
		"content_bytes":  bytes,
	})
}

func (s *Provider) currentTime() (*types.Result, error) {
	now := time.Now()
	return success(map[string]interface{}{
		"timestamp": now.Unix(),
		"iso":       now.Format(time.RFC3339),
		"unix_ms":   now.UnixMilli(),
	})
}

func (s *Provider) log(params map[string]interface{}, ctx *types.Context) (*types.Result, error) {
	message, ok := params["message"].(string)
	if !ok || message == "" {
		return failure("message required")
	}

	level := "info"
	if l, ok := params["level"].(string); ok && l != "" {
		level = l
	}

	entry := &LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	}
	if ctx != nil && ctx.AppID != nil {
		entry.AppID = *ctx.AppID
	}
	s.logs.Add(entry)

	fields := []zap.Field{zap.String("app_id", entry.AppID)}
	switch level {
	case "error":
		s.logger.Error(message, fields...)
	case "warn":
		s.logger.Warn(message, fields...)
	case "debug":
		s.logger.Debug(message, fields...)
	default:
		s.logger.Info(message, fields...)
	}

	return success(map[string]interface{}{"logged": true})
}

func (s *Provider) getLogs(params map[string]interface{}) (*types.Result, error) {
	limit := 100
	if l, ok := params["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}
	levelFilter, _ := params["level"].(string)

	logs := s.logs.GetRecent(limit, levelFilter)
	return success(map[string]interface{}{
		"logs":  logs,
		"count": len(logs),
	})
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}
