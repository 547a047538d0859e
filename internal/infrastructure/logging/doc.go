// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components receive a *Logger at construction and scope it with Named
// ("storage", "filesystem", "boot"). Constructors accept nil and fall back
// to a no-op logger via OrNop, which keeps tests quiet.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Store opened", zap.String("backend", "sqlite"))
//	logger.Warn("Primary store unavailable", zap.Error(err))
package logging
