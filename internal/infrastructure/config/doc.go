// Package config provides 12-factor configuration management for the NyxOS backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Storage: Durable store backend, DSN and fallback slot
//   - Filesystem: Parent policy, move policy, boot switches
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - CORS: Allowed shell origins
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Store: %s (%s)\n", cfg.Storage.Backend, cfg.Storage.DSN)
//
// Environment Variables:
//   - PORT, HOST
//   - STORAGE_BACKEND, STORAGE_DSN, STORAGE_FALLBACK_PATH
//   - FS_STRICT_PARENTS, FS_PRESERVE_METADATA_ON_MOVE, FS_FIRST_BOOT, FS_AUTOEXEC
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CORS_ORIGINS
package config
