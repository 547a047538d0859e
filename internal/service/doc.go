// Package service provides the service registry that exposes NyxOS
// providers to the desktop shell.
//
// The registry maintains a catalog of service providers (filesystem, theme)
// and dispatches tool calls such as "filesystem.read" to the provider whose
// ID is the tool's first segment.
//
// Components:
//   - Registry: Central service catalog
//   - Provider: Interface for service implementations
//   - Recorder: Optional per-call metrics hook
//
// Discovery Algorithm:
//   - Keyword matching in name/description
//   - Capability matching
//   - Category bonus for exact matches
//   - Score-based ranking
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(filesystem.NewService(fs))
//	services := registry.Discover("read file", 5)
//	result, err := registry.Execute(ctx, "filesystem.read", params, appCtx)
package service
