/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

Prometheus collectors for the NyxOS backend: HTTP traffic, service tool
executions, filesystem provider operations and the active store backend.
Collectors live on a dedicated registry so tests can build as many
Metrics values as they like.

# Features

- HTTP request metrics (latency, throughput, size) labelled by route
- Service call metrics (duration, errors), fed by service.Registry
- Filesystem operation metrics, fed through the provider's Observer hook
- Store backend info gauge and autoexec launch counter
- Uptime gauge evaluated at scrape time

# Usage

	metrics := monitoring.NewMetrics(nil)

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	fs, err := vfs.Open(ctx, vfs.Config{Observer: metrics}, logger)
	registry.SetRecorder(metrics)
*/
package monitoring
