// Package main is the entry point for the NyxOS backend server.
//
// The server owns the persistent browser-OS filesystem and exposes it to
// the desktop shell over HTTP. On start it opens the configured store
// (falling back to the blob slot), seeds a fresh filesystem, runs
// /config/autoexec.ini and serves until SIGINT or SIGTERM.
//
// Configuration:
//   - Environment variables (see internal/infrastructure/config)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# sqlite store in the working directory
//	./server -port 8000
//
//	# postgres, development logging
//	STORAGE_DSN=postgres://nyx@localhost/nyxos ./server -storage postgres -dev
package main
