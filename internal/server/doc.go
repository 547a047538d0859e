// Package server wires the NyxOS backend together.
//
// Server Lifecycle:
//  1. Build metrics and open the filesystem (configured store, with blob fallback)
//  2. First boot seeding, root initialization, autoexec
//  3. Register the filesystem, theme and system services
//  4. Setup HTTP routes and middleware
//  5. Serve until Close, which drains requests and closes the store
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	defer srv.Close()
//	return srv.Run()
package server
