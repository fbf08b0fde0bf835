package server

import "context"

// Server defines the lifecycle contract of the transport servers managed by
// this package.
//
// Implementations block in [RunServer] until ctx is cancelled or serving
// fails, and release resources in [Shutdown].
type Server interface {
	// RunServer serves requests until ctx is done, then shuts down
	// gracefully.
	RunServer(ctx context.Context) error

	// Shutdown stops the server, waiting for in-flight requests until ctx
	// expires.
	Shutdown(ctx context.Context) error
}
