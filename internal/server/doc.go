// Package server runs the local HTTP API of the portal runtime.
//
// It owns the server lifecycle: startup, serving until the run context is
// cancelled, and graceful shutdown.
package server
