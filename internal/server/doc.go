// Package server runs the vault service's transport servers.
//
// It owns the lifecycle of the HTTP API server and the gRPC health server:
// startup, OS signal handling, and graceful shutdown of whichever transports
// the configuration enables.
package server
