// Package service provides the HTTP memory service that persists session
// records for reverie clients.
package service

// Config is the memory service configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string
}
