package service

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/reveriegames/reverie/pkg/memory/store"
)

// Server is the memory service for storing and loading session records.
type Server struct {
	config Config
	storer store.Remote
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new memory service.
// The storer is injected to allow swapping backends (sqlite, postgres,
// in-memory for tests).
func NewServer(config Config, storer store.Remote, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		storer: storer,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/v1/memory/:session_id", s.handleLoadMemory)
	app.Put("/v1/memory", s.handleSaveMemory)
	app.Delete("/v1/memory/:session_id", s.handleDeleteMemory)

	return s
}

// Run starts the memory service on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting memory service",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the memory service.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
