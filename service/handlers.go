package service

import (
	"github.com/gofiber/fiber/v2"

	"github.com/reveriegames/reverie/pkg/memory"
)

// ErrorResponse is the JSON error payload for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LoadResponse is the JSON payload for load requests. Status is "loaded"
// when a record exists and "missing" when the session has no saved
// memory; a miss is a normal response, not an error.
type LoadResponse struct {
	Status string         `json:"status"`
	Record *memory.Record `json:"record,omitempty"`
}

// SaveResponse acknowledges a persisted record.
type SaveResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleLoadMemory returns the saved record for a session, or a miss.
func (s *Server) handleLoadMemory(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "session_id parameter required"})
	}

	record, found, err := s.storer.Load(c.Context(), sessionID)
	if err != nil {
		s.logger.Error("load failed", "session_id", sessionID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load memory"})
	}

	if !found {
		return c.JSON(LoadResponse{Status: "missing"})
	}

	return c.JSON(LoadResponse{Status: "loaded", Record: record})
}

// handleSaveMemory upserts the record carried in the request body.
func (s *Server) handleSaveMemory(c *fiber.Ctx) error {
	record := &memory.Record{}
	if err := c.BodyParser(record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid record payload"})
	}

	if record.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "session_id required"})
	}

	if err := s.storer.Save(c.Context(), record); err != nil {
		s.logger.Error("save failed", "session_id", record.SessionID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to save memory"})
	}

	s.logger.Debug("memory saved",
		"session_id", record.SessionID,
		"scene_tag", record.SceneTag,
		"scenes_completed", record.ScenesCompleted,
	)

	return c.JSON(SaveResponse{Status: "saved", SessionID: record.SessionID})
}

// handleDeleteMemory removes the saved record for a session. Deleting a
// session that was never saved succeeds; the operation is idempotent.
func (s *Server) handleDeleteMemory(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "session_id parameter required"})
	}

	if err := s.storer.Delete(c.Context(), sessionID); err != nil {
		s.logger.Error("delete failed", "session_id", sessionID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to delete memory"})
	}

	return c.JSON(SaveResponse{Status: "deleted", SessionID: sessionID})
}
