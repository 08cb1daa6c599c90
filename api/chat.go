package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hackrx/chatgateway/domain"
)

// CreateSessionRequest is the body for POST /api/v1/chat/session.
type CreateSessionRequest struct {
	Title string `json:"title"`
}

// SendMessageRequest is the body for POST /api/v1/chat/message.
type SendMessageRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// RunRequest is the body for POST /api/v1/chat/hackrx/run.
type RunRequest struct {
	Documents string   `json:"documents"`
	Questions []string `json:"questions"`
}

// CreateSession creates a new chat session.
// POST /api/v1/chat/session
func (h *Handler) CreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, http.StatusBadRequest, "Invalid request body", err)
	}

	session, err := h.svc.CreateSession(c.Request().Context(), req.Title)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create chat session")
		return h.fail(c, http.StatusInternalServerError, "Failed to create chat session", err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":   true,
		"sessionId": session.SessionID,
		"message":   "Chat session created successfully",
	})
}

// SendMessage sends a message in a chat session. A missing sessionId
// silently establishes a new session, returned alongside the answer.
// POST /api/v1/chat/message
func (h *Handler) SendMessage(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if req.Message == "" {
		return h.fail(c, http.StatusBadRequest, "Message is required", nil)
	}

	reply, err := h.svc.SendMessage(c.Request().Context(), req.SessionID, req.Message)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return h.fail(c, http.StatusBadRequest, ve.Error(), nil)
		}
		h.log.Error().Err(err).Msg("failed to process message")
		return h.fail(c, http.StatusInternalServerError, "Failed to process message", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"response":  reply.Response,
		"sessionId": reply.SessionID,
		"timestamp": reply.Timestamp,
	})
}

// GetHistory returns the paginated transcript for a session, oldest first.
// GET /api/v1/chat/history/:session_id
func (h *Handler) GetHistory(c echo.Context) error {
	sessionID := c.Param("session_id")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	session, messages, total, err := h.svc.GetHistory(c.Request().Context(), sessionID, limit, offset)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("failed to fetch chat history")
		return h.fail(c, http.StatusInternalServerError, "Failed to fetch chat history", err)
	}

	if messages == nil {
		messages = []domain.Message{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"session":  session,
		"messages": messages,
		"total":    total,
	})
}

// ListSessions returns active sessions by most recent activity.
// GET /api/v1/chat/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	sessions, err := h.svc.ListSessions(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to fetch sessions")
		return h.fail(c, http.StatusInternalServerError, "Failed to fetch sessions", err)
	}

	if sessions == nil {
		sessions = []domain.Session{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"sessions": sessions,
	})
}

// RunKnowledgeBase answers questions against a document without touching
// session state.
// POST /api/v1/chat/hackrx/run
func (h *Handler) RunKnowledgeBase(c echo.Context) error {
	var req RunRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if req.Documents == "" || len(req.Questions) == 0 {
		return h.fail(c, http.StatusBadRequest, "Documents URL and questions array are required", nil)
	}

	answers, err := h.svc.RunKnowledgeBase(c.Request().Context(), req.Documents, req.Questions)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to process questions")
		return h.fail(c, http.StatusInternalServerError, "Failed to process questions", err)
	}

	if answers == nil {
		answers = []string{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"answers": answers,
	})
}
