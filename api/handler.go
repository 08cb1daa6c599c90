// Package api provides HTTP handlers for the chat gateway.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hackrx/chatgateway/config"
	"github.com/hackrx/chatgateway/service"
)

// Version reported by the banner and health endpoints.
const Version = "1.0.0"

// Handler handles HTTP requests.
type Handler struct {
	svc    *service.Service
	config *config.Config
	log    zerolog.Logger
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		config: cfg,
		log:    log,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	chat := e.Group("/api/v1/chat")
	chat.POST("/session", h.CreateSession)
	chat.POST("/message", h.SendMessage)
	chat.GET("/history/:session_id", h.GetHistory)
	chat.GET("/sessions", h.ListSessions)
	chat.POST("/hackrx/run", h.RunKnowledgeBase)

	e.GET("/api/v1/health", h.Health)
	e.GET("/", h.Root)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error":   "Route not found",
			"message": "The requested route " + c.Request().URL.Path + " does not exist",
		})
	})
}

// Root returns the service banner.
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "HackRx ChatBot Gateway",
		"version": Version,
		"status":  "running",
		"endpoints": map[string]string{
			"chat":   "/api/v1/chat",
			"health": "/api/v1/health",
		},
	})
}

// fail writes the error envelope. Internal detail is only included in
// development mode; production callers get the short message alone.
func (h *Handler) fail(c echo.Context, status int, message string, err error) error {
	body := map[string]interface{}{
		"success": false,
		"error":   message,
	}
	if err != nil && h.config.IsDevelopment() {
		body["details"] = err.Error()
	}
	return c.JSON(status, body)
}
