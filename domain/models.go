// Package domain defines the core domain models for the chat gateway.
package domain

import (
	"encoding/json"
	"time"
)

// DefaultSessionTitle is assigned to sessions created without a title.
const DefaultSessionTitle = "New Chat"

// UnknownSessionTitle marks the placeholder returned for history requests
// against a session that was never created.
const UnknownSessionTitle = "Unknown Session"

// Session represents a conversation session.
type Session struct {
	SessionID    string    `json:"sessionId"`
	Title        string    `json:"title"`
	MessageCount int       `json:"messageCount"`
	LastActivity time.Time `json:"lastActivity"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Message represents a single user-turn/answer pair in a session.
// Messages are immutable once written.
type Message struct {
	MessageID string          `json:"messageId"`
	SessionID string          `json:"sessionId"`
	Message   string          `json:"message"`
	Response  string          `json:"response"`
	Timestamp time.Time       `json:"timestamp"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// ChatReply is the result of sending a message through the gateway.
type ChatReply struct {
	Response  string    `json:"response"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthStatus reports the liveness of the AI service.
type HealthStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Healthy reports whether the status indicates a reachable service.
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy" || h.Error == ""
}

// ServiceHealth describes the state of one dependency in the health report.
type ServiceHealth struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

// HealthReport aggregates dependency health for the health endpoint.
type HealthReport struct {
	Database  ServiceHealth `json:"database"`
	AIService ServiceHealth `json:"aiService"`
}
