// Package service orchestrates sessions, the message log, and the AI
// service client.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hackrx/chatgateway/domain"
	"github.com/hackrx/chatgateway/store"
)

// AIClient is the outbound gateway the service depends on. It is an
// interface so tests can substitute a stub backend.
type AIClient interface {
	Chat(ctx context.Context, message string) (string, error)
	RunQuestions(ctx context.Context, documents string, questions []string) ([]string, error)
	Health(ctx context.Context) domain.HealthStatus
}

// Service implements the conversation gateway operations.
type Service struct {
	store store.Store
	ai    AIClient
	log   zerolog.Logger
}

// New creates a new service.
func New(st store.Store, ai AIClient, log zerolog.Logger) *Service {
	return &Service{
		store: st,
		ai:    ai,
		log:   log,
	}
}
