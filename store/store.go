// Package store defines the storage interface and implementations.
package store

import (
	"context"

	"github.com/hackrx/chatgateway/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	TouchSession(ctx context.Context, sessionID string, incrementBy int) error
	ListActiveSessions(ctx context.Context, limit int) ([]domain.Session, error)

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	GetHistory(ctx context.Context, sessionID string, limit, offset int) ([]domain.Message, int, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
