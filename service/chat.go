package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hackrx/chatgateway/domain"
)

const (
	defaultHistoryLimit = 50
	sessionListLimit    = 50
)

// CreateSession creates a new session with a fresh unique id.
func (s *Service) CreateSession(ctx context.Context, title string) (*domain.Session, error) {
	if title == "" {
		title = domain.DefaultSessionTitle
	}
	session := &domain.Session{
		SessionID:    uuid.New().String(),
		Title:        title,
		MessageCount: 0,
		LastActivity: time.Now(),
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	s.log.Info().Str("session_id", session.SessionID).Msg("session created")
	return session, nil
}

// SendMessage forwards a user message to the AI service and persists the
// exchange. When sessionID is empty a new session is created and its id
// returned with the answer. Nothing is written if the AI call fails, so
// a failed turn never leaves a half-persisted message.
func (s *Service) SendMessage(ctx context.Context, sessionID, text string) (*domain.ChatReply, error) {
	if text == "" {
		return nil, &domain.ValidationError{Field: "message"}
	}

	if sessionID == "" {
		session, err := s.CreateSession(ctx, "")
		if err != nil {
			return nil, err
		}
		sessionID = session.SessionID
	}

	answer, err := s.ai.Chat(ctx, text)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("ai service call failed")
		return nil, err
	}

	msg := &domain.Message{
		MessageID: "msg_" + uuid.New().String(),
		SessionID: sessionID,
		Message:   text,
		Response:  answer,
		Timestamp: time.Now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	// The counter update is a second, non-transactional write: if it
	// fails the message above stays durable and the session counters
	// may undercount until the next successful touch.
	if err := s.store.TouchSession(ctx, sessionID, 1); err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("session counter update failed after message append")
		return nil, err
	}

	return &domain.ChatReply{
		Response:  answer,
		SessionID: sessionID,
		Timestamp: msg.Timestamp,
	}, nil
}

// GetHistory returns one page of a session's transcript, oldest first,
// with the session record and the full message count. An unknown session
// degrades to a placeholder record instead of an error.
func (s *Service) GetHistory(ctx context.Context, sessionID string, limit, offset int) (*domain.Session, []domain.Message, int, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	messages, total, err := s.store.GetHistory(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, nil, 0, err
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, 0, err
	}
	if session == nil {
		session = &domain.Session{
			SessionID: sessionID,
			Title:     domain.UnknownSessionTitle,
		}
	}

	return session, messages, total, nil
}

// ListSessions returns active sessions, most recently active first.
func (s *Service) ListSessions(ctx context.Context) ([]domain.Session, error) {
	return s.store.ListActiveSessions(ctx, sessionListLimit)
}

// RunKnowledgeBase answers a batch of questions against a knowledge
// source. This path is stateless: nothing is persisted.
func (s *Service) RunKnowledgeBase(ctx context.Context, documents string, questions []string) ([]string, error) {
	if documents == "" {
		return nil, &domain.ValidationError{Field: "documents"}
	}
	if len(questions) == 0 {
		return nil, &domain.ValidationError{Field: "questions"}
	}
	return s.ai.RunQuestions(ctx, documents, questions)
}

// Health aggregates store and AI service health. It reports rather than
// fails: probe errors surface as unhealthy statuses in the returned
// report, never as an error.
func (s *Service) Health(ctx context.Context) (domain.HealthReport, bool) {
	report := domain.HealthReport{
		Database:  domain.ServiceHealth{Status: "connected", Name: "SQLite"},
		AIService: domain.ServiceHealth{Name: "AI Service"},
	}

	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn().Err(err).Msg("database health check failed")
		report.Database.Status = "disconnected"
	}

	aiStatus := s.ai.Health(ctx)
	report.AIService.Status = aiStatus.Status
	if report.AIService.Status == "" {
		report.AIService.Status = "unknown"
	}

	healthy := report.Database.Status == "connected" && aiStatus.Healthy()
	return report, healthy
}
