package helpers

import (
	"context"

	"github.com/hackrx/chatgateway/domain"
)

// StubAI is a fake AI service client for tests. Unset functions fall
// back to benign defaults.
type StubAI struct {
	ChatFn   func(ctx context.Context, message string) (string, error)
	RunFn    func(ctx context.Context, documents string, questions []string) ([]string, error)
	HealthFn func(ctx context.Context) domain.HealthStatus
}

func (s *StubAI) Chat(ctx context.Context, message string) (string, error) {
	if s.ChatFn != nil {
		return s.ChatFn(ctx, message)
	}
	return "stub response", nil
}

func (s *StubAI) RunQuestions(ctx context.Context, documents string, questions []string) ([]string, error) {
	if s.RunFn != nil {
		return s.RunFn(ctx, documents, questions)
	}
	answers := make([]string, len(questions))
	for i := range questions {
		answers[i] = "stub answer"
	}
	return answers, nil
}

func (s *StubAI) Health(ctx context.Context) domain.HealthStatus {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return domain.HealthStatus{Status: "healthy"}
}
