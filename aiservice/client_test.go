package aiservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hackrx/chatgateway/domain"
)

func TestChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["message"] != "What is the grace period?" {
			t.Fatalf("unexpected message: %q", req["message"])
		}
		if req["timestamp"] == "" {
			t.Fatalf("expected timestamp in request")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"response":"30 days"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", Timeouts{})
	answer, err := client.Chat(context.Background(), "What is the grace period?")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if answer != "30 days" {
		t.Fatalf("unexpected answer: %q", answer)
	}
}

func TestChatRawPayloadFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `the policy covers hospitalization`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", Timeouts{})
	answer, err := client.Chat(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if answer != "the policy covers hospitalization" {
		t.Fatalf("unexpected answer: %q", answer)
	}
}

func TestChatBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream broke")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", Timeouts{})
	_, err := client.Chat(context.Background(), "hello")
	var be *domain.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if be.Status != http.StatusBadGateway || be.Body != "upstream broke" {
		t.Fatalf("unexpected error: %+v", be)
	}
}

func TestChatUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "", Timeouts{})
	_, err := client.Chat(context.Background(), "hello")
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestChatTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"response":"too late"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", Timeouts{Chat: 20 * time.Millisecond})
	_, err := client.Chat(context.Background(), "hello")
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable on timeout, got %v", err)
	}
}

func TestChatBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		fmt.Fprint(w, `{"response":"ok"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", Timeouts{})
	if _, err := client.Chat(context.Background(), "hello"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
}

func TestRunQuestionsOrderPreserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/hackrx/run" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var req struct {
			Documents string   `json:"documents"`
			Questions []string `json:"questions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Documents != "https://example.com/policy.pdf" {
			t.Fatalf("unexpected documents: %q", req.Documents)
		}
		answers := make([]string, len(req.Questions))
		for i, q := range req.Questions {
			answers[i] = "answer to " + q
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"answers": answers})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", Timeouts{})
	questions := []string{"q1", "q2", "q3"}
	answers, err := client.RunQuestions(context.Background(), "https://example.com/policy.pdf", questions)
	if err != nil {
		t.Fatalf("RunQuestions failed: %v", err)
	}
	if len(answers) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(answers))
	}
	for i, q := range questions {
		if answers[i] != "answer to "+q {
			t.Fatalf("answer order broken at %d: %q", i, answers[i])
		}
	}
}

func TestRunQuestionsBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", Timeouts{})
	_, err := client.RunQuestions(context.Background(), "doc", []string{"q"})
	var be *domain.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
}

func TestHealthHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/health" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"status":"healthy"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", Timeouts{})
	status := client.Health(context.Background())
	if status.Status != "healthy" || status.Error != "" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestHealthUnavailableNeverErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "", Timeouts{})
	status := client.Health(context.Background())
	if status.Status != "unhealthy" {
		t.Fatalf("expected unhealthy, got %+v", status)
	}
	if status.Error == "" {
		t.Fatalf("expected error detail")
	}
}

func TestHealthTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"status":"healthy"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", Timeouts{Health: 20 * time.Millisecond})
	status := client.Health(context.Background())
	if status.Status != "unhealthy" || status.Error == "" {
		t.Fatalf("expected unhealthy with detail, got %+v", status)
	}
}

func TestHealthNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "down for maintenance")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", Timeouts{})
	status := client.Health(context.Background())
	if status.Status != "unhealthy" || status.Error == "" {
		t.Fatalf("expected unhealthy with detail, got %+v", status)
	}
}
