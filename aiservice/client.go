// Package aiservice provides the HTTP client for the external AI
// inference service.
package aiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hackrx/chatgateway/domain"
)

// Timeouts bounds each outbound call. Zero values fall back to the
// defaults below.
type Timeouts struct {
	Chat   time.Duration
	Run    time.Duration
	Health time.Duration
}

const (
	defaultChatTimeout   = 30 * time.Second
	defaultRunTimeout    = 60 * time.Second
	defaultHealthTimeout = 5 * time.Second
)

// Client is the AI service client. It is stateless per call and performs
// a single attempt per request; no retries.
type Client struct {
	baseURL    string
	apiKey     string
	timeouts   Timeouts
	httpClient *http.Client
}

// NewClient creates a new AI service client.
func NewClient(baseURL, apiKey string, timeouts Timeouts) *Client {
	if timeouts.Chat <= 0 {
		timeouts.Chat = defaultChatTimeout
	}
	if timeouts.Run <= 0 {
		timeouts.Run = defaultRunTimeout
	}
	if timeouts.Health <= 0 {
		timeouts.Health = defaultHealthTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		timeouts:   timeouts,
		httpClient: &http.Client{},
	}
}

// HasAPIKey reports whether a bearer token is configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

type chatRequest struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type runRequest struct {
	Documents string   `json:"documents"`
	Questions []string `json:"questions"`
}

type runResponse struct {
	Answers []string `json:"answers"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Chat sends a single-turn message and returns the answer text. A
// response payload without an answer field is returned verbatim rather
// than treated as a failure.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Chat)
	defer cancel()

	body, err := c.post(ctx, "/api/v1/chat", chatRequest{
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil || result.Response == "" {
		return string(body), nil
	}
	return result.Response, nil
}

// RunQuestions sends a batch of questions against a knowledge source and
// returns the answers in the same order as the questions.
func (c *Client) RunQuestions(ctx context.Context, documents string, questions []string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Run)
	defer cancel()

	body, err := c.post(ctx, "/api/v1/hackrx/run", runRequest{
		Documents: documents,
		Questions: questions,
	})
	if err != nil {
		return nil, err
	}

	var result runResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &domain.BackendError{Status: http.StatusOK, Body: string(body)}
	}
	return result.Answers, nil
}

// Health probes the AI service. It never returns an error: transport
// failures are reported as an unhealthy status so the health aggregator
// cannot itself fail.
func (c *Client) Health(ctx context.Context) domain.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Health)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return domain.HealthStatus{Status: "unhealthy", Error: err.Error()}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.HealthStatus{Status: "unhealthy", Error: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.HealthStatus{Status: "unhealthy", Error: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return domain.HealthStatus{Status: "unhealthy", Error: fmt.Sprintf("status %d: %s", resp.StatusCode, body)}
	}

	var result healthResponse
	if err := json.Unmarshal(body, &result); err != nil || result.Status == "" {
		return domain.HealthStatus{Status: "healthy"}
	}
	return domain.HealthStatus{Status: result.Status}
}

// post sends a JSON request and returns the raw success body. Transport
// failures map to ErrBackendUnavailable, non-2xx statuses to BackendError.
func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.BackendError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

// setHeaders sets common request headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
