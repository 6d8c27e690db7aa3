// LLM-backed [NameSource] implementation.
//
// Talks to an OpenAI-compatible chat completions endpoint. Any failure
// (missing credential, transport error, bad status, empty content) is
// returned as an error, which callers treat as the fallback signal.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"orgseed/internal/shared"
)

const defaultLLMBaseURL = "https://api.openai.com/v1"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// LLMSource implements [NameSource] against a chat completions API.
type LLMSource struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewLLMSource creates an LLMSource from config. Returns an error when
// the credential is absent; the caller then runs template-only.
func NewLLMSource(cfg shared.LLMConfig, client *http.Client) (*LLMSource, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: llm api key", shared.ErrMissingCredentials)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultLLMBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 1.0
	}

	return &LLMSource{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(limit), 1),
	}, nil
}

// Name returns the source name.
func (s *LLMSource) Name() string { return "llm" }

// TaskNames requests count task name lines for the department and
// project type, strips enumeration markers and surrounding whitespace
// from each returned line, and returns the cleaned set.
func (s *LLMSource) TaskNames(ctx context.Context, department, projectType string, count int) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	prompt := fmt.Sprintf(
		"Generate %d realistic task names for a %s team working on a %s project at a B2B SaaS company. "+
			"Return only the task names, one per line. Make them specific and realistic.",
		count, department, projectType)

	payload, err := json.Marshal(chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   500,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", shared.ErrServiceUnavailable)
	}

	names := cleanLines(parsed.Choices[0].Message.Content)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no usable lines in completion", shared.ErrServiceUnavailable)
	}
	return names, nil
}

// cleanLines splits completion content into lines, dropping empty ones
// and stripping leading enumeration markers ("1. ", "2) ", "- ").
func cleanLines(content string) []string {
	var names []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789.-) ")
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}
