// Package openai provides a client for the OpenAI chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	requestTimeout = 60 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
)

var (
	// ErrNoAPIKey indicates no API key was configured.
	ErrNoAPIKey = errors.New("openai: no API key configured")
	// ErrUnauthorized indicates the API key is invalid or revoked.
	ErrUnauthorized = errors.New("openai: unauthorized (API key invalid or revoked)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("openai: rate limited")
)

// Client calls the OpenAI chat completions endpoint.
type Client struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	http      *http.Client
}

// NewClient creates a client. Returns nil if the key is empty.
func NewClient(apiKey, baseURL, model string, maxTokens int) *Client {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = "gpt-4o"
	}
	if maxTokens < 1 {
		maxTokens = 1024
	}
	return &Client{
		apiKey:    apiKey,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		model:     model,
		maxTokens: maxTokens,
		http:      &http.Client{},
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Chat sends a system and user message and returns the model's reply.
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	messages := []chatMessage{}
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})
	return c.complete(ctx, messages)
}

// AnalyzeImage sends a base64 data-URL image alongside an instruction prompt.
// Bare base64 payloads are wrapped into a jpeg data URL.
func (c *Client) AnalyzeImage(ctx context.Context, image, prompt string) (string, error) {
	image = strings.TrimSpace(image)
	if !strings.HasPrefix(image, "data:image") {
		image = "data:image/jpeg;base64," + image
	}
	messages := []chatMessage{{
		Role: "user",
		Content: []contentPart{
			{Type: "image_url", ImageURL: &imageURL{URL: image}},
			{Type: "text", Text: prompt},
		},
	}}
	return c.complete(ctx, messages)
}

func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	payload, err := json.Marshal(chatRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai: creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("openai: reading response: %w", err)
	}

	var parsed chatResponse
	if jsonErr := json.Unmarshal(body, &parsed); jsonErr == nil && parsed.Error != nil {
		return "", fmt.Errorf("openai: api error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", errors.New("openai: response contained no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openai: response contained empty content")
	}
	return content, nil
}
