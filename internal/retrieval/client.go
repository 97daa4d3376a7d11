// Package retrieval talks to the external knowledge service that produces
// cuisine corpora, and turns its free-form responses into validated payloads.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client fetches the raw corpus text for one cuisine. Implementations should
// return transport and quota errors as-is; schema checking happens in
// ParsePayload.
type Client interface {
	FetchCuisine(ctx context.Context, cuisine string) (string, error)
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the knowledge API
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

// Config holds the knowledge API settings.
type Config struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// HTTPClient is the production Client, a chat-completions style caller.
type HTTPClient struct {
	config Config
	http   *http.Client
	logger *zap.Logger
}

// NewHTTPClient creates a knowledge API client. The logger may be nil.
func NewHTTPClient(config Config, logger *zap.Logger) *HTTPClient {
	if config.APIURL == "" {
		config.APIURL = "https://api.deepseek.com/v1/chat/completions"
	}
	if config.Model == "" {
		config.Model = "deepseek-chat"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

const corpusSystemPrompt = `You are a cultural culinary researcher. For the requested cuisine, respond in JSON format with the following structure:
{
    "culture": "cuisine name",
    "meals": [
        {
            "name": "Traditional dish name",
            "description": "One or two sentences about the dish",
            "cooking_techniques": ["technique"],
            "healthy_ingredients": ["ingredient"],
            "healthy_modifications": ["modification keeping the dish authentic"]
        }
    ],
    "summary": {
        "common_healthy_ingredients": ["ingredient"],
        "common_cooking_techniques": ["technique"],
        "key_flavor_profiles": ["flavor"],
        "traditional_meal_patterns": ["pattern"]
    }
}

The meals array MUST contain exactly 10 traditional dishes.
Every meal MUST have a non-empty name and description.
All fields must be present; use empty arrays when you have nothing to add.`

// FetchCuisine asks the knowledge API for the corpus of one cuisine and
// returns the raw message content.
func (c *HTTPClient) FetchCuisine(ctx context.Context, cuisine string) (string, error) {
	reqBody := Request{
		Model: c.config.Model,
		Messages: []Message{
			{Role: "system", Content: corpusSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Provide the healthy-cooking knowledge corpus for %s cuisine.", cuisine)},
		},
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature: 0.4,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: %s", ErrRateLimited, bytes.TrimSpace(body))
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("knowledge API request failed",
			zap.String("cuisine", cuisine),
			zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	return result.Choices[0].Message.Content, nil
}
