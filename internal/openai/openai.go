package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bookfinder/internal/providers"
)

const DefaultURL = "https://api.openai.com/v1"

// OpenAI is a provider for OpenAI and compatible chat completion APIs
type OpenAI struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a new OpenAI provider using OPENAI_API_KEY and OPENAI_BASE_URL
func New() *OpenAI {
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &OpenAI{
		APIKey:     os.Getenv("OPENAI_API_KEY"),
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// Complete sends the prompt as a single user message
func (o *OpenAI) Complete(ctx context.Context, r providers.Request) (string, error) {
	if o.APIKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY environment variable not set", providers.ErrNotConfigured)
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model": r.Model,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": r.Prompt,
			},
		},
		"temperature": r.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	client := o.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
